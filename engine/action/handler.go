package action

import (
	"github.com/willeq/willeq/engine/parser"
	"github.com/willeq/willeq/types"
)

// Direction is a movement direction for StartMoving.
type Direction int

const (
	Forward Direction = iota
	Backward
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "unknown"
}

// ChatChannel is an outgoing chat channel.
type ChatChannel int

const (
	Say ChatChannel = iota
	Shout
	OOC
	Auction
	Tell
	Group
	Guild
	Raid
	Emote
)

var channelNames = [...]string{
	Say:     "say",
	Shout:   "shout",
	OOC:     "ooc",
	Auction: "auction",
	Tell:    "tell",
	Group:   "group",
	Guild:   "guild",
	Raid:    "raid",
	Emote:   "emote",
}

func (c ChatChannel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return "unknown"
	}
	return channelNames[c]
}

// ParseChatChannel resolves a channel name or alias ("s", "gsay", "auc").
func ParseChatChannel(name string) (ChatChannel, bool) {
	canon := parser.Channel(name)
	for i, n := range channelNames {
		if n == canon {
			return ChatChannel(i), true
		}
	}
	return Say, false
}

// Pet command ids understood by the server.
const (
	PetHealthReport uint8 = 0
	PetLeader       uint8 = 1
	PetAttack       uint8 = 2
	PetQAttack      uint8 = 3
	PetFollowMe     uint8 = 4
	PetGuardHere    uint8 = 5
	PetSit          uint8 = 6
	PetSitDown      uint8 = 7
	PetStandUp      uint8 = 8
	PetStop         uint8 = 9
	PetTaunt        uint8 = 12
	PetHold         uint8 = 15
	PetGHold        uint8 = 18
	PetSpellHold    uint8 = 21
	PetFocus        uint8 = 24
	PetFeign        uint8 = 27
	PetBackOff      uint8 = 28
	PetGetLost      uint8 = 29
	PetRegroup      uint8 = 31
)

// Handler performs primitive game actions. Calls are fire-and-forget:
// outcomes arrive later as state changes. The Dispatcher guarantees that
// every call has already passed validation.
type Handler interface {
	// Movement
	StartMoving(dir Direction)
	StopMoving(dir Direction)
	SetHeading(heading float32)
	Jump()
	Sit()
	Stand()
	ToggleAutorun()
	StopAllMovement()
	MoveToLocation(x, y, z float32)
	MoveToEntity(name string)
	MoveToEntityWithinRange(name string, distance float32)
	FollowEntity(name string)
	StopFollow()
	SetMovementMode(mode types.MovementMode)
	SetPositionState(pos types.PositionState)

	// Combat
	TargetEntity(spawnID uint16)
	TargetEntityByName(name string)
	TargetNearest()
	ClearTarget()
	EnableAutoAttack()
	DisableAutoAttack()
	ToggleAutoAttack()
	CastSpell(gem uint8)
	CastSpellOnTarget(gem uint8, targetID uint16)
	InterruptCast()
	UseAbility(abilityID uint32)
	UseSkill(skillID uint32)

	// Interaction
	Hail()
	HailTarget()
	ClickDoor(doorID uint8)
	ClickNearestDoor()
	LootCorpse(corpseID uint16)
	LootItem(corpseID uint16, slot int16)
	LootAll(corpseID uint16)
	Consider()

	// Chat
	SendChatMessage(ch ChatChannel, msg string)
	SendTell(target, msg string)
	ReplyToLastTell(msg string)

	// Group
	InviteToGroup(name string)
	InviteTarget()
	AcceptGroupInvite()
	DeclineGroupInvite()
	LeaveGroup()

	// Character state
	SetAFK(on bool)
	SetAnonymous(on bool)
	SetRoleplay(on bool)
	ToggleSneak()
	StartCamp()
	CancelCamp()

	// Inventory
	MoveItem(from, to int16, quantity uint32)
	DeleteItem(slot int16)
	UseItem(slot int16)

	// Spellbook
	MemorizeSpell(gem uint8, spellID uint32)
	ForgetSpell(gem uint8)
	OpenSpellbook()
	CloseSpellbook()

	// Trade
	RequestTrade(targetID uint16)
	AcceptTrade()
	CancelTrade()

	RequestZone(zone string)

	// Pet
	SendPetCommand(cmd uint8, targetID uint16)
	DismissPet()

	// Tradeskill
	ClickWorldObject(dropID uint32)
	TradeskillCombine()

	// Utility
	SendAnimation(animation, speed uint8)
	SendPositionUpdate()
}
