// Package input defines the contract between input sources and the
// per-frame input bridge, plus the line console and injection handlers.
package input

import (
	"fmt"
	"strings"
)

// Action is a discrete, one-shot input. Actions are latched until
// consumed.
type Action int

const (
	Quit Action = iota

	ToggleAutorun
	Jump

	ToggleAutoAttack
	Attack
	ClearTarget
	Consider
	Hail

	TargetSelf
	TargetGroupMember1
	TargetGroupMember2
	TargetGroupMember3
	TargetGroupMember4
	TargetGroupMember5
	TargetNearestPC
	TargetNearestNPC
	CycleTargets
	CycleTargetsReverse

	ToggleInventory
	ToggleSkills
	ToggleGroup
	ToggleVendor
	TogglePetWindow
	ToggleTrainer
	ToggleSpellbook

	InteractDoor
	InteractWorldObject
	Interact
	ReplyToTell

	OpenChat
	OpenChatSlash
	CloseChat

	actionCount
)

var actionNames = [actionCount]string{
	Quit:                "quit",
	ToggleAutorun:       "toggle_autorun",
	Jump:                "jump",
	ToggleAutoAttack:    "toggle_auto_attack",
	Attack:              "attack",
	ClearTarget:         "clear_target",
	Consider:            "consider",
	Hail:                "hail",
	TargetSelf:          "target_self",
	TargetGroupMember1:  "target_group_member_1",
	TargetGroupMember2:  "target_group_member_2",
	TargetGroupMember3:  "target_group_member_3",
	TargetGroupMember4:  "target_group_member_4",
	TargetGroupMember5:  "target_group_member_5",
	TargetNearestPC:     "target_nearest_pc",
	TargetNearestNPC:    "target_nearest_npc",
	CycleTargets:        "cycle_targets",
	CycleTargetsReverse: "cycle_targets_reverse",
	ToggleInventory:     "toggle_inventory",
	ToggleSkills:        "toggle_skills",
	ToggleGroup:         "toggle_group",
	ToggleVendor:        "toggle_vendor",
	TogglePetWindow:     "toggle_pet_window",
	ToggleTrainer:       "toggle_trainer",
	ToggleSpellbook:     "toggle_spellbook",
	InteractDoor:        "interact_door",
	InteractWorldObject: "interact_world_object",
	Interact:            "interact",
	ReplyToTell:         "reply_to_tell",
	OpenChat:            "open_chat",
	OpenChatSlash:       "open_chat_slash",
	CloseChat:           "close_chat",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

func (a Action) valid() bool { return a >= 0 && a < actionCount }

// ParseAction looks up an action by its snake_case name.
func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown input action %q", name)
}

// SpellCastRequest asks to cast from a zero-based gem slot (0-7).
type SpellCastRequest struct {
	GemSlot uint8
}

// HotbarRequest activates a zero-based hotbar button (0-9).
type HotbarRequest struct {
	Slot uint8
}

type TargetRequest struct {
	SpawnID uint16
}

type LootRequest struct {
	CorpseID uint16
}

// ChatMessage is a message typed on the console. Channel is a name such
// as "say", "tell" or "gsay"; Target is only used by tells.
type ChatMessage struct {
	Text    string
	Channel string
	Target  string
}

// MoveKind selects which fields of a MoveCommand apply.
type MoveKind int

const (
	MoveCoordinates MoveKind = iota
	MoveEntity
	MoveFace
	MoveStop
)

// MoveCommand is a queued movement request. Face uses EntityName when it
// is set and the coordinates otherwise.
type MoveCommand struct {
	Kind       MoveKind
	X, Y, Z    float32
	EntityName string
}

// State is the continuous input polled every frame.
type State struct {
	MoveForward  bool
	MoveBackward bool
	StrafeLeft   bool
	StrafeRight  bool
	TurnLeft     bool
	TurnRight    bool

	MouseX, MouseY           int
	MouseDeltaX, MouseDeltaY int
	LeftButtonDown           bool
	RightButtonDown          bool
	LeftButtonClicked        bool
	LeftButtonReleased       bool
	ClickMouseX, ClickMouseY int

	ShiftHeld bool
}

// KeyEvent is a keystroke for text entry.
type KeyEvent struct {
	KeyCode uint32
	Char    rune
	Shift   bool
	Ctrl    bool
}

// Handler is an input source. Consume methods return false when nothing
// is pending. Implementations must allow the producer side to run on a
// different goroutine than the consumer.
type Handler interface {
	// Update polls the device once per frame.
	Update()
	Active() bool

	HasAction(a Action) bool
	ConsumeAction(a Action) bool

	State() State
	ResetMouseDeltas()

	ConsumeSpellCast() (SpellCastRequest, bool)
	ConsumeHotbar() (HotbarRequest, bool)
	ConsumeTarget() (TargetRequest, bool)
	ConsumeLoot() (LootRequest, bool)

	HasPendingKeyEvents() bool
	PopKeyEvent() (KeyEvent, bool)
	ClearPendingKeyEvents()

	ConsumeChatMessage() (ChatMessage, bool)
	ConsumeMoveCommand() (MoveCommand, bool)
	ConsumeRawCommand() (string, bool)
}
