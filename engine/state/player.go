package state

import (
	"time"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

// Attributes are the seven base character stats.
type Attributes struct {
	STR, STA, CHA, DEX, INT, AGI, WIS int32
}

// Currency is a purse of coins. One platinum is 1000 copper.
type Currency struct {
	Platinum, Gold, Silver, Copper int32
}

// TotalCopper converts the purse into copper.
func (c Currency) TotalCopper() int64 {
	return int64(c.Platinum)*1000 + int64(c.Gold)*100 + int64(c.Silver)*10 + int64(c.Copper)
}

// BindPoint is where the character returns on death.
type BindPoint struct {
	ZoneID  uint32
	X, Y, Z float32
	Heading float32
}

// Profile is the character snapshot applied by LoadProfile.
type Profile struct {
	Name, LastName               string
	Level                        uint8
	ClassID, Race, Gender, Deity uint32
	CurHP, MaxHP                 int32
	Mana, MaxMana                int32
	Endurance, MaxEndurance      int32
	Attributes                   Attributes
	Currency                     Currency
	X, Y, Z, Heading             float32
}

const (
	defaultMoveSpeed      = 48.5
	defaultFollowDistance = 10
	defaultSize           = 6
)

// PlayerState holds the local character. Position setters always publish
// PlayerMoved; stat setters publish PlayerStatsChanged only on change.
type PlayerState struct {
	bus *events.Bus

	x, y, z, heading float32
	size             float32
	dx, dy, dz       float32
	animation        int16
	moving           bool
	moveSpeed        float32
	movementSeq      uint32

	movementMode  types.MovementMode
	positionState types.PositionState

	targetX, targetY, targetZ float32
	hasMovementTarget         bool
	followTarget              string
	followDistance            float32

	moveForward, moveBackward bool
	turnLeft, turnRight       bool

	jumping       bool
	jumpStartZ    float32
	jumpStartTime time.Time

	spawnID     uint16
	characterID uint16
	name        string
	lastName    string
	level       uint8
	classID     uint32
	race        uint32
	gender      uint32
	deity       uint32

	curHP, maxHP            int32
	mana, maxMana           int32
	endurance, maxEndurance int32
	attrs                   Attributes
	currency                Currency
	bankCurrency            Currency
	practicePoints          uint32
	weight, maxWeight       float32
	bind                    BindPoint

	vendorNPCID    uint16
	vendorSellRate float32
	vendorName     string
	bankerNPCID    uint16
	trainerNPCID   uint16
	trainerName    string
	lootingCorpse  uint16

	sneaking  bool
	afk       bool
	anonymous bool
	roleplay  bool
	camping   bool
	campStart time.Time
}

// NewPlayerState returns a player with default movement values and level 1.
func NewPlayerState() *PlayerState {
	return &PlayerState{
		size:           defaultSize,
		moveSpeed:      defaultMoveSpeed,
		followDistance: defaultFollowDistance,
		level:          1,
		vendorSellRate: 1,
	}
}

// SetEventBus attaches the bus. A nil bus silences events.
func (p *PlayerState) SetEventBus(bus *events.Bus) { p.bus = bus }

// Position

func (p *PlayerState) X() float32       { return p.x }
func (p *PlayerState) Y() float32       { return p.y }
func (p *PlayerState) Z() float32       { return p.z }
func (p *PlayerState) Heading() float32 { return p.heading }
func (p *PlayerState) Size() float32    { return p.size }

// Position returns x, y, z.
func (p *PlayerState) Position() (float32, float32, float32) { return p.x, p.y, p.z }

func (p *PlayerState) SetPosition(x, y, z float32) {
	p.x, p.y, p.z = x, y, z
	p.fireMoved()
}

func (p *PlayerState) SetHeading(h float32) {
	p.heading = h
	p.fireMoved()
}

func (p *PlayerState) SetPositionAndHeading(x, y, z, h float32) {
	p.x, p.y, p.z, p.heading = x, y, z, h
	p.fireMoved()
}

func (p *PlayerState) SetSize(s float32) { p.size = s }

func (p *PlayerState) Velocity() (float32, float32, float32) { return p.dx, p.dy, p.dz }

func (p *PlayerState) SetVelocity(dx, dy, dz float32) { p.dx, p.dy, p.dz = dx, dy, dz }

func (p *PlayerState) Animation() int16           { return p.animation }
func (p *PlayerState) SetAnimation(a int16)       { p.animation = a }
func (p *PlayerState) IsMoving() bool             { return p.moving }
func (p *PlayerState) SetMoving(m bool)           { p.moving = m }
func (p *PlayerState) MoveSpeed() float32         { return p.moveSpeed }
func (p *PlayerState) SetMoveSpeed(s float32)     { p.moveSpeed = s }
func (p *PlayerState) MovementSequence() uint32   { return p.movementSeq }
func (p *PlayerState) IncrementMovementSequence() { p.movementSeq++ }

// Movement mode and posture

func (p *PlayerState) MovementMode() types.MovementMode { return p.movementMode }

func (p *PlayerState) SetMovementMode(m types.MovementMode) {
	if p.movementMode == m {
		return
	}
	old := p.movementMode
	p.movementMode = m
	p.bus.PublishData(events.PlayerMovementModeChanged, events.PlayerMovementModeData{
		Old: uint8(old),
		New: uint8(m),
	})
}

func (p *PlayerState) PositionState() types.PositionState { return p.positionState }

func (p *PlayerState) SetPositionState(s types.PositionState) {
	if p.positionState == s {
		return
	}
	old := p.positionState
	p.positionState = s
	p.bus.PublishData(events.PlayerPositionStateChanged, events.PlayerPositionStateData{
		Old: uint8(old),
		New: uint8(s),
	})
}

// Movement and follow targets

func (p *PlayerState) MovementTarget() (float32, float32, float32) {
	return p.targetX, p.targetY, p.targetZ
}

func (p *PlayerState) HasMovementTarget() bool { return p.hasMovementTarget }

func (p *PlayerState) SetMovementTarget(x, y, z float32) {
	p.targetX, p.targetY, p.targetZ = x, y, z
	p.hasMovementTarget = true
}

func (p *PlayerState) ClearMovementTarget() {
	p.targetX, p.targetY, p.targetZ = 0, 0, 0
	p.hasMovementTarget = false
}

func (p *PlayerState) FollowTarget() string        { return p.followTarget }
func (p *PlayerState) SetFollowTarget(name string) { p.followTarget = name }
func (p *PlayerState) ClearFollowTarget()          { p.followTarget = "" }
func (p *PlayerState) IsFollowing() bool           { return p.followTarget != "" }
func (p *PlayerState) FollowDistance() float32     { return p.followDistance }
func (p *PlayerState) SetFollowDistance(d float32) { p.followDistance = d }

// Keyboard movement flags

func (p *PlayerState) MoveForward() bool      { return p.moveForward }
func (p *PlayerState) MoveBackward() bool     { return p.moveBackward }
func (p *PlayerState) TurnLeft() bool         { return p.turnLeft }
func (p *PlayerState) TurnRight() bool        { return p.turnRight }
func (p *PlayerState) SetMoveForward(v bool)  { p.moveForward = v }
func (p *PlayerState) SetMoveBackward(v bool) { p.moveBackward = v }
func (p *PlayerState) SetTurnLeft(v bool)     { p.turnLeft = v }
func (p *PlayerState) SetTurnRight(v bool)    { p.turnRight = v }

// Jumping

func (p *PlayerState) IsJumping() bool              { return p.jumping }
func (p *PlayerState) SetJumping(v bool)            { p.jumping = v }
func (p *PlayerState) JumpStartZ() float32          { return p.jumpStartZ }
func (p *PlayerState) SetJumpStartZ(z float32)      { p.jumpStartZ = z }
func (p *PlayerState) JumpStartTime() time.Time     { return p.jumpStartTime }
func (p *PlayerState) SetJumpStartTime(t time.Time) { p.jumpStartTime = t }

// Identity

func (p *PlayerState) SpawnID() uint16          { return p.spawnID }
func (p *PlayerState) SetSpawnID(id uint16)     { p.spawnID = id }
func (p *PlayerState) CharacterID() uint16      { return p.characterID }
func (p *PlayerState) SetCharacterID(id uint16) { p.characterID = id }
func (p *PlayerState) Name() string             { return p.name }
func (p *PlayerState) SetName(n string)         { p.name = n }
func (p *PlayerState) LastName() string         { return p.lastName }
func (p *PlayerState) SetLastName(n string)     { p.lastName = n }
func (p *PlayerState) ClassID() uint32          { return p.classID }
func (p *PlayerState) SetClass(c uint32)        { p.classID = c }
func (p *PlayerState) Race() uint32             { return p.race }
func (p *PlayerState) SetRace(r uint32)         { p.race = r }
func (p *PlayerState) Gender() uint32           { return p.gender }
func (p *PlayerState) SetGender(g uint32)       { p.gender = g }
func (p *PlayerState) Deity() uint32            { return p.deity }
func (p *PlayerState) SetDeity(d uint32)        { p.deity = d }

// Level and vitals

func (p *PlayerState) Level() uint8 { return p.level }

func (p *PlayerState) SetLevel(l uint8) {
	if p.level == l {
		return
	}
	p.level = l
	p.fireStats()
}

func (p *PlayerState) CurHP() int32 { return p.curHP }
func (p *PlayerState) MaxHP() int32 { return p.maxHP }

func (p *PlayerState) SetHP(cur, max int32) {
	changed := p.curHP != cur || p.maxHP != max
	p.curHP, p.maxHP = cur, max
	if changed {
		p.fireStats()
	}
}

func (p *PlayerState) SetCurHP(hp int32) {
	if p.curHP == hp {
		return
	}
	p.curHP = hp
	p.fireStats()
}

func (p *PlayerState) CurMana() int32 { return p.mana }
func (p *PlayerState) MaxMana() int32 { return p.maxMana }

func (p *PlayerState) SetMana(cur, max int32) {
	changed := p.mana != cur || p.maxMana != max
	p.mana, p.maxMana = cur, max
	if changed {
		p.fireStats()
	}
}

func (p *PlayerState) SetCurMana(m int32) {
	if p.mana == m {
		return
	}
	p.mana = m
	p.fireStats()
}

func (p *PlayerState) CurEndurance() int32 { return p.endurance }
func (p *PlayerState) MaxEndurance() int32 { return p.maxEndurance }

func (p *PlayerState) SetEndurance(cur, max int32) {
	changed := p.endurance != cur || p.maxEndurance != max
	p.endurance, p.maxEndurance = cur, max
	if changed {
		p.fireStats()
	}
}

// HPPercent is 0-100; a character with no max HP reports 100.
func (p *PlayerState) HPPercent() uint8 {
	if p.maxHP <= 0 {
		return 100
	}
	pct := int64(p.curHP) * 100 / int64(p.maxHP)
	return uint8(clamp64(pct, 0, 100))
}

// Attributes, currency, weight, bind point

func (p *PlayerState) Attributes() Attributes     { return p.attrs }
func (p *PlayerState) SetAttributes(a Attributes) { p.attrs = a }

func (p *PlayerState) Currency() Currency          { return p.currency }
func (p *PlayerState) SetCurrency(c Currency)      { p.currency = c }
func (p *PlayerState) TotalCopperValue() int64     { return p.currency.TotalCopper() }
func (p *PlayerState) BankCurrency() Currency      { return p.bankCurrency }
func (p *PlayerState) SetBankCurrency(c Currency)  { p.bankCurrency = c }
func (p *PlayerState) TotalBankCopperValue() int64 { return p.bankCurrency.TotalCopper() }

func (p *PlayerState) PracticePoints() uint32     { return p.practicePoints }
func (p *PlayerState) SetPracticePoints(n uint32) { p.practicePoints = n }

// DecrementPracticePoints stops at zero.
func (p *PlayerState) DecrementPracticePoints() {
	if p.practicePoints > 0 {
		p.practicePoints--
	}
}

func (p *PlayerState) Weight() float32    { return p.weight }
func (p *PlayerState) MaxWeight() float32 { return p.maxWeight }

func (p *PlayerState) SetWeight(cur, max float32) { p.weight, p.maxWeight = cur, max }

func (p *PlayerState) Bind() BindPoint          { return p.bind }
func (p *PlayerState) SetBindPoint(b BindPoint) { p.bind = b }

// NPC window sessions

func (p *PlayerState) VendorNPCID() uint16     { return p.vendorNPCID }
func (p *PlayerState) VendorSellRate() float32 { return p.vendorSellRate }
func (p *PlayerState) VendorName() string      { return p.vendorName }
func (p *PlayerState) HasVendor() bool         { return p.vendorNPCID != 0 }

func (p *PlayerState) SetVendor(npcID uint16, sellRate float32, name string) {
	p.vendorNPCID, p.vendorSellRate, p.vendorName = npcID, sellRate, name
	if npcID != 0 {
		p.bus.PublishData(events.VendorWindowOpened, events.WindowOpenedData{
			NPCID:    npcID,
			NPCName:  name,
			SellRate: sellRate,
		})
	}
}

func (p *PlayerState) ClearVendor() {
	old := p.vendorNPCID
	p.vendorNPCID, p.vendorSellRate, p.vendorName = 0, 1, ""
	if old != 0 {
		p.bus.PublishData(events.VendorWindowClosed, events.WindowClosedData{NPCID: old})
	}
}

func (p *PlayerState) BankerNPCID() uint16 { return p.bankerNPCID }
func (p *PlayerState) HasBanker() bool     { return p.bankerNPCID != 0 }

func (p *PlayerState) SetBanker(npcID uint16) {
	p.bankerNPCID = npcID
	if npcID != 0 {
		p.bus.PublishData(events.BankWindowOpened, events.WindowOpenedData{
			NPCID:    npcID,
			NPCName:  "Banker",
			SellRate: 1,
		})
	}
}

func (p *PlayerState) ClearBanker() {
	old := p.bankerNPCID
	p.bankerNPCID = 0
	if old != 0 {
		p.bus.PublishData(events.BankWindowClosed, events.WindowClosedData{NPCID: old})
	}
}

func (p *PlayerState) TrainerNPCID() uint16 { return p.trainerNPCID }
func (p *PlayerState) TrainerName() string  { return p.trainerName }
func (p *PlayerState) HasTrainer() bool     { return p.trainerNPCID != 0 }

func (p *PlayerState) SetTrainer(npcID uint16, name string) {
	p.trainerNPCID, p.trainerName = npcID, name
	if npcID != 0 {
		p.bus.PublishData(events.TrainerWindowOpened, events.WindowOpenedData{
			NPCID:    npcID,
			NPCName:  name,
			SellRate: 1,
		})
	}
}

func (p *PlayerState) ClearTrainer() {
	old := p.trainerNPCID
	p.trainerNPCID, p.trainerName = 0, ""
	if old != 0 {
		p.bus.PublishData(events.TrainerWindowClosed, events.WindowClosedData{NPCID: old})
	}
}

func (p *PlayerState) LootingCorpse() uint16      { return p.lootingCorpse }
func (p *PlayerState) IsLooting() bool            { return p.lootingCorpse != 0 }
func (p *PlayerState) SetLootingCorpse(id uint16) { p.lootingCorpse = id }
func (p *PlayerState) ClearLootingCorpse()        { p.lootingCorpse = 0 }

// Behaviour flags

func (p *PlayerState) IsSneaking() bool             { return p.sneaking }
func (p *PlayerState) SetSneaking(v bool)           { p.sneaking = v }
func (p *PlayerState) IsAFK() bool                  { return p.afk }
func (p *PlayerState) SetAFK(v bool)                { p.afk = v }
func (p *PlayerState) IsAnonymous() bool            { return p.anonymous }
func (p *PlayerState) SetAnonymous(v bool)          { p.anonymous = v }
func (p *PlayerState) IsRoleplay() bool             { return p.roleplay }
func (p *PlayerState) SetRoleplay(v bool)           { p.roleplay = v }
func (p *PlayerState) IsCamping() bool              { return p.camping }
func (p *PlayerState) SetCamping(v bool)            { p.camping = v }
func (p *PlayerState) CampStartTime() time.Time     { return p.campStart }
func (p *PlayerState) SetCampStartTime(t time.Time) { p.campStart = t }

// Profile returns the snapshot LoadProfile accepts.
func (p *PlayerState) Profile() Profile {
	return Profile{
		Name:         p.name,
		LastName:     p.lastName,
		Level:        p.level,
		ClassID:      p.classID,
		Race:         p.race,
		Gender:       p.gender,
		Deity:        p.deity,
		CurHP:        p.curHP,
		MaxHP:        p.maxHP,
		Mana:         p.mana,
		MaxMana:      p.maxMana,
		Endurance:    p.endurance,
		MaxEndurance: p.maxEndurance,
		Attributes:   p.attrs,
		Currency:     p.currency,
		X:            p.x,
		Y:            p.y,
		Z:            p.z,
		Heading:      p.heading,
	}
}

// LoadProfile replaces identity, stats and position in one step and
// publishes PlayerStatsChanged followed by PlayerMoved.
func (p *PlayerState) LoadProfile(pr Profile) {
	p.name, p.lastName = pr.Name, pr.LastName
	p.level = pr.Level
	p.classID, p.race, p.gender, p.deity = pr.ClassID, pr.Race, pr.Gender, pr.Deity
	p.curHP, p.maxHP = pr.CurHP, pr.MaxHP
	p.mana, p.maxMana = pr.Mana, pr.MaxMana
	p.endurance, p.maxEndurance = pr.Endurance, pr.MaxEndurance
	p.attrs = pr.Attributes
	p.currency = pr.Currency
	p.x, p.y, p.z, p.heading = pr.X, pr.Y, pr.Z, pr.Heading
	p.fireStats()
	p.fireMoved()
}

func (p *PlayerState) fireMoved() {
	p.bus.PublishData(events.PlayerMoved, events.PlayerMovedData{
		X:        p.x,
		Y:        p.y,
		Z:        p.z,
		Heading:  p.heading,
		DX:       p.dx,
		DY:       p.dy,
		DZ:       p.dz,
		IsMoving: p.moving,
	})
}

func (p *PlayerState) fireStats() {
	p.bus.PublishData(events.PlayerStatsChanged, events.PlayerStatsChangedData{
		CurHP:        p.curHP,
		MaxHP:        p.maxHP,
		CurMana:      p.mana,
		MaxMana:      p.maxMana,
		CurEndurance: p.endurance,
		MaxEndurance: p.maxEndurance,
		Level:        p.level,
	})
}

func clamp64(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
