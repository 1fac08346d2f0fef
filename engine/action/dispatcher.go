package action

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Gem slots accepted by the spell actions. The spell bar itself holds
// state.SpellGemCount gems; the wider range is passed through unchanged.
const (
	MinGemSlot = 1
	MaxGemSlot = 12
)

// Dispatcher validates actions against game state and forwards the valid
// ones to a Handler. Every method returns a Result; a failed check never
// reaches the handler.
type Dispatcher struct {
	gs      *state.GameState
	handler Handler
	log     *zap.Logger
}

func NewDispatcher(gs *state.GameState, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{gs: gs, log: log}
}

// SetHandler attaches the handler. A nil handler fails every action.
func (d *Dispatcher) SetHandler(h Handler) { d.handler = h }

func (d *Dispatcher) Handler() Handler        { return d.handler }
func (d *Dispatcher) State() *state.GameState { return d.gs }

func (d *Dispatcher) fail(msg string) Result {
	d.log.Debug("action rejected", zap.String("reason", msg))
	return Failure(msg)
}

// ready checks that a handler is attached.
func (d *Dispatcher) ready() (Result, bool) {
	if d.handler == nil {
		return d.fail("No action handler set"), false
	}
	return Ok, true
}

// connected checks for a handler and a live zone connection.
func (d *Dispatcher) connected() (Result, bool) {
	if r, ok := d.ready(); !ok {
		return r, false
	}
	if !d.gs.World().IsZoneConnected() {
		return d.fail("Not connected to zone"), false
	}
	return Ok, true
}

// always runs fn once a handler is attached, even out of zone.
func (d *Dispatcher) always(msg string, fn func(Handler)) Result {
	if r, ok := d.ready(); !ok {
		return r
	}
	fn(d.handler)
	return Success(msg)
}

// inZone runs fn when the zone is connected.
func (d *Dispatcher) inZone(msg string, fn func(Handler)) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	fn(d.handler)
	return Success(msg)
}

// HeadingTo returns the heading from the player to (x, y) in degrees,
// 0 facing +Y and 90 facing +X, normalized to [0, 360).
func (d *Dispatcher) HeadingTo(x, y float32) float32 {
	p := d.gs.Player()
	return headingBetween(p.X(), p.Y(), x, y)
}

func headingBetween(fromX, fromY, toX, toY float32) float32 {
	dx := float64(toX - fromX)
	dy := float64(toY - fromY)
	h := math.Atan2(dx, dy) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return float32(h)
}

// NormalizeHeading wraps h into [0, 360).
func NormalizeHeading(h float32) float32 {
	h = float32(math.Mod(float64(h), 360))
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h = 0
	}
	return h
}

func validGem(gem uint8) bool { return gem >= MinGemSlot && gem <= MaxGemSlot }

// Movement

func (d *Dispatcher) StartMoving(dir Direction) Result {
	return d.inZone("", func(h Handler) { h.StartMoving(dir) })
}

func (d *Dispatcher) StopMoving(dir Direction) Result {
	return d.always("", func(h Handler) { h.StopMoving(dir) })
}

func (d *Dispatcher) StopAllMovement() Result { return d.always("", Handler.StopAllMovement) }

func (d *Dispatcher) SetHeading(heading float32) Result {
	heading = NormalizeHeading(heading)
	return d.inZone("", func(h Handler) { h.SetHeading(heading) })
}

func (d *Dispatcher) FaceLocation(x, y, z float32) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	d.handler.SetHeading(d.HeadingTo(x, y))
	return Ok
}

func (d *Dispatcher) FaceEntity(name string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	e := d.gs.Entities().FindEntityByName(name)
	if e == nil {
		return d.fail("Entity not found: " + name)
	}
	d.handler.SetHeading(d.HeadingTo(e.X, e.Y))
	return Ok
}

func (d *Dispatcher) Jump() Result          { return d.inZone("", Handler.Jump) }
func (d *Dispatcher) Sit() Result           { return d.inZone("", Handler.Sit) }
func (d *Dispatcher) Stand() Result         { return d.inZone("", Handler.Stand) }
func (d *Dispatcher) ToggleAutorun() Result { return d.inZone("", Handler.ToggleAutorun) }

func (d *Dispatcher) MoveToLocation(x, y, z float32) Result {
	return d.inZone("Moving to location", func(h Handler) { h.MoveToLocation(x, y, z) })
}

// requireEntity fails unless name matches a spawn in the zone.
func (d *Dispatcher) requireEntity(name string) (*state.Entity, Result, bool) {
	if r, ok := d.connected(); !ok {
		return nil, r, false
	}
	e := d.gs.Entities().FindEntityByName(name)
	if e == nil {
		return nil, d.fail("Entity not found: " + name), false
	}
	return e, Ok, true
}

func (d *Dispatcher) MoveToEntity(name string) Result {
	if _, r, ok := d.requireEntity(name); !ok {
		return r
	}
	d.handler.MoveToEntity(name)
	return Success("Moving to " + name)
}

func (d *Dispatcher) MoveToEntityWithinRange(name string, distance float32) Result {
	if _, r, ok := d.requireEntity(name); !ok {
		return r
	}
	d.handler.MoveToEntityWithinRange(name, distance)
	return Success("Moving to " + name)
}

func (d *Dispatcher) FollowEntity(name string) Result {
	if _, r, ok := d.requireEntity(name); !ok {
		return r
	}
	d.handler.FollowEntity(name)
	return Success("Following " + name)
}

func (d *Dispatcher) StopFollow() Result { return d.always("Stopped following", Handler.StopFollow) }

func (d *Dispatcher) SetMovementMode(mode types.MovementMode) Result {
	if mode > types.MoveSneak {
		return d.fail("Invalid movement mode")
	}
	return d.inZone("", func(h Handler) { h.SetMovementMode(mode) })
}

// SetPositionState changes posture. Dead is a server decision and is
// rejected.
func (d *Dispatcher) SetPositionState(pos types.PositionState) Result {
	if pos > types.PosFeignDeath {
		return d.fail("Invalid position state")
	}
	return d.inZone("", func(h Handler) { h.SetPositionState(pos) })
}

// Combat

func (d *Dispatcher) TargetEntity(spawnID uint16) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	e := d.gs.Entities().GetEntity(spawnID)
	if e == nil {
		return d.fail("Entity not found")
	}
	d.handler.TargetEntity(spawnID)
	return Success("Targeting " + e.Name)
}

func (d *Dispatcher) TargetEntityByName(name string) Result {
	e, r, ok := d.requireEntity(name)
	if !ok {
		return r
	}
	d.handler.TargetEntityByName(name)
	return Success("Targeting " + e.Name)
}

func (d *Dispatcher) TargetNearest() Result { return d.inZone("", Handler.TargetNearest) }

func (d *Dispatcher) TargetNearestNPC() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	x, y, z := d.gs.PlayerPosition()
	e := d.gs.Entities().NearestNPC(x, y, z)
	if e == nil {
		return d.fail("No NPC nearby")
	}
	d.handler.TargetEntity(e.SpawnID)
	return Success("Targeting " + e.Name)
}

func (d *Dispatcher) TargetNearestPC() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	x, y, z := d.gs.PlayerPosition()
	e := d.gs.Entities().NearestPlayer(x, y, z, d.gs.Player().SpawnID())
	if e == nil {
		return d.fail("No player nearby")
	}
	d.handler.TargetEntity(e.SpawnID)
	return Success("Targeting " + e.Name)
}

func (d *Dispatcher) TargetSelf() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	p := d.gs.Player()
	if p.SpawnID() == 0 {
		return d.fail("Not spawned")
	}
	d.handler.TargetEntity(p.SpawnID())
	return Success("Targeting " + p.Name())
}

// TargetGroupMember targets the n-th other group member, counting from 1
// in roster order.
func (d *Dispatcher) TargetGroupMember(n int) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	g := d.gs.Group()
	if !g.InGroup() {
		return d.fail("Not in a group")
	}
	self := d.gs.Player().Name()
	seen := 0
	for _, m := range g.Members() {
		if m.IsEmpty() || m.Name == self {
			continue
		}
		seen++
		if seen != n {
			continue
		}
		if !m.InZone || m.SpawnID == 0 || !d.gs.Entities().HasEntity(m.SpawnID) {
			return d.fail(m.Name + " is not in this zone")
		}
		d.handler.TargetEntity(m.SpawnID)
		return Success("Targeting " + m.Name)
	}
	return d.fail(fmt.Sprintf("No group member %d", n))
}

func (d *Dispatcher) ClearTarget() Result { return d.always("Target cleared", Handler.ClearTarget) }

// requireTarget fails unless the player has a target.
func (d *Dispatcher) requireTarget() (Result, bool) {
	if r, ok := d.connected(); !ok {
		return r, false
	}
	if !d.gs.Combat().HasTarget() {
		return d.fail("No target"), false
	}
	return Ok, true
}

func (d *Dispatcher) EnableAutoAttack() Result {
	if r, ok := d.requireTarget(); !ok {
		return r
	}
	d.handler.EnableAutoAttack()
	return Success("Auto-attack enabled")
}

func (d *Dispatcher) DisableAutoAttack() Result {
	return d.always("Auto-attack disabled", Handler.DisableAutoAttack)
}

func (d *Dispatcher) ToggleAutoAttack() Result { return d.inZone("", Handler.ToggleAutoAttack) }

// CastSpell casts from a 1-based gem slot.
func (d *Dispatcher) CastSpell(gem uint8) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !validGem(gem) {
		return d.fail("Invalid gem slot (1-12)")
	}
	d.handler.CastSpell(gem)
	return Ok
}

func (d *Dispatcher) CastSpellOnTarget(gem uint8, targetID uint16) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !validGem(gem) {
		return d.fail("Invalid gem slot (1-12)")
	}
	d.handler.CastSpellOnTarget(gem, targetID)
	return Ok
}

func (d *Dispatcher) InterruptCast() Result {
	return d.always("Cast interrupted", Handler.InterruptCast)
}

func (d *Dispatcher) UseAbility(abilityID uint32) Result {
	return d.inZone("", func(h Handler) { h.UseAbility(abilityID) })
}

func (d *Dispatcher) UseSkill(skillID uint32) Result {
	return d.inZone("", func(h Handler) { h.UseSkill(skillID) })
}

func (d *Dispatcher) Consider() Result {
	if r, ok := d.requireTarget(); !ok {
		return r
	}
	d.handler.Consider()
	return Ok
}

// Interaction

func (d *Dispatcher) Hail() Result { return d.inZone("", Handler.Hail) }

func (d *Dispatcher) HailTarget() Result {
	if r, ok := d.requireTarget(); !ok {
		return r
	}
	d.handler.HailTarget()
	return Ok
}

func (d *Dispatcher) ClickDoor(doorID uint8) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if d.gs.Doors().GetDoor(doorID) == nil {
		return d.fail("Door not found")
	}
	d.handler.ClickDoor(doorID)
	return Ok
}

func (d *Dispatcher) ClickNearestDoor() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	x, y, z := d.gs.PlayerPosition()
	if d.gs.Doors().NearestDoor(x, y, z) == nil {
		return d.fail("No door nearby")
	}
	d.handler.ClickNearestDoor()
	return Ok
}

// InteractNearest clicks the nearest door or targets and hails the
// nearest NPC, whichever is closer. A door wins a tie.
func (d *Dispatcher) InteractNearest() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	x, y, z := d.gs.PlayerPosition()
	door := d.gs.Doors().NearestDoor(x, y, z)
	npc := d.gs.Entities().NearestNPC(x, y, z)

	switch {
	case door == nil && npc == nil:
		return d.fail("Nothing nearby to interact with")
	case npc == nil || (door != nil && dist(x, y, z, door.X, door.Y, door.Z) <= npc.DistanceTo(x, y, z)):
		d.handler.ClickDoor(door.DoorID)
		return Ok
	default:
		d.handler.TargetEntity(npc.SpawnID)
		d.handler.HailTarget()
		return Success("Hailing " + npc.DisplayName())
	}
}

func dist(x1, y1, z1, x2, y2, z2 float32) float32 {
	dx, dy, dz := x1-x2, y1-y2, z1-z2
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

func (d *Dispatcher) LootCorpse(corpseID uint16) Result {
	return d.inZone("", func(h Handler) { h.LootCorpse(corpseID) })
}

func (d *Dispatcher) LootNearestCorpse() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	x, y, z := d.gs.PlayerPosition()
	c := d.gs.Entities().NearestCorpse(x, y, z)
	if c == nil {
		return d.fail("No corpse nearby")
	}
	d.handler.LootCorpse(c.SpawnID)
	return Success("Looting " + c.DisplayName())
}

func (d *Dispatcher) LootItem(corpseID uint16, slot int16) Result {
	return d.inZone("", func(h Handler) { h.LootItem(corpseID, slot) })
}

func (d *Dispatcher) LootAll(corpseID uint16) Result {
	return d.inZone("", func(h Handler) { h.LootAll(corpseID) })
}

// Chat

func (d *Dispatcher) SendChatMessage(ch ChatChannel, msg string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if msg == "" {
		return d.fail("Empty message")
	}
	d.handler.SendChatMessage(ch, msg)
	return Ok
}

func (d *Dispatcher) SendTell(target, msg string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if target == "" {
		return d.fail("No target specified")
	}
	if msg == "" {
		return d.fail("Empty message")
	}
	d.handler.SendTell(target, msg)
	return Ok
}

func (d *Dispatcher) ReplyToLastTell(msg string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if msg == "" {
		return d.fail("Empty message")
	}
	d.handler.ReplyToLastTell(msg)
	return Ok
}

// Group

func (d *Dispatcher) InviteToGroup(name string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if name == "" {
		return d.fail("No player specified")
	}
	d.handler.InviteToGroup(name)
	return Success("Invited " + name + " to group")
}

func (d *Dispatcher) InviteTarget() Result {
	if r, ok := d.requireTarget(); !ok {
		return r
	}
	d.handler.InviteTarget()
	return Ok
}

func (d *Dispatcher) AcceptGroupInvite() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !d.gs.Group().HasPendingInvite() {
		return d.fail("No pending group invite")
	}
	d.handler.AcceptGroupInvite()
	return Success("Accepted group invite")
}

func (d *Dispatcher) DeclineGroupInvite() Result {
	if r, ok := d.ready(); !ok {
		return r
	}
	if !d.gs.Group().HasPendingInvite() {
		return d.fail("No pending group invite")
	}
	d.handler.DeclineGroupInvite()
	return Success("Declined group invite")
}

func (d *Dispatcher) LeaveGroup() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !d.gs.Group().InGroup() {
		return d.fail("Not in a group")
	}
	d.handler.LeaveGroup()
	return Success("Left group")
}

// Character state

func onOff(label string, on bool) string {
	if on {
		return label + " enabled"
	}
	return label + " disabled"
}

func (d *Dispatcher) SetAFK(on bool) Result {
	return d.inZone(onOff("AFK", on), func(h Handler) { h.SetAFK(on) })
}

func (d *Dispatcher) ToggleAFK() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	return d.SetAFK(!d.gs.Player().IsAFK())
}

func (d *Dispatcher) SetAnonymous(on bool) Result {
	return d.inZone(onOff("Anonymous", on), func(h Handler) { h.SetAnonymous(on) })
}

func (d *Dispatcher) SetRoleplay(on bool) Result {
	return d.inZone(onOff("Roleplay", on), func(h Handler) { h.SetRoleplay(on) })
}

func (d *Dispatcher) ToggleSneak() Result { return d.inZone("", Handler.ToggleSneak) }

func (d *Dispatcher) StartCamp() Result {
	return d.inZone("Camping... Stand up to cancel", Handler.StartCamp)
}

func (d *Dispatcher) CancelCamp() Result { return d.always("Camp cancelled", Handler.CancelCamp) }

// Inventory

func (d *Dispatcher) MoveItem(from, to int16, quantity uint32) Result {
	return d.inZone("", func(h Handler) { h.MoveItem(from, to, quantity) })
}

func (d *Dispatcher) DeleteItem(slot int16) Result {
	return d.inZone("", func(h Handler) { h.DeleteItem(slot) })
}

func (d *Dispatcher) UseItem(slot int16) Result {
	return d.inZone("", func(h Handler) { h.UseItem(slot) })
}

// Spellbook

func (d *Dispatcher) MemorizeSpell(gem uint8, spellID uint32) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !validGem(gem) {
		return d.fail("Invalid gem slot (1-12)")
	}
	d.handler.MemorizeSpell(gem, spellID)
	return Ok
}

func (d *Dispatcher) ForgetSpell(gem uint8) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !validGem(gem) {
		return d.fail("Invalid gem slot (1-12)")
	}
	d.handler.ForgetSpell(gem)
	return Ok
}

func (d *Dispatcher) OpenSpellbook() Result  { return d.inZone("", Handler.OpenSpellbook) }
func (d *Dispatcher) CloseSpellbook() Result { return d.always("", Handler.CloseSpellbook) }

// Trade

func (d *Dispatcher) RequestTrade(targetID uint16) Result {
	return d.inZone("", func(h Handler) { h.RequestTrade(targetID) })
}

func (d *Dispatcher) AcceptTrade() Result { return d.inZone("", Handler.AcceptTrade) }
func (d *Dispatcher) CancelTrade() Result { return d.always("", Handler.CancelTrade) }

// Zone

func (d *Dispatcher) RequestZone(zone string) Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if zone == "" {
		return d.fail("No zone specified")
	}
	d.handler.RequestZone(zone)
	return Success("Requesting zone: " + zone)
}

// Pet

func (d *Dispatcher) SendPetCommand(cmd uint8, targetID uint16) Result {
	return d.inZone("", func(h Handler) { h.SendPetCommand(cmd, targetID) })
}

func (d *Dispatcher) DismissPet() Result {
	if r, ok := d.requirePet(); !ok {
		return r
	}
	d.handler.DismissPet()
	return Ok
}

func (d *Dispatcher) requirePet() (Result, bool) {
	if r, ok := d.connected(); !ok {
		return r, false
	}
	if !d.gs.Pet().HasPet() {
		return d.fail("You don't have a pet"), false
	}
	return Ok, true
}

func (d *Dispatcher) petCommand(cmd uint8) Result {
	if r, ok := d.requirePet(); !ok {
		return r
	}
	d.handler.SendPetCommand(cmd, 0)
	return Ok
}

// PetAttack sends the pet after the current target.
func (d *Dispatcher) PetAttack() Result {
	if r, ok := d.requirePet(); !ok {
		return r
	}
	c := d.gs.Combat()
	if !c.HasTarget() {
		return d.fail("No target selected")
	}
	d.handler.SendPetCommand(PetAttack, c.TargetID())
	return Ok
}

func (d *Dispatcher) PetBackOff() Result { return d.petCommand(PetBackOff) }
func (d *Dispatcher) PetFollow() Result  { return d.petCommand(PetFollowMe) }
func (d *Dispatcher) PetGuard() Result   { return d.petCommand(PetGuardHere) }
func (d *Dispatcher) PetSit() Result     { return d.petCommand(PetSit) }
func (d *Dispatcher) PetTaunt() Result   { return d.petCommand(PetTaunt) }
func (d *Dispatcher) PetHold() Result    { return d.petCommand(PetHold) }
func (d *Dispatcher) PetFocus() Result   { return d.petCommand(PetFocus) }
func (d *Dispatcher) PetHealth() Result  { return d.petCommand(PetHealthReport) }

// Tradeskill

func (d *Dispatcher) ClickWorldObject(dropID uint32) Result {
	return d.inZone("", func(h Handler) { h.ClickWorldObject(dropID) })
}

func (d *Dispatcher) TradeskillCombine() Result {
	if r, ok := d.connected(); !ok {
		return r
	}
	if !d.gs.Tradeskill().IsContainerOpen() {
		return d.fail("No tradeskill container open")
	}
	d.handler.TradeskillCombine()
	return Ok
}

// Utility

// DefaultAnimationSpeed is the speed emotes are played at.
const DefaultAnimationSpeed = 10

func (d *Dispatcher) SendAnimation(animation, speed uint8) Result {
	return d.inZone("", func(h Handler) { h.SendAnimation(animation, speed) })
}

func (d *Dispatcher) SendPositionUpdate() Result { return d.inZone("", Handler.SendPositionUpdate) }
