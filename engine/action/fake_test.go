package action

import (
	"fmt"
	"testing"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// recorder is a Handler that writes every call as a line such as
// "CastSpell 3".
type recorder struct {
	calls []string
}

func (r *recorder) rec(name string, args ...any) {
	if len(args) == 0 {
		r.calls = append(r.calls, name)
		return
	}
	r.calls = append(r.calls, name+" "+fmt.Sprint(args...))
}

func (r *recorder) last() string {
	if len(r.calls) == 0 {
		return ""
	}
	return r.calls[len(r.calls)-1]
}

func (r *recorder) StartMoving(dir Direction)                   { r.rec("StartMoving", dir.String()) }
func (r *recorder) StopMoving(dir Direction)                    { r.rec("StopMoving", dir.String()) }
func (r *recorder) SetHeading(h float32)                        { r.rec("SetHeading", fmt.Sprintf("%.1f", h)) }
func (r *recorder) Jump()                                       { r.rec("Jump") }
func (r *recorder) Sit()                                        { r.rec("Sit") }
func (r *recorder) Stand()                                      { r.rec("Stand") }
func (r *recorder) ToggleAutorun()                              { r.rec("ToggleAutorun") }
func (r *recorder) StopAllMovement()                            { r.rec("StopAllMovement") }
func (r *recorder) MoveToLocation(x, y, z float32)              { r.rec("MoveToLocation", fmt.Sprintf("%g,%g,%g", x, y, z)) }
func (r *recorder) MoveToEntity(name string)                    { r.rec("MoveToEntity", name) }
func (r *recorder) MoveToEntityWithinRange(n string, d float32) { r.rec("MoveToEntityWithinRange", n) }
func (r *recorder) FollowEntity(name string)                    { r.rec("FollowEntity", name) }
func (r *recorder) StopFollow()                                 { r.rec("StopFollow") }
func (r *recorder) SetMovementMode(m types.MovementMode)        { r.rec("SetMovementMode", int(m)) }
func (r *recorder) SetPositionState(p types.PositionState)      { r.rec("SetPositionState", int(p)) }
func (r *recorder) TargetEntity(id uint16)                      { r.rec("TargetEntity", id) }
func (r *recorder) TargetEntityByName(name string)              { r.rec("TargetEntityByName", name) }
func (r *recorder) TargetNearest()                              { r.rec("TargetNearest") }
func (r *recorder) ClearTarget()                                { r.rec("ClearTarget") }
func (r *recorder) EnableAutoAttack()                           { r.rec("EnableAutoAttack") }
func (r *recorder) DisableAutoAttack()                          { r.rec("DisableAutoAttack") }
func (r *recorder) ToggleAutoAttack()                           { r.rec("ToggleAutoAttack") }
func (r *recorder) CastSpell(gem uint8)                         { r.rec("CastSpell", gem) }
func (r *recorder) CastSpellOnTarget(gem uint8, id uint16)      { r.rec("CastSpellOnTarget", fmt.Sprintf("%d %d", gem, id)) }
func (r *recorder) InterruptCast()                              { r.rec("InterruptCast") }
func (r *recorder) UseAbility(id uint32)                        { r.rec("UseAbility", id) }
func (r *recorder) UseSkill(id uint32)                          { r.rec("UseSkill", id) }
func (r *recorder) Hail()                                       { r.rec("Hail") }
func (r *recorder) HailTarget()                                 { r.rec("HailTarget") }
func (r *recorder) ClickDoor(id uint8)                          { r.rec("ClickDoor", id) }
func (r *recorder) ClickNearestDoor()                           { r.rec("ClickNearestDoor") }
func (r *recorder) LootCorpse(id uint16)                        { r.rec("LootCorpse", id) }
func (r *recorder) LootItem(id uint16, slot int16)              { r.rec("LootItem", fmt.Sprintf("%d %d", id, slot)) }
func (r *recorder) LootAll(id uint16)                           { r.rec("LootAll", id) }
func (r *recorder) Consider()                                   { r.rec("Consider") }
func (r *recorder) SendChatMessage(ch ChatChannel, m string)    { r.rec("SendChatMessage", ch.String()+" "+m) }
func (r *recorder) SendTell(to, m string)                       { r.rec("SendTell", to+" "+m) }
func (r *recorder) ReplyToLastTell(m string)                    { r.rec("ReplyToLastTell", m) }
func (r *recorder) InviteToGroup(name string)                   { r.rec("InviteToGroup", name) }
func (r *recorder) InviteTarget()                               { r.rec("InviteTarget") }
func (r *recorder) AcceptGroupInvite()                          { r.rec("AcceptGroupInvite") }
func (r *recorder) DeclineGroupInvite()                         { r.rec("DeclineGroupInvite") }
func (r *recorder) LeaveGroup()                                 { r.rec("LeaveGroup") }
func (r *recorder) SetAFK(on bool)                              { r.rec("SetAFK", on) }
func (r *recorder) SetAnonymous(on bool)                        { r.rec("SetAnonymous", on) }
func (r *recorder) SetRoleplay(on bool)                         { r.rec("SetRoleplay", on) }
func (r *recorder) ToggleSneak()                                { r.rec("ToggleSneak") }
func (r *recorder) StartCamp()                                  { r.rec("StartCamp") }
func (r *recorder) CancelCamp()                                 { r.rec("CancelCamp") }
func (r *recorder) MoveItem(from, to int16, qty uint32)         { r.rec("MoveItem", fmt.Sprintf("%d %d %d", from, to, qty)) }
func (r *recorder) DeleteItem(slot int16)                       { r.rec("DeleteItem", slot) }
func (r *recorder) UseItem(slot int16)                          { r.rec("UseItem", slot) }
func (r *recorder) MemorizeSpell(gem uint8, id uint32)          { r.rec("MemorizeSpell", fmt.Sprintf("%d %d", gem, id)) }
func (r *recorder) ForgetSpell(gem uint8)                       { r.rec("ForgetSpell", gem) }
func (r *recorder) OpenSpellbook()                              { r.rec("OpenSpellbook") }
func (r *recorder) CloseSpellbook()                             { r.rec("CloseSpellbook") }
func (r *recorder) RequestTrade(id uint16)                      { r.rec("RequestTrade", id) }
func (r *recorder) AcceptTrade()                                { r.rec("AcceptTrade") }
func (r *recorder) CancelTrade()                                { r.rec("CancelTrade") }
func (r *recorder) RequestZone(zone string)                     { r.rec("RequestZone", zone) }
func (r *recorder) SendPetCommand(cmd uint8, id uint16)         { r.rec("SendPetCommand", fmt.Sprintf("%d %d", cmd, id)) }
func (r *recorder) DismissPet()                                 { r.rec("DismissPet") }
func (r *recorder) ClickWorldObject(id uint32)                  { r.rec("ClickWorldObject", id) }
func (r *recorder) TradeskillCombine()                          { r.rec("TradeskillCombine") }
func (r *recorder) SendAnimation(anim, speed uint8)             { r.rec("SendAnimation", fmt.Sprintf("%d %d", anim, speed)) }
func (r *recorder) SendPositionUpdate()                         { r.rec("SendPositionUpdate") }

var _ Handler = (*recorder)(nil)

// newZoned returns a dispatcher in a connected zone with a recorder
// attached. The player is spawn 1 at the origin.
func newZoned(t *testing.T) (*Dispatcher, *recorder, *state.GameState) {
	t.Helper()
	gs := state.New()
	gs.World().SetZoneConnected(true)
	gs.Player().SetSpawnID(1)
	gs.Player().SetName("Tester")
	d := NewDispatcher(gs, nil)
	rec := &recorder{}
	d.SetHandler(rec)
	return d, rec, gs
}

func addNPC(gs *state.GameState, id uint16, name string, x, y float32) {
	gs.Entities().AddEntity(state.Entity{SpawnID: id, Name: name, Kind: types.KindNPC, X: x, Y: y, Level: 5})
}

func assertCalls(t *testing.T, rec *recorder, want ...string) {
	t.Helper()
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %q, want %q", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("call %d = %q, want %q", i, rec.calls[i], want[i])
		}
	}
}
