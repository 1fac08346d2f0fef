package offline

import (
	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Chat

func (w *World) SendChatMessage(ch action.ChatChannel, msg string) {
	if ch == action.Group && !w.gs.Group().InGroup() {
		w.system("You are not in a group.")
		return
	}
	w.chat(w.gs.Player().Name(), ch, msg)
}

// findPlayer returns another player character in the zone by display
// name, ignoring case.
func (w *World) findPlayer(name string) *state.Entity {
	want := foldName(name)
	self := w.gs.Player().SpawnID()
	var found *state.Entity
	w.gs.Entities().ForEach(func(e *state.Entity) {
		if found == nil && e.IsPlayer() && e.SpawnID != self && foldName(e.DisplayName()) == want {
			found = e
		}
	})
	return found
}

func (w *World) SendTell(target, msg string) {
	e := w.findPlayer(target)
	if e == nil {
		w.systemf("%s is not online at this time.", target)
		return
	}
	w.systemf("You told %s, '%s'", e.DisplayName(), msg)
}

func (w *World) ReplyToLastTell(msg string) {
	if w.lastTeller == "" {
		w.system("You have not received a tell to reply to.")
		return
	}
	w.SendTell(w.lastTeller, msg)
}

// ReceiveTell delivers a tell from another player.
func (w *World) ReceiveTell(from, msg string) {
	w.lastTeller = from
	w.chat(from, action.Tell, msg)
}

// Group

// formGroup creates a group led by the player with the named players as
// members. Names not present in the zone join as out-of-zone members.
func (w *World) formGroup(names []string) {
	if len(names) == 0 {
		return
	}
	g := w.gs.Group()
	if !g.InGroup() {
		p := w.gs.Player()
		g.SetInGroup(true)
		g.SetIsLeader(true)
		g.SetLeaderName(p.Name())
		g.SetMember(0, w.selfMember(true))
	}
	for _, n := range names {
		w.addMember(n)
	}
}

func (w *World) selfMember(leader bool) state.GroupMember {
	p := w.gs.Player()
	return state.GroupMember{
		Name:        p.Name(),
		SpawnID:     p.SpawnID(),
		Level:       p.Level(),
		ClassID:     uint8(p.ClassID()),
		HPPercent:   p.HPPercent(),
		ManaPercent: 100,
		IsLeader:    leader,
		InZone:      true,
	}
}

// addMember puts name in the first free slot. It reports false when the
// group is full or the player is already a member.
func (w *World) addMember(name string) bool {
	g := w.gs.Group()
	if g.FindMemberByName(name) >= 0 {
		return false
	}
	for i, m := range g.Members() {
		if !m.IsEmpty() {
			continue
		}
		member := state.GroupMember{Name: name, HPPercent: 100, ManaPercent: 100}
		if e := w.findPlayer(name); e != nil {
			member.Name = e.DisplayName()
			member.SpawnID = e.SpawnID
			member.Level = e.Level
			member.ClassID = e.ClassID
			member.HPPercent = e.HPPercent
			member.InZone = true
		}
		g.SetMember(i, member)
		return true
	}
	return false
}

// syncGroup refreshes which members are in the current zone.
func (w *World) syncGroup() {
	g := w.gs.Group()
	if !g.InGroup() {
		return
	}
	self := w.gs.Player().Name()
	for i, m := range g.Members() {
		if m.IsEmpty() {
			continue
		}
		if m.Name == self {
			g.UpdateMemberSpawnID(i, w.gs.Player().SpawnID())
			g.SetMemberInZone(i, true)
			continue
		}
		e := w.findPlayer(m.Name)
		g.SetMemberInZone(i, e != nil)
		if e != nil {
			g.UpdateMemberSpawnID(i, e.SpawnID)
		}
	}
}

func (w *World) InviteToGroup(name string) {
	g := w.gs.Group()
	if g.InGroup() && !g.IsLeader() {
		w.system("Only the group leader can invite.")
		return
	}
	e := w.findPlayer(name)
	if e == nil {
		w.systemf("%s is not online at this time.", name)
		return
	}
	if g.FindMemberByName(e.DisplayName()) >= 0 {
		w.systemf("%s is already in your group.", e.DisplayName())
		return
	}
	if g.InGroup() && g.MemberCount() >= state.MaxGroupMembers {
		w.system("Your group is full.")
		return
	}
	w.formGroup([]string{e.DisplayName()})
	w.systemf("%s has joined the group.", e.DisplayName())
}

func (w *World) InviteTarget() {
	e := w.gs.Entities().GetEntity(w.gs.Combat().TargetID())
	if e == nil || !e.IsPlayer() || e.SpawnID == w.gs.Player().SpawnID() {
		w.system("You can only invite players.")
		return
	}
	w.InviteToGroup(e.DisplayName())
}

// ReceiveGroupInvite records an invitation from another player.
func (w *World) ReceiveGroupInvite(inviter string) {
	if w.gs.Group().InGroup() {
		return
	}
	w.gs.Group().SetPendingInvite(inviter)
	w.systemf("%s invites you to join a group.", inviter)
}

func (w *World) AcceptGroupInvite() {
	g := w.gs.Group()
	inviter := g.PendingInviterName()
	if inviter == "" {
		return
	}
	g.ClearPendingInvite()
	g.SetInGroup(true)
	g.SetIsLeader(false)
	g.SetLeaderName(inviter)

	leader := state.GroupMember{Name: inviter, HPPercent: 100, ManaPercent: 100, IsLeader: true}
	if e := w.findPlayer(inviter); e != nil {
		leader.SpawnID, leader.Level, leader.ClassID, leader.InZone = e.SpawnID, e.Level, e.ClassID, true
	}
	g.SetMember(0, leader)
	g.SetMember(1, w.selfMember(false))
	w.systemf("You have joined %s's group.", inviter)
}

func (w *World) DeclineGroupInvite() {
	g := w.gs.Group()
	if !g.HasPendingInvite() {
		return
	}
	inviter := g.PendingInviterName()
	g.ClearPendingInvite()
	w.systemf("You decline %s's invitation.", inviter)
}

func (w *World) LeaveGroup() {
	if !w.gs.Group().InGroup() {
		return
	}
	w.gs.Group().ClearGroup()
	w.system("You have left the group.")
}

// Character state

func (w *World) SetAFK(on bool) {
	w.gs.Player().SetAFK(on)
	if on {
		w.system("You are now A.F.K. (Away From Keyboard).")
	} else {
		w.system("You are no longer A.F.K.")
	}
}

func (w *World) SetAnonymous(on bool) {
	w.gs.Player().SetAnonymous(on)
	if on {
		w.system("You are now anonymous.")
	} else {
		w.system("You are no longer anonymous.")
	}
}

func (w *World) SetRoleplay(on bool) {
	w.gs.Player().SetRoleplay(on)
	if on {
		w.system("You are now roleplaying.")
	} else {
		w.system("You are no longer roleplaying.")
	}
}

func (w *World) ToggleSneak() {
	p := w.gs.Player()
	if p.IsSneaking() {
		w.SetMovementMode(types.MoveRun)
		w.system("You stop sneaking.")
		return
	}
	w.SetMovementMode(types.MoveSneak)
	w.system("You are as quiet as a cat stalking its prey.")
}

func (w *World) StartCamp() {
	p := w.gs.Player()
	if w.dead() || p.IsCamping() {
		return
	}
	w.Sit()
	p.SetCamping(true)
	p.SetCampStartTime(w.clock())
	w.campT = campDuration
	w.system("It will take you about 30 seconds to prepare your camp.")
}

func (w *World) CancelCamp() {
	p := w.gs.Player()
	if !p.IsCamping() {
		return
	}
	p.SetCamping(false)
	w.campT = 0
	w.system("You abandon your preparations to camp.")
}
