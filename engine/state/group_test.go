package state

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/events"
)

func TestGroupState_Membership(t *testing.T) {
	bus := events.NewBus()
	r := record(bus)
	g := NewGroupState()
	g.SetEventBus(bus)

	g.SetInGroup(true)
	g.SetInGroup(true)
	g.SetIsLeader(true)
	testutil.AssertEqual(t, "changed events", r.count(events.GroupChanged), 2)

	g.SetMember(0, GroupMember{Name: "Soandso", IsLeader: true, HPPercent: 100})
	g.SetMember(2, GroupMember{Name: "Fenwick", SpawnID: 40, InZone: true})
	testutil.AssertEqual(t, "member count", g.MemberCount(), 2)
	testutil.AssertEqual(t, "by name", g.FindMemberByName("Fenwick"), 2)
	testutil.AssertEqual(t, "by name miss", g.FindMemberByName("fenwick"), -1)
	testutil.AssertEqual(t, "by empty name", g.FindMemberByName(""), -1)
	testutil.AssertEqual(t, "by spawn", g.FindMemberBySpawnID(40), 2)
	testutil.AssertEqual(t, "by spawn zero", g.FindMemberBySpawnID(0), -1)

	r.reset()
	g.SetInGroup(false)
	testutil.AssertEqual(t, "leave events", r.count(events.GroupChanged), 1)
	testutil.AssertEqual(t, "count after leave", g.MemberCount(), 0)
	m, ok := g.Member(2)
	testutil.AssertEqual(t, "member ok", ok, true)
	testutil.AssertEqual(t, "slot empty", m.IsEmpty(), true)
	testutil.AssertEqual(t, "slot hp default", m.HPPercent, uint8(100))
}

func TestGroupState_InvalidIndexIsNoOp(t *testing.T) {
	bus := events.NewBus()
	r := record(bus)
	g := NewGroupState()
	g.SetEventBus(bus)

	for _, i := range []int{-1, MaxGroupMembers, 100} {
		g.SetMember(i, GroupMember{Name: "ghost"})
		g.UpdateMemberStats(i, 1, 1)
		g.UpdateMemberSpawnID(i, 5)
		g.SetMemberInZone(i, true)
		if _, ok := g.Member(i); ok {
			t.Errorf("Member(%d) reported ok", i)
		}
	}
	testutil.AssertEqual(t, "events", len(r.got), 0)
	testutil.AssertEqual(t, "count", g.MemberCount(), 0)
}

func TestGroupState_MemberZoneTracking(t *testing.T) {
	bus := events.NewBus()
	r := record(bus)
	g := NewGroupState()
	g.SetEventBus(bus)
	g.SetMember(1, GroupMember{Name: "Fenwick"})

	g.UpdateMemberSpawnID(1, 77)
	m, _ := g.Member(1)
	testutil.AssertEqual(t, "in zone", m.InZone, true)

	g.SetMemberInZone(1, false)
	m, _ = g.Member(1)
	testutil.AssertEqual(t, "left zone", m.InZone, false)
	testutil.AssertEqual(t, "spawn cleared", m.SpawnID, uint16(0))

	g.UpdateMemberStats(1, 40, 60)
	testutil.AssertEqual(t, "member events", r.count(events.GroupMemberUpdated), 4)
	last := r.got[len(r.got)-1].Data.(events.GroupMemberUpdatedData)
	testutil.AssertEqual(t, "index", last.Index, 1)
	testutil.AssertEqual(t, "hp", last.HPPercent, uint8(40))
}

func TestGroupState_PendingInvite(t *testing.T) {
	bus := events.NewBus()
	r := record(bus)
	g := NewGroupState()
	g.SetEventBus(bus)

	g.SetPendingInvite("Fenwick")
	testutil.AssertEqual(t, "pending", g.HasPendingInvite(), true)
	testutil.AssertEqual(t, "inviter", g.PendingInviterName(), "Fenwick")
	testutil.AssertEqual(t, "invite events", r.count(events.GroupInviteReceived), 1)

	g.ClearGroup()
	testutil.AssertEqual(t, "cleared", g.HasPendingInvite(), false)
	testutil.AssertEqual(t, "inviter cleared", g.PendingInviterName(), "")
}
