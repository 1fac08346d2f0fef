package state

import "github.com/willeq/willeq/engine/events"

// MaxGroupMembers is the fixed size of a group.
const MaxGroupMembers = 6

// GroupMember is one group slot. A slot with an empty name is free.
type GroupMember struct {
	Name        string
	SpawnID     uint16 // 0 when not in the current zone
	Level       uint8
	ClassID     uint8
	HPPercent   uint8
	ManaPercent uint8
	IsLeader    bool
	InZone      bool
}

func (m GroupMember) IsEmpty() bool { return m.Name == "" }

func emptyMember() GroupMember {
	return GroupMember{HPPercent: 100, ManaPercent: 100}
}

// GroupState holds the player's group. Member indexes outside
// [0, MaxGroupMembers) are ignored by every accessor.
type GroupState struct {
	bus *events.Bus

	inGroup     bool
	isLeader    bool
	leaderName  string
	memberCount int
	members     [MaxGroupMembers]GroupMember

	pendingInvite bool
	inviterName   string
}

func NewGroupState() *GroupState {
	g := &GroupState{}
	for i := range g.members {
		g.members[i] = emptyMember()
	}
	return g
}

func (g *GroupState) SetEventBus(bus *events.Bus) { g.bus = bus }

func (g *GroupState) InGroup() bool { return g.inGroup }

// SetInGroup publishes GroupChanged on transition. Leaving clears the
// roster.
func (g *GroupState) SetInGroup(v bool) {
	if g.inGroup == v {
		return
	}
	if !v {
		g.ClearGroup()
		return
	}
	g.inGroup = true
	g.fireChanged()
}

func (g *GroupState) IsLeader() bool { return g.isLeader }

func (g *GroupState) SetIsLeader(v bool) {
	if g.isLeader == v {
		return
	}
	g.isLeader = v
	g.fireChanged()
}

func (g *GroupState) LeaderName() string        { return g.leaderName }
func (g *GroupState) SetLeaderName(name string) { g.leaderName = name }
func (g *GroupState) MemberCount() int          { return g.memberCount }

func validIndex(i int) bool { return i >= 0 && i < MaxGroupMembers }

// Member returns a copy of slot i; ok is false for an invalid index.
func (g *GroupState) Member(i int) (GroupMember, bool) {
	if !validIndex(i) {
		return GroupMember{}, false
	}
	return g.members[i], true
}

// Members returns a copy of all slots.
func (g *GroupState) Members() [MaxGroupMembers]GroupMember { return g.members }

// FindMemberByName returns the slot index or -1.
func (g *GroupState) FindMemberByName(name string) int {
	if name == "" {
		return -1
	}
	for i, m := range g.members {
		if m.Name == name {
			return i
		}
	}
	return -1
}

// FindMemberBySpawnID returns the slot index or -1. Spawn id 0 never
// matches.
func (g *GroupState) FindMemberBySpawnID(id uint16) int {
	if id == 0 {
		return -1
	}
	for i, m := range g.members {
		if m.SpawnID == id {
			return i
		}
	}
	return -1
}

func (g *GroupState) SetMember(i int, m GroupMember) {
	if !validIndex(i) {
		return
	}
	g.members[i] = m
	g.RecalculateMemberCount()
	g.fireMember(i)
}

func (g *GroupState) UpdateMemberStats(i int, hpPercent, manaPercent uint8) {
	if !validIndex(i) {
		return
	}
	g.members[i].HPPercent = hpPercent
	g.members[i].ManaPercent = manaPercent
	g.fireMember(i)
}

// UpdateMemberSpawnID also derives InZone from the id.
func (g *GroupState) UpdateMemberSpawnID(i int, id uint16) {
	if !validIndex(i) {
		return
	}
	g.members[i].SpawnID = id
	g.members[i].InZone = id != 0
	g.fireMember(i)
}

// SetMemberInZone clears the spawn id when the member leaves the zone.
func (g *GroupState) SetMemberInZone(i int, inZone bool) {
	if !validIndex(i) {
		return
	}
	g.members[i].InZone = inZone
	if !inZone {
		g.members[i].SpawnID = 0
	}
	g.fireMember(i)
}

func (g *GroupState) HasPendingInvite() bool     { return g.pendingInvite }
func (g *GroupState) PendingInviterName() string { return g.inviterName }

// SetPendingInvite publishes GroupInviteReceived.
func (g *GroupState) SetPendingInvite(inviter string) {
	g.pendingInvite = true
	g.inviterName = inviter
	g.bus.PublishData(events.GroupInviteReceived, g.changedData())
}

func (g *GroupState) ClearPendingInvite() {
	g.pendingInvite = false
	g.inviterName = ""
}

// ClearGroup empties every slot and the pending invite, then publishes
// GroupChanged.
func (g *GroupState) ClearGroup() {
	g.inGroup = false
	g.isLeader = false
	g.leaderName = ""
	g.memberCount = 0
	for i := range g.members {
		g.members[i] = emptyMember()
	}
	g.ClearPendingInvite()
	g.fireChanged()
}

func (g *GroupState) RecalculateMemberCount() {
	n := 0
	for _, m := range g.members {
		if !m.IsEmpty() {
			n++
		}
	}
	g.memberCount = n
}

func (g *GroupState) changedData() events.GroupChangedData {
	return events.GroupChangedData{
		InGroup:     g.inGroup,
		IsLeader:    g.isLeader,
		LeaderName:  g.leaderName,
		MemberCount: g.memberCount,
	}
}

func (g *GroupState) fireChanged() {
	g.bus.PublishData(events.GroupChanged, g.changedData())
}

func (g *GroupState) fireMember(i int) {
	m := g.members[i]
	g.bus.PublishData(events.GroupMemberUpdated, events.GroupMemberUpdatedData{
		Index:       i,
		Name:        m.Name,
		SpawnID:     m.SpawnID,
		Level:       m.Level,
		ClassID:     m.ClassID,
		HPPercent:   m.HPPercent,
		ManaPercent: m.ManaPercent,
		InZone:      m.InZone,
	})
}
