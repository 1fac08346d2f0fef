package offline

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/types"
)

func TestSendChatMessage(t *testing.T) {
	w := newTestWorld(t)
	w.SendChatMessage(action.OOC, "anyone selling bone chips?")
	testutil.AssertEqual(t, "chats", len(w.chats), 1)
	c := w.chats[0]
	testutil.AssertEqual(t, "sender", c.Sender, "Tester")
	testutil.AssertEqual(t, "channel", c.ChannelName, "ooc")
	testutil.AssertEqual(t, "channel type", c.ChannelType, uint32(5))

	w.SendChatMessage(action.Group, "inc")
	testutil.AssertEqual(t, "no group", w.last(), "You are not in a group.")
	testutil.AssertEqual(t, "not sent", len(w.chats), 1)
}

func TestTells(t *testing.T) {
	w := newTestWorld(t)

	w.ReplyToLastTell("hi")
	testutil.AssertEqual(t, "nothing to reply", w.last(), "You have not received a tell to reply to.")

	w.SendTell("bob", "hello")
	testutil.AssertEqual(t, "sent", w.last(), "You told Bob, 'hello'")

	w.SendTell("Nobody", "hello")
	testutil.AssertEqual(t, "offline", w.last(), "Nobody is not online at this time.")

	w.ReceiveTell("Alice", "need a port?")
	testutil.AssertEqual(t, "last teller", w.LastTeller(), "Alice")
	testutil.AssertEqual(t, "received", w.chatted("Alice", "need a port?"), true)

	w.ReplyToLastTell("yes please")
	testutil.AssertEqual(t, "reply", w.last(), "You told Alice, 'yes please'")
}

func TestInviteToGroup(t *testing.T) {
	w := newTestWorld(t)
	g := w.State().Group()

	w.InviteToGroup("alice")
	testutil.AssertEqual(t, "joined", w.last(), "Alice has joined the group.")
	testutil.AssertEqual(t, "in group", g.InGroup(), true)
	testutil.AssertEqual(t, "leader", g.IsLeader(), true)
	testutil.AssertEqual(t, "leader name", g.LeaderName(), "Tester")
	testutil.AssertEqual(t, "members", g.MemberCount(), 2)

	w.InviteToGroup("Alice")
	testutil.AssertEqual(t, "duplicate", w.last(), "Alice is already in your group.")

	w.InviteToGroup("Zed")
	testutil.AssertEqual(t, "missing", w.last(), "Zed is not online at this time.")

	w.SendChatMessage(action.Group, "pull")
	testutil.AssertEqual(t, "group chat", w.chatted("Tester", "pull"), true)

	w.LeaveGroup()
	testutil.AssertEqual(t, "left", g.InGroup(), false)
	testutil.AssertEqual(t, "message", w.last(), "You have left the group.")
}

func TestInviteTarget(t *testing.T) {
	w := newTestWorld(t)
	w.TargetEntity(10)
	w.InviteTarget()
	testutil.AssertEqual(t, "npc", w.last(), "You can only invite players.")

	w.TargetEntity(20)
	w.InviteTarget()
	testutil.AssertEqual(t, "player", w.last(), "Bob has joined the group.")
}

func TestGroupInvite_AcceptAndDecline(t *testing.T) {
	w := newTestWorld(t)
	g := w.State().Group()

	w.ReceiveGroupInvite("Carol")
	testutil.AssertEqual(t, "pending", g.HasPendingInvite(), true)
	testutil.AssertEqual(t, "message", w.last(), "Carol invites you to join a group.")
	w.DeclineGroupInvite()
	testutil.AssertEqual(t, "declined", g.HasPendingInvite(), false)
	testutil.AssertEqual(t, "message", w.last(), "You decline Carol's invitation.")

	w.ReceiveGroupInvite("Bob")
	w.AcceptGroupInvite()
	testutil.AssertEqual(t, "in group", g.InGroup(), true)
	testutil.AssertEqual(t, "not leader", g.IsLeader(), false)
	testutil.AssertEqual(t, "leader name", g.LeaderName(), "Bob")
	leader, _ := g.Member(0)
	testutil.AssertEqual(t, "leader slot", leader.Name, "Bob")
	testutil.AssertEqual(t, "leader spawn", leader.SpawnID, uint16(20))
	self, _ := g.Member(1)
	testutil.AssertEqual(t, "self slot", self.Name, "Tester")
	testutil.AssertEqual(t, "message", w.last(), "You have joined Bob's group.")

	w.InviteToGroup("Alice")
	testutil.AssertEqual(t, "member cannot invite", w.last(), "Only the group leader can invite.")
}

func TestGroupWith_TracksZone(t *testing.T) {
	w := newTestWorld(t, func(z *types.ZoneDef) { z.Player.GroupWith = []string{"Bob", "Dave"} })
	g := w.State().Group()
	testutil.AssertEqual(t, "members", g.MemberCount(), 3)

	dave, _ := g.Member(g.FindMemberByName("Dave"))
	testutil.AssertEqual(t, "dave away", dave.InZone, false)
	bob, _ := g.Member(g.FindMemberByName("Bob"))
	testutil.AssertEqual(t, "bob here", bob.InZone, true)

	w.RequestZone("qeytoqrg")
	bob, _ = g.Member(g.FindMemberByName("Bob"))
	testutil.AssertEqual(t, "bob left behind", bob.InZone, false)
	self, _ := g.Member(g.FindMemberByName("Tester"))
	testutil.AssertEqual(t, "self", self.InZone, true)
}
