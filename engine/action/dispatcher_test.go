package action

import (
	"strconv"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

func TestDispatcher_NoHandler(t *testing.T) {
	gs := state.New()
	gs.World().SetZoneConnected(true)
	d := NewDispatcher(gs, nil)

	for name, r := range map[string]Result{
		"jump":      d.Jump(),
		"stop":      d.StopAllMovement(),
		"cast":      d.CastSpell(1),
		"say":       d.SendChatMessage(Say, "hi"),
		"clear":     d.ClearTarget(),
		"pet":       d.PetSit(),
		"interrupt": d.InterruptCast(),
	} {
		testutil.AssertEqual(t, name+" success", r.Success, false)
		testutil.AssertEqual(t, name+" message", r.Message, "No action handler set")
	}
}

func TestDispatcher_NotConnected(t *testing.T) {
	gated := map[string]func(*Dispatcher) Result{
		"StartMoving":             func(d *Dispatcher) Result { return d.StartMoving(Forward) },
		"SetHeading":              func(d *Dispatcher) Result { return d.SetHeading(90) },
		"FaceLocation":            func(d *Dispatcher) Result { return d.FaceLocation(1, 2, 3) },
		"FaceEntity":              func(d *Dispatcher) Result { return d.FaceEntity("a_rat00") },
		"Jump":                    (*Dispatcher).Jump,
		"Sit":                     (*Dispatcher).Sit,
		"Stand":                   (*Dispatcher).Stand,
		"ToggleAutorun":           (*Dispatcher).ToggleAutorun,
		"MoveToLocation":          func(d *Dispatcher) Result { return d.MoveToLocation(1, 2, 3) },
		"MoveToEntity":            func(d *Dispatcher) Result { return d.MoveToEntity("a_rat00") },
		"MoveToEntityWithinRange": func(d *Dispatcher) Result { return d.MoveToEntityWithinRange("a_rat00", 10) },
		"FollowEntity":            func(d *Dispatcher) Result { return d.FollowEntity("a_rat00") },
		"SetMovementMode":         func(d *Dispatcher) Result { return d.SetMovementMode(types.MoveWalk) },
		"SetPositionState":        func(d *Dispatcher) Result { return d.SetPositionState(types.PosSitting) },
		"TargetEntity":            func(d *Dispatcher) Result { return d.TargetEntity(10) },
		"TargetEntityByName":      func(d *Dispatcher) Result { return d.TargetEntityByName("a_rat00") },
		"TargetNearest":           (*Dispatcher).TargetNearest,
		"TargetNearestNPC":        (*Dispatcher).TargetNearestNPC,
		"TargetNearestPC":         (*Dispatcher).TargetNearestPC,
		"TargetSelf":              (*Dispatcher).TargetSelf,
		"TargetGroupMember":       func(d *Dispatcher) Result { return d.TargetGroupMember(1) },
		"EnableAutoAttack":        (*Dispatcher).EnableAutoAttack,
		"ToggleAutoAttack":        (*Dispatcher).ToggleAutoAttack,
		"CastSpell":               func(d *Dispatcher) Result { return d.CastSpell(1) },
		"CastSpellOnTarget":       func(d *Dispatcher) Result { return d.CastSpellOnTarget(1, 10) },
		"UseAbility":              func(d *Dispatcher) Result { return d.UseAbility(1) },
		"UseSkill":                func(d *Dispatcher) Result { return d.UseSkill(1) },
		"Consider":                (*Dispatcher).Consider,
		"Hail":                    (*Dispatcher).Hail,
		"HailTarget":              (*Dispatcher).HailTarget,
		"ClickDoor":               func(d *Dispatcher) Result { return d.ClickDoor(4) },
		"ClickNearestDoor":        (*Dispatcher).ClickNearestDoor,
		"InteractNearest":         (*Dispatcher).InteractNearest,
		"LootCorpse":              func(d *Dispatcher) Result { return d.LootCorpse(10) },
		"LootNearestCorpse":       (*Dispatcher).LootNearestCorpse,
		"LootItem":                func(d *Dispatcher) Result { return d.LootItem(10, 22) },
		"LootAll":                 func(d *Dispatcher) Result { return d.LootAll(10) },
		"SendChatMessage":         func(d *Dispatcher) Result { return d.SendChatMessage(Say, "hello") },
		"SendTell":                func(d *Dispatcher) Result { return d.SendTell("Bob", "hi") },
		"ReplyToLastTell":         func(d *Dispatcher) Result { return d.ReplyToLastTell("hi") },
		"InviteToGroup":           func(d *Dispatcher) Result { return d.InviteToGroup("Bob") },
		"InviteTarget":            (*Dispatcher).InviteTarget,
		"AcceptGroupInvite":       (*Dispatcher).AcceptGroupInvite,
		"LeaveGroup":              (*Dispatcher).LeaveGroup,
		"SetAFK":                  func(d *Dispatcher) Result { return d.SetAFK(true) },
		"ToggleAFK":               (*Dispatcher).ToggleAFK,
		"SetAnonymous":            func(d *Dispatcher) Result { return d.SetAnonymous(true) },
		"SetRoleplay":             func(d *Dispatcher) Result { return d.SetRoleplay(true) },
		"ToggleSneak":             (*Dispatcher).ToggleSneak,
		"StartCamp":               (*Dispatcher).StartCamp,
		"MoveItem":                func(d *Dispatcher) Result { return d.MoveItem(22, 23, 1) },
		"DeleteItem":              func(d *Dispatcher) Result { return d.DeleteItem(22) },
		"UseItem":                 func(d *Dispatcher) Result { return d.UseItem(22) },
		"MemorizeSpell":           func(d *Dispatcher) Result { return d.MemorizeSpell(1, 201) },
		"ForgetSpell":             func(d *Dispatcher) Result { return d.ForgetSpell(1) },
		"OpenSpellbook":           (*Dispatcher).OpenSpellbook,
		"RequestTrade":            func(d *Dispatcher) Result { return d.RequestTrade(10) },
		"AcceptTrade":             (*Dispatcher).AcceptTrade,
		"RequestZone":             func(d *Dispatcher) Result { return d.RequestZone("freportw") },
		"SendPetCommand":          func(d *Dispatcher) Result { return d.SendPetCommand(PetSit, 0) },
		"DismissPet":              (*Dispatcher).DismissPet,
		"PetAttack":               (*Dispatcher).PetAttack,
		"PetBackOff":              (*Dispatcher).PetBackOff,
		"PetFollow":               (*Dispatcher).PetFollow,
		"PetGuard":                (*Dispatcher).PetGuard,
		"PetSit":                  (*Dispatcher).PetSit,
		"PetTaunt":                (*Dispatcher).PetTaunt,
		"PetHold":                 (*Dispatcher).PetHold,
		"PetFocus":                (*Dispatcher).PetFocus,
		"PetHealth":               (*Dispatcher).PetHealth,
		"ClickWorldObject":        func(d *Dispatcher) Result { return d.ClickWorldObject(900) },
		"TradeskillCombine":       (*Dispatcher).TradeskillCombine,
		"SendAnimation":           func(d *Dispatcher) Result { return d.SendAnimation(29, DefaultAnimationSpeed) },
		"SendPositionUpdate":      (*Dispatcher).SendPositionUpdate,
	}
	for name, call := range gated {
		t.Run(name, func(t *testing.T) {
			d, rec, gs := newZoned(t)
			// Everything the in-zone checks look for is present, so only
			// the connection can fail the call.
			addNPC(gs, 10, "a_rat00", 5, 5)
			gs.Combat().SetTarget(10, "a_rat00", 100, 1)
			gs.Pet().SetPet(50, "Gabober", 10)
			gs.Group().SetInGroup(true)
			gs.Group().SetPendingInvite("Bob")
			gs.Doors().AddDoor(state.Door{DoorID: 4, Name: "DOOR1", X: 10})
			gs.Tradeskill().OpenWorldContainer(900, "Forge", 1, 10)
			gs.World().SetZoneConnected(false)

			testutil.AssertEqual(t, "result", call(d), Failure("Not connected to zone"))
			testutil.AssertEqual(t, "no calls", len(rec.calls), 0)
		})
	}
}

func TestDispatcher_OutOfZone(t *testing.T) {
	d, rec, gs := newZoned(t)
	gs.Group().SetPendingInvite("Bob")
	gs.World().SetZoneConnected(false)

	// Stopping and cancelling work out of zone.
	testutil.AssertEqual(t, "stop moving", d.StopMoving(Left).Success, true)
	testutil.AssertEqual(t, "stop", d.StopAllMovement().Success, true)
	testutil.AssertEqual(t, "stop follow", d.StopFollow(), Success("Stopped following"))
	testutil.AssertEqual(t, "clear", d.ClearTarget(), Success("Target cleared"))
	testutil.AssertEqual(t, "stop attack", d.DisableAutoAttack(), Success("Auto-attack disabled"))
	testutil.AssertEqual(t, "interrupt", d.InterruptCast(), Success("Cast interrupted"))
	testutil.AssertEqual(t, "decline", d.DeclineGroupInvite(), Success("Declined group invite"))
	testutil.AssertEqual(t, "camp", d.CancelCamp(), Success("Camp cancelled"))
	testutil.AssertEqual(t, "spellbook", d.CloseSpellbook(), Ok)
	testutil.AssertEqual(t, "trade", d.CancelTrade(), Ok)
	assertCalls(t, rec,
		"StopMoving left",
		"StopAllMovement",
		"StopFollow",
		"ClearTarget",
		"DisableAutoAttack",
		"InterruptCast",
		"DeclineGroupInvite",
		"CancelCamp",
		"CloseSpellbook",
		"CancelTrade",
	)
}

func TestDispatcher_GemSlots(t *testing.T) {
	tests := []struct {
		gem  uint8
		want bool
	}{
		{0, false},
		{1, true},
		{8, true},
		{12, true},
		{13, false},
	}
	for _, tt := range tests {
		d, rec, _ := newZoned(t)
		r := d.CastSpell(tt.gem)
		testutil.AssertEqual(t, "cast success", r.Success, tt.want)
		if !tt.want {
			testutil.AssertEqual(t, "cast message", r.Message, "Invalid gem slot (1-12)")
			testutil.AssertEqual(t, "no call", len(rec.calls), 0)
			continue
		}
		testutil.AssertEqual(t, "call", rec.last(), "CastSpell "+strconv.Itoa(int(tt.gem)))

		testutil.AssertEqual(t, "mem", d.MemorizeSpell(tt.gem, 201).Success, true)
		testutil.AssertEqual(t, "forget", d.ForgetSpell(tt.gem).Success, true)
	}

	d, rec, _ := newZoned(t)
	testutil.AssertEqual(t, "mem 0", d.MemorizeSpell(0, 201), Failure("Invalid gem slot (1-12)"))
	testutil.AssertEqual(t, "forget 13", d.ForgetSpell(13), Failure("Invalid gem slot (1-12)"))
	testutil.AssertEqual(t, "on target 13", d.CastSpellOnTarget(13, 5).Success, false)
	testutil.AssertEqual(t, "no calls", len(rec.calls), 0)
}

func TestDispatcher_EntityChecks(t *testing.T) {
	d, rec, gs := newZoned(t)
	addNPC(gs, 10, "Fippy_Darkpaw000", 0, 20)

	testutil.AssertEqual(t, "missing", d.MoveToEntity("Gnoll"), Failure("Entity not found: Gnoll"))
	testutil.AssertEqual(t, "follow missing", d.FollowEntity("Gnoll"), Failure("Entity not found: Gnoll"))
	testutil.AssertEqual(t, "target missing", d.TargetEntity(99), Failure("Entity not found"))
	testutil.AssertEqual(t, "no calls", len(rec.calls), 0)

	testutil.AssertEqual(t, "move", d.MoveToEntity("fippy"), Success("Moving to fippy"))
	testutil.AssertEqual(t, "follow", d.FollowEntity("Fippy"), Success("Following Fippy"))
	testutil.AssertEqual(t, "target", d.TargetEntityByName("fippy darkpaw"), Success("Targeting Fippy_Darkpaw000"))
	testutil.AssertEqual(t, "target id", d.TargetEntity(10), Success("Targeting Fippy_Darkpaw000"))
	assertCalls(t, rec,
		"MoveToEntity fippy",
		"FollowEntity Fippy",
		"TargetEntityByName fippy darkpaw",
		"TargetEntity 10",
	)
}

func TestDispatcher_Facing(t *testing.T) {
	d, rec, gs := newZoned(t)
	addNPC(gs, 10, "a_rat01", 10, 0)

	testutil.AssertEqual(t, "north", d.FaceLocation(0, 50, 0), Ok)
	testutil.AssertEqual(t, "east", d.FaceEntity("rat"), Ok)
	testutil.AssertEqual(t, "missing", d.FaceEntity("bat"), Failure("Entity not found: bat"))
	testutil.AssertEqual(t, "wrap", d.SetHeading(-90), Ok)
	assertCalls(t, rec, "SetHeading 0.0", "SetHeading 90.0", "SetHeading 270.0")

	testutil.AssertEqual(t, "south", d.HeadingTo(0, -5), float32(180))
	testutil.AssertEqual(t, "normalize", NormalizeHeading(725), float32(5))
}

func TestDispatcher_TargetRequired(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "attack", d.EnableAutoAttack(), Failure("No target"))
	testutil.AssertEqual(t, "consider", d.Consider(), Failure("No target"))
	testutil.AssertEqual(t, "hail", d.HailTarget(), Failure("No target"))
	testutil.AssertEqual(t, "invite", d.InviteTarget(), Failure("No target"))
	testutil.AssertEqual(t, "no calls", len(rec.calls), 0)

	addNPC(gs, 10, "a_rat01", 5, 5)
	gs.Combat().SetTarget(10, "a_rat01", 100, 1)
	testutil.AssertEqual(t, "attack", d.EnableAutoAttack(), Success("Auto-attack enabled"))
	testutil.AssertEqual(t, "consider", d.Consider(), Ok)
	assertCalls(t, rec, "EnableAutoAttack", "Consider")
}

func TestDispatcher_Targeting(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "no npc", d.TargetNearestNPC(), Failure("No NPC nearby"))
	testutil.AssertEqual(t, "no pc", d.TargetNearestPC(), Failure("No player nearby"))

	gs.Entities().AddEntity(state.Entity{SpawnID: 1, Name: "Tester", Kind: types.KindPlayer})
	gs.Entities().AddEntity(state.Entity{SpawnID: 2, Name: "Bob", Kind: types.KindPlayer, X: 30})
	addNPC(gs, 3, "a_bat00", 50, 0)
	addNPC(gs, 4, "a_rat00", 10, 0)

	testutil.AssertEqual(t, "npc", d.TargetNearestNPC(), Success("Targeting a_rat00"))
	testutil.AssertEqual(t, "pc", d.TargetNearestPC(), Success("Targeting Bob"))
	testutil.AssertEqual(t, "self", d.TargetSelf(), Success("Targeting Tester"))
	assertCalls(t, rec, "TargetEntity 4", "TargetEntity 2", "TargetEntity 1")
}

func TestDispatcher_TargetGroupMember(t *testing.T) {
	d, rec, gs := newZoned(t)
	testutil.AssertEqual(t, "solo", d.TargetGroupMember(1), Failure("Not in a group"))

	gs.Entities().AddEntity(state.Entity{SpawnID: 2, Name: "Bob", Kind: types.KindPlayer})
	g := gs.Group()
	g.SetInGroup(true)
	g.SetMember(0, state.GroupMember{Name: "Tester", SpawnID: 1, InZone: true})
	g.SetMember(2, state.GroupMember{Name: "Bob", SpawnID: 2, InZone: true})
	g.SetMember(3, state.GroupMember{Name: "Alice"})

	testutil.AssertEqual(t, "first", d.TargetGroupMember(1), Success("Targeting Bob"))
	testutil.AssertEqual(t, "away", d.TargetGroupMember(2), Failure("Alice is not in this zone"))
	testutil.AssertEqual(t, "none", d.TargetGroupMember(3), Failure("No group member 3"))
	assertCalls(t, rec, "TargetEntity 2")
}

func TestDispatcher_Interaction(t *testing.T) {
	d, rec, gs := newZoned(t)
	testutil.AssertEqual(t, "nothing", d.InteractNearest(), Failure("Nothing nearby to interact with"))
	testutil.AssertEqual(t, "no door", d.ClickNearestDoor(), Failure("No door nearby"))
	testutil.AssertEqual(t, "bad door", d.ClickDoor(4), Failure("Door not found"))

	gs.Doors().AddDoor(state.Door{DoorID: 4, Name: "DOOR1", X: 10})
	addNPC(gs, 10, "Guard_Hanns000", 0, 10)

	// Equal distance goes to the door.
	testutil.AssertEqual(t, "tie", d.InteractNearest(), Ok)
	gs.Doors().RemoveDoor(4)
	gs.Doors().AddDoor(state.Door{DoorID: 5, Name: "DOOR2", X: 40})
	testutil.AssertEqual(t, "npc", d.InteractNearest(), Success("Hailing Guard Hanns"))
	testutil.AssertEqual(t, "click", d.ClickDoor(5), Ok)
	assertCalls(t, rec, "ClickDoor 4", "TargetEntity 10", "HailTarget", "ClickDoor 5")
}

func TestDispatcher_Loot(t *testing.T) {
	d, rec, gs := newZoned(t)
	testutil.AssertEqual(t, "none", d.LootNearestCorpse(), Failure("No corpse nearby"))

	addNPC(gs, 7, "a_rat00", 3, 0)
	gs.Entities().MarkAsCorpse(7)
	testutil.AssertEqual(t, "loot", d.LootNearestCorpse(), Success("Looting a rat"))
	testutil.AssertEqual(t, "item", d.LootItem(7, 22), Ok)
	assertCalls(t, rec, "LootCorpse 7", "LootItem 7 22")
}

func TestDispatcher_Chat(t *testing.T) {
	d, rec, _ := newZoned(t)

	testutil.AssertEqual(t, "empty", d.SendChatMessage(Say, ""), Failure("Empty message"))
	testutil.AssertEqual(t, "tell nobody", d.SendTell("", "hi"), Failure("No target specified"))
	testutil.AssertEqual(t, "tell empty", d.SendTell("Bob", ""), Failure("Empty message"))
	testutil.AssertEqual(t, "reply empty", d.ReplyToLastTell(""), Failure("Empty message"))

	testutil.AssertEqual(t, "ooc", d.SendChatMessage(OOC, "lfg"), Ok)
	testutil.AssertEqual(t, "tell", d.SendTell("Bob", "hi"), Ok)
	assertCalls(t, rec, "SendChatMessage ooc lfg", "SendTell Bob hi")
}

func TestDispatcher_Group(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "invite nobody", d.InviteToGroup(""), Failure("No player specified"))
	testutil.AssertEqual(t, "accept", d.AcceptGroupInvite(), Failure("No pending group invite"))
	testutil.AssertEqual(t, "decline", d.DeclineGroupInvite(), Failure("No pending group invite"))
	testutil.AssertEqual(t, "leave", d.LeaveGroup(), Failure("Not in a group"))

	testutil.AssertEqual(t, "invite", d.InviteToGroup("Bob"), Success("Invited Bob to group"))
	gs.Group().SetPendingInvite("Bob")
	testutil.AssertEqual(t, "decline", d.DeclineGroupInvite(), Success("Declined group invite"))
	testutil.AssertEqual(t, "accept", d.AcceptGroupInvite(), Success("Accepted group invite"))
	assertCalls(t, rec, "InviteToGroup Bob", "DeclineGroupInvite", "AcceptGroupInvite")
}

func TestDispatcher_CharacterState(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "afk", d.ToggleAFK(), Success("AFK enabled"))
	gs.Player().SetAFK(true)
	testutil.AssertEqual(t, "afk off", d.ToggleAFK(), Success("AFK disabled"))
	testutil.AssertEqual(t, "anon", d.SetAnonymous(true), Success("Anonymous enabled"))
	testutil.AssertEqual(t, "camp", d.StartCamp(), Success("Camping... Stand up to cancel"))
	testutil.AssertEqual(t, "mode", d.SetMovementMode(types.MovementMode(7)), Failure("Invalid movement mode"))
	testutil.AssertEqual(t, "dead", d.SetPositionState(types.PosDead), Failure("Invalid position state"))
	testutil.AssertEqual(t, "crouch", d.SetPositionState(types.PosCrouching), Ok)
	testutil.AssertEqual(t, "zone", d.RequestZone(""), Failure("No zone specified"))
	testutil.AssertEqual(t, "zone", d.RequestZone("freportw"), Success("Requesting zone: freportw"))
	assertCalls(t, rec,
		"SetAFK true",
		"SetAFK false",
		"SetAnonymous true",
		"StartCamp",
		"SetPositionState 2",
		"RequestZone freportw",
	)
}

func TestDispatcher_Pet(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "no pet", d.PetSit(), Failure("You don't have a pet"))
	testutil.AssertEqual(t, "no pet dismiss", d.DismissPet(), Failure("You don't have a pet"))

	gs.Pet().SetPet(50, "Gabober", 10)
	testutil.AssertEqual(t, "no target", d.PetAttack(), Failure("No target selected"))

	addNPC(gs, 10, "a_rat00", 5, 5)
	gs.Combat().SetTarget(10, "a_rat00", 100, 1)
	testutil.AssertEqual(t, "attack", d.PetAttack().Success, true)
	testutil.AssertEqual(t, "back", d.PetBackOff().Success, true)
	testutil.AssertEqual(t, "health", d.PetHealth().Success, true)
	testutil.AssertEqual(t, "dismiss", d.DismissPet().Success, true)
	assertCalls(t, rec, "SendPetCommand 2 10", "SendPetCommand 28 0", "SendPetCommand 0 0", "DismissPet")
}

func TestDispatcher_Tradeskill(t *testing.T) {
	d, rec, gs := newZoned(t)

	testutil.AssertEqual(t, "closed", d.TradeskillCombine(), Failure("No tradeskill container open"))
	gs.Tradeskill().OpenWorldContainer(900, "Forge", 1, 10)
	testutil.AssertEqual(t, "combine", d.TradeskillCombine().Success, true)
	assertCalls(t, rec, "TradeskillCombine")
}
