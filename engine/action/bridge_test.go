package action

import (
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/input"
)

type reported struct {
	name string
	r    Result
}

func newBridge(t *testing.T) (*InputBridge, *input.NullHandler, *recorder, *state.GameState, *[]reported) {
	t.Helper()
	d, rec, gs := newZoned(t)
	p := NewCommandProcessor(gs, d, nil)
	b := NewInputBridge(d, p, nil)
	in := input.NewNullHandler()
	b.SetInputHandler(in)
	var got []reported
	b.SetActionCallback(func(name string, r Result) {
		got = append(got, reported{name, r})
	})
	return b, in, rec, gs, &got
}

func TestInputBridge_Inactive(t *testing.T) {
	b, in, rec, _, _ := newBridge(t)
	in.InjectAction(input.Jump)

	b.SetEnabled(false)
	b.Update(0.016)
	testutil.AssertEqual(t, "disabled", len(rec.calls), 0)

	b.SetEnabled(true)
	b.SetInputHandler(nil)
	b.Update(0.016)
	testutil.AssertEqual(t, "no handler", len(rec.calls), 0)

	b.SetInputHandler(in)
	b.Update(0.016)
	assertCalls(t, rec, "Jump")
}

func TestInputBridge_MovementEdges(t *testing.T) {
	b, in, rec, _, _ := newBridge(t)

	in.SetState(input.State{MoveForward: true, StrafeLeft: true})
	b.Update(0.016)
	b.Update(0.016)
	in.SetState(input.State{StrafeLeft: true})
	b.Update(0.016)
	in.SetState(input.State{})
	b.Update(0.016)
	b.Update(0.016)

	assertCalls(t, rec,
		"StartMoving forward",
		"StartMoving left",
		"StopMoving forward",
		"StopMoving left",
	)
}

func TestInputBridge_Turning(t *testing.T) {
	b, in, rec, gs, _ := newBridge(t)
	gs.Player().SetHeading(10)

	in.SetState(input.State{TurnRight: true})
	b.Update(0.5)
	b.Update(0.5)
	in.SetState(input.State{TurnLeft: true})
	b.SetTurnSpeed(40)
	b.Update(0.5)
	assertCalls(t, rec, "SetHeading 100.0", "SetHeading 100.0", "SetHeading 350.0")
}

func TestInputBridge_MouseLook(t *testing.T) {
	b, in, rec, _, _ := newBridge(t)

	in.SetState(input.State{MouseDeltaX: 100})
	b.Update(0.016)
	testutil.AssertEqual(t, "button up", len(rec.calls), 0)

	b.SetMouseSensitivity(2)
	in.SetState(input.State{LeftButtonDown: true, MouseDeltaX: 50, MouseDeltaY: 30})
	b.Update(0.016)
	b.Update(0.016)
	assertCalls(t, rec, "SetHeading 10.0")
	testutil.AssertEqual(t, "deltas reset", in.State().MouseDeltaX, 0)
}

func TestInputBridge_DiscreteActions(t *testing.T) {
	b, in, rec, gs, _ := newBridge(t)
	addNPC(gs, 10, "a_rat00", 5, 0)

	in.InjectAction(input.Hail)
	in.InjectAction(input.ToggleAutorun)
	in.InjectAction(input.TargetNearestNPC)
	b.Update(0.016)
	b.Update(0.016)

	assertCalls(t, rec, "ToggleAutorun", "Hail", "TargetEntity 10")
}

func TestInputBridge_Queues(t *testing.T) {
	b, in, rec, gs, _ := newBridge(t)
	addNPC(gs, 10, "a_rat00", 5, 0)

	in.InjectHotbar(0)
	in.InjectLoot(7)
	in.InjectTarget(0)
	in.InjectTarget(10)
	in.InjectSpellCast(2)
	in.InjectMove(input.MoveCommand{Kind: input.MoveStop})
	in.InjectMove(input.MoveCommand{Kind: input.MoveCoordinates, X: 1, Y: 2, Z: 3})
	in.InjectChat(input.ChatMessage{Text: "inc", Channel: "gsay"})
	in.InjectChat(input.ChatMessage{Text: "psst", Channel: "tell"})
	in.InjectChat(input.ChatMessage{Text: "psst", Channel: "tell", Target: "Bob"})
	in.InjectCommand("sit")
	b.Update(0.016)

	assertCalls(t, rec,
		"Sit",
		"SendChatMessage group inc",
		"SendTell Bob psst",
		"StopAllMovement",
		"MoveToLocation 1,2,3",
		"CastSpell 3",
		"TargetEntity 10",
		"LootCorpse 7",
		"CastSpell 1",
	)
}

func TestInputBridge_Callback(t *testing.T) {
	b, in, _, _, got := newBridge(t)

	in.InjectChat(input.ChatMessage{Text: "psst", Channel: "tell"})
	in.InjectSpellCast(20)
	in.InjectCommand("/q")
	b.Update(0.016)

	want := []reported{
		{"Command", Success(ExitMessage)},
		{"SendChat", Failure("No target specified")},
		{"CastSpell", Failure("Invalid gem slot (1-12)")},
	}
	testutil.AssertEqual(t, "count", len(*got), len(want))
	for i, w := range want {
		testutil.AssertEqual(t, "name", (*got)[i].name, w.name)
		testutil.AssertEqual(t, "result", (*got)[i].r, w.r)
	}
}
