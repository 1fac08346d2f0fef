package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/cli"
	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/input"
	"github.com/willeq/willeq/types"
)

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("/sit")
	h.Push("/target a rat")
	h.Push("/attack")

	for _, want := range []string{"/attack", "/target a rat", "/sit", "/sit"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("/sit")
	h.Push("/stand")

	h.Prev()
	h.Prev()
	next, ok := h.Next()
	if !ok || next != "/stand" {
		t.Errorf("expected '/stand', got %q (ok=%v)", next, ok)
	}
	if _, ok := h.Next(); ok {
		t.Error("expected fresh input past the newest entry")
	}
}

func TestHistory_SkipsDuplicatesAndBounds(t *testing.T) {
	h := NewHistory(2)
	h.Push("/loc")
	h.Push("/loc")
	testutil.AssertEqual(t, "dedup", h.Len(), 1)
	h.Push("/who")
	h.Push("/gems")
	testutil.AssertEqual(t, "bounded", h.Len(), 2)
	prev, _ := h.Prev()
	testutil.AssertEqual(t, "newest", prev, "/gems")
}

func TestHistory_NormalizesCommands(t *testing.T) {
	tests := map[string]struct {
		push []string
		want []string // newest first
	}{
		"case of command name": {
			push: []string{"/loc", "/LOC", "/Loc"},
			want: []string{"/loc"},
		},
		"argument spacing": {
			push: []string{"/target a rat", "/target  a   rat"},
			want: []string{"/target a rat"},
		},
		"argument case kept": {
			push: []string{"/tell Bob hi", "/tell bob hi"},
			want: []string{"/tell bob hi", "/tell Bob hi"},
		},
		"chat compared exactly": {
			push: []string{"hail", "Hail", "Hail"},
			want: []string{"Hail", "hail"},
		},
		"blank lines dropped": {
			push: []string{"", "   ", "/", "/sit", "\t"},
			want: []string{"/sit"},
		},
		"trimmed": {
			push: []string{"  /sit  ", "/sit"},
			want: []string{"/sit"},
		},
		"repeat after other entry kept": {
			push: []string{"/sit", "/stand", "/sit"},
			want: []string{"/sit", "/stand", "/sit"},
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			h := NewHistory(10)
			for _, line := range tt.push {
				h.Push(line)
			}
			testutil.AssertEqual(t, "len", h.Len(), len(tt.want))
			for _, want := range tt.want {
				got, ok := h.Prev()
				testutil.AssertEqual(t, "ok", ok, true)
				testutil.AssertEqual(t, "entry", got, want)
			}
		})
	}
}

func TestHistory_PushEndsNavigation(t *testing.T) {
	h := NewHistory(0)
	h.Push("/sit")
	h.Push("/stand")
	h.Prev()
	h.Prev()

	h.Push("/loc")
	prev, _ := h.Prev()
	testutil.AssertEqual(t, "newest", prev, "/loc")
	if _, ok := h.Next(); ok {
		t.Error("expected fresh input past the newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected no entry in empty history")
	}
}

type harness struct {
	m       Model
	client  *engine.Client
	handler *input.NullHandler
	steps   []float32
	running bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Client.Seed = 7
	cfg.Client.SaveDir = t.TempDir()
	c, err := engine.New(cfg, nil)
	if err != nil {
		t.Fatalf("engine.New failed: %v", err)
	}
	c.AddZones(
		types.ZoneDef{
			Name:   "qeynos2",
			ID:     2,
			Player: types.PlayerDef{Name: "Tester", SpawnID: 1, Level: 10, MaxHP: 200, MaxMana: 100},
			Spawns: []types.SpawnDef{{SpawnID: 10, Name: "a_rat00", Kind: types.KindNPC, Level: 1, X: 5}},
		},
		types.ZoneDef{Name: "qeytoqrg", ID: 4},
	)

	h := &harness{client: c, handler: input.NewNullHandler(), running: true}
	c.SetInputHandler(h.handler)
	step := func(dt float32) bool {
		h.steps = append(h.steps, dt)
		c.Update(dt)
		return h.running
	}
	h.m = New(c, h.handler, nil, step, Options{TickRate: 100 * time.Millisecond})
	t.Cleanup(h.m.Close)
	if err := c.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	h.send(tea.WindowSizeMsg{Width: 80, Height: 20})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(s string) tea.Cmd {
	switch s {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEsc})
	case "tab":
		return h.send(tea.KeyMsg{Type: tea.KeyTab})
	case "ctrl+c":
		return h.send(tea.KeyMsg{Type: tea.KeyCtrlC})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func (h *harness) texts() []string {
	var out []string
	for _, rl := range h.m.lines {
		out = append(out, rl.line.Text)
	}
	return out
}

func (h *harness) has(text string) bool {
	for _, s := range h.texts() {
		if s == text {
			return true
		}
	}
	return false
}

func TestModel_TickStepsClient(t *testing.T) {
	h := newHarness(t)
	cmd := h.send(tickMsg(time.Now()))
	testutil.AssertEqual(t, "steps", len(h.steps), 1)
	testutil.AssertEqual(t, "dt", h.steps[0], float32(0.1))
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	if !h.has("You have entered qeynos2.") {
		t.Errorf("zone entry missing from %q", h.texts())
	}
}

func TestModel_TickQuitsWhenStepStops(t *testing.T) {
	h := newHarness(t)
	h.running = false
	cmd := h.send(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	testutil.AssertEqual(t, "view", h.m.View(), "")
}

func TestModel_HotkeysInjectInput(t *testing.T) {
	h := newHarness(t)
	h.key("`")
	testutil.AssertEqual(t, "auto attack key", h.handler.HasAction(input.ToggleAutoAttack), true)

	h.key("w")
	testutil.AssertEqual(t, "forward toggled", h.handler.State().MoveForward, true)

	h.key("ctrl+c")
	testutil.AssertEqual(t, "quit requested", h.handler.HasAction(input.Quit), true)
}

func TestModel_ChatLineRunsCommands(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	testutil.AssertEqual(t, "chatting", h.m.chatting, true)
	h.key("zones")
	h.key("enter")

	testutil.AssertEqual(t, "closed", h.m.chatting, false)
	if !h.has("> /zones") || !h.has("Zones: qeynos2, qeytoqrg") {
		t.Errorf("unexpected lines %q", h.texts())
	}
	testutil.AssertEqual(t, "history", h.m.history.Len(), 1)
}

func TestModel_ChatKeysDoNotTriggerHotkeys(t *testing.T) {
	h := newHarness(t)
	h.key("enter")
	h.key("w")
	testutil.AssertEqual(t, "no movement", h.handler.State().MoveForward, false)
	testutil.AssertEqual(t, "typed", h.m.input.Value(), "w")

	h.key("esc")
	testutil.AssertEqual(t, "closed", h.m.chatting, false)
	testutil.AssertEqual(t, "cleared", h.m.input.Value(), "")
}

func TestModel_TabCompletes(t *testing.T) {
	h := newHarness(t)
	h.key("/")
	h.key("zone")
	h.key("tab")
	// "zone" and "zones" are both registered.
	testutil.AssertEqual(t, "ambiguous", h.m.input.Value(), "/zone")
	if !h.has("zone  zones") {
		t.Errorf("expected candidates in %q", h.texts())
	}
}

func TestModel_StatusBar(t *testing.T) {
	h := newHarness(t)
	left := h.m.statusLeft()
	if !strings.Contains(left, "qeynos2") || !strings.Contains(left, "Tester L10") || !strings.Contains(left, "HP 200/200") {
		t.Errorf("status left = %q", left)
	}
	testutil.AssertEqual(t, "keys focus", strings.Contains(h.m.statusRight(), "[keys]"), true)

	h.client.ProcessInput("/target a_rat00")
	if right := h.m.statusRight(); !strings.Contains(right, "Target: a rat") {
		t.Errorf("status right = %q", right)
	}
}

func TestModel_ChannelFilter(t *testing.T) {
	h := newHarness(t)
	h.m.feed.take()

	testutil.AssertEqual(t, "hidden", h.m.feed.ToggleChannel("ooc"), false)
	h.m.feed.add(cli.Line{Kind: cli.KindChat, Channel: "ooc", Text: "lfg"})
	h.m.feed.add(cli.Line{Kind: cli.KindChat, Channel: "say", Text: "hail"})

	pending := h.m.feed.take()
	testutil.AssertEqual(t, "pending", len(pending), 1)
	testutil.AssertEqual(t, "text", pending[0].line.Text, "hail")
	testutil.AssertEqual(t, "channel", pending[0].line.Channel, "say")

	// Aliases resolve to the channel they name.
	testutil.AssertEqual(t, "shown", h.m.feed.ToggleChannel("OOC"), true)
	testutil.AssertEqual(t, "alias hidden", h.m.feed.ToggleChannel("s"), false)
	h.m.feed.add(cli.Line{Kind: cli.KindChat, Channel: "ooc", Text: "wts"})
	h.m.feed.add(cli.Line{Kind: cli.KindChat, Channel: "say", Text: "hi"})
	pending = h.m.feed.take()
	testutil.AssertEqual(t, "pending after", len(pending), 1)
	testutil.AssertEqual(t, "text after", pending[0].line.Text, "wts")
}

func TestModel_SelfNameFollowsState(t *testing.T) {
	h := newHarness(t)
	gs := h.client.State()
	gs.ClearAll()
	gs.Player().SetName("Renamed")

	l, ok := h.m.feed.format.Format(events.GameEvent{Type: events.CombatEvent, Data: events.CombatEventData{
		Kind:       uint8(types.CombatHit),
		SourceName: "Renamed",
		TargetName: "a_rat00",
		Damage:     3,
	}})
	testutil.AssertEqual(t, "ok", ok, true)
	testutil.AssertEqual(t, "text", l.Text, "You hit a rat for 3 points of damage.")
}
