package engine

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/input"
	"github.com/willeq/willeq/types"
)

func testZones() []types.ZoneDef {
	return []types.ZoneDef{
		{
			Name: "qeynos2",
			ID:   2,
			Hour: 12,
			Player: types.PlayerDef{
				Name:    "Tester",
				SpawnID: 1,
				Level:   10,
				MaxHP:   200,
				MaxMana: 100,
				Spells: []types.SpellDef{
					{Gem: 1, SpellID: 93, Name: "Burst of Flame", CastTimeMs: 1000, ManaCost: 10, Damage: 20},
				},
			},
			Spawns: []types.SpawnDef{
				{SpawnID: 10, Name: "a_rat00", Kind: types.KindNPC, Level: 1, X: 5},
			},
		},
		{Name: "qeytoqrg", ID: 4, Player: types.PlayerDef{X: 100, Y: 50}},
	}
}

type captureOutput struct {
	msgs       []string
	timestamps bool
}

func (o *captureOutput) SystemMessage(msg string)  { o.msgs = append(o.msgs, msg) }
func (o *captureOutput) ShowTimestamps() bool      { return o.timestamps }
func (o *captureOutput) SetShowTimestamps(on bool) { o.timestamps = on }

func (o *captureOutput) last() string {
	if len(o.msgs) == 0 {
		return ""
	}
	return o.msgs[len(o.msgs)-1]
}

func newTestClient(t *testing.T, mutate ...func(*config.Config)) (*Client, *captureOutput) {
	t.Helper()
	cfg := config.Default()
	cfg.Client.Seed = 42
	cfg.Client.SaveDir = t.TempDir()
	for _, m := range mutate {
		m(cfg)
	}
	c, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	c.SetClock(func() time.Time { return time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC) })
	out := &captureOutput{}
	c.SetOutput(out)
	c.AddZones(testZones()...)
	if err := c.Start(""); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	return c, out
}

func TestNew_UnknownChannel(t *testing.T) {
	cfg := config.Default()
	cfg.Chat.DefaultChannel = "broadcast"
	_, err := New(cfg, nil)
	testutil.AssertErrorContains(t, err, `unknown default chat channel "broadcast"`)
}

func TestNew_AppliesConfig(t *testing.T) {
	c, out := newTestClient(t, func(cfg *config.Config) {
		cfg.Chat.DefaultChannel = "ooc"
		cfg.Console.EchoCommands = true
		cfg.Console.ShowTimestamps = true
		cfg.Input.MouseSensitivity = 2.5
		cfg.Input.TurnSpeed = 90
	})
	testutil.AssertEqual(t, "channel", c.Commands().DefaultChannel(), action.OOC)
	testutil.AssertEqual(t, "echo", c.Commands().EchoCommands(), true)
	testutil.AssertEqual(t, "timestamps", out.timestamps, true)
	testutil.AssertEqual(t, "sensitivity", c.Bridge().MouseSensitivity(), float32(2.5))
	testutil.AssertEqual(t, "turn speed", c.Bridge().TurnSpeed(), float32(90))
	if c.ID == "" {
		t.Error("expected a client id")
	}
}

func TestStart(t *testing.T) {
	c, _ := newTestClient(t)
	testutil.AssertEqual(t, "zone", c.State().CurrentZoneName(), "qeynos2")
	testutil.AssertEqual(t, "zoned in", c.State().IsFullyZonedIn(), true)

	testutil.AssertErrorContains(t, c.Start("nowhere"), "start client: unknown zone")
}

func TestProcessInput_Exit(t *testing.T) {
	c, _ := newTestClient(t)
	r := c.ProcessInput("/say hello")
	testutil.AssertEqual(t, "say", r.Success, true)
	testutil.AssertEqual(t, "still running", c.Done(), false)

	c.ProcessInput("/q")
	testutil.AssertEqual(t, "exit", c.ExitRequested(), true)
	testutil.AssertEqual(t, "done", c.Done(), true)
}

func TestUpdate_BridgeCommandExits(t *testing.T) {
	c, _ := newTestClient(t)
	var seen []string
	c.OnAction(func(name string, r action.Result) { seen = append(seen, name) })

	h := input.NewNullHandler()
	c.SetInputHandler(h)
	h.InjectCommand("/q")
	c.Update(0.016)

	testutil.AssertEqual(t, "exit", c.ExitRequested(), true)
	testutil.AssertEqual(t, "callback", slices.Contains(seen, "Command"), true)
}

func TestUpdate_MovesPlayer(t *testing.T) {
	c, _ := newTestClient(t)
	h := input.NewNullHandler()
	c.SetInputHandler(h)

	h.UpdateState(func(s *input.State) { s.MoveForward = true })
	for i := 0; i < 10; i++ {
		c.Update(0.1)
	}
	if y := c.State().Player().Y(); y <= 0 {
		t.Errorf("expected the player to move north, y = %v", y)
	}
}

func TestCamp_FinishesSession(t *testing.T) {
	c, _ := newTestClient(t)
	c.ProcessInput("/camp")
	for i := 0; i < 31 && !c.Done(); i++ {
		c.Update(1)
	}
	testutil.AssertEqual(t, "camped", c.Camped(), true)
	testutil.AssertEqual(t, "exit", c.ExitRequested(), false)
}

func TestSaveAndLoad(t *testing.T) {
	c, out := newTestClient(t)
	p := c.State().Player()
	c.ProcessInput("/zone qeytoqrg")
	p.SetCurHP(123)
	p.SetPosition(7, 8, 0)
	c.State().Spells().ClearGem(0)
	rngPos := c.World().RNG().Position()

	r := c.ProcessInput("/save")
	testutil.AssertEqual(t, "saved", r.Success, true)
	testutil.AssertEqual(t, "message", out.last(), "Saved to "+r.Message+".")

	c.ProcessInput("/zone qeynos2")
	p.SetCurHP(5)
	c.State().Spells().SetGem(0, 93, types.GemReady)
	c.World().RNG().Roll(6)

	r = c.ProcessInput("/load")
	testutil.AssertEqual(t, "loaded", r.Success, true)
	testutil.AssertEqual(t, "message", out.last(), "Character restored.")
	testutil.AssertEqual(t, "zone", c.State().CurrentZoneName(), "qeytoqrg")
	testutil.AssertEqual(t, "hp", p.CurHP(), int32(123))
	testutil.AssertEqual(t, "x", p.X(), float32(7))
	testutil.AssertEqual(t, "gem cleared", c.State().Spells().HasSpellMemorized(0), false)
	testutil.AssertEqual(t, "rng", c.World().RNG().Position(), rngPos)
}

func TestLoad_MissingSession(t *testing.T) {
	c, out := newTestClient(t)
	r := c.ProcessInput("/load ghost")
	testutil.AssertEqual(t, "failed", r.Success, false)
	testutil.AssertEqual(t, "zone kept", c.State().CurrentZoneName(), "qeynos2")
	if !strings.HasPrefix(out.last(), "Error: Load failed: ") {
		t.Errorf("unexpected output %v", out.msgs)
	}
}

func TestZonesCommand(t *testing.T) {
	c, out := newTestClient(t)
	c.ProcessInput("/zones")
	testutil.AssertEqual(t, "message", out.last(), "Zones: qeynos2, qeytoqrg")
}

func TestShutdown(t *testing.T) {
	c, _ := newTestClient(t)
	c.Shutdown()
	testutil.AssertEqual(t, "bridge disabled", c.Bridge().Enabled(), false)
}
