package offline

import (
	"math"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

func testZones() []types.ZoneDef {
	return []types.ZoneDef{
		{
			Name: "qeynos2",
			ID:   2,
			Hour: 8,
			Player: types.PlayerDef{
				Name:    "Tester",
				SpawnID: 1,
				Level:   10,
				ClassID: 2,
				MaxHP:   200,
				MaxMana: 100,
				Spells: []types.SpellDef{
					{Gem: 1, SpellID: 93, Name: "Burst of Flame", CastTimeMs: 1000, RecastMs: 2000, ManaCost: 10, Damage: 1000},
					{Gem: 2, SpellID: 200, Name: "Minor Healing", CastTimeMs: 500, ManaCost: 5, Damage: -50},
				},
				PetName: "Fido",
			},
			Spawns: []types.SpawnDef{
				{SpawnID: 10, Name: "a_rat00", Kind: types.KindNPC, Level: 1, MaxHP: 1, X: 5, Loot: []string{"Rat Whiskers"}},
				{SpawnID: 11, Name: "Guard_Hanns00", Kind: types.KindNPC, Level: 30, X: 10},
				{SpawnID: 12, Name: "Merchant_Kira00", Kind: types.KindNPC, Level: 20, Y: 10, Merchant: true, SellRate: 1.1},
				{SpawnID: 13, Name: "a_bat00", Kind: types.KindNPC, Level: 2, X: 100},
				{SpawnID: 20, Name: "Bob", Kind: types.KindPlayer, Level: 10, X: -5},
				{SpawnID: 21, Name: "Alice", Kind: types.KindPlayer, Level: 12, X: -8},
				{SpawnID: 30, Name: "an_old_corpse", Kind: types.KindNPCCorpse, Y: -5, Loot: []string{"Rusty Dagger", "Cloth Cap"}},
			},
			Doors: []types.DoorDef{
				{DoorID: 1, Name: "DOOR1", Y: 15},
				{DoorID: 2, Name: "VAULT", X: 3, Y: 3, Locked: true},
				{DoorID: 3, Name: "GATE", X: 15, ZonePoint: "qeytoqrg"},
				{DoorID: 4, Name: "FARDOOR", X: 200},
				{DoorID: 5, Name: "BROKEN", X: -12, ZonePoint: "nowhere"},
			},
			Objects: []types.ObjectDef{{DropID: 500, Name: "Forge", Kind: 15, Slots: 10, X: 3}},
		},
		{
			Name:   "qeytoqrg",
			ID:     4,
			Player: types.PlayerDef{X: 100, Y: 50},
			Spawns: []types.SpawnDef{
				{SpawnID: 40, Name: "a_wolf00", Kind: types.KindNPC, Level: 4, X: 110, Y: 50},
			},
		},
	}
}

type testWorld struct {
	*World
	msgs   []string
	chats  []events.ChatMessageData
	combat []events.CombatEventData
}

// newTestWorld enters qeynos2 with a fixed seed and clock. Mutators run
// on the qeynos2 fixture before it is registered.
func newTestWorld(t *testing.T, mutate ...func(*types.ZoneDef)) *testWorld {
	t.Helper()
	gs := state.New()
	tw := &testWorld{World: New(gs, nil, 42)}
	tw.SetClock(func() time.Time { return time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC) })

	zones := testZones()
	for _, m := range mutate {
		m(&zones[0])
	}
	for _, z := range zones {
		tw.AddZone(z)
	}

	gs.Events().Subscribe(func(ev events.GameEvent) {
		switch d := ev.Data.(type) {
		case events.ChatMessageData:
			if ev.Type == events.SystemMessage {
				tw.msgs = append(tw.msgs, d.Message)
			} else {
				tw.chats = append(tw.chats, d)
			}
		case events.CombatEventData:
			tw.combat = append(tw.combat, d)
		}
	})
	if err := tw.EnterZone("qeynos2"); err != nil {
		t.Fatalf("entering fixture zone: %v", err)
	}
	tw.reset()
	return tw
}

func (tw *testWorld) reset() {
	tw.msgs, tw.chats, tw.combat = nil, nil, nil
}

func (tw *testWorld) last() string {
	if len(tw.msgs) == 0 {
		return ""
	}
	return tw.msgs[len(tw.msgs)-1]
}

func (tw *testWorld) said(msg string) bool { return slices.Contains(tw.msgs, msg) }

func (tw *testWorld) saidPrefix(prefix string) bool {
	return slices.ContainsFunc(tw.msgs, func(m string) bool { return strings.HasPrefix(m, prefix) })
}

func (tw *testWorld) chatted(sender, msg string) bool {
	return slices.ContainsFunc(tw.chats, func(c events.ChatMessageData) bool {
		return c.Sender == sender && c.Message == msg
	})
}

// tickUntil advances the world in dt steps until cond holds or n steps
// have run.
func (tw *testWorld) tickUntil(dt float32, n int, cond func() bool) bool {
	for i := 0; i < n; i++ {
		tw.Tick(dt)
		if cond() {
			return true
		}
	}
	return false
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 0.01 }
