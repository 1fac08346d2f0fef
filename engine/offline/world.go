// Package offline runs a zone in-process. World implements action.Handler
// by applying each action straight to the game state, and Tick advances
// movement, melee, casting and the other timers. It backs the client when
// no server connection is configured and drives the end-to-end tests.
package offline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Ranges in world units and timings in seconds.
const (
	meleeRange     = 15
	interactRange  = 20
	arriveDistance = 2
	petFollowRange = 10

	swingDelay   = 2.0
	jumpDuration = 0.6
	jumpHeight   = 6
	campDuration = 30
	respawnDelay = 3
	skillReuse   = 6.0
	regenTick    = 6.0

	memorizeMs = 3000

	defaultPlayerSpawn = 1
	defaultPetSpawn    = 2000
)

// npc is the server-side half of an NPC: the fixture plus hit points and
// whatever is left on its corpse.
type npc struct {
	def   types.SpawnDef
	hp    int32
	maxHP int32
	loot  []string
}

// World is a simulated zone server. It is not safe for concurrent use;
// the client calls it from the frame loop only.
type World struct {
	gs    *state.GameState
	log   *zap.Logger
	rng   *RNG
	clock func() time.Time

	zones   map[string]types.ZoneDef
	zone    types.ZoneDef
	npcs    map[uint16]*npc
	objects map[uint32]types.ObjectDef
	spells  map[uint32]types.SpellDef
	player  types.PlayerDef
	loaded  bool

	dirs          [6]bool
	autorun       bool
	approach      string
	approachRange float32
	jumpT         float32

	swingT    float32
	petSwingT float32
	petTarget uint16
	skillT    float32
	regenT    float32
	respawnT  float32
	campT     float32

	castGem  int
	castLeft float32
	memLeft  float32
	memPrev  state.Gem

	lastTeller string
	tradeWith  uint16
	spellbook  bool
	items      map[int16]string

	onCamp func()
}

var _ action.Handler = (*World)(nil)

func New(gs *state.GameState, log *zap.Logger, seed int64) *World {
	if log == nil {
		log = zap.NewNop()
	}
	return &World{
		gs:      gs,
		log:     log,
		rng:     NewRNG(seed),
		clock:   time.Now,
		zones:   make(map[string]types.ZoneDef),
		npcs:    make(map[uint16]*npc),
		objects: make(map[uint32]types.ObjectDef),
		spells:  make(map[uint32]types.SpellDef),
		items:   make(map[int16]string),
		castGem: -1,
	}
}

func (w *World) State() *state.GameState      { return w.gs }
func (w *World) RNG() *RNG                    { return w.rng }
func (w *World) SetRNG(r *RNG)                { w.rng = r }
func (w *World) SetClock(fn func() time.Time) { w.clock = fn }
func (w *World) OnCamp(fn func())             { w.onCamp = fn }
func (w *World) LastTeller() string           { return w.lastTeller }
func (w *World) SpellbookOpen() bool          { return w.spellbook }
func (w *World) TradePartner() uint16         { return w.tradeWith }
func (w *World) PetTarget() uint16            { return w.petTarget }

func foldName(s string) string { return cases.Fold().String(strings.TrimSpace(s)) }

// AddZone registers a zone fixture. A later fixture with the same name
// replaces the earlier one.
func (w *World) AddZone(def types.ZoneDef) {
	w.zones[foldName(def.Name)] = def
}

// Zones lists the registered zone names in sorted order.
func (w *World) Zones() []string {
	out := make([]string, 0, len(w.zones))
	for _, z := range w.zones {
		out = append(out, z.Name)
	}
	slices.Sort(out)
	return out
}

// AddSpell makes a spell known to the world without memorizing it.
func (w *World) AddSpell(def types.SpellDef) { w.spells[def.SpellID] = def }

// EnterZone loads a registered zone and places the player at its start.
// The first zone entered also creates the character from its player
// fixture.
func (w *World) EnterZone(name string) error {
	def, ok := w.zones[foldName(name)]
	if !ok {
		return fmt.Errorf("unknown zone %q", name)
	}
	w.enter(def)
	return nil
}

func (w *World) enter(def types.ZoneDef) {
	gs := w.gs
	world := gs.World()
	p := gs.Player()
	w.log.Info("entering zone", zap.String("zone", def.Name), zap.Uint16("zone_id", def.ID))

	gs.ResetForZoneChange()
	w.resetZoneTimers()
	p.ClearVendor()
	p.ClearBanker()
	p.ClearTrainer()
	p.ClearLootingCorpse()
	gs.Tradeskill().CloseContainer()

	world.SetZoning(true)
	world.SetZoneLoading(true)
	world.SetZone(def.Name, def.ID)
	world.SetZoneLoadProgress(0, "Loading character")
	if !w.loaded {
		w.loadPlayer(def)
	}
	w.zone = def
	p.SetPositionAndHeading(def.Player.X, def.Player.Y, def.Player.Z, def.Player.Heading)
	w.spawnPlayer()

	world.SetZoneLoadProgress(0.25, "Loading spawns")
	w.npcs = make(map[uint16]*npc)
	for _, sp := range def.Spawns {
		w.spawn(sp)
	}

	world.SetZoneLoadProgress(0.75, "Loading objects")
	for _, d := range def.Doors {
		door := state.Door{
			DoorID:    d.DoorID,
			Name:      d.Name,
			X:         d.X,
			Y:         d.Y,
			Z:         d.Z,
			Heading:   d.Heading,
			Open:      d.Open,
			ZonePoint: d.ZonePoint,
		}
		if d.Locked {
			door.DoorParam = 1
		}
		gs.Doors().AddDoor(door)
	}
	w.objects = make(map[uint32]types.ObjectDef, len(def.Objects))
	for _, o := range def.Objects {
		w.objects[o.DropID] = o
	}
	world.SetTimeOfDay(def.Hour, def.Minute)
	w.spawnPet()
	w.syncGroup()

	world.MarkZoneLoaded()
	world.SetZoning(false)
	world.SetZoneConnected(true)
	world.SetClientReady(true)
	w.systemf("You have entered %s.", def.Name)
}

func (w *World) resetZoneTimers() {
	w.dirs = [6]bool{}
	w.autorun = false
	w.approach = ""
	w.swingT, w.petSwingT, w.petTarget = 0, 0, 0
	w.tradeWith = 0
	w.cancelCast()
}

func defaultHP(level uint8) int32 { return 20 + 10*int32(level) }

// loadPlayer creates the character from the zone's player fixture.
func (w *World) loadPlayer(def types.ZoneDef) {
	pd := def.Player
	if pd.SpawnID == 0 {
		pd.SpawnID = defaultPlayerSpawn
	}
	if pd.Level == 0 {
		pd.Level = 1
	}
	if pd.MaxHP == 0 {
		pd.MaxHP = defaultHP(pd.Level)
	}
	if pd.BindZone == "" {
		pd.BindZone = def.Name
	}
	w.player = pd
	w.loaded = true

	p := w.gs.Player()
	p.LoadProfile(state.Profile{
		Name:         pd.Name,
		LastName:     pd.LastName,
		Level:        pd.Level,
		ClassID:      uint32(pd.ClassID),
		Race:         uint32(pd.RaceID),
		CurHP:        pd.MaxHP,
		MaxHP:        pd.MaxHP,
		Mana:         pd.MaxMana,
		MaxMana:      pd.MaxMana,
		Endurance:    pd.MaxEnd,
		MaxEndurance: pd.MaxEnd,
		Currency: state.Currency{
			Platinum: pd.Platinum,
			Gold:     pd.Gold,
			Silver:   pd.Silver,
			Copper:   pd.Copper,
		},
		X:       pd.X,
		Y:       pd.Y,
		Z:       pd.Z,
		Heading: pd.Heading,
	})
	p.SetSpawnID(pd.SpawnID)

	bind := def
	if b, ok := w.zones[foldName(pd.BindZone)]; ok {
		bind = b
	}
	p.SetBindPoint(state.BindPoint{
		ZoneID:  uint32(bind.ID),
		X:       bind.Player.X,
		Y:       bind.Player.Y,
		Z:       bind.Player.Z,
		Heading: bind.Player.Heading,
	})

	spells := w.gs.Spells()
	for _, sd := range pd.Spells {
		w.spells[sd.SpellID] = sd
		spells.AddScribedSpell(sd.SpellID)
		if sd.Gem >= 1 && int(sd.Gem) <= state.SpellGemCount {
			spells.SetGem(sd.Gem-1, sd.SpellID, types.GemReady)
		}
	}
	spells.SetScribedSpellCount(uint16(len(pd.Spells)))

	if pd.PetName != "" {
		if w.player.PetSpawn == 0 {
			w.player.PetSpawn = defaultPetSpawn
		}
		level := pd.PetLevel
		if level == 0 {
			level = pd.Level
		}
		w.player.PetLevel = level
		w.gs.Pet().SetPet(w.player.PetSpawn, pd.PetName, level)
	}
	w.formGroup(pd.GroupWith)
}

func (w *World) spawnPlayer() {
	p := w.gs.Player()
	x, y, z := p.Position()
	w.gs.Entities().AddEntity(state.Entity{
		SpawnID:   p.SpawnID(),
		Name:      p.Name(),
		Kind:      types.KindPlayer,
		X:         x,
		Y:         y,
		Z:         z,
		Heading:   p.Heading(),
		Level:     p.Level(),
		ClassID:   uint8(p.ClassID()),
		RaceID:    uint16(p.Race()),
		HPPercent: p.HPPercent(),
		Size:      p.Size(),
	})
}

func (w *World) spawn(sp types.SpawnDef) {
	if sp.Level == 0 {
		sp.Level = 1
	}
	if sp.MaxHP == 0 {
		sp.MaxHP = defaultHP(sp.Level)
	}
	hp := int32(100)
	if sp.Kind == types.KindNPCCorpse || sp.Kind == types.KindPlayerCorpse {
		hp = 0
	}
	e := state.Entity{
		SpawnID:    sp.SpawnID,
		Name:       sp.Name,
		Kind:       sp.Kind,
		X:          sp.X,
		Y:          sp.Y,
		Z:          sp.Z,
		Heading:    sp.Heading,
		Level:      sp.Level,
		ClassID:    sp.ClassID,
		RaceID:     sp.RaceID,
		Gender:     sp.Gender,
		HPPercent:  uint8(hp),
		IsPet:      sp.OwnerID != 0,
		PetOwnerID: sp.OwnerID,
		Merchant:   sp.Merchant,
		Banker:     sp.Banker,
		Trainer:    sp.Trainer,
		SellRate:   sp.SellRate,
	}
	if !w.gs.Entities().AddEntity(e) {
		w.log.Warn("duplicate spawn id in zone fixture", zap.Uint16("spawn_id", sp.SpawnID), zap.String("name", sp.Name))
		return
	}
	if sp.Kind == types.KindPlayer {
		return
	}
	n := &npc{def: sp, maxHP: sp.MaxHP, loot: slices.Clone(sp.Loot)}
	if hp > 0 {
		n.hp = sp.MaxHP
	}
	w.npcs[sp.SpawnID] = n
}

// spawnPet places the player's pet beside the player on zone entry.
func (w *World) spawnPet() {
	pet := w.gs.Pet()
	if !pet.HasPet() {
		return
	}
	p := w.gs.Player()
	x, y, z := p.Position()
	w.gs.Entities().AddEntity(state.Entity{
		SpawnID:    pet.SpawnID(),
		Name:       pet.Name(),
		Kind:       types.KindNPC,
		X:          x + petFollowRange/2,
		Y:          y,
		Z:          z,
		Level:      pet.Level(),
		HPPercent:  pet.HPPercent(),
		IsPet:      true,
		PetOwnerID: p.SpawnID(),
	})
}

// Tick advances the world by dt seconds.
func (w *World) Tick(dt float32) {
	if dt <= 0 || !w.gs.World().IsZoneConnected() {
		return
	}
	w.tickMovement(dt)
	w.tickMelee(dt)
	w.tickPet(dt)
	w.tickSpells(dt)
	w.tickTimers(dt)
}

func (w *World) tickTimers(dt float32) {
	p := w.gs.Player()
	if w.skillT > 0 {
		w.skillT -= dt
	}

	if w.respawnT > 0 {
		w.respawnT -= dt
		if w.respawnT <= 0 {
			w.respawn()
		}
		return
	}

	if p.IsCamping() {
		w.campT -= dt
		if w.campT <= 0 {
			p.SetCamping(false)
			w.system("You have camped.")
			if w.onCamp != nil {
				w.onCamp()
			}
		}
	}

	w.regenT += dt
	if w.regenT >= regenTick {
		w.regenT -= regenTick
		w.regen()
	}
	w.closeDistantWindows()
}

// regen applies one server tick of recovery. Sitting triples it.
func (w *World) regen() {
	p := w.gs.Player()
	if w.dead() {
		return
	}
	rate := int32(1)
	if p.PositionState() == types.PosSitting {
		rate = 3
	}
	if p.CurHP() < p.MaxHP() {
		p.SetCurHP(min(p.MaxHP(), p.CurHP()+rate))
		w.syncPlayerHP()
	}
	if p.CurMana() < p.MaxMana() && !w.gs.Spells().IsCasting() {
		p.SetCurMana(min(p.MaxMana(), p.CurMana()+2*rate))
	}
}

// closeDistantWindows drops NPC windows once the player walks away.
func (w *World) closeDistantWindows() {
	p := w.gs.Player()
	far := func(id uint16) bool {
		e := w.gs.Entities().GetEntity(id)
		return e == nil || e.DistanceTo(p.Position()) > 2*interactRange
	}
	if p.HasVendor() && far(p.VendorNPCID()) {
		p.ClearVendor()
	}
	if p.HasBanker() && far(p.BankerNPCID()) {
		p.ClearBanker()
	}
	if p.HasTrainer() && far(p.TrainerNPCID()) {
		p.ClearTrainer()
	}
	if p.IsLooting() && far(p.LootingCorpse()) {
		p.ClearLootingCorpse()
	}
}

func (w *World) respawn() {
	p := w.gs.Player()
	p.SetHP(p.MaxHP(), p.MaxHP())
	p.SetMana(p.MaxMana(), p.MaxMana())
	p.SetPositionState(types.PosStanding)
	bind := w.zone
	if b, ok := w.zones[foldName(w.player.BindZone)]; ok {
		bind = b
	}
	w.enter(bind)
	w.system("You return to your bind point.")
}

func (w *World) dead() bool { return w.gs.Player().PositionState() == types.PosDead }

// RequestZone moves the player into a registered zone.
func (w *World) RequestZone(zone string) {
	if err := w.EnterZone(zone); err != nil {
		w.log.Warn("zone request failed", zap.Error(err))
		w.systemf("Zone %s is not available.", zone)
	}
}

// SpellByName resolves a known spell, preferring an exact name over a
// prefix match. Ties go to the lowest spell id.
func (w *World) SpellByName(name string) (uint32, bool) {
	want := foldName(name)
	if want == "" {
		return 0, false
	}
	ids := make([]uint32, 0, len(w.spells))
	for id := range w.spells {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if foldName(w.spells[id].Name) == want {
			return id, true
		}
	}
	for _, id := range ids {
		if strings.HasPrefix(foldName(w.spells[id].Name), want) {
			return id, true
		}
	}
	return 0, false
}

func (w *World) SpellName(id uint32) string { return w.spells[id].Name }

// Messages

// Outgoing chat channel numbers as the server reports them.
var channelTypes = map[action.ChatChannel]uint32{
	action.Guild:   0,
	action.Group:   2,
	action.Shout:   3,
	action.Auction: 4,
	action.OOC:     5,
	action.Tell:    7,
	action.Say:     8,
	action.Raid:    15,
	action.Emote:   22,
}

func (w *World) system(msg string) {
	w.gs.Events().PublishData(events.SystemMessage, events.ChatMessageData{Message: msg})
}

func (w *World) systemf(format string, args ...any) { w.system(fmt.Sprintf(format, args...)) }

func (w *World) chat(sender string, ch action.ChatChannel, msg string) {
	w.gs.Events().PublishData(events.ChatMessage, events.ChatMessageData{
		Sender:      sender,
		Message:     msg,
		ChannelType: channelTypes[ch],
		ChannelName: ch.String(),
	})
}

func (w *World) SendAnimation(animation, speed uint8) {
	p := w.gs.Player()
	p.SetAnimation(int16(animation))
	w.syncPlayerEntity()
}

func (w *World) SendPositionUpdate() {
	w.gs.Player().IncrementMovementSequence()
	w.syncPlayerEntity()
}

func (w *World) syncPlayerEntity() {
	p := w.gs.Player()
	x, y, z := p.Position()
	dx, dy, dz := p.Velocity()
	w.gs.Entities().UpdateEntityPosition(p.SpawnID(), x, y, z, p.Heading(), dx, dy, dz, uint8(p.Animation()))
}

func (w *World) syncPlayerHP() {
	p := w.gs.Player()
	w.gs.Entities().UpdateEntityHP(p.SpawnID(), p.HPPercent())
}
