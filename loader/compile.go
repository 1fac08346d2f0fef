// Package loader builds zone fixtures from sandboxed Lua files and runs
// Lua automation scripts against a client.
package loader

import (
	"fmt"
	"math"

	"github.com/pixil98/go-errors"
	lua "github.com/yuin/gopher-lua"

	"github.com/willeq/willeq/types"
)

// rawZone holds a zone table before compilation.
type rawZone struct {
	name  string
	file  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

func getFloat(tbl *lua.LTable, key string) float32 { return float32(getNumber(tbl, key)) }

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// problems gathers compile errors; report folds them into one error.
type problems []error

func (p *problems) Add(err error) { *p = append(*p, err) }

func (p problems) report() error {
	el := errors.NewErrorList()
	for _, err := range p {
		el.Add(err)
	}
	return el.Err()
}

// ranged reads an integer field and records an error when it falls
// outside [lo, hi].
type ranged struct {
	where string
	el    *problems
}

func (r ranged) get(tbl *lua.LTable, key string, lo, hi float64) int64 {
	n := getNumber(tbl, key)
	if n < lo || n > hi || n != math.Trunc(n) {
		r.el.Add(fmt.Errorf("%s: %s = %v must be a whole number in [%v, %v]", r.where, key, n, lo, hi))
		return 0
	}
	return int64(n)
}

func (r ranged) u8(tbl *lua.LTable, key string) uint8 {
	return uint8(r.get(tbl, key, 0, math.MaxUint8))
}

func (r ranged) u16(tbl *lua.LTable, key string) uint16 {
	return uint16(r.get(tbl, key, 0, math.MaxUint16))
}

func (r ranged) u32(tbl *lua.LTable, key string) uint32 {
	return uint32(r.get(tbl, key, 0, math.MaxUint32))
}

func (r ranged) i32(tbl *lua.LTable, key string) int32 {
	return int32(r.get(tbl, key, math.MinInt32, math.MaxInt32))
}

// stringList converts an array of strings; other values are skipped.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tagged returns the array entries of tbl, recording an error for any
// entry that was not built by one of the wanted constructors.
func tagged(tbl *lua.LTable, where string, el *problems, wanted ...string) []*lua.LTable {
	if tbl == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		t, ok := tbl.RawGetInt(i).(*lua.LTable)
		if !ok {
			el.Add(fmt.Errorf("%s[%d]: expected a table", where, i))
			continue
		}
		kind := getString(t, kindKey)
		match := false
		for _, w := range wanted {
			if kind == w || (w == "spawn" && isSpawnKind(kind)) {
				match = true
			}
		}
		if !match {
			el.Add(fmt.Errorf("%s[%d]: unexpected %q entry", where, i, kind))
			continue
		}
		out = append(out, t)
	}
	return out
}

func isSpawnKind(kind string) bool {
	_, ok := spawnKinds[kind]
	return ok
}

// compile converts collected tables into zone definitions.
func compile(coll *collector) ([]types.ZoneDef, error) {
	var el problems
	zones := make([]types.ZoneDef, 0, len(coll.zones))
	for _, raw := range coll.zones {
		zones = append(zones, compileZone(raw, &el))
	}
	if err := el.report(); err != nil {
		return nil, err
	}
	return zones, nil
}

func compileZone(raw rawZone, el *problems) types.ZoneDef {
	where := fmt.Sprintf("%s: zone %s", raw.file, raw.name)
	r := ranged{where: where, el: el}
	tbl := raw.table

	z := types.ZoneDef{
		Name:   raw.name,
		ID:     r.u16(tbl, "id"),
		Hour:   r.u8(tbl, "hour"),
		Minute: r.u8(tbl, "minute"),
	}
	if p := getTable(tbl, "player"); p != nil {
		z.Player = compilePlayer(p, where+" player", el)
	}
	for _, t := range tagged(getTable(tbl, "spawns"), where+" spawns", el, "spawn") {
		z.Spawns = append(z.Spawns, compileSpawn(t, where, el))
	}
	for _, t := range tagged(getTable(tbl, "doors"), where+" doors", el, "door") {
		z.Doors = append(z.Doors, compileDoor(t, where, el))
	}
	for _, t := range tagged(getTable(tbl, "objects"), where+" objects", el, "object") {
		z.Objects = append(z.Objects, compileObject(t, where, el))
	}
	return z
}

func compilePlayer(tbl *lua.LTable, where string, el *problems) types.PlayerDef {
	r := ranged{where: where, el: el}
	p := types.PlayerDef{
		Name:      getString(tbl, "name"),
		LastName:  getString(tbl, "last_name"),
		SpawnID:   r.u16(tbl, "spawn_id"),
		Level:     r.u8(tbl, "level"),
		ClassID:   r.u8(tbl, "class"),
		RaceID:    r.u16(tbl, "race"),
		X:         getFloat(tbl, "x"),
		Y:         getFloat(tbl, "y"),
		Z:         getFloat(tbl, "z"),
		Heading:   getFloat(tbl, "heading"),
		MaxHP:     r.i32(tbl, "hp"),
		MaxMana:   r.i32(tbl, "mana"),
		MaxEnd:    r.i32(tbl, "endurance"),
		Platinum:  r.i32(tbl, "platinum"),
		Gold:      r.i32(tbl, "gold"),
		Silver:    r.i32(tbl, "silver"),
		Copper:    r.i32(tbl, "copper"),
		PetName:   getString(tbl, "pet"),
		PetLevel:  r.u8(tbl, "pet_level"),
		PetSpawn:  r.u16(tbl, "pet_spawn"),
		BindZone:  getString(tbl, "bind"),
		GroupWith: stringList(getTable(tbl, "group")),
	}
	for _, t := range tagged(getTable(tbl, "spells"), where+" spells", el, "spell") {
		p.Spells = append(p.Spells, compileSpell(t, where, el))
	}
	return p
}

func compileSpell(tbl *lua.LTable, where string, el *problems) types.SpellDef {
	r := ranged{where: fmt.Sprintf("%s spell %q", where, getString(tbl, "name")), el: el}
	return types.SpellDef{
		Gem:        r.u8(tbl, "gem"),
		SpellID:    r.u32(tbl, "id"),
		Name:       getString(tbl, "name"),
		CastTimeMs: r.u32(tbl, "cast_ms"),
		RecastMs:   r.u32(tbl, "recast_ms"),
		ManaCost:   r.i32(tbl, "mana"),
		Damage:     r.i32(tbl, "damage"),
	}
}

func compileSpawn(tbl *lua.LTable, where string, el *problems) types.SpawnDef {
	name := getString(tbl, "name")
	r := ranged{where: fmt.Sprintf("%s spawn %s", where, name), el: el}
	k := spawnKinds[getString(tbl, kindKey)]
	return types.SpawnDef{
		SpawnID:  r.u16(tbl, "id"),
		Name:     name,
		Kind:     k.kind,
		Level:    r.u8(tbl, "level"),
		ClassID:  r.u8(tbl, "class"),
		RaceID:   r.u16(tbl, "race"),
		Gender:   r.u8(tbl, "gender"),
		X:        getFloat(tbl, "x"),
		Y:        getFloat(tbl, "y"),
		Z:        getFloat(tbl, "z"),
		Heading:  getFloat(tbl, "heading"),
		MaxHP:    r.i32(tbl, "hp"),
		Damage:   r.i32(tbl, "damage"),
		Merchant: getBool(tbl, "merchant", k.merchant),
		Banker:   getBool(tbl, "banker", k.banker),
		Trainer:  getBool(tbl, "trainer", k.trainer),
		SellRate: getFloat(tbl, "sell_rate"),
		Loot:     stringList(getTable(tbl, "loot")),
		OwnerID:  r.u16(tbl, "owner"),
	}
}

func compileDoor(tbl *lua.LTable, where string, el *problems) types.DoorDef {
	name := getString(tbl, "name")
	r := ranged{where: fmt.Sprintf("%s door %s", where, name), el: el}
	return types.DoorDef{
		DoorID:    r.u8(tbl, "id"),
		Name:      name,
		X:         getFloat(tbl, "x"),
		Y:         getFloat(tbl, "y"),
		Z:         getFloat(tbl, "z"),
		Heading:   getFloat(tbl, "heading"),
		Open:      getBool(tbl, "open", false),
		Locked:    getBool(tbl, "locked", false),
		ZonePoint: getString(tbl, "zone"),
	}
}

func compileObject(tbl *lua.LTable, where string, el *problems) types.ObjectDef {
	name := getString(tbl, "name")
	r := ranged{where: fmt.Sprintf("%s object %s", where, name), el: el}
	return types.ObjectDef{
		DropID: r.u32(tbl, "id"),
		Name:   name,
		Kind:   r.u8(tbl, "kind"),
		Slots:  r.u8(tbl, "slots"),
		X:      getFloat(tbl, "x"),
		Y:      getFloat(tbl, "y"),
		Z:      getFloat(tbl, "z"),
	}
}
