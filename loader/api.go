package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/willeq/willeq/types"
)

// kindKey tags constructor tables so compile can tell spawns apart.
const kindKey = "__kind"

// registerZoneAPI registers the fixture constructors as globals.
func registerZoneAPI(L *lua.LState, coll *collector) {
	// Zone "name" { ... } is curried: Zone("name") returns a function
	// that takes the body table.
	L.SetGlobal("Zone", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		file := coll.file
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.zones = append(coll.zones, rawZone{name: name, file: file, table: tbl})
			return 0
		}))
		return 1
	}))

	// Player { ... } and Spell { ... } pass their table through.
	L.SetGlobal("Player", passThrough(L, "player"))
	L.SetGlobal("Spell", passThrough(L, "spell"))

	spawns := map[string]string{
		"NPC":          "npc",
		"Merchant":     "merchant",
		"Banker":       "banker",
		"Trainer":      "trainer",
		"PC":           "pc",
		"Corpse":       "corpse",
		"PlayerCorpse": "player_corpse",
		"Door":         "door",
		"Object":       "object",
	}
	for global, kind := range spawns {
		L.SetGlobal(global, named(L, kind))
	}
}

func passThrough(L *lua.LState, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		tbl.RawSetString(kindKey, lua.LString(kind))
		L.Push(tbl)
		return 1
	})
}

// named builds a curried constructor: NPC "a_rat00" { level = 1 }
// returns the body table tagged with its kind and name.
func named(L *lua.LState, kind string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString(kindKey, lua.LString(kind))
			tbl.RawSetString("name", lua.LString(name))
			L.Push(tbl)
			return 1
		}))
		return 1
	})
}

// spawnKinds maps constructor kinds onto entity kinds and NPC roles.
var spawnKinds = map[string]struct {
	kind                      types.EntityKind
	merchant, banker, trainer bool
}{
	"npc":           {kind: types.KindNPC},
	"merchant":      {kind: types.KindNPC, merchant: true},
	"banker":        {kind: types.KindNPC, banker: true},
	"trainer":       {kind: types.KindNPC, trainer: true},
	"pc":            {kind: types.KindPlayer},
	"corpse":        {kind: types.KindNPCCorpse},
	"player_corpse": {kind: types.KindPlayerCorpse},
}
