package loader

import (
	"fmt"
	"strings"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// validate checks the compiled zones for consistency and cross-zone
// references. Every problem is reported, not just the first.
func validate(zones []types.ZoneDef) error {
	var el problems
	if len(zones) == 0 {
		el.Add(fmt.Errorf("no zones defined"))
		return el.report()
	}

	names := map[string]bool{}
	ids := map[uint16]string{}
	hasPlayer := false
	for _, z := range zones {
		key := strings.ToLower(z.Name)
		if z.Name == "" {
			el.Add(fmt.Errorf("zone with id %d has no name", z.ID))
		} else if names[key] {
			el.Add(fmt.Errorf("duplicate zone %q", z.Name))
		}
		names[key] = true

		if z.ID == 0 {
			el.Add(fmt.Errorf("zone %s: id is required", z.Name))
		} else if prev, ok := ids[z.ID]; ok {
			el.Add(fmt.Errorf("zone %s: id %d already used by %s", z.Name, z.ID, prev))
		} else {
			ids[z.ID] = z.Name
		}
		if z.Hour > 23 || z.Minute > 59 {
			el.Add(fmt.Errorf("zone %s: time %02d:%02d is not a valid time of day", z.Name, z.Hour, z.Minute))
		}
		if z.Player.Name != "" {
			hasPlayer = true
		}
		validatePlayer(z, &el)
		validateSpawns(z, &el)
	}
	if !hasPlayer {
		el.Add(fmt.Errorf("no zone defines a named player"))
	}

	// References to other zones.
	for _, z := range zones {
		if b := z.Player.BindZone; b != "" && !names[strings.ToLower(b)] {
			el.Add(fmt.Errorf("zone %s: player binds to undefined zone %q", z.Name, b))
		}
		for _, d := range z.Doors {
			if d.ZonePoint != "" && !names[strings.ToLower(d.ZonePoint)] {
				el.Add(fmt.Errorf("zone %s: door %s leads to undefined zone %q", z.Name, d.Name, d.ZonePoint))
			}
		}
	}
	return el.report()
}

func validatePlayer(z types.ZoneDef, el *problems) {
	gems := map[uint8]string{}
	for _, sp := range z.Player.Spells {
		if sp.Gem < 1 || int(sp.Gem) > state.SpellGemCount {
			el.Add(fmt.Errorf("zone %s: spell %q gem %d must be 1-%d", z.Name, sp.Name, sp.Gem, state.SpellGemCount))
		} else if prev, ok := gems[sp.Gem]; ok {
			el.Add(fmt.Errorf("zone %s: spells %q and %q share gem %d", z.Name, prev, sp.Name, sp.Gem))
		} else {
			gems[sp.Gem] = sp.Name
		}
		if sp.SpellID == 0 || sp.SpellID == state.SpellIDUnknown {
			el.Add(fmt.Errorf("zone %s: spell %q has no id", z.Name, sp.Name))
		}
	}
}

func validateSpawns(z types.ZoneDef, el *problems) {
	spawns := map[uint16]string{}
	if z.Player.SpawnID != 0 {
		spawns[z.Player.SpawnID] = z.Player.Name
	}
	if z.Player.PetSpawn != 0 {
		spawns[z.Player.PetSpawn] = z.Player.PetName
	}
	for _, sp := range z.Spawns {
		if sp.Name == "" {
			el.Add(fmt.Errorf("zone %s: spawn %d has no name", z.Name, sp.SpawnID))
		}
		if sp.SpawnID == 0 {
			el.Add(fmt.Errorf("zone %s: spawn %s needs an id", z.Name, sp.Name))
			continue
		}
		if prev, ok := spawns[sp.SpawnID]; ok {
			el.Add(fmt.Errorf("zone %s: spawn id %d used by both %s and %s", z.Name, sp.SpawnID, prev, sp.Name))
			continue
		}
		spawns[sp.SpawnID] = sp.Name
	}

	doors := map[uint8]string{}
	for _, d := range z.Doors {
		if d.DoorID == 0 {
			el.Add(fmt.Errorf("zone %s: door %s needs an id", z.Name, d.Name))
		} else if prev, ok := doors[d.DoorID]; ok {
			el.Add(fmt.Errorf("zone %s: door id %d used by both %s and %s", z.Name, d.DoorID, prev, d.Name))
		} else {
			doors[d.DoorID] = d.Name
		}
	}

	objects := map[uint32]string{}
	for _, o := range z.Objects {
		if prev, ok := objects[o.DropID]; ok {
			el.Add(fmt.Errorf("zone %s: object id %d used by both %s and %s", z.Name, o.DropID, prev, o.Name))
		}
		objects[o.DropID] = o.Name
	}
}
