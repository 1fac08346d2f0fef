// Package state holds the client's domain state managers and the GameState
// that owns them. Managers are confined to the goroutine that drives the
// main loop; only the event bus is safe for concurrent use.
package state

import "github.com/willeq/willeq/engine/events"

// GameState owns the event bus and every domain manager, each wired to
// that bus.
type GameState struct {
	bus *events.Bus

	player     *PlayerState
	entities   *EntityManager
	world      *WorldState
	combat     *CombatState
	group      *GroupState
	doors      *DoorState
	pet        *PetState
	inventory  *InventoryState
	spells     *SpellState
	tradeskill *TradeskillState
}

// New builds a GameState with fresh managers.
func New() *GameState {
	gs := &GameState{
		bus:        events.NewBus(),
		player:     NewPlayerState(),
		entities:   NewEntityManager(),
		world:      NewWorldState(),
		combat:     NewCombatState(),
		group:      NewGroupState(),
		doors:      NewDoorState(),
		pet:        NewPetState(),
		inventory:  NewInventoryState(),
		spells:     NewSpellState(),
		tradeskill: NewTradeskillState(),
	}
	gs.wire()
	return gs
}

func (gs *GameState) Events() *events.Bus          { return gs.bus }
func (gs *GameState) Player() *PlayerState         { return gs.player }
func (gs *GameState) Entities() *EntityManager     { return gs.entities }
func (gs *GameState) World() *WorldState           { return gs.world }
func (gs *GameState) Combat() *CombatState         { return gs.combat }
func (gs *GameState) Group() *GroupState           { return gs.group }
func (gs *GameState) Doors() *DoorState            { return gs.doors }
func (gs *GameState) Pet() *PetState               { return gs.pet }
func (gs *GameState) Inventory() *InventoryState   { return gs.inventory }
func (gs *GameState) Spells() *SpellState          { return gs.spells }
func (gs *GameState) Tradeskill() *TradeskillState { return gs.tradeskill }

func (gs *GameState) IsFullyZonedIn() bool { return gs.world.IsFullyZonedIn() }

func (gs *GameState) PlayerPosition() (float32, float32, float32) { return gs.player.Position() }

func (gs *GameState) CurrentZoneName() string { return gs.world.ZoneName() }

// ResetForZoneChange drops zone-scoped state: entities, doors, the zoning
// handshake, combat and the player's movement and follow targets. Player
// identity, stats and group membership survive the hop.
func (gs *GameState) ResetForZoneChange() {
	gs.entities.Clear()
	gs.doors.Clear()
	gs.world.ResetZoneState()
	gs.combat.Reset()
	gs.player.ClearMovementTarget()
	gs.player.ClearFollowTarget()
	gs.player.SetMoving(false)
}

// ClearAll tears everything down. Listeners are removed first so that no
// subscriber hears the teardown, then every manager is cleared, the player
// is replaced and the bus is rewired.
func (gs *GameState) ClearAll() {
	gs.bus.Clear()

	gs.entities.Clear()
	gs.doors.Clear()
	gs.world.ResetZoneState()
	gs.world = NewWorldState()
	gs.combat.Reset()
	gs.group.ClearGroup()
	gs.pet.Reset()
	gs.inventory.Reset()
	gs.spells.Reset()
	gs.tradeskill.Reset()
	gs.player = NewPlayerState()

	gs.wire()
}

func (gs *GameState) wire() {
	gs.player.SetEventBus(gs.bus)
	gs.entities.SetEventBus(gs.bus)
	gs.world.SetEventBus(gs.bus)
	gs.combat.SetEventBus(gs.bus)
	gs.group.SetEventBus(gs.bus)
	gs.doors.SetEventBus(gs.bus)
	gs.pet.SetEventBus(gs.bus)
	gs.inventory.SetEventBus(gs.bus)
	gs.spells.SetEventBus(gs.bus)
	gs.tradeskill.SetEventBus(gs.bus)
}
