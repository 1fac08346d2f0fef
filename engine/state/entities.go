package state

import (
	"math"
	"slices"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

// EquipmentSlots is the number of visible equipment slots on a spawn.
const EquipmentSlots = 9

// Entity is any spawn in the current zone.
type Entity struct {
	SpawnID   uint16
	Name      string
	Kind      types.EntityKind
	X, Y, Z   float32
	Heading   float32
	Level     uint8
	ClassID   uint8
	RaceID    uint16
	Gender    uint8
	GuildID   uint32
	Animation uint8
	HPPercent uint8
	CurMana   uint16
	MaxMana   uint16
	Size      float32

	Face, HairColor, HairStyle uint8
	BeardColor, Beard          uint8
	Helm, ShowHelm             uint8
	BodyType, Light            uint8

	Equipment     [EquipmentSlots]uint32
	EquipmentTint [EquipmentSlots]uint32

	DX, DY, DZ   float32
	DeltaHeading float32

	IsPet      bool
	PetOwnerID uint16

	// Flags set by the zone fixture; the offline world uses them to open
	// NPC windows.
	Merchant bool
	Banker   bool
	Trainer  bool
	SellRate float32
}

func (e *Entity) IsPlayer() bool       { return e.Kind == types.KindPlayer }
func (e *Entity) IsNPC() bool          { return e.Kind == types.KindNPC }
func (e *Entity) IsPlayerCorpse() bool { return e.Kind == types.KindPlayerCorpse }
func (e *Entity) IsNPCCorpse() bool    { return e.Kind == types.KindNPCCorpse }

// IsAnyCorpse derives corpse status from Kind alone.
func (e *Entity) IsAnyCorpse() bool {
	return e.Kind == types.KindPlayerCorpse || e.Kind == types.KindNPCCorpse
}

// DisplayName is Name with spawn digits and underscores removed.
func (e *Entity) DisplayName() string { return DisplayName(e.Name) }

// DistanceTo is the Euclidean distance from the entity to a point.
func (e *Entity) DistanceTo(x, y, z float32) float32 {
	return float32(math.Sqrt(float64(distSq(e.X, e.Y, e.Z, x, y, z))))
}

// EntityManager owns every spawn in the zone, keyed by spawn id.
// Returned *Entity values are invalidated by RemoveEntity and Clear.
type EntityManager struct {
	bus      *events.Bus
	entities map[uint16]*Entity
}

func NewEntityManager() *EntityManager {
	return &EntityManager{entities: make(map[uint16]*Entity)}
}

func (m *EntityManager) SetEventBus(bus *events.Bus) { m.bus = bus }

// AddEntity stores a copy of e. It returns false without changing
// anything when the spawn id is already present.
func (m *EntityManager) AddEntity(e Entity) bool {
	if _, ok := m.entities[e.SpawnID]; ok {
		return false
	}
	stored := e
	m.entities[e.SpawnID] = &stored
	m.bus.PublishData(events.EntitySpawned, events.EntitySpawnedData{
		SpawnID: e.SpawnID,
		Name:    e.Name,
		X:       e.X,
		Y:       e.Y,
		Z:       e.Z,
		Heading: e.Heading,
		RaceID:  e.RaceID,
		ClassID: e.ClassID,
		Level:   e.Level,
		Gender:  e.Gender,
		Kind:    uint8(e.Kind),
	})
	return true
}

func (m *EntityManager) RemoveEntity(spawnID uint16) bool {
	e, ok := m.entities[spawnID]
	if !ok {
		return false
	}
	delete(m.entities, spawnID)
	m.bus.PublishData(events.EntityDespawned, events.EntityDespawnedData{SpawnID: spawnID, Name: e.Name})
	return true
}

// UpdateEntityPosition always publishes EntityMoved for a known spawn.
func (m *EntityManager) UpdateEntityPosition(spawnID uint16, x, y, z, heading, dx, dy, dz float32, animation uint8) bool {
	e, ok := m.entities[spawnID]
	if !ok {
		return false
	}
	e.X, e.Y, e.Z, e.Heading = x, y, z, heading
	e.DX, e.DY, e.DZ = dx, dy, dz
	e.Animation = animation
	m.bus.PublishData(events.EntityMoved, events.EntityMovedData{
		SpawnID:   spawnID,
		X:         x,
		Y:         y,
		Z:         z,
		Heading:   heading,
		DX:        dx,
		DY:        dy,
		DZ:        dz,
		Animation: animation,
	})
	return true
}

// UpdateEntityHP publishes EntityStatsChanged only when the value changes.
func (m *EntityManager) UpdateEntityHP(spawnID uint16, hpPercent uint8) bool {
	e, ok := m.entities[spawnID]
	if !ok {
		return false
	}
	if e.HPPercent != hpPercent {
		e.HPPercent = hpPercent
		m.fireStats(e)
	}
	return true
}

// UpdateEntityEquipment sets one visible slot. Slots outside [0,9) fail.
func (m *EntityManager) UpdateEntityEquipment(spawnID uint16, slot int, material, tint uint32) bool {
	if slot < 0 || slot >= EquipmentSlots {
		return false
	}
	e, ok := m.entities[spawnID]
	if !ok {
		return false
	}
	if e.Equipment[slot] == material && e.EquipmentTint[slot] == tint {
		return true
	}
	e.Equipment[slot] = material
	e.EquipmentTint[slot] = tint
	m.bus.PublishData(events.EntityAppearanceChanged, events.EntityAppearanceChangedData{
		SpawnID: spawnID,
		Kind:    uint8(e.Kind),
	})
	return true
}

// MarkAsCorpse turns a living player or NPC into the matching corpse kind.
func (m *EntityManager) MarkAsCorpse(spawnID uint16) {
	e, ok := m.entities[spawnID]
	if !ok || e.IsAnyCorpse() {
		return
	}
	if e.Kind == types.KindPlayer {
		e.Kind = types.KindPlayerCorpse
	} else {
		e.Kind = types.KindNPCCorpse
	}
	e.HPPercent = 0
	m.bus.PublishData(events.EntityAppearanceChanged, events.EntityAppearanceChangedData{
		SpawnID: spawnID,
		Kind:    uint8(e.Kind),
	})
}

// Clear despawns every entity, publishing EntityDespawned for each in
// spawn id order.
func (m *EntityManager) Clear() {
	for _, id := range m.sortedIDs() {
		m.bus.PublishData(events.EntityDespawned, events.EntityDespawnedData{SpawnID: id, Name: m.entities[id].Name})
	}
	m.entities = make(map[uint16]*Entity)
}

func (m *EntityManager) GetEntity(spawnID uint16) *Entity {
	return m.entities[spawnID]
}

func (m *EntityManager) HasEntity(spawnID uint16) bool {
	_, ok := m.entities[spawnID]
	return ok
}

func (m *EntityManager) Count() int { return len(m.entities) }

// FindEntityByName returns the lowest spawn id whose raw or display name
// contains name, ignoring case.
func (m *EntityManager) FindEntityByName(name string) *Entity {
	if name == "" {
		return nil
	}
	for _, id := range m.sortedIDs() {
		e := m.entities[id]
		if containsFold(e.Name, name) || containsFold(e.DisplayName(), name) {
			return e
		}
	}
	return nil
}

// FindEntityByExactName matches the raw name case-sensitively.
func (m *EntityManager) FindEntityByExactName(name string) *Entity {
	for _, id := range m.sortedIDs() {
		if e := m.entities[id]; e.Name == name {
			return e
		}
	}
	return nil
}

// EntitiesInRange returns spawn ids within r of the point, boundary
// inclusive, in ascending order.
func (m *EntityManager) EntitiesInRange(x, y, z, r float32) []uint16 {
	var out []uint16
	rr := r * r
	for _, id := range m.sortedIDs() {
		e := m.entities[id]
		if distSq(e.X, e.Y, e.Z, x, y, z) <= rr {
			out = append(out, id)
		}
	}
	return out
}

// NearestEntity returns the closest entity accepted by filter. A nil
// filter accepts everything. On equal distance the lower spawn id wins.
func (m *EntityManager) NearestEntity(x, y, z float32, filter func(*Entity) bool) *Entity {
	var nearest *Entity
	best := float32(math.MaxFloat32)
	for _, id := range m.sortedIDs() {
		e := m.entities[id]
		if filter != nil && !filter(e) {
			continue
		}
		if d := distSq(e.X, e.Y, e.Z, x, y, z); d < best {
			best = d
			nearest = e
		}
	}
	return nearest
}

func (m *EntityManager) NearestNPC(x, y, z float32) *Entity {
	return m.NearestEntity(x, y, z, func(e *Entity) bool { return e.IsNPC() })
}

// NearestPlayer skips exclude, normally the local player's spawn id.
func (m *EntityManager) NearestPlayer(x, y, z float32, exclude uint16) *Entity {
	return m.NearestEntity(x, y, z, func(e *Entity) bool {
		return e.IsPlayer() && e.SpawnID != exclude
	})
}

func (m *EntityManager) NearestCorpse(x, y, z float32) *Entity {
	return m.NearestEntity(x, y, z, func(e *Entity) bool { return e.IsAnyCorpse() })
}

// Pets

func (m *EntityManager) IsPet(spawnID uint16) bool {
	e := m.entities[spawnID]
	return e != nil && e.IsPet
}

func (m *EntityManager) PetOwnerID(spawnID uint16) uint16 {
	if e := m.entities[spawnID]; e != nil && e.IsPet {
		return e.PetOwnerID
	}
	return 0
}

// FindPetByOwner scans linearly; it returns 0 when the owner has no pet.
func (m *EntityManager) FindPetByOwner(owner uint16) uint16 {
	for _, id := range m.sortedIDs() {
		if e := m.entities[id]; e.IsPet && e.PetOwnerID == owner {
			return id
		}
	}
	return 0
}

func (m *EntityManager) AllPets() []uint16 {
	var out []uint16
	for _, id := range m.sortedIDs() {
		if m.entities[id].IsPet {
			out = append(out, id)
		}
	}
	return out
}

// ForEach visits entities in spawn id order. The callback may modify the
// entity in place but must not add or remove entities.
func (m *EntityManager) ForEach(fn func(*Entity)) {
	for _, id := range m.sortedIDs() {
		fn(m.entities[id])
	}
}

// All returns the entities in spawn id order.
func (m *EntityManager) All() []*Entity {
	out := make([]*Entity, 0, len(m.entities))
	m.ForEach(func(e *Entity) { out = append(out, e) })
	return out
}

func (m *EntityManager) fireStats(e *Entity) {
	m.bus.PublishData(events.EntityStatsChanged, events.EntityStatsChangedData{
		SpawnID:   e.SpawnID,
		HPPercent: e.HPPercent,
		CurMana:   e.CurMana,
		MaxMana:   e.MaxMana,
	})
}

func (m *EntityManager) sortedIDs() []uint16 {
	ids := make([]uint16, 0, len(m.entities))
	for id := range m.entities {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func distSq(x1, y1, z1, x2, y2, z2 float32) float32 {
	dx, dy, dz := x2-x1, y2-y1, z2-z1
	return dx*dx + dy*dy + dz*dz
}
