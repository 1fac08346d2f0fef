package state

import (
	"math"
	"slices"

	"github.com/willeq/willeq/engine/events"
)

// Door is a clickable zone object.
type Door struct {
	DoorID      uint8
	Name        string
	X, Y, Z     float32
	Heading     float32
	Incline     uint32
	Size        uint16
	OpenType    uint8
	Open        bool
	InvertState bool
	// DoorParam is the lock type or key item id; zero means unlocked.
	DoorParam uint32
	ZonePoint string
}

func (d *Door) IsLocked() bool { return d.DoorParam != 0 }

// DoorState owns the doors of the current zone, keyed by door id.
type DoorState struct {
	bus     *events.Bus
	doors   map[uint8]*Door
	pending map[uint8]bool
}

func NewDoorState() *DoorState {
	return &DoorState{
		doors:   make(map[uint8]*Door),
		pending: make(map[uint8]bool),
	}
}

func (s *DoorState) SetEventBus(bus *events.Bus) { s.bus = bus }

// AddDoor returns false if the door id is already present.
func (s *DoorState) AddDoor(d Door) bool {
	if _, ok := s.doors[d.DoorID]; ok {
		return false
	}
	stored := d
	s.doors[d.DoorID] = &stored
	s.bus.PublishData(events.DoorSpawned, events.DoorSpawnedData{
		DoorID:  d.DoorID,
		Name:    d.Name,
		X:       d.X,
		Y:       d.Y,
		Z:       d.Z,
		Heading: d.Heading,
		Open:    d.Open,
	})
	return true
}

func (s *DoorState) RemoveDoor(id uint8) bool {
	if _, ok := s.doors[id]; !ok {
		return false
	}
	delete(s.doors, id)
	delete(s.pending, id)
	return true
}

// SetDoorState publishes DoorStateChanged only on change and always
// resolves any pending click for the door.
func (s *DoorState) SetDoorState(id uint8, open bool) bool {
	d, ok := s.doors[id]
	if !ok {
		return false
	}
	if d.Open != open {
		d.Open = open
		s.bus.PublishData(events.DoorStateChanged, events.DoorStateChangedData{DoorID: id, Open: open})
	}
	delete(s.pending, id)
	return true
}

func (s *DoorState) ToggleDoorState(id uint8) bool {
	d, ok := s.doors[id]
	if !ok {
		return false
	}
	return s.SetDoorState(id, !d.Open)
}

func (s *DoorState) Clear() {
	s.doors = make(map[uint8]*Door)
	s.pending = make(map[uint8]bool)
}

func (s *DoorState) GetDoor(id uint8) *Door { return s.doors[id] }

func (s *DoorState) HasDoor(id uint8) bool {
	_, ok := s.doors[id]
	return ok
}

func (s *DoorState) Count() int { return len(s.doors) }

// FindDoorByName matches the model name exactly.
func (s *DoorState) FindDoorByName(name string) *Door {
	for _, id := range s.sortedIDs() {
		if d := s.doors[id]; d.Name == name {
			return d
		}
	}
	return nil
}

func (s *DoorState) DoorsInRange(x, y, z, r float32) []uint8 {
	var out []uint8
	rr := r * r
	for _, id := range s.sortedIDs() {
		d := s.doors[id]
		if distSq(d.X, d.Y, d.Z, x, y, z) <= rr {
			out = append(out, id)
		}
	}
	return out
}

func (s *DoorState) NearestDoor(x, y, z float32) *Door {
	var nearest *Door
	best := float32(math.MaxFloat32)
	for _, id := range s.sortedIDs() {
		d := s.doors[id]
		if dd := distSq(d.X, d.Y, d.Z, x, y, z); dd < best {
			best = dd
			nearest = d
		}
	}
	return nearest
}

// Pending clicks track door clicks awaiting a state update.

func (s *DoorState) AddPendingClick(id uint8)     { s.pending[id] = true }
func (s *DoorState) RemovePendingClick(id uint8)  { delete(s.pending, id) }
func (s *DoorState) IsClickPending(id uint8) bool { return s.pending[id] }
func (s *DoorState) ClearPendingClicks()          { s.pending = make(map[uint8]bool) }

func (s *DoorState) PendingClicks() []uint8 {
	out := make([]uint8, 0, len(s.pending))
	for id := range s.pending {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// ForEach visits doors in id order.
func (s *DoorState) ForEach(fn func(*Door)) {
	for _, id := range s.sortedIDs() {
		fn(s.doors[id])
	}
}

func (s *DoorState) sortedIDs() []uint8 {
	ids := make([]uint8, 0, len(s.doors))
	for id := range s.doors {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
