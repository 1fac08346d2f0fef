package state

import "github.com/willeq/willeq/engine/events"

// Inventory slot domain sizes.
const (
	EquipmentCount = 22
	GeneralCount   = 8
	BankCount      = 16
	BagSlotCount   = 10
)

// Slot ids reported by InventorySlotChanged for each domain.
const (
	GeneralSlotBase = 22
	BankSlotBase    = 2000
)

// EquipmentStats summarises worn gear.
type EquipmentStats struct {
	AC, ATK, HP, Mana int32
	Weight            float32
}

// InventoryState mirrors slot occupancy for notification purposes; item
// data lives with whoever owns the inventory.
type InventoryState struct {
	bus *events.Bus

	equipment [EquipmentCount]bool
	general   [GeneralCount]bool
	bagSizes  [GeneralCount]uint8
	bank      [BankCount]bool

	cursorItem bool
	cursorQ    uint8
	stats      EquipmentStats
}

func NewInventoryState() *InventoryState { return &InventoryState{} }

func (s *InventoryState) SetEventBus(bus *events.Bus) { s.bus = bus }

func (s *InventoryState) HasEquipment(slot int16) bool {
	return slot >= 0 && slot < EquipmentCount && s.equipment[slot]
}

func (s *InventoryState) HasGeneralItem(slot int16) bool {
	return slot >= 0 && slot < GeneralCount && s.general[slot]
}

func (s *InventoryState) HasBankItem(slot int16) bool {
	return slot >= 0 && slot < BankCount && s.bank[slot]
}

// SetEquipmentOccupied publishes InventorySlotChanged on change.
func (s *InventoryState) SetEquipmentOccupied(slot int16, occupied bool) {
	if slot < 0 || slot >= EquipmentCount || s.equipment[slot] == occupied {
		return
	}
	s.equipment[slot] = occupied
	s.fireSlot(slot, occupied)
}

func (s *InventoryState) SetGeneralOccupied(slot int16, occupied bool) {
	if slot < 0 || slot >= GeneralCount || s.general[slot] == occupied {
		return
	}
	s.general[slot] = occupied
	s.fireSlot(GeneralSlotBase+slot, occupied)
}

func (s *InventoryState) SetBankOccupied(slot int16, occupied bool) {
	if slot < 0 || slot >= BankCount || s.bank[slot] == occupied {
		return
	}
	s.bank[slot] = occupied
	s.fireSlot(BankSlotBase+slot, occupied)
}

func (s *InventoryState) HasCursorItem() bool    { return s.cursorItem }
func (s *InventoryState) CursorQueueSize() uint8 { return s.cursorQ }

func (s *InventoryState) SetCursorItem(has bool) {
	if s.cursorItem == has {
		return
	}
	s.cursorItem = has
	s.bus.PublishData(events.CursorItemChanged, events.CursorItemChangedData{
		HasCursorItem: has,
		QueueSize:     s.cursorQ,
	})
}

// SetCursorQueueSize derives the cursor flag from the queue length.
func (s *InventoryState) SetCursorQueueSize(n uint8) {
	if s.cursorQ == n {
		return
	}
	s.cursorQ = n
	s.SetCursorItem(n > 0)
}

func (s *InventoryState) IsBag(slot int16) bool {
	return slot >= 0 && slot < GeneralCount && s.bagSizes[slot] > 0
}

func (s *InventoryState) BagSize(slot int16) uint8 {
	if slot < 0 || slot >= GeneralCount {
		return 0
	}
	return s.bagSizes[slot]
}

func (s *InventoryState) SetBagInfo(slot int16, size uint8) {
	if slot < 0 || slot >= GeneralCount {
		return
	}
	s.bagSizes[slot] = size
}

func (s *InventoryState) EquippedCount() int    { return countTrue(s.equipment[:]) }
func (s *InventoryState) GeneralItemCount() int { return countTrue(s.general[:]) }
func (s *InventoryState) BankItemCount() int    { return countTrue(s.bank[:]) }
func (s *InventoryState) FreeGeneralSlots() int { return GeneralCount - s.GeneralItemCount() }

// FreeBagSlots is the total capacity of every bag in general slots.
func (s *InventoryState) FreeBagSlots() int {
	total := 0
	for _, n := range s.bagSizes {
		total += int(n)
	}
	return total
}

func (s *InventoryState) EquipmentStats() EquipmentStats { return s.stats }

// SetEquipmentStats publishes EquipmentStatsChanged on change.
func (s *InventoryState) SetEquipmentStats(st EquipmentStats) {
	if s.stats == st {
		return
	}
	s.stats = st
	s.bus.PublishData(events.EquipmentStatsChanged, events.EquipmentStatsChangedData{
		AC:     st.AC,
		ATK:    st.ATK,
		HP:     st.HP,
		Mana:   st.Mana,
		Weight: st.Weight,
	})
}

// Reset empties every domain without publishing.
func (s *InventoryState) Reset() {
	bus := s.bus
	*s = InventoryState{bus: bus}
}

func (s *InventoryState) ClearBank() { s.bank = [BankCount]bool{} }

func (s *InventoryState) fireSlot(slot int16, occupied bool) {
	s.bus.PublishData(events.InventorySlotChanged, events.InventorySlotChangedData{
		SlotID:  slot,
		HasItem: occupied,
	})
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
