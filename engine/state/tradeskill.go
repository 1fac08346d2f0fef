package state

import "github.com/willeq/willeq/engine/events"

// TradeskillState tracks the open combine container, either a world object
// such as a forge or a bag in the player's inventory.
type TradeskillState struct {
	bus *events.Bus

	objectID      uint32
	inventorySlot int16
	name          string
	containerType uint8
	slotCount     uint8
}

func NewTradeskillState() *TradeskillState {
	return &TradeskillState{inventorySlot: -1}
}

func (t *TradeskillState) SetEventBus(bus *events.Bus) { t.bus = bus }

func (t *TradeskillState) IsContainerOpen() bool {
	return t.IsWorldContainer() || t.IsInventoryContainer()
}

func (t *TradeskillState) IsWorldContainer() bool     { return t.objectID != 0 }
func (t *TradeskillState) IsInventoryContainer() bool { return t.inventorySlot >= 0 }
func (t *TradeskillState) ActiveObjectID() uint32     { return t.objectID }
func (t *TradeskillState) ActiveInventorySlot() int16 { return t.inventorySlot }
func (t *TradeskillState) ContainerName() string      { return t.name }
func (t *TradeskillState) ContainerType() uint8       { return t.containerType }
func (t *TradeskillState) SlotCount() uint8           { return t.slotCount }

// OpenWorldContainer closes any open container first.
func (t *TradeskillState) OpenWorldContainer(dropID uint32, name string, kind, slots uint8) {
	t.CloseContainer()
	t.objectID, t.inventorySlot = dropID, -1
	t.name, t.containerType, t.slotCount = name, kind, slots
	t.fireOpened()
}

// OpenInventoryContainer closes any open container first.
func (t *TradeskillState) OpenInventoryContainer(slot int16, name string, kind, slots uint8) {
	t.CloseContainer()
	t.objectID, t.inventorySlot = 0, slot
	t.name, t.containerType, t.slotCount = name, kind, slots
	t.fireOpened()
}

// CloseContainer publishes TradeskillContainerClosed if one was open.
func (t *TradeskillState) CloseContainer() {
	if !t.IsContainerOpen() {
		return
	}
	closed := events.TradeskillContainerClosedData{
		WasWorldObject: t.IsWorldContainer(),
		ObjectID:       t.objectID,
		InventorySlot:  t.inventorySlot,
	}
	t.objectID, t.inventorySlot = 0, -1
	t.name, t.containerType, t.slotCount = "", 0, 0
	t.bus.PublishData(events.TradeskillContainerClosed, closed)
}

func (t *TradeskillState) Reset() { t.CloseContainer() }

func (t *TradeskillState) fireOpened() {
	t.bus.PublishData(events.TradeskillContainerOpened, events.TradeskillContainerOpenedData{
		IsWorldObject: t.IsWorldContainer(),
		ObjectID:      t.objectID,
		InventorySlot: t.inventorySlot,
		ContainerName: t.name,
		ContainerType: t.containerType,
		SlotCount:     t.slotCount,
	})
}
