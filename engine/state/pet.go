package state

import "github.com/willeq/willeq/engine/events"

// Pet window toggle buttons.
const (
	PetButtonSit uint8 = iota
	PetButtonStop
	PetButtonRegroup
	PetButtonFollow
	PetButtonGuard
	PetButtonTaunt
	PetButtonHold
	PetButtonGHold
	PetButtonFocus
	PetButtonSpellHold

	// PetButtonCount is the number of toggle buttons on the pet window.
	PetButtonCount = 10
)

// PetState tracks the player's single pet. Spawn id 0 means no pet.
type PetState struct {
	bus *events.Bus

	spawnID     uint16
	name        string
	level       uint8
	hpPercent   uint8
	manaPercent uint8
	buttons     [PetButtonCount]bool
}

func NewPetState() *PetState {
	return &PetState{hpPercent: 100, manaPercent: 100}
}

func (p *PetState) SetEventBus(bus *events.Bus) { p.bus = bus }

func (p *PetState) HasPet() bool       { return p.spawnID != 0 }
func (p *PetState) SpawnID() uint16    { return p.spawnID }
func (p *PetState) Name() string       { return p.name }
func (p *PetState) Level() uint8       { return p.level }
func (p *PetState) HPPercent() uint8   { return p.hpPercent }
func (p *PetState) ManaPercent() uint8 { return p.manaPercent }

// SetPet replaces the pet and resets its stats and buttons. A non-zero id
// publishes PetCreated; a zero id publishes PetRemoved if a pet existed.
func (p *PetState) SetPet(spawnID uint16, name string, level uint8) {
	hadPet := p.HasPet()
	old := events.PetRemovedData{SpawnID: p.spawnID, Name: p.name}
	p.spawnID, p.name, p.level = spawnID, name, level
	p.hpPercent, p.manaPercent = 100, 100
	p.buttons = [PetButtonCount]bool{}
	switch {
	case spawnID != 0:
		p.bus.PublishData(events.PetCreated, events.PetCreatedData{SpawnID: spawnID, Name: name, Level: level})
	case hadPet:
		p.bus.PublishData(events.PetRemoved, old)
	}
}

// ClearPet publishes PetRemoved only when a pet existed.
func (p *PetState) ClearPet() {
	if !p.HasPet() {
		return
	}
	p.Reset()
}

func (p *PetState) UpdateHP(hpPercent uint8) {
	if p.hpPercent == hpPercent {
		return
	}
	p.hpPercent = hpPercent
	p.fireStats()
}

func (p *PetState) UpdateMana(manaPercent uint8) {
	if p.manaPercent == manaPercent {
		return
	}
	p.manaPercent = manaPercent
	p.fireStats()
}

func (p *PetState) UpdateStats(hpPercent, manaPercent uint8) {
	changed := p.hpPercent != hpPercent || p.manaPercent != manaPercent
	p.hpPercent, p.manaPercent = hpPercent, manaPercent
	if changed {
		p.fireStats()
	}
}

// ButtonState is false for buttons outside [0, PetButtonCount).
func (p *PetState) ButtonState(button uint8) bool {
	if int(button) >= PetButtonCount {
		return false
	}
	return p.buttons[button]
}

func (p *PetState) SetButtonState(button uint8, on bool) {
	if int(button) >= PetButtonCount || p.buttons[button] == on {
		return
	}
	p.buttons[button] = on
	p.bus.PublishData(events.PetButtonStateChanged, events.PetButtonStateChangedData{Button: button, State: on})
}

func (p *PetState) ButtonStates() [PetButtonCount]bool { return p.buttons }

// Reset drops the pet and publishes PetRemoved if one existed.
func (p *PetState) Reset() {
	hadPet := p.HasPet()
	removed := events.PetRemovedData{SpawnID: p.spawnID, Name: p.name}
	p.spawnID, p.name, p.level = 0, "", 0
	p.hpPercent, p.manaPercent = 100, 100
	p.buttons = [PetButtonCount]bool{}
	if hadPet {
		p.bus.PublishData(events.PetRemoved, removed)
	}
}

func (p *PetState) fireStats() {
	p.bus.PublishData(events.PetStatsChanged, events.PetStatsChangedData{
		SpawnID:     p.spawnID,
		HPPercent:   p.hpPercent,
		ManaPercent: p.manaPercent,
	})
}
