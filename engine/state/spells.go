package state

import (
	"slices"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

const (
	// SpellGemCount is the number of gem slots SpellState models,
	// indexed 0-7.
	SpellGemCount = 8
	// SpellbookSlots is the size of the spellbook.
	SpellbookSlots = 400
	// SpellIDUnknown marks an empty gem.
	SpellIDUnknown uint32 = 0xFFFFFFFF

	maxTrackedSpells = 64
)

// Gem is one spell gem slot.
type Gem struct {
	SpellID             uint32
	State               types.SpellGemState
	CooldownRemainingMs uint32
	CooldownTotalMs     uint32
}

func emptyGem() Gem { return Gem{SpellID: SpellIDUnknown} }

// SpellState tracks memorized gems plus the casting and memorization
// sessions. Gem indexes are zero-based; out of range indexes are ignored.
type SpellState struct {
	bus *events.Bus

	gems [SpellGemCount]Gem

	casting       bool
	castSpellID   uint32
	castTargetID  uint16
	castRemaining uint32
	castTotal     uint32

	memorizing   bool
	memGem       uint8
	memSpellID   uint32
	memRemaining uint32
	memTotal     uint32

	scribedCount uint16
	scribed      []uint32
}

func NewSpellState() *SpellState {
	s := &SpellState{}
	s.Reset()
	return s
}

func (s *SpellState) SetEventBus(bus *events.Bus) { s.bus = bus }

func validGem(g uint8) bool { return int(g) < SpellGemCount }

// Gem returns a copy of slot g; an invalid slot reads as empty.
func (s *SpellState) Gem(g uint8) Gem {
	if !validGem(g) {
		return emptyGem()
	}
	return s.gems[g]
}

func (s *SpellState) GemSpellID(g uint8) uint32 { return s.Gem(g).SpellID }

func (s *SpellState) GemState(g uint8) types.SpellGemState { return s.Gem(g).State }

func (s *SpellState) GemCooldownRemaining(g uint8) uint32 { return s.Gem(g).CooldownRemainingMs }

// GemCooldownProgress is 0 at the start of a refresh and 1 when ready.
func (s *SpellState) GemCooldownProgress(g uint8) float32 {
	gem := s.Gem(g)
	if gem.CooldownTotalMs == 0 {
		return 1
	}
	return float32(gem.CooldownTotalMs-gem.CooldownRemainingMs) / float32(gem.CooldownTotalMs)
}

func (s *SpellState) HasSpellMemorized(g uint8) bool {
	return validGem(g) && s.gems[g].SpellID != SpellIDUnknown
}

func (s *SpellState) IsGemReady(g uint8) bool {
	return validGem(g) && s.gems[g].State == types.GemReady
}

// SetGem sets the spell and state. Ready and Empty also clear the
// cooldown. SpellGemChanged fires when the spell or state changes.
func (s *SpellState) SetGem(g uint8, spellID uint32, st types.SpellGemState) {
	if !validGem(g) {
		return
	}
	gem := &s.gems[g]
	changed := gem.SpellID != spellID || gem.State != st
	gem.SpellID, gem.State = spellID, st
	if st == types.GemReady || st == types.GemEmpty {
		gem.CooldownRemainingMs, gem.CooldownTotalMs = 0, 0
	}
	if changed {
		s.fireGem(g)
	}
}

// SetGemCooldown drives the gem state: a positive remaining time forces
// Refresh, zero with a spell present forces Ready. SpellGemChanged fires
// when that changes the state.
func (s *SpellState) SetGemCooldown(g uint8, remainingMs, totalMs uint32) {
	if !validGem(g) {
		return
	}
	gem := &s.gems[g]
	old := gem.State
	gem.CooldownRemainingMs, gem.CooldownTotalMs = remainingMs, totalMs
	if remainingMs > 0 {
		gem.State = types.GemRefresh
	} else if gem.SpellID != SpellIDUnknown {
		gem.State = types.GemReady
	}
	if gem.State != old {
		s.fireGem(g)
	}
}

func (s *SpellState) ClearGem(g uint8) { s.SetGem(g, SpellIDUnknown, types.GemEmpty) }

// Casting session

func (s *SpellState) IsCasting() bool           { return s.casting }
func (s *SpellState) CastingSpellID() uint32    { return s.castSpellID }
func (s *SpellState) CastingTargetID() uint16   { return s.castTargetID }
func (s *SpellState) CastTimeRemaining() uint32 { return s.castRemaining }
func (s *SpellState) CastTimeTotal() uint32     { return s.castTotal }

func (s *SpellState) CastProgress() float32 {
	if !s.casting || s.castTotal == 0 {
		return 0
	}
	return float32(s.castTotal-s.castRemaining) / float32(s.castTotal)
}

// SetCasting publishes CastingStateChanged when the flag or spell changes.
func (s *SpellState) SetCasting(casting bool, spellID uint32, targetID uint16, castTimeMs uint32) {
	changed := s.casting != casting || s.castSpellID != spellID
	s.casting, s.castSpellID, s.castTargetID = casting, spellID, targetID
	s.castTotal, s.castRemaining = castTimeMs, castTimeMs
	if changed {
		s.bus.PublishData(events.CastingStateChanged, events.CastingStateChangedData{
			IsCasting:       casting,
			SpellID:         spellID,
			TargetID:        targetID,
			CastRemainingMs: castTimeMs,
			CastTotalMs:     castTimeMs,
		})
	}
}

func (s *SpellState) UpdateCastProgress(remainingMs uint32) { s.castRemaining = remainingMs }

func (s *SpellState) ClearCasting() { s.SetCasting(false, SpellIDUnknown, 0, 0) }

// Memorization session

func (s *SpellState) IsMemorizing() bool            { return s.memorizing }
func (s *SpellState) MemorizingGemSlot() uint8      { return s.memGem }
func (s *SpellState) MemorizingSpellID() uint32     { return s.memSpellID }
func (s *SpellState) MemorizeTimeRemaining() uint32 { return s.memRemaining }

func (s *SpellState) MemorizeProgress() float32 {
	if !s.memorizing || s.memTotal == 0 {
		return 0
	}
	return float32(s.memTotal-s.memRemaining) / float32(s.memTotal)
}

// SetMemorizing starts or ends a memorization. Starting moves the gem to
// MemorizeProgress. SpellMemorizing is published either way.
func (s *SpellState) SetMemorizing(memorizing bool, g uint8, spellID uint32, totalMs uint32) {
	s.memorizing, s.memGem, s.memSpellID = memorizing, g, spellID
	s.memTotal, s.memRemaining = totalMs, totalMs
	if memorizing && validGem(g) {
		s.gems[g].State = types.GemMemorizeProgress
		s.fireGem(g)
	}
	s.fireMemorizing()
}

func (s *SpellState) UpdateMemorizeProgress(remainingMs uint32) {
	s.memRemaining = remainingMs
	if s.memorizing {
		s.fireMemorizing()
	}
}

// Spellbook

func (s *SpellState) ScribedSpellCount() uint16     { return s.scribedCount }
func (s *SpellState) SetScribedSpellCount(n uint16) { s.scribedCount = n }

func (s *SpellState) HasSpellScribed(id uint32) bool {
	if id == SpellIDUnknown {
		return false
	}
	for _, sp := range s.scribed {
		if sp == id {
			return true
		}
	}
	return false
}

// AddScribedSpell tracks up to 64 spell ids; duplicates are ignored.
func (s *SpellState) AddScribedSpell(id uint32) {
	if id == SpellIDUnknown || s.HasSpellScribed(id) || len(s.scribed) >= maxTrackedSpells {
		return
	}
	s.scribed = append(s.scribed, id)
}

// ScribedSpells returns the tracked spell ids in the order added.
func (s *SpellState) ScribedSpells() []uint32 { return slices.Clone(s.scribed) }

func (s *SpellState) ClearScribedSpells() {
	s.scribed = nil
	s.scribedCount = 0
}

// Reset empties every gem and session without publishing.
func (s *SpellState) Reset() {
	for i := range s.gems {
		s.gems[i] = emptyGem()
	}
	s.casting, s.castSpellID, s.castTargetID = false, SpellIDUnknown, 0
	s.castRemaining, s.castTotal = 0, 0
	s.memorizing, s.memGem, s.memSpellID = false, 0, SpellIDUnknown
	s.memRemaining, s.memTotal = 0, 0
	s.ClearScribedSpells()
}

func (s *SpellState) fireGem(g uint8) {
	gem := s.gems[g]
	s.bus.PublishData(events.SpellGemChanged, events.SpellGemChangedData{
		GemSlot:             g,
		SpellID:             gem.SpellID,
		State:               uint8(gem.State),
		CooldownRemainingMs: gem.CooldownRemainingMs,
	})
}

func (s *SpellState) fireMemorizing() {
	var progress uint32
	if s.memRemaining < s.memTotal {
		progress = s.memTotal - s.memRemaining
	}
	s.bus.PublishData(events.SpellMemorizing, events.SpellMemorizingData{
		IsMemorizing: s.memorizing,
		GemSlot:      s.memGem,
		SpellID:      s.memSpellID,
		ProgressMs:   progress,
		TotalMs:      s.memTotal,
	})
}
