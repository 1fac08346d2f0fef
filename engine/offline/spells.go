package offline

import (
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

func (w *World) CastSpell(gem uint8) { w.cast(gem, w.gs.Combat().TargetID()) }

func (w *World) CastSpellOnTarget(gem uint8, targetID uint16) { w.cast(gem, targetID) }

// cast starts a cast from a 1-based gem. Detrimental spells need a living
// NPC target; beneficial spells fall back to the caster.
func (w *World) cast(gem uint8, targetID uint16) {
	if w.dead() {
		return
	}
	sp := w.gs.Spells()
	if sp.IsCasting() {
		w.system("You are already casting a spell!")
		return
	}
	if gem == 0 || int(gem) > state.SpellGemCount || !sp.HasSpellMemorized(gem-1) {
		w.system("You do not have a spell memorized in that slot.")
		return
	}
	idx := gem - 1
	if !sp.IsGemReady(idx) {
		w.system("Spell recovery time not yet met.")
		return
	}
	id := sp.GemSpellID(idx)
	def := w.spellDef(id)
	p := w.gs.Player()
	if p.CurMana() < def.ManaCost {
		w.system("Insufficient Mana to cast this spell!")
		return
	}
	if def.Damage > 0 {
		if n, _ := w.livingNPC(targetID); n == nil {
			w.system("You must first select a target for this spell!")
			return
		}
	} else if targetID == 0 {
		targetID = p.SpawnID()
	}

	w.standUp()
	sp.SetGem(idx, id, types.GemCasting)
	sp.SetCasting(true, id, targetID, def.CastTimeMs)
	w.castGem = int(idx)
	w.castLeft = float32(def.CastTimeMs)
	w.systemf("You begin casting %s.", def.Name)
	if def.CastTimeMs == 0 {
		w.finishCast()
	}
}

func (w *World) spellDef(id uint32) types.SpellDef {
	if def, ok := w.spells[id]; ok {
		return def
	}
	return types.SpellDef{SpellID: id, Name: "an unknown spell"}
}

func (w *World) finishCast() {
	sp := w.gs.Spells()
	idx := uint8(w.castGem)
	id, target := sp.CastingSpellID(), sp.CastingTargetID()
	def := w.spellDef(id)
	w.castGem = -1
	sp.ClearCasting()

	p := w.gs.Player()
	p.SetCurMana(p.CurMana() - def.ManaCost)
	w.applySpell(def, target)

	if def.RecastMs > 0 {
		sp.SetGemCooldown(idx, def.RecastMs, def.RecastMs)
	} else {
		sp.SetGem(idx, id, types.GemReady)
	}
}

// applySpell lands a finished spell. Positive damage hurts the target and
// negative damage heals it.
func (w *World) applySpell(def types.SpellDef, targetID uint16) {
	p := w.gs.Player()
	switch {
	case def.Damage > 0:
		n, e := w.livingNPC(targetID)
		if n == nil {
			w.system("Your spell fizzles as its target is gone.")
			return
		}
		w.gs.Combat().RecordCombat(types.CombatHit, p.SpawnID(), targetID, def.Damage, p.Name(), e.Name)
		w.damageNPC(n, e, def.Damage, p.SpawnID(), p.Name())
	case def.Damage < 0 && targetID == p.SpawnID():
		p.SetCurHP(min(p.MaxHP(), p.CurHP()-def.Damage))
		w.syncPlayerHP()
		w.system("You feel much better.")
	default:
		name := "You"
		if e := w.gs.Entities().GetEntity(targetID); e != nil && targetID != p.SpawnID() {
			name = e.DisplayName()
		}
		w.systemf("%s: %s takes hold.", name, def.Name)
	}
}

func (w *World) interrupt(msg string) {
	if !w.gs.Spells().IsCasting() {
		return
	}
	w.cancelCast()
	w.system(msg)
}

// cancelCast drops the current cast without a refresh.
func (w *World) cancelCast() {
	sp := w.gs.Spells()
	if w.castGem >= 0 {
		idx := uint8(w.castGem)
		sp.SetGem(idx, sp.GemSpellID(idx), types.GemReady)
	}
	w.castGem = -1
	if sp.IsCasting() {
		sp.ClearCasting()
	}
}

func (w *World) InterruptCast() { w.interrupt("Your spell is interrupted.") }

// Memorization

func (w *World) MemorizeSpell(gem uint8, spellID uint32) {
	if w.dead() {
		return
	}
	sp := w.gs.Spells()
	if gem == 0 || int(gem) > state.SpellGemCount {
		w.system("You cannot memorize a spell into that slot.")
		return
	}
	def, ok := w.spells[spellID]
	if !ok {
		w.system("You do not have that spell in your spellbook.")
		return
	}
	if sp.IsCasting() {
		w.system("You cannot memorize spells while casting.")
		return
	}
	if sp.IsMemorizing() {
		w.abortMemorize()
	}
	w.haltManual()
	w.gs.Player().SetPositionState(types.PosSitting)
	w.memPrev = sp.Gem(gem - 1)
	sp.SetMemorizing(true, gem-1, spellID, memorizeMs)
	w.memLeft = memorizeMs
	w.systemf("Beginning to memorize %s...", def.Name)
}

func (w *World) finishMemorize() {
	sp := w.gs.Spells()
	g, id := sp.MemorizingGemSlot(), sp.MemorizingSpellID()
	sp.SetMemorizing(false, g, id, 0)
	sp.SetGem(g, id, types.GemReady)
	sp.AddScribedSpell(id)
	w.systemf("You have finished memorizing %s.", w.spellDef(id).Name)
}

// abortMemorize puts the gem back the way it was.
func (w *World) abortMemorize() {
	sp := w.gs.Spells()
	g := sp.MemorizingGemSlot()
	sp.SetMemorizing(false, g, sp.MemorizingSpellID(), 0)
	if w.memPrev.SpellID == state.SpellIDUnknown {
		sp.ClearGem(g)
	} else {
		sp.SetGem(g, w.memPrev.SpellID, types.GemReady)
	}
	w.system("You stop memorizing.")
}

func (w *World) ForgetSpell(gem uint8) {
	sp := w.gs.Spells()
	if gem == 0 || !sp.HasSpellMemorized(gem-1) {
		return
	}
	if w.castGem == int(gem-1) {
		w.system("You cannot forget a spell you are casting.")
		return
	}
	name := w.spellDef(sp.GemSpellID(gem - 1)).Name
	sp.ClearGem(gem - 1)
	w.systemf("You forget %s.", name)
}

func (w *World) OpenSpellbook() {
	if w.dead() {
		return
	}
	w.spellbook = true
	w.haltManual()
	w.gs.Player().SetPositionState(types.PosSitting)
}

func (w *World) CloseSpellbook() { w.spellbook = false }

func (w *World) tickSpells(dt float32) {
	sp := w.gs.Spells()
	ms := dt * 1000

	if sp.IsCasting() && w.castGem >= 0 {
		w.castLeft -= ms
		if w.castLeft <= 0 {
			w.finishCast()
		} else {
			sp.UpdateCastProgress(uint32(w.castLeft))
		}
	}

	for g := uint8(0); g < state.SpellGemCount; g++ {
		if sp.GemState(g) != types.GemRefresh {
			continue
		}
		gem := sp.Gem(g)
		rem := float32(gem.CooldownRemainingMs) - ms
		sp.SetGemCooldown(g, uint32(max(0, rem)), gem.CooldownTotalMs)
	}

	if sp.IsMemorizing() {
		w.memLeft -= ms
		if w.memLeft <= 0 {
			w.finishMemorize()
		} else {
			sp.UpdateMemorizeProgress(uint32(w.memLeft))
		}
	}
}
