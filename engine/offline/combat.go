package offline

import (
	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Skill ids handled by UseSkill.
const (
	SkillBash   uint32 = 10
	SkillForage uint32 = 27
	SkillKick   uint32 = 30
	SkillTaunt  uint32 = 73
)

const critChance = 5

// avoidKinds are the outcomes of a swing that fails to land, with their
// relative weights.
var (
	avoidKinds   = []types.CombatKind{types.CombatMiss, types.CombatDodge, types.CombatParry, types.CombatBlock}
	avoidWeights = []int{60, 20, 10, 10}
)

var forageItems = []string{"Roots", "Berries", "Fishing Grubs", "Rabbit Meat"}

// DamageCalc rolls one landed hit: max(1, 1dN + attack - defense).
// It returns the damage and the die roll.
func DamageCalc(die, attack, defense int, rng *RNG) (damage, roll int) {
	roll = rng.Roll(die)
	damage = roll + attack - defense
	if damage < 1 {
		damage = 1
	}
	return damage, roll
}

// hitChance is the percentage chance to land a swing, 70 at even level
// and moving 5 per level of difference.
func hitChance(attacker, defender uint8) int {
	return min(95, max(5, 70+5*(int(attacker)-int(defender))))
}

// conMessage describes a target relative to the player's level.
func conMessage(name string, diff int) string {
	switch {
	case diff >= 2:
		return name + " scowls at you, what would you like your tombstone to say?"
	case diff >= 1:
		return name + " looks like quite a gamble."
	case diff >= 0:
		return name + " looks like an even fight."
	case diff >= -1:
		return name + " looks like you could probably win this fight."
	case diff >= -2:
		return name + " looks like a reasonably safe opponent."
	}
	return name + " looks like you would wipe the floor with it."
}

// swing resolves one attack into an outcome and damage.
func (w *World) swing(attacker, defender uint8, die, attack, defense int) (types.CombatKind, int32) {
	if !w.rng.Chance(hitChance(attacker, defender)) {
		return avoidKinds[w.rng.WeightedSelect(avoidWeights)], 0
	}
	dmg, _ := DamageCalc(die, attack, defense, w.rng)
	if w.rng.Chance(critChance) {
		return types.CombatCriticalHit, int32(dmg * 2)
	}
	return types.CombatHit, int32(dmg)
}

func playerDie(level uint8) int { return 6 + int(level)/2 }

func npcDie(n *npc) int {
	if n.def.Damage > 0 {
		return int(n.def.Damage)
	}
	return 2 + int(n.def.Level)
}

// livingNPC returns the server record and entity of a living, attackable
// NPC.
func (w *World) livingNPC(id uint16) (*npc, *state.Entity) {
	n, ok := w.npcs[id]
	if !ok || n.hp <= 0 {
		return nil, nil
	}
	e := w.gs.Entities().GetEntity(id)
	if e == nil || !e.IsNPC() || e.IsPet {
		return nil, nil
	}
	return n, e
}

// Targeting

func (w *World) TargetEntity(spawnID uint16) {
	e := w.gs.Entities().GetEntity(spawnID)
	if e == nil {
		return
	}
	w.gs.Combat().SetTarget(spawnID, e.Name, e.HPPercent, e.Level)
}

func (w *World) TargetEntityByName(name string) {
	if e := w.gs.Entities().FindEntityByName(name); e != nil {
		w.TargetEntity(e.SpawnID)
	}
}

func (w *World) TargetNearest() {
	x, y, z := w.gs.PlayerPosition()
	e := w.gs.Entities().NearestEntity(x, y, z, func(e *state.Entity) bool {
		return e.IsNPC() && !e.IsPet
	})
	if e == nil {
		w.system("There is nothing nearby to target.")
		return
	}
	w.TargetEntity(e.SpawnID)
}

func (w *World) ClearTarget() {
	c := w.gs.Combat()
	c.ClearTarget()
	c.SetAutoAttacking(false)
}

// Auto-attack

func (w *World) EnableAutoAttack() {
	c := w.gs.Combat()
	if c.IsAutoAttacking() || w.dead() {
		return
	}
	if _, e := w.livingNPC(c.TargetID()); e == nil {
		w.system("You cannot attack that target.")
		return
	}
	w.standUp()
	c.SetAutoAttacking(true)
	w.swingT = 0
	w.system("Auto attack is on.")
}

func (w *World) DisableAutoAttack() {
	c := w.gs.Combat()
	if !c.IsAutoAttacking() {
		return
	}
	c.SetAutoAttacking(false)
	w.system("Auto attack is off.")
}

func (w *World) ToggleAutoAttack() {
	if w.gs.Combat().IsAutoAttacking() {
		w.DisableAutoAttack()
		return
	}
	w.EnableAutoAttack()
}

func (w *World) tickMelee(dt float32) {
	c := w.gs.Combat()
	if !c.IsAutoAttacking() {
		return
	}
	w.swingT -= dt
	if w.swingT > 0 {
		return
	}
	w.swingT = swingDelay
	n, e := w.livingNPC(c.TargetID())
	if n == nil {
		c.SetAutoAttacking(false)
		return
	}
	if e.DistanceTo(w.gs.PlayerPosition()) > meleeRange {
		w.system("Your target is too far away, get closer!")
		return
	}
	w.meleeRound(n, e)
}

// meleeRound is one exchange: the player swings, then a surviving NPC
// swings back.
func (w *World) meleeRound(n *npc, e *state.Entity) {
	p := w.gs.Player()
	kind, dmg := w.swing(p.Level(), n.def.Level, playerDie(p.Level()), int(p.Level())/2, int(n.def.Level)/4)
	w.gs.Combat().RecordCombat(kind, p.SpawnID(), e.SpawnID, dmg, p.Name(), e.Name)
	if dmg > 0 {
		w.damageNPC(n, e, dmg, p.SpawnID(), p.Name())
	}
	if n.hp > 0 && !w.dead() {
		w.counterAttack(n, e)
	}
}

func (w *World) counterAttack(n *npc, e *state.Entity) {
	p := w.gs.Player()
	kind, dmg := w.swing(n.def.Level, p.Level(), npcDie(n), 0, int(p.Level())/4)
	w.gs.Combat().RecordCombat(kind, e.SpawnID, p.SpawnID(), dmg, e.Name, p.Name())
	if dmg > 0 {
		w.damagePlayer(dmg, e)
	}
}

func hpPercent(cur, total int32) uint8 {
	if total <= 0 || cur <= 0 {
		return 0
	}
	return uint8(min(100, int64(cur)*100/int64(total)))
}

func (w *World) damageNPC(n *npc, e *state.Entity, dmg int32, killerID uint16, killerName string) {
	n.hp = max(0, n.hp-dmg)
	pct := hpPercent(n.hp, n.maxHP)
	if n.hp > 0 && pct == 0 {
		pct = 1
	}
	w.gs.Entities().UpdateEntityHP(e.SpawnID, pct)
	c := w.gs.Combat()
	if c.TargetID() == e.SpawnID {
		c.UpdateTargetHP(pct)
	}
	if n.hp == 0 {
		w.kill(e, killerID, killerName)
	}
}

func (w *World) kill(e *state.Entity, killerID uint16, killerName string) {
	c := w.gs.Combat()
	c.RecordCombat(types.CombatDeath, killerID, e.SpawnID, 0, killerName, e.Name)
	w.gs.Entities().MarkAsCorpse(e.SpawnID)
	c.SetLastSlainEntityName(e.Name)
	if c.TargetID() == e.SpawnID {
		c.SetAutoAttacking(false)
	}
	if w.petTarget == e.SpawnID {
		w.petTarget = 0
	}
	if killerID == w.gs.Player().SpawnID() {
		w.systemf("You have slain %s!", e.DisplayName())
	} else {
		w.systemf("%s has been slain by %s!", e.DisplayName(), state.DisplayName(killerName))
	}
	w.log.Debug("npc killed", zap.Uint16("spawn_id", e.SpawnID), zap.String("killer", killerName))
}

func (w *World) damagePlayer(dmg int32, from *state.Entity) {
	p := w.gs.Player()
	p.SetCurHP(max(0, p.CurHP()-dmg))
	w.syncPlayerHP()
	if p.CurHP() == 0 {
		w.die(from)
	}
}

func (w *World) die(killer *state.Entity) {
	p := w.gs.Player()
	c := w.gs.Combat()
	c.RecordCombat(types.CombatDeath, killer.SpawnID, p.SpawnID(), 0, killer.Name, p.Name())
	c.SetAutoAttacking(false)
	w.StopAllMovement()
	w.cancelCast()
	p.SetCamping(false)
	p.SetPositionState(types.PosDead)
	w.systemf("You have been slain by %s!", killer.DisplayName())
	w.respawnT = respawnDelay
}

// Consider reports how the current target compares to the player.
func (w *World) Consider() {
	e := w.gs.Entities().GetEntity(w.gs.Combat().TargetID())
	if e == nil {
		return
	}
	switch {
	case e.SpawnID == w.gs.Player().SpawnID():
		w.system("You consider yourself. You look like you.")
	case e.IsAnyCorpse():
		w.systemf("%s is dead.", e.DisplayName())
	case e.IsPlayer() || e.IsPet:
		w.systemf("%s regards you indifferently.", e.DisplayName())
	default:
		w.system(conMessage(e.DisplayName(), int(e.Level)-int(w.gs.Player().Level())))
	}
}

// Skills

func (w *World) UseAbility(abilityID uint32) { w.UseSkill(abilityID) }

func (w *World) UseSkill(skillID uint32) {
	if w.dead() {
		return
	}
	if w.skillT > 0 {
		w.system("You can not use this skill again yet.")
		return
	}
	switch skillID {
	case SkillBash, SkillKick:
		w.combatSkill(skillID)
	case SkillTaunt:
		n, e := w.livingNPC(w.gs.Combat().TargetID())
		if n == nil || !w.inMelee(e) {
			w.system("You must be in range of a target to taunt it.")
			return
		}
		w.skillT = skillReuse
		w.systemf("You taunt %s to ignore others and attack you!", e.DisplayName())
	case SkillForage:
		w.skillT = skillReuse
		w.forage()
	default:
		w.systemf("You do not have skill %d.", skillID)
	}
}

func (w *World) inMelee(e *state.Entity) bool {
	return e.DistanceTo(w.gs.PlayerPosition()) <= meleeRange
}

func (w *World) combatSkill(skillID uint32) {
	n, e := w.livingNPC(w.gs.Combat().TargetID())
	if n == nil {
		w.system("You must first select a target for this skill!")
		return
	}
	if !w.inMelee(e) {
		w.system("Your target is too far away, get closer!")
		return
	}
	w.skillT = skillReuse
	p := w.gs.Player()
	die := 4
	if skillID == SkillKick {
		die = 6
	}
	kind, dmg := w.swing(p.Level(), n.def.Level, die, int(p.Level())/3, int(n.def.Level)/4)
	w.gs.Combat().RecordCombat(kind, p.SpawnID(), e.SpawnID, dmg, p.Name(), e.Name)
	if dmg > 0 {
		w.damageNPC(n, e, dmg, p.SpawnID(), p.Name())
	}
}

func (w *World) forage() {
	if !w.rng.Chance(50) {
		w.system("You fail to locate any food nearby.")
		return
	}
	item := forageItems[w.rng.Roll(len(forageItems))-1]
	if _, ok := w.store(item); !ok {
		w.system("You have no room for that item.")
		return
	}
	w.systemf("You have scrounged up some %s.", item)
}

// Pet

func petDie(level uint8) int { return 4 + int(level)/2 }

// tickPet moves the pet toward its attack target and swings at it, or
// keeps it at the player's side.
func (w *World) tickPet(dt float32) {
	pet := w.gs.Pet()
	if !pet.HasPet() {
		return
	}
	ents := w.gs.Entities()
	e := ents.GetEntity(pet.SpawnID())
	if e == nil {
		return
	}
	speed := w.gs.Player().MoveSpeed() * dt

	if w.petTarget != 0 {
		n, t := w.livingNPC(w.petTarget)
		if n == nil {
			w.petTarget = 0
		} else {
			w.moveEntity(e, t.X, t.Y, t.Z, meleeRange/2, speed)
			w.petSwingT -= dt
			if w.petSwingT <= 0 && e.DistanceTo(t.X, t.Y, t.Z) <= meleeRange {
				w.petSwingT = swingDelay
				kind, dmg := w.swing(pet.Level(), n.def.Level, petDie(pet.Level()), int(pet.Level())/2, int(n.def.Level)/4)
				w.gs.Combat().RecordCombat(kind, e.SpawnID, t.SpawnID, dmg, e.Name, t.Name)
				if dmg > 0 {
					w.damageNPC(n, t, dmg, e.SpawnID, e.Name)
				}
			}
			return
		}
	}
	if pet.ButtonState(state.PetButtonSit) || pet.ButtonState(state.PetButtonGuard) {
		return
	}
	x, y, z := w.gs.PlayerPosition()
	w.moveEntity(e, x, y, z, petFollowRange, speed)
}

func (w *World) moveEntity(e *state.Entity, tx, ty, tz, stop, maxStep float32) {
	dx, dy, dz, _ := step(e.X, e.Y, e.Z, tx, ty, tz, stop, maxStep)
	if dx == 0 && dy == 0 && dz == 0 {
		return
	}
	h := headingTo(e.X, e.Y, tx, ty)
	w.gs.Entities().UpdateEntityPosition(e.SpawnID, e.X+dx, e.Y+dy, e.Z+dz, h, dx, dy, dz, e.Animation)
}
