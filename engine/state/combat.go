package state

import (
	"time"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/types"
)

// CombatState tracks the current target and auto-attack session.
type CombatState struct {
	bus *events.Bus

	targetID        uint16
	targetName      string
	targetHPPercent uint8
	targetLevel     uint8

	autoAttacking    bool
	combatTarget     string
	stopDistance     float32
	inCombatMovement bool
	lastMovement     time.Time
	lastSlain        string
}

func NewCombatState() *CombatState {
	return &CombatState{targetHPPercent: 100}
}

func (c *CombatState) SetEventBus(bus *events.Bus) { c.bus = bus }

func (c *CombatState) TargetID() uint16       { return c.targetID }
func (c *CombatState) TargetName() string     { return c.targetName }
func (c *CombatState) TargetHPPercent() uint8 { return c.targetHPPercent }
func (c *CombatState) TargetLevel() uint8     { return c.targetLevel }
func (c *CombatState) HasTarget() bool        { return c.targetID != 0 }

// SetTarget publishes TargetChanged when the target differs from the
// current one.
func (c *CombatState) SetTarget(spawnID uint16, name string, hpPercent, level uint8) {
	changed := c.targetID != spawnID || c.targetName != name ||
		c.targetHPPercent != hpPercent || c.targetLevel != level
	c.targetID, c.targetName = spawnID, name
	c.targetHPPercent, c.targetLevel = hpPercent, level
	if changed {
		c.fireTarget()
	}
}

// ClearTarget publishes TargetChanged with spawn id 0 if a target was set.
func (c *CombatState) ClearTarget() {
	if c.targetID == 0 {
		return
	}
	c.targetID, c.targetName = 0, ""
	c.targetHPPercent, c.targetLevel = 100, 0
	c.fireTarget()
}

func (c *CombatState) UpdateTargetHP(hpPercent uint8) {
	if c.targetID == 0 || c.targetHPPercent == hpPercent {
		return
	}
	c.targetHPPercent = hpPercent
	c.fireTarget()
}

func (c *CombatState) UpdateTargetLevel(level uint8) {
	if c.targetID == 0 || c.targetLevel == level {
		return
	}
	c.targetLevel = level
	c.fireTarget()
}

func (c *CombatState) IsAutoAttacking() bool { return c.autoAttacking }

// SetAutoAttacking publishes AutoAttackChanged only on transition.
func (c *CombatState) SetAutoAttacking(v bool) {
	if c.autoAttacking == v {
		return
	}
	c.autoAttacking = v
	c.bus.PublishData(events.AutoAttackChanged, events.AutoAttackChangedData{
		Enabled:  v,
		TargetID: c.targetID,
	})
}

func (c *CombatState) CombatTarget() string                    { return c.combatTarget }
func (c *CombatState) SetCombatTarget(name string)             { c.combatTarget = name }
func (c *CombatState) ClearCombatTarget()                      { c.combatTarget = "" }
func (c *CombatState) HasCombatTarget() bool                   { return c.combatTarget != "" }
func (c *CombatState) CombatStopDistance() float32             { return c.stopDistance }
func (c *CombatState) SetCombatStopDistance(d float32)         { c.stopDistance = d }
func (c *CombatState) InCombatMovement() bool                  { return c.inCombatMovement }
func (c *CombatState) SetInCombatMovement(v bool)              { c.inCombatMovement = v }
func (c *CombatState) LastCombatMovementUpdate() time.Time     { return c.lastMovement }
func (c *CombatState) SetLastCombatMovementUpdate(t time.Time) { c.lastMovement = t }
func (c *CombatState) LastSlainEntityName() string             { return c.lastSlain }
func (c *CombatState) SetLastSlainEntityName(n string)         { c.lastSlain = n }

// RecordCombat publishes a CombatEvent and remembers slain entities.
func (c *CombatState) RecordCombat(kind types.CombatKind, sourceID, targetID uint16, damage int32, sourceName, targetName string) {
	if kind == types.CombatDeath {
		c.lastSlain = targetName
	}
	c.bus.PublishData(events.CombatEvent, events.CombatEventData{
		Kind:       uint8(kind),
		SourceID:   sourceID,
		TargetID:   targetID,
		Damage:     damage,
		SourceName: sourceName,
		TargetName: targetName,
	})
}

// Reset returns to the no-target, not-attacking state. It publishes the
// target and auto-attack transitions it causes.
func (c *CombatState) Reset() {
	c.ClearTarget()
	c.SetAutoAttacking(false)
	c.combatTarget = ""
	c.stopDistance = 0
	c.inCombatMovement = false
	c.lastMovement = time.Time{}
	c.lastSlain = ""
}

func (c *CombatState) fireTarget() {
	c.bus.PublishData(events.TargetChanged, events.TargetChangedData{
		SpawnID:   c.targetID,
		Name:      c.targetName,
		HPPercent: c.targetHPPercent,
		Level:     c.targetLevel,
	})
}
