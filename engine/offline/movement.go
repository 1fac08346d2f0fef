package offline

import (
	"math"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/types"
)

// Speed multipliers applied to the player's run speed.
var modeSpeed = map[types.MovementMode]float32{
	types.MoveRun:   1,
	types.MoveWalk:  0.5,
	types.MoveSneak: 0.3,
}

// headingTo returns the heading from one point to another, 0 facing +Y
// and 90 facing +X.
func headingTo(fromX, fromY, toX, toY float32) float32 {
	h := math.Atan2(float64(toX-fromX), float64(toY-fromY)) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return float32(h)
}

func distance(dx, dy, dz float32) float32 {
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// step returns the offset that moves from (x,y,z) toward (tx,ty,tz) by at
// most maxStep, stopping stop units short. arrived is true once the
// remaining gap is within stop.
func step(x, y, z, tx, ty, tz, stop, maxStep float32) (dx, dy, dz float32, arrived bool) {
	ox, oy, oz := tx-x, ty-y, tz-z
	d := distance(ox, oy, oz)
	if d <= stop {
		return 0, 0, 0, true
	}
	n := d - stop
	if n > maxStep {
		n = maxStep
	} else {
		arrived = true
	}
	f := n / d
	return ox * f, oy * f, oz * f, arrived
}

// standUp returns the player to standing, ending a camp or memorization.
func (w *World) standUp() {
	p := w.gs.Player()
	if p.IsCamping() {
		w.CancelCamp()
	}
	if w.gs.Spells().IsMemorizing() {
		w.abortMemorize()
	}
	if pos := p.PositionState(); pos == types.PosSitting || pos == types.PosCrouching {
		p.SetPositionState(types.PosStanding)
	}
}

func (w *World) StartMoving(dir action.Direction) {
	if int(dir) < 0 || int(dir) >= len(w.dirs) || w.dead() {
		return
	}
	w.standUp()
	if dir == action.Backward {
		w.autorun = false
	}
	w.dirs[dir] = true
	p := w.gs.Player()
	p.ClearMovementTarget()
	w.approach = ""
	switch dir {
	case action.Forward:
		p.SetMoveForward(true)
	case action.Backward:
		p.SetMoveBackward(true)
	}
}

func (w *World) StopMoving(dir action.Direction) {
	if int(dir) < 0 || int(dir) >= len(w.dirs) {
		return
	}
	w.dirs[dir] = false
	p := w.gs.Player()
	switch dir {
	case action.Forward:
		p.SetMoveForward(false)
	case action.Backward:
		p.SetMoveBackward(false)
	}
}

func (w *World) SetHeading(heading float32) {
	w.gs.Player().SetHeading(heading)
	w.syncPlayerEntity()
}

func (w *World) Jump() {
	p := w.gs.Player()
	if p.IsJumping() || p.PositionState() != types.PosStanding {
		return
	}
	p.SetJumping(true)
	p.SetJumpStartZ(p.Z())
	p.SetJumpStartTime(w.clock())
	w.jumpT = 0
}

func (w *World) Sit() {
	if w.dead() {
		return
	}
	w.haltManual()
	w.gs.Player().SetPositionState(types.PosSitting)
}

func (w *World) Stand() {
	if w.dead() {
		return
	}
	w.standUp()
	w.gs.Player().SetPositionState(types.PosStanding)
}

func (w *World) ToggleAutorun() {
	if w.dead() {
		return
	}
	w.autorun = !w.autorun
	if w.autorun {
		w.standUp()
		w.gs.Player().ClearMovementTarget()
		w.approach = ""
	}
}

func (w *World) Autorun() bool { return w.autorun }

// haltManual releases every held direction and autorun.
func (w *World) haltManual() {
	w.dirs = [6]bool{}
	w.autorun = false
	p := w.gs.Player()
	p.SetMoveForward(false)
	p.SetMoveBackward(false)
}

func (w *World) StopAllMovement() {
	w.haltManual()
	w.approach = ""
	p := w.gs.Player()
	p.ClearMovementTarget()
	p.ClearFollowTarget()
	p.SetVelocity(0, 0, 0)
	p.SetMoving(false)
}

func (w *World) MoveToLocation(x, y, z float32) {
	if w.dead() {
		return
	}
	w.standUp()
	w.haltManual()
	w.approach = ""
	p := w.gs.Player()
	p.ClearFollowTarget()
	p.SetMovementTarget(x, y, z)
}

func (w *World) MoveToEntity(name string) { w.MoveToEntityWithinRange(name, arriveDistance) }

func (w *World) MoveToEntityWithinRange(name string, dist float32) {
	if w.dead() || w.gs.Entities().FindEntityByName(name) == nil {
		return
	}
	w.standUp()
	w.haltManual()
	p := w.gs.Player()
	p.ClearMovementTarget()
	p.ClearFollowTarget()
	w.approach, w.approachRange = name, dist
}

func (w *World) FollowEntity(name string) {
	if w.dead() {
		return
	}
	w.standUp()
	w.approach = ""
	p := w.gs.Player()
	p.ClearMovementTarget()
	p.SetFollowTarget(name)
}

func (w *World) StopFollow() { w.gs.Player().ClearFollowTarget() }

func (w *World) SetMovementMode(mode types.MovementMode) {
	p := w.gs.Player()
	p.SetMovementMode(mode)
	p.SetSneaking(mode == types.MoveSneak)
}

func (w *World) SetPositionState(pos types.PositionState) {
	if w.dead() {
		return
	}
	if pos != types.PosStanding {
		w.haltManual()
	}
	if pos == types.PosFeignDeath {
		w.gs.Combat().SetAutoAttacking(false)
	}
	w.gs.Player().SetPositionState(pos)
}

func (w *World) tickJump(dt float32) {
	p := w.gs.Player()
	if !p.IsJumping() {
		return
	}
	w.jumpT += dt
	x, y, _ := p.Position()
	t := w.jumpT / jumpDuration
	if t >= 1 {
		p.SetJumping(false)
		p.SetPosition(x, y, p.JumpStartZ())
	} else {
		p.SetPosition(x, y, p.JumpStartZ()+jumpHeight*4*t*(1-t))
	}
	w.syncPlayerEntity()
}

// manualVector is the unit direction the held keys and autorun point at.
func (w *World) manualVector(heading float32) (x, y, z float32, ok bool) {
	var fwd, side, up float32
	if w.dirs[action.Forward] || w.autorun {
		fwd++
	}
	if w.dirs[action.Backward] {
		fwd--
	}
	if w.dirs[action.Right] {
		side++
	}
	if w.dirs[action.Left] {
		side--
	}
	if w.dirs[action.Up] {
		up++
	}
	if w.dirs[action.Down] {
		up--
	}
	if fwd == 0 && side == 0 && up == 0 {
		return 0, 0, 0, false
	}
	rad := float64(heading) * math.Pi / 180
	sin, cos := float32(math.Sin(rad)), float32(math.Cos(rad))
	x = fwd*sin + side*cos
	y = fwd*cos - side*sin
	z = up
	n := distance(x, y, z)
	return x / n, y / n, z / n, true
}

func (w *World) tickMovement(dt float32) {
	p := w.gs.Player()
	w.tickJump(dt)
	if w.dead() || p.PositionState() != types.PosStanding {
		p.SetVelocity(0, 0, 0)
		p.SetMoving(false)
		return
	}

	speed := p.MoveSpeed() * modeSpeed[p.MovementMode()]
	maxStep := speed * dt
	x, y, z := p.Position()
	heading := p.Heading()
	var dx, dy, dz float32

	if vx, vy, vz, ok := w.manualVector(heading); ok {
		dx, dy, dz = vx*maxStep, vy*maxStep, vz*maxStep
	} else if tx, ty, tz, ok := w.pathTarget(); ok {
		var arrived bool
		dx, dy, dz, arrived = step(x, y, z, tx, ty, tz, w.stopRange(), maxStep)
		if dx != 0 || dy != 0 {
			heading = headingTo(x, y, tx, ty)
		}
		if arrived {
			w.arrive()
		}
	}

	moving := dx != 0 || dy != 0 || dz != 0
	p.SetMoving(moving)
	if !moving {
		p.SetVelocity(0, 0, 0)
		return
	}
	p.SetVelocity(dx/dt, dy/dt, dz/dt)
	p.SetPositionAndHeading(x+dx, y+dy, p.Z()+dz, heading)
	p.IncrementMovementSequence()
	w.syncPlayerEntity()
	if w.gs.Spells().IsCasting() {
		w.interrupt("Your spell is interrupted.")
	}
}

// pathTarget is where automatic movement is heading: a location, an
// entity being approached, or a followed entity.
func (w *World) pathTarget() (x, y, z float32, ok bool) {
	p := w.gs.Player()
	switch {
	case p.HasMovementTarget():
		x, y, z = p.MovementTarget()
		return x, y, z, true
	case w.approach != "":
		e := w.gs.Entities().FindEntityByName(w.approach)
		if e == nil {
			w.approach = ""
			return 0, 0, 0, false
		}
		return e.X, e.Y, e.Z, true
	case p.IsFollowing():
		e := w.gs.Entities().FindEntityByName(p.FollowTarget())
		if e == nil {
			w.systemf("You lose track of %s.", p.FollowTarget())
			p.ClearFollowTarget()
			return 0, 0, 0, false
		}
		return e.X, e.Y, e.Z, true
	}
	return 0, 0, 0, false
}

func (w *World) stopRange() float32 {
	p := w.gs.Player()
	switch {
	case p.HasMovementTarget():
		return 0
	case w.approach != "":
		return w.approachRange
	}
	return p.FollowDistance()
}

// arrive ends a location or approach move. Following never ends on
// arrival.
func (w *World) arrive() {
	p := w.gs.Player()
	switch {
	case p.HasMovementTarget():
		p.ClearMovementTarget()
	case w.approach != "":
		w.approach = ""
	}
}
