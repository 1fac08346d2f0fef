package action

import (
	"go.uber.org/zap"

	"github.com/willeq/willeq/input"
)

// Bridge defaults.
const (
	DefaultMouseSensitivity = 1.0
	DefaultTurnSpeed        = 180 // degrees per second

	mouseLookScale = 0.1
)

// ActionCallback observes every dispatcher result the bridge produces.
type ActionCallback func(name string, r Result)

// InputBridge is the per-frame pump from an input.Handler into the
// dispatcher. Movement keys are edge-triggered; turning is applied every
// frame the key or mouse is held.
type InputBridge struct {
	d    *Dispatcher
	proc *CommandProcessor
	in   input.Handler
	log  *zap.Logger

	callback ActionCallback
	enabled  bool

	sensitivity float32
	turnSpeed   float32

	forward, backward, left, right bool
}

func NewInputBridge(d *Dispatcher, proc *CommandProcessor, log *zap.Logger) *InputBridge {
	if log == nil {
		log = zap.NewNop()
	}
	return &InputBridge{
		d:           d,
		proc:        proc,
		log:         log,
		enabled:     true,
		sensitivity: DefaultMouseSensitivity,
		turnSpeed:   DefaultTurnSpeed,
	}
}

func (b *InputBridge) SetInputHandler(h input.Handler)     { b.in = h }
func (b *InputBridge) InputHandler() input.Handler         { return b.in }
func (b *InputBridge) SetActionCallback(cb ActionCallback) { b.callback = cb }
func (b *InputBridge) SetEnabled(on bool)                  { b.enabled = on }
func (b *InputBridge) Enabled() bool                       { return b.enabled }
func (b *InputBridge) SetMouseSensitivity(s float32)       { b.sensitivity = s }
func (b *InputBridge) MouseSensitivity() float32           { return b.sensitivity }
func (b *InputBridge) SetTurnSpeed(degPerSec float32)      { b.turnSpeed = degPerSec }
func (b *InputBridge) TurnSpeed() float32                  { return b.turnSpeed }

func (b *InputBridge) report(name string, r Result) {
	if !r.Success {
		b.log.Debug("action failed", zap.String("action", name), zap.String("reason", r.Message))
	}
	if b.callback != nil {
		b.callback(name, r)
	}
}

// Update runs one frame: poll the handler, then apply discrete actions,
// movement, turning and every queued request.
func (b *InputBridge) Update(dt float32) {
	if !b.enabled || b.in == nil {
		return
	}
	b.in.Update()

	b.processActions()
	st := b.in.State()
	b.processMovement(st)
	b.processTurning(st, dt)
	b.processMouseLook(st)
	b.drainQueues()
}

var discreteActions = []struct {
	action input.Action
	name   string
	run    func(d *Dispatcher) Result
}{
	{input.ToggleAutorun, "ToggleAutorun", (*Dispatcher).ToggleAutorun},
	{input.Jump, "Jump", (*Dispatcher).Jump},
	{input.ToggleAutoAttack, "ToggleAutoAttack", (*Dispatcher).ToggleAutoAttack},
	{input.Attack, "EnableAutoAttack", (*Dispatcher).EnableAutoAttack},
	{input.ClearTarget, "ClearTarget", (*Dispatcher).ClearTarget},
	{input.Consider, "Consider", (*Dispatcher).Consider},
	{input.Hail, "Hail", hailTargetOrSay},
	{input.InteractDoor, "ClickNearestDoor", (*Dispatcher).ClickNearestDoor},
	{input.Interact, "InteractNearest", (*Dispatcher).InteractNearest},
	{input.TargetSelf, "TargetSelf", (*Dispatcher).TargetSelf},
	{input.TargetNearestPC, "TargetNearestPC", (*Dispatcher).TargetNearestPC},
	{input.TargetNearestNPC, "TargetNearestNPC", (*Dispatcher).TargetNearestNPC},
	{input.TargetGroupMember1, "TargetGroupMember", groupMember(1)},
	{input.TargetGroupMember2, "TargetGroupMember", groupMember(2)},
	{input.TargetGroupMember3, "TargetGroupMember", groupMember(3)},
	{input.TargetGroupMember4, "TargetGroupMember", groupMember(4)},
	{input.TargetGroupMember5, "TargetGroupMember", groupMember(5)},
}

func hailTargetOrSay(d *Dispatcher) Result {
	if d.State().Combat().HasTarget() {
		return d.HailTarget()
	}
	return d.Hail()
}

func groupMember(n int) func(*Dispatcher) Result {
	return func(d *Dispatcher) Result { return d.TargetGroupMember(n) }
}

func (b *InputBridge) processActions() {
	for _, a := range discreteActions {
		if b.in.ConsumeAction(a.action) {
			b.report(a.name, a.run(b.d))
		}
	}
}

func (b *InputBridge) edge(held bool, was *bool, dir Direction) {
	if held == *was {
		return
	}
	*was = held
	if held {
		b.report("StartMoving", b.d.StartMoving(dir))
	} else {
		b.report("StopMoving", b.d.StopMoving(dir))
	}
}

func (b *InputBridge) processMovement(st input.State) {
	b.edge(st.MoveForward, &b.forward, Forward)
	b.edge(st.MoveBackward, &b.backward, Backward)
	b.edge(st.StrafeLeft, &b.left, Left)
	b.edge(st.StrafeRight, &b.right, Right)
}

func (b *InputBridge) processTurning(st input.State, dt float32) {
	var delta float32
	if st.TurnLeft {
		delta -= b.turnSpeed * dt
	}
	if st.TurnRight {
		delta += b.turnSpeed * dt
	}
	if delta == 0 {
		return
	}
	b.report("SetHeading", b.d.SetHeading(b.d.State().Player().Heading()+delta))
}

// processMouseLook turns the player while the left button is held. The
// vertical delta belongs to the camera.
func (b *InputBridge) processMouseLook(st input.State) {
	if !st.LeftButtonDown || st.MouseDeltaX == 0 {
		return
	}
	delta := float32(st.MouseDeltaX) * b.sensitivity * mouseLookScale
	b.report("SetHeading", b.d.SetHeading(b.d.State().Player().Heading()+delta))
	b.in.ResetMouseDeltas()
}

func (b *InputBridge) drainQueues() {
	for {
		line, ok := b.in.ConsumeRawCommand()
		if !ok {
			break
		}
		if b.proc == nil {
			b.report("Command", Failure("No command processor"))
			continue
		}
		b.report("Command", b.proc.ProcessCommand(line))
	}

	for {
		msg, ok := b.in.ConsumeChatMessage()
		if !ok {
			break
		}
		b.report("SendChat", b.sendChat(msg))
	}

	for {
		cmd, ok := b.in.ConsumeMoveCommand()
		if !ok {
			break
		}
		b.applyMove(cmd)
	}

	for {
		req, ok := b.in.ConsumeSpellCast()
		if !ok {
			break
		}
		b.report("CastSpell", b.d.CastSpell(req.GemSlot+1))
	}

	for {
		req, ok := b.in.ConsumeTarget()
		if !ok {
			break
		}
		if req.SpawnID != 0 {
			b.report("TargetEntity", b.d.TargetEntity(req.SpawnID))
		}
	}

	for {
		req, ok := b.in.ConsumeLoot()
		if !ok {
			break
		}
		b.report("LootCorpse", b.d.LootCorpse(req.CorpseID))
	}

	// Hotbar buttons only hold spells for now.
	for {
		req, ok := b.in.ConsumeHotbar()
		if !ok {
			break
		}
		b.report("Hotbar", b.d.CastSpell(req.Slot+1))
	}
}

func (b *InputBridge) sendChat(msg input.ChatMessage) Result {
	ch, ok := ParseChatChannel(msg.Channel)
	if !ok {
		ch = Say
	}
	if ch == Tell {
		if msg.Target == "" {
			return Failure("No target specified")
		}
		return b.d.SendTell(msg.Target, msg.Text)
	}
	return b.d.SendChatMessage(ch, msg.Text)
}

func (b *InputBridge) applyMove(cmd input.MoveCommand) {
	switch cmd.Kind {
	case input.MoveCoordinates:
		b.report("MoveToLocation", b.d.MoveToLocation(cmd.X, cmd.Y, cmd.Z))
	case input.MoveEntity:
		b.report("MoveToEntity", b.d.MoveToEntity(cmd.EntityName))
	case input.MoveFace:
		if cmd.EntityName != "" {
			b.report("FaceEntity", b.d.FaceEntity(cmd.EntityName))
		} else {
			b.report("FaceLocation", b.d.FaceLocation(cmd.X, cmd.Y, cmd.Z))
		}
	case input.MoveStop:
		b.report("StopAllMovement", b.d.StopAllMovement())
	}
}
