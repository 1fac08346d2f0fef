package loader

import (
	"encoding/json"
	"fmt"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// CommandRunner runs one line exactly as if the player typed it.
type CommandRunner func(line string) action.Result

var postureNames = map[types.PositionState]string{
	types.PosStanding:   "standing",
	types.PosSitting:    "sitting",
	types.PosCrouching:  "crouching",
	types.PosFeignDeath: "feign_death",
	types.PosDead:       "dead",
}

type timer struct {
	at, every float64
	fn        *lua.LFunction
	seq       int
}

// Script is a running automation script. Unlike zone fixtures its VM
// lives until Close. Bus events are queued as they arrive and delivered
// to handlers at the start of the next Update.
//
// Script API:
//
//	command(line)        -> ok, message
//	on(event, fn(data))  registers a handler by snake_case event name
//	after(sec, fn)       runs fn once
//	every(sec, fn)       runs fn repeatedly
//	stop()               ends the run after the current Update
//	log(msg)             writes to the client log
//	player(), target(), entity(name), zone(), elapsed()
//	tick(dt)             optional global called every Update
type Script struct {
	name string
	L    *lua.LState
	gs   *state.GameState
	run  CommandRunner
	log  *zap.Logger

	sub      events.Handle
	handlers map[events.Type][]*lua.LFunction
	queue    []events.GameEvent

	timers  []*timer
	seq     int
	clock   float64
	stopped bool
}

// LoadScript compiles the script at path and runs its top level.
func LoadScript(path string, gs *state.GameState, run CommandRunner, log *zap.Logger) (*Script, error) {
	s := newScript(path, gs, run, log)
	if err := s.L.DoFile(path); err != nil {
		s.Close()
		return nil, fmt.Errorf("executing script %s: %w", path, err)
	}
	return s, nil
}

// NewScript is LoadScript for in-memory source.
func NewScript(name, src string, gs *state.GameState, run CommandRunner, log *zap.Logger) (*Script, error) {
	s := newScript(name, gs, run, log)
	if err := s.L.DoString(src); err != nil {
		s.Close()
		return nil, fmt.Errorf("executing script %s: %w", name, err)
	}
	return s, nil
}

func newScript(name string, gs *state.GameState, run CommandRunner, log *zap.Logger) *Script {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Script{
		name:     name,
		L:        newSandbox(),
		gs:       gs,
		run:      run,
		log:      log,
		handlers: make(map[events.Type][]*lua.LFunction),
	}
	s.register()
	s.sub = gs.Events().Subscribe(func(ev events.GameEvent) {
		if _, ok := s.handlers[ev.Type]; ok && !s.stopped {
			s.queue = append(s.queue, ev)
		}
	})
	return s
}

func (s *Script) Name() string  { return s.name }
func (s *Script) Stopped() bool { return s.stopped }

// Close detaches the script from the bus and releases the VM.
func (s *Script) Close() {
	s.gs.Events().Unsubscribe(s.sub)
	s.L.Close()
}

// Update delivers queued events, fires due timers and calls tick. It
// reports false once the script has stopped; a Lua error stops it too.
func (s *Script) Update(dt float32) (bool, error) {
	if s.stopped {
		return false, nil
	}

	queued := s.queue
	s.queue = nil
	for _, ev := range queued {
		data := s.eventTable(ev)
		for _, fn := range s.handlers[ev.Type] {
			if err := s.call(fn, data); err != nil {
				return false, fmt.Errorf("%s: %s handler: %w", s.name, ev.Type, err)
			}
		}
	}

	s.clock += float64(dt)
	for _, t := range s.due() {
		if err := s.call(t.fn); err != nil {
			return false, fmt.Errorf("%s: timer: %w", s.name, err)
		}
	}

	if tick, ok := s.L.GetGlobal("tick").(*lua.LFunction); ok && !s.stopped {
		if err := s.call(tick, lua.LNumber(dt)); err != nil {
			return false, fmt.Errorf("%s: tick: %w", s.name, err)
		}
	}
	return !s.stopped, nil
}

// due removes and returns the timers that have expired, in firing order.
// Repeating timers are re-armed.
func (s *Script) due() []*timer {
	var fired, keep []*timer
	for _, t := range s.timers {
		if t.at <= s.clock {
			fired = append(fired, t)
			if t.every > 0 {
				t.at += t.every
				keep = append(keep, t)
			}
			continue
		}
		keep = append(keep, t)
	}
	s.timers = keep
	sort.SliceStable(fired, func(i, j int) bool { return fired[i].seq < fired[j].seq })
	return fired
}

func (s *Script) call(fn *lua.LFunction, args ...lua.LValue) error {
	err := s.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		s.stopped = true
	}
	return err
}

func (s *Script) register() {
	L := s.L
	L.SetGlobal("command", L.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		r := s.run(line)
		s.log.Debug("script command", zap.String("script", s.name), zap.String("line", line), zap.Bool("ok", r.Success))
		L.Push(lua.LBool(r.Success))
		L.Push(lua.LString(r.Message))
		return 2
	}))

	L.SetGlobal("on", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		t, ok := events.ParseType(name)
		if !ok {
			L.ArgError(1, fmt.Sprintf("unknown event %q", name))
			return 0
		}
		s.handlers[t] = append(s.handlers[t], fn)
		return 0
	}))

	addTimer := func(repeat bool) lua.LGFunction {
		return func(L *lua.LState) int {
			sec := float64(L.CheckNumber(1))
			fn := L.CheckFunction(2)
			if sec < 0 || (repeat && sec == 0) {
				L.ArgError(1, "interval must be positive")
				return 0
			}
			s.seq++
			t := &timer{at: s.clock + sec, fn: fn, seq: s.seq}
			if repeat {
				t.every = sec
			}
			s.timers = append(s.timers, t)
			return 0
		}
	}
	L.SetGlobal("after", L.NewFunction(addTimer(false)))
	L.SetGlobal("every", L.NewFunction(addTimer(true)))

	L.SetGlobal("stop", L.NewFunction(func(L *lua.LState) int {
		s.stopped = true
		return 0
	}))
	L.SetGlobal("log", L.NewFunction(func(L *lua.LState) int {
		s.log.Info(L.CheckString(1), zap.String("script", s.name))
		return 0
	}))
	L.SetGlobal("elapsed", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.clock))
		return 1
	}))
	L.SetGlobal("zone", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(s.gs.CurrentZoneName()))
		return 1
	}))
	L.SetGlobal("player", L.NewFunction(func(L *lua.LState) int {
		L.Push(s.playerTable())
		return 1
	}))
	L.SetGlobal("target", L.NewFunction(func(L *lua.LState) int {
		c := s.gs.Combat()
		if !c.HasTarget() {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(s.entityTable(s.gs.Entities().GetEntity(c.TargetID()), c.TargetID(), c.TargetName()))
		return 1
	}))
	L.SetGlobal("entity", L.NewFunction(func(L *lua.LState) int {
		e := s.gs.Entities().FindEntityByName(L.CheckString(1))
		if e == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(s.entityTable(e, e.SpawnID, e.Name))
		return 1
	}))
}

func (s *Script) playerTable() *lua.LTable {
	p := s.gs.Player()
	t := s.L.NewTable()
	t.RawSetString("name", lua.LString(p.Name()))
	t.RawSetString("spawn_id", lua.LNumber(p.SpawnID()))
	t.RawSetString("level", lua.LNumber(p.Level()))
	t.RawSetString("hp", lua.LNumber(p.CurHP()))
	t.RawSetString("max_hp", lua.LNumber(p.MaxHP()))
	t.RawSetString("mana", lua.LNumber(p.CurMana()))
	t.RawSetString("max_mana", lua.LNumber(p.MaxMana()))
	t.RawSetString("x", lua.LNumber(p.X()))
	t.RawSetString("y", lua.LNumber(p.Y()))
	t.RawSetString("z", lua.LNumber(p.Z()))
	t.RawSetString("heading", lua.LNumber(p.Heading()))
	t.RawSetString("moving", lua.LBool(p.IsMoving()))
	t.RawSetString("position", lua.LString(postureNames[p.PositionState()]))
	t.RawSetString("auto_attack", lua.LBool(s.gs.Combat().IsAutoAttacking()))
	return t
}

// entityTable describes e; a target that has already despawned still
// reports its id and name.
func (s *Script) entityTable(e *state.Entity, id uint16, name string) *lua.LTable {
	t := s.L.NewTable()
	t.RawSetString("id", lua.LNumber(id))
	t.RawSetString("name", lua.LString(name))
	if e == nil {
		return t
	}
	t.RawSetString("display_name", lua.LString(e.DisplayName()))
	t.RawSetString("level", lua.LNumber(e.Level))
	t.RawSetString("hp", lua.LNumber(e.HPPercent))
	t.RawSetString("x", lua.LNumber(e.X))
	t.RawSetString("y", lua.LNumber(e.Y))
	t.RawSetString("z", lua.LNumber(e.Z))
	t.RawSetString("npc", lua.LBool(e.IsNPC()))
	t.RawSetString("corpse", lua.LBool(e.IsAnyCorpse()))
	px, py, pz := s.gs.PlayerPosition()
	t.RawSetString("distance", lua.LNumber(e.DistanceTo(px, py, pz)))
	return t
}

// eventTable converts event data through its JSON field names.
func (s *Script) eventTable(ev events.GameEvent) lua.LValue {
	raw, err := json.Marshal(ev.Data)
	if err != nil {
		s.log.Warn("encode event for script", zap.Stringer("type", ev.Type), zap.Error(err))
		return s.L.NewTable()
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return s.L.NewTable()
	}
	out := toLua(s.L, v)
	if t, ok := out.(*lua.LTable); ok {
		t.RawSetString("type", lua.LString(ev.Type.String()))
	}
	return out
}

// toLua converts decoded JSON into Lua values.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}
