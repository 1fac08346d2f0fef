package input

import (
	"bufio"
	"io"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/parser"
)

// ConsoleHandler reads command lines from a reader on a background
// goroutine and queues them for the main loop. It is line-oriented: there
// is no raw keyboard mode, so continuous movement state stays idle.
type ConsoleHandler struct {
	queues

	in     io.Reader
	log    *zap.Logger
	active atomic.Bool
	done   chan struct{}
}

func NewConsoleHandler(in io.Reader, log *zap.Logger) *ConsoleHandler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &ConsoleHandler{in: in, log: log, done: make(chan struct{})}
	h.active.Store(true)
	return h
}

// Start launches the reader goroutine. The handler goes inactive on EOF or
// a read error.
func (h *ConsoleHandler) Start() {
	go h.readLoop()
}

// Done is closed when the reader goroutine exits.
func (h *ConsoleHandler) Done() <-chan struct{} { return h.done }

// Shutdown marks the handler inactive. A read already blocked on the
// reader is abandoned rather than interrupted.
func (h *ConsoleHandler) Shutdown() { h.active.Store(false) }

func (h *ConsoleHandler) Update() {}

func (h *ConsoleHandler) Active() bool { return h.active.Load() }

func (h *ConsoleHandler) readLoop() {
	defer close(h.done)
	defer h.active.Store(false)

	scanner := bufio.NewScanner(h.in)
	for scanner.Scan() {
		if !h.active.Load() {
			return
		}
		h.handleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		h.log.Warn("console read failed", zap.Error(err))
		return
	}
	h.log.Debug("console input closed")
}

// handleLine turns one console line into queued input.
func (h *ConsoleHandler) handleLine(raw string) {
	line := parser.Parse(strings.TrimSpace(raw))
	if line.Name == "" {
		return
	}
	// A leading slash always means a client command.
	if strings.HasPrefix(strings.TrimSpace(raw), "/") {
		h.queueRaw(raw)
		return
	}

	args := line.Args
	switch line.Key() {
	case "quit", "exit":
		h.trigger(Quit)

	case "say", "shout", "ooc", "auction":
		ch := line.Key()
		h.push(func(q *queues) { q.chat = append(q.chat, ChatMessage{Text: args, Channel: ch}) })

	case "tell":
		target, msg := parser.SplitFirst(args)
		h.push(func(q *queues) { q.chat = append(q.chat, ChatMessage{Text: msg, Channel: "tell", Target: target}) })

	case "move":
		xyz, err := parser.Floats(parser.Fields(args), 3)
		if err != nil {
			h.log.Debug("ignoring move", zap.String("args", args), zap.Error(err))
			return
		}
		h.queueMove(MoveCommand{Kind: MoveCoordinates, X: xyz[0], Y: xyz[1], Z: xyz[2]})

	case "moveto":
		if args != "" {
			h.queueMove(MoveCommand{Kind: MoveEntity, EntityName: args})
		}

	case "face":
		if args == "" {
			return
		}
		if xyz, err := parser.Floats(parser.Fields(args), 3); err == nil {
			h.queueMove(MoveCommand{Kind: MoveFace, X: xyz[0], Y: xyz[1], Z: xyz[2]})
			return
		}
		h.queueMove(MoveCommand{Kind: MoveFace, EntityName: args})

	case "stop", "stopfollow":
		h.queueMove(MoveCommand{Kind: MoveStop})

	case "attack", "aa", "~":
		h.trigger(ToggleAutoAttack)

	case "inventory", "inv":
		h.trigger(ToggleInventory)
	case "skills":
		h.trigger(ToggleSkills)
	case "group":
		h.trigger(ToggleGroup)

	case "cast":
		gem, err := parser.Int(args)
		if err != nil || gem < 1 || gem > 8 {
			return
		}
		h.push(func(q *queues) { q.spells = append(q.spells, SpellCastRequest{GemSlot: uint8(gem - 1)}) })

	default:
		h.queueRaw(raw)
	}
}

func (h *ConsoleHandler) queueMove(cmd MoveCommand) {
	h.push(func(q *queues) { q.moves = append(q.moves, cmd) })
}

func (h *ConsoleHandler) queueRaw(line string) {
	line = strings.TrimSpace(line)
	h.push(func(q *queues) { q.raw = append(q.raw, line) })
}
