package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/muesli/reflow/wordwrap"

	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/engine/state"
)

// Options configures a Console.
type Options struct {
	Verbose    bool // show spawn and despawn lines
	Timestamps bool
	Color      bool
	Width      int // wrap column; 0 disables wrapping
}

// Console prints game events and command feedback to a writer. It
// satisfies action.Output, action.TimestampOutput and
// action.ChannelFilterOutput.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	format     Formatter
	color      bool
	timestamps bool
	width      int
	now        func() time.Time
	hidden     map[string]bool

	bus *events.Bus
	sub events.Handle
}

func New(out io.Writer, opts Options) *Console {
	return &Console{
		out:        out,
		format:     Formatter{Verbose: opts.Verbose},
		color:      opts.Color,
		timestamps: opts.Timestamps,
		width:      opts.Width,
		now:        time.Now,
		hidden:     make(map[string]bool),
	}
}

// Attach subscribes to the game's bus. Chat and combat lines name the
// current player in the second person; the name is read from gs on every
// line, so it follows a player replaced by ClearAll.
func (c *Console) Attach(gs *state.GameState) {
	c.Detach()
	c.format.Self = func() string { return gs.Player().Name() }
	c.bus = gs.Events()
	c.sub = c.bus.Subscribe(c.onEvent)
}

// Detach stops listening to the bus.
func (c *Console) Detach() {
	if c.bus != nil {
		c.bus.Unsubscribe(c.sub)
		c.bus = nil
	}
}

func (c *Console) SetClock(fn func() time.Time) { c.now = fn }

func (c *Console) onEvent(ev events.GameEvent) {
	if l, ok := c.format.Format(ev); ok {
		c.Print(l)
	}
}

func (c *Console) SystemMessage(msg string) { c.Print(SystemLine(msg)) }

// Echo prints a line the user typed.
func (c *Console) Echo(line string) { c.Print(Line{Kind: KindInput, Text: "> " + line}) }

func (c *Console) ShowTimestamps() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timestamps
}

func (c *Console) SetShowTimestamps(on bool) {
	c.mu.Lock()
	c.timestamps = on
	c.mu.Unlock()
}

// ToggleChannel hides or shows a chat channel by name or alias.
func (c *Console) ToggleChannel(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if ch, ok := action.ParseChatChannel(key); ok {
		key = ch.String()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hidden[key] = !c.hidden[key]
	return !c.hidden[key]
}

// Print writes one line, dropping chat on hidden channels.
func (c *Console) Print(l Line) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l.Channel != "" && c.hidden[l.Channel] {
		return
	}

	text := l.Text
	if c.width > 0 {
		text = wordwrap.String(text, c.width)
	}
	if c.color {
		text = Render(l, text)
	}
	if c.timestamps {
		stamp := "[" + c.now().Format("15:04:05") + "] "
		if c.color {
			stamp = styleTimestamp.Render(stamp)
		}
		text = stamp + text
	}
	fmt.Fprintln(c.out, text)
}
