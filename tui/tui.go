package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/willeq/willeq/cli"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/input"
)

// maxLines bounds the scrollback kept for re-wrapping.
const maxLines = 2000

// StepFunc advances the game by dt seconds and reports whether the
// session should keep running.
type StepFunc func(dt float32) bool

// Options configures the terminal UI.
type Options struct {
	TickRate   time.Duration
	Timestamps bool
	Verbose    bool
}

// rawLine stores an unstyled output line so it can be re-wrapped when the
// terminal is resized.
type rawLine struct {
	line  cli.Line
	stamp string
}

// feed collects lines between frames. It is shared by every copy of the
// Model and doubles as the command processor's output.
type feed struct {
	format     cli.Formatter
	now        func() time.Time
	timestamps bool
	hidden     map[string]bool
	pending    []rawLine
}

func (f *feed) add(l cli.Line) {
	if l.Channel != "" && f.hidden[l.Channel] {
		return
	}
	rl := rawLine{line: l}
	if f.timestamps {
		rl.stamp = f.now().Format("15:04:05")
	}
	f.pending = append(f.pending, rl)
}

func (f *feed) onEvent(ev events.GameEvent) {
	if l, ok := f.format.Format(ev); ok {
		f.add(l)
	}
}

func (f *feed) SystemMessage(msg string)  { f.add(cli.SystemLine(msg)) }
func (f *feed) ShowTimestamps() bool      { return f.timestamps }
func (f *feed) SetShowTimestamps(on bool) { f.timestamps = on }

func (f *feed) ToggleChannel(name string) bool {
	key := strings.ToLower(strings.TrimSpace(name))
	if ch, ok := action.ParseChatChannel(key); ok {
		key = ch.String()
	}
	f.hidden[key] = !f.hidden[key]
	return !f.hidden[key]
}

func (f *feed) take() []rawLine {
	out := f.pending
	f.pending = nil
	return out
}

// Model is the Bubble Tea model for the client UI. Keys go to the hotkey
// map until Enter or "/" opens the chat line; Esc closes it again.
type Model struct {
	client  *engine.Client
	step    StepFunc
	handler *input.NullHandler
	keymap  *input.Keymap
	feed    *feed
	sub     events.Handle
	dt      float32
	tick    time.Duration

	viewport viewport.Model
	input    textinput.Model
	history  *History

	lines []rawLine

	width    int
	height   int
	ready    bool
	chatting bool
	quitting bool
}

// tickMsg drives one game frame.
type tickMsg time.Time

// New creates a model wired to c. Hotkeys inject into handler, which must
// be the client's input handler; step is called once per tick.
func New(c *engine.Client, handler *input.NullHandler, keymap *input.Keymap, step StepFunc, opts Options) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = 50 * time.Millisecond
	}
	if keymap == nil {
		keymap = input.DefaultKeymap()
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	f := &feed{
		format:     cli.Formatter{Self: func() string { return c.State().Player().Name() }, Verbose: opts.Verbose},
		now:        time.Now,
		timestamps: opts.Timestamps,
		hidden:     make(map[string]bool),
	}
	m := Model{
		client:  c,
		step:    step,
		handler: handler,
		keymap:  keymap,
		feed:    f,
		dt:      float32(opts.TickRate.Seconds()),
		tick:    opts.TickRate,
		input:   ti,
		history: NewHistory(DefaultHistorySize),
	}
	m.sub = c.State().Events().Subscribe(f.onEvent)
	c.SetOutput(f)
	return m
}

// Close detaches the model from the client's bus.
func (m Model) Close() {
	m.client.State().Events().Unsubscribe(m.sub)
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.nextTick())
}

func (m Model) nextTick() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles ticks, key presses and resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tickMsg:
		running := m.step(m.dt)
		m = m.drain()
		if !running {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.nextTick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch k {
	case "ctrl+c":
		// The mode sees the quit request on the next tick.
		m.handler.InjectAction(input.Quit)
		return m, nil
	case "pgup", "pgdown", "ctrl+u", "ctrl+d":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.chatting {
		switch k {
		case "enter":
			return m.openChat("")
		case "/":
			return m.openChat("/")
		}
		m.keymap.Press(k, m.handler)
		return m, nil
	}

	switch k {
	case "enter":
		return m.submit()
	case "esc":
		m.closeChat()
		return m, nil
	case "tab":
		m.complete()
		return m, nil
	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil
	case "down":
		if next, ok := m.history.Next(); ok {
			m.input.SetValue(next)
			m.input.CursorEnd()
		} else {
			m.input.SetValue("")
			m.history.ResetCursor()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) openChat(prefill string) (tea.Model, tea.Cmd) {
	m.chatting = true
	m.input.SetValue(prefill)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) closeChat() {
	m.chatting = false
	m.input.SetValue("")
	m.input.Blur()
	m.history.ResetCursor()
}

// submit runs the typed line through the client immediately, so command
// feedback shows up in the same frame.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.closeChat()
	if line == "" {
		return m, nil
	}
	m.history.Push(line)
	m.feed.add(cli.Line{Kind: cli.KindInput, Text: "> " + line})
	m.client.ProcessInput(line)
	return m.drain(), nil
}

// complete extends a partial /command when it is unambiguous.
func (m *Model) complete() {
	v := m.input.Value()
	if !strings.HasPrefix(v, "/") || strings.Contains(v, " ") {
		return
	}
	matches := m.client.Commands().Completions(strings.TrimPrefix(v, "/"))
	switch len(matches) {
	case 0:
	case 1:
		m.input.SetValue("/" + matches[0] + " ")
		m.input.CursorEnd()
	default:
		m.feed.SystemMessage(strings.Join(matches, "  "))
		*m = m.drain()
	}
}

// drain moves pending lines into the scrollback.
func (m Model) drain() Model {
	fresh := m.feed.take()
	if len(fresh) == 0 {
		return m
	}
	m.lines = append(m.lines, fresh...)
	if over := len(m.lines) - maxLines; over > 0 {
		m.lines = append([]rawLine(nil), m.lines[over:]...)
	}
	m.refreshViewport()
	return m
}

// refreshViewport re-wraps and re-styles all lines at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	width := m.width
	if width < 10 {
		width = 10
	}

	styled := make([]string, 0, len(m.lines))
	for _, rl := range m.lines {
		text := rl.line.Text
		prefix := ""
		if rl.stamp != "" {
			prefix = styleTimestamp.Render("["+rl.stamp+"]") + " "
			text = wordwrap.String(text, width-len(rl.stamp)-3)
		} else {
			text = wordwrap.String(text, width)
		}
		styled = append(styled, prefix+cli.Render(rl.line, text))
	}
	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// View renders the viewport, status bar and input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}
	bottom := m.input.View()
	if !m.chatting {
		bottom = styleHint.Render("Enter to chat, / for commands, Ctrl+C to quit")
	}
	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + bottom
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
