package mode

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/input"
	"github.com/willeq/willeq/tui"
)

// GraphicalMode runs the Bubble Tea terminal UI. The UI's tick drives
// Update, so the mode runs its own loop instead of the shared ticker.
type GraphicalMode struct {
	base

	log     *zap.Logger
	client  *engine.Client
	handler *input.NullHandler
	model   tui.Model
	opts    []tea.ProgramOption
}

// NewGraphical creates the mode; opts are added to the Bubble Tea program
// after the alternate screen.
func NewGraphical(log *zap.Logger, opts ...tea.ProgramOption) *GraphicalMode {
	if log == nil {
		log = zap.NewNop()
	}
	return &GraphicalMode{log: log.Named("graphical"), handler: input.NewNullHandler(), opts: opts}
}

func (g *GraphicalMode) Mode() OperatingMode         { return GraphicalInteractive }
func (g *GraphicalMode) InputHandler() input.Handler { return g.handler }
func (g *GraphicalMode) Model() tui.Model            { return g.model }

func (g *GraphicalMode) Initialize(c *engine.Client, cfg *config.Config) error {
	keymap := input.DefaultKeymap()
	if path := cfg.Input.HotkeysFile; path != "" {
		km, err := input.LoadKeymap(path)
		if err != nil {
			return fmt.Errorf("graphical mode: %w", err)
		}
		keymap = km
	}

	g.client = c
	c.SetInputHandler(g.handler)
	g.model = tui.New(c, g.handler, keymap, g.Update, tui.Options{
		TickRate:   cfg.Client.TickRate,
		Timestamps: cfg.Console.ShowTimestamps,
		Verbose:    cfg.Console.Verbose,
	})
	g.start()
	return nil
}

func (g *GraphicalMode) Update(dt float32) bool {
	if !g.Running() {
		return false
	}
	g.client.Update(dt)
	if g.handler.ConsumeAction(input.Quit) || g.client.Done() {
		return g.finish()
	}
	return true
}

// Drive runs the UI until the player quits or ctx is cancelled.
func (g *GraphicalMode) Drive(ctx context.Context) error {
	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, g.opts...)
	p := tea.NewProgram(g.model, opts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}

func (g *GraphicalMode) Shutdown() {
	if g.client != nil {
		g.model.Close()
	}
	g.handler.Shutdown()
	g.stop()
}
