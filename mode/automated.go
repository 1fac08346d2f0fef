package mode

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/input"
	"github.com/willeq/willeq/loader"
)

// EventCallback receives every bus event in automated mode.
type EventCallback func(ev events.GameEvent)

// AutomationCallback runs after each frame; returning false ends the run.
type AutomationCallback func(c *engine.Client, dt float32) bool

// AutomatedMode runs without a terminal. Input comes from injections on
// its NullHandler, a Lua script or the automation callback, and system
// messages go to the log.
type AutomatedMode struct {
	base

	log      *zap.Logger
	client   *engine.Client
	handler  *input.NullHandler
	sub      events.Handle
	script   *loader.Script
	path     string
	onEvent  EventCallback
	automate AutomationCallback
}

func NewAutomated(log *zap.Logger) *AutomatedMode {
	if log == nil {
		log = zap.NewNop()
	}
	return &AutomatedMode{log: log.Named("automated"), handler: input.NewNullHandler()}
}

func (a *AutomatedMode) Mode() OperatingMode                         { return Automated }
func (a *AutomatedMode) InputHandler() input.Handler                 { return a.handler }
func (a *AutomatedMode) Handler() *input.NullHandler                 { return a.handler }
func (a *AutomatedMode) SetEventCallback(fn EventCallback)           { a.onEvent = fn }
func (a *AutomatedMode) SetAutomationCallback(fn AutomationCallback) { a.automate = fn }

// SetScript overrides the configured automation script.
func (a *AutomatedMode) SetScript(path string) { a.path = path }

func (a *AutomatedMode) Initialize(c *engine.Client, cfg *config.Config) error {
	a.client = c
	c.SetInputHandler(a.handler)
	c.SetOutput(logOutput{log: a.log})
	a.sub = c.State().Events().Subscribe(func(ev events.GameEvent) {
		if a.onEvent != nil {
			a.onEvent(ev)
		}
	})

	path := a.path
	if path == "" {
		path = cfg.Client.Script
	}
	if path != "" {
		s, err := loader.LoadScript(path, c.State(), c.ProcessInput, a.log.Named("script"))
		if err != nil {
			c.State().Events().Unsubscribe(a.sub)
			return fmt.Errorf("automated mode: %w", err)
		}
		a.script = s
		a.log.Info("running script", zap.String("script", path))
	}
	a.start()
	return nil
}

func (a *AutomatedMode) Update(dt float32) bool {
	if !a.Running() {
		return false
	}
	a.client.Update(dt)
	if a.handler.ConsumeAction(input.Quit) {
		return a.finish()
	}

	if a.script != nil {
		ok, err := a.script.Update(dt)
		if err != nil {
			a.log.Error("script failed", zap.Error(err))
			return a.finish()
		}
		if !ok {
			a.log.Info("script finished", zap.String("script", a.script.Name()))
			return a.finish()
		}
	}
	if a.automate != nil && !a.automate(a.client, dt) {
		return a.finish()
	}
	if a.client.Done() {
		return a.finish()
	}
	return true
}

func (a *AutomatedMode) Shutdown() {
	if a.client != nil {
		a.client.State().Events().Unsubscribe(a.sub)
	}
	if a.script != nil {
		a.script.Close()
		a.script = nil
	}
	a.handler.Shutdown()
	a.stop()
}

// logOutput sends command feedback to the log.
type logOutput struct {
	log *zap.Logger
}

func (o logOutput) SystemMessage(msg string) { o.log.Info(msg) }
