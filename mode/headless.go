package mode

import (
	"io"

	"go.uber.org/zap"

	"github.com/willeq/willeq/cli"
	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/input"
)

// HeadlessMode reads console lines from in and prints game output to out.
// It ends when the input closes, the player quits or the client exits.
type HeadlessMode struct {
	base

	in      io.Reader
	out     io.Writer
	log     *zap.Logger
	client  *engine.Client
	handler *input.ConsoleHandler
	console *cli.Console
}

func NewHeadless(in io.Reader, out io.Writer, log *zap.Logger) *HeadlessMode {
	if log == nil {
		log = zap.NewNop()
	}
	return &HeadlessMode{in: in, out: out, log: log.Named("headless")}
}

func (h *HeadlessMode) Mode() OperatingMode         { return HeadlessInteractive }
func (h *HeadlessMode) InputHandler() input.Handler { return h.handler }
func (h *HeadlessMode) Console() *cli.Console       { return h.console }

func (h *HeadlessMode) Initialize(c *engine.Client, cfg *config.Config) error {
	h.client = c
	h.console = cli.New(h.out, cli.Options{
		Verbose:    cfg.Console.Verbose,
		Timestamps: cfg.Console.ShowTimestamps,
		Color:      cfg.Console.ColorOutput,
	})
	h.console.Attach(c.State())
	c.SetOutput(h.console)

	h.handler = input.NewConsoleHandler(h.in, h.log.Named("console"))
	c.SetInputHandler(h.handler)
	h.handler.Start()
	h.start()
	return nil
}

func (h *HeadlessMode) Update(dt float32) bool {
	if !h.Running() {
		return false
	}
	// Read before the frame: lines queued ahead of EOF still run.
	closed := !h.handler.Active()
	h.client.Update(dt)
	if h.handler.ConsumeAction(input.Quit) || closed || h.client.Done() {
		return h.finish()
	}
	return true
}

func (h *HeadlessMode) Shutdown() {
	if h.console != nil {
		h.console.Detach()
	}
	if h.handler != nil {
		h.handler.Shutdown()
	}
	h.stop()
}
