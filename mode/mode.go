// Package mode runs a client in one of its operating modes and owns the
// fixed-rate main loop that drives it.
package mode

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/input"
)

type OperatingMode int

const (
	Automated OperatingMode = iota
	HeadlessInteractive
	GraphicalInteractive
)

func (m OperatingMode) String() string {
	switch m {
	case Automated:
		return "automated"
	case HeadlessInteractive:
		return "headless"
	case GraphicalInteractive:
		return "graphical"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

var modeNames = map[string]OperatingMode{
	"automated": Automated,
	"auto":      Automated,
	"headless":  HeadlessInteractive,
	"console":   HeadlessInteractive,
	"graphical": GraphicalInteractive,
	"gui":       GraphicalInteractive,
	"tui":       GraphicalInteractive,
}

// ParseMode reads a mode name from the command line or config.
func ParseMode(s string) (OperatingMode, error) {
	m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown mode %q (want automated, headless or graphical)", s)
	}
	return m, nil
}

// GameMode wires a client to an input source and an output, and advances
// it one frame at a time.
type GameMode interface {
	Mode() OperatingMode
	Initialize(c *engine.Client, cfg *config.Config) error
	Shutdown()
	Running() bool
	// Update advances one frame and reports whether the mode should keep
	// running.
	Update(dt float32) bool
	RequestQuit()
	QuitRequested() bool
	InputHandler() input.Handler
}

// driver is implemented by modes that run their own frame loop.
type driver interface {
	Drive(ctx context.Context) error
}

// base carries the run and quit flags shared by every mode. RequestQuit
// may be called from any goroutine.
type base struct {
	running atomic.Bool
	quit    atomic.Bool
}

func (b *base) Running() bool       { return b.running.Load() && !b.quit.Load() }
func (b *base) RequestQuit()        { b.quit.Store(true) }
func (b *base) QuitRequested() bool { return b.quit.Load() }
func (b *base) start()              { b.running.Store(true) }
func (b *base) stop()               { b.running.Store(false) }

// finish records a quit and returns false for Update to pass on.
func (b *base) finish() bool {
	b.RequestQuit()
	return false
}

// Run drives gm until it stops or ctx is cancelled. Modes with their own
// loop drive themselves; the rest are stepped every tick with a fixed dt
// so runs replay identically.
func Run(ctx context.Context, gm GameMode, tick time.Duration) error {
	if d, ok := gm.(driver); ok {
		return d.Drive(ctx)
	}
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	dt := float32(tick.Seconds())

	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			gm.RequestQuit()
			return nil
		case <-t.C:
			if !gm.Update(dt) {
				return nil
			}
		}
	}
}
