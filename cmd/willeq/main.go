// WillEQ is an EverQuest client core that runs against an offline world
// built from Lua zone fixtures.
// Usage: willeq [--version] [--config <file>] [--mode <mode>] [--zone <name>] [--script <file>] [--seed <n>] [--verbose]
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine"
	"github.com/willeq/willeq/loader"
	"github.com/willeq/willeq/logging"
	"github.com/willeq/willeq/mode"
	"github.com/willeq/willeq/relay"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: willeq [--version] [--config <file>] [--mode <mode>] [--zone <name>] [--script <file>] [--seed <n>] [--verbose]"

type flags struct {
	config  string
	mode    string
	zone    string
	script  string
	seed    string
	verbose bool
}

func main() {
	var f flags
	args := os.Args[1:]
	value := func(i *int, name string) string {
		if *i+1 >= len(args) {
			fatalf("%s requires a value\n%s", name, usage)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("willeq %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--config":
			f.config = value(&i, "--config")
		case "--mode":
			f.mode = value(&i, "--mode")
		case "--zone":
			f.zone = value(&i, "--zone")
		case "--script":
			f.script = value(&i, "--script")
		case "--seed":
			f.seed = value(&i, "--seed")
		case "--verbose":
			f.verbose = true
		case "-h", "--help":
			fmt.Println(usage)
			return
		default:
			fatalf("unknown argument %q\n%s", args[i], usage)
		}
	}

	if err := run(f); err != nil {
		fatalf("Error: %v", err)
	}
}

func run(f flags) error {
	cfg := config.Default()
	if f.config != "" {
		loaded, err := config.Load(f.config)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if err := applyFlags(cfg, f); err != nil {
		return err
	}

	m, err := mode.ParseMode(cfg.Client.Mode)
	if err != nil {
		return err
	}
	// Use the console if stdout is not a terminal.
	if m == mode.GraphicalInteractive && !isTerminal() {
		m = mode.HeadlessInteractive
	}

	log, logCtl, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	if m == mode.GraphicalInteractive {
		// Log lines would tear the alternate screen.
		log = log.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))
	}

	zones, err := loader.LoadZones(cfg.Client.ZoneDir)
	if err != nil {
		return fmt.Errorf("loading zones: %w", err)
	}

	c, err := engine.New(cfg, log)
	if err != nil {
		return err
	}
	c.AddZones(zones...)
	c.SetLogControl(logCtl)

	if url := cfg.Relay.NATSURL; url != "" {
		nc, err := relay.Dial(url, log)
		if err != nil {
			return err
		}
		defer nc.Close()
		r := relay.New(nc, cfg.Relay.SubjectPrefix, c.ID, log)
		r.Attach(c.State().Events())
		defer r.Detach()
	}

	gm := newMode(m, log)
	if err := gm.Initialize(c, cfg); err != nil {
		return err
	}
	defer c.Shutdown()
	defer gm.Shutdown()

	if err := c.Start(""); err != nil {
		return err
	}
	log.Info("running", zap.Stringer("mode", m), zap.String("zone", c.State().CurrentZoneName()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mode.Run(ctx, gm, cfg.Client.TickRate)
}

func applyFlags(cfg *config.Config, f flags) error {
	if f.mode != "" {
		cfg.Client.Mode = f.mode
	}
	if f.zone != "" {
		cfg.Client.Zone = f.zone
	}
	if f.script != "" {
		cfg.Client.Script = f.script
		if f.mode == "" {
			cfg.Client.Mode = mode.Automated.String()
		}
	}
	if f.seed != "" {
		seed, err := strconv.ParseInt(f.seed, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid --seed %q: %w", f.seed, err)
		}
		cfg.Client.Seed = seed
	}
	if f.verbose {
		cfg.Console.Verbose = true
	}
	return nil
}

func newMode(m mode.OperatingMode, log *zap.Logger) mode.GameMode {
	switch m {
	case mode.Automated:
		return mode.NewAutomated(log)
	case mode.GraphicalInteractive:
		return mode.NewGraphical(log)
	default:
		return mode.NewHeadless(os.Stdin, os.Stdout, log)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
