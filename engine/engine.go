// Package engine assembles a running client: game state, the offline
// world behind the dispatcher, the command processor and the input
// bridge, all driven by Update once per frame.
package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willeq/willeq/config"
	"github.com/willeq/willeq/engine/action"
	"github.com/willeq/willeq/engine/offline"
	"github.com/willeq/willeq/engine/save"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/input"
	"github.com/willeq/willeq/types"
)

// Client is one character session.
type Client struct {
	ID string

	cfg *config.Config
	log *zap.Logger
	now func() time.Time

	state      *state.GameState
	world      *offline.World
	dispatcher *action.Dispatcher
	commands   *action.CommandProcessor
	bridge     *action.InputBridge

	out      action.Output
	onAction action.ActionCallback
	camped   bool
	exit     bool
}

// New builds a client from cfg. A zero seed picks one from the clock.
func New(cfg *config.Config, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ch, ok := action.ParseChatChannel(cfg.Chat.DefaultChannel)
	if !ok {
		return nil, fmt.Errorf("unknown default chat channel %q", cfg.Chat.DefaultChannel)
	}
	seed := cfg.Client.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	c := &Client{
		ID:    uuid.NewString(),
		cfg:   cfg,
		log:   log.Named("client"),
		now:   time.Now,
		state: state.New(),
	}
	c.world = offline.New(c.state, log.Named("world"), seed)
	c.dispatcher = action.NewDispatcher(c.state, log.Named("action"))
	c.dispatcher.SetHandler(c.world)

	c.commands = action.NewCommandProcessor(c.state, c.dispatcher, log.Named("command"))
	c.commands.SetSpellCatalog(c.world)
	c.commands.SetDefaultChannel(ch)
	c.commands.SetEchoCommands(cfg.Console.EchoCommands)
	c.registerCommands()

	c.bridge = action.NewInputBridge(c.dispatcher, c.commands, log.Named("input"))
	c.bridge.SetMouseSensitivity(cfg.Input.MouseSensitivity)
	c.bridge.SetTurnSpeed(cfg.Input.TurnSpeed)
	c.bridge.SetActionCallback(c.observe)

	c.world.OnCamp(func() { c.camped = true })

	c.log.Info("client created", zap.String("id", c.ID), zap.Int64("seed", seed))
	return c, nil
}

func (c *Client) State() *state.GameState            { return c.state }
func (c *Client) World() *offline.World              { return c.world }
func (c *Client) Dispatcher() *action.Dispatcher     { return c.dispatcher }
func (c *Client) Commands() *action.CommandProcessor { return c.commands }
func (c *Client) Bridge() *action.InputBridge        { return c.bridge }
func (c *Client) SetClock(fn func() time.Time)       { c.now = fn; c.world.SetClock(fn) }
func (c *Client) SetInputHandler(h input.Handler)    { c.bridge.SetInputHandler(h) }
func (c *Client) SetLogControl(lc action.LogControl) { c.commands.SetLogControl(lc) }
func (c *Client) OnAction(fn action.ActionCallback)  { c.onAction = fn }
func (c *Client) Camped() bool                       { return c.camped }
func (c *Client) ExitRequested() bool                { return c.exit }
func (c *Client) Done() bool                         { return c.exit || c.camped }
func (c *Client) RequestExit()                       { c.exit = true }

// SetOutput routes command feedback to out. Timestamps start from the
// console configuration when out supports them.
func (c *Client) SetOutput(out action.Output) {
	c.out = out
	c.commands.SetOutput(out)
	if ts, ok := out.(action.TimestampOutput); ok {
		ts.SetShowTimestamps(c.cfg.Console.ShowTimestamps)
	}
}

// AddZones registers zone fixtures with the world.
func (c *Client) AddZones(zones ...types.ZoneDef) {
	for _, z := range zones {
		c.world.AddZone(z)
	}
}

// Start enters zone, falling back to the configured zone when empty.
func (c *Client) Start(zone string) error {
	if zone == "" {
		zone = c.cfg.Client.Zone
	}
	if err := c.world.EnterZone(zone); err != nil {
		return fmt.Errorf("start client: %w", err)
	}
	return nil
}

// Update runs one frame of input then world simulation.
func (c *Client) Update(dt float32) {
	c.bridge.Update(dt)
	c.world.Tick(dt)
}

// ProcessInput runs a typed line and notes exit requests.
func (c *Client) ProcessInput(line string) action.Result {
	r := c.commands.ProcessInput(line)
	c.observe("input", r)
	return r
}

func (c *Client) observe(name string, r action.Result) {
	if r.Success && r.Message == action.ExitMessage {
		c.exit = true
	}
	if c.onAction != nil {
		c.onAction(name, r)
	}
}

// Shutdown flushes the logger and stops accepting input.
func (c *Client) Shutdown() {
	c.bridge.SetEnabled(false)
	c.state.Events().Clear()
	c.log.Info("client stopped", zap.String("id", c.ID))
	_ = c.log.Sync()
}

func (c *Client) display(msg string) {
	if c.out != nil {
		c.out.SystemMessage(msg)
	}
}

func (c *Client) session(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return c.cfg.Client.SessionName
}

// Save writes the character to the save directory under session name,
// or the configured session when name is empty.
func (c *Client) Save(name string) (string, error) {
	snap := save.Capture(c.state, c.session(name), c.now())
	rng := c.world.RNG()
	snap.RNGSeed, snap.RNGPosition = rng.Seed(), rng.Position()
	path, err := save.WriteFile(c.cfg.Client.SaveDir, snap)
	if err != nil {
		return "", err
	}
	c.log.Info("saved", zap.String("path", path), zap.String("snapshot", snap.ID))
	return path, nil
}

// Restore loads session name from the save directory: the saved zone is
// entered first, then the character and random stream are put back.
func (c *Client) Restore(name string) error {
	snap, err := save.ReadFile(save.Path(c.cfg.Client.SaveDir, c.session(name)))
	if err != nil {
		return err
	}
	if err := c.world.EnterZone(snap.Zone); err != nil {
		return fmt.Errorf("restore %s: %w", snap.ID, err)
	}
	save.Apply(c.state, snap)
	c.world.SetRNG(offline.RestoreRNG(snap.RNGSeed, snap.RNGPosition))
	c.dispatcher.SendPositionUpdate()
	c.log.Info("restored", zap.String("snapshot", snap.ID), zap.String("zone", snap.Zone))
	return nil
}

func (c *Client) registerCommands() {
	c.commands.Register(action.CommandInfo{
		Name:        "save",
		Usage:       "/save [name]",
		Description: "Save your character",
		Category:    "Utility",
	}, func(args string) action.Result {
		path, err := c.Save(args)
		if err != nil {
			c.log.Warn("save failed", zap.Error(err))
			return action.Failure(fmt.Sprintf("Save failed: %v", err))
		}
		c.display("Saved to " + path + ".")
		return action.Success(path)
	})
	c.commands.Register(action.CommandInfo{
		Name:        "load",
		Aliases:     []string{"restore"},
		Usage:       "/load [name]",
		Description: "Restore a saved character",
		Category:    "Utility",
	}, func(args string) action.Result {
		if err := c.Restore(args); err != nil {
			c.log.Warn("load failed", zap.Error(err))
			return action.Failure(fmt.Sprintf("Load failed: %v", err))
		}
		c.display("Character restored.")
		return action.Ok
	})
	c.commands.Register(action.CommandInfo{
		Name:         "zone",
		Usage:        "/zone <name>",
		Description:  "Travel to a loaded zone",
		Category:     "Utility",
		RequiresArgs: true,
	}, func(args string) action.Result {
		return c.dispatcher.RequestZone(strings.TrimSpace(args))
	})
	c.commands.Register(action.CommandInfo{
		Name:        "zones",
		Usage:       "/zones",
		Description: "List loaded zones",
		Category:    "Utility",
	}, func(string) action.Result {
		c.display("Zones: " + strings.Join(c.world.Zones(), ", "))
		return action.Ok
	})
}
