package action

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/willeq/willeq/engine/parser"
	"github.com/willeq/willeq/engine/state"
)

// ExitMessage is the success message of a command that asks the client
// to exit.
const ExitMessage = "exit"

// CommandInfo describes a registered slash command.
type CommandInfo struct {
	Name         string
	Aliases      []string
	Usage        string
	Description  string
	Category     string
	RequiresArgs bool
}

// CommandFunc runs a command with its argument text.
type CommandFunc func(args string) Result

// Output receives text the processor shows the player.
type Output interface {
	SystemMessage(msg string)
}

// TimestampOutput is an Output whose timestamps /timestamp can toggle.
type TimestampOutput interface {
	Output
	ShowTimestamps() bool
	SetShowTimestamps(on bool)
}

// ChannelFilterOutput is an Output that can hide chat channels.
type ChannelFilterOutput interface {
	Output
	// ToggleChannel flips a channel and reports whether it is now shown.
	ToggleChannel(name string) bool
}

// LogControl adjusts logging at runtime for /debug and the /log commands.
type LogControl interface {
	SetDebugLevel(n int) (string, error)
	LogOnly(modules string)
	LogExclude(modules string)
	SetModuleLevel(spec string) (module, level string, err error)
	ClearFilters()
	Status() string
	Modules() []string
}

// SpellCatalog names spells for /mem and /gems.
type SpellCatalog interface {
	SpellByName(name string) (uint32, bool)
	SpellName(id uint32) string
}

type command struct {
	info CommandInfo
	fn   CommandFunc
}

// CommandProcessor parses slash commands and runs them against the
// dispatcher. Bare text is chat on the default channel.
type CommandProcessor struct {
	gs  *state.GameState
	d   *Dispatcher
	log *zap.Logger

	out    Output
	logs   LogControl
	spells SpellCatalog

	commands map[string]command
	aliases  map[string]string

	defaultChannel ChatChannel
	echo           bool
}

// NewCommandProcessor builds a processor with the built-in commands
// registered.
func NewCommandProcessor(gs *state.GameState, d *Dispatcher, log *zap.Logger) *CommandProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	p := &CommandProcessor{
		gs:       gs,
		d:        d,
		log:      log,
		commands: make(map[string]command),
		aliases:  make(map[string]string),
	}
	p.registerBuiltins()
	return p
}

func (p *CommandProcessor) SetOutput(out Output)             { p.out = out }
func (p *CommandProcessor) SetLogControl(lc LogControl)      { p.logs = lc }
func (p *CommandProcessor) SetSpellCatalog(sc SpellCatalog)  { p.spells = sc }
func (p *CommandProcessor) SetDefaultChannel(ch ChatChannel) { p.defaultChannel = ch }
func (p *CommandProcessor) DefaultChannel() ChatChannel      { return p.defaultChannel }
func (p *CommandProcessor) SetEchoCommands(on bool)          { p.echo = on }
func (p *CommandProcessor) EchoCommands() bool               { return p.echo }
func (p *CommandProcessor) Dispatcher() *Dispatcher          { return p.d }
func (p *CommandProcessor) display(msg string)               { p.message(msg) }
func (p *CommandProcessor) displayError(msg string)          { p.message("Error: " + msg) }
func (p *CommandProcessor) message(msg string) {
	if p.out != nil {
		p.out.SystemMessage(msg)
	}
}

// ProcessCommand runs one command line. The leading slash is optional.
func (p *CommandProcessor) ProcessCommand(input string) Result {
	line := parser.Parse(input)
	if line.Name == "" {
		return Ok
	}

	if p.echo {
		echo := "/" + line.Name
		if line.Args != "" {
			echo += " " + line.Args
		}
		p.display(echo)
	}

	cmd, ok := p.lookup(line.Key())
	if !ok {
		p.displayError("Unknown command: " + line.Name)
		return Failure("Unknown command: " + line.Name)
	}
	if cmd.info.RequiresArgs && line.Args == "" {
		p.displayError("Usage: " + cmd.info.Usage)
		return Failure("Missing arguments")
	}

	p.log.Debug("command", zap.String("name", cmd.info.Name), zap.String("args", line.Args))
	r := cmd.fn(line.Args)
	if !r.Success && r.Message != "" {
		p.displayError(r.Message)
	}
	return r
}

// ProcessInput routes slash lines to ProcessCommand and anything else to
// the default chat channel.
func (p *CommandProcessor) ProcessInput(input string) Result {
	if input == "" {
		return Ok
	}
	if strings.HasPrefix(input, "/") {
		return p.ProcessCommand(input)
	}
	return p.d.SendChatMessage(p.defaultChannel, input)
}

func (p *CommandProcessor) lookup(name string) (command, bool) {
	name = strings.ToLower(name)
	if primary, ok := p.aliases[name]; ok {
		name = primary
	}
	cmd, ok := p.commands[name]
	return cmd, ok
}

// Register adds or replaces a command and its aliases. Replacing a
// command drops the aliases of the old one.
func (p *CommandProcessor) Register(info CommandInfo, fn CommandFunc) {
	name := strings.ToLower(info.Name)
	if old, ok := p.commands[name]; ok {
		for _, a := range old.info.Aliases {
			if p.aliases[strings.ToLower(a)] == name {
				delete(p.aliases, strings.ToLower(a))
			}
		}
	}
	info.Aliases = slices.Clone(info.Aliases)
	p.commands[name] = command{info: info, fn: fn}
	for _, a := range info.Aliases {
		p.aliases[strings.ToLower(a)] = name
	}
}

// Unregister removes a command by primary name, with its aliases.
func (p *CommandProcessor) Unregister(name string) {
	name = strings.ToLower(name)
	cmd, ok := p.commands[name]
	if !ok {
		return
	}
	for _, a := range cmd.info.Aliases {
		delete(p.aliases, strings.ToLower(a))
	}
	delete(p.commands, name)
}

// HasCommand reports whether name is a command or an alias.
func (p *CommandProcessor) HasCommand(name string) bool {
	name = strings.ToLower(name)
	_, isCmd := p.commands[name]
	_, isAlias := p.aliases[name]
	return isCmd || isAlias
}

// CommandInfo resolves name, or one of its aliases, to the command's info.
func (p *CommandProcessor) CommandInfo(name string) (CommandInfo, bool) {
	cmd, ok := p.lookup(name)
	if !ok {
		return CommandInfo{}, false
	}
	info := cmd.info
	info.Aliases = slices.Clone(info.Aliases)
	return info, true
}

func (p *CommandProcessor) sortedNames() []string {
	names := make([]string, 0, len(p.commands))
	for n := range p.commands {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Commands returns every command ordered by name.
func (p *CommandProcessor) Commands() []CommandInfo {
	out := make([]CommandInfo, 0, len(p.commands))
	for _, n := range p.sortedNames() {
		info, _ := p.CommandInfo(n)
		out = append(out, info)
	}
	return out
}

func (p *CommandProcessor) CommandsByCategory(category string) []CommandInfo {
	var out []CommandInfo
	for _, info := range p.Commands() {
		if info.Category == category {
			out = append(out, info)
		}
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (p *CommandProcessor) Categories() []string {
	var out []string
	for _, cmd := range p.commands {
		if !slices.Contains(out, cmd.info.Category) {
			out = append(out, cmd.info.Category)
		}
	}
	slices.Sort(out)
	return out
}

// Completions returns the command names and aliases starting with
// partial, case-insensitively, sorted and without duplicates.
func (p *CommandProcessor) Completions(partial string) []string {
	partial = strings.ToLower(partial)
	var out []string
	for name, cmd := range p.commands {
		if strings.HasPrefix(name, partial) {
			out = append(out, cmd.info.Name)
		}
	}
	for alias := range p.aliases {
		if strings.HasPrefix(alias, partial) {
			out = append(out, alias)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// CommandNames lists every name and alias, sorted.
func (p *CommandProcessor) CommandNames() []string {
	var out []string
	for _, cmd := range p.commands {
		out = append(out, cmd.info.Name)
		out = append(out, cmd.info.Aliases...)
	}
	slices.Sort(out)
	return out
}

// Help shows one command's help, or every command by category when name
// is empty.
func (p *CommandProcessor) Help(name string) {
	if name != "" {
		info, ok := p.CommandInfo(strings.TrimPrefix(name, "/"))
		if !ok {
			p.displayError("Unknown command: " + name)
			return
		}
		p.display("/" + info.Name + " - " + info.Description)
		p.display("Usage: " + info.Usage)
		if len(info.Aliases) > 0 {
			aliases := make([]string, len(info.Aliases))
			for i, a := range info.Aliases {
				aliases[i] = "/" + a
			}
			p.display("Aliases: " + strings.Join(aliases, ", "))
		}
		return
	}

	p.display("=== Available Commands ===")
	for _, cat := range p.Categories() {
		p.display("")
		p.display("-- " + cat + " --")
		for _, info := range p.CommandsByCategory(cat) {
			p.display("  /" + info.Name + " - " + info.Description)
		}
	}
	p.display("")
	p.display("Type /help <command> for detailed help")
}
