// Package logging builds the client's zap logger and the runtime controls
// behind /debug and the /log* commands. Components log through named child
// loggers; the first name segment is the module a filter applies to.
package logging

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/willeq/willeq/config"
)

// Debug levels 0-6 as typed at /debug.
var debugLevels = [...]struct {
	name  string
	level zapcore.Level
}{
	{"NONE", zapcore.FatalLevel},
	{"FATAL", zapcore.FatalLevel},
	{"ERROR", zapcore.ErrorLevel},
	{"WARN", zapcore.WarnLevel},
	{"INFO", zapcore.InfoLevel},
	{"DEBUG", zapcore.DebugLevel},
	{"TRACE", zapcore.DebugLevel},
}

// Control adjusts logging while the client runs.
type Control struct {
	global zap.AtomicLevel

	mu      sync.RWMutex
	only    map[string]bool
	exclude map[string]bool
	levels  map[string]zapcore.Level
	seen    map[string]bool
}

func NewControl(level zapcore.Level) *Control {
	return &Control{
		global:  zap.NewAtomicLevelAt(level),
		only:    make(map[string]bool),
		exclude: make(map[string]bool),
		levels:  make(map[string]zapcore.Level),
		seen:    make(map[string]bool),
	}
}

// New builds a logger from cfg. Unknown levels fall back to info.
func New(cfg config.LoggingConfig) (*zap.Logger, *Control, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	// The base core passes everything; Control applies the levels.
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)

	ctl := NewControl(level)
	log, err := zapCfg.Build(ctl.Wrap())
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}
	return log, ctl, nil
}

// Wrap returns a logger option that routes entries through the filter.
func (c *Control) Wrap() zap.Option {
	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &filterCore{Core: core, ctl: c}
	})
}

func (c *Control) Level() zapcore.Level { return c.global.Level() }

// SetDebugLevel applies a 0-6 debug level and returns its name.
func (c *Control) SetDebugLevel(n int) (string, error) {
	if n < 0 || n >= len(debugLevels) {
		return "", fmt.Errorf("debug level must be 0-%d", len(debugLevels)-1)
	}
	c.global.SetLevel(debugLevels[n].level)
	return debugLevels[n].name, nil
}

// ParseLevelName accepts a debug level name such as TRACE or warn.
func ParseLevelName(name string) (zapcore.Level, error) {
	up := strings.ToUpper(strings.TrimSpace(name))
	for _, l := range debugLevels {
		if l.name == up {
			return l.level, nil
		}
	}
	return 0, fmt.Errorf("unknown log level %q", name)
}

func moduleList(csv string) []string {
	var out []string
	for _, m := range strings.Split(csv, ",") {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// LogOnly restricts output to the listed comma-separated modules.
func (c *Control) LogOnly(csv string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.only = make(map[string]bool)
	for _, m := range moduleList(csv) {
		c.only[m] = true
	}
}

// LogExclude silences the listed comma-separated modules.
func (c *Control) LogExclude(csv string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range moduleList(csv) {
		c.exclude[m] = true
	}
}

// SetModuleLevel parses MOD:LEVEL and gives that module its own level.
func (c *Control) SetModuleLevel(spec string) (module, level string, err error) {
	mod, lvl, ok := strings.Cut(spec, ":")
	if !ok || strings.TrimSpace(mod) == "" {
		return "", "", fmt.Errorf("expected MOD:LEVEL, got %q", spec)
	}
	l, err := ParseLevelName(lvl)
	if err != nil {
		return "", "", err
	}
	c.mu.Lock()
	c.levels[strings.ToLower(strings.TrimSpace(mod))] = l
	c.mu.Unlock()
	return strings.ToUpper(strings.TrimSpace(mod)), strings.ToUpper(strings.TrimSpace(lvl)), nil
}

// ClearFilters drops every module rule.
func (c *Control) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.only = make(map[string]bool)
	c.exclude = make(map[string]bool)
	c.levels = make(map[string]zapcore.Level)
}

// Status describes the active filters in one line.
func (c *Control) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	parts := []string{"global=" + strings.ToUpper(c.global.Level().String())}
	if len(c.only) > 0 {
		parts = append(parts, "only="+joinKeys(c.only))
	}
	if len(c.exclude) > 0 {
		parts = append(parts, "exclude="+joinKeys(c.exclude))
	}
	for _, m := range sortedKeys(c.levels) {
		parts = append(parts, fmt.Sprintf("%s=%s", strings.ToUpper(m), strings.ToUpper(c.levels[m].String())))
	}
	return "Log filters: " + strings.Join(parts, " ")
}

// Modules lists the modules that have logged so far.
func (c *Control) Modules() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.seen))
	for m := range c.seen {
		out = append(out, strings.ToUpper(m))
	}
	slices.Sort(out)
	return out
}

func joinKeys(m map[string]bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, strings.ToUpper(k))
	}
	slices.Sort(keys)
	return strings.Join(keys, ",")
}

func sortedKeys(m map[string]zapcore.Level) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func moduleOf(loggerName string) string {
	mod, _, _ := strings.Cut(loggerName, ".")
	return strings.ToLower(mod)
}

// Allows reports whether an entry from the named logger at lvl is written.
// A module level overrides the global level and the only/exclude lists.
func (c *Control) Allows(loggerName string, lvl zapcore.Level) bool {
	mod := moduleOf(loggerName)

	c.mu.RLock()
	l, hasLevel := c.levels[mod]
	only := len(c.only) > 0 && !c.only[mod]
	excluded := c.exclude[mod]
	known := c.seen[mod]
	c.mu.RUnlock()

	if mod != "" && !known {
		c.mu.Lock()
		c.seen[mod] = true
		c.mu.Unlock()
	}

	if hasLevel {
		return lvl >= l
	}
	if only || excluded {
		return false
	}
	return c.global.Enabled(lvl)
}

type filterCore struct {
	zapcore.Core
	ctl *Control
}

func (f *filterCore) With(fields []zapcore.Field) zapcore.Core {
	return &filterCore{Core: f.Core.With(fields), ctl: f.ctl}
}

func (f *filterCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !f.ctl.Allows(ent.LoggerName, ent.Level) {
		return ce
	}
	return f.Core.Check(ent, ce)
}
