// Package parser splits command lines into a command name and argument
// text. Intentionally dumb: no quoting rules, just whitespace.
package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Line is one parsed command line.
type Line struct {
	// Name is the command word as typed, without the leading slash.
	Name string
	// Args is everything after the first run of whitespace, trimmed on
	// the left.
	Args string
}

// Key returns the lowercase command name used for lookups.
func (l Line) Key() string { return strings.ToLower(l.Name) }

// Parse strips an optional leading "/" and splits on the first space or
// tab. An empty or whitespace-only line yields the zero Line.
func Parse(input string) Line {
	input = strings.TrimPrefix(input, "/")
	input = strings.TrimRight(input, " \t\r\n")
	if strings.TrimSpace(input) == "" {
		return Line{}
	}

	i := strings.IndexAny(input, " \t")
	if i < 0 {
		return Line{Name: input}
	}
	return Line{
		Name: input[:i],
		Args: strings.TrimLeft(input[i+1:], " \t"),
	}
}

// Fields splits argument text on whitespace.
func Fields(args string) []string {
	return strings.Fields(args)
}

// SplitFirst returns the first word and the remaining text, e.g. the
// target and message of a tell.
func SplitFirst(args string) (string, string) {
	args = strings.TrimSpace(args)
	i := strings.IndexAny(args, " \t")
	if i < 0 {
		return args, ""
	}
	return args[:i], strings.TrimSpace(args[i+1:])
}

var toggleOn = map[string]bool{
	"on":   true,
	"true": true,
	"1":    true,
	"yes":  true,
}

// Toggle reports whether an on/off argument means on. Anything it does
// not recognise counts as off.
func Toggle(arg string) bool {
	return toggleOn[strings.ToLower(strings.TrimSpace(arg))]
}

// Float parses one finite float32. NaN and infinities are rejected.
func Float(arg string) (float32, error) {
	arg = strings.TrimSpace(arg)
	v, err := strconv.ParseFloat(arg, 32)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", arg, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("parse %q: not a finite number", arg)
	}
	return float32(v), nil
}

// Floats parses exactly the first n fields as finite float32 values.
func Floats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d numbers, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := Float(fields[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Int parses a whole argument as a base-10 integer.
func Int(arg string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(arg))
}

var channelAliases = map[string]string{
	"say":     "say",
	"s":       "say",
	"shout":   "shout",
	"sh":      "shout",
	"ooc":     "ooc",
	"auction": "auction",
	"auc":     "auction",
	"tell":    "tell",
	"t":       "tell",
	"group":   "group",
	"gsay":    "group",
	"g":       "group",
	"guild":   "guild",
	"gu":      "guild",
	"raid":    "raid",
	"rsay":    "raid",
	"emote":   "emote",
	"em":      "emote",
	"me":      "emote",
}

// Channel canonicalises a chat channel name. Unknown names return "".
func Channel(name string) string {
	return channelAliases[strings.ToLower(strings.TrimSpace(name))]
}
