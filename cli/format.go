// Package cli renders game events as console text for headless mode and
// supplies the line formatting the terminal UI shares.
package cli

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/willeq/willeq/engine/events"
	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Kind classifies an output line for styling and filtering.
type Kind int

const (
	KindSystem Kind = iota
	KindChat
	KindTell
	KindCombat
	KindZone
	KindSpawn
	KindError
	KindInput
)

// Line is one formatted line of output. Channel is set for chat lines.
type Line struct {
	Kind    Kind
	Text    string
	Channel string
}

// Formatter turns bus events into lines. Self names the player so their
// own chat and combat read in the second person.
type Formatter struct {
	Self    func() string
	Verbose bool
}

func (f Formatter) self() string {
	if f.Self == nil {
		return ""
	}
	return f.Self()
}

// Format describes ev, reporting false for events that produce no line.
// Spawn and despawn lines only appear when Verbose is set.
func (f Formatter) Format(ev events.GameEvent) (Line, bool) {
	switch d := ev.Data.(type) {
	case events.ChatMessageData:
		if ev.Type == events.SystemMessage {
			return SystemLine(d.Message), true
		}
		return f.chat(d), true

	case events.CombatEventData:
		text, ok := f.combat(d)
		return Line{Kind: KindCombat, Text: text}, ok

	case events.ZoneChangedData:
		if ev.Type != events.ZoneChanged || d.ZoneName == "" {
			return Line{}, false
		}
		return Line{Kind: KindZone, Text: fmt.Sprintf("You have entered %s.", d.ZoneName)}, true

	case events.EntitySpawnedData:
		if !f.Verbose || d.Name == f.self() {
			return Line{}, false
		}
		return Line{Kind: KindSpawn, Text: fmt.Sprintf("%s (level %d) appears at %.0f, %.0f, %.0f.",
			state.DisplayName(d.Name), d.Level, d.X, d.Y, d.Z)}, true

	case events.EntityDespawnedData:
		if !f.Verbose {
			return Line{}, false
		}
		return Line{Kind: KindSpawn, Text: fmt.Sprintf("%s is gone.", state.DisplayName(d.Name))}, true
	}
	return Line{}, false
}

// SystemLine classifies a system message; "Error: " prefixed text is an
// error line.
func SystemLine(msg string) Line {
	if strings.HasPrefix(msg, "Error: ") {
		return Line{Kind: KindError, Text: msg}
	}
	return Line{Kind: KindSystem, Text: msg}
}

// chatForms holds the third- and second-person phrasing per channel.
var chatForms = map[string][2]string{
	"say":     {"%s says, '%s'", "You say, '%s'"},
	"shout":   {"%s shouts, '%s'", "You shout, '%s'"},
	"ooc":     {"%s says out of character, '%s'", "You say out of character, '%s'"},
	"auction": {"%s auctions, '%s'", "You auction, '%s'"},
	"tell":    {"%s tells you, '%s'", "You told someone, '%s'"},
	"group":   {"%s tells the group, '%s'", "You tell your party, '%s'"},
	"guild":   {"%s tells the guild, '%s'", "You say to your guild, '%s'"},
	"raid":    {"%s tells the raid, '%s'", "You tell your raid, '%s'"},
}

func (f Formatter) chat(d events.ChatMessageData) Line {
	ch := strings.ToLower(d.ChannelName)
	kind := KindChat
	if ch == "tell" {
		kind = KindTell
	}
	line := Line{Kind: kind, Channel: ch}

	name := state.DisplayName(d.Sender)
	if ch == "emote" {
		line.Text = name + " " + d.Message
		return line
	}
	forms, ok := chatForms[ch]
	if !ok {
		forms = chatForms["say"]
	}
	if d.Sender != "" && d.Sender == f.self() {
		line.Text = fmt.Sprintf(forms[1], d.Message)
	} else {
		line.Text = fmt.Sprintf(forms[0], name, d.Message)
	}
	return line
}

var avoidVerbs = map[types.CombatKind][2]string{
	types.CombatDodge:   {"dodge", "dodges"},
	types.CombatParry:   {"parry", "parries"},
	types.CombatBlock:   {"block", "blocks"},
	types.CombatRiposte: {"riposte", "ripostes"},
}

// combat phrases one combat exchange. Deaths are announced by the world
// as system messages, so they produce nothing here.
func (f Formatter) combat(d events.CombatEventData) (string, bool) {
	me := f.self()
	youHit := me != "" && d.SourceName == me
	youTaken := me != "" && d.TargetName == me
	src := state.DisplayName(d.SourceName)
	tgt := state.DisplayName(d.TargetName)

	switch kind := types.CombatKind(d.Kind); kind {
	case types.CombatHit:
		switch {
		case youHit:
			return fmt.Sprintf("You hit %s for %d points of damage.", tgt, d.Damage), true
		case youTaken:
			return capitalize(fmt.Sprintf("%s hits YOU for %d points of damage.", src, d.Damage)), true
		}
		return capitalize(fmt.Sprintf("%s hits %s for %d points of damage.", src, tgt, d.Damage)), true

	case types.CombatMiss:
		switch {
		case youHit:
			return fmt.Sprintf("You try to hit %s, but miss!", tgt), true
		case youTaken:
			return capitalize(fmt.Sprintf("%s tries to hit YOU, but misses!", src)), true
		}
		return capitalize(fmt.Sprintf("%s tries to hit %s, but misses!", src, tgt)), true

	case types.CombatDodge, types.CombatParry, types.CombatBlock, types.CombatRiposte:
		verb := avoidVerbs[kind]
		switch {
		case youTaken:
			return fmt.Sprintf("You %s %s's attack!", verb[0], src), true
		case youHit:
			return capitalize(fmt.Sprintf("%s %s your attack!", tgt, verb[1])), true
		}
		return capitalize(fmt.Sprintf("%s %s %s's attack!", tgt, verb[1], src)), true

	case types.CombatCriticalHit:
		if youHit {
			return fmt.Sprintf("You score a critical hit! (%d)", d.Damage), true
		}
		return capitalize(fmt.Sprintf("%s scores a critical hit! (%d)", src, d.Damage)), true
	}
	return "", false
}

func capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}
