// Package tui is the Bubble Tea terminal front end for graphical mode.
package tui

import (
	"strings"

	"github.com/willeq/willeq/engine/parser"
)

// DefaultHistorySize is used when NewHistory gets a non-positive size.
const DefaultHistorySize = 100

// History keeps the lines typed on the chat line, oldest first, with
// cursor-based navigation.
type History struct {
	entries []string
	last    string // key of the newest entry
	max     int
	cursor  int // -1 = not navigating, 0..len-1 = position in entries
}

func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{
		entries: make([]string, 0, max),
		max:     max,
		cursor:  -1,
	}
}

// historyKey is the form two lines are compared in. Slash commands
// compare by lowercase command name (aliases are not resolved) and
// whitespace-collapsed arguments, so "/LOC" repeats "/loc". Chat compares
// exactly.
func historyKey(line string) string {
	if !strings.HasPrefix(line, "/") {
		return line
	}
	l := parser.Parse(line)
	key := "/" + l.Key()
	if args := parser.Fields(l.Args); len(args) > 0 {
		key += " " + strings.Join(args, " ")
	}
	return key
}

// Push records a submitted line. Blank lines and repeats of the newest
// entry are dropped, and pushing ends any navigation in progress.
func (h *History) Push(line string) {
	line = strings.TrimSpace(line)
	h.cursor = -1
	if line == "" || line == "/" {
		return
	}
	key := historyKey(line)
	if len(h.entries) > 0 && key == h.last {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, line)
	h.last = key
}

// Prev returns the previous (older) entry, stopping at the oldest.
// Returns ("", false) if history is empty.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == -1 {
		h.cursor = len(h.entries) - 1
	} else if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next returns the next (newer) entry.
// Returns ("", false) when past the most recent entry (back to fresh input).
func (h *History) Next() (string, bool) {
	if h.cursor == -1 {
		return "", false
	}
	h.cursor++
	if h.cursor >= len(h.entries) {
		h.cursor = -1
		return "", false
	}
	return h.entries[h.cursor], true
}

func (h *History) ResetCursor() { h.cursor = -1 }
func (h *History) Len() int     { return len(h.entries) }
