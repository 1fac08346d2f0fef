package input

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// BindingKind says what a key chord does.
type BindingKind int

const (
	BindAction BindingKind = iota
	BindMove
	BindGem
	BindHotbar
	BindCommand
)

// MoveKey is a continuous movement flag a chord toggles.
type MoveKey int

const (
	MoveForwardKey MoveKey = iota
	MoveBackwardKey
	StrafeLeftKey
	StrafeRightKey
	TurnLeftKey
	TurnRightKey
	StopKey
)

var moveNames = map[string]MoveKey{
	"move_forward":  MoveForwardKey,
	"move_backward": MoveBackwardKey,
	"strafe_left":   StrafeLeftKey,
	"strafe_right":  StrafeRightKey,
	"turn_left":     TurnLeftKey,
	"turn_right":    TurnRightKey,
	"move_stop":     StopKey,
}

// Binding is the resolved target of one chord.
type Binding struct {
	Kind    BindingKind
	Action  Action
	Move    MoveKey
	Slot    uint8 // zero-based gem or hotbar slot
	Command string
}

// ParseBinding reads a binding target:
//
//	jump               an input action name
//	move_forward       a movement flag (toggled per press)
//	cast 3             spell gem 3 (1-8)
//	hotbar 10          hotbar button 10 (1-10)
//	/pet attack        a client command
func ParseBinding(s string) (Binding, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/") {
		if len(s) == 1 {
			return Binding{}, fmt.Errorf("empty command binding")
		}
		return Binding{Kind: BindCommand, Command: s}, nil
	}

	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 2 && (fields[0] == "cast" || fields[0] == "hotbar") {
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Binding{}, fmt.Errorf("binding %q: %w", s, err)
		}
		if fields[0] == "cast" {
			if n < 1 || n > 8 {
				return Binding{}, fmt.Errorf("binding %q: gem must be 1-8", s)
			}
			return Binding{Kind: BindGem, Slot: uint8(n - 1)}, nil
		}
		if n < 1 || n > 10 {
			return Binding{}, fmt.Errorf("binding %q: hotbar slot must be 1-10", s)
		}
		return Binding{Kind: BindHotbar, Slot: uint8(n - 1)}, nil
	}
	if len(fields) != 1 {
		return Binding{}, fmt.Errorf("binding %q: unrecognised", s)
	}
	if m, ok := moveNames[fields[0]]; ok {
		return Binding{Kind: BindMove, Move: m}, nil
	}
	a, err := ParseAction(fields[0])
	if err != nil {
		return Binding{}, err
	}
	return Binding{Kind: BindAction, Action: a}, nil
}

// NormalizeChord lowercases a chord and names the space bar.
func NormalizeChord(chord string) string {
	if chord == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(chord))
}

var defaultBindings = map[string]string{
	"w":         "move_forward",
	"s":         "move_backward",
	"a":         "turn_left",
	"d":         "turn_right",
	"q":         "strafe_left",
	"e":         "strafe_right",
	"x":         "move_stop",
	"space":     "jump",
	"r":         "toggle_autorun",
	"`":         "toggle_auto_attack",
	"h":         "hail",
	"c":         "consider",
	"z":         "clear_target",
	"u":         "interact_door",
	"f":         "interact",
	"tab":       "target_nearest_npc",
	"shift+tab": "target_nearest_pc",
	"f1":        "target_self",
	"f2":        "target_group_member_1",
	"f3":        "target_group_member_2",
	"f4":        "target_group_member_3",
	"f5":        "target_group_member_4",
	"f6":        "target_group_member_5",
	"i":         "toggle_inventory",
	"k":         "toggle_skills",
	"g":         "toggle_group",
	"p":         "toggle_pet_window",
	"b":         "toggle_spellbook",
	"1":         "cast 1",
	"2":         "cast 2",
	"3":         "cast 3",
	"4":         "cast 4",
	"5":         "cast 5",
	"6":         "cast 6",
	"7":         "cast 7",
	"8":         "cast 8",
	"alt+1":     "hotbar 1",
	"alt+2":     "hotbar 2",
	"alt+3":     "hotbar 3",
	"alt+4":     "hotbar 4",
	"alt+5":     "hotbar 5",
	"alt+6":     "hotbar 6",
	"alt+7":     "hotbar 7",
	"alt+8":     "hotbar 8",
	"alt+9":     "hotbar 9",
	"alt+0":     "hotbar 10",
}

// Keymap maps normalized chords to bindings.
type Keymap struct {
	bindings map[string]Binding
}

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() *Keymap {
	k := &Keymap{bindings: make(map[string]Binding, len(defaultBindings))}
	for chord, target := range defaultBindings {
		b, err := ParseBinding(target)
		if err != nil {
			panic(fmt.Sprintf("default binding %s: %v", chord, err))
		}
		k.bindings[chord] = b
	}
	return k
}

func (k *Keymap) Lookup(chord string) (Binding, bool) {
	b, ok := k.bindings[NormalizeChord(chord)]
	return b, ok
}

// Chords lists the bound chords in sorted order.
func (k *Keymap) Chords() []string {
	out := make([]string, 0, len(k.bindings))
	for c := range k.bindings {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

type keymapFile struct {
	Bindings []struct {
		Keys []string `yaml:"keys"`
		Do   string   `yaml:"do"`
	} `yaml:"bindings"`
	// Unbind removes default chords.
	Unbind []string `yaml:"unbind"`
}

// LoadKeymap reads a YAML bindings file and merges it over the defaults.
func LoadKeymap(path string) (*Keymap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hotkeys %s: %w", path, err)
	}
	k, err := ParseKeymap(data)
	if err != nil {
		return nil, fmt.Errorf("hotkeys %s: %w", path, err)
	}
	return k, nil
}

// ParseKeymap merges YAML bindings over the defaults. Every problem is
// reported, including each chord bound more than once in the file.
func ParseKeymap(data []byte) (*Keymap, error) {
	var f keymapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	k := DefaultKeymap()
	for _, chord := range f.Unbind {
		delete(k.bindings, NormalizeChord(chord))
	}

	el := errors.NewErrorList()
	seen := make(map[string]string)
	for i, entry := range f.Bindings {
		if len(entry.Keys) == 0 {
			el.Add(fmt.Errorf("binding %d (%s): no keys", i+1, entry.Do))
			continue
		}
		b, err := ParseBinding(entry.Do)
		if err != nil {
			el.Add(fmt.Errorf("binding %d: %w", i+1, err))
			continue
		}
		for _, raw := range entry.Keys {
			chord := NormalizeChord(raw)
			if chord == "" {
				el.Add(fmt.Errorf("binding %d (%s): empty key", i+1, entry.Do))
				continue
			}
			if prev, dup := seen[chord]; dup {
				el.Add(fmt.Errorf("key %q bound to both %q and %q", chord, prev, entry.Do))
				continue
			}
			seen[chord] = entry.Do
			k.bindings[chord] = b
		}
	}
	if err := el.Err(); err != nil {
		return nil, err
	}
	return k, nil
}

// Press applies the binding for chord to h. It reports whether the chord
// was bound.
func (k *Keymap) Press(chord string, h *NullHandler) bool {
	b, ok := k.Lookup(chord)
	if !ok {
		return false
	}
	switch b.Kind {
	case BindAction:
		h.InjectAction(b.Action)
	case BindMove:
		h.UpdateState(func(s *State) { toggleMove(s, b.Move) })
	case BindGem:
		h.InjectSpellCast(b.Slot)
	case BindHotbar:
		h.InjectHotbar(b.Slot)
	case BindCommand:
		h.InjectCommand(b.Command)
	}
	return true
}

// toggleMove flips one movement flag. Terminals report presses but not
// releases, so each press starts or stops the motion.
func toggleMove(s *State, m MoveKey) {
	switch m {
	case MoveForwardKey:
		s.MoveForward = !s.MoveForward
		s.MoveBackward = false
	case MoveBackwardKey:
		s.MoveBackward = !s.MoveBackward
		s.MoveForward = false
	case StrafeLeftKey:
		s.StrafeLeft = !s.StrafeLeft
		s.StrafeRight = false
	case StrafeRightKey:
		s.StrafeRight = !s.StrafeRight
		s.StrafeLeft = false
	case TurnLeftKey:
		s.TurnLeft = !s.TurnLeft
		s.TurnRight = false
	case TurnRightKey:
		s.TurnRight = !s.TurnRight
		s.TurnLeft = false
	case StopKey:
		s.MoveForward, s.MoveBackward = false, false
		s.StrafeLeft, s.StrafeRight = false, false
		s.TurnLeft, s.TurnRight = false, false
	}
}
