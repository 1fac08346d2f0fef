// Package save writes character profile snapshots as JSON and applies
// them back onto a game state.
package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/willeq/willeq/engine/state"
	"github.com/willeq/willeq/types"
)

// Version is the snapshot format written by Marshal.
const Version = 1

// Snapshot is the JSON save format.
type Snapshot struct {
	ID      string    `json:"id"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Session string    `json:"session"`

	Zone    string          `json:"zone"`
	ZoneID  uint16          `json:"zone_id"`
	Profile state.Profile   `json:"profile"`
	Bind    state.BindPoint `json:"bind"`
	SpawnID uint16          `json:"spawn_id"`

	Gems    []uint32 `json:"gems"`
	Scribed []uint32 `json:"scribed"`

	RNGSeed     int64 `json:"rng_seed"`
	RNGPosition int64 `json:"rng_position"`
}

// Capture records the character in gs. Empty gems are stored as
// state.SpellIDUnknown so slot numbers survive the round trip.
func Capture(gs *state.GameState, session string, now time.Time) *Snapshot {
	p := gs.Player()
	sp := gs.Spells()
	s := &Snapshot{
		ID:      uuid.NewString(),
		Version: Version,
		SavedAt: now.UTC(),
		Session: session,
		Zone:    gs.CurrentZoneName(),
		ZoneID:  gs.World().ZoneID(),
		Profile: p.Profile(),
		Bind:    p.Bind(),
		SpawnID: p.SpawnID(),
		Gems:    make([]uint32, state.SpellGemCount),
		Scribed: sp.ScribedSpells(),
	}
	for g := range s.Gems {
		s.Gems[g] = sp.GemSpellID(uint8(g))
	}
	return s
}

// Marshal serializes a snapshot to indented JSON.
func Marshal(s *Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Load deserializes and checks a snapshot.
func Load(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}
	if s.Profile.Name == "" {
		return nil, fmt.Errorf("snapshot %s has no character name", s.ID)
	}
	if len(s.Gems) > state.SpellGemCount {
		return nil, fmt.Errorf("snapshot %s has %d gems, at most %d allowed", s.ID, len(s.Gems), state.SpellGemCount)
	}
	if s.Scribed == nil {
		s.Scribed = []uint32{}
	}
	return &s, nil
}

// Apply restores the character onto gs. The zone itself is not entered
// and the spawn id is left alone; callers load s.Zone first.
func Apply(gs *state.GameState, s *Snapshot) {
	p := gs.Player()
	p.LoadProfile(s.Profile)
	p.SetBindPoint(s.Bind)

	sp := gs.Spells()
	sp.ClearScribedSpells()
	for _, id := range s.Scribed {
		sp.AddScribedSpell(id)
	}
	sp.SetScribedSpellCount(uint16(len(s.Scribed)))
	for g, id := range s.Gems {
		if id == state.SpellIDUnknown {
			sp.ClearGem(uint8(g))
			continue
		}
		sp.SetGem(uint8(g), id, types.GemReady)
	}
}

// Path is the file a session's snapshot lives in.
func Path(dir, session string) string {
	return filepath.Join(dir, session+".json")
}

// WriteFile saves s under dir, creating the directory as needed, and
// returns the file written.
func WriteFile(dir string, s *Snapshot) (string, error) {
	data, err := Marshal(s)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save dir %s: %w", dir, err)
	}
	path := Path(dir, s.Session)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return path, nil
}

func ReadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	s, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
