// Package save implements JSON serialization and deserialization of game
// state, and the stores that keep named saves.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
)

// FormatVersion is bumped whenever the layout of SaveData changes.
const FormatVersion = 1

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Format  int          `json:"format"`
	Version string       `json:"version"`
	Game    string       `json:"game"`
	Turn    int          `json:"turn"`
	State   *state.State `json:"state"`
}

// Save serializes game state to JSON bytes.
func Save(s *state.State, defs *state.Defs) ([]byte, error) {
	data := SaveData{
		Format:  FormatVersion,
		Version: defs.Game.Version,
		Game:    defs.Game.Title,
		Turn:    s.Turn,
		State:   s,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if sd.Format != FormatVersion {
		return nil, fmt.Errorf("unsupported save format %d (want %d)", sd.Format, FormatVersion)
	}
	if sd.State == nil {
		return nil, errors.New("save holds no state")
	}

	// Ensure maps are never nil after load.
	s := sd.State
	if s.Actors == nil {
		s.Actors = map[string]*state.Actor{}
	}
	if s.Ground == nil {
		s.Ground = map[state.Position][]items.Item{}
	}
	if s.Terrain == nil {
		s.Terrain = map[state.Position]state.Tile{}
	}
	if s.Graves == nil {
		s.Graves = map[state.Position]items.Grave{}
	}
	if s.Flags == nil {
		s.Flags = map[string]bool{}
	}
	if s.Counters == nil {
		s.Counters = map[string]int{}
	}
	if s.CommandLog == nil {
		s.CommandLog = []string{}
	}
	return &sd, nil
}

// Check reports whether the save was made for the loaded game.
func (sd *SaveData) Check(defs *state.Defs) error {
	if sd.Game != defs.Game.Title {
		return fmt.Errorf("save is for %q, not %q", sd.Game, defs.Game.Title)
	}
	return nil
}

// ApplySave applies loaded save data onto a state.
func ApplySave(s *state.State, sd *SaveData) {
	*s = *sd.State
}
