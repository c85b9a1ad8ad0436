package save

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test Boneyard", Version: "1.0", Width: 8, Height: 8, Year: 1224},
		Items: map[string]state.ItemDef{
			"spade": {Item: items.Item{ID: "spade", Kind: items.Tool, Name: "spade",
				Qualities: []items.Quality{items.Dig}, TwoHanded: true, Damage: dice.NewStack(dice.D6)}},
		},
		Actors: map[string]state.ActorDef{
			"edgar": {ID: "edgar", Name: "Edgar", Player: true, Race: anatomy.Human,
				Pos: state.Position{X: 1, Y: 1}, Wield: []string{"spade"}},
			"rex": {ID: "rex", Name: "dog", Hostile: true, Race: anatomy.Dog,
				Pos: state.Position{X: 4, Y: 4}},
		},
		Graves: []state.GraveDef{{
			Pos: state.Position{X: 6, Y: 6},
			Grave: items.Grave{
				Profile:   anatomy.Profile{Name: "Old Tom", Race: anatomy.Human, Age: 70},
				DeathYear: 1190,
			},
		}},
		Walls: []state.Position{{X: 0, Y: 0}},
	}
}

func playedState(t *testing.T) (*state.State, *state.Defs) {
	t.Helper()
	defs := testDefs()
	s, err := state.NewState(defs, 42, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	// A wounded player, a corpse on the ground and a pit.
	p := s.Player()
	p.Pos = state.Position{X: 2, Y: 3}
	loc := anatomy.Location{At: anatomy.RootOffset, Path: []anatomy.Step{{Index: 1}}}
	if _, ok := p.Body.Wound(loc, 50, rand.New(rand.NewSource(1))); !ok {
		t.Fatal("expected the left arm to be wounded")
	}
	rex := s.Actor("rex")
	s.PutItem(rex.Pos, items.NewCorpse(s.NewID("corpse"), rex.Body))
	delete(s.Actors, "rex")
	s.Order = s.Order[:1]
	s.Terrain[state.Position{X: 5, Y: 5}] = state.Pit

	s.Flags["bell_rung"] = true
	s.Counters["graves"] = 3
	s.Turn = 7
	s.RNGPosition = 99
	s.CommandLog = []string{"go south", "attack dog"}
	return s, defs
}

func TestRoundTrip(t *testing.T) {
	s, defs := playedState(t)

	data, err := Save(s, defs)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s2 := state.Empty()
	ApplySave(s2, sd)

	if s2.Turn != 7 || s2.RNGSeed != 42 || s2.RNGPosition != 99 {
		t.Errorf("turn/seed/position mismatch: %d %d %d", s2.Turn, s2.RNGSeed, s2.RNGPosition)
	}
	if s2.PlayerID != "edgar" || s2.Player() == nil {
		t.Fatalf("expected player edgar, got %q", s2.PlayerID)
	}
	if got := s2.Player().Pos; got != (state.Position{X: 2, Y: 3}) {
		t.Errorf("expected player at 2,3, got %s", got)
	}
	if w := s2.Player().Weapon(); w == nil || w.ID != "spade" || !w.HasQuality(items.Dig) {
		t.Errorf("expected the spade in hand, got %v", w)
	}
	if !s2.Flags["bell_rung"] || s2.Counters["graves"] != 3 {
		t.Errorf("flags/counters mismatch: %v %v", s2.Flags, s2.Counters)
	}
	if s2.TileAt(state.Position{X: 5, Y: 5}) != state.Pit || s2.TileAt(state.Position{}) != state.Wall {
		t.Error("terrain not preserved")
	}
	if _, ok := s2.Grave(state.Position{X: 6, Y: 6}); !ok {
		t.Error("grave not preserved")
	}
	if len(s2.CommandLog) != 2 || s2.CommandLog[1] != "attack dog" {
		t.Errorf("command log mismatch: %v", s2.CommandLog)
	}

	ground := s2.ItemsAt(state.Position{X: 4, Y: 4})
	if len(ground) != 1 || ground[0].Kind != items.Corpse || ground[0].Body == nil {
		t.Fatalf("expected a corpse with a body, got %v", ground)
	}
	if got := ground[0].DisplayName(); got != "naked fresh dog corpse" {
		t.Errorf("expected 'naked fresh dog corpse', got %q", got)
	}
}

func TestRoundTrip_WoundsSurvive(t *testing.T) {
	s, defs := playedState(t)
	data, err := Save(s, defs)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	root, _ := sd.State.Player().Body.Root()
	arm := root.Outside[1]
	if arm.Data.Alive {
		t.Errorf("the crippled %s came back to life", arm.Name)
	}
	if !sd.State.Player().Body.Alive() {
		t.Error("a crippled arm is not fatal")
	}
}

func TestRoundTrip_Stable(t *testing.T) {
	s, defs := playedState(t)
	first, err := Save(s, defs)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	sd, err := Load(first)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := Save(sd.State, defs)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("save changed across a load:\n%s\n%s", first, second)
	}
}

func TestSave_ProducesValidJSON(t *testing.T) {
	s, defs := playedState(t)

	data, err := Save(s, defs)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !json.Valid(data) {
		t.Fatal("Save output is not valid JSON")
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["version"] != "1.0" {
		t.Errorf("expected version '1.0', got %v", raw["version"])
	}
	if raw["game"] != "Test Boneyard" {
		t.Errorf("expected game 'Test Boneyard', got %v", raw["game"])
	}
	if raw["format"] != float64(FormatVersion) {
		t.Errorf("expected format %d, got %v", FormatVersion, raw["format"])
	}
}

func TestLoad_MissingOptionalFields(t *testing.T) {
	data := []byte(`{"format":1,"version":"1.0","game":"Test","turn":0,"state":{"player_id":"edgar"}}`)

	sd, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	s := sd.State
	if s.Actors == nil || s.Ground == nil || s.Terrain == nil || s.Graves == nil {
		t.Error("expected non-nil world maps")
	}
	if s.Flags == nil || s.Counters == nil {
		t.Error("expected non-nil flags and counters")
	}
	if s.CommandLog == nil {
		t.Error("expected non-nil command_log")
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"format":`},
		{"wrong format", `{"format":99,"state":{}}`},
		{"no state", `{"format":1}`},
	}
	for _, tt := range tests {
		if _, err := Load([]byte(tt.data)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestCheck(t *testing.T) {
	defs := testDefs()
	if err := (&SaveData{Game: "Test Boneyard"}).Check(defs); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (&SaveData{Game: "Another Game"}).Check(defs); err == nil {
		t.Error("expected a mismatch error")
	}
}
