package loader

import (
	"errors"
	"strings"
	"testing"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

func pos(x, y int) *state.Position {
	return &state.Position{X: x, Y: y}
}

// validDefs returns a minimal valid Defs for testing.
func validDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test", Width: 8, Height: 8, Year: 1224},
		Items: map[string]state.ItemDef{
			"spade": {Item: items.Item{ID: "spade", Name: "spade", TwoHanded: true,
				Qualities: []items.Quality{items.Dig}, Damage: dice.NewStack(dice.D6)}},
			"knife": {Item: items.Item{ID: "knife", Name: "knife", Kind: items.Weapon,
				Damage: dice.NewStack(dice.D4)}, Pos: pos(3, 3)},
			"cloak": {Item: items.Item{ID: "cloak", Name: "cloak", Kind: items.Garment,
				Garment: &anatomy.Worn{Name: "cloak", Slot: anatomy.TorsoSlot}}},
		},
		Actors: map[string]state.ActorDef{
			"edgar": {ID: "edgar", Name: "Edgar", Player: true, Pos: state.Position{X: 1, Y: 1},
				Wield: []string{"spade"}, Wear: []string{"cloak"}},
			"hound": {ID: "hound", Name: "hound", Hostile: true, Race: anatomy.Dog, Pos: state.Position{X: 6, Y: 6},
				Behavior: []types.BehaviorEntry{{Action: "attack", Weight: 3}, {Action: "wander", Weight: 1}}},
		},
		Graves: []state.GraveDef{{Pos: state.Position{X: 4, Y: 4}, Grave: items.Grave{DeathYear: 1190}}},
		Walls:  []state.Position{{X: 0, Y: 0}},
	}
}

func TestValidate_ValidDefs(t *testing.T) {
	warnings, err := validate(validDefs())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(d *state.Defs)
		want   string
	}{
		{"no title", func(d *state.Defs) { d.Game.Title = "" }, "title is required"},
		{"no arena", func(d *state.Defs) { d.Game.Width = 0 }, "must be positive"},
		{"no player", func(d *state.Defs) {
			e := d.Actors["edgar"]
			e.Player = false
			d.Actors["edgar"] = e
		}, "no player"},
		{"two players", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Player = true
			d.Actors["hound"] = h
		}, "more than one player"},
		{"actor outside", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Pos = state.Position{X: 8, Y: 1}
			d.Actors["hound"] = h
		}, "outside the arena"},
		{"actor in wall", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Pos = state.Position{}
			d.Actors["hound"] = h
		}, "stands in a wall"},
		{"actors share a tile", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Pos = state.Position{X: 1, Y: 1}
			d.Actors["hound"] = h
		}, "share"},
		{"id clash", func(d *state.Defs) {
			d.Items["hound"] = state.ItemDef{Item: items.Item{ID: "hound"}, Pos: pos(2, 2)}
		}, "both an item and an actor"},
		{"wall outside", func(d *state.Defs) { d.Walls = append(d.Walls, state.Position{X: -1, Y: 0}) }, "wall at"},
		{"item in wall", func(d *state.Defs) {
			k := d.Items["knife"]
			k.Pos = pos(0, 0)
			d.Items["knife"] = k
		}, "lies in a wall"},
		{"graves share a tile", func(d *state.Defs) {
			d.Graves = append(d.Graves, d.Graves[0])
		}, "two graves"},
		{"unknown wielded item", func(d *state.Defs) {
			e := d.Actors["edgar"]
			e.Wield = []string{"sword"}
			d.Actors["edgar"] = e
		}, "undefined item \"sword\""},
		{"three hands", func(d *state.Defs) {
			d.Items["a"] = state.ItemDef{Item: items.Item{ID: "a"}}
			d.Items["b"] = state.ItemDef{Item: items.Item{ID: "b"}}
			d.Items["c"] = state.ItemDef{Item: items.Item{ID: "c"}}
			e := d.Actors["edgar"]
			e.Wield = []string{"a", "b", "c"}
			d.Actors["edgar"] = e
		}, "only two hands"},
		{"two-handed paired", func(d *state.Defs) {
			d.Items["rock"] = state.ItemDef{Item: items.Item{ID: "rock"}}
			e := d.Actors["edgar"]
			e.Wield = []string{"spade", "rock"}
			d.Actors["edgar"] = e
		}, "two-handed"},
		{"placed and wielded", func(d *state.Defs) {
			e := d.Actors["edgar"]
			e.Wield = []string{"knife"}
			d.Actors["edgar"] = e
		}, "placed at"},
		{"carried twice", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Wield = []string{"spade"}
			d.Actors["hound"] = h
		}, "carried by both"},
		{"wearing a tool", func(d *state.Defs) {
			e := d.Actors["edgar"]
			e.Wield = nil
			e.Wear = []string{"spade"}
			d.Actors["edgar"] = e
		}, "not a garment"},
		{"unknown behavior", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Behavior = []types.BehaviorEntry{{Action: "sing", Weight: 1}}
			d.Actors["hound"] = h
		}, "unknown behavior"},
		{"negative weight", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Behavior = []types.BehaviorEntry{{Action: "wait", Weight: -1}}
			d.Actors["hound"] = h
		}, "negative weight"},
		{"duplicate rule id", func(d *state.Defs) {
			r := types.RuleDef{ID: "r1", When: types.MatchCriteria{Verb: "take"}}
			d.GlobalRules = []types.RuleDef{r}
			k := d.Items["knife"]
			k.Rules = []types.RuleDef{r}
			d.Items["knife"] = k
		}, "duplicate rule ID"},
		{"unknown effect", func(d *state.Defs) {
			d.Handlers = []types.EventHandler{{EventType: "grave_dug", Effects: []types.Effect{{Type: "explode"}}}}
		}, "unknown effect type"},
		{"unknown condition", func(d *state.Defs) {
			d.GlobalRules = []types.RuleDef{{ID: "r", When: types.MatchCriteria{Verb: "wait"},
				Conditions: []types.Condition{{Type: "raining"}}}}
		}, "unknown condition type"},
		{"nested unknown condition", func(d *state.Defs) {
			inner := types.Condition{Type: "raining"}
			d.GlobalRules = []types.RuleDef{{ID: "r", When: types.MatchCriteria{Verb: "wait"},
				Conditions: []types.Condition{{Type: "not", Inner: &inner}}}}
		}, "unknown condition type"},
		{"hit undefined actor", func(d *state.Defs) {
			d.Handlers = []types.EventHandler{{EventType: "x", Effects: []types.Effect{
				{Type: "hit", Params: map[string]any{"target": "ghost", "damage": 3}}}}}
		}, "undefined actor \"ghost\""},
		{"wear a non-garment", func(d *state.Defs) {
			d.Handlers = []types.EventHandler{{EventType: "x", Effects: []types.Effect{
				{Type: "wear", Params: map[string]any{"actor": "edgar", "item": "knife"}}}}}
		}, "not a garment"},
		{"holding undefined item", func(d *state.Defs) {
			d.Handlers = []types.EventHandler{{EventType: "x", Conditions: []types.Condition{
				{Type: "holding", Params: map[string]any{"item": "sword"}}}}}
		}, "undefined item \"sword\""},
		{"unknown quality", func(d *state.Defs) {
			d.Handlers = []types.EventHandler{{EventType: "x", Conditions: []types.Condition{
				{Type: "has_quality", Params: map[string]any{"quality": "shiny"}}}}}
		}, "unknown quality"},
		{"topic references", func(d *state.Defs) {
			h := d.Actors["hound"]
			h.Topics = map[string]types.TopicDef{"bark": {Effects: []types.Effect{
				{Type: "start_dialogue", Params: map[string]any{"npc": "nobody"}}}}}
			d.Actors["hound"] = h
		}, "undefined actor \"nobody\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defs := validDefs()
			tt.mutate(defs)

			_, err := validate(defs)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidate_TemplatesSkipReferenceChecks(t *testing.T) {
	defs := validDefs()
	defs.GlobalRules = []types.RuleDef{{ID: "r", When: types.MatchCriteria{Verb: "take"}, Effects: []types.Effect{
		{Type: "pick_up", Params: map[string]any{"item": "{object}"}},
		{Type: "hit", Params: map[string]any{"target": "{target}", "damage": 1}},
	}}}
	if _, err := validate(defs); err != nil {
		t.Errorf("templates should not be checked as ids: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	defs := validDefs()
	defs.Game.Title = ""
	defs.Walls = append(defs.Walls, state.Position{X: 20, Y: 20})

	_, err := validate(defs)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(ve.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d: %v", len(ve.Errors), ve.Errors)
	}
}

func TestValidate_Warnings(t *testing.T) {
	defs := validDefs()
	defs.Items["lantern"] = state.ItemDef{Item: items.Item{ID: "lantern", Name: "lantern"}}
	defs.Items["sling"] = state.ItemDef{Item: items.Item{ID: "sling", Range: 4}, Pos: pos(5, 5)}
	black := anatomy.BlackFur
	e := defs.Actors["edgar"]
	e.Fur = &black
	defs.Actors["edgar"] = e
	defs.Graves[0].Grave.DeathYear = 1300
	defs.GlobalRules = []types.RuleDef{{ID: "r", When: types.MatchCriteria{Verb: "dance"}}}

	warnings, err := validate(defs)
	if err != nil {
		t.Fatalf("warnings must not fail validation: %v", err)
	}
	all := strings.Join(warnings, "\n")
	for _, want := range []string{
		`"lantern" is never placed`,
		`"sling" has a range but no damage`,
		"has no fur",
		"after the current year",
		`unrecognized verb "dance"`,
	} {
		if !strings.Contains(all, want) {
			t.Errorf("missing warning %q in:\n%s", want, all)
		}
	}
}
