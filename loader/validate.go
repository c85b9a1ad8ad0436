package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

func (e *ValidationError) errorf(format string, args ...any) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...any) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}

// Known effect types.
var validEffectTypes = map[string]bool{
	"say":            true,
	"move_actor":     true,
	"pick_up":        true,
	"drop":           true,
	"swap_hands":     true,
	"switch_hand":    true,
	"wear":           true,
	"hit":            true,
	"dig":            true,
	"set_flag":       true,
	"inc_counter":    true,
	"set_counter":    true,
	"emit_event":     true,
	"start_dialogue": true,
	"stop":           true,
}

// Known condition types.
var validConditionTypes = map[string]bool{
	"holding":       true,
	"has_quality":   true,
	"flag_set":      true,
	"flag_not":      true,
	"flag_is":       true,
	"counter_gt":    true,
	"counter_lt":    true,
	"at":            true,
	"near":          true,
	"alive":         true,
	"turn_at_least": true,
	"not":           true,
}

var validBehaviors = map[string]bool{"attack": true, "shoot": true, "wait": true, "wander": true}

// validate checks the compiled defs for referential integrity and a
// playable arena. Warnings never fail a load.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.errorf("Game.title is required")
	}
	if defs.Game.Width <= 0 || defs.Game.Height <= 0 {
		ve.errorf("Game.width and Game.height must be positive, got %dx%d", defs.Game.Width, defs.Game.Height)
	}
	inBounds := func(p state.Position) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < defs.Game.Width && p.Y < defs.Game.Height
	}

	walls := map[state.Position]bool{}
	for _, p := range defs.Walls {
		if !inBounds(p) {
			ve.errorf("wall at %s is outside the arena", p)
		}
		walls[p] = true
	}

	validatePlacement(defs, ve, inBounds, walls)
	validateEquipment(defs, ve)

	// Rule IDs unique across all scopes.
	ruleIDs := map[string]bool{}
	for _, rule := range collectAllRules(defs) {
		if ruleIDs[rule.ID] {
			ve.errorf("duplicate rule ID %q", rule.ID)
		}
		ruleIDs[rule.ID] = true
	}

	validateRules(defs.GlobalRules, defs, ve)
	for _, id := range sortedIDs(defs.Items) {
		validateRules(defs.Items[id].Rules, defs, ve)
	}
	for _, id := range sortedIDs(defs.Actors) {
		a := defs.Actors[id]
		validateRules(a.Rules, defs, ve)
		for _, topic := range sortedIDs(a.Topics) {
			validateConditions(a.Topics[topic].Requires, defs, ve)
			validateEffects(a.Topics[topic].Effects, defs, ve)
		}
	}
	for _, handler := range defs.Handlers {
		validateConditions(handler.Conditions, defs, ve)
		validateEffects(handler.Effects, defs, ve)
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

// validatePlacement checks the player count and that everything placed
// on the arena sits on open ground, one actor or grave to a tile.
func validatePlacement(defs *state.Defs, ve *ValidationError, inBounds func(state.Position) bool, walls map[state.Position]bool) {
	var players []string
	occupied := map[state.Position]string{}
	for _, id := range sortedIDs(defs.Actors) {
		a := defs.Actors[id]
		if _, clash := defs.Items[id]; clash {
			ve.errorf("id %q names both an item and an actor", id)
		}
		if a.Player {
			players = append(players, id)
			if a.Hostile {
				ve.warnf("player %q is marked hostile", id)
			}
		}
		switch {
		case !inBounds(a.Pos):
			ve.errorf("actor %q at %s is outside the arena", id, a.Pos)
		case walls[a.Pos]:
			ve.errorf("actor %q at %s stands in a wall", id, a.Pos)
		}
		if other, ok := occupied[a.Pos]; ok {
			ve.errorf("actors %q and %q share %s", other, id, a.Pos)
		}
		occupied[a.Pos] = id

		if a.Fur != nil && !a.Race.Furred() {
			ve.warnf("actor %q is a %s and has no fur", id, a.Race)
		}
		for _, b := range a.Behavior {
			if !validBehaviors[b.Action] {
				ve.errorf("actor %q has unknown behavior %q", id, b.Action)
			}
			if b.Weight < 0 {
				ve.errorf("actor %q behavior %q has negative weight", id, b.Action)
			}
		}
	}
	switch len(players) {
	case 0:
		ve.errorf("no player actor defined (set player = true on one actor)")
	case 1:
	default:
		ve.errorf("more than one player actor: %s", strings.Join(players, ", "))
	}

	for _, id := range sortedIDs(defs.Items) {
		it := defs.Items[id]
		if it.Pos == nil {
			continue
		}
		switch {
		case !inBounds(*it.Pos):
			ve.errorf("item %q at %s is outside the arena", id, *it.Pos)
		case walls[*it.Pos]:
			ve.errorf("item %q at %s lies in a wall", id, *it.Pos)
		}
	}

	graves := map[state.Position]bool{}
	for _, g := range defs.Graves {
		switch {
		case !inBounds(g.Pos):
			ve.errorf("grave at %s is outside the arena", g.Pos)
		case walls[g.Pos]:
			ve.errorf("grave at %s lies under a wall", g.Pos)
		case graves[g.Pos]:
			ve.errorf("two graves share %s", g.Pos)
		}
		graves[g.Pos] = true
		if g.Grave.DeathYear > defs.Game.Year {
			ve.warnf("grave of %q is dated %d, after the current year %d", g.Grave.Profile.Name, g.Grave.DeathYear, defs.Game.Year)
		}
	}
}

// validateEquipment checks wielded and worn references. Every item lives
// in exactly one place: the ground, one hand, or one body.
func validateEquipment(defs *state.Defs, ve *ValidationError) {
	owner := map[string]string{}
	claim := func(actor, item string) {
		if other, ok := owner[item]; ok {
			ve.errorf("item %q is carried by both %q and %q", item, other, actor)
			return
		}
		owner[item] = actor
		if it, ok := defs.Items[item]; ok && it.Pos != nil {
			ve.errorf("item %q is placed at %s and also carried by %q", item, *it.Pos, actor)
		}
	}

	for _, id := range sortedIDs(defs.Actors) {
		a := defs.Actors[id]
		if len(a.Wield) > 2 {
			ve.errorf("actor %q wields %d items; there are only two hands", id, len(a.Wield))
		}
		for _, itemID := range a.Wield {
			it, ok := defs.Items[itemID]
			if !ok {
				ve.errorf("actor %q wields undefined item %q", id, itemID)
				continue
			}
			claim(id, itemID)
			if it.Item.TwoHanded && len(a.Wield) > 1 {
				ve.errorf("actor %q wields two-handed %q with another item", id, itemID)
			}
		}
		for _, itemID := range a.Wear {
			it, ok := defs.Items[itemID]
			if !ok {
				ve.errorf("actor %q wears undefined item %q", id, itemID)
				continue
			}
			if it.Item.Garment == nil {
				ve.errorf("actor %q wears %q, which is not a garment", id, itemID)
			}
			claim(id, itemID)
		}
	}

	for _, id := range sortedIDs(defs.Items) {
		it := defs.Items[id]
		if it.Pos == nil && owner[id] == "" {
			ve.warnf("item %q is never placed, wielded or worn", id)
		}
		if it.Item.Range > 0 && it.Item.Damage.Len() == 0 {
			ve.warnf("item %q has a range but no damage", id)
		}
	}
}

func validateRules(rules []types.RuleDef, defs *state.Defs, ve *ValidationError) {
	for _, rule := range rules {
		validateConditions(rule.Conditions, defs, ve)
		validateEffects(rule.Effects, defs, ve)

		if rule.When.Verb != "" && !knownVerbs[rule.When.Verb] {
			ve.warnf("rule %q uses unrecognized verb %q", rule.ID, rule.When.Verb)
		}
	}
}

func validateConditions(conditions []types.Condition, defs *state.Defs, ve *ValidationError) {
	for _, cond := range conditions {
		if !validConditionTypes[cond.Type] {
			ve.errorf("unknown condition type %q", cond.Type)
		}

		checkActorParam(cond.Params, "actor", "condition "+cond.Type, defs, ve)
		switch cond.Type {
		case "holding":
			checkItemParam(cond.Params, "item", "condition holding", defs, ve)
		case "has_quality":
			if q, _ := cond.Params["quality"].(string); q != "" {
				if _, ok := items.ParseQuality(q); !ok {
					ve.errorf("condition has_quality names unknown quality %q", q)
				}
			}
		case "near":
			checkActorParam(cond.Params, "other", "condition near", defs, ve)
		case "not":
			if cond.Inner != nil {
				validateConditions([]types.Condition{*cond.Inner}, defs, ve)
			}
		}
	}
}

func validateEffects(effects []types.Effect, defs *state.Defs, ve *ValidationError) {
	for _, eff := range effects {
		if !validEffectTypes[eff.Type] {
			ve.errorf("unknown effect type %q", eff.Type)
		}

		checkActorParam(eff.Params, "actor", "effect "+eff.Type, defs, ve)
		switch eff.Type {
		case "pick_up", "drop":
			checkItemParam(eff.Params, "item", "effect "+eff.Type, defs, ve)
		case "wear":
			checkItemParam(eff.Params, "item", "effect wear", defs, ve)
			if id, ok := eff.Params["item"].(string); ok {
				if def, ok := defs.Items[id]; ok && def.Item.Garment == nil {
					ve.errorf("effect wear names %q, which is not a garment", id)
				}
			}
		case "hit":
			checkActorParam(eff.Params, "target", "effect hit", defs, ve)
		case "start_dialogue":
			checkActorParam(eff.Params, "npc", "effect start_dialogue", defs, ve)
		}
	}
}

func checkActorParam(params map[string]any, key, where string, defs *state.Defs, ve *ValidationError) {
	id, ok := params[key].(string)
	if !ok || id == "" || isTemplate(id) {
		return
	}
	if _, ok := defs.Actors[id]; !ok {
		ve.errorf("%s references undefined actor %q", where, id)
	}
}

func checkItemParam(params map[string]any, key, where string, defs *state.Defs, ve *ValidationError) {
	id, ok := params[key].(string)
	if !ok || id == "" || isTemplate(id) {
		return
	}
	if _, ok := defs.Items[id]; !ok {
		ve.errorf("%s references undefined item %q", where, id)
	}
}

// collectAllRules gathers all rules from all scopes.
func collectAllRules(defs *state.Defs) []types.RuleDef {
	var all []types.RuleDef
	all = append(all, defs.GlobalRules...)
	for _, id := range sortedIDs(defs.Items) {
		all = append(all, defs.Items[id].Rules...)
	}
	for _, id := range sortedIDs(defs.Actors) {
		all = append(all, defs.Actors[id].Rules...)
	}
	return all
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// isTemplate returns true if the string contains a template variable.
func isTemplate(s string) bool {
	return strings.Contains(s, "{") && strings.Contains(s, "}")
}

// knownVerbs are the canonical verbs the parser produces.
var knownVerbs = map[string]bool{
	"look": true, "examine": true, "read": true, "status": true,
	"inventory": true, "talk": true, "go": true, "take": true,
	"drop": true, "wear": true, "swap": true, "switch": true,
	"dig": true, "attack": true, "shoot": true, "wait": true,
}
