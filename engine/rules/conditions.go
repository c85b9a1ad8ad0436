// Package rules implements the content rules pipeline that can override
// the built-in behaviour of a verb.
package rules

import (
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// EvalCondition evaluates a single condition against the current state.
// Conditions about an actor ask about the player unless an "actor"
// parameter names someone else.
func EvalCondition(c types.Condition, s *state.State, defs *state.Defs) bool {
	switch c.Type {
	case "holding":
		item, _ := c.Params["item"].(string)
		a := subject(c, s)
		if a == nil {
			return false
		}
		for _, it := range a.Wield.Items() {
			if it.ID == item {
				return true
			}
		}
		return false

	case "has_quality":
		name, _ := c.Params["quality"].(string)
		q, ok := items.ParseQuality(name)
		a := subject(c, s)
		return ok && a != nil && a.Wield.HasQuality(q)

	case "flag_set":
		flag, _ := c.Params["flag"].(string)
		return s.GetFlag(flag)

	case "flag_not":
		flag, _ := c.Params["flag"].(string)
		return !s.GetFlag(flag)

	case "flag_is":
		flag, _ := c.Params["flag"].(string)
		value, _ := c.Params["value"].(bool)
		return s.GetFlag(flag) == value

	case "counter_gt":
		counter, _ := c.Params["counter"].(string)
		value := toInt(c.Params["value"])
		return s.GetCounter(counter) > value

	case "counter_lt":
		counter, _ := c.Params["counter"].(string)
		value := toInt(c.Params["value"])
		return s.GetCounter(counter) < value

	case "at":
		a := subject(c, s)
		return a != nil && a.Pos == state.Position{X: toInt(c.Params["x"]), Y: toInt(c.Params["y"])}

	case "near":
		other, _ := c.Params["other"].(string)
		a, b := subject(c, s), s.Actor(other)
		if a == nil || b == nil || !b.Alive() {
			return false
		}
		within := 1.5
		if d, ok := c.Params["distance"]; ok {
			within = float64(toInt(d))
		}
		return a.Pos.Distance(b.Pos) <= within

	case "alive":
		a := subject(c, s)
		return a != nil && a.Alive()

	case "turn_at_least":
		return s.Turn >= toInt(c.Params["turn"])

	case "not":
		if c.Inner == nil {
			return true
		}
		return !EvalCondition(*c.Inner, s, defs)

	default:
		return false
	}
}

// EvalAllConditions returns true if all conditions pass (AND logic).
// An empty condition list is vacuously true.
func EvalAllConditions(conditions []types.Condition, s *state.State, defs *state.Defs) bool {
	for _, c := range conditions {
		if !EvalCondition(c, s, defs) {
			return false
		}
	}
	return true
}

func subject(c types.Condition, s *state.State) *state.Actor {
	if id, ok := c.Params["actor"].(string); ok && id != "" {
		return s.Actor(id)
	}
	return s.Player()
}

// toInt converts an any value to int, handling float64 from JSON/Lua.
func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	case int64:
		return int(n)
	default:
		return 0
	}
}
