// Package events implements single-pass event handler dispatch.
// Event handlers produce additional effects but do not recurse.
package events

import (
	"fmt"
	"strings"

	"github.com/nathoo/boneyard/engine/rules"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Dispatch runs event handlers against the emitted events in a single
// pass with no recursion. Returns additional effects produced by matching handlers.
// String parameters of the form "{event.<key>}" are filled from the
// event's data.
func Dispatch(events []types.Event, s *state.State, defs *state.Defs) []types.Effect {
	var result []types.Effect

	for _, event := range events {
		for _, handler := range defs.Handlers {
			if handler.EventType != event.Type {
				continue
			}
			if !rules.EvalAllConditions(handler.Conditions, s, defs) {
				continue
			}
			for _, eff := range handler.Effects {
				result = append(result, bind(eff, event))
			}
		}
	}

	return result
}

// bind returns a copy of eff with event placeholders substituted.
func bind(eff types.Effect, event types.Event) types.Effect {
	if len(event.Data) == 0 {
		return eff
	}
	params := make(map[string]any, len(eff.Params))
	for k, v := range eff.Params {
		if str, ok := v.(string); ok && strings.Contains(str, "{event.") {
			for key, val := range event.Data {
				str = strings.ReplaceAll(str, "{event."+key+"}", fmt.Sprint(val))
			}
			v = str
		}
		params[k] = v
	}
	return types.Effect{Type: eff.Type, Params: params}
}
