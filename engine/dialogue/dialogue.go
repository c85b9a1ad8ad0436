// Package dialogue implements the topic system for actors who talk.
package dialogue

import (
	"sort"

	"github.com/nathoo/boneyard/engine/rules"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// AvailableTopics returns topic keys whose conditions are met, sorted.
func AvailableTopics(actorID string, s *state.State, defs *state.Defs) []string {
	def, ok := defs.Actors[actorID]
	if !ok || def.Topics == nil {
		return nil
	}

	var result []string
	for key, topic := range def.Topics {
		if rules.EvalAllConditions(topic.Requires, s, defs) {
			result = append(result, key)
		}
	}
	sort.Strings(result)
	return result
}

// SelectTopic returns the text and effects for a chosen topic.
// Returns empty text and nil effects if topic doesn't exist or conditions not met.
func SelectTopic(actorID, topicKey string, s *state.State, defs *state.Defs) (string, []types.Effect) {
	def, ok := defs.Actors[actorID]
	if !ok || def.Topics == nil {
		return "", nil
	}

	topic, ok := def.Topics[topicKey]
	if !ok {
		return "", nil
	}

	if !rules.EvalAllConditions(topic.Requires, s, defs) {
		return "", nil
	}

	return topic.Text, topic.Effects
}
