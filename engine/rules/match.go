package rules

import (
	"github.com/nathoo/boneyard/engine/resolve"
	"github.com/nathoo/boneyard/types"
)

// MatchesIntent checks if a rule's When criteria match the resolved intent.
func MatchesIntent(when types.MatchCriteria, verb string, res resolve.Result) bool {
	// Verb is required and must match.
	if when.Verb != verb {
		return false
	}

	// If When specifies an object, it must match the resolved object.
	if when.Object != "" && when.Object != res.ObjectID {
		return false
	}

	// If When specifies a target, it must match the resolved target.
	if when.Target != "" && when.Target != res.TargetID {
		return false
	}

	// If When specifies an object kind, the resolved object must be that kind.
	if when.ObjectKind != "" && when.ObjectKind != res.ObjectKind {
		return false
	}

	return true
}

// Specificity returns a numeric score for ranking rules.
// Higher is more specific.
func Specificity(rule types.RuleDef) int {
	score := 0
	if rule.When.Target != "" {
		score += 4
	}
	if rule.When.Object != "" {
		score += 2
	}
	if rule.When.ObjectKind != "" {
		score++
	}
	return score
}
