package rules

import (
	"sort"

	"github.com/nathoo/boneyard/engine/resolve"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Evaluate runs the rules pipeline and returns the matched effects. The
// bool reports whether a rule matched; when none does, Step() falls back
// to the built-in action for the verb. Name resolution is handled by the
// resolve package before calling this.
func Evaluate(s *state.State, defs *state.Defs, intent types.Intent, res resolve.Result) ([]types.Effect, bool) {
	// Collect candidate rules in resolution order buckets.
	buckets := collect(defs, res)

	// Filter, rank, and select.
	for _, bucket := range buckets {
		if winner := filterRankSelect(bucket, s, defs, intent.Verb, res); winner != nil {
			return winner.Effects, true
		}
	}
	return nil, false
}

// collect gathers candidate rules in resolution order:
// 1. Target rules
// 2. Object rules
// 3. Global rules
func collect(defs *state.Defs, res resolve.Result) [][]types.RuleDef {
	var buckets [][]types.RuleDef

	if r := definedRules(defs, res.TargetID); len(r) > 0 {
		buckets = append(buckets, r)
	}
	if res.ObjectID != res.TargetID {
		if r := definedRules(defs, res.ObjectID); len(r) > 0 {
			buckets = append(buckets, r)
		}
	}
	if len(defs.GlobalRules) > 0 {
		buckets = append(buckets, defs.GlobalRules)
	}
	return buckets
}

// definedRules returns the rules authored on the actor or item with id.
// Items created during play, such as corpses, carry none.
func definedRules(defs *state.Defs, id string) []types.RuleDef {
	if id == "" {
		return nil
	}
	if a, ok := defs.Actors[id]; ok {
		return a.Rules
	}
	if it, ok := defs.Items[id]; ok {
		return it.Rules
	}
	return nil
}

// filterRankSelect filters a bucket of rules, ranks them, and returns the
// top-ranked matching rule, or nil if none match.
func filterRankSelect(rules []types.RuleDef, s *state.State, defs *state.Defs,
	verb string, res resolve.Result) *types.RuleDef {

	// Filter: When match + conditions.
	var candidates []types.RuleDef
	for _, rule := range rules {
		if !MatchesIntent(rule.When, verb, res) {
			continue
		}
		if !EvalAllConditions(rule.Conditions, s, defs) {
			continue
		}
		candidates = append(candidates, rule)
	}

	if len(candidates) == 0 {
		return nil
	}

	// Rank: specificity (desc), then priority (desc), then source order (asc).
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := Specificity(candidates[i]), Specificity(candidates[j])
		if si != sj {
			return si > sj
		}
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		return candidates[i].SourceOrder < candidates[j].SourceOrder
	})

	return &candidates[0]
}
