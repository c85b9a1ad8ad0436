// Package resolve maps the names in a parsed intent to actor, item and
// grave IDs within the player's reach.
package resolve

import (
	"fmt"
	"strings"

	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Kinds reported for resolved names besides the item kinds.
const (
	KindActor = "actor"
	KindGrave = "grave"
)

// Result holds the resolved IDs for an intent and what each one is.
type Result struct {
	ObjectID   string
	ObjectKind string
	TargetID   string
	TargetKind string
}

// AmbiguityError indicates multiple candidates matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("you don't see %q here", e.Name)
}

// GraveID names the unopened grave at p.
func GraveID(p state.Position) string {
	return fmt.Sprintf("grave@%d,%d", p.X, p.Y)
}

// ParseGraveID is the inverse of GraveID.
func ParseGraveID(id string) (state.Position, bool) {
	rest, ok := strings.CutPrefix(id, "grave@")
	if !ok {
		return state.Position{}, false
	}
	var p state.Position
	if err := p.UnmarshalText([]byte(rest)); err != nil {
		return state.Position{}, false
	}
	return p, true
}

// candidate is one thing the player could mean.
type candidate struct {
	id, kind, name string
}

// Resolve maps object/target name strings from an intent to IDs.
func Resolve(s *state.State, intent types.Intent) (Result, error) {
	var res Result
	var err error
	scope := inScope(s)

	if intent.Object != "" {
		res.ObjectID, res.ObjectKind, err = resolveName(scope, intent.Object)
		if err != nil {
			return res, err
		}
	}

	if intent.Target != "" {
		res.TargetID, res.TargetKind, err = resolveName(scope, intent.Target)
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// inScope lists what the player can refer to: every actor still standing,
// the items in the player's hands, items and unopened graves on the
// player's tile or next to it.
func inScope(s *state.State) []candidate {
	var out []candidate
	for _, a := range s.Living() {
		out = append(out, candidate{id: a.ID, kind: KindActor, name: a.Name})
	}
	p := s.Player()
	if p == nil {
		return out
	}
	for _, it := range p.Wield.Items() {
		out = append(out, candidate{id: it.ID, kind: it.Kind.String(), name: it.DisplayName()})
	}
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			at := p.Pos.Add(state.Position{X: dx, Y: dy})
			for _, it := range s.ItemsAt(at) {
				out = append(out, candidate{id: it.ID, kind: it.Kind.String(), name: it.DisplayName()})
			}
			if _, ok := s.Grave(at); ok {
				out = append(out, candidate{id: GraveID(at), kind: KindGrave, name: "grave"})
			}
		}
	}
	return out
}

// resolveName resolves a single name string to an ID.
func resolveName(scope []candidate, name string) (string, string, error) {
	nameLower := strings.ToLower(name)

	// 1. Exact ID match.
	for _, c := range scope {
		if strings.ToLower(c.id) == nameLower {
			return c.id, c.kind, nil
		}
	}

	// 2. Search by name.
	var matches []candidate
	for _, c := range scope {
		if matchesName(c, nameLower) && !contains(matches, c.id) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", "", &NotFoundError{Name: name}
	case 1:
		return matches[0].id, matches[0].kind, nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.id
		}
		return "", "", &AmbiguityError{Name: name, Candidates: names}
	}
}

// matchesName checks if a candidate's name matches the query (case-insensitive).
// Supports exact match, word-based partial match, and ID normalization.
func matchesName(c candidate, nameLower string) bool {
	entityNameLower := strings.ToLower(c.name)
	// Exact match.
	if entityNameLower == nameLower {
		return true
	}
	// Word-based partial match: query matches any word in the name.
	// e.g. "knife" matches "bone knife", "corpse" matches "rotten man corpse".
	for _, word := range strings.Fields(entityNameLower) {
		if word == nameLower {
			return true
		}
	}
	// Suffix match for multi-word queries: "man corpse".
	if strings.Contains(nameLower, " ") && strings.HasSuffix(entityNameLower, " "+nameLower) {
		return true
	}
	// Underscore normalization: "bone knife" matches ID "bone_knife".
	return strings.ReplaceAll(nameLower, " ", "_") == strings.ToLower(c.id)
}

func contains(list []candidate, id string) bool {
	for _, c := range list {
		if c.id == id {
			return true
		}
	}
	return false
}
