package state

import (
	"strings"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/types"
)

// Actor is a creature on the arena. Each actor exclusively owns its body
// and its wield slots.
type Actor struct {
	ID       string                `json:"id"`
	Name     string                `json:"name"`
	Player   bool                  `json:"player,omitempty"`
	Hostile  bool                  `json:"hostile,omitempty"`
	Dead     bool                  `json:"dead,omitempty"`
	Pos      Position              `json:"pos"`
	Profile  anatomy.Profile       `json:"profile"`
	Body     anatomy.Body          `json:"body"`
	Wield    items.Wield           `json:"wield"`
	Hand     items.MainHand        `json:"hand"`
	Skill    int                   `json:"skill"`
	Dodge    int                   `json:"dodge"`
	Unarmed  dice.Stack            `json:"unarmed"`
	Behavior []types.BehaviorEntry `json:"behavior,omitempty"`
}

// Alive reports whether the actor is still standing.
func (a *Actor) Alive() bool {
	return !a.Dead && a.Body.Alive()
}

// Subject is how messages refer to the actor: "you" or "the <name>".
func (a *Actor) Subject() string {
	if a.Player {
		return "you"
	}
	return "the " + a.Name
}

// Possessive is "your" or "the <name>'s".
func (a *Actor) Possessive() string {
	if a.Player {
		return "your"
	}
	return "the " + a.Name + "'s"
}

// Verb picks the second- or third-person form for the actor.
func (a *Actor) Verb(you, they string) string {
	if a.Player {
		return you
	}
	return they
}

// Sentence renders "<Subject> <verb> <rest>." with the first letter raised.
func (a *Actor) Sentence(you, they, rest string) string {
	s := a.Subject() + " " + a.Verb(you, they)
	if rest != "" {
		s += " " + rest
	}
	return Capitalize(s) + "."
}

// Weapon returns the item the actor fights with, or nil when unarmed.
func (a *Actor) Weapon() *items.Item {
	return a.Wield.ActiveItem()
}

// Capitalize raises the first letter of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
