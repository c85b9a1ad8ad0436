// Package action implements the closed set of things an actor can do.
// An Action is a tagged union; each lifecycle hook is a single switch over
// its Kind. Hooks never mutate state: they return effects for the effects
// stage to apply.
package action

import (
	"fmt"

	"github.com/nathoo/boneyard/engine/combat"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Kind selects the action variant.
type Kind uint8

const (
	Wait Kind = iota
	Walk
	Attack
	Shoot
	Take
	Drop
	Swap
	Switch
	Wear
	Dig
)

var kindNames = map[Kind]string{
	Wait: "wait", Walk: "walk", Attack: "attack", Shoot: "shoot", Take: "take",
	Drop: "drop", Swap: "swap", Switch: "switch", Wear: "wear", Dig: "dig",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// DigSteps is how many steps digging takes.
const DigSteps = 3

// MaxLift is the heaviest item an actor can pick up.
const MaxLift = 100.0

// Action is one chosen action. Only the fields its Kind uses are set.
type Action struct {
	Kind   Kind
	Actor  string         // acting actor ID
	Target string         // defender ID (Attack, Shoot)
	Item   string         // item ID (Take, Drop, Wear); empty Drop means the active hand
	Dir    state.Position // single-tile step (Walk)
}

// Steps is the number of OnStep calls the action takes before it finishes.
func Steps(a Action) int {
	if a.Kind == Dig {
		return DigSteps
	}
	return 1
}

// IsPossible reports why the action cannot be carried out right now.
// The error text is meant to be shown to the player as is.
func IsPossible(a Action, s *state.State) error {
	actor := s.Actor(a.Actor)
	if actor == nil || !actor.Alive() {
		return fmt.Errorf("%s cannot act", a.Actor)
	}

	switch a.Kind {
	case Wait, Switch:
		return nil

	case Walk:
		to := actor.Pos.Add(a.Dir)
		if a.Dir == (state.Position{}) || !s.InBounds(to) {
			return fmt.Errorf("%s cannot go that way", actor.Subject())
		}
		switch s.TileAt(to) {
		case state.Wall:
			return fmt.Errorf("a wall blocks the way")
		case state.Pit:
			return fmt.Errorf("an open pit blocks the way")
		}
		if other := s.ActorAt(to); other != nil {
			return fmt.Errorf("%s is in the way", other.Subject())
		}
		return nil

	case Attack, Shoot:
		target := s.Actor(a.Target)
		if target == nil || !target.Alive() {
			return fmt.Errorf("there is no one there to %s", a.Kind)
		}
		if target.ID == actor.ID {
			return fmt.Errorf("%s cannot %s yourself", actor.Subject(), a.Kind)
		}
		atk := combat.Attack{Attacker: actor, Defender: target, Ranged: a.Kind == Shoot}
		if atk.Ranged {
			if name, _, reach := combat.Weapon(actor); reach == 0 {
				return fmt.Errorf("%s cannot shoot with %s", actor.Subject(), name)
			}
		}
		if !combat.Band(atk).Reachable() {
			return fmt.Errorf("%s is out of reach", target.Subject())
		}
		return nil

	case Take:
		at, ok := s.FindItem(a.Item)
		if !ok || !withinReach(actor.Pos, at) {
			return fmt.Errorf("there is nothing like that within reach")
		}
		it := itemAt(s, at, a.Item)
		if it.Mass() > MaxLift {
			return fmt.Errorf("the %s is too heavy to lift", it.DisplayName())
		}
		return actor.Wield.CanWield(it.TwoHanded)

	case Drop:
		if a.Item == "" {
			if actor.Wield.ActiveItem() == nil {
				return fmt.Errorf("%s have nothing in your %s", actor.Subject(), actor.Wield.Active)
			}
			return nil
		}
		if held(actor, a.Item) == nil {
			return fmt.Errorf("%s are not holding that", actor.Subject())
		}
		return nil

	case Swap:
		if actor.Wield.Empty() {
			return fmt.Errorf("both hands are empty")
		}
		return nil

	case Wear:
		it := held(actor, a.Item)
		if it == nil {
			return fmt.Errorf("%s need to hold it first", actor.Subject())
		}
		if it.Garment == nil {
			return fmt.Errorf("the %s is not something to wear", it.DisplayName())
		}
		return nil

	case Dig:
		if !actor.Wield.HasQuality(items.Dig) {
			return fmt.Errorf("%s have nothing to dig with", actor.Subject())
		}
		if s.TileAt(actor.Pos) == state.Pit {
			return fmt.Errorf("there is already a pit here")
		}
		return nil
	}
	return fmt.Errorf("unknown action %d", a.Kind)
}

// OnStart returns the effects of beginning the action.
func OnStart(a Action, s *state.State) []types.Effect {
	actor := s.Actor(a.Actor)
	switch a.Kind {
	case Dig:
		return []types.Effect{say(actor.Sentence("start", "starts", "digging"))}
	}
	return nil
}

// OnStep returns the effects of one intermediate step. step counts from 1.
func OnStep(a Action, s *state.State, step int) []types.Effect {
	actor := s.Actor(a.Actor)
	switch a.Kind {
	case Dig:
		if step < Steps(a) {
			return []types.Effect{say(actor.Sentence("keep", "keeps", "digging"))}
		}
	}
	return nil
}

// OnFinish returns the effects that complete the action. Random draws
// for combat come from src.
func OnFinish(a Action, s *state.State, src dice.Source) []types.Effect {
	actor := s.Actor(a.Actor)
	switch a.Kind {
	case Wait:
		if actor.Player {
			return []types.Effect{say("Time passes.")}
		}
		return nil

	case Walk:
		to := actor.Pos.Add(a.Dir)
		return []types.Effect{
			say(actor.Sentence("walk", "walks", state.DirectionName(a.Dir))),
			{Type: "move_actor", Params: map[string]any{"actor": actor.ID, "to": to}},
		}

	case Attack, Shoot:
		target := s.Actor(a.Target)
		out, err := combat.Resolve(combat.Attack{Attacker: actor, Defender: target, Ranged: a.Kind == Shoot}, src)
		if err != nil {
			return []types.Effect{say(state.Capitalize(err.Error()) + ".")}
		}
		effs := make([]types.Effect, 0, len(out.Lines)+1)
		for _, line := range out.Lines {
			effs = append(effs, say(line))
		}
		if out.Hit {
			effs = append(effs, types.Effect{Type: "hit", Params: map[string]any{
				"actor":    actor.ID,
				"target":   target.ID,
				"damage":   out.Damage,
				"location": out.Location,
			}})
		}
		return effs

	case Take:
		at, _ := s.FindItem(a.Item)
		it := itemAt(s, at, a.Item)
		return []types.Effect{
			say(actor.Sentence("take", "takes", "the "+it.DisplayName())),
			{Type: "pick_up", Params: map[string]any{"actor": actor.ID, "item": a.Item, "from": at}},
		}

	case Drop:
		it := actor.Wield.ActiveItem()
		if a.Item != "" {
			it = held(actor, a.Item)
		}
		return []types.Effect{
			say(actor.Sentence("drop", "drops", "the "+it.DisplayName())),
			{Type: "drop", Params: map[string]any{"actor": actor.ID, "item": it.ID}},
		}

	case Swap:
		return []types.Effect{
			say(actor.Sentence("swap", "swaps", "the contents of both hands")),
			{Type: "swap_hands", Params: map[string]any{"actor": actor.ID}},
		}

	case Switch:
		return []types.Effect{
			say(actor.Sentence("now use", "now uses", "the "+actor.Wield.Active.Other().String())),
			{Type: "switch_hand", Params: map[string]any{"actor": actor.ID}},
		}

	case Wear:
		it := held(actor, a.Item)
		return []types.Effect{
			say(actor.Sentence("put on", "puts on", "the "+it.DisplayName())),
			{Type: "wear", Params: map[string]any{"actor": actor.ID, "item": it.ID}},
		}

	case Dig:
		return []types.Effect{{Type: "dig", Params: map[string]any{"actor": actor.ID}}}
	}
	return nil
}

func say(text string) types.Effect {
	return types.Effect{Type: "say", Params: map[string]any{"text": text}}
}

// withinReach reports whether two tiles are the same or adjacent.
func withinReach(a, b state.Position) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx >= -1 && dx <= 1 && dy >= -1 && dy <= 1
}

func itemAt(s *state.State, at state.Position, id string) items.Item {
	for _, it := range s.ItemsAt(at) {
		if it.ID == id {
			return it
		}
	}
	return items.Item{}
}

func held(a *state.Actor, id string) *items.Item {
	for _, h := range []items.Hand{items.LeftHand, items.RightHand} {
		if it := a.Wield.In(h); it != nil && it.ID == id {
			return it
		}
	}
	return nil
}
