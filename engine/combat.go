package engine

import (
	"github.com/nathoo/boneyard/engine/action"
	"github.com/nathoo/boneyard/engine/state"
)

// compass lists the wander directions in a fixed order so that a seed
// always picks the same one.
var compass = []string{
	"north", "northeast", "east", "southeast",
	"south", "southwest", "west", "northwest",
}

// EnemyTurn selects an action for a hostile actor from its weighted
// behaviour table. Actors without one always attack. A choice that is
// impossible right now degrades: shooting falls back to a melee attack,
// attacking to closing the distance, and anything else to waiting.
func EnemyTurn(s *state.State, a *state.Actor, rng *RNG) action.Action {
	choice := "attack"
	if len(a.Behavior) > 0 {
		weights := make([]int, len(a.Behavior))
		total := 0
		for i, b := range a.Behavior {
			weights[i] = b.Weight
			total += b.Weight
		}
		if total > 0 {
			choice = a.Behavior[rng.WeightedSelect(weights)].Action
		}
	}

	wait := action.Action{Kind: action.Wait, Actor: a.ID}
	p := s.Player()
	if p == nil || !p.Alive() {
		return wait
	}

	switch choice {
	case "shoot":
		act := action.Action{Kind: action.Shoot, Actor: a.ID, Target: p.ID}
		if action.IsPossible(act, s) == nil {
			return act
		}
		fallthrough
	case "attack":
		act := action.Action{Kind: action.Attack, Actor: a.ID, Target: p.ID}
		if action.IsPossible(act, s) == nil {
			return act
		}
		return approach(s, a, p.Pos)
	case "wander":
		dir := state.Directions[compass[rng.Intn(len(compass))]]
		act := action.Action{Kind: action.Walk, Actor: a.ID, Dir: dir}
		if action.IsPossible(act, s) == nil {
			return act
		}
	}
	return wait
}

// approach steps toward goal, sliding along one axis when the diagonal
// is blocked.
func approach(s *state.State, a *state.Actor, goal state.Position) action.Action {
	step := a.Pos.Toward(goal)
	for _, dir := range []state.Position{step, {X: step.X}, {Y: step.Y}} {
		if dir == (state.Position{}) {
			continue
		}
		act := action.Action{Kind: action.Walk, Actor: a.ID, Dir: dir}
		if action.IsPossible(act, s) == nil {
			return act
		}
	}
	return action.Action{Kind: action.Wait, Actor: a.ID}
}
