// Package engine provides the Step() orchestrator that wires together
// parsing, resolution, rules, actions, effects, and events into a single
// turn.
package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nathoo/boneyard/engine/action"
	"github.com/nathoo/boneyard/engine/effects"
	"github.com/nathoo/boneyard/engine/events"
	"github.com/nathoo/boneyard/engine/parser"
	"github.com/nathoo/boneyard/engine/resolve"
	"github.com/nathoo/boneyard/engine/rules"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// observationVerbs never take game time.
var observationVerbs = map[string]bool{
	"look":      true,
	"examine":   true,
	"read":      true,
	"status":    true,
	"inventory": true,
	"talk":      true,
}

// Engine holds the game definitions and mutable state.
type Engine struct {
	Defs  *state.Defs
	State *state.State
	RNG   *RNG
	Log   *slog.Logger
}

// New creates a new engine from definitions. Traits the content leaves
// open are sampled from the engine's RNG, so a seed fixes the whole world.
func New(defs *state.Defs, seed int64, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	rng := NewRNG(seed)
	s, err := state.NewState(defs, seed, rng)
	if err != nil {
		return nil, fmt.Errorf("build world: %w", err)
	}
	s.RNGPosition = rng.Position()
	return &Engine{Defs: defs, State: s, RNG: rng, Log: logger}, nil
}

// RestoreRNG re-creates the RNG from seed and advances to the saved position.
func (e *Engine) RestoreRNG(seed int64, position int64) {
	e.RNG = RestoreRNG(seed, position)
}

// Step processes one player command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 0. Game over blocks all gameplay commands.
	if e.State.GetFlag("game_over") {
		result.Output = append(result.Output, "Game over. Use /load to restore a save or /quit to exit.")
		return result
	}

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Log the command.
	e.State.CommandLog = append(e.State.CommandLog, input)
	e.Log.Debug("step", "input", input, "verb", intent.Verb, "object", intent.Object,
		"target", intent.Target, "turn", e.State.Turn)

	// 3. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// 4. Resolve names to IDs.
	res, resolveErr := e.resolveIntent(intent)

	// 5. Run rules pipeline.
	effs, matched := rules.Evaluate(e.State, e.Defs, intent, res)
	if matched {
		e.Log.Debug("rule matched", "verb", intent.Verb, "object", res.ObjectID)
		e.apply(effs, e.context(intent, res), &result)
		if !observationVerbs[intent.Verb] {
			e.tick(&result)
		}
		e.finish()
		return result
	}

	// 6. No rule matched and resolution failed.
	if resolveErr != nil {
		result.Output = append(result.Output, sentence(resolveErr))
		e.finish()
		return result
	}

	// 7. Observation verbs are answered without passing time.
	if observationVerbs[intent.Verb] {
		effs, out := e.observe(intent, res)
		result.Output = append(result.Output, out...)
		e.apply(effs, e.context(intent, res), &result)
		e.finish()
		return result
	}

	// 8. Build and check the player's action.
	act, err := e.buildAction(intent, res)
	if err == nil {
		err = action.IsPossible(act, e.State)
	}
	if err != nil {
		result.Output = append(result.Output, sentence(err))
		e.finish()
		return result
	}

	// 9. Run it, letting the world act between its steps.
	e.perform(act, e.context(intent, res), &result)
	e.finish()
	return result
}

// perform runs the player's action through its lifecycle. Each step is
// one turn: the other actors move after it.
func (e *Engine) perform(act action.Action, ctx effects.Context, result *types.Result) {
	e.apply(action.OnStart(act, e.State), ctx, result)

	steps := action.Steps(act)
	for step := 1; step <= steps; step++ {
		e.apply(action.OnStep(act, e.State, step), ctx, result)
		if step == steps {
			if err := action.IsPossible(act, e.State); err != nil {
				result.Output = append(result.Output, sentence(err))
			} else {
				e.apply(action.OnFinish(act, e.State, e.RNG), ctx, result)
			}
		}
		e.tick(result)
		if p := e.State.Player(); p == nil || !p.Alive() {
			return
		}
	}
}

// tick lets every other actor act once and advances the turn.
func (e *Engine) tick(result *types.Result) {
	for _, id := range append([]string(nil), e.State.Order...) {
		a := e.State.Actor(id)
		if a == nil || a.Player || !a.Hostile || !a.Alive() {
			continue
		}
		p := e.State.Player()
		if p == nil || !p.Alive() {
			break
		}
		act := EnemyTurn(e.State, a, e.RNG)
		e.Log.Debug("enemy turn", "actor", id, "action", act.Kind.String())
		ctx := effects.Context{Verb: act.Kind.String(), Actor: id, TargetID: act.Target, Rand: e.RNG}
		e.apply(action.OnStart(act, e.State), ctx, result)
		for step := 1; step <= action.Steps(act); step++ {
			e.apply(action.OnStep(act, e.State, step), ctx, result)
		}
		e.apply(action.OnFinish(act, e.State, e.RNG), ctx, result)
	}
	e.State.Turn++
}

// apply applies effects, then dispatches the events they raised. Effects
// produced by handlers are applied once; their events are not dispatched.
func (e *Engine) apply(effs []types.Effect, ctx effects.Context, result *types.Result) {
	if len(effs) == 0 {
		return
	}
	evts, output := effects.Apply(e.State, e.Defs, effs, ctx)
	result.Effects = append(result.Effects, effs...)
	result.Events = append(result.Events, evts...)
	result.Output = append(result.Output, output...)

	for _, ev := range evts {
		if ev.Type == "actor_died" {
			e.Log.Info("actor died", "actor", ev.Data["actor"], "corpse", ev.Data["corpse"], "turn", e.State.Turn)
		}
	}

	eventEffs := events.Dispatch(evts, e.State, e.Defs)
	if len(eventEffs) > 0 {
		evts2, output2 := effects.Apply(e.State, e.Defs, eventEffs, ctx)
		result.Effects = append(result.Effects, eventEffs...)
		result.Events = append(result.Events, evts2...)
		result.Output = append(result.Output, output2...)
	}
}

// finish records the RNG position for save/load.
func (e *Engine) finish() {
	e.State.RNGPosition = e.RNG.Position()
}

func (e *Engine) context(intent types.Intent, res resolve.Result) effects.Context {
	return effects.Context{
		Verb:     intent.Verb,
		ObjectID: res.ObjectID,
		TargetID: res.TargetID,
		Actor:    e.State.PlayerID,
		Rand:     e.RNG,
	}
}

// resolveIntent maps the intent's names to IDs. Directions and topics are
// not names and pass through untouched.
func (e *Engine) resolveIntent(intent types.Intent) (resolve.Result, error) {
	switch intent.Verb {
	case "go":
		return resolve.Result{}, nil
	case "talk":
		if intent.Object == "" {
			return resolve.Result{}, nil
		}
		return resolve.Resolve(e.State, types.Intent{Verb: intent.Verb, Object: intent.Object})
	default:
		return resolve.Resolve(e.State, intent)
	}
}

// buildAction turns a verb into the player's action.
func (e *Engine) buildAction(intent types.Intent, res resolve.Result) (action.Action, error) {
	act := action.Action{Actor: e.State.PlayerID}
	switch intent.Verb {
	case "wait":
		act.Kind = action.Wait

	case "go":
		if intent.Object == "" {
			return act, errors.New("go where?")
		}
		dir, ok := state.Directions[intent.Object]
		if !ok {
			return act, errors.New("you can't go that way")
		}
		act.Kind, act.Dir = action.Walk, dir

	case "attack", "shoot":
		act.Kind = action.Attack
		if intent.Verb == "shoot" {
			act.Kind = action.Shoot
		}
		id, kind := res.ObjectID, res.ObjectKind
		if id == "" {
			id, kind = res.TargetID, res.TargetKind
		}
		if id == "" {
			return act, fmt.Errorf("%s whom?", intent.Verb)
		}
		if kind != resolve.KindActor {
			return act, fmt.Errorf("you can't %s that", intent.Verb)
		}
		act.Target = id

	case "take":
		if res.ObjectID == "" {
			return act, errors.New("take what?")
		}
		switch res.ObjectKind {
		case resolve.KindActor:
			return act, errors.New("you can't take that")
		case resolve.KindGrave:
			return act, errors.New("you would have to dig it up first")
		}
		act.Kind, act.Item = action.Take, res.ObjectID

	case "drop":
		act.Kind, act.Item = action.Drop, res.ObjectID

	case "wear":
		if res.ObjectID == "" {
			return act, errors.New("wear what?")
		}
		act.Kind, act.Item = action.Wear, res.ObjectID

	case "swap":
		act.Kind = action.Swap

	case "switch":
		act.Kind = action.Switch

	case "dig":
		if res.ObjectKind == resolve.KindGrave {
			at, _ := resolve.ParseGraveID(res.ObjectID)
			if p := e.State.Player(); p == nil || p.Pos != at {
				return act, errors.New("you need to stand on the grave to dig it up")
			}
		} else if res.ObjectID != "" {
			return act, errors.New("you can't dig that")
		}
		act.Kind = action.Dig

	default:
		return act, errors.New("you can't do that")
	}
	return act, nil
}

// sentence renders an error as a player-facing sentence.
func sentence(err error) string {
	msg := state.Capitalize(err.Error())
	switch msg[len(msg)-1] {
	case '.', '?', '!', ')':
		return msg
	}
	return msg + "."
}
