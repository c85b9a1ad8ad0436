// Package effects implements centralized state mutation via the Apply function.
// Every effect type is one atomic operation. No logic in effects.
package effects

import (
	"fmt"
	"strings"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// Context carries the resolved intent context needed for template
// interpolation, plus the random source for effects that draw.
type Context struct {
	Verb     string
	ObjectID string
	TargetID string
	Actor    string // ID of the acting actor
	Rand     dice.Source
}

// Apply applies a list of effects to the game state, mutating it.
// Returns events emitted and output text collected.
func Apply(s *state.State, defs *state.Defs, effects []types.Effect, ctx Context) ([]types.Event, []string) {
	var events []types.Event
	var output []string

	emit := func(typ string, data map[string]any) {
		events = append(events, types.Event{Type: typ, Data: data})
	}

	for _, eff := range effects {
		switch eff.Type {
		case "say":
			text, _ := eff.Params["text"].(string)
			output = append(output, interpolate(text, s, defs, ctx))

		case "move_actor":
			a := actorParam(s, eff, "actor", ctx)
			to, ok := toPosition(eff.Params["to"])
			if a == nil || !ok {
				continue
			}
			from := a.Pos
			a.Pos = to
			emit("actor_moved", map[string]any{"actor": a.ID, "from": from, "to": to})

		case "pick_up":
			a := actorParam(s, eff, "actor", ctx)
			id := resolveTemplate(str(eff.Params["item"]), ctx)
			from, ok := toPosition(eff.Params["from"])
			if !ok {
				from, ok = s.FindItem(id)
			}
			if a == nil || !ok {
				continue
			}
			it, ok := s.TakeItem(from, id)
			if !ok {
				continue
			}
			if err := a.Wield.Wield(it); err != nil {
				s.PutItem(from, it)
				output = append(output, state.Capitalize(err.Error())+".")
				continue
			}
			emit("item_taken", map[string]any{"actor": a.ID, "item": id})

		case "drop":
			a := actorParam(s, eff, "actor", ctx)
			if a == nil {
				continue
			}
			id := resolveTemplate(str(eff.Params["item"]), ctx)
			it, ok := takeHeld(a, id)
			if !ok {
				continue
			}
			s.PutItem(a.Pos, it)
			emit("item_dropped", map[string]any{"actor": a.ID, "item": it.ID})

		case "swap_hands":
			if a := actorParam(s, eff, "actor", ctx); a != nil {
				a.Wield.SwapItems()
			}

		case "switch_hand":
			if a := actorParam(s, eff, "actor", ctx); a != nil {
				a.Wield.SwitchActive()
			}

		case "wear":
			a := actorParam(s, eff, "actor", ctx)
			if a == nil {
				continue
			}
			id := resolveTemplate(str(eff.Params["item"]), ctx)
			if it := heldItem(a, id); it == nil || it.Garment == nil {
				continue
			}
			it, _ := takeHeld(a, id)
			a.Body.Dress(*it.Garment)
			emit("item_worn", map[string]any{"actor": a.ID, "item": it.ID})

		case "hit":
			target := actorParam(s, eff, "target", ctx)
			if target == nil || !target.Alive() {
				continue
			}
			evs, lines := hit(s, target, eff, ctx)
			events = append(events, evs...)
			output = append(output, lines...)

		case "dig":
			a := actorParam(s, eff, "actor", ctx)
			if a == nil {
				continue
			}
			evs, lines := dig(s, a)
			events = append(events, evs...)
			output = append(output, lines...)

		case "set_flag":
			flag, _ := eff.Params["flag"].(string)
			value, _ := eff.Params["value"].(bool)
			s.Flags[flag] = value
			emit("flag_changed", map[string]any{"flag": flag, "value": value})

		case "inc_counter":
			counter, _ := eff.Params["counter"].(string)
			s.Counters[counter] += toInt(eff.Params["amount"])

		case "set_counter":
			counter, _ := eff.Params["counter"].(string)
			s.Counters[counter] = toInt(eff.Params["value"])

		case "emit_event":
			event, _ := eff.Params["event"].(string)
			emit(event, map[string]any{})

		case "start_dialogue":
			npc := resolveTemplate(str(eff.Params["npc"]), ctx)
			emit("dialogue_started", map[string]any{"npc": npc})

		case "stop":
			return events, output

		default:
			// Unknown effect type: ignore silently.
		}
	}

	return events, output
}

// hit wounds the target at the given location, or at a randomly chosen one
// when the effect names none.
func hit(s *state.State, target *state.Actor, eff types.Effect, ctx Context) ([]types.Event, []string) {
	if ctx.Rand == nil {
		return nil, nil
	}
	damage := toInt(eff.Params["damage"])
	loc, ok := eff.Params["location"].(anatomy.Location)
	if !ok {
		if loc, ok = anatomy.ChooseTarget(&target.Body, ctx.Rand); !ok {
			return nil, nil
		}
	}
	part, ok := target.Body.At(loc)
	if !ok {
		return nil, nil
	}
	if damage <= 0 {
		return nil, []string{fmt.Sprintf("The blow glances off %s %s.", target.Possessive(), part.Name)}
	}

	w, ok := target.Body.Wound(loc, damage, ctx.Rand)
	if !ok {
		return nil, nil
	}
	owner := state.Capitalize(target.Possessive())
	lines := []string{fmt.Sprintf("%s %s is %s.", owner, w.Part, woundVerb(w.Severity))}
	if w.Organ != "" {
		lines = append(lines, fmt.Sprintf("%s %s is destroyed.", owner, w.Organ))
	}
	events := []types.Event{{Type: "actor_wounded", Data: map[string]any{
		"actor":    target.ID,
		"part":     w.Part,
		"severity": w.Severity.String(),
		"damage":   damage,
	}}}

	if w.Fatal || !target.Body.Alive() {
		lines = append(lines, target.Sentence("die", "dies", ""))
		events = append(events, kill(s, target))
	}
	return events, lines
}

func woundVerb(sev anatomy.Severity) string {
	switch sev {
	case anatomy.Graze:
		return "grazed"
	case anatomy.Crippled:
		return "crippled"
	default:
		return "mangled"
	}
}

// kill turns an actor into a corpse on its tile. Whatever it held falls
// beside the corpse. Monsters leave play; the player stays, marked dead,
// and the game is over.
func kill(s *state.State, a *state.Actor) types.Event {
	for _, h := range []items.Hand{items.LeftHand, items.RightHand} {
		if it := a.Wield.In(h); it != nil {
			s.PutItem(a.Pos, *it)
		}
	}
	a.Wield = items.Wield{Active: a.Wield.Active}

	corpse := items.NewCorpse(s.NewID("corpse"), a.Body)
	a.Body = anatomy.Body{}
	s.PutItem(a.Pos, corpse)

	if a.Player {
		a.Dead = true
		s.Flags["game_over"] = true
	} else {
		delete(s.Actors, a.ID)
		s.Order = removeFromSlice(s.Order, a.ID)
	}
	return types.Event{Type: "actor_died", Data: map[string]any{"actor": a.ID, "corpse": corpse.ID}}
}

// dig opens the ground under the actor. A grave gives up its stone and
// its occupant; bare earth leaves a pit.
func dig(s *state.State, a *state.Actor) ([]types.Event, []string) {
	at := a.Pos
	s.Terrain[at] = state.Pit

	g, ok := s.Grave(at)
	if !ok {
		return []types.Event{{Type: "pit_dug", Data: map[string]any{"actor": a.ID, "at": at}}},
			[]string{a.Sentence("dig", "digs", "a pit")}
	}
	stone, corpse := g.Exhume(s.Year, s.NewID("gravestone"), s.NewID("corpse"))
	s.PutItem(at, stone)
	s.PutItem(at, corpse)
	delete(s.Graves, at)

	ev := types.Event{Type: "grave_dug", Data: map[string]any{
		"actor": a.ID, "at": at, "corpse": corpse.ID, "stone": stone.ID,
	}}
	lines := []string{
		a.Sentence("unearth", "unearths", "a "+corpse.DisplayName()),
		"The gravestone reads: " + g.Read(),
	}
	return []types.Event{ev}, lines
}

// interpolate replaces template variables in text.
func interpolate(text string, s *state.State, defs *state.Defs, ctx Context) string {
	if !strings.Contains(text, "{") {
		return text
	}
	playerName := ""
	if p := s.Player(); p != nil {
		playerName = p.Name
	}
	r := strings.NewReplacer(
		"{verb}", ctx.Verb,
		"{object.name}", NameOf(s, defs, ctx.ObjectID),
		"{target.name}", NameOf(s, defs, ctx.TargetID),
		"{actor.name}", NameOf(s, defs, ctx.Actor),
		"{player.name}", playerName,
		"{object}", ctx.ObjectID,
		"{target}", ctx.TargetID,
		"{turn}", fmt.Sprint(s.Turn),
		"{year}", fmt.Sprint(s.Year),
	)
	return r.Replace(text)
}

// NameOf returns the display name of an actor or item, looking at the
// living world first and the definitions second.
func NameOf(s *state.State, defs *state.Defs, id string) string {
	if id == "" {
		return ""
	}
	if a := s.Actor(id); a != nil {
		return a.Name
	}
	for _, a := range s.Actors {
		for _, it := range a.Wield.Items() {
			if it.ID == id {
				return it.DisplayName()
			}
		}
	}
	if at, ok := s.FindItem(id); ok {
		for _, it := range s.ItemsAt(at) {
			if it.ID == id {
				return it.DisplayName()
			}
		}
	}
	if defs != nil {
		if d, ok := defs.Items[id]; ok {
			return d.Item.DisplayName()
		}
		if d, ok := defs.Actors[id]; ok {
			return d.Name
		}
	}
	return id
}

// resolveTemplate handles {object}, {target} and {actor} in effect params
// like Drop("{object}").
func resolveTemplate(s string, ctx Context) string {
	s = strings.ReplaceAll(s, "{object}", ctx.ObjectID)
	s = strings.ReplaceAll(s, "{target}", ctx.TargetID)
	s = strings.ReplaceAll(s, "{actor}", ctx.Actor)
	return s
}

// actorParam looks up the actor named by key, defaulting to the acting
// actor for "actor" and to the intent's target for "target".
func actorParam(s *state.State, eff types.Effect, key string, ctx Context) *state.Actor {
	id := resolveTemplate(str(eff.Params[key]), ctx)
	if id == "" {
		switch key {
		case "actor":
			id = ctx.Actor
		case "target":
			id = ctx.TargetID
		}
	}
	return s.Actor(id)
}

// heldItem finds the item takeHeld would take, without taking it.
func heldItem(a *state.Actor, id string) *items.Item {
	if it := a.Wield.ActiveItem(); it != nil && (id == "" || it.ID == id) {
		return it
	}
	if it := a.Wield.OffItem(); it != nil && id != "" && it.ID == id {
		return it
	}
	return nil
}

func takeHeld(a *state.Actor, id string) (items.Item, bool) {
	if id == "" {
		return a.Wield.TakeFromActiveHand()
	}
	if it := a.Wield.ActiveItem(); it != nil && it.ID == id {
		return a.Wield.TakeFromActiveHand()
	}
	if it := a.Wield.OffItem(); it != nil && it.ID == id {
		return a.Wield.TakeFromOffHand()
	}
	return items.Item{}, false
}

// toPosition accepts a Position value or a Lua-style {x=, y=} table.
func toPosition(v any) (state.Position, bool) {
	switch p := v.(type) {
	case state.Position:
		return p, true
	case *state.Position:
		if p == nil {
			return state.Position{}, false
		}
		return *p, true
	case map[string]any:
		x, okX := p["x"]
		y, okY := p["y"]
		if !okX || !okY {
			return state.Position{}, false
		}
		return state.Position{X: toInt(x), Y: toInt(y)}, true
	default:
		return state.Position{}, false
	}
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func removeFromSlice(slice []string, item string) []string {
	for i, v := range slice {
		if v == item {
			return append(slice[:i], slice[i+1:]...)
		}
	}
	return slice
}

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
