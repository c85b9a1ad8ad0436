package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dialogue"
	"github.com/nathoo/boneyard/engine/effects"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/resolve"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// observe answers the verbs that only look at the world.
func (e *Engine) observe(intent types.Intent, res resolve.Result) ([]types.Effect, []string) {
	switch intent.Verb {
	case "look":
		if res.ObjectID != "" {
			return nil, e.examine(res)
		}
		return nil, e.describeArena()
	case "examine":
		if res.ObjectID == "" {
			return nil, []string{"Examine what?"}
		}
		return nil, e.examine(res)
	case "read":
		return nil, e.read(res)
	case "status":
		return nil, e.status()
	case "inventory":
		return nil, e.inventory()
	case "talk":
		return e.talk(intent, res)
	}
	return nil, nil
}

// describeArena lists what the player can see from where they stand.
func (e *Engine) describeArena() []string {
	p := e.State.Player()
	if p == nil {
		return nil
	}
	var lines []string
	if title := e.Defs.Game.Title; title != "" {
		lines = append(lines, fmt.Sprintf("%s, in the year %d.", title, e.State.Year))
	}
	lines = append(lines, fmt.Sprintf("You stand at %s.", p.Pos))

	if _, ok := e.State.Grave(p.Pos); ok {
		lines = append(lines, "A grave lies beneath your feet.")
	}
	if names := itemNames(e.State.ItemsAt(p.Pos)); len(names) > 0 {
		lines = append(lines, "Here: "+strings.Join(names, ", ")+".")
	}

	var nearby []string
	for _, name := range compass {
		at := p.Pos.Add(state.Directions[name])
		if e.State.TileAt(at) == state.Pit {
			nearby = append(nearby, fmt.Sprintf("an open pit (%s)", name))
		}
		if _, ok := e.State.Grave(at); ok {
			nearby = append(nearby, fmt.Sprintf("a grave (%s)", name))
		}
		for _, n := range itemNames(e.State.ItemsAt(at)) {
			nearby = append(nearby, fmt.Sprintf("%s (%s)", n, name))
		}
	}
	if len(nearby) > 0 {
		lines = append(lines, "Nearby: "+strings.Join(nearby, ", ")+".")
	}

	for _, a := range e.State.Living() {
		if a.Player {
			continue
		}
		dir := state.DirectionName(p.Pos.Toward(a.Pos))
		lines = append(lines, fmt.Sprintf("%s is to the %s, at %s, %.0f paces away.",
			state.Capitalize(a.Subject()), dir, a.Pos, p.Pos.Distance(a.Pos)))
	}
	return lines
}

func itemNames(list []items.Item) []string {
	names := make([]string, 0, len(list))
	for _, it := range list {
		names = append(names, "a "+it.DisplayName())
	}
	return names
}

// examine describes an actor, item or grave in detail.
func (e *Engine) examine(res resolve.Result) []string {
	switch res.ObjectKind {
	case resolve.KindActor:
		return e.examineActor(e.State.Actor(res.ObjectID))
	case resolve.KindGrave:
		at, _ := resolve.ParseGraveID(res.ObjectID)
		g, ok := e.State.Grave(at)
		if !ok {
			return []string{"There is no grave there."}
		}
		return []string{"A grave, its earth long settled. The headstone reads: " + g.Read()}
	}

	it, ok := e.findItem(res.ObjectID)
	if !ok {
		return []string{"You see nothing special about it."}
	}
	var lines []string
	if def, ok := e.Defs.Items[it.ID]; ok && def.Description != "" {
		lines = append(lines, def.Description)
	} else {
		lines = append(lines, fmt.Sprintf("It is a %s.", it.DisplayName()))
	}
	if it.Body != nil {
		for _, w := range it.Body.Wear {
			lines = append(lines, fmt.Sprintf("It is wrapped in a %s.", w.Name))
		}
	}
	if text, ok := it.Read(); ok {
		lines = append(lines, "It reads: "+text)
	}
	if it.TwoHanded {
		lines = append(lines, "It needs both hands to carry.")
	}
	return lines
}

func (e *Engine) examineActor(a *state.Actor) []string {
	if a == nil {
		return []string{"You see nothing special about it."}
	}
	var lines []string
	if def, ok := e.Defs.Actors[a.ID]; ok && def.Description != "" {
		lines = append(lines, def.Description)
	} else {
		noun := anatomy.AgeName(a.Profile.Race, a.Profile.Sex, a.Profile.Age)
		lines = append(lines, fmt.Sprintf("%s %s a %s.", state.Capitalize(a.Subject()), a.Verb("are", "is"), noun))
	}
	for _, it := range a.Wield.Items() {
		lines = append(lines, a.Sentence("hold", "holds", "a "+it.DisplayName()))
	}
	for _, part := range Injuries(&a.Body) {
		lines = append(lines, fmt.Sprintf("%s %s is useless.", state.Capitalize(a.Possessive()), part))
	}
	return lines
}

// findItem looks for an item held by the player or lying on the ground.
func (e *Engine) findItem(id string) (items.Item, bool) {
	if p := e.State.Player(); p != nil {
		for _, it := range p.Wield.Items() {
			if it.ID == id {
				return it, true
			}
		}
	}
	if at, ok := e.State.FindItem(id); ok {
		for _, it := range e.State.ItemsAt(at) {
			if it.ID == id {
				return it, true
			}
		}
	}
	return items.Item{}, false
}

func (e *Engine) read(res resolve.Result) []string {
	if res.ObjectID == "" {
		return []string{"Read what?"}
	}
	if res.ObjectKind == resolve.KindGrave {
		at, _ := resolve.ParseGraveID(res.ObjectID)
		if g, ok := e.State.Grave(at); ok {
			return []string{g.Read()}
		}
	}
	if it, ok := e.findItem(res.ObjectID); ok {
		if text, ok := it.Read(); ok {
			return []string{text}
		}
	}
	return []string{fmt.Sprintf("There is nothing written on the %s.", effects.NameOf(e.State, e.Defs, res.ObjectID))}
}

// status summarises the player's body.
func (e *Engine) status() []string {
	p := e.State.Player()
	if p == nil {
		return nil
	}
	noun := anatomy.AgeName(p.Profile.Race, p.Profile.Sex, p.Profile.Age)
	lines := []string{fmt.Sprintf("%s, a %s of %d. Turn %d, year %d.", p.Name, noun, p.Profile.Age, e.State.Turn, e.State.Year)}

	hurt := Injuries(&p.Body)
	if len(hurt) == 0 {
		lines = append(lines, "You are unhurt.")
	}
	for _, part := range hurt {
		lines = append(lines, fmt.Sprintf("Your %s is useless.", part))
	}
	if len(p.Body.Wear) > 0 {
		var worn []string
		armor := 0
		for _, w := range p.Body.Wear {
			worn = append(worn, w.Name)
			armor += w.Armor
		}
		lines = append(lines, fmt.Sprintf("You wear: %s (armor %d).", strings.Join(worn, ", "), armor))
	}
	return lines
}

// Injuries lists the outermost dead parts of a body. Parts below a dead
// part are not listed again.
func Injuries(b *anatomy.Body) []string {
	var out []string
	var visit func(p anatomy.BodyPart)
	visit = func(p anatomy.BodyPart) {
		if !p.Data.Alive {
			out = append(out, p.Name)
			return
		}
		for _, c := range p.Outside {
			visit(c)
		}
		for _, c := range p.Inside {
			visit(c)
		}
	}
	for _, at := range b.Offsets() {
		if p, ok := b.Part(at); ok {
			visit(p)
		}
	}
	return out
}

func (e *Engine) inventory() []string {
	p := e.State.Player()
	if p == nil {
		return nil
	}
	if p.Wield.Empty() {
		return []string{"Your hands are empty."}
	}
	var lines []string
	for _, h := range []items.Hand{items.LeftHand, items.RightHand} {
		name := "nothing"
		if it := p.Wield.In(h); it != nil {
			name = "a " + it.DisplayName()
			if it.TwoHanded {
				name += " (both hands)"
			}
		}
		line := fmt.Sprintf("%s: %s", state.Capitalize(h.String()), name)
		if h == p.Wield.Active {
			line += " [active]"
		}
		lines = append(lines, line+".")
	}
	return lines
}

// talk plays the requested dialogue topic, or the first one available.
func (e *Engine) talk(intent types.Intent, res resolve.Result) ([]types.Effect, []string) {
	if res.ObjectID == "" {
		return nil, []string{"Talk to whom?"}
	}
	def, ok := e.Defs.Actors[res.ObjectID]
	if !ok || len(def.Topics) == 0 {
		return nil, []string{"You can't talk to that."}
	}

	name := state.Capitalize(e.State.Actor(res.ObjectID).Subject())
	available := dialogue.AvailableTopics(res.ObjectID, e.State, e.Defs)
	topic := intent.Target
	if topic == "" {
		if len(available) == 0 {
			return nil, []string{name + " has nothing to say right now."}
		}
		topic = available[0]
	}

	text, effs := dialogue.SelectTopic(res.ObjectID, topic, e.State, e.Defs)
	if text == "" {
		if len(available) > 0 {
			return nil, []string{fmt.Sprintf("%s has nothing to say about that. You could ask about: %s.",
				name, strings.Join(available, ", "))}
		}
		return nil, []string{name + " has nothing to say right now."}
	}
	return effs, []string{text}
}
