package anatomy

import "github.com/nathoo/boneyard/engine/dice"

// Step is one hop down the part tree: an index into a parent's Outside
// or Inside list.
type Step struct {
	Inside bool
	Index  int
}

// Location addresses a single part: a root offset plus a path below it.
type Location struct {
	At   Offset
	Path []Step
}

// exposure weights how likely an exposed part is to be struck.
var exposure = map[Role]int{
	Torso: 30, Head: 10, Arm: 10, Leg: 12, Paw: 6, Hand: 4, Foot: 4,
	Tail: 3, Maw: 3, Ear: 2, Nose: 2, Mouth: 2, Eye: 1,
}

func (p *BodyPart) descend(path []Step) *BodyPart {
	cur := p
	for _, s := range path {
		list := cur.Outside
		if s.Inside {
			list = cur.Inside
		}
		if s.Index < 0 || s.Index >= len(list) {
			return nil
		}
		cur = &list[s.Index]
	}
	return cur
}

// At returns a copy of the part at loc.
func (b *Body) At(loc Location) (BodyPart, bool) {
	root, ok := b.Parts[loc.At]
	if !ok {
		return BodyPart{}, false
	}
	p := root.descend(loc.Path)
	if p == nil {
		return BodyPart{}, false
	}
	return *p, true
}

// ChooseTarget picks the part an incoming blow strikes. Only exposed parts
// (roots and their outside attachments, recursively) can be struck, each
// weighted by its role's exposure. Returns false for a body with no parts.
func ChooseTarget(b *Body, src dice.Source) (Location, bool) {
	var locs []Location
	var weights []int
	total := 0

	var collect func(at Offset, p *BodyPart, path []Step)
	collect = func(at Offset, p *BodyPart, path []Step) {
		w := exposure[p.Type.Role]
		if w > 0 {
			locs = append(locs, Location{At: at, Path: append([]Step(nil), path...)})
			weights = append(weights, w)
			total += w
		}
		for i := range p.Outside {
			collect(at, &p.Outside[i], append(path, Step{Index: i}))
		}
	}
	for _, at := range b.Offsets() {
		root := b.Parts[at]
		collect(at, &root, nil)
	}
	if total == 0 {
		return Location{}, false
	}

	roll := src.Intn(total)
	for i, w := range weights {
		if roll < w {
			return locs[i], true
		}
		roll -= w
	}
	return locs[len(locs)-1], true
}

// Severity grades a wound.
type Severity uint8

const (
	Graze Severity = iota
	Crippled
	Mangled
)

func (s Severity) String() string {
	switch s {
	case Graze:
		return "graze"
	case Crippled:
		return "crippled"
	default:
		return "mangled"
	}
}

// Wound describes what a blow did to a body.
type Wound struct {
	Part     string
	Severity Severity
	Organ    string // organ destroyed through the struck part, if any
	Fatal    bool   // the blow killed a living body
}

// Wound applies damage to the part at loc. Damage at the part's toughness
// kills it and everything attached to it; at twice the toughness one organ
// inside it is destroyed as well; at three times the tissue is mangled and
// decays a stage. Losing any vital part kills the whole body.
func (b *Body) Wound(loc Location, damage int, src dice.Source) (Wound, bool) {
	wasAlive := b.Alive()
	var w Wound
	found := b.Update(loc.At, func(root *BodyPart) {
		p := root.descend(loc.Path)
		if p == nil {
			return
		}
		w.Part = p.Name
		t := p.Toughness()
		if damage < t {
			w.Severity = Graze
			return
		}
		w.Severity = Crippled
		p.setAlive(false)
		if damage >= 2*t && len(p.Inside) > 0 {
			organ := &p.Inside[src.Intn(len(p.Inside))]
			organ.setAlive(false)
			w.Organ = organ.Name
		}
		if damage >= 3*t {
			w.Severity = Mangled
			p.decay()
		}
	})
	if !found || w.Part == "" {
		return Wound{}, false
	}
	if wasAlive && !b.Alive() {
		b.Kill()
		w.Fatal = true
	}
	return w, true
}
