package anatomy

import "strings"

// Shape is a species body plan. Parts of different shapes may share a role
// but are distinct variants.
type Shape uint8

const (
	Humanoid Shape = iota
	Canine
)

func (s Shape) String() string {
	if s == Canine {
		return "canine"
	}
	return "humanoid"
}

// Role is the anatomical function of a part.
type Role uint8

const (
	Torso Role = iota
	Head
	Eye
	Ear
	Nose
	Mouth
	Maw
	Brain
	Heart
	Lung
	Stomach
	Liver
	Kidney
	Intestines
	Arm
	Hand
	Leg
	Foot
	Paw
	Tail
)

var roleNames = map[Role]string{
	Torso: "torso", Head: "head", Eye: "eye", Ear: "ear", Nose: "nose",
	Mouth: "mouth", Maw: "maw", Brain: "brain", Heart: "heart", Lung: "lung",
	Stomach: "stomach", Liver: "liver", Kidney: "kidney", Intestines: "intestines",
	Arm: "arm", Hand: "hand", Leg: "leg", Foot: "foot", Paw: "paw", Tail: "tail",
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "part"
}

// Vital reports whether losing the part kills the whole body.
func (r Role) Vital() bool {
	switch r {
	case Torso, Head, Brain, Heart:
		return true
	}
	return false
}

// Side distinguishes paired parts.
type Side uint8

const (
	Center Side = iota
	Left
	Right
)

// PartType identifies a part by body plan, role and placement.
type PartType struct {
	Shape Shape `json:"s"`
	Role  Role  `json:"r"`
	Side  Side  `json:"d,omitempty"`
	Hind  bool  `json:"h,omitempty"` // canine paws only
}

// Valid reports whether the role exists on the shape.
func (t PartType) Valid() bool {
	switch t.Role {
	case Paw, Maw:
		return t.Shape == Canine
	case Arm, Hand, Leg, Foot, Nose, Mouth:
		return t.Shape == Humanoid && !t.Hind
	}
	return !t.Hind
}

// Label is the default display label, e.g. "left hind paw".
func (t PartType) Label() string {
	var words []string
	switch t.Side {
	case Left:
		words = append(words, "left")
	case Right:
		words = append(words, "right")
	}
	if t.Role == Paw {
		if t.Hind {
			words = append(words, "hind")
		} else {
			words = append(words, "front")
		}
	}
	words = append(words, t.Role.String())
	return strings.Join(words, " ")
}

// partMass is the placeholder mass every part reports.
const partMass = 1.0

// BodyPart is a node in the anatomical tree. Outside holds attached
// external parts, Inside holds internal organs. Each part is owned by
// exactly one parent.
type BodyPart struct {
	Name    string     `json:"n"`
	Type    PartType   `json:"t"`
	Data    OrganData  `json:"d"`
	Outside []BodyPart `json:"o,omitempty"`
	Inside  []BodyPart `json:"i,omitempty"`
}

// NewPart creates a leaf part. An empty name falls back to the type label.
func NewPart(name string, typ PartType, data OrganData) BodyPart {
	if name == "" {
		name = typ.Label()
	}
	return BodyPart{Name: name, Type: typ, Data: data.clone()}
}

// WithOutside returns p with the given parts attached outside.
func (p BodyPart) WithOutside(parts ...BodyPart) BodyPart {
	p.Outside = append(append([]BodyPart(nil), p.Outside...), parts...)
	return p
}

// WithInside returns p with the given organs placed inside.
func (p BodyPart) WithInside(parts ...BodyPart) BodyPart {
	p.Inside = append(append([]BodyPart(nil), p.Inside...), parts...)
	return p
}

// DisplayName renders "<freshness> <age-name> <label>". Skeletal heads
// read as "<age-name> skull".
func (p BodyPart) DisplayName() string {
	ageName := AgeName(p.Data.Race, p.Data.Sex, p.Data.Age)
	if p.Type.Role == Head && p.Data.Freshness == Skeletal {
		return joinWords(ageName, "skull")
	}
	return joinWords(p.Data.Freshness.Adjective(), ageName, p.Name)
}

// Mass returns the placeholder mass of the part alone.
func (p BodyPart) Mass() float64 {
	return partMass
}

// Toughness is the damage the part absorbs before it is crippled.
func (p BodyPart) Toughness() int {
	t := p.Data.Size.toughness()
	switch p.Type.Role {
	case Torso:
		t += 3
	case Head:
		t++
	case Eye, Ear, Nose, Tail:
		t--
	}
	if t < 1 {
		t = 1
	}
	return t
}

// Walk visits p and every descendant, outside before inside, depth first.
// Returning false from fn stops the walk.
func (p *BodyPart) Walk(fn func(*BodyPart) bool) bool {
	if !fn(p) {
		return false
	}
	for i := range p.Outside {
		if !p.Outside[i].Walk(fn) {
			return false
		}
	}
	for i := range p.Inside {
		if !p.Inside[i].Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns how many direct children (outside and inside) have role.
func (p BodyPart) Count(role Role) int {
	n := 0
	for _, c := range p.Outside {
		if c.Type.Role == role {
			n++
		}
	}
	for _, c := range p.Inside {
		if c.Type.Role == role {
			n++
		}
	}
	return n
}

// Find returns the first direct child with role, outside before inside.
func (p *BodyPart) Find(role Role) *BodyPart {
	for i := range p.Outside {
		if p.Outside[i].Type.Role == role {
			return &p.Outside[i]
		}
	}
	for i := range p.Inside {
		if p.Inside[i].Type.Role == role {
			return &p.Inside[i]
		}
	}
	return nil
}

func (p *BodyPart) setAlive(alive bool) {
	p.Walk(func(bp *BodyPart) bool {
		bp.Data.Alive = alive
		return true
	})
}

func (p *BodyPart) decay() {
	p.Walk(func(bp *BodyPart) bool {
		bp.Data.Freshness = bp.Data.Freshness.Decay()
		return true
	})
}

func joinWords(words ...string) string {
	out := words[:0:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}
