package anatomy

import (
	"fmt"
	"sort"
)

// Offset is a small spatial key locating a root part within a body.
// The primary torso sits at (0,0).
type Offset struct {
	X, Y int8
}

// RootOffset is where the primary root part lives.
var RootOffset = Offset{}

// MarshalText encodes the offset as "x,y" so it can key a JSON object.
func (o Offset) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d,%d", o.X, o.Y)), nil
}

// UnmarshalText decodes an "x,y" offset.
func (o *Offset) UnmarshalText(b []byte) error {
	var x, y int8
	if _, err := fmt.Sscanf(string(b), "%d,%d", &x, &y); err != nil {
		return fmt.Errorf("invalid body offset %q: %w", b, err)
	}
	o.X, o.Y = x, y
	return nil
}

// Worn is a garment layered over a body slot.
type Worn struct {
	Name  string   `json:"n"`
	Slot  BodySlot `json:"s"`
	Armor int      `json:"a,omitempty"`
	Mass  float64  `json:"m,omitempty"`
}

// Body is a set of root parts keyed by offset plus the garments worn over
// them. Bodies are built whole by a species builder and never grow new
// parts; damage and decay mutate existing nodes in place.
type Body struct {
	Parts map[Offset]BodyPart `json:"p"`
	Wear  []Worn              `json:"w,omitempty"`
}

// NewBody creates a body with a single root part at (0,0).
func NewBody(root BodyPart) Body {
	return Body{Parts: map[Offset]BodyPart{RootOffset: root}}
}

// Root returns a copy of the primary root part, if present.
func (b *Body) Root() (BodyPart, bool) {
	return b.Part(RootOffset)
}

// Part returns a copy of the root part stored at an offset.
// Use Update to mutate it.
func (b *Body) Part(at Offset) (BodyPart, bool) {
	p, ok := b.Parts[at]
	return p, ok
}

// Update applies fn to the root part at offset and stores the result.
func (b *Body) Update(at Offset, fn func(*BodyPart)) bool {
	p, ok := b.Parts[at]
	if !ok {
		return false
	}
	fn(&p)
	b.Parts[at] = p
	return true
}

// Offsets returns the root offsets in a stable order.
func (b *Body) Offsets() []Offset {
	keys := make([]Offset, 0, len(b.Parts))
	for k := range b.Parts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})
	return keys
}

// Walk visits every part of every root in offset order.
func (b *Body) Walk(fn func(Offset, *BodyPart) bool) {
	for _, at := range b.Offsets() {
		stop := false
		b.Update(at, func(root *BodyPart) {
			stop = !root.Walk(func(p *BodyPart) bool { return fn(at, p) })
		})
		if stop {
			return
		}
	}
}

// Alive reports whether the body still lives: a root exists, is alive,
// and no vital part anywhere has died.
func (b *Body) Alive() bool {
	root, ok := b.Root()
	if !ok || !root.Data.Alive {
		return false
	}
	alive := true
	b.Walk(func(_ Offset, p *BodyPart) bool {
		if p.Type.Role.Vital() && !p.Data.Alive {
			alive = false
			return false
		}
		return true
	})
	return alive
}

// Kill marks every part dead.
func (b *Body) Kill() {
	for _, at := range b.Offsets() {
		b.Update(at, func(p *BodyPart) { p.setAlive(false) })
	}
}

// Decay advances every part one freshness stage.
func (b *Body) Decay() {
	for _, at := range b.Offsets() {
		b.Update(at, func(p *BodyPart) { p.decay() })
	}
}

// SetFreshness sets every part to the same stage.
func (b *Body) SetFreshness(f Freshness) {
	b.Walk(func(_ Offset, p *BodyPart) bool {
		p.Data.Freshness = f
		return true
	})
}

// Mass sums the placeholder part masses and worn garments.
func (b *Body) Mass() float64 {
	total := 0.0
	b.Walk(func(_ Offset, p *BodyPart) bool {
		total += p.Mass()
		return true
	})
	for _, w := range b.Wear {
		total += w.Mass
	}
	return total
}

// Dress layers a garment on top of whatever is already worn.
func (b *Body) Dress(w Worn) {
	b.Wear = append(b.Wear, w)
}

// Strip removes and returns every worn garment, outermost last.
func (b *Body) Strip() []Worn {
	worn := b.Wear
	b.Wear = nil
	return worn
}

// Naked reports whether nothing is worn.
func (b *Body) Naked() bool {
	return len(b.Wear) == 0
}

// Armor sums the armor of every garment layered over slot.
func (b *Body) Armor(slot BodySlot) int {
	total := 0
	for _, w := range b.Wear {
		if w.Slot == slot {
			total += w.Armor
		}
	}
	return total
}
