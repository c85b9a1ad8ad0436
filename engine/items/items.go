// Package items defines everything an actor can hold, wear, drop or dig up.
package items

import (
	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
)

// Quality is a capability an item lends to actions.
type Quality uint8

const (
	Dig Quality = iota
	Cut
	Bludgeon
	Pierce
)

var qualityNames = map[Quality]string{Dig: "dig", Cut: "cut", Bludgeon: "bludgeon", Pierce: "pierce"}

func (q Quality) String() string {
	if n, ok := qualityNames[q]; ok {
		return n
	}
	return "unknown"
}

// ParseQuality maps a quality name to its value.
func ParseQuality(s string) (Quality, bool) {
	for q, n := range qualityNames {
		if n == s {
			return q, true
		}
	}
	return 0, false
}

// Kind is the broad category of an item.
type Kind uint8

const (
	Tool Kind = iota
	Weapon
	Garment
	Corpse
	Gravestone
)

var kindNames = map[Kind]string{
	Tool: "tool", Weapon: "weapon", Garment: "garment", Corpse: "corpse", Gravestone: "gravestone",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseKind maps a kind name to its value.
func ParseKind(s string) (Kind, bool) {
	for k, n := range kindNames {
		if n == s {
			return k, true
		}
	}
	return 0, false
}

// Fixed masses for items that do not derive one.
const (
	CorpseMass     = 60.0
	GravestoneMass = 200.0
	DefaultMass    = 2.0
)

// Item is a single physical object. Items are values: moving one between
// the ground, a hand or a corpse copies it and clears the source.
type Item struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"k"`
	Name      string        `json:"n,omitempty"`
	Qualities []Quality     `json:"q,omitempty"`
	TwoHanded bool          `json:"2,omitempty"`
	Damage    dice.Stack    `json:"d"`
	Range     uint8         `json:"r,omitempty"`
	Garment   *anatomy.Worn `json:"g,omitempty"`
	Body      *anatomy.Body `json:"b,omitempty"`
	Epitaph   *Epitaph      `json:"e,omitempty"`
}

// HasQuality reports whether the item lends q.
func (it Item) HasQuality(q Quality) bool {
	for _, have := range it.Qualities {
		if have == q {
			return true
		}
	}
	return false
}

// DisplayName is the name shown to the player. Corpses derive theirs from
// the body they hold.
func (it Item) DisplayName() string {
	if it.Kind == Corpse {
		return corpseName(it.Body)
	}
	return it.Name
}

// Mass returns the item's weight.
func (it Item) Mass() float64 {
	switch {
	case it.Kind == Corpse:
		return CorpseMass
	case it.Kind == Gravestone:
		return GravestoneMass
	case it.Garment != nil:
		return it.Garment.Mass
	default:
		return DefaultMass
	}
}

// Read returns the text written on the item, if any.
func (it Item) Read() (string, bool) {
	if it.Epitaph == nil {
		return "", false
	}
	return it.Epitaph.String(), true
}
