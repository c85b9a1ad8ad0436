// Package ranged classifies the distance between two combatants into a
// discrete band relative to a weapon's effective range.
package ranged

import (
	"fmt"
	"math"
)

// Distance is a range band.
type Distance int

const (
	Melee Distance = iota
	Close
	Medium
	Far
	Unreachable
)

// Define rounds distance to the nearest whole tile and bands it against
// the weapon's effective range.
func Define(distance float64, weaponDistance uint8) Distance {
	d := math.Round(distance)
	w := float64(weaponDistance)
	switch {
	case d <= 1:
		return Melee
	case d <= w:
		return Close
	case d <= 2*w:
		return Medium
	case d <= 4*w:
		return Far
	default:
		return Unreachable
	}
}

// Between returns the straight-line distance between two tile coordinates.
func Between(x1, y1, x2, y2 int) float64 {
	return math.Hypot(float64(x2-x1), float64(y2-y1))
}

// Reachable reports whether a target in this band can be attacked at all.
func (d Distance) Reachable() bool {
	return d != Unreachable
}

// Modifier returns the to-hit modifier for the band. Callers must exclude
// Unreachable targets first; asking for its modifier panics.
func (d Distance) Modifier() int {
	switch d {
	case Close:
		return 0
	case Medium:
		return -1
	case Melee, Far:
		return -2
	default:
		panic(fmt.Sprintf("ranged: no modifier for %s distance", d))
	}
}

func (d Distance) String() string {
	switch d {
	case Melee:
		return "melee"
	case Close:
		return "close"
	case Medium:
		return "medium"
	case Far:
		return "far"
	case Unreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}
