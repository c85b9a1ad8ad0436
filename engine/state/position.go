package state

import (
	"fmt"

	"github.com/nathoo/boneyard/engine/ranged"
)

// Position is a tile on the arena grid. Y grows southwards.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MarshalText encodes the position as "x,y" so it can key a JSON object.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes an "x,y" position.
func (p *Position) UnmarshalText(b []byte) error {
	var x, y int
	if _, err := fmt.Sscanf(string(b), "%d,%d", &x, &y); err != nil {
		return fmt.Errorf("invalid position %q: %w", b, err)
	}
	p.X, p.Y = x, y
	return nil
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Add returns p shifted by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Distance is the straight-line distance between two tiles.
func (p Position) Distance(o Position) float64 {
	return ranged.Between(p.X, p.Y, o.X, o.Y)
}

// Toward returns the single-tile step from p that best closes on o.
func (p Position) Toward(o Position) Position {
	return Position{X: sign(o.X - p.X), Y: sign(o.Y - p.Y)}
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

// Directions maps compass words to single-tile steps.
var Directions = map[string]Position{
	"north":     {0, -1},
	"south":     {0, 1},
	"east":      {1, 0},
	"west":      {-1, 0},
	"northeast": {1, -1},
	"northwest": {-1, -1},
	"southeast": {1, 1},
	"southwest": {-1, 1},
}

// DirectionName returns the compass word for a step, or "" if d is not a
// single-tile step.
func DirectionName(d Position) string {
	for name, step := range Directions {
		if step == d {
			return name
		}
	}
	return ""
}

// Tile is the terrain of a single grid cell.
type Tile uint8

const (
	Floor Tile = iota
	Wall
	Pit
)

func (t Tile) String() string {
	switch t {
	case Wall:
		return "wall"
	case Pit:
		return "pit"
	default:
		return "floor"
	}
}
