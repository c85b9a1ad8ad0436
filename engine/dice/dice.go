// Package dice implements tabletop dice: single dice, stacks of dice rolled
// together, and skill check results. Faces are drawn through an rpg-toolkit
// Roller fed by a caller-supplied Source, so outcomes are reproducible under
// a fixed seed.
package dice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	toolkit "github.com/KirkDiggler/rpg-toolkit/dice"
)

// MaxPerTerm caps the dice count of a single notation term.
const MaxPerTerm = 1000

// Source is the random source dice draw from. Intn returns a value in [0, n).
// *math/rand.Rand and the engine RNG both satisfy it.
type Source interface {
	Intn(n int) int
}

// Dice is a single die with a face count.
type Dice struct {
	Faces int `json:"f"`
}

// Common dice.
var (
	D4  = Dice{Faces: 4}
	D6  = Dice{Faces: 6}
	D8  = Dice{Faces: 8}
	D10 = Dice{Faces: 10}
	D12 = Dice{Faces: 12}
	D20 = Dice{Faces: 20}
)

// Roll returns a uniform value in [1, Faces].
func (d Dice) Roll(src Source) int {
	return d.RollWith(Roller(src))
}

// RollWith draws one face from r.
func (d Dice) RollWith(r toolkit.Roller) int {
	if d.Faces < 1 {
		panic(fmt.Sprintf("dice: cannot roll a die with %d faces", d.Faces))
	}
	v, err := r.Roll(d.Faces)
	if err != nil {
		panic(fmt.Sprintf("dice: rolling %s: %v", d, err))
	}
	return v
}

// RollExplosive rolls the die and keeps adding rolls while the last one
// came up on the maximum face. The result has no fixed upper bound.
func (d Dice) RollExplosive(src Source) int {
	return d.RollExplosiveWith(Roller(src))
}

// RollExplosiveWith is RollExplosive drawing from r.
func (d Dice) RollExplosiveWith(r toolkit.Roller) int {
	if d.Faces <= 1 {
		panic(fmt.Sprintf("dice: a d%d never stops exploding", d.Faces))
	}
	total := 0
	for {
		v := d.RollWith(r)
		total += v
		if v != d.Faces {
			return total
		}
	}
}

func (d Dice) String() string {
	return "d" + strconv.Itoa(d.Faces)
}

// Stack is an ordered collection of dice rolled together.
// The zero value is an empty stack.
type Stack struct {
	Dice []Dice `json:"d,omitempty"`
}

// NewStack returns a stack holding the given dice in order.
func NewStack(dice ...Dice) Stack {
	s := Stack{}
	s.Dice = append(s.Dice, dice...)
	return s
}

// New2d6 returns the classic two six-sided dice.
func New2d6() Stack {
	return NewStack(D6, D6)
}

// Push adds a die on top of the stack.
func (s *Stack) Push(d Dice) {
	s.Dice = append(s.Dice, d)
}

// Pop removes and returns the most recently pushed die.
// Returns false if the stack is empty.
func (s *Stack) Pop() (Dice, bool) {
	if len(s.Dice) == 0 {
		return Dice{}, false
	}
	last := s.Dice[len(s.Dice)-1]
	s.Dice = s.Dice[:len(s.Dice)-1]
	return last, true
}

// Len returns the number of dice in the stack.
func (s Stack) Len() int {
	return len(s.Dice)
}

// RollTotal sums one standard roll per die. An empty stack totals 0.
func (s Stack) RollTotal(src Source) int {
	return s.RollTotalWith(Roller(src))
}

// RollTotalWith rolls each run of same-sized dice as one toolkit roll, in
// stack order.
func (s Stack) RollTotalWith(r toolkit.Roller) int {
	total := 0
	for i := 0; i < len(s.Dice); {
		d := s.Dice[i]
		if d.Faces < 1 {
			panic(fmt.Sprintf("dice: cannot roll a die with %d faces", d.Faces))
		}
		n := 1
		for i+n < len(s.Dice) && s.Dice[i+n] == d {
			n++
		}
		roll, err := toolkit.NewRollWithRoller(n, d.Faces, r)
		if err != nil {
			panic(fmt.Sprintf("dice: rolling %d%s: %v", n, d, err))
		}
		v := roll.GetValue()
		if err := roll.Err(); err != nil {
			panic(fmt.Sprintf("dice: rolling %d%s: %v", n, d, err))
		}
		total += v
		i += n
	}
	return total
}

// RollTotalExplosive sums one exploding roll per die.
func (s Stack) RollTotalExplosive(src Source) int {
	return s.RollTotalExplosiveWith(Roller(src))
}

// RollTotalExplosiveWith is RollTotalExplosive drawing from r.
func (s Stack) RollTotalExplosiveWith(r toolkit.Roller) int {
	total := 0
	for _, d := range s.Dice {
		total += d.RollExplosiveWith(r)
	}
	return total
}

// Damage is the exploding total used for weapon and attack damage.
func (s Stack) Damage(src Source) int {
	return s.RollTotalExplosive(src)
}

// String renders the stack in dice notation, e.g. "2d6+1d4".
// Groups keep the order in which each face count first appears.
func (s Stack) String() string {
	if len(s.Dice) == 0 {
		return "0"
	}
	var order []int
	counts := map[int]int{}
	for _, d := range s.Dice {
		if counts[d.Faces] == 0 {
			order = append(order, d.Faces)
		}
		counts[d.Faces]++
	}
	terms := make([]string, 0, len(order))
	for _, faces := range order {
		terms = append(terms, fmt.Sprintf("%dd%d", counts[faces], faces))
	}
	return strings.Join(terms, "+")
}

var termRegex = regexp.MustCompile(`^(\d*)d(\d+)$`)

// Parse reads dice notation such as "2d6", "d8" or "1d8+1d4".
func Parse(notation string) (Stack, error) {
	notation = strings.ToLower(strings.ReplaceAll(notation, " ", ""))
	if notation == "" {
		return Stack{}, fmt.Errorf("empty dice notation")
	}

	var s Stack
	for _, term := range strings.Split(notation, "+") {
		m := termRegex.FindStringSubmatch(term)
		if m == nil {
			return Stack{}, fmt.Errorf("invalid dice term %q in %q (expected XdY)", term, notation)
		}
		count := 1
		if m[1] != "" {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return Stack{}, fmt.Errorf("invalid dice count in %q: %w", term, err)
			}
			count = n
		}
		faces, err := strconv.Atoi(m[2])
		if err != nil {
			return Stack{}, fmt.Errorf("invalid die size in %q: %w", term, err)
		}
		if count <= 0 || faces <= 0 {
			return Stack{}, fmt.Errorf("dice count and size must be positive: %q", term)
		}
		if count > MaxPerTerm {
			return Stack{}, fmt.Errorf("too many dice in %q: at most %d per term", term, MaxPerTerm)
		}
		for i := 0; i < count; i++ {
			s.Push(Dice{Faces: faces})
		}
	}
	return s, nil
}

// MustParse is like Parse but panics on malformed notation.
// Intended for notation literals in code.
func MustParse(notation string) Stack {
	s, err := Parse(notation)
	if err != nil {
		panic(err)
	}
	return s
}
