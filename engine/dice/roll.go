package dice

import toolkit "github.com/KirkDiggler/rpg-toolkit/dice"

// RollResult is the outcome of a skill or attribute check.
type RollResult struct {
	Natural int `json:"n"`
	Total   int `json:"t"`
}

// Check rolls die and applies modifier to produce a RollResult.
func Check(src Source, die Dice, modifier int) RollResult {
	return CheckWith(Roller(src), die, modifier)
}

// CheckWith is Check drawing from r.
func CheckWith(r toolkit.Roller, die Dice, modifier int) RollResult {
	natural := die.RollWith(r)
	return RollResult{Natural: natural, Total: natural + modifier}
}

// Successes returns the degrees of success: every full 4 points of a
// non-negative total counts once. Negative totals score zero.
func (r RollResult) Successes() int {
	if r.Total < 0 {
		return 0
	}
	return r.Total / 4
}

// Succeeded reports whether the check scored at least one success.
func (r RollResult) Succeeded() bool {
	return r.Successes() > 0
}
