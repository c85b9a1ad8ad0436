// Package combat resolves a single attack: distance band, to-hit roll,
// damage and hit location. It never mutates actors; the returned Outcome
// is applied by the effects stage.
package combat

import (
	"fmt"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/ranged"
	"github.com/nathoo/boneyard/engine/state"
)

// HitDie is rolled for every attack.
var HitDie = dice.D10

// Attack describes one attacker striking one defender.
type Attack struct {
	Attacker *state.Actor
	Defender *state.Actor
	Ranged   bool // shooting rather than striking
}

// Outcome is the result of resolving an attack.
type Outcome struct {
	Distance ranged.Distance
	Roll     dice.RollResult
	Hit      bool
	Damage   int
	Location anatomy.Location
	Part     string
	Lines    []string
}

// Weapon names what the attacker fights with and its reach. Unarmed
// attackers use their natural damage with melee reach.
func Weapon(a *state.Actor) (name string, damage dice.Stack, reach uint8) {
	if w := a.Weapon(); w != nil {
		return w.DisplayName(), w.Damage, w.Range
	}
	if a.Profile.Race == anatomy.Dog {
		return "teeth", a.Unarmed, 0
	}
	return "fists", a.Unarmed, 0
}

// Band classifies the distance between the two actors for the attacker's
// weapon.
func Band(atk Attack) ranged.Distance {
	_, _, reach := Weapon(atk.Attacker)
	if !atk.Ranged {
		reach = 0
	}
	return ranged.Define(atk.Attacker.Pos.Distance(atk.Defender.Pos), reach)
}

// Resolve rolls an attack. Unreachable targets are rejected with a
// player-facing error before any modifier is looked up.
func Resolve(atk Attack, src dice.Source) (Outcome, error) {
	var out Outcome
	name, damage, reach := Weapon(atk.Attacker)
	if atk.Ranged && reach == 0 {
		return out, fmt.Errorf("%s cannot shoot with %s", atk.Attacker.Subject(), name)
	}

	out.Distance = Band(atk)
	if !out.Distance.Reachable() {
		return out, fmt.Errorf("%s is out of reach", atk.Defender.Subject())
	}

	mod := atk.Attacker.Skill + out.Distance.Modifier() - atk.Defender.Dodge
	out.Roll = dice.Check(src, HitDie, mod)
	out.Lines = append(out.Lines, fmt.Sprintf("  Roll: %s%+d -> [%d]%+d = %d (%s)",
		HitDie, mod, out.Roll.Natural, mod, out.Roll.Total, out.Distance))

	if !out.Roll.Succeeded() {
		out.Lines = append([]string{atk.Attacker.Sentence("miss", "misses", atk.Defender.Subject())}, out.Lines...)
		return out, nil
	}

	loc, ok := anatomy.ChooseTarget(&atk.Defender.Body, src)
	if !ok {
		out.Lines = append([]string{fmt.Sprintf("%s finds nothing left to hit.",
			state.Capitalize(atk.Attacker.Subject()))}, out.Lines...)
		return out, nil
	}
	part, _ := atk.Defender.Body.At(loc)
	armor := atk.Defender.Body.Armor(anatomy.SlotFor(part.Type))

	rolled := damage.Damage(src)
	out.Damage = rolled + out.Roll.Successes() - 1 - armor
	if out.Damage < 0 {
		out.Damage = 0
	}
	out.Hit = true
	out.Location = loc
	out.Part = part.Name

	verb, verbs := "hit", "hits"
	if atk.Ranged {
		verb, verbs = "shoot", "shoots"
	}
	out.Lines = append([]string{atk.Attacker.Sentence(verb, verbs,
		fmt.Sprintf("%s in the %s with %s", atk.Defender.Subject(), part.Name, name))}, out.Lines...)
	out.Lines = append(out.Lines, fmt.Sprintf("  Damage: %s -> %d%+d - armor %d = %d",
		damage, rolled, out.Roll.Successes()-1, armor, out.Damage))
	return out, nil
}
