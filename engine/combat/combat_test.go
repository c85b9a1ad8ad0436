package combat

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/ranged"
	"github.com/nathoo/boneyard/engine/state"
)

// scripted replays fixed values, reduced modulo n.
type scripted struct {
	values []int
	calls  int
}

func (s *scripted) Intn(n int) int {
	v := s.values[s.calls%len(s.values)] % n
	s.calls++
	return v
}

func actor(name string, player bool, x, y int) *state.Actor {
	p := anatomy.Profile{Name: name, Race: anatomy.Human, Sex: anatomy.Male, Age: 30}
	return &state.Actor{
		ID: name, Name: name, Player: player,
		Pos:     state.Position{X: x, Y: y},
		Profile: p,
		Body:    anatomy.BuildBody(p),
		Unarmed: dice.NewStack(dice.D4),
	}
}

func bow() items.Item {
	return items.Item{ID: "bow", Kind: items.Weapon, Name: "yew bow", TwoHanded: true,
		Damage: dice.NewStack(dice.D6), Range: 15}
}

func TestResolve_OutOfReachRollsNothing(t *testing.T) {
	src := &scripted{values: []int{9}}
	_, err := Resolve(Attack{Attacker: actor("you", true, 0, 0), Defender: actor("ghoul", false, 5, 0)}, src)
	require.Error(t, err)
	assert.Equal(t, "the ghoul is out of reach", err.Error())
	assert.Zero(t, src.calls)
}

func TestResolve_ShootWithoutRangedWeapon(t *testing.T) {
	_, err := Resolve(Attack{Attacker: actor("you", true, 0, 0), Defender: actor("ghoul", false, 1, 0), Ranged: true},
		&scripted{values: []int{0}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fists")
}

func TestResolve_Miss(t *testing.T) {
	src := &scripted{values: []int{0}}
	out, err := Resolve(Attack{Attacker: actor("you", true, 0, 0), Defender: actor("ghoul", false, 1, 0)}, src)
	require.NoError(t, err)
	assert.False(t, out.Hit)
	assert.Equal(t, ranged.Melee, out.Distance)
	assert.Equal(t, dice.RollResult{Natural: 1, Total: -1}, out.Roll)
	assert.Equal(t, "You miss the ghoul.", out.Lines[0])
	assert.Equal(t, 1, src.calls)
}

func TestResolve_Hit(t *testing.T) {
	atk := actor("you", true, 0, 0)
	atk.Skill = 3
	def := actor("ghoul", false, 1, 1)

	// d10 -> 9, location -> torso, d4 -> 3
	src := &scripted{values: []int{8, 0, 2}}
	out, err := Resolve(Attack{Attacker: atk, Defender: def}, src)
	require.NoError(t, err)

	assert.True(t, out.Hit)
	assert.Equal(t, dice.RollResult{Natural: 9, Total: 10}, out.Roll)
	assert.Equal(t, "torso", out.Part)
	assert.Equal(t, 4, out.Damage)
	assert.Equal(t, "You hit the ghoul in the torso with fists.", out.Lines[0])
}

func TestResolve_ArmorAbsorbs(t *testing.T) {
	atk := actor("ghoul", false, 0, 0)
	atk.Skill = 3
	def := actor("you", true, 1, 0)
	def.Body.Dress(anatomy.Worn{Name: "mail", Slot: anatomy.TorsoSlot, Armor: 3})
	def.Body.Dress(anatomy.Worn{Name: "cap", Slot: anatomy.HeadSlot, Armor: 9})

	out, err := Resolve(Attack{Attacker: atk, Defender: def}, &scripted{values: []int{8, 0, 2}})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Damage)
	assert.Equal(t, "The ghoul hits you in the torso with fists.", out.Lines[0])
}

func TestResolve_DamageNeverNegative(t *testing.T) {
	atk := actor("you", true, 0, 0)
	atk.Skill = 2
	def := actor("ghoul", false, 0, 1)
	def.Body.Dress(anatomy.Worn{Name: "plate", Slot: anatomy.TorsoSlot, Armor: 20})

	out, err := Resolve(Attack{Attacker: atk, Defender: def}, &scripted{values: []int{5, 0, 0}})
	require.NoError(t, err)
	assert.True(t, out.Hit)
	assert.Zero(t, out.Damage)
}

func TestResolve_ShootUsesBand(t *testing.T) {
	atk := actor("you", true, 0, 0)
	atk.Skill = 5
	require.NoError(t, atk.Wield.Wield(bow()))
	def := actor("ghoul", false, 20, 0)

	out, err := Resolve(Attack{Attacker: atk, Defender: def, Ranged: true}, &scripted{values: []int{4, 0, 1}})
	require.NoError(t, err)
	assert.Equal(t, ranged.Medium, out.Distance)
	assert.Equal(t, dice.RollResult{Natural: 5, Total: 9}, out.Roll)
	assert.True(t, out.Hit)
	assert.Contains(t, out.Lines[0], "You shoot the ghoul")
	assert.Contains(t, out.Lines[0], "yew bow")
}

func TestResolve_MeleeIgnoresWeaponRange(t *testing.T) {
	atk := actor("you", true, 0, 0)
	require.NoError(t, atk.Wield.Wield(bow()))
	_, err := Resolve(Attack{Attacker: atk, Defender: actor("ghoul", false, 4, 0)}, &scripted{values: []int{0}})
	assert.Error(t, err)
}

func TestResolve_Deterministic(t *testing.T) {
	run := func() Outcome {
		src := rand.New(rand.NewSource(77))
		atk := actor("you", true, 0, 0)
		atk.Skill = 4
		out, err := Resolve(Attack{Attacker: atk, Defender: actor("ghoul", false, 1, 0)}, src)
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, run(), run())
}
