package action

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

func at(x, y int) *state.Position { return &state.Position{X: x, Y: y} }

func testState(t *testing.T) *state.State {
	t.Helper()
	male := anatomy.Male
	defs := &state.Defs{
		Game: types.GameDef{Width: 12, Height: 12, Year: 1224},
		Items: map[string]state.ItemDef{
			"shovel": {Item: items.Item{ID: "shovel", Kind: items.Tool, Name: "rusty shovel",
				Qualities: []items.Quality{items.Dig}, TwoHanded: true, Damage: dice.NewStack(dice.D6)}},
			"knife": {Item: items.Item{ID: "knife", Kind: items.Weapon, Name: "bone knife",
				Damage: dice.NewStack(dice.D4)}, Pos: at(2, 1)},
			"cloak": {Item: items.Item{ID: "cloak", Kind: items.Garment, Name: "wool cloak",
				Garment: &anatomy.Worn{Name: "wool cloak", Slot: anatomy.TorsoSlot, Armor: 1, Mass: 1}}, Pos: at(1, 1)},
			"far": {Item: items.Item{ID: "far", Kind: items.Tool, Name: "lantern"}, Pos: at(9, 9)},
		},
		Actors: map[string]state.ActorDef{
			"edgar": {ID: "edgar", Name: "Edgar", Player: true, Race: anatomy.Human, Sex: &male, Age: 34,
				Pos: state.Position{X: 1, Y: 1}},
			"rex": {ID: "rex", Name: "dog", Hostile: true, Race: anatomy.Dog, Pos: state.Position{X: 1, Y: 2}},
		},
		Walls: []state.Position{{X: 2, Y: 2}},
	}
	s, err := state.NewState(defs, 5, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	return s
}

func give(t *testing.T, s *state.State, it items.Item) {
	t.Helper()
	require.NoError(t, s.Player().Wield.Wield(it))
}

func shovel() items.Item {
	return items.Item{ID: "shovel", Kind: items.Tool, Name: "rusty shovel",
		Qualities: []items.Quality{items.Dig}, TwoHanded: true, Damage: dice.NewStack(dice.D6)}
}

func TestSteps(t *testing.T) {
	assert.Equal(t, 3, Steps(Action{Kind: Dig}))
	assert.Equal(t, 1, Steps(Action{Kind: Walk}))
	assert.Equal(t, 1, Steps(Action{Kind: Attack}))
}

func TestIsPossible_Walk(t *testing.T) {
	s := testState(t)
	tests := []struct {
		name string
		dir  state.Position
		err  string
	}{
		{"open floor", state.Directions["north"], ""},
		{"wall", state.Directions["southeast"], "a wall blocks the way"},
		{"occupied", state.Directions["south"], "the dog is in the way"},
		{"standing still", state.Position{}, "you cannot go that way"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := IsPossible(Action{Kind: Walk, Actor: "edgar", Dir: tt.dir}, s)
			if tt.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.err, err.Error())
		})
	}

	s.Actor("edgar").Pos = state.Position{}
	assert.Error(t, IsPossible(Action{Kind: Walk, Actor: "edgar", Dir: state.Directions["west"]}, s))

	s.Terrain[state.Position{X: 1, Y: 0}] = state.Pit
	err := IsPossible(Action{Kind: Walk, Actor: "edgar", Dir: state.Directions["east"]}, s)
	require.Error(t, err)
	assert.Equal(t, "an open pit blocks the way", err.Error())
}

func TestIsPossible_DeadActorCannotAct(t *testing.T) {
	s := testState(t)
	s.Actor("rex").Dead = true
	assert.Error(t, IsPossible(Action{Kind: Wait, Actor: "rex"}, s))
	assert.Error(t, IsPossible(Action{Kind: Wait, Actor: "nobody"}, s))
	assert.Error(t, IsPossible(Action{Kind: Attack, Actor: "edgar", Target: "rex"}, s))
}

func TestIsPossible_Attack(t *testing.T) {
	s := testState(t)
	assert.NoError(t, IsPossible(Action{Kind: Attack, Actor: "edgar", Target: "rex"}, s))
	assert.Error(t, IsPossible(Action{Kind: Attack, Actor: "edgar", Target: "edgar"}, s))

	s.Actor("rex").Pos = state.Position{X: 5, Y: 5}
	err := IsPossible(Action{Kind: Attack, Actor: "edgar", Target: "rex"}, s)
	require.Error(t, err)
	assert.Equal(t, "the dog is out of reach", err.Error())

	err = IsPossible(Action{Kind: Shoot, Actor: "edgar", Target: "rex"}, s)
	require.Error(t, err)
	assert.Equal(t, "you cannot shoot with fists", err.Error())

	give(t, s, items.Item{ID: "bow", Kind: items.Weapon, Name: "yew bow", TwoHanded: true,
		Damage: dice.NewStack(dice.D6), Range: 6})
	assert.NoError(t, IsPossible(Action{Kind: Shoot, Actor: "edgar", Target: "rex"}, s))
}

func TestIsPossible_Take(t *testing.T) {
	s := testState(t)
	assert.NoError(t, IsPossible(Action{Kind: Take, Actor: "edgar", Item: "knife"}, s), "adjacent")
	assert.NoError(t, IsPossible(Action{Kind: Take, Actor: "edgar", Item: "cloak"}, s), "own tile")
	assert.Error(t, IsPossible(Action{Kind: Take, Actor: "edgar", Item: "far"}, s))
	assert.Error(t, IsPossible(Action{Kind: Take, Actor: "edgar", Item: "ghost"}, s))

	give(t, s, shovel())
	err := IsPossible(Action{Kind: Take, Actor: "edgar", Item: "knife"}, s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rusty shovel")
}

func TestIsPossible_TakeHeavy(t *testing.T) {
	s := testState(t)
	s.PutItem(state.Position{X: 1, Y: 1}, items.NewGravestone("stone", items.Epitaph{Name: "Tom"}))
	err := IsPossible(Action{Kind: Take, Actor: "edgar", Item: "stone"}, s)
	require.Error(t, err)
	assert.Equal(t, "the gravestone is too heavy to lift", err.Error())
}

func TestIsPossible_DropSwapWear(t *testing.T) {
	s := testState(t)
	err := IsPossible(Action{Kind: Drop, Actor: "edgar"}, s)
	require.Error(t, err)
	assert.Equal(t, "you have nothing in your right hand", err.Error())
	assert.EqualError(t, IsPossible(Action{Kind: Swap, Actor: "edgar"}, s), "both hands are empty")
	assert.Error(t, IsPossible(Action{Kind: Wear, Actor: "edgar", Item: "cloak"}, s))

	give(t, s, items.Item{ID: "cloak", Kind: items.Garment, Name: "wool cloak",
		Garment: &anatomy.Worn{Name: "wool cloak", Slot: anatomy.TorsoSlot}})
	assert.NoError(t, IsPossible(Action{Kind: Drop, Actor: "edgar"}, s))
	assert.NoError(t, IsPossible(Action{Kind: Drop, Actor: "edgar", Item: "cloak"}, s))
	assert.Error(t, IsPossible(Action{Kind: Drop, Actor: "edgar", Item: "knife"}, s))
	assert.NoError(t, IsPossible(Action{Kind: Swap, Actor: "edgar"}, s))
	assert.NoError(t, IsPossible(Action{Kind: Wear, Actor: "edgar", Item: "cloak"}, s))
}

func TestIsPossible_WearNeedsGarment(t *testing.T) {
	s := testState(t)
	give(t, s, items.Item{ID: "knife2", Kind: items.Weapon, Name: "bone knife"})
	err := IsPossible(Action{Kind: Wear, Actor: "edgar", Item: "knife2"}, s)
	require.Error(t, err)
	assert.Equal(t, "the bone knife is not something to wear", err.Error())
}

func TestIsPossible_Dig(t *testing.T) {
	s := testState(t)
	err := IsPossible(Action{Kind: Dig, Actor: "edgar"}, s)
	require.Error(t, err)
	assert.Equal(t, "you have nothing to dig with", err.Error())

	give(t, s, shovel())
	assert.NoError(t, IsPossible(Action{Kind: Dig, Actor: "edgar"}, s))

	s.Terrain[state.Position{X: 1, Y: 1}] = state.Pit
	assert.EqualError(t, IsPossible(Action{Kind: Dig, Actor: "edgar"}, s), "there is already a pit here")
}

func TestLifecycle_Dig(t *testing.T) {
	s := testState(t)
	give(t, s, shovel())
	a := Action{Kind: Dig, Actor: "edgar"}

	start := OnStart(a, s)
	require.Len(t, start, 1)
	assert.Equal(t, "You start digging.", start[0].Params["text"])

	assert.Len(t, OnStep(a, s, 1), 1)
	assert.Len(t, OnStep(a, s, 2), 1)
	assert.Empty(t, OnStep(a, s, 3))

	fin := OnFinish(a, s, rand.New(rand.NewSource(1)))
	require.Len(t, fin, 1)
	assert.Equal(t, "dig", fin[0].Type)
	assert.Equal(t, "edgar", fin[0].Params["actor"])
}

func TestOnFinish_Walk(t *testing.T) {
	s := testState(t)
	effs := OnFinish(Action{Kind: Walk, Actor: "rex", Dir: state.Directions["east"]}, s, nil)
	require.Len(t, effs, 2)
	assert.Equal(t, "The dog walks east.", effs[0].Params["text"])
	assert.Equal(t, "move_actor", effs[1].Type)
	assert.Equal(t, state.Position{X: 2, Y: 2}, effs[1].Params["to"])
}

func TestOnFinish_Take(t *testing.T) {
	s := testState(t)
	effs := OnFinish(Action{Kind: Take, Actor: "edgar", Item: "knife"}, s, nil)
	require.Len(t, effs, 2)
	assert.Equal(t, "You take the bone knife.", effs[0].Params["text"])
	assert.Equal(t, "pick_up", effs[1].Type)
	assert.Equal(t, state.Position{X: 2, Y: 1}, effs[1].Params["from"])
}

func TestOnFinish_AttackHitCarriesLocation(t *testing.T) {
	s := testState(t)
	s.Player().Skill = 20
	effs := OnFinish(Action{Kind: Attack, Actor: "edgar", Target: "rex"}, s, rand.New(rand.NewSource(3)))

	var hit *types.Effect
	for i := range effs {
		if effs[i].Type == "hit" {
			hit = &effs[i]
		}
	}
	require.NotNil(t, hit, "a skill of 20 cannot miss")
	assert.Equal(t, "rex", hit.Params["target"])
	_, ok := hit.Params["location"].(anatomy.Location)
	assert.True(t, ok)
	assert.Equal(t, "say", effs[0].Type)
}

func TestOnFinish_WaitIsQuietForMonsters(t *testing.T) {
	s := testState(t)
	assert.Len(t, OnFinish(Action{Kind: Wait, Actor: "edgar"}, s, nil), 1)
	assert.Empty(t, OnFinish(Action{Kind: Wait, Actor: "rex"}, s, nil))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dig", Dig.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
