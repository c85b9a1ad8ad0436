package engine

import (
	"strings"
	"testing"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

func at(x, y int) *state.Position {
	return &state.Position{X: x, Y: y}
}

// testDefs builds a small boneyard: the player beside a spade and a coin,
// a knife and a cloak within reach, a grave two steps east, a sexton who
// talks and a ghoul in the far corner that only ever waits.
func testDefs() *state.Defs {
	male := anatomy.Male
	return &state.Defs{
		Game: types.GameDef{Title: "Test Boneyard", Width: 10, Height: 10, Year: 1224},
		Items: map[string]state.ItemDef{
			"spade": {
				Item: items.Item{ID: "spade", Kind: items.Tool, Name: "spade",
					Qualities: []items.Quality{items.Dig}, TwoHanded: true, Damage: dice.NewStack(dice.D6)},
				Pos: at(2, 2),
			},
			"coin": {
				Item: items.Item{ID: "coin", Kind: items.Tool, Name: "silver coin"},
				Pos:  at(2, 2),
				Rules: []types.RuleDef{{
					ID:   "coin_take",
					When: types.MatchCriteria{Verb: "take", Object: "coin"},
					Effects: []types.Effect{
						{Type: "say", Params: map[string]any{"text": "The coin is cold as ice. You leave it be."}},
					},
				}},
			},
			"knife": {
				Item: items.Item{ID: "knife", Kind: items.Weapon, Name: "bone knife", Damage: dice.NewStack(dice.D4)},
				Pos:  at(3, 2),
			},
			"cloak": {
				Item: items.Item{ID: "cloak", Kind: items.Garment, Name: "wool cloak",
					Garment: &anatomy.Worn{Name: "wool cloak", Slot: anatomy.TorsoSlot, Armor: 1, Mass: 1}},
				Pos:         at(1, 1),
				Description: "A moth-eaten cloak.",
			},
		},
		Actors: map[string]state.ActorDef{
			"edgar": {ID: "edgar", Name: "Edgar", Player: true, Race: anatomy.Human, Sex: &male, Age: 34,
				Pos: state.Position{X: 2, Y: 2}},
			"ghoul": {ID: "ghoul", Name: "ghoul", Hostile: true, Race: anatomy.Human, Sex: &male, Age: 50,
				Pos:      state.Position{X: 8, Y: 8},
				Behavior: []types.BehaviorEntry{{Action: "wait", Weight: 1}}},
			"sexton": {ID: "sexton", Name: "sexton", Race: anatomy.Human, Sex: &male, Age: 60,
				Pos: state.Position{X: 5, Y: 5},
				Topics: map[string]types.TopicDef{
					"greeting": {
						Text: "Mind the fresh ones.",
						Effects: []types.Effect{
							{Type: "set_flag", Params: map[string]any{"flag": "met_sexton", "value": true}},
						},
					},
					"rumors": {
						Text:     "Old Tom was buried with his boots on.",
						Requires: []types.Condition{{Type: "flag_set", Params: map[string]any{"flag": "met_sexton"}}},
					},
				}},
		},
		Graves: []state.GraveDef{{
			Pos: state.Position{X: 4, Y: 2},
			Grave: items.Grave{
				Profile:   anatomy.Profile{Name: "Old Tom", Race: anatomy.Human, Sex: anatomy.Male, Age: 70},
				DeathYear: 1190,
			},
		}},
		Walls: []state.Position{{X: 1, Y: 2}},
		Handlers: []types.EventHandler{{
			EventType:  "item_taken",
			Conditions: []types.Condition{{Type: "flag_not", Params: map[string]any{"flag": "first_take"}}},
			Effects: []types.Effect{
				{Type: "say", Params: map[string]any{"text": "Somewhere a crow caws."}},
				{Type: "set_flag", Params: map[string]any{"flag": "first_take", "value": true}},
			},
		}},
	}
}

func newTestEngine(t *testing.T, defs *state.Defs) *Engine {
	t.Helper()
	e, err := New(defs, 42, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func outputContains(output []string, substr string) bool {
	for _, line := range output {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func TestStep_GoNorth_MovesPlayer(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("go north")

	if got := e.State.Player().Pos; got != (state.Position{X: 2, Y: 1}) {
		t.Errorf("expected player at 2,1, got %s", got)
	}
	if !outputContains(result.Output, "You walk north.") {
		t.Errorf("expected walk message, got %v", result.Output)
	}
	if e.State.Turn != 1 {
		t.Errorf("expected turn 1, got %d", e.State.Turn)
	}
}

func TestStep_DirectionShortcut(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("se")

	if got := e.State.Player().Pos; got != (state.Position{X: 3, Y: 3}) {
		t.Errorf("expected player at 3,3, got %s", got)
	}
}

func TestStep_WallBlocks_NoTurn(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("go west")

	if got := e.State.Player().Pos; got != (state.Position{X: 2, Y: 2}) {
		t.Errorf("expected player still at 2,2, got %s", got)
	}
	if !outputContains(result.Output, "A wall blocks the way.") {
		t.Errorf("expected wall message, got %v", result.Output)
	}
	if e.State.Turn != 0 {
		t.Errorf("a refused action must not pass time, got turn %d", e.State.Turn)
	}
}

func TestStep_GoWithoutDirection(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("go")

	if !outputContains(result.Output, "Go where?") {
		t.Errorf("expected 'Go where?', got %v", result.Output)
	}
}

func TestStep_TakeItem_BuiltIn(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("take spade")

	p := e.State.Player()
	if held := p.Wield.Items(); len(held) != 1 || held[0].ID != "spade" {
		t.Errorf("expected spade in hand, got %v", held)
	}
	if !outputContains(result.Output, "You take the spade.") {
		t.Errorf("expected take message, got %v", result.Output)
	}
	if _, ok := e.State.FindItem("spade"); ok {
		t.Error("spade should no longer lie on the ground")
	}
}

func TestStep_TakeAdjacentItem(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("take knife")

	if p := e.State.Player(); p.Weapon() == nil || p.Weapon().ID != "knife" {
		t.Errorf("expected knife in the active hand, got %v", p.Wield)
	}
}

func TestStep_TakeItem_RuleOverride(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("take coin")

	if !outputContains(result.Output, "cold as ice") {
		t.Errorf("expected rule text, got %v", result.Output)
	}
	if _, ok := e.State.FindItem("coin"); !ok {
		t.Error("the rule replaced the built-in take; the coin should stay put")
	}
	if e.State.Turn != 1 {
		t.Errorf("a matched rule passes time, got turn %d", e.State.Turn)
	}
}

func TestStep_EventHandler_FiresOnce(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("take knife")
	if !outputContains(result.Output, "crow caws") {
		t.Errorf("expected handler output, got %v", result.Output)
	}

	e.Step("drop")
	result = e.Step("take knife")
	if outputContains(result.Output, "crow caws") {
		t.Errorf("handler should not fire twice, got %v", result.Output)
	}
}

func TestStep_Drop(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("take knife")
	result := e.Step("drop knife")

	if !e.State.Player().Wield.Empty() {
		t.Errorf("expected empty hands after drop, got %v", e.State.Player().Wield)
	}
	if !outputContains(result.Output, "You drop the bone knife.") {
		t.Errorf("expected drop message, got %v", result.Output)
	}
	if pos, ok := e.State.FindItem("knife"); !ok || pos != (state.Position{X: 2, Y: 2}) {
		t.Errorf("expected knife at the player's feet, got %v %v", pos, ok)
	}
}

func TestStep_DropEmptyHand(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("drop")

	if !outputContains(result.Output, "You have nothing in your") {
		t.Errorf("expected empty-hand message, got %v", result.Output)
	}
}

func TestStep_Wear(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("take cloak")
	result := e.Step("wear cloak")

	if !outputContains(result.Output, "You put on the wool cloak.") {
		t.Errorf("expected wear message, got %v", result.Output)
	}
	if got := e.State.Player().Body.Armor(anatomy.TorsoSlot); got != 1 {
		t.Errorf("expected torso armor 1, got %d", got)
	}
	if !outputContains(e.Step("status").Output, "You wear: wool cloak (armor 1).") {
		t.Error("status should list the cloak")
	}
}

func TestStep_Look_DescribesArena(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("look")

	for _, want := range []string{
		"Test Boneyard, in the year 1224.",
		"You stand at 2,2.",
		"Here: a silver coin, a spade.",
		"a bone knife (east)",
		"a wool cloak (northwest)",
		"The ghoul is to the southeast, at 8,8",
	} {
		if !outputContains(result.Output, want) {
			t.Errorf("expected %q in %v", want, result.Output)
		}
	}
	if e.State.Turn != 0 {
		t.Errorf("looking takes no time, got turn %d", e.State.Turn)
	}
}

func TestStep_Examine(t *testing.T) {
	e := newTestEngine(t, testDefs())

	if got := e.Step("examine cloak").Output; !outputContains(got, "A moth-eaten cloak.") {
		t.Errorf("expected description, got %v", got)
	}
	if got := e.Step("examine spade").Output; !outputContains(got, "It needs both hands to carry.") {
		t.Errorf("expected two-handed note, got %v", got)
	}
	if got := e.Step("examine sexton").Output; !outputContains(got, "The sexton is a man.") {
		t.Errorf("expected actor description, got %v", got)
	}
}

func TestStep_ReadGrave(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.State.Player().Pos = state.Position{X: 3, Y: 2}
	result := e.Step("read grave")

	if !outputContains(result.Output, "Here lies Old Tom, 1120-1190. Aged 70.") {
		t.Errorf("expected epitaph, got %v", result.Output)
	}
}

func TestStep_ReadBlank(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("read spade")

	if !outputContains(result.Output, "There is nothing written on the spade.") {
		t.Errorf("expected blank message, got %v", result.Output)
	}
}

func TestStep_Inventory(t *testing.T) {
	e := newTestEngine(t, testDefs())
	if got := e.Step("inventory").Output; !outputContains(got, "Your hands are empty.") {
		t.Errorf("expected empty hands, got %v", got)
	}

	e.Step("take spade")
	got := e.Step("i").Output
	if !outputContains(got, "a spade (both hands)") {
		t.Errorf("expected spade listed, got %v", got)
	}
	if !outputContains(got, "[active]") {
		t.Errorf("expected active hand marker, got %v", got)
	}
}

func TestStep_DigGrave(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("take spade")
	e.State.Player().Pos = state.Position{X: 4, Y: 2}
	before := e.State.Turn

	result := e.Step("dig")

	for _, want := range []string{
		"You start digging.",
		"You keep digging.",
		"You unearth a",
		"The gravestone reads: Here lies Old Tom",
	} {
		if !outputContains(result.Output, want) {
			t.Errorf("expected %q in %v", want, result.Output)
		}
	}
	if e.State.Turn-before != 3 {
		t.Errorf("digging takes three turns, took %d", e.State.Turn-before)
	}
	if _, ok := e.State.Grave(state.Position{X: 4, Y: 2}); ok {
		t.Error("the grave should be opened")
	}
	if e.State.TileAt(state.Position{X: 4, Y: 2}) != state.Pit {
		t.Error("digging leaves a pit")
	}

	var kinds []items.Kind
	for _, it := range e.State.ItemsAt(state.Position{X: 4, Y: 2}) {
		kinds = append(kinds, it.Kind)
	}
	if len(kinds) != 2 || kinds[0] != items.Gravestone || kinds[1] != items.Corpse {
		t.Errorf("expected gravestone then corpse, got %v", kinds)
	}
}

func TestStep_DigGraveFromAside(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("take spade")
	e.State.Player().Pos = state.Position{X: 3, Y: 2}

	result := e.Step("dig grave")
	if !outputContains(result.Output, "You need to stand on the grave to dig it up.") {
		t.Errorf("expected stand-on message, got %v", result.Output)
	}
}

func TestStep_DigWithoutTool(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("dig")

	if !outputContains(result.Output, "You have nothing to dig with.") {
		t.Errorf("expected missing tool message, got %v", result.Output)
	}
	if e.State.Turn != 0 {
		t.Errorf("expected no time to pass, got turn %d", e.State.Turn)
	}
}

func TestStep_AttackOutOfReach(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("attack ghoul")

	if !outputContains(result.Output, "The ghoul is out of reach.") {
		t.Errorf("expected out of reach, got %v", result.Output)
	}
}

func TestStep_AttackUntilDead(t *testing.T) {
	defs := testDefs()
	defs.Items["axe"] = state.ItemDef{Item: items.Item{ID: "axe", Kind: items.Weapon, Name: "woodsman's axe",
		Damage: dice.NewStack(dice.D10, dice.D10, dice.D10)}}
	edgar := defs.Actors["edgar"]
	edgar.Skill = 30
	edgar.Wield = []string{"axe"}
	defs.Actors["edgar"] = edgar
	ghoul := defs.Actors["ghoul"]
	ghoul.Pos = state.Position{X: 3, Y: 3}
	defs.Actors["ghoul"] = ghoul

	e := newTestEngine(t, defs)
	var out []string
	for i := 0; i < 100 && e.State.Actor("ghoul") != nil; i++ {
		out = append(out, e.Step("attack ghoul").Output...)
	}

	if e.State.Actor("ghoul") != nil {
		t.Fatalf("the ghoul should have fallen, output %v", out)
	}
	if !outputContains(out, "The ghoul dies.") {
		t.Errorf("expected death message, got %v", out)
	}
	var corpse bool
	for _, it := range e.State.ItemsAt(state.Position{X: 3, Y: 3}) {
		corpse = corpse || it.Kind == items.Corpse
	}
	if !corpse {
		t.Error("expected a corpse where the ghoul fell")
	}
}

func TestStep_HostileApproaches(t *testing.T) {
	defs := testDefs()
	ghoul := defs.Actors["ghoul"]
	ghoul.Behavior = nil
	defs.Actors["ghoul"] = ghoul

	e := newTestEngine(t, defs)
	result := e.Step("wait")

	if !outputContains(result.Output, "Time passes.") {
		t.Errorf("expected wait message, got %v", result.Output)
	}
	if !outputContains(result.Output, "The ghoul walks northwest.") {
		t.Errorf("expected the ghoul to close in, got %v", result.Output)
	}
	if got := e.State.Actor("ghoul").Pos; got != (state.Position{X: 7, Y: 7}) {
		t.Errorf("expected ghoul at 7,7, got %s", got)
	}
}

func TestStep_HostileAttacksWhenAdjacent(t *testing.T) {
	defs := testDefs()
	ghoul := defs.Actors["ghoul"]
	ghoul.Behavior = nil
	ghoul.Pos = state.Position{X: 3, Y: 3}
	defs.Actors["ghoul"] = ghoul

	e := newTestEngine(t, defs)
	result := e.Step("wait")

	if !outputContains(result.Output, "Roll:") {
		t.Errorf("expected an attack roll, got %v", result.Output)
	}
	if got := e.State.Actor("ghoul").Pos; got != (state.Position{X: 3, Y: 3}) {
		t.Errorf("an adjacent ghoul attacks instead of moving, got %s", got)
	}
}

func TestStep_GameOver_BlocksCommands(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.State.Flags["game_over"] = true
	result := e.Step("look")

	if !outputContains(result.Output, "Game over.") {
		t.Errorf("expected game over message, got %v", result.Output)
	}
	if len(e.State.CommandLog) != 0 {
		t.Errorf("blocked commands are not logged, got %v", e.State.CommandLog)
	}
}

func TestStep_CommandLogged(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("look")
	e.Step("go north")

	if len(e.State.CommandLog) != 2 {
		t.Fatalf("expected 2 commands logged, got %d", len(e.State.CommandLog))
	}
	if e.State.CommandLog[0] != "look" || e.State.CommandLog[1] != "go north" {
		t.Errorf("unexpected command log %v", e.State.CommandLog)
	}
}

func TestStep_EmptyInput(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("")

	if !outputContains(result.Output, "What do you want to do?") {
		t.Errorf("expected prompt for empty input, got %v", result.Output)
	}
	if e.State.Turn != 0 {
		t.Errorf("expected turn 0 for empty input, got %d", e.State.Turn)
	}
}

func TestStep_UnknownName(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("take dragon")

	if !outputContains(result.Output, "don't see") {
		t.Errorf("expected not found error, got %v", result.Output)
	}
}

func TestStep_UnknownVerb(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("dance")

	if !outputContains(result.Output, "You can't do that.") {
		t.Errorf("expected refusal, got %v", result.Output)
	}
}

func TestStep_Talk_NoTarget(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("talk")

	if !outputContains(result.Output, "Talk to whom?") {
		t.Errorf("expected 'Talk to whom?', got %v", result.Output)
	}
}

func TestStep_Talk_NotATalker(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("talk spade")

	if !outputContains(result.Output, "can't talk to that") {
		t.Errorf("expected 'can't talk to that', got %v", result.Output)
	}
}

func TestStep_Talk_AutoPlayFirstTopic(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("talk to sexton")

	if !outputContains(result.Output, "Mind the fresh ones.") {
		t.Errorf("expected greeting, got %v", result.Output)
	}
	if !e.State.Flags["met_sexton"] {
		t.Error("expected met_sexton flag to be set")
	}
}

func TestStep_Talk_SpecificTopic(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.State.Flags["met_sexton"] = true
	result := e.Step("ask sexton about rumors")

	if !outputContains(result.Output, "boots on") {
		t.Errorf("expected rumors text, got %v", result.Output)
	}
}

func TestStep_Talk_TopicUnavailable(t *testing.T) {
	e := newTestEngine(t, testDefs())
	result := e.Step("ask sexton about rumors")

	if !outputContains(result.Output, "nothing to say about that") {
		t.Errorf("expected refusal, got %v", result.Output)
	}
	if !outputContains(result.Output, "greeting") {
		t.Errorf("expected topic hint, got %v", result.Output)
	}
}

func TestStep_Deterministic(t *testing.T) {
	run := func() []string {
		defs := testDefs()
		ghoul := defs.Actors["ghoul"]
		ghoul.Behavior = []types.BehaviorEntry{{Action: "attack", Weight: 2}, {Action: "wander", Weight: 1}}
		defs.Actors["ghoul"] = ghoul
		e := newTestEngine(t, defs)
		var out []string
		for _, cmd := range []string{"take knife", "wait", "wait", "go south", "wait", "attack ghoul"} {
			out = append(out, e.Step(cmd).Output...)
		}
		return out
	}

	a, b := run(), run()
	if strings.Join(a, "\n") != strings.Join(b, "\n") {
		t.Errorf("same seed, different play:\n%v\n%v", a, b)
	}
}

func TestStep_RNGPositionTracked(t *testing.T) {
	e := newTestEngine(t, testDefs())
	e.Step("wait")
	if e.State.RNGPosition != e.RNG.Position() {
		t.Errorf("state position %d, rng position %d", e.State.RNGPosition, e.RNG.Position())
	}
}
