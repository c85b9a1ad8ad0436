// Package loader loads Lua game content into Go structs at compile time.
// The Lua VM is discarded after loading, so no Lua runs during play.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/boneyard/engine/anatomy"
	"github.com/nathoo/boneyard/engine/dice"
	"github.com/nathoo/boneyard/engine/items"
	"github.com/nathoo/boneyard/engine/state"
	"github.com/nathoo/boneyard/types"
)

// rawDef holds an item or actor table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// rawRule holds a rule before compilation.
type rawRule struct {
	id         string
	when       *lua.LTable
	conditions *lua.LTable // may be nil
	then       *lua.LTable
	scope      string
	order      int
}

// rawHandler holds an event handler before compilation.
type rawHandler struct {
	eventType string
	table     *lua.LTable
}

func enumNames[T fmt.Stringer](vals ...T) map[string]T {
	m := make(map[string]T, len(vals))
	for _, v := range vals {
		m[v.String()] = v
	}
	return m
}

var (
	raceNames = enumNames(anatomy.Human, anatomy.Gnome, anatomy.Lizardman, anatomy.Dog)
	sexNames  = enumNames(anatomy.Male, anatomy.Female, anatomy.Other)
	skinNames = enumNames(anatomy.Pale, anatomy.Fair, anatomy.Tanned, anatomy.Olive,
		anatomy.Brown, anatomy.Dark, anatomy.GreenScaled)
	furNames = enumNames(anatomy.BlackFur, anatomy.WhiteFur, anatomy.BrownFur,
		anatomy.GingerFur, anatomy.GrayFur, anatomy.SpottedFur)
)

func lookup[T any](names map[string]T, what, name string) (T, error) {
	v, ok := names[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		var zero T
		known := make([]string, 0, len(names))
		for n := range names {
			known = append(known, n)
		}
		sort.Strings(known)
		return zero, fmt.Errorf("unknown %s %q (want one of %s)", what, name, strings.Join(known, ", "))
	}
	return v, nil
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getUint8 returns a small non-negative field such as an age or a range.
func getUint8(tbl *lua.LTable, key string) (uint8, error) {
	n := getInt(tbl, key)
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("%s %d out of range 0-255", key, n)
	}
	return uint8(n), nil
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns the string elements of an array field.
func getStrings(tbl *lua.LTable, key string) []string {
	arr := getTable(tbl, key)
	if arr == nil {
		return nil
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		if s, ok := arr.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// toPosition accepts {x = 1, y = 2} or {1, 2}.
func toPosition(v lua.LValue) (state.Position, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return state.Position{}, fmt.Errorf("position must be a table, got %s", v.Type())
	}
	x, y := tbl.RawGetString("x"), tbl.RawGetString("y")
	if x == lua.LNil && y == lua.LNil {
		x, y = tbl.RawGetInt(1), tbl.RawGetInt(2)
	}
	xn, okX := x.(lua.LNumber)
	yn, okY := y.(lua.LNumber)
	if !okX || !okY {
		return state.Position{}, fmt.Errorf("position needs numeric x and y")
	}
	return state.Position{X: int(xn), Y: int(yn)}, nil
}

// getPosition returns the position under key, or nil when it is absent.
func getPosition(tbl *lua.LTable, key string) (*state.Position, error) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return nil, nil
	}
	p, err := toPosition(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &p, nil
}

// getDice parses a dice notation field such as "2d6".
func getDice(tbl *lua.LTable, key string) (dice.Stack, error) {
	notation := getString(tbl, key)
	if notation == "" {
		return dice.Stack{}, nil
	}
	s, err := dice.Parse(notation)
	if err != nil {
		return dice.Stack{}, fmt.Errorf("%s: %w", key, err)
	}
	return s, nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Sequential integer keys starting at 1 make an array.
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		m := map[string]any{}
		val.ForEach(func(k, v lua.LValue) {
			if ks, ok := k.(lua.LString); ok {
				m[string(ks)] = toGoValue(v)
			}
		})
		return m
	default:
		return nil
	}
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{
		Items:  map[string]state.ItemDef{},
		Actors: map[string]state.ActorDef{},
	}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	game, walls, err := compileGame(coll.game)
	if err != nil {
		return nil, fmt.Errorf("compiling game: %w", err)
	}
	defs.Game, defs.Walls = game, walls

	for _, raw := range coll.items {
		if _, dup := defs.Items[raw.id]; dup {
			return nil, fmt.Errorf("item %q defined twice", raw.id)
		}
		item, err := compileItem(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling item %s: %w", raw.id, err)
		}
		defs.Items[raw.id] = item
		markScopedRules(coll, scopedRuleIDs(raw.table), "item:"+raw.id)
	}

	for _, raw := range coll.actors {
		if _, dup := defs.Actors[raw.id]; dup {
			return nil, fmt.Errorf("actor %q defined twice", raw.id)
		}
		actor, err := compileActor(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling actor %s: %w", raw.id, err)
		}
		defs.Actors[raw.id] = actor
		markScopedRules(coll, scopedRuleIDs(raw.table), "actor:"+raw.id)
	}

	for i, tbl := range coll.graves {
		g, err := compileGrave(tbl)
		if err != nil {
			return nil, fmt.Errorf("compiling grave %d: %w", i+1, err)
		}
		defs.Graves = append(defs.Graves, g)
	}

	for _, raw := range coll.rules {
		rule := compileRule(raw)
		if id, ok := strings.CutPrefix(raw.scope, "item:"); ok {
			d := defs.Items[id]
			d.Rules = append(d.Rules, rule)
			defs.Items[id] = d
		} else if id, ok := strings.CutPrefix(raw.scope, "actor:"); ok {
			d := defs.Actors[id]
			d.Rules = append(d.Rules, rule)
			defs.Actors[id] = d
		} else {
			defs.GlobalRules = append(defs.GlobalRules, rule)
		}
	}

	for _, raw := range coll.handlers {
		defs.Handlers = append(defs.Handlers, compileHandler(raw))
	}

	return defs, nil
}

func compileGame(tbl *lua.LTable) (types.GameDef, []state.Position, error) {
	game := types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
		Intro:   getString(tbl, "intro"),
		Width:   getInt(tbl, "width"),
		Height:  getInt(tbl, "height"),
		Year:    getInt(tbl, "year"),
	}
	var walls []state.Position
	if wallTbl := getTable(tbl, "walls"); wallTbl != nil {
		for i := 1; i <= wallTbl.MaxN(); i++ {
			p, err := toPosition(wallTbl.RawGetInt(i))
			if err != nil {
				return game, nil, fmt.Errorf("wall %d: %w", i, err)
			}
			walls = append(walls, p)
		}
	}
	return game, walls, nil
}

func compileItem(raw rawDef) (state.ItemDef, error) {
	tbl := raw.table
	name := getString(tbl, "name")
	if name == "" {
		name = raw.id
	}

	kindName := getString(tbl, "kind")
	if kindName == "" {
		kindName = items.Tool.String()
	}
	kind, ok := items.ParseKind(kindName)
	if !ok {
		return state.ItemDef{}, fmt.Errorf("unknown kind %q", kindName)
	}
	if kind == items.Corpse {
		return state.ItemDef{}, fmt.Errorf("corpses come from bodies and cannot be authored")
	}

	it := items.Item{
		ID:        raw.id,
		Kind:      kind,
		Name:      name,
		TwoHanded: getBool(tbl, "two_handed", false),
	}
	for _, q := range getStrings(tbl, "qualities") {
		quality, ok := items.ParseQuality(q)
		if !ok {
			return state.ItemDef{}, fmt.Errorf("unknown quality %q", q)
		}
		it.Qualities = append(it.Qualities, quality)
	}

	var err error
	if it.Damage, err = getDice(tbl, "damage"); err != nil {
		return state.ItemDef{}, err
	}
	if it.Range, err = getUint8(tbl, "range"); err != nil {
		return state.ItemDef{}, err
	}

	if kind == items.Garment {
		slotName := getString(tbl, "slot")
		slot, ok := anatomy.ParseBodySlot(slotName)
		if !ok {
			return state.ItemDef{}, fmt.Errorf("garment needs a body slot, got %q", slotName)
		}
		it.Garment = &anatomy.Worn{
			Name:  name,
			Slot:  slot,
			Armor: getInt(tbl, "armor"),
			Mass:  getNumber(tbl, "mass"),
		}
	}

	if epTbl := getTable(tbl, "epitaph"); epTbl != nil {
		age, err := getUint8(epTbl, "age")
		if err != nil {
			return state.ItemDef{}, fmt.Errorf("epitaph: %w", err)
		}
		it.Epitaph = &items.Epitaph{Name: getString(epTbl, "name"), Age: age, DeathYear: getInt(epTbl, "year")}
	}
	if kind == items.Gravestone && it.Epitaph == nil {
		return state.ItemDef{}, fmt.Errorf("a gravestone needs an epitaph")
	}

	pos, err := getPosition(tbl, "at")
	if err != nil {
		return state.ItemDef{}, err
	}
	return state.ItemDef{Item: it, Pos: pos, Description: getString(tbl, "description")}, nil
}

func compileActor(raw rawDef) (state.ActorDef, error) {
	tbl := raw.table
	def := state.ActorDef{
		ID:          raw.id,
		Name:        getString(tbl, "name"),
		Description: getString(tbl, "description"),
		Player:      getBool(tbl, "player", false),
		Hostile:     getBool(tbl, "hostile", false),
		Skill:       getInt(tbl, "skill"),
		Dodge:       getInt(tbl, "dodge"),
		Wield:       getStrings(tbl, "wield"),
		Wear:        getStrings(tbl, "wear"),
	}
	if def.Name == "" {
		def.Name = raw.id
	}

	pos, err := getPosition(tbl, "at")
	if err != nil {
		return def, err
	}
	if pos == nil {
		return def, fmt.Errorf("actor needs a position (at = {x, y})")
	}
	def.Pos = *pos

	if race := getString(tbl, "race"); race != "" {
		if def.Race, err = lookup(raceNames, "race", race); err != nil {
			return def, err
		}
	}
	if sex := getString(tbl, "sex"); sex != "" {
		v, err := lookup(sexNames, "sex", sex)
		if err != nil {
			return def, err
		}
		def.Sex = &v
	}
	if skin := getString(tbl, "skin"); skin != "" {
		v, err := lookup(skinNames, "skin tone", skin)
		if err != nil {
			return def, err
		}
		def.Skin = &v
	}
	if fur := getString(tbl, "fur"); fur != "" {
		v, err := lookup(furNames, "fur color", fur)
		if err != nil {
			return def, err
		}
		def.Fur = &v
	}
	if def.Age, err = getUint8(tbl, "age"); err != nil {
		return def, err
	}
	if hand := getString(tbl, "hand"); hand != "" {
		h, ok := items.ParseMainHand(hand)
		if !ok {
			return def, fmt.Errorf("unknown hand %q", hand)
		}
		def.Hand = h
	}
	if def.Unarmed, err = getDice(tbl, "unarmed"); err != nil {
		return def, err
	}
	if b := getTable(tbl, "behavior"); b != nil {
		def.Behavior = compileBehavior(b)
	}
	if topicsTbl := getTable(tbl, "topics"); topicsTbl != nil {
		def.Topics = compileTopics(topicsTbl)
	}
	return def, nil
}

// compileBehavior accepts a list of entries, each either { "attack", 3 }
// or { action = "attack", weight = 3 }, or a map of action to weight,
// which is read in name order.
func compileBehavior(tbl *lua.LTable) []types.BehaviorEntry {
	var out []types.BehaviorEntry
	if tbl.MaxN() > 0 {
		for i := 1; i <= tbl.MaxN(); i++ {
			if e, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
				out = append(out, behaviorEntry(e))
			}
		}
		return out
	}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, okK := k.(lua.LString)
		n, okV := v.(lua.LNumber)
		if okK && okV {
			out = append(out, types.BehaviorEntry{Action: string(ks), Weight: int(n)})
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Action < out[j].Action })
	return out
}

// behaviorEntry reads one list entry. Named fields win over positional
// ones when both are present.
func behaviorEntry(e *lua.LTable) types.BehaviorEntry {
	entry := types.BehaviorEntry{Action: getString(e, "action"), Weight: getInt(e, "weight")}
	if entry.Action == "" {
		if s, ok := e.RawGetInt(1).(lua.LString); ok {
			entry.Action = string(s)
		}
	}
	if entry.Weight == 0 {
		if n, ok := e.RawGetInt(2).(lua.LNumber); ok {
			entry.Weight = int(n)
		}
	}
	return entry
}

func compileGrave(tbl *lua.LTable) (state.GraveDef, error) {
	pos, err := getPosition(tbl, "at")
	if err != nil {
		return state.GraveDef{}, err
	}
	if pos == nil {
		return state.GraveDef{}, fmt.Errorf("grave needs a position (at = {x, y})")
	}
	died := getInt(tbl, "died")
	if died == 0 {
		return state.GraveDef{}, fmt.Errorf("grave needs a year of death (died = ...)")
	}

	profile := anatomy.Profile{Name: getString(tbl, "name"), Skin: anatomy.Fair}
	if race := getString(tbl, "race"); race != "" {
		if profile.Race, err = lookup(raceNames, "race", race); err != nil {
			return state.GraveDef{}, err
		}
	}
	if profile.Race == anatomy.Lizardman {
		profile.Skin = anatomy.GreenScaled
	}
	if sex := getString(tbl, "sex"); sex != "" {
		if profile.Sex, err = lookup(sexNames, "sex", sex); err != nil {
			return state.GraveDef{}, err
		}
	}
	if skin := getString(tbl, "skin"); skin != "" {
		if profile.Skin, err = lookup(skinNames, "skin tone", skin); err != nil {
			return state.GraveDef{}, err
		}
	}
	if fur := getString(tbl, "fur"); fur != "" && profile.Race.Furred() {
		v, err := lookup(furNames, "fur color", fur)
		if err != nil {
			return state.GraveDef{}, err
		}
		profile.Fur = &v
	}
	if profile.Age, err = getUint8(tbl, "age"); err != nil {
		return state.GraveDef{}, err
	}

	return state.GraveDef{Pos: *pos, Grave: items.Grave{Profile: profile, DeathYear: died}}, nil
}

func compileTopics(tbl *lua.LTable) map[string]types.TopicDef {
	topics := map[string]types.TopicDef{}
	tbl.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		topicTbl, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		topic := types.TopicDef{
			Text: getString(topicTbl, "text"),
		}
		if reqTbl := getTable(topicTbl, "requires"); reqTbl != nil {
			topic.Requires = compileConditions(reqTbl)
		}
		if effTbl := getTable(topicTbl, "effects"); effTbl != nil {
			topic.Effects = compileEffects(effTbl)
		}
		topics[string(key)] = topic
	})
	return topics
}

func compileRule(raw rawRule) types.RuleDef {
	rule := types.RuleDef{
		ID:          raw.id,
		When:        compileMatchCriteria(raw.when),
		Effects:     compileEffects(raw.then),
		Priority:    getInt(raw.when, "priority"),
		SourceOrder: raw.order,
	}
	if raw.conditions != nil {
		rule.Conditions = compileConditions(raw.conditions)
	}
	return rule
}

func compileMatchCriteria(tbl *lua.LTable) types.MatchCriteria {
	return types.MatchCriteria{
		Verb:       getString(tbl, "verb"),
		Object:     getString(tbl, "object"),
		Target:     getString(tbl, "target"),
		ObjectKind: getString(tbl, "object_kind"),
	}
}

func compileConditions(tbl *lua.LTable) []types.Condition {
	var conditions []types.Condition
	for i := 1; i <= tbl.MaxN(); i++ {
		if condTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			conditions = append(conditions, compileCondition(condTbl))
		}
	}
	return conditions
}

func compileCondition(tbl *lua.LTable) types.Condition {
	condType := getString(tbl, "type")

	if condType == "not" {
		if innerTbl := getTable(tbl, "inner"); innerTbl != nil {
			inner := compileCondition(innerTbl)
			return types.Condition{Type: "not", Negate: true, Inner: &inner}
		}
	}
	return types.Condition{Type: condType, Params: params(tbl)}
}

func compileEffects(tbl *lua.LTable) []types.Effect {
	var effects []types.Effect
	for i := 1; i <= tbl.MaxN(); i++ {
		if effTbl, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			effects = append(effects, types.Effect{Type: getString(effTbl, "type"), Params: params(effTbl)})
		}
	}
	return effects
}

// params copies every string-keyed field except "type".
func params(tbl *lua.LTable) map[string]any {
	out := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok && string(ks) != "type" {
			out[string(ks)] = toGoValue(v)
		}
	})
	return out
}

func compileHandler(raw rawHandler) types.EventHandler {
	handler := types.EventHandler{EventType: raw.eventType}
	if condTbl := getTable(raw.table, "conditions"); condTbl != nil {
		handler.Conditions = compileConditions(condTbl)
	}
	if effTbl := getTable(raw.table, "effects"); effTbl != nil {
		handler.Effects = compileEffects(effTbl)
	}
	return handler
}

// scopedRuleIDs reads the rule markers listed under a definition's rules
// field.
func scopedRuleIDs(tbl *lua.LTable) []string {
	var ids []string
	if rulesTable := getTable(tbl, "rules"); rulesTable != nil {
		for i := 1; i <= rulesTable.MaxN(); i++ {
			if marker, ok := rulesTable.RawGetInt(i).(*lua.LTable); ok {
				if id := getString(marker, "__rule_id"); id != "" {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids
}

// markScopedRules updates raw rules in the collector to set their scope.
func markScopedRules(coll *collector, ruleIDs []string, scope string) {
	idSet := map[string]bool{}
	for _, id := range ruleIDs {
		idSet[id] = true
	}
	for i := range coll.rules {
		if idSet[coll.rules[i].id] {
			coll.rules[i].scope = scope
		}
	}
}

// sortedLuaFiles returns .lua files with game.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
