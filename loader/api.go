package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
	registerEffectHelpers(L)
}

// curried returns a global like Item "id" { ... }: the first call takes the
// id and returns a function that takes the body table.
func curried(L *lua.LState, kind string, coll *collector) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			switch kind {
			case "item":
				coll.items = append(coll.items, rawDef{id: id, table: tbl})
			case "actor":
				coll.actors = append(coll.actors, rawDef{id: id, table: tbl})
			}
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", width = 12, height = 12, year = 1224, walls = {...} }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Item "id" { ... }
	L.SetGlobal("Item", curried(L, "item", coll))

	// Actor "id" { ... }
	L.SetGlobal("Actor", curried(L, "actor", coll))

	// Grave { at = {x, y}, name = "...", race = "human", age = 70, died = 1190 }
	L.SetGlobal("Grave", L.NewFunction(func(L *lua.LState) int {
		coll.graves = append(coll.graves, L.CheckTable(1))
		return 0
	}))

	// Rule("id", when, conditions, then) or Rule("id", when, then).
	// Returns a marker table so items and actors can scope the rule.
	L.SetGlobal("Rule", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		when := L.CheckTable(2)

		var conditions, thenTbl *lua.LTable
		if L.Get(4) != lua.LNil {
			if t, ok := L.Get(3).(*lua.LTable); ok {
				conditions = t
			}
			thenTbl = L.CheckTable(4)
		} else {
			thenTbl = L.CheckTable(3)
		}

		coll.rules = append(coll.rules, rawRule{
			id:         id,
			when:       when,
			conditions: conditions,
			then:       thenTbl,
			scope:      "global",
			order:      coll.nextSourceOrder(),
		})

		marker := L.NewTable()
		marker.RawSetString("__rule_id", lua.LString(id))
		L.Push(marker)
		return 1
	}))

	// On("event_type", { conditions = {...}, effects = {...} })
	L.SetGlobal("On", L.NewFunction(func(L *lua.LState) int {
		eventType := L.CheckString(1)
		tbl := L.CheckTable(2)
		coll.handlers = append(coll.handlers, rawHandler{eventType: eventType, table: tbl})
		return 0
	}))

	// When and Then are pass-through for readability.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
	L.SetGlobal("Then", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))
}

// tagged builds a { type = typ, k1 = v1, ... } table.
func tagged(L *lua.LState, typ string, kv ...any) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(typ))
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		switch v := kv[i+1].(type) {
		case lua.LValue:
			tbl.RawSetString(key, v)
		case string:
			tbl.RawSetString(key, lua.LString(v))
		}
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// Holding("item") / Holding("item", "actor")
	L.SetGlobal("Holding", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "holding", "item", L.CheckString(1))
		if actor := L.OptString(2, ""); actor != "" {
			tbl.RawSetString("actor", lua.LString(actor))
		}
		L.Push(tbl)
		return 1
	}))

	// HasQuality("dig")
	L.SetGlobal("HasQuality", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "has_quality", "quality", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("FlagSet", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "flag_set", "flag", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "flag_not", "flag", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("FlagIs", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "flag_is", "flag", L.CheckString(1), "value", lua.LBool(L.CheckBool(2))))
		return 1
	}))

	L.SetGlobal("CounterGt", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "counter_gt", "counter", L.CheckString(1), "value", L.CheckNumber(2)))
		return 1
	}))

	L.SetGlobal("CounterLt", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "counter_lt", "counter", L.CheckString(1), "value", L.CheckNumber(2)))
		return 1
	}))

	// At(x, y): the player stands on the tile.
	L.SetGlobal("At", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "at", "x", L.CheckNumber(1), "y", L.CheckNumber(2)))
		return 1
	}))

	// Near("actor") / Near("actor", distance)
	L.SetGlobal("Near", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "near", "other", L.CheckString(1))
		if L.GetTop() >= 2 {
			tbl.RawSetString("distance", L.CheckNumber(2))
		}
		L.Push(tbl)
		return 1
	}))

	// Alive() / Alive("actor")
	L.SetGlobal("Alive", L.NewFunction(func(L *lua.LState) int {
		tbl := tagged(L, "alive")
		if actor := L.OptString(1, ""); actor != "" {
			tbl.RawSetString("actor", lua.LString(actor))
		}
		L.Push(tbl)
		return 1
	}))

	L.SetGlobal("TurnAtLeast", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "turn_at_least", "turn", L.CheckNumber(1)))
		return 1
	}))

	L.SetGlobal("Not", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "not", "inner", L.CheckTable(1)))
		return 1
	}))
}

func registerEffectHelpers(L *lua.LState) {
	L.SetGlobal("Say", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "say", "text", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("SetFlag", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "set_flag", "flag", L.CheckString(1), "value", lua.LBool(L.CheckBool(2))))
		return 1
	}))

	L.SetGlobal("IncCounter", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "inc_counter", "counter", L.CheckString(1), "amount", L.CheckNumber(2)))
		return 1
	}))

	L.SetGlobal("SetCounter", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "set_counter", "counter", L.CheckString(1), "value", L.CheckNumber(2)))
		return 1
	}))

	L.SetGlobal("EmitEvent", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "emit_event", "event", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("StartDialogue", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "start_dialogue", "npc", L.CheckString(1)))
		return 1
	}))

	L.SetGlobal("Stop", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "stop"))
		return 1
	}))

	// MoveActor("actor", x, y)
	L.SetGlobal("MoveActor", L.NewFunction(func(L *lua.LState) int {
		to := L.NewTable()
		to.RawSetString("x", L.CheckNumber(2))
		to.RawSetString("y", L.CheckNumber(3))
		L.Push(tagged(L, "move_actor", "actor", L.CheckString(1), "to", to))
		return 1
	}))

	// PickUp("item"), Drop("item") and Wear("item") act for the acting
	// actor; "{object}" names the item in the command.
	for name, typ := range map[string]string{"PickUp": "pick_up", "Drop": "drop", "Wear": "wear"} {
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			L.Push(tagged(L, typ, "item", L.OptString(1, "{object}")))
			return 1
		}))
	}

	L.SetGlobal("SwapHands", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "swap_hands"))
		return 1
	}))

	L.SetGlobal("SwitchHand", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "switch_hand"))
		return 1
	}))

	// Hit("target", damage) wounds a random part of the target.
	L.SetGlobal("Hit", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "hit", "target", L.CheckString(1), "damage", L.CheckNumber(2)))
		return 1
	}))

	L.SetGlobal("Dig", L.NewFunction(func(L *lua.LState) int {
		L.Push(tagged(L, "dig"))
		return 1
	}))
}
