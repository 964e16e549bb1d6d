package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// rawDef holds a named definition table before compilation.
type rawDef struct {
	id    string
	table *lua.LTable
}

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

// named returns a curried constructor: Name "id" { ... }.
func named(L *lua.LState, add func(rawDef)) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			add(rawDef{id: id, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	})
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", starting = Materials(10, 10, 10), ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		coll.game = L.CheckTable(1)
		return 0
	}))

	// Map { "E###R", "....." }
	L.SetGlobal("Map", L.NewFunction(func(L *lua.LState) int {
		if coll.mapRows != nil {
			coll.errs = append(coll.errs, "Map{} defined more than once")
		}
		coll.mapRows = L.CheckTable(1)
		return 0
	}))

	// Tower "id" { name = "...", levels = { Level{...}, ... } }
	L.SetGlobal("Tower", named(L, func(d rawDef) { coll.towers = append(coll.towers, d) }))

	// Creature "id" { health = 30, speed = 1, reward = Materials(1, 0, 0) }
	L.SetGlobal("Creature", named(L, func(d rawDef) { coll.creatures = append(coll.creatures, d) }))

	// Wave "name" { interval = 8, Group("goblin", 6), ... }
	L.SetGlobal("Wave", named(L, func(d rawDef) { coll.waves = append(coll.waves, d) }))

	// Ambient { "goblin", "wyvern" }
	L.SetGlobal("Ambient", L.NewFunction(func(L *lua.LState) int {
		coll.ambient = L.CheckTable(1)
		return 0
	}))
}

func registerHelpers(L *lua.LState) {
	// Materials(wood, stone, crystal)
	L.SetGlobal("Materials", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("wood", L.OptNumber(1, 0))
		tbl.RawSetString("stone", L.OptNumber(2, 0))
		tbl.RawSetString("crystal", L.OptNumber(3, 0))
		L.Push(tbl)
		return 1
	}))

	// Level { label = "I", damage = 10, ... } returns its table.
	L.SetGlobal("Level", L.NewFunction(func(L *lua.LState) int {
		L.Push(L.CheckTable(1))
		return 1
	}))

	// Group("blueprint", count, { health = 1.2, ... })
	L.SetGlobal("Group", L.NewFunction(func(L *lua.LState) int {
		tbl := L.OptTable(3, L.NewTable())
		tbl.RawSetString("blueprint", lua.LString(L.CheckString(1)))
		tbl.RawSetString("count", L.OptNumber(2, 1))
		L.Push(tbl)
		return 1
	}))
}
