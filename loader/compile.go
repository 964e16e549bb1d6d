// Package loader loads Lua game content into Go structs at startup.
// The Lua VM is discarded after loading; nothing runs Lua during play.
package loader

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/types"
)

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getOptBool returns a bool field, or nil if missing.
func getOptBool(tbl *lua.LTable, key string) *bool {
	if b, ok := tbl.RawGetString(key).(lua.LBool); ok {
		v := bool(b)
		return &v
	}
	return nil
}

// getNumber returns a numeric field from a Lua table, or 0 if missing.
func getNumber(tbl *lua.LTable, key string) float64 {
	if n, ok := tbl.RawGetString(key).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	return int(getNumber(tbl, key))
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}

// stringList reads the array part of tbl as strings.
func stringList(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableList reads the array part of tbl as tables.
func tableList(tbl *lua.LTable) []*lua.LTable {
	if tbl == nil {
		return nil
	}
	var out []*lua.LTable
	for i := 1; i <= tbl.MaxN(); i++ {
		if t, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, t)
		}
	}
	return out
}

// getMaterials reads a {wood, stone, crystal} field.
func getMaterials(tbl *lua.LTable, key string) (types.Materials, bool) {
	t := getTable(tbl, key)
	if t == nil {
		return types.Materials{}, false
	}
	return types.Materials{
		Wood:    getInt(t, "wood"),
		Stone:   getInt(t, "stone"),
		Crystal: getInt(t, "crystal"),
	}, true
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*catalog.Defs, error) {
	if len(coll.errs) > 0 {
		return nil, errors.New(strings.Join(coll.errs, "; "))
	}
	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}

	defs := &catalog.Defs{
		Game:      compileGame(coll.game),
		Towers:    map[string]types.TowerArchetype{},
		Creatures: map[string]types.CreatureBlueprint{},
	}
	if coll.mapRows != nil {
		defs.Map = types.MapDef{Rows: stringList(coll.mapRows)}
	}

	for _, raw := range coll.towers {
		a := compileTower(raw)
		if _, dup := defs.Towers[a.ID]; dup {
			return nil, fmt.Errorf("duplicate tower %q", a.ID)
		}
		defs.Towers[a.ID] = a
		defs.TowerOrder = append(defs.TowerOrder, a.ID)
	}

	for _, raw := range coll.creatures {
		bp := compileCreature(raw)
		if _, dup := defs.Creatures[bp.ID]; dup {
			return nil, fmt.Errorf("duplicate creature %q", bp.ID)
		}
		defs.Creatures[bp.ID] = bp
	}

	for _, raw := range coll.waves {
		defs.Waves = append(defs.Waves, compileWave(raw))
	}

	for _, id := range stringList(coll.ambient) {
		defs.Ambient = append(defs.Ambient, catalog.NormalizeID(id))
	}
	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	g := types.GameDef{
		Title:         getString(tbl, "title"),
		Author:        getString(tbl, "author"),
		Version:       getString(tbl, "version"),
		Intro:         getString(tbl, "intro"),
		ResourceUnits: getInt(tbl, "resource_units"),
		MazeMode:      getOptBool(tbl, "maze_mode"),
	}
	if m, ok := getMaterials(tbl, "starting"); ok {
		g.Starting = &m
	}
	return g
}

func compileTower(raw rawDef) types.TowerArchetype {
	tbl := raw.table
	a := types.TowerArchetype{
		ID:        catalog.NormalizeID(raw.id),
		Name:      getString(tbl, "name"),
		Targeting: types.TargetingMode(strings.ToLower(getString(tbl, "targeting"))),
		Effect:    types.AttackEffect(strings.ToLower(getString(tbl, "effect"))),
		Color:     getString(tbl, "color"),
	}
	if a.Name == "" {
		a.Name = raw.id
	}
	if a.Targeting == "" {
		a.Targeting = types.TargetNearest
	}
	if a.Effect == "" {
		a.Effect = types.EffectDirect
	}
	for i, lt := range tableList(getTable(tbl, "levels")) {
		l := types.TowerLevel{
			Label:    getString(lt, "label"),
			Damage:   getInt(lt, "damage"),
			Range:    getNumber(lt, "range"),
			FireRate: getInt(lt, "fire_rate"),
		}
		if l.Label == "" {
			l.Label = fmt.Sprintf("%d", i+1)
		}
		l.BuildCost, _ = getMaterials(lt, "build")
		l.UpgradeCost, _ = getMaterials(lt, "upgrade")
		a.Levels = append(a.Levels, l)
	}
	return a
}

func compileCreature(raw rawDef) types.CreatureBlueprint {
	tbl := raw.table
	bp := types.CreatureBlueprint{
		ID:        catalog.NormalizeID(raw.id),
		Name:      getString(tbl, "name"),
		MaxHealth: getInt(tbl, "health"),
		Speed:     getNumber(tbl, "speed"),
		Armor:     getInt(tbl, "armor"),
		Shield:    getInt(tbl, "shield"),
		Behaviors: stringList(getTable(tbl, "behaviors")),
	}
	if bp.Name == "" {
		bp.Name = raw.id
	}
	if f := getOptBool(tbl, "flying"); f != nil {
		bp.Flying = *f
	}
	bp.Reward, _ = getMaterials(tbl, "reward")
	bp.Theft, _ = getMaterials(tbl, "theft")
	return bp
}

// compileWave reads groups from a groups = {...} field, or from the array
// part of the wave table when that field is absent.
func compileWave(raw rawDef) types.WaveDefinition {
	tbl := raw.table
	w := types.WaveDefinition{
		Name:             raw.id,
		SpawnInterval:    getInt(tbl, "interval"),
		InitialDelay:     getInt(tbl, "delay"),
		RewardMultiplier: getNumber(tbl, "reward_multiplier"),
	}
	groups := getTable(tbl, "groups")
	if groups == nil {
		groups = tbl
	}
	for _, gt := range tableList(groups) {
		w.Groups = append(w.Groups, types.EnemyGroupDefinition{
			Blueprint:        catalog.NormalizeID(getString(gt, "blueprint")),
			Count:            getInt(gt, "count"),
			HealthModifier:   getNumber(gt, "health"),
			SpeedModifier:    getNumber(gt, "speed"),
			RewardMultiplier: getNumber(gt, "reward"),
			SpawnInterval:    getInt(gt, "interval"),
			ArmorBonus:       getInt(gt, "armor_bonus"),
			ShieldBonus:      getInt(gt, "shield_bonus"),
			FlyingOverride:   getOptBool(gt, "flying"),
			ExtraBehaviors:   stringList(getTable(gt, "behaviors")),
		})
	}
	return w
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
