package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/logger"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	game      *lua.LTable
	mapRows   *lua.LTable
	towers    []rawDef
	creatures []rawDef
	waves     []rawDef
	ambient   *lua.LTable
	errs      []string
}

// Load reads all .lua files from dir, compiles them into game definitions,
// validates them and returns the immutable Defs. Sections a game leaves out
// are filled from the built-in catalog. The Lua VM is discarded after
// loading.
func Load(dir string) (*catalog.Defs, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading game directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}

	// game.lua first, rest alphabetical.
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	defs, err := compile(coll)
	if err != nil {
		return nil, fmt.Errorf("compiling game data: %w", err)
	}
	defs.FillDefaults()

	if err := validate(defs); err != nil {
		return nil, err
	}
	logger.Log.WithFields(logrus.Fields{
		"dir":       dir,
		"files":     len(luaFiles),
		"towers":    len(defs.Towers),
		"creatures": len(defs.Creatures),
		"waves":     len(defs.Waves),
	}).Info("game loaded")
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
