// TowerCore is a deterministic, tick-driven tower-defense engine.
// Usage: towercore [--version] [--plain] [--script <file>] [--trace] [--config <file>]
//
//	[--seed <n>] [--random <preset>] [--watch] [--run] [game_directory]
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/nathoo/towercore/cli"
	"github.com/nathoo/towercore/config"
	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/engine/mapgen"
	"github.com/nathoo/towercore/loader"
	"github.com/nathoo/towercore/logger"
	"github.com/nathoo/towercore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: towercore [--version] [--plain] [--script <file>] [--trace] [--config <file>] " +
	"[--seed <n>] [--random <preset>] [--watch] [--run] [game_directory]"

func main() {
	plain := false
	trace := false
	watch := false
	autoRun := false
	var gameDir, scriptFile, configFile, preset string
	var seed *int64

	args := os.Args[1:]
	// value returns the argument after flag or exits.
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("towercore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--help", "-h":
			fmt.Println(usage)
			printPresets(os.Stdout)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--watch":
			watch = true
		case "--run":
			autoRun = true
		case "--script":
			scriptFile = value(&i, "--script")
		case "--config":
			configFile = value(&i, "--config")
		case "--random":
			preset = value(&i, "--random")
		case "--seed":
			n, err := strconv.ParseInt(value(&i, "--seed"), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed: %v\n", err)
				os.Exit(1)
			}
			seed = &n
		default:
			if strings.HasPrefix(args[i], "--") {
				fmt.Fprintf(os.Stderr, "unknown flag %s\n%s\n", args[i], usage)
				os.Exit(1)
			}
			if gameDir == "" {
				gameDir = args[i]
			}
		}
	}

	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if seed != nil {
		cfg.Engine.Seed = *seed
	}

	interactive := scriptFile == "" && !plain && isTerminal()
	// Log lines would tear the full-screen UI; keep them off the terminal.
	if interactive && cfg.Log.File == "" {
		cfg.Log.File = "-"
	}
	closer, err := logger.Init(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	// Load Lua game content, or fall back to the built-in catalog.
	defs := catalog.Default()
	if gameDir != "" {
		if defs, err = loader.Load(gameDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
			os.Exit(1)
		}
	}

	if preset != "" {
		p, ok := mapgen.ParsePreset(preset)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown map preset %q\n", preset)
			printPresets(os.Stderr)
			os.Exit(1)
		}
		defs.Map.Rows = mapgen.Generate(p, engine.NewRNG(cfg.Engine.Seed))
	}

	eng, err := engine.New(defs, cfg.Engine)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting game: %v\n", err)
		os.Exit(1)
	}

	var watcher *loader.Watcher
	if watch {
		if gameDir == "" {
			fmt.Fprintln(os.Stderr, "--watch needs a game directory")
			os.Exit(1)
		}
		if watcher, err = loader.NewWatcher(gameDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error watching %s: %v\n", gameDir, err)
			os.Exit(1)
		}
		defer watcher.Close()
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(defs)
		c := newCLI(eng, defs, gameDir, watcher, trace)
		c.In = f
		c.EchoInput = true
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if !interactive {
		printBanner(defs)
		newCLI(eng, defs, gameDir, watcher, trace).Run()
		return
	}

	opts := tui.Options{GameDir: gameDir, Watcher: watcher, AutoRun: autoRun}
	if err := tui.Run(eng, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(eng *engine.Engine, defs *catalog.Defs, gameDir string, w *loader.Watcher, trace bool) *cli.CLI {
	c := cli.New(eng, defs)
	c.GameDir = gameDir
	c.Watcher = w
	c.Trace = trace
	return c
}

func printBanner(defs *catalog.Defs) {
	fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
}

func printPresets(w io.Writer) {
	fmt.Fprintln(w, "Map presets:")
	for _, p := range mapgen.Presets() {
		fmt.Fprintf(w, "  %-8s %s\n", p.Key, p.Description)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
