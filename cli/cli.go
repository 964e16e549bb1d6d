// Package cli provides the line-oriented command shell, script playback
// and meta-command dispatch for the TowerCore engine.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/catalog"
	"github.com/nathoo/towercore/loader"
	"github.com/nathoo/towercore/logger"
	"github.com/nathoo/towercore/types"
)

// CLI handles terminal interaction with the player.
type CLI struct {
	Engine    *engine.Engine
	Defs      *catalog.Defs
	In        io.Reader
	Out       io.Writer
	Trace     bool
	EchoInput bool // echo each input line after the prompt (for script playback)

	// GameDir is the Lua directory /reload reads. Empty means the game
	// came from the built-in catalog.
	GameDir string
	// Watcher, when set, triggers a reload before the next command after
	// any .lua file in GameDir changes.
	Watcher *loader.Watcher

	lastCmd string // for "again"/"g" repeat
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine, defs *catalog.Defs) *CLI {
	return &CLI{
		Engine: eng,
		Defs:   defs,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the command loop. It shows the intro and the map, then loops:
// prompt, input, dispatch, output.
func (c *CLI) Run() {
	if c.Defs.Game.Intro != "" {
		c.printLine(c.Defs.Game.Intro)
		c.printLine("")
	}
	c.printResult(c.Engine.Step("show"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		c.pollWatcher()

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		// "again" / "g" repeats the last game command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the session should end.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/reload":
		c.reload()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// pollWatcher drains pending file-change notifications without blocking and
// reloads once if anything changed.
func (c *CLI) pollWatcher() {
	if c.Watcher == nil {
		return
	}
	changed := false
	for done := false; !done; {
		select {
		case name, ok := <-c.Watcher.Events:
			if !ok {
				c.Watcher = nil
				done = true
				break
			}
			logger.Log.WithField("file", name).Debug("game file changed")
			changed = true
		case err, ok := <-c.Watcher.Errors:
			if !ok {
				c.Watcher = nil
				done = true
				break
			}
			c.printSystem(fmt.Sprintf("Watch error: %v", err))
		default:
			done = true
		}
	}
	if changed {
		c.reload()
	}
}

// reload re-reads GameDir and swaps the engine's catalog.
func (c *CLI) reload() {
	if c.GameDir == "" {
		c.printSystem("Nothing to reload: the game uses the built-in catalog.")
		return
	}
	defs, err := loader.Load(c.GameDir)
	if err != nil {
		c.printSystem(fmt.Sprintf("Reload failed: %v", err))
		return
	}
	if err := c.Engine.ReloadCatalog(defs); err != nil {
		c.printSystem(fmt.Sprintf("Reload failed: %v", err))
		return
	}
	c.Defs = c.Engine.Defs
	c.printSystem(fmt.Sprintf("Reloaded %d tower(s), %d creature(s), %d wave(s).",
		len(defs.Towers), len(defs.Creatures), len(defs.Waves)))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /quit         Exit game",
		"  /help         Show this help",
		"  /state        Debug: dump current state",
		"  /reload       Reload towers, creatures and waves from the game directory",
		"  /trace        Toggle debug trace output",
		"  again (g)     Repeat your last command",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	c.printResult(c.Engine.Step("help"))
}

func (c *CLI) cmdState() {
	s := c.Engine.Snapshot()
	c.printSystem(fmt.Sprintf("Game: %s", s.ID))
	c.printSystem(fmt.Sprintf("Seed: %d (rng position %d)", c.Engine.RNG.Seed(), c.Engine.RNG.Position()))
	c.printSystem(fmt.Sprintf("Tick: %d", s.Tick))
	c.printSystem(fmt.Sprintf("Materials: %s", s.Materials))
	c.printSystem(fmt.Sprintf("Crystal: %d/%d", s.ResourceUnits, s.MaxUnits))
	c.printSystem(fmt.Sprintf("Wave: %d/%d (pending %d)", s.Wave, s.TotalWaves, s.PendingWaves))
	c.printSystem(fmt.Sprintf("Towers: %d  Creatures: %d", len(s.Towers), len(s.Creatures)))
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %s", e.Type, formatData(e.Data)))
	}
}

// formatData renders event data with sorted keys so traces are stable.
func formatData(data map[string]any) string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, data[k])
	}
	return strings.Join(parts, " ")
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
