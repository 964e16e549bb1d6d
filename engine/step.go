package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/towercore/engine/economy"
	"github.com/nathoo/towercore/engine/parser"
	"github.com/nathoo/towercore/types"
)

// mutating verbs are refused once the game is over.
var mutating = map[string]bool{
	"build": true, "upgrade": true, "sell": true,
	"wave": true, "tick": true, "ability": true,
}

const helpText = `Commands:
  build <tower> <x> <y>   place a tower
  upgrade <x> <y>         upgrade the tower at x,y
  sell <x> <y>            sell the tower at x,y
  wave                    call the next wave
  tick [n]                advance n ticks (default 1)
  ability <name>          use an ability (overdrive)
  show                    draw the map
  status                  materials, crystal and wave
  path                    current route to the crystal
  towers                  tower catalog
  waves [n]               preview upcoming waves
  history                 recent transactions`

// Step processes one text command and returns its output along with the
// events it caused.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	if mutating[intent.Verb] && e.IsOver() {
		result.Output = append(result.Output, e.overMessage())
		return result
	}

	var out []string
	var err error
	switch intent.Verb {
	case "build":
		out, err = e.cmdBuild(intent)
	case "upgrade":
		out, err = e.cmdUpgrade(intent)
	case "sell":
		out, err = e.cmdSell(intent)
	case "wave":
		out = e.cmdWave()
	case "tick":
		out = e.cmdTick(intent)
	case "ability":
		out, err = e.cmdAbility(intent)
	case "show":
		out = []string{e.Snapshot().Render()}
	case "status":
		out = e.statusLines()
	case "path":
		out = e.pathLines()
	case "towers":
		out = e.towerLines()
	case "waves":
		out = e.waveLines(intent)
	case "history":
		out = e.historyLines()
	case "help":
		out = []string{helpText}
	default:
		err = fmt.Errorf("unknown command %q, type help for commands", intent.Verb)
	}

	if err != nil {
		result.Output = append(result.Output, err.Error())
	}
	result.Output = append(result.Output, out...)

	e.collect(&result, mutating[intent.Verb])
	return result
}

// Advance runs up to n ticks without a command line and reports what
// happened. Front ends that play in real time call it from their timer.
func (e *Engine) Advance(n int) types.Result {
	var result types.Result
	if e.IsOver() {
		return result
	}
	e.Run(n)
	e.collect(&result, true)
	return result
}

// collect drains pending events into result and appends the lines a player
// should see. announceEnd adds the end-of-game banner once the game is over.
func (e *Engine) collect(result *types.Result, announceEnd bool) {
	result.Events = e.DrainEvents()
	for _, ev := range result.Events {
		if line := describeEvent(ev); line != "" {
			result.Output = append(result.Output, line)
		}
	}
	if announceEnd && e.IsOver() {
		result.Output = append(result.Output, e.overMessage())
	}
}

func (e *Engine) overMessage() string {
	if e.Won() {
		return "Victory! Every wave has been repelled."
	}
	return "Game over. The crystal has fallen."
}

// position reads x and y from the first two numeric arguments.
func position(intent types.Intent) (types.GridPosition, error) {
	if len(intent.Args) < 2 {
		return types.GridPosition{}, errors.New("expected x and y coordinates")
	}
	return types.GridPosition{X: intent.Args[0], Y: intent.Args[1]}, nil
}

func (e *Engine) cmdBuild(intent types.Intent) ([]string, error) {
	if intent.Object == "" {
		return nil, errors.New("build what? type towers for the catalog")
	}
	p, err := position(intent)
	if err != nil {
		return nil, err
	}
	t, err := e.PlaceTower(intent.Object, p)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Built %s at %s. %s", t.Name(), p, e.Materials())}, nil
}

func (e *Engine) cmdUpgrade(intent types.Intent) ([]string, error) {
	p, err := position(intent)
	if err != nil {
		return nil, err
	}
	t, err := e.UpgradeTower(p)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s at %s is now level %d.", t.Name(), p, t.Level()+1)}, nil
}

func (e *Engine) cmdSell(intent types.Intent) ([]string, error) {
	p, err := position(intent)
	if err != nil {
		return nil, err
	}
	refund, err := e.SellTower(p)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("Sold tower at %s for %s.", p, refund.Short())}, nil
}

func (e *Engine) cmdWave() []string {
	def, ok := e.QueueNextWave()
	if !ok {
		return []string{"No more waves."}
	}
	return []string{fmt.Sprintf("Wave %q is coming: %s", def.Name, e.waves.Summary(def))}
}

func (e *Engine) cmdTick(intent types.Intent) []string {
	n := 1
	if len(intent.Args) > 0 && intent.Args[0] > 0 {
		n = intent.Args[0]
	}
	done := e.Run(n)
	return []string{fmt.Sprintf("Advanced %d tick(s). Tick %d.", done, e.tick)}
}

func (e *Engine) cmdAbility(intent types.Intent) ([]string, error) {
	if intent.Object == "" {
		return nil, errors.New("use which ability?")
	}
	if err := e.UseAbility(intent.Object); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s! All towers are ready to fire.", strings.ToUpper(intent.Object[:1])+intent.Object[1:])}, nil
}

func (e *Engine) statusLines() []string {
	lines := []string{
		fmt.Sprintf("Tick %d | Crystal %d/%d | Wave %d/%d", e.tick, e.resourceUnits, e.opts.ResourceUnits, e.waveIndex, e.waves.Total()),
		e.Materials().String(),
		fmt.Sprintf("Towers: %d | Creatures: %d | Pending waves: %d", len(e.towers), e.activeCount(), len(e.pending)),
	}
	if r, ok := e.econ.UpcomingRequirement(); ok {
		lines = append(lines, fmt.Sprintf("Next goal: %s (%s)", r.Description, r.Cost.Short()))
	}
	if w, ok := e.econ.LastWaveIncome(); ok {
		tag := ""
		if w.Flawless {
			tag += " flawless"
		}
		if w.EarlyCall {
			tag += " early"
		}
		lines = append(lines, fmt.Sprintf("Last wave %d paid %s%s", w.Wave, w.Income.Short(), tag))
	}
	return lines
}

func (e *Engine) pathLines() []string {
	path, ok := e.EntryPath()
	if !ok {
		return []string{"No open route to the crystal."}
	}
	cells := make([]string, len(path))
	for i, p := range path {
		cells[i] = p.String()
	}
	return []string{fmt.Sprintf("Route (%d cells): %s", len(path), strings.Join(cells, " "))}
}

func (e *Engine) towerLines() []string {
	var lines []string
	for _, a := range e.Defs.Archetypes() {
		l := a.Levels[0]
		lines = append(lines, fmt.Sprintf("%-14s %-16s dmg %d rng %.1f rate %d  %s [%s]",
			a.ID, a.Name, l.Damage, l.Range, l.FireRate, l.BuildCost.Short(), a.Effect))
	}
	if len(lines) == 0 {
		return []string{"No towers available."}
	}
	return lines
}

func (e *Engine) waveLines(intent types.Intent) []string {
	n := 3
	if len(intent.Args) > 0 && intent.Args[0] > 0 {
		n = intent.Args[0]
	}
	defs := e.waves.Upcoming(n)
	if len(defs) == 0 {
		return []string{"No more waves."}
	}
	lines := make([]string, len(defs))
	for i, def := range defs {
		lines[i] = fmt.Sprintf("%d. %s: %s", e.waves.Next()+i+1, def.Name, e.waves.Summary(def))
	}
	return lines
}

func (e *Engine) historyLines() []string {
	txs := e.econ.Transactions()
	if len(txs) == 0 {
		return []string{"No transactions yet."}
	}
	lines := make([]string, len(txs))
	for i, tx := range txs {
		sign := "+"
		switch tx.Kind {
		case economy.Spend, economy.Theft, economy.Ability:
			sign = "-"
		}
		lines[i] = fmt.Sprintf("%-8s %s%s  %s", tx.Kind, sign, tx.Delta.Short(), tx.Description)
	}
	return lines
}

// describeEvent renders the events a player should see. Spawns and queue
// bookkeeping stay silent.
func describeEvent(ev types.Event) string {
	d := ev.Data
	switch ev.Type {
	case EventCreatureKilled:
		return fmt.Sprintf("%v was slain by %v.", d["type"], d["by"])
	case EventBreach:
		return fmt.Sprintf("A %v breached the crystal and stole %v! %v units remain.", d["type"], d["stolen"], d["units"])
	case EventCreatureExited:
		return fmt.Sprintf("A %v escaped with its loot.", d["type"])
	case EventTowerDestroyed:
		return fmt.Sprintf("A %v destroyed the %v at (%v,%v)!", d["by"], d["type"], d["x"], d["y"])
	case EventWaveComplete:
		return fmt.Sprintf("Wave %v fully deployed. Income %v.", d["wave"], d["income"])
	case EventCatalogReloaded:
		return "Catalog reloaded."
	}
	return ""
}
