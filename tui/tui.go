package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/loader"
	"github.com/nathoo/towercore/types"
)

// DefaultInterval is the real-time length of one tick while auto-running.
const DefaultInterval = 250 * time.Millisecond

// Options configures a TUI session.
type Options struct {
	// GameDir is the Lua directory /reload reads; empty for the built-in catalog.
	GameDir string
	// Watcher, when set, reloads the catalog whenever a .lua file changes.
	Watcher *loader.Watcher
	// Interval between ticks while running. Zero means DefaultInterval.
	Interval time.Duration
	// AutoRun starts the clock immediately.
	AutoRun bool
}

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the TowerCore TUI.
type Model struct {
	engine  *engine.Engine
	gameDir string
	watcher *loader.Watcher

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated log lines (unstyled, for re-wrapping)

	width     int
	height    int
	ready     bool
	trace     bool
	quitting  bool
	showRoute bool
	lastCmd   string

	running  bool
	interval time.Duration
	tickGen  int // bumped on every resume so stale tick chains die out
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg advances the clock; gen must match the model's tickGen.
type tickMsg struct{ gen int }

// fileChangedMsg reports a modified .lua file in the game directory.
type fileChangedMsg struct{ name string }

type watchErrMsg struct{ err error }

type watchClosedMsg struct{}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return Model{
		engine:    eng,
		gameDir:   opts.GameDir,
		watcher:   opts.Watcher,
		input:     ti,
		history:   NewHistory(100),
		showRoute: true,
		running:   opts.AutoRun,
		interval:  interval,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, opts Options) error {
	m := New(eng, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial commands: cursor blink, intro text, the clock
// and the file watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.initialOutput(), m.waitForChange()}
	if m.running {
		cmds = append(cmds, m.scheduleTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) initialOutput() tea.Cmd {
	game := m.engine.Defs.Game
	return func() tea.Msg {
		var lines []string
		header := game.Title
		if game.Version != "" {
			header += " v" + game.Version
		}
		if game.Author != "" {
			header += " by " + game.Author
		}
		lines = append(lines, header, "")
		if game.Intro != "" {
			lines = append(lines, game.Intro, "")
		}
		lines = append(lines, "Type help for commands, /help for controls.")
		return gameOutputMsg{lines: lines}
	}
}

func (m Model) scheduleTick() tea.Cmd {
	gen := m.tickGen
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// waitForChange blocks on the watcher and turns its next notification
// into a message. It returns nil when there is no watcher.
func (m Model) waitForChange() tea.Cmd {
	w := m.watcher
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case name, ok := <-w.Events:
			if !ok {
				return watchClosedMsg{}
			}
			return fileChangedMsg{name: name}
		case err, ok := <-w.Errors:
			if !ok {
				return watchClosedMsg{}
			}
			return watchErrMsg{err: err}
		}
	}
}

// Update handles messages (key presses, window resize, clock, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "ctrl+p":
			return m.toggleRunning()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case tickMsg:
		if !m.running || msg.gen != m.tickGen {
			return m, nil
		}
		result := m.engine.Advance(1)
		if len(result.Output) > 0 {
			m = m.appendOutput(gameOutputMsg{lines: result.Output})
		}
		if m.engine.IsOver() {
			m.running = false
			return m, nil
		}
		return m, m.scheduleTick()

	case fileChangedMsg:
		m = m.appendOutput(gameOutputMsg{lines: m.reload(), isSystem: true})
		return m, m.waitForChange()

	case watchErrMsg:
		m = m.appendOutput(gameOutputMsg{lines: []string{fmt.Sprintf("Watch error: %v", msg.err)}, isSystem: true})
		return m, m.waitForChange()

	case watchClosedMsg:
		m.watcher = nil
		return m, nil

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// resize lays out the log viewport beside the board.
func (m *Model) resize() {
	vpHeight := m.height - 2 // 1 status bar + 1 input line
	if vpHeight < 1 {
		vpHeight = 1
	}
	vpWidth := m.width - lipgloss.Width(m.boardView()) - 1
	if vpWidth < 20 {
		vpWidth = 20
	}

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.viewport.KeyMap = viewportKeyMap()
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.refreshViewport()
}

func (m Model) toggleRunning() (tea.Model, tea.Cmd) {
	if m.running {
		m.running = false
		return m.appendOutput(gameOutputMsg{lines: []string{"Paused."}, isSystem: true}), nil
	}
	if m.engine.IsOver() {
		return m.appendOutput(gameOutputMsg{lines: []string{"The game is over."}, isSystem: true}), nil
	}
	m.running = true
	m.tickGen++
	m = m.appendOutput(gameOutputMsg{lines: []string{fmt.Sprintf("Running, one tick every %s.", m.interval)}, isSystem: true})
	return m, m.scheduleTick()
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		return m.handleMeta(input)
	}

	// Game command.
	result := m.engine.Step(input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	if m.running && m.engine.IsOver() {
		m.running = false
	}
	return m, nil
}

// appendOutput adds lines to the log and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		// Multi-line output such as the map keeps its rows.
		for _, part := range strings.Split(line, "\n") {
			rl := rawLine{text: part, isSystem: msg.isSystem}
			if !msg.isSystem {
				rl.kind = classifyLine(part)
			}
			m.rawLines = append(m.rawLines, rl)
		}
	}

	// Blank line separator between commands; clock output stays compact.
	if msg.input != "" || msg.isSystem {
		m.rawLines = append(m.rawLines, rawLine{})
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, stylePlayerInput.Render(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindReward:
		return styleReward.Render(line)
	case kindAlarm:
		return styleAlarm.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarrative.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Lines without spaces, such as map rows, are left alone.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var result strings.Builder
	words := strings.Fields(text)
	lineLen := 0

	for i, word := range words {
		wLen := len(word)

		if i == 0 {
			result.WriteString(word)
			lineLen = wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// boardView renders the board with the tower legend underneath.
func (m Model) boardView() string {
	defs := m.engine.Defs
	return lipgloss.JoinVertical(lipgloss.Left,
		renderBoard(m.engine.Snapshot(), defs, m.showRoute),
		renderLegend(defs),
	)
}

// View renders the full TUI layout: board and log side by side, then the
// status bar and the input line.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.boardView(), " ", m.viewport.View())
	return body + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands.
func (m Model) handleMeta(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	system := func(lines ...string) Model {
		return m.appendOutput(gameOutputMsg{input: input, lines: lines, isSystem: true})
	}

	switch cmd {
	case "/quit", "/exit":
		m = system("Goodbye.")
		m.quitting = true
		return m, tea.Quit

	case "/help":
		return system(cmdHelp()...), nil

	case "/state":
		return system(m.cmdState()...), nil

	case "/reload":
		return system(m.reload()...), nil

	case "/route":
		m.showRoute = !m.showRoute
		if m.showRoute {
			return system("Route overlay on."), nil
		}
		return system("Route overlay off."), nil

	case "/run":
		if arg != "" {
			ms, err := strconv.Atoi(arg)
			if err != nil || ms <= 0 {
				return system(fmt.Sprintf("Bad interval %q: want milliseconds.", arg)), nil
			}
			m.interval = time.Duration(ms) * time.Millisecond
		}
		if m.running {
			return system(fmt.Sprintf("Running, one tick every %s.", m.interval)), nil
		}
		return m.toggleRunning()

	case "/pause":
		if !m.running {
			return system("Already paused."), nil
		}
		return m.toggleRunning()

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return system("Trace output enabled."), nil
		}
		return system("Trace output disabled."), nil

	default:
		return system(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)), nil
	}
}

// reload re-reads the game directory and swaps the engine's catalog.
func (m Model) reload() []string {
	if m.gameDir == "" {
		return []string{"Nothing to reload: the game uses the built-in catalog."}
	}
	defs, err := loader.Load(m.gameDir)
	if err != nil {
		return []string{fmt.Sprintf("Reload failed: %v", err)}
	}
	if err := m.engine.ReloadCatalog(defs); err != nil {
		return []string{fmt.Sprintf("Reload failed: %v", err)}
	}
	m.engine.DrainEvents()
	return []string{fmt.Sprintf("Reloaded %d tower(s), %d creature(s), %d wave(s).",
		len(defs.Towers), len(defs.Creatures), len(defs.Waves))}
}

func cmdHelp() []string {
	return []string{
		"System:",
		"  /run [ms]   Start the clock (optionally set the tick length)",
		"  /pause      Stop the clock (Ctrl+P toggles)",
		"  /route      Toggle the route overlay",
		"  /reload     Reload the game directory",
		"  /state      Debug: dump current state",
		"  /trace      Toggle debug trace output",
		"  /quit       Exit game",
		"  again (g)   Repeat your last command",
		"",
		"Type help for game commands.",
		"Navigation: PgUp/PgDn to scroll, Up/Down for command history",
	}
}

func (m Model) cmdState() []string {
	s := m.engine.Snapshot()
	return []string{
		fmt.Sprintf("Game: %s", s.ID),
		fmt.Sprintf("Seed: %d (rng position %d)", m.engine.RNG.Seed(), m.engine.RNG.Position()),
		fmt.Sprintf("Tick: %d", s.Tick),
		fmt.Sprintf("Materials: %s", s.Materials),
		fmt.Sprintf("Crystal: %d/%d", s.ResourceUnits, s.MaxUnits),
		fmt.Sprintf("Wave: %d/%d (pending %d)", s.Wave, s.TotalWaves, s.PendingWaves),
		fmt.Sprintf("Towers: %d  Creatures: %d", len(s.Towers), len(s.Creatures)),
	}
}

func formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
