package minesweeper

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/herbhall/topomines/internal/board"
	"github.com/herbhall/topomines/internal/config"
	"github.com/herbhall/topomines/internal/topology"
)

type phase int

const (
	phaseMenu phase = iota
	phaseGenerating
	phasePlaying
	phaseGameOver
)

type progressMsg struct{ attempt int }
type generatedMsg struct{ err error }

// Model is the Bubbletea model hosting one Game: a difficulty/topology
// picker, a generation-progress screen, and the playing grid.
type Model struct {
	game     *Game
	cursor   int
	width    int
	height   int
	phase    phase
	done     bool
	message  string
	preset   config.Preset
	topoKind topology.Kind
	attempts int
	rng      *rand.Rand
	updates  chan tea.Msg
	cancel   context.CancelFunc
}

// New creates a fresh model at the preset-selection screen.
func New() Model {
	return Model{
		phase:    phaseMenu,
		preset:   config.Beginner,
		topoKind: topology.Square,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0xC0FFEE)),
	}
}

// Done reports whether the player wants to exit the program.
func (m Model) Done() bool { return m.done }

// Init returns nil; no initial command needed.
func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case progressMsg:
		m.attempts = msg.attempt
		return m, m.waitForGeneration()

	case generatedMsg:
		if msg.err != nil {
			m.message = msg.err.Error()
			m.phase = phaseMenu
			return m, nil
		}
		m.cursor = m.game.StartIdx
		m.phase = phasePlaying
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			m.done = true
			return m, tea.Quit
		}
		switch m.phase {
		case phaseMenu:
			return m.updateMenu(key)
		case phaseGenerating:
			return m, nil
		case phasePlaying:
			return m.updatePlaying(key)
		case phaseGameOver:
			return m.updateGameOver(key)
		}
	}
	return m, nil
}

func (m Model) updateMenu(key string) (tea.Model, tea.Cmd) {
	presets := config.Presets()
	switch key {
	case "1", "2", "3", "4":
		idx := int(key[0] - '1')
		if idx < len(presets) {
			m.preset = presets[idx]
			cfg := config.ForPreset(m.preset)
			m.topoKind = cfg.Topology
		}
	case "s":
		m.topoKind = nextTopology(m.topoKind)
	case "enter", " ":
		return m.startGeneration()
	case "q", "esc":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func nextTopology(k topology.Kind) topology.Kind {
	switch k {
	case topology.Square:
		return topology.Torus
	case topology.Torus:
		return topology.Mobius
	case topology.Mobius:
		return topology.Klein
	case topology.Klein:
		return topology.Projective
	default:
		return topology.Square
	}
}

func (m Model) startGeneration() (tea.Model, tea.Cmd) {
	cfg := config.ForPreset(m.preset)
	cfg.Topology = m.topoKind
	if m.cancel != nil {
		m.cancel()
	}
	m.game = NewWithConfig(cfg)
	m.message = ""
	m.attempts = 0
	m.phase = phaseGenerating

	startIdx := (cfg.Height / 2) * cfg.Width + cfg.Width/2
	updates := make(chan tea.Msg, 1)
	ctx, cancel := context.WithCancel(context.Background())
	m.updates = updates
	m.cancel = cancel

	game := m.game
	rng := m.rng
	go func() {
		err := game.Generate(ctx, startIdx, rng, func(attempt int) {
			select {
			case updates <- progressMsg{attempt: attempt}:
			default:
			}
		})
		updates <- generatedMsg{err: err}
	}()

	return m, m.waitForGeneration()
}

func (m Model) waitForGeneration() tea.Cmd {
	updates := m.updates
	return func() tea.Msg { return <-updates }
}

func (m Model) updatePlaying(key string) (tea.Model, tea.Cmd) {
	topo := m.game.Topology()
	x, y := topo.ToCoord(m.cursor)

	switch key {
	case "up", "k":
		y = moveCoord(y, -1, topo.Height, m.topoKind)
	case "down", "j":
		y = moveCoord(y, 1, topo.Height, m.topoKind)
	case "left", "h":
		x = moveCoord(x, -1, topo.Width, m.topoKind)
	case "right", "l":
		x = moveCoord(x, 1, topo.Width, m.topoKind)
	case "enter", " ":
		m.game.Open(m.cursor)
		if m.game.State != Playing {
			if m.cancel != nil {
				m.cancel()
			}
			m.phase = phaseGameOver
		}
		return m, nil
	case "f":
		m.game.ToggleFlag(m.cursor)
		return m, nil
	case "n":
		return m.startGeneration()
	case "m":
		m.phase = phaseMenu
		return m, nil
	case "q", "esc":
		m.done = true
		return m, tea.Quit
	default:
		return m, nil
	}
	m.cursor = topo.ToIndex(x, y)
	return m, nil
}

// moveCoord steps v by delta along a size-m axis. Square boards clamp at
// the edge; every other topology wraps by plain modulo on both axes. The
// wrap applies no flip of a non-orientable surface, and it wraps
// vertically on Mobius too, where the surface has no vertical seam.
func moveCoord(v, delta, m int, kind topology.Kind) int {
	if kind == topology.Square {
		next := v + delta
		if next < 0 || next >= m {
			return v
		}
		return next
	}
	return ((v+delta)%m + m) % m
}

func (m Model) updateGameOver(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n":
		return m.startGeneration()
	case "m":
		m.phase = phaseMenu
		return m, nil
	case "q", "esc":
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// View renders the complete screen for the current phase.
func (m Model) View() string {
	switch m.phase {
	case phaseMenu:
		return m.viewMenu()
	case phaseGenerating:
		return m.viewGenerating()
	case phasePlaying, phaseGameOver:
		return m.viewGame()
	}
	return ""
}

func (m Model) viewMenu() string {
	presets := config.Presets()
	var lines []string
	lines = append(lines, titleStyle.Render("T O P O M I N E S"), "", headerStyle.Render("Select Difficulty"), "")
	for i, p := range presets {
		cfg := config.ForPreset(p)
		marker := " "
		if p == m.preset {
			marker = ">"
		}
		lines = append(lines, optionStyle.Render(fmt.Sprintf("%s [%d] %-13s %dx%d  %d mines", marker, i+1, p, cfg.Width, cfg.Height, cfg.Mines)))
	}
	lines = append(lines, "", statusStyle.Render(fmt.Sprintf("Surface: %s  (S to cycle)", m.topoKind)))
	if m.message != "" {
		lines = append(lines, "", loseStyle.Render(m.message))
	}
	lines = append(lines, "", footerStyle.Render("Enter Start | S Surface | Q Quit"))

	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewGenerating() string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Generating a guess-free board..."),
		"",
		statusStyle.Render(fmt.Sprintf("attempt %d", m.attempts)),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewGame() string {
	if m.game == nil || m.game.Board == nil {
		return ""
	}
	var sections []string

	title := titleStyle.Render(fmt.Sprintf("Topomines - %s / %s", m.preset, m.game.Config.Topology))
	remaining := m.game.MinesRemaining()
	status := statusStyle.Render(fmt.Sprintf("Mines left: %d  Attempts: %d", remaining, m.game.Attempts))
	sections = append(sections, title, "", status, "", m.renderGrid(), "")

	if m.phase == phaseGameOver {
		switch m.game.State {
		case Won:
			sections = append(sections, winStyle.Render("YOU WIN!"))
		case Lost:
			sections = append(sections, loseStyle.Render("BOOM - mine hit!"))
		}
		sections = append(sections, "")
	}

	footer := "Arrows Move | Enter Open | F Flag | N New | M Menu | Q Quit"
	sections = append(sections, footerStyle.Render(footer))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderGrid() string {
	topo := m.game.Topology()
	b := m.game.Board
	var rows []string
	for y := 0; y < topo.Height; y++ {
		var cells []string
		for x := 0; x < topo.Width; x++ {
			idx := topo.ToIndex(x, y)
			isCursor := idx == m.cursor && m.phase == phasePlaying
			text := m.renderCell(b, idx)
			cells = append(cells, m.cellStyle(b, idx, isCursor).Render(text))
		}
		rows = append(rows, strings.Join(cells, ""))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderCell(b *board.Board, idx int) string {
	if m.game.State == Lost && b.IsMine(idx) {
		return "* "
	}
	switch b.Status(idx) {
	case board.Flagged:
		return "F "
	case board.Opened:
		if b.IsMine(idx) {
			return "* "
		}
		if c := b.Count(idx); c > 0 {
			return fmt.Sprintf("%d ", c)
		}
		return "  "
	default:
		return "##"
	}
}

var cursorBackground = lipgloss.AdaptiveColor{Light: "#d1d5db", Dark: "#374151"}

func (m Model) cellStyle(b *board.Board, idx int, isCursor bool) lipgloss.Style {
	base := lipgloss.NewStyle().Width(2)
	fg := m.cellForeground(b, idx)
	if isCursor {
		return base.Background(cursorBackground).Bold(true).Foreground(fg)
	}
	return base.Foreground(fg)
}

var (
	mineColor   = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	hiddenColor = lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"}
)

func (m Model) cellForeground(b *board.Board, idx int) lipgloss.TerminalColor {
	if m.game.State == Lost && b.IsMine(idx) {
		return mineColor
	}
	switch b.Status(idx) {
	case board.Flagged:
		return mineColor
	case board.Opened:
		if b.IsMine(idx) {
			return mineColor
		}
		return numberColor(b.Count(idx))
	default:
		return hiddenColor
	}
}

// adjacentColors indexes the classic per-count Minesweeper palette by
// neighbour mine count (index 0 unused: a 0-count cell renders blank).
// Each entry adapts to the terminal's light/dark background rather than
// assuming a dark terminal, since a wrapped torus/Klein board already
// asks more of the player's eyes than a flat grid.
var adjacentColors = [9]lipgloss.AdaptiveColor{
	1: {Light: "#1a56db", Dark: "#3b82f6"},
	2: {Light: "#047857", Dark: "#10b981"},
	3: {Light: "#b91c1c", Dark: "#ef4444"},
	4: {Light: "#4338ca", Dark: "#818cf8"},
	5: {Light: "#92400e", Dark: "#f59e0b"},
	6: {Light: "#0e7490", Dark: "#22d3ee"},
	7: {Light: "#6d28d9", Dark: "#a78bfa"},
	8: {Light: "#525252", Dark: "#a3a3a3"},
}

func numberColor(n int) lipgloss.TerminalColor {
	if n < 1 || n > 8 {
		return lipgloss.AdaptiveColor{Light: "#111827", Dark: "#e5e7eb"}
	}
	return adjacentColors[n]
}

// surfaceAccent is this renderer's accent hue, a teal rather than the
// green the reference game shell used for its own menus, so a screen
// capture of this program isn't mistaken for the other one.
var surfaceAccent = lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#2dd4bf"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#111827", Dark: "#f9fafb"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(surfaceAccent).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"})

	optionStyle = lipgloss.NewStyle().
			Foreground(surfaceAccent)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#9ca3af", Dark: "#6b7280"})

	winStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(surfaceAccent)

	loseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"})
)
