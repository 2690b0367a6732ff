// Package tui is a single-keystroke terminal front end for the game.
package tui

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/domino14/twentyfortyeight/board"
	"github.com/domino14/twentyfortyeight/config"
	"github.com/domino14/twentyfortyeight/expectimax"
	"github.com/domino14/twentyfortyeight/game"
)

const autoplayDelay = 50 * time.Millisecond

type model struct {
	config *config.Config
	game   *game.Game
	solver *expectimax.Solver

	autoplay bool
	thinking bool
	status   string
}

// aiMoveMsg carries the solver's choice for the grid it was asked about.
type aiMoveMsg struct {
	grid board.Grid
	dir  board.Direction
}

type aiTickMsg time.Time

// InitialModel starts a new game using the seed and solver options in
// cfg.
func InitialModel(cfg *config.Config) tea.Model {
	g := game.NewGame(game.NewRand(cfg.GetInt64(config.ConfigSeed)))
	g.SetSpawnOnNoop(cfg.GetBool(config.ConfigSpawnOnNoop))
	s := expectimax.NewSolver(nil)
	s.SetThreads(cfg.GetInt(config.ConfigThreads))
	s.SetMemoize(cfg.GetBool(config.ConfigMemoize))
	return model{config: cfg, game: g, solver: s}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) think() tea.Cmd {
	grid := m.game.Grid()
	solver := m.solver
	return func() tea.Msg {
		return aiMoveMsg{grid: grid, dir: solver.Decide(grid)}
	}
}

func aiTick() tea.Cmd {
	return tea.Tick(autoplayDelay, func(t time.Time) tea.Msg {
		return aiTickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case aiTickMsg:
		if !m.autoplay || m.thinking || !m.game.Playing() {
			return m, nil
		}
		m.thinking = true
		return m, m.think()
	case aiMoveMsg:
		m.thinking = false
		// a human move may have landed while the solver was busy
		if msg.grid != m.game.Grid() || !m.game.Playing() {
			if m.autoplay {
				return m, aiTick()
			}
			return m, nil
		}
		if msg.dir == board.NoDirection {
			m.game.Resign()
			m.autoplay = false
			m.status = "computer has no move"
			return m, nil
		}
		m.game.Play(msg.dir)
		m.status = "computer played " + msg.dir.String()
		if m.autoplay && m.game.Playing() {
			return m, aiTick()
		}
		m.autoplay = false
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "n":
		nm := InitialModel(m.config).(model)
		nm.status = "new game"
		return nm, nil
	case "i":
		if m.thinking || !m.game.Playing() {
			return m, nil
		}
		m.thinking = true
		m.status = "thinking..."
		return m, m.think()
	case "p":
		m.autoplay = !m.autoplay && m.game.Playing()
		if m.autoplay {
			m.status = "autoplay on"
			return m, aiTick()
		}
		m.status = "autoplay off"
		return m, nil
	}
	d, ok := keyDirection(k)
	if !ok || !m.game.Playing() {
		return m, nil
	}
	if changed, _ := m.game.Play(d); changed {
		m.status = ""
	} else {
		m.status = "nothing moved"
	}
	return m, nil
}

func keyDirection(k string) (board.Direction, bool) {
	switch k {
	case "up":
		return board.Up, true
	case "left":
		return board.Left, true
	case "down":
		return board.Down, true
	case "right":
		return board.Right, true
	}
	d, err := board.ParseDirection(k)
	if err != nil || len(k) != 1 {
		return board.NoDirection, false
	}
	return d, true
}

var (
	cellStyle  = lipgloss.NewStyle().Width(6).Align(lipgloss.Right).Bold(true)
	emptyStyle = cellStyle.Foreground(lipgloss.Color("240"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	wonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// tileColors cycles through the 256-color palette by log2 of the tile.
var tileColors = []string{"", "229", "222", "215", "208", "202", "196",
	"226", "220", "214", "178", "11", "201"}

func renderTile(v int) string {
	if v == 0 {
		return emptyStyle.Render(".")
	}
	idx := min(len(tileColors)-1, bits.Len(uint(v))-1)
	return cellStyle.Foreground(lipgloss.Color(tileColors[idx])).Render(strconv.Itoa(v))
}

func (m model) View() string {
	var sb strings.Builder
	grid := m.game.Grid()
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			sb.WriteString(renderTile(grid[r][c]))
		}
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "score: %d  moves: %d\n", m.game.Score(), m.game.Turn())
	switch m.game.State() {
	case game.Won:
		sb.WriteString(wonStyle.Render("You reached 2048! You won!") + "\n")
	case game.Lost:
		sb.WriteString(lostStyle.Render("No more moves left. Game Over!") + "\n")
	}
	if m.status != "" {
		sb.WriteString(m.status + "\n")
	}
	sb.WriteString(helpStyle.Render(
		"arrows/wasd: move • i: computer move • p: autoplay • n: new • q: quit") + "\n")
	return sb.String()
}
