package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakeboard/internal/core"
	"github.com/vovakirdan/snakeboard/internal/games/snake"
	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// Status line texts.
const (
	StatusUnavailable  = "Leaderboard unavailable"
	StatusSubmitFailed = "Submit failed"
	StatusSubmitted    = "Score submitted"
	StatusDuplicate    = "Score already submitted"
	StatusNameRequired = "Name required"
)

// Leaderboard is what the game screen needs from a score backend.
// *leaderboard.Service and *client.Client both satisfy it.
type Leaderboard interface {
	Leaderboard(ctx context.Context) ([]leaderboard.Entry, error)
	Submit(ctx context.Context, rawName, rawScore any) ([]leaderboard.Entry, error)
}

// Options configures a Model beyond the runtime config.
type Options struct {
	// Name pre-fills the submission prompt.
	Name string
	// Timeout bounds each leaderboard call. Zero means 5s.
	Timeout time.Duration
}

type scoresMsg struct {
	entries []leaderboard.Entry
	err     error
}

type submitMsg struct {
	score   int
	entries []leaderboard.Entry
	err     error
}

// Model is the Bubble Tea model for one snake session.
type Model struct {
	game   *snake.Game
	screen *core.Screen
	board  Leaderboard
	config core.RuntimeConfig
	opts   Options

	keys   KeyMap
	help   help.Model
	panel  ScorePanel
	prompt textinput.Model

	prompting  bool
	submitting bool
	status     string
	restarts   int64

	// lastSubmitted guards against posting the same nonzero score twice
	// in a row.
	lastSubmitted int
	hasSubmitted  bool

	quitting bool
}

// NewModel creates a model backed by board. board may be nil, in which
// case the leaderboard is reported unavailable.
func NewModel(board Leaderboard, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = core.DefaultTickInterval
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.Prompt = "Name: "
	ti.CharLimit = leaderboard.MaxNameLength
	ti.Width = leaderboard.MaxNameLength
	ti.SetValue(opts.Name)

	h := help.New()
	h.ShowAll = false

	return Model{
		game:   snake.New(seed),
		screen: core.NewScreen(snake.BoardWidth, snake.BoardHeight),
		board:  board,
		config: cfg,
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   h,
		panel:  NewScorePanel(panelRows),
		prompt: ti,
	}
}

// Init starts the tick loop and the first leaderboard fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.config.TickInterval), m.fetchCmd())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.prompting {
			return m.handlePromptKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		m.game.Tick()
		return m, tickCmd(m.config.TickInterval)

	case scoresMsg:
		if msg.err != nil {
			m.status = StatusUnavailable
			return m, nil
		}
		m.panel.SetEntries(msg.entries)
		if m.status == StatusUnavailable {
			m.status = ""
		}
		return m, nil

	case submitMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = StatusSubmitFailed
			return m, nil
		}
		m.lastSubmitted = msg.score
		m.hasSubmitted = true
		m.panel.SetEntries(msg.entries)
		m.status = StatusSubmitted
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input during play.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "?" {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.MapKey(msg)
	switch action {
	case core.ActionQuit:
		m.quitting = true
		return m, tea.Quit

	case core.ActionRestart:
		m.restart()
		return m, nil

	case core.ActionRefresh:
		return m, m.fetchCmd()

	case core.ActionSubmit:
		return m.openPrompt()

	case core.ActionNone:
		return m, nil
	}

	m.game.Apply(action)
	return m, nil
}

// handlePromptKey feeds the name prompt until enter or esc.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		m.prompting = false
		m.prompt.Blur()
		return m, nil
	case "enter":
		name := leaderboard.NormalizeName(m.prompt.Value())
		if name == "" {
			m.status = StatusNameRequired
			return m, nil
		}
		m.prompting = false
		m.prompt.Blur()
		m.submitting = true
		m.status = ""
		return m, m.submitCmd(name, m.game.State().Score)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// openPrompt starts a submission of the current score, pausing a running
// game while the name is typed.
func (m Model) openPrompt() (tea.Model, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	score := m.game.State().Score
	if m.hasSubmitted && score != 0 && score == m.lastSubmitted {
		m.status = StatusDuplicate
		return m, nil
	}

	if st := m.game.State(); st.Alive && !st.Paused {
		m.game.TogglePause()
	}
	m.prompting = true
	m.status = ""
	m.prompt.CursorEnd()
	cmd := m.prompt.Focus()
	return m, cmd
}

// restart begins a new game. A fixed seed stays reproducible across
// restarts by offsetting it with the restart count.
func (m *Model) restart() {
	m.restarts++
	seed := time.Now().UnixNano()
	if m.config.Seed != 0 {
		seed = m.config.Seed + m.restarts
	}
	m.game.Reset(seed)
	if m.status == StatusSubmitted || m.status == StatusDuplicate {
		m.status = ""
	}
}

func (m Model) fetchCmd() tea.Cmd {
	board, timeout := m.board, m.opts.Timeout
	return func() tea.Msg {
		if board == nil {
			return scoresMsg{err: leaderboard.ErrNotConfigured}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := board.Leaderboard(ctx)
		return scoresMsg{entries: entries, err: err}
	}
}

func (m Model) submitCmd(name string, score int) tea.Cmd {
	board, timeout := m.board, m.opts.Timeout
	return func() tea.Msg {
		if board == nil {
			return submitMsg{score: score, err: leaderboard.ErrNotConfigured}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		entries, err := board.Submit(ctx, name, score)
		return submitMsg{score: score, entries: entries, err: err}
	}
}

// View renders the board, score panel, status line and help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	board := RenderScreen(m.screen)

	st := m.game.State()
	var info strings.Builder
	info.WriteString(titleStyle.Render(fmt.Sprintf("Score: %d", st.Score)))
	if s := m.game.Status(); s != "" {
		info.WriteString("  " + statusStyle.Render(s))
	}

	left := lipgloss.JoinVertical(lipgloss.Left, board, info.String())

	stacked := m.config.ScreenW > 0 && m.config.ScreenW < lipgloss.Width(left)+lipgloss.Width(m.panel.View())+2
	m.panel.SetHeight(m.fitPanelRows(lipgloss.Height(left), stacked))

	right := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Leaderboard"),
		m.panel.View(),
	)

	var body string
	if stacked {
		body = lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, panelStyle.Render(right))
	}

	var footer strings.Builder
	switch {
	case m.prompting:
		footer.WriteString(m.prompt.View())
		footer.WriteString("\n")
	case m.submitting:
		footer.WriteString(dimStyle.Render("Submitting..."))
		footer.WriteString("\n")
	}
	if m.status != "" {
		footer.WriteString(statusStyle.Render(m.status))
		footer.WriteString("\n")
	}
	footer.WriteString(m.help.View(m.keys))

	return body + "\n" + footer.String()
}

// Lines outside the score table: its title plus the footer.
const chromeLines = 4

// fitPanelRows sizes the score table to the terminal height. A stacked
// layout shares the height with the board.
func (m Model) fitPanelRows(leftLines int, stacked bool) int {
	if m.config.ScreenH <= 0 {
		return panelRows
	}
	avail := m.config.ScreenH - chromeLines
	if stacked {
		avail -= leftLines + 1
	}
	return core.Clamp(avail, minPanelRows, panelRows)
}

// Game exposes the running game.
func (m Model) Game() *snake.Game {
	return m.game
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.status
}

// Run starts the local Bubble Tea program.
func Run(board Leaderboard, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewModel(board, cfg, opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
