package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snakeboard/internal/leaderboard"
)

// Score panel layout
const (
	rankWidth    = 5
	nameWidth    = leaderboard.MaxNameLength
	scoreWidth   = 7
	dateWidth    = 12
	panelRows    = 15 // table height beside the board, header included
	minPanelRows = 5
)

// ScorePanel shows the ranked leaderboard as a table.
type ScorePanel struct {
	table   table.Model
	entries []leaderboard.Entry
	loaded  bool
}

// NewScorePanel creates an empty panel with height body rows.
func NewScorePanel(height int) ScorePanel {
	columns := []table.Column{
		{Title: "#", Width: rankWidth},
		{Title: "Name", Width: nameWidth},
		{Title: "Score", Width: scoreWidth},
		{Title: "Date", Width: dateWidth},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(false),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	// Unfocused table: no row highlight.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)

	return ScorePanel{table: t}
}

// SetEntries replaces the shown entries.
func (p *ScorePanel) SetEntries(entries []leaderboard.Entry) {
	p.entries = entries
	p.loaded = true
	p.table.SetRows(scoreRows(entries))
	p.table.GotoTop()
}

// SetHeight resizes the table, header included.
func (p *ScorePanel) SetHeight(rows int) {
	p.table.SetHeight(rows)
}

// Entries returns the shown entries.
func (p ScorePanel) Entries() []leaderboard.Entry {
	return p.entries
}

// View renders the table or a placeholder.
func (p ScorePanel) View() string {
	switch {
	case !p.loaded:
		return dimStyle.Render("Loading scores...")
	case len(p.entries) == 0:
		return dimStyle.Italic(true).Render("No scores yet.\nPress n to submit yours!")
	default:
		return p.table.View()
	}
}

// scoreRows converts entries to table rows.
func scoreRows(entries []leaderboard.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			e.Name,
			fmt.Sprintf("%d", e.Score),
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	return rows
}

// FormatScores renders entries as plain aligned text for non-interactive
// output.
func FormatScores(entries []leaderboard.Entry) string {
	if len(entries) == 0 {
		return "No scores recorded yet.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s %-*s %*s  %s\n", rankWidth, "#", nameWidth, "Name", scoreWidth, "Score", "Date")
	for i, e := range entries {
		name := e.Name
		if pad := nameWidth - utf8.RuneCountInString(name); pad > 0 {
			name += strings.Repeat(" ", pad)
		}
		fmt.Fprintf(&b, "%-*d %s %*d  %s\n",
			rankWidth, i+1, name, scoreWidth, e.Score,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
	return b.String()
}
