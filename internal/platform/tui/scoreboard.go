package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

// Scoreboard layout constants
const (
	tableMinHeight = 5
	tableMaxHeight = progress.MaxHighScores + 1
)

// scoreboard shows the high-score table and the best score per difficulty.
type scoreboard struct {
	table  table.Model
	best   []int
	names  []string
	height int
}

func newScoreboard(height int) scoreboard {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Score", Width: 8},
			{Title: "Difficulty", Width: 10},
			{Title: "Time", Width: 6},
			{Title: "Date", Width: 17},
		}),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return scoreboard{table: t, height: height}
}

func tableHeight(h int) int {
	return min(max(h-10, tableMinHeight), tableMaxHeight)
}

// load replaces the rows with the record's high scores.
func (sb *scoreboard) load(rec progress.Record, cfg config.HighwayConfig) {
	rows := make([]table.Row, len(rec.HighScores))
	for i, e := range rec.HighScores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", e.Score),
			e.Difficulty,
			fmt.Sprintf("%ds", e.SurvivalTime),
			e.Date,
		}
	}
	sb.table.SetRows(rows)
	sb.table.GotoTop()
	sb.best = rec.BestScoresPerDifficulty
	sb.names = cfg.DifficultyNames()
}

func (sb *scoreboard) resize(height int) {
	sb.height = height
	sb.table.SetHeight(tableHeight(height))
}

func (sb scoreboard) update(msg tea.Msg) (scoreboard, tea.Cmd) {
	var cmd tea.Cmd
	sb.table, cmd = sb.table.Update(msg)
	return sb, cmd
}

func (sb scoreboard) view(t Theme) string {
	body := t.Title.Render("HIGH SCORES") + "\n\n"
	if len(sb.table.Rows()) == 0 {
		body += t.Muted.Italic(true).Render("No scores recorded yet.\nPlay a game to set a high score!")
	} else {
		body += sb.table.View()
	}

	body += "\n\n" + t.Subtitle.Render("Best per difficulty") + "\n"
	for i, name := range sb.names {
		if i >= len(sb.best) {
			break
		}
		body += t.Item.Render(fmt.Sprintf("%-8s", name)) + t.Value.Render(fmt.Sprintf("%d", sb.best[i])) + "  "
	}
	return t.Panel.Render(body)
}
