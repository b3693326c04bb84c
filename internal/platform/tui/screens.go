package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/speedy-highway/internal/achievement"
	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/game"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

func (m Model) menuView() string {
	t := m.theme
	rec := m.machine.Progress()
	cfg := m.machine.Config()

	var b strings.Builder
	b.WriteString(t.Title.Render("S P E E D Y   H I G H W A Y"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(t.Item.Render(fmt.Sprintf("%-12s", label)))
		b.WriteString(t.Value.Render(value))
		b.WriteString("\n")
	}
	row("Difficulty", cfg.DifficultyAt(rec.Difficulty).Name)
	row("Car", carName(cfg, rec.SelectedCar))
	if seed, fixed := m.machine.Seed(); fixed {
		row("Seed", fmt.Sprintf("%d", seed))
	} else {
		row("Seed", "random")
	}
	row("Best", fmt.Sprintf("%d", rec.BestScoresPerDifficulty[rec.Difficulty]))
	row("Games", fmt.Sprintf("%d", rec.GamesPlayed))

	settings := m.machine.Settings()
	screen := "windowed"
	if settings.Fullscreen {
		screen = "fullscreen"
	}
	row("Display", screen)
	row("Volume", strings.Repeat("■", settings.Volume)+strings.Repeat("□", game.MaxVolume-settings.Volume))

	b.WriteString("\n")
	b.WriteString(m.challengeLine(rec.DailyChallenge))
	b.WriteString("\n\n")
	b.WriteString(t.Subtitle.Render("Press enter to drive"))

	return t.Panel.Render(b.String())
}

func (m Model) challengeLine(c progress.DailyChallenge) string {
	t := m.theme
	switch {
	case c.IsZero():
		return t.Muted.Render("No daily challenge")
	case c.Completed:
		return t.Good.Render("✓ Daily: " + c.Description)
	}
	return t.Item.Render("Daily: " + c.Description)
}

func (m Model) gameOverView() string {
	t := m.theme
	last := m.machine.LastRun()
	if last == nil {
		return t.Panel.Render(t.Title.Render("GAME OVER"))
	}
	s := last.Session
	out := last.Outcome

	var b strings.Builder
	b.WriteString(t.Warning.Render("CRASHED"))
	b.WriteString(t.Muted.Render("  (" + s.Cause.String() + ")"))
	b.WriteString("\n\n")
	b.WriteString(t.Item.Render("Score  "))
	b.WriteString(t.Value.Render(fmt.Sprintf("%d", s.TotalScore)))
	b.WriteString("\n")
	b.WriteString(t.Muted.Render(fmt.Sprintf("base %d + bonus %d", s.BaseScore, s.BonusScore)))
	b.WriteString("\n\n")
	b.WriteString(t.Item.Render(fmt.Sprintf("Survived %ds  ·  %d near misses  ·  %d lane changes",
		s.Survival/progress.TicksPerSecond, s.NearMisses, s.LaneChanges)))
	b.WriteString("\n")
	if out.NewBest {
		b.WriteString(t.Good.Render("New best for " + out.Entry.Difficulty + "!"))
		b.WriteString("\n")
	}
	if out.Rank > 0 {
		b.WriteString(t.Status.Render(fmt.Sprintf("High score #%d", out.Rank)))
		b.WriteString("\n")
	}
	if out.ChallengeCompleted {
		b.WriteString(t.Good.Render("Daily challenge complete"))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(t.Muted.Render(fmt.Sprintf("seed %d", last.Seed)))
	if last.RunID > 0 {
		b.WriteString(t.Muted.Render(fmt.Sprintf("  ·  run #%d", last.RunID)))
	}
	return t.Panel.Render(b.String())
}

func (m Model) achievementsView() string {
	t := m.theme
	statuses := m.machine.Achievements()

	var b strings.Builder
	unlocked := 0
	for _, st := range statuses {
		if st.Unlocked {
			unlocked++
		}
	}
	b.WriteString(t.Title.Render(fmt.Sprintf("ACHIEVEMENTS  %d/%d", unlocked, achievement.Count())))
	b.WriteString("\n\n")
	for _, st := range statuses {
		if st.Unlocked {
			b.WriteString(t.Good.Render("★ " + st.Name))
			b.WriteString(t.Muted.Render("  " + st.Description))
		} else {
			b.WriteString(t.ItemLocked.Render("☆ " + st.Name + "  " + st.Description))
		}
		b.WriteString("\n")
	}
	return t.Panel.Render(b.String())
}

func (m Model) carSelectionView() string {
	t := m.theme
	cfg := m.machine.Config()
	rec := m.machine.Progress()
	preview := m.machine.CarPreview()

	var b strings.Builder
	b.WriteString(t.Title.Render("SELECT CAR"))
	b.WriteString("\n\n")
	for i, car := range cfg.Cars {
		switch {
		case i == preview:
			b.WriteString(t.ItemActive.Render("▶ " + car.Name))
		case rec.HasCar(i):
			b.WriteString(t.Item.Render("  " + car.Name))
		default:
			b.WriteString(t.ItemLocked.Render(fmt.Sprintf("  %s  (score %d to unlock)", car.Name, car.UnlockScore)))
		}
		b.WriteString("\n")
	}
	return t.Panel.Render(b.String())
}

// overlayView renders the prompt of the top overlay, or "".
func (m Model) overlayView() string {
	t := m.theme
	ov := m.machine.Overlays()
	var body string
	switch {
	case ov.Has(game.OverlayQuitConfirm):
		body = t.OverlayText.Render("Quit the game?") + "\n\n" + t.Muted.Render("y / n")
	case ov.Has(game.OverlayResetConfirm):
		body = t.Warning.Render("Reset ALL progress?") + "\n" +
			t.Muted.Render("High scores, cars and achievements are erased.") + "\n\n" +
			t.Muted.Render("y / n")
	case ov.Has(game.OverlaySeedInput):
		body = t.OverlayText.Render("Enter seed") + "\n\n" + m.seedInput.View() + "\n\n" +
			t.Muted.Render("empty for a random seed")
	default:
		return ""
	}
	return t.Overlay.Render(body)
}

func carName(cfg config.HighwayConfig, i int) string {
	if i >= 0 && i < len(cfg.Cars) {
		return cfg.Cars[i].Name
	}
	return fmt.Sprintf("Car %d", i)
}

// place centers content in the terminal.
func (m Model) place(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
}
