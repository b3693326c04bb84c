package analytics

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tidwall/gjson"
)

// ScoreColumns is the column order of the high-score CSV export.
var ScoreColumns = []string{"score", "difficulty", "survival_time", "date"}

// Metric is one flat row of the summary export.
type Metric struct {
	Name  string
	Value string
}

// Metrics flattens the summary in report order. Per-difficulty breakdowns
// are left out.
func (s Summary) Metrics() []Metric {
	itoa := strconv.Itoa
	ftoa := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }
	return []Metric{
		{"games_played", itoa(s.GamesPlayed)},
		{"total_playtime_frames", itoa(s.PlaytimeTicks)},
		{"total_playtime_minutes", ftoa(s.PlaytimeMinutes)},
		{"best_streak", itoa(s.BestStreak)},
		{"current_difficulty_index", itoa(s.Difficulty)},
		{"unlocked_cars_count", itoa(s.UnlockedCars)},
		{"achievements_unlocked", itoa(s.AchievementsUnlocked)},
		{"achievements_total", itoa(s.AchievementsTotal)},
		{"achievement_completion_pct", ftoa(s.CompletionPct)},
		{"high_scores_count", itoa(s.HighScores)},
		{"top_score", itoa(s.TopScore)},
		{"score_mean", ftoa(s.ScoreMean)},
		{"highest_difficulty_reached_index", itoa(s.HighestDifficulty)},
	}
}

// WriteScoresCSV writes the record's high scores with a header row. Entries
// that are not objects are skipped; missing fields are written empty.
func WriteScoresCSV(w io.Writer, raw []byte) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ScoreColumns); err != nil {
		return fmt.Errorf("analytics: cannot write header: %w", err)
	}
	for _, e := range arrayOf(gjson.GetBytes(raw, "high_scores")) {
		if !e.IsObject() {
			continue
		}
		row := make([]string, len(ScoreColumns))
		for i, col := range ScoreColumns {
			if v := e.Get(col); v.Exists() {
				row[i] = v.String()
			}
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("analytics: cannot write score row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes a two-column metric,value table.
func WriteSummaryCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"metric", "value"}); err != nil {
		return fmt.Errorf("analytics: cannot write header: %w", err)
	}
	for _, m := range s.Metrics() {
		if err := cw.Write([]string{m.Name, m.Value}); err != nil {
			return fmt.Errorf("analytics: cannot write metric %s: %w", m.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
