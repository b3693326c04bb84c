// Package analytics summarizes a persisted progress record. It reads the raw
// JSON through gjson so partial or hand-edited files still produce a report.
package analytics

import (
	"math"
	"slices"

	"github.com/tidwall/gjson"

	"github.com/vovakirdan/speedy-highway/internal/achievement"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

// DifficultyScores aggregates stored high scores for one difficulty label.
type DifficultyScores struct {
	Count int
	Top   int
}

// NamedScore pairs a difficulty name with its best score.
type NamedScore struct {
	Name  string
	Score int
}

// Summary is the set of metrics derived from one record.
type Summary struct {
	GamesPlayed          int
	PlaytimeTicks        int
	PlaytimeMinutes      float64
	BestStreak           int
	Difficulty           int
	UnlockedCars         int
	AchievementsUnlocked int
	AchievementsTotal    int
	CompletionPct        float64
	HighScores           int
	TopScore             int
	ScoreMean            float64
	ByDifficulty         map[string]DifficultyScores
	BestPerDifficulty    []NamedScore
	HighestDifficulty    int
}

// Summarize computes metrics from raw record JSON. Absent fields take the
// record defaults; malformed entries are skipped.
func Summarize(raw []byte, difficultyNames []string) Summary {
	doc := gjson.ParseBytes(raw)
	def := progress.Default()

	s := Summary{
		GamesPlayed:       intOr(doc.Get("games_played"), def.GamesPlayed),
		PlaytimeTicks:     intOr(doc.Get("total_playtime"), def.TotalPlaytime),
		BestStreak:        intOr(doc.Get("best_streak"), def.BestStreak),
		Difficulty:        intOr(doc.Get("difficulty"), def.Difficulty),
		HighestDifficulty: intOr(doc.Get("highest_difficulty_reached"), def.HighestDifficultyReached),
		AchievementsTotal: achievement.Count(),
		ByDifficulty:      map[string]DifficultyScores{},
	}
	s.PlaytimeMinutes = round1(float64(s.PlaytimeTicks) / (progress.TicksPerSecond * 60))

	s.UnlockedCars = len(def.UnlockedCars)
	if cars := doc.Get("unlocked_cars"); cars.IsArray() && len(cars.Array()) > 0 {
		s.UnlockedCars = len(cars.Array())
	}

	doc.Get("achievements").ForEach(func(_, v gjson.Result) bool {
		if v.Bool() {
			s.AchievementsUnlocked++
		}
		return true
	})
	if s.AchievementsTotal > 0 {
		s.CompletionPct = round1(100 * float64(s.AchievementsUnlocked) / float64(s.AchievementsTotal))
	}

	var scores []int
	for _, e := range arrayOf(doc.Get("high_scores")) {
		score := e.Get("score")
		if !e.IsObject() || score.Type != gjson.Number {
			continue
		}
		v := int(score.Int())
		scores = append(scores, v)
		if d := e.Get("difficulty"); d.Exists() {
			agg := s.ByDifficulty[d.String()]
			agg.Count++
			agg.Top = max(agg.Top, v)
			s.ByDifficulty[d.String()] = agg
		}
	}
	s.HighScores = len(scores)
	if len(scores) > 0 {
		s.TopScore = slices.Max(scores)
		sum := 0
		for _, v := range scores {
			sum += v
		}
		s.ScoreMean = round1(float64(sum) / float64(len(scores)))
	}

	best := def.BestScoresPerDifficulty
	if arr := doc.Get("best_scores_per_difficulty"); arr.IsArray() {
		best = best[:0:0]
		for _, v := range arr.Array() {
			best = append(best, int(v.Int()))
		}
	}
	for i := 0; i < len(best) && i < len(difficultyNames); i++ {
		s.BestPerDifficulty = append(s.BestPerDifficulty, NamedScore{Name: difficultyNames[i], Score: best[i]})
	}
	return s
}

// arrayOf is Result.Array without the single-element wrap of non-arrays.
func arrayOf(v gjson.Result) []gjson.Result {
	if !v.IsArray() {
		return nil
	}
	return v.Array()
}

func intOr(v gjson.Result, def int) int {
	if v.Type != gjson.Number {
		return def
	}
	return int(v.Int())
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
