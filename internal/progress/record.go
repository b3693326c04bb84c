// Package progress owns the durable player record: high scores, unlocks,
// achievements, counters and the daily challenge.
package progress

import (
	"encoding/json"
	"slices"
	"sort"

	"github.com/vovakirdan/speedy-highway/internal/config"
)

// MaxHighScores is the length limit of the high-score table.
const MaxHighScores = 10

// DateLayout is the format of ScoreEntry.Date.
const DateLayout = "2006-01-02 15:04"

// DayLayout is the format of the daily challenge date.
const DayLayout = "2006-01-02"

// ScoreEntry is one row of the high-score table.
type ScoreEntry struct {
	Score        int    `json:"score"`
	Difficulty   string `json:"difficulty"`
	SurvivalTime int    `json:"survival_time"` // seconds
	Date         string `json:"date"`
}

// Challenge types.
const (
	ChallengeScore      = "score"
	ChallengeSurvival   = "survival"
	ChallengeNearMiss   = "near_miss"
	ChallengeLaneChange = "lane_change"
)

// DailyChallenge is the objective for one calendar day. The zero value means
// no challenge has been generated.
type DailyChallenge struct {
	Type        string `json:"type"`
	Target      int    `json:"target"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// IsZero reports whether no challenge is set.
func (c DailyChallenge) IsZero() bool {
	return c.Type == ""
}

// MarshalJSON writes an unset challenge as {} and a set one with all four
// fields, completed included.
func (c DailyChallenge) MarshalJSON() ([]byte, error) {
	if c.IsZero() {
		return []byte("{}"), nil
	}
	type fields DailyChallenge
	return json.Marshal(fields(c))
}

// MetBy reports whether a finished session reaches the challenge target.
func (c DailyChallenge) MetBy(r Result) bool {
	var got int
	switch c.Type {
	case ChallengeScore:
		got = r.Score
	case ChallengeSurvival:
		got = r.SurvivalTicks
	case ChallengeNearMiss:
		got = r.NearMisses
	case ChallengeLaneChange:
		got = r.LaneChanges
	default:
		return false
	}
	return got >= c.Target
}

// Record is the persisted player state.
type Record struct {
	HighScores               []ScoreEntry    `json:"high_scores"`
	Difficulty               int             `json:"difficulty"`
	SelectedCar              int             `json:"selected_car"`
	UnlockedCars             []int           `json:"unlocked_cars"`
	Achievements             map[string]bool `json:"achievements"`
	GamesPlayed              int             `json:"games_played"`
	TotalPlaytime            int             `json:"total_playtime"` // ticks
	BestStreak               int             `json:"best_streak"`
	LastDailyChallenge       *string         `json:"last_daily_challenge"`
	DailyChallenge           DailyChallenge  `json:"daily_challenge"`
	HighestDifficultyReached int             `json:"highest_difficulty_reached"`
	BestScoresPerDifficulty  []int           `json:"best_scores_per_difficulty"`
}

// Default returns the record used on first launch and after a reset.
func Default() Record {
	return Record{
		HighScores:              []ScoreEntry{},
		Difficulty:              1,
		SelectedCar:             0,
		UnlockedCars:            []int{0},
		Achievements:            map[string]bool{},
		BestScoresPerDifficulty: make([]int, config.DifficultyCount),
	}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.HighScores = slices.Clone(r.HighScores)
	out.UnlockedCars = slices.Clone(r.UnlockedCars)
	out.BestScoresPerDifficulty = slices.Clone(r.BestScoresPerDifficulty)
	out.Achievements = make(map[string]bool, len(r.Achievements))
	for k, v := range r.Achievements {
		out.Achievements[k] = v
	}
	if r.LastDailyChallenge != nil {
		d := *r.LastDailyChallenge
		out.LastDailyChallenge = &d
	}
	return out
}

// HasCar reports whether car index i is unlocked.
func (r Record) HasCar(i int) bool {
	return slices.Contains(r.UnlockedCars, i)
}

// ChallengeDate returns the date of the stored challenge, or "".
func (r Record) ChallengeDate() string {
	if r.LastDailyChallenge == nil {
		return ""
	}
	return *r.LastDailyChallenge
}

// normalize repairs fields that decode as nil or short so invariants hold
// for in-memory use.
func (r *Record) normalize() {
	if r.HighScores == nil {
		r.HighScores = []ScoreEntry{}
	}
	if r.Achievements == nil {
		r.Achievements = map[string]bool{}
	}
	if !slices.Contains(r.UnlockedCars, 0) {
		r.UnlockedCars = append([]int{0}, r.UnlockedCars...)
	}
	for len(r.BestScoresPerDifficulty) < config.DifficultyCount {
		r.BestScoresPerDifficulty = append(r.BestScoresPerDifficulty, 0)
	}
	r.BestScoresPerDifficulty = r.BestScoresPerDifficulty[:config.DifficultyCount]
	r.Difficulty = clampIndex(r.Difficulty)
	r.HighestDifficultyReached = clampIndex(r.HighestDifficultyReached)
	rankHighScores(&r.HighScores)
}

// rankHighScores sorts descending by score, keeping insertion order among
// equal scores, and truncates to MaxHighScores.
func rankHighScores(scores *[]ScoreEntry) {
	sort.SliceStable(*scores, func(i, j int) bool {
		return (*scores)[i].Score > (*scores)[j].Score
	})
	if len(*scores) > MaxHighScores {
		*scores = (*scores)[:MaxHighScores]
	}
}

func clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i >= config.DifficultyCount {
		return config.DifficultyCount - 1
	}
	return i
}
