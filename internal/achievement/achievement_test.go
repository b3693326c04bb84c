package achievement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(as []Achievement) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}

func TestTableIsFixed(t *testing.T) {
	require.Equal(t, 9, Count())
	seen := map[string]bool{}
	for _, a := range All() {
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
		assert.NotEmpty(t, a.Name)
		assert.NotNil(t, a.Check)
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		id    string
		stats Stats
		want  bool
	}{
		{"first_game", Stats{GamesPlayed: 0}, false},
		{"first_game", Stats{GamesPlayed: 1}, true},
		{"score_1000", Stats{TotalScore: 999}, false},
		{"score_1000", Stats{TotalScore: 1000}, true},
		{"score_5000", Stats{TotalScore: 6000, Difficulty: 0}, false},
		{"score_5000", Stats{TotalScore: 5000, Difficulty: 1}, true},
		{"near_miss_10", Stats{NearMisses: 10}, true},
		{"lane_master", Stats{LaneChanges: 49}, false},
		{"lane_master", Stats{LaneChanges: 50}, true},
		{"survivor", Stats{SurvivalTicks: 7199}, false},
		{"survivor", Stats{SurvivalTicks: 7200}, true},
		{"speed_demon", Stats{Difficulty: 1, EnemySpeed: 50}, false},
		{"speed_demon", Stats{Difficulty: 2, EnemySpeed: 18}, true},
		{"speed_demon", Stats{Difficulty: 3, EnemySpeed: 19}, false},
		{"speed_demon", Stats{Difficulty: 3, EnemySpeed: 20}, true},
		{"speed_god", Stats{Difficulty: 2, EnemySpeed: 40}, false},
		{"speed_god", Stats{Difficulty: 3, EnemySpeed: 40}, true},
		{"perfect_game", Stats{ChallengeCompleted: true}, true},
	}
	for _, tt := range tests {
		a, ok := Lookup(tt.id)
		require.True(t, ok, tt.id)
		assert.Equal(t, tt.want, a.Check(tt.stats), "%s %+v", tt.id, tt.stats)
	}
}

func TestEvaluateSkipsUnlocked(t *testing.T) {
	s := Stats{GamesPlayed: 1, TotalScore: 1200}
	assert.Equal(t, []string{"first_game", "score_1000"}, ids(Evaluate(s, nil)))
	assert.Equal(t, []string{"score_1000"}, ids(Evaluate(s, map[string]bool{"first_game": true})))
}

func TestEvaluateMonotonic(t *testing.T) {
	unlocked := map[string]bool{}
	fired := map[string]int{}
	for tick := 0; tick < 8000; tick++ {
		s := Stats{
			TotalScore:    tick * 2,
			SurvivalTicks: tick,
			LaneChanges:   tick / 100,
			Difficulty:    3,
			EnemySpeed:    8 + tick/100,
		}
		for _, a := range Evaluate(s, unlocked) {
			unlocked[a.ID] = true
			fired[a.ID]++
		}
	}
	for id, n := range fired {
		assert.Equal(t, 1, n, id)
	}
	assert.True(t, unlocked["survivor"])
	assert.True(t, unlocked["speed_god"])
}

func TestStatuses(t *testing.T) {
	st := Statuses(map[string]bool{"speed_god": true, "bogus": true})
	require.Len(t, st, 9)
	assert.Equal(t, "first_game", st[0].ID)
	assert.True(t, st[7].Unlocked)
	assert.Equal(t, 1, UnlockedCount(map[string]bool{"speed_god": true, "bogus": true}))
}
