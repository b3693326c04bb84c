package challenge

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

func newStore(t *testing.T) *progress.Store {
	t.Helper()
	dir := t.TempDir()
	return progress.NewStore(filepath.Join(dir, "game_data.json"), config.DefaultHighwayConfig(),
		progress.WithFallbacks())
}

func newGenerator(clock Clock) *Generator {
	return NewGenerator(config.DefaultHighwayConfig().Challenges, clock)
}

func TestPickIsDeterministic(t *testing.T) {
	g := newGenerator(nil)
	for _, date := range []string{"2024-01-01", "2024-02-29", "2025-12-31"} {
		a := g.Pick(date)
		b := g.Pick(date)
		assert.Equal(t, a, b)
		assert.False(t, a.Completed)
		assert.Contains(t, []string{"score", "survival", "near_miss", "lane_change"}, a.Type)
	}
}

func TestPickCoversTemplates(t *testing.T) {
	g := newGenerator(nil)
	seen := map[string]bool{}
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 120 {
		seen[g.Pick(day.AddDate(0, 0, i).Format(progress.DayLayout)).Type] = true
	}
	assert.Len(t, seen, 4)
}

func TestGenerateSameDayUnchanged(t *testing.T) {
	store := newStore(t)
	g := newGenerator(nil)

	first, created, err := g.Generate(store, "2024-01-01")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "2024-01-01", store.Record().ChallengeDate())

	// Simulate progress toward the stored challenge; a same-day call must
	// not reseed or clear it.
	first.Completed = true
	require.NoError(t, store.SetDailyChallenge(first, "2024-01-01"))

	again, created, err := g.Generate(store, "2024-01-01")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first, again)
}

func TestGenerateNewDayResets(t *testing.T) {
	store := newStore(t)
	clock := NewFakeClock(time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC))
	g := newGenerator(clock)

	c, _, err := g.Current(store)
	require.NoError(t, err)
	c.Completed = true
	require.NoError(t, store.SetDailyChallenge(c, "2024-01-01"))

	clock.Advance(2 * time.Minute)
	next, created, err := g.Current(store)
	require.NoError(t, err)
	assert.True(t, created)
	assert.False(t, next.Completed)
	assert.Equal(t, g.Pick("2024-01-02"), next)
	assert.Equal(t, "2024-01-02", store.Record().ChallengeDate())
}

func TestSeedFitsIn32Bits(t *testing.T) {
	s := Seed("2024-01-01")
	assert.GreaterOrEqual(t, s, int64(0))
	assert.LessOrEqual(t, s, int64(0xffffffff))
	assert.Equal(t, s, Seed("2024-01-01"))
}

func TestTodayFollowsClock(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 2, 28, 23, 59, 0, 0, time.UTC))
	g := NewGenerator(config.DefaultHighwayConfig().Challenges, clock)
	assert.Equal(t, "2024-02-28", g.Today())

	clock.Advance(time.Minute)
	assert.Equal(t, "2024-02-29", g.Today())

	clock.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-01-01", g.Today())

	before := time.Now().Format(progress.DayLayout)
	got := NewGenerator(nil, RealClock{}).Today()
	after := time.Now().Format(progress.DayLayout)
	assert.Contains(t, []string{before, after}, got)
}
