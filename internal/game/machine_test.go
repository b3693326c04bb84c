package game

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/speedy-highway/internal/challenge"
	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
	"github.com/vovakirdan/speedy-highway/internal/progress"
	"github.com/vovakirdan/speedy-highway/internal/race"
	"github.com/vovakirdan/speedy-highway/internal/storage"
)

type memLedger struct {
	runs []storage.Run
	err  error
}

func (l *memLedger) SaveRun(run storage.Run) (int64, error) {
	if l.err != nil {
		return 0, l.err
	}
	l.runs = append(l.runs, run)
	return int64(len(l.runs)), nil
}

type fixture struct {
	m      *Machine
	store  *progress.Store
	ledger *memLedger
	clock  *challenge.FakeClock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultHighwayConfig()
	store := progress.NewStore(filepath.Join(dir, "game_data.json"), cfg,
		progress.WithFallbacks(filepath.Join(dir, "fallback", "game_data.json")))
	ledger := &memLedger{}
	clock := challenge.NewFakeClock(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	m := NewMachine(Options{
		Config: cfg,
		Store:  store,
		Source: entropy.New(1),
		Clock:  clock,
		Ledger: ledger,
	})
	return fixture{m: m, store: store, ledger: ledger, clock: clock}
}

func ev(kind core.EventKind) core.Event {
	return core.Event{Kind: kind}
}

func (f fixture) send(kinds ...core.EventKind) {
	for _, k := range kinds {
		f.m.Tick([]core.Event{ev(k)}, core.Controls{})
	}
}

func kinds(notes []Notification) []NotificationKind {
	out := make([]NotificationKind, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Kind)
	}
	return out
}

func TestNewMachineStartsInMenuWithChallenge(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, ModeMenu, f.m.Mode())
	assert.Equal(t, OverlayNone, f.m.Overlays())
	assert.False(t, f.m.DailyChallenge().IsZero())
	assert.Equal(t, "2024-03-15", f.m.Progress().ChallengeDate())

	_, ok := f.m.Session()
	assert.False(t, ok)
}

func TestMenuScreens(t *testing.T) {
	f := newFixture(t)

	f.send(core.EventOpenHighScores)
	assert.Equal(t, ModeHighScores, f.m.Mode())
	f.send(core.EventCancel)
	assert.Equal(t, ModeMenu, f.m.Mode())

	f.send(core.EventOpenAchievements)
	assert.Equal(t, ModeAchievements, f.m.Mode())
	assert.Len(t, f.m.Achievements(), 9)
	f.send(core.EventCancel)
	assert.Equal(t, ModeMenu, f.m.Mode())
}

func TestUnhandledEventIsIgnored(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.m.Dispatch(ev(core.EventConfirmReset)))
	assert.False(t, f.m.Dispatch(ev(core.EventNavigateLeft)))
	assert.Equal(t, ModeMenu, f.m.Mode())
}

func TestCycleDifficultyPersists(t *testing.T) {
	f := newFixture(t)
	want := []int{2, 3, 0, 1}
	for _, w := range want {
		f.send(core.EventCycleDifficulty)
		assert.Equal(t, w, f.m.Progress().Difficulty)
		assert.Equal(t, w, f.store.Record().Difficulty)
	}
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	f.send(core.EventToggleFullscreen)
	assert.True(t, f.m.Settings().Fullscreen)

	for range 5 {
		f.m.Tick([]core.Event{{Kind: core.EventAdjustVolume, Delta: 1}}, core.Controls{})
	}
	assert.Equal(t, MaxVolume, f.m.Settings().Volume)

	f.m.Tick([]core.Event{{Kind: core.EventAdjustVolume, Delta: -20}}, core.Controls{})
	assert.Equal(t, 0, f.m.Settings().Volume)
}

func TestStartRace(t *testing.T) {
	f := newFixture(t)
	f.send(core.EventStart)
	require.Equal(t, ModePlaying, f.m.Mode())

	s, ok := f.m.Session()
	require.True(t, ok)
	assert.Equal(t, 1, s.Tick)
	assert.Equal(t, 1, s.Difficulty)

	f.m.Tick(nil, core.Controls{})
	s, _ = f.m.Session()
	assert.Equal(t, 2, s.Tick)
}

func TestCrashEndsRace(t *testing.T) {
	f := newFixture(t)
	f.send(core.EventStart)
	f.m.Notifications()

	// The car starts in the leftmost lane, so steering left leaves the road.
	f.m.Tick(nil, core.Controls{Left: true})
	require.Equal(t, ModeGameOver, f.m.Mode())

	s, _ := f.m.Session()
	assert.True(t, s.Crashed)
	assert.Equal(t, race.CauseOffRoad, s.Cause)

	rec := f.m.Progress()
	assert.Equal(t, 1, rec.GamesPlayed)
	assert.True(t, rec.Achievements["first_game"])
	require.Len(t, rec.HighScores, 1)

	notes := kinds(f.m.Notifications())
	assert.Contains(t, notes, NoteCrash)
	assert.Contains(t, notes, NoteAchievement)

	last := f.m.LastRun()
	require.NotNil(t, last)
	assert.Equal(t, 1, last.Outcome.Rank)
	assert.Equal(t, int64(1), last.RunID)

	require.Len(t, f.ledger.runs, 1)
	run := f.ledger.runs[0]
	assert.Equal(t, last.Seed, run.Seed)
	assert.Equal(t, "off_road", run.Cause)
	assert.NotEmpty(t, run.Replay.Draws)

	f.send(core.EventConfirm)
	assert.Equal(t, ModeMenu, f.m.Mode())
}

func TestLedgerFailureKeepsGameOver(t *testing.T) {
	f := newFixture(t)
	f.ledger.err = errors.New("disk full")
	f.send(core.EventStart)
	f.m.Tick(nil, core.Controls{Left: true})

	assert.Equal(t, ModeGameOver, f.m.Mode())
	require.NotNil(t, f.m.LastRun())
	assert.Zero(t, f.m.LastRun().RunID)
	assert.Equal(t, 1, f.m.Progress().GamesPlayed)
}

func TestPauseAndResumeCountdown(t *testing.T) {
	f := newFixture(t)
	f.send(core.EventStart)
	before, _ := f.m.Session()

	f.send(core.EventCancel)
	require.Equal(t, ModePaused, f.m.Mode())
	for range 10 {
		f.m.Tick(nil, core.Controls{})
	}
	s, _ := f.m.Session()
	assert.Equal(t, before.Tick, s.Tick)

	f.m.Tick([]core.Event{ev(core.EventConfirm)}, core.Controls{})
	require.Equal(t, ModePlaying, f.m.Mode())
	assert.Equal(t, ResumeCountdownTicks-1, f.m.Countdown())

	for range ResumeCountdownTicks - 2 {
		f.m.Tick(nil, core.Controls{})
	}
	s, _ = f.m.Session()
	assert.Equal(t, before.Tick, s.Tick)
	assert.Equal(t, 1, f.m.Countdown())

	f.m.Tick(nil, core.Controls{})
	s, _ = f.m.Session()
	assert.Equal(t, before.Tick+1, s.Tick)
	assert.Zero(t, f.m.Countdown())
}

func TestQuitOverlayFreezesRace(t *testing.T) {
	f := newFixture(t)
	f.send(core.EventStart)
	before, _ := f.m.Session()

	f.send(core.EventRequestQuit)
	assert.True(t, f.m.Overlays().Has(OverlayQuitConfirm))
	assert.Equal(t, ModePlaying, f.m.Mode())
	s, _ := f.m.Session()
	assert.Equal(t, before.Tick, s.Tick)

	// Pause is not reachable while the quit prompt is up.
	assert.True(t, f.m.Dispatch(ev(core.EventCancel)))
	assert.Equal(t, ModePlaying, f.m.Mode())
	assert.False(t, f.m.Overlays().Has(OverlayQuitConfirm))

	f.send(core.EventRequestQuit)
	assert.False(t, f.m.Quit())
	f.m.Dispatch(ev(core.EventConfirmQuit))
	assert.True(t, f.m.Quit())
}

func TestQuitOverlayWinsOverSeedPrompt(t *testing.T) {
	f := newFixture(t)
	f.m.Dispatch(ev(core.EventRequestSeedInput))
	f.m.Dispatch(ev(core.EventRequestQuit))
	assert.Equal(t, "quit|seed", f.m.Overlays().String())

	// SetSeed goes nowhere while quit confirmation is on top.
	assert.False(t, f.m.Dispatch(core.Event{Kind: core.EventSetSeed, Text: "7"}))
	f.m.Dispatch(ev(core.EventCancelQuit))
	assert.True(t, f.m.Dispatch(core.Event{Kind: core.EventSetSeed, Text: "7"}))
	assert.Equal(t, OverlayNone, f.m.Overlays())
}

func TestSeedInput(t *testing.T) {
	f := newFixture(t)

	f.send(core.EventRequestSeedInput)
	require.True(t, f.m.Overlays().Has(OverlaySeedInput))
	assert.False(t, f.m.Dispatch(ev(core.EventStart)))

	f.m.Tick([]core.Event{{Kind: core.EventSetSeed, Text: " 42 "}}, core.Controls{})
	assert.Equal(t, OverlayNone, f.m.Overlays())
	seed, fixed := f.m.Seed()
	assert.Equal(t, int64(42), seed)
	assert.True(t, fixed)
	assert.Contains(t, kinds(f.m.Notifications()), NoteSeed)

	f.send(core.EventStart)
	seed, _ = f.m.Seed()
	assert.Equal(t, int64(42), seed)
}

func TestInvalidSeedGenerates(t *testing.T) {
	f := newFixture(t)
	for _, text := range []string{"", "abc", "12x"} {
		f.m.Dispatch(ev(core.EventRequestSeedInput))
		f.m.Dispatch(core.Event{Kind: core.EventSetSeed, Text: text})
		_, fixed := f.m.Seed()
		assert.False(t, fixed, "text %q", text)
	}
}

func TestFixedSeedRepeatsRace(t *testing.T) {
	f := newFixture(t)
	f.m.Dispatch(ev(core.EventRequestSeedInput))
	f.m.Dispatch(core.Event{Kind: core.EventSetSeed, Text: "99"})

	// Drive straight for a while, then steer off the road to end the race.
	play := func() race.Session {
		f.send(core.EventStart)
		for i := 0; f.m.Mode() == ModePlaying && i < 400; i++ {
			f.m.Tick(nil, core.Controls{Left: i >= 150})
		}
		require.Equal(t, ModeGameOver, f.m.Mode())
		s, _ := f.m.Session()
		f.send(core.EventConfirm)
		return s
	}

	first := play()
	second := play()
	assert.Equal(t, first, second)
	require.Len(t, f.ledger.runs, 2)
	assert.Equal(t, f.ledger.runs[0].Replay, f.ledger.runs[1].Replay)
}

// dodge taps away from the enemy's lane, one tick per press.
func dodge(lanes []int, s race.Session, prev core.Controls) core.Controls {
	if prev != (core.Controls{}) || s.PlayerX != s.EnemyX {
		return core.Controls{}
	}
	if s.PlayerX == lanes[0] {
		return core.Controls{Right: true}
	}
	return core.Controls{Left: true}
}

func TestLedgerRunReplays(t *testing.T) {
	f := newFixture(t)
	cfg := f.m.Config()
	f.send(core.EventStart)

	var ctl core.Controls
	drive := func(ticks int) {
		for range ticks {
			s, _ := f.m.Session()
			ctl = dodge(cfg.Road.Lanes, s, ctl)
			f.m.Tick(nil, ctl)
		}
	}
	drive(700)
	require.Equal(t, ModePlaying, f.m.Mode())

	f.send(core.EventCancel)
	require.Equal(t, ModePaused, f.m.Mode())
	f.m.Tick(nil, core.Controls{Right: true})
	f.send(core.EventConfirm)
	drive(ResumeCountdownTicks + 300)
	require.Equal(t, ModePlaying, f.m.Mode())

	for i := 0; f.m.Mode() == ModePlaying && i < 100; i++ {
		f.m.Tick(nil, core.Controls{Left: true})
	}
	require.Equal(t, ModeGameOver, f.m.Mode())
	require.Len(t, f.ledger.runs, 1)

	run := f.ledger.runs[0]
	require.Greater(t, len(run.Replay.Draws), 1)
	got, err := race.Replay(cfg, run.Difficulty, run.Seed, run.Replay.Draws, run.Replay.Trace, run.Ticks)
	require.NoError(t, err)
	assert.Equal(t, run.Score, got.TotalScore)
	assert.Equal(t, run.Ticks, got.Tick)
	assert.Equal(t, run.Cause, got.Cause.String())

	played, _ := f.m.Session()
	assert.Equal(t, played, got)
}

func TestCarUnlockedOnceAtThreshold(t *testing.T) {
	f := newFixture(t)

	for range 5 {
		f.m.observe(race.Session{TotalScore: 1500})
	}

	cars := f.m.Progress().UnlockedCars
	count := 0
	for _, c := range cars {
		if c == 2 {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Equal(t, []int{0, 1, 2}, cars)

	var unlocked []int
	for _, n := range f.m.Notifications() {
		if n.Kind == NoteCarUnlocked {
			unlocked = append(unlocked, n.Car)
		}
	}
	assert.Equal(t, []int{1, 2}, unlocked)
}

func TestCarSelection(t *testing.T) {
	f := newFixture(t)
	f.m.observe(race.Session{TotalScore: 1500})

	f.send(core.EventOpenCarSelection)
	require.Equal(t, ModeCarSelection, f.m.Mode())
	assert.Equal(t, 0, f.m.CarPreview())

	f.send(core.EventNavigateLeft)
	assert.Equal(t, 2, f.m.CarPreview())
	f.send(core.EventCancel)
	assert.Equal(t, ModeMenu, f.m.Mode())
	assert.Equal(t, 0, f.m.Progress().SelectedCar)

	f.send(core.EventOpenCarSelection, core.EventNavigateRight)
	assert.Equal(t, 1, f.m.CarPreview())
	f.send(core.EventConfirm)
	assert.Equal(t, ModeMenu, f.m.Mode())
	assert.Equal(t, 1, f.m.Progress().SelectedCar)
	assert.Equal(t, 1, f.store.Record().SelectedCar)
}

func TestResetConfirm(t *testing.T) {
	f := newFixture(t)
	f.m.observe(race.Session{TotalScore: 1500})
	require.True(t, f.m.Progress().Achievements["score_1000"])

	f.send(core.EventOpenAchievements, core.EventRequestReset)
	require.True(t, f.m.Overlays().Has(OverlayResetConfirm))

	f.send(core.EventCancelReset)
	assert.Equal(t, OverlayNone, f.m.Overlays())
	assert.True(t, f.m.Progress().Achievements["score_1000"])

	f.send(core.EventRequestReset, core.EventConfirmReset)
	assert.Equal(t, ModeAchievements, f.m.Mode())
	assert.Equal(t, OverlayNone, f.m.Overlays())

	rec := f.m.Progress()
	assert.Empty(t, rec.Achievements)
	assert.Equal(t, []int{0}, rec.UnlockedCars)
	assert.False(t, rec.DailyChallenge.IsZero())
	assert.Equal(t, "2024-03-15", rec.ChallengeDate())
}

func TestNewDayRefreshesChallengeOnStart(t *testing.T) {
	f := newFixture(t)
	f.clock.Advance(24 * time.Hour)
	f.send(core.EventStart)
	assert.Equal(t, "2024-03-16", f.m.Progress().ChallengeDate())
}

func TestSeedOption(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultHighwayConfig()
	seed := int64(-5)
	m := NewMachine(Options{
		Config: cfg,
		Store:  progress.NewStore(filepath.Join(dir, "game_data.json"), cfg, progress.WithFallbacks()),
		Source: entropy.New(1),
		Seed:   &seed,
	})
	got, fixed := m.Seed()
	assert.True(t, fixed)
	assert.Equal(t, int64(1), got)

	m.Tick([]core.Event{ev(core.EventStart)}, core.Controls{})
	got, _ = m.Seed()
	assert.Equal(t, int64(-5), got)
}
