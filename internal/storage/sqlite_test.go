package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
	"github.com/vovakirdan/speedy-highway/internal/race"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(score, difficulty int) Run {
	return Run{
		Seed:        42,
		Difficulty:  difficulty,
		Score:       score,
		Ticks:       score / 2,
		NearMisses:  1,
		LaneChanges: 3,
		Cause:       "collision",
		Replay: Replay{
			Draws: []int{215, 415, 295},
			Trace: race.Trace{{Tick: 3, Right: true}, {Tick: 5}},
		},
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	want := sampleRun(400, 2)
	id, err := store.SaveRun(want)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunByID(id)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("RunByID() returned nil for a saved run")
	}
	if got.ID != id || got.Seed != want.Seed || got.Score != want.Score || got.Cause != want.Cause {
		t.Errorf("RunByID() = %+v, want fields of %+v", *got, want)
	}
	if !reflect.DeepEqual(got.Replay, want.Replay) {
		t.Errorf("Replay = %+v, want %+v", got.Replay, want.Replay)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestStoreRunByIDMissing(t *testing.T) {
	store := openTestStore(t)

	got, err := store.RunByID(99)
	if err != nil {
		t.Fatalf("RunByID() failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for missing run, got %+v", got)
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)

	for i, score := range []int{100, 50, 200, 500} {
		if _, err := store.SaveRun(sampleRun(score, i%2)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.TopRuns(-1, 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 4 {
		t.Fatalf("Expected 4 runs, got %d", len(runs))
	}
	for i, want := range []int{500, 200, 100, 50} {
		if runs[i].Score != want {
			t.Errorf("runs[%d].Score = %d, want %d", i, runs[i].Score, want)
		}
	}

	// Difficulty 1 holds the 50 and 500 runs
	runs, err = store.TopRuns(1, 1)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 500 {
		t.Errorf("TopRuns(1, 1) = %+v, want one run with score 500", runs)
	}
}

func TestStoreRecentRuns(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 25; i++ {
		if _, err := store.SaveRun(sampleRun(i, 0)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	runs, err := store.RecentRuns(0)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 20 {
		t.Errorf("Expected default limit of 20, got %d", len(runs))
	}
	if runs[0].Score != 24 {
		t.Errorf("Expected newest run first, got score %d", runs[0].Score)
	}
}

func TestStoreStatsAndClear(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 0 || stats.HighScore != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Expected empty stats, got %+v", stats)
	}

	for _, score := range []int{100, 300} {
		if _, err := store.SaveRun(sampleRun(score, 0)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Runs != 2 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalTicks != 200 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	if err := store.ClearRuns(); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}
	runs, err := store.RecentRuns(10)
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("Expected 0 runs after clear, got %d", len(runs))
	}
}

func TestStoreReplayRoundTrip(t *testing.T) {
	store := openTestStore(t)
	cfg := config.DefaultHighwayConfig()

	src := entropy.New(77)
	sim := race.NewSim(cfg, 1, src)
	input := race.Trace{{Tick: 40, Right: true}, {Tick: 42}}.Player()
	for i := 1; !sim.Crashed() && i <= 3000; i++ {
		sim.Step(input.At(i))
	}
	final := sim.Session()

	id, err := store.SaveRun(Run{
		Seed:       77,
		Difficulty: 1,
		Score:      final.TotalScore,
		Ticks:      final.Tick,
		Replay:     Replay{Draws: src.Log(), Trace: sim.Trace()},
	})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	run, err := store.RunByID(id)
	if err != nil || run == nil {
		t.Fatalf("RunByID() = %v, %v", run, err)
	}
	got, err := race.Replay(cfg, run.Difficulty, run.Seed, run.Replay.Draws, run.Replay.Trace, run.Ticks)
	if err != nil {
		t.Fatalf("Replay() failed: %v", err)
	}
	if got.TotalScore != run.Score {
		t.Errorf("Replayed score = %d, want %d", got.TotalScore, run.Score)
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
