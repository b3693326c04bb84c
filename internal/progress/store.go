package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/vovakirdan/speedy-highway/internal/config"
)

// TicksPerSecond converts survival ticks to the seconds stored in a ScoreEntry.
const TicksPerSecond = 60

var (
	// ErrMissingRecord means no record file exists yet.
	ErrMissingRecord = errors.New("progress: record file missing")
	// ErrCorruptRecord means the record file could not be parsed.
	ErrCorruptRecord = errors.New("progress: record file corrupt")
	// ErrSchemaViolation means the record parsed but has the wrong shape.
	ErrSchemaViolation = errors.New("progress: record violates schema")
	// ErrPersistFailure means every write path failed. State is kept in memory.
	ErrPersistFailure = errors.New("progress: could not persist record")
	// ErrCarLocked is returned when selecting a car that is not unlocked.
	ErrCarLocked = errors.New("progress: car is locked")
)

// Result summarizes a finished race session.
type Result struct {
	Score         int
	Difficulty    int
	SurvivalTicks int
	NearMisses    int
	LaneChanges   int
}

// Outcome reports what an end-of-game merge changed.
type Outcome struct {
	Entry              ScoreEntry
	Rank               int // 1-based position in the high scores, 0 if it did not place
	NewBest            bool
	UnlockedCars       []int
	ChallengeCompleted bool
}

// Store loads, mutates and persists the Record. Every mutating method saves
// before returning. A save failure is returned wrapped in ErrPersistFailure
// but the in-memory change is kept.
type Store struct {
	path      string
	fallbacks []string
	cfg       config.HighwayConfig
	logger    *log.Logger
	rec       Record
	raw       []byte
	savedTo   string
}

// Option configures a Store.
type Option func(*Store)

// WithFallbacks replaces the default fallback paths tried when the primary
// path cannot be written.
func WithFallbacks(paths ...string) Option {
	return func(s *Store) {
		s.fallbacks = paths
	}
}

// WithLogger sets the logger for warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a store for the record at path. The record starts at
// defaults until Load is called.
func NewStore(path string, cfg config.HighwayConfig, opts ...Option) *Store {
	s := &Store{
		path:      path,
		fallbacks: defaultFallbacks(filepath.Base(path)),
		cfg:       cfg,
		logger:    log.New(io.Discard),
		rec:       Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultFallbacks returns the directory of the executable and the working
// directory, in that order.
func defaultFallbacks(name string) []string {
	var paths []string
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), name))
	}
	if wd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(wd, name))
	}
	return paths
}

// Path returns the primary record path.
func (s *Store) Path() string {
	return s.path
}

// SavedPath returns where the last successful save went, or "".
func (s *Store) SavedPath() string {
	return s.savedTo
}

// Record returns a copy of the current record.
func (s *Store) Record() Record {
	return s.rec.Clone()
}

// Load reads and validates the record file.
//
// On a missing, unparsable or invalid file the record is reset to defaults
// and the returned error wraps ErrMissingRecord, ErrCorruptRecord or
// ErrSchemaViolation. These are recoverable. Violations are returned for
// diagnostics.
func (s *Store) Load() ([]string, error) {
	s.rec = Default()
	s.raw = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingRecord, s.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
	}
	if !gjson.ValidBytes(data) {
		s.logger.Warn("record file is corrupt, using defaults", "path", s.path)
		return nil, fmt.Errorf("%w: %s", ErrCorruptRecord, s.path)
	}
	if violations := Validate(data); len(violations) > 0 {
		s.logger.Warn("record file failed validation, using defaults", "path", s.path, "violations", len(violations))
		return violations, fmt.Errorf("%w: %s", ErrSchemaViolation, strings.Join(violations, "; "))
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		violation := fmt.Sprintf("decode: %v", err)
		return []string{violation}, fmt.Errorf("%w: %s", ErrSchemaViolation, violation)
	}
	rec.normalize()
	s.rec = rec
	s.raw = data
	return nil, nil
}

// Save writes the record to the primary path, then each fallback in turn.
func (s *Store) Save() error {
	data, err := s.encode()
	if err != nil {
		return fmt.Errorf("progress: cannot encode record: %w", err)
	}

	var errs []error
	for _, p := range append([]string{s.path}, s.fallbacks...) {
		if err := writeAtomic(p, data); err != nil {
			s.logger.Debug("save attempt failed", "path", p, "error", err)
			errs = append(errs, err)
			continue
		}
		if p != s.path && s.savedTo != p {
			s.logger.Warn("progress saved to fallback path", "path", p)
		}
		s.savedTo = p
		s.raw = data
		return nil
	}

	joined := errors.Join(errs...)
	s.logger.Warn("could not save progress", "error", joined)
	return fmt.Errorf("%w: %w", ErrPersistFailure, joined)
}

// encode marshals the record and carries over top-level keys from the
// previous file that the record does not define.
func (s *Store) encode() ([]byte, error) {
	data, err := json.MarshalIndent(s.rec, "", "  ")
	if err != nil {
		return nil, err
	}
	if s.raw == nil {
		return data, nil
	}
	known := KnownKeys()
	var setErr error
	gjson.ParseBytes(s.raw).ForEach(func(key, value gjson.Result) bool {
		if slices.Contains(known, key.String()) {
			return true
		}
		data, setErr = sjson.SetRawBytes(data, escapeKey(key.String()), []byte(value.Raw))
		return setErr == nil
	})
	if setErr != nil {
		return nil, setErr
	}
	return data, nil
}

// pathEscaper escapes every character sjson reads as path syntax.
var pathEscaper = strings.NewReplacer(
	`\`, `\\`,
	".", `\.`,
	"*", `\*`,
	"?", `\?`,
	"|", `\|`,
	"#", `\#`,
	"@", `\@`,
	":", `\:`,
	"!", `\!`,
)

// escapeKey makes a literal key safe to use as an sjson path.
func escapeKey(k string) string {
	return pathEscaper.Replace(k)
}

// writeAtomic writes data to a temp file next to path and renames it into
// place so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".game_data-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

// SetDifficulty stores the selected difficulty index.
func (s *Store) SetDifficulty(i int) error {
	if i < 0 || i >= config.DifficultyCount {
		return fmt.Errorf("progress: difficulty %d out of range", i)
	}
	s.rec.Difficulty = i
	return s.Save()
}

// SelectCar stores the selected car. The car must be unlocked.
func (s *Store) SelectCar(i int) error {
	if !s.rec.HasCar(i) {
		return fmt.Errorf("%w: %d", ErrCarLocked, i)
	}
	s.rec.SelectedCar = i
	return s.Save()
}

// UnlockCar adds car i to the unlocked set. It reports whether the car was
// newly unlocked; nothing is saved if it already was.
func (s *Store) UnlockCar(i int) (bool, error) {
	if s.rec.HasCar(i) {
		return false, nil
	}
	s.rec.UnlockedCars = append(s.rec.UnlockedCars, i)
	return true, s.Save()
}

// UnlockCarsForScore unlocks every car whose threshold score has been
// reached and returns the indices that were newly unlocked.
func (s *Store) UnlockCarsForScore(score int) ([]int, error) {
	var unlocked []int
	for i, car := range s.cfg.Cars {
		if car.UnlockScore <= 0 || score < car.UnlockScore || s.rec.HasCar(i) {
			continue
		}
		s.rec.UnlockedCars = append(s.rec.UnlockedCars, i)
		unlocked = append(unlocked, i)
	}
	if len(unlocked) == 0 {
		return nil, nil
	}
	return unlocked, s.Save()
}

// UnlockAchievement marks id as unlocked. It reports whether it was newly
// unlocked; flags never go back to false except through ResetAll.
func (s *Store) UnlockAchievement(id string) (bool, error) {
	if s.rec.Achievements[id] {
		return false, nil
	}
	s.rec.Achievements[id] = true
	return true, s.Save()
}

// SetDailyChallenge stores the challenge generated for date.
func (s *Store) SetDailyChallenge(c DailyChallenge, date string) error {
	s.rec.DailyChallenge = c
	s.rec.LastDailyChallenge = &date
	return s.Save()
}

// MergeEndOfGame folds a finished session into the record in one update
// and saves once.
func (s *Store) MergeEndOfGame(r Result, now time.Time) (Outcome, error) {
	diff := clampIndex(r.Difficulty)
	rec := &s.rec

	rec.GamesPlayed++
	rec.TotalPlaytime += r.SurvivalTicks
	if diff > rec.HighestDifficultyReached {
		rec.HighestDifficultyReached = diff
	}

	var out Outcome
	if r.Score > rec.BestScoresPerDifficulty[diff] {
		rec.BestScoresPerDifficulty[diff] = r.Score
		out.NewBest = true
	}

	out.Entry = ScoreEntry{
		Score:        r.Score,
		Difficulty:   s.cfg.DifficultyAt(diff).Name,
		SurvivalTime: r.SurvivalTicks / TicksPerSecond,
		Date:         now.Format(DateLayout),
	}
	ahead := 0
	for _, e := range rec.HighScores {
		if e.Score >= r.Score {
			ahead++
		}
	}
	if ahead < MaxHighScores {
		out.Rank = ahead + 1
	}
	rec.HighScores = append(rec.HighScores, out.Entry)
	rankHighScores(&rec.HighScores)

	for i, car := range s.cfg.Cars {
		if car.UnlockScore > 0 && r.Score >= car.UnlockScore && !rec.HasCar(i) {
			rec.UnlockedCars = append(rec.UnlockedCars, i)
			out.UnlockedCars = append(out.UnlockedCars, i)
		}
	}

	if c := rec.DailyChallenge; !c.IsZero() && !c.Completed && c.MetBy(r) {
		rec.DailyChallenge.Completed = true
		out.ChallengeCompleted = true
	}

	return out, s.Save()
}

// ResetAll restores defaults and saves.
func (s *Store) ResetAll() error {
	s.rec = Default()
	return s.Save()
}
