// Package game orchestrates a highway session: it owns the mode and overlay
// flags, dispatches logical input through a transition table, drives the
// race simulation while playing and folds results into the progress store.
package game

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/speedy-highway/internal/achievement"
	"github.com/vovakirdan/speedy-highway/internal/challenge"
	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
	"github.com/vovakirdan/speedy-highway/internal/progress"
	"github.com/vovakirdan/speedy-highway/internal/race"
	"github.com/vovakirdan/speedy-highway/internal/storage"
)

// Ledger records finished runs for later replay.
type Ledger interface {
	SaveRun(run storage.Run) (int64, error)
}

// Options wires a Machine to its collaborators. Store and Source are
// required; the rest have defaults.
type Options struct {
	Config config.HighwayConfig
	Store  *progress.Store
	Source *entropy.Source
	Clock  challenge.Clock
	Ledger Ledger
	Logger *log.Logger

	Fullscreen bool   // initial display setting
	Seed       *int64 // fixes the seed of every race when set
}

// RunSummary describes the last finished race for the game-over screen.
type RunSummary struct {
	Session race.Session
	Outcome progress.Outcome
	Seed    int64
	RunID   int64 // 0 when the ledger is unavailable
}

// Machine is the top-level game state machine. It is not safe for
// concurrent use; the front end drives it from a single tick loop.
type Machine struct {
	cfg    config.HighwayConfig
	store  *progress.Store
	src    *entropy.Source
	clock  challenge.Clock
	gen    *challenge.Generator
	ledger Ledger
	logger *log.Logger

	mode     Mode
	overlays Overlay
	quit     bool

	rec        progress.Record // read-only mirror of the store
	sim        *race.Sim
	countdown  int
	lastRun    *RunSummary
	fixedSeed  *int64
	carPreview int
	settings   Settings
	notes      []Notification
}

// NewMachine creates a machine in Menu and makes sure today's challenge exists.
func NewMachine(opts Options) *Machine {
	if opts.Clock == nil {
		opts.Clock = challenge.RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	m := &Machine{
		cfg:       opts.Config,
		store:     opts.Store,
		src:       opts.Source,
		clock:     opts.Clock,
		gen:       challenge.NewGenerator(opts.Config.Challenges, opts.Clock),
		ledger:    opts.Ledger,
		logger:    opts.Logger,
		mode:      ModeMenu,
		settings:  Settings{Fullscreen: opts.Fullscreen, Volume: DefaultVolume},
		fixedSeed: opts.Seed,
	}
	m.refreshChallenge()
	m.refresh()
	m.carPreview = m.rec.SelectedCar
	return m
}

// Mode returns the current mode.
func (m *Machine) Mode() Mode { return m.mode }

// Overlays returns the active overlay flags.
func (m *Machine) Overlays() Overlay { return m.overlays }

// Quit reports whether the player confirmed quitting.
func (m *Machine) Quit() bool { return m.quit }

// Countdown returns the ticks left before play resumes after a pause.
func (m *Machine) Countdown() int { return m.countdown }

// Settings returns the front-end preferences.
func (m *Machine) Settings() Settings { return m.settings }

// CarPreview returns the car highlighted on the car selection screen.
func (m *Machine) CarPreview() int { return m.carPreview }

// LastRun returns the summary of the last finished race, or nil.
func (m *Machine) LastRun() *RunSummary { return m.lastRun }

// Config returns the tunables the machine runs with.
func (m *Machine) Config() config.HighwayConfig { return m.cfg }

// Progress returns a copy of the persisted record.
func (m *Machine) Progress() progress.Record { return m.rec.Clone() }

// DailyChallenge returns today's challenge.
func (m *Machine) DailyChallenge() progress.DailyChallenge { return m.rec.DailyChallenge }

// Achievements returns every achievement with its unlock flag.
func (m *Machine) Achievements() []achievement.Status {
	return achievement.Statuses(m.rec.Achievements)
}

// Session returns the current race snapshot. ok is false before the first race.
func (m *Machine) Session() (race.Session, bool) {
	if m.sim == nil {
		return race.Session{}, false
	}
	return m.sim.Session(), true
}

// Seed returns the seed of the entropy source and whether it was fixed by
// the player.
func (m *Machine) Seed() (int64, bool) {
	return m.src.CurrentSeed(), m.fixedSeed != nil
}

// Notifications returns and clears pending notifications.
func (m *Machine) Notifications() []Notification {
	out := m.notes
	m.notes = nil
	return out
}

// Tick dispatches queued events, then advances the race one step when
// playing.
func (m *Machine) Tick(events []core.Event, ctl core.Controls) {
	for _, e := range events {
		m.Dispatch(e)
	}
	if m.mode != ModePlaying || m.overlays.Has(OverlayQuitConfirm) || m.sim == nil {
		return
	}
	if m.countdown > 0 {
		m.countdown--
		if m.countdown > 0 {
			return
		}
	}
	m.step(ctl)
}

// Dispatch runs the handler for (mode, top overlay, event). Events with no
// handler are ignored. It reports whether a handler ran.
func (m *Machine) Dispatch(e core.Event) bool {
	top := m.overlays.top()
	h, ok := transitions[transitionKey{m.mode, top, e.Kind}]
	if !ok {
		h, ok = transitions[transitionKey{anyMode, top, e.Kind}]
	}
	if !ok {
		return false
	}
	from := m.mode
	h(m, e)
	if m.mode != from {
		m.logger.Debug("mode changed", "from", from, "to", m.mode, "event", e.Kind)
	}
	return true
}

func (m *Machine) notify(n Notification) {
	m.notes = append(m.notes, n)
}

// persisted turns a store error into a warning notification.
func (m *Machine) persisted(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, progress.ErrPersistFailure) {
		m.notify(Notification{Kind: NotePersistWarning, Message: "Progress could not be saved"})
		return
	}
	m.logger.Error("progress update failed", "error", err)
}

// refresh re-reads the record mirror after a store mutation.
func (m *Machine) refresh() {
	m.rec = m.store.Record()
}

func (m *Machine) refreshChallenge() {
	c, created, err := m.gen.Current(m.store)
	m.persisted(err)
	if created {
		m.logger.Info("new daily challenge", "type", c.Type, "target", c.Target)
	}
}

func (m *Machine) startRace() {
	if m.fixedSeed != nil {
		m.src.Seed(*m.fixedSeed)
	} else {
		m.src.GenerateSeed()
	}
	m.refreshChallenge()
	m.refresh()

	m.sim = race.NewSim(m.cfg, m.rec.Difficulty, m.src)
	m.sim.SetObserver(m.observe)
	m.countdown = 0
	m.lastRun = nil
	m.mode = ModePlaying
	m.logger.Info("race started", "seed", m.src.CurrentSeed(), "difficulty", m.cfg.DifficultyAt(m.rec.Difficulty).Name)
}

func (m *Machine) step(ctl core.Controls) {
	for _, ev := range m.sim.Step(ctl) {
		switch ev.Kind {
		case race.EventNearMiss:
			m.notify(Notification{Kind: NoteNearMiss, Message: "Near miss!"})
		case race.EventDesync:
			m.logger.Warn("replay desynchronized", "tick", ev.Tick, "error", ev.Err)
			m.notify(Notification{Kind: NoteDesync, Message: ev.Err.Error()})
		case race.EventCrash:
			m.notify(Notification{Kind: NoteCrash, Message: ev.Cause.String()})
			m.finishRace()
		}
	}
}

// observe runs achievement and car-unlock checks once per tick.
func (m *Machine) observe(s race.Session) {
	m.checkAchievements(achievement.Stats{
		GamesPlayed:        m.rec.GamesPlayed,
		TotalScore:         s.TotalScore,
		Difficulty:         s.Difficulty,
		NearMisses:         s.NearMisses,
		LaneChanges:        s.LaneChanges,
		SurvivalTicks:      s.Survival,
		ChallengeCompleted: m.rec.DailyChallenge.Completed,
		EnemySpeed:         s.EnemySpeed,
	})

	cars, err := m.store.UnlockCarsForScore(s.TotalScore)
	m.persisted(err)
	if len(cars) > 0 {
		m.refresh()
		m.notifyCars(cars)
	}
}

func (m *Machine) checkAchievements(stats achievement.Stats) {
	fresh := achievement.Evaluate(stats, m.rec.Achievements)
	if len(fresh) == 0 {
		return
	}
	for _, a := range fresh {
		added, err := m.store.UnlockAchievement(a.ID)
		m.persisted(err)
		if added {
			m.logger.Info("achievement unlocked", "id", a.ID)
			m.notify(Notification{Kind: NoteAchievement, ID: a.ID, Message: a.Name + ": " + a.Description})
		}
	}
	m.refresh()
}

func (m *Machine) notifyCars(cars []int) {
	for _, c := range cars {
		name := fmt.Sprintf("Car %d", c)
		if c < len(m.cfg.Cars) {
			name = m.cfg.Cars[c].Name
		}
		m.logger.Info("car unlocked", "car", name)
		m.notify(Notification{Kind: NoteCarUnlocked, Car: c, Message: name + " unlocked"})
	}
}

// finishRace merges the session into progress, records the run and moves
// to GameOver.
func (m *Machine) finishRace() {
	s := m.sim.Session()
	out, err := m.store.MergeEndOfGame(progress.Result{
		Score:         s.TotalScore,
		Difficulty:    s.Difficulty,
		SurvivalTicks: s.Survival,
		NearMisses:    s.NearMisses,
		LaneChanges:   s.LaneChanges,
	}, m.clock.Now())
	m.persisted(err)
	m.refresh()

	m.notifyCars(out.UnlockedCars)
	if out.ChallengeCompleted {
		m.notify(Notification{Kind: NoteChallengeComplete, Message: "Daily challenge complete: " + m.rec.DailyChallenge.Description})
	}
	m.checkAchievements(achievement.Stats{
		GamesPlayed:        m.rec.GamesPlayed,
		TotalScore:         s.TotalScore,
		Difficulty:         s.Difficulty,
		NearMisses:         s.NearMisses,
		LaneChanges:        s.LaneChanges,
		SurvivalTicks:      s.Survival,
		ChallengeCompleted: m.rec.DailyChallenge.Completed,
		EnemySpeed:         s.EnemySpeed,
	})

	summary := &RunSummary{Session: s, Outcome: out, Seed: m.src.CurrentSeed()}
	if m.ledger != nil {
		id, err := m.ledger.SaveRun(storage.Run{
			Seed:        summary.Seed,
			Difficulty:  s.Difficulty,
			Score:       s.TotalScore,
			Ticks:       s.Tick,
			NearMisses:  s.NearMisses,
			LaneChanges: s.LaneChanges,
			Cause:       s.Cause.String(),
			Replay:      storage.Replay{Draws: m.src.Log(), Trace: m.sim.Trace()},
		})
		if err != nil {
			m.logger.Warn("could not record run", "error", err)
		}
		summary.RunID = id
	}
	m.lastRun = summary
	m.mode = ModeGameOver
	m.logger.Info("race finished", "score", s.TotalScore, "ticks", s.Tick, "cause", s.Cause, "rank", out.Rank)
}

func (m *Machine) cycleDifficulty() {
	next := (m.rec.Difficulty + 1) % len(m.cfg.Difficulties)
	m.persisted(m.store.SetDifficulty(next))
	m.refresh()
}

// applySeed fixes the seed for the following races. Empty or invalid input
// clears the fixed seed and generates a fresh one.
func (m *Machine) applySeed(text string) {
	text = strings.TrimSpace(text)
	v, err := strconv.ParseInt(text, 10, 64)
	if text == "" || err != nil {
		m.fixedSeed = nil
		seed := m.src.GenerateSeed()
		m.notify(Notification{Kind: NoteSeed, Message: fmt.Sprintf("Generated seed %d", seed)})
		return
	}
	m.fixedSeed = &v
	m.src.Seed(v)
	m.notify(Notification{Kind: NoteSeed, Message: fmt.Sprintf("Seed set to %d", v)})
}

// cycleCar moves the preview through unlocked cars in unlock order.
func (m *Machine) cycleCar(delta int) {
	cars := m.rec.UnlockedCars
	i := 0
	for j, c := range cars {
		if c == m.carPreview {
			i = j
			break
		}
	}
	i = (i + delta + len(cars)) % len(cars)
	m.carPreview = cars[i]
}

func (m *Machine) resetProgress() {
	m.persisted(m.store.ResetAll())
	m.refreshChallenge()
	m.refresh()
	m.carPreview = m.rec.SelectedCar
	m.logger.Info("progress reset")
}
