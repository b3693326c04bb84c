// Package challenge selects the daily challenge. The pick for a date is a
// pure function of the date string, so every player gets the same one.
package challenge

import (
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/progress"
)

// Store is the part of progress.Store the generator needs.
type Store interface {
	Record() progress.Record
	SetDailyChallenge(c progress.DailyChallenge, date string) error
}

// Generator picks daily challenges from a fixed set of templates.
type Generator struct {
	templates []config.ChallengeTemplate
	clock     Clock
}

// NewGenerator creates a generator. A nil clock uses the wall clock.
func NewGenerator(templates []config.ChallengeTemplate, clock Clock) *Generator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Generator{templates: templates, clock: clock}
}

// Today returns the current date in progress.DayLayout.
func (g *Generator) Today() string {
	return g.clock.Now().Format(progress.DayLayout)
}

// Seed derives the PRNG seed for a date: xxhash of the string truncated to
// 32 bits.
func Seed(date string) int64 {
	return int64(xxhash.Sum64String(date) & 0xffffffff)
}

// Pick returns the challenge for date with completed cleared.
func (g *Generator) Pick(date string) progress.DailyChallenge {
	if len(g.templates) == 0 {
		return progress.DailyChallenge{}
	}
	rng := rand.New(rand.NewSource(Seed(date)))
	t := g.templates[rng.Intn(len(g.templates))]
	return progress.DailyChallenge{
		Type:        t.Type,
		Target:      t.Target,
		Description: t.Description,
	}
}

// Generate returns the challenge for today. When the stored challenge is
// from another day a new one is picked and persisted; otherwise the stored
// challenge is returned unchanged. The bool reports whether a new challenge
// was generated. A persist error is returned alongside a valid challenge.
func (g *Generator) Generate(store Store, today string) (progress.DailyChallenge, bool, error) {
	rec := store.Record()
	if rec.LastDailyChallenge != nil && *rec.LastDailyChallenge == today {
		return rec.DailyChallenge, false, nil
	}
	c := g.Pick(today)
	return c, true, store.SetDailyChallenge(c, today)
}

// Current calls Generate with the clock's date.
func (g *Generator) Current(store Store) (progress.DailyChallenge, bool, error) {
	return g.Generate(store, g.Today())
}
