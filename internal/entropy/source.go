// Package entropy provides the seeded random source that drives every
// gameplay draw. Draws are recorded so a session can be replayed exactly.
package entropy

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrReplayExhausted is latched when a replay asks for more draws than were recorded.
	ErrReplayExhausted = errors.New("entropy: replay log exhausted")
	// ErrNoCandidates is latched when Choice is called with an empty slice.
	ErrNoCandidates = errors.New("entropy: choice from empty candidates")
)

// Source is a deterministic random source with record and replay modes.
//
// In record mode every value returned by Choice or Randint is appended to the
// log. In replay mode values are read back from the log through a cursor and
// the PRNG is not consulted.
type Source struct {
	rng       *rand.Rand
	seed      int64
	log       []int
	cursor    int
	replaying bool
	err       error
}

// New creates a source seeded with seed.
func New(seed int64) *Source {
	s := &Source{}
	s.Seed(seed)
	return s
}

// Seed resets the PRNG to seed and starts a fresh recording.
func (s *Source) Seed(seed int64) {
	s.seed = seed
	s.rng = rand.New(rand.NewSource(seed))
	s.log = s.log[:0]
	s.cursor = 0
	s.err = nil
}

// GenerateSeed derives a new seed from the clock, the process id and the
// source's address, applies it, and returns it.
func (s *Source) GenerateSeed() int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(buf[8:], uint64(os.Getpid()))
	d := xxhash.New()
	_, _ = d.Write(buf[:])
	_, _ = d.WriteString(fmt.Sprintf("%p", s))
	seed := int64(d.Sum64() & 0xffffffff)
	s.Seed(seed)
	return seed
}

// CurrentSeed returns the seed last applied.
func (s *Source) CurrentSeed() int64 {
	return s.seed
}

// Choice returns one of candidates.
//
// During replay the next logged value is returned as is. If the log is used
// up, the first candidate is returned and ErrReplayExhausted is latched.
func (s *Source) Choice(candidates []int) int {
	if s.replaying {
		if v, ok := s.next(); ok {
			return v
		}
		if len(candidates) == 0 {
			return 0
		}
		return candidates[0]
	}
	if len(candidates) == 0 {
		s.latch(ErrNoCandidates)
		return 0
	}
	v := candidates[s.rng.Intn(len(candidates))]
	s.log = append(s.log, v)
	return v
}

// Randint returns an integer in [min, max]. Bounds given in reverse order
// are swapped. Replay exhaustion returns min and latches ErrReplayExhausted.
func (s *Source) Randint(min, max int) int {
	if max < min {
		min, max = max, min
	}
	if s.replaying {
		if v, ok := s.next(); ok {
			return v
		}
		return min
	}
	v := min + s.rng.Intn(max-min+1)
	s.log = append(s.log, v)
	return v
}

// StartReplay switches to replay mode over a copy of log and re-seeds.
func (s *Source) StartReplay(seed int64, log []int) {
	s.Seed(seed)
	s.log = append(s.log[:0], log...)
	s.replaying = true
}

// StopReplay returns to record mode and clears the log.
func (s *Source) StopReplay() {
	s.replaying = false
	s.log = s.log[:0]
	s.cursor = 0
	s.err = nil
}

// Replaying reports whether the source is in replay mode.
func (s *Source) Replaying() bool {
	return s.replaying
}

// Log returns a copy of the recorded (or loaded) draws.
func (s *Source) Log() []int {
	out := make([]int, len(s.log))
	copy(out, s.log)
	return out
}

// Remaining returns how many replay draws are left unconsumed.
func (s *Source) Remaining() int {
	if !s.replaying {
		return 0
	}
	return len(s.log) - s.cursor
}

// Err returns the first latched error since the last Seed, or nil.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) next() (int, bool) {
	if s.cursor >= len(s.log) {
		s.latch(fmt.Errorf("%w after %d draws", ErrReplayExhausted, len(s.log)))
		return 0, false
	}
	v := s.log[s.cursor]
	s.cursor++
	return v, true
}

func (s *Source) latch(err error) {
	if s.err == nil {
		s.err = err
	}
}
