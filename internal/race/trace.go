package race

import (
	"fmt"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
)

// InputChange records the held controls from Tick onward.
type InputChange struct {
	Tick  int  `msgpack:"t"`
	Left  bool `msgpack:"l"`
	Right bool `msgpack:"r"`
}

// Trace is the sequence of control changes in one session, by tick.
type Trace []InputChange

// TracePlayer yields the held controls for successive ticks of a Trace.
type TracePlayer struct {
	trace Trace
	next  int
	cur   core.Controls
}

// Player returns a player positioned before the first tick.
func (t Trace) Player() *TracePlayer {
	return &TracePlayer{trace: t}
}

// At returns the controls held on tick. Ticks must be requested in
// non-decreasing order.
func (p *TracePlayer) At(tick int) core.Controls {
	for p.next < len(p.trace) && p.trace[p.next].Tick <= tick {
		ch := p.trace[p.next]
		p.cur = core.Controls{Left: ch.Left, Right: ch.Right}
		p.next++
	}
	return p.cur
}

// Replay re-runs a recorded session without a front end. It stops at the
// first crash or after maxTicks. The enemy lanes come from draws, so any
// divergence between the recording and this run is reported as an error
// wrapping entropy.ErrReplayExhausted, or as unused draws.
func Replay(cfg config.HighwayConfig, difficulty int, seed int64, draws []int, trace Trace, maxTicks int) (Session, error) {
	src := entropy.New(seed)
	src.StartReplay(seed, draws)

	sim := NewSim(cfg, difficulty, src)
	player := trace.Player()
	for !sim.Crashed() && sim.Session().Tick < maxTicks {
		sim.Step(player.At(sim.Session().Tick + 1))
	}

	if err := src.Err(); err != nil {
		return sim.Session(), fmt.Errorf("race: replay diverged: %w", err)
	}
	if left := src.Remaining(); left > 0 {
		return sim.Session(), fmt.Errorf("race: replay diverged: %d recorded draws unused", left)
	}
	return sim.Session(), nil
}
