// Package race runs the per-tick lane-dodge simulation: enemy movement, lane
// draws, scoring, near misses, held-key input and crash detection.
package race

import (
	"math"
	"slices"

	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
)

// Entropy is the random source the simulation draws enemy lanes from.
type Entropy interface {
	Choice(candidates []int) int
	Err() error
}

// Observer is called once per tick after scoring with the updated session.
type Observer func(Session)

type direction int

const (
	left direction = iota
	right
)

// Sim owns one race session.
type Sim struct {
	cfg      config.HighwayConfig
	ramp     *config.SpeedRamp
	src      Entropy
	observer Observer

	sess Session

	held      [2]bool
	lastPress [2]int

	trace    Trace
	lastCtl  core.Controls
	desynced bool
}

// NewSim starts a session at the given difficulty. The initial enemy lane
// is the first draw from src.
func NewSim(cfg config.HighwayConfig, difficulty int, src Entropy) *Sim {
	ramp := config.NewSpeedRamp(cfg, difficulty)
	s := &Sim{
		cfg:  cfg,
		ramp: ramp,
		src:  src,
	}
	s.sess = Session{
		Difficulty:  core.Clamp(difficulty, 0, len(cfg.Difficulties)-1),
		PlayerX:     cfg.Player.StartX,
		PlayerY:     cfg.Player.Y,
		EnemyX:      src.Choice(cfg.Road.Lanes),
		EnemyY:      cfg.Enemy.StartY,
		EnemySpeed:  ramp.InitialEnemySpeed(),
		ScrollSpeed: ramp.InitialScrollSpeed(),
	}
	return s
}

// SetObserver installs the per-tick observer.
func (s *Sim) SetObserver(o Observer) {
	s.observer = o
}

// Session returns a snapshot of the current state.
func (s *Sim) Session() Session {
	return s.sess
}

// Crashed reports whether the session has ended.
func (s *Sim) Crashed() bool {
	return s.sess.Crashed
}

// Trace returns the recorded input changes.
func (s *Sim) Trace() Trace {
	return slices.Clone(s.trace)
}

// Step advances one tick with the given held controls. It does nothing once
// the session has crashed.
func (s *Sim) Step(ctl core.Controls) []Event {
	if s.sess.Crashed {
		return nil
	}
	var events []Event
	sess := &s.sess

	// Enemy movement and respawn
	sess.EnemyY += sess.EnemySpeed
	if sess.EnemyY > s.cfg.Display.Height {
		sess.EnemyY = -s.cfg.Enemy.Height
		sess.EnemyX = s.src.Choice(s.cfg.Road.Lanes)
		sess.NearMissLatch = false
	}
	if err := s.src.Err(); err != nil && !s.desynced {
		s.desynced = true
		events = append(events, Event{Kind: EventDesync, Tick: sess.Tick + 1, Err: err})
	}
	if h := s.cfg.Display.Height; h > 0 {
		sess.ScrollOffset = (sess.ScrollOffset + sess.ScrollSpeed) % h
	}

	sess.Tick++
	sess.Survival++

	s.updateScore()

	if sess.FlashTicks > 0 {
		sess.FlashTicks--
	}
	if s.checkNearMiss() {
		events = append(events, Event{Kind: EventNearMiss, Tick: sess.Tick})
	}

	if s.observer != nil {
		s.observer(s.sess)
	}

	s.record(ctl)
	s.handleInput(ctl)

	if s.ramp.Due(sess.Tick) {
		enemy, scroll := s.ramp.Next(sess.EnemySpeed, sess.ScrollSpeed)
		if enemy != sess.EnemySpeed || scroll != sess.ScrollSpeed {
			events = append(events, Event{Kind: EventSpeedUp, Tick: sess.Tick})
		}
		sess.EnemySpeed, sess.ScrollSpeed = enemy, scroll
	}

	if cause := s.crashCause(); cause != 0 {
		sess.Crashed = true
		sess.Cause = cause
		events = append(events, Event{Kind: EventCrash, Tick: sess.Tick, Cause: cause})
	}
	return events
}

func (s *Sim) updateScore() {
	sess := &s.sess
	sc := s.cfg.Scoring
	sess.BaseScore = sess.Tick
	sess.BonusScore = sess.NearMisses*sc.NearMissBonus +
		sess.LaneChanges*sc.LaneChangeBonus +
		(sess.Survival/sc.SurvivalBonusEvery)*sc.SurvivalBonus
	mult := s.ramp.Difficulty().ScoreMultiplier
	sess.TotalScore = int(math.Floor(float64(sess.BaseScore+sess.BonusScore) * mult))
}

// checkNearMiss counts a near miss once per enemy pass. The latch clears
// once the enemy is well below the player.
func (s *Sim) checkNearMiss() bool {
	sess := &s.sess
	nm := s.cfg.NearMiss
	near := core.Abs(sess.PlayerX-sess.EnemyX) <= nm.ThresholdX &&
		core.Abs(sess.PlayerY-sess.EnemyY) <= nm.ThresholdY
	if near {
		if sess.NearMissLatch {
			return false
		}
		sess.NearMisses++
		sess.NearMissLatch = true
		sess.FlashTicks = nm.FlashTicks
		return true
	}
	if sess.EnemyY > sess.PlayerY+nm.ResetOffset {
		sess.NearMissLatch = false
	}
	return false
}

// handleInput moves one lane on a fresh press, then every KeyRepeatDelay
// ticks while the key stays held.
func (s *Sim) handleInput(ctl core.Controls) {
	pressed := [2]bool{left: ctl.Left, right: ctl.Right}
	for _, d := range []direction{left, right} {
		if !pressed[d] {
			s.held[d] = false
			continue
		}
		if !s.held[d] || s.sess.Tick-s.lastPress[d] >= s.cfg.Input.KeyRepeatDelay {
			s.move(d)
			s.lastPress[d] = s.sess.Tick
		}
		s.held[d] = true
	}
}

// move shifts the player one lane. Past the outer lanes the car lands at
// the off-road position; from off-road it does not move.
func (s *Sim) move(d direction) {
	lanes := s.cfg.Road.Lanes
	i := slices.Index(lanes, s.sess.PlayerX)
	if i < 0 {
		return
	}
	var x int
	switch {
	case d == left && i == 0:
		x = s.cfg.Road.OffRoadLeft
	case d == left:
		x = lanes[i-1]
	case i == len(lanes)-1:
		x = s.cfg.Road.OffRoadRight
	default:
		x = lanes[i+1]
	}
	s.sess.PlayerX = x
	if s.cfg.IsLane(x) {
		s.sess.LaneChanges++
	}
}

// PlayerRect is the player's hitbox: a horizontal band trimmed by the inset.
func (s *Sim) PlayerRect() core.Rect {
	c := s.cfg.Collision
	p := s.cfg.Player
	return core.NewRect(s.sess.PlayerX, s.sess.PlayerY, p.Width, p.Height).
		Shrink(c.InsetX, c.PlayerTop, p.Height-c.PlayerBottom)
}

// EnemyRect is the enemy's hitbox, trimmed horizontally by the inset.
func (s *Sim) EnemyRect() core.Rect {
	e := s.cfg.Enemy
	return core.NewRect(s.sess.EnemyX, s.sess.EnemyY, e.Width, e.Height).
		Shrink(s.cfg.Collision.InsetX, 0, 0)
}

func (s *Sim) crashCause() Cause {
	var c Cause
	if s.sess.PlayerX < s.cfg.Road.MinX || s.sess.PlayerX > s.cfg.Road.MaxX {
		c |= CauseOffRoad
	}
	if s.PlayerRect().Intersects(s.EnemyRect()) {
		c |= CauseCollision
	}
	return c
}

func (s *Sim) record(ctl core.Controls) {
	if ctl == s.lastCtl {
		return
	}
	s.trace = append(s.trace, InputChange{Tick: s.sess.Tick, Left: ctl.Left, Right: ctl.Right})
	s.lastCtl = ctl
}
