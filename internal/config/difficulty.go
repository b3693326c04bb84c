package config

// SpeedRamp calculates enemy and scroll speeds for one difficulty level.
type SpeedRamp struct {
	ramp       RampConfig
	difficulty Difficulty
	enemyBase  int
	scrollBase int
}

// NewSpeedRamp creates a ramp for the difficulty at index level.
func NewSpeedRamp(cfg HighwayConfig, level int) *SpeedRamp {
	return &SpeedRamp{
		ramp:       cfg.Ramp,
		difficulty: cfg.DifficultyAt(level),
		enemyBase:  cfg.Enemy.BaseSpeed,
		scrollBase: cfg.Background.BaseSpeed,
	}
}

// Difficulty returns the level this ramp was built for.
func (r *SpeedRamp) Difficulty() Difficulty {
	return r.difficulty
}

// InitialEnemySpeed returns the base enemy speed scaled by the difficulty,
// truncated toward zero.
func (r *SpeedRamp) InitialEnemySpeed() int {
	return int(float64(r.enemyBase) * r.difficulty.SpeedMultiplier)
}

// InitialScrollSpeed returns the base background speed scaled by the difficulty.
func (r *SpeedRamp) InitialScrollSpeed() int {
	return int(float64(r.scrollBase) * r.difficulty.SpeedMultiplier)
}

// Due reports whether speeds ramp on this tick.
func (r *SpeedRamp) Due(tick int) bool {
	return tick > 0 && r.ramp.EveryTicks > 0 && tick%r.ramp.EveryTicks == 0
}

// Next returns the ramped speeds, each clamped to the difficulty cap.
// A zero cap means uncapped.
func (r *SpeedRamp) Next(enemy, scroll int) (int, int) {
	return capSpeed(enemy+r.ramp.Step, r.difficulty.MaxEnemySpeed),
		capSpeed(scroll+r.ramp.Step, r.difficulty.MaxBackgroundSpeed)
}

// capSpeed restricts speed to max unless max is zero.
func capSpeed(speed, max int) int {
	if max > 0 && speed > max {
		return max
	}
	return speed
}
