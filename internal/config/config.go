// Package config provides YAML-based tunables for the highway simulation and
// environment-based runtime paths.
package config

import (
	"errors"
	"fmt"
)

// DifficultyCount is the fixed number of difficulty levels. The progress
// record keeps one best score per level.
const DifficultyCount = 4

// HighwayConfig contains every tunable of the race simulation and the
// progression systems around it.
type HighwayConfig struct {
	Display         DisplayConfig       `yaml:"display"`
	Road            RoadConfig          `yaml:"road"`
	Player          PlayerConfig        `yaml:"player"`
	Enemy           EnemyConfig         `yaml:"enemy"`
	Background      BackgroundConfig    `yaml:"background"`
	Scoring         ScoringConfig       `yaml:"scoring"`
	NearMiss        NearMissConfig      `yaml:"near_miss"`
	Collision       CollisionConfig     `yaml:"collision"`
	Ramp            RampConfig          `yaml:"ramp"`
	Input           InputConfig         `yaml:"input"`
	ResumeCountdown int                 `yaml:"resume_countdown"` // Ticks before play resumes after unpause
	Difficulties    []Difficulty        `yaml:"difficulties"`
	Cars            []Car               `yaml:"cars"`
	Challenges      []ChallengeTemplate `yaml:"daily_challenges"`
}

// DisplayConfig is the logical playfield size in pixels.
type DisplayConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// RoadConfig defines lanes and the drivable band.
type RoadConfig struct {
	Lanes        []int `yaml:"lanes"`          // X positions of the four lanes, left to right
	MinX         int   `yaml:"min_x"`          // Player x below this is off-road
	MaxX         int   `yaml:"max_x"`          // Player x above this is off-road
	OffRoadLeft  int   `yaml:"off_road_left"`  // Where a move left of the first lane lands
	OffRoadRight int   `yaml:"off_road_right"` // Where a move right of the last lane lands
}

// PlayerConfig defines the player car.
type PlayerConfig struct {
	StartX int `yaml:"start_x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EnemyConfig defines the oncoming car.
type EnemyConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	StartY    int `yaml:"start_y"`
	BaseSpeed int `yaml:"base_speed"`
}

// BackgroundConfig defines road scrolling.
type BackgroundConfig struct {
	BaseSpeed int `yaml:"base_speed"`
}

// ScoringConfig defines bonus points.
type ScoringConfig struct {
	NearMissBonus      int `yaml:"near_miss_bonus"`
	LaneChangeBonus    int `yaml:"lane_change_bonus"`
	SurvivalBonus      int `yaml:"survival_bonus"`
	SurvivalBonusEvery int `yaml:"survival_bonus_every"` // Ticks per survival bonus
}

// NearMissConfig defines the proximity window and the latch reset.
type NearMissConfig struct {
	ThresholdX  int `yaml:"threshold_x"`
	ThresholdY  int `yaml:"threshold_y"`
	ResetOffset int `yaml:"reset_offset"` // Latch clears once enemy y exceeds player y by this much
	FlashTicks  int `yaml:"flash_ticks"`
}

// CollisionConfig shrinks hitboxes so grazes do not count as hits.
type CollisionConfig struct {
	InsetX       int `yaml:"inset_x"`       // Trimmed from both sides of both cars
	PlayerTop    int `yaml:"player_top"`    // Player hitbox starts this far below the car top
	PlayerBottom int `yaml:"player_bottom"` // Player hitbox ends this far below the car top
}

// RampConfig defines how speed ramps up over a session.
type RampConfig struct {
	EveryTicks int `yaml:"every_ticks"`
	Step       int `yaml:"step"`
}

// InputConfig defines held-key behavior.
type InputConfig struct {
	KeyRepeatDelay int `yaml:"key_repeat_delay"` // Ticks between repeated moves while held
}

// Difficulty is one selectable difficulty level.
type Difficulty struct {
	Name               string  `yaml:"name"`
	SpeedMultiplier    float64 `yaml:"speed_multiplier"`
	ScoreMultiplier    float64 `yaml:"score_multiplier"`
	MaxEnemySpeed      int     `yaml:"max_enemy_speed"`      // 0 = uncapped
	MaxBackgroundSpeed int     `yaml:"max_background_speed"` // 0 = uncapped
}

// Car is a selectable player car.
type Car struct {
	Name        string `yaml:"name"`
	UnlockScore int    `yaml:"unlock_score"`
}

// ChallengeTemplate is one of the daily challenge kinds.
type ChallengeTemplate struct {
	Type        string `yaml:"type"` // score, survival, near_miss or lane_change
	Target      int    `yaml:"target"`
	Description string `yaml:"description"`
}

// Validate checks structural requirements the simulation relies on.
func (c HighwayConfig) Validate() error {
	var errs []error
	if len(c.Road.Lanes) == 0 {
		errs = append(errs, errors.New("road.lanes must not be empty"))
	}
	if c.Road.MinX >= c.Road.MaxX {
		errs = append(errs, fmt.Errorf("road.min_x (%d) must be below road.max_x (%d)", c.Road.MinX, c.Road.MaxX))
	}
	if len(c.Difficulties) != DifficultyCount {
		errs = append(errs, fmt.Errorf("difficulties must have exactly %d entries, got %d", DifficultyCount, len(c.Difficulties)))
	}
	if len(c.Cars) == 0 || c.Cars[0].UnlockScore != 0 {
		errs = append(errs, errors.New("cars[0] must exist and be unlocked from the start"))
	}
	if len(c.Challenges) == 0 {
		errs = append(errs, errors.New("daily_challenges must not be empty"))
	}
	if c.Ramp.EveryTicks <= 0 {
		errs = append(errs, errors.New("ramp.every_ticks must be positive"))
	}
	if c.Scoring.SurvivalBonusEvery <= 0 {
		errs = append(errs, errors.New("scoring.survival_bonus_every must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid highway config: %w", errors.Join(errs...))
	}
	return nil
}

// DifficultyAt returns the difficulty for an index, clamped to the valid range.
func (c HighwayConfig) DifficultyAt(i int) Difficulty {
	if i < 0 {
		i = 0
	}
	if i >= len(c.Difficulties) {
		i = len(c.Difficulties) - 1
	}
	return c.Difficulties[i]
}

// DifficultyNames returns the display names in index order.
func (c HighwayConfig) DifficultyNames() []string {
	names := make([]string, len(c.Difficulties))
	for i, d := range c.Difficulties {
		names[i] = d.Name
	}
	return names
}

// IsLane reports whether x is one of the lane positions.
func (c HighwayConfig) IsLane(x int) bool {
	for _, l := range c.Road.Lanes {
		if l == x {
			return true
		}
	}
	return false
}
