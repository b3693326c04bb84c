package config

import (
	_ "embed"
)

//go:embed defaults/highway.yaml
var defaultHighwayYAML []byte

// DefaultHighwayConfig returns the built-in tunables used when no YAML
// source can be read.
func DefaultHighwayConfig() HighwayConfig {
	return HighwayConfig{
		Display: DisplayConfig{Width: 800, Height: 600},
		Road: RoadConfig{
			Lanes:        []int{215, 295, 415, 495},
			MinX:         200,
			MaxX:         520,
			OffRoadLeft:  175,
			OffRoadRight: 535,
		},
		Player:     PlayerConfig{StartX: 215, Y: 480, Width: 99, Height: 100},
		Enemy:      EnemyConfig{Width: 99, Height: 100, StartY: -600, BaseSpeed: 5},
		Background: BackgroundConfig{BaseSpeed: 3},
		Scoring: ScoringConfig{
			NearMissBonus:      10,
			LaneChangeBonus:    2,
			SurvivalBonus:      50,
			SurvivalBonusEvery: 600,
		},
		NearMiss:        NearMissConfig{ThresholdX: 50, ThresholdY: 100, ResetOffset: 50, FlashTicks: 30},
		Collision:       CollisionConfig{InsetX: 10, PlayerTop: 20, PlayerBottom: 50},
		Ramp:            RampConfig{EveryTicks: 100, Step: 1},
		Input:           InputConfig{KeyRepeatDelay: 11},
		ResumeCountdown: 180,
		Difficulties: []Difficulty{
			{Name: "Easy", SpeedMultiplier: 0.7, ScoreMultiplier: 1.0, MaxEnemySpeed: 10, MaxBackgroundSpeed: 7},
			{Name: "Normal", SpeedMultiplier: 1.0, ScoreMultiplier: 1.2, MaxEnemySpeed: 15, MaxBackgroundSpeed: 12},
			{Name: "Hard", SpeedMultiplier: 1.3, ScoreMultiplier: 1.5, MaxEnemySpeed: 18, MaxBackgroundSpeed: 15},
			{Name: "Insane", SpeedMultiplier: 1.6, ScoreMultiplier: 2.0},
		},
		Cars: []Car{
			{Name: "Default", UnlockScore: 0},
			{Name: "Lamborghini", UnlockScore: 500},
			{Name: "Ferrari", UnlockScore: 1500},
			{Name: "Rolls Royce", UnlockScore: 3000},
		},
		Challenges: []ChallengeTemplate{
			{Type: "score", Target: 2000, Description: "Score 2000 points"},
			{Type: "survival", Target: 3600, Description: "Survive for 1 minute"},
			{Type: "near_miss", Target: 15, Description: "Get 15 near misses"},
			{Type: "lane_change", Target: 30, Description: "Change lanes 30 times"},
		},
	}
}
