// Package achievement defines the fixed achievement table and evaluates it
// against session and career statistics.
package achievement

// Difficulty indices referenced by predicates.
const (
	difficultyNormal = 1
	difficultyHard   = 2
	difficultyInsane = 3
)

// Stats is an immutable snapshot of everything a predicate may look at.
type Stats struct {
	GamesPlayed        int
	TotalScore         int
	Difficulty         int
	NearMisses         int
	LaneChanges        int
	SurvivalTicks      int
	ChallengeCompleted bool
	EnemySpeed         int
}

// Achievement is a statically defined goal.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Check       func(Stats) bool
}

// Status pairs an achievement with its persisted unlock flag.
type Status struct {
	Achievement
	Unlocked bool
}

var table = []Achievement{
	{"first_game", "First Drive", "Play your first game",
		func(s Stats) bool { return s.GamesPlayed >= 1 }},
	{"score_1000", "Road Warrior", "Score 1000 points",
		func(s Stats) bool { return s.TotalScore >= 1000 }},
	{"score_5000", "Highway Legend", "Score 5000 points",
		func(s Stats) bool { return s.TotalScore >= 5000 && s.Difficulty >= difficultyNormal }},
	{"near_miss_10", "Close Call", "Get 10 near misses in one game",
		func(s Stats) bool { return s.NearMisses >= 10 }},
	{"lane_master", "Lane Master", "Change lanes 50 times in one game",
		func(s Stats) bool { return s.LaneChanges >= 50 }},
	{"survivor", "Survivor", "Survive for 2 minutes",
		func(s Stats) bool { return s.SurvivalTicks >= 7200 }},
	{"speed_demon", "Speed Demon", "Reach maximum speed",
		speedDemon},
	{"speed_god", "Speed God", "Reach 40 speed in Insane difficulty",
		func(s Stats) bool { return s.Difficulty == difficultyInsane && s.EnemySpeed >= 40 }},
	{"perfect_game", "Perfect Game", "Complete daily challenge",
		func(s Stats) bool { return s.ChallengeCompleted }},
}

// speedDemon needs the Hard cap on Hard and a little more on Insane.
func speedDemon(s Stats) bool {
	if s.Difficulty < difficultyHard {
		return false
	}
	need := 18
	if s.Difficulty > difficultyHard {
		need = 20
	}
	return s.EnemySpeed >= need
}

// All returns the achievement table in display order.
func All() []Achievement {
	out := make([]Achievement, len(table))
	copy(out, table)
	return out
}

// Count returns the number of achievements.
func Count() int {
	return len(table)
}

// Lookup returns the achievement with id.
func Lookup(id string) (Achievement, bool) {
	for _, a := range table {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Evaluate returns the achievements that are locked in unlocked and whose
// predicate holds for s. It does not modify unlocked.
func Evaluate(s Stats, unlocked map[string]bool) []Achievement {
	var fresh []Achievement
	for _, a := range table {
		if unlocked[a.ID] {
			continue
		}
		if a.Check(s) {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// Statuses returns every achievement with its unlock flag.
func Statuses(unlocked map[string]bool) []Status {
	out := make([]Status, len(table))
	for i, a := range table {
		out[i] = Status{Achievement: a, Unlocked: unlocked[a.ID]}
	}
	return out
}

// UnlockedCount counts table entries marked unlocked. Unknown ids are ignored.
func UnlockedCount(unlocked map[string]bool) int {
	n := 0
	for _, a := range table {
		if unlocked[a.ID] {
			n++
		}
	}
	return n
}
