package race

import "strings"

// Cause records why a session ended. Off-road and collision are checked
// independently, so both bits may be set.
type Cause uint8

const (
	CauseOffRoad Cause = 1 << iota
	CauseCollision
)

func (c Cause) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	if c&CauseOffRoad != 0 {
		parts = append(parts, "off_road")
	}
	if c&CauseCollision != 0 {
		parts = append(parts, "collision")
	}
	return strings.Join(parts, "+")
}

// ParseCause is the inverse of Cause.String.
func ParseCause(s string) Cause {
	var c Cause
	for _, p := range strings.Split(s, "+") {
		switch p {
		case "off_road":
			c |= CauseOffRoad
		case "collision":
			c |= CauseCollision
		}
	}
	return c
}

// Session is the transient state of one race. Snapshots are plain copies.
type Session struct {
	Difficulty int

	Tick        int // ticks since start; base score
	Survival    int // ticks survived
	NearMisses  int
	LaneChanges int

	PlayerX, PlayerY int
	EnemyX, EnemyY   int
	EnemySpeed       int
	ScrollSpeed      int
	ScrollOffset     int // background scroll position in [0, display height)

	NearMissLatch bool
	FlashTicks    int // near-miss highlight countdown

	BaseScore  int
	BonusScore int
	TotalScore int

	Crashed bool
	Cause   Cause
}

// EventKind identifies a simulation event.
type EventKind int

const (
	EventNearMiss EventKind = iota
	EventCrash
	EventSpeedUp
	EventDesync
)

func (k EventKind) String() string {
	switch k {
	case EventNearMiss:
		return "near_miss"
	case EventCrash:
		return "crash"
	case EventSpeedUp:
		return "speed_up"
	case EventDesync:
		return "desync"
	}
	return "unknown"
}

// Event is raised by Step for collaborators such as sound or HUD effects.
type Event struct {
	Kind  EventKind
	Tick  int
	Cause Cause // set for EventCrash
	Err   error // set for EventDesync
}
