package game

import "strings"

// Mode is the top-level screen the machine is in.
type Mode int

const (
	ModeMenu Mode = iota
	ModePlaying
	ModePaused
	ModeGameOver
	ModeHighScores
	ModeAchievements
	ModeCarSelection
)

var modeNames = map[Mode]string{
	ModeMenu:         "Menu",
	ModePlaying:      "Playing",
	ModePaused:       "Paused",
	ModeGameOver:     "GameOver",
	ModeHighScores:   "HighScores",
	ModeAchievements: "Achievements",
	ModeCarSelection: "CarSelection",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "Unknown"
}

// Overlay flags layer a prompt over the current mode.
type Overlay uint8

const (
	OverlayNone        Overlay = 0
	OverlayQuitConfirm Overlay = 1 << (iota - 1)
	OverlaySeedInput
	OverlayResetConfirm
)

// Has reports whether all bits of o2 are set.
func (o Overlay) Has(o2 Overlay) bool {
	return o2 != 0 && o&o2 == o2
}

// top returns the overlay that receives input. Quit confirmation wins over
// any other prompt.
func (o Overlay) top() Overlay {
	switch {
	case o.Has(OverlayQuitConfirm):
		return OverlayQuitConfirm
	case o.Has(OverlayResetConfirm):
		return OverlayResetConfirm
	case o.Has(OverlaySeedInput):
		return OverlaySeedInput
	}
	return OverlayNone
}

func (o Overlay) String() string {
	if o == OverlayNone {
		return "none"
	}
	var parts []string
	if o.Has(OverlayQuitConfirm) {
		parts = append(parts, "quit")
	}
	if o.Has(OverlaySeedInput) {
		parts = append(parts, "seed")
	}
	if o.Has(OverlayResetConfirm) {
		parts = append(parts, "reset")
	}
	return strings.Join(parts, "|")
}

// NotificationKind identifies a discrete event for sound or UI feedback.
type NotificationKind int

const (
	NoteAchievement NotificationKind = iota
	NoteCarUnlocked
	NoteCrash
	NoteNearMiss
	NoteChallengeComplete
	NoteDesync
	NotePersistWarning
	NoteSeed
	NoteSettings
)

// Notification is raised by the machine; the front end drains them each tick.
type Notification struct {
	Kind    NotificationKind
	Message string
	ID      string // achievement id
	Car     int    // car index
}

// Settings are front-end preferences the machine tracks for the menu.
type Settings struct {
	Fullscreen bool
	Volume     int // 0..MaxVolume
}

// Volume scale.
const (
	MaxVolume     = 10
	DefaultVolume = 7
)
