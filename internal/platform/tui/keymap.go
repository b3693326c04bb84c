package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/game"
)

// KeyMap defines the key bindings. Keys are decoded into logical events per
// mode so the state machine never sees raw keys.
type KeyMap struct {
	Left         key.Binding
	Right        key.Binding
	Confirm      key.Binding
	Back         key.Binding
	Pause        key.Binding
	Quit         key.Binding
	Yes          key.Binding
	No           key.Binding
	HighScores   key.Binding
	Achievements key.Binding
	Cars         key.Binding
	Difficulty   key.Binding
	Fullscreen   key.Binding
	VolumeUp     key.Binding
	VolumeDown   key.Binding
	Seed         key.Binding
	Reset        key.Binding
	Up           key.Binding
	Down         key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Left:         key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d", "right")),
		Confirm:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "select")),
		Back:         key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Pause:        key.NewBinding(key.WithKeys("esc", "p"), key.WithHelp("p/esc", "pause")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Yes:          key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "yes")),
		No:           key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "no")),
		HighScores:   key.NewBinding(key.WithKeys("s", "tab"), key.WithHelp("s", "scores")),
		Achievements: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "trophies")),
		Cars:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cars")),
		Difficulty:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "difficulty")),
		Fullscreen:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fullscreen")),
		VolumeUp:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		Seed:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "seed")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset progress")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
	}
}

// helpKeys adapts the bindings of one mode to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

// Help returns the bindings worth showing in the given mode.
func (k KeyMap) Help(mode game.Mode, ov game.Overlay) helpKeys {
	switch {
	case ov.Has(game.OverlayQuitConfirm), ov.Has(game.OverlayResetConfirm):
		return helpKeys{k.Yes, k.No}
	case ov.Has(game.OverlaySeedInput):
		return helpKeys{k.Confirm, k.Back}
	}
	switch mode {
	case game.ModeMenu:
		return helpKeys{k.Confirm, k.HighScores, k.Achievements, k.Cars, k.Difficulty, k.Seed, k.Quit}
	case game.ModePlaying:
		return helpKeys{k.Left, k.Right, k.Pause, k.Quit}
	case game.ModePaused:
		return helpKeys{k.Confirm, k.Quit}
	case game.ModeGameOver:
		return helpKeys{k.Confirm, k.Quit}
	case game.ModeHighScores:
		return helpKeys{k.Up, k.Down, k.Back}
	case game.ModeAchievements:
		return helpKeys{k.Reset, k.Back}
	case game.ModeCarSelection:
		return helpKeys{k.Left, k.Right, k.Confirm, k.Back}
	}
	return helpKeys{k.Quit}
}

// Decode translates a key press into a logical event for the current mode
// and overlays. Steering keys during a race are level signals and are not
// decoded here.
func (k KeyMap) Decode(msg tea.KeyMsg, mode game.Mode, ov game.Overlay) (core.Event, bool) {
	ev := func(kind core.EventKind) (core.Event, bool) { return core.NewEvent(kind), true }

	switch {
	case ov.Has(game.OverlayQuitConfirm):
		switch {
		case key.Matches(msg, k.Yes), msg.String() == "ctrl+c":
			return ev(core.EventConfirmQuit)
		case key.Matches(msg, k.No):
			return ev(core.EventCancelQuit)
		}
		return core.Event{}, false
	case ov.Has(game.OverlayResetConfirm):
		switch {
		case key.Matches(msg, k.Yes):
			return ev(core.EventConfirmReset)
		case key.Matches(msg, k.No):
			return ev(core.EventCancelReset)
		}
		return core.Event{}, false
	}

	if key.Matches(msg, k.Quit) {
		return ev(core.EventRequestQuit)
	}

	switch mode {
	case game.ModeMenu:
		switch {
		case key.Matches(msg, k.Confirm):
			return ev(core.EventStart)
		case key.Matches(msg, k.HighScores):
			return ev(core.EventOpenHighScores)
		case key.Matches(msg, k.Achievements):
			return ev(core.EventOpenAchievements)
		case key.Matches(msg, k.Cars):
			return ev(core.EventOpenCarSelection)
		case key.Matches(msg, k.Difficulty):
			return ev(core.EventCycleDifficulty)
		case key.Matches(msg, k.Fullscreen):
			return ev(core.EventToggleFullscreen)
		case key.Matches(msg, k.VolumeUp):
			return core.VolumeEvent(1), true
		case key.Matches(msg, k.VolumeDown):
			return core.VolumeEvent(-1), true
		case key.Matches(msg, k.Seed):
			return ev(core.EventRequestSeedInput)
		}
	case game.ModePlaying:
		if key.Matches(msg, k.Pause) {
			return ev(core.EventCancel)
		}
	case game.ModePaused:
		switch {
		case key.Matches(msg, k.Pause):
			return ev(core.EventCancel)
		case key.Matches(msg, k.Confirm):
			return ev(core.EventConfirm)
		}
	case game.ModeGameOver:
		if key.Matches(msg, k.Confirm) {
			return ev(core.EventConfirm)
		}
	case game.ModeHighScores:
		if key.Matches(msg, k.Back) {
			return ev(core.EventCancel)
		}
	case game.ModeAchievements:
		switch {
		case key.Matches(msg, k.Back):
			return ev(core.EventCancel)
		case key.Matches(msg, k.Reset):
			return ev(core.EventRequestReset)
		}
	case game.ModeCarSelection:
		switch {
		case key.Matches(msg, k.Left):
			return ev(core.EventNavigateLeft)
		case key.Matches(msg, k.Right):
			return ev(core.EventNavigateRight)
		case key.Matches(msg, k.Confirm):
			return ev(core.EventConfirm)
		case key.Matches(msg, k.Back):
			return ev(core.EventCancel)
		}
	}
	return core.Event{}, false
}
