package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/speedy-highway/internal/challenge"
	"github.com/vovakirdan/speedy-highway/internal/config"
	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/entropy"
	"github.com/vovakirdan/speedy-highway/internal/game"
	"github.com/vovakirdan/speedy-highway/internal/progress"
	"github.com/vovakirdan/speedy-highway/internal/race"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultHighwayConfig()
	store := progress.NewStore(filepath.Join(dir, "game_data.json"), cfg,
		progress.WithFallbacks(filepath.Join(dir, "fallback.json")))
	m := game.NewMachine(game.Options{
		Config: cfg,
		Store:  store,
		Source: entropy.New(7),
		Clock:  challenge.NewFakeClock(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
	})
	return NewModel(m, core.DefaultConfig(), nil)
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func TestDecodeMenu(t *testing.T) {
	k := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.EventKind
	}{
		{tea.KeyMsg{Type: tea.KeyEnter}, core.EventStart},
		{runes("s"), core.EventOpenHighScores},
		{runes("t"), core.EventOpenAchievements},
		{runes("c"), core.EventOpenCarSelection},
		{runes("d"), core.EventCycleDifficulty},
		{runes("f"), core.EventToggleFullscreen},
		{runes("e"), core.EventRequestSeedInput},
		{runes("q"), core.EventRequestQuit},
	}
	for _, tt := range tests {
		ev, ok := k.Decode(tt.msg, game.ModeMenu, game.OverlayNone)
		require.True(t, ok, tt.msg.String())
		assert.Equal(t, tt.want, ev.Kind, tt.msg.String())
	}

	ev, ok := k.Decode(runes("-"), game.ModeMenu, game.OverlayNone)
	require.True(t, ok)
	assert.Equal(t, core.VolumeEvent(-1), ev)
}

func TestDecodeOverlaysTakePriority(t *testing.T) {
	k := DefaultKeyMap()

	ev, ok := k.Decode(runes("y"), game.ModeAchievements, game.OverlayResetConfirm|game.OverlayQuitConfirm)
	require.True(t, ok)
	assert.Equal(t, core.EventConfirmQuit, ev.Kind)

	ev, ok = k.Decode(runes("n"), game.ModeAchievements, game.OverlayResetConfirm)
	require.True(t, ok)
	assert.Equal(t, core.EventCancelReset, ev.Kind)

	_, ok = k.Decode(runes("s"), game.ModeMenu, game.OverlayQuitConfirm)
	assert.False(t, ok)
}

func TestDecodeRaceKeys(t *testing.T) {
	k := DefaultKeyMap()

	ev, ok := k.Decode(runes("p"), game.ModePlaying, game.OverlayNone)
	require.True(t, ok)
	assert.Equal(t, core.EventCancel, ev.Kind)

	ev, ok = k.Decode(tea.KeyMsg{Type: tea.KeyEnter}, game.ModePaused, game.OverlayNone)
	require.True(t, ok)
	assert.Equal(t, core.EventConfirm, ev.Kind)

	_, ok = k.Decode(tea.KeyMsg{Type: tea.KeyLeft}, game.ModePlaying, game.OverlayNone)
	assert.False(t, ok)

	ev, ok = k.Decode(tea.KeyMsg{Type: tea.KeyLeft}, game.ModeCarSelection, game.OverlayNone)
	require.True(t, ok)
	assert.Equal(t, core.EventNavigateLeft, ev.Kind)
}

func TestHeldKeys(t *testing.T) {
	var h heldKeys
	assert.Equal(t, core.Controls{}, h.tick())

	h.press(true)
	for range holdFrames {
		assert.Equal(t, core.Controls{Left: true}, h.tick())
	}
	assert.Equal(t, core.Controls{}, h.tick())

	h.press(true)
	h.press(false)
	assert.Equal(t, core.Controls{Right: true}, h.tick())
}

func TestSanitizeSeed(t *testing.T) {
	assert.Equal(t, "-42", sanitizeSeed("-42"))
	assert.Equal(t, "42", sanitizeSeed("4-2"))
	assert.Equal(t, "123", sanitizeSeed("1a2b3"))
	assert.Equal(t, "", sanitizeSeed("abc"))
}

func TestModelStartAndSteer(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	require.Equal(t, game.ModePlaying, m.machine.Mode())

	// Leftmost lane: steering left leaves the road.
	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft}, TickMsg{})
	assert.Equal(t, game.ModeGameOver, m.machine.Mode())
	assert.Contains(t, m.View(), "CRASHED")
}

func TestModelSeedEntry(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("e"), TickMsg{})
	require.True(t, m.machine.Overlays().Has(game.OverlaySeedInput))

	m = send(t, m, runes("1"), runes("x"), runes("2"), tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{})
	seed, fixed := m.machine.Seed()
	assert.True(t, fixed)
	assert.Equal(t, int64(12), seed)
	assert.Equal(t, game.OverlayNone, m.machine.Overlays())
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, runes("q"), TickMsg{})
	require.True(t, m.machine.Overlays().Has(game.OverlayQuitConfirm))
	assert.Contains(t, m.View(), "Quit the game?")

	m = send(t, m, runes("y"))
	next, cmd := m.Update(TickMsg{})
	require.NotNil(t, cmd)
	assert.True(t, next.(Model).quitting)
	assert.Empty(t, next.(Model).View())
}

func TestModelHighScoresTable(t *testing.T) {
	m := newTestModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{}, tea.KeyMsg{Type: tea.KeyLeft}, TickMsg{})
	require.Equal(t, game.ModeGameOver, m.machine.Mode())

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter}, TickMsg{}, runes("s"), TickMsg{})
	require.Equal(t, game.ModeHighScores, m.machine.Mode())
	assert.Len(t, m.scores.table.Rows(), 1)
	assert.True(t, strings.Contains(m.View(), "HIGH SCORES"))
}

func TestRenderRaceDrawsCars(t *testing.T) {
	cfg := config.DefaultHighwayConfig()
	s := core.NewScreen(80, 24)
	out := renderRace(s, cfg, DefaultPalette(), raceFrame{Session: race.Session{
		PlayerX: cfg.Player.StartX,
		PlayerY: cfg.Player.Y,
		EnemyX:  cfg.Road.Lanes[2],
		EnemyY:  100,
	}})
	assert.NotEmpty(t, out)
	assert.Contains(t, s.String(), "█")
	assert.Contains(t, s.String(), "SPEEDY HIGHWAY")
}
