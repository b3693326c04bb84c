// Package tui is the Bubble Tea front end for the highway game. It decodes
// keys into logical events, drives the state machine on a fixed tick and
// renders each mode.
package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/speedy-highway/internal/core"
	"github.com/vovakirdan/speedy-highway/internal/game"
)

// seedCharLimit bounds the typed seed, sign included.
const seedCharLimit = 15

// statusTicks is how long a notification stays in the status line.
const statusTicks = 120

// TickMsg is sent to trigger a simulation tick.
type TickMsg time.Time

// tickCmd schedules the next tick at the given rate.
func tickCmd(tickRate int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Model is the Bubble Tea model for the highway front end.
type Model struct {
	machine *game.Machine
	config  core.RuntimeConfig
	screen  *core.Screen
	keys    KeyMap
	theme   Theme
	help    help.Model
	logger  *log.Logger

	queue     core.EventQueue
	held      heldKeys
	seedInput textinput.Model
	scores    scoreboard
	lastMode  game.Mode

	status    string
	statusTTL int
	warning   bool

	width, height int
	quitting      bool
}

// NewModel creates a front end for the given machine.
func NewModel(machine *game.Machine, cfg core.RuntimeConfig, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ti := textinput.New()
	ti.Placeholder = "e.g. 42"
	ti.CharLimit = seedCharLimit
	ti.Width = seedCharLimit + 1

	return Model{
		machine:   machine,
		config:    cfg,
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		keys:      DefaultKeyMap(),
		theme:     DefaultTheme(),
		help:      help.New(),
		logger:    logger,
		seedInput: ti,
		scores:    newScoreboard(cfg.ScreenH),
		lastMode:  machine.Mode(),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-2, 1))
		m.scores.resize(msg.Height)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey decodes a key press. Seed entry owns the keyboard while its
// prompt is on top.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode, ov := m.machine.Mode(), m.machine.Overlays()

	switch msg.String() {
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	if ov.Has(game.OverlaySeedInput) && !ov.Has(game.OverlayQuitConfirm) {
		switch msg.Type {
		case tea.KeyEnter:
			m.queue.Push(core.SetSeedEvent(m.seedInput.Value()))
			m.closeSeedInput()
			return m, nil
		case tea.KeyEsc:
			m.queue.Push(core.NewEvent(core.EventCancel))
			m.closeSeedInput()
			return m, nil
		case tea.KeyCtrlC:
			m.queue.Push(core.NewEvent(core.EventRequestQuit))
			return m, nil
		}
		var cmd tea.Cmd
		m.seedInput, cmd = m.seedInput.Update(msg)
		m.seedInput.SetValue(sanitizeSeed(m.seedInput.Value()))
		return m, cmd
	}

	if mode == game.ModePlaying && ov == game.OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.held.press(true)
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.held.press(false)
			return m, nil
		}
	}

	if mode == game.ModeHighScores && ov == game.OverlayNone &&
		(key.Matches(msg, m.keys.Up) || key.Matches(msg, m.keys.Down)) {
		var cmd tea.Cmd
		m.scores, cmd = m.scores.update(msg)
		return m, cmd
	}

	if ev, ok := m.keys.Decode(msg, mode, ov); ok {
		m.queue.Push(ev)
		if ev.Kind == core.EventRequestSeedInput {
			m.seedInput.Reset()
			return m, m.seedInput.Focus()
		}
	}
	return m, nil
}

func (m *Model) closeSeedInput() {
	m.seedInput.Reset()
	m.seedInput.Blur()
}

// handleTick advances the machine by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	ctl := m.held.tick()
	if m.machine.Mode() != game.ModePlaying {
		m.held.release()
		ctl = core.Controls{}
	}
	fullscreen := m.machine.Settings().Fullscreen
	m.machine.Tick(m.queue.Drain(), ctl)

	for _, n := range m.machine.Notifications() {
		m.notify(n)
	}
	if m.statusTTL > 0 {
		m.statusTTL--
	}

	if m.machine.Quit() {
		m.quitting = true
		return m, tea.Quit
	}

	if mode := m.machine.Mode(); mode != m.lastMode {
		if mode == game.ModeHighScores {
			m.scores.load(m.machine.Progress(), m.machine.Config())
		}
		m.lastMode = mode
	}

	next := tickCmd(m.config.TickRate)
	if now := m.machine.Settings().Fullscreen; now != fullscreen {
		if now {
			return m, tea.Batch(next, tea.EnterAltScreen)
		}
		return m, tea.Batch(next, tea.ExitAltScreen)
	}
	return m, next
}

func (m *Model) notify(n game.Notification) {
	switch n.Kind {
	case game.NoteSettings:
		return
	case game.NoteNearMiss:
		m.logger.Debug("near miss")
		return
	case game.NoteCrash:
		m.logger.Debug("crash", "cause", n.Message)
		return
	case game.NotePersistWarning, game.NoteDesync:
		m.logger.Warn(n.Message)
		m.warning = true
	default:
		m.logger.Info(n.Message)
		m.warning = false
	}
	m.status = n.Message
	m.statusTTL = statusTicks
}

// sanitizeSeed keeps digits and one leading minus sign.
func sanitizeSeed(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsDigit(r) || (i == 0 && r == '-') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// saveScreenshot saves the current race screen to a file.
func (m *Model) saveScreenshot() {
	dir := filepath.Join(os.Getenv("HOME"), ".highway", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.logger.Warn("cannot create screenshot directory", "error", err)
		return
	}
	path := filepath.Join(dir, fmt.Sprintf("highway_%s.txt", time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.logger.Warn("cannot save screenshot", "error", err)
		return
	}
	m.status = "Screenshot saved to " + path
	m.statusTTL = statusTicks
}

// View renders the current mode.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch mode := m.machine.Mode(); mode {
	case game.ModePlaying, game.ModePaused:
		sess, _ := m.machine.Session()
		body = renderRace(m.screen, m.machine.Config(), m.theme.Palette, raceFrame{
			Session:   sess,
			Car:       m.machine.Progress().SelectedCar,
			Countdown: m.machine.Countdown(),
			Paused:    mode == game.ModePaused,
			Challenge: m.machine.DailyChallenge(),
		})
	case game.ModeGameOver:
		body = m.place(m.gameOverView())
	case game.ModeHighScores:
		body = m.place(m.scores.view(m.theme))
	case game.ModeAchievements:
		body = m.place(m.achievementsView())
	case game.ModeCarSelection:
		body = m.place(m.carSelectionView())
	default:
		body = m.place(m.menuView())
	}
	if o := m.overlayView(); o != "" {
		body = m.place(o)
	}

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.statusTTL > 0 {
		style := m.theme.Status
		if m.warning {
			style = m.theme.Warning
		}
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Help.Render(m.help.View(m.keys.Help(m.machine.Mode(), m.machine.Overlays()))))
	return b.String()
}

// Run starts the Bubble Tea program.
func Run(machine *game.Machine, cfg core.RuntimeConfig, logger *log.Logger) error {
	model := NewModel(machine, cfg, logger)

	var opts []tea.ProgramOption
	if machine.Settings().Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, opts...)

	_, err := p.Run()
	return err
}
