package game

import "github.com/vovakirdan/speedy-highway/internal/core"

// ResumeCountdownTicks is the default delay between unpausing and the
// first simulated tick.
const ResumeCountdownTicks = 180

// anyMode matches every mode in the transition table.
const anyMode Mode = -1

type transitionKey struct {
	mode    Mode
	overlay Overlay
	kind    core.EventKind
}

type handler func(m *Machine, e core.Event)

var transitions = buildTransitions()

func buildTransitions() map[transitionKey]handler {
	t := make(map[transitionKey]handler)
	on := func(mode Mode, ov Overlay, kind core.EventKind, h handler) {
		t[transitionKey{mode, ov, kind}] = h
	}

	// Menu
	on(ModeMenu, OverlayNone, core.EventStart, func(m *Machine, _ core.Event) { m.startRace() })
	on(ModeMenu, OverlayNone, core.EventOpenHighScores, goTo(ModeHighScores))
	on(ModeMenu, OverlayNone, core.EventOpenAchievements, goTo(ModeAchievements))
	on(ModeMenu, OverlayNone, core.EventOpenCarSelection, func(m *Machine, _ core.Event) {
		m.carPreview = m.rec.SelectedCar
		m.mode = ModeCarSelection
	})
	on(ModeMenu, OverlayNone, core.EventCycleDifficulty, func(m *Machine, _ core.Event) { m.cycleDifficulty() })
	on(ModeMenu, OverlayNone, core.EventToggleFullscreen, func(m *Machine, _ core.Event) {
		m.settings.Fullscreen = !m.settings.Fullscreen
		m.notify(Notification{Kind: NoteSettings, Message: "fullscreen"})
	})
	on(ModeMenu, OverlayNone, core.EventAdjustVolume, func(m *Machine, e core.Event) {
		m.settings.Volume = core.Clamp(m.settings.Volume+e.Delta, 0, MaxVolume)
		m.notify(Notification{Kind: NoteSettings, Message: "volume"})
	})
	on(ModeMenu, OverlayNone, core.EventRequestSeedInput, openOverlay(OverlaySeedInput))
	on(ModeMenu, OverlaySeedInput, core.EventSetSeed, func(m *Machine, e core.Event) {
		m.applySeed(e.Text)
		m.overlays &^= OverlaySeedInput
	})
	on(ModeMenu, OverlaySeedInput, core.EventCancel, closeOverlay(OverlaySeedInput))

	// Race
	on(ModePlaying, OverlayNone, core.EventCancel, func(m *Machine, _ core.Event) {
		m.countdown = 0
		m.mode = ModePaused
	})
	on(ModePaused, OverlayNone, core.EventCancel, resume)
	on(ModePaused, OverlayNone, core.EventConfirm, resume)
	on(ModeGameOver, OverlayNone, core.EventConfirm, goTo(ModeMenu))
	on(ModeGameOver, OverlayNone, core.EventStart, goTo(ModeMenu))

	// Screens
	on(ModeHighScores, OverlayNone, core.EventCancel, goTo(ModeMenu))
	on(ModeCarSelection, OverlayNone, core.EventNavigateLeft, func(m *Machine, _ core.Event) { m.cycleCar(-1) })
	on(ModeCarSelection, OverlayNone, core.EventNavigateRight, func(m *Machine, _ core.Event) { m.cycleCar(1) })
	on(ModeCarSelection, OverlayNone, core.EventConfirm, func(m *Machine, _ core.Event) {
		m.persisted(m.store.SelectCar(m.carPreview))
		m.refresh()
		m.mode = ModeMenu
	})
	on(ModeCarSelection, OverlayNone, core.EventCancel, func(m *Machine, _ core.Event) {
		m.carPreview = m.rec.SelectedCar
		m.mode = ModeMenu
	})
	on(ModeAchievements, OverlayNone, core.EventCancel, goTo(ModeMenu))
	on(ModeAchievements, OverlayNone, core.EventRequestReset, openOverlay(OverlayResetConfirm))
	on(ModeAchievements, OverlayResetConfirm, core.EventCancel, closeOverlay(OverlayResetConfirm))
	on(ModeAchievements, OverlayResetConfirm, core.EventCancelReset, closeOverlay(OverlayResetConfirm))
	on(ModeAchievements, OverlayResetConfirm, core.EventConfirmReset, func(m *Machine, _ core.Event) {
		m.resetProgress()
		m.overlays &^= OverlayResetConfirm
	})

	// Quit confirmation layers over any mode and any other prompt.
	for _, ov := range []Overlay{OverlayNone, OverlaySeedInput, OverlayResetConfirm} {
		on(anyMode, ov, core.EventRequestQuit, openOverlay(OverlayQuitConfirm))
	}
	on(anyMode, OverlayQuitConfirm, core.EventConfirmQuit, func(m *Machine, _ core.Event) { m.quit = true })
	on(anyMode, OverlayQuitConfirm, core.EventCancelQuit, closeOverlay(OverlayQuitConfirm))
	on(anyMode, OverlayQuitConfirm, core.EventCancel, closeOverlay(OverlayQuitConfirm))

	return t
}

func goTo(mode Mode) handler {
	return func(m *Machine, _ core.Event) { m.mode = mode }
}

func openOverlay(o Overlay) handler {
	return func(m *Machine, _ core.Event) { m.overlays |= o }
}

func closeOverlay(o Overlay) handler {
	return func(m *Machine, _ core.Event) { m.overlays &^= o }
}

func resume(m *Machine, _ core.Event) {
	m.countdown = m.cfg.ResumeCountdown
	if m.countdown <= 0 {
		m.countdown = ResumeCountdownTicks
	}
	m.mode = ModePlaying
}
