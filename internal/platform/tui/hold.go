package tui

import "github.com/vovakirdan/speedy-highway/internal/core"

// holdFrames is how long a key press counts as held. Terminals only report
// presses, so auto-repeat presses inside this window keep the key held.
const holdFrames = 3

// heldKeys approximates key-up events for the steering keys.
type heldKeys struct {
	left, right int
}

// press marks one direction held and releases the other.
func (h *heldKeys) press(left bool) {
	if left {
		h.left, h.right = holdFrames, 0
		return
	}
	h.left, h.right = 0, holdFrames
}

// tick returns the controls for this frame and ages the presses.
func (h *heldKeys) tick() core.Controls {
	c := core.Controls{Left: h.left > 0, Right: h.right > 0}
	h.left = max(h.left-1, 0)
	h.right = max(h.right-1, 0)
	return c
}

func (h *heldKeys) release() {
	h.left, h.right = 0, 0
}
