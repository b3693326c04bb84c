package core

// EventKind identifies a logical input event, abstracted from physical key presses.
// Front ends decode keys into events; the state machine never sees raw keys.
type EventKind int

const (
	EventNone EventKind = iota
	EventStart
	EventNavigateLeft
	EventNavigateRight
	EventConfirm
	EventCancel
	EventOpenHighScores
	EventOpenAchievements
	EventOpenCarSelection
	EventCycleDifficulty
	EventToggleFullscreen
	EventAdjustVolume // Delta carries the step (+1/-1)
	EventRequestSeedInput
	EventSetSeed // Text carries the typed seed
	EventRequestQuit
	EventConfirmQuit
	EventCancelQuit
	EventRequestReset
	EventConfirmReset
	EventCancelReset
)

var eventNames = map[EventKind]string{
	EventNone:             "None",
	EventStart:            "Start",
	EventNavigateLeft:     "NavigateLeft",
	EventNavigateRight:    "NavigateRight",
	EventConfirm:          "Confirm",
	EventCancel:           "Cancel",
	EventOpenHighScores:   "OpenHighScores",
	EventOpenAchievements: "OpenAchievements",
	EventOpenCarSelection: "OpenCarSelection",
	EventCycleDifficulty:  "CycleDifficulty",
	EventToggleFullscreen: "ToggleFullscreen",
	EventAdjustVolume:     "AdjustVolume",
	EventRequestSeedInput: "RequestSeedInput",
	EventSetSeed:          "SetSeed",
	EventRequestQuit:      "RequestQuit",
	EventConfirmQuit:      "ConfirmQuit",
	EventCancelQuit:       "CancelQuit",
	EventRequestReset:     "RequestReset",
	EventConfirmReset:     "ConfirmReset",
	EventCancelReset:      "CancelReset",
}

// String returns a human-readable name for the event kind.
func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is one decoded input event. Only AdjustVolume uses Delta and only
// SetSeed uses Text.
type Event struct {
	Kind  EventKind
	Delta int
	Text  string
}

// NewEvent creates an event without payload.
func NewEvent(kind EventKind) Event {
	return Event{Kind: kind}
}

// SetSeedEvent creates a SetSeed event carrying the raw typed text.
func SetSeedEvent(text string) Event {
	return Event{Kind: EventSetSeed, Text: text}
}

// VolumeEvent creates an AdjustVolume event.
func VolumeEvent(delta int) Event {
	return Event{Kind: EventAdjustVolume, Delta: delta}
}

// EventQueue buffers events between ticks. Events are consumed once per tick in
// arrival order.
type EventQueue struct {
	events []Event
}

// Push appends an event to the queue.
func (q *EventQueue) Push(e Event) {
	q.events = append(q.events, e)
}

// Drain returns all queued events and empties the queue.
func (q *EventQueue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

// Controls is the level-triggered steering state for one tick: whether the
// left/right controls are currently held.
type Controls struct {
	Left  bool
	Right bool
}
