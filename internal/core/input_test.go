package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueueDrain(t *testing.T) {
	var q EventQueue
	q.Push(NewEvent(EventStart))
	q.Push(SetSeedEvent("42"))
	q.Push(VolumeEvent(-1))
	require.Equal(t, 3, q.Len())

	got := q.Drain()
	require.Len(t, got, 3)
	assert.Equal(t, EventStart, got[0].Kind)
	assert.Equal(t, "42", got[1].Text)
	assert.Equal(t, -1, got[2].Delta)

	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Drain())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "ConfirmReset", EventConfirmReset.String())
	assert.Equal(t, "Unknown", EventKind(999).String())
}
