package events

import (
	"bytes"
	"testing"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestMemorySink(t *testing.T) {
	mem := NewMemory()
	mem.Emit(New(TypeBetPlaced, 1))
	mem.Emit(New(TypeCardDealt, 1))
	mem.Emit(New(TypeCardDealt, 1))

	assert.Len(t, mem.Events(), 3)
	assert.Len(t, mem.OfType(TypeCardDealt), 2)
	assert.Empty(t, mem.OfType(TypeHandSettled))

	drained := mem.Drain()
	assert.Len(t, drained, 3)
	assert.Empty(t, mem.Events())
}

func TestNewStampsEvent(t *testing.T) {
	a := New(TypeHandAction, 7)
	b := New(TypeHandAction, 7)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 7, a.Round)
	assert.False(t, a.Timestamp.IsZero())
}

func TestMultiAndFuncSinks(t *testing.T) {
	mem := NewMemory()
	count := 0
	sink := Multi{mem, SinkFunc(func(Event) { count++ }), Nop}

	sink.Emit(New(TypeRoundState, 2))
	assert.Equal(t, 1, count)
	assert.Len(t, mem.Events(), 1)
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLog(logging.NewLoggerWithWriter(&buf, logging.INFO))

	e := New(TypeHandSettled, 3)
	e.HandID, e.PlayerID, e.Outcome, e.Payout = "h1", "p1", "WIN", 200
	sink.Emit(e)
	sink.Emit(New(TypeCardDealt, 3))

	assert.Contains(t, buf.String(), "hand h1 (p1) settled WIN: payout=200")
	assert.NotContains(t, buf.String(), "CARD_DEALT", "card events log at DEBUG")
}
