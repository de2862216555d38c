package events

import (
	"sync"
	"time"

	"github.com/fadedpez/tucotable/internal/logging"
	"github.com/google/uuid"
)

// Type names a domain event
type Type string

const (
	TypeBetPlaced         Type = "BET_PLACED"
	TypeCardDealt         Type = "CARD_DEALT"
	TypeHandAction        Type = "HAND_ACTION"
	TypeInsuranceTaken    Type = "INSURANCE_TAKEN"
	TypeInsuranceDeclined Type = "INSURANCE_DECLINED"
	TypeInsuranceResolved Type = "INSURANCE_RESOLVED"
	TypeHandSettled       Type = "HAND_SETTLED"
	TypeRoundState        Type = "ROUND_STATE_CHANGED"
)

// Event is one audit record. Only the fields relevant to Type are set.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Round     int       `json:"round"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
	HandID    string    `json:"hand_id,omitempty"`
	Card      string    `json:"card,omitempty"`
	Dealer    bool      `json:"dealer,omitempty"`
	Action    string    `json:"action,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Payout    int64     `json:"payout,omitempty"`
	Outcome   string    `json:"outcome,omitempty"`
	Value     int       `json:"value,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
}

// New stamps an event of type t for round with a fresh ID and the current time
func New(t Type, round int) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Round:     round,
		Timestamp: time.Now(),
	}
}

// Sink receives domain events. Emit must not block the caller for long;
// sinks that talk to a network buffer and flush separately.
type Sink interface {
	Emit(event Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(Event)

// Emit implements Sink
func (f SinkFunc) Emit(event Event) {
	f(event)
}

// Nop discards every event
var Nop Sink = SinkFunc(func(Event) {})

// Multi fans events out to every sink in order
type Multi []Sink

// Emit implements Sink
func (m Multi) Emit(event Event) {
	for _, s := range m {
		s.Emit(event)
	}
}

// Memory keeps every event it receives
type Memory struct {
	mu     sync.RWMutex
	events []Event
}

// NewMemory creates an empty in-memory sink
func NewMemory() *Memory {
	return &Memory{}
}

// Emit implements Sink
func (m *Memory) Emit(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of everything received so far
func (m *Memory) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event(nil), m.events...)
}

// OfType returns the received events of type t
func (m *Memory) OfType(t Type) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Event, 0)
	for _, e := range m.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Drain returns and clears the buffered events
func (m *Memory) Drain() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.events
	m.events = nil
	return out
}

// Log writes events to a logger at DEBUG, and settlements at INFO
type Log struct {
	logger *logging.Logger
}

// NewLog creates a logging sink
func NewLog(logger *logging.Logger) *Log {
	if logger == nil {
		logger = logging.Default
	}
	return &Log{logger: logger}
}

// Emit implements Sink
func (l *Log) Emit(e Event) {
	switch e.Type {
	case TypeHandSettled:
		l.logger.Info("[ROUND %d] hand %s (%s) settled %s: payout=%d value=%d",
			e.Round, e.HandID, e.PlayerID, e.Outcome, e.Payout, e.Value)
	case TypeRoundState:
		l.logger.Debug("[ROUND %d] %s -> %s", e.Round, e.From, e.To)
	default:
		l.logger.Debug("[ROUND %d] %s hand=%s player=%s card=%s action=%s amount=%d",
			e.Round, e.Type, e.HandID, e.PlayerID, e.Card, e.Action, e.Amount)
	}
}
