// Package events publishes and consumes ledger change notifications.
//
// Messages are small: they name what changed and in which group. Consumers read
// the current state from storage instead of trusting the payload.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"
)

// Type identifies what happened.
type Type string

const (
	ExpenseRecorded    Type = "expense.recorded"
	ExpenseDeleted     Type = "expense.deleted"
	SettlementRecorded Type = "settlement.recorded"
	SettlementDeleted  Type = "settlement.deleted"
	GroupReset         Type = "group.reset"
)

// Event is a change to a group's ledger.
type Event struct {
	Type      Type      `json:"type"`
	GroupID   string    `json:"group_id"`
	SubjectID string    `json:"subject_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// New returns an event stamped with the current time.
func New(t Type, groupID, subjectID string) Event {
	return Event{Type: t, GroupID: groupID, SubjectID: subjectID, Timestamp: time.Now().UTC()}
}

// Encode converts the event to JSON bytes.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses an event and rejects messages without a type or group.
func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("failed to decode event: %w", err)
	}
	if e.Type == "" || e.GroupID == "" {
		return Event{}, fmt.Errorf("failed to decode event: missing type or group_id")
	}
	return e, nil
}

// Publisher sends events to whoever is listening.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *Recorder) Close() error { return nil }
