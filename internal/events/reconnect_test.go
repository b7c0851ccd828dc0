package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// fakePublisher fails every publish with err when it is set.
type fakePublisher struct {
	err       error
	published []Event
	closed    bool
}

func (f *fakePublisher) Publish(_ context.Context, e Event) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, e)
	return nil
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

// fakeDialer hands out the queued publishers and errors in order.
type fakeDialer struct {
	results []any
	dials   int
}

func (d *fakeDialer) dial() (Publisher, error) {
	next := d.results[d.dials]
	d.dials++
	if err, ok := next.(error); ok {
		return nil, err
	}
	return next.(*fakePublisher), nil
}

func newTestPublisher(t *testing.T, d *fakeDialer) (*ReconnectingPublisher, *time.Time) {
	t.Helper()

	p, err := NewReconnectingPublisher(d.dial, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewReconnectingPublisher failed: %v", err)
	}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return clock }
	return p, &clock
}

func TestReconnectingPublisher_RedialsAfterConnectionLoss(t *testing.T) {
	first := &fakePublisher{err: amqp091.ErrClosed}
	second := &fakePublisher{}
	d := &fakeDialer{results: []any{first, second}}
	p, _ := newTestPublisher(t, d)

	e := New(ExpenseRecorded, "group-1", "expense-1")
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if d.dials != 2 {
		t.Errorf("expected 2 dials, got %d", d.dials)
	}
	if !first.closed {
		t.Error("expected the dead connection to be closed")
	}
	if len(second.published) != 1 || second.published[0] != e {
		t.Errorf("expected the event on the new connection, got %v", second.published)
	}
}

func TestReconnectingPublisher_BacksOffWhileBrokerIsDown(t *testing.T) {
	first := &fakePublisher{err: amqp091.ErrClosed}
	recovered := &fakePublisher{}
	d := &fakeDialer{results: []any{first, errors.New("dial tcp: connection refused"), recovered}}
	p, clock := newTestPublisher(t, d)
	ctx := context.Background()
	e := New(SettlementRecorded, "group-1", "settlement-1")

	if err := p.Publish(ctx, e); err == nil {
		t.Fatal("expected an error while the broker is down")
	}
	if d.dials != 2 {
		t.Fatalf("expected 2 dials, got %d", d.dials)
	}

	// Inside the backoff window nothing is dialed.
	err := p.Publish(ctx, e)
	if !errors.Is(err, errNotConnected) {
		t.Fatalf("expected errNotConnected, got %v", err)
	}
	if d.dials != 2 {
		t.Errorf("expected no dial during backoff, got %d dials", d.dials)
	}

	*clock = clock.Add(exponentialBackoff(0))
	if err := p.Publish(ctx, e); err != nil {
		t.Fatalf("Publish after backoff failed: %v", err)
	}
	if d.dials != 3 || len(recovered.published) != 1 {
		t.Errorf("expected one event on the recovered connection, got %d dials, %v", d.dials, recovered.published)
	}
}

func TestReconnectingPublisher_KeepsConnectionOnOtherErrors(t *testing.T) {
	encodeErr := errors.New("failed to encode event")
	first := &fakePublisher{err: encodeErr}
	d := &fakeDialer{results: []any{first}}
	p, _ := newTestPublisher(t, d)

	err := p.Publish(context.Background(), New(GroupReset, "group-1", ""))
	if !errors.Is(err, encodeErr) {
		t.Fatalf("expected the publish error, got %v", err)
	}
	if d.dials != 1 || first.closed {
		t.Error("a non-connection error must not trigger a reconnect")
	}

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !first.closed {
		t.Error("expected Close to close the connection")
	}
}

func TestNewReconnectingPublisher_DialError(t *testing.T) {
	d := &fakeDialer{results: []any{errors.New("dial tcp: connection refused")}}
	if _, err := NewReconnectingPublisher(d.dial, slog.New(slog.NewTextHandler(io.Discard, nil))); err == nil {
		t.Fatal("expected the start-up dial error")
	}
}
