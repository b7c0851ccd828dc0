package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Ensure ReconnectingPublisher implements Publisher
var _ Publisher = (*ReconnectingPublisher)(nil)

var errNotConnected = errors.New("not connected to broker")

// Dialer opens a fresh publisher, typically a new AMQP connection.
type Dialer func() (Publisher, error)

// ReconnectingPublisher redials after a publish fails on a dead connection. While
// the broker stays down, redials back off exponentially and publishes in between
// fail fast, so events are dropped rather than requests blocked.
type ReconnectingPublisher struct {
	dial   Dialer
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	current  Publisher
	failures int
	nextDial time.Time
}

// NewReconnectingPublisher dials once and fails if the broker is unreachable at
// start-up.
func NewReconnectingPublisher(dial Dialer, logger *slog.Logger) (*ReconnectingPublisher, error) {
	current, err := dial()
	if err != nil {
		return nil, err
	}
	return &ReconnectingPublisher{dial: dial, logger: logger, now: time.Now, current: current}, nil
}

// Publish sends e, reconnecting first if the previous connection was lost.
func (r *ReconnectingPublisher) Publish(ctx context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		err := r.current.Publish(ctx, e)
		if !isConnectionError(err) {
			return err
		}
		r.logger.WarnContext(ctx, "AMQP publish failed, reconnecting", "error", err)
		r.current.Close()
		r.current = nil
	}

	if err := r.redial(); err != nil {
		return err
	}
	return r.current.Publish(ctx, e)
}

func (r *ReconnectingPublisher) redial() error {
	if now := r.now(); now.Before(r.nextDial) {
		return fmt.Errorf("next reconnect in %s: %w", r.nextDial.Sub(now).Round(time.Millisecond), errNotConnected)
	}

	current, err := r.dial()
	if err != nil {
		wait := exponentialBackoff(r.failures)
		r.failures++
		r.nextDial = r.now().Add(wait)
		r.logger.Warn("AMQP reconnect failed", "error", err, "retry_in", wait)
		return fmt.Errorf("failed to reconnect: %w", err)
	}

	r.current, r.failures, r.nextDial = current, 0, time.Time{}
	r.logger.Info("AMQP publisher reconnected")
	return nil
}

// Close closes the current connection, if any.
func (r *ReconnectingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return nil
	}
	err := r.current.Close()
	r.current = nil
	return err
}
