// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/errors"
)

// Event is a notification delivered to a subscription.
type Event struct {
	// Handle is the subscription handle the event was sent to.
	Handle uuid.UUID

	// Name holds the event type, when the server sends one.
	Name string

	// Params holds the coerced event payload.
	Params map[string]any
}

// Subscription receives the events sent to a single handle. Events are
// queued without bound until they are read with Next.
type Subscription struct {
	conn   *Conn
	handle uuid.UUID
	event  string

	mu     sync.Mutex
	queue  []outcome
	notify chan struct{}
}

// Subscribe registers a handle for the named event type and asks the
// server to send matching events to it. The subscription must be
// released with Unsubscribe.
func (conn *Conn) Subscribe(ctx context.Context, event string, criteria map[string]any) (*Subscription, error) {
	sub, err := conn.register(uuid.New(), event)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if criteria == nil {
		criteria = map[string]any{}
	}
	_, err = conn.callMethod(ctx, subscribeMethod, map[string]any{
		"event":    event,
		"criteria": criteria,
		"handle":   sub.handle,
	})
	if err != nil {
		conn.unregister(sub.handle)
		return nil, errors.Annotatef(err, "subscribing to %q", event)
	}
	logger.Debugf("subscription created %s %s", sub.handle, event)
	return sub, nil
}

// Handle returns the subscription's handle.
func (s *Subscription) Handle() uuid.UUID {
	return s.handle
}

// EventName returns the event type the subscription was made for.
func (s *Subscription) EventName() string {
	return s.event
}

// Next returns the next queued event, blocking until one arrives, the
// connection dies or ctx is done. A notification carrying an application
// error, or a field that could not be coerced, fails this read only.
func (s *Subscription) Next(ctx context.Context) (*Event, error) {
	out, err := s.next(ctx)
	if err != nil {
		return nil, err
	}
	return &Event{
		Handle: s.handle,
		Name:   out.msg.Event,
		Params: out.msg.Params,
	}, nil
}

// Unsubscribe asks the server to stop sending events, if the connection
// is still alive, and then removes the handle. Events that arrive
// afterwards are dropped.
func (s *Subscription) Unsubscribe(ctx context.Context) error {
	defer s.conn.unregister(s.handle)
	if !s.conn.Alive() {
		return nil
	}
	_, err := s.conn.callMethod(ctx, unsubscribeMethod, map[string]any{
		"handle": s.handle,
		"event":  s.event,
	})
	if err != nil {
		return errors.Annotatef(err, "unsubscribing from %q", s.event)
	}
	logger.Debugf("subscription deleted %s %s", s.handle, s.event)
	return nil
}

func (s *Subscription) push(out outcome) {
	s.mu.Lock()
	s.queue = append(s.queue, out)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Subscription) pop() (outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return outcome{}, false
	}
	out := s.queue[0]
	s.queue[0] = outcome{}
	s.queue = s.queue[1:]
	return out, true
}

// next races the queue against the connection's death and ctx.
func (s *Subscription) next(ctx context.Context) (outcome, error) {
	for {
		if out, ok := s.pop(); ok {
			if out.err != nil {
				return outcome{}, out.err
			}
			return out, nil
		}
		select {
		case <-s.notify:
		case <-s.conn.tomb.Dying():
			return outcome{}, s.conn.deathError()
		case <-ctx.Done():
			return outcome{}, context.Cause(ctx)
		}
	}
}

// register adds a queue for handle to the subscription registry.
func (conn *Conn) register(handle uuid.UUID, event string) (*Subscription, error) {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	switch {
	case !conn.started:
		return nil, errors.Annotatef(ErrNotStarted, "subscribing to %q", event)
	case !conn.tomb.Alive():
		return nil, conn.deathError()
	}
	sub := &Subscription{
		conn:   conn,
		handle: handle,
		event:  event,
		notify: make(chan struct{}, 1),
	}
	conn.subscriptions[handle] = sub
	conn.config.Metrics.subscriptionsAdded(1)
	return sub, nil
}

// unregister removes handle from the subscription registry.
func (conn *Conn) unregister(handle uuid.UUID) {
	conn.mutex.Lock()
	_, ok := conn.subscriptions[handle]
	delete(conn.subscriptions, handle)
	conn.mutex.Unlock()
	if ok {
		conn.config.Metrics.subscriptionsAdded(-1)
	}
}
