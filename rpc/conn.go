// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package rpc multiplexes netlab calls and event subscriptions over a
// single codec connection.
package rpc

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gopkg.in/tomb.v2"

	"github.com/juju/netlab/rpc/jsoncodec"
	"github.com/juju/netlab/rpc/params"
)

var logger = loggo.GetLogger("netlab.rpc")

// outcome is what the reader loop hands to a waiting call or
// subscription for a single message.
type outcome struct {
	msg *jsoncodec.Message
	err error
}

// Conn represents a client RPC endpoint. There may be multiple
// outstanding calls and subscriptions on a single Conn, and a Conn may be
// used by multiple goroutines simultaneously.
//
// The connection runs two background tasks once started: the reader loop,
// which owns all reads from the codec, and the keep-alive monitor. When
// either stops, for any reason, the connection is dead and every blocked
// caller fails with ErrConnectionClosed.
type Conn struct {
	// codec holds the underlying RPC connection.
	codec jsoncodec.Codec

	config Config

	tomb tomb.Tomb

	// sending guards the write side of the codec, ensuring that
	// codec.WriteRequest is not called concurrently.
	sending sync.Mutex

	// mutex guards the following values.
	mutex sync.Mutex

	// started is set by Start.
	started bool

	// closed is set by Close.
	closed bool

	// pending holds the outcome slot of every request awaiting a
	// response, keyed by request id.
	pending map[uuid.UUID]chan outcome

	// subscriptions holds the queue of every registered handle.
	subscriptions map[uuid.UUID]*Subscription
}

// NewConn creates a new connection that uses the given codec for
// transport, but it does not start it. Conn.Start must be called before
// any requests are sent.
func NewConn(codec jsoncodec.Codec, config Config) (*Conn, error) {
	if codec == nil {
		return nil, errors.NotValidf("nil codec")
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Conn{
		codec:         codec,
		config:        config,
		pending:       make(map[uuid.UUID]chan outcome),
		subscriptions: make(map[uuid.UUID]*Subscription),
	}, nil
}

// Start starts the reader loop and keep-alive monitor. It has no effect
// if it has already been called.
func (conn *Conn) Start() {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	if conn.started || conn.closed {
		return
	}
	conn.started = true
	conn.tomb.Go(conn.run)
}

func (conn *Conn) run() error {
	conn.tomb.Go(conn.readLoop)
	conn.tomb.Go(conn.keepAlive)
	<-conn.tomb.Dying()

	// Closing the codec unblocks the reader loop.
	if err := conn.codec.Close(); err != nil {
		logger.Debugf("error closing codec: %v", err)
	}
	if err := conn.tomb.Err(); err != nil {
		logger.Debugf("connection closed: %v", err)
	}
	return nil
}

// Kill is part of the worker.Worker interface. It starts shutting the
// connection down without waiting for it to stop.
func (conn *Conn) Kill() {
	conn.mutex.Lock()
	conn.closed = true
	conn.mutex.Unlock()
	conn.tomb.Kill(nil)
}

// Wait is part of the worker.Worker interface. It returns the reason the
// connection died, or nil if it was killed cleanly.
func (conn *Conn) Wait() error {
	if !conn.isStarted() {
		return ErrNotStarted
	}
	return conn.tomb.Wait()
}

// Close shuts the connection down and waits for its background tasks to
// stop. It returns the reason the connection died, or nil if it was
// closed cleanly.
func (conn *Conn) Close() error {
	conn.Kill()
	if !conn.isStarted() {
		// Nothing is running, so there is nothing to wait for.
		return errors.Trace(conn.codec.Close())
	}
	return conn.tomb.Wait()
}

// Alive reports whether both background tasks are still running.
func (conn *Conn) Alive() bool {
	if !conn.isStarted() {
		return false
	}
	return conn.tomb.Alive()
}

// Dying returns a channel that is closed when the connection starts
// shutting down. There may still be blocked callers.
func (conn *Conn) Dying() <-chan struct{} {
	return conn.tomb.Dying()
}

// Dead returns a channel that is closed once both background tasks have
// stopped.
func (conn *Conn) Dead() <-chan struct{} {
	return conn.tomb.Dead()
}

// Err returns the reason the connection died, or nil if it is alive or
// was closed cleanly.
func (conn *Conn) Err() error {
	if err := conn.tomb.Err(); err != tomb.ErrStillAlive {
		return err
	}
	return nil
}

func (conn *Conn) isStarted() bool {
	conn.mutex.Lock()
	defer conn.mutex.Unlock()
	return conn.started
}

// deathError returns the error reported to callers that were waiting when
// the connection died.
func (conn *Conn) deathError() error {
	return closedError(conn.Err())
}

// readLoop reads messages from the codec and routes them to the waiting
// calls and subscriptions.
func (conn *Conn) readLoop() error {
	for {
		msg, err := conn.codec.ReadMessage()
		if err != nil {
			select {
			case <-conn.tomb.Dying():
				return tomb.ErrDying
			default:
			}
			if errors.Is(err, jsoncodec.ErrFormat) {
				logger.Errorf("reader loop stopping: %v", err)
				return errors.Trace(err)
			}
			if err == io.EOF {
				return errors.New("connection closed by peer")
			}
			return errors.Annotate(err, "reading message")
		}
		if err := conn.route(msg); err != nil {
			logger.Errorf("reader loop stopping: %v", err)
			return errors.Trace(err)
		}
	}
}

// route delivers msg to its waiter. A message for an unknown id or
// handle is dropped. The returned error is fatal to the reader loop.
func (conn *Conn) route(msg *jsoncodec.Message) error {
	if msg.ID != nil {
		id := *msg.ID
		conn.mutex.Lock()
		ch, ok := conn.pending[id]
		delete(conn.pending, id)
		conn.mutex.Unlock()
		if !ok {
			logger.Tracef("dropping response for unknown id %s", id)
			conn.config.Metrics.dropped("response")
			return nil
		}
		conn.config.Metrics.pendingAdded(-1)
		out, err := conn.responseOutcome(msg)
		if err != nil {
			return errors.Annotatef(err, "response %s", id)
		}
		ch <- out
		return nil
	}

	handle := *msg.Handle
	conn.mutex.Lock()
	sub := conn.subscriptions[handle]
	conn.mutex.Unlock()
	if sub == nil {
		logger.Tracef("dropping event for unknown handle %s", handle)
		conn.config.Metrics.dropped("event")
		return nil
	}
	out, err := conn.eventOutcome(msg)
	if err != nil {
		return errors.Annotatef(err, "event %s", handle)
	}
	sub.push(out)
	return nil
}

func (conn *Conn) responseOutcome(msg *jsoncodec.Message) (outcome, error) {
	switch {
	case msg.Err != nil:
		return outcome{err: msg.Err}, nil
	case msg.HasResult:
		return outcome{msg: msg}, nil
	case msg.Error != nil:
		return conn.errorOutcome(msg.Error)
	}
	return outcome{}, errors.Annotatef(jsoncodec.ErrFormat, "message did not contain %q or %q", "result", "error")
}

func (conn *Conn) eventOutcome(msg *jsoncodec.Message) (outcome, error) {
	if msg.Err != nil {
		return outcome{err: msg.Err}, nil
	}
	if _, ok := msg.Params["result"]; ok || msg.HasEvent {
		return outcome{msg: msg}, nil
	}
	if raw := msg.Params["error"]; raw != nil {
		return conn.errorOutcome(raw)
	}
	return outcome{}, errors.Annotatef(jsoncodec.ErrFormat, "message did not contain %q or %q", "result", "error")
}

func (conn *Conn) errorOutcome(raw any) (outcome, error) {
	err := conn.config.Errors.Decode(raw)
	if errors.Is(err, params.ErrMalformedError) {
		return outcome{}, fmt.Errorf("%w: %w", jsoncodec.ErrFormat, err)
	}
	return outcome{err: err}, nil
}
