// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/juju/retry"

	"github.com/juju/netlab/rpc/coerce"
	"github.com/juju/netlab/rpc/jsoncodec"
)

// Call invokes the named method with the given parameters and returns
// its coerced result. The calling convention is chosen from the method
// name: methods on the polling allow-list are polled with the task check
// method, methods ending in the task suffix wait for a completion
// notification, and everything else waits for a direct response.
//
// Call blocks until the result arrives, the connection dies or ctx is
// done. If the method fails remotely the error will be a *params.Error.
// Cancelling ctx abandons the request; a late response is ignored.
func (conn *Conn) Call(ctx context.Context, method string, args map[string]any) (any, error) {
	// Before sending the request, check if the context has been canceled.
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}

	conv := conn.config.conventionFor(method)
	start := conn.config.Clock.Now()
	var (
		result any
		err    error
	)
	switch conv {
	case pollingCall:
		result, err = conn.callPolling(ctx, method, args)
	case taskCall:
		result, err = conn.callTask(ctx, method, args)
	default:
		result, err = conn.callMethod(ctx, method, args)
	}
	conn.config.Metrics.observeCall(conv, outcomeLabel(ctx, err), conn.config.Clock.Now().Sub(start))
	return result, err
}

func outcomeLabel(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case IsConnectionClosed(err):
		return outcomeClosed
	case ctx.Err() != nil:
		return outcomeCancelled
	}
	return outcomeError
}

// callMethod sends a single request and waits for its response.
func (conn *Conn) callMethod(ctx context.Context, method string, args map[string]any) (any, error) {
	out, err := conn.request(ctx, method, args)
	if err != nil {
		return nil, err
	}
	return out.msg.Result, nil
}

// callTask sends a request asking to be notified on a fresh handle when
// the task completes, and returns the result carried by that
// notification rather than the submission acknowledgment.
func (conn *Conn) callTask(ctx context.Context, method string, args map[string]any) (any, error) {
	sub, err := conn.register(uuid.New(), method)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer conn.unregister(sub.handle)

	taskArgs := make(map[string]any, len(args)+2)
	for k, v := range args {
		taskArgs[k] = v
	}
	taskArgs["notify_complete"] = true
	taskArgs["notify_handle"] = sub.handle

	if _, err := conn.request(ctx, method, taskArgs); err != nil {
		return nil, err
	}
	logger.Debugf("task %s submitted, waiting on handle %s", method, sub.handle)

	out, err := sub.next(ctx)
	if err != nil {
		return nil, err
	}
	result, ok := out.msg.Params["result"]
	if !ok {
		return nil, errors.Annotatef(jsoncodec.ErrFormat, "task %s completion did not contain %q", method, "result")
	}
	return result, nil
}

// callPolling sends a request whose result is a task id, then checks the
// task until it reports completion.
func (conn *Conn) callPolling(ctx context.Context, method string, args map[string]any) (any, error) {
	taskID, err := conn.callMethod(ctx, method, args)
	if err != nil {
		return nil, err
	}

	stop := make(chan struct{})
	defer close(stop)
	retryStop := make(chan struct{})
	go func() {
		defer close(retryStop)
		select {
		case <-ctx.Done():
		case <-conn.tomb.Dying():
		case <-stop:
		}
	}()

	var result any
	checks := 0
	err = retry.Call(retry.CallArgs{
		Func: func() error {
			checks++
			status, err := conn.callMethod(ctx, conn.config.TaskCheckMethod, map[string]any{"task_id": taskID})
			if err != nil {
				return errors.Trace(err)
			}
			complete, value, err := taskStatus(status)
			if err != nil {
				return errors.Trace(err)
			}
			if !complete {
				return errTaskIncomplete
			}
			result = value
			return nil
		},
		IsFatalError: func(err error) bool {
			return !errors.Is(err, errTaskIncomplete)
		},
		Attempts: retry.UnlimitedAttempts,
		Delay:    conn.config.PollDelay,
		Clock:    conn.config.Clock,
		Stop:     retryStop,
	})
	if err == nil {
		logger.Debugf("task %s (%v) complete after %d checks", method, taskID, checks)
		return result, nil
	}
	select {
	case <-conn.tomb.Dying():
		return nil, conn.deathError()
	default:
	}
	if ctx.Err() != nil {
		return nil, context.Cause(ctx)
	}
	return nil, err
}

const errTaskIncomplete = errors.ConstError("task incomplete")

func taskStatus(status any) (bool, any, error) {
	fields, ok := status.(map[string]any)
	if !ok {
		return false, nil, errors.Annotatef(jsoncodec.ErrFormat, "task status is %T, not an object", status)
	}
	raw, ok := fields["is_complete"]
	if !ok {
		return false, nil, errors.Annotatef(jsoncodec.ErrFormat, "task status did not contain %q", "is_complete")
	}
	return coerce.Truthy(raw), fields["result"], nil
}

// request registers a pending entry, writes the request and waits for
// the response on it.
func (conn *Conn) request(ctx context.Context, method string, args map[string]any) (outcome, error) {
	id := uuid.New()
	ch := make(chan outcome, 1)

	conn.mutex.Lock()
	switch {
	case !conn.started:
		conn.mutex.Unlock()
		return outcome{}, errors.Annotatef(ErrNotStarted, "calling %q", method)
	case !conn.tomb.Alive():
		conn.mutex.Unlock()
		return outcome{}, conn.deathError()
	}
	conn.pending[id] = ch
	conn.mutex.Unlock()
	conn.config.Metrics.pendingAdded(1)

	if err := conn.send(&jsoncodec.Request{ID: id, Method: method, Params: args}); err != nil {
		conn.abandon(id)
		return outcome{}, err
	}

	select {
	case out := <-ch:
		if out.err != nil {
			return outcome{}, out.err
		}
		return out, nil
	case <-conn.tomb.Dying():
		conn.abandon(id)
		return outcome{}, conn.deathError()
	case <-ctx.Done():
		conn.abandon(id)
		return outcome{}, context.Cause(ctx)
	}
}

// send writes a single request. A transport failure kills the
// connection.
func (conn *Conn) send(req *jsoncodec.Request) error {
	conn.sending.Lock()
	defer conn.sending.Unlock()

	err := conn.codec.WriteRequest(req)
	if err == nil {
		return nil
	}
	if errors.Is(err, jsoncodec.ErrEncode) {
		return errors.Trace(err)
	}
	conn.tomb.Kill(errors.Annotatef(err, "writing %q", req.Method))
	// The connection may already have died for another reason, which
	// is then the one reported.
	return conn.deathError()
}

// abandon removes the pending entry for id, if it is still there.
func (conn *Conn) abandon(id uuid.UUID) {
	conn.mutex.Lock()
	_, ok := conn.pending[id]
	delete(conn.pending, id)
	conn.mutex.Unlock()
	if ok {
		conn.config.Metrics.pendingAdded(-1)
	}
}
