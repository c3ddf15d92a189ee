// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"context"
	"io"
	"runtime/debug"
	"sync/atomic"

	"github.com/juju/loggo/v2"
)

var streamCount int64

// trackedStream wraps a dialled stream so that we can track its creation
// and closure. See [TrackDial] below for usage.
type trackedStream struct {
	io.ReadWriteCloser

	createdStack []byte
	closed       int32
	id           int64

	logger loggo.Logger
}

func newTrackedStream(rwc io.ReadWriteCloser, addr string) *trackedStream {
	ts := &trackedStream{
		ReadWriteCloser: rwc,
		createdStack:    debug.Stack(),
		id:              atomic.AddInt64(&streamCount, 1),
		logger:          loggo.GetLogger("netlab.api.diagnostic"),
	}
	ts.logger.Debugf("opened stream id=%d to %s", ts.id, addr)
	if ts.logger.IsTraceEnabled() {
		ts.logger.Tracef("stream id=%d created by:\n%s", ts.id, ts.createdStack)
	}
	return ts
}

func (t *trackedStream) Close() error {
	if atomic.CompareAndSwapInt32(&t.closed, 0, 1) {
		t.logger.Debugf("closing stream id=%d", t.id)
	} else {
		t.logger.Warningf("close called again on stream id=%d created by:\n%s", t.id, t.createdStack)
	}
	return t.ReadWriteCloser.Close()
}

// TrackDial is a [DialFunc] wrapper. It works by wrapping the dialled
// stream with our trackedStream. This is intended for debugging sessions
// that are opened but never closed.
func TrackDial(dial DialFunc) DialFunc {
	return func(ctx context.Context, info Info) (io.ReadWriteCloser, error) {
		rwc, err := dial(ctx, info)
		if err != nil {
			return nil, err
		}
		return newTrackedStream(rwc, info.Address()), nil
	}
}
