// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"fmt"

	"github.com/juju/errors"
)

// ErrConnectionClosed is the cause of every error returned because the
// connection died, whether it was closed locally, the transport failed
// or the keep-alive ping went unanswered.
const ErrConnectionClosed = errors.ConstError("connection is closed")

// ErrKeepAliveLost is the reason a connection dies when a keep-alive
// ping does not complete in time.
const ErrKeepAliveLost = errors.ConstError("keep alive packet lost")

// ErrNotStarted is returned for requests made before Conn.Start.
const ErrNotStarted = errors.ConstError("connection not started")

// ErrorCoder represents any error that has an associated error code.
// An error code is a short string that represents the kind of an error.
type ErrorCoder interface {
	ErrorCode() string
}

// IsConnectionClosed returns true if err reports a dead connection.
func IsConnectionClosed(err error) bool {
	return errors.Is(err, ErrConnectionClosed)
}

// closedError wraps the reason for a connection's death so that both
// ErrConnectionClosed and the reason itself can be matched.
func closedError(reason error) error {
	switch {
	case reason == nil:
		return ErrConnectionClosed
	case errors.Is(reason, ErrConnectionClosed):
		return reason
	}
	return fmt.Errorf("%w: %w", ErrConnectionClosed, reason)
}
