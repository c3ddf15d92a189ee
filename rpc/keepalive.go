// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"context"

	"github.com/juju/errors"
	"gopkg.in/tomb.v2"
)

// keepAlive pings the server every KeepAliveInterval. It stops with
// ErrKeepAliveLost when a ping does not complete within
// KeepAliveTimeout, which kills the connection.
func (conn *Conn) keepAlive() error {
	for {
		select {
		case <-conn.tomb.Dying():
			return tomb.ErrDying
		case <-conn.config.Clock.After(conn.config.KeepAliveInterval):
		}
		if err := conn.ping(); err != nil {
			return err
		}
	}
}

// ping sends a single keep-alive request. The timeout is enforced here
// rather than by the request itself, because the request may be stuck
// writing to a stream that is no longer read. Killing the connection
// closes the codec, which releases any such write.
func (conn *Conn) ping() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	conn.tomb.Go(func() error {
		_, err := conn.callMethod(ctx, conn.config.PingMethod, nil)
		done <- err
		return nil
	})

	timer := conn.config.Clock.NewTimer(conn.config.KeepAliveTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err == nil {
			logger.Tracef("keep alive packet sent")
			return nil
		}
		select {
		case <-conn.tomb.Dying():
			return tomb.ErrDying
		default:
		}
		return errors.Annotate(err, "keep alive")
	case <-timer.Chan():
		logger.Warningf("keep alive packet lost after %v", conn.config.KeepAliveTimeout)
		conn.config.Metrics.keepAliveFailed()
		return ErrKeepAliveLost
	case <-conn.tomb.Dying():
		return tomb.ErrDying
	}
}
