// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package connector_test

import (
	"context"
	"io"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/netlab/api"
	"github.com/juju/netlab/api/connector"
	"github.com/juju/netlab/rpc/rpctest"
)

type simpleConnectorSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&simpleConnectorSuite{})

func (s *simpleConnectorSuite) TestNewSimple(c *gc.C) {
	conn, err := connector.NewSimple(connector.SimpleConfig{
		Host:       "netlab.example.com",
		User:       "administrator",
		Token:      "token",
		SelfSigned: true,
	}, refuse)
	c.Assert(err, jc.ErrorIsNil)

	info := conn.Info()
	c.Check(info.Address(), gc.Equals, "netlab.example.com:9000")
	c.Check(info.SSL, gc.Equals, api.SSLSelfSigned)
	c.Check(info.MessageByteLimit, gc.Equals, api.DefaultMessageByteLimit)
}

func (s *simpleConnectorSuite) TestNewSimpleInvalid(c *gc.C) {
	_, err := connector.NewSimple(connector.SimpleConfig{User: "administrator"}, refuse)
	c.Check(err, gc.ErrorMatches, `missing Token not valid`)

	_, err = connector.NewSimple(connector.SimpleConfig{User: "administrator", Token: "token"}, nil)
	c.Check(err, gc.ErrorMatches, `nil DialFunc not valid`)
}

func (s *simpleConnectorSuite) TestNewFromEnv(c *gc.C) {
	conn, err := connector.NewFromEnv([]string{
		"NETLAB_CONFIG_HOST=10.0.0.5",
		"NETLAB_CONFIG_SERVER_HOSTNAME=netlab.example.com",
		"NETLAB_CONFIG_USER=administrator",
		"NETLAB_CONFIG_TOKEN=token",
	}, refuse)
	c.Assert(err, jc.ErrorIsNil)
	c.Check(conn.Info().Address(), gc.Equals, "10.0.0.5:9000")
	c.Check(conn.Info().ServerHostname, gc.Equals, "netlab.example.com")

	_, err = connector.NewFromEnv([]string{"NETLAB_CONFIG_USER=administrator"}, refuse)
	c.Check(err, jc.ErrorIs, errors.NotValid)
}

func (s *simpleConnectorSuite) TestConnect(c *gc.C) {
	srv, client := rpctest.NewServer()
	defer func() { _ = srv.Close() }()
	srv.Handle("user.authenticate", rpctest.ReplyWith(nil))
	srv.Handle("system.status.get", rpctest.ReplyWith(map[string]any{"sys_sdn_version": "21.1.2"}))

	dialled := 0
	dial := func(ctx context.Context, info api.Info) (io.ReadWriteCloser, error) {
		dialled++
		c.Check(info.User, gc.Equals, "administrator")
		return client, nil
	}
	clk := testclock.NewClock(time.Now())
	conn, err := connector.NewSimple(connector.SimpleConfig{
		User:  "administrator",
		Token: "token",
	}, dial, api.WithClock(clk))
	c.Assert(err, jc.ErrorIsNil)

	session, err := conn.Connect(context.Background(), api.WithPollingMethods(set.NewStrings()))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(dialled, gc.Equals, 1)
	c.Check(session.ServerVersion(), gc.Equals, "21.1.2")
	c.Check(session.Close(), jc.ErrorIsNil)
}

func refuse(context.Context, api.Info) (io.ReadWriteCloser, error) {
	return nil, errors.New("connection refused")
}
