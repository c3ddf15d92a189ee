// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc_test

import (
	"context"
	"io"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/juju/errors"
	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	"go.uber.org/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/juju/netlab/rpc"
	"github.com/juju/netlab/rpc/jsoncodec"
)

type clientSuite struct {
	testing.IsolationSuite

	codec *MockCodec
}

var _ = gc.Suite(&clientSuite{})

func (s *clientSuite) setupMocks(c *gc.C) *gomock.Controller {
	ctrl := gomock.NewController(c)
	s.codec = NewMockCodec(ctrl)
	return ctrl
}

// expectReadUntilClosed makes the reader loop block until the codec is
// closed, as a real transport would.
func (s *clientSuite) expectReadUntilClosed() {
	closed := make(chan struct{})
	s.codec.EXPECT().ReadMessage().DoAndReturn(func() (*jsoncodec.Message, error) {
		<-closed
		return nil, io.EOF
	})
	s.codec.EXPECT().Close().DoAndReturn(func() error {
		close(closed)
		return nil
	})
}

func (s *clientSuite) newConn(c *gc.C) *rpc.Conn {
	config := rpc.DefaultConfig()
	config.Clock = testclock.NewClock(time.Now())
	conn, err := rpc.NewConn(s.codec, config)
	c.Assert(err, jc.ErrorIsNil)
	return conn
}

func (s *clientSuite) TestWriteFailureKillsConnection(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.expectReadUntilClosed()
	s.codec.EXPECT().WriteRequest(gomock.Any()).DoAndReturn(func(req *jsoncodec.Request) error {
		c.Check(req.Method, gc.Equals, "pod.get")
		return errors.New("broken pipe")
	})

	conn := s.newConn(c)
	conn.Start()

	_, err := conn.Call(context.Background(), "pod.get", nil)
	c.Check(err, jc.ErrorIs, rpc.ErrConnectionClosed)
	c.Check(err, gc.ErrorMatches, `connection is closed: writing "pod.get": broken pipe`)

	select {
	case <-conn.Dead():
	case <-time.After(testing.LongWait):
		c.Fatalf("connection not dead")
	}
	c.Check(conn.Alive(), jc.IsFalse)
	c.Check(conn.Close(), gc.ErrorMatches, `writing "pod.get": broken pipe`)
}

func (s *clientSuite) TestCallBeforeStart(c *gc.C) {
	defer s.setupMocks(c).Finish()

	conn := s.newConn(c)
	_, err := conn.Call(context.Background(), "pod.get", nil)
	c.Check(err, jc.ErrorIs, rpc.ErrNotStarted)
	c.Check(conn.Alive(), jc.IsFalse)
	c.Check(conn.Wait(), jc.ErrorIs, rpc.ErrNotStarted)

	_, err = conn.Subscribe(context.Background(), "RESERVATION.ADDED", nil)
	c.Check(err, jc.ErrorIs, rpc.ErrNotStarted)
}

func (s *clientSuite) TestCloseBeforeStart(c *gc.C) {
	defer s.setupMocks(c).Finish()

	s.codec.EXPECT().Close().Return(nil)

	conn := s.newConn(c)
	c.Assert(conn.Close(), jc.ErrorIsNil)

	// Starting a closed connection does nothing.
	conn.Start()
	c.Check(conn.Alive(), jc.IsFalse)
	_, err := conn.Call(context.Background(), "pod.get", nil)
	c.Check(err, jc.ErrorIs, rpc.ErrNotStarted)
}

func (s *clientSuite) TestNewConnValidates(c *gc.C) {
	defer s.setupMocks(c).Finish()

	_, err := rpc.NewConn(nil, rpc.DefaultConfig())
	c.Check(err, jc.ErrorIs, errors.NotValid)

	config := rpc.DefaultConfig()
	config.Clock = nil
	_, err = rpc.NewConn(s.codec, config)
	c.Check(err, gc.ErrorMatches, `nil Clock not valid`)
}

type configSuite struct{}

var _ = gc.Suite(&configSuite{})

func (*configSuite) TestDefaultConfigIsValid(c *gc.C) {
	config := rpc.DefaultConfig()
	c.Assert(config.Validate(), jc.ErrorIsNil)
	c.Check(config.KeepAliveInterval, gc.Equals, 15*time.Second)
	c.Check(config.KeepAliveTimeout, gc.Equals, 2*time.Second)
	c.Check(config.PollDelay, gc.Equals, time.Second)
	c.Check(config.PingMethod, gc.Equals, "internal.mbusd.ping")
	c.Check(config.TaskCheckMethod, gc.Equals, "task.check")
	c.Check(config.TaskSuffix, gc.Equals, ".task")
	c.Check(config.PollingMethods.IsEmpty(), jc.IsTrue)
}

func (*configSuite) TestValidate(c *gc.C) {
	for i, test := range []struct {
		mutate func(*rpc.Config)
		err    string
	}{{
		mutate: func(cfg *rpc.Config) { cfg.KeepAliveInterval = 0 },
		err:    `non-positive KeepAliveInterval not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.KeepAliveTimeout = -time.Second },
		err:    `non-positive KeepAliveTimeout not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.KeepAliveTimeout = cfg.KeepAliveInterval },
		err:    `KeepAliveTimeout 15s not less than KeepAliveInterval 15s not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.PollDelay = 0 },
		err:    `non-positive PollDelay not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.PingMethod = "" },
		err:    `empty PingMethod not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.TaskCheckMethod = "" },
		err:    `empty TaskCheckMethod not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.TaskSuffix = "" },
		err:    `empty TaskSuffix not valid`,
	}, {
		mutate: func(cfg *rpc.Config) { cfg.Errors = nil },
		err:    `nil Errors not valid`,
	}} {
		c.Logf("test %d", i)
		config := rpc.DefaultConfig()
		test.mutate(&config)
		err := config.Validate()
		c.Check(err, jc.ErrorIs, errors.NotValid)
		c.Check(err, gc.ErrorMatches, test.err)
	}
}
