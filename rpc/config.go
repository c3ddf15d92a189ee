// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package rpc

import (
	"strings"
	"time"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"

	"github.com/juju/netlab/rpc/params"
)

const (
	// DefaultKeepAliveInterval is the time between keep-alive pings.
	DefaultKeepAliveInterval = 15 * time.Second

	// DefaultKeepAliveTimeout bounds each keep-alive ping.
	DefaultKeepAliveTimeout = 2 * time.Second

	// DefaultPollDelay is the pause between task status checks.
	DefaultPollDelay = time.Second

	// DefaultPingMethod is the method used for keep-alive pings.
	DefaultPingMethod = "internal.mbusd.ping"

	// DefaultTaskCheckMethod reports the status of a polled task.
	DefaultTaskCheckMethod = "task.check"

	// DefaultTaskSuffix marks methods that complete through a task
	// notification.
	DefaultTaskSuffix = ".task"

	subscribeMethod   = "event.subscribe"
	unsubscribeMethod = "event.unsubscribe"
)

// Config holds the settings for a Conn.
type Config struct {
	// Clock drives the keep-alive monitor and task polling.
	Clock clock.Clock

	KeepAliveInterval time.Duration
	KeepAliveTimeout  time.Duration
	PollDelay         time.Duration

	PingMethod      string
	TaskCheckMethod string
	TaskSuffix      string

	// PollingMethods names the methods that must be polled with
	// TaskCheckMethod instead of waiting for a task notification.
	PollingMethods set.Strings

	// Errors decodes application error payloads.
	Errors params.Catalog

	// Metrics is optional.
	Metrics *Collector
}

// DefaultConfig returns a Config with the protocol defaults and an empty
// polling allow-list.
func DefaultConfig() Config {
	return Config{
		Clock:             clock.WallClock,
		KeepAliveInterval: DefaultKeepAliveInterval,
		KeepAliveTimeout:  DefaultKeepAliveTimeout,
		PollDelay:         DefaultPollDelay,
		PingMethod:        DefaultPingMethod,
		TaskCheckMethod:   DefaultTaskCheckMethod,
		TaskSuffix:        DefaultTaskSuffix,
		PollingMethods:    set.NewStrings(),
		Errors:            params.DefaultCatalog,
	}
}

// Validate returns an error if the config cannot be used.
func (config Config) Validate() error {
	if config.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	if config.KeepAliveInterval <= 0 {
		return errors.NotValidf("non-positive KeepAliveInterval")
	}
	if config.KeepAliveTimeout <= 0 {
		return errors.NotValidf("non-positive KeepAliveTimeout")
	}
	if config.KeepAliveTimeout >= config.KeepAliveInterval {
		return errors.NotValidf("KeepAliveTimeout %v not less than KeepAliveInterval %v",
			config.KeepAliveTimeout, config.KeepAliveInterval)
	}
	if config.PollDelay <= 0 {
		return errors.NotValidf("non-positive PollDelay")
	}
	if config.PingMethod == "" {
		return errors.NotValidf("empty PingMethod")
	}
	if config.TaskCheckMethod == "" {
		return errors.NotValidf("empty TaskCheckMethod")
	}
	if config.TaskSuffix == "" {
		return errors.NotValidf("empty TaskSuffix")
	}
	if config.Errors == nil {
		return errors.NotValidf("nil Errors")
	}
	return nil
}

// convention identifies how a method's result is delivered.
type convention string

const (
	plainCall   convention = "plain"
	taskCall    convention = "task"
	pollingCall convention = "polling"
)

// conventionFor picks the calling convention for method. The polling
// allow-list takes precedence over the task suffix.
func (config Config) conventionFor(method string) convention {
	switch {
	case config.PollingMethods.Contains(method):
		return pollingCall
	case strings.HasSuffix(method, config.TaskSuffix):
		return taskCall
	}
	return plainCall
}
