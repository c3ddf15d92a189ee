// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package connector

import (
	"context"

	"github.com/juju/errors"

	"github.com/juju/netlab/api"
)

// SimpleConfig holds the handful of settings most callers need to reach
// an appliance. Zero values fall back to the api defaults.
type SimpleConfig struct {
	// Host of the appliance (defaults to localhost).
	Host string

	// Port of the appliance API (defaults to 9000).
	Port int

	// User and Token are required to authenticate.
	User  string
	Token string

	// ServerHostname is the certificate name, if it differs from Host.
	ServerHostname string

	// SelfSigned accepts the appliance's self-signed certificate.
	SelfSigned bool
}

// A SimpleConnector can provide connections from a simple set of options.
type SimpleConnector struct {
	info            api.Info
	dial            api.DialFunc
	defaultDialOpts api.DialOpts
}

var _ Connector = (*SimpleConnector)(nil)

// NewSimple returns an instance of *SimpleConnector configured to
// connect according to the specified options.  If some options are invalid an
// error is returned.
func NewSimple(opts SimpleConfig, dial api.DialFunc, dialOptions ...api.DialOption) (*SimpleConnector, error) {
	info := api.DefaultInfo()
	if opts.Host != "" {
		info.Host = opts.Host
	}
	if opts.Port != 0 {
		info.Port = opts.Port
	}
	info.User = opts.User
	info.Token = opts.Token
	info.ServerHostname = opts.ServerHostname
	if opts.SelfSigned {
		info.SSL = api.SSLSelfSigned
	}
	return newConnector(info, dial, dialOptions)
}

// NewFromEnv returns a *SimpleConnector configured from the
// NETLAB_CONFIG_* variables in environ, on top of the api defaults.
func NewFromEnv(environ []string, dial api.DialFunc, dialOptions ...api.DialOption) (*SimpleConnector, error) {
	info, err := api.InfoFromEnv(environ, api.DefaultInfo())
	if err != nil {
		return nil, errors.Trace(err)
	}
	return newConnector(info, dial, dialOptions)
}

func newConnector(info api.Info, dial api.DialFunc, dialOptions []api.DialOption) (*SimpleConnector, error) {
	if err := info.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if dial == nil {
		return nil, errors.NotValidf("nil DialFunc")
	}
	conn := &SimpleConnector{
		info:            info,
		dial:            dial,
		defaultDialOpts: api.DefaultDialOpts(),
	}
	for _, f := range dialOptions {
		f(&conn.defaultDialOpts)
	}
	return conn, nil
}

// Info returns the appliance information the connector dials.
func (c *SimpleConnector) Info() api.Info {
	return c.info
}

// Connect returns a Connection according to c's configuration.
func (c *SimpleConnector) Connect(ctx context.Context, dialOptions ...api.DialOption) (*api.Connection, error) {
	opts := c.defaultDialOpts
	for _, f := range dialOptions {
		f(&opts)
	}
	return api.Open(ctx, c.info, c.dial, opts)
}
