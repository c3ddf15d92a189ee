// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package api opens authenticated sessions with a netlab appliance.
package api

import (
	"context"
	"io"

	"github.com/juju/clock"
	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"github.com/juju/version/v2"
	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/juju/netlab/rpc"
	"github.com/juju/netlab/rpc/coerce"
	"github.com/juju/netlab/rpc/jsoncodec"
	"github.com/juju/netlab/rpc/params"
)

var logger = loggo.GetLogger("netlab.api")

const (
	authenticateMethod = "user.authenticate"
	statusMethod       = "system.status.get"
)

// ErrVersionUnsupported is returned by RequireVersion when the appliance
// is too old for a feature.
const ErrVersionUnsupported = errors.ConstError("version unsupported")

// DialFunc establishes the byte stream to the appliance described by
// info. Transport security is the dialer's concern.
type DialFunc func(ctx context.Context, info Info) (io.ReadWriteCloser, error)

// DialOpts holds configuration parameters that control the
// session once the stream has been dialled.
type DialOpts struct {
	// Clock drives keep-alives and polling. Defaults to the wall clock.
	Clock clock.Clock

	// PollingMethods holds the task methods that must be polled for
	// completion.
	PollingMethods set.Strings

	// Metrics, if set, receives engine metrics.
	Metrics *rpc.Collector

	// Errors describes application error codes.
	Errors params.Catalog

	// Table coerces named message fields.
	Table *coerce.Table
}

// DialOption is the type of functions that can modify DialOpts.
type DialOption func(*DialOpts)

// DefaultDialOpts returns a DialOpts representing the default
// parameters for contacting an appliance.
func DefaultDialOpts() DialOpts {
	return DialOpts{
		Clock:          clock.WallClock,
		PollingMethods: DefaultPollingMethods(),
		Errors:         params.DefaultCatalog,
		Table:          coerce.DefaultTable(),
	}
}

// WithClock returns a DialOption that sets the session clock.
func WithClock(clk clock.Clock) DialOption {
	return func(opts *DialOpts) {
		opts.Clock = clk
	}
}

// WithPollingMethods returns a DialOption that replaces the polling
// allow-list.
func WithPollingMethods(methods set.Strings) DialOption {
	return func(opts *DialOpts) {
		opts.PollingMethods = methods
	}
}

// WithMetrics returns a DialOption that records engine metrics on
// collector.
func WithMetrics(collector *rpc.Collector) DialOption {
	return func(opts *DialOpts) {
		opts.Metrics = collector
	}
}

func (opts DialOpts) rpcConfig() rpc.Config {
	config := rpc.DefaultConfig()
	if opts.Clock != nil {
		config.Clock = opts.Clock
	}
	if opts.Errors != nil {
		config.Errors = opts.Errors
	}
	config.PollingMethods = opts.PollingMethods
	config.Metrics = opts.Metrics
	return config
}

// SystemStatus holds the appliance information returned by
// system.status.get.
type SystemStatus struct {
	CPUCount        int64           `mapstructure:"cpu_n"`
	Uptime          decimal.Decimal `mapstructure:"uptime_sec"`
	Hostname        string          `mapstructure:"hostname"`
	LicenseExpires  coerce.Date     `mapstructure:"sys_lic_exp_date"`
	LicenseState    string          `mapstructure:"sys_lic_op_state"`
	LoginsEnabled   bool            `mapstructure:"sys_logins_enabled"`
	MaintenanceEnds coerce.Date     `mapstructure:"sys_maint_ends"`
	Mode            string          `mapstructure:"sys_mode"`
	Name            string          `mapstructure:"sys_name"`
	ProductID       string          `mapstructure:"sys_product_id"`
	ReleaseDate     coerce.Date     `mapstructure:"sys_sdn_release_date"`
	ReleaseType     string          `mapstructure:"sys_sdn_release_type"`
	Version         string          `mapstructure:"sys_sdn_version"`
	SerialNumber    string          `mapstructure:"sys_serial"`
}

// Connection is an authenticated session with an appliance.
type Connection struct {
	client  *rpc.Conn
	info    Info
	version string
}

// Open dials the appliance described by info, authenticates and reads
// the server version. The session is closed again if any step fails.
func Open(ctx context.Context, info Info, dial DialFunc, opts DialOpts) (*Connection, error) {
	if err := info.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	if dial == nil {
		return nil, errors.NotValidf("nil DialFunc")
	}
	table := opts.Table
	if table == nil {
		table = coerce.DefaultTable()
	}

	logger.Debugf("connecting to %s", info.Address())
	stream, err := dial(ctx, info)
	if err != nil {
		return nil, errors.Annotatef(err, "dialing %s", info.Address())
	}
	client, err := rpc.NewConn(jsoncodec.NewNet(stream, table, info.MessageByteLimit), opts.rpcConfig())
	if err != nil {
		_ = stream.Close()
		return nil, errors.Trace(err)
	}
	client.Start()

	conn := &Connection{
		client: client,
		info:   info,
	}
	if err := conn.login(ctx); err != nil {
		if closeErr := client.Close(); closeErr != nil {
			logger.Debugf("closing failed session to %s: %v", info.Address(), closeErr)
		}
		return nil, errors.Trace(err)
	}
	logger.Debugf("completed connection to %s (version %s)", info.Address(), conn.version)
	return conn, nil
}

func (c *Connection) login(ctx context.Context) error {
	_, err := c.client.Call(ctx, authenticateMethod, map[string]any{
		"user":  c.info.User,
		"token": c.info.Token,
	})
	if err != nil {
		return errors.Annotatef(err, "authenticating %q", c.info.User)
	}
	status, err := c.SystemStatus(ctx)
	if err != nil {
		return errors.Trace(err)
	}
	c.version = status.Version
	return nil
}

// Call invokes method on the appliance. See rpc.Conn.Call.
func (c *Connection) Call(ctx context.Context, method string, args map[string]any) (any, error) {
	return c.client.Call(ctx, method, args)
}

// Subscribe subscribes to event. See rpc.Conn.Subscribe.
func (c *Connection) Subscribe(ctx context.Context, event string, criteria map[string]any) (*rpc.Subscription, error) {
	return c.client.Subscribe(ctx, event, criteria)
}

// SystemStatus queries the appliance system information.
func (c *Connection) SystemStatus(ctx context.Context) (SystemStatus, error) {
	result, err := c.client.Call(ctx, statusMethod, nil)
	if err != nil {
		return SystemStatus{}, errors.Annotate(err, "getting system status")
	}
	var status SystemStatus
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &status,
	})
	if err != nil {
		return SystemStatus{}, errors.Trace(err)
	}
	if err := decoder.Decode(result); err != nil {
		return SystemStatus{}, errors.Annotatef(jsoncodec.ErrFormat, "system status: %v", err)
	}
	return status, nil
}

// ServerVersion returns the software version reported by the appliance
// when the session was opened.
func (c *Connection) ServerVersion() string {
	return c.version
}

// RequireVersion returns an error satisfying ErrVersionUnsupported if the
// appliance version is older than minimum.
func (c *Connection) RequireVersion(feature, minimum string) error {
	want, err := version.Parse(minimum)
	if err != nil {
		return errors.Annotatef(err, "parsing minimum version for %s", feature)
	}
	have, err := version.Parse(c.version)
	if err != nil {
		return errors.Annotatef(err, "parsing server version %q", c.version)
	}
	if have.Compare(want) < 0 {
		return errors.WithType(
			errors.Errorf("%s is only available on NETLAB+ systems version %s or later.", feature, minimum),
			ErrVersionUnsupported,
		)
	}
	return nil
}

// Info returns the information used to open the session.
func (c *Connection) Info() Info {
	return c.info
}

// Alive reports whether the session can still be used.
func (c *Connection) Alive() bool {
	return c.client.Alive()
}

// Broken returns a channel that is closed as soon as the session starts
// to shut down. Alive reports false from then on.
func (c *Connection) Broken() <-chan struct{} {
	return c.client.Dying()
}

// Close ends the session, failing any outstanding calls.
func (c *Connection) Close() error {
	err := c.client.Close()
	logger.Debugf("disconnected from %s", c.info.Address())
	return errors.Trace(err)
}
