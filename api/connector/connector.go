// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package connector provides ready-made ways of obtaining an appliance
// session.
package connector

import (
	"context"

	"github.com/juju/netlab/api"
)

// A Connector can provide api.Connection instances based on a fixed
// configuration.
type Connector interface {
	Connect(ctx context.Context, dialOptions ...api.DialOption) (*api.Connection, error)
}
