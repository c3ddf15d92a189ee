// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api_test

import (
	"strings"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/juju/netlab/api"
)

type pollingSuite struct{}

var _ = gc.Suite(&pollingSuite{})

func (*pollingSuite) TestDefaultPollingMethods(c *gc.C) {
	c.Check(api.DefaultPollingMethods().SortedValues(), jc.DeepEquals, []string{
		"vm.datacenter.discover.hosts.task",
		"vm.datacenter.discover.vms.task",
		"vm.datacenter.test.task",
		"vm.inventory.import.task",
	})
}

func (*pollingSuite) TestReadPollingMethods(c *gc.C) {
	methods, err := api.ReadPollingMethods(strings.NewReader(`
polling-methods:
  - vm.inventory.import.task
  - vm.clone.task
  - vm.clone.task
`))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(methods.SortedValues(), jc.DeepEquals, []string{"vm.clone.task", "vm.inventory.import.task"})
}

func (*pollingSuite) TestReadPollingMethodsEmpty(c *gc.C) {
	methods, err := api.ReadPollingMethods(strings.NewReader(""))
	c.Assert(err, jc.ErrorIsNil)
	c.Check(methods.IsEmpty(), jc.IsTrue)
}

func (*pollingSuite) TestReadPollingMethodsErrors(c *gc.C) {
	_, err := api.ReadPollingMethods(strings.NewReader("polling_methods: [a.task]\n"))
	c.Check(err, gc.ErrorMatches, `(?s)reading polling methods: .*polling_methods.*`)

	_, err = api.ReadPollingMethods(strings.NewReader("polling-methods: a.task\n"))
	c.Check(err, gc.ErrorMatches, `(?s)reading polling methods: .*`)

	_, err = api.ReadPollingMethods(strings.NewReader("polling-methods: ['']\n"))
	c.Check(err, jc.ErrorIs, errors.NotValid)
}
