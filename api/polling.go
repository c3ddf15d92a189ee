// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package api

import (
	"io"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"gopkg.in/yaml.v3"
)

// DefaultPollingMethods returns the task methods whose completion the
// appliance never announces, and which must therefore be polled.
func DefaultPollingMethods() set.Strings {
	return set.NewStrings(
		"vm.inventory.import.task",
		"vm.datacenter.test.task",
		"vm.datacenter.discover.vms.task",
		"vm.datacenter.discover.hosts.task",
	)
}

type pollingDoc struct {
	PollingMethods []string `yaml:"polling-methods"`
}

// ReadPollingMethods reads a polling allow-list from YAML of the form
//
//	polling-methods:
//	  - vm.inventory.import.task
//	  - ...
func ReadPollingMethods(r io.Reader) (set.Strings, error) {
	var doc pollingDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Annotate(err, "reading polling methods")
	}
	methods := set.NewStrings()
	for _, method := range doc.PollingMethods {
		if method == "" {
			return nil, errors.NotValidf("empty polling method")
		}
		methods.Add(method)
	}
	return methods, nil
}
