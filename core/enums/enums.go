// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package enums holds the closed sets of named values the appliance uses on
// the wire. Each Enum resolves either a raw wire value (when decoding a
// response) or a member name (for comma separated fields).
package enums

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Member is a single named value of an Enum. Value is either a string or an
// int.
type Member struct {
	Name  string
	Value any
}

// Value is a resolved enum member as it appears in decoded payloads.
type Value struct {
	Enum string
	Name string
	Raw  any
}

// WireValue returns the scalar sent over the wire for this member.
func (v Value) WireValue() any {
	return v.Raw
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.Enum + "." + v.Name
}

// Enum is a closed, ordered set of members.
type Enum struct {
	name    string
	members []Member
	byName  map[string]Value
}

// New returns an Enum with the given members. It panics if a member value
// is neither a string nor an int, or if a name is repeated.
func New(name string, members ...Member) *Enum {
	e := &Enum{
		name:    name,
		members: members,
		byName:  make(map[string]Value, len(members)),
	}
	for _, m := range members {
		switch m.Value.(type) {
		case string, int:
		default:
			panic(fmt.Sprintf("enum %s: member %s has unsupported value type %T", name, m.Name, m.Value))
		}
		if _, ok := e.byName[m.Name]; ok {
			panic(fmt.Sprintf("enum %s: duplicate member %s", name, m.Name))
		}
		e.byName[m.Name] = Value{Enum: name, Name: m.Name, Raw: m.Value}
	}
	return e
}

// Name returns the name of the enum.
func (e *Enum) Name() string {
	return e.name
}

// Members returns the members in declaration order.
func (e *Enum) Members() []Member {
	return append([]Member(nil), e.members...)
}

// Resolve looks a raw wire value up by member value. String members only
// match strings; int members only match integral numbers.
func (e *Enum) Resolve(raw any) (any, bool) {
	for _, m := range e.members {
		if matches(m.Value, raw) {
			return e.byName[m.Name], true
		}
	}
	return nil, false
}

// ByName looks a member up by its name.
func (e *Enum) ByName(name string) (any, bool) {
	v, ok := e.byName[name]
	if !ok {
		return nil, false
	}
	return v, true
}

// MustValue returns the named member, panicking if there is none. It is
// intended for building request parameters from constants.
func (e *Enum) MustValue(name string) Value {
	v, ok := e.byName[name]
	if !ok {
		panic(fmt.Sprintf("enum %s has no member %s", e.name, name))
	}
	return v
}

// String implements fmt.Stringer.
func (e *Enum) String() string {
	return e.name
}

func matches(member, raw any) bool {
	switch m := member.(type) {
	case string:
		s, ok := raw.(string)
		return ok && s == m
	case int:
		n, ok := integral(raw)
		return ok && n == int64(m)
	}
	return false
}

func integral(raw any) (int64, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := strconv.ParseInt(string(v), 10, 64)
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	case float64:
		if v == float64(int64(v)) {
			return int64(v), true
		}
	}
	return 0, false
}
