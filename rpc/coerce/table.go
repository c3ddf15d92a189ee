// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package coerce converts between the appliance's untyped wire values and
// typed Go values. Decoding is keyed by field name through a Table; encoding
// is driven by the runtime type of each value.
package coerce

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Kind identifies how a field's wire value is coerced.
type Kind int

const (
	KindDate Kind = iota + 1
	KindDateTime
	KindTimeDelta
	KindBool
	KindDecimal
	KindInt
	KindUUID
	KindEnum
	KindEnumCSV
	KindStrCSV
	KindBlankIsNone
)

var kindNames = map[Kind]string{
	KindDate:        "date",
	KindDateTime:    "datetime",
	KindTimeDelta:   "timedelta",
	KindBool:        "bool",
	KindDecimal:     "decimal",
	KindInt:         "int",
	KindUUID:        "uuid",
	KindEnum:        "enum",
	KindEnumCSV:     "enum-csv",
	KindStrCSV:      "str-csv",
	KindBlankIsNone: "blank-is-none",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Candidate is one of the types an Enum field may resolve to. Candidates
// are tried in order and the first one to resolve wins.
type Candidate interface {
	Name() string
	Resolve(raw any) (any, bool)
}

// NamedLookup resolves a member by its name. It is used by EnumCSV fields.
type NamedLookup interface {
	Name() string
	ByName(name string) (any, bool)
}

// Rule is the coercion applied to a single field.
type Rule struct {
	Kind       Kind
	Candidates []Candidate
	Lookup     NamedLookup
}

func (r Rule) equal(o Rule) bool {
	if r.Kind != o.Kind || len(r.Candidates) != len(o.Candidates) || r.Lookup != o.Lookup {
		return false
	}
	for i := range r.Candidates {
		if r.Candidates[i] != o.Candidates[i] {
			return false
		}
	}
	return true
}

func (r Rule) describe() string {
	switch r.Kind {
	case KindEnum:
		names := make([]string, len(r.Candidates))
		for i, c := range r.Candidates {
			names[i] = c.Name()
		}
		return fmt.Sprintf("enum(%s)", strings.Join(names, ", "))
	case KindEnumCSV:
		return fmt.Sprintf("enum-csv(%s)", r.Lookup.Name())
	}
	return r.Kind.String()
}

// Group assigns one rule to a set of fields.
type Group struct {
	Rule   Rule
	Fields []string
}

// Fields returns a group assigning a plain kind to the given fields.
func Fields(kind Kind, fields ...string) Group {
	return Group{Rule: Rule{Kind: kind}, Fields: fields}
}

// EnumField returns a group for a field whose value may belong to any of
// the candidates, tried in order.
func EnumField(field string, candidates ...Candidate) Group {
	return Group{Rule: Rule{Kind: KindEnum, Candidates: candidates}, Fields: []string{field}}
}

// EnumCSVField returns a group for a comma separated list of member names.
func EnumCSVField(field string, lookup NamedLookup) Group {
	return Group{Rule: Rule{Kind: KindEnumCSV, Lookup: lookup}, Fields: []string{field}}
}

// Table maps field names to rules. A Table is read-only once built and is
// safe for concurrent use.
type Table struct {
	rules map[string]Rule
}

// NewTable builds a table from the given groups. A field may be listed more
// than once, but only with the same rule.
func NewTable(groups ...Group) (*Table, error) {
	t := &Table{rules: make(map[string]Rule)}
	for _, g := range groups {
		if err := g.Rule.validate(); err != nil {
			return nil, errors.Trace(err)
		}
		for _, f := range g.Fields {
			if existing, ok := t.rules[f]; ok && !existing.equal(g.Rule) {
				return nil, errors.NotValidf("field %q assigned both %s and %s", f, existing.describe(), g.Rule.describe())
			}
			t.rules[f] = g.Rule
		}
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable(groups ...Group) *Table {
	t, err := NewTable(groups...)
	if err != nil {
		panic(err)
	}
	return t
}

// Rule returns the rule for the named field.
func (t *Table) Rule(field string) (Rule, bool) {
	r, ok := t.rules[field]
	return r, ok
}

// Fields returns the sorted names of all fields with a rule.
func (t *Table) Fields() []string {
	names := make([]string, 0, len(t.rules))
	for f := range t.rules {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

func (r Rule) validate() error {
	if _, ok := kindNames[r.Kind]; !ok {
		return errors.NotValidf("coercion kind %d", int(r.Kind))
	}
	switch r.Kind {
	case KindEnum:
		if len(r.Candidates) == 0 {
			return errors.NotValidf("enum rule without candidates")
		}
	case KindEnumCSV:
		if r.Lookup == nil {
			return errors.NotValidf("enum-csv rule without lookup")
		}
	}
	return nil
}
