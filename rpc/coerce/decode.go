// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package coerce

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

const (
	// DateLayout is the wire form of a date.
	DateLayout = "2006-01-02"
	// DateTimeLayout is the wire form of a date and time. It is the only
	// form ever encoded.
	DateTimeLayout = "2006-01-02 15:04:05"
	// DateTimeMicroLayout is accepted when decoding timestamps that carry
	// microseconds.
	DateTimeMicroLayout = "2006-01-02 15:04:05.000000"
)

var truthValues = map[string]bool{"1": true, "true": true, "yes": true}

// Error is returned when a field's wire value cannot be coerced by its rule.
type Error struct {
	Field string
	Value any
	Rule  string
	Err   error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("cannot coerce field %q value %s as %s: %v", e.Field, quote(e.Value), e.Rule, e.Err)
}

// Unwrap returns the underlying parse failure.
func (e *Error) Unwrap() error {
	return e.Err
}

func quote(v any) string {
	if s, ok := v.(string); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%v", v)
}

// Apply coerces every object found in the decoded JSON value v, at any
// depth, in place. Objects are processed innermost first. The (possibly
// replaced) value is returned; a *Error is returned for the first field
// that fails.
func (t *Table) Apply(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		for k, child := range x {
			out, err := t.Apply(child)
			if err != nil {
				return nil, err
			}
			x[k] = out
		}
		for k, raw := range x {
			rule, ok := t.rules[k]
			if !ok {
				continue
			}
			out, err := rule.apply(raw)
			if err != nil {
				return nil, &Error{Field: k, Value: raw, Rule: rule.describe(), Err: err}
			}
			x[k] = out
		}
		return x, nil
	case []any:
		for i, child := range x {
			out, err := t.Apply(child)
			if err != nil {
				return nil, err
			}
			x[i] = out
		}
		return x, nil
	}
	return v, nil
}

func (r Rule) apply(raw any) (any, error) {
	switch r.Kind {
	case KindDate:
		return toDate(raw)
	case KindDateTime:
		return toDateTime(raw)
	case KindTimeDelta:
		return toTimeDelta(raw)
	case KindBool:
		return ToBool(raw), nil
	case KindDecimal:
		return toDecimal(raw)
	case KindInt:
		if falsy(raw) {
			return int64(0), nil
		}
		return parseInt(raw)
	case KindUUID:
		return toUUID(raw)
	case KindEnum:
		if raw == nil {
			return nil, nil
		}
		for _, c := range r.Candidates {
			if v, ok := c.Resolve(raw); ok {
				return v, nil
			}
		}
		return nil, errors.Errorf("no candidate matched")
	case KindEnumCSV:
		return toEnumCSV(raw, r.Lookup)
	case KindStrCSV:
		if raw == nil {
			return nil, nil
		}
		s, ok := raw.(string)
		if !ok {
			return nil, errors.Errorf("expected string, got %T", raw)
		}
		return strings.Split(s, ","), nil
	case KindBlankIsNone:
		if s, ok := raw.(string); ok && s == "" {
			return nil, nil
		}
		return raw, nil
	}
	return nil, errors.NotSupportedf("coercion kind %v", r.Kind)
}

// ToBool reports whether the stringified, lowercased value is one of
// "1", "true" or "yes".
func ToBool(raw any) bool {
	return truthValues[strings.ToLower(stringify(raw))]
}

// Truthy reports whether a decoded JSON value counts as set.
func Truthy(raw any) bool {
	return !falsy(raw)
}

// falsy mirrors the truthiness of a decoded JSON value: null, false, "",
// numeric zero and empty containers are all false.
func falsy(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case nil:
		return "None"
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "True"
		}
		return "False"
	}
	return fmt.Sprint(raw)
}

func asString(raw any) (string, error) {
	s, ok := raw.(string)
	if !ok {
		return "", errors.Errorf("expected string, got %T", raw)
	}
	return s, nil
}

func toDate(raw any) (any, error) {
	if falsy(raw) {
		return nil, nil
	}
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	return ParseDate(s)
}

func toDateTime(raw any) (any, error) {
	if falsy(raw) {
		return nil, nil
	}
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(DateTimeLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(DateTimeMicroLayout, s)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return t, nil
}

func toTimeDelta(raw any) (any, error) {
	if falsy(raw) {
		return nil, nil
	}
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, errors.Errorf("expected days,hours,minutes,seconds")
	}
	units := [4]time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, p := range parts {
		n, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, errors.Trace(err)
		}
		d += time.Duration(n) * units[i]
	}
	return d, nil
}

func toDecimal(raw any) (any, error) {
	if falsy(raw) {
		return nil, nil
	}
	switch v := raw.(type) {
	case json.Number:
		return decimal.NewFromString(v.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	}
	return nil, errors.Errorf("expected number or string, got %T", raw)
}

func parseInt(raw any) (int64, error) {
	switch v := raw.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return 0, errors.Trace(err)
		}
		return truncate(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, errors.Trace(err)
		}
		return n, nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case float64:
		return truncate(v)
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	}
	return 0, errors.Errorf("expected number or string, got %T", raw)
}

func truncate(f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return 0, errors.Errorf("%v is not representable as an integer", f)
	}
	return int64(f), nil
}

func toUUID(raw any) (any, error) {
	if falsy(raw) {
		return nil, nil
	}
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return id, nil
}

func toEnumCSV(raw any, lookup NamedLookup) (any, error) {
	if raw == nil {
		return nil, nil
	}
	s, err := asString(raw)
	if err != nil {
		return nil, err
	}
	values := []any{}
	if s == "" {
		return values, nil
	}
	for _, name := range strings.Split(s, ",") {
		v, ok := lookup.ByName(name)
		if !ok {
			return nil, errors.NotFoundf("member %q", name)
		}
		values = append(values, v)
	}
	return values, nil
}

// IntCandidate resolves any value that parses as an integer. It is used as
// the fallback for fields holding either a count or a sentinel enum.
var IntCandidate Candidate = intCandidate{}

type intCandidate struct{}

func (intCandidate) Name() string { return "int" }

func (intCandidate) Resolve(raw any) (any, bool) {
	n, err := parseInt(raw)
	if err != nil {
		return nil, false
	}
	return n, true
}
