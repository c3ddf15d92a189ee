// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package coerce

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/shopspring/decimal"
)

// WireValuer is implemented by values, such as enum members, that are sent
// as a plain scalar.
type WireValuer interface {
	WireValue() any
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Trace(err)
	}
	return DateOf(t), nil
}

// DateOf returns the date on which t occurs, in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsZero reports whether d is the zero date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Encode converts v into a value the JSON encoder can emit in wire form.
// Conversion is by runtime type, not field name: enum members emit their
// scalar, dates emit YYYY-MM-DD, times emit YYYY-MM-DD HH:MM:SS, durations
// emit days,hours,minutes,seconds, and UUIDs and decimals emit strings.
// Maps and slices are walked; everything else is returned unchanged.
func Encode(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case WireValuer:
		return x.WireValue()
	case Date:
		return x.String()
	case *Date:
		if x == nil {
			return nil
		}
		return x.String()
	case time.Time:
		return x.Format(DateTimeLayout)
	case *time.Time:
		if x == nil {
			return nil
		}
		return x.Format(DateTimeLayout)
	case time.Duration:
		return FormatTimeDelta(x)
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	case decimal.Decimal:
		return x.String()
	case *decimal.Decimal:
		if x == nil {
			return nil
		}
		return x.String()
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, child := range x {
			out[k] = Encode(child)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, child := range x {
			out[i] = Encode(child)
		}
		return out
	case []byte, string, bool, int, int64, float64:
		return v
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() || rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		fallthrough
	case reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Encode(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Encode(iter.Value().Interface())
		}
		return out
	}
	return v
}

// FormatTimeDelta renders d as days,hours,minutes,seconds. Days may be
// negative; the remaining fields never are. Sub-second precision is
// dropped.
func FormatTimeDelta(d time.Duration) string {
	const day = int64(24 * time.Hour / time.Microsecond)
	us := d.Microseconds()
	days := us / day
	if us%day < 0 {
		days--
	}
	secs := (us - days*day) / int64(time.Second/time.Microsecond)
	return fmt.Sprintf("%d,%d,%d,%d", days, secs/3600, (secs%3600)/60, secs%60)
}
