// Package codec provides value transformers for common wire encodings.
package codec

import (
	"fmt"
	"math"
	"time"
)

// Timestamp is a time value whose wire symbol is an RFC3339 string.
// Binding also accepts Unix seconds as an integer or float.
type Timestamp struct{ time.Time }

// At wraps t.
func At(t time.Time) Timestamp { return Timestamp{Time: t} }

// ToSymbol renders the canonical form: UTC, RFC3339 with trailing zero
// fractions trimmed.
func (ts Timestamp) ToSymbol() any { return formatRFC3339Canonical(ts.Time) }

// FromSymbol parses an RFC3339 string or Unix seconds.
func (ts *Timestamp) FromSymbol(sym any) error {
	switch v := sym.(type) {
	case string:
		t, err := parseRFC3339(v)
		if err != nil {
			return fmt.Errorf("invalid RFC3339 time %q: %w", v, err)
		}
		ts.Time = t
		return nil
	case int64:
		ts.Time = time.Unix(v, 0).UTC()
		return nil
	case int:
		ts.Time = time.Unix(int64(v), 0).UTC()
		return nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("invalid unix time %v", v)
		}
		sec, frac := math.Modf(v)
		ts.Time = time.Unix(int64(sec), int64(frac*1e9)).UTC()
		return nil
	case time.Time:
		ts.Time = v
		return nil
	}
	return fmt.Errorf("unsupported time symbol %T", sym)
}

// Date is a calendar date whose wire symbol is "YYYY-MM-DD".
type Date struct{ time.Time }

// ToSymbol renders the date in ISO 8601 calendar form.
func (d Date) ToSymbol() any { return d.Format(time.DateOnly) }

// FromSymbol parses "YYYY-MM-DD".
func (d *Date) FromSymbol(sym any) error {
	s, ok := sym.(string)
	if !ok {
		return fmt.Errorf("unsupported date symbol %T", sym)
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
