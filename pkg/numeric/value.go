// Package numeric provides a lenient numeric type for facility and market
// records. Upstream rows arrive as JSON where a figure may be a number, a
// numeric string ("82", "$1,250,000", "3.5%") or null, and where an absent
// figure means "unknown" rather than zero.
package numeric

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is an optional float64.
type Value struct {
	v   float64
	set bool
}

// Of returns a present Value.
func Of(v float64) Value {
	return Value{v: v, set: true}
}

// Present reports whether the value was supplied.
func (n Value) Present() bool {
	return n.set
}

// Float returns the value, or 0 when absent.
func (n Value) Float() float64 {
	return n.v
}

// Or returns the value when present, otherwise fallback.
func (n Value) Or(fallback float64) float64 {
	if !n.set {
		return fallback
	}
	return n.v
}

// Positive reports whether the value is present and greater than zero.
func (n Value) Positive() bool {
	return n.set && n.v > 0
}

// NonZero reports whether the value is present and not zero.
func (n Value) NonZero() bool {
	return n.set && n.v != 0
}

// String implements fmt.Stringer.
func (n Value) String() string {
	if !n.set {
		return "null"
	}
	return strconv.FormatFloat(n.v, 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (n Value) MarshalJSON() ([]byte, error) {
	if !n.set {
		return []byte("null"), nil
	}
	return json.Marshal(n.v)
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (n *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*n = Value{}
		return nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		parsed, ok, err := Parse(s)
		if err != nil {
			return err
		}
		if !ok {
			*n = Value{}
			return nil
		}
		*n = Of(parsed)
		return nil
	}

	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("expected number, numeric string or null, got %s", string(trimmed))
	}
	if !finite(f) {
		return fmt.Errorf("non-finite numeric value %s", string(trimmed))
	}
	*n = Of(f)
	return nil
}

// Parse converts a loosely formatted numeric string. Currency symbols,
// thousands separators and a trailing percent sign are ignored. An empty
// string reports ok=false without an error. NaN and infinities are rejected.
func Parse(s string) (float64, bool, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid numeric value %q: %w", s, err)
	}
	if !finite(f) {
		return 0, false, fmt.Errorf("invalid numeric value %q: not a finite number", s)
	}
	return f, true, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
