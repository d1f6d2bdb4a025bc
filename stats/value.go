package stats

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
)

// State describes whether a [Value] holds a number.
type State uint8

// The zero State is StateNoData, so a zero [Value] never reads as a valid 0.
const (
	StateNoData        State = iota // no data
	StateNotApplicable              // n/a
	StateValid                      // valid
)

// String returns the label used when rendering a Value in this state.
func (s State) String() string {
	switch s {
	case StateNoData:
		return "-"
	case StateNotApplicable:
		return "n/a"
	case StateValid:
		return "valid"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Value is an optional float64 tagged with a [State].
type Value struct {
	v     float64
	state State
}

var (
	// NoData marks a statistic with no underlying data, e.g., a share of a
	// zero grand total.
	NoData = Value{state: StateNoData}

	// NotApplicable marks a statistic that is undefined for the given data,
	// e.g., the spread of a single observation.
	NotApplicable = Value{state: StateNotApplicable}
)

// Float returns a valid Value holding v.
// Non-finite inputs yield [NoData].
func Float(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NoData
	}

	return Value{v: v, state: StateValid}
}

// Ratio returns num/den, or [NoData] if den is not positive.
func Ratio(num, den float64) Value {
	if !(den > 0) {
		return NoData
	}

	return Float(num / den)
}

// State returns the state of v.
func (v Value) State() State { return v.state }

// Valid reports whether v holds a number.
func (v Value) Valid() bool { return v.state == StateValid }

// Float returns the number held by v and whether v is valid.
func (v Value) Float() (float64, bool) { return v.v, v.Valid() }

// Or returns the number held by v, or def if v is not valid.
func (v Value) Or(def float64) float64 {
	if v.Valid() {
		return v.v
	}

	return def
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.Valid() {
		return fmt.Sprint(v.v)
	}

	return v.state.String()
}

// Format implements fmt.Formatter. Valid values are formatted as a float64
// with the given verb and flags; other states print their label padded to
// the requested width.
func (v Value) Format(f fmt.State, verb rune) {
	if v.Valid() {
		_, _ = fmt.Fprintf(f, fmt.FormatString(f, verb), v.v)

		return
	}

	label := v.state.String()

	w, ok := f.Width()
	if !ok || w <= len(label) {
		_, _ = fmt.Fprint(f, label)

		return
	}

	pad := strings.Repeat(" ", w-len(label))
	if f.Flag('-') {
		_, _ = fmt.Fprint(f, label+pad)
	} else {
		_, _ = fmt.Fprint(f, pad+label)
	}
}

// MarshalJSON implements json.Marshaler. Invalid values marshal to null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid() {
		return []byte("null"), nil
	}

	return json.Marshal(v.v)
}

// MarshalYAML implements the goccy/go-yaml InterfaceMarshaler.
func (v Value) MarshalYAML() (any, error) {
	if !v.Valid() {
		return nil, nil //nolint:nilnil
	}

	return v.v, nil
}

// LogValue implements slog.LogValuer.
func (v Value) LogValue() slog.Value {
	if !v.Valid() {
		return slog.StringValue(v.state.String())
	}

	return slog.Float64Value(v.v)
}
