package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"
)

func TestValue_ZeroValueIsNoData(t *testing.T) {
	var v Value

	if v.Valid() {
		t.Error("zero Value must not be valid")
	}

	if v.State() != StateNoData {
		t.Errorf("State() = %v, want %v", v.State(), StateNoData)
	}
}

func TestValue_FloatRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if Float(f).Valid() {
			t.Errorf("Float(%v) must not be valid", f)
		}
	}
}

func TestValue_Ratio(t *testing.T) {
	tests := []struct {
		name      string
		num, den  float64
		wantValid bool
		want      float64
	}{
		{"regular", 1, 4, true, 0.25},
		{"zero numerator", 0, 4, true, 0},
		{"zero denominator", 1, 0, false, 0},
		{"zero over zero", 0, 0, false, 0},
		{"negative denominator", 1, -1, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Ratio(tt.num, tt.den).Float()
			if ok != tt.wantValid {
				t.Fatalf("valid = %v, want %v", ok, tt.wantValid)
			}

			if ok && got != tt.want {
				t.Errorf("Ratio() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_Format(t *testing.T) {
	tests := []struct {
		name   string
		format string
		value  Value
		want   string
	}{
		{"valid precision", "%7.3f", Float(1.5), "  1.500"},
		{"valid percent", "%.2f", Float(0.25), "0.25"},
		{"not applicable padded", "%7.3f", NotApplicable, "    n/a"},
		{"no data left aligned", "%-4v", NoData, "-   "},
		{"no width", "%v", NotApplicable, "n/a"},
		{"zero is zero", "%.1f", Float(0), "0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmt.Sprintf(tt.format, tt.value); got != tt.want {
				t.Errorf("Sprintf(%q) = %q, want %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestValue_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{Float(0.5), NotApplicable})
	if err != nil {
		t.Fatal(err)
	}

	if string(data) != `{"a":0.5,"b":null}` {
		t.Errorf("Marshal() = %s", data)
	}
}

func TestValue_Or(t *testing.T) {
	if got := NoData.Or(-1); got != -1 {
		t.Errorf("NoData.Or(-1) = %v", got)
	}

	if got := Float(2).Or(-1); got != 2 {
		t.Errorf("Float(2).Or(-1) = %v", got)
	}
}
