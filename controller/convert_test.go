package controller

import (
	"math"
	"testing"
)

func TestToActuationUnits(t *testing.T) {
	tests := []struct {
		name     string
		deg      float64
		inverted bool
		expected PulseWidth
	}{
		{"Neutral", 0, false, 1487},
		{"NeutralInverted", 0, true, 1487},
		{"Positive", 45, false, 1916},
		{"PositiveInverted", 45, true, 1058},
		{"Negative", -45, false, 1058},
		{"NegativeInverted", -45, true, 1916},
		{"RoundsToNearest", 1.365, false, 1500},
		{"FarBelowZero", -1000, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToActuationUnits(tt.deg, tt.inverted)
			if got != tt.expected {
				t.Errorf("expected=%d, got=%d", tt.expected, got)
			}
		})
	}
}

func TestInversionMirrorsAroundZeroOffset(t *testing.T) {
	for _, d := range []float64{-90, -30.5, -1, 0.25, 7, 60, 90} {
		normal := ToActuationUnits(d, false)
		inverted := ToActuationUnits(d, true)

		if expected := PulseWidth(math.Round(ZeroOffset + Slope*d)); normal != expected {
			t.Errorf("%v deg: expected=%d, got=%d", d, expected, normal)
		}
		if expected := PulseWidth(math.Round(ZeroOffset - Slope*d)); inverted != expected {
			t.Errorf("%v deg inverted: expected=%d, got=%d", d, expected, inverted)
		}
	}
}

func TestAngleRoundTrip(t *testing.T) {
	// a pulse width unit is the resolution of the round trip
	tolerance := 0.5/Slope + 1e-9

	for _, inverted := range []bool{false, true} {
		for d := -90.0; d <= 90.0; d += 0.37 {
			got := ToAngleUnits(ToActuationUnits(d, inverted), inverted)
			if math.Abs(got-d) > tolerance {
				t.Errorf("inverted=%v: expected=%v, got=%v", inverted, d, got)
			}
		}
	}
}

func TestToAngleUnits(t *testing.T) {
	if got := ToAngleUnits(NeutralPulseWidth, false); got != 0 {
		t.Errorf("expected=0, got=%v", got)
	}
	if got := ToAngleUnits(NeutralPulseWidth, true); got != 0 {
		t.Errorf("expected=0, got=%v", got)
	}

	got := ToAngleUnits(2000, false)
	if math.Abs(got-53.865) > 0.001 {
		t.Errorf("expected=53.865, got=%v", got)
	}
	if inverted := ToAngleUnits(2000, true); inverted != -got {
		t.Errorf("expected=%v, got=%v", -got, inverted)
	}
}
