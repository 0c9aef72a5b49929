package controller

import "math"

// PulseWidth is the actuation unit understood by the servo, in microseconds
type PulseWidth uint32

// ToActuationUnits maps an angle to the pulse width that holds it. Inversion mirrors the
// angle around the neutral position. The result is rounded to the nearest unit; it is
// only clamped to the range of PulseWidth, callers own physical limits.
func ToActuationUnits(deg float64, inverted bool) PulseWidth {
	if inverted {
		deg = -deg
	}
	return toPulseWidth(math.Round(ZeroOffset + Slope*deg))
}

// ToAngleUnits is the inverse of ToActuationUnits
func ToAngleUnits(us PulseWidth, inverted bool) float64 {
	deg := (float64(us) - ZeroOffset) / Slope
	if inverted {
		return -deg
	}
	return deg
}

func toPulseWidth(us float64) PulseWidth {
	switch {
	case us <= 0:
		return 0
	case us >= math.MaxUint32:
		return math.MaxUint32
	}
	return PulseWidth(us)
}
