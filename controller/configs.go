package controller

import "time"

const (
	// ControlPeriod paces the motion profile at 200Hz
	ControlPeriod   = 5 * time.Millisecond
	// TelemetryPeriod paces position reports at 10Hz
	TelemetryPeriod = 100 * time.Millisecond

	// DefaultSpeed is the speed cap in degrees per second until set-speed arrives
	DefaultSpeed = 50.0
)

// Calibration for the HITEC camera servo. These come from the datasheet pulse range and
// are not measured at runtime.
const (
	// ZeroOffset is the pulse width at 0 degrees
	ZeroOffset = 1487.0
	// Slope is pulse width units per degree
	Slope      = 9.523809

	NeutralPulseWidth PulseWidth = 1487
)
