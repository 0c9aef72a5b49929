//go:build tinygo

package device

import (
	"machine"

	"tinygo.org/x/drivers/servo"
)

// ServoConfig has device-level values for setting up the Servo
type ServoConfig struct {
	Pin machine.Pin
	PWM servo.PWM

	// PulseScale converts microseconds into the units expected by the PWM driver. The servo driver
	// already works in microseconds, so boards using it leave this at 1
	PulseScale uint32
}

// UARTConfig configures the UART used for the command protocol
type UARTConfig struct {
	BaudRate uint32
}
