//go:build tinygo

package device

import (
	"errors"
	"math"

	"tinygo.org/x/drivers/servo"
)

// ServoPWM drives the camera mount's pan servo with pulse widths computed by the controller
type ServoPWM struct {
	servo servo.Servo
	scale uint32
}

// NewServoPWM initializes the PWM peripheral for the servo pin
func NewServoPWM(cfg ServoConfig) (*ServoPWM, error) {
	s, err := servo.New(cfg.PWM, cfg.Pin)
	if err != nil {
		return nil, errors.New("error creating servo: " + err.Error())
	}

	scale := cfg.PulseScale
	if scale == 0 {
		scale = 1
	}

	return &ServoPWM{servo: s, scale: scale}, nil
}

// SetPulseWidth writes the pulse width to the PWM output
func (s *ServoPWM) SetPulseWidth(us uint32) {
	scaled := uint64(us) * uint64(s.scale)
	if scaled > math.MaxInt16 {
		scaled = math.MaxInt16
	}
	s.servo.SetMicroseconds(int16(scaled))
}
