//go:build tinygo

package device

import (
	"machine"

	"github.com/luckyfish-tu/camservo/commands"
)

var _ commands.FrameSource = (*UART)(nil)

// UART reads command frames from the serial console without blocking the control loop
type UART struct {
	scanner commands.Scanner
}

// NewUART configures the default UART
func NewUART(cfg UARTConfig) (*UART, error) {
	err := machine.Serial.Configure(machine.UARTConfig{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, err
	}
	return &UART{}, nil
}

// Poll consumes buffered bytes until one complete frame is available. Bytes after that frame
// stay in the UART buffer for the next call
func (s *UART) Poll() (string, bool) {
	for machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			return "", false
		}
		if frame, ok := s.scanner.Feed(b); ok {
			return frame, true
		}
	}
	return "", false
}

func (s *UART) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
