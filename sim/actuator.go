package sim

import "sync"

// Actuator stands in for the servo PWM output. It remembers every pulse width it was given.
type Actuator struct {
	mu      sync.Mutex
	history []uint32
}

// SetPulseWidth records the pulse width
func (a *Actuator) SetPulseWidth(us uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, us)
}

// PulseWidth returns the last pulse width written, or 0 if none was
func (a *Actuator) PulseWidth() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.history) == 0 {
		return 0
	}
	return a.history[len(a.history)-1]
}

// History returns a copy of all pulse widths in the order they were written
func (a *Actuator) History() []uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]uint32(nil), a.history...)
}
