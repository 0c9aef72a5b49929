package controller

import (
	"io"

	"github.com/luckyfish-tu/camservo"
	"github.com/luckyfish-tu/camservo/commands"
)

// PWM drives the servo signal. Implementations apply any scaling their timer needs.
type PWM interface {
	SetPulseWidth(us uint32)
}

// Controller drives one camera-mount servo. It is not safe for concurrent use: Update is
// meant to be called repeatedly from a single cooperative loop.
type Controller struct {
	pwm   PWM
	out   io.Writer
	clock Clock

	state State

	controlGate   *Gate
	telemetryGate *Gate
}

// Option customizes a Controller
type Option func(*Controller)

// WithDefaultSpeed overrides the speed cap used until set-speed arrives
func WithDefaultSpeed(degPerS float64) Option {
	return func(c *Controller) {
		c.state.SetSpeed(degPerS)
	}
}

// New creates a Controller at the neutral position. Acknowledgements and telemetry are
// written to out.
func New(pwm PWM, out io.Writer, clock Clock, opts ...Option) *Controller {
	c := &Controller{
		pwm:           pwm,
		out:           out,
		clock:         clock,
		state:         NewState(DefaultSpeed),
		controlGate:   NewGate(ControlPeriod),
		telemetryGate: NewGate(TelemetryPeriod),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Activate moves the servo to its current position, starts the timers and advertises
// the mount in caps
func (c *Controller) Activate(caps *camservo.Capabilities) {
	now := c.clock.Millis()
	c.controlGate.Reset(now)
	c.telemetryGate.Reset(now)
	c.state.lastTickMs = now
	c.state.tickDeltaMs = 0

	c.pwm.SetPulseWidth(uint32(c.state.currentUs))

	if caps != nil {
		caps.Set(camservo.CapabilityCameraMount1Axis)
	}
}

// Update runs one pass of the loop. cmd is the pending command, or nil. It is applied
// before the control tick so a new target or speed is used immediately.
func (c *Controller) Update(cmd commands.Command) {
	if cmd != nil {
		c.Apply(cmd)
	}

	now := c.clock.Millis()

	if c.controlGate.HasElapsed(now) {
		c.state.tickDeltaMs = now - c.state.lastTickMs
		if c.state.Step(c.state.tickDeltaMs) {
			c.pwm.SetPulseWidth(uint32(c.state.currentUs))
		}
		c.state.lastTickMs = now
	}

	if c.telemetryGate.HasElapsed(now) {
		c.write(commands.Telemetry(c.state.currentDeg))
	}
}

// Apply changes the state for a single command and acknowledges it. It returns false
// if the command was ignored, which only happens for an inversion value other than 0
// or 1.
func (c *Controller) Apply(cmd commands.Command) bool {
	switch cmd := cmd.(type) {
	case commands.SetTargetPosition:
		c.state.SetTarget(cmd.Degrees())
		c.write(commands.TargetAck(cmd.Raw))
	case commands.SetSpeed:
		c.state.SetSpeed(cmd.DegreesPerSecond())
		c.write(commands.SpeedAck(cmd.Raw))
	case commands.SetInversion:
		inverted, ok := cmd.Inverted()
		if !ok {
			return false
		}
		c.state.SetInverted(inverted)
		c.write(commands.InversionAck(inverted))
	default:
		return false
	}
	return true
}

// Status returns a copy of the current state
func (c *Controller) Status() Status {
	return c.state.Status()
}

// write ignores errors; delivery is the transport's concern
func (c *Controller) write(msg string) {
	_, _ = io.WriteString(c.out, msg)
}
