package controller

import "math"

// Phase is the motion state of the mount
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSeeking
)

func (p Phase) String() string {
	switch p {
	case PhaseSeeking:
		return "Seeking"
	default:
		fallthrough
	case PhaseIdle:
		return "Idle"
	}
}

// State is the believed position of the servo and its commanded goal. Each derived field
// is recomputed by the setter that changes its source, so they are never stale:
//   - targetUs is ToActuationUnits(targetDeg, inverted)
//   - speedUsPerMs is speedDegPerS scaled to pulse width per millisecond
//   - currentUs is currentUsPrecise rounded to the nearest unit
//   - currentDeg is ToAngleUnits(currentUs, false), the angle of the servo itself
type State struct {
	targetDeg float64
	targetUs  PulseWidth

	currentDeg float64
	currentUs  PulseWidth
	// currentUsPrecise accumulates fractional steps so that slow moves are not lost to
	// rounding
	currentUsPrecise float64

	speedDegPerS float64
	speedUsPerMs float64

	inverted bool

	lastTickMs  uint32
	tickDeltaMs uint32
}

// NewState starts at the neutral position with the given speed cap
func NewState(speed float64) State {
	s := State{
		targetUs:         NeutralPulseWidth,
		currentUs:        NeutralPulseWidth,
		currentUsPrecise: float64(NeutralPulseWidth),
	}
	s.SetSpeed(speed)
	return s
}

// SetTarget sets the goal angle in degrees
func (s *State) SetTarget(deg float64) {
	s.targetDeg = deg
	s.targetUs = ToActuationUnits(deg, s.inverted)
}

// SetSpeed sets the speed cap in degrees per second. Values are not validated; a
// negative speed drives the mount away from its target.
func (s *State) SetSpeed(degPerS float64) {
	s.speedDegPerS = degPerS
	s.speedUsPerMs = degPerS * 0.001 * Slope
}

// SetInverted changes the direction of the mount. The target keeps its angle, so its
// pulse width is mirrored.
func (s *State) SetInverted(inverted bool) {
	s.inverted = inverted
	s.targetUs = ToActuationUnits(s.targetDeg, inverted)
}

// Phase reports whether the mount is still moving toward its target
func (s *State) Phase() Phase {
	if s.currentUs == s.targetUs {
		return PhaseIdle
	}
	return PhaseSeeking
}

// Step advances the position by one control tick that lasted dtMs. It returns true if
// the position changed and must be pushed to the servo.
//
// When the target is reachable within the speed cap the position snaps to it exactly.
// Stepping by fractions could otherwise leave the rounded position one unit short of
// the target forever. Otherwise the position moves by speedUsPerMs times the remaining
// error, an exponential approach bounded by the speed cap. The step does not scale with
// dtMs, so the effective speed follows the tick rate.
func (s *State) Step(dtMs uint32) bool {
	if s.currentUs == s.targetUs {
		return false
	}
	// no elapsed time means no defined speed
	if dtMs == 0 {
		return false
	}

	target := float64(s.targetUs)
	errUs := target - s.currentUsPrecise
	delta := s.speedUsPerMs * errUs

	// a step of the whole error or more would overshoot
	if math.Abs(errUs)/float64(dtMs) < s.speedUsPerMs || math.Abs(delta) >= math.Abs(errUs) {
		s.currentUsPrecise = target
		s.currentUs = s.targetUs
	} else {
		s.currentUsPrecise += delta
		s.currentUs = toPulseWidth(math.Round(s.currentUsPrecise))
	}

	// reported in the servo frame, so an inverted mount reports the mirrored angle
	s.currentDeg = ToAngleUnits(s.currentUs, false)
	return true
}

// Status is a copy of the state for reporting
type Status struct {
	TargetDeg    float64
	TargetUs     PulseWidth
	CurrentDeg   float64
	CurrentUs    PulseWidth
	SpeedDegPerS float64
	Inverted     bool
	Phase        Phase
}

func (s *State) Status() Status {
	return Status{
		TargetDeg:    s.targetDeg,
		TargetUs:     s.targetUs,
		CurrentDeg:   s.currentDeg,
		CurrentUs:    s.currentUs,
		SpeedDegPerS: s.speedDegPerS,
		Inverted:     s.inverted,
		Phase:        s.Phase(),
	}
}
