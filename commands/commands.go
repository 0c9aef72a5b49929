package commands

import (
	"errors"
	"strconv"
	"strings"

	"github.com/luckyfish-tu/camservo"
)

// Wire names of the messages on the command channel
const (
	NameSetTargetPosition   = "set-target-position"
	NameSetSpeed            = "set-speed"
	NameSetInversion        = "set-inversion"
	NamePositionTelemetry   = "position-telemetry"
	NameVersionAnnouncement = "camservo-version"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrMalformed      = errors.New("malformed command")
)

// ParseError reports the frame that could not be decoded
type ParseError struct {
	Frame string
	Err   error
}

func (e *ParseError) Error() string {
	return e.Err.Error() + ": " + strconv.Quote(e.Frame)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Command is an inbound command decoded at the channel boundary. The set of
// implementations is closed: SetTargetPosition, SetSpeed and SetInversion.
type Command interface {
	// Name is the wire name of the command
	Name() string
	// Arg is the raw integer argument as it appeared on the wire
	Arg() int32

	command()
}

// SetTargetPosition moves the target angle. Raw is fixed-point degrees.
type SetTargetPosition struct {
	Raw int32
}

func (SetTargetPosition) Name() string { return NameSetTargetPosition }
func (c SetTargetPosition) Arg() int32 { return c.Raw }
func (SetTargetPosition) command() {}
func (c SetTargetPosition) Degrees() float64 { return camservo.Decode(c.Raw) }

// SetSpeed changes the speed cap. Raw is fixed-point degrees per second.
type SetSpeed struct {
	Raw int32
}

func (SetSpeed) Name() string { return NameSetSpeed }
func (c SetSpeed) Arg() int32 { return c.Raw }
func (SetSpeed) command() {}
func (c SetSpeed) DegreesPerSecond() float64 { return camservo.Decode(c.Raw) }

// SetInversion flips the direction of the mount. Value is a plain integer where
// only 0 and 1 are meaningful.
type SetInversion struct {
	Value int32
}

func (SetInversion) Name() string { return NameSetInversion }
func (c SetInversion) Arg() int32 { return c.Value }
func (SetInversion) command() {}

// Inverted returns the requested inversion and whether Value was valid
func (c SetInversion) Inverted() (inverted bool, ok bool) {
	switch c.Value {
	case 0:
		return false, true
	case 1:
		return true, true
	default:
		return false, false
	}
}

type definition struct {
	Name        string
	Decode      func(int32) Command
	Description string
}

var (
	setTargetPositionDefinition = &definition{
		Name:        NameSetTargetPosition,
		Decode:      func(v int32) Command { return SetTargetPosition{Raw: v} },
		Description: "Set the target angle. Input: degrees x1000.",
	}
	setSpeedDefinition = &definition{
		Name:        NameSetSpeed,
		Decode:      func(v int32) Command { return SetSpeed{Raw: v} },
		Description: "Set the maximum angular speed. Input: degrees per second x1000.",
	}
	setInversionDefinition = &definition{
		Name:        NameSetInversion,
		Decode:      func(v int32) Command { return SetInversion{Value: v} },
		Description: "Invert the mount direction. Input: 0 or 1.",
	}
)

var definitions = []*definition{
	setTargetPositionDefinition,
	setSpeedDefinition,
	setInversionDefinition,
}

func lookup(name string) (*definition, bool) {
	for _, def := range definitions {
		if def.Name == name {
			return def, true
		}
	}
	return nil, false
}

// Parse decodes a single frame of the form "name:arg". A trailing terminator and
// surrounding whitespace are ignored.
func Parse(frame string) (Command, error) {
	trimmed := strings.TrimSpace(frame)
	trimmed = strings.TrimSuffix(trimmed, string(camservo.Terminator))

	name, arg, found := strings.Cut(trimmed, string(camservo.Separator))
	if !found {
		return nil, &ParseError{Frame: frame, Err: ErrMalformed}
	}

	def, ok := lookup(name)
	if !ok {
		return nil, &ParseError{Frame: frame, Err: ErrUnknownCommand}
	}

	v, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 32)
	if err != nil {
		return nil, &ParseError{Frame: frame, Err: ErrMalformed}
	}

	return def.Decode(int32(v)), nil
}

// Format renders the command in its inbound wire form
func Format(c Command) string {
	return Ack(c.Name(), c.Arg())
}

// Describe returns "name: description" lines for every recognized command
func Describe() []string {
	lines := make([]string, 0, len(definitions))
	for _, def := range definitions {
		lines = append(lines, def.Name+": "+def.Description)
	}
	return lines
}
