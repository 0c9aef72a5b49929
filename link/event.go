package link

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/luckyfish-tu/camservo"
	"github.com/luckyfish-tu/camservo/commands"
)

// EventKind classifies a message from the firmware
type EventKind int

const (
	EventUnknown EventKind = iota
	EventTargetAck
	EventSpeedAck
	EventInversionAck
	EventTelemetry
	EventVersion
)

func (k EventKind) String() string {
	switch k {
	case EventTargetAck:
		return "TargetAck"
	case EventSpeedAck:
		return "SpeedAck"
	case EventInversionAck:
		return "InversionAck"
	case EventTelemetry:
		return "Telemetry"
	case EventVersion:
		return "Version"
	case EventUnknown:
		fallthrough
	default:
		return "Unknown"
	}
}

// Event is one name:value message received from the firmware
type Event struct {
	Name  string
	Value string
}

// ParseEvent splits a frame, with or without its terminator
func ParseEvent(frame string) (Event, error) {
	frame = strings.TrimSuffix(strings.TrimSpace(frame), string(camservo.Terminator))

	name, value, found := strings.Cut(frame, string(camservo.Separator))
	if !found || name == "" {
		return Event{}, errors.Wrapf(commands.ErrMalformed, "event %q", frame)
	}
	return Event{Name: name, Value: value}, nil
}

// Kind classifies the event by name
func (e Event) Kind() EventKind {
	switch e.Name {
	case commands.NameSetTargetPosition:
		return EventTargetAck
	case commands.NameSetSpeed:
		return EventSpeedAck
	case commands.NameSetInversion:
		return EventInversionAck
	case commands.NamePositionTelemetry:
		return EventTelemetry
	case commands.NameVersionAnnouncement:
		return EventVersion
	default:
		return EventUnknown
	}
}

// Raw returns the value as the integer sent on the wire
func (e Event) Raw() (int32, error) {
	v, err := strconv.ParseInt(e.Value, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(commands.ErrMalformed, "value of %s: %v", e.Name, err)
	}
	return int32(v), nil
}

// Degrees decodes a fixed-point value. It applies to position acks, speed acks and telemetry.
func (e Event) Degrees() (float64, error) {
	raw, err := e.Raw()
	if err != nil {
		return 0, err
	}
	return camservo.Decode(raw), nil
}

func (e Event) String() string {
	return e.Name + string(camservo.Separator) + e.Value
}
