package commands

import (
	"strconv"

	"github.com/luckyfish-tu/camservo"
)

// Ack renders an outbound "name:value;" message
func Ack(name string, value int32) string {
	return name + string(camservo.Separator) + strconv.FormatInt(int64(value), 10) + string(camservo.Terminator)
}

// TargetAck echoes the raw argument of an applied set-target-position
func TargetAck(raw int32) string {
	return Ack(NameSetTargetPosition, raw)
}

// SpeedAck echoes the raw argument of an applied set-speed
func SpeedAck(raw int32) string {
	return Ack(NameSetSpeed, raw)
}

// InversionAck is the fixed acknowledgement for an applied set-inversion
func InversionAck(inverted bool) string {
	if inverted {
		return Ack(NameSetInversion, 1)
	}
	return Ack(NameSetInversion, 0)
}

// Telemetry reports the current angle in fixed-point degrees
func Telemetry(deg float64) string {
	return Ack(NamePositionTelemetry, camservo.Encode(deg))
}

// VersionAnnouncement is printed once by the firmware when it boots
func VersionAnnouncement() string {
	return NameVersionAnnouncement + string(camservo.Separator) + camservo.Version + string(camservo.Terminator)
}
