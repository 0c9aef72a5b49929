package bridge

import (
	"encoding/json"

	"github.com/luckyfish-tu/camservo/link"
)

// Message types
const (
	TypeStatus       = "status"
	TypeTelemetry    = "telemetry"
	TypeAck          = "ack"
	TypeVersion      = "version"
	TypeSetTarget    = "set_target"
	TypeSetSpeed     = "set_speed"
	TypeSetInversion = "set_inversion"
	TypeError        = "error"
)

// Error codes
const (
	ErrInvalidMessage  = "INVALID_MESSAGE"
	ErrUnknownType     = "UNKNOWN_TYPE"
	ErrLinkUnavailable = "LINK_ERROR"
)

// Message is the envelope for every websocket message
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ParsePayload decodes the payload into v
func (m Message) ParsePayload(v any) error {
	return json.Unmarshal(m.Payload, v)
}

// PositionPayload is sent for each telemetry report
type PositionPayload struct {
	Degrees float64 `json:"degrees"`
}

// AckPayload echoes a command the firmware applied
type AckPayload struct {
	Command string `json:"command"`
	Value   string `json:"value"`
}

// VersionPayload reports the firmware version
type VersionPayload struct {
	Version    string `json:"version"`
	Compatible bool   `json:"compatible"`
}

// TargetPayload for set_target
type TargetPayload struct {
	Degrees float64 `json:"degrees"`
}

// SpeedPayload for set_speed
type SpeedPayload struct {
	DegreesPerSecond float64 `json:"degrees_per_second"`
}

// InversionPayload for set_inversion
type InversionPayload struct {
	Inverted bool `json:"inverted"`
}

// ErrorPayload for error messages
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusPayload is sent on connect and served by GET /status
type StatusPayload struct {
	link.Status
	Connected bool `json:"connected"`
}

func newMessage(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: msgType, Payload: raw})
}
