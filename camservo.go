package camservo

import "math"

// Version is the firmware version announced on boot
const Version = "0.1.0"

const (
	// Terminator ends every frame on the command channel
	Terminator = ';'
	// Separator splits a frame's name from its argument
	Separator = ':'
)

// fixedPointScale is the wire scaling for decimal values
const fixedPointScale = 1000

// Encode converts a decimal value to its fixed-point wire representation
func Encode(v float64) int32 {
	return int32(math.Round(v * fixedPointScale))
}

// Decode converts a fixed-point wire value back to a decimal value
func Decode(v int32) float64 {
	return float64(v) / fixedPointScale
}

// Capability is a bit index in the firmware's capability bitmask
type Capability uint

const (
	CapabilityUnknown Capability = iota
	CapabilityLights
	CapabilityCalibrationLaser
	CapabilityCameraMount1Axis
)

func (c Capability) String() string {
	switch c {
	case CapabilityLights:
		return "Lights"
	case CapabilityCalibrationLaser:
		return "CalibrationLaser"
	case CapabilityCameraMount1Axis:
		return "CameraMount1Axis"
	default:
		fallthrough
	case CapabilityUnknown:
		return "Unknown"
	}
}

// Capabilities is the bitmask advertised by the firmware to the topside
type Capabilities uint32

// Set marks the capability as present
func (c *Capabilities) Set(bit Capability) {
	*c |= 1 << bit
}

// Has reports whether the capability was set
func (c Capabilities) Has(bit Capability) bool {
	return c&(1<<bit) != 0
}
