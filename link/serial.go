package link

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.bug.st/serial"

	"github.com/luckyfish-tu/camservo/sim"
)

const (
	// SerialPortSim selects the in-process simulator instead of a serial device
	SerialPortSim = "sim"

	DefaultBaudRate = 115200
)

// ErrNoUSBSerial is returned when no serial ports are present
var ErrNoUSBSerial = errors.New("no USB serial ports found")

// Config selects the port a Link talks to
type Config struct {
	SerialPort string
	BaudRate   int
	Logger     golog.Logger
}

// GetSerialPorts lists the serial ports on this machine
func GetSerialPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "error listing serial ports")
	}
	if len(ports) == 0 {
		return nil, ErrNoUSBSerial
	}
	return ports, nil
}

// Open connects to the firmware on cfg.SerialPort
func Open(cfg Config) (*Link, error) {
	if cfg.Logger == nil {
		cfg.Logger = golog.NewLogger("link")
	}

	if cfg.SerialPort == SerialPortSim {
		cfg.Logger.Infow("using simulated firmware")
		return New(sim.New(sim.Config{Logger: cfg.Logger.Named("sim")}), cfg.Logger), nil
	}

	if cfg.SerialPort == "" {
		return nil, errors.New("serial port is required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}

	port, err := serial.Open(cfg.SerialPort, &serial.Mode{BaudRate: cfg.BaudRate})
	if err != nil {
		return nil, errors.Wrapf(err, "error opening serial port %q", cfg.SerialPort)
	}

	cfg.Logger.Infow("opened serial port", "port", cfg.SerialPort, "baud_rate", cfg.BaudRate)

	return New(port, cfg.Logger), nil
}
