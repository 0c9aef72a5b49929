package config

import (
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/luckyfish-tu/camservo/link"
)

// Config is read from an optional YAML file. Connection values can be overridden by
// environment variables.
type Config struct {
	Connection `yaml:",inline"`

	// Initial settings are sent to the firmware after connecting
	Initial Initial `yaml:"initial"`
}

// Connection describes how to reach the firmware and where to serve the bridge
type Connection struct {
	SerialPort string `env:"CAMSERVO_SERIAL_PORT" yaml:"serial_port"`
	BaudRate   int    `env:"CAMSERVO_BAUD_RATE" yaml:"baud_rate"`
	ListenAddr string `env:"CAMSERVO_LISTEN_ADDR" yaml:"listen_addr"`
	Debug      bool   `env:"CAMSERVO_DEBUG" yaml:"debug"`
}

// Initial settings are optional. Unset fields leave the firmware defaults alone.
type Initial struct {
	SpeedDegPerS *float64 `yaml:"speed"`
	Inverted     *bool    `yaml:"inverted"`
	TargetDeg    *float64 `yaml:"target"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Connection: Connection{
			BaudRate:   link.DefaultBaudRate,
			ListenAddr: ":8080",
		},
	}
}

// Load reads the file at path, if path is not empty, and then applies the environment
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "error reading config file")
		}
		err = yaml.Unmarshal(data, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "error parsing config file %q", path)
		}
	}

	err := env.Parse(&cfg.Connection)
	if err != nil {
		return Config{}, errors.Wrap(err, "error parsing environment")
	}

	return cfg, nil
}

// Validate checks that the configuration can be used to connect
func (c Config) Validate() error {
	if c.SerialPort == "" {
		return errors.New("serial port is required: set CAMSERVO_SERIAL_PORT or serial_port")
	}
	if c.BaudRate <= 0 {
		return errors.Errorf("invalid baud rate %d", c.BaudRate)
	}
	if c.Initial.SpeedDegPerS != nil && *c.Initial.SpeedDegPerS <= 0 {
		return errors.Errorf("initial speed must be positive, got %v", *c.Initial.SpeedDegPerS)
	}
	return nil
}

// LinkConfig returns the settings for link.Open, logging to logger
func (c Config) LinkConfig(logger golog.Logger) link.Config {
	return link.Config{
		SerialPort: c.SerialPort,
		BaudRate:   c.BaudRate,
		Logger:     logger,
	}
}
