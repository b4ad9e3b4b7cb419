package bridge

import (
	"flag"

	"github.com/robotalks/uart.go/pkg/uart"
)

// Config represents configuration for the bridge.
type Config struct {
	PortName string
}

var defaultConfig = Config{}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.PortName, "port", defaultConfig.PortName, "Physical serial port to forward frames to (e.g. /dev/ttyUSB0), empty to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Enabled indicates a port is configured.
func (c *Config) Enabled() bool {
	return c.PortName != ""
}

// Open opens the configured port.
func (c *Config) Open(cfg uart.Config) (*Port, error) {
	return Open(c.PortName, cfg)
}
