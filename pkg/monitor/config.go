package monitor

import "flag"

// Config represents configuration for the monitor.
type Config struct {
	MQTTURL string
	WSAddr  string
}

var defaultConfig = Config{}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL (e.g. mqtt://localhost:1883/uart/), empty to disable.")
	flag.StringVar(&defaultConfig.WSAddr, "ws", defaultConfig.WSAddr, "Websocket listen address (e.g. :8090), empty to disable.")
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

// Enabled indicates at least one sink is configured.
func (c *Config) Enabled() bool {
	return c.MQTTURL != "" || c.WSAddr != ""
}

// NewMonitor creates a monitor from config.
func (c *Config) NewMonitor() (*Monitor, error) {
	return NewMonitor(c)
}
