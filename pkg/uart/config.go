package uart

import (
	"flag"
	"fmt"
)

// Word holds one data word. Widths up to 16 bits are supported.
type Word uint16

// MaxDataBits is the widest word the engine can shift out.
const MaxDataBits = 16

// MinOversampling is the ticks-per-bit ratio below which timing is
// considered too coarse for a consumer sampling at bit midpoints.
// Running below it is allowed but logged at construction.
const MinOversampling = 16

// Config defines the fixed parameters of a transmit engine.
type Config struct {
	ClockHz  int // frequency (Hz) of the driving clock
	BaudRate int // serial bit rate (bits/sec)
	DataBits int // data bits per frame, sent LSB first
}

var defaultConfig = Config{
	ClockHz:  25000000,
	BaudRate: 115200,
	DataBits: 8,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.ClockHz, "clock", defaultConfig.ClockHz, "Clock frequency (Hz) driving the engine.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate (bits/sec).")
	flag.IntVar(&defaultConfig.DataBits, "bits", defaultConfig.DataBits, "Data bits per frame.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks for construction-time contract violations. A configuration
// whose derived bit period is under one tick has no legal operation.
func (c *Config) Validate() error {
	if c.ClockHz <= 0 {
		return fmt.Errorf("uart: invalid clock frequency %d", c.ClockHz)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("uart: invalid baud rate %d", c.BaudRate)
	}
	if c.DataBits <= 0 || c.DataBits > MaxDataBits {
		return fmt.Errorf("uart: invalid data width %d, must be 1..%d", c.DataBits, MaxDataBits)
	}
	if c.TicksPerBit() < 1 {
		return fmt.Errorf("uart: bit period under one tick (clock %dHz, baud %d)", c.ClockHz, c.BaudRate)
	}
	return nil
}

// TicksPerBit derives the number of clock ticks one UART bit occupies.
// The division truncates.
func (c *Config) TicksPerBit() int {
	if c.BaudRate <= 0 {
		return 0
	}
	return c.ClockHz / c.BaudRate
}

// FrameTicks is the total number of ticks one frame occupies: start bit,
// data bits, stop bit, plus the one-tick done pulse.
func (c *Config) FrameTicks() int {
	return c.TicksPerBit()*(1+c.DataBits+1) + 1
}

// wordMask keeps latched data within the configured width.
func (c *Config) wordMask() Word {
	return Word(1)<<uint(c.DataBits) - 1
}

// NewTx creates a transmit engine using the config.
func (c *Config) NewTx() (*Tx, error) {
	return NewTx(*c)
}

// NewDecoder creates a line decoder using the config.
func (c *Config) NewDecoder() (*Decoder, error) {
	return NewDecoder(*c)
}
