// Package bridge forwards frames completed in simulation to a physical
// serial port, so a simulated transmitter can drive real hardware loopbacks.
package bridge

import (
	"fmt"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

// Port writes each verified frame's word to a serial port opened with a mode
// mirroring the simulated configuration. It implements sim.FrameListener.
type Port struct {
	name string
	port serial.Port
}

// Open opens the named port. Physical UARTs carry at most 8 data bits per
// frame; wider simulated words cannot be bridged.
func Open(name string, cfg uart.Config) (*Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DataBits > 8 {
		return nil, fmt.Errorf("bridge: cannot map %d data bits onto a physical port", cfg.DataBits)
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("bridge: open %s: %v", name, err)
	}
	glog.Infof("bridge: %s opened at %d baud, %d data bits", name, cfg.BaudRate, cfg.DataBits)
	return &Port{name: name, port: port}, nil
}

// Subscribe is a helper to subscribe frame events.
func (p *Port) Subscribe(sub sim.FrameSubscriber) *Port {
	sub.SubscribeFrames(p)
	return p
}

// FrameDone implements sim.FrameListener. Failed frames are not forwarded.
func (p *Port) FrameDone(ev sim.FrameEvent) {
	if ev.Err != nil {
		return
	}
	if _, err := p.port.Write([]byte{byte(ev.Word)}); err != nil {
		glog.Errorf("bridge: write %s: %v", p.name, err)
	}
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}
