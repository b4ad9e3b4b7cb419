package sim

import (
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// DefaultResetTicks is how long a device holds reset asserted after
// power-up before releasing the engine.
const DefaultResetTicks = 4

// Device wraps a transmit engine as a clock-driven component. It applies the
// controller side of the engine contract: reset is held for a number of
// ticks, and a start request is asserted only while the engine reported not
// busy on the previous tick. Words are fed strictly in order; the engine
// itself never queues.
type Device struct {
	LineCaster

	tx         *uart.Tx
	resetTicks uint64
	queue      []uart.Word
	out        uart.Output
}

// NewDevice creates a device around an engine.
func NewDevice(tx *uart.Tx) *Device {
	return &Device{tx: tx, resetTicks: DefaultResetTicks}
}

// WithResetTicks overrides how long reset is held at power-up.
func (d *Device) WithResetTicks(n uint64) *Device {
	d.resetTicks = n
	return d
}

// ResetTicks is the number of power-up ticks with reset asserted.
func (d *Device) ResetTicks() uint64 { return d.resetTicks }

// Tx exposes the wrapped engine.
func (d *Device) Tx() *uart.Tx { return d.tx }

// Enqueue appends words to be transmitted.
func (d *Device) Enqueue(words ...uart.Word) {
	d.queue = append(d.queue, words...)
}

// Pending is the number of words not yet handed to the engine.
func (d *Device) Pending() int { return len(d.queue) }

// Output is the engine output driven on the current tick.
func (d *Device) Output() uart.Output { return d.out }

// AddToClock implements ClockAdder.
func (d *Device) AddToClock(c *fx.Clock) {
	c.AddTickable(fx.PhDrive, fx.TickFunc(d.Drive))
}

// Drive advances the engine by one tick.
func (d *Device) Drive(tc fx.TickContext) error {
	var in uart.Input
	switch {
	case tc.Tick() < d.resetTicks:
		in.Reset = true
	case !d.out.Busy && len(d.queue) > 0:
		in.Start = true
		in.Data = d.queue[0]
		d.queue = d.queue[1:]
	}
	d.out = d.tx.Advance(in)
	d.cast(tc, Sample{Tick: tc.Tick(), Out: d.out})
	return nil
}
