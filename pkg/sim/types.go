// Package sim wires transmit engines, probes and waveform recorders onto a
// framework clock, applying the consumer side of the engine contract.
package sim

import (
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// Sample is one tick's view of the transmitter outputs.
type Sample struct {
	Tick uint64
	Out  uart.Output
}

// LineListener observes the serial line tick by tick.
type LineListener interface {
	LineSample(fx.TickContext, Sample)
}

// LineListenerFunc is the func form of LineListener.
type LineListenerFunc func(fx.TickContext, Sample)

// LineSample implements LineListener.
func (f LineListenerFunc) LineSample(tc fx.TickContext, s Sample) {
	f(tc, s)
}

// LineCaster provides a subscriber and casts samples to listeners.
type LineCaster struct {
	listeners []LineListener
}

// SubscribeLine implements LineSubscriber.
func (c *LineCaster) SubscribeLine(ln LineListener) {
	c.listeners = append(c.listeners, ln)
}

func (c *LineCaster) cast(tc fx.TickContext, s Sample) {
	for _, ln := range c.listeners {
		ln.LineSample(tc, s)
	}
}

// LineSubscriber subscribes line sample notifications.
type LineSubscriber interface {
	SubscribeLine(LineListener)
}

// FrameEvent describes one completed (or failed) frame observed on the line.
type FrameEvent struct {
	// Tick is the tick the engine pulsed done.
	Tick uint64
	// Word is the word recovered from the line.
	Word uart.Word
	// Err is the framing or verification failure, nil for a good frame.
	Err error
}

// FrameListener observes frame completions.
type FrameListener interface {
	FrameDone(FrameEvent)
}

// FrameDoneFunc is the func form of FrameListener.
type FrameDoneFunc func(FrameEvent)

// FrameDone implements FrameListener.
func (f FrameDoneFunc) FrameDone(ev FrameEvent) {
	f(ev)
}

// FrameCaster provides a subscriber and casts frame events to listeners.
type FrameCaster struct {
	listeners []FrameListener
}

// SubscribeFrames implements FrameSubscriber.
func (c *FrameCaster) SubscribeFrames(ln FrameListener) {
	c.listeners = append(c.listeners, ln)
}

func (c *FrameCaster) cast(ev FrameEvent) {
	for _, ln := range c.listeners {
		ln.FrameDone(ev)
	}
}

// FrameSubscriber subscribes frame completion notifications.
type FrameSubscriber interface {
	SubscribeFrames(FrameListener)
}
