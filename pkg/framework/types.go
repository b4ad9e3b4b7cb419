package framework

import (
	"context"
)

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
type Runnable interface {
	Run(context.Context) error
}

// Tickable is a component advanced by the clock, exactly once per tick.
type Tickable interface {
	Tick(TickContext) error
}

// TickFunc defines the func form of Tickable.
type TickFunc func(TickContext) error

// Tick implements Tickable.
func (f TickFunc) Tick(tc TickContext) error {
	return f(tc)
}

// TickContext provides the context of the current tick.
type TickContext interface {
	// Context retrieves context.Context.
	Context() context.Context
	// Tick is the zero-based number of the current tick.
	Tick() uint64
	// Phase gets the phase currently executing.
	Phase() int

	ClockControl
}

// ClockControl exposes access to the driving clock.
type ClockControl interface {
	// Halt stops the clock once the current tick completes. Safe to call
	// from within a tick.
	Halt()
}

// PhaseLevels is the total number of phases within one tick.
const PhaseLevels int = 4

// Predefined phases. Components are advanced in phase order within a tick,
// so samplers always observe the outputs driven on the same tick.
const (
	// PhDrive updates engines and other signal sources.
	PhDrive int = 0
	// PhSample observes signals driven this tick.
	PhSample int = 1
	// PhRecord captures waveforms and publishes events.
	PhRecord int = 2
	// PhIdle runs after everything else.
	PhIdle int = PhaseLevels - 1
)

// ClockAdder provides specific logic to add components to a clock.
type ClockAdder interface {
	AddToClock(*Clock)
}
