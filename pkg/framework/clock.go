package framework

import (
	"context"
	"log"
	"time"

	"github.com/golang/glog"
)

// Clock drives Tickables with a strict one-tick-per-iteration sequence.
// Within a tick, components run in phase order; across ticks, nothing is
// reordered or coalesced. Timing-accurate components rely on that.
type Clock struct {
	// Interval enables real-time pacing of ticks. Zero runs unpaced.
	Interval time.Duration
	// MaxTicks bounds a run. Zero means unbounded.
	MaxTicks uint64

	phases  [PhaseLevels][]Tickable
	runners []Runnable

	tick   uint64
	halted bool
}

type tickIteration struct {
	clock *Clock
	ctx   context.Context
	phase int
}

// NewClock creates a Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Add adds ClockAdders.
func (c *Clock) Add(adders ...ClockAdder) *Clock {
	for _, adder := range adders {
		adder.AddToClock(c)
	}
	return c
}

// AddTickable registers components at the specified phase.
func (c *Clock) AddTickable(phase int, ts ...Tickable) *Clock {
	c.phases[phase] = append(c.phases[phase], ts...)
	for _, t := range ts {
		if runner, ok := t.(Runnable); ok {
			c.runners = append(c.runners, runner)
		}
	}
	return c
}

// AddRunnable adds Runnable implementations spawned for the whole run.
func (c *Clock) AddRunnable(runnables ...Runnable) *Clock {
	c.runners = append(c.runners, runnables...)
	return c
}

// Tick is the number of ticks executed so far.
func (c *Clock) Tick() uint64 {
	return c.tick
}

// Halt implements ClockControl.
func (c *Clock) Halt() {
	c.halted = true
}

// Halted indicates the clock was asked to stop.
func (c *Clock) Halted() bool {
	return c.halted
}

// Step executes exactly one tick. It is the primitive used by harnesses
// that sequence ticks themselves.
func (c *Clock) Step(ctx context.Context) {
	iter := &tickIteration{clock: c, ctx: ctx}
	for i := 0; i < PhaseLevels; i++ {
		iter.phase = i
		for _, t := range c.phases[i] {
			if err := t.Tick(iter); err != nil {
				glog.Errorf("tick %d: %v", c.tick, err)
			}
		}
	}
	c.tick++
}

// Run implements Runnable. It ticks until halted, MaxTicks is reached, or
// the context is canceled.
func (c *Clock) Run(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)
	runner := NewRunnerWith(subCtx)
	runner.Go(c.runners...)
	defer runner.Wait()
	defer cancel()

	var pace <-chan time.Time
	if c.Interval > 0 {
		pace = time.Tick(c.Interval)
	}
	for !c.halted {
		if c.MaxTicks > 0 && c.tick >= c.MaxTicks {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if pace != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-pace:
			}
		}
		c.Step(ctx)
	}
	return nil
}

// RunOrFail is intended to be used in main to simply run the clock.
func (c *Clock) RunOrFail() {
	if err := c.Run(context.TODO()); err != nil {
		log.Fatalln(err)
	}
}

func (t *tickIteration) Context() context.Context {
	return t.ctx
}

func (t *tickIteration) Tick() uint64 {
	return t.clock.tick
}

func (t *tickIteration) Phase() int {
	return t.phase
}

func (t *tickIteration) Halt() {
	t.clock.Halt()
}
