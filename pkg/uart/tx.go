package uart

import (
	"github.com/golang/glog"
)

// State identifies the phase of the frame in flight.
type State int

// Engine states. Exactly one is active at a time.
const (
	StateIdle State = iota
	StateStart
	StateData
	StateStop
	StateCleanup
)

var stateNames = [...]string{"idle", "start", "data", "stop", "cleanup"}

func (s State) String() string {
	if s >= StateIdle && s <= StateCleanup {
		return stateNames[s]
	}
	return "unknown"
}

// Input carries the signals sampled by the engine on one tick.
type Input struct {
	// Reset synchronously forces the engine back to Idle with the line
	// high. It dominates all other inputs.
	Reset bool
	// Start requests latching Data and beginning a frame. It is sampled
	// only while Idle; asserting it while busy has no effect.
	Start bool
	Data  Word
}

// Output carries the signals driven by the engine on one tick.
type Output struct {
	// Line is the serial output level. High is idle/mark, low is space.
	Line bool
	// Busy is true for the whole frame, from the accepted start request
	// through the cleanup tick.
	Busy bool
	// Done pulses true for exactly one tick when a frame completes. It is
	// not latched: a controller must sample it on that tick.
	Done bool
}

// Tx is the transmit engine. It owns a state register, a bit-period tick
// counter, a data-bit index and a latched copy of the word being sent.
// Advance must be called exactly once per clock tick; ticks must never be
// reordered or coalesced.
type Tx struct {
	cfg         Config
	ticksPerBit int
	mask        Word

	state State
	count int // position within the current bit period
	index int // data bit being shifted out, 0 = LSB
	latch Word
}

// NewTx validates the configuration and creates an engine in Idle with the
// line at its resting high level. Coarse oversampling and unusual widths are
// diagnostics, not errors.
func NewTx(cfg Config) (*Tx, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tpb := cfg.TicksPerBit()
	glog.V(1).Infof("uart tx: clock=%dHz baud=%d bits=%d ticks/bit=%d frame=%d ticks",
		cfg.ClockHz, cfg.BaudRate, cfg.DataBits, tpb, cfg.FrameTicks())
	if tpb < MinOversampling {
		glog.Warningf("uart tx: only %d ticks per bit (clock %dHz, baud %d), timing margin is thin",
			tpb, cfg.ClockHz, cfg.BaudRate)
	}
	if cfg.DataBits < 5 || cfg.DataBits > 9 {
		glog.Warningf("uart tx: unusual data width %d, UARTs commonly use 5-9 bits", cfg.DataBits)
	}
	return &Tx{cfg: cfg, ticksPerBit: tpb, mask: cfg.wordMask()}, nil
}

// Config returns the immutable construction parameters.
func (t *Tx) Config() Config { return t.cfg }

// State returns the current engine state.
func (t *Tx) State() State { return t.state }

// FrameTicks is the total ticks one frame occupies, done pulse included.
func (t *Tx) FrameTicks() int { return t.cfg.FrameTicks() }

// Advance performs one synchronous step: it computes the next state and this
// tick's outputs purely from the current state and inputs, then atomically
// replaces the state. Every output is assigned explicitly in every state;
// there is no implicit hold.
func (t *Tx) Advance(in Input) Output {
	if in.Reset {
		t.state, t.count, t.index, t.latch = StateIdle, 0, 0, 0
		return Output{Line: true}
	}

	if t.state == StateIdle {
		if !in.Start {
			return Output{Line: true}
		}
		// The latch and the Idle->Start transition happen together,
		// synchronously. This tick is the first tick of the start bit.
		t.latch = in.Data & t.mask
		t.state, t.count, t.index = StateStart, 0, 0
	}

	var out Output
	switch t.state {
	case StateStart:
		out = Output{Line: false, Busy: true}
		t.hold(StateData)
	case StateData:
		out = Output{Line: t.latch&(1<<uint(t.index)) != 0, Busy: true}
		if t.count++; t.count == t.ticksPerBit {
			t.count = 0
			if t.index++; t.index == t.cfg.DataBits {
				t.index = 0
				t.state = StateStop
			}
		}
	case StateStop:
		out = Output{Line: true, Busy: true}
		t.hold(StateCleanup)
	case StateCleanup:
		// Transient one-tick state; start requests are not consulted here.
		out = Output{Line: true, Busy: true, Done: true}
		t.state = StateIdle
	}
	return out
}

// hold counts down the current bit period and enters next when it expires.
func (t *Tx) hold(next State) {
	if t.count++; t.count == t.ticksPerBit {
		t.count = 0
		t.state = next
	}
}
