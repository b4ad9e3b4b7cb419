package uart

import "errors"

// Framing violations reported by the decoder. They are consumer-side
// verification failures; the engine itself has no error path.
var (
	ErrStartBit = errors.New("uart: line not low at start bit midpoint")
	ErrStopBit  = errors.New("uart: line not high at stop bit midpoint")
)

// Result reports the outcome of feeding one line sample.
type Result struct {
	// Done indicates a complete word was assembled on this tick.
	Done bool
	Word Word
	// Err reports a framing violation. The decoder has already resynced
	// and is waiting for the next falling edge.
	Err error
}

// Decoder reconstructs words from a serial line, one sample per tick. It
// waits for the falling edge of a start bit, then samples each bit period
// once at its midpoint: start must be low, data bits are collected LSB
// first, stop must be high.
type Decoder struct {
	ticksPerBit int
	dataBits    int

	state decodeState
	count int
	index int
	word  Word
}

type decodeState int

const (
	decodeIdle  decodeState = iota // line high, waiting for a falling edge
	decodeStart                    // inside the start bit
	decodeData                     // collecting data bits
	decodeStop                     // inside the stop bit
)

// NewDecoder creates a decoder matching an engine configuration.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Decoder{ticksPerBit: cfg.TicksPerBit(), dataBits: cfg.DataBits}, nil
}

// Reset discards any partial frame and waits for the next falling edge.
func (d *Decoder) Reset() {
	d.state, d.count, d.index, d.word = decodeIdle, 0, 0, 0
}

// Receiving indicates a frame is partially assembled.
func (d *Decoder) Receiving() bool { return d.state != decodeIdle }

// Feed consumes one line sample.
func (d *Decoder) Feed(line bool) Result {
	if d.state == decodeIdle {
		if line {
			return Result{}
		}
		// Falling edge: this sample is tick zero of the start bit.
		d.state, d.count, d.index, d.word = decodeStart, 0, 0, 0
	}

	mid := d.count == d.ticksPerBit/2
	switch d.state {
	case decodeStart:
		if mid && line {
			d.Reset()
			return Result{Err: ErrStartBit}
		}
		if d.advance() {
			d.state = decodeData
		}
	case decodeData:
		if mid && line {
			d.word |= 1 << uint(d.index)
		}
		if d.advance() {
			if d.index++; d.index == d.dataBits {
				d.state = decodeStop
			}
		}
	case decodeStop:
		if mid && !line {
			d.Reset()
			return Result{Err: ErrStopBit}
		}
		if d.advance() {
			word := d.word
			d.Reset()
			return Result{Done: true, Word: word}
		}
	}
	return Result{}
}

// advance steps the intra-bit counter, reporting when the period expires.
func (d *Decoder) advance() bool {
	if d.count++; d.count == d.ticksPerBit {
		d.count = 0
		return true
	}
	return false
}
