package sim

import (
	"errors"
	"fmt"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// doneGrace is the slack, in ticks, the watchdog grants beyond the nominal
// frame duration before declaring the done pulse missed.
const doneGrace = 2

// Probe validates the bitstream produced by a device. It feeds every tick's
// line level into a decoder, matches recovered words against the expected
// transmit order, verifies frame durations, and treats a missed done pulse
// as a timeout failure. It halts the clock when the run completes.
type Probe struct {
	FrameCaster

	dev  *Device
	dec  *uart.Decoder
	mask uart.Word

	expected []uart.Word
	next     int

	frameTicks uint64
	prevBusy   bool
	inFrame    bool
	frameStart uint64

	haveWord bool
	word     uart.Word

	verified int
	failures []string
	finished bool
	ticks    uint64
}

// Report summarizes one verification run.
type Report struct {
	Sent     int
	Verified int
	Failures []string
	Ticks    uint64
}

// OK indicates every frame was verified and nothing failed.
func (r Report) OK() bool {
	return r.Verified == r.Sent && len(r.Failures) == 0
}

// String implements fmt.Stringer.
func (r Report) String() string {
	status := "PASS"
	if !r.OK() {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: %d/%d frames verified, %d failures, %d ticks",
		status, r.Verified, r.Sent, len(r.Failures), r.Ticks)
}

// NewProbe creates a probe observing dev, configured to match its engine.
func NewProbe(dev *Device, cfg uart.Config) (*Probe, error) {
	dec, err := uart.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	return &Probe{
		dev:        dev,
		dec:        dec,
		mask:       uart.Word(1)<<uint(cfg.DataBits) - 1,
		frameTicks: uint64(cfg.FrameTicks()),
	}, nil
}

// Expect appends words the probe should see on the line, in order.
func (p *Probe) Expect(words ...uart.Word) {
	p.expected = append(p.expected, words...)
}

// Complete indicates the whole run finished (all frames seen, engine idle).
func (p *Probe) Complete() bool { return p.finished }

// Report returns the verification summary so far.
func (p *Probe) Report() Report {
	return Report{
		Sent:     len(p.expected),
		Verified: p.verified,
		Failures: p.failures,
		Ticks:    p.ticks,
	}
}

// AddToClock implements ClockAdder.
func (p *Probe) AddToClock(c *fx.Clock) {
	c.AddTickable(fx.PhSample, fx.TickFunc(p.Sample))
}

// Sample observes one tick of the device outputs.
func (p *Probe) Sample(tc fx.TickContext) error {
	tick := tc.Tick()
	out := p.dev.Output()
	p.ticks = tick + 1

	if tick < p.dev.ResetTicks() {
		p.dec.Reset()
		p.prevBusy = false
		return nil
	}

	if res := p.dec.Feed(out.Line); res.Err != nil {
		p.fail(tick, res.Err.Error())
	} else if res.Done {
		p.haveWord, p.word = true, res.Word
	}

	if out.Busy && !p.prevBusy {
		p.inFrame, p.frameStart = true, tick
	}
	switch {
	case out.Done:
		p.finishFrame(tick)
	case p.inFrame && tick-p.frameStart >= p.frameTicks+doneGrace:
		// The consumer contract: a missed done pulse is a timeout.
		p.fail(tick, fmt.Sprintf("frame %d: done pulse missed after %d ticks", p.next, tick-p.frameStart))
		p.inFrame = false
		tc.Halt()
	}
	p.prevBusy = out.Busy

	if p.next == len(p.expected) && !out.Busy && !p.finished {
		p.finished = true
		tc.Halt()
	}
	return nil
}

func (p *Probe) finishFrame(tick uint64) {
	p.inFrame = false
	ev := FrameEvent{Tick: tick, Word: p.word}
	switch {
	case !p.haveWord:
		ev.Err = errors.New("done pulse without a decoded frame")
	case p.next >= len(p.expected):
		ev.Err = fmt.Errorf("unexpected frame %#x", p.word)
	case p.word != p.expected[p.next]&p.mask:
		ev.Err = fmt.Errorf("frame %d: decoded %#x, want %#x", p.next, p.word, p.expected[p.next]&p.mask)
	}
	if dur := tick - p.frameStart + 1; ev.Err == nil && dur != p.frameTicks {
		ev.Err = fmt.Errorf("frame %d: lasted %d ticks, want %d", p.next, dur, p.frameTicks)
	}
	if p.next < len(p.expected) {
		p.next++
	}
	if ev.Err != nil {
		p.fail(tick, ev.Err.Error())
	} else {
		p.verified++
	}
	p.haveWord = false
	p.cast(ev)
}

func (p *Probe) fail(tick uint64, msg string) {
	p.failures = append(p.failures, fmt.Sprintf("tick %d: %s", tick, msg))
}
