package sim

import (
	"strings"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

// Change is one value change on the recorded signals.
type Change struct {
	Tick uint64
	Out  uart.Output
}

// Recorder captures value changes of the engine outputs. It subscribes to a
// device's line samples and keeps only ticks where a signal changed, which
// is enough to reconstruct the full waveform.
type Recorder struct {
	cfg uart.Config

	changes  []Change
	last     uart.Output
	primed   bool
	lastTick uint64
}

// NewRecorder creates a recorder for engines built from cfg.
func NewRecorder(cfg uart.Config) *Recorder {
	return &Recorder{cfg: cfg}
}

// Attach subscribes the recorder to a device.
func (r *Recorder) Attach(sub LineSubscriber) *Recorder {
	sub.SubscribeLine(r)
	return r
}

// LineSample implements LineListener.
func (r *Recorder) LineSample(tc fx.TickContext, s Sample) {
	r.lastTick = s.Tick
	if !r.primed || s.Out != r.last {
		r.changes = append(r.changes, Change{Tick: s.Tick, Out: s.Out})
		r.last, r.primed = s.Out, true
	}
}

// Changes returns the captured value changes in tick order.
func (r *Recorder) Changes() []Change { return r.changes }

// Ticks is the number of ticks covered by the recording.
func (r *Recorder) Ticks() uint64 {
	if !r.primed {
		return 0
	}
	return r.lastTick + 1
}

var renderSignals = []struct {
	label string
	get   func(uart.Output) bool
}{
	{"tx  ", func(o uart.Output) bool { return o.Line }},
	{"busy", func(o uart.Output) bool { return o.Busy }},
	{"done", func(o uart.Output) bool { return o.Done }},
}

// Render reconstructs the waveform as ASCII rows, one per signal, with one
// character per tick: '-' for high, '_' for low.
func (r *Recorder) Render() []string {
	if !r.primed {
		return nil
	}
	rows := make([]string, len(renderSignals))
	for n, sig := range renderSignals {
		var b strings.Builder
		b.WriteString(sig.label)
		b.WriteString(" ")
		var cur uart.Output
		idx := 0
		for tick := uint64(0); tick <= r.lastTick; tick++ {
			if idx < len(r.changes) && r.changes[idx].Tick == tick {
				cur = r.changes[idx].Out
				idx++
			}
			if sig.get(cur) {
				b.WriteString("-")
			} else {
				b.WriteString("_")
			}
		}
		rows[n] = b.String()
	}
	return rows
}
