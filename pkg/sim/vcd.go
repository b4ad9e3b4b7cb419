package sim

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/robotalks/uart.go/pkg/uart"
)

// VCD identifier codes, one per recorded signal.
const (
	vcdIDLine = "!"
	vcdIDBusy = "\""
	vcdIDDone = "#"
)

// WriteVCD emits the recording as a Value Change Dump. One VCD time unit is
// one clock tick; the timescale is derived from the clock frequency.
func (r *Recorder) WriteVCD(w io.Writer) error {
	bw := bufio.NewWriter(w)

	ns := int64(1)
	if r.cfg.ClockHz > 0 {
		if d := int64(1e9) / int64(r.cfg.ClockHz); d > 0 {
			ns = d
		}
	}
	fmt.Fprintf(bw, "$timescale %dns $end\n", ns)
	fmt.Fprintf(bw, "$scope module uart_tx $end\n")
	fmt.Fprintf(bw, "$var wire 1 %s tx $end\n", vcdIDLine)
	fmt.Fprintf(bw, "$var wire 1 %s busy $end\n", vcdIDBusy)
	fmt.Fprintf(bw, "$var wire 1 %s done $end\n", vcdIDDone)
	fmt.Fprintf(bw, "$upscope $end\n")
	fmt.Fprintf(bw, "$enddefinitions $end\n")

	var prev uart.Output
	for n, ch := range r.changes {
		if n == 0 {
			fmt.Fprintf(bw, "$dumpvars\n")
			writeVCDBit(bw, ch.Out.Line, vcdIDLine)
			writeVCDBit(bw, ch.Out.Busy, vcdIDBusy)
			writeVCDBit(bw, ch.Out.Done, vcdIDDone)
			fmt.Fprintf(bw, "$end\n")
			if ch.Tick != 0 {
				// Recording did not start at tick zero; restate at its time.
				fmt.Fprintf(bw, "#%d\n", ch.Tick)
			}
		} else {
			fmt.Fprintf(bw, "#%d\n", ch.Tick)
			if ch.Out.Line != prev.Line {
				writeVCDBit(bw, ch.Out.Line, vcdIDLine)
			}
			if ch.Out.Busy != prev.Busy {
				writeVCDBit(bw, ch.Out.Busy, vcdIDBusy)
			}
			if ch.Out.Done != prev.Done {
				writeVCDBit(bw, ch.Out.Done, vcdIDDone)
			}
		}
		prev = ch.Out
	}
	if r.primed {
		fmt.Fprintf(bw, "#%d\n", r.lastTick+1)
	}
	return bw.Flush()
}

// SaveVCD writes the recording to a file.
func (r *Recorder) SaveVCD(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = r.WriteVCD(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeVCDBit(w io.Writer, level bool, id string) {
	v := "0"
	if level {
		v = "1"
	}
	fmt.Fprintf(w, "%s%s\n", v, id)
}
