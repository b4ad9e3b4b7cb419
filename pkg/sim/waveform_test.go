package sim

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/uart"
)

func recordRun(t *testing.T, words ...uart.Word) *Recorder {
	cfg := testConfig()
	tx, err := uart.NewTx(cfg)
	require.NoError(t, err)
	dev := NewDevice(tx)
	dev.Enqueue(words...)
	probe, err := NewProbe(dev, cfg)
	require.NoError(t, err)
	probe.Expect(words...)
	rec := NewRecorder(cfg).Attach(dev)

	clock := fx.NewClock()
	clock.MaxTicks = 10000
	clock.Add(dev, probe)
	require.NoError(t, clock.Run(context.Background()))
	require.True(t, probe.Report().OK())
	return rec
}

func TestRecorderCapturesChanges(t *testing.T) {
	rec := recordRun(t, 0xA5)

	changes := rec.Changes()
	require.NotEmpty(t, changes)
	// Recording starts at tick zero with the line at its reset level.
	require.Equal(t, uint64(0), changes[0].Tick)
	require.Equal(t, uart.Output{Line: true}, changes[0].Out)
	// First line activity is the start bit right after the reset hold.
	require.Equal(t, uint64(DefaultResetTicks), changes[1].Tick)
	require.Equal(t, uart.Output{Line: false, Busy: true}, changes[1].Out)

	// Every change differs from its predecessor.
	for i := 1; i < len(changes); i++ {
		require.NotEqual(t, changes[i-1].Out, changes[i].Out, "change %d", i)
		require.True(t, changes[i].Tick > changes[i-1].Tick)
	}
}

func TestRecorderRender(t *testing.T) {
	rec := recordRun(t, 0xA5)
	rows := rec.Render()
	require.Len(t, rows, 3)

	ticks := int(rec.Ticks())
	for _, row := range rows {
		require.Len(t, row, len("tx   ")+ticks)
	}

	// tx row: reset hold high, then the 0xA5 frame held 4 ticks per bit.
	wave := strings.TrimPrefix(rows[0], "tx   ")
	require.True(t, strings.HasPrefix(wave,
		"----"+ // reset hold
			"____"+ // start
			"----____----____"+ // bits 0..3: 1,0,1,0
			"____----____----"+ // bits 4..7: 0,1,0,1
			"----"), // stop
		"wave %q", wave)
}

func TestWriteVCD(t *testing.T) {
	rec := recordRun(t, 0xA5, 0x01)

	var buf bytes.Buffer
	require.NoError(t, rec.WriteVCD(&buf))
	out := buf.String()

	require.Contains(t, out, "$timescale 2500000ns $end")
	require.Contains(t, out, "$var wire 1 ! tx $end")
	require.Contains(t, out, "$var wire 1 \" busy $end")
	require.Contains(t, out, "$var wire 1 # done $end")
	require.Contains(t, out, "$dumpvars\n1!\n0\"\n0#\n$end")
	// Start bit of the first frame.
	require.Contains(t, out, "#4\n0!\n1\"")
	// The dump is closed with a final timestamp.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.True(t, strings.HasPrefix(lines[len(lines)-1], "#"))
}

func TestRecorderEmpty(t *testing.T) {
	rec := NewRecorder(testConfig())
	require.Nil(t, rec.Render())
	require.Equal(t, uint64(0), rec.Ticks())
	var buf bytes.Buffer
	require.NoError(t, rec.WriteVCD(&buf))
	require.Contains(t, buf.String(), "$enddefinitions")
}
