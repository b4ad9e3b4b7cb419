package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDecoder(t *testing.T, cfg Config) *Decoder {
	dec, err := NewDecoder(cfg)
	require.NoError(t, err)
	return dec
}

// feed pushes a sequence of (level, ticks) runs and returns all non-empty
// results in order.
func feed(dec *Decoder, runs ...struct {
	level bool
	ticks int
}) []Result {
	var results []Result
	for _, lvl := range levels(runs...) {
		if res := dec.Feed(lvl); res.Done || res.Err != nil {
			results = append(results, res)
		}
	}
	return results
}

func TestDecodeFrame(t *testing.T) {
	dec := mustDecoder(t, cfg4(8))
	results := feed(dec,
		run(true, 7),  // idle
		run(false, 4), // start
		run(true, 4), run(false, 4), run(true, 4), run(false, 4),
		run(false, 4), run(true, 4), run(false, 4), run(true, 4),
		run(true, 4), // stop
	)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.True(t, results[0].Done)
	require.Equal(t, Word(0xA5), results[0].Word)
	require.False(t, dec.Receiving())
}

func TestDecodeSpuriousStartEdge(t *testing.T) {
	dec := mustDecoder(t, cfg4(8))
	// A one-tick glitch: low at the edge but high again by the midpoint.
	results := feed(dec, run(true, 3), run(false, 1), run(true, 8))
	require.Len(t, results, 1)
	require.Equal(t, ErrStartBit, results[0].Err)
	require.False(t, dec.Receiving())
}

func TestDecodeStopBitViolation(t *testing.T) {
	dec := mustDecoder(t, cfg4(8))
	results := feed(dec,
		run(false, 4), // start
		run(false, 32),
		run(false, 4), // stop window held low: framing violation
	)
	require.Len(t, results, 1)
	require.Equal(t, ErrStopBit, results[0].Err)
}

func TestDecodeResyncsAfterError(t *testing.T) {
	dec := mustDecoder(t, cfg4(8))
	// Broken frame first (stop low), then a clean frame of 0x0F.
	results := feed(dec,
		run(false, 36), run(false, 3), run(true, 5),
		run(false, 4),
		run(true, 16), run(false, 16),
		run(true, 4),
	)
	require.Len(t, results, 2)
	require.Equal(t, ErrStopBit, results[0].Err)
	require.True(t, results[1].Done)
	require.Equal(t, Word(0x0F), results[1].Word)
}

func TestDecodeFollowsTransmitter(t *testing.T) {
	cfg := Config{ClockHz: 170000, BaudRate: 10000, DataBits: 8}
	tx := mustTx(t, cfg)
	dec := mustDecoder(t, cfg)
	for _, w := range []Word{0x00, 0xFF, 0xA5, 0x5A, 0x80, 0x01} {
		var decoded []Word
		for _, out := range transmit(tx, w) {
			res := dec.Feed(out.Line)
			require.NoError(t, res.Err)
			if res.Done {
				decoded = append(decoded, res.Word)
			}
		}
		require.Equal(t, []Word{w}, decoded)
	}
}
