package uart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"typical", Config{ClockHz: 25000000, BaudRate: 115200, DataBits: 8}, true},
		{"one tick per bit", Config{ClockHz: 115200, BaudRate: 115200, DataBits: 8}, true},
		{"narrow word", Config{ClockHz: 1000, BaudRate: 10, DataBits: 1}, true},
		{"wide word", Config{ClockHz: 1000, BaudRate: 10, DataBits: 16}, true},
		{"zero clock", Config{BaudRate: 115200, DataBits: 8}, false},
		{"negative clock", Config{ClockHz: -1, BaudRate: 115200, DataBits: 8}, false},
		{"zero baud", Config{ClockHz: 25000000, DataBits: 8}, false},
		{"zero width", Config{ClockHz: 25000000, BaudRate: 115200}, false},
		{"too wide", Config{ClockHz: 25000000, BaudRate: 115200, DataBits: 17}, false},
		{"sub-tick bit period", Config{ClockHz: 9600, BaudRate: 115200, DataBits: 8}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.ok {
				require.NoError(t, err)
				_, err = NewTx(tc.cfg)
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				_, err = NewTx(tc.cfg)
				require.Error(t, err)
				_, err = NewDecoder(tc.cfg)
				require.Error(t, err)
			}
		})
	}
}

func TestTicksPerBitTruncates(t *testing.T) {
	testCases := []struct {
		clock, baud int
		expect      int
	}{
		{25000000, 115200, 217},
		{10000000, 115200, 86},
		{400, 100, 4},
		{399, 100, 3},
		{100, 100, 1},
		{99, 100, 0},
	}
	for _, tc := range testCases {
		cfg := Config{ClockHz: tc.clock, BaudRate: tc.baud, DataBits: 8}
		require.Equal(t, tc.expect, cfg.TicksPerBit(), "clock=%d baud=%d", tc.clock, tc.baud)
	}
}

func TestWordMask(t *testing.T) {
	testCases := []struct {
		bits int
		mask Word
	}{
		{5, 0x001F},
		{8, 0x00FF},
		{9, 0x01FF},
		{16, 0xFFFF},
	}
	for _, tc := range testCases {
		cfg := Config{DataBits: tc.bits}
		require.Equal(t, tc.mask, cfg.wordMask(), "bits=%d", tc.bits)
	}
}
