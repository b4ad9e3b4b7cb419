package framework

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClockPhaseOrder(t *testing.T) {
	var trace []int
	clock := NewClock()
	clock.AddTickable(PhRecord, TickFunc(func(tc TickContext) error {
		trace = append(trace, PhRecord)
		require.Equal(t, PhRecord, tc.Phase())
		return nil
	}))
	clock.AddTickable(PhDrive, TickFunc(func(tc TickContext) error {
		trace = append(trace, PhDrive)
		return nil
	}))
	clock.AddTickable(PhSample, TickFunc(func(tc TickContext) error {
		trace = append(trace, PhSample)
		return nil
	}))

	clock.Step(context.Background())
	require.Equal(t, []int{PhDrive, PhSample, PhRecord}, trace)
	require.Equal(t, uint64(1), clock.Tick())
}

func TestClockTickNumbering(t *testing.T) {
	var ticks []uint64
	clock := NewClock()
	clock.MaxTicks = 5
	clock.AddTickable(PhDrive, TickFunc(func(tc TickContext) error {
		ticks = append(ticks, tc.Tick())
		return nil
	}))
	require.NoError(t, clock.Run(context.Background()))
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, ticks)
}

func TestClockHalt(t *testing.T) {
	clock := NewClock()
	clock.AddTickable(PhSample, TickFunc(func(tc TickContext) error {
		if tc.Tick() == 2 {
			tc.Halt()
		}
		return nil
	}))
	require.NoError(t, clock.Run(context.Background()))
	// The halting tick completes; nothing runs after it.
	require.Equal(t, uint64(3), clock.Tick())
	require.True(t, clock.Halted())
}

func TestClockContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := NewClock()
	clock.AddTickable(PhDrive, TickFunc(func(tc TickContext) error {
		if tc.Tick() == 9 {
			cancel()
		}
		return nil
	}))
	require.Equal(t, context.Canceled, clock.Run(ctx))
	require.Equal(t, uint64(10), clock.Tick())
}

func TestAggregatedError(t *testing.T) {
	var errs AggregatedError
	require.NoError(t, errs.Aggregate())
	errs.Add(nil)
	require.NoError(t, errs.Aggregate())
	errs.Add(context.DeadlineExceeded, nil)
	err := errs.Aggregate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "deadline")
}
