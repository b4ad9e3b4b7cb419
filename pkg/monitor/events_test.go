package monitor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/uart.go/pkg/sim"
)

func TestFrameEventJSON(t *testing.T) {
	payload, err := json.Marshal(frameEvent(sim.FrameEvent{Tick: 44, Word: 0xA5}))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"frame","tick":44,"word":165,"hex":"00a5"}`, string(payload))

	payload, err = json.Marshal(frameEvent(sim.FrameEvent{Tick: 44, Word: 0xA5, Err: errors.New("boom")}))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"frame","tick":44,"word":165,"error":"boom"}`, string(payload))
}

func TestReportEventJSON(t *testing.T) {
	rep := sim.Report{Sent: 4, Verified: 4, Ticks: 172}
	payload, err := json.Marshal(reportEvent(rep))
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"report","tick":172,"sent":4,"verified":4}`, string(payload))
}
