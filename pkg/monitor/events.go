// Package monitor publishes simulation events to external observers over
// MQTT and websocket, encoded as JSON.
package monitor

import (
	"fmt"

	"github.com/robotalks/uart.go/pkg/sim"
)

// Event is the JSON message published for observers.
type Event struct {
	Type string `json:"type"`
	Tick uint64 `json:"tick"`

	// Frame fields.
	Word uint16 `json:"word,omitempty"`
	Hex  string `json:"hex,omitempty"`

	Error string `json:"error,omitempty"`

	// Report fields.
	Sent     int      `json:"sent,omitempty"`
	Verified int      `json:"verified,omitempty"`
	Failures []string `json:"failures,omitempty"`
}

// Event types.
const (
	EventFrame  = "frame"
	EventReport = "report"
)

func frameEvent(ev sim.FrameEvent) Event {
	e := Event{
		Type: EventFrame,
		Tick: ev.Tick,
		Word: uint16(ev.Word),
	}
	if ev.Err != nil {
		e.Error = ev.Err.Error()
	} else {
		e.Hex = fmt.Sprintf("%04x", uint16(ev.Word))
	}
	return e
}

func reportEvent(rep sim.Report) Event {
	return Event{
		Type:     EventReport,
		Tick:     rep.Ticks,
		Sent:     rep.Sent,
		Verified: rep.Verified,
		Failures: rep.Failures,
	}
}
