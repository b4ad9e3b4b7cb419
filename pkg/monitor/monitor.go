package monitor

import (
	"encoding/json"

	"github.com/golang/glog"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
)

// Monitor fans simulation events out to the configured sinks. It implements
// sim.FrameListener so it can subscribe directly to a probe.
type Monitor struct {
	queue *Queue
	ws    *WSServer
}

// NewMonitor creates the monitor with the sinks enabled by config.
func NewMonitor(conf *Config) (*Monitor, error) {
	m := &Monitor{}
	if conf.MQTTURL != "" {
		q, err := NewQueueFromURL(conf.MQTTURL)
		if err != nil {
			return nil, err
		}
		if err = q.Connect(); err != nil {
			return nil, err
		}
		m.queue = q
	}
	if conf.WSAddr != "" {
		m.ws = NewWSServer(conf.WSAddr)
	}
	return m, nil
}

// Runnables returns background runners the monitor needs.
func (m *Monitor) Runnables() []fx.Runnable {
	if m.ws == nil {
		return nil
	}
	return []fx.Runnable{m.ws}
}

// Subscribe is a helper to subscribe frame events.
func (m *Monitor) Subscribe(sub sim.FrameSubscriber) *Monitor {
	sub.SubscribeFrames(m)
	return m
}

// FrameDone implements sim.FrameListener.
func (m *Monitor) FrameDone(ev sim.FrameEvent) {
	m.publish("frame", frameEvent(ev))
}

// RunReport publishes the final verification summary.
func (m *Monitor) RunReport(rep sim.Report) {
	m.publish("report", reportEvent(rep))
}

// Close implements io.Closer.
func (m *Monitor) Close() error {
	if m.queue != nil {
		return m.queue.Close()
	}
	return nil
}

func (m *Monitor) publish(topic string, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		glog.Errorf("encode %s event: %v", topic, err)
		return
	}
	if m.queue != nil {
		if err := m.queue.Pub(topic, payload); err != nil {
			glog.Warningf("publish %s: %v", topic, err)
		}
	}
	if m.ws != nil {
		m.ws.Broadcast(payload)
	}
}
