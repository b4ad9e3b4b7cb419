package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/uart.go/pkg/bridge"
	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/monitor"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

var (
	payload  = "a5,5a,00,ff"
	vcdPath  string
	interval time.Duration
)

func init() {
	uart.SetupFlags()
	monitor.SetupFlags()
	bridge.SetupFlags()
	flag.StringVar(&payload, "data", payload, "Comma separated hex words to transmit.")
	flag.StringVar(&vcdPath, "vcd", vcdPath, "Write the waveform as VCD to this file.")
	flag.DurationVar(&interval, "interval", interval, "Real-time pacing per tick, 0 runs unpaced.")
}

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	cfg := uart.NewConfig()
	tx, err := cfg.NewTx()
	if err != nil {
		glog.Error(err)
		return 2
	}

	words, err := parseWords(payload)
	if err != nil {
		glog.Error(err)
		return 2
	}
	if len(words) == 0 {
		glog.Error("no data words to transmit")
		return 2
	}

	dev := sim.NewDevice(tx)
	dev.Enqueue(words...)
	probe, err := sim.NewProbe(dev, *cfg)
	if err != nil {
		glog.Error(err)
		return 2
	}
	probe.Expect(words...)
	rec := sim.NewRecorder(*cfg).Attach(dev)

	clock := fx.NewClock()
	clock.Interval = interval
	// Bound the run in case the probe never completes.
	clock.MaxTicks = sim.DefaultResetTicks + uint64(len(words)+1)*uint64(cfg.FrameTicks()+2)
	clock.Add(dev, probe)

	var mon *monitor.Monitor
	if mconf := monitor.Default(); mconf.Enabled() {
		if mon, err = mconf.NewMonitor(); err != nil {
			glog.Error(err)
			return 2
		}
		defer mon.Close()
		mon.Subscribe(probe)
		clock.AddRunnable(mon.Runnables()...)
	}
	if bconf := bridge.Default(); bconf.Enabled() {
		port, err := bconf.Open(*cfg)
		if err != nil {
			glog.Error(err)
			return 2
		}
		defer port.Close()
		port.Subscribe(probe)
	}

	runner := fx.NewRunner().HandleSignals()
	if err = clock.Run(runner.Context); err != nil && err != context.Canceled {
		glog.Error(err)
		return 2
	}

	rep := probe.Report()
	if mon != nil {
		mon.RunReport(rep)
	}
	if vcdPath != "" {
		if err = rec.SaveVCD(vcdPath); err != nil {
			glog.Errorf("save waveform: %v", err)
		} else {
			glog.Infof("waveform saved to %s", vcdPath)
		}
	}
	for _, failure := range rep.Failures {
		glog.Errorf("%s", failure)
	}
	fmt.Println(rep)
	if !rep.OK() {
		return 1
	}
	return 0
}

func parseWords(s string) ([]uart.Word, error) {
	var words []uart.Word
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		val, err := strconv.ParseUint(item, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("bad data word %q: %v", item, err)
		}
		words = append(words, uart.Word(val))
	}
	return words, nil
}
