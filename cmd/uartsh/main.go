package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/uart.go/pkg/framework"
	"github.com/robotalks/uart.go/pkg/sim"
	"github.com/robotalks/uart.go/pkg/uart"
)

// session holds the shell state between commands.
type session struct {
	cfg     *uart.Config
	pending []uart.Word
	report  *sim.Report
	rec     *sim.Recorder
}

const sessionKey = "$session"

func sessionFrom(c *ishell.Context) *session {
	return c.Get(sessionKey).(*session)
}

var (
	// ConfigCmd shows or changes the engine parameters.
	ConfigCmd = ishell.Cmd{
		Name: "config",
		Help: "[clock|baud|bits VALUE]",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if len(c.Args) == 0 {
				c.Printf("clock %d Hz, baud %d, bits %d => %d ticks/bit, %d ticks/frame\n",
					s.cfg.ClockHz, s.cfg.BaudRate, s.cfg.DataBits,
					s.cfg.TicksPerBit(), s.cfg.FrameTicks())
				return
			}
			if len(c.Args) != 2 {
				c.Err(fmt.Errorf("usage: config [clock|baud|bits VALUE]"))
				return
			}
			val, err := strconv.Atoi(c.Args[1])
			if err != nil {
				c.Err(fmt.Errorf("invalid VALUE: %v", err))
				return
			}
			switch c.Args[0] {
			case "clock":
				s.cfg.ClockHz = val
			case "baud":
				s.cfg.BaudRate = val
			case "bits":
				s.cfg.DataBits = val
			default:
				c.Err(fmt.Errorf("unknown parameter %q", c.Args[0]))
				return
			}
			if err = s.cfg.Validate(); err != nil {
				c.Err(err)
			}
		},
	}

	// SendCmd queues words for the next run.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "WORD(hex)...",
		Func: func(c *ishell.Context) {
			if len(c.Args) == 0 {
				c.Err(fmt.Errorf("WORD required"))
				return
			}
			s := sessionFrom(c)
			for _, arg := range c.Args {
				val, err := strconv.ParseUint(arg, 16, 16)
				if err != nil {
					c.Err(fmt.Errorf("invalid WORD %q: %v", arg, err))
					return
				}
				s.pending = append(s.pending, uart.Word(val))
			}
			c.Printf("%d word(s) queued\n", len(s.pending))
		},
	}

	// RunCmd transmits the queued words and verifies the bitstream.
	RunCmd = ishell.Cmd{
		Name: "run",
		Help: "transmit queued words and verify the bitstream",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if len(s.pending) == 0 {
				c.Err(fmt.Errorf("nothing queued, use send first"))
				return
			}
			if err := runPending(s); err != nil {
				c.Err(err)
				return
			}
			c.Println(*s.report)
			for _, failure := range s.report.Failures {
				c.Println("  " + failure)
			}
		},
	}

	// WaveCmd prints the waveform captured on the last run.
	WaveCmd = ishell.Cmd{
		Name: "wave",
		Help: "print the waveform of the last run",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if s.rec == nil {
				c.Err(fmt.Errorf("no run recorded yet"))
				return
			}
			printWave(c, s.rec.Render())
		},
	}

	// StatusCmd shows the queue and the last report.
	StatusCmd = ishell.Cmd{
		Name: "status",
		Help: "show queued words and the last report",
		Func: func(c *ishell.Context) {
			s := sessionFrom(c)
			if len(s.pending) == 0 {
				c.Println("queue empty")
			} else {
				items := make([]string, len(s.pending))
				for n, w := range s.pending {
					items[n] = fmt.Sprintf("%0*x", (s.cfg.DataBits+3)/4, uint16(w))
				}
				c.Printf("queued: %s\n", strings.Join(items, " "))
			}
			if s.report != nil {
				c.Println(*s.report)
			}
		},
	}

	commands = []*ishell.Cmd{
		&ConfigCmd,
		&SendCmd,
		&RunCmd,
		&WaveCmd,
		&StatusCmd,
	}
)

func runPending(s *session) error {
	tx, err := s.cfg.NewTx()
	if err != nil {
		return err
	}
	dev := sim.NewDevice(tx)
	dev.Enqueue(s.pending...)
	probe, err := sim.NewProbe(dev, *s.cfg)
	if err != nil {
		return err
	}
	probe.Expect(s.pending...)
	rec := sim.NewRecorder(*s.cfg).Attach(dev)

	clock := fx.NewClock()
	clock.MaxTicks = sim.DefaultResetTicks + uint64(len(s.pending)+1)*uint64(s.cfg.FrameTicks()+2)
	clock.Add(dev, probe)
	if err = clock.Run(context.Background()); err != nil {
		return err
	}

	rep := probe.Report()
	s.report, s.rec, s.pending = &rep, rec, nil
	return nil
}

// waveChunk keeps printed waveform rows readable on a terminal.
const waveChunk = 72

func printWave(c *ishell.Context, rows []string) {
	if len(rows) == 0 {
		return
	}
	labels := make([]string, len(rows))
	waves := make([]string, len(rows))
	for n, row := range rows {
		labels[n] = row[:5]
		waves[n] = row[5:]
	}
	for off := 0; off < len(waves[0]); off += waveChunk {
		for n := range waves {
			end := off + waveChunk
			if end > len(waves[n]) {
				end = len(waves[n])
			}
			c.Printf("%s%s\n", labels[n], waves[n][off:end])
		}
		c.Println("")
	}
}

func main() {
	flag.Parse()

	shell := ishell.New()
	shell.Println("uart transmit simulator")
	shell.SetPrompt("uart > ")
	shell.Set(sessionKey, &session{cfg: uart.NewConfig()})
	for _, cmd := range commands {
		shell.AddCmd(cmd)
	}
	shell.Run()
}
