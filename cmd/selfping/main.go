// Command selfping runs a single object that repeatedly schedules an
// event to itself, the simplest possible model exercising the engine
// (the ring with one node).
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/desim-go/desim"
)

const pingVariant = "ping"

type pingMessage struct{ Count int }

func (pingMessage) Variant() string { return pingVariant }

type pinger struct {
	*desim.Base
	maxPings int
	seen     int
}

func newPinger(maxPings int) *pinger {
	p := &pinger{maxPings: maxPings}
	p.Base = desim.NewBase("pinger",
		desim.WithSentVariants(pingVariant),
		desim.WithHandler(pingVariant, p.onPing),
	)
	return p
}

func (p *pinger) onPing(ev desim.Event) error {
	p.seen++
	msg := ev.Message.(pingMessage)
	if msg.Count >= p.maxPings {
		return nil
	}
	return p.SendEvent(1, p.Name(), pingMessage{Count: msg.Count + 1})
}

func main() {
	maxPings := flag.Int("pings", 10, "number of self-pings to schedule")
	maxTime := flag.Float64("max-time", 1000, "simulation horizon")
	flag.Parse()

	logger := desim.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	sim := desim.NewSimulator(desim.WithLogger(logger), desim.WithProfiling(true))

	p := newPinger(*maxPings)
	if err := sim.AddObject(p); err != nil {
		logger.Error("registration failed", "error", err)
		os.Exit(1)
	}
	if err := p.SendEvent(1, p.Name(), pingMessage{Count: 1}); err != nil {
		logger.Error("seed event failed", "error", err)
		os.Exit(1)
	}

	if err := sim.Initialize(); err != nil {
		logger.Error("initialize failed", "error", err)
		os.Exit(1)
	}

	summary, err := sim.Run(*maxTime)
	if err != nil {
		logger.Error("run ended in error", "error", err, "reason", summary.TerminationReason)
		os.Exit(1)
	}
	logger.Info("run complete", "reason", summary.TerminationReason, "events", summary.NumEvents, "pings_seen", p.seen)
}
