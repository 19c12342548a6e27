// Command stopcounter runs a free-running counter object and halts the
// simulation via StopCondition rather than letting it exhaust max_time
// (the stop condition is evaluated before the next time advance, never
// mid-frontier).
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/desim-go/desim"
)

const tickVariant = "tick"

type tickMessage struct{}

func (tickMessage) Variant() string { return tickVariant }

type counter struct {
	*desim.Base
	ticks int
}

func newCounter() *counter {
	c := &counter{}
	c.Base = desim.NewBase("counter",
		desim.WithSentVariants(tickVariant),
		desim.WithHandler(tickVariant, c.onTick),
	)
	return c
}

func (c *counter) onTick(ev desim.Event) error {
	c.ticks++
	return c.SendEvent(1, c.Name(), tickMessage{})
}

func main() {
	stopAt := flag.Int("stop-at", 25, "halt once this many ticks have been observed")
	maxTime := flag.Float64("max-time", 1e9, "simulation horizon (effectively unbounded without the stop condition)")
	flag.Parse()

	logger := desim.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	sim := desim.NewSimulator(desim.WithLogger(logger))

	c := newCounter()
	sim.SetStopCondition(func() bool { return c.ticks >= *stopAt })

	if err := sim.AddObject(c); err != nil {
		logger.Error("registration failed", "error", err)
		os.Exit(1)
	}
	if err := c.SendEvent(1, c.Name(), tickMessage{}); err != nil {
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
	logger.Info("run complete", "reason", summary.TerminationReason, "ticks_observed", c.ticks, "final_sim_time", summary.FinalSimTime)
}
