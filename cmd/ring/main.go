// Command ring runs N nodes passing a token around a cycle: a model
// whose frontier at any one time never spans more than one receiver,
// but whose global ordering still depends on the engine serializing
// distinct receivers' events by time.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/desim-go/desim"
)

const tokenVariant = "token"

type tokenMessage struct{ Hops int }

func (tokenMessage) Variant() string { return tokenVariant }

type node struct {
	*desim.Base
	next     string
	maxHops  int
	received int
}

func newNode(name, next string, maxHops int) *node {
	n := &node{next: next, maxHops: maxHops}
	n.Base = desim.NewBase(name,
		desim.WithSentVariants(tokenVariant),
		desim.WithHandler(tokenVariant, n.onToken),
	)
	return n
}

func (n *node) onToken(ev desim.Event) error {
	n.received++
	msg := ev.Message.(tokenMessage)
	if msg.Hops >= n.maxHops {
		return nil
	}
	return n.SendEvent(1, n.next, tokenMessage{Hops: msg.Hops + 1})
}

func main() {
	size := flag.Int("size", 5, "number of nodes in the ring")
	maxHops := flag.Int("hops", 50, "total hops before the token is dropped")
	maxTime := flag.Float64("max-time", 1000, "simulation horizon")
	flag.Parse()

	logger := desim.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	sim := desim.NewSimulator(desim.WithLogger(logger), desim.WithProfiling(true))

	names := make([]string, *size)
	for i := range names {
		names[i] = ringNodeName(i)
	}

	nodes := make([]*node, *size)
	for i, name := range names {
		next := names[(i+1)%len(names)]
		nodes[i] = newNode(name, next, *maxHops)
	}
	for _, n := range nodes {
		if err := sim.AddObject(n); err != nil {
			logger.Error("registration failed", "error", err)
			os.Exit(1)
		}
	}

	if err := nodes[0].SendEvent(1, nodes[0].next, tokenMessage{Hops: 1}); err != nil {
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
	logger.Info("run complete", "reason", summary.TerminationReason, "events", summary.NumEvents)
}

func ringNodeName(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	if i < len(letters) {
		return "node-" + string(letters[i])
	}
	return "node-" + string(rune('0'+i))
}
