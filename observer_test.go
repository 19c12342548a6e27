package desim

import (
	"context"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndNotifyObserver(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	var seen []string
	obs := NewFunctionalObserver("watcher", func(ctx context.Context, ev cloudevents.Event) error {
		seen = append(seen, ev.Type())
		return nil
	})
	require.NoError(t, sim.RegisterObserver(obs))
	require.NoError(t, sim.AddObject(NewBase("a")))

	require.Contains(t, seen, EventTypeObjectRegistered)
}

func TestUnregisterObserverStopsDelivery(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	count := 0
	obs := NewFunctionalObserver("watcher", func(ctx context.Context, ev cloudevents.Event) error {
		count++
		return nil
	})
	require.NoError(t, sim.RegisterObserver(obs))
	require.NoError(t, sim.AddObject(NewBase("a")))
	require.NoError(t, sim.UnregisterObserver(obs))
	require.NoError(t, sim.AddObject(NewBase("b")))

	require.Equal(t, 1, count)
}

func TestObserverFilterByEventType(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	var seen []string
	obs := NewFunctionalObserver("watcher", func(ctx context.Context, ev cloudevents.Event) error {
		seen = append(seen, ev.Type())
		return nil
	})
	require.NoError(t, sim.RegisterObserver(obs, EventTypeRunStarted))
	require.NoError(t, sim.AddObject(NewBase("a")))
	require.NoError(t, sim.Initialize())
	_, _ = sim.Run(0)

	require.NotContains(t, seen, EventTypeObjectRegistered)
	require.Contains(t, seen, EventTypeRunStarted)
}

func TestObserverErrorDoesNotAbortNotification(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	obs := NewFunctionalObserver("failing", func(ctx context.Context, ev cloudevents.Event) error {
		return context.Canceled
	})
	require.NoError(t, sim.RegisterObserver(obs))
	require.NoError(t, sim.AddObject(NewBase("a")))
}

func TestGetObserversReportsRegistrations(t *testing.T) {
	sim := NewSimulator(WithLogger(NewNoopLogger()))
	obs := NewFunctionalObserver("watcher", func(ctx context.Context, ev cloudevents.Event) error { return nil })
	require.NoError(t, sim.RegisterObserver(obs))

	infos := sim.GetObservers()
	require.Len(t, infos, 1)
	require.Equal(t, "watcher", infos[0].ID)
}
