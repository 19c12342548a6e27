package desim

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Observer is notified of simulator lifecycle events. Observers are
// strictly read-only collaborators — visualization, checkpointing, and
// external logging all subscribe here instead of reaching into the core.
type Observer interface {
	OnEvent(ctx context.Context, event cloudevents.Event) error
	ObserverID() string
}

// Subject is satisfied by Simulator. Event types are namespaced under
// com.desim.*.
type Subject interface {
	RegisterObserver(observer Observer, eventTypes ...string) error
	UnregisterObserver(observer Observer) error
	NotifyObservers(ctx context.Context, event cloudevents.Event) error
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer for debugging/monitoring.
type ObserverInfo struct {
	ID           string
	EventTypes   []string
	RegisteredAt time.Time
}

// Lifecycle event types emitted by Simulator.
const (
	EventTypeObjectRegistered = "com.desim.object.registered"
	EventTypeObjectRemoved    = "com.desim.object.removed"
	EventTypeRunStarted       = "com.desim.run.started"
	EventTypeRunStopped       = "com.desim.run.stopped"
	EventTypeDispatchError    = "com.desim.dispatch.error"
)

type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool // empty means "all types"
	registeredAt time.Time
}

// RegisterObserver adds observer, optionally filtered to eventTypes (all
// types if none given).
func (s *Simulator) RegisterObserver(observer Observer, eventTypes ...string) error {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	if s.obsRegistry == nil {
		s.obsRegistry = make(map[string]*observerRegistration)
	}
	filter := make(map[string]bool, len(eventTypes))
	for _, t := range eventTypes {
		filter[t] = true
	}
	s.obsRegistry[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   filter,
		registeredAt: time.Now(),
	}
	return nil
}

// UnregisterObserver removes observer. Idempotent.
func (s *Simulator) UnregisterObserver(observer Observer) error {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	delete(s.obsRegistry, observer.ObserverID())
	return nil
}

// NotifyObservers delivers event to every registered observer whose
// filter matches (or has no filter). Observer errors are logged, not
// propagated — a slow or failing external collaborator must never abort
// a run.
func (s *Simulator) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, reg := range s.obsRegistry {
		if len(reg.eventTypes) > 0 && !reg.eventTypes[event.Type()] {
			continue
		}
		if err := reg.observer.OnEvent(ctx, event); err != nil {
			s.logger.Warn("observer returned error", "observer", reg.observer.ObserverID(), "error", err)
		}
	}
	return nil
}

// GetObservers returns info about currently registered observers.
func (s *Simulator) GetObservers() []ObserverInfo {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	out := make([]ObserverInfo, 0, len(s.obsRegistry))
	for _, reg := range s.obsRegistry {
		types := make([]string, 0, len(reg.eventTypes))
		for t := range reg.eventTypes {
			types = append(types, t)
		}
		out = append(out, ObserverInfo{ID: reg.observer.ObserverID(), EventTypes: types, RegisteredAt: reg.registeredAt})
	}
	return out
}

// emitLifecycle builds and delivers a lifecycle CloudEvent. It never
// returns an error to the caller: a failing observer must not interrupt
// the run loop.
func (s *Simulator) emitLifecycle(eventType string, data map[string]any) {
	s.obsMu.RLock()
	hasObservers := len(s.obsRegistry) > 0
	s.obsMu.RUnlock()
	if !hasObservers {
		return
	}

	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource("github.com/desim-go/desim")
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	_ = s.NotifyObservers(context.Background(), event)
}

func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// FunctionalObserver adapts a plain function to the Observer interface,
// for quick ad-hoc subscriptions without declaring a struct.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver builds a FunctionalObserver identified by id.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) *FunctionalObserver {
	return &FunctionalObserver{id: id, handler: handler}
}

func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

func (f *FunctionalObserver) ObserverID() string { return f.id }
