package desim

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/desim-go/desim/config"
)

// StopCondition is a user predicate consulted before each frontier is
// dispatched. Returning true halts the run cleanly: simulated time does
// not advance into the unreached frontier.
type StopCondition func() bool

// SimulatorStatus tracks where a Simulator is in its lifecycle:
// Idle/Initialized/Running/Stopped.
type SimulatorStatus string

const (
	StatusIdle        SimulatorStatus = "idle"
	StatusInitialized SimulatorStatus = "initialized"
	StatusRunning     SimulatorStatus = "running"
	StatusStopped     SimulatorStatus = "stopped"
)

// Simulator owns the global event list, the registered objects, current
// simulation time, and the run loop. It is the sole entry point through
// which handlers schedule events and through which a run is driven.
type Simulator struct {
	// mu guards the fields read by external, possibly concurrent,
	// observability collaborators (httpstatus) between runs. The run
	// loop itself is strictly single-threaded.
	mu          sync.RWMutex
	currentTime float64
	status      SimulatorStatus
	lastSummary *RunSummary

	heap        *EventHeap
	objects     map[string]Object
	objectOrder []string
	nextSeq     uint64

	stopCondition StopCondition
	requestStop   atomic.Bool

	logger             Logger
	profiling          bool
	stopOnError        bool
	defaultMaxTime     float64
	haveDefaultMaxTime bool

	obsMu       sync.RWMutex
	obsRegistry map[string]*observerRegistration
}

// SimulatorOption configures a Simulator at construction time, following
// the package's functional-options idiom (see also BaseOption).
type SimulatorOption func(*Simulator)

// WithLogger overrides the default slog-backed Logger.
func WithLogger(l Logger) SimulatorOption {
	return func(s *Simulator) { s.logger = l }
}

// WithStopCondition installs a StopCondition at construction time,
// equivalent to calling SetStopCondition afterward.
func WithStopCondition(sc StopCondition) SimulatorOption {
	return func(s *Simulator) { s.stopCondition = sc }
}

// WithProfiling enables per-object event counts in RunSummary.
func WithProfiling(enabled bool) SimulatorOption {
	return func(s *Simulator) { s.profiling = enabled }
}

// WithStopOnError overrides the default (true) dispatch-error behavior:
// when false, a dispatch error is logged and the offending frontier is
// skipped instead of terminating the run.
func WithStopOnError(enabled bool) SimulatorOption {
	return func(s *Simulator) { s.stopOnError = enabled }
}

// WithConfig applies a config.SimulatorConfig loaded from TOML/YAML,
// wiring EnableProfiling and StopOnError and recording MaxTime as the
// horizon RunWithDefaults uses when no explicit value is given.
func WithConfig(cfg config.SimulatorConfig) SimulatorOption {
	return func(s *Simulator) {
		s.profiling = cfg.EnableProfiling
		s.stopOnError = cfg.StopOnError
		s.defaultMaxTime = cfg.MaxTime
		s.haveDefaultMaxTime = true
	}
}

// NewSimulator constructs an idle Simulator ready for AddObject calls.
func NewSimulator(opts ...SimulatorOption) *Simulator {
	s := &Simulator{
		status:      StatusIdle,
		objects:     make(map[string]Object),
		logger:      NewSlogLogger(nil),
		stopOnError: true,
		obsRegistry: make(map[string]*observerRegistration),
	}
	s.heap = NewEventHeap(s.priorityOf)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) priorityOf(receiver string) int {
	if obj, ok := s.objects[receiver]; ok {
		return obj.PriorityKey()
	}
	return 0
}

// AddObject registers obj. Errors on duplicate name (I4).
func (s *Simulator) AddObject(obj Object) error {
	name := obj.Name()
	if _, exists := s.objects[name]; exists {
		return DuplicateObjectName(name)
	}
	obj.bind(s)
	s.objects[name] = obj
	s.objectOrder = append(s.objectOrder, name)
	s.logger.Debug("object registered", "name", name, "priority", obj.PriorityKey())
	s.emitLifecycle(EventTypeObjectRegistered, map[string]any{"name": name})
	return nil
}

// AddObjects registers each object in order, stopping at the first error.
func (s *Simulator) AddObjects(objs ...Object) error {
	for _, obj := range objs {
		if err := s.AddObject(obj); err != nil {
			return err
		}
	}
	return nil
}

// RemoveObject unregisters name. Errors if unknown.
func (s *Simulator) RemoveObject(name string) error {
	if _, exists := s.objects[name]; !exists {
		return UnknownObject(name)
	}
	delete(s.objects, name)
	for i, n := range s.objectOrder {
		if n == name {
			s.objectOrder = append(s.objectOrder[:i], s.objectOrder[i+1:]...)
			break
		}
	}
	s.emitLifecycle(EventTypeObjectRemoved, map[string]any{"name": name})
	return nil
}

// CurrentTime returns the simulator's current simulation time.
func (s *Simulator) CurrentTime() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTime
}

// Status returns the simulator's current lifecycle status.
func (s *Simulator) Status() SimulatorStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// SetStopCondition installs (or replaces) the stop predicate.
func (s *Simulator) SetStopCondition(sc StopCondition) {
	s.stopCondition = sc
}

// RequestStop cooperatively asks a running (or about-to-run) Simulator to
// halt at the next frontier boundary. Safe to call from another goroutine.
func (s *Simulator) RequestStop() {
	s.requestStop.Store(true)
}

// HeapLen returns the number of pending events, for external status
// collaborators (httpstatus).
func (s *Simulator) HeapLen() int {
	return s.heap.Len()
}

// LatestSummary returns the RunSummary of the most recently completed run,
// if any. A run in progress has no summary until Run returns.
func (s *Simulator) LatestSummary() (RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastSummary == nil {
		return RunSummary{}, false
	}
	return *s.lastSummary, true
}

// Initialize calls PreRunInit on each registered object in registration
// order. It records no wall time; RunSummary.StartWallTime is taken when
// Run begins. Idempotent while already initialized.
func (s *Simulator) Initialize() error {
	switch s.Status() {
	case StatusInitialized:
		return nil
	case StatusRunning:
		return ErrAlreadyRunning
	}
	for _, name := range s.objectOrder {
		if err := s.objects[name].PreRunInit(); err != nil {
			return UserHandlerError(err)
		}
	}
	s.setStatus(StatusInitialized)
	return nil
}

// Reset discards the heap and all object registrations and restores
// current_time and the sequence counter to their defaults. The stop
// condition, logger, and observers are preserved so a Simulator instance
// can be reused for a new model run by run.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.currentTime = 0
	s.lastSummary = nil
	s.mu.Unlock()

	s.heap = NewEventHeap(s.priorityOf)
	s.objects = make(map[string]Object)
	s.objectOrder = nil
	s.nextSeq = 0
	s.requestStop.Store(false)
	s.setStatus(StatusIdle)
}

func (s *Simulator) setStatus(st SimulatorStatus) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

// scheduleFrom validates and stages one event, assigning it the next
// sequence number. It is the sole path by which an Event enters the heap.
func (s *Simulator) scheduleFrom(sender string, receiveTime float64, receiver string, message EventMessage, senderSentVariants map[string]bool) error {
	variant := message.Variant()
	if !senderSentVariants[variant] {
		return UndeclaredSentVariant(sender, variant)
	}
	if _, ok := s.objects[receiver]; !ok {
		return UnknownReceiver(receiver)
	}
	if receiveTime < s.CurrentTime() {
		return PastScheduling(s.CurrentTime(), receiveTime)
	}
	seq := s.nextSeq
	s.nextSeq++
	s.heap.Push(Event{
		CreationTime:   s.CurrentTime(),
		ReceiveTime:    receiveTime,
		Sender:         sender,
		Receiver:       receiver,
		Message:        message,
		SequenceNumber: seq,
	})
	return nil
}

// RunWithDefaults calls Run using the max_time carried by a WithConfig
// option. It errors if the Simulator was never constructed with one.
func (s *Simulator) RunWithDefaults() (RunSummary, error) {
	if !s.haveDefaultMaxTime {
		return RunSummary{}, fmt.Errorf("desim: RunWithDefaults requires a Simulator built with WithConfig")
	}
	return s.Run(s.defaultMaxTime)
}

// Run drains the heap, dispatching tied frontiers in global order, until
// the heap empties, the next event exceeds maxTime, or the stop condition
// (or a cooperative RequestStop) fires.
func (s *Simulator) Run(maxTime float64) (RunSummary, error) {
	switch s.Status() {
	case StatusIdle:
		return RunSummary{}, ErrNotInitialized
	case StatusRunning:
		return RunSummary{}, ErrAlreadyRunning
	case StatusStopped:
		return RunSummary{}, ErrNotInitialized
	}

	s.setStatus(StatusRunning)
	runID := uuid.NewString()
	start := time.Now()
	s.emitLifecycle(EventTypeRunStarted, map[string]any{"run_id": runID})
	s.logger.Info("run started", "run_id", runID, "max_time", maxTime)

	var (
		numEvents int
		reason    TerminationReason
		runErr    error
		offending *Event
		counts    map[string]int
	)
	if s.profiling {
		counts = make(map[string]int)
	}

dispatchLoop:
	for {
		t, ok := s.heap.PeekTime()
		switch {
		case !ok:
			reason = TerminationNoEvents
			break dispatchLoop
		case t > maxTime:
			reason = TerminationMaxTimeReached
			break dispatchLoop
		case s.stopCondition != nil && s.stopCondition():
			reason = TerminationStopCondition
			break dispatchLoop
		case s.requestStop.Load():
			reason = TerminationStopCondition
			break dispatchLoop
		}

		s.mu.Lock()
		s.currentTime = t
		s.mu.Unlock()

		frontier := s.heap.PopFrontier()
		receiver := frontier[0].Receiver
		obj, ok := s.objects[receiver]
		if !ok {
			runErr = UnknownReceiver(receiver)
			offending = &frontier[0]
			reason = TerminationError
			break dispatchLoop
		}

		if err := dispatch(obj, frontier); err != nil {
			s.logger.Error("dispatch error", "receiver", receiver, "error", err)
			s.emitLifecycle(EventTypeDispatchError, map[string]any{"receiver": receiver, "error": err.Error()})
			if s.stopOnError {
				runErr = err
				offending = &frontier[0]
				reason = TerminationError
				break dispatchLoop
			}
			numEvents += len(frontier)
			continue
		}

		numEvents += len(frontier)
		if s.profiling {
			counts[receiver] += len(frontier)
		}
	}

	for _, name := range s.objectOrder {
		if err := s.objects[name].PostRunTeardown(); err != nil {
			s.logger.Error("post-run teardown error", "object", name, "error", err)
		}
	}

	end := time.Now()
	summary := RunSummary{
		RunID:                runID,
		NumEvents:            numEvents,
		StartWallTime:        start,
		EndWallTime:          end,
		Duration:             end.Sub(start),
		FinalSimTime:         s.CurrentTime(),
		TerminationReason:    reason,
		Err:                  runErr,
		OffendingEvent:       offending,
		PerObjectEventCounts: counts,
	}

	s.mu.Lock()
	s.lastSummary = &summary
	s.mu.Unlock()
	s.setStatus(StatusStopped)
	s.logger.Info("run stopped", "run_id", runID, "reason", reason, "num_events", numEvents)
	s.emitLifecycle(EventTypeRunStopped, map[string]any{"run_id": runID, "reason": string(reason)})

	return summary, runErr
}

// SnapshotHeap returns the pending events as an ordered, serializable
// projection. See snapshot.go.
func (s *Simulator) SnapshotHeap() []EventRecord {
	events := s.heap.Snapshot()
	out := make([]EventRecord, len(events))
	for i, e := range events {
		out[i] = eventToRecord(e)
	}
	return out
}

// RestoreHeap rebuilds the heap from records, preserving sequence numbers
// verbatim unless the envelope indicates they were never assigned in the
// first place.
func (s *Simulator) RestoreHeap(records []EventRecord, seqPreserved bool) error {
	s.heap = NewEventHeap(s.priorityOf)
	var maxSeq uint64
	for i, rec := range records {
		ev, err := recordToEvent(rec)
		if err != nil {
			return err
		}
		if !seqPreserved {
			ev.SequenceNumber = uint64(i)
		}
		if ev.SequenceNumber > maxSeq {
			maxSeq = ev.SequenceNumber
		}
		s.heap.Push(ev)
	}
	if seqPreserved {
		s.nextSeq = maxSeq + 1
	} else {
		s.nextSeq = uint64(len(records))
	}
	return nil
}
