package desim

import "time"

// TerminationReason classifies why Run stopped.
type TerminationReason string

const (
	TerminationMaxTimeReached TerminationReason = "max_time_reached"
	TerminationStopCondition  TerminationReason = "stop_condition"
	TerminationNoEvents       TerminationReason = "no_events"
	TerminationError          TerminationReason = "error"
)

// RunSummary is produced by Run and records how it went.
type RunSummary struct {
	// RunID uniquely identifies this run, for correlating it across logs
	// and observer events.
	RunID string

	NumEvents         int
	StartWallTime     time.Time
	EndWallTime       time.Time
	Duration          time.Duration
	FinalSimTime      float64
	TerminationReason TerminationReason

	// Err holds the cause when TerminationReason == TerminationError.
	Err error
	// OffendingEvent, when set, is the event whose dispatch produced Err.
	OffendingEvent *Event

	// PerObjectEventCounts is populated only when profiling is enabled.
	PerObjectEventCounts map[string]int
}
