package desim

import (
	"errors"
	"fmt"
)

// Sentinel errors. Parameterized failures wrap one of these with fmt.Errorf
// so callers can still errors.Is against the taxonomy below.
var (
	// Registration errors
	ErrDuplicateObjectName = errors.New("duplicate object name")
	ErrUnknownReceiver     = errors.New("unknown receiver")
	ErrUnknownObject       = errors.New("unknown object")

	// Scheduling errors
	ErrNegativeDelay         = errors.New("negative delay")
	ErrPastScheduling        = errors.New("receive time precedes current simulation time")
	ErrUndeclaredSentVariant = errors.New("message variant not in sender's declared send-list")

	// Dispatch errors
	ErrNoHandlerForVariant = errors.New("no handler registered for message variant")

	// Lifecycle errors
	ErrNotInitialized = errors.New("simulator not initialized")
	ErrAlreadyRunning = errors.New("simulator is already running")

	// User handler errors wrap a cause raised by handler code.
	ErrUserHandler = errors.New("user handler error")
)

// DuplicateObjectName reports that name is already registered.
func DuplicateObjectName(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicateObjectName, name)
}

// UnknownReceiver reports that name has no registered object.
func UnknownReceiver(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownReceiver, name)
}

// UnknownObject reports that name has no registered object, for
// RemoveObject and similar object-lookup failures.
func UnknownObject(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownObject, name)
}

// UndeclaredSentVariant reports that sender tried to send a variant it never declared.
func UndeclaredSentVariant(sender, variant string) error {
	return fmt.Errorf("%w: sender %q, variant %q", ErrUndeclaredSentVariant, sender, variant)
}

// NoHandlerForVariant reports that receiver has no handler for variant.
func NoHandlerForVariant(receiver, variant string) error {
	return fmt.Errorf("%w: receiver %q, variant %q", ErrNoHandlerForVariant, receiver, variant)
}

// NegativeDelay reports a negative delay passed to SendEvent.
func NegativeDelay(delay float64) error {
	return fmt.Errorf("%w: %v", ErrNegativeDelay, delay)
}

// PastScheduling reports an absolute receive time that precedes now.
func PastScheduling(now, receiveTime float64) error {
	return fmt.Errorf("%w: now=%v receive_time=%v", ErrPastScheduling, now, receiveTime)
}

// UserHandlerError wraps an error raised by a user-supplied handler. Both
// ErrUserHandler and cause are wrapped so callers can errors.Is against
// either the general taxonomy or the specific cause.
func UserHandlerError(cause error) error {
	return fmt.Errorf("%w: %w", ErrUserHandler, cause)
}
