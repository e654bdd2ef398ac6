package standarderrors

import "errors"

var (
	// ErrInvalidState is returned when the state machine's own invariant has
	// been broken, for example a shutdown that observes an unexpected state.
	ErrInvalidState = errors.New("invalid system state")

	// ErrShutdownWithUnresolvedFaults is returned by Monitor.Shutdown when
	// the system is shut down while still in the fault state. The shutdown
	// itself completes; callers decide how to react to the violation.
	ErrShutdownWithUnresolvedFaults = errors.New("system shutdown with unresolved faults")
)
