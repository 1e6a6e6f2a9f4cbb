package rehearsal

import "errors"

var (
	// ErrTimeout is returned when a phase is not reached within its budget.
	ErrTimeout = errors.New("rehearsal timed out")
	// ErrVerification is returned when a completed run breaks an expectation.
	ErrVerification = errors.New("rehearsal verification failed")
)
