/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Outer layers (api, store) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Catalog/lookup errors - A referenced training or catalog module
     cannot be resolved. Recovered locally: the affected unit is
     skipped and the run continues.
  2. Invariant violations - e.g. a session accumulating more
     attendance records than its capacity. Fatal to the single
     operation that caused them; previously persisted state stays
     intact.
  3. Degenerate input - zero employees/requirements/trainings never
     error: every aggregate returns a well-defined neutral value.

USAGE:
  if errors.Is(err, compliance.ErrSessionCapacityExceeded) {
      // reject the write, keep the batch going
  }

SEE ALSO:
  - scheduler.go: Skips trainings on lookup errors
  - store.go: Repository implementations surface these errors
*/
package compliance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrUnknownCategory is returned when a catalog value is outside the
	// closed category enumeration.
	ErrUnknownCategory = errors.New("unknown requirement category")

	// ErrRequirementNotFound is returned when a training references a
	// catalog module that cannot be resolved.
	ErrRequirementNotFound = errors.New("requirement not found")

	// ErrTrainingNotFound is returned when a referenced training doesn't exist.
	ErrTrainingNotFound = errors.New("training not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrSessionNotFound is returned when a referenced session doesn't exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCapacityExceeded is returned when a write would push a
	// session's roster past its maximum participants.
	ErrSessionCapacityExceeded = errors.New("session capacity exceeded")

	// ErrInvalidRequirement is returned when a catalog entry is malformed
	// (empty title, non-positive capacity).
	ErrInvalidRequirement = errors.New("invalid requirement")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// CapacityError provides details about a roster capacity violation.
type CapacityError struct {
	SessionID       SessionID
	MaxParticipants int
	Registered      int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("session %s is full: %d/%d participants",
		e.SessionID, e.Registered, e.MaxParticipants)
}

func (e *CapacityError) Unwrap() error {
	return ErrSessionCapacityExceeded
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrRequirementNotFound) ||
		errors.Is(err, ErrTrainingNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsClientError returns true if the error is due to invalid input
// rather than an internal failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrSessionCapacityExceeded) ||
		errors.Is(err, ErrUnknownCategory) ||
		errors.Is(err, ErrInvalidRequirement)
}
