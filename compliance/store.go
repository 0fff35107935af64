/*
store.go - Persistence interface for trainings, sessions and personnel

PURPOSE:
  Defines the interface between the engine and its backing store. All
  persistence (file, database or in-memory) is opaque to the engine;
  each pipeline stage reads the full snapshot it needs and writes back
  at the end.

KEY INTERFACE:
  Repository: Employee reads, training/session writes

MUTATION CONTRACT:
  Trainings and sessions are append-mostly:
  - Trainings are created once per catalog entry, never deleted
  - Sessions are appended to a training and move scheduled ->
    completed/cancelled; they are never deleted
  - Attendance records move registered -> completed/absent

CAPACITY INVARIANT:
  Implementations MUST reject any write that would leave a session
  with more attendance records than its MaxParticipants, returning an
  error that unwraps to ErrSessionCapacityExceeded. Rejecting the
  offending write must not corrupt previously persisted state.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: Production SQLite
  - compliance/store/memory.go: In-memory for testing

SEE ALSO:
  - engine.go: Orchestrates pipeline stages over a Repository
*/
package compliance

import "context"

// =============================================================================
// REPOSITORY - Engine persistence boundary
// =============================================================================

// Repository is the persistence boundary of the engine. Employees are
// read-only (owned by an external personnel directory); trainings and
// sessions are written by the import, scheduling and lifecycle stages.
type Repository interface {
	// GetAllEmployees returns the full personnel snapshot.
	GetAllEmployees(ctx context.Context) ([]Employee, error)

	// GetAllTrainings returns all trainings with their sessions and
	// attendance records.
	GetAllTrainings(ctx context.Context) ([]Training, error)

	// CreateTraining persists a new training. Returns the stored record.
	CreateTraining(ctx context.Context, t Training) (Training, error)

	// UpdateTraining replaces a training's mutable state (sessions and
	// their attendance). Returns ErrTrainingNotFound for unknown ids.
	UpdateTraining(ctx context.Context, t Training) (Training, error)

	// CreateSession appends a session to the owning training. Returns
	// ErrTrainingNotFound for unknown ids and an error unwrapping to
	// ErrSessionCapacityExceeded when the roster exceeds capacity.
	CreateSession(ctx context.Context, trainingID TrainingID, s Session) (Session, error)
}

// EmployeeDirectory is the optional extension used by hosts that also
// manage personnel records through the same store (dev/demo setups).
type EmployeeDirectory interface {
	Repository

	// CreateEmployee persists an employee record.
	CreateEmployee(ctx context.Context, e Employee) (Employee, error)
}
