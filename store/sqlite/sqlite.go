/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements compliance.Repository (plus the employee directory
  extension used by dev/demo hosts) using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

KEY TABLES:
  employees:  Personnel snapshot (read-mostly)
  trainings:  Instantiated catalog requirements
  sessions:   Scheduled occurrences, append-only per training
  attendance: Roster records per session

CAPACITY INVARIANT:
  Attendance writes are validated against the owning session's
  max_participants inside the same transaction. An over-capacity write
  is rejected with compliance.ErrSessionCapacityExceeded and rolls
  back without touching previously persisted state.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/compliance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - compliance/store.go: Interface definitions
  - compliance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/compliance-engine/compliance"
)

// Store implements the storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		service TEXT NOT NULL,
		roles_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trainings (
		id TEXT PRIMARY KEY,
		module_id TEXT NOT NULL,
		title TEXT NOT NULL UNIQUE,
		roles_json TEXT NOT NULL,
		duration_hours INTEGER NOT NULL,
		validity_months INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trainings_module
		ON trainings(module_id);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		training_id TEXT NOT NULL REFERENCES trainings(id),
		date TEXT NOT NULL,
		instructor TEXT NOT NULL,
		location TEXT NOT NULL,
		max_participants INTEGER NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_training
		ON sessions(training_id);
	-- Lifecycle advance scans scheduled sessions by date (hot path)
	CREATE INDEX IF NOT EXISTS idx_sessions_status_date
		ON sessions(status, date);

	CREATE TABLE IF NOT EXISTS attendance (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL REFERENCES sessions(id),
		employee_id TEXT NOT NULL,
		status TEXT NOT NULL,
		score INTEGER,
		certification_date TEXT,
		expiration_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_attendance_session
		ON attendance(session_id);
	CREATE INDEX IF NOT EXISTS idx_attendance_employee
		ON attendance(employee_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// CreateEmployee persists an employee record (dev/demo surface).
func (s *Store) CreateEmployee(ctx context.Context, e compliance.Employee) (compliance.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := json.Marshal(e.Roles)
	if err != nil {
		return compliance.Employee{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO employees (id, name, service, roles_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		string(e.ID), e.Name, e.Service, string(roles), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return compliance.Employee{}, fmt.Errorf("insert employee: %w", err)
	}
	return e, nil
}

// GetAllEmployees returns the full personnel snapshot.
func (s *Store) GetAllEmployees(ctx context.Context) ([]compliance.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, service, roles_json FROM employees ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []compliance.Employee
	for rows.Next() {
		var e compliance.Employee
		var rolesJSON string
		if err := rows.Scan(&e.ID, &e.Name, &e.Service, &rolesJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rolesJSON), &e.Roles); err != nil {
			return nil, fmt.Errorf("employee %s roles: %w", e.ID, err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// =============================================================================
// TRAININGS
// =============================================================================

// CreateTraining persists a new training.
func (s *Store) CreateTraining(ctx context.Context, t compliance.Training) (compliance.Training, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roles, err := json.Marshal(t.Roles)
	if err != nil {
		return compliance.Training{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trainings (id, module_id, title, roles_json, duration_hours, validity_months, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(t.ID), string(t.ModuleID), t.Title, string(roles),
		t.DurationHours, t.ValidityMonths, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return compliance.Training{}, fmt.Errorf("insert training: %w", err)
	}
	return t, nil
}

// GetAllTrainings returns all trainings with sessions and attendance.
func (s *Store) GetAllTrainings(ctx context.Context) ([]compliance.Training, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadTrainings(ctx, s.db)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) loadTrainings(ctx context.Context, q querier) ([]compliance.Training, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, module_id, title, roles_json, duration_hours, validity_months
		 FROM trainings ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trainings []compliance.Training
	index := make(map[compliance.TrainingID]int)
	for rows.Next() {
		var t compliance.Training
		var rolesJSON string
		if err := rows.Scan(&t.ID, &t.ModuleID, &t.Title, &rolesJSON,
			&t.DurationHours, &t.ValidityMonths); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(rolesJSON), &t.Roles); err != nil {
			return nil, fmt.Errorf("training %s roles: %w", t.ID, err)
		}
		index[t.ID] = len(trainings)
		trainings = append(trainings, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions, err := s.loadSessions(ctx, q)
	if err != nil {
		return nil, err
	}
	for _, sess := range sessions {
		if i, ok := index[sess.TrainingID]; ok {
			trainings[i].Sessions = append(trainings[i].Sessions, sess)
		}
	}
	return trainings, nil
}

func (s *Store) loadSessions(ctx context.Context, q querier) ([]compliance.Session, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, training_id, date, instructor, location, max_participants, status
		 FROM sessions ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []compliance.Session
	index := make(map[compliance.SessionID]int)
	for rows.Next() {
		var sess compliance.Session
		var date string
		if err := rows.Scan(&sess.ID, &sess.TrainingID, &date, &sess.Instructor,
			&sess.Location, &sess.MaxParticipants, &sess.Status); err != nil {
			return nil, err
		}
		sess.Date, err = time.Parse(time.RFC3339, date)
		if err != nil {
			return nil, fmt.Errorf("session %s date: %w", sess.ID, err)
		}
		index[sess.ID] = len(sessions)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	arows, err := q.QueryContext(ctx,
		`SELECT session_id, employee_id, status, score, certification_date, expiration_date
		 FROM attendance ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer arows.Close()

	for arows.Next() {
		var sessionID compliance.SessionID
		var a compliance.Attendance
		var score sql.NullInt64
		var certified, expires sql.NullString
		if err := arows.Scan(&sessionID, &a.EmployeeID, &a.Status, &score, &certified, &expires); err != nil {
			return nil, err
		}
		if score.Valid {
			v := int(score.Int64)
			a.Score = &v
		}
		if certified.Valid {
			t, err := time.Parse(time.RFC3339, certified.String)
			if err != nil {
				return nil, fmt.Errorf("attendance certification date: %w", err)
			}
			a.CertificationDate = &t
		}
		if expires.Valid {
			t, err := time.Parse(time.RFC3339, expires.String)
			if err != nil {
				return nil, fmt.Errorf("attendance expiration date: %w", err)
			}
			a.ExpirationDate = &t
		}
		if i, ok := index[sessionID]; ok {
			sessions[i].Attendance = append(sessions[i].Attendance, a)
		}
	}
	return sessions, arows.Err()
}

// UpdateTraining replaces a training's sessions and attendance. The
// rewrite happens in one transaction: capacity violations roll back
// without corrupting previously persisted state.
func (s *Store) UpdateTraining(ctx context.Context, t compliance.Training) (compliance.Training, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range t.Sessions {
		if len(sess.Attendance) > sess.MaxParticipants {
			return compliance.Training{}, &compliance.CapacityError{
				SessionID:       sess.ID,
				MaxParticipants: sess.MaxParticipants,
				Registered:      len(sess.Attendance),
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return compliance.Training{}, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE trainings SET title = ?, validity_months = ?, duration_hours = ? WHERE id = ?`,
		t.Title, t.ValidityMonths, t.DurationHours, string(t.ID))
	if err != nil {
		return compliance.Training{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return compliance.Training{}, err
	}
	if affected == 0 {
		return compliance.Training{}, compliance.ErrTrainingNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM attendance WHERE session_id IN (SELECT id FROM sessions WHERE training_id = ?)`,
		string(t.ID)); err != nil {
		return compliance.Training{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sessions WHERE training_id = ?`, string(t.ID)); err != nil {
		return compliance.Training{}, err
	}
	for _, sess := range t.Sessions {
		if err := insertSession(ctx, tx, t.ID, sess); err != nil {
			return compliance.Training{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return compliance.Training{}, err
	}
	return t, nil
}

// =============================================================================
// SESSIONS
// =============================================================================

// CreateSession appends a session to the owning training.
func (s *Store) CreateSession(ctx context.Context, trainingID compliance.TrainingID, sess compliance.Session) (compliance.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(sess.Attendance) > sess.MaxParticipants {
		return compliance.Session{}, &compliance.CapacityError{
			SessionID:       sess.ID,
			MaxParticipants: sess.MaxParticipants,
			Registered:      len(sess.Attendance),
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return compliance.Session{}, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM trainings WHERE id = ?`, string(trainingID)).Scan(&exists); err != nil {
		return compliance.Session{}, err
	}
	if exists == 0 {
		return compliance.Session{}, compliance.ErrTrainingNotFound
	}

	sess.TrainingID = trainingID
	if err := insertSession(ctx, tx, trainingID, sess); err != nil {
		return compliance.Session{}, err
	}
	if err := tx.Commit(); err != nil {
		return compliance.Session{}, err
	}
	return sess, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSession(ctx context.Context, tx execer, trainingID compliance.TrainingID, sess compliance.Session) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, training_id, date, instructor, location, max_participants, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(sess.ID), string(trainingID), sess.Date.Format(time.RFC3339),
		sess.Instructor, sess.Location, sess.MaxParticipants, string(sess.Status),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, a := range sess.Attendance {
		var score any
		if a.Score != nil {
			score = *a.Score
		}
		var certified, expires any
		if a.CertificationDate != nil {
			certified = a.CertificationDate.Format(time.RFC3339)
		}
		if a.ExpirationDate != nil {
			expires = a.ExpirationDate.Format(time.RFC3339)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO attendance (session_id, employee_id, status, score, certification_date, expiration_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			string(sess.ID), string(a.EmployeeID), string(a.Status), score, certified, expires)
		if err != nil {
			return fmt.Errorf("insert attendance: %w", err)
		}
	}
	return nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Dev/demo scenarios only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"attendance", "sessions", "trainings", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
