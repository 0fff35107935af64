// Package store provides Repository implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	employees []compliance.Employee
	trainings []compliance.Training
}

func NewMemory() *Memory {
	return &Memory{}
}

// CreateEmployee adds an employee record (dev/demo only; production
// reads come from the external personnel directory).
func (m *Memory) CreateEmployee(_ context.Context, e compliance.Employee) (compliance.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees = append(m.employees, e)
	return e, nil
}

func (m *Memory) GetAllEmployees(_ context.Context) ([]compliance.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]compliance.Employee, len(m.employees))
	copy(result, m.employees)
	return result, nil
}

func (m *Memory) GetAllTrainings(_ context.Context) ([]compliance.Training, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]compliance.Training, 0, len(m.trainings))
	for _, t := range m.trainings {
		result = append(result, cloneTraining(t))
	}
	return result, nil
}

func (m *Memory) CreateTraining(_ context.Context, t compliance.Training) (compliance.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trainings = append(m.trainings, cloneTraining(t))
	return t, nil
}

func (m *Memory) UpdateTraining(_ context.Context, t compliance.Training) (compliance.Training, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.trainings {
		if m.trainings[i].ID != t.ID {
			continue
		}
		for _, s := range t.Sessions {
			if len(s.Attendance) > s.MaxParticipants {
				return compliance.Training{}, &compliance.CapacityError{
					SessionID:       s.ID,
					MaxParticipants: s.MaxParticipants,
					Registered:      len(s.Attendance),
				}
			}
		}
		m.trainings[i] = cloneTraining(t)
		return t, nil
	}
	return compliance.Training{}, compliance.ErrTrainingNotFound
}

func (m *Memory) CreateSession(_ context.Context, trainingID compliance.TrainingID, s compliance.Session) (compliance.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(s.Attendance) > s.MaxParticipants {
		return compliance.Session{}, &compliance.CapacityError{
			SessionID:       s.ID,
			MaxParticipants: s.MaxParticipants,
			Registered:      len(s.Attendance),
		}
	}

	for i := range m.trainings {
		if m.trainings[i].ID != trainingID {
			continue
		}
		s.TrainingID = trainingID
		m.trainings[i].Sessions = append(m.trainings[i].Sessions, cloneSession(s))
		return s, nil
	}
	return compliance.Session{}, compliance.ErrTrainingNotFound
}

// cloneTraining deep-copies sessions and attendance so callers never
// alias stored state.
func cloneTraining(t compliance.Training) compliance.Training {
	out := t
	out.Roles = append([]compliance.Role(nil), t.Roles...)
	out.Sessions = make([]compliance.Session, 0, len(t.Sessions))
	for _, s := range t.Sessions {
		out.Sessions = append(out.Sessions, cloneSession(s))
	}
	return out
}

func cloneSession(s compliance.Session) compliance.Session {
	out := s
	out.Attendance = make([]compliance.Attendance, len(s.Attendance))
	copy(out.Attendance, s.Attendance)
	return out
}
