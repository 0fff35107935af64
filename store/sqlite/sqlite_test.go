package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/compliance-engine/compliance"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleTraining() compliance.Training {
	return compliance.Training{
		ID:             "t-fire",
		ModuleID:       "fire-safety",
		Title:          "Fire Safety",
		Roles:          []compliance.Role{"EMPLOYEE", "SUPERVISOR"},
		DurationHours:  7,
		ValidityMonths: 12,
	}
}

func TestEmployeeRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := compliance.Employee{
		ID:      "emp-001",
		Name:    "Marie Dubois",
		Service: "Operations",
		Roles:   []compliance.Role{"EMPLOYEE", "SUPERVISOR"},
	}
	_, err := store.CreateEmployee(ctx, in)
	require.NoError(t, err)

	all, err := store.GetAllEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, in.ID, all[0].ID)
	assert.Equal(t, in.Name, all[0].Name)
	assert.Equal(t, in.Service, all[0].Service)
	assert.Equal(t, in.Roles, all[0].Roles)
}

func TestTrainingRoundTripWithSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateTraining(ctx, sampleTraining())
	require.NoError(t, err)

	date := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	certified := date
	expires := certified.AddDate(0, 12, 0)
	score := 92
	session := compliance.Session{
		ID:              "s-1",
		Date:            date,
		Instructor:      "J. Moreau",
		Location:        "Training Center",
		MaxParticipants: 10,
		Status:          compliance.SessionCompleted,
		Attendance: []compliance.Attendance{
			{
				EmployeeID:        "emp-001",
				Status:            compliance.AttendanceCompleted,
				Score:             &score,
				CertificationDate: &certified,
				ExpirationDate:    &expires,
			},
			{EmployeeID: "emp-002", Status: compliance.AttendanceAbsent},
		},
	}
	_, err = store.CreateSession(ctx, "t-fire", session)
	require.NoError(t, err)

	trainings, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, trainings, 1)

	got := trainings[0]
	assert.Equal(t, compliance.TrainingID("t-fire"), got.ID)
	assert.Equal(t, compliance.RequirementID("fire-safety"), got.ModuleID)
	assert.Equal(t, 12, got.ValidityMonths)
	require.Len(t, got.Sessions, 1)

	s := got.Sessions[0]
	assert.True(t, s.Date.Equal(date))
	assert.Equal(t, compliance.SessionCompleted, s.Status)
	require.Len(t, s.Attendance, 2)

	completed := s.Attendance[0]
	require.NotNil(t, completed.Score)
	assert.Equal(t, 92, *completed.Score)
	require.NotNil(t, completed.ExpirationDate)
	assert.True(t, completed.ExpirationDate.Equal(expires))

	absent := s.Attendance[1]
	assert.Equal(t, compliance.AttendanceAbsent, absent.Status)
	assert.Nil(t, absent.Score)
	assert.Nil(t, absent.CertificationDate)
	assert.Nil(t, absent.ExpirationDate)
}

func TestCreateSessionRejectsOverCapacity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateTraining(ctx, sampleTraining())
	require.NoError(t, err)

	session := compliance.Session{
		ID:              "s-1",
		Date:            time.Now().UTC(),
		MaxParticipants: 1,
		Status:          compliance.SessionScheduled,
		Attendance: []compliance.Attendance{
			{EmployeeID: "emp-001", Status: compliance.AttendanceRegistered},
			{EmployeeID: "emp-002", Status: compliance.AttendanceRegistered},
		},
	}
	_, err = store.CreateSession(ctx, "t-fire", session)
	require.Error(t, err)
	assert.True(t, errors.Is(err, compliance.ErrSessionCapacityExceeded))

	// nothing persisted
	trainings, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, trainings, 1)
	assert.Empty(t, trainings[0].Sessions)
}

func TestCreateSessionUnknownTraining(t *testing.T) {
	store := newTestStore(t)

	_, err := store.CreateSession(context.Background(), "ghost", compliance.Session{
		ID:              "s-1",
		Date:            time.Now().UTC(),
		MaxParticipants: 5,
		Status:          compliance.SessionScheduled,
	})
	assert.True(t, errors.Is(err, compliance.ErrTrainingNotFound))
}

func TestUpdateTrainingRewritesSessions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	training := sampleTraining()
	_, err := store.CreateTraining(ctx, training)
	require.NoError(t, err)

	date := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	_, err = store.CreateSession(ctx, training.ID, compliance.Session{
		ID:              "s-1",
		Date:            date,
		MaxParticipants: 10,
		Status:          compliance.SessionScheduled,
		Attendance: []compliance.Attendance{
			{EmployeeID: "emp-001", Status: compliance.AttendanceRegistered},
		},
	})
	require.NoError(t, err)

	// simulate a lifecycle advance: session completes, attendee certified
	loaded, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	mutated := loaded[0]
	require.Len(t, mutated.Sessions, 1)

	score := 88
	expires := date.AddDate(0, 12, 0)
	mutated.Sessions[0].Status = compliance.SessionCompleted
	mutated.Sessions[0].Attendance[0].Status = compliance.AttendanceCompleted
	mutated.Sessions[0].Attendance[0].Score = &score
	mutated.Sessions[0].Attendance[0].CertificationDate = &date
	mutated.Sessions[0].Attendance[0].ExpirationDate = &expires

	_, err = store.UpdateTraining(ctx, mutated)
	require.NoError(t, err)

	reloaded, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded, 1)
	require.Len(t, reloaded[0].Sessions, 1)
	s := reloaded[0].Sessions[0]
	assert.Equal(t, compliance.SessionCompleted, s.Status)
	require.Len(t, s.Attendance, 1)
	assert.Equal(t, compliance.AttendanceCompleted, s.Attendance[0].Status)
	require.NotNil(t, s.Attendance[0].Score)
	assert.Equal(t, 88, *s.Attendance[0].Score)
}

func TestUpdateTrainingUnknownID(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpdateTraining(context.Background(), sampleTraining())
	assert.True(t, errors.Is(err, compliance.ErrTrainingNotFound))
}

func TestUpdateTrainingCapacityRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	training := sampleTraining()
	_, err := store.CreateTraining(ctx, training)
	require.NoError(t, err)
	_, err = store.CreateSession(ctx, training.ID, compliance.Session{
		ID:              "s-1",
		Date:            time.Now().UTC(),
		MaxParticipants: 2,
		Status:          compliance.SessionScheduled,
		Attendance: []compliance.Attendance{
			{EmployeeID: "emp-001", Status: compliance.AttendanceRegistered},
		},
	})
	require.NoError(t, err)

	loaded, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	over := loaded[0]
	over.Sessions[0].Attendance = append(over.Sessions[0].Attendance,
		compliance.Attendance{EmployeeID: "emp-002", Status: compliance.AttendanceRegistered},
		compliance.Attendance{EmployeeID: "emp-003", Status: compliance.AttendanceRegistered})

	_, err = store.UpdateTraining(ctx, over)
	require.Error(t, err)
	assert.True(t, errors.Is(err, compliance.ErrSessionCapacityExceeded))

	var capErr *compliance.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 2, capErr.MaxParticipants)
	assert.Equal(t, 3, capErr.Registered)

	// original attendance untouched
	reloaded, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded[0].Sessions, 1)
	assert.Len(t, reloaded[0].Sessions[0].Attendance, 1)
}

func TestReset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateEmployee(ctx, compliance.Employee{ID: "emp-001", Name: "A", Service: "Ops"})
	require.NoError(t, err)
	_, err = store.CreateTraining(ctx, sampleTraining())
	require.NoError(t, err)

	require.NoError(t, store.Reset(ctx))

	employees, err := store.GetAllEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
	trainings, err := store.GetAllTrainings(ctx)
	require.NoError(t, err)
	assert.Empty(t, trainings)
}
