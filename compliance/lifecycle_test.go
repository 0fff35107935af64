package compliance_test

import (
	"context"
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/compliance/store"
	"github.com/warp/compliance-engine/logger"
)

func newSimulator(repo *store.Memory, r compliance.Rand) *compliance.Simulator {
	return &compliance.Simulator{
		Repo: repo,
		Rand: r,
		Now:  fixedClock(testNow),
		Log:  logger.Nop{},
	}
}

func seedScheduledSession(t *testing.T, repo *store.Memory, date time.Time, validityMonths int) {
	t.Helper()
	training := fireSafetyTraining()
	training.ValidityMonths = validityMonths
	training.Sessions = []compliance.Session{{
		ID:              "s-1",
		TrainingID:      training.ID,
		Date:            date,
		MaxParticipants: 10,
		Status:          compliance.SessionScheduled,
		Attendance: []compliance.Attendance{
			{EmployeeID: "emp-001", Status: compliance.AttendanceRegistered},
		},
	}}
	if _, err := repo.CreateTraining(context.Background(), training); err != nil {
		t.Fatalf("seed training: %v", err)
	}
}

func loadSingleSession(t *testing.T, repo *store.Memory) compliance.Session {
	t.Helper()
	trainings, err := repo.GetAllTrainings(context.Background())
	if err != nil {
		t.Fatalf("load trainings: %v", err)
	}
	if len(trainings) != 1 || len(trainings[0].Sessions) != 1 {
		t.Fatalf("expected exactly one training with one session")
	}
	return trainings[0].Sessions[0]
}

func TestAdvance_PassingAttendanceIsCertified(t *testing.T) {
	// GIVEN: A past scheduled session and a draw below the pass threshold
	// WHEN: Advancing the lifecycle
	// THEN: The session completes and the attendee is certified with a
	//       score in [80, 100] and an expiration 12 months after the
	//       session date

	repo := store.NewMemory()
	sessionDate := testNow.AddDate(0, 0, -3)
	seedScheduledSession(t, repo, sessionDate, 12)

	sim := newSimulator(repo, &fixedRand{ints: []int{5}, f: 0.1})
	if err := sim.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	s := loadSingleSession(t, repo)
	if s.Status != compliance.SessionCompleted {
		t.Fatalf("expected completed session, got %s", s.Status)
	}
	a := s.Attendance[0]
	if a.Status != compliance.AttendanceCompleted {
		t.Fatalf("expected completed attendance, got %s", a.Status)
	}
	if a.Score == nil || *a.Score < 80 || *a.Score > 100 {
		t.Errorf("score outside [80,100]: %v", a.Score)
	}
	if a.CertificationDate == nil || !a.CertificationDate.Equal(sessionDate) {
		t.Errorf("expected certification date %v, got %v", sessionDate, a.CertificationDate)
	}
	want := compliance.AddValidity(sessionDate, 12)
	if a.ExpirationDate == nil || !a.ExpirationDate.Equal(want) {
		t.Errorf("expected expiration %v, got %v", want, a.ExpirationDate)
	}
}

func TestAdvance_FailingDrawMarksAbsent(t *testing.T) {
	// GIVEN: A past scheduled session and a draw above the pass threshold
	// WHEN: Advancing the lifecycle
	// THEN: The attendee is absent with no certification fields

	repo := store.NewMemory()
	seedScheduledSession(t, repo, testNow.AddDate(0, 0, -3), 12)

	sim := newSimulator(repo, &fixedRand{f: 0.95})
	if err := sim.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	s := loadSingleSession(t, repo)
	a := s.Attendance[0]
	if a.Status != compliance.AttendanceAbsent {
		t.Fatalf("expected absent attendance, got %s", a.Status)
	}
	if a.Score != nil || a.CertificationDate != nil || a.ExpirationDate != nil {
		t.Errorf("absent attendance must carry no certification fields: %+v", a)
	}
}

func TestAdvance_NeverExpiringTraining(t *testing.T) {
	// GIVEN: A training whose certifications never expire
	// WHEN: Advancing past a completed session
	// THEN: Certification is recorded without an expiration date

	repo := store.NewMemory()
	seedScheduledSession(t, repo, testNow.AddDate(0, 0, -3), 0)

	sim := newSimulator(repo, &fixedRand{f: 0.1})
	if err := sim.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	a := loadSingleSession(t, repo).Attendance[0]
	if a.Status != compliance.AttendanceCompleted {
		t.Fatalf("expected completed attendance, got %s", a.Status)
	}
	if a.CertificationDate == nil {
		t.Fatal("expected a certification date")
	}
	if a.ExpirationDate != nil {
		t.Errorf("expected no expiration date, got %v", a.ExpirationDate)
	}
}

func TestAdvance_FutureSessionsUntouched(t *testing.T) {
	// GIVEN: A session scheduled for next week
	// WHEN: Advancing the lifecycle
	// THEN: Nothing changes

	repo := store.NewMemory()
	seedScheduledSession(t, repo, testNow.AddDate(0, 0, 7), 12)

	sim := newSimulator(repo, &fixedRand{f: 0.1})
	if err := sim.Advance(context.Background()); err != nil {
		t.Fatalf("advance: %v", err)
	}

	s := loadSingleSession(t, repo)
	if s.Status != compliance.SessionScheduled {
		t.Fatalf("future session must stay scheduled, got %s", s.Status)
	}
	if s.Attendance[0].Status != compliance.AttendanceRegistered {
		t.Fatalf("future attendance must stay registered, got %s", s.Attendance[0].Status)
	}
}

func TestAdvance_CompletedSessionsAreFinal(t *testing.T) {
	// GIVEN: An already-advanced session
	// WHEN: Advancing a second time with a failing draw
	// THEN: The earlier outcome is preserved

	repo := store.NewMemory()
	sessionDate := testNow.AddDate(0, 0, -3)
	seedScheduledSession(t, repo, sessionDate, 12)

	pass := newSimulator(repo, &fixedRand{ints: []int{5}, f: 0.1})
	if err := pass.Advance(context.Background()); err != nil {
		t.Fatalf("first advance: %v", err)
	}

	fail := newSimulator(repo, &fixedRand{f: 0.95})
	if err := fail.Advance(context.Background()); err != nil {
		t.Fatalf("second advance: %v", err)
	}

	a := loadSingleSession(t, repo).Attendance[0]
	if a.Status != compliance.AttendanceCompleted {
		t.Fatalf("completed attendance must not be reprocessed, got %s", a.Status)
	}
	if a.CertificationDate == nil || !a.CertificationDate.Equal(sessionDate) {
		t.Errorf("certification date changed: %v", a.CertificationDate)
	}
}
