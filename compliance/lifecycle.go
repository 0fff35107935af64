/*
lifecycle.go - Certification lifecycle simulation

PURPOSE:
  Advances past-due scheduled sessions to their terminal outcomes and
  derives certification/expiration dates for completions.

SIMULATION:
  Every scheduled session with a date in the past becomes completed.
  Each registered attendee completes with probability PassProbability
  (default 0.9), earning a score in [80, 100], a certification date
  equal to the session date and, for finite-validity trainings, an
  expiration date certification + validity months. Everyone else is
  marked absent (no score, no dates).

  The stochastic outcome models real-world attendance for simulation
  and demo purposes. A production deployment replaces this step with
  real attendance capture; only the date-advance transition survives.

MONOTONICITY:
  Sessions with future dates or non-scheduled status (completed,
  cancelled) are never touched.

SEE ALSO:
  - scheduler.go: Creates the sessions advanced here
  - calculator.go: Sees the resulting completions and expirations
*/
package compliance

import (
	"context"
	"time"

	"github.com/warp/compliance-engine/logger"
)

// DefaultPassProbability is the simulated completion rate for
// registered attendees of a past-due session.
const DefaultPassProbability = 0.9

// =============================================================================
// SIMULATOR
// =============================================================================

// Simulator advances the certification lifecycle of persisted
// trainings. Mutations are written back through the repository.
type Simulator struct {
	Repo            Repository
	Rand            Rand
	Now             Clock
	Log             logger.Logger
	PassProbability float64 // zero value means DefaultPassProbability
}

func (sim *Simulator) passProbability() float64 {
	if sim.PassProbability <= 0 {
		return DefaultPassProbability
	}
	return sim.PassProbability
}

// Advance transitions every past-due scheduled session to completed
// and resolves its registered attendance to completed or absent.
// Trainings with no transition are not rewritten.
func (sim *Simulator) Advance(ctx context.Context) error {
	trainings, err := sim.Repo.GetAllTrainings(ctx)
	if err != nil {
		return err
	}

	now := sim.Now()
	advanced := 0
	for i := range trainings {
		if !sim.advanceTraining(&trainings[i], now) {
			continue
		}
		if _, err := sim.Repo.UpdateTraining(ctx, trainings[i]); err != nil {
			return err
		}
		advanced++
	}

	if advanced > 0 {
		sim.Log.Infof("lifecycle: advanced sessions in %d trainings", advanced)
	}
	return nil
}

// advanceTraining mutates t in place; returns true when anything changed.
func (sim *Simulator) advanceTraining(t *Training, now time.Time) bool {
	changed := false
	for i := range t.Sessions {
		s := &t.Sessions[i]
		if s.Status != SessionScheduled || !s.Date.Before(now) {
			continue
		}
		s.Status = SessionCompleted
		changed = true

		for j := range s.Attendance {
			a := &s.Attendance[j]
			if a.Status != AttendanceRegistered {
				continue
			}
			if sim.Rand.Float64() < sim.passProbability() {
				score := 80 + sim.Rand.Intn(21) // [80, 100]
				certified := s.Date
				a.Status = AttendanceCompleted
				a.Score = &score
				a.CertificationDate = &certified
				if t.ValidityMonths > 0 {
					expires := AddValidity(certified, t.ValidityMonths)
					a.ExpirationDate = &expires
				}
			} else {
				a.Status = AttendanceAbsent
			}
		}
	}
	return changed
}
