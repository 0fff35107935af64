/*
scheduler.go - Remedial session planning under capacity and calendar
constraints

PURPOSE:
  Turns aggregated unmet demand per training into scheduled sessions:
  how many sessions, on which business days, with which instructor and
  room, and which employees on each roster.

PLANNING ALGORITHM (deterministic, explainable heuristic - greedy
bin-packing, not an optimizer):
 1. Aggregate demand per training into urgent (driving an expired
    certification) and normal (never completed) buckets. The urgent
    bucket wins: an employee is scheduled at most once per training.
    Employees already registered in an upcoming scheduled session of
    the training are excluded, so repeated planning runs do not
    double-book the same gap.
 2. sessionsNeeded = ceil(total / requirement.MaxParticipants).
    Employees are flattened urgent-then-normal and sliced into
    consecutive chunks of MaxParticipants; chunk order is session
    creation order.
 3. Session 0 of a training with urgent demand is placed in the
    urgent window [now+1d, now+14d]; every other session in the
    normal window [now+14d, now+14d+weeksAhead*7d]. Weekend dates
    shift forward to the next Monday. Sessions start at 08:00 or
    14:00.
 4. Instructor is a deterministic lookup keyed by catalog module id
    with a generic fallback. Rooms: practical-test or Critical
    modules get the training center, e-learning the computer lab,
    everything else alternates between two generic rooms.

FAILURE SEMANTICS:
  A training with zero aggregated demand is skipped. A training whose
  catalog entry cannot be resolved aborts planning for that training
  only (logged, not fatal to the batch).

RANDOMNESS:
  Date jitter and time slot go through the injected Rand so the same
  seed reproduces an identical plan.

SEE ALSO:
  - calculator.go: Gap detection feeding the demand buckets
  - lifecycle.go: Advances the sessions planned here
*/
package compliance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/warp/compliance-engine/logger"
)

// =============================================================================
// LOCATIONS
// =============================================================================

const (
	// LocationTrainingCenter hosts practical assessments and
	// critical-tier modules.
	LocationTrainingCenter = "Training Center - Practice Hall"

	// LocationComputerLab hosts e-learning deliveries.
	LocationComputerLab = "Computer Lab"

	// FallbackInstructor is used for modules without a directory entry.
	FallbackInstructor = "External Instructor"
)

// defaultRooms are the two generic rooms non-specialized sessions
// alternate between.
var defaultRooms = [2]string{"Meeting Room A", "Meeting Room B"}

// =============================================================================
// TRAINING NEED - Aggregated demand for one training
// =============================================================================

// TrainingNeed is the aggregated unmet demand for a single training,
// partitioned by urgency.
type TrainingNeed struct {
	Training Training
	Urgent   []EmployeeID // driving an expired certification
	Normal   []EmployeeID // never completed the training
}

// Total returns the number of employees needing a seat.
func (n TrainingNeed) Total() int { return len(n.Urgent) + len(n.Normal) }

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler plans remedial sessions for unmet training demand.
type Scheduler struct {
	Repo    Repository
	Catalog Catalog
	Rand    Rand
	Now     Clock
	Log     logger.Logger

	// Instructors maps catalog module ids to their assigned
	// instructor. Unmapped modules fall back to FallbackInstructor.
	Instructors map[RequirementID]string
}

// AggregateNeeds computes per-training demand across all employees.
// Policy decisions (documented, see DESIGN.md):
//   - urgent bucket wins: an employee appears at most once per training
//   - employees with a registered attendance in an upcoming scheduled
//     session of the training are already covered and excluded
func (sc *Scheduler) AggregateNeeds(employees []Employee, trainings []Training, now time.Time) []TrainingNeed {
	var needs []TrainingNeed
	for _, t := range trainings {
		need := TrainingNeed{Training: t}
		for _, e := range employees {
			if !e.HasAnyRole(t.Roles) {
				continue
			}
			if isAwaitingSession(t, e.ID, now) {
				continue
			}
			switch {
			case hasExpired(t, e.ID, now):
				need.Urgent = append(need.Urgent, e.ID)
			case !hasCompleted(t, e.ID):
				need.Normal = append(need.Normal, e.ID)
			}
		}
		if need.Total() > 0 {
			needs = append(needs, need)
		}
	}
	return needs
}

// hasExpired reports whether any completed attendance of the employee
// for this training has lapsed.
func hasExpired(t Training, id EmployeeID, now time.Time) bool {
	for _, s := range t.Sessions {
		for _, a := range s.Attendance {
			if a.EmployeeID == id && a.Status == AttendanceCompleted &&
				a.ExpirationDate != nil && a.ExpirationDate.Before(now) {
				return true
			}
		}
	}
	return false
}

// isAwaitingSession reports whether the employee already holds a seat
// in a future scheduled session of this training.
func isAwaitingSession(t Training, id EmployeeID, now time.Time) bool {
	for _, s := range t.Sessions {
		if s.Status != SessionScheduled || s.Date.Before(now) {
			continue
		}
		for _, a := range s.Attendance {
			if a.EmployeeID == id && a.Status == AttendanceRegistered {
				return true
			}
		}
	}
	return false
}

// PlanSessions aggregates demand and creates the sessions covering it,
// persisting each via the repository. weeksAhead bounds the normal
// scheduling window. Sessions are appended to the owning training;
// previously planned sessions are never touched.
func (sc *Scheduler) PlanSessions(ctx context.Context, weeksAhead int) ([]Session, error) {
	employees, err := sc.Repo.GetAllEmployees(ctx)
	if err != nil {
		return nil, err
	}
	trainings, err := sc.Repo.GetAllTrainings(ctx)
	if err != nil {
		return nil, err
	}

	now := sc.Now()
	needs := sc.AggregateNeeds(employees, trainings, now)

	var planned []Session
	roomToggle := 0
	for _, need := range needs {
		req, ok := sc.Catalog.ForTraining(need.Training)
		if !ok {
			sc.Log.Warnf("planning: no catalog entry for training %q (%s), skipping",
				need.Training.Title, need.Training.ID)
			continue
		}

		sessions := sc.planTraining(need, req, now, weeksAhead, &roomToggle)
		for _, s := range sessions {
			stored, err := sc.Repo.CreateSession(ctx, need.Training.ID, s)
			if err != nil {
				return planned, err
			}
			planned = append(planned, stored)
		}
	}

	sc.Log.Infof("planning: %d sessions created for %d trainings with demand",
		len(planned), len(needs))
	return planned, nil
}

// planTraining slices one training's demand into sessions.
func (sc *Scheduler) planTraining(need TrainingNeed, req TrainingRequirement, now time.Time, weeksAhead int, roomToggle *int) []Session {
	roster := make([]EmployeeID, 0, need.Total())
	roster = append(roster, need.Urgent...)
	roster = append(roster, need.Normal...)

	var sessions []Session
	for i := 0; i*req.MaxParticipants < len(roster); i++ {
		lo := i * req.MaxParticipants
		hi := lo + req.MaxParticipants
		if hi > len(roster) {
			hi = len(roster)
		}
		chunk := roster[lo:hi]

		urgent := i == 0 && len(need.Urgent) > 0
		date := sc.pickDate(now, urgent, weeksAhead)

		attendance := make([]Attendance, 0, len(chunk))
		for _, id := range chunk {
			attendance = append(attendance, Attendance{EmployeeID: id, Status: AttendanceRegistered})
		}

		sessions = append(sessions, Session{
			ID:              SessionID(uuid.NewString()),
			TrainingID:      need.Training.ID,
			Date:            date,
			Instructor:      sc.instructorFor(req),
			Location:        sc.locationFor(req, roomToggle),
			MaxParticipants: req.MaxParticipants,
			Status:          SessionScheduled,
			Attendance:      attendance,
		})
	}
	return sessions
}

// pickDate draws a date from the urgent or normal window, shifts
// weekends to the next Monday and pins the time slot.
func (sc *Scheduler) pickDate(now time.Time, urgent bool, weeksAhead int) time.Time {
	var offsetDays int
	if urgent {
		// [now+1d, now+14d]
		offsetDays = 1 + sc.Rand.Intn(14)
	} else {
		// [now+14d, now+14d+weeksAhead*7d]
		span := weeksAhead * 7
		if span < 0 {
			span = 0
		}
		offsetDays = 14 + sc.Rand.Intn(span+1)
	}

	date := NextMonday(now.AddDate(0, 0, offsetDays))
	return AtSlot(date, sc.Rand.Intn(2) == 0)
}

func (sc *Scheduler) instructorFor(req TrainingRequirement) string {
	if name, ok := sc.Instructors[req.ID]; ok {
		return name
	}
	return FallbackInstructor
}

// locationFor applies the room rule: practical or critical modules get
// the training center, e-learning the computer lab, the rest alternate
// between the two generic rooms.
func (sc *Scheduler) locationFor(req TrainingRequirement, roomToggle *int) string {
	if req.PracticalTest || req.Category == CategoryCritical {
		return LocationTrainingCenter
	}
	if req.Delivery == DeliveryELearning {
		return LocationComputerLab
	}
	room := defaultRooms[*roomToggle%2]
	*roomToggle++
	return room
}
