/*
calculator.go - Per-employee requirement resolution and gap detection

PURPOSE:
  Resolves which trainings an employee's roles mandate, partitions
  them into satisfied / missing / expired, and computes a compliance
  rate. Pure computation over in-memory snapshots: no persistence, no
  caching across calls.

GAP SEMANTICS:
  Missing: a required training for which no attendance record, across
  any of its sessions, is completed for this employee. Past failures
  and absences do not count as completion.

  Expired: every completed attendance of this employee with an
  expiration date in the past counts once per qualifying attendance.
  Repeated re-certifications can therefore accumulate several expired
  records for the same training - intentionally no de-duplication by
  training id, mirroring how gaps are surfaced per record in reports.

RATE:
  rate = round(100 x (total - missing - expired) / total), clamped to
  [0, 100]. An employee with nothing required is vacuously compliant
  (rate 100).

SEE ALSO:
  - scheduler.go: Turns gaps into aggregated session demand
  - report.go: Aggregates snapshots across the organisation
*/
package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator performs requirement resolution and gap detection against
// a loaded catalog.
type Calculator struct {
	Catalog Catalog
}

// ExpiredRecord ties an expired attendance to the training it was
// earned for.
type ExpiredRecord struct {
	Training   Training
	Attendance Attendance
}

// Gaps is the per-employee partition of unmet requirements.
type Gaps struct {
	Missing []Training
	Expired []ExpiredRecord
}

// ExpiringAttendance is the next certification to lapse for an
// employee, used by the reporter's look-ahead view.
type ExpiringAttendance struct {
	Training   Training
	Attendance Attendance
	DaysUntil  int // strictly positive
}

// =============================================================================
// REQUIREMENT RESOLUTION
// =============================================================================

// ResolveRequired returns the trainings whose required-role set
// intersects the employee's roles. Intersection, not subset.
func (c Calculator) ResolveRequired(e Employee, trainings []Training) []Training {
	var required []Training
	for _, t := range trainings {
		if e.HasAnyRole(t.Roles) {
			required = append(required, t)
		}
	}
	return required
}

// =============================================================================
// GAP DETECTION
// =============================================================================

// ComputeGaps partitions the employee's required trainings into
// missing and expired records as of now.
func (c Calculator) ComputeGaps(e Employee, required []Training, now time.Time) Gaps {
	var gaps Gaps
	for _, t := range required {
		if !hasCompleted(t, e.ID) {
			gaps.Missing = append(gaps.Missing, t)
		}
		for _, s := range t.Sessions {
			for _, a := range s.Attendance {
				if a.EmployeeID != e.ID || a.Status != AttendanceCompleted {
					continue
				}
				if a.ExpirationDate != nil && a.ExpirationDate.Before(now) {
					gaps.Expired = append(gaps.Expired, ExpiredRecord{Training: t, Attendance: a})
				}
			}
		}
	}
	return gaps
}

// hasCompleted reports whether the employee ever completed the
// training, across all of its sessions.
func hasCompleted(t Training, id EmployeeID) bool {
	for _, s := range t.Sessions {
		for _, a := range s.Attendance {
			if a.EmployeeID == id && a.Status == AttendanceCompleted {
				return true
			}
		}
	}
	return false
}

// =============================================================================
// COMPLIANCE RATE
// =============================================================================

// ComplianceRate computes the rounded integer percentage of required
// trainings currently satisfied. Vacuously 100 when nothing is
// required; clamped so stacked expired records cannot push it below 0.
func ComplianceRate(totalRequired, missing, expired int) int {
	if totalRequired == 0 {
		return 100
	}
	satisfied := totalRequired - missing - expired
	if satisfied < 0 {
		satisfied = 0
	}
	rate := decimal.NewFromInt(int64(satisfied)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(totalRequired))).
		Round(0)
	return int(rate.IntPart())
}

// Snapshot computes the employee's derived compliance state as of now.
func (c Calculator) Snapshot(e Employee, trainings []Training, now time.Time) ComplianceSnapshot {
	required := c.ResolveRequired(e, trainings)
	gaps := c.ComputeGaps(e, required, now)
	total := len(required)
	missing := len(gaps.Missing)
	expired := len(gaps.Expired)
	return ComplianceSnapshot{
		EmployeeID:     e.ID,
		TotalRequired:  total,
		CompletedCount: total - missing,
		ExpiredCount:   expired,
		MissingCount:   missing,
		Rate:           ComplianceRate(total, missing, expired),
	}
}

// AnalyzeAll computes snapshots for every employee.
func (c Calculator) AnalyzeAll(employees []Employee, trainings []Training, now time.Time) []ComplianceSnapshot {
	snapshots := make([]ComplianceSnapshot, 0, len(employees))
	for _, e := range employees {
		snapshots = append(snapshots, c.Snapshot(e, trainings, now))
	}
	return snapshots
}

// =============================================================================
// DERIVED QUERIES - Used by the reporter
// =============================================================================

// CriticalMissingCount counts missing trainings whose catalog category
// is a critical tier (Critical or Mandatory). Trainings without a
// resolvable catalog entry are not counted.
func (c Calculator) CriticalMissingCount(gaps Gaps) int {
	count := 0
	for _, t := range gaps.Missing {
		if req, ok := c.Catalog.ForTraining(t); ok && req.Category.IsCriticalTier() {
			count++
		}
	}
	return count
}

// NextExpiringAttendance returns the employee's completed attendance,
// among required trainings, with the smallest positive time to
// expiration. Nil when nothing is due to expire.
func (c Calculator) NextExpiringAttendance(e Employee, required []Training, now time.Time) *ExpiringAttendance {
	var next *ExpiringAttendance
	for _, t := range required {
		for _, s := range t.Sessions {
			for _, a := range s.Attendance {
				if a.EmployeeID != e.ID || a.Status != AttendanceCompleted || a.ExpirationDate == nil {
					continue
				}
				days := DaysBetween(now, *a.ExpirationDate)
				if days <= 0 {
					continue
				}
				if next == nil || days < next.DaysUntil {
					next = &ExpiringAttendance{Training: t, Attendance: a, DaysUntil: days}
				}
			}
		}
	}
	return next
}
