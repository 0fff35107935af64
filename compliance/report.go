/*
report.go - Aggregate compliance reporting

PURPOSE:
  Aggregates per-employee compliance across the organisation: overall
  rate, category/role/service breakdowns, a size-bounded urgent-action
  list and a prioritised list of employees requiring action.

URGENT ACTIONS:
  One entry per expired attendance (type "expired", with whole days
  overdue), then one entry per missing training whose category is
  Critical or Mandatory (type "missing"). The combined list keeps
  emission order - expired entries across all employees first, then
  missing entries - and is truncated to the first 20. Callers needing
  priority order sort by DaysOverdue themselves.

DEGENERATE INPUT:
  Zero employees, requirements or trainings produce a neutral report
  (overall rate 100, empty breakdowns) rather than dividing by zero.

SEE ALSO:
  - calculator.go: Per-employee snapshots and derived queries
*/
package compliance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaxUrgentActions bounds the urgent-action list regardless of input
// size.
const MaxUrgentActions = 20

// =============================================================================
// REPORT TYPES
// =============================================================================

type UrgentActionType string

const (
	ActionExpired UrgentActionType = "expired"
	ActionMissing UrgentActionType = "missing"
)

// UrgentAction flags either an expired certification or a missing
// critical/mandatory training.
type UrgentAction struct {
	Type          UrgentActionType
	EmployeeID    EmployeeID
	EmployeeName  string
	TrainingID    TrainingID
	TrainingTitle string
	Category      Category
	DaysOverdue   int // whole days past expiration; 0 for missing entries
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// EmployeeAction is one employee's entry in the requiring-action list.
type EmployeeAction struct {
	EmployeeID      EmployeeID
	Name            string
	Service         string
	Rate            int
	CriticalMissing int
	ExpiredCount    int
	Priority        Priority
}

// RoleCompliance aggregates compliance for one role.
type RoleCompliance struct {
	EmployeeCount  int
	AverageRate    int
	CriticalIssues int // expired-attendance records among role holders
}

// ServiceCompliance aggregates compliance for one service/department.
type ServiceCompliance struct {
	Service       string
	EmployeeCount int
	AverageRate   int
	ExpiredCount  int
}

// ComplianceReport is the full aggregate view.
type ComplianceReport struct {
	GeneratedAt              time.Time
	OverallCompliance        int
	ByCategory               map[Category]int
	ByRole                   map[Role]RoleCompliance
	ServiceCompliance        []ServiceCompliance
	ServicesNeedingAttention []ServiceCompliance
	UrgentActions            []UrgentAction
	EmployeesRequiringAction []EmployeeAction
}

// =============================================================================
// REPORTER
// =============================================================================

// Reporter produces aggregate compliance reports. Read-only: it never
// writes through the repository.
type Reporter struct {
	Catalog Catalog
	Now     Clock
}

// Generate builds the full report over the given personnel and
// training snapshots.
func (r Reporter) Generate(employees []Employee, trainings []Training) ComplianceReport {
	now := r.Now()
	calc := Calculator{Catalog: r.Catalog}

	// Per-employee state computed once, reused by every aggregation.
	type employeeState struct {
		employee Employee
		snapshot ComplianceSnapshot
		gaps     Gaps
	}
	states := make([]employeeState, 0, len(employees))
	for _, e := range employees {
		required := calc.ResolveRequired(e, trainings)
		gaps := calc.ComputeGaps(e, required, now)
		states = append(states, employeeState{
			employee: e,
			snapshot: calc.Snapshot(e, trainings, now),
			gaps:     gaps,
		})
	}

	report := ComplianceReport{
		GeneratedAt: now,
		ByCategory:  make(map[Category]int),
		ByRole:      make(map[Role]RoleCompliance),
	}

	// Overall compliance: mean of all employee rates, rounded.
	rates := make([]int, 0, len(states))
	for _, st := range states {
		rates = append(rates, st.snapshot.Rate)
	}
	report.OverallCompliance = roundedMean(rates)

	// By category: count of trainings per originating requirement
	// category. Trainings without a resolvable catalog entry are
	// skipped (lookup failure is local, not fatal).
	for _, t := range trainings {
		if req, ok := r.Catalog.ForTraining(t); ok {
			report.ByCategory[req.Category]++
		}
	}

	// By role.
	roleRates := make(map[Role][]int)
	for _, st := range states {
		for _, role := range st.employee.Roles {
			rc := report.ByRole[role]
			rc.EmployeeCount++
			rc.CriticalIssues += len(st.gaps.Expired)
			report.ByRole[role] = rc
			roleRates[role] = append(roleRates[role], st.snapshot.Rate)
		}
	}
	for role, rc := range report.ByRole {
		rc.AverageRate = roundedMean(roleRates[role])
		report.ByRole[role] = rc
	}

	// By service.
	serviceRates := make(map[string][]int)
	serviceAgg := make(map[string]ServiceCompliance)
	for _, st := range states {
		svc := st.employee.Service
		agg := serviceAgg[svc]
		agg.Service = svc
		agg.EmployeeCount++
		agg.ExpiredCount += len(st.gaps.Expired)
		serviceAgg[svc] = agg
		serviceRates[svc] = append(serviceRates[svc], st.snapshot.Rate)
	}
	for svc, agg := range serviceAgg {
		agg.AverageRate = roundedMean(serviceRates[svc])
		report.ServiceCompliance = append(report.ServiceCompliance, agg)
	}
	sort.Slice(report.ServiceCompliance, func(i, j int) bool {
		return report.ServiceCompliance[i].Service < report.ServiceCompliance[j].Service
	})
	for _, agg := range report.ServiceCompliance {
		if agg.AverageRate < 100 {
			report.ServicesNeedingAttention = append(report.ServicesNeedingAttention, agg)
		}
	}
	sort.SliceStable(report.ServicesNeedingAttention, func(i, j int) bool {
		return report.ServicesNeedingAttention[i].AverageRate < report.ServicesNeedingAttention[j].AverageRate
	})

	// Urgent actions: expired entries first, then missing
	// critical/mandatory entries, truncated to MaxUrgentActions.
	for _, st := range states {
		for _, rec := range st.gaps.Expired {
			category := Category("")
			if req, ok := r.Catalog.ForTraining(rec.Training); ok {
				category = req.Category
			}
			report.UrgentActions = append(report.UrgentActions, UrgentAction{
				Type:          ActionExpired,
				EmployeeID:    st.employee.ID,
				EmployeeName:  st.employee.Name,
				TrainingID:    rec.Training.ID,
				TrainingTitle: rec.Training.Title,
				Category:      category,
				DaysOverdue:   DaysBetween(*rec.Attendance.ExpirationDate, now),
			})
		}
	}
	for _, st := range states {
		for _, t := range st.gaps.Missing {
			req, ok := r.Catalog.ForTraining(t)
			if !ok || !req.Category.IsCriticalTier() {
				continue
			}
			report.UrgentActions = append(report.UrgentActions, UrgentAction{
				Type:          ActionMissing,
				EmployeeID:    st.employee.ID,
				EmployeeName:  st.employee.Name,
				TrainingID:    t.ID,
				TrainingTitle: t.Title,
				Category:      req.Category,
			})
		}
	}
	if len(report.UrgentActions) > MaxUrgentActions {
		report.UrgentActions = report.UrgentActions[:MaxUrgentActions]
	}

	// Employees requiring action, with derived priority.
	for _, st := range states {
		criticalMissing := calc.CriticalMissingCount(st.gaps)
		expired := len(st.gaps.Expired)

		var priority Priority
		switch {
		case criticalMissing > 0:
			priority = PriorityHigh
		case expired > 0:
			priority = PriorityMedium
		case st.snapshot.Rate < 90:
			priority = PriorityLow
		default:
			continue
		}

		report.EmployeesRequiringAction = append(report.EmployeesRequiringAction, EmployeeAction{
			EmployeeID:      st.employee.ID,
			Name:            st.employee.Name,
			Service:         st.employee.Service,
			Rate:            st.snapshot.Rate,
			CriticalMissing: criticalMissing,
			ExpiredCount:    expired,
			Priority:        priority,
		})
	}

	return report
}

// roundedMean returns the rounded mean of integer rates, 100 for an
// empty slice (vacuous compliance).
func roundedMean(rates []int) int {
	if len(rates) == 0 {
		return 100
	}
	sum := decimal.Zero
	for _, r := range rates {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(rates)))).Round(0)
	return int(mean.IntPart())
}
