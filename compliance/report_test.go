package compliance_test

import (
	"fmt"
	"testing"

	"github.com/warp/compliance-engine/compliance"
)

func newReporter(t *testing.T) compliance.Reporter {
	t.Helper()
	return compliance.Reporter{Catalog: testCatalog(t), Now: fixedClock(testNow)}
}

func TestGenerate_EmptyDirectory(t *testing.T) {
	// GIVEN: No employees at all
	// WHEN: Generating a report
	// THEN: Overall compliance is vacuously 100 with no actions

	report := newReporter(t).Generate(nil, []compliance.Training{fireSafetyTraining()})

	if report.OverallCompliance != 100 {
		t.Errorf("expected overall 100, got %d", report.OverallCompliance)
	}
	if len(report.UrgentActions) != 0 || len(report.EmployeesRequiringAction) != 0 {
		t.Errorf("expected no actions, got %+v", report)
	}
}

func TestGenerate_OverallIsRoundedMean(t *testing.T) {
	// GIVEN: One compliant supervisor and one missing-everything supervisor
	// WHEN: Generating a report
	// THEN: Overall compliance is the rounded mean (50)

	compliant := compliance.Employee{ID: "emp-001", Name: "A", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}}
	missing := compliance.Employee{ID: "emp-002", Name: "B", Service: "Maintenance", Roles: []compliance.Role{"SUPERVISOR"}}

	certified := testNow.AddDate(0, -1, 0)
	training := withSession(fireSafetyTraining(), compliance.SessionCompleted,
		certified, completedAttendance("emp-001", certified, 12))

	report := newReporter(t).Generate(
		[]compliance.Employee{compliant, missing},
		[]compliance.Training{training})

	if report.OverallCompliance != 50 {
		t.Errorf("expected overall 50, got %d", report.OverallCompliance)
	}
}

func TestGenerate_PriorityDerivation(t *testing.T) {
	// GIVEN: One employee missing a critical training, one driving an
	//        expired certification, one fully compliant
	// WHEN: Generating a report
	// THEN: high and medium priorities respectively, compliant absent

	missingCritical := compliance.Employee{ID: "emp-001", Name: "A", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}}
	expired := compliance.Employee{ID: "emp-002", Name: "B", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}}
	compliant := compliance.Employee{ID: "emp-003", Name: "C", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}}

	lapsed := testNow.AddDate(-2, 0, 0)
	valid := testNow.AddDate(0, -1, 0)
	training := withSession(fireSafetyTraining(), compliance.SessionCompleted,
		lapsed, completedAttendance("emp-002", lapsed, 12))
	training = withSession(training, compliance.SessionCompleted,
		valid, completedAttendance("emp-003", valid, 12))

	report := newReporter(t).Generate(
		[]compliance.Employee{missingCritical, expired, compliant},
		[]compliance.Training{training})

	if len(report.EmployeesRequiringAction) != 2 {
		t.Fatalf("expected 2 employees requiring action, got %d", len(report.EmployeesRequiringAction))
	}
	byID := map[compliance.EmployeeID]compliance.EmployeeAction{}
	for _, a := range report.EmployeesRequiringAction {
		byID[a.EmployeeID] = a
	}
	if got := byID["emp-001"].Priority; got != compliance.PriorityHigh {
		t.Errorf("expected high priority for critical gap, got %s", got)
	}
	if got := byID["emp-002"].Priority; got != compliance.PriorityMedium {
		t.Errorf("expected medium priority for expired certification, got %s", got)
	}
	if _, ok := byID["emp-003"]; ok {
		t.Error("compliant employee must not require action")
	}
}

func TestGenerate_UrgentActionsOrderAndCap(t *testing.T) {
	// GIVEN: 25 supervisors, 3 with lapsed certifications and 22 missing
	//        the critical training entirely
	// WHEN: Generating a report
	// THEN: Expired entries come first and the list is capped at 20

	var employees []compliance.Employee
	training := fireSafetyTraining()
	lapsed := testNow.AddDate(-2, 0, 0)
	for i := 0; i < 25; i++ {
		id := compliance.EmployeeID(fmt.Sprintf("emp-%03d", i+1))
		employees = append(employees, compliance.Employee{
			ID: id, Name: string(id), Service: "Operations",
			Roles: []compliance.Role{"SUPERVISOR"},
		})
		if i < 3 {
			training = withSession(training, compliance.SessionCompleted,
				lapsed, completedAttendance(id, lapsed, 12))
		}
	}

	report := newReporter(t).Generate(employees, []compliance.Training{training})

	if len(report.UrgentActions) != compliance.MaxUrgentActions {
		t.Fatalf("expected %d urgent actions, got %d", compliance.MaxUrgentActions, len(report.UrgentActions))
	}
	for i, action := range report.UrgentActions {
		if i < 3 && action.Type != compliance.ActionExpired {
			t.Errorf("position %d: expected expired entry, got %s", i, action.Type)
		}
		if i >= 3 && action.Type != compliance.ActionMissing {
			t.Errorf("position %d: expected missing entry, got %s", i, action.Type)
		}
	}
	if report.UrgentActions[0].DaysOverdue <= 0 {
		t.Errorf("expired entry must report positive days overdue, got %d", report.UrgentActions[0].DaysOverdue)
	}
}

func TestGenerate_ServicesNeedingAttention(t *testing.T) {
	// GIVEN: Operations fully compliant, Maintenance and Logistics not
	// WHEN: Generating a report
	// THEN: Only the non-compliant services are flagged, worst first

	certified := testNow.AddDate(0, -1, 0)
	training := withSession(fireSafetyTraining(), compliance.SessionCompleted,
		certified,
		completedAttendance("emp-001", certified, 12),
		completedAttendance("emp-003", certified, 12))
	// Logistics gets a second requirement so a single gap hurts less
	ergonomics := compliance.Training{
		ID: "t-ergo", ModuleID: "ergonomics", Title: "Workstation Ergonomics",
		Roles: []compliance.Role{"EMPLOYEE"},
	}
	ergonomics = withSession(ergonomics, compliance.SessionCompleted,
		certified, completedAttendance("emp-003", certified, 0))

	employees := []compliance.Employee{
		{ID: "emp-001", Name: "A", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}},
		{ID: "emp-002", Name: "B", Service: "Maintenance", Roles: []compliance.Role{"SUPERVISOR"}},
		{ID: "emp-003", Name: "C", Service: "Logistics", Roles: []compliance.Role{"SUPERVISOR", "EMPLOYEE"}},
	}

	report := newReporter(t).Generate(employees, []compliance.Training{training, ergonomics})

	if len(report.ServiceCompliance) != 3 {
		t.Fatalf("expected 3 services, got %d", len(report.ServiceCompliance))
	}
	if len(report.ServicesNeedingAttention) != 1 {
		t.Fatalf("expected 1 service needing attention, got %+v", report.ServicesNeedingAttention)
	}
	if report.ServicesNeedingAttention[0].Service != "Maintenance" {
		t.Errorf("expected Maintenance flagged, got %s", report.ServicesNeedingAttention[0].Service)
	}
}

func TestGenerate_RoleAggregation(t *testing.T) {
	// GIVEN: Two supervisors, one driving an expired certification
	// WHEN: Generating a report
	// THEN: The role rolls up both employees and counts the critical issue

	lapsed := testNow.AddDate(-2, 0, 0)
	valid := testNow.AddDate(0, -1, 0)
	training := withSession(fireSafetyTraining(), compliance.SessionCompleted,
		lapsed, completedAttendance("emp-001", lapsed, 12))
	training = withSession(training, compliance.SessionCompleted,
		valid, completedAttendance("emp-002", valid, 12))

	employees := []compliance.Employee{
		{ID: "emp-001", Name: "A", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}},
		{ID: "emp-002", Name: "B", Service: "Operations", Roles: []compliance.Role{"SUPERVISOR"}},
	}

	report := newReporter(t).Generate(employees, []compliance.Training{training})

	rc, ok := report.ByRole["SUPERVISOR"]
	if !ok {
		t.Fatal("expected SUPERVISOR aggregate")
	}
	if rc.EmployeeCount != 2 {
		t.Errorf("expected 2 supervisors, got %d", rc.EmployeeCount)
	}
	if rc.AverageRate != 50 {
		t.Errorf("expected average 50, got %d", rc.AverageRate)
	}
	if rc.CriticalIssues != 1 {
		t.Errorf("expected 1 critical issue, got %d", rc.CriticalIssues)
	}
}

func TestGenerate_ByCategoryCountsTrainings(t *testing.T) {
	// GIVEN: One critical and one prevention training in scope
	// WHEN: Generating a report
	// THEN: Each category counts its trainings; orphans are skipped

	orphan := compliance.Training{ID: "t-x", Title: "Untracked"}
	ergonomics := compliance.Training{
		ID: "t-ergo", ModuleID: "ergonomics", Title: "Workstation Ergonomics",
	}

	report := newReporter(t).Generate(nil,
		[]compliance.Training{fireSafetyTraining(), ergonomics, orphan})

	if got := report.ByCategory[compliance.CategoryCritical]; got != 1 {
		t.Errorf("expected 1 critical training, got %d", got)
	}
	if got := report.ByCategory[compliance.CategoryPrevention]; got != 1 {
		t.Errorf("expected 1 prevention training, got %d", got)
	}
	if len(report.ByCategory) != 2 {
		t.Errorf("orphan training must not be counted: %+v", report.ByCategory)
	}
}
