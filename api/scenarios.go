/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with
	realistic data for testing and demos. Each scenario creates
	employees, imports the catalog, and seeds attendance states that
	demonstrate specific engine behavior.

AVAILABLE SCENARIOS:

	greenfield:     New site, nobody trained yet - everything missing
	expiring-certs: Trained workforce with lapsed and soon-to-lapse
	                certifications - urgent planning demand
	steady-state:   Mostly compliant organisation - small gaps only

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create employees across roles and services
 3. Import the requirement catalog
 4. Seed completed sessions/attendance where the scenario needs them

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "expiring-certs"}

NOTE:

	Scenarios reset the database. Only use in development/demo
	environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "greenfield",
		Name:        "Greenfield Site",
		Description: "New site, nobody trained yet - every requirement missing",
	},
	{
		ID:          "expiring-certs",
		Name:        "Expiring Certifications",
		Description: "Trained workforce with lapsed and soon-to-lapse certifications",
	},
	{
		ID:          "steady-state",
		Name:        "Steady State",
		Description: "Mostly compliant organisation with small gaps",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// LoadScenario resets the database and loads the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Store.Reset(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed", err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "greenfield":
		err = h.loadGreenfield(ctx)
	case "expiring-certs":
		err = h.loadExpiringCerts(ctx)
	case "steady-state":
		err = h.loadSteadyState(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scenario load failed", err)
		return
	}

	h.currentScenario = req.ScenarioID
	h.Log.Infof("scenario %q loaded", req.ScenarioID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

var demoEmployees = []compliance.Employee{
	{ID: "emp-001", Name: "Alice Fontaine", Roles: []compliance.Role{"MANAGER"}, Service: "Operations"},
	{ID: "emp-002", Name: "Bruno Keller", Roles: []compliance.Role{"SUPERVISOR", "EMPLOYEE"}, Service: "Operations"},
	{ID: "emp-003", Name: "Chloe Martins", Roles: []compliance.Role{"EMPLOYEE"}, Service: "Operations"},
	{ID: "emp-004", Name: "David Okafor", Roles: []compliance.Role{"TECHNICIAN"}, Service: "Maintenance"},
	{ID: "emp-005", Name: "Elena Vasquez", Roles: []compliance.Role{"TECHNICIAN", "MAINTENANCE"}, Service: "Maintenance"},
	{ID: "emp-006", Name: "Farid Benali", Roles: []compliance.Role{"WAREHOUSE_OPERATOR"}, Service: "Logistics"},
	{ID: "emp-007", Name: "Greta Lindqvist", Roles: []compliance.Role{"WAREHOUSE_OPERATOR", "EMPLOYEE"}, Service: "Logistics"},
	{ID: "emp-008", Name: "Hugo Ferreira", Roles: []compliance.Role{"EMPLOYEE"}, Service: "Administration"},
}

func (h *Handler) seedEmployeesAndCatalog(ctx context.Context) error {
	for _, e := range demoEmployees {
		if _, err := h.Store.CreateEmployee(ctx, e); err != nil {
			return err
		}
	}
	_, err := h.Engine.ImportRequirements(ctx)
	return err
}

// loadGreenfield: employees + catalog, no history at all.
func (h *Handler) loadGreenfield(ctx context.Context) error {
	return h.seedEmployeesAndCatalog(ctx)
}

// loadExpiringCerts: everyone was certified once, but long enough ago
// that 12/24-month certifications have lapsed.
func (h *Handler) loadExpiringCerts(ctx context.Context) error {
	if err := h.seedEmployeesAndCatalog(ctx); err != nil {
		return err
	}
	// Certified 14 months ago: 12-month validities are expired,
	// 24-month ones expire in ~10 months.
	return h.seedCompletedSessions(ctx, time.Now().AddDate(0, -14, 0))
}

// loadSteadyState: recent certifications, small residual gaps.
func (h *Handler) loadSteadyState(ctx context.Context) error {
	if err := h.seedEmployeesAndCatalog(ctx); err != nil {
		return err
	}
	return h.seedCompletedSessions(ctx, time.Now().AddDate(0, -2, 0))
}

// seedCompletedSessions creates one completed session per training,
// certifying every employee the training applies to, dated certifiedAt.
func (h *Handler) seedCompletedSessions(ctx context.Context, certifiedAt time.Time) error {
	employees, err := h.Store.GetAllEmployees(ctx)
	if err != nil {
		return err
	}
	trainings, err := h.Store.GetAllTrainings(ctx)
	if err != nil {
		return err
	}

	for _, t := range trainings {
		var attendance []compliance.Attendance
		for _, e := range employees {
			if !e.HasAnyRole(t.Roles) {
				continue
			}
			score := 85
			certified := certifiedAt
			a := compliance.Attendance{
				EmployeeID:        e.ID,
				Status:            compliance.AttendanceCompleted,
				Score:             &score,
				CertificationDate: &certified,
			}
			if t.ValidityMonths > 0 {
				expires := compliance.AddValidity(certified, t.ValidityMonths)
				a.ExpirationDate = &expires
			}
			attendance = append(attendance, a)
		}
		if len(attendance) == 0 {
			continue
		}

		req, ok := h.Engine.Catalog().ForTraining(t)
		capacity := len(attendance)
		instructor := compliance.FallbackInstructor
		location := compliance.LocationTrainingCenter
		if ok && req.MaxParticipants > capacity {
			capacity = req.MaxParticipants
		}

		session := compliance.Session{
			ID:              compliance.SessionID(uuid.NewString()),
			TrainingID:      t.ID,
			Date:            certifiedAt,
			Instructor:      instructor,
			Location:        location,
			MaxParticipants: capacity,
			Status:          compliance.SessionCompleted,
			Attendance:      attendance,
		}
		if _, err := h.Store.CreateSession(ctx, t.ID, session); err != nil {
			return err
		}
	}
	return nil
}
