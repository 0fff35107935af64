/*
handlers.go - HTTP handlers for the compliance engine

PURPOSE:
  Exposes the engine's invocation surface over REST:
  - Catalog import (idempotent)
  - Per-employee and organisation-wide compliance analysis
  - Session planning
  - Lifecycle advance
  - Aggregate reporting

ERROR TRANSLATION:
  compliance.IsNotFound     -> 404
  compliance.IsClientError  -> 400
  everything else           -> 500
  The engine itself has no user-facing error surface; this layer is
  where its error taxonomy becomes HTTP.

SEE ALSO:
  - server.go: Route wiring
  - dto.go: Request/response shapes
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/logger"
	"github.com/warp/compliance-engine/store/sqlite"
)

// Handler holds the API dependencies.
type Handler struct {
	Store  *sqlite.Store
	Engine *compliance.Engine
	Log    logger.Logger

	// DefaultWeeksAhead is the planning horizon used when a request
	// does not carry one.
	DefaultWeeksAhead int

	currentScenario string
}

// NewHandler creates the API handler.
func NewHandler(store *sqlite.Store, engine *compliance.Engine, log logger.Logger) *Handler {
	return &Handler{
		Store:             store,
		Engine:            engine,
		Log:               log,
		DefaultWeeksAhead: 8,
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// ListEmployees returns all employees with their compliance snapshots.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	employees, err := h.Store.GetAllEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", err)
		return
	}
	snapshots, err := h.Engine.AnalyzeComplianceForAllEmployees(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to analyze compliance", err)
		return
	}

	byID := make(map[compliance.EmployeeID]compliance.ComplianceSnapshot, len(snapshots))
	for _, s := range snapshots {
		byID[s.EmployeeID] = s
	}

	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, e := range employees {
		snap, ok := byID[e.ID]
		if ok {
			dtos = append(dtos, toEmployeeDTO(e, &snap))
		} else {
			dtos = append(dtos, toEmployeeDTO(e, nil))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeCompliance returns one employee's snapshot and gap detail.
func (h *Handler) GetEmployeeCompliance(w http.ResponseWriter, r *http.Request) {
	id := compliance.EmployeeID(chi.URLParam(r, "id"))

	snap, gaps, err := h.Engine.AnalyzeEmployee(r.Context(), id)
	if err != nil {
		status := http.StatusInternalServerError
		if compliance.IsNotFound(err) {
			status = http.StatusNotFound
		}
		writeError(w, status, "failed to analyze employee", err)
		return
	}

	now := time.Now()
	dto := struct {
		Snapshot SnapshotDTO `json:"snapshot"`
		Gaps     GapsDTO     `json:"gaps"`
	}{Snapshot: toSnapshotDTO(snap)}

	for _, t := range gaps.Missing {
		dto.Gaps.Missing = append(dto.Gaps.Missing, t.Title)
	}
	for _, rec := range gaps.Expired {
		dto.Gaps.Expired = append(dto.Gaps.Expired, ExpiredRecordDTO{
			TrainingTitle:  rec.Training.Title,
			ExpirationDate: *rec.Attendance.ExpirationDate,
			DaysOverdue:    compliance.DaysBetween(*rec.Attendance.ExpirationDate, now),
		})
	}
	if next := h.nextExpiration(r.Context(), id); next != nil {
		dto.Gaps.Next = &NextExpirationDTO{
			TrainingTitle: next.Training.Title,
			DaysUntil:     next.DaysUntil,
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// nextExpiration resolves the employee's soonest upcoming certification
// expiry, nil when nothing is due or the employee cannot be loaded.
func (h *Handler) nextExpiration(ctx context.Context, id compliance.EmployeeID) *compliance.ExpiringAttendance {
	employees, err := h.Store.GetAllEmployees(ctx)
	if err != nil {
		return nil
	}
	trainings, err := h.Store.GetAllTrainings(ctx)
	if err != nil {
		return nil
	}
	calc := compliance.Calculator{Catalog: h.Engine.Catalog()}
	for _, e := range employees {
		if e.ID == id {
			required := calc.ResolveRequired(e, trainings)
			return calc.NextExpiringAttendance(e, required, time.Now())
		}
	}
	return nil
}

// =============================================================================
// TRAININGS
// =============================================================================

// ListTrainings returns all trainings with sessions and attendance.
func (h *Handler) ListTrainings(w http.ResponseWriter, r *http.Request) {
	trainings, err := h.Store.GetAllTrainings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list trainings", err)
		return
	}
	dtos := make([]TrainingDTO, 0, len(trainings))
	for _, t := range trainings {
		dtos = append(dtos, toTrainingDTO(t))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PIPELINE OPERATIONS
// =============================================================================

// ImportRequirements instantiates catalog entries as trainings.
func (h *Handler) ImportRequirements(w http.ResponseWriter, r *http.Request) {
	created, err := h.Engine.ImportRequirements(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "import failed", err)
		return
	}
	importRuns.Inc()

	resp := ImportResponse{CatalogVersion: h.Engine.Catalog().Version}
	for _, t := range created {
		resp.Created = append(resp.Created, toTrainingDTO(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AnalyzeCompliance recomputes all employee snapshots.
func (h *Handler) AnalyzeCompliance(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.Engine.AnalyzeComplianceForAllEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "analysis failed", err)
		return
	}
	dtos := make([]SnapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		dtos = append(dtos, toSnapshotDTO(s))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PlanSessions schedules sessions for current unmet demand.
func (h *Handler) PlanSessions(w http.ResponseWriter, r *http.Request) {
	var req PlanSessionsRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}
	weeks := req.WeeksAhead
	if weeks <= 0 {
		weeks = h.DefaultWeeksAhead
	}

	planned, err := h.Engine.PlanSessions(r.Context(), weeks)
	if err != nil {
		status := http.StatusInternalServerError
		if compliance.IsClientError(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "planning failed", err)
		return
	}
	sessionsPlanned.Add(float64(len(planned)))

	resp := PlanSessionsResponse{Planned: make([]SessionDTO, 0, len(planned))}
	for _, s := range planned {
		resp.Planned = append(resp.Planned, toSessionDTO(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// AdvanceLifecycle transitions past-due scheduled sessions.
func (h *Handler) AdvanceLifecycle(w http.ResponseWriter, r *http.Request) {
	if err := h.Engine.AdvanceLifecycle(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "lifecycle advance failed", err)
		return
	}
	lifecycleRuns.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "advanced"})
}

// GenerateReport builds the aggregate compliance report.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Engine.GenerateComplianceReport(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report generation failed", err)
		return
	}
	reportsGenerated.Inc()
	writeJSON(w, http.StatusOK, toReportDTO(report))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"error": message}
	if err != nil {
		body["detail"] = err.Error()
	}
	writeJSON(w, status, body)
}
