/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract,
  allowing field renaming and version evolution without breaking
  clients.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/compliance-engine/compliance"
)

// =============================================================================
// EMPLOYEE / COMPLIANCE
// =============================================================================

// EmployeeDTO represents an employee with their compliance snapshot.
type EmployeeDTO struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles"`
	Service string   `json:"service"`

	Compliance *SnapshotDTO `json:"compliance,omitempty"`
}

// SnapshotDTO is the derived compliance state of one employee.
type SnapshotDTO struct {
	EmployeeID     string `json:"employee_id"`
	TotalRequired  int    `json:"total_required"`
	CompletedCount int    `json:"completed_count"`
	ExpiredCount   int    `json:"expired_count"`
	MissingCount   int    `json:"missing_count"`
	Rate           int    `json:"rate"`
}

// GapsDTO details one employee's open gaps.
type GapsDTO struct {
	Missing []string           `json:"missing"` // training titles
	Expired []ExpiredRecordDTO `json:"expired"`
	Next    *NextExpirationDTO `json:"next_expiration,omitempty"`
}

type ExpiredRecordDTO struct {
	TrainingTitle  string    `json:"training_title"`
	ExpirationDate time.Time `json:"expiration_date"`
	DaysOverdue    int       `json:"days_overdue"`
}

type NextExpirationDTO struct {
	TrainingTitle string `json:"training_title"`
	DaysUntil     int    `json:"days_until"`
}

// =============================================================================
// TRAINING / SESSION
// =============================================================================

type TrainingDTO struct {
	ID             string       `json:"id"`
	ModuleID       string       `json:"module_id"`
	Title          string       `json:"title"`
	Roles          []string     `json:"roles"`
	DurationHours  int          `json:"duration_hours"`
	ValidityMonths int          `json:"validity_months"`
	Sessions       []SessionDTO `json:"sessions"`
}

type SessionDTO struct {
	ID              string          `json:"id"`
	TrainingID      string          `json:"training_id"`
	Date            time.Time       `json:"date"`
	Instructor      string          `json:"instructor"`
	Location        string          `json:"location"`
	MaxParticipants int             `json:"max_participants"`
	Status          string          `json:"status"`
	Attendance      []AttendanceDTO `json:"attendance"`
}

type AttendanceDTO struct {
	EmployeeID        string     `json:"employee_id"`
	Status            string     `json:"status"`
	Score             *int       `json:"score,omitempty"`
	CertificationDate *time.Time `json:"certification_date,omitempty"`
	ExpirationDate    *time.Time `json:"expiration_date,omitempty"`
}

// PlanSessionsRequest bounds the normal scheduling window.
type PlanSessionsRequest struct {
	WeeksAhead int `json:"weeks_ahead"`
}

// PlanSessionsResponse lists the sessions a planning run created.
type PlanSessionsResponse struct {
	Planned []SessionDTO `json:"planned"`
}

// ImportResponse lists the trainings an import created.
type ImportResponse struct {
	CatalogVersion string        `json:"catalog_version"`
	Created        []TrainingDTO `json:"created"`
}

// =============================================================================
// REPORT
// =============================================================================

type ReportDTO struct {
	GeneratedAt              time.Time           `json:"generated_at"`
	OverallCompliance        int                 `json:"overall_compliance"`
	ByCategory               map[string]int      `json:"by_category"`
	ByRole                   map[string]RoleDTO  `json:"by_role"`
	ServiceCompliance        []ServiceDTO        `json:"service_compliance"`
	ServicesNeedingAttention []ServiceDTO        `json:"services_needing_attention"`
	UrgentActions            []UrgentActionDTO   `json:"urgent_actions"`
	EmployeesRequiringAction []EmployeeActionDTO `json:"employees_requiring_action"`
}

type RoleDTO struct {
	EmployeeCount  int `json:"employee_count"`
	AverageRate    int `json:"average_rate"`
	CriticalIssues int `json:"critical_issues"`
}

type ServiceDTO struct {
	Service       string `json:"service"`
	EmployeeCount int    `json:"employee_count"`
	AverageRate   int    `json:"average_rate"`
	ExpiredCount  int    `json:"expired_count"`
}

type UrgentActionDTO struct {
	Type          string `json:"type"`
	EmployeeID    string `json:"employee_id"`
	EmployeeName  string `json:"employee_name"`
	TrainingID    string `json:"training_id"`
	TrainingTitle string `json:"training_title"`
	Category      string `json:"category,omitempty"`
	DaysOverdue   int    `json:"days_overdue,omitempty"`
}

type EmployeeActionDTO struct {
	EmployeeID      string `json:"employee_id"`
	Name            string `json:"name"`
	Service         string `json:"service"`
	Rate            int    `json:"rate"`
	CriticalMissing int    `json:"critical_missing"`
	ExpiredCount    int    `json:"expired_count"`
	Priority        string `json:"priority"`
}

func toReportDTO(r compliance.ComplianceReport) ReportDTO {
	dto := ReportDTO{
		GeneratedAt:       r.GeneratedAt,
		OverallCompliance: r.OverallCompliance,
		ByCategory:        make(map[string]int, len(r.ByCategory)),
		ByRole:            make(map[string]RoleDTO, len(r.ByRole)),
	}
	for category, count := range r.ByCategory {
		dto.ByCategory[string(category)] = count
	}
	for role, rc := range r.ByRole {
		dto.ByRole[string(role)] = RoleDTO{
			EmployeeCount:  rc.EmployeeCount,
			AverageRate:    rc.AverageRate,
			CriticalIssues: rc.CriticalIssues,
		}
	}
	for _, sc := range r.ServiceCompliance {
		dto.ServiceCompliance = append(dto.ServiceCompliance, toServiceDTO(sc))
	}
	for _, sc := range r.ServicesNeedingAttention {
		dto.ServicesNeedingAttention = append(dto.ServicesNeedingAttention, toServiceDTO(sc))
	}
	for _, a := range r.UrgentActions {
		dto.UrgentActions = append(dto.UrgentActions, UrgentActionDTO{
			Type:          string(a.Type),
			EmployeeID:    string(a.EmployeeID),
			EmployeeName:  a.EmployeeName,
			TrainingID:    string(a.TrainingID),
			TrainingTitle: a.TrainingTitle,
			Category:      string(a.Category),
			DaysOverdue:   a.DaysOverdue,
		})
	}
	for _, e := range r.EmployeesRequiringAction {
		dto.EmployeesRequiringAction = append(dto.EmployeesRequiringAction, EmployeeActionDTO{
			EmployeeID:      string(e.EmployeeID),
			Name:            e.Name,
			Service:         e.Service,
			Rate:            e.Rate,
			CriticalMissing: e.CriticalMissing,
			ExpiredCount:    e.ExpiredCount,
			Priority:        string(e.Priority),
		})
	}
	return dto
}

func toServiceDTO(sc compliance.ServiceCompliance) ServiceDTO {
	return ServiceDTO{
		Service:       sc.Service,
		EmployeeCount: sc.EmployeeCount,
		AverageRate:   sc.AverageRate,
		ExpiredCount:  sc.ExpiredCount,
	}
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// MAPPING HELPERS
// =============================================================================

func toEmployeeDTO(e compliance.Employee, snap *compliance.ComplianceSnapshot) EmployeeDTO {
	roles := make([]string, 0, len(e.Roles))
	for _, r := range e.Roles {
		roles = append(roles, string(r))
	}
	dto := EmployeeDTO{
		ID:      string(e.ID),
		Name:    e.Name,
		Roles:   roles,
		Service: e.Service,
	}
	if snap != nil {
		s := toSnapshotDTO(*snap)
		dto.Compliance = &s
	}
	return dto
}

func toSnapshotDTO(s compliance.ComplianceSnapshot) SnapshotDTO {
	return SnapshotDTO{
		EmployeeID:     string(s.EmployeeID),
		TotalRequired:  s.TotalRequired,
		CompletedCount: s.CompletedCount,
		ExpiredCount:   s.ExpiredCount,
		MissingCount:   s.MissingCount,
		Rate:           s.Rate,
	}
}

func toTrainingDTO(t compliance.Training) TrainingDTO {
	roles := make([]string, 0, len(t.Roles))
	for _, r := range t.Roles {
		roles = append(roles, string(r))
	}
	sessions := make([]SessionDTO, 0, len(t.Sessions))
	for _, s := range t.Sessions {
		sessions = append(sessions, toSessionDTO(s))
	}
	return TrainingDTO{
		ID:             string(t.ID),
		ModuleID:       string(t.ModuleID),
		Title:          t.Title,
		Roles:          roles,
		DurationHours:  t.DurationHours,
		ValidityMonths: t.ValidityMonths,
		Sessions:       sessions,
	}
}

func toSessionDTO(s compliance.Session) SessionDTO {
	attendance := make([]AttendanceDTO, 0, len(s.Attendance))
	for _, a := range s.Attendance {
		attendance = append(attendance, AttendanceDTO{
			EmployeeID:        string(a.EmployeeID),
			Status:            string(a.Status),
			Score:             a.Score,
			CertificationDate: a.CertificationDate,
			ExpirationDate:    a.ExpirationDate,
		})
	}
	return SessionDTO{
		ID:              string(s.ID),
		TrainingID:      string(s.TrainingID),
		Date:            s.Date,
		Instructor:      s.Instructor,
		Location:        s.Location,
		MaxParticipants: s.MaxParticipants,
		Status:          string(s.Status),
		Attendance:      attendance,
	}
}
