/*
Package compliance provides the training compliance and scheduling engine.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  whether personnel hold the qualifications their roles require,
  detecting gaps (missing or expired certifications), and planning
  remedial training sessions under capacity and calendar constraints.

KEY CONCEPTS IN THIS FILE (types.go):
  - TrainingRequirement: Catalog definition of a mandatory training
  - Training: The persisted, instantiated form of a requirement
  - Session: One scheduled occurrence of a Training, with a roster
  - Attendance: An employee's participation record with outcome dates
  - ComplianceSnapshot: Derived per-employee compliance state

DESIGN PRINCIPLES:
  1. Requirements are immutable once loaded from the catalog
  2. Sessions and attendance are append-mostly: status moves forward,
     records are never deleted
  3. Categories are a closed enumeration, not free-form strings
  4. Type safety: strong typing for IDs prevents mixing employee,
     training and session identifiers

USAGE:
  req := compliance.TrainingRequirement{
      ID:       "fire-safety",
      Title:    "Fire Safety",
      Category: compliance.CategoryCritical,
      Roles:    []compliance.Role{"EMPLOYEE", "SUPERVISOR"},
  }

SEE ALSO:
  - catalog.go: Catalog loading and requirement import
  - calculator.go: Gap detection and compliance rates
  - scheduler.go: Session planning
*/
package compliance

import (
	"fmt"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type RequirementID string
type TrainingID string
type SessionID string

// Role is a job-role label (membership, not ranked). Employees carry a
// set of roles; requirements carry the set of roles that mandate them.
type Role string

// =============================================================================
// CATEGORY - Closed criticality enumeration
// =============================================================================

// Category tags a requirement with its criticality tier.
// The set is closed: unknown catalog values fail at load time instead
// of silently driving behavior at runtime.
type Category string

const (
	CategoryCritical    Category = "critical"
	CategoryMandatory   Category = "mandatory"
	CategorySpecialized Category = "specialized"
	CategoryManagement  Category = "management"
	CategoryPrevention  Category = "prevention"
)

// ParseCategory validates a raw catalog value against the closed set.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryCritical, CategoryMandatory, CategorySpecialized,
		CategoryManagement, CategoryPrevention:
		return Category(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// IsCriticalTier reports whether missing this category warrants an
// urgent action entry (Critical and Mandatory tiers).
func (c Category) IsCriticalTier() bool {
	return c == CategoryCritical || c == CategoryMandatory
}

// =============================================================================
// DELIVERY METHOD
// =============================================================================

type DeliveryMethod string

const (
	DeliveryClassroom DeliveryMethod = "classroom"
	DeliveryELearning DeliveryMethod = "e-learning"
	DeliveryBlended   DeliveryMethod = "blended"
)

// =============================================================================
// EMPLOYEE - Read-only view of the personnel directory
// =============================================================================

// Employee is owned by an external personnel directory; this engine
// only reads it.
type Employee struct {
	ID      EmployeeID
	Name    string
	Roles   []Role
	Service string // department label used for report grouping
}

// HasRole reports whether the employee holds the given role.
func (e Employee) HasRole(role Role) bool {
	for _, r := range e.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the employee's role set intersects roles.
// Intersection, not subset: one shared role is enough.
func (e Employee) HasAnyRole(roles []Role) bool {
	for _, r := range roles {
		if e.HasRole(r) {
			return true
		}
	}
	return false
}

// =============================================================================
// TRAINING REQUIREMENT - Immutable catalog record
// =============================================================================

// CertificationRule describes how a requirement is certified.
type CertificationRule struct {
	ExamRequired bool
	PassingScore int // 0-100, meaningful only when ExamRequired
}

// TrainingRequirement is the canonical form of a catalog entry.
// Created by the catalog loader, never mutated at runtime.
type TrainingRequirement struct {
	ID              RequirementID
	Title           string
	Category        Category
	DurationHours   int
	ValidityMonths  int // 0 = certification never expires
	Roles           []Role
	MaxParticipants int
	Delivery        DeliveryMethod
	PracticalTest   bool // requires an on-site practical assessment
	Certification   CertificationRule
}

// Expires reports whether certifications for this requirement have a
// finite validity.
func (r TrainingRequirement) Expires() bool { return r.ValidityMonths > 0 }

// =============================================================================
// TRAINING - Persisted instantiation of a requirement
// =============================================================================

// Training is created once per catalog requirement (idempotent import,
// de-duplicated by exact title) and owns zero or more sessions.
type Training struct {
	ID             TrainingID
	ModuleID       RequirementID // originating catalog entry
	Title          string
	Roles          []Role
	DurationHours  int
	ValidityMonths int
	Sessions       []Session
}

// =============================================================================
// SESSION - One scheduled occurrence of a training
// =============================================================================

type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type Session struct {
	ID              SessionID
	TrainingID      TrainingID
	Date            time.Time
	Instructor      string
	Location        string
	MaxParticipants int
	Status          SessionStatus
	Attendance      []Attendance
}

// HasCapacity reports whether another attendance record fits.
func (s Session) HasCapacity() bool {
	return len(s.Attendance) < s.MaxParticipants
}

// =============================================================================
// ATTENDANCE - An employee's participation record
// =============================================================================

type AttendanceStatus string

const (
	AttendanceRegistered AttendanceStatus = "registered"
	AttendanceCompleted  AttendanceStatus = "completed"
	AttendanceAbsent     AttendanceStatus = "absent"
)

// Attendance invariant: ExpirationDate is set iff Status is completed
// and the training has a finite validity, in which case
// ExpirationDate = CertificationDate + validity months.
type Attendance struct {
	EmployeeID        EmployeeID
	Status            AttendanceStatus
	Score             *int // 0-100
	CertificationDate *time.Time
	ExpirationDate    *time.Time
}

// =============================================================================
// COMPLIANCE SNAPSHOT - Derived, never persisted
// =============================================================================

// ComplianceSnapshot is recomputed on demand; caching, if any, is an
// external-layer concern.
type ComplianceSnapshot struct {
	EmployeeID     EmployeeID
	TotalRequired  int
	CompletedCount int
	ExpiredCount   int
	MissingCount   int
	Rate           int // 0-100, 100 when nothing is required
}

// Compliant reports whether the employee has no open gap.
func (s ComplianceSnapshot) Compliant() bool {
	return s.MissingCount == 0 && s.ExpiredCount == 0
}
