/*
Package factory provides the training-requirement catalog definitions.

PURPOSE:
  The catalog is static, versioned configuration: which training
  modules exist, which roles mandate them, how long certifications
  stay valid, and the session capacity per module. The built-in
  catalog covers a workplace-safety program; deployments override it
  with a YAML/JSON file.

CATALOG FILE FORMAT (YAML or JSON, chosen by extension):

  version: "2026.1"
  requirements:
    - id: fire-safety
      title: Fire Safety & Evacuation
      category: critical
      duration_hours: 4
      validity_months: 12
      roles: [EMPLOYEE, SUPERVISOR, MANAGER]
      max_participants: 12
      delivery: classroom
      practical_test: true
      exam_required: false

  Unknown category values fail the load; the engine never runs
  against a partially understood catalog.

SEE ALSO:
  - compliance/catalog.go: Validation, indexing and import
  - config/config.go: Where the catalog file path comes from
*/
package factory

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/warp/compliance-engine/compliance"
)

// BuiltinVersion identifies the embedded catalog revision.
const BuiltinVersion = "builtin-2026.1"

// =============================================================================
// BUILT-IN CATALOG - Workplace-safety training program
// =============================================================================

// BuiltinCatalog returns the embedded requirement catalog.
func BuiltinCatalog() (compliance.Catalog, error) {
	return compliance.NewCatalog(BuiltinVersion, builtinRequirements())
}

func builtinRequirements() []compliance.TrainingRequirement {
	return []compliance.TrainingRequirement{
		{
			ID:              "fire-safety",
			Title:           "Fire Safety & Evacuation",
			Category:        compliance.CategoryCritical,
			DurationHours:   4,
			ValidityMonths:  12,
			Roles:           []compliance.Role{"EMPLOYEE", "SUPERVISOR", "MANAGER"},
			MaxParticipants: 12,
			Delivery:        compliance.DeliveryClassroom,
			PracticalTest:   true,
		},
		{
			ID:              "first-aid",
			Title:           "First Aid Responder",
			Category:        compliance.CategoryCritical,
			DurationHours:   14,
			ValidityMonths:  24,
			Roles:           []compliance.Role{"EMPLOYEE", "SUPERVISOR", "MANAGER", "TECHNICIAN"},
			MaxParticipants: 10,
			Delivery:        compliance.DeliveryClassroom,
			PracticalTest:   true,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 70},
		},
		{
			ID:              "electrical-habilitation",
			Title:           "Electrical Habilitation",
			Category:        compliance.CategoryCritical,
			DurationHours:   21,
			ValidityMonths:  36,
			Roles:           []compliance.Role{"TECHNICIAN", "MAINTENANCE"},
			MaxParticipants: 8,
			Delivery:        compliance.DeliveryClassroom,
			PracticalTest:   true,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 80},
		},
		{
			ID:              "forklift-permit",
			Title:           "Forklift Operation Permit",
			Category:        compliance.CategorySpecialized,
			DurationHours:   21,
			ValidityMonths:  60,
			Roles:           []compliance.Role{"WAREHOUSE_OPERATOR"},
			MaxParticipants: 6,
			Delivery:        compliance.DeliveryClassroom,
			PracticalTest:   true,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 75},
		},
		{
			ID:              "hazmat-handling",
			Title:           "Hazardous Materials Handling",
			Category:        compliance.CategoryMandatory,
			DurationHours:   7,
			ValidityMonths:  24,
			Roles:           []compliance.Role{"TECHNICIAN", "WAREHOUSE_OPERATOR", "MAINTENANCE"},
			MaxParticipants: 10,
			Delivery:        compliance.DeliveryClassroom,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 70},
		},
		{
			ID:              "data-protection",
			Title:           "Data Protection Awareness",
			Category:        compliance.CategoryMandatory,
			DurationHours:   2,
			ValidityMonths:  24,
			Roles:           []compliance.Role{"EMPLOYEE", "SUPERVISOR", "MANAGER", "TECHNICIAN", "WAREHOUSE_OPERATOR", "MAINTENANCE"},
			MaxParticipants: 20,
			Delivery:        compliance.DeliveryELearning,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 60},
		},
		{
			ID:              "workstation-ergonomics",
			Title:           "Workstation Ergonomics",
			Category:        compliance.CategoryPrevention,
			DurationHours:   3,
			ValidityMonths:  0, // never expires
			Roles:           []compliance.Role{"EMPLOYEE", "MANAGER"},
			MaxParticipants: 15,
			Delivery:        compliance.DeliveryELearning,
		},
		{
			ID:              "safety-leadership",
			Title:           "Safety Leadership",
			Category:        compliance.CategoryManagement,
			DurationHours:   7,
			ValidityMonths:  36,
			Roles:           []compliance.Role{"MANAGER", "SUPERVISOR"},
			MaxParticipants: 12,
			Delivery:        compliance.DeliveryBlended,
		},
		{
			ID:              "risk-assessment",
			Title:           "Workplace Risk Assessment",
			Category:        compliance.CategoryPrevention,
			DurationHours:   7,
			ValidityMonths:  24,
			Roles:           []compliance.Role{"SUPERVISOR"},
			MaxParticipants: 12,
			Delivery:        compliance.DeliveryBlended,
			Certification:   compliance.CertificationRule{ExamRequired: true, PassingScore: 70},
		},
	}
}

// Instructors maps catalog module ids to their assigned instructor.
// Modules without an entry fall back to a generic label at planning
// time.
func Instructors() map[compliance.RequirementID]string {
	return map[compliance.RequirementID]string{
		"fire-safety":             "M. Durand (Fire Marshal)",
		"first-aid":               "Dr. S. Keller",
		"electrical-habilitation": "J. Novak (Certified Electrician)",
		"forklift-permit":         "P. Santos (Logistics Trainer)",
		"hazmat-handling":         "A. Lindgren (HSE Officer)",
		"safety-leadership":       "C. Moreau (HSE Manager)",
		"risk-assessment":         "C. Moreau (HSE Manager)",
	}
}

// =============================================================================
// FILE CATALOG - Deployment overrides
// =============================================================================

type requirementDTO struct {
	ID              string   `koanf:"id"`
	Title           string   `koanf:"title"`
	Category        string   `koanf:"category"`
	DurationHours   int      `koanf:"duration_hours"`
	ValidityMonths  int      `koanf:"validity_months"`
	Roles           []string `koanf:"roles"`
	MaxParticipants int      `koanf:"max_participants"`
	Delivery        string   `koanf:"delivery"`
	PracticalTest   bool     `koanf:"practical_test"`
	ExamRequired    bool     `koanf:"exam_required"`
	PassingScore    int      `koanf:"passing_score"`
}

type catalogDTO struct {
	Version      string           `koanf:"version"`
	Requirements []requirementDTO `koanf:"requirements"`
}

// LoadCatalogFile reads a catalog override from a YAML or JSON file.
func LoadCatalogFile(path string) (compliance.Catalog, error) {
	k := koanf.New(".")
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return compliance.Catalog{}, fmt.Errorf("unsupported catalog format: %s", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return compliance.Catalog{}, fmt.Errorf("load catalog %s: %w", path, err)
	}

	var dto catalogDTO
	if err := k.Unmarshal("", &dto); err != nil {
		return compliance.Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	reqs := make([]compliance.TrainingRequirement, 0, len(dto.Requirements))
	for _, rd := range dto.Requirements {
		category, err := compliance.ParseCategory(rd.Category)
		if err != nil {
			return compliance.Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
		}
		roles := make([]compliance.Role, 0, len(rd.Roles))
		for _, r := range rd.Roles {
			roles = append(roles, compliance.Role(r))
		}
		reqs = append(reqs, compliance.TrainingRequirement{
			ID:              compliance.RequirementID(rd.ID),
			Title:           rd.Title,
			Category:        category,
			DurationHours:   rd.DurationHours,
			ValidityMonths:  rd.ValidityMonths,
			Roles:           roles,
			MaxParticipants: rd.MaxParticipants,
			Delivery:        compliance.DeliveryMethod(rd.Delivery),
			PracticalTest:   rd.PracticalTest,
			Certification: compliance.CertificationRule{
				ExamRequired: rd.ExamRequired,
				PassingScore: rd.PassingScore,
			},
		})
	}

	version := dto.Version
	if version == "" {
		version = filepath.Base(path)
	}
	return compliance.NewCatalog(version, reqs)
}

// Load resolves the catalog: the file at path when given, the built-in
// program otherwise.
func Load(path string) (compliance.Catalog, error) {
	if path == "" {
		return BuiltinCatalog()
	}
	return LoadCatalogFile(path)
}
