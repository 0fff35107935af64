package compliance_test

import (
	"context"
	"errors"
	"testing"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/compliance/store"
	"github.com/warp/compliance-engine/logger"
)

// =============================================================================
// VALIDATION
// =============================================================================

func TestNewCatalog_RejectsUnknownCategory(t *testing.T) {
	// GIVEN: A requirement with an unrecognized category label
	// WHEN: Building the catalog
	// THEN: Construction fails

	_, err := compliance.NewCatalog("test", []compliance.TrainingRequirement{{
		ID:              "bogus",
		Title:           "Bogus",
		Category:        "recommended",
		MaxParticipants: 5,
	}})
	if !errors.Is(err, compliance.ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestNewCatalog_RejectsDuplicateIDs(t *testing.T) {
	dup := compliance.TrainingRequirement{
		ID: "fire-safety", Title: "Fire Safety",
		Category: compliance.CategoryCritical, MaxParticipants: 5,
	}
	_, err := compliance.NewCatalog("test", []compliance.TrainingRequirement{dup, dup})
	if !errors.Is(err, compliance.ErrInvalidRequirement) {
		t.Fatalf("expected ErrInvalidRequirement, got %v", err)
	}
}

func TestNewCatalog_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := compliance.NewCatalog("test", []compliance.TrainingRequirement{{
		ID: "fire-safety", Title: "Fire Safety",
		Category: compliance.CategoryCritical, MaxParticipants: 0,
	}})
	if !errors.Is(err, compliance.ErrInvalidRequirement) {
		t.Fatalf("expected ErrInvalidRequirement, got %v", err)
	}
}

func TestForTraining_TitleFallback(t *testing.T) {
	// GIVEN: A training persisted without a module id
	// WHEN: Resolving its catalog entry
	// THEN: The exact title match is used

	catalog := testCatalog(t)
	legacy := compliance.Training{ID: "t-1", Title: "Fire Safety"}

	req, ok := catalog.ForTraining(legacy)
	if !ok {
		t.Fatal("expected title fallback to resolve")
	}
	if req.ID != "fire-safety" {
		t.Errorf("resolved wrong entry: %s", req.ID)
	}
}

// =============================================================================
// IMPORT
// =============================================================================

func TestImportRequirements_Idempotent(t *testing.T) {
	// GIVEN: A catalog imported once
	// WHEN: Importing again
	// THEN: No duplicate trainings are created

	repo := store.NewMemory()
	catalog := testCatalog(t)
	ctx := context.Background()

	created, err := compliance.ImportRequirements(ctx, repo, catalog, logger.Nop{})
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if len(created) != len(catalog.Requirements) {
		t.Fatalf("expected %d trainings, got %d", len(catalog.Requirements), len(created))
	}

	again, err := compliance.ImportRequirements(ctx, repo, catalog, logger.Nop{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected idempotent import, got %d new trainings", len(again))
	}

	all, err := repo.GetAllTrainings(ctx)
	if err != nil {
		t.Fatalf("load trainings: %v", err)
	}
	if len(all) != len(catalog.Requirements) {
		t.Fatalf("expected %d persisted trainings, got %d", len(catalog.Requirements), len(all))
	}
}

func TestImportRequirements_CopiesRequirementFields(t *testing.T) {
	// GIVEN: A fresh import
	// THEN: New trainings carry the catalog's roles, validity and module id

	repo := store.NewMemory()
	ctx := context.Background()

	created, err := compliance.ImportRequirements(ctx, repo, testCatalog(t), logger.Nop{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	var fire *compliance.Training
	for i := range created {
		if created[i].Title == "Fire Safety" {
			fire = &created[i]
		}
	}
	if fire == nil {
		t.Fatal("Fire Safety training not created")
	}
	if fire.ID == "" {
		t.Error("expected a generated training id")
	}
	if fire.ModuleID != "fire-safety" {
		t.Errorf("expected module id fire-safety, got %s", fire.ModuleID)
	}
	if fire.ValidityMonths != 12 {
		t.Errorf("expected 12 month validity, got %d", fire.ValidityMonths)
	}
	if len(fire.Roles) != 2 {
		t.Errorf("expected 2 roles, got %v", fire.Roles)
	}
}
