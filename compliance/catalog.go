/*
catalog.go - Training requirement catalog resolution and import

PURPOSE:
  Resolves the static training-requirement catalog into canonical,
  validated requirement records and instantiates them as persisted
  Trainings. The catalog is treated as injected configuration: loaded
  once per run into an immutable in-memory table, never mutated.

IMPORT SEMANTICS:
  ImportRequirements creates one Training per catalog entry whose
  title is not already present (exact title equality is the
  de-duplication key). Duplicates are silently skipped and logged at
  info level - re-importing the same catalog is not an error, it is
  the idempotent no-op path.

SEE ALSO:
  - factory/catalog.go: Built-in catalog entries and file overrides
  - calculator.go: Consumes requirements for gap detection
*/
package compliance

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/warp/compliance-engine/logger"
)

// =============================================================================
// CATALOG - Immutable requirement table
// =============================================================================

// Catalog is the resolved requirement table, indexed for the lookups
// the scheduler and reporter need.
type Catalog struct {
	Version      string
	Requirements []TrainingRequirement

	byID    map[RequirementID]TrainingRequirement
	byTitle map[string]TrainingRequirement
}

// NewCatalog validates and indexes a set of requirement records.
// Validation is strict: a malformed entry fails the whole load rather
// than silently dropping behavior.
func NewCatalog(version string, reqs []TrainingRequirement) (Catalog, error) {
	c := Catalog{
		Version:      version,
		Requirements: reqs,
		byID:         make(map[RequirementID]TrainingRequirement, len(reqs)),
		byTitle:      make(map[string]TrainingRequirement, len(reqs)),
	}
	for _, r := range reqs {
		if err := validateRequirement(r); err != nil {
			return Catalog{}, err
		}
		if _, dup := c.byID[r.ID]; dup {
			return Catalog{}, fmt.Errorf("%w: duplicate id %q", ErrInvalidRequirement, r.ID)
		}
		c.byID[r.ID] = r
		c.byTitle[r.Title] = r
	}
	return c, nil
}

func validateRequirement(r TrainingRequirement) error {
	if r.ID == "" || r.Title == "" {
		return fmt.Errorf("%w: missing id or title", ErrInvalidRequirement)
	}
	if r.MaxParticipants <= 0 {
		return fmt.Errorf("%w: %q has non-positive capacity", ErrInvalidRequirement, r.ID)
	}
	if r.ValidityMonths < 0 {
		return fmt.Errorf("%w: %q has negative validity", ErrInvalidRequirement, r.ID)
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return fmt.Errorf("%q: %w", r.ID, err)
	}
	return nil
}

// ByID resolves a catalog module id.
func (c Catalog) ByID(id RequirementID) (TrainingRequirement, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// ForTraining resolves the catalog entry a training was instantiated
// from, by module id first and exact title as fallback (trainings
// imported before module ids were tracked).
func (c Catalog) ForTraining(t Training) (TrainingRequirement, bool) {
	if r, ok := c.byID[t.ModuleID]; ok {
		return r, true
	}
	r, ok := c.byTitle[t.Title]
	return r, ok
}

// =============================================================================
// IMPORT - Instantiate catalog entries as persisted trainings
// =============================================================================

// ImportRequirements creates a Training for every catalog entry whose
// title is not already present in the store. Existing titles are
// skipped, not errors. Returns the newly created trainings.
func ImportRequirements(ctx context.Context, repo Repository, c Catalog, log logger.Logger) ([]Training, error) {
	existing, err := repo.GetAllTrainings(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trainings: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.Title] = true
	}

	var created []Training
	for _, req := range c.Requirements {
		if known[req.Title] {
			log.Infof("catalog import: %q already present, skipping", req.Title)
			continue
		}

		t := Training{
			ID:             TrainingID(uuid.NewString()),
			ModuleID:       req.ID,
			Title:          req.Title,
			Roles:          append([]Role(nil), req.Roles...),
			DurationHours:  req.DurationHours,
			ValidityMonths: req.ValidityMonths,
		}
		stored, err := repo.CreateTraining(ctx, t)
		if err != nil {
			return created, fmt.Errorf("create training %q: %w", req.Title, err)
		}
		created = append(created, stored)
		known[req.Title] = true
	}

	if len(created) > 0 {
		log.Infof("catalog import: created %d trainings (catalog version %s)", len(created), c.Version)
	}
	return created, nil
}
