/*
engine.go - Batch-pipeline facade over the engine stages

PURPOSE:
  Wires the catalog, calculator, scheduler, lifecycle simulator and
  reporter over a single Repository and exposes the invocation surface
  hosts call: import, analyze, plan, advance, report.

PIPELINE:
  Catalog -> Calculator -> Scheduler -> Lifecycle -> Reporter, run
  sequentially with no internal parallelism. Each stage reads the full
  in-memory snapshot from the repository and writes back at the end.
  At-most-one logical run is assumed: concurrent callers planning
  against the same training risk double-booking (no distributed
  locking; documented limitation).

SEE ALSO:
  - api/handlers.go: HTTP surface over this facade
  - cmd/run.go: One-shot pipeline invocation
*/
package compliance

import (
	"context"
	"time"

	"github.com/warp/compliance-engine/logger"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine is the single entry point hosts interact with.
type Engine struct {
	repo    Repository
	catalog Catalog
	rand    Rand
	now     Clock
	log     logger.Logger

	instructors     map[RequirementID]string
	passProbability float64
}

// Options tunes the non-deterministic parts of the engine. Zero values
// fall back to production defaults.
type Options struct {
	Rand            Rand
	Now             Clock
	Log             logger.Logger
	Instructors     map[RequirementID]string
	PassProbability float64
}

// NewEngine builds an engine over a repository and a loaded catalog.
func NewEngine(repo Repository, catalog Catalog, opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = NewRand(time.Now().UnixNano())
	}
	if opts.Now == nil {
		opts.Now = SystemClock
	}
	if opts.Log == nil {
		opts.Log = logger.Nop{}
	}
	return &Engine{
		repo:            repo,
		catalog:         catalog,
		rand:            opts.Rand,
		now:             opts.Now,
		log:             opts.Log,
		instructors:     opts.Instructors,
		passProbability: opts.PassProbability,
	}
}

// Catalog returns the loaded requirement table.
func (e *Engine) Catalog() Catalog { return e.catalog }

// ImportRequirements instantiates catalog entries as trainings,
// skipping titles that already exist.
func (e *Engine) ImportRequirements(ctx context.Context) ([]Training, error) {
	return ImportRequirements(ctx, e.repo, e.catalog, e.log)
}

// AnalyzeComplianceForAllEmployees recomputes every employee's
// compliance snapshot. Read-only.
func (e *Engine) AnalyzeComplianceForAllEmployees(ctx context.Context) ([]ComplianceSnapshot, error) {
	employees, err := e.repo.GetAllEmployees(ctx)
	if err != nil {
		return nil, err
	}
	trainings, err := e.repo.GetAllTrainings(ctx)
	if err != nil {
		return nil, err
	}
	calc := Calculator{Catalog: e.catalog}
	return calc.AnalyzeAll(employees, trainings, e.now()), nil
}

// AnalyzeEmployee computes one employee's snapshot and gap detail.
func (e *Engine) AnalyzeEmployee(ctx context.Context, id EmployeeID) (ComplianceSnapshot, Gaps, error) {
	employees, err := e.repo.GetAllEmployees(ctx)
	if err != nil {
		return ComplianceSnapshot{}, Gaps{}, err
	}
	var employee *Employee
	for i := range employees {
		if employees[i].ID == id {
			employee = &employees[i]
			break
		}
	}
	if employee == nil {
		return ComplianceSnapshot{}, Gaps{}, ErrEmployeeNotFound
	}

	trainings, err := e.repo.GetAllTrainings(ctx)
	if err != nil {
		return ComplianceSnapshot{}, Gaps{}, err
	}
	calc := Calculator{Catalog: e.catalog}
	now := e.now()
	required := calc.ResolveRequired(*employee, trainings)
	return calc.Snapshot(*employee, trainings, now), calc.ComputeGaps(*employee, required, now), nil
}

// PlanSessions schedules sessions covering current unmet demand within
// the given horizon.
func (e *Engine) PlanSessions(ctx context.Context, weeksAhead int) ([]Session, error) {
	sc := &Scheduler{
		Repo:        e.repo,
		Catalog:     e.catalog,
		Rand:        e.rand,
		Now:         e.now,
		Log:         e.log,
		Instructors: e.instructors,
	}
	return sc.PlanSessions(ctx, weeksAhead)
}

// AdvanceLifecycle transitions past-due scheduled sessions to their
// terminal outcomes.
func (e *Engine) AdvanceLifecycle(ctx context.Context) error {
	sim := &Simulator{
		Repo:            e.repo,
		Rand:            e.rand,
		Now:             e.now,
		Log:             e.log,
		PassProbability: e.passProbability,
	}
	return sim.Advance(ctx)
}

// GenerateComplianceReport builds the aggregate report. Read-only.
func (e *Engine) GenerateComplianceReport(ctx context.Context) (ComplianceReport, error) {
	employees, err := e.repo.GetAllEmployees(ctx)
	if err != nil {
		return ComplianceReport{}, err
	}
	trainings, err := e.repo.GetAllTrainings(ctx)
	if err != nil {
		return ComplianceReport{}, err
	}
	r := Reporter{Catalog: e.catalog, Now: e.now}
	return r.Generate(employees, trainings), nil
}
