package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// METRICS - Pipeline counters exposed on /metrics
// =============================================================================

var (
	importRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_catalog_imports_total",
		Help: "Catalog import runs.",
	})
	sessionsPlanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_sessions_planned_total",
		Help: "Sessions created by planning runs.",
	})
	lifecycleRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_lifecycle_advances_total",
		Help: "Lifecycle advance runs.",
	})
	reportsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "compliance_reports_generated_total",
		Help: "Aggregate compliance reports generated.",
	})
)
