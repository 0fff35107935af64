package compliance

import (
	"math/rand"
	"time"
)

// =============================================================================
// RANDOM SOURCE - Injectable so plans and simulations are reproducible
// =============================================================================

// Rand abstracts the pseudo-random choices made by the scheduler (date
// jitter, time slot) and the lifecycle simulator (attendance outcome,
// score). Inject a seeded source to reproduce identical plans.
type Rand interface {
	// Intn returns a uniform int in [0, n).
	Intn(n int) int

	// Float64 returns a uniform float64 in [0.0, 1.0).
	Float64() float64
}

// NewRand returns a Rand backed by math/rand with the given seed.
// The same seed reproduces the same plan.
func NewRand(seed int64) Rand {
	return rand.New(rand.NewSource(seed))
}

// Clock returns the current time. Injectable for deterministic tests.
type Clock func() time.Time

// SystemClock is the production clock.
func SystemClock() time.Time { return time.Now() }
