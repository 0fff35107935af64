/*
scheduler.go - Automated lifecycle scheduler

PURPOSE:
  Periodically advances the certification lifecycle: past-due
  scheduled sessions are marked completed and their attendance
  resolved, so expirations surface without a manual advance call.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each tick invokes Engine.AdvanceLifecycle once; sessions with
    future dates or terminal status are untouched by construction
  - Safe to miss a tick: the next run catches up on everything
    past due

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether the scheduler is active (default: true)

USAGE:
  scheduler := NewLifecycleScheduler(engine, log)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - compliance/lifecycle.go: The advance transition itself
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/logger"
)

// LifecycleScheduler handles automated lifecycle advancement.
type LifecycleScheduler struct {
	Engine        *compliance.Engine
	Log           logger.Logger
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewLifecycleScheduler creates a new scheduler.
func NewLifecycleScheduler(engine *compliance.Engine, log logger.Logger) *LifecycleScheduler {
	return &LifecycleScheduler{
		Engine:        engine,
		Log:           log,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ls *LifecycleScheduler) Start() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if !ls.Enabled {
		ls.Log.Infof("lifecycle scheduler disabled, not starting")
		return
	}

	ls.ticker = time.NewTicker(ls.CheckInterval)
	ls.wg.Add(1)

	go ls.run()

	ls.Log.Infof("lifecycle scheduler started with check interval %v", ls.CheckInterval)
}

// Stop stops the scheduler.
func (ls *LifecycleScheduler) Stop() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.ticker != nil {
		ls.ticker.Stop()
		close(ls.stop)
		ls.wg.Wait()
		ls.Log.Infof("lifecycle scheduler stopped")
	}
}

func (ls *LifecycleScheduler) run() {
	defer ls.wg.Done()

	// Run immediately on start
	ls.advance()

	for {
		select {
		case <-ls.ticker.C:
			ls.advance()
		case <-ls.stop:
			return
		}
	}
}

func (ls *LifecycleScheduler) advance() {
	if err := ls.Engine.AdvanceLifecycle(context.Background()); err != nil {
		ls.Log.Errorf("lifecycle scheduler: advance failed: %v", err)
		return
	}
	lifecycleRuns.Inc()
}

// RunNow triggers an immediate advance (for testing/admin).
func (ls *LifecycleScheduler) RunNow() {
	ls.advance()
}
