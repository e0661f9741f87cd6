package reactive

import (
	"errors"
	"sync"
)

// ErrBudgetExceeded is returned by a BudgetChecker when the per-cycle
// watcher run limit has been reached.
var ErrBudgetExceeded = errors.New("reactive: watcher budget exceeded for this cycle")

// BudgetChecker gates watcher runs during a flush cycle.
// It protects against amplification bugs where watchers cascade into more
// watchers, degrading a session or looping forever.
type BudgetChecker interface {
	// CheckRun is called before each watcher run.
	// Returning a non-nil error re-schedules the watcher for the next cycle.
	CheckRun() error
}

// CycleBudget is a BudgetChecker that allows a fixed number of watcher
// runs per update cycle. Reset is called by the runtime at the start of
// each cycle.
type CycleBudget struct {
	// MaxRuns is the number of watcher runs allowed per cycle.
	// Zero means unlimited.
	MaxRuns int

	runs int
	mu   sync.Mutex
}

// NewCycleBudget creates a budget allowing maxRuns watcher runs per cycle.
func NewCycleBudget(maxRuns int) *CycleBudget {
	return &CycleBudget{MaxRuns: maxRuns}
}

// CheckRun implements BudgetChecker.
func (b *CycleBudget) CheckRun() error {
	if b.MaxRuns == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.runs >= b.MaxRuns {
		return ErrBudgetExceeded
	}
	b.runs++
	return nil
}

// Reset clears the run counter for a new cycle.
func (b *CycleBudget) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = 0
}

// Runs returns the number of watcher runs counted this cycle.
func (b *CycleBudget) Runs() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.runs
}
