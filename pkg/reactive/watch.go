package reactive

import (
	"sync"
	"sync/atomic"
)

// Watcher is a reactive side effect that re-runs when its dependencies
// change. Watchers are created with WatchEffect and are tracked for
// dependencies during each execution.
//
// A watcher runs immediately when created, and re-runs whenever any ref or
// computed it read during its most recent run changes. It can return a
// Cleanup that is called before the watcher re-runs or when it is disposed.
//
// A write the watcher performs to one of its own dependencies does not
// re-trigger the watcher in the same update cycle; see refBase.notifySubscribers.
type Watcher struct {
	id uint64

	// fn is the watcher body.
	fn func() Cleanup

	// cleanup is the cleanup from the last run.
	cleanup Cleanup

	// sources are the refs/computeds this watcher depends on.
	// Re-derived on every run.
	sources   []*refBase
	sourcesMu sync.Mutex

	// scope is the Scope that owns this watcher.
	scope *Scope

	// pending indicates the watcher is scheduled to re-run.
	pending atomic.Bool

	// disposed indicates the watcher has been disposed.
	disposed atomic.Bool

	// immediate makes MarkDirty re-run the watcher synchronously instead
	// of scheduling it for the next Flush. Used by adapters bridging to
	// runtimes that have no flush cycle of their own.
	immediate bool

	// name is an optional label for observability.
	name string
}

// MarkDirty schedules the watcher to re-run.
// Implements the Listener interface.
func (w *Watcher) MarkDirty() {
	if w.disposed.Load() {
		return
	}

	// CAS ensures the watcher is scheduled at most once per cycle
	if w.pending.CompareAndSwap(false, true) {
		if w.immediate {
			w.run()
			return
		}
		if w.scope != nil {
			w.scope.scheduleWatcher(w)
		}
	}
}

// ID returns the unique identifier for this watcher.
// Implements the Listener interface.
func (w *Watcher) ID() uint64 {
	return w.id
}

// Name returns the watcher's label, or "" if none was set.
func (w *Watcher) Name() string {
	return w.name
}

// run executes the watcher body, re-deriving its dependency set.
// Called on creation and whenever dependencies change.
func (w *Watcher) run() {
	if w.disposed.Load() {
		return
	}

	w.pending.Store(false)

	// Cleanup from the previous run
	if w.cleanup != nil {
		w.cleanup()
		w.cleanup = nil
	}

	// Drop the old dependency set; the body re-subscribes what it reads
	w.sourcesMu.Lock()
	for _, source := range w.sources {
		source.unsubscribe(w)
	}
	w.sources = w.sources[:0]
	w.sourcesMu.Unlock()

	oldListener := setCurrentListener(w)
	oldWatcher := setCurrentWatcher(w)

	w.cleanup = w.fn()

	setCurrentWatcher(oldWatcher)
	setCurrentListener(oldListener)
}

// addSource records a dependency. Implements the sourceTracker interface.
func (w *Watcher) addSource(source *refBase) {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()

	for _, s := range w.sources {
		if s == source {
			return
		}
	}
	w.sources = append(w.sources, source)
}

// sourceCount returns the size of the current dependency set.
// Used by tests and the dev tooling.
func (w *Watcher) sourceCount() int {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()
	return len(w.sources)
}

// dependsOn reports whether the watcher currently subscribes to the given
// source ID.
func (w *Watcher) dependsOn(id uint64) bool {
	w.sourcesMu.Lock()
	defer w.sourcesMu.Unlock()
	for _, s := range w.sources {
		if s.getID() == id {
			return true
		}
	}
	return false
}

// Dispose stops the watcher, runs its pending cleanup, and unsubscribes
// from all sources. Safe to call more than once.
func (w *Watcher) Dispose() {
	if w.disposed.Swap(true) {
		return
	}

	if w.cleanup != nil {
		w.cleanup()
		w.cleanup = nil
	}

	w.sourcesMu.Lock()
	for _, source := range w.sources {
		source.unsubscribe(w)
	}
	w.sources = nil
	w.sourcesMu.Unlock()
}

// WatchOption configures a Watcher.
type WatchOption interface {
	applyWatch(w *Watcher)
}

type watchOptionFunc func(*Watcher)

func (f watchOptionFunc) applyWatch(w *Watcher) { f(w) }

// WatchName labels the watcher for logs and DevTools entries.
func WatchName(name string) WatchOption {
	return watchOptionFunc(func(w *Watcher) {
		w.name = name
	})
}

// WatchImmediate makes the watcher re-run synchronously when a dependency
// changes, bypassing the scope's pending queue. Self-writes still do not
// re-trigger the watcher.
func WatchImmediate() WatchOption {
	return watchOptionFunc(func(w *Watcher) {
		w.immediate = true
	})
}

// WatchEffect creates and runs a watcher within the current scope.
// The body runs immediately and re-runs when any ref or computed it reads
// changes. If the body returns a Cleanup, it is called before each re-run
// and on disposal.
//
//	reactive.WatchEffect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return func() { /* release */ }
//	})
func WatchEffect(fn func() Cleanup, opts ...WatchOption) *Watcher {
	scope := getCurrentScope()

	if scope != nil {
		scope.trackHook(hookWatcher)
	}

	w := &Watcher{
		id:    nextID(),
		fn:    fn,
		scope: scope,
	}

	for _, opt := range opts {
		opt.applyWatch(w)
	}

	if scope != nil {
		scope.registerWatcher(w)
	}

	// First run tracks the initial dependency set
	w.run()

	return w
}

// OnMount runs fn once when the component instance is set up.
// Equivalent to a watcher with no reactive dependencies.
func OnMount(fn func()) {
	WatchEffect(func() Cleanup {
		fn()
		return nil
	})
}

// OnUnmount registers fn to run when the owning scope is disposed.
func OnUnmount(fn func()) {
	scope := getCurrentScope()
	if scope != nil {
		scope.OnCleanup(fn)
	}
}

// OnUpdate creates a watcher that skips its callback on the first run.
// deps establishes the dependency set; callback only runs on later cycles
// when those dependencies change.
//
//	reactive.OnUpdate(
//	    func() { _ = count.Get() },
//	    func() { fmt.Println("changed") },
//	)
func OnUpdate(deps func(), callback func()) {
	first := true
	WatchEffect(func() Cleanup {
		deps() // Always read, to keep the dependency set current
		if first {
			first = false
			return nil
		}
		callback()
		return nil
	})
}
