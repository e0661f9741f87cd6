package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DebugMode enables dev-time validation such as hook order checking.
// Set at startup; not meant to change while the app is running.
var DebugMode bool

// hookKind identifies the kind of hook call for order validation.
type hookKind uint8

const (
	hookComputed hookKind = iota + 1
	hookWatcher
	hookState
	hookContext
)

// String returns a human-readable name for the hook kind.
func (h hookKind) String() string {
	switch h {
	case hookComputed:
		return "Computed"
	case hookWatcher:
		return "Watcher"
	case hookState:
		return "State"
	case hookContext:
		return "Context"
	default:
		return "Unknown"
	}
}

// hookRecord records a single hook call for order validation.
type hookRecord struct {
	kind hookKind
}

// Scope is an ownership boundary for reactive primitives, typically one
// per component instance. When a Scope is disposed, all watchers, cleanup
// functions, and child scopes it contains are disposed with it.
//
// Scopes form a hierarchy mirroring the component tree: each instance's
// scope is a child of its parent instance's scope.
type Scope struct {
	id uint64

	// parent is the parent Scope, nil for a root scope (typically the
	// session).
	parent *Scope

	// children are child scopes (sub-components).
	children   []*Scope
	childrenMu sync.Mutex

	// watchers owned by this scope.
	watchers   []*Watcher
	watchersMu sync.Mutex

	// cleanups are manual cleanup functions registered via OnCleanup.
	cleanups   []func()
	cleanupsMu sync.Mutex

	// pendingWatchers are watchers scheduled to run after the current
	// update cycle.
	pendingWatchers   []*Watcher
	pendingWatchersMu sync.Mutex

	// values stores provided context values for this scope.
	values   map[any]any
	valuesMu sync.RWMutex

	// disposed indicates this scope has been disposed.
	disposed atomic.Bool

	// Dev-mode hook order tracking (only consulted when DebugMode is true)
	hookOrder   []hookRecord
	hookIndex   int
	renderCount int

	// Hook slot storage for stable identity across renders.
	// Always active, not just in DebugMode: computeds and interop state
	// need stable identity for correctness.
	hookSlots   []any
	hookSlotIdx int
}

// NewScope creates a new Scope with the given parent.
// The new scope is registered as a child of the parent.
// A nil parent creates a root scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{
		id:     nextID(),
		parent: parent,
	}

	if parent != nil {
		parent.addChild(s)
	}

	return s
}

// ID returns the unique identifier for this scope.
func (s *Scope) ID() uint64 {
	return s.id
}

// Parent returns the parent scope, or nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// IsDisposed returns true if this scope has been disposed.
func (s *Scope) IsDisposed() bool {
	return s.disposed.Load()
}

// addChild registers a child scope.
func (s *Scope) addChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()
	s.children = append(s.children, child)
}

// removeChild removes a child scope.
func (s *Scope) removeChild(child *Scope) {
	s.childrenMu.Lock()
	defer s.childrenMu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// registerWatcher adds a watcher to this scope.
// The watcher is disposed when the scope is disposed.
func (s *Scope) registerWatcher(w *Watcher) {
	if s.disposed.Load() {
		return
	}

	s.watchersMu.Lock()
	defer s.watchersMu.Unlock()
	s.watchers = append(s.watchers, w)
}

// OnCleanup registers fn to run when this scope is disposed.
// If the scope is already disposed, fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s.disposed.Load() {
		fn()
		return
	}

	s.cleanupsMu.Lock()
	defer s.cleanupsMu.Unlock()
	s.cleanups = append(s.cleanups, fn)
}

// scheduleWatcher queues a watcher to run after the current update cycle.
// Watchers run via Flush, which the server runtime calls after event
// handlers execute.
func (s *Scope) scheduleWatcher(w *Watcher) {
	if s.disposed.Load() {
		return
	}

	s.pendingWatchersMu.Lock()
	defer s.pendingWatchersMu.Unlock()
	s.pendingWatchers = append(s.pendingWatchers, w)
}

// SetValue stores a context value on this scope.
func (s *Scope) SetValue(key, value any) {
	s.valuesMu.Lock()
	defer s.valuesMu.Unlock()
	if s.values == nil {
		s.values = make(map[any]any)
	}
	s.values[key] = value
}

// Value looks up a context value on this scope or any ancestor.
// Returns (nil, false) when no scope in the chain provides the key.
func (s *Scope) Value(key any) (any, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		scope.valuesMu.RLock()
		v, ok := scope.values[key]
		scope.valuesMu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// OwnValue looks up a context value stored on this scope itself, without
// consulting ancestors.
func (s *Scope) OwnValue(key any) (any, bool) {
	s.valuesMu.RLock()
	defer s.valuesMu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Flush runs all pending watchers in this scope and, recursively, in its
// children.
//
// budget may be nil. When provided, each watcher run is checked against
// the per-cycle budget first; watchers over budget are re-scheduled for
// the next cycle instead of running.
func (s *Scope) Flush(budget BudgetChecker) {
	if s.disposed.Load() {
		return
	}

	s.pendingWatchersMu.Lock()
	watchers := s.pendingWatchers
	s.pendingWatchers = nil
	s.pendingWatchersMu.Unlock()

	for _, w := range watchers {
		if w.pending.Load() {
			if budget != nil {
				if err := budget.CheckRun(); err != nil {
					// Over budget: push to the next cycle
					w.pending.Store(true)
					s.scheduleWatcher(w)
					continue
				}
			}
			w.run()
		}
	}

	s.childrenMu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.childrenMu.Unlock()

	for _, child := range children {
		child.Flush(budget)
	}
}

// HasPending returns true if this scope or any child has pending watchers.
func (s *Scope) HasPending() bool {
	if s.disposed.Load() {
		return false
	}

	s.pendingWatchersMu.Lock()
	hasPending := len(s.pendingWatchers) > 0
	s.pendingWatchersMu.Unlock()

	if hasPending {
		return true
	}

	s.childrenMu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.childrenMu.Unlock()

	for _, child := range children {
		if child.HasPending() {
			return true
		}
	}

	return false
}

// Dispose disposes this scope along with its children, watchers, and
// cleanups. Children are disposed in reverse creation order, as are
// cleanups. A disposed scope cannot be reused.
func (s *Scope) Dispose() {
	if s.disposed.Swap(true) {
		return
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.childrenMu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.children = nil
	s.childrenMu.Unlock()

	for i := len(children) - 1; i >= 0; i-- {
		children[i].Dispose()
	}

	s.watchersMu.Lock()
	watchers := s.watchers
	s.watchers = nil
	s.watchersMu.Unlock()

	for _, w := range watchers {
		w.Dispose()
	}

	s.cleanupsMu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	s.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	s.pendingWatchersMu.Lock()
	s.pendingWatchers = nil
	s.pendingWatchersMu.Unlock()
}

// =============================================================================
// Render phase and hook slots
// =============================================================================

// StartRender is called at the beginning of a component render.
// It resets the hook slot index, and in debug mode also resets the hook
// order validation index.
func (s *Scope) StartRender() {
	beginRender()

	s.hookSlotIdx = 0

	if DebugMode {
		s.hookIndex = 0
	}
}

// EndRender is called at the end of a component render.
// In debug mode it validates that all expected hooks were called.
func (s *Scope) EndRender() {
	endRender()

	if !DebugMode {
		return
	}
	if s.renderCount == 0 {
		// First render complete, lock in the hook order
		s.renderCount = 1
	} else if s.hookIndex < len(s.hookOrder) {
		panic(fmt.Sprintf("[UNISON E002] hook order changed: expected %d hooks, got %d",
			len(s.hookOrder), s.hookIndex))
	}
}

// trackHook records a hook call during render for order validation.
// In debug mode, hooks must be called in the same order on every render;
// violations panic with a descriptive error.
func (s *Scope) trackHook(k hookKind) {
	if !DebugMode {
		return
	}

	if s.renderCount == 0 {
		s.hookOrder = append(s.hookOrder, hookRecord{kind: k})
	} else {
		if s.hookIndex >= len(s.hookOrder) {
			panic(fmt.Sprintf("[UNISON E002] hook order changed: extra %s hook at index %d",
				k, s.hookIndex))
		}
		expected := s.hookOrder[s.hookIndex]
		if expected.kind != k {
			panic(fmt.Sprintf("[UNISON E002] hook order changed at index %d: expected %s, got %s",
				s.hookIndex, expected.kind, k))
		}
	}
	s.hookIndex++
}

// useHookSlot returns the stored value for the current hook slot, or nil
// on the first render. Callers that get nil create the value and store it
// with setHookSlot. This gives hook-style constructors stable identity
// across renders.
func (s *Scope) useHookSlot() any {
	idx := s.hookSlotIdx
	s.hookSlotIdx++

	if idx < len(s.hookSlots) {
		return s.hookSlots[idx]
	}

	return nil
}

// setHookSlot stores a value in the current hook slot.
// Must follow a useHookSlot call that returned nil.
func (s *Scope) setHookSlot(value any) {
	s.hookSlots = append(s.hookSlots, value)
}
