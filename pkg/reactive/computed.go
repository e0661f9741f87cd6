package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a cached derivation that automatically tracks its
// dependencies. When any dependency changes, the computed is invalidated
// and recomputes on the next read.
//
// Computeds are lazy: the computation only runs when Get() is called.
// If several dependencies change before a read, the computed recomputes
// once.
//
// A Computed can itself be subscribed to, behaving like a ref. This allows
// chains of derived values.
type Computed[T any] struct {
	base refBase

	// compute produces the derived value.
	compute func() T

	// value is the cached computed value.
	value T

	// valueMu protects value access.
	valueMu sync.RWMutex

	// valid indicates whether the cached value is current.
	// When false, the next Get() recomputes.
	valid atomic.Bool

	// sources are the refs/computeds this computed depends on.
	sources   []*refBase
	sourcesMu sync.Mutex

	// equal is the equality function for value-change detection.
	equal func(T, T) bool

	// computing guards against infinite recursion on circular dependencies.
	computing atomic.Bool
}

// NewComputed creates a computed with the given derivation function.
// The derivation is not run immediately; it runs lazily on first Get().
//
// When called during a component render, the computed is stored in the
// instance's hook slot so its identity is stable across re-renders.
func NewComputed[T any](compute func() T) *Computed[T] {
	scope := getCurrentScope()
	inRender := scope != nil && isInRender()

	if scope != nil {
		scope.trackHook(hookComputed)
		if inRender {
			if slot := scope.useHookSlot(); slot != nil {
				c, ok := slot.(*Computed[T])
				if !ok {
					panic("unison: hook slot type mismatch for Computed")
				}
				// Refresh the derivation in case captured closures changed
				c.compute = compute
				c.valid.Store(false)
				return c
			}
		}
	}

	c := &Computed[T]{
		base: refBase{
			id: nextID(),
		},
		compute: compute,
	}

	if inRender {
		scope.setHookSlot(c)
	}

	return c
}

// Get returns the computed value, recomputing if necessary, and creates a
// dependency on this computed for the current listener.
func (c *Computed[T]) Get() T {
	c.base.trackRead()

	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// Peek returns the computed value without subscribing.
// Still recomputes if the cached value is stale.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cached value and propagates to subscribers.
// Implements the Listener interface.
func (c *Computed[T]) MarkDirty() {
	// CAS keeps invalidation idempotent
	if c.valid.CompareAndSwap(true, false) {
		c.base.notifySubscribers()
	}
}

// ID returns the unique identifier for this computed.
// Implements the Listener interface.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// addSource records a dependency so it can be dropped on the next
// tracking pass. Implements the sourceTracker interface.
func (c *Computed[T]) addSource(source *refBase) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == source {
			return
		}
	}
	c.sources = append(c.sources, source)
}

// WithEquals configures a custom equality function and returns the computed.
func (c *Computed[T]) WithEquals(fn func(T, T) bool) *Computed[T] {
	c.equal = fn
	return c
}

// recompute runs the derivation and updates the cached value.
// The dependency set is re-derived from scratch: old sources are
// unsubscribed before tracking the new run.
func (c *Computed[T]) recompute() {
	if c.computing.Swap(true) {
		// Already computing - circular dependency, bail out
		return
	}
	defer c.computing.Store(false)

	c.sourcesMu.Lock()
	for _, source := range c.sources {
		source.unsubscribe(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	old := setCurrentListener(c)
	newValue := c.compute()
	setCurrentListener(old)

	c.valueMu.Lock()
	c.value = newValue
	c.valueMu.Unlock()

	c.valid.Store(true)
}

// equals checks two values with the configured equality function.
func (c *Computed[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// Ensure Computed implements sourceTracker.
var _ sourceTracker = (*Computed[int])(nil)
