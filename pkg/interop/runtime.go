package interop

import (
	"fmt"
	"reflect"
	"sync"
)

// Hook is a foreign hook function written against the re-render model:
// the whole function body runs again on every state change, and state is
// kept in positional slots on the Runtime. It returns its public result
// as a record.
type Hook func(rt *Runtime) map[string]any

// maxRenderPasses bounds the settle loop so a hook that sets state
// unconditionally on every pass fails loudly instead of spinning.
const maxRenderPasses = 100

// Runtime hosts re-render style hooks. Each Runtime instance corresponds
// to one hook call site: its slots persist across renders while the hook
// body re-executes from the top.
type Runtime struct {
	mu sync.Mutex

	slots  []any
	cursor int

	rendering bool
	dirty     bool
	disposed  bool

	// pendingEffects run after the current render pass commits.
	pendingEffects []func()

	// onChange is invoked when state changes outside a render pass.
	// WrapHook uses it to re-run the hook and publish the new result.
	onChange func()
}

// NewRuntime creates an empty hook runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Render executes the hook, re-running it until no state changes occur
// within the pass, then runs queued effects. Returns the hook's result.
func (rt *Runtime) Render(hook Hook) map[string]any {
	rt.mu.Lock()
	if rt.disposed {
		rt.mu.Unlock()
		return nil
	}
	rt.rendering = true
	rt.mu.Unlock()

	var result map[string]any
	for pass := 0; ; pass++ {
		if pass >= maxRenderPasses {
			panic(fmt.Sprintf("interop: hook did not settle after %d passes", maxRenderPasses))
		}

		rt.mu.Lock()
		rt.cursor = 0
		rt.dirty = false
		rt.mu.Unlock()

		result = hook(rt)

		rt.runPendingEffects()

		rt.mu.Lock()
		settled := !rt.dirty
		rt.mu.Unlock()
		if settled {
			break
		}
	}

	rt.mu.Lock()
	rt.rendering = false
	rt.mu.Unlock()

	return result
}

// Dispose runs all effect cleanups in reverse slot order and marks the
// runtime unusable.
func (rt *Runtime) Dispose() {
	rt.mu.Lock()
	if rt.disposed {
		rt.mu.Unlock()
		return
	}
	rt.disposed = true
	slots := rt.slots
	rt.slots = nil
	rt.mu.Unlock()

	for i := len(slots) - 1; i >= 0; i-- {
		if eff, ok := slots[i].(*effectSlot); ok && eff.cleanup != nil {
			eff.cleanup()
		}
	}
}

// nextSlot returns the slot at the cursor, creating it with make when the
// hook reaches a position for the first time. Slot order must be stable
// across renders, mirroring the rules of the foreign model.
func (rt *Runtime) nextSlot(make func() any) any {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	idx := rt.cursor
	rt.cursor++

	if idx < len(rt.slots) {
		return rt.slots[idx]
	}
	if idx != len(rt.slots) {
		panic("interop: hook slots used out of order")
	}
	slot := make()
	rt.slots = append(rt.slots, slot)
	return slot
}

// invalidate marks state as changed. During a render it flags the settle
// loop; outside one it notifies the owner so the hook can re-run.
func (rt *Runtime) invalidate() {
	rt.mu.Lock()
	if rt.disposed {
		rt.mu.Unlock()
		return
	}
	if rt.rendering {
		rt.dirty = true
		rt.mu.Unlock()
		return
	}
	onChange := rt.onChange
	rt.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

func (rt *Runtime) queueEffect(fn func()) {
	rt.mu.Lock()
	rt.pendingEffects = append(rt.pendingEffects, fn)
	rt.mu.Unlock()
}

func (rt *Runtime) runPendingEffects() {
	rt.mu.Lock()
	effects := rt.pendingEffects
	rt.pendingEffects = nil
	rt.mu.Unlock()

	for _, fn := range effects {
		fn()
	}
}

// =============================================================================
// Hook primitives
// =============================================================================

type stateSlot struct {
	mu    sync.Mutex
	value any
}

type memoSlot struct {
	value any
	deps  []any
	set   bool
}

type effectSlot struct {
	deps    []any
	cleanup func()
	ran     bool
}

// UseState returns the slot's current value and a setter. The setter is
// stable across renders; calling it with an equal value is a no-op,
// otherwise the hook re-renders.
func UseState[T any](rt *Runtime, initial T) (T, func(T)) {
	slot := rt.nextSlot(func() any {
		return &stateSlot{value: initial}
	}).(*stateSlot)

	slot.mu.Lock()
	current := slot.value.(T)
	slot.mu.Unlock()

	setter := func(next T) {
		slot.mu.Lock()
		if reflect.DeepEqual(slot.value, next) {
			slot.mu.Unlock()
			return
		}
		slot.value = next
		slot.mu.Unlock()
		rt.invalidate()
	}

	return current, setter
}

// UseMemo returns compute's cached result, recomputing only when deps
// change between renders.
func UseMemo[T any](rt *Runtime, compute func() T, deps []any) T {
	slot := rt.nextSlot(func() any {
		return &memoSlot{}
	}).(*memoSlot)

	if !slot.set || !depsEqual(slot.deps, deps) {
		slot.value = compute()
		slot.deps = deps
		slot.set = true
	}
	return slot.value.(T)
}

// UseEffect queues effect to run after the render pass when deps changed.
// A nil deps slice runs the effect on every render; an empty one runs it
// once. The returned cleanup runs before the next effect invocation and
// on Dispose.
func UseEffect(rt *Runtime, effect func() func(), deps []any) {
	slot := rt.nextSlot(func() any {
		return &effectSlot{}
	}).(*effectSlot)

	if slot.ran && deps != nil && depsEqual(slot.deps, deps) {
		return
	}

	slot.deps = deps
	slot.ran = true

	rt.queueEffect(func() {
		if slot.cleanup != nil {
			slot.cleanup()
		}
		slot.cleanup = effect()
	})
}

// depsEqual compares dependency lists element-wise.
func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
