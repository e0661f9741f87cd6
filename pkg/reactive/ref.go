package reactive

import (
	"reflect"
	"sync"
)

// Ref is a tracked mutable value container.
// Reading a Ref during a tracked context (component render, computed
// evaluation, or watcher execution) automatically subscribes the current
// listener to be notified when the value changes.
type Ref[T any] struct {
	base refBase

	// value is the current value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal is the equality function used to decide whether a write
	// changed the value. If nil, default equality is used.
	equal func(T, T) bool
}

// NewRef creates a new Ref with the given initial value.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{
		base: refBase{
			id: nextID(),
		},
		value: initial,
	}
}

// Get returns the current value and subscribes the current listener.
func (r *Ref[T]) Get() T {
	// Read value with lock
	r.mu.RLock()
	value := r.value
	r.mu.RUnlock()

	// Track dependency after releasing the value lock to prevent deadlock
	r.base.trackRead()

	return value
}

// Peek returns the current value without subscribing.
// Use this to read a value without creating a dependency.
func (r *Ref[T]) Peek() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.value
}

// Set updates the value and notifies subscribers if it changed under the
// configured equality.
func (r *Ref[T]) Set(value T) {
	r.mu.Lock()
	changed := !r.equals(r.value, value)
	if changed {
		r.value = value
	}
	r.mu.Unlock()

	if changed {
		r.base.notifySubscribers()
	}
}

// Update atomically reads and updates the value.
// The function receives the current value and returns the new one.
func (r *Ref[T]) Update(fn func(T) T) {
	r.mu.Lock()
	oldValue := r.value
	newValue := fn(oldValue)
	changed := !r.equals(oldValue, newValue)
	if changed {
		r.value = newValue
	}
	r.mu.Unlock()

	if changed {
		r.base.notifySubscribers()
	}
}

// WithEquals configures a custom equality function and returns the ref.
// Useful for types where reflect.DeepEqual is too expensive or has the
// wrong semantics.
func (r *Ref[T]) WithEquals(fn func(T, T) bool) *Ref[T] {
	r.equal = fn
	return r
}

// ID returns the unique identifier for this ref.
func (r *Ref[T]) ID() uint64 {
	return r.base.id
}

// equals checks two values with the configured equality function.
func (r *Ref[T]) equals(a, b T) bool {
	if r.equal != nil {
		return r.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals provides type-appropriate equality checking.
// Uses == for the builtin comparable kinds and reflect.DeepEqual
// otherwise. For interface-typed refs the two dynamic types may differ
// (a property replaced by nil or retyped); mismatches are unequal, not
// a panic.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case nil:
		return any(b) == nil
	case int:
		bv, ok := any(b).(int)
		return ok && av == bv
	case int8:
		bv, ok := any(b).(int8)
		return ok && av == bv
	case int16:
		bv, ok := any(b).(int16)
		return ok && av == bv
	case int32:
		bv, ok := any(b).(int32)
		return ok && av == bv
	case int64:
		bv, ok := any(b).(int64)
		return ok && av == bv
	case uint:
		bv, ok := any(b).(uint)
		return ok && av == bv
	case uint8:
		bv, ok := any(b).(uint8)
		return ok && av == bv
	case uint16:
		bv, ok := any(b).(uint16)
		return ok && av == bv
	case uint32:
		bv, ok := any(b).(uint32)
		return ok && av == bv
	case uint64:
		bv, ok := any(b).(uint64)
		return ok && av == bv
	case float32:
		bv, ok := any(b).(float32)
		return ok && av == bv
	case float64:
		bv, ok := any(b).(float64)
		return ok && av == bv
	case string:
		bv, ok := any(b).(string)
		return ok && av == bv
	case bool:
		bv, ok := any(b).(bool)
		return ok && av == bv
	default:
		if any(b) == nil {
			return false
		}
		// Slices, maps, structs, interfaces.
		return reflect.DeepEqual(a, b)
	}
}

// Untracked runs fn without tracking ref reads as dependencies.
//
// Note: for a single read, ref.Peek() is more efficient and clearer.
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedGet reads a ref's value without creating a dependency.
// Convenience equivalent of ref.Peek().
func UntrackedGet[T any](r *Ref[T]) T {
	return r.Peek()
}
