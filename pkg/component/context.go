package component

import (
	"github.com/unison-ui/unison/pkg/reactive"
)

// Context passes a value down the component tree without prop drilling.
// Providers are scoped to descendants: siblings of the providing instance
// never see the value.
//
// Use is reactive: when the provider writes a new value, every descendant
// that called Use during render or inside a watcher re-runs.
type Context[T any] struct {
	key          *contextKey
	defaultValue T
}

// contextKey gives each Context a unique identity in scope value maps.
type contextKey struct {
	name string
}

// NewContext creates a context with a default value, returned by Use when
// no ancestor provides one.
func NewContext[T any](name string, defaultValue T) *Context[T] {
	return &Context[T]{
		key:          &contextKey{name: name},
		defaultValue: defaultValue,
	}
}

// Provide installs value on the current scope, visible to Use in
// descendant scopes. Call during setup. Calling Provide again on the same
// scope updates the value reactively.
func (c *Context[T]) Provide(value T) {
	scope := currentScope()
	if scope == nil {
		panic("component: Provide called outside a component scope")
	}

	if existing, ok := scope.Value(c.key); ok {
		// Only update in place when this same scope provided it;
		// an ancestor's ref must not be hijacked by a descendant.
		if ref, owned := existingOwnedBy[T](scope, c.key, existing); owned {
			ref.Set(value)
			return
		}
	}

	ref := reactive.NewRef(value)
	scope.SetValue(c.key, ref)
}

// existingOwnedBy reports whether the value for key is stored on scope
// itself rather than inherited from an ancestor.
func existingOwnedBy[T any](scope *reactive.Scope, key any, existing any) (*reactive.Ref[T], bool) {
	ref, ok := existing.(*reactive.Ref[T])
	if !ok {
		return nil, false
	}
	if own, found := scope.OwnValue(key); found && own == existing {
		return ref, true
	}
	return nil, false
}

// Use returns the nearest provided value, or the default when no ancestor
// provides one. The read is tracked.
func (c *Context[T]) Use() T {
	scope := currentScope()
	if scope == nil {
		return c.defaultValue
	}

	v, ok := scope.Value(c.key)
	if !ok {
		return c.defaultValue
	}

	ref, ok := v.(*reactive.Ref[T])
	if !ok {
		return c.defaultValue
	}
	return ref.Get()
}

// currentScope returns the scope established by the surrounding setup,
// render, or watcher, or nil outside one.
func currentScope() *reactive.Scope {
	return reactive.CurrentScope()
}
