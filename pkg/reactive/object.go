package reactive

import (
	"reflect"
	"sync"
)

// Object is a string-keyed reactive record with per-property tracking.
// Reading a property during a tracked context subscribes the listener to
// that property only; writing a property notifies that property's
// dependents without disturbing readers of other properties.
//
// Structural reads (Keys, Len, Has, and reads of absent properties)
// subscribe to the record's shape, so adding or removing a property
// notifies them.
//
// A shallow Object (NewShallowObject) tracks the whole record as a single
// unit instead: any read depends on every write.
//
// Values returned from an Object are plain Go values. Copying one out and
// holding it is untracked; only access through the Object participates in
// reactivity.
type Object struct {
	mu sync.Mutex

	// props holds one ref per property (deep mode).
	props map[string]*Ref[any]

	// structure is bumped when properties are added or removed.
	structure *Ref[uint64]

	// shallow selects whole-record tracking.
	shallow bool

	// raw holds the values in shallow mode.
	raw map[string]any

	// version is the single tracked unit in shallow mode.
	version *Ref[uint64]
}

// NewObject creates a reactive record with per-property tracking,
// initialized from initial (which may be nil).
func NewObject(initial map[string]any) *Object {
	o := &Object{
		props:     make(map[string]*Ref[any], len(initial)),
		structure: NewRef(uint64(0)),
	}
	for k, v := range initial {
		o.props[k] = NewRef[any](v)
	}
	return o
}

// NewShallowObject creates a reactive record tracked as a single unit.
func NewShallowObject(initial map[string]any) *Object {
	raw := make(map[string]any, len(initial))
	for k, v := range initial {
		raw[k] = v
	}
	return &Object{
		shallow: true,
		raw:     raw,
		version: NewRef(uint64(0)),
	}
}

// Shallow reports whether this record uses whole-record tracking.
func (o *Object) Shallow() bool {
	return o.shallow
}

// Get returns the value for key, tracking the read.
// In deep mode an absent key tracks the record's shape, so the listener
// re-runs if the key appears later.
func (o *Object) Get(key string) any {
	if o.shallow {
		o.version.Get()
		o.mu.Lock()
		defer o.mu.Unlock()
		return o.raw[key]
	}

	o.mu.Lock()
	ref, ok := o.props[key]
	o.mu.Unlock()

	if !ok {
		o.structure.Get()
		return nil
	}
	return ref.Get()
}

// Has reports whether key is present, tracking the record's shape.
func (o *Object) Has(key string) bool {
	if o.shallow {
		o.version.Get()
		o.mu.Lock()
		defer o.mu.Unlock()
		_, ok := o.raw[key]
		return ok
	}

	o.structure.Get()
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.props[key]
	return ok
}

// Set writes the value for key.
// In deep mode only that property's dependents are notified; creating a
// new property additionally notifies structural dependents.
func (o *Object) Set(key string, value any) {
	if o.shallow {
		o.mu.Lock()
		changed := !reflect.DeepEqual(o.raw[key], value)
		if changed {
			o.raw[key] = value
		}
		o.mu.Unlock()
		if changed {
			o.version.Update(func(v uint64) uint64 { return v + 1 })
		}
		return
	}

	o.mu.Lock()
	ref, ok := o.props[key]
	if !ok {
		o.props[key] = NewRef[any](value)
	}
	o.mu.Unlock()

	if !ok {
		// New property: absent-key readers subscribed to the shape
		o.structure.Update(func(v uint64) uint64 { return v + 1 })
		return
	}
	ref.Set(value)
}

// Delete removes key from the record.
// The property's dependents see a nil value and structural dependents are
// notified.
func (o *Object) Delete(key string) {
	if o.shallow {
		o.mu.Lock()
		_, ok := o.raw[key]
		if ok {
			delete(o.raw, key)
		}
		o.mu.Unlock()
		if ok {
			o.version.Update(func(v uint64) uint64 { return v + 1 })
		}
		return
	}

	o.mu.Lock()
	ref, ok := o.props[key]
	if ok {
		delete(o.props, key)
	}
	o.mu.Unlock()

	if !ok {
		return
	}

	ref.Set(nil)
	o.structure.Update(func(v uint64) uint64 { return v + 1 })
}

// Keys returns the property names, tracking the record's shape.
func (o *Object) Keys() []string {
	if o.shallow {
		o.version.Get()
		o.mu.Lock()
		defer o.mu.Unlock()
		keys := make([]string, 0, len(o.raw))
		for k := range o.raw {
			keys = append(keys, k)
		}
		return keys
	}

	o.structure.Get()
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.props))
	for k := range o.props {
		keys = append(keys, k)
	}
	return keys
}

// Len returns the number of properties, tracking the record's shape.
func (o *Object) Len() int {
	return len(o.Keys())
}

// Snapshot returns a plain map copy of the record.
// In deep mode this reads every property, so the caller depends on all of
// them. The returned map is inert: mutating it does not notify anyone.
func (o *Object) Snapshot() map[string]any {
	if o.shallow {
		o.version.Get()
		o.mu.Lock()
		defer o.mu.Unlock()
		out := make(map[string]any, len(o.raw))
		for k, v := range o.raw {
			out[k] = v
		}
		return out
	}

	o.structure.Get()
	o.mu.Lock()
	refs := make(map[string]*Ref[any], len(o.props))
	for k, ref := range o.props {
		refs[k] = ref
	}
	o.mu.Unlock()

	out := make(map[string]any, len(refs))
	for k, ref := range refs {
		out[k] = ref.Get()
	}
	return out
}

// Replace sets the record's contents to next in one batch.
// Properties absent from next are deleted. Per-property notifications
// still apply in deep mode; unchanged properties stay quiet.
func (o *Object) Replace(next map[string]any) {
	Batch(func() {
		for _, k := range o.untrackedKeys() {
			if _, ok := next[k]; !ok {
				o.Delete(k)
			}
		}
		for k, v := range next {
			o.Set(k, v)
		}
	})
}

// untrackedKeys lists the current property names without creating a
// dependency.
func (o *Object) untrackedKeys() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.shallow {
		keys := make([]string, 0, len(o.raw))
		for k := range o.raw {
			keys = append(keys, k)
		}
		return keys
	}
	keys := make([]string, 0, len(o.props))
	for k := range o.props {
		keys = append(keys, k)
	}
	return keys
}
