// Package reactive provides the fine-grained reactivity core for Unison.
//
// Dependencies are tracked automatically at runtime: reading a ref during
// a component render, computed evaluation, or watcher run subscribes that
// computation to the ref's changes. A computation's dependency set is
// re-derived on every run, so it always equals exactly what the most
// recent run read.
//
// # Core Types
//
// Ref[T] is a tracked value container:
//
//	count := reactive.NewRef(0)
//	value := count.Get()  // read (subscribes the current listener)
//	count.Set(5)          // write (notifies subscribers)
//	count.Update(func(n int) int { return n + 1 })
//
// Object is a string-keyed record with per-property tracking:
//
//	user := reactive.NewObject(map[string]any{"name": "Ada"})
//	name := user.Get("name")  // subscribes to "name" only
//	user.Set("age", 36)       // readers of "name" stay quiet
//
// Computed[T] is a cached derivation:
//
//	doubled := reactive.NewComputed(func() int { return count.Get() * 2 })
//	value := doubled.Get()  // recomputes only if dependencies changed
//
// WatchEffect runs side effects when dependencies change:
//
//	reactive.WatchEffect(func() reactive.Cleanup {
//	    fmt.Println("count is", count.Get())
//	    return func() { /* release */ }
//	})
//
// A watcher that writes one of its own dependencies does not re-trigger
// itself within the same update cycle.
//
// # Batching
//
// Multiple writes can be batched into a single notification:
//
//	reactive.Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // one notification after both writes
//
// # Thread Safety
//
// All primitives are safe for concurrent use. The tracking context is
// per-goroutine; spawned goroutines propagate it explicitly with
// WithScope.
package reactive
