package reactive

import "testing"

func TestScopeHierarchy(t *testing.T) {
	root := NewScope(nil)
	child := NewScope(root)

	if child.Parent() != root {
		t.Error("child should have root as parent")
	}

	root.Dispose()

	if !child.IsDisposed() {
		t.Error("disposing root should dispose children")
	}
}

func TestScopeDisposeOrder(t *testing.T) {
	root := NewScope(nil)

	var order []string
	root.OnCleanup(func() { order = append(order, "first") })
	root.OnCleanup(func() { order = append(order, "second") })

	root.Dispose()

	// Cleanups run in reverse registration order
	if len(order) != 2 || order[0] != "second" || order[1] != "first" {
		t.Errorf("order = %v, want [second first]", order)
	}
}

func TestScopeOnCleanupAfterDispose(t *testing.T) {
	scope := NewScope(nil)
	scope.Dispose()

	ran := false
	scope.OnCleanup(func() { ran = true })

	if !ran {
		t.Error("OnCleanup on a disposed scope should run immediately")
	}
}

func TestScopeDisposeIsIdempotent(t *testing.T) {
	scope := NewScope(nil)

	cleanups := 0
	scope.OnCleanup(func() { cleanups++ })

	scope.Dispose()
	scope.Dispose()

	if cleanups != 1 {
		t.Errorf("cleanups = %d, want 1", cleanups)
	}
}

func TestScopeValueLookupWalksAncestors(t *testing.T) {
	type themeKey struct{}

	root := NewScope(nil)
	defer root.Dispose()
	child := NewScope(root)
	grandchild := NewScope(child)

	root.SetValue(themeKey{}, "dark")

	v, ok := grandchild.Value(themeKey{})
	if !ok || v != "dark" {
		t.Errorf("Value = %v, %v; want dark, true", v, ok)
	}

	// Nearer providers shadow farther ones
	child.SetValue(themeKey{}, "light")
	v, _ = grandchild.Value(themeKey{})
	if v != "light" {
		t.Errorf("Value = %v, want light (nearest provider wins)", v)
	}

	_, ok = root.Value("missing")
	if ok {
		t.Error("missing key should not be found")
	}
}

func TestScopeFlushRunsChildWatchers(t *testing.T) {
	root := NewScope(nil)
	defer root.Dispose()
	child := NewScope(root)

	count := NewRef(0)
	runs := 0

	WithScope(child, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = count.Get()
			return nil
		})
	})

	count.Set(1)
	root.Flush(nil)

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (flush recurses into children)", runs)
	}
}

func TestScopeHasPending(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(0)

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			_ = count.Get()
			return nil
		})
	})

	if scope.HasPending() {
		t.Error("no watchers should be pending after initial run")
	}

	count.Set(1)

	if !scope.HasPending() {
		t.Error("watcher should be pending after write")
	}

	scope.Flush(nil)

	if scope.HasPending() {
		t.Error("no watchers should be pending after flush")
	}
}

func TestScopeFlushAfterDisposeIsNoop(t *testing.T) {
	scope := NewScope(nil)

	count := NewRef(0)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = count.Get()
			return nil
		})
	})

	count.Set(1)
	scope.Dispose()
	scope.Flush(nil)

	if runs != 1 {
		t.Errorf("runs = %d, want 1 (disposed scope must not flush)", runs)
	}
}

func TestCycleBudgetReschedulesOverBudget(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	a := NewRef(0)
	b := NewRef(0)
	aRuns := 0
	bRuns := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			aRuns++
			_ = a.Get()
			return nil
		})
		WatchEffect(func() Cleanup {
			bRuns++
			_ = b.Get()
			return nil
		})
	})

	a.Set(1)
	b.Set(1)

	budget := NewCycleBudget(1)
	scope.Flush(budget)

	// One watcher ran, the other was pushed to the next cycle
	if aRuns+bRuns != 3 {
		t.Errorf("total runs = %d, want 3 (one deferred)", aRuns+bRuns)
	}
	if !scope.HasPending() {
		t.Error("deferred watcher should still be pending")
	}

	budget.Reset()
	scope.Flush(budget)

	if aRuns+bRuns != 4 {
		t.Errorf("total runs = %d, want 4 after second cycle", aRuns+bRuns)
	}
}

func TestWithScopePropagation(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	done := make(chan struct{})
	var w *Watcher

	go func() {
		defer close(done)
		WithScope(scope, func() {
			w = WatchEffect(func() Cleanup { return nil })
		})
	}()
	<-done

	if w.scope != scope {
		t.Error("watcher created under WithScope should belong to that scope")
	}
}
