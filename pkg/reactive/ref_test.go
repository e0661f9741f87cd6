package reactive

import (
	"sync"
	"testing"
)

func TestRefGetSet(t *testing.T) {
	count := NewRef(0)

	if got := count.Get(); got != 0 {
		t.Errorf("initial value = %d, want 0", got)
	}

	count.Set(5)
	if got := count.Get(); got != 5 {
		t.Errorf("after Set(5) = %d, want 5", got)
	}
}

func TestRefUpdate(t *testing.T) {
	count := NewRef(10)

	count.Update(func(n int) int { return n * 2 })

	if got := count.Get(); got != 20 {
		t.Errorf("after Update = %d, want 20", got)
	}
}

func TestRefPeekDoesNotTrack(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(0)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = count.Peek()
			return nil
		})
	})

	count.Set(1)
	scope.Flush(nil)

	if runs != 1 {
		t.Errorf("runs = %d, want 1 (Peek must not subscribe)", runs)
	}
}

func TestRefSetUnchangedValueDoesNotNotify(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	name := NewRef("ada")
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = name.Get()
			return nil
		})
	})

	name.Set("ada") // same value
	scope.Flush(nil)

	if runs != 1 {
		t.Errorf("runs = %d, want 1 (unchanged write must not notify)", runs)
	}
}

func TestRefWithEquals(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	// Treat values as equal when they match modulo 10
	v := NewRef(1).WithEquals(func(a, b int) bool { return a%10 == b%10 })
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = v.Get()
			return nil
		})
	})

	v.Set(11) // equal under custom equality
	scope.Flush(nil)
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}

	v.Set(2)
	scope.Flush(nil)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestRefDeepEqualFallback(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	items := NewRef([]string{"a", "b"})
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = items.Get()
			return nil
		})
	})

	items.Set([]string{"a", "b"}) // deep-equal slice
	scope.Flush(nil)
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (deep-equal write must not notify)", runs)
	}

	items.Set([]string{"a", "b", "c"})
	scope.Flush(nil)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestRefConcurrentAccess(t *testing.T) {
	count := NewRef(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			count.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	if got := count.Get(); got != 50 {
		t.Errorf("count = %d, want 50", got)
	}
}

func TestUntrackedReadDoesNotSubscribe(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	a := NewRef(1)
	b := NewRef(2)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = a.Get()
			Untracked(func() {
				_ = b.Get()
			})
			return nil
		})
	})

	b.Set(3)
	scope.Flush(nil)
	if runs != 1 {
		t.Errorf("runs = %d, want 1 (untracked read must not subscribe)", runs)
	}

	a.Set(2)
	scope.Flush(nil)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestCopiedValueIsInert(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(1)

	// Copying the value out severs tracking: the copy is a plain int.
	var copied int
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			copied = count.Get()
			return nil
		})
	})

	copied = 99 // mutating the copy notifies nobody
	scope.Flush(nil)

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
	if copied != 99 {
		t.Errorf("copied = %d, want 99", copied)
	}
	if got := count.Peek(); got != 1 {
		t.Errorf("ref value = %d, want 1", got)
	}
}

func TestRefAnyDynamicTypeChange(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	v := NewRef[any](42)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = v.Get()
			return nil
		})
	})

	// Retype the value, then clear it. Both are changes.
	v.Set("forty-two")
	scope.Flush(nil)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}

	v.Set(nil)
	scope.Flush(nil)
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
	if got := v.Peek(); got != nil {
		t.Errorf("value = %v, want nil", got)
	}

	v.Set(nil) // nil to nil is unchanged
	scope.Flush(nil)
	if runs != 3 {
		t.Errorf("runs = %d, want 3 (nil write over nil must not notify)", runs)
	}
}
