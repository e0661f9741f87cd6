package reactive

import "testing"

func TestBatchCollapsesNotifications(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	first := NewRef("")
	last := NewRef("")
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = first.Get()
			_ = last.Get()
			return nil
		})
	})

	Batch(func() {
		first.Set("grace")
		last.Set("hopper")
	})
	scope.Flush(nil)

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (batch collapses to one notification)", runs)
	}
}

func TestBatchNesting(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	a := NewRef(0)
	b := NewRef(0)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = a.Get()
			_ = b.Get()
			return nil
		})
	})

	Batch(func() {
		a.Set(1)
		Batch(func() {
			b.Set(1)
		})
		// Inner batch end must not flush: the outer batch is still open
		if runs != 1 {
			t.Errorf("runs = %d during outer batch, want 1", runs)
		}
	})
	scope.Flush(nil)

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestBatchDeduplicatesListeners(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(0)
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = count.Get()
			return nil
		})
	})

	Batch(func() {
		count.Set(1)
		count.Set(2)
		count.Set(3)
	})
	scope.Flush(nil)

	if runs != 2 {
		t.Errorf("runs = %d, want 2 (three writes, one re-run)", runs)
	}
	if got := count.Peek(); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestBatchEmptyIsNoop(t *testing.T) {
	// Must not panic or leak batch depth
	Batch(func() {})

	if getBatchDepth() != 0 {
		t.Errorf("batch depth = %d, want 0", getBatchDepth())
	}
}
