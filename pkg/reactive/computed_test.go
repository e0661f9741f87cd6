package reactive

import "testing"

func TestComputedDerivesValue(t *testing.T) {
	count := NewRef(2)
	doubled := NewComputed(func() int { return count.Get() * 2 })

	if got := doubled.Get(); got != 4 {
		t.Errorf("doubled = %d, want 4", got)
	}

	count.Set(5)
	if got := doubled.Get(); got != 10 {
		t.Errorf("doubled = %d, want 10", got)
	}
}

func TestComputedIsLazy(t *testing.T) {
	count := NewRef(1)
	computations := 0

	c := NewComputed(func() int {
		computations++
		return count.Get()
	})

	if computations != 0 {
		t.Fatalf("computations = %d, want 0 before first read", computations)
	}

	_ = c.Get()
	if computations != 1 {
		t.Fatalf("computations = %d, want 1", computations)
	}
}

func TestComputedCachesUntilInvalidated(t *testing.T) {
	count := NewRef(1)
	computations := 0

	c := NewComputed(func() int {
		computations++
		return count.Get() * 10
	})

	_ = c.Get()
	_ = c.Get()
	_ = c.Get()

	if computations != 1 {
		t.Errorf("computations = %d, want 1 (cached reads)", computations)
	}

	count.Set(2)
	_ = c.Get()

	if computations != 2 {
		t.Errorf("computations = %d, want 2 after invalidation", computations)
	}
}

func TestComputedCoalescesMultipleWrites(t *testing.T) {
	a := NewRef(1)
	b := NewRef(2)
	computations := 0

	sum := NewComputed(func() int {
		computations++
		return a.Get() + b.Get()
	})

	_ = sum.Get()

	// Several writes before the next read: one recompute
	a.Set(10)
	b.Set(20)
	a.Set(11)

	if got := sum.Get(); got != 31 {
		t.Errorf("sum = %d, want 31", got)
	}
	if computations != 2 {
		t.Errorf("computations = %d, want 2", computations)
	}
}

func TestComputedAsDependencyOfWatcher(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })

	var seen int
	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			seen = doubled.Get()
			return nil
		})
	})

	count.Set(4)
	scope.Flush(nil)

	if seen != 8 {
		t.Errorf("seen = %d, want 8", seen)
	}
}

func TestComputedChain(t *testing.T) {
	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })
	quadrupled := NewComputed(func() int { return doubled.Get() * 2 })

	if got := quadrupled.Get(); got != 4 {
		t.Errorf("quadrupled = %d, want 4", got)
	}

	count.Set(3)
	if got := quadrupled.Get(); got != 12 {
		t.Errorf("quadrupled = %d, want 12", got)
	}
}

func TestComputedPeekDoesNotTrack(t *testing.T) {
	scope := NewScope(nil)
	defer scope.Dispose()

	count := NewRef(1)
	doubled := NewComputed(func() int { return count.Get() * 2 })
	runs := 0

	WithScope(scope, func() {
		WatchEffect(func() Cleanup {
			runs++
			_ = doubled.Peek()
			return nil
		})
	})

	count.Set(2)
	scope.Flush(nil)

	if runs != 1 {
		t.Errorf("runs = %d, want 1 (Peek must not subscribe)", runs)
	}
}

func TestComputedRederivesDependencySet(t *testing.T) {
	flag := NewRef(true)
	a := NewRef(1)
	b := NewRef(2)
	computations := 0

	c := NewComputed(func() int {
		computations++
		if flag.Get() {
			return a.Get()
		}
		return b.Get()
	})

	if got := c.Get(); got != 1 {
		t.Fatalf("value = %d, want 1", got)
	}

	flag.Set(false)
	if got := c.Get(); got != 2 {
		t.Fatalf("value = %d, want 2", got)
	}
	computations = 0

	// a was dropped from the dependency set on the second run
	a.Set(100)
	_ = c.Get()
	if computations != 0 {
		t.Errorf("computations = %d, want 0 (a is untracked)", computations)
	}
}
