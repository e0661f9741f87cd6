package interop

import (
	"testing"

	"github.com/unison-ui/unison/pkg/reactive"
)

// counterHook is a re-render style hook: count state plus an increment.
func counterHook(rt *Runtime) map[string]any {
	count, setCount := UseState(rt, 0)
	return map[string]any{
		"count":     count,
		"increment": func() { setCount(count + 1) },
	}
}

func TestWrapHookExposesResult(t *testing.T) {
	useCounter := WrapHook(counterHook)
	obj := useCounter()

	if obj.Get("count") != 0 {
		t.Errorf("count = %v, want 0", obj.Get("count"))
	}
	if obj.Get("increment") == nil {
		t.Error("increment function missing from record")
	}
}

func TestWrapHookStateChangeUpdatesRecord(t *testing.T) {
	useCounter := WrapHook(counterHook)
	obj := useCounter()

	obj.Get("increment").(func())()

	if obj.Get("count") != 1 {
		t.Errorf("count after increment = %v, want 1", obj.Get("count"))
	}
}

func TestWrapHookPerPropertyTracking(t *testing.T) {
	hook := func(rt *Runtime) map[string]any {
		a, setA := UseState(rt, 0)
		b, _ := UseState(rt, 0)
		return map[string]any{
			"a":     a,
			"b":     b,
			"bumpA": func() { setA(a + 1) },
		}
	}

	scope := reactive.NewScope(nil)
	var obj *reactive.Object
	reactive.WithScope(scope, func() {
		obj = WrapHook(hook)()
	})

	bReads := 0
	reactive.WithScope(scope, func() {
		reactive.WatchEffect(func() reactive.Cleanup {
			obj.Get("b")
			bReads++
			return nil
		})
	})

	obj.Get("bumpA").(func())()
	scope.Flush(nil)

	if bReads != 1 {
		t.Errorf("changing a should not re-run a watcher of b: runs=%d", bReads)
	}
}

func TestWrapHookShallowNotifiesAllReaders(t *testing.T) {
	hook := func(rt *Runtime) map[string]any {
		a, setA := UseState(rt, 0)
		return map[string]any{
			"a":     a,
			"b":     "static",
			"bumpA": func() { setA(a + 1) },
		}
	}

	scope := reactive.NewScope(nil)
	var obj *reactive.Object
	reactive.WithScope(scope, func() {
		obj = WrapHook(hook, Shallow())()
	})

	var bump func()
	bReads := 0
	reactive.WithScope(scope, func() {
		bump = obj.Get("bumpA").(func())
		reactive.WatchEffect(func() reactive.Cleanup {
			obj.Get("b")
			bReads++
			return nil
		})
	})

	bump()
	scope.Flush(nil)

	if bReads != 2 {
		t.Errorf("shallow record should notify readers of any property: runs=%d", bReads)
	}
}

func TestWrapHookCleanupOnScopeDispose(t *testing.T) {
	cleaned := false
	hook := func(rt *Runtime) map[string]any {
		UseEffect(rt, func() func() {
			return func() { cleaned = true }
		}, []any{})
		return map[string]any{}
	}

	scope := reactive.NewScope(nil)
	reactive.WithScope(scope, func() {
		WrapHook(hook)()
	})

	scope.Dispose()
	if !cleaned {
		t.Error("scope dispose should run the hook's effect cleanups")
	}
}
