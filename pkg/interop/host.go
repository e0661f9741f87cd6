package interop

import (
	"github.com/unison-ui/unison/pkg/reactive"
)

// Composable is a setup-style function: it runs once, creates refs and
// watchers, and returns a snapshot function producing its public result.
// The snapshot is read under tracking, so the values it touches define
// when the adapted hook updates.
type Composable func() func() map[string]any

// NewHostHook adapts a Composable into a Hook for re-render runtimes.
// The composable runs once per hook call site; after that, every render
// of the host returns the latest snapshot, and reactive changes to the
// snapshot's inputs push a new value through the host's state slot,
// triggering a host re-render.
//
// Unmounting the host call site disposes the composable's scope along
// with its watchers and cleanups.
func NewHostHook(composable Composable) Hook {
	return func(rt *Runtime) map[string]any {
		bridge := UseMemo(rt, func() *hostBridge {
			return newHostBridge(composable)
		}, []any{})

		snapshot, setSnapshot := UseState(rt, bridge.initial)

		UseEffect(rt, func() func() {
			bridge.setSink(setSnapshot)
			return bridge.dispose
		}, []any{})

		return snapshot
	}
}

// hostBridge owns the composable's scope and forwards reactive updates
// into the host runtime's state.
type hostBridge struct {
	scope   *reactive.Scope
	initial map[string]any

	// sink receives new snapshots once the host's effect has wired it.
	sink func(map[string]any)
}

func newHostBridge(composable Composable) *hostBridge {
	b := &hostBridge{scope: reactive.NewScope(nil)}

	reactive.WithScope(b.scope, func() {
		snapshot := composable()

		first := true
		// Immediate mode: host runtimes have no flush cycle to drive
		// scheduled watchers.
		reactive.WatchEffect(func() reactive.Cleanup {
			snap := snapshot()
			if first {
				first = false
				b.initial = snap
				return nil
			}
			if b.sink != nil {
				b.sink(snap)
			}
			return nil
		}, reactive.WatchImmediate(), reactive.WatchName("interop.hostBridge"))
	})

	return b
}

func (b *hostBridge) setSink(sink func(map[string]any)) {
	b.sink = sink
}

func (b *hostBridge) dispose() {
	b.scope.Dispose()
}
