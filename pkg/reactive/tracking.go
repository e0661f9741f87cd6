package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for a goroutine.
// Each goroutine has its own tracking context to support concurrent
// component rendering and ref access.
type trackingContext struct {
	// currentScope is the Scope that will own newly created watchers.
	// Set during component setup to establish the ownership hierarchy.
	currentScope *Scope

	// currentListener is what is currently tracking dependencies.
	// When a ref is read, it subscribes this listener.
	// nil means no tracking (reads don't create subscriptions).
	currentListener Listener

	// currentWatcher is the watcher whose body is currently executing,
	// if any. Used to suppress self-notification on writes.
	currentWatcher *Watcher

	// batchDepth tracks nested Batch() calls.
	// When > 0, ref writes queue notifications instead of firing immediately.
	batchDepth int

	// pendingUpdates accumulates listeners to notify when the batch completes.
	// Deduplicated by ID before notification.
	pendingUpdates []Listener

	// renderDepth tracks nested component renders.
	// When > 0, hook-style constructors use scope hook slots for
	// stable identity across re-renders.
	renderDepth int

	// currentEnv holds the current runtime environment (server session ctx).
	// Stored as any to avoid circular imports with the server package.
	currentEnv any
}

// beginRender marks the start of a component render on this goroutine.
func beginRender() {
	getTrackingContext().renderDepth++
}

// endRender marks the end of a component render.
func endRender() {
	ctx := getTrackingContext()
	if ctx.renderDepth > 0 {
		ctx.renderDepth--
	}
}

// isInRender reports whether a component render is in progress on this
// goroutine.
func isInRender() bool {
	return getTrackingContext().renderDepth > 0
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// getGoroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
// Implementation detail; never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // Skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current goroutine,
// creating one if needed.
func getTrackingContext() *trackingContext {
	gid := getGoroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the listener currently tracking reads.
// Returns nil if no tracking is active.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener sets the current listener for dependency tracking.
// Returns the previous listener so it can be restored.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// currentMutator returns the listener whose computation is currently
// executing on this goroutine, for self-notification suppression.
// During a watcher body this is the watcher even when tracking has been
// suspended with Untracked.
func currentMutator() Listener {
	ctx := getTrackingContext()
	if ctx.currentWatcher != nil {
		return ctx.currentWatcher
	}
	return ctx.currentListener
}

// setCurrentWatcher marks w as the watcher executing on this goroutine.
// Returns the previous watcher so it can be restored.
func setCurrentWatcher(w *Watcher) *Watcher {
	ctx := getTrackingContext()
	old := ctx.currentWatcher
	ctx.currentWatcher = w
	return old
}

// getCurrentScope returns the current scope for the goroutine.
// Returns nil if no scope is established.
func getCurrentScope() *Scope {
	return getTrackingContext().currentScope
}

// setCurrentScope sets the current scope for watcher creation.
// Returns the previous scope so it can be restored.
func setCurrentScope(s *Scope) *Scope {
	ctx := getTrackingContext()
	old := ctx.currentScope
	ctx.currentScope = s
	return old
}

// CurrentScope returns the scope established by the surrounding setup,
// render, or watcher on this goroutine, or nil outside one.
func CurrentScope() *Scope {
	return getCurrentScope()
}

// getBatchDepth returns the current batch nesting depth.
func getBatchDepth() int {
	return getTrackingContext().batchDepth
}

// incrementBatchDepth increases the batch depth by 1.
func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth decreases the batch depth by 1.
// Returns true if the depth reached 0 (outermost batch complete).
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// queuePendingUpdate adds a listener to the pending updates queue.
// Called during batch mode when a ref is written.
func queuePendingUpdate(l Listener) {
	ctx := getTrackingContext()
	ctx.pendingUpdates = append(ctx.pendingUpdates, l)
}

// drainPendingUpdates returns and clears the pending updates queue.
func drainPendingUpdates() []Listener {
	ctx := getTrackingContext()
	updates := ctx.pendingUpdates
	ctx.pendingUpdates = nil
	return updates
}

// WithScope runs fn with the given scope as the current scope.
// Used when spawning goroutines that need to create watchers that belong
// to a specific component instance.
//
//	go func() {
//	    reactive.WithScope(parent, func() {
//	        // Watchers created here belong to parent
//	    })
//	}()
func WithScope(scope *Scope, fn func()) {
	old := setCurrentScope(scope)
	defer setCurrentScope(old)
	fn()
}

// WithListener runs fn with the given listener receiving dependency
// subscriptions. Used internally to set up tracking during render.
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}

// getCurrentEnv returns the runtime environment for the goroutine, or nil.
func getCurrentEnv() any {
	return getTrackingContext().currentEnv
}

// setCurrentEnv sets the runtime environment.
// Returns the previous value so it can be restored.
func setCurrentEnv(env any) any {
	ctx := getTrackingContext()
	old := ctx.currentEnv
	ctx.currentEnv = env
	return old
}

// WithEnv runs fn with the given runtime environment established.
// The server uses this during event handling and render so components can
// reach their session context.
func WithEnv(env any, fn func()) {
	old := setCurrentEnv(env)
	defer setCurrentEnv(old)
	fn()
}

// UseEnv returns the runtime environment established by WithEnv, or nil
// when called outside a render, watcher, or event handler.
func UseEnv() any {
	return getCurrentEnv()
}
