package reactive

import (
	"sync"
	"sync/atomic"
)

// Listener is anything that can be notified when a dependency changes.
// This interface is implemented by component instances, computeds, and watchers.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies has changed.
	// For component instances, this schedules a re-render.
	// For computeds, this invalidates the cached value.
	// For watchers, this schedules the watcher to re-run.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication during batch processing.
	ID() uint64
}

// Cleanup is a function returned by watchers to release resources.
// It is called before the watcher re-runs and when the watcher is disposed.
type Cleanup func()

// globalIDCounter is the source of unique IDs for all reactive primitives.
var globalIDCounter uint64

// nextID returns the next unique ID for a reactive primitive.
// IDs are monotonically increasing and never reused.
func nextID() uint64 {
	return atomic.AddUint64(&globalIDCounter, 1)
}

// refBase provides type-erased subscriber management.
// It is embedded in Ref[T], Computed[T], and Object properties to share
// subscription logic.
type refBase struct {
	id uint64

	// subs are the listeners subscribed to this source.
	subs []Listener

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a listener to this source's subscribers.
// Deduplicates by listener ID to prevent double-subscription.
func (b *refBase) subscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	lid := l.ID()
	for _, existing := range b.subs {
		if existing.ID() == lid {
			return
		}
	}

	b.subs = append(b.subs, l)
}

// unsubscribe removes a listener from this source's subscribers.
func (b *refBase) unsubscribe(l Listener) {
	if l == nil {
		return
	}

	b.subMu.Lock()
	defer b.subMu.Unlock()

	lid := l.ID()
	for i, existing := range b.subs {
		if existing.ID() == lid {
			// Remove by swapping with the last element (order doesn't matter)
			b.subs[i] = b.subs[len(b.subs)-1]
			b.subs = b.subs[:len(b.subs)-1]
			return
		}
	}
}

// notifySubscribers notifies all subscribers that this source changed.
// Uses copy-before-notify to avoid holding locks during notification.
//
// A write performed inside a tracked computation never notifies that same
// computation: the currently running listener is skipped. This is what
// keeps a watcher from re-triggering itself by mutating its own
// dependencies during its run.
func (b *refBase) notifySubscribers() {
	b.subMu.RLock()
	subs := make([]Listener, len(b.subs))
	copy(subs, b.subs)
	b.subMu.RUnlock()

	self := currentMutator()

	if getBatchDepth() > 0 {
		for _, sub := range subs {
			if self != nil && sub.ID() == self.ID() {
				continue
			}
			queuePendingUpdate(sub)
		}
		return
	}

	for _, sub := range subs {
		if self != nil && sub.ID() == self.ID() {
			continue
		}
		sub.MarkDirty()
	}
}

// getID returns the unique identifier for this source.
func (b *refBase) getID() uint64 {
	return b.id
}

// trackRead subscribes the current listener (if any) to this source and
// records the source on the listener so it can be dropped on re-track.
func (b *refBase) trackRead() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}

	b.subscribe(listener)

	if st, ok := listener.(sourceTracker); ok {
		st.addSource(b)
	}
}

// sourceTracker is implemented by listeners that re-derive their dependency
// set on every run (watchers and computeds). Sources added here are
// unsubscribed before the next tracking pass.
type sourceTracker interface {
	Listener
	addSource(source *refBase)
}
