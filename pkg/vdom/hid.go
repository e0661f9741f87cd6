package vdom

import (
	"fmt"
	"sync/atomic"
)

// HIDGenerator produces hydration IDs for interactive nodes. IDs are
// stable within a single render pass; the client uses them to bind
// event listeners and the server uses them to route events back.
type HIDGenerator struct {
	counter atomic.Uint64
}

// NewHIDGenerator creates a generator starting at h1.
func NewHIDGenerator() *HIDGenerator {
	return &HIDGenerator{}
}

// Next returns the next hydration ID ("h1", "h2", ...).
func (g *HIDGenerator) Next() string {
	return fmt.Sprintf("h%d", g.counter.Add(1))
}

// Reset restarts the sequence. Called at the start of each full render.
func (g *HIDGenerator) Reset() {
	g.counter.Store(0)
}

// AssignHIDs walks the tree and assigns a hydration ID to every
// interactive node that does not already have one. Non-interactive nodes
// keep an empty HID so the rendered HTML stays minimal.
func AssignHIDs(root *VNode, gen *HIDGenerator) {
	Walk(root, func(n *VNode) bool {
		if n.Kind == KindElement && n.HID == "" && n.IsInteractive() {
			n.HID = gen.Next()
		}
		return true
	})
}

// CollectHandlers gathers all event handlers in the tree keyed by
// hydration ID, for the session's event dispatch table.
func CollectHandlers(root *VNode) map[string]map[string]any {
	handlers := make(map[string]map[string]any)
	Walk(root, func(n *VNode) bool {
		if n.HID == "" {
			return true
		}
		if hs := n.EventHandlers(); len(hs) > 0 {
			handlers[n.HID] = hs
		}
		return true
	})
	return handlers
}
