// Package uitest is a test harness for components. It mounts a
// component in a real session, renders it, and simulates client events
// against the handler table the server would expose:
//
//	h := uitest.Mount(t, counterDef, nil)
//	h.ExpectContains("count=0")
//	h.ClickText("+1")
//	h.ExpectContains("count=1")
package uitest

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/unison-ui/unison/pkg/component"
	"github.com/unison-ui/unison/pkg/protocol"
	"github.com/unison-ui/unison/pkg/render"
	"github.com/unison-ui/unison/pkg/server"
	"github.com/unison-ui/unison/pkg/vdom"
)

// Harness drives a mounted component through render and event cycles.
type Harness struct {
	t       *testing.T
	session *server.Session
	tree    *vdom.VNode
}

// Mount creates a session, mounts def as its root, and renders it.
// The session closes when the test ends.
func Mount(t *testing.T, def *component.Definition, props map[string]any) *Harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := server.NewSession(nil, logger)
	t.Cleanup(s.Close)

	tree, err := s.MountRoot(def, props)
	if err != nil {
		t.Fatalf("uitest: mount: %v", err)
	}

	return &Harness{t: t, session: s, tree: tree}
}

// Session returns the underlying session.
func (h *Harness) Session() *server.Session {
	return h.session
}

// Tree returns the most recent render output.
func (h *Harness) Tree() *vdom.VNode {
	return h.tree
}

// HTML renders the current tree to a string.
func (h *Harness) HTML() string {
	h.t.Helper()
	r := render.New(render.Config{})
	html, err := r.RenderHTML(h.tree)
	if err != nil {
		h.t.Fatalf("uitest: render: %v", err)
	}
	return html
}

// Fire dispatches an event against the node with the given HID and
// refreshes the tree from the resulting cycle.
func (h *Harness) Fire(e *protocol.Event) {
	h.t.Helper()
	if err := h.session.HandleEvent(e); err != nil {
		h.t.Fatalf("uitest: event %s: %v", e.Type.String(), err)
	}
	if root := h.session.Root(); root != nil && root.LastTree() != nil {
		h.tree = root.LastTree()
	}
}

// Click fires a click on the node with the given HID.
func (h *Harness) Click(hid string) {
	h.t.Helper()
	h.Fire(&protocol.Event{Type: protocol.EventClick, HID: hid})
}

// ClickText fires a click on the first element whose text content
// contains text and which carries a click handler.
func (h *Harness) ClickText(text string) {
	h.t.Helper()
	node := findClickable(h.tree, text)
	if node == nil {
		h.t.Fatalf("uitest: no clickable element containing %q", text)
	}
	h.Click(node.HID)
}

// Input fires an input event with the given value on the node with the
// given HID.
func (h *Harness) Input(hid, value string) {
	h.t.Helper()
	h.Fire(&protocol.Event{Type: protocol.EventInput, HID: hid, Payload: value})
}

// Find returns the first element node matching pred, depth first.
func (h *Harness) Find(pred func(*vdom.VNode) bool) *vdom.VNode {
	return find(h.tree, pred)
}

// FindByTag returns the first element with the given tag.
func (h *Harness) FindByTag(tag string) *vdom.VNode {
	return find(h.tree, func(n *vdom.VNode) bool {
		return n.Kind == vdom.KindElement && n.Tag == tag
	})
}

// ExpectContains asserts the rendered output contains the substring.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	if html := h.HTML(); !strings.Contains(html, expected) {
		h.t.Errorf("rendered output missing %q:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts the rendered output lacks the substring.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	if html := h.HTML(); strings.Contains(html, unexpected) {
		h.t.Errorf("rendered output should not contain %q:\n%s", unexpected, truncate(html, 500))
	}
}

// find walks the tree depth first.
func find(n *vdom.VNode, pred func(*vdom.VNode) bool) *vdom.VNode {
	if n == nil {
		return nil
	}
	if pred(n) {
		return n
	}
	for _, c := range n.Children {
		if got := find(c, pred); got != nil {
			return got
		}
	}
	return nil
}

// findClickable matches elements with a click handler whose subtree
// text contains the needle.
func findClickable(n *vdom.VNode, needle string) *vdom.VNode {
	return find(n, func(c *vdom.VNode) bool {
		if c.Kind != vdom.KindElement || c.Props["onclick"] == nil {
			return false
		}
		return strings.Contains(textContent(c), needle)
	})
}

// textContent concatenates the text nodes under n.
func textContent(n *vdom.VNode) string {
	if n == nil {
		return ""
	}
	if n.Kind == vdom.KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(textContent(c))
	}
	return b.String()
}

// truncate shortens s for error output.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
