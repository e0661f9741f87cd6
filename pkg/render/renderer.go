package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/unison-ui/unison/pkg/vdom"
)

// Config configures the HTML renderer.
type Config struct {
	// AssignHIDs controls whether interactive elements receive hydration
	// IDs during rendering. On for server-side rendering, off when
	// producing static HTML with no live session behind it.
	AssignHIDs bool
}

// Renderer serializes VNode trees to HTML. A Renderer is reused across
// renders of the same session; Reset restarts the hydration ID sequence.
type Renderer struct {
	config Config
	hids   *vdom.HIDGenerator
}

// New creates a Renderer.
func New(config Config) *Renderer {
	return &Renderer{
		config: config,
		hids:   vdom.NewHIDGenerator(),
	}
}

// RenderHTML renders a tree to an HTML string.
func (r *Renderer) RenderHTML(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Render streams a tree to w. When HID assignment is enabled, interactive
// nodes are tagged first so the emitted data-hid attributes match the
// tree the session diffs against.
func (r *Renderer) Render(w io.Writer, node *vdom.VNode) error {
	if r.config.AssignHIDs {
		vdom.AssignHIDs(node, r.hids)
	}
	return r.renderNode(w, node)
}

// Reset restarts the hydration ID sequence for a fresh full render.
func (r *Renderer) Reset() {
	r.hids.Reset()
}

func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node)
	case vdom.KindText:
		_, err := io.WriteString(w, EscapeHTML(node.Text))
		return err
	case vdom.KindRaw:
		_, err := io.WriteString(w, node.Text)
		return err
	case vdom.KindFragment:
		for _, child := range node.Children {
			if err := r.renderNode(w, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node kind %d", node.Kind)
	}
}

func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode) error {
	if _, err := fmt.Fprintf(w, "<%s", node.Tag); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node); err != nil {
		return err
	}

	if node.HID != "" {
		if _, err := fmt.Fprintf(w, ` data-hid="%s"`, node.HID); err != nil {
			return err
		}
	}

	if vdom.IsVoidElement(node.Tag) {
		_, err := io.WriteString(w, ">")
		return err
	}

	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	for _, child := range node.Children {
		if err := r.renderNode(w, child); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "</%s>", node.Tag)
	return err
}

func (r *Renderer) renderAttributes(w io.Writer, node *vdom.VNode) error {
	if len(node.Props) == 0 {
		return nil
	}

	// Deterministic attribute order keeps output diffable
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.HasPrefix(key, "on") {
			// Handlers live in the session dispatch table, not the markup
			continue
		}

		value := node.Props[key]
		if b, ok := value.(bool); ok {
			if b {
				if _, err := fmt.Fprintf(w, " %s", key); err != nil {
					return err
				}
			}
			continue
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, EscapeAttr(attrText(value))); err != nil {
			return err
		}
	}

	// Event markers let the client bind listeners before the socket opens
	for _, key := range keys {
		if strings.HasPrefix(key, "on") {
			if _, err := fmt.Fprintf(w, ` data-on-%s=""`, key[2:]); err != nil {
				return err
			}
		}
	}

	return nil
}

func attrText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
