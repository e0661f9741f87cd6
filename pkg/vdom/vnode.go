package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement  VKind = iota // <div>, <button>, etc.
	KindText                  // Plain text node
	KindFragment              // Grouping without a wrapper element
	KindRaw                   // Raw HTML (dangerous)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindRaw:
		return "Raw"
	default:
		return "Unknown"
	}
}

// VNode is a virtual DOM node.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Props    Props    // Attributes and event handlers
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key
	Text     string   // For KindText and KindRaw
	HID      string   // Hydration ID (assigned during render)
}

// Props holds attributes and event handlers.
// Event handler entries use "on"-prefixed keys ("onclick", "oninput").
type Props map[string]any

// Attr is a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true for the zero Attr.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler binds a handler to a DOM event.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any
}

// IsInteractive returns true if the node carries event handlers and
// therefore needs a hydration ID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for key := range v.Props {
		if strings.HasPrefix(key, "on") {
			return true
		}
	}
	return false
}

// EventHandlers returns the node's handlers keyed by event name.
func (v *VNode) EventHandlers() map[string]any {
	if v == nil || v.Props == nil {
		return nil
	}
	var handlers map[string]any
	for key, val := range v.Props {
		if strings.HasPrefix(key, "on") {
			if handlers == nil {
				handlers = make(map[string]any)
			}
			handlers[key] = val
		}
	}
	return handlers
}

// voidElements cannot have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"embed": true, "hr": true, "img": true, "input": true,
	"link": true, "meta": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

// IsVoidElement returns true if tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Walk visits node and all descendants in depth-first order.
// Returning false from fn stops the walk.
func Walk(node *VNode, fn func(*VNode) bool) bool {
	if node == nil {
		return true
	}
	if !fn(node) {
		return false
	}
	for _, child := range node.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}
