package vdom

import "fmt"

// PatchOp identifies a tree mutation. Values are part of the wire
// protocol and must not be renumbered.
type PatchOp uint8

const (
	OpReplaceNode  PatchOp = 0x01 // Replace a subtree
	OpSetText      PatchOp = 0x02 // Update a text node's content
	OpSetAttr      PatchOp = 0x03 // Set or change an attribute
	OpRemoveAttr   PatchOp = 0x04 // Remove an attribute
	OpInsertNode   PatchOp = 0x05 // Insert a child at an index
	OpRemoveNode   PatchOp = 0x06 // Remove a child at an index
	OpMoveNode     PatchOp = 0x07 // Move a keyed child to a new index
	OpUpdateEvents PatchOp = 0x08 // Rebind event listeners for a node
)

// String returns the op name for logging.
func (op PatchOp) String() string {
	switch op {
	case OpReplaceNode:
		return "ReplaceNode"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpInsertNode:
		return "InsertNode"
	case OpRemoveNode:
		return "RemoveNode"
	case OpMoveNode:
		return "MoveNode"
	case OpUpdateEvents:
		return "UpdateEvents"
	default:
		return "Unknown"
	}
}

// Patch is a single mutation produced by Diff. HID targets the node; for
// child operations it is the parent's HID and Index locates the child.
type Patch struct {
	Op    PatchOp
	HID   string
	Index int
	Key   string // Attribute name for SetAttr/RemoveAttr
	Value string // Attribute or text value
	Node  *VNode // Subtree for ReplaceNode/InsertNode
}

// Diff compares two trees and returns the patches that transform old
// into new. Both trees must have hydration IDs assigned; new nodes that
// match old nodes inherit their HIDs so event routing stays stable.
func Diff(old, new *VNode) []Patch {
	var patches []Patch
	diffNode(old, new, "", 0, &patches)
	return patches
}

func diffNode(old, new *VNode, parentHID string, index int, patches *[]Patch) {
	switch {
	case old == nil && new == nil:
		return
	case old == nil:
		*patches = append(*patches, Patch{Op: OpInsertNode, HID: parentHID, Index: index, Node: new})
		return
	case new == nil:
		*patches = append(*patches, Patch{Op: OpRemoveNode, HID: parentHID, Index: index})
		return
	}

	if old.Kind != new.Kind {
		replaceNode(old, new, parentHID, index, patches)
		return
	}

	switch new.Kind {
	case KindText, KindRaw:
		if old.Text != new.Text {
			// Text nodes have no HID of their own; target the parent.
			*patches = append(*patches, Patch{Op: OpSetText, HID: parentHID, Index: index, Value: new.Text})
		}
	case KindElement:
		diffElement(old, new, parentHID, index, patches)
	case KindFragment:
		diffChildren(old, new, parentHID, patches)
	}
}

func replaceNode(old, new *VNode, parentHID string, index int, patches *[]Patch) {
	hid := parentHID
	if old != nil && old.HID != "" {
		hid = old.HID
	}
	*patches = append(*patches, Patch{Op: OpReplaceNode, HID: hid, Index: index, Node: new})
}

func diffElement(old, new *VNode, parentHID string, index int, patches *[]Patch) {
	if old.Tag != new.Tag {
		replaceNode(old, new, parentHID, index, patches)
		return
	}

	// Same element: carry the identity forward.
	if new.HID == "" {
		new.HID = old.HID
	}

	hid := new.HID
	if hid == "" {
		hid = parentHID
	}

	diffProps(old, new, hid, patches)
	diffChildren(old, new, hid, patches)
}

// diffProps emits attribute patches. Event handlers are not serialized;
// a handler change becomes a single UpdateEvents op so the session can
// rebuild its dispatch table for the node.
func diffProps(old, new *VNode, hid string, patches *[]Patch) {
	eventsChanged := false

	for key, newVal := range new.Props {
		if isEventProp(key) {
			if _, had := old.Props[key]; !had {
				eventsChanged = true
			}
			continue
		}
		oldVal, had := old.Props[key]
		if !had || oldVal != newVal {
			*patches = append(*patches, Patch{Op: OpSetAttr, HID: hid, Key: key, Value: attrString(newVal)})
		}
	}

	for key := range old.Props {
		if _, kept := new.Props[key]; kept {
			continue
		}
		if isEventProp(key) {
			eventsChanged = true
			continue
		}
		*patches = append(*patches, Patch{Op: OpRemoveAttr, HID: hid, Key: key})
	}

	if eventsChanged {
		*patches = append(*patches, Patch{Op: OpUpdateEvents, HID: hid, Node: new})
	}
}

func diffChildren(old, new *VNode, parentHID string, patches *[]Patch) {
	if hasKeys(old.Children) || hasKeys(new.Children) {
		diffKeyedChildren(old, new, parentHID, patches)
		return
	}

	max := len(old.Children)
	if len(new.Children) > max {
		max = len(new.Children)
	}
	for i := 0; i < max; i++ {
		var oldChild, newChild *VNode
		if i < len(old.Children) {
			oldChild = old.Children[i]
		}
		if i < len(new.Children) {
			newChild = new.Children[i]
		}
		diffNode(oldChild, newChild, parentHID, i, patches)
	}
}

// diffKeyedChildren matches children by key so reorders become moves
// rather than rewrites. Unkeyed children in a keyed list fall back to
// positional matching among themselves.
func diffKeyedChildren(old, new *VNode, parentHID string, patches *[]Patch) {
	oldByKey := make(map[string]int)
	for i, c := range old.Children {
		if c != nil && c.Key != "" {
			oldByKey[c.Key] = i
		}
	}

	matched := make(map[int]bool, len(old.Children))

	for newIdx, newChild := range new.Children {
		// Nil children are keyless; conditional renders leave them in
		// the slice.
		if newChild == nil || newChild.Key == "" {
			// Positional match against the same index when unkeyed
			if newIdx < len(old.Children) && !matched[newIdx] && keyOf(old.Children[newIdx]) == "" {
				matched[newIdx] = true
				diffNode(old.Children[newIdx], newChild, parentHID, newIdx, patches)
			} else if newChild != nil {
				*patches = append(*patches, Patch{Op: OpInsertNode, HID: parentHID, Index: newIdx, Node: newChild})
			}
			continue
		}

		oldIdx, found := oldByKey[newChild.Key]
		if !found {
			*patches = append(*patches, Patch{Op: OpInsertNode, HID: parentHID, Index: newIdx, Node: newChild})
			continue
		}

		matched[oldIdx] = true
		if oldIdx != newIdx {
			*patches = append(*patches, Patch{Op: OpMoveNode, HID: parentHID, Index: newIdx, Key: newChild.Key})
		}
		diffNode(old.Children[oldIdx], newChild, parentHID, newIdx, patches)
	}

	// Removals run back to front so earlier indices stay valid. Nil
	// children never rendered anything, so there is nothing to remove.
	for i := len(old.Children) - 1; i >= 0; i-- {
		if !matched[i] && old.Children[i] != nil {
			*patches = append(*patches, Patch{Op: OpRemoveNode, HID: parentHID, Index: i})
		}
	}
}

func keyOf(n *VNode) string {
	if n == nil {
		return ""
	}
	return n.Key
}

func hasKeys(children []*VNode) bool {
	for _, c := range children {
		if c != nil && c.Key != "" {
			return true
		}
	}
	return false
}

func isEventProp(key string) bool {
	return len(key) > 2 && key[0] == 'o' && key[1] == 'n'
}

func attrString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		// Boolean attributes serialize as presence; value is empty.
		return ""
	default:
		return fmt.Sprint(val)
	}
}
