package vdom

import "testing"

func TestElBuildsElement(t *testing.T) {
	node := El("div", Class("card"), ID("main"),
		El("span", "hello"),
	)

	if node.Kind != KindElement || node.Tag != "div" {
		t.Fatalf("expected div element, got %s %q", node.Kind, node.Tag)
	}
	if node.Props["class"] != "card" || node.Props["id"] != "main" {
		t.Errorf("props not applied: %v", node.Props)
	}
	if len(node.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(node.Children))
	}
	child := node.Children[0]
	if child.Tag != "span" || len(child.Children) != 1 || child.Children[0].Text != "hello" {
		t.Errorf("child not built correctly: %+v", child)
	}
}

func TestElSkipsNilArgs(t *testing.T) {
	node := Div(nil, If(false, Span()), Text("kept"))
	if len(node.Children) != 1 {
		t.Errorf("expected nil args skipped, got %d children", len(node.Children))
	}
}

func TestElStringBecomesTextChild(t *testing.T) {
	node := P("plain")
	if len(node.Children) != 1 || node.Children[0].Kind != KindText {
		t.Fatalf("expected text child, got %+v", node.Children)
	}
}

func TestKeyAttrSetsKeyNotProp(t *testing.T) {
	node := Li(KeyAttr("item-1"), Text("x"))
	if node.Key != "item-1" {
		t.Errorf("expected key set, got %q", node.Key)
	}
	if _, ok := node.Props["key"]; ok {
		t.Error("key must not appear in props")
	}
}

func TestBooleanAttrsOmittedWhenFalse(t *testing.T) {
	node := Input(Disabled(false), Checked(true))
	if _, ok := node.Props["disabled"]; ok {
		t.Error("disabled(false) should be omitted")
	}
	if _, ok := node.Props["checked"]; !ok {
		t.Error("checked(true) should be present")
	}
}

func TestEventHandlerStoredAsProp(t *testing.T) {
	node := Button(OnClick(func() {}), Text("+"))
	if !node.IsInteractive() {
		t.Error("node with handler should be interactive")
	}
	if _, ok := node.Props["onclick"]; !ok {
		t.Error("onclick handler not stored")
	}
}

func TestFragmentDropsNilChildren(t *testing.T) {
	frag := Fragment(Text("a"), nil, Text("b"))
	if frag.Kind != KindFragment || len(frag.Children) != 2 {
		t.Errorf("fragment wrong: %+v", frag)
	}
}

func TestRangeMapsItems(t *testing.T) {
	items := []string{"a", "b", "c"}
	nodes := Range(items, func(s string) *VNode {
		return Li(Text(s))
	})
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[1].Children[0].Text != "b" {
		t.Errorf("wrong mapping: %+v", nodes[1])
	}
}

func TestIsVoidElement(t *testing.T) {
	if !IsVoidElement("br") || !IsVoidElement("input") {
		t.Error("br and input are void")
	}
	if IsVoidElement("div") {
		t.Error("div is not void")
	}
}

func TestAssignHIDsOnlyInteractive(t *testing.T) {
	tree := Div(
		Span(Text("static")),
		Button(OnClick(func() {}), Text("+")),
		Input(OnInput(func(string) {})),
	)

	gen := NewHIDGenerator()
	AssignHIDs(tree, gen)

	if tree.HID != "" {
		t.Error("non-interactive root should have no HID")
	}
	if tree.Children[0].HID != "" {
		t.Error("static span should have no HID")
	}
	if tree.Children[1].HID != "h1" {
		t.Errorf("button HID = %q, want h1", tree.Children[1].HID)
	}
	if tree.Children[2].HID != "h2" {
		t.Errorf("input HID = %q, want h2", tree.Children[2].HID)
	}
}

func TestAssignHIDsPreservesExisting(t *testing.T) {
	btn := Button(OnClick(func() {}))
	btn.HID = "h9"
	tree := Div(btn)

	gen := NewHIDGenerator()
	AssignHIDs(tree, gen)

	if btn.HID != "h9" {
		t.Errorf("existing HID overwritten: %q", btn.HID)
	}
}

func TestCollectHandlers(t *testing.T) {
	tree := Div(
		Button(OnClick(func() {}), Text("+")),
		Input(OnInput(func(string) {}), OnBlur(func() {})),
	)
	AssignHIDs(tree, NewHIDGenerator())

	handlers := CollectHandlers(tree)
	if len(handlers) != 2 {
		t.Fatalf("expected handlers for 2 nodes, got %d", len(handlers))
	}
	if len(handlers["h2"]) != 2 {
		t.Errorf("input should have 2 handlers, got %d", len(handlers["h2"]))
	}
}

func TestWalkStopsOnFalse(t *testing.T) {
	tree := Div(Span(), Span(), Span())
	visited := 0
	Walk(tree, func(n *VNode) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Errorf("walk should stop after 2 visits, got %d", visited)
	}
}
