package vdom

import "testing"

func findOp(patches []Patch, op PatchOp) *Patch {
	for i := range patches {
		if patches[i].Op == op {
			return &patches[i]
		}
	}
	return nil
}

func TestDiffIdenticalTreesNoPatches(t *testing.T) {
	build := func() *VNode {
		return Div(Class("a"), Span(Text("x")))
	}
	patches := Diff(build(), build())
	if len(patches) != 0 {
		t.Errorf("identical trees produced %d patches: %v", len(patches), patches)
	}
}

func TestDiffTextChange(t *testing.T) {
	old := Div(Text("before"))
	old.HID = "h1"
	new := Div(Text("after"))

	patches := Diff(old, new)
	p := findOp(patches, OpSetText)
	if p == nil {
		t.Fatalf("expected SetText, got %v", patches)
	}
	if p.Value != "after" || p.HID != "h1" {
		t.Errorf("wrong patch: %+v", p)
	}
}

func TestDiffAttrSetAndRemove(t *testing.T) {
	old := Div(Class("a"), ID("x"))
	old.HID = "h1"
	new := Div(Class("b"))

	patches := Diff(old, new)

	set := findOp(patches, OpSetAttr)
	if set == nil || set.Key != "class" || set.Value != "b" {
		t.Errorf("expected class set to b, got %v", patches)
	}
	rem := findOp(patches, OpRemoveAttr)
	if rem == nil || rem.Key != "id" {
		t.Errorf("expected id removed, got %v", patches)
	}
}

func TestDiffTagChangeReplacesNode(t *testing.T) {
	old := Div(Span(Text("x")))
	new := Div(P(Text("x")))

	patches := Diff(old, new)
	p := findOp(patches, OpReplaceNode)
	if p == nil {
		t.Fatalf("expected ReplaceNode, got %v", patches)
	}
	if p.Node.Tag != "p" {
		t.Errorf("replacement should be p, got %q", p.Node.Tag)
	}
}

func TestDiffInsertAndRemoveChildren(t *testing.T) {
	old := Ul(Li(Text("a")))
	new := Ul(Li(Text("a")), Li(Text("b")))

	patches := Diff(old, new)
	ins := findOp(patches, OpInsertNode)
	if ins == nil || ins.Index != 1 {
		t.Fatalf("expected insert at index 1, got %v", patches)
	}

	patches = Diff(new, old)
	rem := findOp(patches, OpRemoveNode)
	if rem == nil || rem.Index != 1 {
		t.Fatalf("expected remove at index 1, got %v", patches)
	}
}

func TestDiffKeyedReorderProducesMove(t *testing.T) {
	old := Ul(
		Li(KeyAttr("a"), Text("a")),
		Li(KeyAttr("b"), Text("b")),
		Li(KeyAttr("c"), Text("c")),
	)
	new := Ul(
		Li(KeyAttr("c"), Text("c")),
		Li(KeyAttr("a"), Text("a")),
		Li(KeyAttr("b"), Text("b")),
	)

	patches := Diff(old, new)

	if findOp(patches, OpMoveNode) == nil {
		t.Errorf("expected MoveNode for reorder, got %v", patches)
	}
	if findOp(patches, OpReplaceNode) != nil || findOp(patches, OpInsertNode) != nil {
		t.Errorf("keyed reorder should not replace or insert: %v", patches)
	}
}

func TestDiffKeyedInsertAndRemove(t *testing.T) {
	old := Ul(
		Li(KeyAttr("a"), Text("a")),
		Li(KeyAttr("b"), Text("b")),
	)
	new := Ul(
		Li(KeyAttr("a"), Text("a")),
		Li(KeyAttr("c"), Text("c")),
	)

	patches := Diff(old, new)

	ins := findOp(patches, OpInsertNode)
	if ins == nil || ins.Node.Key != "c" {
		t.Errorf("expected insert of key c, got %v", patches)
	}
	if findOp(patches, OpRemoveNode) == nil {
		t.Errorf("expected removal of key b, got %v", patches)
	}
}

func TestDiffCarriesHIDForward(t *testing.T) {
	old := Button(OnClick(func() {}), Text("0"))
	old.HID = "h1"
	new := Button(OnClick(func() {}), Text("1"))

	patches := Diff(Div(old), Div(new))

	if new.HID != "h1" {
		t.Errorf("HID should carry forward, got %q", new.HID)
	}
	p := findOp(patches, OpSetText)
	if p == nil || p.HID != "h1" {
		t.Errorf("text patch should target h1, got %v", patches)
	}
}

func TestDiffHandlerChangeEmitsUpdateEvents(t *testing.T) {
	old := Button(Text("x"))
	old.HID = "h1"
	new := Button(OnClick(func() {}), Text("x"))

	patches := Diff(old, new)
	if findOp(patches, OpUpdateEvents) == nil {
		t.Errorf("expected UpdateEvents when a handler appears, got %v", patches)
	}
	if findOp(patches, OpSetAttr) != nil {
		t.Errorf("event handlers must not serialize as attributes: %v", patches)
	}
}

func TestDiffKeyedListWithNilSibling(t *testing.T) {
	// A conditional branch that rendered nothing leaves a nil child
	// alongside keyed siblings.
	old := Ul(
		Li(KeyAttr("a"), Text("a")),
		Li(KeyAttr("b"), Text("b")),
	)
	old.Children = append(old.Children, nil)

	new := Ul(
		Li(KeyAttr("b"), Text("b")),
		Li(KeyAttr("a"), Text("a")),
	)
	new.Children = append(new.Children, nil)

	patches := Diff(old, new)

	if findOp(patches, OpMoveNode) == nil {
		t.Errorf("expected MoveNode for reorder, got %v", patches)
	}
	if findOp(patches, OpRemoveNode) != nil || findOp(patches, OpInsertNode) != nil {
		t.Errorf("nil siblings must not add or remove nodes: %v", patches)
	}
}

func TestDiffKeyedNilChildBecomesNode(t *testing.T) {
	old := Ul(Li(KeyAttr("a"), Text("a")))
	old.Children = append(old.Children, nil)

	new := Ul(
		Li(KeyAttr("a"), Text("a")),
		Span(Text("now visible")),
	)

	patches := Diff(old, new)
	ins := findOp(patches, OpInsertNode)
	if ins == nil || ins.Index != 1 {
		t.Fatalf("expected insert at index 1, got %v", patches)
	}
}

func TestDiffNilOldInserts(t *testing.T) {
	patches := Diff(nil, Div())
	if len(patches) != 1 || patches[0].Op != OpInsertNode {
		t.Errorf("expected single insert, got %v", patches)
	}
}
