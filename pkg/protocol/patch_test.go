package protocol

import (
	"testing"

	"github.com/unison-ui/unison/pkg/vdom"
)

func TestPatchesRoundTrip(t *testing.T) {
	pf := &PatchesFrame{
		Seq: 12,
		Patches: []vdom.Patch{
			{Op: vdom.OpSetText, HID: "h1", Index: 0, Value: "updated"},
			{Op: vdom.OpSetAttr, HID: "h2", Key: "class", Value: "active"},
			{Op: vdom.OpRemoveAttr, HID: "h2", Key: "disabled"},
			{Op: vdom.OpRemoveNode, HID: "h3", Index: 2},
			{Op: vdom.OpMoveNode, HID: "h3", Index: 1, Key: "item-b"},
		},
	}

	decoded, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Seq != 12 {
		t.Errorf("seq = %d", decoded.Seq)
	}
	if len(decoded.Patches) != len(pf.Patches) {
		t.Fatalf("patch count = %d", len(decoded.Patches))
	}
	for i, want := range pf.Patches {
		got := decoded.Patches[i]
		if got.Op != want.Op || got.HID != want.HID || got.Index != want.Index ||
			got.Key != want.Key || got.Value != want.Value {
			t.Errorf("patch %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestPatchWithNodeSubtree(t *testing.T) {
	node := vdom.Li(vdom.KeyAttr("x"), vdom.Class("row"),
		vdom.Button(vdom.OnClick(func() {}), vdom.Text("go")),
	)
	node.Children[0].HID = "h9"

	pf := &PatchesFrame{
		Seq:     1,
		Patches: []vdom.Patch{{Op: vdom.OpInsertNode, HID: "h1", Index: 3, Node: node}},
	}

	decoded, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := decoded.Patches[0].Node
	if got.Tag != "li" || got.Key != "x" {
		t.Errorf("root: %+v", got)
	}
	if got.Props["class"] != "row" {
		t.Errorf("attrs: %v", got.Props)
	}

	btn := got.Children[0]
	if btn.Tag != "button" || btn.HID != "h9" {
		t.Errorf("child: %+v", btn)
	}
	// Handlers never cross the wire; the event name marker survives.
	if _, ok := btn.Props["onclick"]; !ok {
		t.Errorf("event marker missing: %v", btn.Props)
	}
	if btn.Children[0].Text != "go" {
		t.Errorf("text child: %+v", btn.Children[0])
	}
}

func TestPatchInvalidOpRejected(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUvarint(1) // seq
	enc.WriteUvarint(1) // count
	enc.WriteByte(0x7F) // bogus op
	enc.WriteString("h1")
	enc.WriteSvarint(0)

	if _, err := DecodePatches(enc.Bytes()); err == nil {
		t.Error("invalid op should fail decoding")
	}
}

func TestPatchEmptyBatch(t *testing.T) {
	pf := &PatchesFrame{Seq: 7}
	decoded, err := DecodePatches(EncodePatches(pf))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Seq != 7 || len(decoded.Patches) != 0 {
		t.Errorf("got %+v", decoded)
	}
}
