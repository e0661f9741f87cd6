package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/unison-ui/unison/pkg/vdom"
)

// PatchesFrame is a sequence-numbered batch of tree patches produced by
// one update cycle.
type PatchesFrame struct {
	Seq     uint64
	Patches []vdom.Patch
}

var ErrInvalidPatch = errors.New("protocol: invalid patch encoding")

// maxNodeDepth bounds recursion when decoding node subtrees.
const maxNodeDepth = 256

// EncodePatches serializes a patch batch.
//
// Layout: seq varint, patch count varint, then per patch: op byte,
// target HID string, index svarint, then op-specific fields.
func EncodePatches(pf *PatchesFrame) []byte {
	enc := NewEncoder()
	enc.WriteUvarint(pf.Seq)
	enc.WriteUvarint(uint64(len(pf.Patches)))

	for _, p := range pf.Patches {
		enc.WriteByte(byte(p.Op))
		enc.WriteString(p.HID)
		enc.WriteSvarint(int64(p.Index))

		switch p.Op {
		case vdom.OpSetText:
			enc.WriteString(p.Value)
		case vdom.OpSetAttr:
			enc.WriteString(p.Key)
			enc.WriteString(p.Value)
		case vdom.OpRemoveAttr:
			enc.WriteString(p.Key)
		case vdom.OpMoveNode:
			enc.WriteString(p.Key)
		case vdom.OpReplaceNode, vdom.OpInsertNode, vdom.OpUpdateEvents:
			encodeNode(enc, p.Node)
		}
	}

	return enc.Bytes()
}

// DecodePatches parses a patch batch.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	d := NewDecoder(data)

	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	pf := &PatchesFrame{Seq: seq, Patches: make([]vdom.Patch, 0, count)}

	for i := 0; i < count; i++ {
		opByte, err := d.ReadByte()
		if err != nil {
			return nil, err
		}
		hid, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		index, err := d.ReadSvarint()
		if err != nil {
			return nil, err
		}

		p := vdom.Patch{Op: vdom.PatchOp(opByte), HID: hid, Index: int(index)}

		switch p.Op {
		case vdom.OpSetText:
			if p.Value, err = d.ReadString(); err != nil {
				return nil, err
			}
		case vdom.OpSetAttr:
			if p.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
			if p.Value, err = d.ReadString(); err != nil {
				return nil, err
			}
		case vdom.OpRemoveAttr, vdom.OpMoveNode:
			if p.Key, err = d.ReadString(); err != nil {
				return nil, err
			}
		case vdom.OpReplaceNode, vdom.OpInsertNode, vdom.OpUpdateEvents:
			if p.Node, err = decodeNode(d, 0); err != nil {
				return nil, err
			}
		case vdom.OpRemoveNode:
			// Target fields only
		default:
			return nil, ErrInvalidPatch
		}

		pf.Patches = append(pf.Patches, p)
	}

	return pf, nil
}

// encodeNode serializes a node subtree. Event handlers are not
// serializable; interactive nodes carry their event names so the client
// can forward those events by HID.
func encodeNode(enc *Encoder, node *vdom.VNode) {
	if node == nil {
		enc.WriteByte(0xFF)
		return
	}

	enc.WriteByte(byte(node.Kind))

	switch node.Kind {
	case vdom.KindText, vdom.KindRaw:
		enc.WriteString(node.Text)

	case vdom.KindElement:
		enc.WriteString(node.Tag)
		enc.WriteString(node.Key)
		enc.WriteString(node.HID)

		var attrs [][2]string
		var events []string
		for key, value := range node.Props {
			if strings.HasPrefix(key, "on") {
				events = append(events, key[2:])
				continue
			}
			attrs = append(attrs, [2]string{key, attrValueString(value)})
		}

		enc.WriteUvarint(uint64(len(attrs)))
		for _, kv := range attrs {
			enc.WriteString(kv[0])
			enc.WriteString(kv[1])
		}
		enc.WriteUvarint(uint64(len(events)))
		for _, name := range events {
			enc.WriteString(name)
		}

		enc.WriteUvarint(uint64(len(node.Children)))
		for _, child := range node.Children {
			encodeNode(enc, child)
		}

	case vdom.KindFragment:
		enc.WriteUvarint(uint64(len(node.Children)))
		for _, child := range node.Children {
			encodeNode(enc, child)
		}
	}
}

func decodeNode(d *Decoder, depth int) (*vdom.VNode, error) {
	if depth > maxNodeDepth {
		return nil, ErrInvalidPatch
	}

	kindByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if kindByte == 0xFF {
		return nil, nil
	}

	node := &vdom.VNode{Kind: vdom.VKind(kindByte)}

	switch node.Kind {
	case vdom.KindText, vdom.KindRaw:
		if node.Text, err = d.ReadString(); err != nil {
			return nil, err
		}

	case vdom.KindElement:
		if node.Tag, err = d.ReadString(); err != nil {
			return nil, err
		}
		if node.Key, err = d.ReadString(); err != nil {
			return nil, err
		}
		if node.HID, err = d.ReadString(); err != nil {
			return nil, err
		}

		attrCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if attrCount > 0 {
			node.Props = make(vdom.Props, attrCount)
		}
		for i := 0; i < attrCount; i++ {
			key, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			value, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			node.Props[key] = value
		}

		eventCount, err := d.ReadCollectionCount()
		if err != nil {
			return nil, err
		}
		if eventCount > 0 && node.Props == nil {
			node.Props = make(vdom.Props, eventCount)
		}
		for i := 0; i < eventCount; i++ {
			name, err := d.ReadString()
			if err != nil {
				return nil, err
			}
			// Decoded handlers are placeholders; the live handlers stay
			// server-side in the session dispatch table.
			node.Props["on"+name] = true
		}

		if node.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}

	case vdom.KindFragment:
		if node.Children, err = decodeChildren(d, depth); err != nil {
			return nil, err
		}

	default:
		return nil, ErrInvalidPatch
	}

	return node, nil
}

func decodeChildren(d *Decoder, depth int) ([]*vdom.VNode, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	children := make([]*vdom.VNode, 0, count)
	for i := 0; i < count; i++ {
		child, err := decodeNode(d, depth+1)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func attrValueString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(v)
	}
}
