package protocol

import "io"

// ControlType identifies a control message.
type ControlType uint8

const (
	ControlPing   ControlType = 0x01
	ControlPong   ControlType = 0x02
	ControlResync ControlType = 0x03 // Client requests a full re-render
)

// String returns the control type name.
func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	case ControlResync:
		return "Resync"
	default:
		return "Unknown"
	}
}

// Control is a keepalive or resync message. Seq echoes the last
// processed patch sequence for ping/pong liveness accounting.
type Control struct {
	Type ControlType
	Seq  uint64
}

// EncodeControl serializes a control message.
func EncodeControl(c *Control) []byte {
	enc := NewEncoder()
	enc.WriteByte(byte(c.Type))
	enc.WriteUvarint(c.Seq)
	return enc.Bytes()
}

// DecodeControl parses a control message.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)

	typeByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, io.ErrUnexpectedEOF
	}

	return &Control{Type: ControlType(typeByte), Seq: seq}, nil
}
