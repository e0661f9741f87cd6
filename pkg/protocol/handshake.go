package protocol

import "errors"

// ProtocolVersion is the current wire protocol version. The server
// rejects handshakes from clients speaking a newer major version.
const ProtocolVersion = 1

// Handshake opens a session. A non-empty ResumeToken asks the server to
// reattach to an existing session instead of mounting a fresh tree.
type Handshake struct {
	Version     uint16
	Path        string
	ResumeToken string
}

// HandshakeAck is the server's reply.
type HandshakeAck struct {
	SessionID string
	Resumed   bool
}

var ErrVersionMismatch = errors.New("protocol: unsupported protocol version")

// EncodeHandshake serializes a handshake request.
func EncodeHandshake(h *Handshake) []byte {
	enc := NewEncoder()
	enc.WriteUint16(h.Version)
	enc.WriteString(h.Path)
	enc.WriteString(h.ResumeToken)
	return enc.Bytes()
}

// DecodeHandshake parses a handshake request.
func DecodeHandshake(data []byte) (*Handshake, error) {
	d := NewDecoder(data)

	version, err := d.ReadUint16()
	if err != nil {
		return nil, err
	}
	path, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	token, err := d.ReadString()
	if err != nil {
		return nil, err
	}

	if version > ProtocolVersion {
		return nil, ErrVersionMismatch
	}

	return &Handshake{Version: version, Path: path, ResumeToken: token}, nil
}

// EncodeHandshakeAck serializes a handshake reply.
func EncodeHandshakeAck(ack *HandshakeAck) []byte {
	enc := NewEncoder()
	enc.WriteString(ack.SessionID)
	enc.WriteBool(ack.Resumed)
	return enc.Bytes()
}

// DecodeHandshakeAck parses a handshake reply.
func DecodeHandshakeAck(data []byte) (*HandshakeAck, error) {
	d := NewDecoder(data)

	id, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	resumed, err := d.ReadBool()
	if err != nil {
		return nil, err
	}

	return &HandshakeAck{SessionID: id, Resumed: resumed}, nil
}
