// Package protocol defines the binary wire format between the server
// runtime and the browser client: a framed transport (type, flags,
// length, payload), varint-based encoders and decoders with allocation
// limits, and message types for handshake, client events, patch batches,
// control traffic, and errors.
//
// All multi-byte fixed-width integers are big-endian; variable-width
// integers use protobuf-style varints with ZigZag for signed values.
package protocol
