package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	f := NewFrame(FrameEvent, []byte("payload"))

	decoded, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != FrameEvent {
		t.Errorf("type = %s", decoded.Type)
	}
	if string(decoded.Payload) != "payload" {
		t.Errorf("payload = %q", decoded.Payload)
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	f := NewFrame(FrameControl, nil)
	decoded, err := DecodeFrame(f.Encode())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Payload) != 0 {
		t.Errorf("payload = %v", decoded.Payload)
	}
}

func TestFrameTruncatedHeader(t *testing.T) {
	if _, err := DecodeFrame([]byte{0x01, 0x00}); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated header: got %v", err)
	}
}

func TestFrameTruncatedPayload(t *testing.T) {
	data := []byte{byte(FrameEvent), 0x00, 0x00, 0x10, 'a', 'b'}
	if _, err := DecodeFrame(data); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("truncated payload: got %v", err)
	}
}

func TestReadWriteFrameStream(t *testing.T) {
	var buf bytes.Buffer

	frames := []*Frame{
		NewFrame(FrameHandshake, []byte("hs")),
		NewFrame(FramePatches, []byte("patches")),
		NewFrame(FrameControl, nil),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	for _, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Type != want.Type || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("frame mismatch: %+v vs %+v", got, want)
		}
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(io.Discard, f); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("oversized frame: got %v", err)
	}
}
