package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int // expected total length including header
	}{
		{
			name:    "empty_payload",
			frame:   Frame{Type: FrameAck, Payload: []byte{}},
			wantLen: FrameHeaderSize,
		},
		{
			name:    "with_payload",
			frame:   Frame{Type: FramePatches, Payload: []byte{0x01, 0x02, 0x03}},
			wantLen: FrameHeaderSize + 3,
		},
		{
			name:    "resync_mount",
			frame:   Frame{Type: FrameMount, Flags: FlagResync, Payload: []byte("tree")},
			wantLen: FrameHeaderSize + 4,
		},
		{
			name:    "hello",
			frame:   Frame{Type: FrameHello, Payload: EncodeHello(NewHello("s1"))},
			wantLen: FrameHeaderSize + 5,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			encoded := tc.frame.Encode()
			if len(encoded) != tc.wantLen {
				t.Errorf("Encode() length = %d, want %d", len(encoded), tc.wantLen)
			}

			decoded, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			if decoded.Type != tc.frame.Type {
				t.Errorf("Type = %v, want %v", decoded.Type, tc.frame.Type)
			}
			if decoded.Flags != tc.frame.Flags {
				t.Errorf("Flags = %v, want %v", decoded.Flags, tc.frame.Flags)
			}
			if !bytes.Equal(decoded.Payload, tc.frame.Payload) {
				t.Errorf("Payload = %v, want %v", decoded.Payload, tc.frame.Payload)
			}
		})
	}
}

func TestFrameLargePayload(t *testing.T) {
	// Larger than the old 16-bit length field allowed.
	payload := bytes.Repeat([]byte{0xAB}, 70_000)
	decoded, err := DecodeFrame(NewFrame(FrameMount, payload).Encode())
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if len(decoded.Payload) != len(payload) {
		t.Errorf("len(Payload) = %d, want %d", len(decoded.Payload), len(payload))
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short_header", []byte{0x02, 0x00, 0x00}, io.ErrUnexpectedEOF},
		{"invalid_type", []byte{0x09, 0x00, 0x00, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
		{"too_large", []byte{0x02, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}, ErrFrameTooLarge},
		{"short_payload", []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x03, 0x01}, io.ErrUnexpectedEOF},
		{"trailing", []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01, 0x01, 0x02}, ErrTrailingBytes},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFrame(tc.data)
			if !errors.Is(err, tc.want) {
				t.Errorf("DecodeFrame() error = %v, want %v", err, tc.want)
			}
			if !vterrors.HasCode(err, vterrors.CodeMalformedFrame) {
				t.Errorf("DecodeFrame() error = %v, want code %s", err, vterrors.CodeMalformedFrame)
			}
		})
	}
}

func TestReadWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	frames := []*Frame{
		NewFrame(FrameHello, EncodeHello(NewHello("abc"))),
		NewFrameWithFlags(FrameMount, FlagResync, []byte{0x01}),
		NewFrame(FrameAck, EncodeAck(NewAck(3, DefaultWindow))),
	}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame() error = %v", err)
		}
	}

	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i, err)
		}
		if got.Type != want.Type || got.Flags != want.Flags || !bytes.Equal(got.Payload, want.Payload) {
			t.Errorf("ReadFrame() #%d = %+v, want %+v", i, got, want)
		}
	}

	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame() on empty reader error = %v, want io.EOF", err)
	}
}

func TestWriteFrameTooLarge(t *testing.T) {
	f := NewFrame(FrameMount, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(io.Discard, f); err != ErrFrameTooLarge {
		t.Errorf("WriteFrame() error = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameCheck(t *testing.T) {
	if err := NewFrame(FrameMount, make([]byte, MaxPayloadSize)).Check(); err != nil {
		t.Errorf("Check() at the limit = %v", err)
	}
	err := NewFrame(FrameMount, make([]byte, MaxPayloadSize+1)).Check()
	if !errors.Is(err, ErrFrameTooLarge) || !vterrors.HasCode(err, vterrors.CodeMalformedFrame) {
		t.Errorf("Check() error = %v, want %s wrapping ErrFrameTooLarge", err, vterrors.CodeMalformedFrame)
	}
}

func TestFrameTypeString(t *testing.T) {
	tests := map[FrameType]string{
		FrameHello:     "Hello",
		FrameMount:     "Mount",
		FramePatches:   "Patches",
		FrameEvent:     "Event",
		FrameAck:       "Ack",
		FrameError:     "Error",
		FrameType(200): "Unknown",
	}
	for ft, want := range tests {
		if got := ft.String(); got != want {
			t.Errorf("FrameType(%d).String() = %q, want %q", ft, got, want)
		}
	}
}

func TestFrameFlagsHas(t *testing.T) {
	if !FlagResync.Has(FlagResync) {
		t.Error("FlagResync.Has(FlagResync) = false")
	}
	if FrameFlags(0).Has(FlagResync) {
		t.Error("0.Has(FlagResync) = true")
	}
}
