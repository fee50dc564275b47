package protocol

import (
	"bytes"
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6

	// MaxPayloadSize is the maximum payload size. Mount frames carry whole
	// trees, so the limit matches the decoder's allocation limit.
	MaxPayloadSize = DefaultMaxAllocation
)

// FrameType identifies the type of frame.
type FrameType uint8

const (
	FrameHello   FrameType = 0x00 // Server → Client session setup
	FrameMount   FrameType = 0x01 // Server → Client full tree
	FramePatches FrameType = 0x02 // Server → Client patch batch
	FrameEvent   FrameType = 0x03 // Client → Server event
	FrameAck     FrameType = 0x04 // Client → Server acknowledgment
	FrameError   FrameType = 0x05 // Either direction
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FrameHello:
		return "Hello"
	case FrameMount:
		return "Mount"
	case FramePatches:
		return "Patches"
	case FrameEvent:
		return "Event"
	case FrameAck:
		return "Ack"
	case FrameError:
		return "Error"
	default:
		return "Unknown"
	}
}

// FrameFlags are optional flags for frame processing.
type FrameFlags uint8

const (
	// FlagResync marks a Mount sent to recover a renderer that fell out of
	// sync, as opposed to the initial mount.
	FlagResync FrameFlags = 0x01
)

// Has returns true if the flags contain the specified flag.
func (ff FrameFlags) Has(flag FrameFlags) bool {
	return ff&flag != 0
}

// Frame errors.
var (
	ErrFrameTooLarge    = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType = errors.New("protocol: invalid frame type")
)

// Frame represents a protocol frame with header and payload.
//
// Wire format (6 bytes header + variable payload):
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//	│                                                             │
//	│  Payload (variable length)                                  │
//	│                                                             │
//	└─────────────────────────────────────────────────────────────┘
type Frame struct {
	Type    FrameType
	Flags   FrameFlags
	Payload []byte
}

// NewFrame returns a frame without flags.
func NewFrame(ft FrameType, payload []byte) *Frame {
	return &Frame{Type: ft, Payload: payload}
}

// NewFrameWithFlags returns a frame with flags set.
func NewFrameWithFlags(ft FrameType, flags FrameFlags, payload []byte) *Frame {
	return &Frame{Type: ft, Flags: flags, Payload: payload}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() []byte {
	e := NewEncoderWithCap(FrameHeaderSize + len(f.Payload))
	e.WriteByte(byte(f.Type))
	e.WriteByte(byte(f.Flags))
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
	return e.Bytes()
}

// header is a decoded frame header.
type header struct {
	typ    FrameType
	flags  FrameFlags
	length int
}

func parseHeader(b []byte) (header, error) {
	d := NewDecoder(b)
	ft, err := d.ReadByte()
	if err != nil {
		return header{}, err
	}
	flags, err := d.ReadByte()
	if err != nil {
		return header{}, err
	}
	length, err := d.ReadUint32()
	if err != nil {
		return header{}, err
	}
	switch {
	case FrameType(ft) > FrameError:
		return header{}, ErrInvalidFrameType
	case length > MaxPayloadSize:
		return header{}, ErrFrameTooLarge
	}
	return header{typ: FrameType(ft), flags: FrameFlags(flags), length: int(length)}, nil
}

// DecodeFrame decodes exactly one frame. The payload is copied out of
// data. Failures are P001 errors wrapping the cause.
func DecodeFrame(data []byte) (*Frame, error) {
	h, err := parseHeader(data)
	if err == nil {
		switch rest := len(data) - FrameHeaderSize; {
		case rest < h.length:
			err = io.ErrUnexpectedEOF
		case rest > h.length:
			err = ErrTrailingBytes
		}
	}
	if err != nil {
		return nil, decodeError("frame", err)
	}
	payload := bytes.Clone(data[FrameHeaderSize:])
	if payload == nil {
		payload = []byte{}
	}
	return &Frame{Type: h.typ, Flags: h.flags, Payload: payload}, nil
}

// ReadFrame reads one frame from r. A reader that is already at its end
// yields io.EOF.
func ReadFrame(r io.Reader) (*Frame, error) {
	var hb [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, hb[:]); err != nil {
		return nil, err
	}
	h, err := parseHeader(hb[:])
	if err != nil {
		return nil, decodeError("frame", err)
	}
	payload := make([]byte, h.length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return &Frame{Type: h.typ, Flags: h.flags, Payload: payload}, nil
}

// Check reports whether a peer would accept the frame's size. The error
// carries CodeMalformedFrame and wraps ErrFrameTooLarge.
func (f *Frame) Check() error {
	if len(f.Payload) > MaxPayloadSize {
		return encodeError("frame", ErrFrameTooLarge)
	}
	return nil
}

// WriteFrame writes f to w in one Write call.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
