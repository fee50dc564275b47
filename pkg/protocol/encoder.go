package protocol

import (
	"encoding/binary"
	"math"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Encoder appends the binary forms of nodes, patches and frames to an
// internal buffer. Writes never fail; limits are enforced by the Decoder.
//
// Integers inside payloads are varints (signed ones zigzag encoded);
// fixed-width fields are big-endian. Strings and byte slices carry a
// uvarint length prefix.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an encoder with a small initial buffer.
func NewEncoder() *Encoder {
	return NewEncoderWithCap(256)
}

// NewEncoderWithCap returns an encoder whose buffer starts at n bytes.
func NewEncoderWithCap(n int) *Encoder {
	return &Encoder{buf: make([]byte, 0, n)}
}

// Reset empties the encoder and keeps its buffer.
func (e *Encoder) Reset() { e.buf = e.buf[:0] }

// Bytes returns the encoded bytes. The slice aliases the encoder's buffer
// until the next write or Reset.
func (e *Encoder) Bytes() []byte { return e.buf }

// Len returns the number of bytes encoded so far.
func (e *Encoder) Len() int { return len(e.buf) }

func (e *Encoder) WriteByte(b byte) { e.buf = append(e.buf, b) }
func (e *Encoder) WriteBytes(b []byte) { e.buf = append(e.buf, b...) }
func (e *Encoder) WriteUvarint(v uint64) { e.buf = binary.AppendUvarint(e.buf, v) }
func (e *Encoder) WriteSvarint(v int64) { e.buf = binary.AppendVarint(e.buf, v) }
func (e *Encoder) WriteUint16(v uint16) { e.buf = binary.BigEndian.AppendUint16(e.buf, v) }
func (e *Encoder) WriteUint32(v uint32) { e.buf = binary.BigEndian.AppendUint32(e.buf, v) }
func (e *Encoder) WriteUint64(v uint64) { e.buf = binary.BigEndian.AppendUint64(e.buf, v) }
func (e *Encoder) WriteFloat64(v float64) { e.WriteUint64(math.Float64bits(v)) }

// WriteBool writes 0x01 for true and 0x00 for false.
func (e *Encoder) WriteBool(b bool) {
	var v byte
	if b {
		v = 1
	}
	e.buf = append(e.buf, v)
}

// WriteString writes a length-prefixed string.
func (e *Encoder) WriteString(s string) {
	e.WriteUvarint(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

// WriteLenBytes writes a length-prefixed byte slice.
func (e *Encoder) WriteLenBytes(b []byte) {
	e.WriteUvarint(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// WriteValue appends a tagged attribute value: one kind byte followed by
// the payload. Opaque payloads cannot cross the wire and travel as their
// text form.
func (e *Encoder) WriteValue(v vdom.Value) {
	e.WriteByte(byte(v.Kind))
	switch v.Kind {
	case vdom.ValueString:
		e.WriteString(v.Str)
	case vdom.ValueBool:
		e.WriteBool(v.Flag)
	case vdom.ValueBytes:
		e.WriteLenBytes(v.Blob)
	case vdom.ValueInt:
		e.WriteSvarint(v.Int)
	case vdom.ValueFloat:
		e.WriteFloat64(v.Float)
	default:
		e.WriteString(v.String())
	}
}
