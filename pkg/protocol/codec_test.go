package protocol

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestEncoderDecoder(t *testing.T) {
	e := NewEncoder()

	e.WriteByte(0x42)
	e.WriteBytes([]byte{0x01, 0x02, 0x03})
	e.WriteUvarint(12345)
	e.WriteSvarint(-9876)
	e.WriteString("hello world")
	e.WriteLenBytes([]byte{0xDE, 0xAD, 0xBE, 0xEF})
	e.WriteBool(true)
	e.WriteBool(false)
	e.WriteUint16(0x1234)
	e.WriteUint32(0x12345678)
	e.WriteUint64(0x123456789ABCDEF0)
	e.WriteFloat64(2.718281828459045)

	d := NewDecoder(e.Bytes())

	b, err := d.ReadByte()
	if err != nil || b != 0x42 {
		t.Errorf("ReadByte() = %x, %v; want 0x42, nil", b, err)
	}

	bs, err := d.ReadBytes(3)
	if err != nil || string(bs) != "\x01\x02\x03" {
		t.Errorf("ReadBytes(3) = %v, %v; want [1 2 3], nil", bs, err)
	}

	uv, err := d.ReadUvarint()
	if err != nil || uv != 12345 {
		t.Errorf("ReadUvarint() = %d, %v; want 12345, nil", uv, err)
	}

	sv, err := d.ReadSvarint()
	if err != nil || sv != -9876 {
		t.Errorf("ReadSvarint() = %d, %v; want -9876, nil", sv, err)
	}

	s, err := d.ReadString()
	if err != nil || s != "hello world" {
		t.Errorf("ReadString() = %q, %v; want \"hello world\", nil", s, err)
	}

	lb, err := d.ReadLenBytes()
	if err != nil || len(lb) != 4 || lb[0] != 0xDE {
		t.Errorf("ReadLenBytes() = %v, %v; want [DE AD BE EF], nil", lb, err)
	}

	bt, err := d.ReadBool()
	if err != nil || bt != true {
		t.Errorf("ReadBool() = %v, %v; want true, nil", bt, err)
	}
	bf, err := d.ReadBool()
	if err != nil || bf != false {
		t.Errorf("ReadBool() = %v, %v; want false, nil", bf, err)
	}

	u16, err := d.ReadUint16()
	if err != nil || u16 != 0x1234 {
		t.Errorf("ReadUint16() = %x, %v; want 0x1234, nil", u16, err)
	}

	u32, err := d.ReadUint32()
	if err != nil || u32 != 0x12345678 {
		t.Errorf("ReadUint32() = %x, %v; want 0x12345678, nil", u32, err)
	}

	u64, err := d.ReadUint64()
	if err != nil || u64 != 0x123456789ABCDEF0 {
		t.Errorf("ReadUint64() = %x, %v; want 0x123456789ABCDEF0, nil", u64, err)
	}

	f64, err := d.ReadFloat64()
	if err != nil || f64 != 2.718281828459045 {
		t.Errorf("ReadFloat64() = %v, %v; want 2.718281828459045, nil", f64, err)
	}

	if !d.EOF() {
		t.Errorf("EOF() = false, remaining = %d", d.Remaining())
	}
}

func TestVarintBoundaries(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 16383, 16384, math.MaxUint32, math.MaxUint64}
	for _, v := range values {
		e := NewEncoder()
		e.WriteUvarint(v)
		got, err := NewDecoder(e.Bytes()).ReadUvarint()
		if err != nil || got != v {
			t.Errorf("uvarint %d: got %d, %v", v, got, err)
		}
	}

	signed := []int64{0, -1, 1, -64, 64, math.MinInt64, math.MaxInt64}
	for _, v := range signed {
		e := NewEncoder()
		e.WriteSvarint(v)
		got, err := NewDecoder(e.Bytes()).ReadSvarint()
		if err != nil || got != v {
			t.Errorf("svarint %d: got %d, %v", v, got, err)
		}
	}
}

func TestDecoderErrors(t *testing.T) {
	t.Run("truncated_string", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(10)
		e.WriteBytes([]byte("abc"))
		_, err := NewDecoder(e.Bytes()).ReadString()
		if err != io.ErrUnexpectedEOF {
			t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
		}
	})

	t.Run("varint_overflow", func(t *testing.T) {
		data := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
		_, err := NewDecoder(data).ReadUvarint()
		if err != ErrVarintOverflow {
			t.Errorf("err = %v, want ErrVarintOverflow", err)
		}
	})

	t.Run("invalid_bool", func(t *testing.T) {
		_, err := NewDecoder([]byte{0x02}).ReadBool()
		if err != ErrInvalidBool {
			t.Errorf("err = %v, want ErrInvalidBool", err)
		}
	})

	t.Run("allocation_limit", func(t *testing.T) {
		e := NewEncoder()
		e.WriteString("0123456789")
		d := NewDecoderWithLimits(e.Bytes(), Limits{MaxAllocation: 4})
		_, err := d.ReadString()
		if err != ErrAllocationTooLarge {
			t.Errorf("err = %v, want ErrAllocationTooLarge", err)
		}
	})

	t.Run("collection_limit", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(5)
		e.WriteBytes(make([]byte, 5))
		d := NewDecoderWithLimits(e.Bytes(), Limits{MaxCollection: 3})
		_, err := d.ReadCollectionCount()
		if err != ErrCollectionTooLarge {
			t.Errorf("err = %v, want ErrCollectionTooLarge", err)
		}
	})

	t.Run("collection_longer_than_input", func(t *testing.T) {
		e := NewEncoder()
		e.WriteUvarint(1000)
		_, err := NewDecoder(e.Bytes()).ReadCollectionCount()
		if err != io.ErrUnexpectedEOF {
			t.Errorf("err = %v, want io.ErrUnexpectedEOF", err)
		}
	})

	t.Run("fixed_width_short", func(t *testing.T) {
		if _, err := NewDecoder([]byte{0x01}).ReadUint16(); err != io.ErrUnexpectedEOF {
			t.Errorf("ReadUint16 err = %v", err)
		}
		if _, err := NewDecoder([]byte{0x01, 0x02}).ReadUint32(); err != io.ErrUnexpectedEOF {
			t.Errorf("ReadUint32 err = %v", err)
		}
		if _, err := NewDecoder([]byte{0x01}).ReadUint64(); err != io.ErrUnexpectedEOF {
			t.Errorf("ReadUint64 err = %v", err)
		}
	})
}

func TestLimitsNormalize(t *testing.T) {
	l := Limits{MaxAllocation: HardMaxAllocation * 2}.normalize()
	if l.MaxAllocation != HardMaxAllocation {
		t.Errorf("MaxAllocation = %d, want %d", l.MaxAllocation, HardMaxAllocation)
	}
	if l.MaxCollection != MaxCollectionCount {
		t.Errorf("MaxCollection = %d, want %d", l.MaxCollection, MaxCollectionCount)
	}
	if l.MaxDepth != MaxNodeDepth {
		t.Errorf("MaxDepth = %d, want %d", l.MaxDepth, MaxNodeDepth)
	}
}

func TestValueRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value vdom.Value
	}{
		{"string", vdom.String("primary")},
		{"empty_string", vdom.String("")},
		{"bool_true", vdom.Bool(true)},
		{"bool_false", vdom.Bool(false)},
		{"bytes", vdom.Bytes([]byte{0x00, 0xFF})},
		{"int", vdom.Int(-42)},
		{"float", vdom.Float(0.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEncoder()
			e.WriteValue(tc.value)
			d := NewDecoder(e.Bytes())
			got, err := d.ReadValue()
			if err != nil {
				t.Fatalf("ReadValue() error = %v", err)
			}
			if !got.Equal(tc.value) {
				t.Errorf("ReadValue() = %v, want %v", got, tc.value)
			}
			if !d.EOF() {
				t.Errorf("%d bytes left over", d.Remaining())
			}
		})
	}
}

func TestValueOpaqueTravelsAsText(t *testing.T) {
	e := NewEncoder()
	e.WriteValue(vdom.Opaque(42))
	got, err := NewDecoder(e.Bytes()).ReadValue()
	if err != nil {
		t.Fatalf("ReadValue() error = %v", err)
	}
	if got.Kind != vdom.ValueOpaque {
		t.Fatalf("Kind = %v, want Opaque", got.Kind)
	}
	if got.String() != vdom.Opaque(42).String() {
		t.Errorf("String() = %q, want %q", got.String(), vdom.Opaque(42).String())
	}
}

func TestReadValueInvalidKind(t *testing.T) {
	_, err := NewDecoder([]byte{0x7F}).ReadValue()
	if !errors.Is(err, ErrInvalidValueKind) {
		t.Errorf("err = %v, want ErrInvalidValueKind", err)
	}
}

func TestEncoderReset(t *testing.T) {
	e := NewEncoderWithCap(4)
	e.WriteString("abc")
	if e.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", e.Len())
	}
	e.Reset()
	if e.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", e.Len())
	}
}
