package vdom

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"reflect"
	"strconv"
)

// ValueKind is the payload discriminator of a Value.
type ValueKind uint8

const (
	ValueString ValueKind = iota // UTF-8 string
	ValueBool                    // Boolean flag
	ValueBytes                   // Raw byte blob
	ValueInt                     // Signed integer
	ValueFloat                   // Floating point number
	ValueOpaque                  // Backend-specific payload (computed style, layout result)
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "String"
	case ValueBool:
		return "Bool"
	case ValueBytes:
		return "Bytes"
	case ValueInt:
		return "Int"
	case ValueFloat:
		return "Float"
	case ValueOpaque:
		return "Opaque"
	default:
		return "Unknown"
	}
}

// Value is an attribute or event payload.
// Only the field selected by Kind is meaningful.
type Value struct {
	Kind   ValueKind
	Str    string
	Flag   bool
	Blob   []byte
	Int    int64
	Float  float64
	Opaque any
}

// String creates a string value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{Kind: ValueBool, Flag: b} }

// Bytes creates a byte-blob value. The slice is not copied.
func Bytes(b []byte) Value { return Value{Kind: ValueBytes, Blob: b} }

// Int creates an integer value.
func Int(n int64) Value { return Value{Kind: ValueInt, Int: n} }

// Float creates a floating point value.
func Float(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// Opaque wraps a backend-specific payload.
func Opaque(v any) Value { return Value{Kind: ValueOpaque, Opaque: v} }

// ValueOf converts a plain Go value to a Value.
// Values that are already a Value are returned unchanged.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case Value:
		return val
	case string:
		return String(val)
	case bool:
		return Bool(val)
	case []byte:
		return Bytes(val)
	case int:
		return Int(int64(val))
	case int32:
		return Int(int64(val))
	case int64:
		return Int(val)
	case uint:
		return Int(int64(val))
	case uint32:
		return Int(int64(val))
	case float32:
		return Float(float64(val))
	case float64:
		return Float(val)
	case fmt.Stringer:
		return String(val.String())
	default:
		return Opaque(v)
	}
}

// Equal reports whether two values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueString:
		return v.Str == o.Str
	case ValueBool:
		return v.Flag == o.Flag
	case ValueBytes:
		return bytes.Equal(v.Blob, o.Blob)
	case ValueInt:
		return v.Int == o.Int
	case ValueFloat:
		return v.Float == o.Float
	case ValueOpaque:
		return reflect.DeepEqual(v.Opaque, o.Opaque)
	}
	return false
}

// String renders the payload as text, for renderers that only deal in strings.
func (v Value) String() string {
	switch v.Kind {
	case ValueString:
		return v.Str
	case ValueBool:
		return strconv.FormatBool(v.Flag)
	case ValueBytes:
		return base64.StdEncoding.EncodeToString(v.Blob)
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueOpaque:
		if v.Opaque == nil {
			return ""
		}
		return fmt.Sprintf("%v", v.Opaque)
	}
	return ""
}

// IsZero reports whether v is the empty string value.
func (v Value) IsZero() bool {
	return v.Kind == ValueString && v.Str == ""
}
