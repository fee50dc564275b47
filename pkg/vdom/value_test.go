package vdom

import (
	"reflect"
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind ValueKind
		str  string
	}{
		{"string", "x", ValueString, "x"},
		{"bool", true, ValueBool, "true"},
		{"bytes", []byte("hi"), ValueBytes, "aGk="},
		{"int", 42, ValueInt, "42"},
		{"int64", int64(-7), ValueInt, "-7"},
		{"float", 1.5, ValueFloat, "1.5"},
		{"value", Float(2), ValueFloat, "2"},
		{"kind stringer", ValueInt, ValueString, "Int"},
		{"opaque", struct{ W int }{3}, ValueOpaque, "{3}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ValueOf(tt.in)
			if v.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind, tt.kind)
			}
			if v.String() != tt.str {
				t.Errorf("String() = %q, want %q", v.String(), tt.str)
			}
		})
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", String("a"), String("a"), true},
		{"different string", String("a"), String("b"), false},
		{"int vs float", Int(1), Float(1), false},
		{"string vs int", String("1"), Int(1), false},
		{"bytes", Bytes([]byte{1, 2}), Bytes([]byte{1, 2}), true},
		{"bytes differ", Bytes([]byte{1, 2}), Bytes([]byte{2, 1}), false},
		{"opaque deep", Opaque([]int{1}), Opaque([]int{1}), true},
		{"opaque differ", Opaque(map[string]int{"a": 1}), Opaque(map[string]int{"a": 2}), false},
		{"bool", Bool(false), Bool(false), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() is not symmetric")
			}
		})
	}
}

func TestValueIsZero(t *testing.T) {
	if !(Value{}).IsZero() {
		t.Error("zero Value should be zero")
	}
	if String("x").IsZero() || Int(0).IsZero() {
		t.Error("non-empty values should not be zero")
	}
}

func TestCallback(t *testing.T) {
	var got []string
	cb := NewCallback(func(v Value) { got = append(got, v.String()) })
	cb.Call(String("a"))
	cb.Call(Int(2))
	if !reflect.DeepEqual(got, []string{"a", "2"}) {
		t.Errorf("calls = %v", got)
	}

	var nilCb *Callback
	nilCb.Call(String("ignored"))
	if nilCb.Generation() != 0 {
		t.Error("nil callback generation should be 0")
	}
}

func TestCallbackEqualAlwaysTrue(t *testing.T) {
	a := NewCallback(func(Value) {})
	b := NewCallback(func(Value) {})
	if !a.Equal(b) {
		t.Error("callbacks should always compare equal")
	}
	if a.Generation() == b.Generation() {
		t.Error("distinct callbacks should have distinct generations")
	}
}

func TestToCallbackShapes(t *testing.T) {
	calls := 0
	shapes := []any{
		func() { calls++ },
		func(Value) { calls++ },
		func(string) { calls++ },
		NewCallback(func(Value) { calls++ }),
	}
	for _, s := range shapes {
		cb := toCallback(s)
		if cb == nil {
			t.Fatalf("toCallback(%T) = nil", s)
		}
		cb.Call(String("x"))
	}
	if calls != len(shapes) {
		t.Errorf("calls = %d, want %d", calls, len(shapes))
	}
	if toCallback(42) != nil {
		t.Error("unsupported handler shape should yield nil")
	}
}
