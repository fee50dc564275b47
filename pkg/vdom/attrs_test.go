package vdom

import (
	"reflect"
	"testing"
)

func TestAttrsOrder(t *testing.T) {
	a := NewAttrs("b", 1, "a", "x", "c", true)
	if got := a.Names(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("Names() = %v", got)
	}

	// Overwrite keeps position.
	a.Set("b", String("two"))
	if got := a.Names(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("Names() after overwrite = %v", got)
	}
	if v, _ := a.Get("b"); !v.Equal(String("two")) {
		t.Errorf("b = %v, want two", v)
	}

	a.Delete("a")
	if a.Has("a") || a.Len() != 2 {
		t.Errorf("Delete failed: %v", a.Names())
	}
}

func TestAttrsZeroValue(t *testing.T) {
	var a Attrs
	if a.Len() != 0 || a.Has("x") || len(a.Names()) != 0 {
		t.Error("zero Attrs should be empty")
	}
	if _, ok := a.Get("x"); ok {
		t.Error("Get on zero Attrs should miss")
	}
	a.Delete("x")
	a.Range(func(string, Value) bool {
		t.Error("Range on zero Attrs should not call fn")
		return true
	})
}

func TestAttrsEqualIgnoresOrder(t *testing.T) {
	a := NewAttrs("x", 1, "y", 2)
	b := NewAttrs("y", 2, "x", 1)
	if !a.Equal(b) {
		t.Error("attribute order should not matter")
	}
	b.Set("y", Int(3))
	if a.Equal(b) {
		t.Error("different values should not be equal")
	}
}

func TestAttrsCloneIsIndependent(t *testing.T) {
	a := NewAttrs("x", 1)
	c := a.Clone()
	c.Set("y", Int(2))
	if a.Has("y") {
		t.Error("Clone shares storage with original")
	}
}

func TestEventsBindings(t *testing.T) {
	var e Events
	click := NewCallback(func(Value) {})
	e.Set("click", click)
	e.Set("input", NewCallback(func(Value) {}))

	if got := e.Names(); !reflect.DeepEqual(got, []string{"click", "input"}) {
		t.Errorf("Names() = %v", got)
	}
	if cb, ok := e.Get("click"); !ok || cb != click {
		t.Error("Get(click) returned the wrong callback")
	}

	c := e.Clone()
	if !e.SameBindings(c) {
		t.Error("clone should have the same bindings")
	}
	c.Set("click", NewCallback(func(Value) {}))
	if e.SameBindings(c) {
		t.Error("rebinding click should change the bindings")
	}
	c.Delete("click")
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestEventHelpers(t *testing.T) {
	handler := func() {}

	tests := []struct {
		name     string
		handler  EventHandler
		expected string
	}{
		{"OnClick", OnClick(handler), "click"},
		{"OnDblClick", OnDblClick(handler), "dblclick"},
		{"OnMouseDown", OnMouseDown(handler), "mousedown"},
		{"OnMouseUp", OnMouseUp(handler), "mouseup"},
		{"OnMouseEnter", OnMouseEnter(handler), "mouseenter"},
		{"OnMouseLeave", OnMouseLeave(handler), "mouseleave"},
		{"OnKeyDown", OnKeyDown(handler), "keydown"},
		{"OnKeyUp", OnKeyUp(handler), "keyup"},
		{"OnInput", OnInput(handler), "input"},
		{"OnChange", OnChange(handler), "change"},
		{"OnSubmit", OnSubmit(handler), "submit"},
		{"OnFocus", OnFocus(handler), "focus"},
		{"OnBlur", OnBlur(handler), "blur"},
		{"OnActivate", OnActivate(handler), "activate"},
		{"OnToggle", OnToggle(handler), "toggle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.handler.Event != tt.expected {
				t.Errorf("Event = %v, want %v", tt.handler.Event, tt.expected)
			}
			if tt.handler.Handler == nil {
				t.Error("Handler should not be nil")
			}
		})
	}
}
