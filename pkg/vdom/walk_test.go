package vdom

import (
	"reflect"
	"testing"
)

func TestWalkPreOrder(t *testing.T) {
	root := Div(
		Ul(Li("a"), Li("b")),
		P("c"),
	)

	var order []string
	Walk(root, func(i int, n *Node) bool {
		if n.IsText() {
			order = append(order, n.Text)
		} else {
			order = append(order, n.Tag)
		}
		if len(order)-1 != i {
			t.Errorf("index %d out of sequence", i)
		}
		return true
	})

	want := []string{"div", "ul", "li", "a", "li", "b", "p", "c"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if Count(root) != len(want) {
		t.Errorf("Count() = %d, want %d", Count(root), len(want))
	}
}

func TestWalkSkipConsumesIndices(t *testing.T) {
	root := Div(Ul(Li("a"), Li("b")), P("c"))

	var seen []int
	Walk(root, func(i int, n *Node) bool {
		seen = append(seen, i)
		return n.Tag != "ul"
	})

	want := []int{0, 1, 6, 7}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestAt(t *testing.T) {
	root := Div(Ul(Li("a"), Li("b")), P("c"))

	tests := []struct {
		index int
		tag   string
		text  string
	}{
		{0, "div", ""},
		{1, "ul", ""},
		{4, "li", ""},
		{5, "", "b"},
		{7, "", "c"},
	}
	for _, tt := range tests {
		n := At(root, tt.index)
		if n == nil {
			t.Fatalf("At(%d) = nil", tt.index)
		}
		if n.Tag != tt.tag || n.Text != tt.text {
			t.Errorf("At(%d) = %s, want tag=%q text=%q", tt.index, describeNode(n), tt.tag, tt.text)
		}
	}
	if At(root, 8) != nil || At(nil, 0) != nil {
		t.Error("out-of-range At should be nil")
	}
}

func TestValidate(t *testing.T) {
	prev := Div(P("a"))

	if err := Validate(prev, Diff(prev, Div(P("b")))); err != nil {
		t.Errorf("Validate(diff) = %v", err)
	}
	if err := Validate(nil, []Patch{NewReplace(0, Div())}); err != nil {
		t.Errorf("Replace(0) on empty tree should validate: %v", err)
	}
	if err := Validate(prev, []Patch{NewChangeText(2, "x"), NewAddAttributes(0, Attrs{})}); err == nil {
		t.Error("decreasing indices should fail")
	}
	if err := Validate(prev, []Patch{NewChangeText(3, "x")}); err == nil {
		t.Error("out-of-range index should fail")
	}
}
