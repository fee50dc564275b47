package vdom

import "testing"

func attrString(n *Node, name string) string {
	v, ok := n.Attrs.Get(name)
	if !ok {
		return "<missing>"
	}
	return v.String()
}

func TestCreateElement(t *testing.T) {
	t.Run("basic element", func(t *testing.T) {
		node := Div()
		if node.Kind != KindElement {
			t.Errorf("Kind = %v, want KindElement", node.Kind)
		}
		if node.Tag != "div" {
			t.Errorf("Tag = %v, want div", node.Tag)
		}
		if node.Namespace != "" {
			t.Errorf("Namespace = %q, want empty", node.Namespace)
		}
	})

	t.Run("with multiple attributes", func(t *testing.T) {
		node := Div(Class("card"), ID("main"))
		if got := attrString(node, "class"); got != "card" {
			t.Errorf("class = %v, want card", got)
		}
		if got := attrString(node, "id"); got != "main" {
			t.Errorf("id = %v, want main", got)
		}
		if names := node.Attrs.Names(); names[0] != "class" || names[1] != "id" {
			t.Errorf("attribute order = %v, want [class id]", names)
		}
	})

	t.Run("last attribute wins", func(t *testing.T) {
		node := Div(Class("a"), ID("x"), Class("b"))
		if got := attrString(node, "class"); got != "b" {
			t.Errorf("class = %v, want b", got)
		}
		if node.Attrs.Names()[0] != "class" {
			t.Error("overwrite should keep the first position")
		}
	})

	t.Run("with attribute slice", func(t *testing.T) {
		node := Div([]Attr{ID("a"), {}, Class("c")})
		if node.Attrs.Len() != 2 {
			t.Errorf("Attrs.Len() = %d, want 2", node.Attrs.Len())
		}
	})

	t.Run("with child node", func(t *testing.T) {
		node := Div(P(Text("Hello")))
		if len(node.Children) != 1 {
			t.Fatalf("Children len = %v, want 1", len(node.Children))
		}
		if node.Children[0].Tag != "p" {
			t.Errorf("Child tag = %v, want p", node.Children[0].Tag)
		}
	})

	t.Run("with string shorthand", func(t *testing.T) {
		node := Span("hi")
		if len(node.Children) != 1 || !node.Children[0].IsText() || node.Children[0].Text != "hi" {
			t.Errorf("Children = %v, want one text node", node.Children)
		}
	})

	t.Run("nil arguments skipped", func(t *testing.T) {
		var missing *Node
		node := Div(nil, missing, If(false, P()), []*Node{nil, Span()})
		if len(node.Children) != 1 {
			t.Errorf("Children len = %d, want 1", len(node.Children))
		}
	})

	t.Run("with event handler", func(t *testing.T) {
		node := Button(OnClick(func() {}), On("", func() {}), "Go")
		if node.Events.Len() != 1 {
			t.Fatalf("Events.Len() = %d, want 1", node.Events.Len())
		}
		if _, ok := node.Events.Get("click"); !ok {
			t.Error("click binding missing")
		}
	})

	t.Run("unsupported handler dropped", func(t *testing.T) {
		node := Button(On("click", 42))
		if node.Events.Len() != 0 {
			t.Error("handler of unsupported shape should be dropped")
		}
	})
}

func TestNamespacedElements(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		tag  string
		ns   string
	}{
		{"Svg", Svg(), "svg", SVGNamespace},
		{"SvgEl", SvgEl("circle"), "circle", SVGNamespace},
		{"Math", Math(), "math", MathMLNamespace},
		{"NS", NS("urn:x", "thing"), "thing", "urn:x"},
		{"El", El("my-widget"), "my-widget", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.node.Tag != tt.tag || tt.node.Namespace != tt.ns {
				t.Errorf("got %s/%s, want %s/%s", tt.node.Namespace, tt.node.Tag, tt.ns, tt.tag)
			}
		})
	}
}

func TestVoidElements(t *testing.T) {
	for _, tag := range []string{"br", "hr", "img", "input", "meta"} {
		if !IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = false", tag)
		}
	}
	for _, tag := range []string{"div", "span", "svg"} {
		if IsVoidElement(tag) {
			t.Errorf("IsVoidElement(%q) = true", tag)
		}
	}
}

func TestAllElements(t *testing.T) {
	tests := []struct {
		fn  func(...any) *Node
		tag string
	}{
		{Html, "html"}, {Head, "head"}, {Body, "body"}, {Title, "title"},
		{Header, "header"}, {Footer, "footer"}, {Main, "main"}, {Nav, "nav"},
		{Section, "section"}, {Article, "article"}, {H1, "h1"}, {H2, "h2"}, {H3, "h3"},
		{Div, "div"}, {P, "p"}, {Span, "span"}, {Pre, "pre"}, {Ul, "ul"}, {Ol, "ol"},
		{Li, "li"}, {Hr, "hr"}, {Br, "br"}, {A, "a"}, {Strong, "strong"}, {Em, "em"},
		{Code, "code"}, {Form, "form"}, {Input, "input"}, {Textarea, "textarea"},
		{Select, "select"}, {Option, "option"}, {Button, "button"}, {Label, "label"},
		{Table, "table"}, {Thead, "thead"}, {Tbody, "tbody"}, {Tr, "tr"}, {Th, "th"},
		{Td, "td"}, {Img, "img"}, {Canvas, "canvas"},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if node := tt.fn(); node.Tag != tt.tag {
				t.Errorf("Tag = %v, want %v", node.Tag, tt.tag)
			}
		})
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := []struct {
		name string
		attr Attr
		key  string
		want Value
	}{
		{"ID", ID("x"), "id", String("x")},
		{"Class", Class("a", "b"), "class", String("a b")},
		{"Data", Data("id", "1"), "data-id", String("1")},
		{"AriaHidden", AriaHidden(true), "aria-hidden", Bool(true)},
		{"TabIndex", TabIndex(2), "tabindex", Int(2)},
		{"Disabled", Disabled(), "disabled", Bool(true)},
		{"ValueAttr", ValueAttr("v"), "value", String("v")},
		{"Width", Width(10), "width", Int(10)},
		{"Key", Key(7), KeyAttr, String("7")},
		{"Blob", Blob("icon", []byte{9}), "icon", Bytes([]byte{9})},
		{"Layout", Layout([]int{1}), "layout", Opaque([]int{1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.attr.Key, tt.key)
			}
			if !tt.attr.Value.Equal(tt.want) {
				t.Errorf("Value = %v, want %v", tt.attr.Value, tt.want)
			}
		})
	}
}
