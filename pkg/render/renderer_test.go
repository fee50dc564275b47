package render

import (
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	html, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if html != "Hello, World!" {
		t.Errorf("got %q, want %q", html, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	html, err := RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(html, "<script>") {
		t.Errorf("HTML should be escaped, got %q", html)
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", html)
	}
}

func TestRenderNil(t *testing.T) {
	html, err := RenderToString(nil)
	if err != nil || html != "" {
		t.Errorf("RenderToString(nil) = %q, %v; want \"\", nil", html, err)
	}
}

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name string
		node *vdom.Node
		want string
	}{
		{
			name: "nested",
			node: vdom.Div(vdom.Class("container"),
				vdom.H1(vdom.Text("Title")),
				vdom.P(vdom.Text("Content")),
			),
			want: `<div class="container"><h1>Title</h1><p>Content</p></div>`,
		},
		{
			name: "insertion_order",
			node: vdom.A(vdom.Href("/x"), vdom.ID("link"), vdom.Class("btn"), vdom.Text("go")),
			want: `<a href="/x" id="link" class="btn">go</a>`,
		},
		{
			name: "block_text",
			node: vdom.P(vdom.Text("hello")),
			want: `<p>hello</p>`,
		},
		{
			name: "void_input",
			node: vdom.Input(vdom.Type("text"), vdom.Name("email")),
			want: `<input type="text" name="email">`,
		},
		{
			name: "void_br",
			node: vdom.Br(),
			want: `<br>`,
		},
		{
			name: "boolean_true",
			node: vdom.Button(vdom.Disabled(), vdom.Text("x")),
			want: `<button disabled>x</button>`,
		},
		{
			name: "boolean_false",
			node: vdom.Input(vdom.AttrOf("checked", false)),
			want: `<input>`,
		},
		{
			name: "non_boolean_bool_value",
			node: vdom.Div(vdom.AttrOf("aria-hidden", true)),
			want: `<div aria-hidden="true"></div>`,
		},
		{
			name: "numeric_values",
			node: vdom.Div(vdom.TabIndex(2), vdom.AttrOf("data-ratio", 0.5)),
			want: `<div tabindex="2" data-ratio="0.5"></div>`,
		},
		{
			name: "empty_value",
			node: vdom.Input(vdom.ValueAttr("")),
			want: `<input value="">`,
		},
		{
			name: "key_not_rendered",
			node: vdom.Li(vdom.Key("k1"), vdom.Text("a")),
			want: `<li>a</li>`,
		},
		{
			name: "attribute_escaping",
			node: vdom.Div(vdom.TitleAttr(`"quoted" & <tag>`)),
			want: `<div title="&quot;quoted&quot; &amp; &lt;tag&gt;"></div>`,
		},
		{
			name: "event_markers",
			node: vdom.Button(vdom.OnClick(func() {}), vdom.OnFocus(func() {}), vdom.Text("ok")),
			want: `<button data-on-click="true" data-on-focus="true">ok</button>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RenderToString(tc.node)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderNamespaces(t *testing.T) {
	node := vdom.Div(
		vdom.Svg(vdom.Width(10),
			vdom.SvgEl("g",
				vdom.SvgEl("circle", vdom.AttrOf("r", 4)),
			),
		),
	)

	got, err := RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<div><svg xmlns="http://www.w3.org/2000/svg" width="10"><g><circle r="4"/></g></svg></div>`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})
	node := vdom.Div(
		vdom.P(vdom.Text("one")),
		vdom.Span(vdom.Text("two")),
	)

	got, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<div>\n  <p>\n    one\n  </p>\n  <span>two</span>\n</div>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderCustomIndent(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true, Indent: "\t"})
	got, err := renderer.RenderToString(vdom.Ul(vdom.Li(vdom.Text("x"))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "\t<li>") {
		t.Errorf("expected tab indentation, got %q", got)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := RenderToString(&vdom.Node{Kind: vdom.Kind(9)}); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := RenderToString(&vdom.Node{Kind: vdom.KindElement}); err == nil {
		t.Error("expected error for element without tag")
	}
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestRenderToWriterPropagatesWriteError(t *testing.T) {
	err := NewRenderer(RendererConfig{}).RenderToWriter(failingWriter{}, vdom.Div(vdom.Text("x")))
	if !errors.Is(err, errWrite) {
		t.Errorf("err = %v, want %v", err, errWrite)
	}
}

func BenchmarkRenderList(b *testing.B) {
	items := make([]*vdom.Node, 100)
	for i := range items {
		items[i] = vdom.Li(vdom.Class("item"), vdom.Textf("item %d", i))
	}
	tree := vdom.Ul(items)
	renderer := NewRenderer(RendererConfig{})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := renderer.RenderToString(tree); err != nil {
			b.Fatal(err)
		}
	}
}
