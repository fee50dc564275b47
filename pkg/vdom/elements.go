package vdom

// Well-known namespaces for foreign subtrees.
const (
	SVGNamespace    = "http://www.w3.org/2000/svg"
	MathMLNamespace = "http://www.w3.org/1998/Math/MathML"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement creates a new element with the given tag and arguments.
// Arguments can be: nil, Attr, []Attr, *Node, []*Node, string, EventHandler, []EventHandler.
// A repeated attribute or event name overwrites the earlier one.
func createElement(ns, tag string, args []any) *Node {
	node := &Node{
		Kind:      KindElement,
		Tag:       tag,
		Namespace: ns,
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			// Ignore nil (allows conditional attributes)
			continue

		case Attr:
			if !v.IsEmpty() {
				node.Attrs.Set(v.Key, v.Value)
			}

		case []Attr:
			for _, a := range v {
				if !a.IsEmpty() {
					node.Attrs.Set(a.Key, a.Value)
				}
			}

		case *Node:
			if v != nil {
				node.Children = append(node.Children, v)
			}

		case []*Node:
			for _, child := range v {
				if child != nil {
					node.Children = append(node.Children, child)
				}
			}

		case string:
			// Shorthand for text node
			node.Children = append(node.Children, Text(v))

		case EventHandler:
			if v.Event != "" && v.Handler != nil {
				node.Events.Set(v.Event, v.Handler)
			}

		case []EventHandler:
			for _, h := range v {
				if h.Event != "" && h.Handler != nil {
					node.Events.Set(h.Event, h.Handler)
				}
			}
		}
	}

	return node
}

// El creates an element with an arbitrary tag name.
func El(tag string, args ...any) *Node { return createElement("", tag, args) }

// NS creates an element in the given namespace.
func NS(namespace, tag string, args ...any) *Node { return createElement(namespace, tag, args) }

// SvgEl creates an element in the SVG namespace.
func SvgEl(tag string, args ...any) *Node { return createElement(SVGNamespace, tag, args) }

// Document structure elements

func Html(args ...any) *Node  { return createElement("", "html", args) }
func Head(args ...any) *Node  { return createElement("", "head", args) }
func Body(args ...any) *Node  { return createElement("", "body", args) }
func Title(args ...any) *Node { return createElement("", "title", args) }

// Content sectioning elements

func Header(args ...any) *Node  { return createElement("", "header", args) }
func Footer(args ...any) *Node  { return createElement("", "footer", args) }
func Main(args ...any) *Node    { return createElement("", "main", args) }
func Nav(args ...any) *Node     { return createElement("", "nav", args) }
func Section(args ...any) *Node { return createElement("", "section", args) }
func Article(args ...any) *Node { return createElement("", "article", args) }
func H1(args ...any) *Node      { return createElement("", "h1", args) }
func H2(args ...any) *Node      { return createElement("", "h2", args) }
func H3(args ...any) *Node      { return createElement("", "h3", args) }

// Text content elements

func Div(args ...any) *Node  { return createElement("", "div", args) }
func P(args ...any) *Node    { return createElement("", "p", args) }
func Span(args ...any) *Node { return createElement("", "span", args) }
func Pre(args ...any) *Node  { return createElement("", "pre", args) }
func Ul(args ...any) *Node   { return createElement("", "ul", args) }
func Ol(args ...any) *Node   { return createElement("", "ol", args) }
func Li(args ...any) *Node   { return createElement("", "li", args) }
func Hr(args ...any) *Node   { return createElement("", "hr", args) }
func Br(args ...any) *Node   { return createElement("", "br", args) }

// Inline text semantics

func A(args ...any) *Node      { return createElement("", "a", args) }
func Strong(args ...any) *Node { return createElement("", "strong", args) }
func Em(args ...any) *Node     { return createElement("", "em", args) }
func Code(args ...any) *Node   { return createElement("", "code", args) }

// Form elements

func Form(args ...any) *Node     { return createElement("", "form", args) }
func Input(args ...any) *Node    { return createElement("", "input", args) }
func Textarea(args ...any) *Node { return createElement("", "textarea", args) }
func Select(args ...any) *Node   { return createElement("", "select", args) }
func Option(args ...any) *Node   { return createElement("", "option", args) }
func Button(args ...any) *Node   { return createElement("", "button", args) }
func Label(args ...any) *Node    { return createElement("", "label", args) }

// Table elements

func Table(args ...any) *Node { return createElement("", "table", args) }
func Thead(args ...any) *Node { return createElement("", "thead", args) }
func Tbody(args ...any) *Node { return createElement("", "tbody", args) }
func Tr(args ...any) *Node    { return createElement("", "tr", args) }
func Th(args ...any) *Node    { return createElement("", "th", args) }
func Td(args ...any) *Node    { return createElement("", "td", args) }

// Media elements

func Img(args ...any) *Node    { return createElement("", "img", args) }
func Canvas(args ...any) *Node { return createElement("", "canvas", args) }
func Svg(args ...any) *Node    { return createElement(SVGNamespace, "svg", args) }
func Math(args ...any) *Node   { return createElement(MathMLNamespace, "math", args) }
