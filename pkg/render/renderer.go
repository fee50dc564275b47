package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Whitespace is added between block elements, so a pretty rendering
	// does not parse back to the same tree.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string
}

// Renderer renders vdom trees to HTML. A Renderer holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders a tree to an HTML string.
// A nil tree renders as the empty string.
func (r *Renderer) RenderToString(node *vdom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.Node) error {
	sw := &stickyWriter{w: w}
	if err := r.renderNode(sw, node, "", 0); err != nil {
		return err
	}
	return sw.err
}

// stickyWriter remembers the first write error and drops later writes.
type stickyWriter struct {
	w   io.Writer
	err error
}

func (s *stickyWriter) WriteString(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}

// renderNode dispatches rendering based on node kind. parentNS is the
// namespace in effect at the parent, used to decide where xmlns goes.
func (r *Renderer) renderNode(w *stickyWriter, node *vdom.Node, parentNS string, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, parentNS, depth)
	case vdom.KindText:
		w.WriteString(escapeHTML(node.Text))
		return nil
	default:
		return fmt.Errorf("render: unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w *stickyWriter, node *vdom.Node, parentNS string, depth int) error {
	tag := node.Tag
	if tag == "" {
		return fmt.Errorf("render: element without tag at depth %d", depth)
	}

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	w.WriteString("<")
	w.WriteString(tag)
	if node.Namespace != "" && node.Namespace != parentNS {
		w.WriteString(` xmlns="`)
		w.WriteString(escapeAttr(node.Namespace))
		w.WriteString(`"`)
	}
	r.renderAttributes(w, node)

	foreign := node.Namespace != ""
	switch {
	case !foreign && vdom.IsVoidElement(tag):
		w.WriteString(">")
		r.newline(w)
		return w.err
	case foreign && len(node.Children) == 0:
		w.WriteString("/>")
		r.newline(w)
		return w.err
	}
	w.WriteString(">")

	hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
	if r.config.Pretty && hasBlockChildren {
		w.WriteString("\n")
	}

	for _, child := range node.Children {
		if r.config.Pretty && hasBlockChildren && child != nil && child.Kind == vdom.KindText {
			r.writeIndent(w, depth+1)
			w.WriteString(escapeHTML(child.Text))
			w.WriteString("\n")
			continue
		}
		if err := r.renderNode(w, child, node.Namespace, depth+1); err != nil {
			return err
		}
	}

	if r.config.Pretty && hasBlockChildren {
		r.writeIndent(w, depth)
	}

	w.WriteString("</")
	w.WriteString(tag)
	w.WriteString(">")
	r.newline(w)

	return w.err
}

// renderAttributes writes attributes in insertion order, followed by one
// data-on-<event> marker per bound event.
func (r *Renderer) renderAttributes(w *stickyWriter, node *vdom.Node) {
	node.Attrs.Range(func(name string, v vdom.Value) bool {
		// Key only steers the diff.
		if name == vdom.KeyAttr {
			return true
		}

		if v.Kind == vdom.ValueBool && IsBooleanAttr(name) {
			if v.Flag {
				w.WriteString(" ")
				w.WriteString(name)
			}
			return true
		}

		w.WriteString(" ")
		w.WriteString(name)
		w.WriteString(`="`)
		w.WriteString(escapeAttr(v.String()))
		w.WriteString(`"`)
		return true
	})

	for _, event := range node.Events.Names() {
		w.WriteString(" data-on-")
		w.WriteString(event)
		w.WriteString(`="true"`)
	}
}

func (r *Renderer) newline(w *stickyWriter) {
	if r.config.Pretty {
		w.WriteString("\n")
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *stickyWriter, depth int) {
	for i := 0; i < depth; i++ {
		w.WriteString(r.config.Indent)
	}
}

// RenderToString renders a tree with a default Renderer.
func RenderToString(node *vdom.Node) (string, error) {
	return NewRenderer(RendererConfig{}).RenderToString(node)
}
