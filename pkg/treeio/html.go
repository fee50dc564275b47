package treeio

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// eventMarker is the attribute prefix the HTML renderer uses for bound
// events. Parsing turns such markers back into event bindings.
const eventMarker = "data-on-"

// ErrMultipleRoots is returned when an HTML fragment has more than one
// top-level node.
var ErrMultipleRoots = errors.New("treeio: fragment has more than one root node")

// ParseHTML reads an HTML document or fragment.
//
// A full document (one with a doctype or an <html> element) yields its
// <html> element. A fragment must have exactly one top-level node.
// Whitespace-only text and comments are dropped; elements inside <svg> and
// <math> get their namespace URIs.
func ParseHTML(r io.Reader) (*vdom.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if isDocument(data) {
		doc, err := html.Parse(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Html {
				return convertHTML(c), nil
			}
		}
		return nil, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), body)
	if err != nil {
		return nil, err
	}
	var roots []*vdom.Node
	for _, n := range nodes {
		if v := convertHTML(n); v != nil {
			roots = append(roots, v)
		}
	}
	switch len(roots) {
	case 0:
		return nil, nil
	case 1:
		return roots[0], nil
	default:
		return nil, ErrMultipleRoots
	}
}

func isDocument(data []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(data))
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.Contains(head, []byte("<html"))
}

// convertHTML converts a parsed node. It returns nil for nodes that have no
// tree counterpart.
func convertHTML(n *html.Node) *vdom.Node {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return vdom.Text(n.Data)
	case html.ElementNode:
	default:
		return nil
	}

	out := &vdom.Node{
		Kind:      vdom.KindElement,
		Tag:       n.Data,
		Namespace: namespaceURI(n.Namespace),
	}
	for _, a := range n.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		if event, ok := strings.CutPrefix(name, eventMarker); ok && event != "" {
			out.Events.Set(event, vdom.NewCallback(nil))
			continue
		}
		if out.Namespace == "" && render.IsBooleanAttr(name) {
			out.Attrs.Set(name, vdom.Bool(true))
			continue
		}
		out.Attrs.Set(name, vdom.String(a.Val))
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := convertHTML(c); child != nil {
			out.Children = append(out.Children, child)
		}
	}
	return out
}

// namespaceURI maps the parser's short foreign-content names to URIs.
func namespaceURI(ns string) string {
	switch ns {
	case "":
		return ""
	case "svg":
		return vdom.SVGNamespace
	case "math":
		return vdom.MathMLNamespace
	default:
		return ns
	}
}
