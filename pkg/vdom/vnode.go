package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement Kind = iota // <div>, a toolkit widget, a terminal box
	KindText                // Plain text leaf
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// KeyAttr is the attribute that forces replacement when it differs.
const KeyAttr = "key"

// Node is the virtual tree node.
//
// A node's Kind never changes in place; turning an element into text is
// expressed by replacing the node.
type Node struct {
	Kind      Kind    // Node type
	Tag       string  // Element tag name (e.g., "div")
	Namespace string  // Namespace for foreign subtrees (e.g., SVG)
	Attrs     Attrs   // Ordered attributes
	Events    Events  // Ordered event bindings
	Children  []*Node // Child nodes, never nil entries
	Text      string  // For KindText
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value Value
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event binding.
type EventHandler struct {
	Event   string    // "click", "input", etc.
	Handler *Callback // Handler to call
}

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == KindElement
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == KindText
}

// Key returns the key attribute as a string, or "" when absent.
func (n *Node) Key() string {
	if n == nil || n.Kind != KindElement {
		return ""
	}
	v, ok := n.Attrs.Get(KeyAttr)
	if !ok {
		return ""
	}
	return v.String()
}

// Equal reports structural equality: same kind, tag, namespace, attributes
// and children. Event bindings are not compared.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind {
		return false
	}
	if n.Kind == KindText {
		return n.Text == o.Text
	}
	if n.Tag != o.Tag || n.Namespace != o.Namespace {
		return false
	}
	if !n.Attrs.Equal(o.Attrs) {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the subtree. Callbacks are shared.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	c := &Node{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
		Events:    n.Events.Clone(),
		Text:      n.Text,
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = Clone(child)
		}
	}
	return c
}
