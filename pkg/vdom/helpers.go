package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// SetAttr sets an attribute on an element and returns it.
// Intended for construction; trees are immutable once diffed.
func (n *Node) SetAttr(name string, value any) *Node {
	n.Attrs.Set(name, ValueOf(value))
	return n
}

// AppendChild appends children to an element and returns it. Nil children are dropped.
func (n *Node) AppendChild(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// SetEvent binds an event handler on an element and returns it.
func (n *Node) SetEvent(name string, handler any) *Node {
	if cb := toCallback(handler); cb != nil {
		n.Events.Set(name, cb)
	}
	return n
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *Node) *Node {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *Node) *Node {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *Node) *Node {
	if condition {
		return fn()
	}
	return nil
}

// Range maps items to nodes, dropping nil results, so it can feed
// children straight into an element builder.
func Range[T any](items []T, fn func(item T, index int) *Node) []*Node {
	out := make([]*Node, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Repeat builds up to n nodes from fn, dropping nil results.
func Repeat(n int, fn func(i int) *Node) []*Node {
	if n <= 0 {
		return nil
	}
	return Range(make([]struct{}, n), func(_ struct{}, i int) *Node { return fn(i) })
}
