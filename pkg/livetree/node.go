package livetree

import (
	"github.com/google/uuid"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// LiveNode is one node of the live structure. It stands in for the widget
// or DOM handle a real backend would hold: it survives in-place patches and
// is only rebuilt by Replace or by being appended.
//
// Fields are owned by the Tree and must be treated as read-only.
type LiveNode struct {
	ID        string // Stable handle id, assigned on creation
	Kind      vdom.Kind
	Tag       string
	Namespace string
	Attrs     vdom.Attrs
	Listeners vdom.Events
	Children  []*LiveNode
	Text      string

	parent   *LiveNode
	released bool
}

// Parent returns the parent node, or nil for the root.
func (n *LiveNode) Parent() *LiveNode {
	return n.parent
}

// Released reports whether the node has been discarded.
func (n *LiveNode) Released() bool {
	return n.released
}

// build instantiates a live subtree for n. The tree's supported set and
// attribute kinds are checked before anything is registered, so a failed
// build leaves no trace.
func (t *Tree) build(n *vdom.Node, parent *LiveNode) (*LiveNode, error) {
	if err := t.check(n); err != nil {
		return nil, err
	}
	return t.instantiate(n, parent), nil
}

func (t *Tree) check(n *vdom.Node) error {
	if n == nil {
		return unsupported("nil child node")
	}
	if n.Kind == vdom.KindText {
		return nil
	}
	if n.Kind != vdom.KindElement {
		return unsupported("node kind %d", n.Kind)
	}
	if !t.supports(n.Tag) {
		return unsupported("tag <%s> is not supported by this renderer", n.Tag)
	}
	var err error
	n.Attrs.Range(func(name string, v vdom.Value) bool {
		err = t.checkAttr(name, v)
		return err == nil
	})
	if err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := t.check(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) instantiate(n *vdom.Node, parent *LiveNode) *LiveNode {
	live := &LiveNode{
		ID:        uuid.NewString(),
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
		Listeners: n.Events.Clone(),
		Text:      n.Text,
		parent:    parent,
	}
	if len(n.Children) > 0 {
		live.Children = make([]*LiveNode, 0, len(n.Children))
		for _, c := range n.Children {
			live.Children = append(live.Children, t.instantiate(c, live))
		}
	}
	t.handles[live.ID] = live
	t.stats.Created++
	return live
}

// release discards a subtree, children first.
func (t *Tree) release(n *LiveNode) {
	if n == nil || n.released {
		return
	}
	for _, c := range n.Children {
		t.release(c)
	}
	t.stats.ReleasedListeners += n.Listeners.Len()
	t.stats.Released++
	if t.releaseHook != nil {
		t.releaseHook(n)
	}
	n.released = true
	n.parent = nil
	delete(t.handles, n.ID)
}

// snapshot rebuilds a vdom tree. Listeners are re-attached as-is.
func snapshot(n *LiveNode) *vdom.Node {
	if n == nil {
		return nil
	}
	out := &vdom.Node{
		Kind:      n.Kind,
		Tag:       n.Tag,
		Namespace: n.Namespace,
		Attrs:     n.Attrs.Clone(),
		Events:    n.Listeners.Clone(),
		Text:      n.Text,
	}
	if len(n.Children) > 0 {
		out.Children = make([]*vdom.Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = snapshot(c)
		}
	}
	return out
}

// preorder lists the subtree in pre-order, matching vdom.Walk.
func preorder(n *LiveNode, out []*LiveNode) []*LiveNode {
	if n == nil {
		return out
	}
	out = append(out, n)
	for _, c := range n.Children {
		out = preorder(c, out)
	}
	return out
}
