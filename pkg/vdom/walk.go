package vdom

import "fmt"

// Count returns the number of nodes in the subtree rooted at n.
func Count(n *Node) int {
	if n == nil {
		return 0
	}
	total := 1
	for _, child := range n.Children {
		total += Count(child)
	}
	return total
}

// Walk visits the subtree in pre-order, passing each node's traversal
// index. Returning false from fn skips that node's descendants; their
// indices are still consumed.
func Walk(root *Node, fn func(index int, node *Node) bool) {
	if root == nil {
		return
	}
	index := 0
	walk(root, &index, fn)
}

func walk(n *Node, index *int, fn func(int, *Node) bool) {
	if !fn(*index, n) {
		skipDescendants(n, index)
		return
	}
	for _, child := range n.Children {
		*index++
		walk(child, index, fn)
	}
}

// At returns the node at the given traversal index, or nil.
func At(root *Node, index int) *Node {
	var found *Node
	Walk(root, func(i int, n *Node) bool {
		if i == index {
			found = n
		}
		return found == nil && i <= index
	})
	return found
}

// Validate checks that patches address existing nodes of prev and that
// indices never decrease.
func Validate(prev *Node, patches []Patch) error {
	size := Count(prev)
	last := 0
	for i, p := range patches {
		if p.Index < last {
			return fmt.Errorf("vdom: patch %d (%s) index %d precedes %d", i, p.Kind, p.Index, last)
		}
		if p.Index >= size && !(p.Kind == PatchReplace && p.Index == 0) {
			return fmt.Errorf("vdom: patch %d (%s) index %d outside tree of %d nodes", i, p.Kind, p.Index, size)
		}
		last = p.Index
	}
	return nil
}
