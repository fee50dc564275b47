package vdom

// Options tunes Diff.
type Options struct {
	// HandlerIdentity replaces an element whose event bindings differ by
	// name or by callback generation. Off by default: handler swaps are
	// invisible to the diff and must be forced with a key change.
	HandlerIdentity bool
}

// Diff compares two trees and returns the patches that bring a live
// structure built from prev in sync with next.
//
// Patches are addressed by the pre-order index of their target in prev
// and must be applied in the returned order.
func Diff(prev, next *Node) []Patch {
	return DiffWith(prev, next, Options{})
}

// DiffWith is Diff with explicit options.
func DiffWith(prev, next *Node, opts Options) []Patch {
	var patches []Patch
	if prev == nil && next == nil {
		return patches
	}
	if prev == nil || next == nil {
		return append(patches, NewReplace(0, next))
	}
	d := differ{opts: opts}
	index := 0
	d.diff(prev, next, &index, &patches)
	return patches
}

// differ carries per-call settings through the recursion.
type differ struct {
	opts Options
}

// diff compares prev and next, which sit at *index. On return *index is
// the index of the last node in prev's subtree.
func (d differ) diff(prev, next *Node, index *int, patches *[]Patch) {
	if d.mustReplace(prev, next) {
		*patches = append(*patches, NewReplace(*index, next))
		skipDescendants(prev, index)
		return
	}

	if prev.Kind == KindText {
		if prev.Text != next.Text {
			*patches = append(*patches, NewChangeText(*index, next.Text))
		}
		return
	}

	d.diffElement(prev, next, index, patches)
}

// mustReplace reports whether prev cannot be patched into next in place.
func (d differ) mustReplace(prev, next *Node) bool {
	if prev.Kind != next.Kind {
		return true
	}
	if prev.Kind == KindText {
		return false
	}
	if prev.Tag != next.Tag || prev.Namespace != next.Namespace {
		return true
	}
	if pk, ok := prev.Attrs.Get(KeyAttr); ok {
		// Keys of different kinds never match, even when they print alike.
		if nk, ok := next.Attrs.Get(KeyAttr); ok && !pk.Equal(nk) {
			return true
		}
	}
	if d.opts.HandlerIdentity && !prev.Events.SameBindings(next.Events) {
		return true
	}
	return false
}

// diffElement compares two elements of the same tag.
func (d differ) diffElement(prev, next *Node, index *int, patches *[]Patch) {
	self := *index

	// Additions and overwrites go first so a changed attribute is never
	// transiently absent.
	var added Attrs
	next.Attrs.Range(func(name string, v Value) bool {
		if old, ok := prev.Attrs.Get(name); !ok || !old.Equal(v) {
			added.Set(name, v)
		}
		return true
	})
	var removed []string
	prev.Attrs.Range(func(name string, _ Value) bool {
		if !next.Attrs.Has(name) && !added.Has(name) {
			removed = append(removed, name)
		}
		return true
	})
	if added.Len() > 0 {
		*patches = append(*patches, NewAddAttributes(self, added))
	}
	if len(removed) > 0 {
		*patches = append(*patches, NewRemoveAttributes(self, removed))
	}

	oldN, newN := len(prev.Children), len(next.Children)
	switch {
	case newN > oldN:
		*patches = append(*patches, NewAppendChildren(self, next.Children[oldN:]))
	case newN < oldN:
		*patches = append(*patches, NewTruncateChildren(self, newN))
	}

	for i, child := range prev.Children {
		*index++
		if i < newN {
			d.diff(child, next.Children[i], index, patches)
		} else {
			// Covered by TruncateChildren; only the counter moves.
			skipDescendants(child, index)
		}
	}
}

// skipDescendants advances index past every descendant of n.
func skipDescendants(n *Node, index *int) {
	for _, child := range n.Children {
		*index++
		skipDescendants(child, index)
	}
}
