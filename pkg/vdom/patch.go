package vdom

import (
	"fmt"
	"strings"
)

// PatchKind is the type of patch operation.
type PatchKind uint8

const (
	PatchReplace          PatchKind = 0x01 // Replace node and its subtree
	PatchAddAttributes    PatchKind = 0x02 // Set/overwrite attributes
	PatchRemoveAttributes PatchKind = 0x03 // Remove attributes
	PatchChangeText       PatchKind = 0x04 // Update text content
	PatchAppendChildren   PatchKind = 0x05 // Append new trailing children
	PatchTruncateChildren PatchKind = 0x06 // Drop children beyond a count
)

// String returns the string representation of the PatchKind.
func (k PatchKind) String() string {
	switch k {
	case PatchReplace:
		return "Replace"
	case PatchAddAttributes:
		return "AddAttributes"
	case PatchRemoveAttributes:
		return "RemoveAttributes"
	case PatchChangeText:
		return "ChangeText"
	case PatchAppendChildren:
		return "AppendChildren"
	case PatchTruncateChildren:
		return "TruncateChildren"
	default:
		return "Unknown"
	}
}

// PatchKinds lists every patch kind in declaration order.
var PatchKinds = []PatchKind{
	PatchReplace,
	PatchAddAttributes,
	PatchRemoveAttributes,
	PatchChangeText,
	PatchAppendChildren,
	PatchTruncateChildren,
}

// Patch is a single edit addressed by traversal index.
//
// Node and Children point into the new tree passed to Diff; they are only
// valid for one diff/apply cycle.
type Patch struct {
	Kind     PatchKind // Operation type
	Index    int       // Pre-order index of the target in the old tree
	Node     *Node     // Replace; nil unmounts the root
	Attrs    Attrs     // AddAttributes
	Names    []string  // RemoveAttributes
	Text     string    // ChangeText
	Children []*Node   // AppendChildren
	Keep     int       // TruncateChildren
}

// NewReplace creates a Replace patch.
func NewReplace(index int, node *Node) Patch {
	return Patch{Kind: PatchReplace, Index: index, Node: node}
}

// NewAddAttributes creates an AddAttributes patch.
func NewAddAttributes(index int, attrs Attrs) Patch {
	return Patch{Kind: PatchAddAttributes, Index: index, Attrs: attrs}
}

// NewRemoveAttributes creates a RemoveAttributes patch.
func NewRemoveAttributes(index int, names []string) Patch {
	return Patch{Kind: PatchRemoveAttributes, Index: index, Names: names}
}

// NewChangeText creates a ChangeText patch.
func NewChangeText(index int, text string) Patch {
	return Patch{Kind: PatchChangeText, Index: index, Text: text}
}

// NewAppendChildren creates an AppendChildren patch.
func NewAppendChildren(index int, children []*Node) Patch {
	return Patch{Kind: PatchAppendChildren, Index: index, Children: children}
}

// NewTruncateChildren creates a TruncateChildren patch.
func NewTruncateChildren(index int, keep int) Patch {
	return Patch{Kind: PatchTruncateChildren, Index: index, Keep: keep}
}

// String returns a compact debug form, e.g. `AddAttributes(0, {class="y"})`.
func (p Patch) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d", p.Kind, p.Index)
	switch p.Kind {
	case PatchReplace:
		b.WriteString(", ")
		b.WriteString(describeNode(p.Node))
	case PatchAddAttributes:
		b.WriteString(", {")
		first := true
		p.Attrs.Range(func(name string, v Value) bool {
			if !first {
				b.WriteString(", ")
			}
			first = false
			fmt.Fprintf(&b, "%s=%q", name, v.String())
			return true
		})
		b.WriteString("}")
	case PatchRemoveAttributes:
		fmt.Fprintf(&b, ", [%s]", strings.Join(p.Names, ", "))
	case PatchChangeText:
		fmt.Fprintf(&b, ", %q", p.Text)
	case PatchAppendChildren:
		parts := make([]string, len(p.Children))
		for i, c := range p.Children {
			parts[i] = describeNode(c)
		}
		fmt.Fprintf(&b, ", [%s]", strings.Join(parts, ", "))
	case PatchTruncateChildren:
		fmt.Fprintf(&b, ", %d", p.Keep)
	}
	b.WriteString(")")
	return b.String()
}

// describeNode returns a one-line summary of n.
func describeNode(n *Node) string {
	switch {
	case n == nil:
		return "nil"
	case n.Kind == KindText:
		return fmt.Sprintf("%q", n.Text)
	case len(n.Children) == 0:
		return "<" + n.Tag + ">"
	default:
		return fmt.Sprintf("<%s>…(%d)", n.Tag, len(n.Children))
	}
}
