// Package vdom provides the virtual tree and its diff algorithm.
//
// A tree of Nodes describes a UI declaratively. Renderers (browser DOM,
// native toolkits, terminal buffers) build live structures from a tree and
// keep them in sync by applying the Patches that Diff produces between the
// previous and the next tree.
//
// # Core Types
//
// Node is either an element (tag, optional namespace, ordered attributes,
// ordered event bindings, children) or a text leaf. Value is the tagged
// payload of an attribute. Callback is an opaque event handler.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    P(Text("Content")),
//	    OnClick(handler),
//	)
//
// # Diffing
//
// Diff walks both trees in lockstep and addresses every patch by the
// pre-order traversal index of its target in the old tree. The root is
// index 0; each child follows its parent and the full subtree of its
// previous sibling. Indices are only valid against the pre-patch live
// structure and only for the duration of one apply.
//
// Patches for a node are emitted in a fixed order: AddAttributes,
// RemoveAttributes, AppendChildren or TruncateChildren, then the patches
// of its surviving children in order. A tag, namespace or key mismatch
// emits a single Replace for the subtree. Children are matched by
// position only; reordering is expressed as in-place edits.
//
// # Applying
//
// A renderer must number its live nodes with the same pre-order rule
// before applying a batch, apply patches in order, release resources of
// replaced or truncated subtrees, and never address nodes created by the
// batch itself.
package vdom
