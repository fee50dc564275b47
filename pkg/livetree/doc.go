// Package livetree is the reference renderer for vdom patch lists.
//
// A Tree owns a structure of LiveNodes, the stand-in for the widgets or
// DOM nodes a real backend would hold. It honours the application
// contract every renderer must follow:
//
//  1. Before a batch, map each traversal index to its live node using the
//     same pre-order rule as vdom.Diff. The map stays fixed for the batch.
//  2. Apply patches in the order given.
//  3. On Replace, release the discarded subtree (listeners and handles)
//     before installing the new one.
//  4. On AppendChildren and TruncateChildren, build or release children;
//     later patches in the batch still address the pre-batch indices.
//
// Nodes patched in place keep their handle id and their listeners, which
// is what lets event closures survive re-renders:
//
//	tree := livetree.New(livetree.WithLogger(logger))
//	_ = tree.Mount(prev)
//	if err := tree.Apply(vdom.Diff(prev, next)); err != nil {
//	    // errors.Is(err, livetree.ErrTypeMismatch), ...
//	}
//	tree.Snapshot().Equal(next) // true
package livetree
