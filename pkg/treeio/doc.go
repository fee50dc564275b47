// Package treeio reads and writes trees as files.
//
// Three formats are understood, chosen by file extension:
//
//	.html .htm         HTML documents or single-root fragments
//	.yaml .yml .json   tree documents (see DecodeYAML)
//	.vt                the protocol package's binary node encoding
//
// Event handlers cannot be stored in a file. Bound event names are kept
// and come back as inert callbacks, so a loaded tree diffs the same way as
// the tree it was saved from.
package treeio
