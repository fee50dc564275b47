// Package snapshot stores golden trees on disk or in S3.
//
// Snapshots are addressed by slash-separated keys whose extension picks
// the encoding, so "pages/home.yaml" holds a YAML tree document and
// "pages/home.vt" the binary form. SaveTree and LoadTree add ".yaml" to
// keys without a tree extension.
//
//	store, err := snapshot.Open(ctx, cfg)
//	err = snapshot.SaveTree(ctx, store, "pages/home", tree)
//	golden, err := snapshot.LoadTree(ctx, store, "pages/home")
//	patches := vdom.Diff(golden, tree)
package snapshot
