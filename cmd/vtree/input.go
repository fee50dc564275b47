package main

import (
	"context"
	"strings"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/snapshot"
	"github.com/vango-dev/vtree/pkg/treeio"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// snapshotScheme prefixes tree arguments that name a stored snapshot.
const snapshotScheme = "snapshot:"

// loadTree resolves a tree argument: a file path or snapshot:KEY.
func loadTree(ctx context.Context, cfg *config.Config, ref string) (*vdom.Node, error) {
	if key, ok := strings.CutPrefix(ref, snapshotScheme); ok {
		store, err := snapshot.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return snapshot.LoadTree(ctx, store, key)
	}
	return treeio.Load(ref)
}
