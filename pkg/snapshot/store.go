package snapshot

import (
	"context"
	"strings"

	"github.com/vango-dev/vtree/internal/config"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/treeio"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Store keeps named snapshots. Keys are slash-separated relative paths;
// the extension decides how a tree is encoded (see treeio).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// DefaultExt is appended to keys that carry no tree extension.
const DefaultExt = ".yaml"

// Open returns the store selected by cfg: S3 when a bucket is configured,
// otherwise a directory on disk.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Snapshot.Bucket != "" {
		s, err := NewS3StoreFromConfig(ctx, cfg.Snapshot.Bucket, cfg.Snapshot.Prefix, cfg.Snapshot.Region)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return NewDiskStore(cfg.SnapshotDir()), nil
}

// TreeKey gives key the default extension unless it already names a tree
// format.
func TreeKey(key string) string {
	if treeio.FormatOf(key) == treeio.FormatUnknown {
		return key + DefaultExt
	}
	return key
}

// SaveTree encodes n according to its key and stores it.
func SaveTree(ctx context.Context, s Store, key string, n *vdom.Node) error {
	key = TreeKey(key)
	data, err := treeio.Marshal(key, n)
	if err != nil {
		return err
	}
	return s.Put(ctx, key, data)
}

// LoadTree fetches and decodes a tree.
func LoadTree(ctx context.Context, s Store, key string) (*vdom.Node, error) {
	key = TreeKey(key)
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return treeio.LoadBytes(key, data)
}

// checkKey rejects keys that could escape the store's root.
func checkKey(key string) error {
	bad := key == "" ||
		strings.HasPrefix(key, "/") ||
		strings.Contains(key, "\\")
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			bad = true
		}
	}
	if bad {
		return vterrors.New(vterrors.CodeSnapshotIO).
			WithDetailf("Invalid snapshot key %q.", key).
			WithSuggestion("Use a relative slash-separated key such as pages/home.yaml")
	}
	return nil
}

func notFound(key string) error {
	return vterrors.New(vterrors.CodeSnapshotNotFound).WithDetailf("No snapshot named %q.", key)
}

func ioError(op, key string, err error) error {
	return vterrors.New(vterrors.CodeSnapshotIO).WithDetailf("%s %q failed.", op, key).Wrap(err)
}
