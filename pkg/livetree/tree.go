package livetree

import (
	"log/slog"
	"slices"
	"sync"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Tree is the reference renderer: a live structure kept in sync with a
// vdom tree by mounting it once and then applying patch batches.
//
// Tree is safe for concurrent use. Listener callbacks run without the
// internal lock held, so a handler may trigger a new render cycle.
type Tree struct {
	mu          sync.Mutex
	root        *LiveNode
	handles     map[string]*LiveNode
	logger      *slog.Logger
	supported   map[string]bool
	attrKinds   map[string][]vdom.ValueKind
	releaseHook func(*LiveNode)
	stats       Stats
}

// Stats counts what the tree has done since it was created.
type Stats struct {
	Nodes             int    // Live nodes currently mounted
	Listeners         int    // Live listeners currently mounted
	Created           int    // Live nodes ever created
	Released          int    // Live nodes ever released
	ReleasedListeners int    // Listeners released with their nodes
	Mounts            uint64 // Mount calls that succeeded
	Batches           uint64 // Apply calls that succeeded
	Patches           uint64 // Patches applied, including partial batches
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tree) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithSupportedTags restricts the element tags the tree can build.
// Building any other element fails with ErrUnsupportedPatchTarget.
// Without this option, or with an empty list, every tag is accepted.
func WithSupportedTags(tags ...string) Option {
	return func(t *Tree) {
		if len(tags) == 0 {
			return
		}
		if t.supported == nil {
			t.supported = make(map[string]bool, len(tags))
		}
		for _, tag := range tags {
			t.supported[tag] = true
		}
	}
}

// WithAttrKinds restricts the value kinds accepted for an attribute.
// Setting the attribute to any other kind fails with ErrTypeMismatch.
func WithAttrKinds(name string, kinds ...vdom.ValueKind) Option {
	return func(t *Tree) {
		if t.attrKinds == nil {
			t.attrKinds = make(map[string][]vdom.ValueKind)
		}
		t.attrKinds[name] = append(t.attrKinds[name], kinds...)
	}
}

// WithReleaseHook registers fn to be called for every live node that is
// discarded, after its children and before it is detached.
func WithReleaseHook(fn func(*LiveNode)) Option {
	return func(t *Tree) {
		t.releaseHook = fn
	}
}

// New creates an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		handles: make(map[string]*LiveNode),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tree) supports(tag string) bool {
	return t.supported == nil || t.supported[tag]
}

func (t *Tree) checkAttr(name string, v vdom.Value) error {
	kinds, ok := t.attrKinds[name]
	if !ok || slices.Contains(kinds, v.Kind) {
		return nil
	}
	return typeMismatch("attribute %q does not accept %s values", name, v.Kind)
}

// Mount discards the current structure and builds root from scratch.
// A nil root leaves the tree empty.
func (t *Tree) Mount(root *vdom.Node) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var live *LiveNode
	if root != nil {
		var err error
		if live, err = t.build(root, nil); err != nil {
			return err
		}
	}
	t.release(t.root)
	t.root = live
	t.stats.Mounts++
	t.logger.Debug("tree mounted", "nodes", len(t.handles))
	return nil
}

// Apply applies a patch batch in order. Indices address the tree as it was
// before the batch.
//
// Apply stops at the first failing patch and returns an error wrapped in
// ErrBatchAborted that names its position. Patches before it stay applied;
// the caller decides whether to remount.
func (t *Tree) Apply(patches []vdom.Patch) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(patches) == 0 {
		return nil
	}

	table := preorder(t.root, make([]*LiveNode, 0, len(t.handles)))
	for i := range patches {
		if err := t.apply(table, &patches[i]); err != nil {
			t.logger.Warn("patch batch aborted",
				"position", i,
				"patches", len(patches),
				"patch", patches[i].String(),
				"error", err)
			return vterrors.New(vterrors.CodePatchBatchAborted).
				WithDetailf("patch %d of %d: %s", i, len(patches), patches[i].String()).
				Wrap(err)
		}
		t.stats.Patches++
	}
	t.stats.Batches++
	t.logger.Debug("patch batch applied", "patches", len(patches), "nodes", len(t.handles))
	return nil
}

func (t *Tree) target(table []*LiveNode, index int) (*LiveNode, error) {
	if index < 0 || index >= len(table) {
		return nil, outOfRange("index %d outside live tree of %d nodes", index, len(table))
	}
	n := table[index]
	if n.released {
		return nil, unsupported("index %d addresses a discarded node", index)
	}
	return n, nil
}

func (t *Tree) apply(table []*LiveNode, p *vdom.Patch) error {
	if p.Kind == vdom.PatchReplace {
		return t.replace(table, p.Index, p.Node)
	}

	n, err := t.target(table, p.Index)
	if err != nil {
		return err
	}
	if n.Kind == vdom.KindText && p.Kind != vdom.PatchChangeText {
		return typeMismatch("%s on text node at index %d", p.Kind, p.Index)
	}

	switch p.Kind {
	case vdom.PatchAddAttributes:
		if err := t.checkAttrs(p.Attrs); err != nil {
			return err
		}
		p.Attrs.Range(func(name string, v vdom.Value) bool {
			n.Attrs.Set(name, v)
			return true
		})

	case vdom.PatchRemoveAttributes:
		for _, name := range p.Names {
			n.Attrs.Delete(name)
		}

	case vdom.PatchChangeText:
		if n.Kind != vdom.KindText {
			return typeMismatch("ChangeText on <%s> at index %d", n.Tag, p.Index)
		}
		n.Text = p.Text

	case vdom.PatchAppendChildren:
		built := make([]*LiveNode, 0, len(p.Children))
		for _, c := range p.Children {
			if err := t.check(c); err != nil {
				return err
			}
		}
		for _, c := range p.Children {
			built = append(built, t.instantiate(c, n))
		}
		n.Children = append(n.Children, built...)

	case vdom.PatchTruncateChildren:
		if p.Keep < 0 || p.Keep > len(n.Children) {
			return outOfRange("truncate <%s> at index %d to %d of %d children",
				n.Tag, p.Index, p.Keep, len(n.Children))
		}
		for _, c := range n.Children[p.Keep:] {
			t.release(c)
		}
		clear(n.Children[p.Keep:])
		n.Children = n.Children[:p.Keep]

	default:
		return unsupported("patch kind %s", p.Kind)
	}
	return nil
}

func (t *Tree) checkAttrs(attrs vdom.Attrs) error {
	var err error
	attrs.Range(func(name string, v vdom.Value) bool {
		err = t.checkAttr(name, v)
		return err == nil
	})
	return err
}

func (t *Tree) replace(table []*LiveNode, index int, node *vdom.Node) error {
	if index == 0 {
		var live *LiveNode
		if node != nil {
			var err error
			if live, err = t.build(node, nil); err != nil {
				return err
			}
		}
		t.release(t.root)
		t.root = live
		return nil
	}

	old, err := t.target(table, index)
	if err != nil {
		return err
	}
	if node == nil {
		return unsupported("nil replacement below the root at index %d", index)
	}
	parent := old.parent
	pos := slices.Index(parent.Children, old)
	if pos < 0 {
		return unsupported("index %d is detached from its parent", index)
	}

	live, err := t.build(node, parent)
	if err != nil {
		return err
	}
	t.release(old)
	parent.Children[pos] = live
	return nil
}

// Root returns the live root, or nil when nothing is mounted.
func (t *Tree) Root() *LiveNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// Lookup finds a mounted live node by its handle id.
func (t *Tree) Lookup(id string) (*LiveNode, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.handles[id]
	return n, ok
}

// At returns the live node at a traversal index.
func (t *Tree) At(index int) *LiveNode {
	t.mu.Lock()
	defer t.mu.Unlock()
	table := preorder(t.root, nil)
	if index < 0 || index >= len(table) {
		return nil
	}
	return table[index]
}

// Snapshot rebuilds the current structure as a vdom tree. Listeners are
// carried over, so the snapshot can be mounted elsewhere or dispatched on.
func (t *Tree) Snapshot() *vdom.Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return snapshot(t.root)
}

// Listener returns the callback bound to event on the node at a traversal
// index, or nil when there is none.
func (t *Tree) Listener(index int, event string) *vdom.Callback {
	t.mu.Lock()
	defer t.mu.Unlock()
	table := preorder(t.root, nil)
	if index < 0 || index >= len(table) {
		return nil
	}
	cb, _ := table[index].Listeners.Get(event)
	return cb
}

// Dispatch invokes the listener for event on the node at a traversal index.
// It reports whether a listener was found.
func (t *Tree) Dispatch(index int, event string, arg vdom.Value) bool {
	cb := t.Listener(index, event)
	if cb == nil {
		t.logger.Debug("event without listener", "index", index, "event", event)
		return false
	}
	cb.Call(arg)
	return true
}

// Stats returns a snapshot of the tree's counters.
func (t *Tree) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.stats
	s.Nodes = len(t.handles)
	for _, n := range t.handles {
		s.Listeners += n.Listeners.Len()
	}
	return s
}
