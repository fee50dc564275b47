package cycle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vtree/internal/config"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Renderer is a live structure that can be brought in sync with a tree.
// livetree.Tree and transport.Hub implement it.
type Renderer interface {
	// Mount replaces whatever is live with root. A nil root unmounts.
	Mount(root *vdom.Node) error

	// Apply applies a patch batch computed against the last mounted or
	// patched tree.
	Apply(patches []vdom.Patch) error
}

// Recovery decides what a Driver does when Apply fails.
type Recovery int

const (
	// RecoverFail returns the error and keeps the previous baseline. The
	// next Render remounts, since the live structure may be half patched.
	RecoverFail Recovery = iota

	// RecoverSkip logs the failure and adopts the new tree as baseline.
	// The live structure may then differ from the baseline until a later
	// patch or remount happens to cover the difference.
	RecoverSkip

	// RecoverRemount mounts the new tree from scratch.
	RecoverRemount
)

// String returns the configuration name of the policy.
func (r Recovery) String() string {
	switch r {
	case RecoverFail:
		return "fail"
	case RecoverSkip:
		return "skip"
	case RecoverRemount:
		return "remount"
	default:
		return "unknown"
	}
}

// ParseRecovery parses a policy name as used in vtree.json.
func ParseRecovery(s string) (Recovery, error) {
	switch s {
	case "", config.RecoveryFail:
		return RecoverFail, nil
	case config.RecoverySkip:
		return RecoverSkip, nil
	case config.RecoveryRemount:
		return RecoverRemount, nil
	default:
		return RecoverFail, vterrors.New(vterrors.CodeConfigInvalid).
			WithDetailf("unknown recovery policy %q", s).
			WithSuggestion("Use fail, skip or remount")
	}
}

// Cycle results, used as the result label of vtree_cycles_total.
const (
	ResultMount     = "mount"
	ResultNoop      = "noop"
	ResultPatched   = "patched"
	ResultFailed    = "failed"
	ResultSkipped   = "skipped"
	ResultRemounted = "remounted"
)

// Result describes one render cycle.
type Result struct {
	Seq     uint64       // Cycle number, starting at 1
	Outcome string       // One of the Result* constants
	Patches []vdom.Patch // Patch list handed to the renderer; nil on mount
}

// Driver runs render cycles against a Renderer: it keeps the previous
// tree, diffs each new tree against it and hands the patches over.
// Cycles are strictly sequential.
type Driver struct {
	mu       sync.Mutex
	renderer Renderer
	prev     *vdom.Node
	mounted  bool
	seq      uint64

	diffOpts vdom.Options
	recovery Recovery
	logger   *slog.Logger
	metrics  *Metrics
	tracer   trace.Tracer
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithRecovery sets the policy for failed patch batches.
func WithRecovery(r Recovery) Option {
	return func(d *Driver) {
		d.recovery = r
	}
}

// WithDiffOptions sets the options passed to vdom.DiffWith.
func WithDiffOptions(opts vdom.Options) Option {
	return func(d *Driver) {
		d.diffOpts = opts
	}
}

// WithMetrics records every cycle in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithTracer sets the tracer. Defaults to the global provider's "vtree"
// tracer.
func WithTracer(t trace.Tracer) Option {
	return func(d *Driver) {
		d.tracer = t
	}
}

// ConfigOptions translates the diff and render sections of a project
// config into Driver options.
func ConfigOptions(cfg *config.Config) ([]Option, error) {
	recovery, err := ParseRecovery(cfg.Render.Recovery)
	if err != nil {
		return nil, err
	}
	return []Option{
		WithRecovery(recovery),
		WithDiffOptions(vdom.Options{HandlerIdentity: cfg.Diff.HandlerIdentity}),
	}, nil
}

// New creates a Driver for r. Nothing is mounted until the first Render.
func New(r Renderer, opts ...Option) *Driver {
	d := &Driver{
		renderer: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer("vtree")
	}
	return d
}

// Render brings the renderer in sync with next. The first call, and the
// first call after a failed cycle or Reset, mounts next wholesale.
//
// next becomes the Driver's baseline and must not be mutated afterwards.
func (d *Driver) Render(ctx context.Context, next *vdom.Node) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	res := &Result{Seq: d.seq}

	_, span := d.tracer.Start(ctx, "vtree.cycle",
		trace.WithAttributes(attribute.Int64("vtree.seq", int64(d.seq))))
	defer span.End()

	err := d.render(next, res)

	span.SetAttributes(
		attribute.String("vtree.result", res.Outcome),
		attribute.Int("vtree.patch_count", len(res.Patches)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	d.metrics.recordCycle(res.Outcome)
	return res, err
}

func (d *Driver) render(next *vdom.Node, res *Result) error {
	if !d.mounted {
		res.Outcome = ResultMount
		if err := d.mount(next); err != nil {
			res.Outcome = ResultFailed
			return err
		}
		return nil
	}

	start := time.Now()
	patches := vdom.DiffWith(d.prev, next, d.diffOpts)
	d.metrics.observeDiff(time.Since(start).Seconds())
	res.Patches = patches

	if len(patches) == 0 {
		res.Outcome = ResultNoop
		d.prev = next
		return nil
	}
	d.metrics.recordPatches(countKinds(patches))

	start = time.Now()
	err := d.renderer.Apply(patches)
	d.metrics.observeApply(time.Since(start).Seconds())
	if err == nil {
		res.Outcome = ResultPatched
		d.prev = next
		d.logger.Debug("render cycle applied", "seq", res.Seq, "patches", len(patches))
		return nil
	}

	switch d.recovery {
	case RecoverSkip:
		d.logger.Warn("patch batch failed; adopting new tree without remount",
			"seq", res.Seq, "patches", len(patches), "error", err)
		res.Outcome = ResultSkipped
		d.prev = next
		return nil

	case RecoverRemount:
		d.logger.Warn("patch batch failed; remounting", "seq", res.Seq, "error", err)
		res.Outcome = ResultRemounted
		if merr := d.mount(next); merr != nil {
			res.Outcome = ResultFailed
			d.mounted = false
			return fmt.Errorf("remount after failed apply: %w", merr)
		}
		return nil

	default:
		d.logger.Error("patch batch failed", "seq", res.Seq, "patches", len(patches), "error", err)
		res.Outcome = ResultFailed
		d.mounted = false
		return err
	}
}

func (d *Driver) mount(next *vdom.Node) error {
	start := time.Now()
	err := d.renderer.Mount(next)
	d.metrics.observeApply(time.Since(start).Seconds())
	if err != nil {
		return err
	}
	d.prev = next
	d.mounted = true
	return nil
}

// Current returns the baseline tree: the last tree the renderer was
// brought in sync with.
func (d *Driver) Current() *vdom.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.prev
}

// Reset makes the next Render mount from scratch.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mounted = false
}

func countKinds(patches []vdom.Patch) map[string]int {
	counts := make(map[string]int, len(vdom.PatchKinds))
	for _, p := range patches {
		counts[p.Kind.String()]++
	}
	return counts
}
