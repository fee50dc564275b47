package cycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/vango-dev/vtree/internal/config"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/livetree"
	"github.com/vango-dev/vtree/pkg/vdom"
)

var errApply = errors.New("apply failed")

// recordingRenderer records calls and fails Apply while failApply is set.
type recordingRenderer struct {
	mounts    []*vdom.Node
	batches   [][]vdom.Patch
	failApply bool
	failMount bool
}

func (r *recordingRenderer) Mount(root *vdom.Node) error {
	if r.failMount {
		return errors.New("mount failed")
	}
	r.mounts = append(r.mounts, root)
	return nil
}

func (r *recordingRenderer) Apply(patches []vdom.Patch) error {
	if r.failApply {
		return errApply
	}
	r.batches = append(r.batches, patches)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderMountsThenPatches(t *testing.T) {
	r := &recordingRenderer{}
	d := New(r, WithLogger(quietLogger()))
	ctx := context.Background()

	first := vdom.Div(vdom.Class("x"))
	res, err := d.Render(ctx, first)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if res.Outcome != ResultMount || res.Seq != 1 || len(r.mounts) != 1 {
		t.Fatalf("first Render() = %+v, mounts = %d", res, len(r.mounts))
	}

	second := vdom.Div(vdom.Class("y"))
	res, err = d.Render(ctx, second)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if res.Outcome != ResultPatched || len(res.Patches) != 1 {
		t.Fatalf("second Render() = %+v", res)
	}
	if len(r.batches) != 1 || r.batches[0][0].Kind != vdom.PatchAddAttributes {
		t.Errorf("batches = %v", r.batches)
	}
	if d.Current() != second {
		t.Error("Current() is not the last rendered tree")
	}

	res, err = d.Render(ctx, vdom.Div(vdom.Class("y")))
	if err != nil || res.Outcome != ResultNoop {
		t.Errorf("unchanged Render() = %+v, %v; want noop", res, err)
	}
	if len(r.batches) != 1 {
		t.Errorf("noop cycle reached the renderer")
	}
}

func TestRenderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(&recordingRenderer{}).Render(ctx, vdom.Div()); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestRecoveryPolicies(t *testing.T) {
	tests := []struct {
		name        string
		recovery    Recovery
		wantErr     bool
		wantOutcome string
		wantCurrent string // class of the baseline after the failure
		wantMounts  int    // mounts after the failure and one more cycle
	}{
		{"fail", RecoverFail, true, ResultFailed, "a", 2},
		{"skip", RecoverSkip, false, ResultSkipped, "b", 1},
		{"remount", RecoverRemount, false, ResultRemounted, "b", 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &recordingRenderer{}
			d := New(r, WithRecovery(tc.recovery), WithLogger(quietLogger()))
			ctx := context.Background()

			if _, err := d.Render(ctx, vdom.Div(vdom.Class("a"))); err != nil {
				t.Fatalf("mount error = %v", err)
			}

			r.failApply = true
			res, err := d.Render(ctx, vdom.Div(vdom.Class("b")))
			if (err != nil) != tc.wantErr {
				t.Fatalf("Render() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !errors.Is(err, errApply) {
				t.Errorf("Render() error = %v, want %v", err, errApply)
			}
			if res.Outcome != tc.wantOutcome {
				t.Errorf("Outcome = %q, want %q", res.Outcome, tc.wantOutcome)
			}
			if class, _ := d.Current().Attrs.Get("class"); class.Str != tc.wantCurrent {
				t.Errorf("baseline class = %q, want %q", class.Str, tc.wantCurrent)
			}

			r.failApply = false
			if _, err := d.Render(ctx, vdom.Div(vdom.Class("c"))); err != nil {
				t.Fatalf("follow-up Render() error = %v", err)
			}
			if len(r.mounts) != tc.wantMounts {
				t.Errorf("mounts = %d, want %d", len(r.mounts), tc.wantMounts)
			}
		})
	}
}

func TestRenderMountFailure(t *testing.T) {
	r := &recordingRenderer{failMount: true}
	d := New(r, WithLogger(quietLogger()))
	res, err := d.Render(context.Background(), vdom.Div())
	if err == nil || res.Outcome != ResultFailed {
		t.Fatalf("Render() = %+v, %v; want failed", res, err)
	}
	if d.Current() != nil {
		t.Error("failed mount set a baseline")
	}
}

func TestResetRemounts(t *testing.T) {
	r := &recordingRenderer{}
	d := New(r)
	ctx := context.Background()
	d.Render(ctx, vdom.Div())
	d.Reset()
	res, _ := d.Render(ctx, vdom.Div())
	if res.Outcome != ResultMount || len(r.mounts) != 2 {
		t.Errorf("Render() after Reset() = %+v, mounts = %d", res, len(r.mounts))
	}
}

func TestDriverWithLiveTree(t *testing.T) {
	tree := livetree.New(livetree.WithLogger(quietLogger()))
	d := New(tree, WithLogger(quietLogger()))
	ctx := context.Background()

	views := []*vdom.Node{
		vdom.Ul(vdom.Li(vdom.Text("a"))),
		vdom.Ul(vdom.Li(vdom.Text("a")), vdom.Li(vdom.Text("b"))),
		vdom.Ul(vdom.Li(vdom.Class("done"), vdom.Text("a"))),
		vdom.Ol(vdom.Li(vdom.Text("z"))),
		nil,
		vdom.P(vdom.Text("back")),
	}
	for i, view := range views {
		if _, err := d.Render(ctx, view); err != nil {
			t.Fatalf("view %d: Render() error = %v", i, err)
		}
		if !tree.Snapshot().Equal(view) {
			t.Fatalf("view %d: live tree out of sync", i)
		}
	}
}

func TestRemountRecoversLiveTree(t *testing.T) {
	tree := livetree.New(
		livetree.WithLogger(quietLogger()),
		livetree.WithSupportedTags("div", "p"),
	)
	d := New(tree, WithRecovery(RecoverRemount), WithLogger(quietLogger()))
	ctx := context.Background()

	if _, err := d.Render(ctx, vdom.Div(vdom.P())); err != nil {
		t.Fatalf("mount error = %v", err)
	}
	// The canvas cannot be built, so both the patch and the remount fail.
	_, err := d.Render(ctx, vdom.Div(vdom.Canvas()))
	if !errors.Is(err, livetree.ErrUnsupportedPatchTarget) {
		t.Fatalf("Render() error = %v, want ErrUnsupportedPatchTarget", err)
	}

	if _, err := d.Render(ctx, vdom.Div(vdom.P(vdom.Text("ok")))); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !tree.Snapshot().Equal(vdom.Div(vdom.P(vdom.Text("ok")))) {
		t.Error("live tree out of sync after recovery")
	}
}

func TestParseRecovery(t *testing.T) {
	for _, r := range []Recovery{RecoverFail, RecoverSkip, RecoverRemount} {
		got, err := ParseRecovery(r.String())
		if err != nil || got != r {
			t.Errorf("ParseRecovery(%q) = %v, %v", r.String(), got, err)
		}
	}
	if got, _ := ParseRecovery(""); got != RecoverFail {
		t.Errorf("ParseRecovery(\"\") = %v, want fail", got)
	}
	if _, err := ParseRecovery("retry"); !vterrors.HasCode(err, vterrors.CodeConfigInvalid) {
		t.Errorf("ParseRecovery(retry) error = %v, want %s", err, vterrors.CodeConfigInvalid)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := config.New()
	cfg.Render.Recovery = config.RecoverySkip
	cfg.Diff.HandlerIdentity = true

	opts, err := ConfigOptions(cfg)
	if err != nil {
		t.Fatalf("ConfigOptions() error = %v", err)
	}
	d := New(&recordingRenderer{}, opts...)
	if d.recovery != RecoverSkip || !d.diffOpts.HandlerIdentity {
		t.Errorf("driver recovery = %v, diff options = %+v", d.recovery, d.diffOpts)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithConstLabels(prometheus.Labels{"app": "test"}))
	r := &recordingRenderer{}
	d := New(r, WithMetrics(m), WithLogger(quietLogger()))
	ctx := context.Background()

	d.Render(ctx, vdom.Ul(vdom.Li()))
	d.Render(ctx, vdom.Ul(vdom.Li(), vdom.Li(), vdom.Li()))
	d.Render(ctx, vdom.Ul(vdom.Li(vdom.Class("x"))))
	r.failApply = true
	d.Render(ctx, vdom.Ul())

	if got := testutil.ToFloat64(m.cyclesTotal.WithLabelValues(ResultMount)); got != 1 {
		t.Errorf("cycles_total{mount} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.cyclesTotal.WithLabelValues(ResultPatched)); got != 2 {
		t.Errorf("cycles_total{patched} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cyclesTotal.WithLabelValues(ResultFailed)); got != 1 {
		t.Errorf("cycles_total{failed} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal.WithLabelValues(vdom.PatchAppendChildren.String())); got != 1 {
		t.Errorf("patches_total{AppendChildren} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.patchesTotal.WithLabelValues(vdom.PatchTruncateChildren.String())); got != 2 {
		t.Errorf("patches_total{TruncateChildren} = %v, want 2", got)
	}
	if n := testutil.CollectAndCount(reg, "vtree_diff_duration_seconds"); n != 1 {
		t.Errorf("diff histogram series = %d, want 1", n)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.recordCycle(ResultMount)
	m.recordPatches(map[string]int{"Replace": 1})
	m.observeDiff(0.1)
	m.observeApply(0.1)
}
