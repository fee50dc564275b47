// Package cycle drives diff/apply render cycles.
//
// Application code builds a fresh tree on every state change and hands it
// to Driver.Render. The driver diffs it against the tree it retained from
// the previous cycle, passes the patches to a Renderer, and on success
// swaps its baseline. Cycles are serialised, so patch lists always arrive
// in order and always address the tree the renderer currently holds.
//
// When a renderer rejects a batch the Recovery policy decides what
// happens next; see RecoverFail, RecoverSkip and RecoverRemount.
//
// Every cycle is recorded in an OpenTelemetry span named "vtree.cycle"
// and, when WithMetrics is used, in Prometheus collectors.
//
//	tree := livetree.New()
//	driver := cycle.New(tree,
//	    cycle.WithRecovery(cycle.RecoverRemount),
//	    cycle.WithMetrics(cycle.NewMetrics(cycle.WithRegistry(reg))),
//	)
//	res, err := driver.Render(ctx, view(state))
package cycle
