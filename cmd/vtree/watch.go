package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/internal/watch"
	"github.com/vango-dev/vtree/pkg/treeio"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func watchCmd(opts *globalOptions) *cobra.Command {
	var (
		format          string
		handlerIdentity bool
	)

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Print patches each time a tree file is saved",
		Long: `Watch a tree file and, on every save, print the patches from the
previous version to the new one.

A save that does not parse is reported and skipped; the next good save
is diffed against the last good version.

Examples:
  vtree watch page.html
  vtree watch page.yaml --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("handler-identity") {
				cfg.Diff.HandlerIdentity = handlerIdentity
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			file := args[0]

			prev, err := treeio.Load(file)
			if err != nil {
				return err
			}
			diffOpts := vdom.Options{HandlerIdentity: cfg.Diff.HandlerIdentity}
			out := cmd.OutOrStdout()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			info(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)", file)
			return watchTree(ctx, logger, file, func(next *vdom.Node) {
				patches := vdom.DiffWith(prev, next, diffOpts)
				fmt.Fprintf(out, "# %s %s: %d patches\n", time.Now().Format(time.TimeOnly), file, len(patches))
				if err := writePatches(out, format, patches); err != nil {
					logger.Error("writing patches failed", "error", err)
				}
				prev = next
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&handlerIdentity, "handler-identity", false, "Replace elements whose event bindings changed")

	return cmd
}

// watchTree reloads file on every change and passes each tree that parses
// to fn, one at a time. It returns when ctx is done.
func watchTree(ctx context.Context, logger *slog.Logger, file string, fn func(*vdom.Node)) error {
	w, err := watch.New(watch.Config{Files: []string{file}, Logger: logger})
	if err != nil {
		return err
	}
	changes := make(chan struct{}, 1)
	w.OnChange(func(string) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Start(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-changes:
			}
			next, err := treeio.Load(file)
			if err != nil {
				logger.Warn("skipping unreadable save", "file", file, "error", vterrors.CodeOf(err), "detail", err)
				continue
			}
			fn(next)
		}
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
