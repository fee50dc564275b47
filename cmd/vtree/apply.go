package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/cycle"
	"github.com/vango-dev/vtree/pkg/livetree"
	"github.com/vango-dev/vtree/pkg/render"
)

func applyCmd(opts *globalOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "apply OLD NEW",
		Short: "Mount OLD, apply the diff to NEW, and print the result",
		Long: `Mount OLD in the in-memory renderer, run a render cycle to NEW, and
print the patched tree as HTML.

The command fails if the patched tree does not match NEW, which makes it
a convenient check that a pair of trees round-trips through the patch
pipeline. render.supportedTags and render.recovery from vtree.json apply.

Examples:
  vtree apply before.html after.html
  vtree apply snapshot:home page.yaml --pretty`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Render.Pretty = pretty
			}
			return runApply(cmd, cfg, args[0], args[1])
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the HTML output")

	return cmd
}

func runApply(cmd *cobra.Command, cfg *config.Config, oldRef, newRef string) error {
	ctx := cmd.Context()
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	prev, err := loadTree(ctx, cfg, oldRef)
	if err != nil {
		return err
	}
	next, err := loadTree(ctx, cfg, newRef)
	if err != nil {
		return err
	}

	tree := livetree.New(
		livetree.WithLogger(logger),
		livetree.WithSupportedTags(cfg.Render.SupportedTags...),
	)
	driverOpts, err := cycle.ConfigOptions(cfg)
	if err != nil {
		return err
	}
	driver := cycle.New(tree, append(driverOpts, cycle.WithLogger(logger))...)

	if _, err := driver.Render(ctx, prev); err != nil {
		return err
	}
	res, err := driver.Render(ctx, next)
	if err != nil {
		return err
	}

	result := tree.Snapshot()
	if !result.Equal(next) {
		return fmt.Errorf("patched tree does not match %s", newRef)
	}

	renderer := render.NewRenderer(render.RendererConfig{Pretty: cfg.Render.Pretty})
	if err := renderer.RenderToWriter(cmd.OutOrStdout(), result); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())

	stats := tree.Stats()
	success(cmd.ErrOrStderr(), "applied %d patches (%s)", len(res.Patches), res.Outcome)
	info(cmd.ErrOrStderr(), "%d live nodes, %d released", stats.Nodes, stats.Released)
	return nil
}
