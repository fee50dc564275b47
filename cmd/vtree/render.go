package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/render"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a tree as HTML",
		Long: `Render a tree as HTML.

Examples:
  vtree render page.yaml
  vtree render snapshot:home --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("pretty") {
				cfg.Render.Pretty = pretty
			}

			root, err := loadTree(cmd.Context(), cfg, args[0])
			if err != nil {
				return err
			}
			renderer := render.NewRenderer(render.RendererConfig{Pretty: cfg.Render.Pretty})
			if err := renderer.RenderToWriter(cmd.OutOrStdout(), root); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the HTML output")

	return cmd
}
