package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func diffCmd(opts *globalOptions) *cobra.Command {
	var (
		format          string
		handlerIdentity bool
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the patches that turn OLD into NEW",
		Long: `Compare two trees and print the patch list that transforms OLD into NEW.

Each patch addresses a node by its pre-order index in OLD. Formats:
  text    one patch per line (default)
  json    a JSON array; nodes are rendered as HTML
  binary  a protocol Patches payload, as sent to remote renderers

Examples:
  vtree diff before.html after.html
  vtree diff snapshot:home page.yaml --format json
  vtree diff a.yaml b.yaml --handler-identity`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("handler-identity") {
				cfg.Diff.HandlerIdentity = handlerIdentity
			}

			ctx := cmd.Context()
			prev, err := loadTree(ctx, cfg, args[0])
			if err != nil {
				return err
			}
			next, err := loadTree(ctx, cfg, args[1])
			if err != nil {
				return err
			}

			patches := vdom.DiffWith(prev, next, vdom.Options{HandlerIdentity: cfg.Diff.HandlerIdentity})
			return writePatches(cmd.OutOrStdout(), format, patches)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, binary")
	cmd.Flags().BoolVar(&handlerIdentity, "handler-identity", false, "Replace elements whose event bindings changed")

	return cmd
}

func writePatches(w io.Writer, format string, patches []vdom.Patch) error {
	switch format {
	case "text":
		for _, p := range patches {
			if _, err := fmt.Fprintln(w, p.String()); err != nil {
				return err
			}
		}
		return nil
	case "json":
		out := make([]patchJSON, len(patches))
		for i := range patches {
			pj, err := toPatchJSON(&patches[i])
			if err != nil {
				return err
			}
			out[i] = pj
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "binary":
		_, err := w.Write(protocol.EncodePatches(&protocol.PatchesFrame{Seq: 1, Patches: patches}))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json or binary)", format)
	}
}

// patchJSON is the JSON form of a patch.
type patchJSON struct {
	Kind     string            `json:"kind"`
	Index    int               `json:"index"`
	Node     *string           `json:"node,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Names    []string          `json:"names,omitempty"`
	Text     *string           `json:"text,omitempty"`
	Children []string          `json:"children,omitempty"`
	Keep     *int              `json:"keep,omitempty"`
}

func toPatchJSON(p *vdom.Patch) (patchJSON, error) {
	out := patchJSON{Kind: p.Kind.String(), Index: p.Index}
	switch p.Kind {
	case vdom.PatchReplace:
		html, err := render.RenderToString(p.Node)
		if err != nil {
			return out, err
		}
		out.Node = &html
	case vdom.PatchAddAttributes:
		out.Attrs = make(map[string]string, p.Attrs.Len())
		p.Attrs.Range(func(name string, v vdom.Value) bool {
			out.Attrs[name] = v.String()
			return true
		})
	case vdom.PatchRemoveAttributes:
		out.Names = p.Names
	case vdom.PatchChangeText:
		out.Text = &p.Text
	case vdom.PatchAppendChildren:
		for _, c := range p.Children {
			html, err := render.RenderToString(c)
			if err != nil {
				return out, err
			}
			out.Children = append(out.Children, html)
		}
	case vdom.PatchTruncateChildren:
		keep := p.Keep
		out.Keep = &keep
	}
	return out, nil
}
