package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/snapshot"
	"github.com/vango-dev/vtree/pkg/treeio"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// errSnapshotDiffers is returned by snapshot diff when the trees differ, so
// scripts can rely on the exit status.
var errSnapshotDiffers = errors.New("tree differs from snapshot")

func snapshotCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store and compare tree snapshots",
		Long: `Manage tree snapshots.

Snapshots live in snapshot.dir (default .vtree/snapshots) or, when
snapshot.bucket is set in vtree.json, in S3. Keys without a tree
extension are stored as YAML. Any command that takes a tree also
accepts snapshot:KEY.`,
	}

	cmd.AddCommand(
		snapshotPutCmd(opts),
		snapshotGetCmd(opts),
		snapshotDiffCmd(opts),
		snapshotListCmd(opts),
	)
	return cmd
}

func snapshotPutCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put KEY FILE",
		Short: "Store a tree file under KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			n, err := treeio.Load(args[1])
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			key := snapshot.TreeKey(args[0])
			if err := snapshot.SaveTree(cmd.Context(), store, key, n); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "stored %s (%d nodes)", key, vdom.Count(n))
			return nil
		},
	}
}

func snapshotGetCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print a stored tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			n, err := snapshot.LoadTree(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			data, err := treeio.Marshal("out."+format, n)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, json, html")
	return cmd
}

func snapshotDiffCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "diff KEY FILE",
		Short: "Print the patches from a snapshot to a tree file",
		Long: `Print the patches that turn the stored tree into FILE.

Exits with an error when there is at least one patch.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			prev, err := snapshot.LoadTree(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			next, err := treeio.Load(args[1])
			if err != nil {
				return err
			}
			patches := vdom.DiffWith(prev, next, vdom.Options{HandlerIdentity: cfg.Diff.HandlerIdentity})
			if len(patches) == 0 {
				success(cmd.ErrOrStderr(), "%s matches %s", args[1], snapshot.TreeKey(args[0]))
				return nil
			}
			if err := writePatches(cmd.OutOrStdout(), format, patches); err != nil {
				return err
			}
			return fmt.Errorf("%w: %d patches", errSnapshotDiffers, len(patches))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json")
	return cmd
}

func snapshotListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [PREFIX]",
		Short: "List stored snapshot keys",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			store, err := snapshot.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			var prefix string
			if len(args) == 1 {
				prefix = args[0]
			}
			keys, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
