package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/internal/config"
	"github.com/vango-dev/vtree/pkg/cycle"
	"github.com/vango-dev/vtree/pkg/transport"
	"github.com/vango-dev/vtree/pkg/treeio"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		host    string
		port    int
		metrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Stream a tree file to remote renderers",
		Long: `Serve a tree file to remote renderers over WebSocket.

Clients connecting to the WebSocket endpoint (server.path, default /ws)
receive the current tree, then a patch batch every time the file is
saved. GET / returns the current tree as HTML; with --metrics, /metrics
exposes Prometheus metrics.

Examples:
  vtree serve page.html
  vtree serve page.yaml --port 9000 --metrics`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Server.Host = host
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Server.Metrics = metrics
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runServe(ctx, cmd, cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from vtree.json)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from vtree.json)")
	cmd.Flags().BoolVar(&metrics, "metrics", false, "Expose Prometheus metrics on /metrics")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, file string) error {
	logger := cfg.NewLogger(cmd.ErrOrStderr())

	initial, err := treeio.Load(file)
	if err != nil {
		return err
	}

	var reg *prometheus.Registry
	if cfg.Server.Metrics {
		reg = prometheus.NewRegistry()
	}
	hub := transport.NewHub(&transport.HubConfig{
		Path:         cfg.Server.Path,
		WriteTimeout: cfg.WriteTimeout(),
		Registry:     reg,
		Logger:       logger,
	})

	driverOpts, err := cycle.ConfigOptions(cfg)
	if err != nil {
		return err
	}
	driverOpts = append(driverOpts, cycle.WithLogger(logger))
	if reg != nil {
		driverOpts = append(driverOpts, cycle.WithMetrics(cycle.NewMetrics(cycle.WithRegistry(reg))))
	}
	driver := cycle.New(hub, driverOpts...)
	if _, err := driver.Render(ctx, initial); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		hub.Close()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return watchTree(ctx, logger, file, func(next *vdom.Node) {
			res, err := driver.Render(ctx, next)
			if err != nil {
				logger.Error("render cycle failed", "error", err)
				return
			}
			logger.Info("render cycle", "seq", res.Seq, "result", res.Outcome,
				"patches", len(res.Patches), "clients", hub.ClientCount())
		})
	})

	success(cmd.ErrOrStderr(), "serving %s on http://%s", file, cfg.ServerAddress())
	info(cmd.ErrOrStderr(), "renderers connect to ws://%s%s", cfg.ServerAddress(), cfg.Server.Path)
	return g.Wait()
}
