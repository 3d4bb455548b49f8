// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/rfc-engine/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve RFC queries as tools over stdio",
	Long: `Serve runs a Model Context Protocol server on stdin/stdout exposing
get_rfc_structure, get_requirements, get_definitions, get_rfc_dependencies,
get_related_sections, generate_checklist and validate_statement.

Logs go to stderr. With --metrics-addr, Prometheus metrics are served on
that address at /metrics.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("metrics-addr", "", "listen address for /metrics (e.g. :9090); empty disables")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	e, err := newEngine()
	if err != nil {
		return err
	}
	defer e.close()

	srv, err := mcp.NewServer(mcp.Config{
		Version: version,
		Logger:  e.logger.Named("mcp"),
		Metrics: mcp.NewMetrics(e.registry),
	}, e.svc)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if metricsAddr != "" {
		stopMetrics := serveMetrics(ctx, e, metricsAddr)
		defer stopMetrics()
	}

	return srv.Run(ctx)
}

// serveMetrics exposes the engine registry over HTTP and returns a function
// that shuts the listener down.
func serveMetrics(ctx context.Context, e *engine, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{}))
	hs := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		e.logger.Info("serving metrics", zap.String("addr", addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics listener failed", zap.Error(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = hs.Shutdown(shutdownCtx)
	}
}
