// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/pdiddy/blogsmith/internal/metrics"
	"github.com/pdiddy/blogsmith/internal/pipeline"
	"github.com/pdiddy/blogsmith/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline over HTTP",
	Long: `Serve exposes POST /v1/posts, GET /healthz and GET /metrics. Each request
is an independent pipeline run bounded by server.run_timeout.`,
	PreRun: func(cmd *cobra.Command, args []string) {
		bindFlag("server.addr", cmd.Flags().Lookup("addr"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m, err := metrics.New(reg)
		if err != nil {
			return err
		}

		ex, err := newExecutor(cfg, pipeline.WithHooks(m.Hooks()))
		if err != nil {
			return err
		}
		h := server.NewHandler(ex,
			server.WithLogger(logger),
			server.WithMetrics(m, reg),
			server.WithRunTimeout(cfg.Server.RunTimeout),
		)
		return server.ListenAndServe(cmd.Context(), cfg.Server.Addr, h, logger)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")

	rootCmd.AddCommand(serveCmd)
}
