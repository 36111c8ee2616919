package cli

import (
	"fmt"
	"net/http"

	"github.com/Kavirubc/skinchat/internal/logging"
	"github.com/Kavirubc/skinchat/internal/metrics"
	"github.com/Kavirubc/skinchat/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		addr        string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the chat HTTP API",
		Long: `Serve POST /api/v1/chat for the web frontend.

Request:  {"message": "...", "history": [{"role": "user", "content": "..."}]}
Response: {"response": "...", "request_id": "..."}

Prometheus metrics are exposed on --metrics-addr when set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			prom := metrics.NewProm("skinchat")

			assembler, cfg, err := newAssembler(prom)
			if err != nil {
				return err
			}
			defer assembler.Close()

			if addr != "" {
				cfg.Server.Addr = addr
			}
			if metricsAddr != "" {
				cfg.Server.MetricsAddr = metricsAddr
			}

			logging.Info("serve", "starting", "version", version, "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

			var metricsHandler http.Handler
			if cfg.Server.MetricsAddr != "" {
				metricsHandler = prom.Handler()
			}

			srv := server.New(cfg.Server, assembler, prom, cfg.LLM.Timeout())
			if err := srv.Run(cmd.Context(), metricsHandler); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "metrics listen address (overrides server.metrics_addr)")

	return cmd
}
