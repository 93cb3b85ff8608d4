package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	httpAdapter "github.com/githubixx/vdrremote-go/internal/adapters/primary/http"
)

func serveCmd(a *app) *cobra.Command {
	var (
		listen     string
		listenPort int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the device status as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverCfg := a.cfg.Server
			if cmd.Flags().Changed("listen-port") {
				serverCfg.Port = listenPort
			}
			if listen != "" {
				serverCfg.Host = listen
			}

			handler := httpAdapter.NewHandler(a.logger, a.client, a.status, a.guide)
			metrics := httpAdapter.NewMetrics(a.status, a.cfg.VDR.Timeout)
			mux := httpAdapter.SetupRoutes(handler, metrics, a.logger)
			server := httpAdapter.NewServer(&serverCfg, a.logger, mux)

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			a.logger.Info("status API started",
				slog.String("addr", server.Addr()),
				slog.String("vdr", a.cfg.VDR.Host))

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen host (overrides server.host)")
	cmd.Flags().IntVar(&listenPort, "listen-port", 8080, "listen port (overrides server.port)")
	return cmd
}
