package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkden/linkden/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

Serves search, suggestions, and link management under /api until
interrupted. Host and port come from the configuration unless
overridden by flags.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Listen host (overrides config)")
	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, host string, port int) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if host == "" {
		host = e.cfg.Server.Host
	}
	if port == 0 {
		port = e.cfg.Server.Port
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	server := api.New(e.store, e.engine, e.logger)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("server_started", slog.String("addr", addr))
		fmt.Fprintf(cmd.OutOrStdout(), "linkden listening on http://%s\n", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "linkden stopped")
	return nil
}
