package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/handlers"
	"github.com/lehigh-university-libraries/citematch/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start an HTTP server exposing citation search",
		Long: `Starts an HTTP server on the specified port.

GET /api/search?q=QUERY returns the accepted labels as JSON together with the
sources that could not be reached. Add explain=true to include the decision
taken for every candidate. Fetches are cached in memory unless --cache points
at an on-disk cache.`,
		Example: `  # Start server on default port 8888
  citematch serve

  # Start server on custom port
  citematch serve --port 3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeCache, err := buildService(root.cfg, storage.NewMemoryStore())
			if err != nil {
				return err
			}
			defer closeCache()

			handler := handlers.New(svc)

			mux := http.NewServeMux()
			mux.HandleFunc("/api/search", handler.HandleSearch)
			mux.HandleFunc("/healthcheck", handler.HandleHealthcheck)

			addr := ":" + port
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Citematch API available", "addr", addr, "url", "http://localhost"+addr+"/api/search")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8888", "Port to listen on")

	return cmd
}
