package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sealbox/client-go/internal/directory"
)

const shutdownTimeout = 5 * time.Second

func newDirectoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "directory",
		Short: "Public-key directory tools",
	}
	cmd.AddCommand(newDirectoryServeCmd(a))
	return cmd
}

func newDirectoryServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory public-key directory for development",
		Long: `Serves the public-key directory HTTP contract from memory. Keys are lost
when the process exits. Requests must carry the configured directory token
when one is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Directory.ListenAddr
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s\n",
				successText.Sprint("Directory listening"),
				codeText.Sprint("http://"+ln.Addr().String()))
			return a.serveDirectory(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8787)")
	return cmd
}

// serveDirectory serves an in-memory directory on ln until ctx is done.
func (a *app) serveDirectory(ctx context.Context, ln net.Listener) error {
	handler := directory.NewHandler(directory.NewMemory(),
		directory.WithAuthToken(a.cfg.Directory.Token),
		directory.WithServerLogger(a.logger),
	)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info("directory shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
