package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mcp-menu-gacha/internal/catalog"
	"mcp-menu-gacha/internal/server"
)

const shutdownTimeout = 10 * time.Second

// newGachaServer is replaced in tests.
var newGachaServer = server.NewGachaServer

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.config.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.config.Server.Port = port
			}
			return a.serve()
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "Host address (overrides server.host)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for HTTP transport (overrides server.port)")
	return cmd
}

func (a *app) serve() error {
	source, err := a.openSource()
	if err != nil {
		return err
	}
	return a.serveSource(source)
}

// serveSource owns source: it is closed by the server's Stop, or directly
// when the server cannot be built.
func (a *app) serveSource(source catalog.Source) error {
	srv, err := newGachaServer(a.config, source, a.logger)
	if err != nil {
		if closer, ok := source.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil {
				a.logger.Error(cerr, "Failed to close menu source")
			}
		}
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var serveErr error
	select {
	case sig := <-sigCh:
		a.logger.Info("Received shutdown signal", "signal", sig.String())
	case serveErr = <-errCh:
		if serveErr != nil {
			a.logger.Error(serveErr, "Server error")
		}
	}

	a.logger.Info("Shutting down")
	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil {
		a.logger.Error(err, "Error during shutdown")
	}
	return serveErr
}
