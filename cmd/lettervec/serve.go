package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/lettervec/internal/api"
	"github.com/kalambet/lettervec/internal/pdftext"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the document upload API (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		host, _ := cmd.Flags().GetString("host")
		return runServer(cmd.Context(), host)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the import tools over MCP on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().String("host", "127.0.0.1", "interface to listen on")
}

func runServer(parent context.Context, host string) error {
	fmt.Fprintf(os.Stderr, "lettervec version %s\n", version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			printWarning("closing store: %v", err)
		}
	}()

	if cfg.Server.Token == "" {
		slog.Warn("server.token is not set; upload API is unauthenticated")
	}

	handler := api.NewHandler(api.Deps{
		Importer:  a.importer,
		Counter:   a.store,
		Extractor: pdftext.PDF{},
		Token:     cfg.Server.Token,
	})

	addr := net.JoinHostPort(host, fmt.Sprint(cfg.Server.Port))
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "addr", addr, "store", cfg.Store.Driver, "provider", cfg.Embedding.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runMCP serves until stdin closes or a signal arrives. Stdout carries the
// protocol, so importer progress is sent to stderr.
func runMCP(parent context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Importer: a.importer,
		Counter:  a.store,
		Version:  version,
	})
	slog.Info("MCP server started (stdio transport)")
	if err := server.NewStdioServer(mcpSrv).Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
