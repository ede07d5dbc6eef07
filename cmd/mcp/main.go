package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workflowhub/internal/bootstrap"
	"workflowhub/internal/httpserver"
	"workflowhub/internal/mcptools"
	"workflowhub/pkg/config"
	"workflowhub/pkg/logger"
)

var Version = "dev"

func main() {
	var transport string

	rootCmd := &cobra.Command{
		Use:     "workflowhub-mcp",
		Short:   "Serve the workflow tools over MCP",
		Version: Version,
		Long: `Serve the workflow tools over MCP.

Examples:
  workflowhub-mcp --transport stdio
  PORT=8001 workflowhub-mcp --transport http`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(transport)
		},
	}
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "stdio", "transport to serve on (stdio, http)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(transport string) error {
	if transport != "stdio" && transport != "http" {
		return fmt.Errorf("unknown transport %q (want stdio or http)", transport)
	}

	cfg := config.Load()

	// zap writes to stderr, which keeps stdout free for the stdio transport.
	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	ctx := context.Background()
	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer app.Close()

	tools := mcptools.New(app.Service, log)
	mcpServer := mcptools.NewServer(cfg.Server.AppName, Version, tools)

	log.Info("Starting MCP server...",
		zap.String("app_name", cfg.Server.AppName),
		zap.String("transport", transport),
	)

	if transport == "stdio" {
		return server.ServeStdio(mcpServer)
	}
	return serveHTTP(cfg, app, mcpServer, log)
}

func serveHTTP(cfg *config.Config, app *bootstrap.App, mcpServer *server.MCPServer, log *zap.Logger) error {
	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpserver.NewMCPRouter(server.NewStreamableHTTPServer(mcpServer), app, cfg.Auth.Secret, log)
	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router.Engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("MCP HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("mcp http server: %w", err)
	}

	log.Info("Shutting down MCP server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("MCP HTTP server shutdown error", zap.Error(err))
		return err
	}

	log.Info("MCP server shutdown complete")
	return nil
}
