package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workflowhub/internal/bootstrap"
	"workflowhub/internal/handler"
	"workflowhub/internal/httpserver"
	"workflowhub/pkg/config"
	"workflowhub/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting workflow API...",
		zap.String("app_name", cfg.Server.AppName),
		zap.String("port", cfg.Server.Port),
		zap.Bool("auth", cfg.Auth.Secret != ""),
	)

	ctx := context.Background()
	app, err := bootstrap.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer app.Close()

	h := handler.NewWorkflowHandler(app.Service, log)
	router := httpserver.NewRouter(h, app, cfg.Auth.Secret, log)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router.Engine,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down workflow API gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("Workflow API shutdown complete")
}
