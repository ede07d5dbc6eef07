package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"workflowhub/internal/handler"
)

// Readiness is checked by /readyz.
type Readiness interface {
	Ready(ctx context.Context) error
}

type Router struct {
	Engine *gin.Engine
}

// NewRouter wires the workflow API. An empty secret leaves every route open.
func NewRouter(h *handler.WorkflowHandler, ready Readiness, secret string, logger *zap.Logger) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), LoggingMiddleware(logger), MetricsMiddleware())

	registerHealthRoutes(r, ready)

	api := r.Group("/")
	if secret != "" {
		api.Use(AuthMiddleware(secret))
	}
	{
		api.GET("/dashboard", h.GetDashboard)

		api.POST("/users", h.CreateUser)
		api.GET("/users/:id", h.GetUser)
		api.GET("/users/:id/history", h.GetUserHistory)

		api.POST("/projects", h.CreateProject)
		api.POST("/milestones", h.CreateMilestone)
		api.POST("/milestones/:id/complete", h.CompleteMilestone)
		api.POST("/history", h.CreateHistory)

		api.GET("/recommend/:project_id/:task_type", h.Recommend)

		api.POST("/events", h.LogEvent)
		api.GET("/events", h.ListEvents)

		api.PUT("/resources/:id", h.UpdateResource)
		api.GET("/resources/:id", h.GetResource)
	}

	return &Router{Engine: r}
}

// NewMCPRouter mounts the streamable HTTP tool endpoint at /mcp next to the
// same health routes and metrics as the API.
func NewMCPRouter(mcpHandler http.Handler, ready Readiness, secret string, logger *zap.Logger) *Router {
	r := gin.New()
	r.Use(gin.Recovery(), TraceMiddleware(), LoggingMiddleware(logger), MetricsMiddleware())

	registerHealthRoutes(r, ready)

	tools := r.Group("/mcp")
	if secret != "" {
		tools.Use(AuthMiddleware(secret))
	}
	tools.Any("", gin.WrapH(mcpHandler))

	return &Router{Engine: r}
}

func registerHealthRoutes(r *gin.Engine, ready Readiness) {
	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := ready.Ready(ctx); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (r *Router) Run(addr string) error {
	return r.Engine.Run(addr)
}
