// Package api provides the HTTP API for the Conference Workflow Orchestrator
// (SPEC_FULL.md §8), adapted from the teacher's pkg/api/server.go: a Server
// whose dependencies are all passed to NewServer (no setters), built on gin (the teacher's actual go.mod
// dependency) rather than echo, and wired to the workflow/execution engines
// instead of the teacher's alert/session services.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/execution"
	"github.com/codeready-toolchain/tarsy/pkg/workflow"
)

// Server is the HTTP API server (SPEC_FULL.md §8).
type Server struct {
	engine      *gin.Engine
	workflows   *workflow.Engine
	executions  *execution.Engine
	bus         *events.Bus
	healthCheck func(ctx context.Context) error
}

// NewServer builds a Server and registers every route.
func NewServer(workflows *workflow.Engine, executions *execution.Engine, bus *events.Bus, healthCheck func(ctx context.Context) error) *Server {
	gin.SetMode(gin.ReleaseMode)
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger(), securityHeaders())

	s := &Server{engine: e, workflows: workflows, executions: executions, bus: bus, healthCheck: healthCheck}
	s.setupRoutes()
	return s
}

// Handler exposes the underlying http.Handler for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/workflows", s.initializeHandler)
		v1.POST("/workflows/:id/run", s.runWorkflowHandler)
		v1.GET("/workflows/:id", s.getStatusHandler)
		v1.POST("/workflows/:id/pause", s.pauseWorkflowHandler)
		v1.POST("/workflows/:id/resume", s.resumeWorkflowHandler)

		v1.POST("/executions", s.executeHandler)

		v1.GET("/events/stream", s.streamEventsHandler)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "duration_ms", time.Since(start).Milliseconds())
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
