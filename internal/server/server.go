package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alkime/opledit/internal/config"
	"github.com/alkime/opledit/internal/console"
	"github.com/alkime/opledit/internal/menu"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// Console is the part of *console.Console the remote panel drives.
type Console interface {
	Snapshot(ctx context.Context) (console.Snapshot, error)
	DeltaRow(ctx context.Context, row, delta int) (console.Snapshot, error)
	SetFocus(ctx context.Context, row int) (console.Snapshot, error)
}

// Server represents the remote panel HTTP server
type Server struct {
	config  *config.Config
	logger  *slog.Logger
	router  *gin.Engine
	console Console
}

type deltaRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

type focusRequest struct {
	Row *int `json:"row" binding:"required"`
}

// New creates a new Server instance. Everything gin would print goes to
// logger instead of stdout.
func New(cfg *config.Config, c Console, logger *slog.Logger) *Server {
	// Set Gin mode based on environment
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DebugPrintFunc = func(format string, values ...any) {
		logger.Debug(strings.TrimSpace(fmt.Sprintf(format, values...)), "component", "gin")
	}

	// gin.Default would log requests to stdout, which the terminal UI owns
	router := gin.New()
	router.Use(
		gin.CustomRecoveryWithWriter(io.Discard, recoverWith(logger)),
		requestLogger(logger),
	)

	server := &Server{
		config:  cfg,
		logger:  logger,
		router:  router,
		console: c,
	}

	// Setup middleware and routes
	setupSecurityMiddleware(router, cfg, logger)
	server.setupRoutes()

	return server
}

// Router exposes the handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run starts the HTTP server and shuts it down when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{ //nolint:exhaustruct,gosec // defaults are fine on a local panel
		Addr:    ":" + s.config.Port,
		Handler: s.router,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "port", s.config.Port)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
		s.logger.Info("Server shutting down")
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		if err := <-errC; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/params", s.handleParams)
		api.POST("/params/:row/delta", s.handleDelta)
		api.PUT("/focus", s.handleFocus)
	}

	// Panel assets are optional; API-only when no web root is configured.
	if s.config.WebRoot != "" {
		s.router.Use(static.Serve("/", static.LocalFile(s.config.WebRoot, false)))
		s.logger.Debug("Serving panel assets", "root", s.config.WebRoot)
	}
}

// handleHealth handles the health check endpoint
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "opledit",
	})
}

func (s *Server) handleParams(c *gin.Context) {
	snap, err := s.console.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleDelta(c *gin.Context) {
	row, err := strconv.Atoi(c.Param("row"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such row"})
		return
	}

	var req deltaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.console.DeltaRow(c.Request.Context(), row, *req.Delta)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.logger.Debug("remote delta", "row", row, "delta", *req.Delta)
	c.JSON(http.StatusOK, snap.Rows[row])
}

func (s *Server) handleFocus(c *gin.Context) {
	var req focusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := s.console.SetFocus(c.Request.Context(), *req.Row)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, menu.ErrNoRow):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, console.ErrStopped):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		s.logger.Error("console request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
