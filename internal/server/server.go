package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ytget/tubeloader/internal/download"
	"github.com/ytget/tubeloader/internal/extract"
	"github.com/ytget/tubeloader/internal/logging"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
	recordTimeout     = 5 * time.Second
)

// Options configure New.
type Options struct {
	// WorkDir holds one subdirectory per download request.
	WorkDir string
	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string
	Recorder       download.Recorder
	Logger         *logging.Logger
}

// Server serves the HTTP API.
type Server struct {
	engine    *gin.Engine
	info      extract.MetadataSource
	processor download.Processor
	workDir   string
	recorder  download.Recorder
	logger    *logging.Logger
}

// New builds the gin engine and registers routes.
func New(info extract.MetadataSource, processor download.Processor, opts Options) (*Server, error) {
	if opts.WorkDir == "" {
		return nil, errors.New("server work dir is required")
	}
	if err := os.MkdirAll(opts.WorkDir, 0o755); err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	s := &Server{
		engine:    engine,
		info:      info,
		processor: processor,
		workDir:   opts.WorkDir,
		recorder:  opts.Recorder,
		logger:    opts.Logger.OrDefault().With("component", "server"),
	}
	engine.Use(s.requestLogger())
	s.setupRoutes()
	return s, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	return cfg
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.POST("/video-info", s.handleVideoInfo)
	api.POST("/download", s.handleDownload)
	api.GET("/serve-file", s.handleServeFile)
}

// Handler returns the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "work_dir", s.workDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errorBody(detail string) gin.H {
	return gin.H{"detail": detail}
}
