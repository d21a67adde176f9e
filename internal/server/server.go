package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/atikulmunna/clientlog/internal/aggregator"
	"github.com/atikulmunna/clientlog/internal/config"
	"github.com/atikulmunna/clientlog/internal/hub"
	"github.com/atikulmunna/clientlog/internal/logstore"
	"github.com/atikulmunna/clientlog/internal/output"
	"github.com/atikulmunna/clientlog/internal/static"
)

const shutdownTimeout = 5 * time.Second

// Deps are the collaborators the server dispatches to.
type Deps struct {
	Store      logstore.Store
	Files      *static.Files
	Console    output.Renderer
	Hub        *hub.Hub
	Aggregator *aggregator.Aggregator
	Log        *logrus.Logger
	Now        func() time.Time // defaults to time.Now
}

// Server holds the Gin engine and dependencies for the log collector.
type Server struct {
	engine *gin.Engine
	cfg    config.Config
	Deps
}

// New creates the HTTP server for cfg.
func New(cfg config.Config, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}

	engine := gin.New()

	// Paths are matched exactly; "/view-logs/" is a static path, not a redirect.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		cfg:    cfg,
		Deps:   deps,
	}

	engine.Use(
		gin.CustomRecoveryWithWriter(io.Discard, s.recovered),
		requestID(),
		accessLog(s.Log),
		cors(),
	)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.POST("/log", s.handleLog)
	s.engine.GET("/view-logs", s.handleViewLogs)

	// Live feed and metrics.
	s.engine.GET("/ws", s.handleWebSocket)
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.Aggregator.Snapshot())
	})
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.Aggregator.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"uptime":       stats.Uptime,
			"total_events": stats.TotalEvents,
			"eps":          stats.EPS,
			"dropped":      stats.Dropped,
		})
	})

	if s.cfg.Pprof {
		s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
		s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
		s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
		s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
		s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
	}

	// Everything else, whatever the method, is a static file lookup.
	s.engine.NoRoute(s.handleStatic)
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Listen binds the configured port.
func (s *Server) Listen() (net.Listener, error) {
	return net.Listen("tcp", s.cfg.Addr())
}

// Serve handles connections on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) recovered(c *gin.Context, err any) {
	s.Log.WithFields(logrus.Fields{
		"panic":      err,
		"request_id": c.GetString(requestIDKey),
		"path":       c.Request.URL.Path,
	}).Error("recovered from panic")
	c.AbortWithStatus(http.StatusInternalServerError)
}
