// Package api serves review sessions over HTTP as JSON.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v4"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/store"
)

// ErrSessionNotFound is returned for unknown or expired handles.
var ErrSessionNotFound = errors.New("session not found")

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 30 * time.Minute

// Options configures a Server. Catalog and NewSession are required.
type Options struct {
	Catalog    *content.Catalog
	NewSession func() (*session.Session, error)
	Progress   store.ProgressRepo
	Rewards    *gamification.Service
	Tracker    *analytics.Tracker
	Logger     *slog.Logger

	// RateLimit is requests per second per client; 0 disables limiting.
	RateLimit   float64
	IdleTimeout time.Duration
	Now         func() time.Time
}

// Server owns the echo instance and the live sessions keyed by handle.
type Server struct {
	opts    Options
	echo    *echo.Echo
	limiter *limiterStore
	logger  *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

// entry serializes access to one session.
type entry struct {
	mu       sync.Mutex
	sess     *session.Session
	lastSeen time.Time
}

// New builds the server and registers routes.
func New(opts Options) (*Server, error) {
	if opts.Catalog == nil || opts.NewSession == nil {
		return nil, errors.New("api: catalog and session factory are required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		opts:     opts,
		echo:     e,
		logger:   opts.Logger,
		sessions: make(map[string]*entry),
	}

	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	if opts.RateLimit > 0 {
		s.limiter = newLimiterStore(opts.RateLimit, 0, opts.Now)
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: s.limiter,
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return c.JSON(http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			},
		}))
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := s.echo.Group("/api/v1")
	g.GET("/stages", s.listStages)
	g.POST("/sessions", s.startSession)
	g.GET("/sessions/:id", s.getSession)
	g.POST("/sessions/:id/answer", s.answer)
	g.POST("/sessions/:id/restart", s.restart)
	g.DELETE("/sessions/:id", s.endSession)
	g.GET("/profile", s.profile)
	g.GET("/insights", s.insights)
	g.GET("/due", s.due)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		s.logger.Debug("http request",
			"method", c.Request().Method,
			"path", c.Path(),
			"status", c.Response().Status,
			"duration", time.Since(start),
		)
		return err
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and ends every live session.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)

	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range live {
		e.mu.Lock()
		e.sess.End(ctx)
		e.mu.Unlock()
	}
	return err
}

func (s *Server) add(sess *session.Session) string {
	id := shortuuid.New()
	s.mu.Lock()
	s.sessions[id] = &entry{sess: sess, lastSeen: s.opts.Now()}
	s.mu.Unlock()
	return id
}

// lookup returns the entry locked; callers must unlock it.
func (s *Server) lookup(id string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.mu.Lock()
	e.lastSeen = s.opts.Now()
	return e, nil
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep ends sessions idle past the timeout and forgets idle rate-limit
// clients. It returns the number of sessions ended.
func (s *Server) Sweep(ctx context.Context) int {
	cutoff := s.opts.Now().Add(-s.opts.IdleTimeout)

	s.mu.Lock()
	var stale []*entry
	for id, e := range s.sessions {
		e.mu.Lock()
		idle := e.lastSeen.Before(cutoff)
		e.mu.Unlock()
		if idle {
			stale = append(stale, e)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, e := range stale {
		e.mu.Lock()
		e.sess.End(ctx)
		e.mu.Unlock()
	}
	if s.limiter != nil {
		s.limiter.sweep()
	}
	if len(stale) > 0 {
		s.logger.Info("ended idle sessions", "count", len(stale))
	}
	return len(stale)
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
