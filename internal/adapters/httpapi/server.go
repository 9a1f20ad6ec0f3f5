// Package httpapi exposes the query service as a JSON-over-HTTP API.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.trai.ch/herd/internal/core/domain"
	"go.trai.ch/herd/internal/core/ports"
	"go.trai.ch/herd/internal/engine/query"
	"go.trai.ch/zerr"
)

// Queries is the query surface served by the API.
type Queries interface {
	ProfileByID(ctx context.Context, userID string, amount int) (*query.ProfileResult, error)
	ProfileByUsername(ctx context.Context, username string, amount int) (*query.ProfileResult, error)
	LikedPosts(ctx context.Context, userID string, amount int) ([]domain.Post, error)
	PostByLink(ctx context.Context, q query.PostQuery) (*domain.Post, error)
	BuildProfileRequests(ctx context.Context, userID string, count int) ([]domain.RequestInfo, error)
	BuildPostsRequests(ctx context.Context, userID string, amount, count int) ([]domain.RequestInfo, error)
	BuildPostRequests(ctx context.Context, q query.PostQuery, count int) ([]domain.RequestInfo, error)
}

var _ Queries = (*query.Service)(nil)

const (
	maxBodyBytes      = 1 << 20
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	queries Queries
	logger  ports.Logger
	tracer  ports.Tracer
}

// New creates a Server.
func New(queries Queries, logger ports.Logger, tracer ports.Tracer) *Server {
	return &Server{queries: queries, logger: logger, tracer: tracer}
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.accessLog)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/search_by_sid", s.handleSearchBySid)
		r.Post("/search", s.handleSearch(false))
		r.Post("/search_full", s.handleSearch(true))
		r.Post("/post", s.handlePost)
		r.Post("/liked", s.handleLiked)
		r.Post("/search_by_sid_build_request", s.handleBuildProfile)
		r.Post("/posts_by_sid_build_request", s.handleBuildPosts)
		r.Post("/post_build_request", s.handleBuildPost)
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening on " + addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return zerr.With(zerr.Wrap(err, "http server stopped"), "addr", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.Wrap(err, "http server shutdown failed")
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return zerr.Wrap(err, "http server stopped")
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		ctx, span := s.tracer.Start(r.Context(), "http "+r.URL.Path,
			ports.WithAttribute("http.method", r.Method),
			ports.WithAttribute("request_id", middleware.GetReqID(r.Context())),
		)
		defer span.End()

		next.ServeHTTP(ww, r.WithContext(ctx))

		span.SetAttribute("http.status", ww.Status())
		s.logger.Info(fmt.Sprintf("%s %s %d in %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond)))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err := zerr.With(zerr.New("handler panicked"), "panic", fmt.Sprint(rec))
				s.logger.Error(zerr.With(err, "path", r.URL.Path))
				writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
