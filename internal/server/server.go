// Package server serves generated bars over HTTP.
//
// Routes:
//
//	GET /healthz
//	GET /v1/packing?density=&size_variation=&overlap=&width=&height=&seed=&format=
//	GET /v1/grid?rows=&density=&size_variation_x=&size_variation_y=&overlap=&layout=&width=&height=&format=
//
// Both generator routes also accept the render parameters fill, color,
// background, scale, offset_x, offset_y and refresh. Invalid values are
// answered with 400 and a JSON error body.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/barpack/pkg/buildinfo"
	"github.com/matzehuels/barpack/pkg/errors"
	"github.com/matzehuels/barpack/pkg/observability"
	"github.com/matzehuels/barpack/pkg/pipeline"
)

// Timeouts applied by Run.
const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 30 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server wires a pipeline runner to HTTP routes.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New returns a server generating bars with runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger.WithPrefix("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/packing", s.handleGenerate(pipeline.ModePacking))
		r.Get("/grid", s.handleGenerate(pipeline.ModeGrid))
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// observe reports every request to the server hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, status, d)
		s.logger.Debug("request",
			"id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", d.Round(time.Microsecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleGenerate(mode string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, format, err := parseOptions(mode, r.URL.Query())
		if err != nil {
			s.writeError(w, err)
			return
		}

		res, err := s.runner.Execute(r.Context(), opts)
		if err != nil {
			s.writeError(w, err)
			return
		}

		h := w.Header()
		h.Set("Content-Type", pipeline.ContentType(format))
		h.Set("X-Barpack-Run-Id", res.ID)
		h.Set("X-Barpack-Circles", strconv.Itoa(res.Stats.Circles))
		h.Set("X-Barpack-Coverage", strconv.FormatFloat(res.Stats.Coverage, 'f', 4, 64))
		h.Set("X-Barpack-Layout-Cache", cacheHeader(res.CacheInfo.LayoutHit))
		if res.Layout.Fallback {
			h.Set("X-Barpack-Fallback", "true")
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(res.Artifacts[format])
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

// writeError answers invalid input with 400 and anything else with 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.IsInvalid(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("request failed", "err", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Code: code, Error: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
