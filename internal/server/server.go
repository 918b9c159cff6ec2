// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build version
//	POST /v1/layout               positioned layout as JSON
//	POST /v1/render/{format}      rendered svg, png or json
//	POST /v1/colors/reoptimize    search again for better colors
//
// Every POST takes a [Request] body holding either a JSON document or
// solution text, plus optional pipeline options that override the server
// defaults.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/setgrid/pkg/buildinfo"
	"github.com/matzehuels/setgrid/pkg/errors"
	"github.com/matzehuels/setgrid/pkg/layout"
	"github.com/matzehuels/setgrid/pkg/pipeline"
)

const (
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes = 4 << 20

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

// Request is the body of every POST endpoint. Exactly one of Document and
// Solution must be set.
type Request struct {
	Document *layout.Document `json:"document,omitempty"`
	Solution string           `json:"solution,omitempty"`
	Options  json.RawMessage  `json:"options,omitempty"`
}

// LayoutResponse is returned by POST /v1/layout.
type LayoutResponse struct {
	RunID  string         `json:"run_id"`
	Layout *layout.Result `json:"layout"`
	Colors []string       `json:"colors"`
	Energy float64        `json:"energy"`
	Cached bool           `json:"cached"`
}

// ReoptimizeResponse is returned by POST /v1/colors/reoptimize.
type ReoptimizeResponse struct {
	Key      string  `json:"key"`
	Previous float64 `json:"previous"`
	Energy   float64 `json:"energy"`
	Improved bool    `json:"improved"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// Server serves the pipeline. It holds no per-request state.
type Server struct {
	Runner   *pipeline.Runner
	Defaults pipeline.Options
	Logger   *log.Logger
	Timeout  time.Duration
}

// New creates a server. defaults are copied into every request before the
// request's own options are applied.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Defaults: defaults, Logger: logger, Timeout: DefaultTimeout}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if s.Timeout > 0 {
		r.Use(middleware.Timeout(s.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
		r.Post("/colors/reoptimize", s.handleReoptimize)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, a, err := s.Runner.Layout(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LayoutResponse{
		RunID:  requestID(r.Context()),
		Layout: res,
		Colors: a.Colors,
		Energy: a.Energy,
		Cached: a.Cached,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, err)
		return
	}

	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Formats = []string{format}

	result, err := s.Runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Run-ID", result.RunID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleReoptimize(w http.ResponseWriter, r *http.Request) {
	doc, opts, err := s.decode(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	re, err := s.Runner.Reoptimize(r.Context(), doc, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ReoptimizeResponse{
		Key:      re.Key,
		Previous: re.Previous,
		Energy:   re.Energy,
		Improved: re.Improved,
	})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads the request body and merges its options over the defaults.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (*layout.Document, pipeline.Options, error) {
	opts := s.defaults()
	opts.Logger = loggerFromContext(r.Context(), s.Logger)

	var req Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		return nil, opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			return nil, opts, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode options")
		}
	}

	switch {
	case req.Document != nil && req.Solution != "":
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "set either document or solution, not both")
	case req.Document != nil:
		return req.Document, opts, nil
	case req.Solution != "":
		doc, err := pipeline.Parse([]byte(req.Solution))
		return doc, opts, err
	default:
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "request has no document or solution")
	}
}

// defaults copies the server defaults so a request can never modify them.
func (s *Server) defaults() pipeline.Options {
	opts := s.Defaults
	opts.Formats = append([]string(nil), s.Defaults.Formats...)
	opts.Palette = append([]string(nil), s.Defaults.Palette...)
	if s.Defaults.Style != nil {
		style := *s.Defaults.Style
		opts.Style = &style
	}
	return opts
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	logger := loggerFromContext(r.Context(), s.Logger)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "err", err)
	} else {
		logger.Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: errors.GetCode(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Request logging
// =============================================================================

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// requestLogger tags each request with an id and logs its completion.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logger := s.Logger.With("request", id)
		ctx := context.WithValue(r.Context(), loggerKey, logger)
		ctx = context.WithValue(ctx, requestIDKey, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		logger.Info("handled request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func loggerFromContext(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return fallback
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
