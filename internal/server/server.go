// Package server implements the local preview server behind
// `logomosaic serve`.
//
// The server holds a single session. Tiles and the logo are loaded once at
// startup; clients then re-render with PUT /params and fetch the result:
//
//	GET  /healthz          readiness check
//	GET  /params           current render parameters
//	PUT  /params           merge JSON params and re-render
//	GET  /render.png       raster render (?max_side=)
//	GET  /render.jpg       raster render (?quality=, ?max_side=)
//	GET  /export.svg       vector export (?embed=1 inlines tile snapshots)
//	GET  /placement.json   placement record
//	GET  /hit?x=&y=        tile under a canvas point
//	GET  /tiles            loaded tiles (?limit=, default 120)
//	GET  /tiles/{id}       tile snapshot (?size= for a thumbnail)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	errs "github.com/matzehuels/logomosaic/pkg/errors"
	"github.com/matzehuels/logomosaic/pkg/mosaic"
	"github.com/matzehuels/logomosaic/pkg/observability"
	"github.com/matzehuels/logomosaic/pkg/pipeline"
	"github.com/matzehuels/logomosaic/pkg/session"
)

const (
	// DefaultAddr is the listen address when none is configured.
	DefaultAddr = "127.0.0.1:8420"

	// DefaultTileLimit matches the thumbnail strip of the editor.
	DefaultTileLimit = 120

	tilesRoute   = "/tiles/"
	maxParamBody = 1 << 16
)

// Server serves one mosaic session over HTTP.
type Server struct {
	runner *pipeline.Runner
	sess   *session.Session
	logger *log.Logger
	router chi.Router

	mu   sync.RWMutex
	opts pipeline.Options
}

// New creates a server for sess. opts supplies the initial params and
// export settings; its Logo and Tiles are not reloaded.
func New(runner *pipeline.Runner, sess *session.Session, opts pipeline.Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner: runner,
		sess:   sess,
		logger: logger,
		opts:   opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Get("/params", s.handleGetParams)
	r.Put("/params", s.handlePutParams)
	r.Get("/render.png", s.handleArtifact(pipeline.FormatPNG))
	r.Get("/render.jpg", s.handleArtifact(pipeline.FormatJPEG))
	r.Get("/export.svg", s.handleArtifact(pipeline.FormatSVG))
	r.Get("/placement.json", s.handleArtifact(pipeline.FormatJSON))
	r.Get("/hit", s.handleHit)
	r.Route("/tiles", func(r chi.Router) {
		r.Get("/", s.handleTiles)
		r.Get("/{id}", s.handleTile)
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("preview server listening", "addr", "http://"+addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Params returns the current render parameters.
func (s *Server) Params() mosaic.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.opts.Params
}

func (s *Server) options() pipeline.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opts := s.opts
	opts.Formats = nil
	opts.Restore = nil
	return opts
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"ready":    s.sess.Ready(),
		"rendered": s.sess.Snapshot() != nil,
	})
}

func (s *Server) handleGetParams(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Params())
}

type renderResponse struct {
	Params     mosaic.Params    `json:"params"`
	Placements int              `json:"placements"`
	Warnings   []mosaic.Warning `json:"warnings"`
	Duration   string           `json:"duration"`
}

func (s *Server) handlePutParams(w http.ResponseWriter, r *http.Request) {
	opts := s.options()
	dec := json.NewDecoder(io.LimitReader(r.Body, maxParamBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts.Params); err != nil {
		writeError(w, errs.Wrap(errs.ErrCodeInvalidParams, err, "decode params"))
		return
	}

	start := time.Now()
	snap, err := s.runner.Render(r.Context(), s.sess, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	s.opts.Params = snap.Params
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, renderResponse{
		Params:     snap.Params,
		Placements: snap.Record.Len(),
		Warnings:   snap.Warnings,
		Duration:   time.Since(start).String(),
	})
}

var contentTypes = map[string]string{
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJPEG: "image/jpeg",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleArtifact(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := s.options()
		opts.Formats = []string{format}

		q := r.URL.Query()
		var err error
		if opts.MaxSide, err = intParam(q.Get("max_side"), opts.MaxSide); err != nil {
			writeError(w, err)
			return
		}
		if opts.Quality, err = intParam(q.Get("quality"), opts.Quality); err != nil {
			writeError(w, err)
			return
		}
		if format == pipeline.FormatSVG && q.Get("embed") == "" {
			opts.LinkedTiles = tilesRoute
		}

		artifacts, err := s.runner.Export(r.Context(), s.sess, opts)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		w.Write(artifacts[format])
	}
}

type hitResponse struct {
	Hit  bool         `json:"hit"`
	ID   string       `json:"id,omitempty"`
	Name string       `json:"name,omitempty"`
	Rect *mosaic.Rect `json:"rect,omitempty"`
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, errs.New(errs.ErrCodeInvalidParams, "x and y must be numbers"))
		return
	}
	if s.sess.Snapshot() == nil {
		writeError(w, errs.New(errs.ErrCodeNotReady, "nothing rendered yet"))
		return
	}

	pt, ok := s.sess.HitTest(x, y)
	if !ok {
		writeJSON(w, http.StatusOK, hitResponse{})
		return
	}
	rect := pt.Rect
	writeJSON(w, http.StatusOK, hitResponse{Hit: true, ID: pt.Tile.ID, Name: pt.Tile.Name, Rect: &rect})
}

// =============================================================================
// Middleware and helpers
// =============================================================================

// observe reports requests to the server hooks.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.Server()
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errs.New(errs.ErrCodeInvalidParams, "invalid number: %q", v)
	}
	return n, nil
}

type errorResponse struct {
	Code  errs.Code `json:"code"`
	Error string    `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Error: errs.UserMessage(err)})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidParams, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidColor, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeFileNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNotReady:
		return http.StatusConflict
	case errs.ErrCodeDecode, errs.ErrCodeUnsupportedFormat:
		return http.StatusUnprocessableEntity
	case errs.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
