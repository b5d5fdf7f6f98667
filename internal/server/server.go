package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/osuushi/convexify/advanced"
	"github.com/osuushi/convexify/internal/cache"
	"github.com/osuushi/convexify/internal/config"
	"github.com/osuushi/convexify/internal/logging"
	"github.com/osuushi/convexify/internal/metrics"
	"github.com/osuushi/convexify/internal/polyio"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ResultCache is the part of cache.Cache the server uses.
type ResultCache interface {
	Get(ctx context.Context, key string) (*polyio.Document, error)
	Set(ctx context.Context, key string, doc *polyio.Document) error
	Ping(ctx context.Context) error
}

type Options struct {
	Decompose config.DecomposeConfig
	// Largest accepted request body, in bytes
	MaxBodyBytes int64
	// Largest accepted polygon
	MaxPoints int
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	// Optional
	Cache ResultCache
}

// Server exposes decomposition over HTTP.
type Server struct {
	opts Options
}

// DecomposeRequest is the body of POST /v1/decompose.
type DecomposeRequest struct {
	Points     []polyio.Coord `json:"points"`
	BestEffort bool           `json:"best_effort"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	// Set when a piece could not be split
	Failure *polyio.Failure `json:"failure,omitempty"`
}

// NewHandler creates a new HTTP handler serving decomposition, health and
// metrics.
func NewHandler(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = config.Default().Server.MaxPoints
	}
	if opts.Decompose.Workers < 1 {
		opts.Decompose.Workers = 1
	}
	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Post("/v1/decompose", s.Decompose)
	r.Get("/healthz", s.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.opts.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Decompose handles the POST /v1/decompose request.
func (s *Server) Decompose(w http.ResponseWriter, r *http.Request) {
	var body DecomposeRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "bad_request"})
		return
	}
	if len(body.Points) > s.opts.MaxPoints {
		writeError(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: errors.Errorf("%d points exceeds the limit of %d", len(body.Points), s.opts.MaxPoints).Error(),
			Kind:  "too_large",
		})
		return
	}

	points := polyio.Points(body.Points)
	key := cache.Key(points, body.BestEffort)
	if doc, ok := s.cached(r.Context(), key); ok {
		w.Header().Set("X-Cache", "hit")
		writeJSON(w, http.StatusOK, doc)
		return
	}

	options := []advanced.Option{
		advanced.WithBestEffort(body.BestEffort),
		advanced.WithWorkers(s.opts.Decompose.Workers),
		advanced.WithMaxDepth(s.opts.Decompose.MaxDepth),
		advanced.WithLogger(s.opts.Logger),
	}
	if s.opts.Metrics != nil {
		options = append(options, advanced.WithObserver(s.opts.Metrics.Observer()))
	}

	start := time.Now()
	result, err := advanced.NewDecomposer(options...).Decompose(points)
	if s.opts.Metrics != nil {
		s.opts.Metrics.ObserveDecomposition(result, err, time.Since(start))
	}
	if err != nil {
		s.opts.Logger.Info("decomposition failed", "points", len(points), "error", err)
		response := ErrorResponse{Error: err.Error(), Kind: polyio.ErrorKind(err)}
		var pieceErr *advanced.PieceError
		if errors.As(err, &pieceErr) {
			failure := polyio.NewFailure(pieceErr)
			response.Failure = &failure
		}
		writeError(w, http.StatusUnprocessableEntity, response)
		return
	}

	doc := polyio.NewDocument(result)
	if s.opts.Cache != nil {
		if err := s.opts.Cache.Set(r.Context(), key, doc); err != nil {
			s.opts.Logger.Warn("caching result failed", "error", err)
		}
	}
	w.Header().Set("X-Cache", "miss")
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) cached(ctx context.Context, key string) (*polyio.Document, bool) {
	if s.opts.Cache == nil {
		return nil, false
	}
	doc, err := s.opts.Cache.Get(ctx, key)
	switch {
	case err == nil:
		if s.opts.Metrics != nil {
			s.opts.Metrics.CacheHit()
		}
		return doc, true
	case errors.Is(err, cache.ErrMiss):
		if s.opts.Metrics != nil {
			s.opts.Metrics.CacheMiss()
		}
	default:
		s.opts.Logger.Warn("cache lookup failed", "error", err)
		if s.opts.Metrics != nil {
			s.opts.Metrics.CacheError()
		}
	}
	return nil, false
}

// Health handles the GET /healthz request.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if s.opts.Cache != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Cache.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Kind: "cache_unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, response ErrorResponse) {
	writeJSON(w, status, response)
}
