package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	domain "github.com/artspace/room-analyzer/internal/domain/rooms"
	"github.com/artspace/room-analyzer/internal/logger"
	"github.com/artspace/room-analyzer/internal/middleware"
)

// ServiceName is reported by the health check.
const ServiceName = "ArtSpace AI Room Analyzer"

const defaultMaxBodyBytes = 20 << 20

// Analyzer is the room analysis use case as seen by the transport.
type Analyzer interface {
	Analyze(ctx context.Context, body []byte) (domain.AnalysisResult, error)
}

type Options struct {
	MaxBodyBytes int64
	Log          logrus.FieldLogger
	Metrics      *middleware.Metrics
}

type Router struct {
	analyzer     Analyzer
	maxBodyBytes int64
	log          logrus.FieldLogger
}

func NewRouter(analyzer Analyzer, opts Options) http.Handler {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	r := &Router{analyzer: analyzer, maxBodyBytes: opts.MaxBodyBytes, log: opts.Log}
	mux := chi.NewRouter()

	mux.Use(middleware.Logging(opts.Log))
	if opts.Metrics != nil {
		mux.Use(opts.Metrics.Middleware)
	}
	mux.Use(middleware.CORS())

	mux.Get("/livez", middleware.LivenessHandler)
	if opts.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	// "/api" is the path the analyzer was historically served under.
	for _, path := range []string{"/", "/api"} {
		mux.Options(path, r.handlePreflight)
		mux.Post(path, r.handleAnalyze)
		mux.Get(path, middleware.HealthHandler(ServiceName))
	}

	return mux
}

// OPTIONS /
func (r *Router) handlePreflight(w http.ResponseWriter, req *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(http.StatusOK)
}

// POST /
// Body: {"image": "<base64 or data URL>"}
// Always answers 200; failures show up only in the body.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	log := logger.FromContext(req.Context(), r.log)

	body, err := io.ReadAll(http.MaxBytesReader(w, req.Body, r.maxBodyBytes))
	if err != nil {
		log.WithError(err).Warn("failed to read request body, serving default recommendations")
		writeJSON(w, log, domain.DefaultResult())
		return
	}

	result, err := r.analyzer.Analyze(req.Context(), body)
	if errors.Is(err, domain.ErrNoImage) {
		writeJSON(w, log, map[string]string{"error": "No image provided"})
		return
	}
	if err != nil {
		log.WithError(err).Error("room analysis failed, serving default recommendations")
		writeJSON(w, log, domain.DefaultResult())
		return
	}
	writeJSON(w, log, result)
}

func writeJSON(w http.ResponseWriter, log logrus.FieldLogger, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Error("failed to encode response, serving default recommendations")
		b, _ = json.Marshal(domain.DefaultResult())
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
