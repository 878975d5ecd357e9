package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aretw0/bazi"
	"github.com/aretw0/bazi/pkg/domain"
	"github.com/aretw0/bazi/pkg/observability"
	"github.com/aretw0/bazi/pkg/ports"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mitchellh/mapstructure"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the BaZi engine over HTTP.
type Server struct {
	Engine   ports.ReadingEngine
	Streams  *StreamManager
	Metrics  *observability.Metrics
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger

	doc *openapi3.T
}

// Option configures a Server.
type Option func(*Server)

// WithStreams enables GET /events. Register sm.Hooks() on the engine so
// readings reach subscribers.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) { s.Streams = sm }
}

// WithMetrics instruments routes and exposes g on GET /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Metrics = m
		s.Gatherer = g
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.Logger = logger }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.ReadingEngine, opts ...Option) (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}

	server := &Server{Engine: engine, doc: doc, Logger: slog.Default()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if server.Metrics != nil {
		r.Use(server.Metrics.Middleware)
	}

	r.Post("/bazi", server.ComputeBazi)
	r.Post("/bazi/analyze", server.AnalyzePillars)
	r.Get("/cycle", server.GetCycle)
	r.Get("/readings", server.ListReadings)
	r.Get("/readings/{id}", server.GetReading)
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	if server.Streams != nil {
		r.Get("/events", server.SubscribeEvents)
	}
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", "X-Reading-ID")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>BaZi API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ComputeBazi handles the POST /bazi request.
func (s *Server) ComputeBazi(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r, "BaziRequest")
	if !ok {
		return
	}

	var req domain.Request
	if err := mapstructure.Decode(body, &req); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	rec, err := s.Engine.Compute(r.Context(), req)
	if err != nil {
		s.Logger.Warn("ComputeBazi: Input rejected", "error", err, "size", len(req.Birth))
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if rec.ID != "" {
		w.Header().Set("X-Reading-ID", rec.ID)
	}
	s.writeJSON(w, rec.Reading)
}

type analyzeRequest struct {
	Input   string `mapstructure:"input"`
	Pillars struct {
		Year  string `mapstructure:"year"`
		Month string `mapstructure:"month"`
		Day   string `mapstructure:"day"`
		Hour  string `mapstructure:"hour"`
	} `mapstructure:"pillars"`
}

// AnalyzePillars handles the POST /bazi/analyze request.
func (s *Server) AnalyzePillars(w http.ResponseWriter, r *http.Request) {
	body, ok := s.decodeBody(w, r, "AnalyzeRequest")
	if !ok {
		return
	}

	var req analyzeRequest
	if err := mapstructure.Decode(body, &req); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	chart, err := domain.NewChart(req.Pillars.Year, req.Pillars.Month, req.Pillars.Day, req.Pillars.Hour)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rec, err := s.Engine.Analyze(r.Context(), req.Input, chart)
	if err != nil {
		s.Logger.Warn("AnalyzePillars: Input rejected", "error", err)
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if rec.ID != "" {
		w.Header().Set("X-Reading-ID", rec.ID)
	}
	s.writeJSON(w, rec.Reading)
}

// GetCycle handles the GET /cycle request.
func (s *Server) GetCycle(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, domain.CycleTable())
}

// ListReadings handles the GET /readings request.
func (s *Server) ListReadings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	records, err := s.Engine.Recent(r.Context(), limit)
	if err != nil {
		s.historyError(w, err)
		return
	}
	if records == nil {
		records = []domain.ReadingRecord{}
	}
	s.writeJSON(w, records)
}

// GetReading handles the GET /readings/{id} request.
func (s *Server) GetReading(w http.ResponseWriter, r *http.Request) {
	rec, err := s.Engine.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.historyError(w, err)
		return
	}
	s.writeJSON(w, rec)
}

func (s *Server) historyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrHistoryDisabled):
		s.writeError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, domain.ErrReadingNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	default:
		s.Logger.Error("History lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.doc.Info != nil {
		apiVersion = s.doc.Info.Version
	}

	resp := map[string]string{
		"app":         "bazi-http",
		"version":     strings.TrimSpace(bazi.Version),
		"api_version": apiVersion,
	}
	s.writeJSON(w, resp)
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reading\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

// decodeBody reads a JSON body and validates it against the named schema.
// Malformed JSON is a 400; a well-formed body violating the schema is a 422.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, schema string) (map[string]any, bool) {
	var body any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.Logger.Warn("Invalid request body", "schema", schema, "error", err)
		return nil, false
	}
	if err := validateBody(s.doc, schema, body); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		s.Logger.Warn("Request violates schema", "schema", schema, "error", err)
		return nil, false
	}
	obj, ok := body.(map[string]any)
	if !ok {
		s.writeError(w, http.StatusUnprocessableEntity, "request body must be an object")
		return nil, false
	}
	return obj, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
