package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"priceaccrual/internal/accrual"
	"priceaccrual/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	version          = "1.0.0"
)

// APIServer serves accrual quotes over HTTP.
type APIServer struct {
	calc        accrual.Context
	recorder    storage.Recorder
	rateLimiter *rate.Limiter
	metrics     *Metrics
	registry    *prometheus.Registry
}

// Metrics tracks API performance.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	quotesTotal     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "api_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "api_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		activeRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "api_active_requests",
				Help: "Number of active API requests",
			},
		),
		quotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "accrual_quotes_total",
				Help: "Accrual computations by outcome",
			},
			[]string{"outcome"},
		),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.activeRequests, m.quotesTotal)
	return m
}

// ServerConfig holds the tunables read from the environment.
type ServerConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Precision      int
}

func NewAPIServer(recorder storage.Recorder, cfg ServerConfig) *APIServer {
	reg := prometheus.NewRegistry()
	return &APIServer{
		calc:        accrual.Context{Precision: cfg.Precision},
		recorder:    recorder,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		metrics:     newMetrics(reg),
		registry:    reg,
	}
}

// AccrualResponse is the result of a successful computation.
type AccrualResponse struct {
	Word         string `json:"word"`
	Value        string `json:"value"`
	TimeElapsed  string `json:"time_elapsed"`
	InterestRate string `json:"interest_rate"`
	BasePrice    string `json:"base_price"`
}

// ErrorResponse carries a failure kind and message.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

// HealthResponse represents health check response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Router wires routes and middleware.
func (s *APIServer) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.rateLimitMiddleware)
	r.Use(s.metricsMiddleware)

	r.HandleFunc("/health", s.HandleHealth).Methods("GET")
	r.HandleFunc("/api/v1/accrual", s.HandleComputeAccrual).Methods("POST")
	r.HandleFunc("/api/v1/accruals", s.HandleListAccruals).Methods("GET")

	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *APIServer) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.Allow() {
			s.metrics.requestsTotal.WithLabelValues(r.URL.Path, "429").Inc()
			http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *APIServer) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.metrics.activeRequests.Inc()
		defer s.metrics.activeRequests.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		s.metrics.requestsTotal.WithLabelValues(r.URL.Path, strconv.Itoa(sw.status)).Inc()
		s.metrics.requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// HandleHealth returns API health status.
func (s *APIServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
	})
}

// HandleComputeAccrual computes one quote from a JSON body of raw inputs.
func (s *APIServer) HandleComputeAccrual(w http.ResponseWriter, r *http.Request) {
	var in accrual.Inputs
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Kind: "request"})
		return
	}

	q, err := s.calc.Quote(in)
	if err != nil {
		var parseErr *accrual.ParseError
		var encErr *accrual.EncodingError
		switch {
		case errors.As(err, &parseErr):
			s.metrics.quotesTotal.WithLabelValues("parse_error").Inc()
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "parse", Field: parseErr.Field})
		case errors.As(err, &encErr):
			s.metrics.quotesTotal.WithLabelValues("encoding_error").Inc()
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Kind: "encoding"})
		default:
			log.Printf("Failed to compute accrual: %v", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Kind: "internal"})
		}
		return
	}
	s.metrics.quotesTotal.WithLabelValues("ok").Inc()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	if err := s.recorder.RecordQuote(ctx, in, q, "api"); err != nil {
		log.Printf("[WARN] failed to record quote: %v", err)
	}

	writeJSON(w, http.StatusOK, AccrualResponse{
		Word:         q.Word,
		Value:        q.Scaled.String(),
		TimeElapsed:  q.TimeElapsed.String(),
		InterestRate: q.InterestRate.String(),
		BasePrice:    q.BasePrice.String(),
	})
}

// HandleListAccruals returns the most recent recorded quotes.
func (s *APIServer) HandleListAccruals(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxListLimit {
			http.Error(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	records, err := s.recorder.RecentQuotes(ctx, limit)
	if err != nil {
		log.Printf("Failed to fetch quotes: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}
