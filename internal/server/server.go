// Package server exposes the enrichment engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"score-enricher/internal/auth"
	"score-enricher/internal/cache"
	"score-enricher/internal/common/errors"
	"score-enricher/internal/common/logging"
	"score-enricher/internal/config"
	"score-enricher/internal/enrichment"
	"score-enricher/internal/middleware"
)

// maxBatchSize caps how many URLs one batch request may carry.
const maxBatchSize = 500

// Server wires the engine and cache store into an HTTP API.
type Server struct {
	cfg        *config.Config
	engine     *enrichment.Engine
	store      cache.Store
	router     *mux.Router
	httpServer *http.Server
	logger     logging.Logger
}

// New creates a server over an already-constructed engine and store.
func New(cfg *config.Config, engine *enrichment.Engine, store cache.Store) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		store:  store,
		logger: logging.GetGlobalLogger().WithFields(logging.String("component", "server")),
	}
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogging)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/enrich", s.handleEnrich).Methods(http.MethodPost)
	api.HandleFunc("/enrich/batch", s.handleEnrichBatch).Methods(http.MethodPost)

	admin := api.PathPrefix("/cache").Subrouter()
	admin.Use(auth.Middleware(s.cfg.AdminJWTSecret))
	admin.HandleFunc("/stats", s.handleCacheStats).Methods(http.MethodGet)
	admin.HandleFunc("/reset", s.handleCacheReset).Methods(http.MethodPost)

	return router
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener closes.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", logging.String("port", s.cfg.Port))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type enrichRequest struct {
	URL       string  `json:"url"`
	BaseScore float64 `json:"base_score"`
}

type batchRequest struct {
	URLs      []string `json:"urls"`
	BaseScore float64  `json:"base_score"`
}

type batchItemResponse struct {
	URL    string                     `json:"url"`
	Result *enrichment.EnrichedResult `json:"result,omitempty"`
	Error  string                     `json:"error,omitempty"`
}

func (s *Server) handleEnrich(w http.ResponseWriter, r *http.Request) {
	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ValidationError("invalid request body"))
		return
	}

	result, err := s.engine.EnrichURL(r.Context(), req.URL, req.BaseScore)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleEnrichBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.ValidationError("invalid request body"))
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, errors.ValidationError("urls must not be empty"))
		return
	}
	if len(req.URLs) > maxBatchSize {
		writeError(w, errors.ValidationError("too many urls in one batch"))
		return
	}

	items := s.engine.EnrichAll(r.Context(), req.URLs, req.BaseScore)

	response := make([]batchItemResponse, len(items))
	for i, item := range items {
		response[i] = batchItemResponse{URL: item.URL, Result: item.Result}
		if item.Err != nil {
			response[i].Error = item.Err.Error()
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, errors.CacheError("failed to read cache stats", err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleCacheReset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Reset(r.Context()); err != nil {
		writeError(w, errors.CacheError("failed to reset cache", err))
		return
	}
	s.logger.Info("Cache reset by operator")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Health(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"cache":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetType(err) {
	case errors.ErrTypeValidation:
		status = http.StatusBadRequest
	case errors.ErrTypeRateLimit:
		status = http.StatusTooManyRequests
	case errors.ErrTypeNotFound:
		status = http.StatusNotFound
	case errors.ErrTypeAuth:
		status = http.StatusUnauthorized
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
