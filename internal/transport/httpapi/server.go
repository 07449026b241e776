// Package httpapi exposes the search service over HTTP. Three fixed routes,
// hand-routed on chi.
package httpapi

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docsearch/internal/domain"
	healthuc "github.com/kailas-cloud/docsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docsearch/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the one search service instance created at startup and hands
// it to each request handler by reference.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	defaultTopK   int
	previewLen    int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	defaultTopK int,
	previewLen int,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:      search,
		health:      health,
		defaultTopK: defaultTopK,
		previewLen:  previewLen,
		logger:      logger,
	}
	// Order matters: dimension mismatch wraps ErrInvalidInput but is a server
	// fault, so it must match first.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway),
		sentinelHandler(domain.ErrDimMismatch, http.StatusInternalServerError),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest),
	}
	return s
}

// Routes registers all endpoints on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.home)
	r.Get("/health", s.healthCheck)
	r.Post("/search", s.searchDocuments)
	r.Get("/search", s.searchUsage)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// home handles GET / with a static API description.
func (s *Server) home(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Document Search API",
		"version": "1.0",
		"endpoints": map[string]string{
			"/search":  "POST - Search documents with query",
			"/health":  "GET - Check server health",
			"/metrics": "GET - Prometheus metrics",
		},
		"usage": map[string]any{
			"search": map[string]any{
				"method": "POST",
				"url":    "/search",
				"body": map[string]any{
					"query": "Your search query here",
					"top_k": s.defaultTopK,
				},
			},
		},
	})
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, status, healthResponse{
		Status:              string(report.Status),
		SearcherInitialized: report.SearcherInitialized,
		Checks:              checks,
	})
}

// searchDocuments handles POST /search.
func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "No 'query' field provided in request body")
		return
	}

	topK := s.defaultTopK
	if req.TopK != nil {
		k := *req.TopK
		if k != math.Trunc(k) || k < 1 {
			writeError(w, http.StatusBadRequest, "'top_k' must be a positive integer")
			return
		}
		topK = int(k)
	}

	matches, err := s.search.Search(r.Context(), req.Query, topK)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results := make([]searchResultItem, len(matches))
	for i := range matches {
		results[i] = resultFromMatch(&matches[i], s.previewLen)
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Query:        req.Query,
		TopK:         topK,
		TotalResults: len(results),
		Results:      results,
	})
}

// searchUsage handles GET /search with a usage hint; searching is POST-only.
func (s *Server) searchUsage(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Use POST method for search",
		"example": map[string]any{
			"method": "POST",
			"url":    "/search",
			"body": map[string]any{
				"query": "artificial intelligence",
				"top_k": 3,
			},
		},
	})
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}

	s.logger.Error("search request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, "Search failed: "+err.Error())
}

func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, err.Error())
		return true
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
