package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dotnetIka/histqa/services/cache"
	"github.com/dotnetIka/histqa/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Checks     map[string]string `json:"checks,omitempty"`
	CacheStats *cache.Stats      `json:"cache,omitempty"`
}

// IndexPinger reports whether the vector index is reachable
type IndexPinger interface {
	Healthy(ctx context.Context) error
}

// HealthHandler handles liveness and readiness HTTP requests
type HealthHandler struct {
	index  IndexPinger
	cache  *cache.AnswerCache
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(index IndexPinger, answerCache *cache.AnswerCache, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		index:  index,
		cache:  answerCache,
		logger: logger,
	}
}

// HandleHealth handles GET /healthz
// Basic liveness check - always returns 200 if the service is running
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	_ = utils.WriteJSON(w, http.StatusOK, response)
}

// HandleReadiness handles GET /readyz
// Readiness check - validates that the vector index is reachable
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if err := h.index.Healthy(ctx); err != nil {
		h.logger.Warn("vector index health check failed", zap.Error(err))
		checks["vector_index"] = "unhealthy"
		allHealthy = false
	} else {
		checks["vector_index"] = "healthy"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}
	if h.cache != nil {
		stats := h.cache.Stats()
		response.CacheStats = &stats
	}

	if err := utils.WriteJSON(w, httpStatus, response); err != nil {
		h.logger.Error("failed to write readiness response", zap.Error(err))
	}
}
