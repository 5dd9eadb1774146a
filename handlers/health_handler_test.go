package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dotnetIka/histqa/models"
	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/services/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Healthy(context.Context) error { return f.err }

func TestHealthHandler_HandleHealth(t *testing.T) {
	handler := NewHealthHandler(&fakePinger{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.HandleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "healthy", response.Status)
}

func TestHealthHandler_HandleReadiness(t *testing.T) {
	t.Run("ready when index reachable", func(t *testing.T) {
		answerCache := cache.New(8, time.Hour)
		answerCache.Put("question", models.AnswerResult{Answer: "a", Confidence: 0.9})

		handler := NewHealthHandler(&fakePinger{}, answerCache, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()
		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "healthy", response.Checks["vector_index"])
		require.NotNil(t, response.CacheStats)
		assert.Equal(t, 1, response.CacheStats.Size)
	})

	t.Run("unavailable when index unreachable", func(t *testing.T) {
		handler := NewHealthHandler(&fakePinger{err: services.WrapIndex("qdrant unreachable", nil)}, nil, zap.NewNop())

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()
		handler.HandleReadiness(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var response HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, "unhealthy", response.Status)
		assert.Equal(t, "unhealthy", response.Checks["vector_index"])
	})
}
