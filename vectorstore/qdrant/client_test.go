package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, url string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		URL:        url,
		Collection: "documents",
	}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("requires URL", func(t *testing.T) {
		_, err := NewClient(Config{Collection: "documents"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("requires collection", func(t *testing.T) {
		_, err := NewClient(Config{URL: "http://localhost:6333"}, zap.NewNop())
		assert.Error(t, err)
	})
}

func TestClient_EnsureCollection(t *testing.T) {
	t.Run("creates missing collection", func(t *testing.T) {
		var created bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				w.WriteHeader(http.StatusNotFound)
			case http.MethodPut:
				assert.Equal(t, "/collections/documents", r.URL.Path)
				var body map[string]map[string]interface{}
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, float64(1536), body["vectors"]["size"])
				assert.Equal(t, "Cosine", body["vectors"]["distance"])
				created = true
				_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
			}
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		require.NoError(t, store.EnsureCollection(context.Background(), 1536))
		assert.True(t, created)
	})

	t.Run("no-op when collection exists", func(t *testing.T) {
		var putCalled bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				_, _ = w.Write([]byte(`{"result":{"status":"green"}}`))
			case http.MethodPut:
				putCalled = true
			}
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		require.NoError(t, store.EnsureCollection(context.Background(), 1536))
		assert.False(t, putCalled)
	})

	t.Run("transport failure is not swallowed", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		err := store.EnsureCollection(context.Background(), 1536)
		require.Error(t, err)
		assert.True(t, services.IsIndexError(err))
	})

	t.Run("rejects invalid dimension", func(t *testing.T) {
		store := newTestStore(t, "http://localhost:6333")
		err := store.EnsureCollection(context.Background(), 0)
		require.Error(t, err)
		assert.True(t, services.IsIndexError(err))
	})
}

func TestClient_Upsert(t *testing.T) {
	t.Run("sends points and waits for apply", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/collections/documents/points", r.URL.Path)
			assert.Equal(t, "true", r.URL.Query().Get("wait"))

			var body upsertRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Len(t, body.Points, 2)
			assert.Equal(t, int64(42), body.Points[0].ID)
			assert.Equal(t, "section one", body.Points[0].Payload.Text)

			_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		err := store.Upsert(context.Background(), []vectorstore.Point{
			{ID: 42, Vector: []float32{0.1, 0.2}, Payload: vectorstore.Payload{Text: "section one"}},
			{ID: 43, Vector: []float32{0.3, 0.4}, Payload: vectorstore.Payload{Text: "section two"}},
		})
		require.NoError(t, err)
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		store := newTestStore(t, "http://127.0.0.1:1")
		assert.NoError(t, store.Upsert(context.Background(), nil))
	})

	t.Run("server error yields index error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":{"error":"wrong vector size"}}`))
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		err := store.Upsert(context.Background(), []vectorstore.Point{
			{ID: 1, Vector: []float32{0.1}, Payload: vectorstore.Payload{Text: "x"}},
		})
		require.Error(t, err)
		assert.True(t, services.IsIndexError(err))
	})
}

func TestClient_Search(t *testing.T) {
	t.Run("returns hits in index order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/collections/documents/points/search", r.URL.Path)

			var body searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 5, body.Limit)
			assert.True(t, body.WithPayload)

			_, _ = w.Write([]byte(`{"result":[
				{"score":0.91,"payload":{"text":"most similar"}},
				{"score":0.72,"payload":{"text":"less similar"}}
			]}`))
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		hits, err := store.Search(context.Background(), []float32{0.1, 0.2}, 5)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "most similar", hits[0].Payload.Text)
		assert.InDelta(t, 0.91, hits[0].Score, 1e-9)
		assert.Equal(t, "less similar", hits[1].Payload.Text)
	})

	t.Run("defaults non-positive limit to 5", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, 5, body.Limit)
			_, _ = w.Write([]byte(`{"result":[]}`))
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		hits, err := store.Search(context.Background(), []float32{0.1}, 0)
		require.NoError(t, err)
		assert.Empty(t, hits)
	})

	t.Run("unreachable index yields index error", func(t *testing.T) {
		store := newTestStore(t, "http://127.0.0.1:1")
		_, err := store.Search(context.Background(), []float32{0.1}, 5)
		require.Error(t, err)
		assert.True(t, services.IsIndexError(err))
	})
}

func TestClient_Healthy(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/collections", r.URL.Path)
			_, _ = w.Write([]byte(`{"result":{"collections":[]}}`))
		}))
		defer server.Close()

		store := newTestStore(t, server.URL)
		assert.NoError(t, store.Healthy(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		store := newTestStore(t, "http://127.0.0.1:1")
		err := store.Healthy(context.Background())
		require.Error(t, err)
		assert.True(t, services.IsIndexError(err))
	})
}
