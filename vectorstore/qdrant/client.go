package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dotnetIka/histqa/services"
	"github.com/dotnetIka/histqa/vectorstore"
	"go.uber.org/zap"
)

// Config contains connection details for a Qdrant vector store.
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// Client is a REST client to Qdrant implementing vectorstore.Index.
// All vectors use cosine distance.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Qdrant client with config defaults applied.
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required")
	}
	if config.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// EnsureCollection creates the collection with the given vector dimension
// if it does not exist yet. A collection that already exists with the same
// schema is left untouched; Qdrant answers 200 for that case, so the call
// is idempotent without swallowing real failures.
func (c *Client) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return services.WrapIndex("invalid vector dimension", nil)
	}

	exists, err := c.collectionExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Debug("collection already exists", zap.String("collection", c.config.Collection))
		return nil
	}

	body := map[string]interface{}{
		"vectors": map[string]interface{}{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := c.doJSON(ctx, http.MethodPut, c.collectionURL(""), body, nil); err != nil {
		return services.WrapIndex("create collection failed", err)
	}

	c.logger.Info("created collection",
		zap.String("collection", c.config.Collection),
		zap.Int("dimension", dimension))
	return nil
}

// Upsert inserts or overwrites points by id. The call waits for the write
// to be applied so subsequent searches observe whole points only.
func (c *Client) Upsert(ctx context.Context, points []vectorstore.Point) error {
	if len(points) == 0 {
		return nil
	}

	body := upsertRequest{Points: make([]upsertPoint, len(points))}
	for i, p := range points {
		body.Points[i] = upsertPoint{
			ID:      p.ID,
			Vector:  p.Vector,
			Payload: p.Payload,
		}
	}

	if err := c.doJSON(ctx, http.MethodPut, c.collectionURL("/points?wait=true"), body, nil); err != nil {
		return services.WrapIndex("upsert points failed", err)
	}

	c.logger.Debug("upserted points",
		zap.String("collection", c.config.Collection),
		zap.Int("count", len(points)))
	return nil
}

// Search returns up to limit hits nearest to vector, most similar first.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]vectorstore.Hit, error) {
	if limit <= 0 {
		limit = 5
	}

	body := searchRequest{
		Vector:      vector,
		Limit:       limit,
		WithPayload: true,
	}

	var resp searchResponse
	if err := c.doJSON(ctx, http.MethodPost, c.collectionURL("/points/search"), body, &resp); err != nil {
		return nil, services.WrapIndex("search failed", err)
	}

	hits := make([]vectorstore.Hit, 0, len(resp.Result))
	for _, r := range resp.Result {
		hits = append(hits, vectorstore.Hit{
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return hits, nil
}

// Healthy reports whether the Qdrant instance is reachable.
func (c *Client) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.URL+"/collections", nil)
	if err != nil {
		return services.WrapIndex("create health request failed", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return services.WrapIndex("qdrant unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return services.WrapIndex(fmt.Sprintf("qdrant returned status %d", resp.StatusCode), nil)
	}
	return nil
}

// collectionExists checks for the collection with a GET, distinguishing
// "missing" from transport failure.
func (c *Client) collectionExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL(""), nil)
	if err != nil {
		return false, services.WrapIndex("create request failed", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, services.WrapIndex("get collection failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, services.WrapIndex(fmt.Sprintf("get collection returned status %d", resp.StatusCode), nil)
	}
}

func (c *Client) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", c.config.URL, c.config.Collection, suffix)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("api-key", c.config.APIKey)
	}
}

func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qdrant %s %s returned status %d: %s", method, req.URL.Path, resp.StatusCode, bytes.TrimSpace(payload))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Qdrant request/response types

type upsertPoint struct {
	ID      int64               `json:"id"`
	Vector  []float32           `json:"vector"`
	Payload vectorstore.Payload `json:"payload"`
}

type upsertRequest struct {
	Points []upsertPoint `json:"points"`
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float64             `json:"score"`
		Payload vectorstore.Payload `json:"payload"`
	} `json:"result"`
}
