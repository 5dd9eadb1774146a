// Package vectorstore defines the contract for persisting document
// embeddings and searching them by cosine similarity.
package vectorstore

import "context"

// Payload is the data stored alongside each vector.
type Payload struct {
	Text string `json:"text"`
}

// Point is one (id, vector, payload) tuple in the index.
type Point struct {
	ID      int64   `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload  `json:"payload"`
}

// Hit is one search result, ordered by descending similarity score.
// Tie order between equal scores is index-defined and treated as opaque.
type Hit struct {
	Score   float64 `json:"score"`
	Payload Payload `json:"payload"`
}

// Index persists points and supports k-nearest-neighbor search.
type Index interface {
	// EnsureCollection creates the backing collection for the given vector
	// dimension if it does not exist yet. Idempotent.
	EnsureCollection(ctx context.Context, dimension int) error

	// Upsert inserts or overwrites the given points by id.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to limit hits nearest to vector by cosine
	// similarity, most similar first.
	Search(ctx context.Context, vector []float32, limit int) ([]Hit, error)
}
