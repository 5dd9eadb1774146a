package models

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Document represents one section of the source corpus together with its
// embedding vector. The ID is a pure function of the text, so re-ingesting
// identical content upserts the same record instead of duplicating it.
type Document struct {
	ID     int64     `json:"id"`
	Text   string    `json:"text"`
	Vector []float32 `json:"vector,omitempty"`
}

// DeriveDocumentID derives a deterministic, non-negative id from the
// document text: the first 8 bytes of the SHA-256 digest, truncated into
// the signed 63-bit range. The truncation is a negligible-probability
// collision source, not a correctness guarantee.
func DeriveDocumentID(text string) int64 {
	sum := sha256.Sum256([]byte(text))
	return int64(binary.BigEndian.Uint64(sum[:8]) & math.MaxInt64)
}

// NewDocument creates a Document with a content-derived id.
func NewDocument(text string, vector []float32) Document {
	return Document{
		ID:     DeriveDocumentID(text),
		Text:   text,
		Vector: vector,
	}
}
