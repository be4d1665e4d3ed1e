// Package vector is the engine's boundary to external vector
// databases. Adapters speak each store's HTTP API; embedding happens
// server-side (both Pinecone and Weaviate offer integrated embedding
// endpoints), so the engine only moves text.
package vector

import "context"

// Match is one query hit.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Text     string         `json:"text,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Store is a vector database adapter. Implementations must be safe
// for concurrent use by multiple in-flight executions.
type Store interface {
	Name() string
	// CreateIndex provisions an index/collection. Creating an index
	// that already exists is not an error.
	CreateIndex(ctx context.Context, index string, dimension int) error
	// UpsertText stores text records for server-side embedding.
	UpsertText(ctx context.Context, index string, texts []string, metadata map[string]any) error
	// Query returns the topK closest records to the query text.
	Query(ctx context.Context, index string, query string, topK int) ([]Match, error)
}
