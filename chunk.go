package sitescrape

import (
	"context"
)

// Chunk represents a bounded-size segment of a page optimized for embedding and retrieval.
type Chunk struct {
	ID        string    `json:"id,omitempty"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`

	// Position of the chunk within its page, in runes.
	Start int `json:"start"`
	End   int `json:"end"`

	Metadata ChunkMetadata `json:"metadata"`
}

// ChunkMetadata is the metadata handed to the indexer with every chunk.
// It deliberately carries only the source page and the chunk's ordinal.
type ChunkMetadata struct {
	// Source URL for citation
	SourceURL string `json:"source_url"`

	// 0-based position of the chunk within its page.
	Chunk int `json:"chunk"`
}

// Validate returns an error if the chunk contains invalid fields.
func (c *Chunk) Validate() error {
	if c.Metadata.SourceURL == "" {
		return Errorf(EINVALID, "chunk source URL required")
	}
	if c.Metadata.Chunk < 0 {
		return Errorf(EINVALID, "chunk index must not be negative")
	}
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	return nil
}

// Indexer is the embedding and persistence boundary. It accepts chunk texts
// with a parallel slice of metadata. A call either stores every text or none.
type Indexer interface {
	AddTexts(ctx context.Context, texts []string, metadata []ChunkMetadata) error
}

// Embedder turns text into embedding vectors.
type Embedder interface {
	// EmbedDocuments returns one vector per text, in order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery returns the vector for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// ChunkSearcher provides semantic search over indexed chunks.
type ChunkSearcher interface {
	// Search returns chunks ordered by relevance to the query.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// DefaultSearchLimit is the number of matches returned when no limit is set.
const DefaultSearchLimit = 5

// SearchOptions configures search behavior.
type SearchOptions struct {
	// Maximum number of results to return
	Limit int `json:"limit,omitempty"`

	// Minimum similarity score (-1..1)
	MinScore float32 `json:"minScore,omitempty"`
}

// SearchResult represents a search match.
type SearchResult struct {
	Chunk *Chunk  `json:"chunk"`
	Score float32 `json:"score"`
}
