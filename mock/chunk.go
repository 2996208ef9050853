package mock

import (
	"context"

	"github.com/fwojciec/sitescrape"
)

var _ sitescrape.Indexer = (*Indexer)(nil)

// Indexer is a mock implementation of sitescrape.Indexer.
type Indexer struct {
	AddTextsFn func(ctx context.Context, texts []string, metadata []sitescrape.ChunkMetadata) error
}

func (i *Indexer) AddTexts(ctx context.Context, texts []string, metadata []sitescrape.ChunkMetadata) error {
	return i.AddTextsFn(ctx, texts, metadata)
}

var _ sitescrape.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of sitescrape.Embedder.
type Embedder struct {
	EmbedDocumentsFn func(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQueryFn     func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedDocumentsFn(ctx, texts)
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedQueryFn(ctx, text)
}

var _ sitescrape.ChunkSearcher = (*ChunkSearcher)(nil)

// ChunkSearcher is a mock implementation of sitescrape.ChunkSearcher.
type ChunkSearcher struct {
	SearchFn func(ctx context.Context, query string, opts sitescrape.SearchOptions) ([]sitescrape.SearchResult, error)
}

func (s *ChunkSearcher) Search(ctx context.Context, query string, opts sitescrape.SearchOptions) ([]sitescrape.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
