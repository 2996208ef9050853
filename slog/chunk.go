package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitescrape"
)

// Ensure LoggingIndexer implements sitescrape.Indexer.
var _ sitescrape.Indexer = (*LoggingIndexer)(nil)

// LoggingIndexer wraps an Indexer with logging.
type LoggingIndexer struct {
	next   sitescrape.Indexer
	logger *slog.Logger
}

// NewLoggingIndexer creates a new LoggingIndexer.
func NewLoggingIndexer(next sitescrape.Indexer, logger *slog.Logger) *LoggingIndexer {
	return &LoggingIndexer{next: next, logger: logger}
}

// AddTexts delegates to the wrapped indexer and logs the batch.
func (i *LoggingIndexer) AddTexts(ctx context.Context, texts []string, metadata []sitescrape.ChunkMetadata) (err error) {
	defer func(begin time.Time) {
		i.logger.Info("add texts",
			"chunks", len(texts),
			"sources", countSources(metadata),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return i.next.AddTexts(ctx, texts, metadata)
}

// Ensure LoggingSearcher implements sitescrape.ChunkSearcher.
var _ sitescrape.ChunkSearcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a ChunkSearcher with logging.
type LoggingSearcher struct {
	next   sitescrape.ChunkSearcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next sitescrape.ChunkSearcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the query.
func (s *LoggingSearcher) Search(ctx context.Context, query string, opts sitescrape.SearchOptions) (results []sitescrape.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"limit", opts.Limit,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}

func countSources(metadata []sitescrape.ChunkMetadata) int {
	seen := make(map[string]struct{})
	for _, m := range metadata {
		seen[m.SourceURL] = struct{}{}
	}
	return len(seen)
}
