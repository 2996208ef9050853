package sqlite

import (
	"context"
	"sort"
	"time"

	"github.com/fwojciec/sitescrape"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default embedding batch settings.
const (
	DefaultBatchSize   = 20
	DefaultConcurrency = 4
)

// Compile-time interface verification.
var (
	_ sitescrape.Indexer       = (*ChunkService)(nil)
	_ sitescrape.ChunkSearcher = (*ChunkService)(nil)
)

// ChunkService stores embedded chunks in SQLite and searches them by
// cosine similarity.
type ChunkService struct {
	db       *DB
	embedder sitescrape.Embedder

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// Concurrency bounds the embedding requests in flight.
	Concurrency int

	// Replace drops the chunks already stored for a page before storing
	// its new chunks, in the same transaction.
	Replace bool
}

// NewChunkService creates a new ChunkService.
func NewChunkService(db *DB, embedder sitescrape.Embedder) *ChunkService {
	return &ChunkService{
		db:          db,
		embedder:    embedder,
		BatchSize:   DefaultBatchSize,
		Concurrency: DefaultConcurrency,
	}
}

// AddTexts embeds texts and stores them with their metadata.
//
// Every text is embedded before anything is written, and all rows are
// inserted in one transaction: a call either stores every text or none.
func (s *ChunkService) AddTexts(ctx context.Context, texts []string, metadata []sitescrape.ChunkMetadata) error {
	if len(texts) != len(metadata) {
		return sitescrape.Errorf(sitescrape.EINVALID, "got %d texts but %d metadata entries", len(texts), len(metadata))
	}
	if len(texts) == 0 {
		return nil
	}

	chunks := make([]*sitescrape.Chunk, len(texts))
	for i := range texts {
		chunks[i] = &sitescrape.Chunk{Content: texts[i], Metadata: metadata[i]}
		if err := chunks[i].Validate(); err != nil {
			return err
		}
	}

	if err := s.embed(ctx, chunks); err != nil {
		return err
	}

	return s.insert(ctx, chunks)
}

// embed fills in the embedding of every chunk, batching requests.
func (s *ChunkService) embed(ctx context.Context, chunks []*sitescrape.Chunk) error {
	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Concurrency, 1))

	for start := 0; start < len(chunks); start += size {
		batch := chunks[start:min(start+size, len(chunks))]
		g.Go(func() error {
			texts := make([]string, len(batch))
			for i, c := range batch {
				texts[i] = c.Content
			}
			vectors, err := s.embedder.EmbedDocuments(ctx, texts)
			if err != nil {
				return err
			}
			if len(vectors) != len(batch) {
				return sitescrape.Errorf(sitescrape.EINTERNAL, "embedder returned %d vectors for %d texts", len(vectors), len(batch))
			}
			for i, c := range batch {
				c.Embedding = vectors[i]
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *ChunkService) insert(ctx context.Context, chunks []*sitescrape.Chunk) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if s.Replace {
		for _, url := range sourceURLs(chunks) {
			if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE source_url = ?", url); err != nil {
				return err
			}
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, source_url, chunk_index, content, content_hash, embedding, dimensions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, c := range chunks {
		c.ID = uuid.New().String()
		if _, err := stmt.ExecContext(ctx, c.ID, c.Metadata.SourceURL, c.Metadata.Chunk, c.Content,
			hashContent(c.Content), encodeVector(c.Embedding), len(c.Embedding), now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search embeds the query and returns the stored chunks most similar to it,
// best first. A zero limit means DefaultSearchLimit.
func (s *ChunkService) Search(ctx context.Context, query string, opts sitescrape.SearchOptions) ([]sitescrape.SearchResult, error) {
	if query == "" {
		return nil, sitescrape.Errorf(sitescrape.EINVALID, "search query required")
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = sitescrape.DefaultSearchLimit
	}

	qv, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_url, chunk_index, content, embedding
		FROM chunks
		WHERE dimensions = ?
	`, len(qv))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []sitescrape.SearchResult
	for rows.Next() {
		var c sitescrape.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.Metadata.SourceURL, &c.Metadata.Chunk, &c.Content, &blob); err != nil {
			return nil, err
		}
		if c.Embedding, err = decodeVector(blob); err != nil {
			return nil, err
		}
		score := cosine(qv, c.Embedding)
		if opts.MinScore != 0 && score < opts.MinScore {
			continue
		}
		results = append(results, sitescrape.SearchResult{Chunk: &c, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountChunks returns the number of stored chunks, optionally restricted
// to one source URL.
func (s *ChunkService) CountChunks(ctx context.Context, sourceURL string) (int, error) {
	query := "SELECT COUNT(*) FROM chunks"
	var args []any
	if sourceURL != "" {
		query += " WHERE source_url = ?"
		args = append(args, sourceURL)
	}
	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func sourceURLs(chunks []*sitescrape.Chunk) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, c := range chunks {
		if !seen[c.Metadata.SourceURL] {
			seen[c.Metadata.SourceURL] = true
			urls = append(urls, c.Metadata.SourceURL)
		}
	}
	return urls
}
