// Package gemini implements sitescrape.Embedder with the Gemini embedding API.
package gemini

import (
	"context"

	"github.com/fwojciec/sitescrape"
	"google.golang.org/genai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "gemini-embedding-001"

// Task types understood by the embedding API.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// Ensure Embedder implements sitescrape.Embedder at compile time.
var _ sitescrape.Embedder = (*Embedder)(nil)

// Embedder implements sitescrape.Embedder using Google Gemini.
type Embedder struct {
	client *genai.Client
	model  string

	// Dimensions truncates vectors to this size when positive.
	Dimensions int32
}

// NewEmbedder creates a new Embedder. An empty model selects DefaultModel.
func NewEmbedder(client *genai.Client, model string) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	return &Embedder{client: client, model: model}
}

// EmbedDocuments returns one vector per text, in order.
func (e *Embedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return e.embed(ctx, texts, TaskRetrievalDocument)
}

// EmbedQuery returns the vector for a search query.
func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, sitescrape.Errorf(sitescrape.EINVALID, "query text required")
	}
	vectors, err := e.embed(ctx, []string{text}, TaskRetrievalQuery)
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *Embedder) embed(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	if e.client == nil {
		return nil, sitescrape.Errorf(sitescrape.EINTERNAL, "gemini client not configured")
	}

	resp, err := e.client.Models.EmbedContent(ctx, e.model, BuildContents(texts), BuildEmbedConfig(taskType, e.Dimensions))
	if err != nil {
		return nil, sitescrape.Errorf(sitescrape.EUNAVAILABLE, "gemini embed: %v", err)
	}
	return Vectors(resp, len(texts))
}

// BuildContents wraps each text as its own content entry.
func BuildContents(texts []string) []*genai.Content {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, genai.RoleUser)
	}
	return contents
}

// BuildEmbedConfig returns the EmbedContentConfig for a task type.
func BuildEmbedConfig(taskType string, dimensions int32) *genai.EmbedContentConfig {
	config := &genai.EmbedContentConfig{TaskType: taskType}
	if dimensions > 0 {
		config.OutputDimensionality = &dimensions
	}
	return config
}

// Vectors extracts want embeddings from a response.
func Vectors(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil {
		return nil, sitescrape.Errorf(sitescrape.EINTERNAL, "gemini returned nil result")
	}
	if len(resp.Embeddings) != want {
		return nil, sitescrape.Errorf(sitescrape.EINTERNAL, "gemini returned %d embeddings for %d texts", len(resp.Embeddings), want)
	}
	vectors := make([][]float32, want)
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, sitescrape.Errorf(sitescrape.EINTERNAL, "gemini returned an empty embedding at %d", i)
		}
		vectors[i] = emb.Values
	}
	return vectors, nil
}
