package crawl

import (
	"context"

	"github.com/fwojciec/sitescrape"
)

// ScrapeOptions controls what Scrape does with the crawled pages.
type ScrapeOptions struct {
	// Index splits every accepted page into chunks and hands them to the
	// Crawler's Indexer in a single call.
	Index bool

	// IncludeText fills Report.Items with the text and sanitized HTML of
	// every accepted page.
	IncludeText bool

	Progress ProgressFunc
}

// Item is the per-page entry of a Report.
type Item struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Length int    `json:"length"`
	HTML   string `json:"html,omitempty"`
}

// Report summarizes a scrape run.
type Report struct {
	PagesScraped  int                  `json:"pages_scraped"`
	Visited       []string             `json:"visited"`
	Items         []Item               `json:"items"`
	Attempts      []sitescrape.Attempt `json:"attempts"`
	ChunksIndexed int                  `json:"chunks_indexed,omitempty"`
}

// Scrape crawls startURL and builds a Report, optionally indexing the
// chunked page text.
//
// When indexing fails the report is still returned with the error, since
// the crawl itself succeeded.
func (c *Crawler) Scrape(ctx context.Context, startURL string, cfg sitescrape.CrawlConfig, opts ScrapeOptions) (*Report, error) {
	if opts.Index && c.Indexer == nil {
		return nil, sitescrape.Errorf(sitescrape.EINVALID, "indexing requested but no indexer is configured")
	}

	result, err := c.Crawl(ctx, startURL, cfg, opts.Progress)
	if result == nil {
		return nil, err
	}
	report := newReport(result, opts)
	if err != nil {
		return report, err
	}

	if opts.Index {
		n, err := c.index(ctx, result.Pages)
		if err != nil {
			return report, err
		}
		report.ChunksIndexed = n
	}

	return report, nil
}

// index splits pages into chunks and submits them in one AddTexts call.
// It returns the number of chunks submitted.
func (c *Crawler) index(ctx context.Context, pages []*sitescrape.PageResult) (int, error) {
	splitter := c.Splitter
	if splitter == nil {
		splitter = sitescrape.NewSplitter()
	}

	var texts []string
	var metadata []sitescrape.ChunkMetadata
	for _, page := range pages {
		for _, chunk := range splitter.SplitPage(page) {
			texts = append(texts, chunk.Content)
			metadata = append(metadata, chunk.Metadata)
		}
	}
	if len(texts) == 0 {
		return 0, nil
	}

	if err := c.Indexer.AddTexts(ctx, texts, metadata); err != nil {
		return 0, err
	}
	c.logger().Info("indexed", "pages", len(pages), "chunks", len(texts))
	return len(texts), nil
}

func newReport(result *Result, opts ScrapeOptions) *Report {
	report := &Report{
		PagesScraped: len(result.Pages),
		Visited:      result.Visited,
		Items:        []Item{},
		Attempts:     result.Attempts,
	}
	if report.Visited == nil {
		report.Visited = []string{}
	}
	if report.Attempts == nil {
		report.Attempts = []sitescrape.Attempt{}
	}
	if !opts.IncludeText {
		return report
	}
	for _, page := range result.Pages {
		report.Items = append(report.Items, Item{
			URL:    page.URL,
			Text:   page.Text,
			Length: page.Length(),
			HTML:   page.HTML,
		})
	}
	return report
}
