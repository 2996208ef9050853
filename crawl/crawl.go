// Package crawl provides the crawl-and-extract pipeline.
// It drives a bounded breadth-first traversal of a site, cleans and
// deduplicates the text of every page, and optionally hands chunked text
// to an indexer.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/sitescrape"
)

// Frontier sizing for the membership pre-check.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate before the exact check.
	frontierFalsePositiveRate = 0.01
)

// minPageLength is the number of characters a page's text must exceed to be kept.
const minPageLength = 50

// Crawler crawls a single site per call. A Crawler holds no run state and
// may be used for concurrent runs; each run owns its own frontier, visited
// set and deduplication signatures.
type Crawler struct {
	Fetcher   sitescrape.Fetcher
	Sanitizer sitescrape.Sanitizer
	Extractor sitescrape.TextExtractor
	Links     sitescrape.LinkExtractor

	// Indexer and Splitter are only used by Scrape when indexing is requested.
	Indexer  sitescrape.Indexer
	Splitter *sitescrape.Splitter

	// RateLimiter, if set, is waited on before every fetch.
	RateLimiter sitescrape.DomainLimiter

	// RetryDelays enables retries of transient fetch failures.
	// Nil means a single attempt per URL.
	RetryDelays []time.Duration

	Logger *slog.Logger
}

// Result holds the outcome of a crawl run.
type Result struct {
	// Pages are the accepted pages in visit order.
	Pages []*sitescrape.PageResult

	// Visited lists every URL a fetch was attempted for, in visit order.
	Visited []string

	// Attempts gives the outcome for each entry of Visited.
	Attempts []sitescrape.Attempt
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type    ProgressType
	Visited int
	Pages   int
	Queued  int
	URL     string
	Depth   int
	Error   error

	// Length is the text length of an accepted page.
	Length int
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressRejected
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// crawlState is the mutable state of one run.
type crawlState struct {
	startURL string
	frontier *Frontier
	visited  map[string]struct{}
	dedup    *Deduplicator
	result   *Result
}

func newCrawlState(startURL string) *crawlState {
	s := &crawlState{
		startURL: startURL,
		frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		visited:  make(map[string]struct{}),
		dedup:    NewDeduplicator(),
		result:   &Result{},
	}
	s.frontier.Push(sitescrape.FrontierEntry{URL: startURL, Depth: 0})
	return s
}

func (s *crawlState) isVisited(url string) bool {
	_, ok := s.visited[url]
	return ok
}

func (s *crawlState) markVisited(url string) {
	s.visited[url] = struct{}{}
	s.result.Visited = append(s.result.Visited, url)
}

// pageFilters are compiled once per run from the CrawlConfig.
type pageFilters struct {
	urls  *sitescrape.URLFilter
	lines *sitescrape.LineFilter
}

// Crawl performs a breadth-first crawl from startURL bounded by cfg.
//
// Entries are processed strictly in discovery order. Each URL is fetched at
// most once; failed fetches are not retried unless RetryDelays is set and
// still count as visited. The run ends when the queue is empty or MaxPages
// URLs have been visited.
//
// Configuration errors are returned before any fetch. If the context is
// canceled the partial result is returned together with the context error.
func (c *Crawler) Crawl(ctx context.Context, startURL string, cfg sitescrape.CrawlConfig, progress ProgressFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !sitescrape.IsHTTPURL(startURL) {
		return nil, sitescrape.Errorf(sitescrape.EINVALID, "start URL %q must be an absolute http(s) URL", startURL)
	}
	urlFilter, err := sitescrape.NewURLFilter(cfg.ExcludeURLPatterns)
	if err != nil {
		return nil, err
	}
	lineFilter, err := sitescrape.NewLineFilter(cfg.BlockTextPatterns)
	if err != nil {
		return nil, err
	}
	filters := pageFilters{urls: urlFilter, lines: lineFilter}

	state := newCrawlState(startURL)
	logger := c.logger()

	notify(progress, ProgressEvent{Type: ProgressStarted, URL: startURL, Queued: state.frontier.Len()})

	for state.frontier.Len() > 0 && len(state.result.Visited) < cfg.MaxPages {
		if err := ctx.Err(); err != nil {
			return state.result, err
		}

		entry, _ := state.frontier.Pop()
		if reason := c.skipReason(state, entry, cfg, filters); reason != "" {
			logger.Debug("skip", "url", entry.URL, "depth", entry.Depth, "reason", reason)
			continue
		}

		if err := c.visit(ctx, state, entry, cfg, filters, progress); err != nil {
			return state.result, err
		}

		if err := sleep(ctx, cfg.Delay); err != nil {
			return state.result, err
		}
	}

	notify(progress, ProgressEvent{
		Type:    ProgressFinished,
		Visited: len(state.result.Visited),
		Pages:   len(state.result.Pages),
		Queued:  state.frontier.Len(),
	})

	return state.result, nil
}

// skipReason returns why a dequeued entry is not fetched, or "" to fetch it.
func (c *Crawler) skipReason(state *crawlState, entry sitescrape.FrontierEntry, cfg sitescrape.CrawlConfig, filters pageFilters) string {
	switch {
	case state.isVisited(entry.URL):
		return "visited"
	case entry.Depth > cfg.MaxDepth:
		return "depth"
	case !filters.urls.Eligible(entry.URL, state.startURL):
		return "ineligible"
	}
	return ""
}

// visit fetches and processes one entry. Only cancellation is returned as
// an error; fetch and processing failures are recorded on the result.
func (c *Crawler) visit(ctx context.Context, state *crawlState, entry sitescrape.FrontierEntry, cfg sitescrape.CrawlConfig, filters pageFilters, progress ProgressFunc) error {
	logger := c.logger()

	if c.RateLimiter != nil {
		if u, err := url.Parse(entry.URL); err == nil {
			if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
				return err
			}
		}
	}

	html, err := c.fetch(ctx, entry.URL, cfg.RequestTimeout)
	state.markVisited(entry.URL)
	attempt := sitescrape.Attempt{URL: entry.URL, Depth: entry.Depth}

	if err != nil {
		attempt.Status = sitescrape.AttemptFailed
		attempt.Error = err.Error()
		state.result.Attempts = append(state.result.Attempts, attempt)
		logger.Debug("fetch failed", "url", entry.URL, "depth", entry.Depth, "err", err)
		notify(progress, c.event(ProgressFailed, state, entry, err))
		return nil
	}

	if page := c.process(entry.URL, html, filters.lines, state.dedup); page != nil {
		state.result.Pages = append(state.result.Pages, page)
		attempt.Status = sitescrape.AttemptAccepted
		logger.Debug("page accepted", "url", entry.URL, "depth", entry.Depth, "length", page.Length())
		event := c.event(ProgressCompleted, state, entry, nil)
		event.Length = page.Length()
		notify(progress, event)
	} else {
		attempt.Status = sitescrape.AttemptRejected
		logger.Debug("page rejected", "url", entry.URL, "depth", entry.Depth)
		notify(progress, c.event(ProgressRejected, state, entry, nil))
	}
	state.result.Attempts = append(state.result.Attempts, attempt)

	c.discover(state, entry, html, filters.urls)
	return nil
}

// fetch performs the fetch (with optional retries) under the request timeout.
func (c *Crawler) fetch(ctx context.Context, rawURL string, timeout time.Duration) (string, error) {
	fetchFn := func(ctx context.Context, u string) (string, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return c.Fetcher.Fetch(ctx, u)
	}
	logFn := func(format string, args ...any) {
		c.logger().Debug("retry", "url", rawURL, "detail", fmt.Sprintf(format, args...))
	}
	return FetchWithRetryDelays(ctx, rawURL, fetchFn, logFn, c.RetryDelays)
}

// process runs sanitize, extract, line filter and deduplication over a
// fetched page. It returns nil when too little text survives.
func (c *Crawler) process(pageURL, html string, lines *sitescrape.LineFilter, dedup *Deduplicator) *sitescrape.PageResult {
	cleaned, err := c.Sanitizer.Sanitize(html)
	if err != nil {
		c.logger().Debug("sanitize failed", "url", pageURL, "err", err)
		return nil
	}

	text := c.Extractor.Extract(cleaned)
	text = lines.Filter(text)
	text = dedup.Dedupe(text)
	if utf8.RuneCountInString(text) <= minPageLength {
		return nil
	}

	return &sitescrape.PageResult{
		URL:  pageURL,
		Text: text,
		HTML: cleaned,
	}
}

// discover enqueues the outbound links of a page at depth+1. Links must be
// absolute http(s), unvisited and not blocked; the same-domain check is left
// to dequeue time.
func (c *Crawler) discover(state *crawlState, entry sitescrape.FrontierEntry, html string, urls *sitescrape.URLFilter) {
	links, err := c.Links.ExtractLinks(html, entry.URL)
	if err != nil {
		c.logger().Debug("link discovery failed", "url", entry.URL, "err", err)
		return
	}
	for _, link := range links {
		if !sitescrape.IsHTTPURL(link) || state.isVisited(link) || urls.Blocked(link) {
			continue
		}
		state.frontier.Push(sitescrape.FrontierEntry{URL: link, Depth: entry.Depth + 1})
	}
}

func (c *Crawler) event(typ ProgressType, state *crawlState, entry sitescrape.FrontierEntry, err error) ProgressEvent {
	return ProgressEvent{
		Type:    typ,
		Visited: len(state.result.Visited),
		Pages:   len(state.result.Pages),
		Queued:  state.frontier.Len(),
		URL:     entry.URL,
		Depth:   entry.Depth,
		Error:   err,
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
