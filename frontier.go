package sitescrape

import "context"

// FrontierEntry is a discovered URL tagged with its link distance from the
// start URL. The start URL has depth 0.
type FrontierEntry struct {
	URL   string
	Depth int
}

// URLFrontier manages a first-in, first-out crawl queue.
type URLFrontier interface {
	// Push appends an entry to the queue.
	// Returns false if the URL is already queued.
	Push(entry FrontierEntry) bool

	// Pop removes and returns the oldest entry.
	// Returns false if the frontier is empty.
	Pop() (FrontierEntry, bool)

	// Len returns the number of entries in the queue.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
