package sitescrape

import "context"

// UserAgent identifies the crawler to the sites it fetches.
const UserAgent = "RAG-Assistant-Bot/1.0 (+https://example.com)"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response body.
	// Non-success statuses and timeouts are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
