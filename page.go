package sitescrape

import (
	"context"
	"unicode/utf8"
)

// PageResult is the outcome of processing one fetched page. It is created
// once per accepted page and never mutated afterwards.
type PageResult struct {
	URL string

	// Text is the filtered and deduplicated page text.
	Text string

	// HTML is the sanitized HTML, kept for inspection only.
	HTML string
}

// Length returns the length of the page text in characters.
func (p *PageResult) Length() int {
	return utf8.RuneCountInString(p.Text)
}

// AttemptStatus describes what happened to a visited URL.
type AttemptStatus string

// AttemptStatus values.
const (
	// AttemptAccepted means the page contributed a PageResult.
	AttemptAccepted AttemptStatus = "accepted"

	// AttemptRejected means the page was fetched but produced no usable text.
	AttemptRejected AttemptStatus = "rejected"

	// AttemptFailed means the fetch failed.
	AttemptFailed AttemptStatus = "failed"
)

// Attempt records the outcome for one visited URL.
type Attempt struct {
	URL    string        `json:"url"`
	Depth  int           `json:"depth"`
	Status AttemptStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// PageStore persists accepted pages. Saved pages become visible together on
// Commit; Abort discards them.
type PageStore interface {
	Save(ctx context.Context, page *PageResult) error
	Commit() error
	Abort() error
}
