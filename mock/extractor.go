package mock

import "github.com/fwojciec/sitescrape"

var _ sitescrape.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of sitescrape.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) (string, error)
}

func (s *Sanitizer) Sanitize(html string) (string, error) {
	return s.SanitizeFn(html)
}

var _ sitescrape.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of sitescrape.TextExtractor.
type TextExtractor struct {
	ExtractFn func(html string) string
}

func (e *TextExtractor) Extract(html string) string {
	return e.ExtractFn(html)
}
