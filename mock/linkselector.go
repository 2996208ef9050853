package mock

import "github.com/fwojciec/sitescrape"

var _ sitescrape.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of sitescrape.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
