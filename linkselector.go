package sitescrape

// LinkExtractor discovers outbound links in HTML.
type LinkExtractor interface {
	// ExtractLinks returns the href of every anchor resolved against
	// baseURL, in document order. Hrefs that cannot be resolved are
	// skipped. Scheme and domain filtering is left to the caller.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
