package sitescrape

// Sanitizer strips non-content elements from HTML pages.
type Sanitizer interface {
	// Sanitize removes scripts, styles, page chrome and known widgets from
	// raw HTML and returns the remaining document as HTML.
	// Removal is best-effort: a rule that cannot be applied is skipped.
	// An error is returned only when the input cannot be parsed at all.
	Sanitize(html string) (string, error)
}

// TextExtractor linearizes HTML into plain text.
type TextExtractor interface {
	// Extract returns the visible text nodes of the document in document
	// order, one per line. It never fails; malformed markup yields
	// best-effort text.
	Extract(html string) string
}
