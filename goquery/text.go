package goquery

import (
	"strings"

	"github.com/fwojciec/sitescrape"
	"golang.org/x/net/html"
)

var _ sitescrape.TextExtractor = (*TextExtractor)(nil)

// TextExtractor linearizes the visible text of an HTML document.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns every text node in document order, joined with newlines.
// Script and style contents are not text. Markup that cannot be parsed
// yields an empty string.
func (e *TextExtractor) Extract(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			parts = append(parts, n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript", "template":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(parts, "\n")
}
