// Package goquery implements HTML sanitization, text extraction and link
// discovery on top of goquery and golang.org/x/net/html.
package goquery

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitescrape"
)

// Compile-time interface verification.
var _ sitescrape.Sanitizer = (*Sanitizer)(nil)

var (
	footerAttrPattern    = regexp.MustCompile(`(?i)footer`)
	contentInfoPattern   = regexp.MustCompile(`(?i)contentinfo`)
	navigationPattern    = regexp.MustCompile(`(?i)navigation`)
	chromeAttrPattern    = regexp.MustCompile(`(?i)(header|nav|menu|top-bar|breadcrumb|breadcrumbs|hamb)`)
	modalTogglePattern   = regexp.MustCompile(`(?i)modal`)
	widgetAttrPattern    = regexp.MustCompile(`(?i)(feedback|help)`)
	widgetTargetKeywords = []string{"feedback", "help"}
	widgetImageKeywords  = []string{"feedback", "help-text"}
)

// rule removes one kind of non-content element from a document.
type rule struct {
	name  string
	apply func(doc *goquery.Document) error
}

// sanitizeRules are applied in order. Each removal is independent of the
// others, so the order does not change the final document.
var sanitizeRules = []rule{
	{name: "scripts", apply: removeSelector("script, style, noscript")},
	{name: "chrome", apply: removeSelector("footer, header, nav")},
	{name: "footer-attrs", apply: removeMatching(func(s *goquery.Selection) bool {
		return attrMatches(s, "id", footerAttrPattern) || attrMatches(s, "class", footerAttrPattern)
	})},
	{name: "landmark-roles", apply: removeMatching(func(s *goquery.Selection) bool {
		return attrMatches(s, "role", contentInfoPattern) || attrMatches(s, "role", navigationPattern)
	})},
	{name: "chrome-attrs", apply: removeMatching(func(s *goquery.Selection) bool {
		return attrMatches(s, "id", chromeAttrPattern) || attrMatches(s, "class", chromeAttrPattern)
	})},
	{name: "widget-modals", apply: removeMatching(isWidgetModalTrigger)},
	{name: "widget-images", apply: removeMatching(isWidgetImage)},
	{name: "widget-attrs", apply: removeMatching(func(s *goquery.Selection) bool {
		return attrMatches(s, "id", widgetAttrPattern) || attrMatches(s, "class", widgetAttrPattern)
	})},
}

// Sanitizer strips scripts, site chrome and feedback/help widgets from HTML.
//
// Sanitization is best-effort: a rule that fails on a document is skipped
// and logged at debug level, and the remaining rules still run.
type Sanitizer struct {
	Logger *slog.Logger
}

// NewSanitizer creates a Sanitizer. A nil logger discards rule failures.
func NewSanitizer(logger *slog.Logger) *Sanitizer {
	return &Sanitizer{Logger: logger}
}

// Sanitize returns the HTML with non-content elements removed.
// Only a document that cannot be parsed at all is an error.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", sitescrape.Errorf(sitescrape.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, r := range sanitizeRules {
		if err := runRule(r, doc); err != nil {
			s.logger().Debug("sanitize rule skipped", "rule", r.name, "err", err)
		}
	}

	out, err := doc.Html()
	if err != nil {
		return "", sitescrape.Errorf(sitescrape.EINTERNAL, "failed to render HTML: %v", err)
	}
	return out, nil
}

func (s *Sanitizer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// runRule applies r, converting a panic from malformed markup into an error.
func runRule(r rule, doc *goquery.Document) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("rule %s panicked: %v", r.name, p)
		}
	}()
	return r.apply(doc)
}

func removeSelector(selector string) func(*goquery.Document) error {
	return func(doc *goquery.Document) error {
		doc.Find(selector).Remove()
		return nil
	}
}

func removeMatching(match func(*goquery.Selection) bool) func(*goquery.Document) error {
	return func(doc *goquery.Document) error {
		doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return match(s)
		}).Remove()
		return nil
	}
}

func attrMatches(s *goquery.Selection, name string, re *regexp.Regexp) bool {
	v, ok := s.Attr(name)
	return ok && re.MatchString(v)
}

// isWidgetModalTrigger reports whether s opens a feedback or help modal.
func isWidgetModalTrigger(s *goquery.Selection) bool {
	if !attrMatches(s, "data-bs-toggle", modalTogglePattern) {
		return false
	}
	target := s.AttrOr("data-bs-target", "")
	if target == "" {
		target = s.AttrOr("data-target", "")
	}
	return containsAny(strings.ToLower(target), widgetTargetKeywords)
}

// isWidgetImage reports whether s is an image used as feedback/help text.
func isWidgetImage(s *goquery.Selection) bool {
	if goquery.NodeName(s) != "img" {
		return false
	}
	src, ok := s.Attr("src")
	return ok && containsAny(strings.ToLower(src), widgetImageKeywords)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
