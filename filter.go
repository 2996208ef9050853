package sitescrape

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultBlockedURLPatterns exclude account, commerce, contact and support
// pages as well as non-web schemes. Matching is case-insensitive and
// unanchored.
var DefaultBlockedURLPatterns = []string{
	`/contact`,
	`/contacts`,
	`/login`,
	`/signup`,
	`/register`,
	`/logout`,
	`/cart`,
	`/checkout`,
	`/feedback`,
	`[?&]feedback=`,
	`/support`,
	`/help`,
	`mailto:`,
	`tel:`,
}

// DefaultBlockedTextPatterns drop lines of site chrome that survive HTML
// sanitization. Anchored patterns must match the whole trimmed line; the
// rest match anywhere in it. Matching is case-insensitive.
var DefaultBlockedTextPatterns = []string{
	`\bfeedback\b`,
	`how\s+can\s+we\s+help\s+you\??`,
	`help\s+us\s+improve`,
	`chat\s+with\s+us`,
	`subscribe\s+to\s+our\s+newsletter`,
	`accept\s+cookies`,
	`cookie\s+preferences`,
	`feedbackform`,
	`^solutions$`,
	`^learn\s*more$`,
	`^countries$`,
	`^careers$`,
	`^news(room)?$`,
	`^contact$`,
	`a\s+world\s+of\s+possibilities`,
}

// compilePatterns compiles patterns case-insensitively, preserving order.
func compilePatterns(patterns ...[]string) ([]*regexp.Regexp, error) {
	var compiled []*regexp.Regexp
	for _, list := range patterns {
		for _, p := range list {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, Errorf(EINVALID, "invalid pattern %q: %v", p, err)
			}
			compiled = append(compiled, re)
		}
	}
	return compiled, nil
}

// URLFilter decides whether a URL may be fetched during a crawl.
type URLFilter struct {
	// Exclude patterns - URLs matching any pattern are excluded.
	Exclude []*regexp.Regexp
}

// NewURLFilter returns a URLFilter holding DefaultBlockedURLPatterns
// followed by extra.
func NewURLFilter(extra []string) (*URLFilter, error) {
	exclude, err := compilePatterns(DefaultBlockedURLPatterns, extra)
	if err != nil {
		return nil, err
	}
	return &URLFilter{Exclude: exclude}, nil
}

// Blocked returns true if the URL matches any exclude pattern.
// A nil filter blocks nothing.
func (f *URLFilter) Blocked(rawURL string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.Exclude {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}

// Eligible returns true if rawURL is an absolute http(s) URL on the same
// network location as startURL and is not blocked.
func (f *URLFilter) Eligible(rawURL, startURL string) bool {
	return IsHTTPURL(rawURL) && SameDomain(rawURL, startURL) && !f.Blocked(rawURL)
}

// IsHTTPURL returns true if rawURL parses as an absolute http or https URL.
func IsHTTPURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

// SameDomain returns true if both URLs parse and share the exact same
// host[:port]. Subdomains and "www." variants are different domains.
func SameDomain(a, b string) bool {
	ua, err := url.Parse(a)
	if err != nil {
		return false
	}
	ub, err := url.Parse(b)
	if err != nil {
		return false
	}
	return ua.Host == ub.Host
}

// LineFilter removes boilerplate lines from extracted page text.
type LineFilter struct {
	// Block patterns - lines matching any pattern are dropped.
	Block []*regexp.Regexp
}

// NewLineFilter returns a LineFilter holding DefaultBlockedTextPatterns
// followed by extra.
func NewLineFilter(extra []string) (*LineFilter, error) {
	block, err := compilePatterns(DefaultBlockedTextPatterns, extra)
	if err != nil {
		return nil, err
	}
	return &LineFilter{Block: block}, nil
}

// Filter trims every line, drops empty and blocked lines, and joins the rest
// with single spaces. Runs of whitespace collapse to one space.
func (f *LineFilter) Filter(text string) string {
	var kept []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || f.blocked(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(strings.Fields(strings.Join(kept, " ")), " ")
}

func (f *LineFilter) blocked(line string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.Block {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
