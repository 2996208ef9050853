package crawl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fragments shorter than this are kept out of deduplication and dropped.
const minFragmentLength = 30

// fragmentDelimiter splits page text into sentence-like fragments.
const fragmentDelimiter = ". "

// Deduplicator strips sentence-like fragments already seen earlier in the
// same crawl run. Signatures are only ever added, never removed, so the
// first page in visit order keeps a repeated fragment.
type Deduplicator struct {
	seen map[string]struct{}
}

// NewDeduplicator returns a Deduplicator with no recorded signatures.
func NewDeduplicator() *Deduplicator {
	return &Deduplicator{seen: make(map[string]struct{})}
}

// Dedupe splits text on ". ", drops fragments shorter than 30 characters and
// fragments whose signature was recorded by an earlier call, records the
// signatures of the survivors, and joins them back with ". ".
func (d *Deduplicator) Dedupe(text string) string {
	var kept []string
	for _, raw := range strings.Split(text, fragmentDelimiter) {
		fragment := strings.TrimSpace(raw)
		if utf8.RuneCountInString(fragment) < minFragmentLength {
			continue
		}
		sig := Signature(fragment)
		if _, ok := d.seen[sig]; ok {
			continue
		}
		d.seen[sig] = struct{}{}
		kept = append(kept, fragment)
	}
	return strings.Join(kept, fragmentDelimiter)
}

// Len returns the number of recorded signatures.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}

// Signature normalizes a fragment for comparison: lowercased, with every
// character that is not a letter, number or underscore removed.
func Signature(fragment string) string {
	var sb strings.Builder
	sb.Grow(len(fragment))
	for _, r := range strings.ToLower(fragment) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
