package sitescrape

import (
	"strings"
	"unicode"
)

// Default chunking parameters, measured in characters (runes).
const (
	DefaultChunkSize    = 1100
	DefaultChunkOverlap = 200
)

// DefaultSeparators lists cut points from most to least preferred:
// paragraph breaks, line breaks, sentence ends, then any space.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " "}

// Splitter splits text into overlapping, bounded-size chunks.
//
// Every chunk is a contiguous span of the input. Consecutive spans overlap by
// at most Overlap runes and never leave a gap, so the input can be rebuilt
// from the chunks and their offsets.
type Splitter struct {
	Size       int
	Overlap    int
	Separators []string
}

// NewSplitter returns a Splitter with the default size, overlap and separators.
func NewSplitter() *Splitter {
	return &Splitter{
		Size:       DefaultChunkSize,
		Overlap:    DefaultChunkOverlap,
		Separators: DefaultSeparators,
	}
}

// Span is a chunk of text with its rune offsets in the source text.
type Span struct {
	Text  string
	Start int
	End   int
}

// Split returns the spans of text in order. Empty text yields no spans.
func (s *Splitter) Split(text string) []Span {
	r := []rune(text)
	n := len(r)
	if n == 0 {
		return nil
	}

	size := s.Size
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := min(max(s.Overlap, 0), size-1)
	seps := s.Separators
	if seps == nil {
		seps = DefaultSeparators
	}

	var spans []Span
	start := 0
	for {
		if n-start <= size {
			spans = append(spans, Span{Text: string(r[start:]), Start: start, End: n})
			return spans
		}

		// A cut must keep the chunk at least half full and move past the overlap.
		limit := start + size
		lo := start + max(size/2, overlap+1)
		end := lastCut(r, start, lo, limit, seps)
		if end < 0 {
			end = limit
		}
		spans = append(spans, Span{Text: string(r[start:end]), Start: start, End: end})

		start = nextStart(r, end, overlap)
	}
}

// SplitPage splits a page's text into chunks tagged with the page URL and
// their ordinal position. Chunk content is trimmed of surrounding whitespace;
// Start and End still cover the untrimmed span. Blank spans are dropped.
func (s *Splitter) SplitPage(page *PageResult) []*Chunk {
	spans := s.Split(page.Text)
	chunks := make([]*Chunk, 0, len(spans))
	for _, span := range spans {
		content := strings.TrimSpace(span.Text)
		if content == "" {
			continue
		}
		chunks = append(chunks, &Chunk{
			Content: content,
			Start:   span.Start,
			End:     span.End,
			Metadata: ChunkMetadata{
				SourceURL: page.URL,
				Chunk:     len(chunks),
			},
		})
	}
	return chunks
}

// lastCut returns the largest cut position in [lo, limit] that directly
// follows the first separator (in preference order) found there, or -1.
func lastCut(r []rune, start, lo, limit int, seps []string) int {
	for _, sep := range seps {
		sr := []rune(sep)
		if len(sr) == 0 {
			continue
		}
		for cut := limit; cut >= lo; cut-- {
			at := cut - len(sr)
			if at >= start && hasRunesAt(r, at, sr) {
				return cut
			}
		}
	}
	return -1
}

// nextStart backs up overlap runes from end, then moves forward to the
// first word boundary inside the overlap, if there is one.
func nextStart(r []rune, end, overlap int) int {
	next := end - overlap
	for p := next; p < end; p++ {
		if p > 0 && unicode.IsSpace(r[p-1]) && !unicode.IsSpace(r[p]) {
			return p
		}
	}
	return next
}

func hasRunesAt(r []rune, at int, sub []rune) bool {
	if at+len(sub) > len(r) {
		return false
	}
	for i, c := range sub {
		if r[at+i] != c {
			return false
		}
	}
	return true
}
