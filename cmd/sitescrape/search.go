package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/sitescrape"
)

// snippetLength is the number of characters of chunk content shown per result.
const snippetLength = 200

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Searcher.Search(deps.Ctx, c.Query, sitescrape.SearchOptions{
		Limit:    c.Limit,
		MinScore: c.MinScore,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitescrape.ErrorMessage(err))
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []sitescrape.SearchResult{}
		}
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}

	for i, r := range results {
		fmt.Fprintf(deps.Stdout, "%d. [%.3f] %s (chunk %d)\n", i+1, r.Score, r.Chunk.Metadata.SourceURL, r.Chunk.Metadata.Chunk)
		fmt.Fprintf(deps.Stdout, "   %s\n", snippet(r.Chunk.Content))
	}
	return nil
}

// snippet collapses whitespace and truncates content for display.
func snippet(content string) string {
	r := []rune(strings.Join(strings.Fields(content), " "))
	if len(r) <= snippetLength {
		return string(r)
	}
	return string(r[:snippetLength-3]) + "..."
}
