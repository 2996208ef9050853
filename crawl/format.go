package crawl

import "fmt"

// TruncateURL shortens a URL to maxLen characters for display, keeping the
// end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(url)
	if maxLen < 4 {
		return string(r[:min(len(r), maxLen)])
	}
	if len(r) <= maxLen {
		return url
	}
	return "..." + string(r[len(r)-maxLen+3:])
}

// FormatChars formats a character count in human-readable form.
func FormatChars(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d chars", n)
	}
	return fmt.Sprintf("%.1fk chars", float64(n)/1000)
}

// FormatProgress renders a progress event as a single status line.
// Events without a URL render as a summary.
func FormatProgress(e ProgressEvent, urlWidth int) string {
	switch e.Type {
	case ProgressStarted:
		return fmt.Sprintf("crawling %s", e.URL)
	case ProgressCompleted:
		return fmt.Sprintf("[%d] ok       d=%d %s (%s)", e.Visited, e.Depth, TruncateURL(e.URL, urlWidth), FormatChars(e.Length))
	case ProgressRejected:
		return fmt.Sprintf("[%d] empty    d=%d %s", e.Visited, e.Depth, TruncateURL(e.URL, urlWidth))
	case ProgressFailed:
		return fmt.Sprintf("[%d] failed   d=%d %s: %v", e.Visited, e.Depth, TruncateURL(e.URL, urlWidth), e.Error)
	case ProgressFinished:
		return fmt.Sprintf("done: %d visited, %d pages kept, %d left in queue", e.Visited, e.Pages, e.Queued)
	}
	return ""
}
