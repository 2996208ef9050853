package crawl

import (
	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/sitescrape"
)

// Compile-time interface verification.
var _ sitescrape.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO crawl queue that refuses URLs it has
// already queued. It is owned by a single crawl run and is not safe for
// concurrent use.
//
// Membership is answered by a Bloom filter first and confirmed against an
// exact set only when the filter reports a possible hit, so a false
// positive never drops a URL.
type Frontier struct {
	seen   *bloom.BloomFilter
	queued map[string]struct{}
	queue  []sitescrape.FrontierEntry
	head   int
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the membership pre-check.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen:   bloom.NewWithEstimates(n, fpRate),
		queued: make(map[string]struct{}),
	}
}

// Push appends an entry to the back of the queue.
// Returns false if the URL has been queued before.
func (f *Frontier) Push(entry sitescrape.FrontierEntry) bool {
	if f.Seen(entry.URL) {
		return false
	}
	f.seen.AddString(entry.URL)
	f.queued[entry.URL] = struct{}{}
	f.queue = append(f.queue, entry)
	return true
}

// Pop removes and returns the oldest entry.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (sitescrape.FrontierEntry, bool) {
	if f.head == len(f.queue) {
		return sitescrape.FrontierEntry{}, false
	}
	entry := f.queue[f.head]
	f.queue[f.head] = sitescrape.FrontierEntry{}
	f.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if f.head > 64 && f.head*2 > len(f.queue) {
		f.queue = append([]sitescrape.FrontierEntry(nil), f.queue[f.head:]...)
		f.head = 0
	}
	return entry, true
}

// Len returns the number of entries in the queue.
func (f *Frontier) Len() int {
	return len(f.queue) - f.head
}

// Seen returns true if the URL has ever been queued.
func (f *Frontier) Seen(url string) bool {
	if !f.seen.TestString(url) {
		return false
	}
	_, ok := f.queued[url]
	return ok
}
