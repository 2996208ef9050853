package mock

import (
	"context"

	"github.com/fwojciec/sitescrape"
)

var _ sitescrape.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of sitescrape.URLFrontier.
type URLFrontier struct {
	PushFn func(entry sitescrape.FrontierEntry) bool
	PopFn  func() (sitescrape.FrontierEntry, bool)
	LenFn  func() int
}

func (f *URLFrontier) Push(entry sitescrape.FrontierEntry) bool {
	return f.PushFn(entry)
}

func (f *URLFrontier) Pop() (sitescrape.FrontierEntry, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

var _ sitescrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of sitescrape.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
