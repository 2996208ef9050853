package crawl

import (
	"context"
	"sync"

	"github.com/fwojciec/sitescrape"
	"golang.org/x/time/rate"
)

var _ sitescrape.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter caps the request rate per host using token buckets with a
// burst of 1. It complements the fixed politeness delay of a crawl run: the
// delay spaces out iterations, the limiter bounds requests per second even
// when retries or a zero delay would issue them back to back.
//
// A DomainLimiter may be shared by concurrent crawl runs.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per second
// per host. A non-positive rps disables limiting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
	}
}

// Wait blocks until the host's bucket allows a request.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	if d.rps <= 0 {
		return ctx.Err()
	}

	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(d.rps), 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
