// Package ratelimit implements the process-wide Rate Limiter component:
// a global in-flight semaphore plus a jittered per-fetch launch delay.
// Grounded on the teacher's pkg/limiter.ConcurrentRateLimiter (same
// base-delay/jitter bookkeeping and mutex-guarded timing fields) but
// simplified to the spec's process-wide contract rather than per-host
// backoff bookkeeping, which the teacher maintains for a different,
// per-domain crawl-delay scheme.
package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/aeoinsight/crawler/pkg/timeutil"
)

const defaultMaxConcurrent = 5

// Limiter enforces two caps on fetch launches: a bound on in-flight
// requests, and a jittered delay applied to every fetch before it starts.
type Limiter struct {
	sem chan struct{}

	mu         sync.Mutex
	crawlDelay time.Duration
	rng        *rand.Rand
}

// New builds a Limiter with the given concurrency cap and base crawl delay.
// maxConcurrent <= 0 falls back to the spec's default of 5.
func New(maxConcurrent int, crawlDelay time.Duration, randomSeed int64) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	return &Limiter{
		sem:        make(chan struct{}, maxConcurrent),
		crawlDelay: crawlDelay,
		rng:        rand.New(rand.NewSource(randomSeed)),
	}
}

// Acquire blocks until in-flight capacity is available, then sleeps the
// jittered per-fetch delay. It returns a release function the caller must
// invoke exactly once — the fetcher is expected to defer it immediately
// so the slot is freed even on panic or early return.
func (l *Limiter) Acquire(ctx context.Context) (release func(), err error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	delay := l.nextDelay()
	if delay > 0 {
		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			<-l.sem
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-l.sem })
	}, nil
}

// SetCrawlDelay updates the base delay used for subsequent fetches.
func (l *Limiter) SetCrawlDelay(delay time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.crawlDelay = delay
}

// nextDelay returns crawlDelay plus a uniform jitter within ±20% of it.
func (l *Limiter) nextDelay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.crawlDelay <= 0 {
		return 0
	}
	return timeutil.UniformJitter(l.crawlDelay, 0.2, l.rng)
}

// InFlight reports the current number of acquired-but-not-released slots;
// exposed for tests and diagnostics.
func (l *Limiter) InFlight() int {
	return len(l.sem)
}
