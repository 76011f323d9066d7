// Package robots implements the Robots Policy component: per-host fetch and
// cache of robots.txt, with default-allow semantics when no policy could be
// obtained. Grounded on the teacher's internal/robots package shape (a
// Policy wrapping a per-host cache, consulted before enqueue) but replaces
// its hand-rolled parser with github.com/temoto/robotstxt.
package robots

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/aeoinsight/crawler/internal/telemetry"
)

// FetchTimeout bounds a single robots.txt fetch. No retries are attempted:
// a slow or failing host simply falls back to default-allow.
const FetchTimeout = 5 * time.Second

type hostPolicy struct {
	group     *robotstxt.Group
	robots    *robotstxt.RobotsData
	fetchedAt time.Time
}

// Policy answers isAllowed(url, userAgent) against a per-host cache of
// parsed robots.txt interpreters. A host with no cached entry (because it
// was never fetched, or the fetch/parse failed) is treated as fully
// allowed — the spec's default-allow rule.
type Policy struct {
	httpClient *http.Client
	userAgent  string
	sink       telemetry.MetadataSink

	mu    sync.RWMutex
	cache map[string]*hostPolicy
}

func NewPolicy(userAgent string, sink telemetry.MetadataSink) *Policy {
	return &Policy{
		httpClient: &http.Client{Timeout: FetchTimeout},
		userAgent:  userAgent,
		sink:       sink,
		cache:      make(map[string]*hostPolicy),
	}
}

// IsAllowed reports whether userAgent may fetch rawURL, consulting (and
// lazily populating) the per-host cache. A fetch failure or parse failure
// is non-fatal: the host is cached with a nil group, which always allows.
func (p *Policy) IsAllowed(ctx context.Context, rawURL, scheme, host, requestURI string) bool {
	hp := p.policyFor(ctx, scheme, host)
	if hp == nil || hp.group == nil {
		return true
	}
	return hp.group.Test(requestURI)
}

// CrawlDelay returns the robots.txt crawl-delay for host, or zero if none
// was specified or no policy could be obtained.
func (p *Policy) CrawlDelay(ctx context.Context, scheme, host string) time.Duration {
	hp := p.policyFor(ctx, scheme, host)
	if hp == nil || hp.group == nil {
		return 0
	}
	return hp.group.CrawlDelay
}

// Sitemaps returns every `Sitemap:` directive found in host's robots.txt,
// for the Sitemap Discovery component to merge into its candidate list.
func (p *Policy) Sitemaps(ctx context.Context, scheme, host string) []string {
	hp := p.policyFor(ctx, scheme, host)
	if hp == nil || hp.robots == nil {
		return nil
	}
	return hp.robots.Sitemaps
}

func (p *Policy) policyFor(ctx context.Context, scheme, host string) *hostPolicy {
	key := scheme + "://" + host
	p.mu.RLock()
	hp, ok := p.cache[key]
	p.mu.RUnlock()
	if ok {
		return hp
	}

	hp = p.fetch(ctx, scheme, host)

	p.mu.Lock()
	p.cache[key] = hp
	p.mu.Unlock()
	return hp
}

func (p *Policy) fetch(ctx context.Context, scheme, host string) *hostPolicy {
	start := time.Now()
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", scheme, host)

	reqCtx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, robotsURL, nil)
	if err != nil {
		p.recordError(host, "build_request", err)
		return &hostPolicy{fetchedAt: time.Now()}
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.recordError(host, "fetch", err)
		return &hostPolicy{fetchedAt: time.Now()}
	}
	defer resp.Body.Close()

	if p.sink != nil {
		p.sink.RecordFetch(telemetry.FetchRecord{
			URL:        robotsURL,
			StatusCode: resp.StatusCode,
			Duration:   time.Since(start),
		})
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		p.recordError(host, "parse", err)
		return &hostPolicy{fetchedAt: time.Now()}
	}

	return &hostPolicy{
		group:     data.FindGroup(p.userAgent),
		robots:    data,
		fetchedAt: time.Now(),
	}
}

func (p *Policy) recordError(host, stage string, err error) {
	if p.sink == nil {
		return
	}
	p.sink.RecordError(telemetry.ErrorRecord{
		At:      time.Now(),
		Stage:   "robots",
		Method:  stage,
		Cause:   telemetry.CauseNetworkFailure,
		Message: err.Error(),
		Attrs:   []telemetry.Attribute{telemetry.NewAttr("host", host)},
	})
}
