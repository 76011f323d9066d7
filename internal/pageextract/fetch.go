// Package pageextract implements the Page Extractor component: a
// fetch-with-retry step followed by HTML metadata/outlink extraction.
// Grounded on the teacher's internal/fetcher.HtmlFetcher (retry wiring,
// metadata-sink recording, guaranteed in-flight release) and
// internal/extractor.DomExtractor (semantic-container content
// isolation), but diverges where the spec diverges: any HTTP status is
// a valid response here, never an error — the teacher's fetcher treats
// 4xx/5xx as FetchError; this one only classifies failures that happen
// below the HTTP layer.
package pageextract

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/rehttp"

	"github.com/aeoinsight/crawler/internal/ratelimit"
	"github.com/aeoinsight/crawler/internal/telemetry"
	"github.com/aeoinsight/crawler/pkg/failure"
	"github.com/aeoinsight/crawler/pkg/hashutil"
	"github.com/aeoinsight/crawler/pkg/retry"
)

// userAgentPool is the small fixed pool a random user-agent is drawn
// from when no explicit one is configured.
var userAgentPool = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
}

// FetchResult is the raw HTTP response this package hands off to the
// extraction step, before any HTML parsing happens.
type FetchResult struct {
	URL         url.URL
	Body        []byte
	StatusCode  int
	Headers     map[string]string
	FetchedAt   time.Time
	RetryCount  int
}

// Extractor fetches and parses one page at a time. It owns an HTTP
// client, the process-wide rate limiter, and the metadata sink every
// attempt reports through.
type Extractor struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	sink       telemetry.MetadataSink
	userAgent  string
	rng        *rand.Rand
}

func NewExtractor(httpClient *http.Client, limiter *ratelimit.Limiter, sink telemetry.MetadataSink, userAgent string, randomSeed int64) *Extractor {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if httpClient.Transport == nil {
		httpClient.Transport = http.DefaultTransport
	}
	httpClient.Transport = wrapTransientRetry(httpClient.Transport)
	return &Extractor{
		httpClient: httpClient,
		limiter:    limiter,
		sink:       sink,
		userAgent:  userAgent,
		rng:        rand.New(rand.NewSource(randomSeed)),
	}
}

// wrapTransientRetry wraps rt with a transport-level retry for the
// connection resets and 502/503/504 blips that happen beneath the
// fetch-level retry loop, so fetchWithRetry's four attempts are spent
// on genuinely distinct failures rather than being absorbed by the same
// momentary network hiccup several times in a row.
func wrapTransientRetry(rt http.RoundTripper) http.RoundTripper {
	return rehttp.NewTransport(
		rt,
		rehttp.RetryAll(
			rehttp.RetryMaxRetries(2),
			rehttp.RetryAny(
				rehttp.RetryTemporaryErr(),
				rehttp.RetryStatuses(http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout),
			),
		),
		rehttp.ExpJitterDelay(100*time.Millisecond, 2*time.Second),
	)
}

func (e *Extractor) pickUserAgent() string {
	if e.userAgent != "" {
		return e.userAgent
	}
	return userAgentPool[e.rng.Intn(len(userAgentPool))]
}

// fetchWithRetry performs the retry loop (one attempt plus up to 3 retries,
// 1s base backoff), with
// a guaranteed rate-limiter release on every attempt regardless of outcome.
func (e *Extractor) fetchWithRetry(ctx context.Context, target url.URL) (FetchResult, failure.ClassifiedError) {
	param := retry.DefaultParam()

	result := retry.Do(param, func() (FetchResult, failure.ClassifiedError) {
		return e.performFetch(ctx, target)
	})

	if result.Err != nil {
		return FetchResult{}, result.Err
	}
	fr := result.Value
	fr.RetryCount = result.Attempts - 1
	return fr, nil
}

func (e *Extractor) performFetch(ctx context.Context, target url.URL) (FetchResult, failure.ClassifiedError) {
	if e.limiter != nil {
		release, err := e.limiter.Acquire(ctx)
		if err != nil {
			return FetchResult{}, &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
		}
		defer release()
	}

	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{Message: err.Error(), Retryable: false, Cause: ErrCauseNetworkFailure}
	}
	req.Header.Set("User-Agent", e.pickUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,*/*;q=0.8")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return FetchResult{}, &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseNetworkFailure}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{Message: err.Error(), Retryable: true, Cause: ErrCauseReadBody}
	}

	headers := make(map[string]string, len(resp.Header))
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}

	if e.sink != nil {
		e.sink.RecordFetch(telemetry.FetchRecord{
			URL:         target.String(),
			StatusCode:  resp.StatusCode,
			Duration:    time.Since(start),
			ContentType: headers["content-type"],
		})
	}

	// Any HTTP status is a valid result — never classified as an error.
	return FetchResult{
		URL:        target,
		Body:       body,
		StatusCode: resp.StatusCode,
		Headers:    headers,
		FetchedAt:  time.Now(),
	}, nil
}

// ContentHash computes the contract-level SHA-256 hex digest of a page body.
func ContentHash(body []byte) string {
	return hashutil.SHA256Hex(body)
}
