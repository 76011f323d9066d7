// Package crawl implements the Crawl Orchestrator: a per-invocation
// CrawlSession that owns a frontier queue, a visited set, and a read-only
// progress snapshot. Grounded on the teacher's internal/scheduler.Scheduler
// (SubmitUrlForAdmission as the single admission choke point,
// ExecuteCrawling as the main loop) fused with internal/frontier's generic
// FIFOQueue/Set, but reified as a value constructed per crawl rather than a
// shared mutable orchestrator instance — the spec keeps no state across
// invocations beyond the process-wide robots cache and rate limiter, which
// the session receives as collaborators rather than owning them.
package crawl

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/aeoinsight/crawler/internal/config"
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/pageextract"
	"github.com/aeoinsight/crawler/internal/repository"
	"github.com/aeoinsight/crawler/internal/robots"
	"github.com/aeoinsight/crawler/internal/sitemap"
	"github.com/aeoinsight/crawler/internal/telemetry"
	"github.com/aeoinsight/crawler/internal/urlnorm"
	"github.com/aeoinsight/crawler/pkg/collection"
)

// Deps bundles the collaborators a CrawlSession is constructed with. None
// of these are owned by the session: robotsPolicy and the extractor's rate
// limiter are process-wide and outlive any one crawl.
type Deps struct {
	Robots    *robots.Policy
	Extractor *pageextract.Extractor
	Sitemap   SitemapDiscoverer
	Repo      repository.Repository
	Emitter   telemetry.EventEmitter
	Sink      telemetry.MetadataSink
}

// SitemapDiscoverer is the seam sitemap.Discover is injected through, so
// tests can substitute a canned URL list without standing up a server.
type SitemapDiscoverer interface {
	Discover(ctx context.Context, startURL string, robotsSitemaps []string, filter sitemap.Filter) ([]string, error)
}

// httpSitemapDiscoverer adapts sitemap.Discover's free function to
// SitemapDiscoverer.
type httpSitemapDiscoverer struct {
	client *http.Client
}

// NewHTTPSitemapDiscoverer builds a SitemapDiscoverer backed by the real
// sitemap.Discover, using client for every probe.
func NewHTTPSitemapDiscoverer(client *http.Client) SitemapDiscoverer {
	return &httpSitemapDiscoverer{client: client}
}

func (d *httpSitemapDiscoverer) Discover(ctx context.Context, startURL string, robotsSitemaps []string, filter sitemap.Filter) ([]string, error) {
	return sitemap.Discover(ctx, d.client, startURL, robotsSitemaps, filter)
}

// CrawlSession is one crawlWebsite invocation's full mutable state: the
// frontier queue, the visited set, and the progress counters. Nothing here
// is shared across invocations or goroutines.
type CrawlSession struct {
	cfg  config.Config
	deps Deps

	queue   *collection.FIFOQueue[string]
	visited collection.Set[string]
	status  model.CrawlStatus
	crawled int
	errors  int
}

// NewCrawlSession builds an idle session for one crawlWebsite invocation.
func NewCrawlSession(cfg config.Config, deps Deps) *CrawlSession {
	return &CrawlSession{
		cfg:     cfg,
		deps:    deps,
		queue:   collection.NewFIFOQueue[string](),
		visited: collection.NewSet[string](),
		status:  model.CrawlStatusIdle,
	}
}

// Progress returns a read-only snapshot of the session's current counters.
func (s *CrawlSession) Progress() model.Progress {
	return model.Progress{
		Crawled: s.crawled,
		Total:   s.queue.Len() + s.crawled,
		Errors:  s.errors,
		Status:  s.status,
	}
}

// Run executes the full crawlWebsite lifecycle: seeding, queue reordering,
// and the main loop, emitting crawler.* events throughout. A non-nil error
// return means an orchestrator-level exception occurred (status=failed);
// per-page fetch failures never surface here, only in s.errors.
func (s *CrawlSession) Run(ctx context.Context, projectID string) error {
	s.status = model.CrawlStatusRunning
	s.emit(telemetry.TopicCrawlerStarted, projectID, "")

	if err := s.seed(ctx); err != nil {
		s.status = model.CrawlStatusFailed
		s.emit(telemetry.TopicCrawlerFailed, projectID, "")
		return err
	}
	s.reorderQueue()

	for s.queue.Len() > 0 && s.crawled < s.cfg.MaxPages() {
		rawURL, ok := s.queue.Dequeue()
		if !ok {
			break
		}

		// 1. Normalize again; skip if already visited.
		normalized := urlnorm.Normalize(rawURL)
		if s.visited.Contains(normalized) {
			continue
		}

		// 2. Robots check.
		if s.cfg.RespectRobotsTxt() && !s.isAllowed(ctx, normalized) {
			continue
		}

		// 3. Include/exclude pattern filter.
		if !s.passesPatterns(normalized) {
			continue
		}

		// 4. Progress event.
		s.emit(telemetry.TopicCrawlerProgress, projectID, normalized)

		// 5/6. The rate limiter is awaited inside Extract itself (the
		// Page Extractor acquires it before every fetch attempt), so
		// there is no separate acquire call here.
		page, err := s.deps.Extractor.Extract(ctx, projectID, normalized)

		s.visited.Add(normalized)
		if _, upsertErr := s.deps.Repo.UpsertCrawledPage(projectID, normalized, page.Record); upsertErr != nil && s.deps.Sink != nil {
			s.deps.Sink.RecordError(telemetry.ErrorRecord{
				At:      time.Now(),
				Stage:   "crawl",
				Method:  "UpsertCrawledPage",
				Cause:   telemetry.CauseRepositoryFailure,
				Message: upsertErr.Error(),
			})
		}

		if err != nil {
			s.errors++
			continue
		}

		s.crawled++
		s.emit(telemetry.TopicCrawlerPageCrawled, projectID, normalized)

		// 7. Expand the frontier from outlinks, auto mode only, 200 only.
		if s.cfg.Mode() != config.ModeManual && page.Record.StatusCode == 200 {
			for _, link := range page.Outlinks {
				normalizedLink := urlnorm.Normalize(link)
				if !s.visited.Contains(normalizedLink) {
					s.queue.Enqueue(normalizedLink)
				}
			}
		}
	}

	s.status = model.CrawlStatusCompleted
	s.emit(telemetry.TopicCrawlerCompleted, projectID, "")
	return nil
}

// seed populates the queue per the manual/auto contract: manual mode takes
// the configured URL list verbatim (normalized); auto mode starts from the
// normalized start URL and expands via Sitemap Discovery up to maxPages.
func (s *CrawlSession) seed(ctx context.Context) error {
	if s.cfg.Mode() == config.ModeManual {
		for _, raw := range s.cfg.ManualURLs() {
			s.queue.Enqueue(urlnorm.Normalize(raw))
		}
		return nil
	}

	start := urlnorm.Normalize(s.cfg.StartURL())
	s.queue.Enqueue(start)

	parsed, err := url.Parse(start)
	if err != nil {
		return fmt.Errorf("crawl: invalid start url: %w", err)
	}

	var robotsSitemaps []string
	if s.deps.Robots != nil {
		robotsSitemaps = s.deps.Robots.Sitemaps(ctx, parsed.Scheme, parsed.Host)
	}

	if s.deps.Sitemap == nil {
		return nil
	}

	filter := sitemap.Filter{
		Host:     parsed.Host,
		Include:  s.cfg.IncludePatterns(),
		Exclude:  s.cfg.ExcludePatterns(),
		MaxPages: s.cfg.MaxPages(),
	}
	discovered, discErr := s.deps.Sitemap.Discover(ctx, start, robotsSitemaps, filter)
	if discErr != nil {
		// Sitemap discovery failure is non-fatal: the crawl proceeds
		// with just the start URL seeded.
		return nil
	}

	for _, raw := range discovered {
		normalized := urlnorm.Normalize(raw)
		if normalized != start {
			s.queue.Enqueue(normalized)
		}
		if s.queue.Len() >= s.cfg.MaxPages() {
			break
		}
	}
	return nil
}

// reorderQueue applies the post-seeding ordering contract: manual mode
// shuffles uniformly; auto mode places the homepage first (adding it if
// it was never seeded) and shuffles the rest.
func (s *CrawlSession) reorderQueue() {
	items := s.queue.Items()
	rng := rand.New(rand.NewSource(s.cfg.RandomSeed()))

	if s.cfg.Mode() == config.ModeManual {
		shuffle(items, rng)
		s.replaceQueue(items)
		return
	}

	homepage := urlnorm.Normalize(s.cfg.StartURL())
	rest := make([]string, 0, len(items))
	for _, item := range items {
		if item != homepage {
			rest = append(rest, item)
		}
	}
	shuffle(rest, rng)

	reordered := make([]string, 0, len(rest)+1)
	reordered = append(reordered, homepage)
	reordered = append(reordered, rest...)
	s.replaceQueue(reordered)
}

func (s *CrawlSession) replaceQueue(items []string) {
	s.queue = collection.NewFIFOQueue[string]()
	for _, item := range items {
		s.queue.Enqueue(item)
	}
}

func shuffle(items []string, rng *rand.Rand) {
	rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}

func (s *CrawlSession) isAllowed(ctx context.Context, rawURL string) bool {
	if s.deps.Robots == nil {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	requestURI := parsed.RequestURI()
	return s.deps.Robots.IsAllowed(ctx, rawURL, parsed.Scheme, parsed.Host, requestURI)
}

func (s *CrawlSession) passesPatterns(rawURL string) bool {
	for _, re := range s.cfg.ExcludePatterns() {
		if re.MatchString(rawURL) {
			return false
		}
	}
	if len(s.cfg.IncludePatterns()) == 0 {
		return true
	}
	for _, re := range s.cfg.IncludePatterns() {
		if re.MatchString(rawURL) {
			return true
		}
	}
	return false
}

func (s *CrawlSession) emit(topic, projectID, currentURL string) {
	if s.deps.Emitter == nil {
		return
	}
	payload := map[string]any{
		"projectId": projectID,
		"crawled":   s.crawled,
		"total":     s.queue.Len() + s.crawled,
	}
	if currentURL != "" {
		payload["currentUrl"] = currentURL
	}
	s.deps.Emitter.Emit(telemetry.NewEvent(topic, payload))
}
