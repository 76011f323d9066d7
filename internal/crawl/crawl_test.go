package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aeoinsight/crawler/internal/config"
	"github.com/aeoinsight/crawler/internal/pageextract"
	"github.com/aeoinsight/crawler/internal/ratelimit"
	"github.com/aeoinsight/crawler/internal/repository"
	"github.com/aeoinsight/crawler/internal/robots"
	"github.com/aeoinsight/crawler/internal/sitemap"
	"github.com/aeoinsight/crawler/internal/telemetry"
)

type stubSitemap struct {
	urls []string
	err  error
}

func (s *stubSitemap) Discover(ctx context.Context, startURL string, robotsSitemaps []string, filter sitemap.Filter) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.urls, nil
}

func newSession(t *testing.T, cfg config.Config, server *httptest.Server, sm SitemapDiscoverer) (*CrawlSession, repository.Repository, *telemetry.ChannelEmitter) {
	t.Helper()
	limiter := ratelimit.New(5, 0, 1)
	extractor := pageextract.NewExtractor(server.Client(), limiter, nil, "test-agent/1.0", 1)
	repo := repository.NewInMemoryRepository()
	emitter := telemetry.NewChannelEmitter(64)
	deps := Deps{
		Robots:    robots.NewPolicy("test-agent/1.0", nil),
		Extractor: extractor,
		Sitemap:   sm,
		Repo:      repo,
		Emitter:   emitter,
	}
	return NewCrawlSession(cfg, deps), repo, emitter
}

func TestRunManualModeCrawlsExactURLs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>A</title></head><body>a</body></html>"))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>B</title></head><body>b</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL).
		WithMode(config.ModeManual).
		WithManualURLs([]string{server.URL + "/a", server.URL + "/b"}).
		WithRespectRobotsTxt(false).
		WithMaxPages(10).
		Build()
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	session, repo, _ := newSession(t, cfg, server, nil)
	if err := session.Run(context.Background(), "proj"); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if session.Progress().Crawled != 2 {
		t.Fatalf("expected 2 pages crawled, got %d", session.Progress().Crawled)
	}
	if _, ok := repo.GetCrawledPage("proj", server.URL+"/a"); !ok {
		t.Fatal("expected /a to be persisted")
	}
	if _, ok := repo.GetCrawledPage("proj", server.URL+"/b"); !ok {
		t.Fatal("expected /b to be persisted")
	}
}

func TestRunAutoModeExpandsFromSitemapAndHomepageFirst(t *testing.T) {
	mux := http.NewServeMux()
	for _, path := range []string{"/", "/a", "/b"} {
		path := path
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><head><title>p</title></head><body>p</body></html>"))
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL + "/").
		WithRespectRobotsTxt(false).
		WithMaxPages(10).
		Build()
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	sm := &stubSitemap{urls: []string{server.URL + "/a", server.URL + "/b"}}
	session, repo, emitter := newSession(t, cfg, server, sm)
	if err := session.Run(context.Background(), "proj"); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if session.Progress().Crawled != 3 {
		t.Fatalf("expected 3 pages crawled, got %d", session.Progress().Crawled)
	}
	if _, ok := repo.GetCrawledPage("proj", server.URL+"/"); !ok {
		t.Fatal("expected homepage to be persisted")
	}

	var firstPageCrawled string
drain:
	for {
		select {
		case evt := <-emitter.Events():
			if evt.Topic == telemetry.TopicCrawlerPageCrawled && firstPageCrawled == "" {
				firstPageCrawled, _ = evt.Payload["currentUrl"].(string)
			}
		default:
			break drain
		}
	}
	if firstPageCrawled != server.URL+"/" {
		t.Fatalf("expected homepage crawled first, got %q", firstPageCrawled)
	}
}

func TestRunStopsAtMaxPages(t *testing.T) {
	mux := http.NewServeMux()
	for _, path := range []string{"/", "/a", "/b", "/c"} {
		path := path
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><head><title>p</title></head><body>p</body></html>"))
		})
	}
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL + "/").
		WithRespectRobotsTxt(false).
		WithMaxPages(2).
		Build()
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	sm := &stubSitemap{urls: []string{server.URL + "/a", server.URL + "/b", server.URL + "/c"}}
	session, _, _ := newSession(t, cfg, server, sm)
	if err := session.Run(context.Background(), "proj"); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if session.Progress().Crawled != 2 {
		t.Fatalf("expected crawl to stop at maxPages=2, got %d", session.Progress().Crawled)
	}
}

func TestRunManualModeIgnoresOutlinkExpansion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>A</title></head><body><a href="/b">b</a></body></html>`))
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>B</title></head><body>b</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL).
		WithMode(config.ModeManual).
		WithManualURLs([]string{server.URL + "/a"}).
		WithRespectRobotsTxt(false).
		WithMaxPages(10).
		Build()
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	session, repo, _ := newSession(t, cfg, server, nil)
	if err := session.Run(context.Background(), "proj"); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	if session.Progress().Crawled != 1 {
		t.Fatalf("expected only the single manual URL to be crawled, got %d", session.Progress().Crawled)
	}
	if _, ok := repo.GetCrawledPage("proj", server.URL+"/b"); ok {
		t.Fatal("expected /b discovered via outlink to NOT be crawled in manual mode")
	}
}
