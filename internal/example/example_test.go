package example

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aeoinsight/crawler/internal/config"
	"github.com/aeoinsight/crawler/internal/model"
)

func TestRunSampleCrawlAndAnalyzeEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Acme Widgets: Durable Gadgets Online</title>
<meta name="description" content="Acme Widgets makes durable, affordable gadgets for makers everywhere.">
</head><body><main><h1>Acme Widgets</h1>
<p>Acme sells widgets. Acme ships worldwide. Acme supports every order with care.</p>
<ul><li>Durable</li><li>Affordable</li></ul>
</main></body></html>`))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	cfg, err := config.WithDefault(server.URL).WithMode(config.ModeManual).WithManualURLs([]string{server.URL}).Build()
	if err != nil {
		t.Fatalf("unexpected config error: %v", err)
	}

	result, err := RunSampleCrawlAndAnalyze(context.Background(), "proj", cfg, model.ProjectContext{BrandName: "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Progress.Crawled != 1 {
		t.Fatalf("expected 1 page crawled, got %d", result.Progress.Crawled)
	}

	score, ok := result.Repo.GetContentScore("proj", server.URL)
	if !ok {
		t.Fatal("expected a content score for the crawled page")
	}
	if score.GlobalScore <= 0 {
		t.Fatalf("expected a positive global score, got %v", score.GlobalScore)
	}
}
