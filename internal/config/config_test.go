package config_test

import (
	"testing"
	"time"

	"github.com/aeoinsight/crawler/internal/config"
)

func TestWithDefaultBuildsValidAutoConfig(t *testing.T) {
	cfg, err := config.WithDefault("https://example.com/").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Mode() != config.ModeAuto {
		t.Fatalf("expected auto mode, got %v", cfg.Mode())
	}
	if cfg.MaxPages() != 100 {
		t.Fatalf("expected default maxPages 100, got %d", cfg.MaxPages())
	}
	if cfg.MaxConcurrent() != 5 {
		t.Fatalf("expected default maxConcurrent 5, got %d", cfg.MaxConcurrent())
	}
	if cfg.RespectRobotsTxt() != true {
		t.Fatal("expected respectRobotsTxt to default true")
	}
}

func TestManualModeRequiresManualURLs(t *testing.T) {
	_, err := config.WithDefault("").WithMode(config.ModeManual).Build()
	if err == nil {
		t.Fatal("expected error when manual mode has no manualUrls")
	}
}

func TestManualModeWithURLsBuilds(t *testing.T) {
	cfg, err := config.WithDefault("").
		WithMode(config.ModeManual).
		WithManualURLs([]string{"https://example.com/a", "https://example.com/b"}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.ManualURLs()) != 2 {
		t.Fatalf("expected 2 manual urls, got %d", len(cfg.ManualURLs()))
	}
}

func TestAutoModeRequiresStartURL(t *testing.T) {
	_, err := config.WithDefault("").Build()
	if err == nil {
		t.Fatal("expected error when auto mode has no startUrl")
	}
}

func TestIncludeExcludePatternsCompile(t *testing.T) {
	cfg, err := config.WithDefault("https://example.com/").
		WithIncludePatterns([]string{`/blog/`}).
		WithExcludePatterns([]string{`/admin/`, `[invalid(`}).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.IncludePatterns()) != 1 {
		t.Fatalf("expected 1 include pattern, got %d", len(cfg.IncludePatterns()))
	}
	// the malformed pattern is silently dropped, not fatal
	if len(cfg.ExcludePatterns()) != 1 {
		t.Fatalf("expected 1 valid exclude pattern to survive, got %d", len(cfg.ExcludePatterns()))
	}
}

func TestMaxPagesMustBePositive(t *testing.T) {
	_, err := config.WithDefault("https://example.com/").WithMaxPages(0).Build()
	if err == nil {
		t.Fatal("expected error for non-positive maxPages")
	}
}

func TestCrawlDelayDefault(t *testing.T) {
	cfg, err := config.WithDefault("https://example.com/").Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.CrawlDelay() != time.Second {
		t.Fatalf("expected default crawl delay of 1s, got %v", cfg.CrawlDelay())
	}
}
