// Package config carries the Crawl Config component: the builder-style
// DTO with validation grounded on the teacher's internal/config.Config
// (WithX chain + Build() (Config, error)), generalized to the spec's
// maxPages/crawlDelay/include-exclude/respectRobotsTxt/userAgent/timeout
// /maxDepth/mode/manualUrls surface, plus the process-level env
// overrides the spec calls out explicitly.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"
)

var ErrInvalidConfig = errors.New("invalid crawl config")

// Mode selects manual seeding (exact URL list) vs. auto (start URL plus
// sitemap discovery).
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeManual Mode = "manual"
)

const (
	defaultMaxPages          = 100
	defaultCrawlDelayMs      = 1000
	defaultTimeoutMs         = 30000
	defaultConcurrentRequests = 5
)

// Config is the resolved, validated crawl configuration.
type Config struct {
	startURL         string
	manualURLs       []string
	mode             Mode
	maxPages         int
	crawlDelay       time.Duration
	includePatterns  []*regexp.Regexp
	excludePatterns  []*regexp.Regexp
	respectRobotsTxt bool
	userAgent        string
	timeout          time.Duration
	maxDepth         int
	maxConcurrent    int
	randomSeed       int64
}

func (c Config) StartURL() string                  { return c.startURL }
func (c Config) ManualURLs() []string              { return c.manualURLs }
func (c Config) Mode() Mode                        { return c.mode }
func (c Config) MaxPages() int                     { return c.maxPages }
func (c Config) CrawlDelay() time.Duration         { return c.crawlDelay }
func (c Config) IncludePatterns() []*regexp.Regexp { return c.includePatterns }
func (c Config) ExcludePatterns() []*regexp.Regexp { return c.excludePatterns }
func (c Config) RespectRobotsTxt() bool            { return c.respectRobotsTxt }
func (c Config) UserAgent() string                 { return c.userAgent }
func (c Config) Timeout() time.Duration            { return c.timeout }
func (c Config) MaxDepth() int                     { return c.maxDepth }
func (c Config) MaxConcurrent() int                { return c.maxConcurrent }
func (c Config) RandomSeed() int64                  { return c.randomSeed }

// Builder accumulates crawl configuration before validation.
type Builder struct {
	cfg Config
}

// WithDefault seeds a Builder with the spec's defaults plus whatever the
// process environment overrides (CRAWLER_USER_AGENT, CRAWLER_TIMEOUT_MS,
// CRAWLER_CONCURRENT_REQUESTS).
func WithDefault(startURL string) *Builder {
	cfg := Config{
		startURL:         startURL,
		mode:             ModeAuto,
		maxPages:         defaultMaxPages,
		crawlDelay:       defaultCrawlDelayMs * time.Millisecond,
		respectRobotsTxt: true,
		userAgent:        envOr("CRAWLER_USER_AGENT", ""),
		timeout:          time.Duration(envIntOr("CRAWLER_TIMEOUT_MS", defaultTimeoutMs)) * time.Millisecond,
		maxConcurrent:    envIntOr("CRAWLER_CONCURRENT_REQUESTS", defaultConcurrentRequests),
		randomSeed:       time.Now().UnixNano(),
	}
	return &Builder{cfg: cfg}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (b *Builder) WithMode(m Mode) *Builder {
	b.cfg.mode = m
	return b
}

func (b *Builder) WithManualURLs(urls []string) *Builder {
	b.cfg.manualURLs = urls
	return b
}

func (b *Builder) WithMaxPages(n int) *Builder {
	b.cfg.maxPages = n
	return b
}

func (b *Builder) WithCrawlDelay(d time.Duration) *Builder {
	b.cfg.crawlDelay = d
	return b
}

func (b *Builder) WithIncludePatterns(patterns []string) *Builder {
	b.cfg.includePatterns = compileAll(patterns)
	return b
}

func (b *Builder) WithExcludePatterns(patterns []string) *Builder {
	b.cfg.excludePatterns = compileAll(patterns)
	return b
}

func compileAll(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if re, err := regexp.Compile(p); err == nil {
			out = append(out, re)
		}
	}
	return out
}

func (b *Builder) WithRespectRobotsTxt(v bool) *Builder {
	b.cfg.respectRobotsTxt = v
	return b
}

func (b *Builder) WithUserAgent(ua string) *Builder {
	b.cfg.userAgent = ua
	return b
}

func (b *Builder) WithTimeout(d time.Duration) *Builder {
	b.cfg.timeout = d
	return b
}

func (b *Builder) WithMaxDepth(depth int) *Builder {
	b.cfg.maxDepth = depth
	return b
}

func (b *Builder) WithMaxConcurrent(n int) *Builder {
	b.cfg.maxConcurrent = n
	return b
}

func (b *Builder) WithRandomSeed(seed int64) *Builder {
	b.cfg.randomSeed = seed
	return b
}

// Build validates the accumulated configuration, returning ErrInvalidConfig
// wrapped with a reason when a required field is missing or malformed.
func (b *Builder) Build() (Config, error) {
	cfg := b.cfg

	if cfg.mode == ModeManual && len(cfg.manualURLs) == 0 {
		return Config{}, fmt.Errorf("%w: manualUrls required when mode=manual", ErrInvalidConfig)
	}
	if cfg.mode == ModeAuto && cfg.startURL == "" {
		return Config{}, fmt.Errorf("%w: startUrl required when mode=auto", ErrInvalidConfig)
	}
	if cfg.maxPages <= 0 {
		return Config{}, fmt.Errorf("%w: maxPages must be positive", ErrInvalidConfig)
	}
	if cfg.maxConcurrent <= 0 {
		cfg.maxConcurrent = defaultConcurrentRequests
	}

	return cfg, nil
}
