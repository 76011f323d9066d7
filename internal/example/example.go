// Package example wires the Crawl Orchestrator and the Analysis Pipeline
// together into one callable entry point, for integration tests to
// exercise end to end without a CLI. The CLI/service surface is
// explicitly out of scope (§1), so this is plain Go, not a cobra command.
package example

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aeoinsight/crawler/internal/build"
	"github.com/aeoinsight/crawler/internal/categorize"
	"github.com/aeoinsight/crawler/internal/config"
	"github.com/aeoinsight/crawler/internal/crawl"
	"github.com/aeoinsight/crawler/internal/llm"
	"github.com/aeoinsight/crawler/internal/mdconvert"
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/pageextract"
	"github.com/aeoinsight/crawler/internal/pagesignals"
	"github.com/aeoinsight/crawler/internal/pipeline"
	"github.com/aeoinsight/crawler/internal/ratelimit"
	"github.com/aeoinsight/crawler/internal/repository"
	"github.com/aeoinsight/crawler/internal/robots"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog"
	"github.com/aeoinsight/crawler/internal/scoringconfig"
	"github.com/aeoinsight/crawler/internal/telemetry"
)

// Result is what RunSampleCrawlAndAnalyze hands back for a caller to
// inspect: the final crawl progress plus the backing repository, so a
// test can pull individual ContentScore rows.
type Result struct {
	Progress model.Progress
	Repo     repository.Repository
}

// RunSampleCrawlAndAnalyze crawls projectID starting from startURL using
// cfg, then runs the Analysis Pipeline over every page the crawl
// produced, using an in-memory Repository and a no-op LLM client. It is
// the smallest wiring that exercises Orchestrator -> Pipeline end to end.
func RunSampleCrawlAndAnalyze(ctx context.Context, projectID string, cfg config.Config, project model.ProjectContext) (Result, error) {
	repo := repository.NewInMemoryRepository()
	emitter := telemetry.NewChannelEmitter(256)
	sink := telemetry.NewRecorder("example")

	userAgent := cfg.UserAgent()
	if userAgent == "" {
		userAgent = fmt.Sprintf("aeoinsight-crawler/%s", build.FullVersion())
	}

	httpClient := &http.Client{Timeout: cfg.Timeout()}
	limiter := ratelimit.New(cfg.MaxConcurrent(), cfg.CrawlDelay(), cfg.RandomSeed())
	extractor := pageextract.NewExtractor(httpClient, limiter, sink, userAgent, cfg.RandomSeed())
	robotsPolicy := robots.NewPolicy(userAgent, sink)

	session := crawl.NewCrawlSession(cfg, crawl.Deps{
		Robots:    robotsPolicy,
		Extractor: extractor,
		Sitemap:   crawl.NewHTTPSitemapDiscoverer(httpClient),
		Repo:      repo,
		Emitter:   emitter,
		Sink:      sink,
	})

	if err := session.Run(ctx, projectID); err != nil {
		return Result{Progress: session.Progress(), Repo: repo}, fmt.Errorf("crawl: %w", err)
	}

	registry := rules.NewRegistry()
	scoringCfg := scoringconfig.NewDefault()
	catalog.RegisterAll(registry, scoringCfg)

	analysisPipeline := pipeline.New(pipeline.Deps{
		Repo:        repo,
		Registry:    registry,
		Categorizer: categorize.NewCategorizer(&llm.StubClient{}),
		Signals:     pagesignals.NewBuilder(),
		Converter:   mdconvert.NewConverter(),
		ScoringCfg:  scoringCfg,
		Emitter:     emitter,
		Sink:        sink,
	})

	if err := analysisPipeline.RunBatch(ctx, projectID, project); err != nil {
		return Result{Progress: session.Progress(), Repo: repo}, fmt.Errorf("analyze: %w", err)
	}

	return Result{Progress: session.Progress(), Repo: repo}, nil
}
