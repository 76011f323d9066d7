// Package pipeline implements the Analysis Pipeline (§4.10): for each
// unprocessed CrawledPage in a project batch, categorize, build
// PageSignals, run every applicable rule per dimension, aggregate, and
// upsert the resulting ContentScore. Grounded on the teacher's
// internal/scheduler.ExecuteCrawling main-loop shape (one driving loop,
// per-item failure isolation, a single collaborator bundle threaded
// through), repointed from fetch-and-store to categorize-score-and-store.
package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/aeoinsight/crawler/internal/aggregate"
	"github.com/aeoinsight/crawler/internal/categorize"
	"github.com/aeoinsight/crawler/internal/mdconvert"
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/pageextract"
	"github.com/aeoinsight/crawler/internal/pagesignals"
	"github.com/aeoinsight/crawler/internal/repository"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/scoringconfig"
	"github.com/aeoinsight/crawler/internal/telemetry"
)

// excludedDetailsKey marks a ContentScore as the distinguished zero-scored
// record produced for an excluded-category page (§8 testable property 9).
const excludedDetailsKey = "excluded"

// Deps bundles the Analysis Pipeline's collaborators.
type Deps struct {
	Repo        repository.Repository
	Registry    *rules.Registry
	Categorizer *categorize.Categorizer
	Signals     *pagesignals.Builder
	Converter   *mdconvert.Converter
	ScoringCfg  *scoringconfig.Config
	Emitter     telemetry.EventEmitter
	Sink        telemetry.MetadataSink
}

// Pipeline runs the analysis batch for one project.
type Pipeline struct {
	deps Deps
}

func New(deps Deps) *Pipeline {
	return &Pipeline{deps: deps}
}

// RunBatch analyzes every unprocessed page for projectID. A single
// page's analysis failure is isolated and logged; the batch continues.
// A Repository failure, by contrast, propagates and aborts the batch per
// §7's explicit carve-out, emitting analyzer.failed.
func (p *Pipeline) RunBatch(ctx context.Context, projectID string, project model.ProjectContext) error {
	pages := p.deps.Repo.UnprocessedPages(projectID)

	p.emit(telemetry.TopicAnalyzerStarted, projectID, map[string]any{"total": len(pages)})

	analyzed := 0
	for _, page := range pages {
		if err := p.analyzeOne(ctx, projectID, project, page); err != nil {
			if isRepositoryFailure(err) {
				p.emit(telemetry.TopicAnalyzerFailed, projectID, map[string]any{"error": err.Error()})
				return err
			}
			p.recordFailure(projectID, page.URL, err)
			continue
		}
		analyzed++
		p.emit(telemetry.TopicAnalyzerProgress, projectID, map[string]any{"analyzed": analyzed, "total": len(pages)})
	}

	p.emit(telemetry.TopicAnalyzerCompleted, projectID, map[string]any{"analyzed": analyzed, "total": len(pages)})
	return nil
}

// repositoryFailure wraps any error returned by a Repository call so
// RunBatch can distinguish it from an ordinary per-page analysis failure.
type repositoryFailure struct{ err error }

func (r repositoryFailure) Error() string { return r.err.Error() }
func (r repositoryFailure) Unwrap() error { return r.err }

func isRepositoryFailure(err error) bool {
	_, ok := err.(repositoryFailure)
	return ok
}

func (p *Pipeline) analyzeOne(ctx context.Context, projectID string, project model.ProjectContext, page model.CrawledPage) error {
	content, pageType, err := p.buildPageContent(page)
	if err != nil {
		return fmt.Errorf("build page content: %w", err)
	}

	digest := content.CleanContent
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(page.HTML)); docErr == nil {
		digest = pageextract.CleanContentDigest(doc, []byte(page.HTML))
	}
	categorization := p.deps.Categorizer.Categorize(ctx, pagePath(page.URL), digest)
	content.PageType = categorization.PageType

	if categorize.AnalysisLevelFor(categorization.PageType) == categorize.LevelExcluded {
		return p.upsertExcluded(projectID, page.URL)
	}

	signals := p.deps.Signals.Build(content, project)

	dimensions := model.DimensionScores{}
	var allIssues []model.Issue
	details := map[string]any{}

	for _, dim := range []rules.Dimension{rules.DimensionTechnical, rules.DimensionStructure, rules.DimensionAuthority, rules.DimensionQuality} {
		domain := pageDomain(page.URL)
		effectiveRules := p.deps.Registry.RulesForDimension(dim, content.PageType, domain)

		outcomes := make([]aggregate.RuleOutcome, 0, len(effectiveRules))
		for _, er := range effectiveRules {
			ruleCtx := model.RuleContext{PageContent: content, PageSignals: signals, ProjectContext: project}
			result := p.evaluateRuleSafely(er, ruleCtx)
			result.Weight = er.Weight
			outcomes = append(outcomes, aggregate.RuleOutcome{RuleID: er.Rule.ID(), Priority: er.Rule.Priority(), Result: result})
		}

		dimResult := aggregate.DimensionScore(string(dim), outcomes)
		setDimensionScore(&dimensions, dim, float64(dimResult.Score))
		allIssues = append(allIssues, dimResult.Issues...)
		details[string(dim)] = dimResult.Contributions
	}

	globalScore := aggregate.GlobalScore(dimensions, dimensionWeights(p.deps.ScoringCfg))

	score := model.ContentScore{
		Dimensions:          dimensions,
		GlobalScore:         float64(globalScore),
		Details:             details,
		Issues:              allIssues,
		AnalyzedAt:          time.Now(),
		ScoringRulesVersion: p.deps.ScoringCfg.Version(),
	}

	if err := p.deps.Repo.UpsertContentScore(projectID, page.URL, score); err != nil {
		return repositoryFailure{err}
	}
	if err := p.deps.Repo.MarkProcessed(projectID, page.URL); err != nil {
		return repositoryFailure{err}
	}

	p.emit(telemetry.TopicAnalyzerPageAnalyzed, projectID, map[string]any{"url": page.URL, "globalScore": globalScore})
	return nil
}

// evaluateRuleSafely isolates a single rule's panic or misbehavior per
// §7 ("Rule evaluation failure... contribute 0 to the dimension, log,
// continue with other rules") since Rule.Evaluate carries no error
// return of its own.
func (p *Pipeline) evaluateRuleSafely(er rules.EffectiveRule, ctx model.RuleContext) (result rules.RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			if p.deps.Sink != nil {
				p.deps.Sink.RecordError(telemetry.ErrorRecord{
					At:      time.Now(),
					Stage:   "pipeline",
					Method:  "evaluateRuleSafely",
					Cause:   telemetry.CauseUnknown,
					Message: fmt.Sprintf("rule %s panicked: %v", er.Rule.ID(), r),
				})
			}
			result = rules.RuleResult{
				Score: 0, Weight: er.Weight, MaxScore: 100,
				Evidence: []rules.EvidenceItem{{Topic: er.Rule.ID(), Icon: rules.IconError, Message: "rule evaluation failed"}},
			}
		}
	}()
	return er.Rule.Evaluate(ctx)
}

func (p *Pipeline) upsertExcluded(projectID, url string) error {
	score := model.ContentScore{
		Dimensions:  model.DimensionScores{},
		GlobalScore: 0,
		Details:     map[string]any{excludedDetailsKey: true},
		AnalyzedAt:  time.Now(),
	}
	if err := p.deps.Repo.UpsertContentScore(projectID, url, score); err != nil {
		return repositoryFailure{err}
	}
	if err := p.deps.Repo.MarkProcessed(projectID, url); err != nil {
		return repositoryFailure{err}
	}
	p.emit(telemetry.TopicAnalyzerPageAnalyzed, projectID, map[string]any{"url": url, "excluded": true})
	return nil
}

// buildPageContent isolates the page's main content node, renders it to
// Markdown, and returns a PageContent with PageType left unset (the
// caller fills it in once categorization runs).
func (p *Pipeline) buildPageContent(page model.CrawledPage) (model.PageContent, model.PageType, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return model.PageContent{}, model.PageTypeUnknown, err
	}

	mainNode := pageextract.IsolateContent(doc, []byte(page.HTML))
	var htmlNode *html.Node
	if mainNode != nil && mainNode.Length() > 0 {
		htmlNode = mainNode.Get(0)
	}

	clean, convErr := p.deps.Converter.Convert(htmlNode)
	if convErr != nil {
		clean = mainNode.Text()
	}

	return model.PageContent{
		HTML:         page.HTML,
		CleanContent: clean,
		Metadata:     page.Metadata,
	}, model.PageTypeUnknown, nil
}

func (p *Pipeline) recordFailure(projectID, url string, err error) {
	if p.deps.Sink == nil {
		return
	}
	p.deps.Sink.RecordError(telemetry.ErrorRecord{
		At:      time.Now(),
		Stage:   "pipeline",
		Method:  "analyzeOne",
		Cause:   telemetry.CauseUnknown,
		Message: err.Error(),
		Attrs:   []telemetry.Attribute{telemetry.NewAttr("projectId", projectID), telemetry.NewAttr("url", url)},
	})
}

func (p *Pipeline) emit(topic, projectID string, payload map[string]any) {
	if p.deps.Emitter == nil {
		return
	}
	payload["projectId"] = projectID
	p.deps.Emitter.Emit(telemetry.NewEvent(topic, payload))
}

func setDimensionScore(d *model.DimensionScores, dim rules.Dimension, score float64) {
	switch dim {
	case rules.DimensionTechnical:
		d.Technical = score
	case rules.DimensionStructure:
		d.Structure = score
	case rules.DimensionAuthority:
		d.Authority = score
	case rules.DimensionQuality:
		d.Quality = score
	}
}

func pagePath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Path
}

func pageDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func dimensionWeights(cfg *scoringconfig.Config) aggregate.GlobalWeights {
	return aggregate.GlobalWeights{
		Technical: cfg.Weight("technical"),
		Structure: cfg.Weight("structure"),
		Authority: cfg.Weight("authority"),
		Quality:   cfg.Weight("quality"),
	}
}
