// Package quality holds the quality-dimension rule evaluators: word count
// and content depth.
package quality

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
	"github.com/aeoinsight/crawler/internal/scoringconfig"
)

// WordCountRule scores body word count against the configured quality
// thresholds rather than a fixed band, so operators can retune what
// counts as thin content without a code change.
type WordCountRule struct {
	common.Base
	cfg *scoringconfig.Config
}

func NewWordCountRule(cfg *scoringconfig.Config) *WordCountRule {
	return &WordCountRule{
		Base: common.NewBase("quality.word_count", "Word Count", rules.DimensionQuality, 20, 1.0, 2),
		cfg:  cfg,
	}
}

func (r *WordCountRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	wordCount := ctx.PageSignals.WordCount

	score, ok := r.cfg.ScoreForValue("quality", float64(wordCount))
	if !ok {
		score = 0
	}

	result := rules.RuleResult{
		Score: float64(score), Weight: r.Weight(), MaxScore: 100, Passed: score >= 65,
		Evidence: []rules.EvidenceItem{{Topic: "word_count", Icon: iconFor(score), Message: "body word count scored against configured thresholds", Score: float64(wordCount)}},
	}

	if score < 65 {
		result.Issues = []rules.RuleIssue{{
			Severity:       severityFor(score),
			Description:    "content is thinner than the configured quality threshold",
			Recommendation: "expand the body content with more substantive, on-topic detail",
		}}
	}

	return result
}

func iconFor(score int) rules.EvidenceIcon {
	if score >= 65 {
		return rules.IconSuccess
	}
	return rules.IconWarning
}

func severityFor(score int) model.IssueSeverity {
	if score < 30 {
		return model.SeverityHigh
	}
	return model.SeverityMedium
}
