// Package technical holds the technical-dimension rule evaluators: title
// tag, meta description, and canonical URL presence/quality checks.
package technical

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

const (
	titleMinLen = 10
	titleMaxLen = 60
)

// TitleTagRule scores the page's <title> on presence and length, since an
// absent or badly sized title is one of the most visible technical faults.
type TitleTagRule struct {
	common.Base
}

func NewTitleTagRule() *TitleTagRule {
	return &TitleTagRule{Base: common.NewBase("technical.title_tag", "Title Tag", rules.DimensionTechnical, 30, 1.0, 2)}
}

func (r *TitleTagRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	title := ctx.PageContent.Metadata.Title

	if title == "" {
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "title", Icon: rules.IconError, Message: "page has no <title>"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityCritical,
				Description:    "missing title tag",
				Recommendation: "add a descriptive <title> between 10 and 60 characters",
			}},
		}
	}

	length := len(title)
	if length < titleMinLen || length > titleMaxLen {
		return rules.RuleResult{
			Score: 60, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{
				Topic: "title", Icon: rules.IconWarning,
				Message: "title length outside the recommended range", Score: float64(length), Target: titleMaxLen,
			}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "title length is suboptimal",
				Recommendation: "aim for a title between 10 and 60 characters",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{Topic: "title", Icon: rules.IconSuccess, Message: "title present and well sized"}},
	}
}
