package technical

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

const (
	descriptionMinLen = 50
	descriptionMaxLen = 160
)

// MetaDescriptionRule scores the page's meta description on presence and
// length, the same way search snippets are judged.
type MetaDescriptionRule struct {
	common.Base
}

func NewMetaDescriptionRule() *MetaDescriptionRule {
	return &MetaDescriptionRule{Base: common.NewBase("technical.meta_description", "Meta Description", rules.DimensionTechnical, 25, 1.0, 1)}
}

func (r *MetaDescriptionRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	description := ctx.PageContent.Metadata.Description

	if description == "" {
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "meta_description", Icon: rules.IconError, Message: "page has no meta description"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityHigh,
				Description:    "missing meta description",
				Recommendation: "add a meta description between 50 and 160 characters",
			}},
		}
	}

	length := len(description)
	if length < descriptionMinLen || length > descriptionMaxLen {
		return rules.RuleResult{
			Score: 60, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{
				Topic: "meta_description", Icon: rules.IconWarning,
				Message: "description length outside the recommended range", Score: float64(length), Target: descriptionMaxLen,
			}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "meta description length is suboptimal",
				Recommendation: "aim for a description between 50 and 160 characters",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{Topic: "meta_description", Icon: rules.IconSuccess, Message: "description present and well sized"}},
	}
}
