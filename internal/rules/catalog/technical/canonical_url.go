package technical

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// CanonicalURLRule scores whether the page declares a canonical URL,
// guarding against duplicate-content dilution across parameterized or
// trailing-slash variants of the same page.
type CanonicalURLRule struct {
	common.Base
}

func NewCanonicalURLRule() *CanonicalURLRule {
	return &CanonicalURLRule{Base: common.NewBase("technical.canonical_url", "Canonical URL", rules.DimensionTechnical, 15, 0.5, 1)}
}

func (r *CanonicalURLRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	canonical := ctx.PageContent.Metadata.CanonicalURL

	if canonical == "" {
		return rules.RuleResult{
			Score: 40, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "canonical_url", Icon: rules.IconWarning, Message: "no canonical URL declared"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "missing canonical URL",
				Recommendation: "add a <link rel=\"canonical\"> pointing at the preferred URL for this page",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{Topic: "canonical_url", Icon: rules.IconSuccess, Message: "canonical URL declared"}},
	}
}
