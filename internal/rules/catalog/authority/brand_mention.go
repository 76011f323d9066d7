// Package authority holds the authority-dimension rule evaluators: brand
// mention density, organization schema presence, and content freshness.
package authority

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// BrandMentionRule scores how often the project's brand name appears on
// the page, as a coarse proxy for whether the page actually represents
// the brand rather than merely mentioning it in passing.
type BrandMentionRule struct {
	common.Base
}

func NewBrandMentionRule() *BrandMentionRule {
	return &BrandMentionRule{Base: common.NewBase("authority.brand_mention", "Brand Mention", rules.DimensionAuthority, 20, 1.0, 1)}
}

func (r *BrandMentionRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	count := ctx.PageSignals.BrandMentionCount

	switch {
	case count == 0:
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "brand_mention", Icon: rules.IconError, Message: "brand name not mentioned on page"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "brand is never mentioned",
				Recommendation: "reference the brand by name at least once in the body content",
			}},
		}
	case count < 3:
		return rules.RuleResult{
			Score: 65, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "brand_mention", Icon: rules.IconWarning, Message: "brand mentioned only a handful of times", Score: float64(count), Target: 3}},
		}
	default:
		return rules.RuleResult{
			Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "brand_mention", Icon: rules.IconSuccess, Message: "brand mentioned consistently", Score: float64(count)}},
		}
	}
}
