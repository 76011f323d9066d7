package authority

import (
	"time"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// UpdateFrequencyRule scores how recently the page was last modified.
// Freshness is treated as an authority signal here rather than a quality
// one: a page that is visibly maintained reads as backed by an active,
// trustworthy source, independent of the prose itself.
type UpdateFrequencyRule struct {
	common.Base
	now func() time.Time
}

func NewUpdateFrequencyRule() *UpdateFrequencyRule {
	return &UpdateFrequencyRule{
		Base: common.NewBase("authority.update_frequency", "Update Frequency", rules.DimensionAuthority, 10, 0.75, 1),
		now:  time.Now,
	}
}

func (r *UpdateFrequencyRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	modified := ctx.PageContent.Metadata.ModifiedDate
	if modified == nil {
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "update_frequency", Icon: rules.IconError, Message: "no modified date found"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityCritical,
				Description:    "no last-modified signal",
				Recommendation: "expose a last-modified or dateModified value in page metadata",
			}},
		}
	}

	ageDays := r.now().Sub(*modified).Hours() / 24

	switch {
	case ageDays <= 90:
		return rules.RuleResult{
			Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "update_frequency", Icon: rules.IconSuccess, Message: "updated within the last 90 days", Score: ageDays, Target: 90}},
		}
	case ageDays <= 180:
		return rules.RuleResult{
			Score: 80, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "update_frequency", Icon: rules.IconSuccess, Message: "updated within the last 180 days", Score: ageDays, Target: 180}},
		}
	case ageDays <= 365:
		return rules.RuleResult{
			Score: 60, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "update_frequency", Icon: rules.IconWarning, Message: "updated within the last year", Score: ageDays, Target: 365}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityLow,
				Description:    "content is getting stale",
				Recommendation: "review and refresh the page at least once a year",
			}},
		}
	default:
		return rules.RuleResult{
			Score: 40, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "update_frequency", Icon: rules.IconWarning, Message: "not updated in over a year", Score: ageDays, Target: 365}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "content has not been updated in over a year",
				Recommendation: "schedule a content review; stale pages lose authority over time",
			}},
		}
	}
}
