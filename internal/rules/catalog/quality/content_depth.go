package quality

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// ContentDepthRule scores how deeply the page's heading tree is nested,
// as a proxy for whether the content actually subdivides a topic or just
// presents one flat block under a single heading.
type ContentDepthRule struct {
	common.Base
}

func NewContentDepthRule() *ContentDepthRule {
	return &ContentDepthRule{Base: common.NewBase("quality.content_depth", "Content Depth", rules.DimensionQuality, 10, 0.5, 1)}
}

func (r *ContentDepthRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	depth := maxDepth(ctx.PageSignals.HeadingTree, 0)

	switch {
	case depth <= 1:
		return rules.RuleResult{
			Score: 40, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "content_depth", Icon: rules.IconWarning, Message: "content is flat, no subsections", Score: float64(depth)}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityLow,
				Description:    "content lacks subsections",
				Recommendation: "break the topic into subsections with nested headings",
			}},
		}
	case depth == 2:
		return rules.RuleResult{
			Score: 75, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "content_depth", Icon: rules.IconSuccess, Message: "content has one level of subsections", Score: float64(depth)}},
		}
	default:
		return rules.RuleResult{
			Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "content_depth", Icon: rules.IconSuccess, Message: "content is organized into nested subsections", Score: float64(depth)}},
		}
	}
}

// maxDepth returns the number of heading levels reachable from nodes,
// counting the root level as depth 1.
func maxDepth(nodes []model.HeadingNode, current int) int {
	if len(nodes) == 0 {
		return current
	}
	best := current + 1
	for _, n := range nodes {
		if d := maxDepth(n.Children, current+1); d > best {
			best = d
		}
	}
	return best
}
