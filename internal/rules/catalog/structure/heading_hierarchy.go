// Package structure holds the structure-dimension rule evaluators:
// heading hierarchy, list/table presence, and sentence length.
package structure

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// HeadingHierarchyRule scores a page on having exactly one H1 and no
// skipped heading levels. Unlike the page-extraction validator it is
// grounded on, a hierarchy violation here is a scored issue, not a hard
// extraction failure.
type HeadingHierarchyRule struct {
	common.Base
}

func NewHeadingHierarchyRule() *HeadingHierarchyRule {
	return &HeadingHierarchyRule{Base: common.NewBase("structure.heading_hierarchy", "Heading Hierarchy", rules.DimensionStructure, 30, 1.5, 2)}
}

func (r *HeadingHierarchyRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	signals := ctx.PageSignals

	if signals.H1Count == 0 {
		return rules.RuleResult{
			Score: 0, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "heading_hierarchy", Icon: rules.IconError, Message: "page has no H1"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityCritical,
				Description:    "missing H1",
				Recommendation: "add exactly one H1 summarizing the page",
			}},
		}
	}

	if signals.H1Count > 1 {
		return rules.RuleResult{
			Score: 50, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "heading_hierarchy", Icon: rules.IconWarning, Message: "page has more than one H1", Score: float64(signals.H1Count), Target: 1}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityMedium,
				Description:    "multiple H1 headings",
				Recommendation: "collapse to a single H1 and demote the rest to H2 or lower",
			}},
		}
	}

	if skipped := firstSkippedLevel(signals.HeadingTree); skipped > 0 {
		return rules.RuleResult{
			Score: 65, Weight: r.Weight(), MaxScore: 100, Passed: true,
			Evidence: []rules.EvidenceItem{{Topic: "heading_hierarchy", Icon: rules.IconWarning, Message: "heading level skipped in the hierarchy"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityLow,
				Description:    "heading levels are skipped",
				Recommendation: "nest headings without skipping a level (e.g. H2 to H4 without an H3)",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{Topic: "heading_hierarchy", Icon: rules.IconSuccess, Message: "single H1, no skipped levels"}},
	}
}

// firstSkippedLevel walks the tree depth-first and returns a nonzero level
// the first time a child's level jumps by more than one from its parent.
func firstSkippedLevel(nodes []model.HeadingNode) int {
	for _, n := range nodes {
		if level := checkChildren(n); level > 0 {
			return level
		}
	}
	return 0
}

func checkChildren(n model.HeadingNode) int {
	for _, child := range n.Children {
		if child.Level-n.Level > 1 {
			return child.Level
		}
		if level := checkChildren(child); level > 0 {
			return level
		}
	}
	return 0
}
