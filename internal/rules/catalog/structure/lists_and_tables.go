package structure

import (
	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/rules"
	"github.com/aeoinsight/crawler/internal/rules/catalog/common"
)

// ListsAndTablesRule rewards pages that break content into lists or
// tables instead of a single wall of prose, since scannable structure is
// both a readability and an extraction-friendliness signal.
type ListsAndTablesRule struct {
	common.Base
}

func NewListsAndTablesRule() *ListsAndTablesRule {
	return &ListsAndTablesRule{Base: common.NewBase("structure.lists_and_tables", "Lists and Tables", rules.DimensionStructure, 20, 1.0, 1)}
}

func (r *ListsAndTablesRule) Evaluate(ctx model.RuleContext) rules.RuleResult {
	signals := ctx.PageSignals
	total := signals.ListCount + signals.TableCount

	if total == 0 {
		return rules.RuleResult{
			Score: 40, Weight: r.Weight(), MaxScore: 100,
			Evidence: []rules.EvidenceItem{{Topic: "lists_and_tables", Icon: rules.IconWarning, Message: "no lists or tables found"}},
			Issues: []rules.RuleIssue{{
				Severity:       model.SeverityLow,
				Description:    "content has no lists or tables",
				Recommendation: "break up dense prose with lists or tables where it fits the content",
			}},
		}
	}

	return rules.RuleResult{
		Score: 100, Weight: r.Weight(), MaxScore: 100, Passed: true,
		Evidence: []rules.EvidenceItem{{
			Topic: "lists_and_tables", Icon: rules.IconSuccess,
			Message: "page uses lists or tables", Score: float64(total),
		}},
	}
}
