package structure

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

func TestListsAndTablesRuleNoneScoresPartial(t *testing.T) {
	rule := NewListsAndTablesRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{ListCount: 0, TableCount: 0}}

	result := rule.Evaluate(ctx)

	if result.Score != 40 {
		t.Fatalf("expected score 40, got %v", result.Score)
	}
}

func TestListsAndTablesRulePresentScoresFull(t *testing.T) {
	rule := NewListsAndTablesRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{ListCount: 2, TableCount: 1}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
