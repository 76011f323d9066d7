package authority

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

func TestStructuredDataOrgRuleAbsentScoresPartial(t *testing.T) {
	rule := NewStructuredDataOrgRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{SchemaTypes: []string{"Article"}}}

	result := rule.Evaluate(ctx)

	if result.Score != 30 {
		t.Fatalf("expected score 30, got %v", result.Score)
	}
}

func TestStructuredDataOrgRulePresentScoresFull(t *testing.T) {
	rule := NewStructuredDataOrgRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{SchemaTypes: []string{"Article", "Organization"}}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
