package technical

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

func TestTitleTagRuleMissingTitleScoresZero(t *testing.T) {
	rule := NewTitleTagRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{Title: ""}}}

	result := rule.Evaluate(ctx)

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %v", result.Score)
	}
	if len(result.Issues) != 1 || result.Issues[0].Severity != model.SeverityCritical {
		t.Fatalf("expected one critical issue, got %+v", result.Issues)
	}
}

func TestTitleTagRuleOutOfRangeLengthScoresPartial(t *testing.T) {
	rule := NewTitleTagRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{Title: "Hi"}}}

	result := rule.Evaluate(ctx)

	if result.Score != 60 {
		t.Fatalf("expected score 60, got %v", result.Score)
	}
}

func TestTitleTagRuleWellSizedTitleScoresFull(t *testing.T) {
	rule := NewTitleTagRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{Title: "Acme Widgets: Buy Durable Gadgets Online Today"}}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
