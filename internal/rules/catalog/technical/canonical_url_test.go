package technical

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

func TestCanonicalURLRuleMissingScoresPartial(t *testing.T) {
	rule := NewCanonicalURLRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{CanonicalURL: ""}}}

	result := rule.Evaluate(ctx)

	if result.Score != 40 || result.Passed {
		t.Fatalf("expected score 40 not passed, got %v passed=%v", result.Score, result.Passed)
	}
}

func TestCanonicalURLRulePresentScoresFull(t *testing.T) {
	rule := NewCanonicalURLRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{CanonicalURL: "https://example.com/page"}}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
