package quality

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/scoringconfig"
)

func TestWordCountRuleThinContentScoresLow(t *testing.T) {
	rule := NewWordCountRule(scoringconfig.NewDefault())
	ctx := model.RuleContext{PageSignals: model.PageSignals{WordCount: 10}}

	result := rule.Evaluate(ctx)

	if result.Score != 25 {
		t.Fatalf("expected score 25, got %v", result.Score)
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %+v", result.Issues)
	}
}

func TestWordCountRuleComprehensiveContentScoresFull(t *testing.T) {
	rule := NewWordCountRule(scoringconfig.NewDefault())
	ctx := model.RuleContext{PageSignals: model.PageSignals{WordCount: 1200}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
