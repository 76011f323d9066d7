package structure

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

func TestSentenceLengthRuleZeroScoresZero(t *testing.T) {
	rule := NewSentenceLengthRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{AvgSentenceLength: 0}}

	result := rule.Evaluate(ctx)

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %v", result.Score)
	}
}

func TestSentenceLengthRuleTooLongScoresPartial(t *testing.T) {
	rule := NewSentenceLengthRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{AvgSentenceLength: 35}}

	result := rule.Evaluate(ctx)

	if result.Score != 60 {
		t.Fatalf("expected score 60, got %v", result.Score)
	}
}

func TestSentenceLengthRuleWithinBandScoresFull(t *testing.T) {
	rule := NewSentenceLengthRule()
	ctx := model.RuleContext{PageSignals: model.PageSignals{AvgSentenceLength: 14}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 || !result.Passed {
		t.Fatalf("expected score 100 passed, got %v passed=%v", result.Score, result.Passed)
	}
}
