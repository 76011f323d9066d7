package authority

import (
	"testing"
	"time"

	"github.com/aeoinsight/crawler/internal/model"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestUpdateFrequencyRuleNoDateScoresZeroCritical(t *testing.T) {
	rule := NewUpdateFrequencyRule()
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{ModifiedDate: nil}}}

	result := rule.Evaluate(ctx)

	if result.Score != 0 {
		t.Fatalf("expected score 0, got %v", result.Score)
	}
	if len(result.Issues) != 1 || result.Issues[0].Severity != model.SeverityCritical {
		t.Fatalf("expected one critical issue, got %+v", result.Issues)
	}
}

func TestUpdateFrequencyRuleRecentScoresFull(t *testing.T) {
	now := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	rule := NewUpdateFrequencyRule()
	rule.now = fixedClock(now)
	modified := now.AddDate(0, 0, -30)
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{ModifiedDate: &modified}}}

	result := rule.Evaluate(ctx)

	if result.Score != 100 {
		t.Fatalf("expected score 100, got %v", result.Score)
	}
}

func TestUpdateFrequencyRuleStaleScoresPartial(t *testing.T) {
	now := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	rule := NewUpdateFrequencyRule()
	rule.now = fixedClock(now)
	modified := now.AddDate(0, 0, -200)
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{ModifiedDate: &modified}}}

	result := rule.Evaluate(ctx)

	if result.Score != 60 {
		t.Fatalf("expected score 60, got %v", result.Score)
	}
}

func TestUpdateFrequencyRuleOverAYearScoresLow(t *testing.T) {
	now := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	rule := NewUpdateFrequencyRule()
	rule.now = fixedClock(now)
	modified := now.AddDate(-2, 0, 0)
	ctx := model.RuleContext{PageContent: model.PageContent{Metadata: model.PageMetadata{ModifiedDate: &modified}}}

	result := rule.Evaluate(ctx)

	if result.Score != 40 || result.Passed {
		t.Fatalf("expected score 40 not passed, got %v passed=%v", result.Score, result.Passed)
	}
}
