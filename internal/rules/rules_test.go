package rules

import (
	"testing"

	"github.com/aeoinsight/crawler/internal/model"
)

type fakeRule struct {
	id            string
	dimension     Dimension
	priority      int
	weight        float64
	applicability Applicability
	result        RuleResult
}

func (f *fakeRule) ID() string                      { return f.id }
func (f *fakeRule) Name() string                    { return f.id }
func (f *fakeRule) Dimension() Dimension             { return f.dimension }
func (f *fakeRule) Priority() int                    { return f.priority }
func (f *fakeRule) Weight() float64                  { return f.weight }
func (f *fakeRule) ExecutionScope() ExecutionScope   { return ScopePage }
func (f *fakeRule) Applicability() Applicability     { return f.applicability }
func (f *fakeRule) ImpactScore() int                 { return 1 }
func (f *fakeRule) Evaluate(ctx model.RuleContext) RuleResult {
	return f.result
}

func TestRulesForDimensionSortsByPriorityDescending(t *testing.T) {
	reg := NewRegistry()
	low := &fakeRule{id: "low", dimension: DimensionTechnical, priority: 1, weight: 1, applicability: AllPages()}
	high := &fakeRule{id: "high", dimension: DimensionTechnical, priority: 10, weight: 1, applicability: AllPages()}
	reg.Register(low)
	reg.Register(high)

	matched := reg.RulesForDimension(DimensionTechnical, model.PageTypeBlogPost, "example.com")
	if len(matched) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(matched))
	}
	if matched[0].Rule.ID() != "high" || matched[1].Rule.ID() != "low" {
		t.Fatalf("expected high-priority rule first, got order %v", []string{matched[0].Rule.ID(), matched[1].Rule.ID()})
	}
}

func TestRulesForDimensionFiltersByApplicability(t *testing.T) {
	reg := NewRegistry()
	restricted := &fakeRule{
		id: "docs-only", dimension: DimensionStructure, priority: 1, weight: 1,
		applicability: Applicability{PageTypes: collectionSetOf(model.PageTypeHowToGuide)},
	}
	reg.Register(restricted)

	matchedDocs := reg.RulesForDimension(DimensionStructure, model.PageTypeHowToGuide, "example.com")
	if len(matchedDocs) != 1 {
		t.Fatalf("expected rule to apply to docs pages, got %d matches", len(matchedDocs))
	}

	matchedBlog := reg.RulesForDimension(DimensionStructure, model.PageTypeBlogPost, "example.com")
	if len(matchedBlog) != 0 {
		t.Fatalf("expected rule to NOT apply to blog pages, got %d matches", len(matchedBlog))
	}
}

func TestSetEnabledExcludesRuleFromResults(t *testing.T) {
	reg := NewRegistry()
	rule := &fakeRule{id: "r1", dimension: DimensionQuality, priority: 1, weight: 1, applicability: AllPages()}
	reg.Register(rule)

	reg.SetEnabled("r1", false)
	matched := reg.RulesForDimension(DimensionQuality, model.PageTypeBlogPost, "example.com")
	if len(matched) != 0 {
		t.Fatalf("expected disabled rule to be excluded, got %d matches", len(matched))
	}
}

func TestUpdateConfigOverridesWeight(t *testing.T) {
	reg := NewRegistry()
	rule := &fakeRule{id: "r1", dimension: DimensionAuthority, priority: 1, weight: 1, applicability: AllPages()}
	reg.Register(rule)

	override := 3.5
	reg.UpdateConfig("r1", &override)

	matched := reg.RulesForDimension(DimensionAuthority, model.PageTypeBlogPost, "example.com")
	if len(matched) != 1 || matched[0].Weight != 3.5 {
		t.Fatalf("expected overridden weight 3.5, got %+v", matched)
	}
}

func collectionSetOf(items ...model.PageType) map[model.PageType]struct{} {
	set := make(map[model.PageType]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
