package categorize

import (
	"context"
	"testing"

	"github.com/aeoinsight/crawler/internal/llm"
	"github.com/aeoinsight/crawler/internal/model"
)

func TestFastPathHomepage(t *testing.T) {
	result, ok := FastPath("/")
	if !ok || result.PageType != model.PageTypeHomepage || result.Confidence != 1.0 {
		t.Fatalf("expected homepage fast path, got %+v ok=%v", result, ok)
	}
}

func TestFastPathError(t *testing.T) {
	result, ok := FastPath("/404")
	if !ok || result.PageType != model.PageTypeError {
		t.Fatalf("expected error fast path, got %+v ok=%v", result, ok)
	}
}

func TestFastPathPrivate(t *testing.T) {
	result, ok := FastPath("/login")
	if !ok || result.PageType != model.PageTypePrivate {
		t.Fatalf("expected private fast path, got %+v ok=%v", result, ok)
	}
}

func TestFastPathMissNonMatchingPath(t *testing.T) {
	if _, ok := FastPath("/blog/my-post"); ok {
		t.Fatal("expected fast path to miss on an ordinary content path")
	}
}

func TestCategorizeFallsBackToLLM(t *testing.T) {
	parsed, err := ParseLLMJSON(`{"category": "blog-post", "confidence": 0.8}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client := &llm.StubClient{Response: parsed}
	cat := NewCategorizer(client)

	result := cat.Categorize(context.Background(), "/blog/my-post", "digest text")
	if result.PageType != model.PageTypeBlogPost || result.Confidence != 0.8 {
		t.Fatalf("expected blog-post@0.8, got %+v", result)
	}
}

func TestCategorizeDowngradesOnUnknownCategory(t *testing.T) {
	parsed, _ := ParseLLMJSON(`{"category": "spaceship", "confidence": 0.9}`)
	client := &llm.StubClient{Response: parsed}
	cat := NewCategorizer(client)

	result := cat.Categorize(context.Background(), "/weird/page", "digest text")
	if result.PageType != model.PageTypeUnknown || result.Confidence != 0.5 {
		t.Fatalf("expected unknown@0.5 downgrade, got %+v", result)
	}
}

func TestAnalysisLevelExcludesErrorAndPrivate(t *testing.T) {
	if AnalysisLevelFor(model.PageTypeError) != LevelExcluded {
		t.Fatal("expected error pages to be excluded")
	}
	if AnalysisLevelFor(model.PageTypePrivate) != LevelExcluded {
		t.Fatal("expected private pages to be excluded")
	}
	if AnalysisLevelFor(model.PageTypeHomepage) != LevelFull {
		t.Fatal("expected homepage to get full analysis")
	}
}
