// Package categorize implements the Page Categorizer: a URL-only fast
// path followed by an LLM fallback, each page landing in a closed
// taxonomy that deterministically maps to an analysis level. No teacher
// module covers page categorization directly; the URL-pattern fast-path
// shape is grounded on the teacher's internal/extractor/selectors.go
// priority-ordered-selector idiom (try cheap checks in order before
// falling back to something expensive), generalized from CSS selectors
// to URL path regexes.
package categorize

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/aeoinsight/crawler/internal/llm"
	"github.com/aeoinsight/crawler/internal/model"
)

// AnalysisLevel controls how much rule evaluation a page receives.
type AnalysisLevel string

const (
	LevelFull     AnalysisLevel = "full"
	LevelPartial  AnalysisLevel = "partial"
	LevelLimited  AnalysisLevel = "limited"
	LevelExcluded AnalysisLevel = "excluded"
)

// taxonomy is the closed set of categories a page may be tagged with.
var taxonomy = map[model.PageType]AnalysisLevel{
	model.PageTypeHomepage:        LevelFull,
	model.PageTypeProductCategory: LevelFull,
	model.PageTypeProductDetail:   LevelFull,
	model.PageTypeBlogPost:        LevelFull,
	model.PageTypeHowToGuide:      LevelFull,
	model.PageTypeFAQ:             LevelPartial,
	model.PageTypeCaseStudy:       LevelFull,
	model.PageTypeComparison:      LevelFull,
	model.PageTypePricing:         LevelPartial,
	model.PageTypeAbout:           LevelPartial,
	model.PageTypeContact:         LevelPartial,
	model.PageTypeLegal:           LevelLimited,
	model.PageTypeError:           LevelExcluded,
	model.PageTypePrivate:         LevelExcluded,
	model.PageTypeUnknown:         LevelLimited,
}

// AnalysisLevelFor maps a page type to its analysis level deterministically.
func AnalysisLevelFor(pt model.PageType) AnalysisLevel {
	if level, ok := taxonomy[pt]; ok {
		return level
	}
	return LevelLimited
}

// Result is one categorization decision.
type Result struct {
	PageType   model.PageType
	Confidence float64
}

const fastPathThreshold = 0.9

var (
	errorPathPattern   = regexp.MustCompile(`(?i)^/(404|error)(/|$)`)
	privatePathPattern = regexp.MustCompile(`(?i)^/(login|signin|signup)(/|$)`)
)

// Categorizer assigns a PageType to a page, trying the URL-only fast
// path first and falling back to an LLM call over a compact content
// digest when the fast path doesn't match.
type Categorizer struct {
	llmClient llm.Client
}

func NewCategorizer(llmClient llm.Client) *Categorizer {
	return &Categorizer{llmClient: llmClient}
}

// FastPath applies the root/error/private URL heuristics. ok is false
// when none of the fast-path rules matched, signaling the caller should
// fall back to the LLM path.
func FastPath(path string) (Result, bool) {
	switch {
	case path == "" || path == "/":
		return Result{PageType: model.PageTypeHomepage, Confidence: 1.0}, true
	case errorPathPattern.MatchString(path):
		return Result{PageType: model.PageTypeError, Confidence: 0.95}, true
	case privatePathPattern.MatchString(path):
		return Result{PageType: model.PageTypePrivate, Confidence: 0.95}, true
	default:
		return Result{}, false
	}
}

var validCategories = map[string]model.PageType{
	"homepage":         model.PageTypeHomepage,
	"product-category": model.PageTypeProductCategory,
	"product-detail":   model.PageTypeProductDetail,
	"blog-post":        model.PageTypeBlogPost,
	"how-to-guide":     model.PageTypeHowToGuide,
	"faq":              model.PageTypeFAQ,
	"case-study":       model.PageTypeCaseStudy,
	"comparison":       model.PageTypeComparison,
	"pricing":          model.PageTypePricing,
	"about":            model.PageTypeAbout,
	"contact":          model.PageTypeContact,
	"legal":            model.PageTypeLegal,
	"error":            model.PageTypeError,
	"private":          model.PageTypePrivate,
}

// Categorize runs the fast path, then the LLM fallback using digest as
// the compact content summary. A malformed or out-of-taxonomy LLM
// response downgrades to "unknown" with confidence 0.5, per the spec.
func (c *Categorizer) Categorize(ctx context.Context, path, digest string) Result {
	if result, ok := FastPath(path); ok && result.Confidence >= fastPathThreshold {
		return result
	}

	if c.llmClient == nil {
		return Result{PageType: model.PageTypeUnknown, Confidence: 0.5}
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"category":   map[string]any{"type": "string"},
			"confidence": map[string]any{"type": "number"},
		},
	}
	prompt := "Classify the following page content digest into exactly one category from the taxonomy.\n\n" + digest

	value, err := c.llmClient.StructuredCall(ctx, prompt, schema, llm.CallOptions{Temperature: 0.1})
	if err != nil {
		return Result{PageType: model.PageTypeUnknown, Confidence: 0.5}
	}

	category, _ := value["category"].(string)
	pageType, known := validCategories[strings.ToLower(strings.TrimSpace(category))]
	if !known {
		return Result{PageType: model.PageTypeUnknown, Confidence: 0.5}
	}

	confidence, ok := value["confidence"].(float64)
	if !ok || confidence < 0 || confidence > 1 {
		confidence = 0.5
	}

	return Result{PageType: pageType, Confidence: confidence}
}

// ParseLLMJSON is a small helper for StubClient-backed tests that hand
// categorization a raw JSON string response rather than a decoded map.
func ParseLLMJSON(raw string) (map[string]any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
