// Package pagesignals builds the PageSignals pre-extracted structural
// features every rule evaluation shares (§4.10 step 3): word count,
// heading tree, H1 text/count, schema types, list/table counts,
// sentence-length stats, brand mention count. Grounded on the teacher's
// internal/normalize.validateStructure (gomarkdown AST walk collecting
// headings and classifying node kinds), repointed from a structural
// *validator* to a structural *feature extractor*, with a BLAKE3
// fingerprint cache (pkg/hashutil.FastFingerprint) keyed off cleanContent
// so an unchanged re-crawl's signals are never recomputed.
package pagesignals

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/pkg/hashutil"
)

// Builder computes PageSignals from a page's clean content, caching by
// content fingerprint so repeated builds against unchanged pages are free.
type Builder struct {
	mu    sync.Mutex
	cache map[string]model.PageSignals
}

func NewBuilder() *Builder {
	return &Builder{cache: make(map[string]model.PageSignals)}
}

// Build returns the PageSignals for content, reusing a cached result when
// content.CleanContent's fingerprint was seen before.
func (b *Builder) Build(content model.PageContent, project model.ProjectContext) model.PageSignals {
	fingerprint := hashutil.FastFingerprint([]byte(content.CleanContent))

	b.mu.Lock()
	if cached, ok := b.cache[fingerprint]; ok {
		b.mu.Unlock()
		return cached
	}
	b.mu.Unlock()

	signals := compute(content, project)

	b.mu.Lock()
	b.cache[fingerprint] = signals
	b.mu.Unlock()
	return signals
}

type flatHeading struct {
	level int
	text  string
}

var sentenceSplitter = regexp.MustCompile(`[.!?]+(\s+|$)`)

func compute(content model.PageContent, project model.ProjectContext) model.PageSignals {
	source := []byte(content.CleanContent)
	doc := markdown.Parse(source, parser.New())

	var headings []flatHeading
	var listCount, tableCount int
	var textParts []string

	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			headings = append(headings, flatHeading{level: n.Level, text: headingText(n)})
		case *ast.List:
			listCount++
		case *ast.Table:
			tableCount++
		case *ast.Text:
			textParts = append(textParts, string(n.Literal))
		}
		return ast.GoToNext
	})

	fullText := strings.Join(textParts, " ")
	if fullText == "" {
		fullText = content.CleanContent
	}

	wordCount := len(strings.Fields(fullText))

	var h1Text string
	h1Count := 0
	for _, h := range headings {
		if h.level == 1 {
			h1Count++
			if h1Text == "" {
				h1Text = h.text
			}
		}
	}

	var schemaTypes []string
	for _, block := range content.Metadata.Schema {
		if t, ok := block["@type"].(string); ok && t != "" {
			schemaTypes = append(schemaTypes, t)
		}
	}

	return model.PageSignals{
		WordCount:         wordCount,
		HeadingTree:       buildHeadingTree(headings),
		H1Text:            h1Text,
		H1Count:           h1Count,
		SchemaTypes:       schemaTypes,
		ListCount:         listCount,
		TableCount:        tableCount,
		AvgSentenceLength: avgSentenceLength(fullText),
		BrandMentionCount: brandMentionCount(fullText, project.BrandName),
	}
}

func headingText(h *ast.Heading) string {
	var b strings.Builder
	ast.WalkFunc(h, func(node ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := node.(*ast.Text); ok {
				b.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})
	return strings.TrimSpace(b.String())
}

// buildNode is a heap-allocated intermediate used while nesting headings,
// so the parent stack can hold stable pointers while sibling slices grow
// (appending to a []model.HeadingNode directly would invalidate any
// pointer taken into it on reallocation).
type buildNode struct {
	level    int
	text     string
	children []*buildNode
}

// buildHeadingTree nests a flat, document-order heading list by level
// using a parent stack: each heading becomes a child of the most recent
// heading with a strictly lower level, or a root node otherwise.
func buildHeadingTree(flat []flatHeading) []model.HeadingNode {
	if len(flat) == 0 {
		return nil
	}

	var roots []*buildNode
	var stack []*buildNode

	for _, h := range flat {
		node := &buildNode{level: h.level, text: h.text}

		for len(stack) > 0 && stack[len(stack)-1].level >= h.level {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		stack = append(stack, node)
	}

	return toHeadingNodes(roots)
}

func toHeadingNodes(nodes []*buildNode) []model.HeadingNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]model.HeadingNode, len(nodes))
	for i, n := range nodes {
		out[i] = model.HeadingNode{
			Level:    n.level,
			Text:     n.text,
			Children: toHeadingNodes(n.children),
		}
	}
	return out
}

func avgSentenceLength(text string) float64 {
	sentences := sentenceSplitter.Split(text, -1)
	var total, count int
	for _, s := range sentences {
		words := strings.Fields(s)
		if len(words) == 0 {
			continue
		}
		total += len(words)
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func brandMentionCount(text, brandName string) int {
	if brandName == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(brandName))
}
