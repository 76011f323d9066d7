package pageextract

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aeoinsight/crawler/internal/model"
)

// dateLayouts is tried in order: RFC3339 first, then an ISO date and the
// regional formats a documentation or marketing site commonly uses in
// visible "Last updated" text.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02 Jan 2006",
	"01/02/2006",
	"02/01/2006",
}

func parseDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil && !t.IsZero() {
			return &t
		}
	}
	return nil
}

// firstMatch returns the trimmed text/attr content of the first selector
// (in order) that yields a non-empty value.
func firstMatch(doc *goquery.Document, selectors []metaSelector) string {
	for _, sel := range selectors {
		var val string
		if sel.attr != "" {
			val, _ = doc.Find(sel.css).First().Attr(sel.attr)
		} else {
			val = doc.Find(sel.css).First().Text()
		}
		val = strings.TrimSpace(val)
		if val != "" {
			return val
		}
	}
	return ""
}

// firstParsedDate walks selectors in priority order and returns the first
// candidate that actually parses, not merely the first non-empty one — a
// higher-priority selector whose text isn't a date we recognize must not
// shadow a later selector that holds a valid one.
func firstParsedDate(doc *goquery.Document, selectors []metaSelector) *time.Time {
	for _, sel := range selectors {
		var val string
		if sel.attr != "" {
			val, _ = doc.Find(sel.css).First().Attr(sel.attr)
		} else {
			val = doc.Find(sel.css).First().Text()
		}
		if t := parseDate(val); t != nil {
			return t
		}
	}
	return nil
}

type metaSelector struct {
	css  string
	attr string
}

var titleSelectors = []metaSelector{
	{css: "title"},
	{css: `meta[property="og:title"]`, attr: "content"},
	{css: `meta[name="twitter:title"]`, attr: "content"},
}

var descriptionSelectors = []metaSelector{
	{css: `meta[name="description"]`, attr: "content"},
	{css: `meta[property="og:description"]`, attr: "content"},
	{css: `meta[name="twitter:description"]`, attr: "content"},
}

var authorSelectors = []metaSelector{
	{css: `meta[name="author"]`, attr: "content"},
	{css: `meta[property="article:author"]`, attr: "content"},
	{css: `[rel="author"]`},
	{css: ".author-name"},
	{css: ".by-author"},
}

var publishDateSelectors = []metaSelector{
	{css: `meta[property="article:published_time"]`, attr: "content"},
	{css: `meta[name="publish-date"]`, attr: "content"},
	{css: `meta[name="date"]`, attr: "content"},
	{css: "time[datetime]", attr: "datetime"},
	{css: ".published-date"},
}

var modifiedDateSelectors = []metaSelector{
	{css: `meta[property="article:modified_time"]`, attr: "content"},
	{css: `meta[name="last-modified"]`, attr: "content"},
	{css: ".updated-date"},
	{css: ".last-updated"},
}

// htmlCommentPattern matches HTML comments, which are stripped from a
// trimmed JSON-LD block before extractJSONRegion isolates its outermost
// {...} or [...] region.
var htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)

func extractSchemaBlocks(doc *goquery.Document) []map[string]any {
	var blocks []map[string]any
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		raw := htmlCommentPattern.ReplaceAllString(strings.TrimSpace(s.Text()), "")
		region := extractJSONRegion(raw)
		if region == "" {
			return
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(region), &obj); err == nil {
			blocks = append(blocks, obj)
			return
		}
		var arr []map[string]any
		if err := json.Unmarshal([]byte(region), &arr); err == nil {
			blocks = append(blocks, arr...)
		}
		// any other parse failure is tolerated and the block is skipped
	})
	return blocks
}

func extractJSONRegion(s string) string {
	firstObj, lastObj := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	firstArr, lastArr := strings.IndexByte(s, '['), strings.LastIndexByte(s, ']')

	switch {
	case firstObj >= 0 && lastObj > firstObj && (firstArr < 0 || firstObj < firstArr):
		return s[firstObj : lastObj+1]
	case firstArr >= 0 && lastArr > firstArr:
		return s[firstArr : lastArr+1]
	default:
		return ""
	}
}

// ExtractMetadata builds a PageMetadata from a parsed document, per the
// selector priority order defined in the spec.
func ExtractMetadata(doc *goquery.Document) model.PageMetadata {
	meta := model.PageMetadata{
		Title:       firstMatch(doc, titleSelectors),
		Description: firstMatch(doc, descriptionSelectors),
		Author:      firstMatch(doc, authorSelectors),
		Schema:      extractSchemaBlocks(doc),
	}

	meta.PublishDate = firstParsedDate(doc, publishDateSelectors)
	meta.ModifiedDate = firstParsedDate(doc, modifiedDateSelectors)

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		meta.CanonicalURL = strings.TrimSpace(href)
	}
	if lang, ok := doc.Find("html").First().Attr("lang"); ok {
		meta.Lang = strings.TrimSpace(lang)
	}

	return meta
}
