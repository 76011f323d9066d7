package pageextract

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// reparse builds a throwaway document from raw HTML so the chrome-removal
// fallback can mutate freely without disturbing the caller's document
// (goquery selections have no Clone, so a fresh parse is the safe route).
func reparse(html []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil
	}
	return doc
}

// docContainerSelectors are common documentation/content frameworks'
// main-content wrappers, tried after the semantic <main>/<article>
// layer fails to find anything meaningful.
var docContainerSelectors = []string{
	"[role='main']",
	".markdown-body",
	".theme-doc-markdown",
	"#content",
	".content",
	".post-content",
	".entry-content",
}

// chromeSelectors are stripped before the fallback text-density pass,
// so navigation/boilerplate never gets mistaken for page content.
var chromeSelectors = []string{
	"nav", "header", "footer", "aside",
	".sidebar", ".breadcrumb", ".cookie-banner", ".version-selector", ".edit-link",
}

// IsolateContent returns the best-guess main-content node for a parsed
// document, trying semantic containers first, then known doc-site
// selectors, then a simple chrome-stripped fallback to <body>. rawHTML
// is used only for the fallback path, which needs a disposable document
// it's free to mutate.
func IsolateContent(doc *goquery.Document, rawHTML []byte) *goquery.Selection {
	for _, css := range []string{"main", "article"} {
		if sel := doc.Find(css).First(); sel.Length() > 0 && isMeaningful(sel) {
			return sel
		}
	}
	for _, css := range docContainerSelectors {
		if sel := doc.Find(css).First(); sel.Length() > 0 && isMeaningful(sel) {
			return sel
		}
	}

	fallback := reparse(rawHTML)
	if fallback == nil {
		return doc.Selection
	}
	fallback.Find(strings.Join(chromeSelectors, ", ")).Remove()
	body := fallback.Find("body").First()
	if body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// isMeaningful rejects nodes that are little more than a pile of nav
// links: it requires a minimum amount of non-link text.
func isMeaningful(sel *goquery.Selection) bool {
	text := sel.Text()
	nonWhitespace := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			nonWhitespace++
		}
	}
	if nonWhitespace < 50 {
		return false
	}

	var linkTextLen int
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkTextLen += len(strings.TrimSpace(a.Text()))
	})
	if len(text) > 0 && float64(linkTextLen)/float64(len(text)) > 0.8 {
		return false
	}
	return true
}
