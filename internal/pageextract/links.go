package pageextract

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/aeoinsight/crawler/internal/urlnorm"
)

// ExtractOutlinks resolves every <a href> against base, normalizes it,
// and returns the subset that shares base's host.
func ExtractOutlinks(doc *goquery.Document, base url.URL) []string {
	seen := make(map[string]struct{})
	var out []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Host != base.Host {
			return
		}
		normalized := urlnorm.Normalize(resolved.String())
		if _, ok := seen[normalized]; ok {
			return
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	})

	return out
}
