// Package urlnorm canonicalizes URLs for crawl dedup (spec §4.1).
//
// Normalize is a pure transform, grounded on the teacher's
// pkg/urlutil.Canonicalize (copy-then-mutate a url.URL), generalized where
// the spec's contract differs: query parameters are sorted rather than
// dropped, and scheme/host case is left untouched since the spec does not
// ask for it.
package urlnorm

import (
	"net/url"
	"sort"
	"strings"
)

// Normalize strips the fragment, removes a trailing slash from the path
// (unless the path is exactly "/"), and rewrites the query string with its
// parameters sorted by key. Non-parseable input is returned unchanged.
func Normalize(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	normalized := *parsed
	normalized.Fragment = ""
	normalized.RawFragment = ""

	if len(normalized.Path) > 1 {
		normalized.Path = strings.TrimRight(normalized.Path, "/")
		if normalized.Path == "" {
			normalized.Path = "/"
		}
	}

	if normalized.RawQuery != "" {
		values := normalized.Query()
		normalized.RawQuery = sortedQueryString(values)
	}

	return normalized.String()
}

// NormalizeURL is the url.URL-typed variant of Normalize, for callers that
// already hold a parsed URL.
func NormalizeURL(u url.URL) url.URL {
	normalized := u
	normalized.Fragment = ""
	normalized.RawFragment = ""

	if len(normalized.Path) > 1 {
		normalized.Path = strings.TrimRight(normalized.Path, "/")
		if normalized.Path == "" {
			normalized.Path = "/"
		}
	}

	if normalized.RawQuery != "" {
		normalized.RawQuery = sortedQueryString(normalized.Query())
	}

	return normalized
}

func sortedQueryString(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vs := values[k]
		sort.Strings(vs)
		for _, v := range vs {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}
