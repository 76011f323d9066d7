// Package sitemap implements the Sitemap Discovery component: candidate
// probing, robots.txt Sitemap: directive merging, recursive XML parsing,
// and include/exclude/denylist filtering. Grounded on the sitemap-index
// vs. urlset handling shown in one of the other crawler examples in the
// pack (xml.Unmarshal into parallel SitemapIndex/URLSet structs, probing a
// fixed list of candidate paths before falling back), adapted to the
// spec's first-contributor-wins short circuit and maxPages cap.
package sitemap

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const fetchTimeout = 10 * time.Second

var candidatePaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemaps.xml",
	"/sitemap/sitemap.xml",
}

// denylistPatterns rejects "non-content" paths: admin/API surfaces, feeds,
// and common binary extensions that are never worth analyzing as pages.
var denylistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)/(admin|wp-admin|wp-login)(/|$)`),
	regexp.MustCompile(`(?i)/api/`),
	regexp.MustCompile(`(?i)/feed/?$`),
	regexp.MustCompile(`(?i)\.(rss|atom)$`),
	regexp.MustCompile(`(?i)\.(png|jpe?g|gif|svg|webp|ico|pdf|zip|gz|mp4|mp3|css|js|woff2?)$`),
}

type sitemapIndex struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []struct {
		Loc string `xml:"loc"`
	} `xml:"sitemap"`
}

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Filter configures which discovered URLs survive the Sitemap Discovery
// pass, per the spec's include/exclude/same-host/denylist/maxPages rules.
type Filter struct {
	Host         string
	Include      []*regexp.Regexp
	Exclude      []*regexp.Regexp
	MaxPages     int
}

// Discover probes the candidate sitemap URLs for startURL's host (plus any
// Sitemap: directives supplied by the caller's robots.txt lookup), and
// returns up to filter.MaxPages filtered page URLs.
func Discover(ctx context.Context, client *http.Client, startURL string, robotsSitemaps []string, filter Filter) ([]string, error) {
	u, err := url.Parse(startURL)
	if err != nil {
		return nil, err
	}

	candidates := buildCandidates(u, robotsSitemaps)

	var results []string
	seen := make(map[string]struct{})

	for _, candidate := range candidates {
		if len(results) >= filter.MaxPages {
			break
		}
		contributed := probe(ctx, client, candidate, filter, seen, &results)
		if contributed {
			// First contributor wins: subsequent candidates are skipped.
			break
		}
	}

	if len(results) > filter.MaxPages {
		results = results[:filter.MaxPages]
	}
	return results, nil
}

func buildCandidates(u *url.URL, robotsSitemaps []string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, p := range candidatePaths {
		add(u.Scheme + "://" + u.Host + p)
	}
	for _, s := range robotsSitemaps {
		add(strings.TrimSpace(s))
	}
	return out
}

// probe fetches one sitemap URL (possibly recursing into a sitemap index)
// and appends filtered page URLs into results. It returns true if it
// contributed at least one URL.
func probe(ctx context.Context, client *http.Client, sitemapURL string, filter Filter, seen map[string]struct{}, results *[]string) bool {
	body, err := fetch(ctx, client, sitemapURL)
	if err != nil {
		return false
	}

	var index sitemapIndex
	if xml.Unmarshal(body, &index) == nil && index.XMLName.Local == "sitemapindex" {
		contributed := false
		for _, child := range index.Sitemaps {
			if len(*results) >= filter.MaxPages {
				break
			}
			if probe(ctx, client, child.Loc, filter, seen, results) {
				contributed = true
			}
		}
		return contributed
	}

	var set urlSet
	if xml.Unmarshal(body, &set) == nil && set.XMLName.Local == "urlset" {
		contributed := false
		for _, entry := range set.URLs {
			if len(*results) >= filter.MaxPages {
				break
			}
			loc := strings.TrimSpace(entry.Loc)
			if !passesFilter(loc, filter) {
				continue
			}
			if _, ok := seen[loc]; ok {
				continue
			}
			seen[loc] = struct{}{}
			*results = append(*results, loc)
			contributed = true
		}
		return contributed
	}

	return false
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &probeError{url: rawURL, status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

type probeError struct {
	url    string
	status int
}

func (e *probeError) Error() string {
	return "sitemap probe " + e.url + " returned unexpected status"
}

func passesFilter(rawURL string, filter Filter) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if u.Host != filter.Host {
		return false
	}
	for _, re := range denylistPatterns {
		if re.MatchString(u.Path) {
			return false
		}
	}
	if len(filter.Include) > 0 {
		matched := false
		for _, re := range filter.Include {
			if re.MatchString(rawURL) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	for _, re := range filter.Exclude {
		if re.MatchString(rawURL) {
			return false
		}
	}
	return true
}
