package pageextract

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/internal/telemetry"
)

// placeholderHTML is stored when every fetch attempt fails, so html
// remains a non-empty, valid-HTML invariant even for unreachable pages.
const placeholderHTML = `<html><head><title>unreachable</title></head><body></body></html>`

// Page is the full result of extracting one URL: the persisted record
// plus the out-links discovered for frontier expansion.
type Page struct {
	Record   model.CrawledPage
	Outlinks []string
}

// Extract fetches rawURL and builds the CrawledPage record plus its
// same-host outlinks. On fetch failure after retries it returns a
// placeholder record and a non-nil error so the caller can bump its
// error counter without treating the crawl itself as failed.
func (e *Extractor) Extract(ctx context.Context, projectID, rawURL string) (Page, error) {
	target, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return e.placeholder(projectID, rawURL, parseErr.Error()), parseErr
	}

	start := time.Now()
	result, fetchErr := e.fetchWithRetry(ctx, *target)
	if fetchErr != nil {
		if e.sink != nil {
			e.sink.RecordError(telemetry.ErrorRecord{
				At:      time.Now(),
				Stage:   "pageextract",
				Method:  "Extract",
				Cause:   telemetry.CauseRetryExhausted,
				Message: fetchErr.Error(),
				Attrs:   []telemetry.Attribute{telemetry.NewAttr("url", rawURL)},
			})
		}
		return e.placeholder(projectID, rawURL, fetchErr.Error()), fetchErr
	}

	doc, parseHTMLErr := goquery.NewDocumentFromReader(strings.NewReader(string(result.Body)))
	if parseHTMLErr != nil {
		page := model.CrawledPage{
			ProjectID:      projectID,
			URL:            rawURL,
			CrawledAt:      time.Now(),
			StatusCode:     result.StatusCode,
			ResponseTimeMs: time.Since(start).Milliseconds(),
			HTML:           string(result.Body),
			Headers:        result.Headers,
			ContentHash:    ContentHash(result.Body),
			IsProcessed:    false,
		}
		return Page{Record: page}, nil
	}

	meta := ExtractMetadata(doc)
	outlinks := ExtractOutlinks(doc, *target)

	page := model.CrawledPage{
		ProjectID:      projectID,
		URL:            rawURL,
		CrawledAt:      time.Now(),
		StatusCode:     result.StatusCode,
		ResponseTimeMs: time.Since(start).Milliseconds(),
		HTML:           string(result.Body),
		Headers:        result.Headers,
		Metadata:       meta,
		ContentHash:    ContentHash(result.Body),
		IsProcessed:    false,
	}

	return Page{Record: page, Outlinks: outlinks}, nil
}

func (e *Extractor) placeholder(projectID, rawURL, errMsg string) Page {
	return Page{
		Record: model.CrawledPage{
			ProjectID:    projectID,
			URL:          rawURL,
			CrawledAt:    time.Now(),
			StatusCode:   0,
			HTML:         placeholderHTML,
			ContentHash:  ContentHash([]byte(placeholderHTML)),
			ErrorMessage: errMsg,
			IsProcessed:  false,
		},
	}
}

// CleanContentDigest builds the compact content digest (title, first H1,
// first ten nav anchors, <=1000 chars of main content) that the Analysis
// Pipeline hands to page categorization's LLM fallback. Grounded on
// §4.7's digest rule.
func CleanContentDigest(doc *goquery.Document, rawHTML []byte) string {
	var b strings.Builder

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}

	h1 := strings.TrimSpace(doc.Find("h1").First().Text())
	if h1 != "" {
		b.WriteString(h1)
		b.WriteString("\n")
	}

	count := 0
	doc.Find("nav a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if count >= 10 {
			return false
		}
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return true
		}
		b.WriteString("- ")
		b.WriteString(text)
		b.WriteString("\n")
		count++
		return true
	})

	main := IsolateContent(doc, rawHTML)
	mainText := strings.TrimSpace(main.Text())
	if len(mainText) > 1000 {
		mainText = mainText[:1000]
	}
	b.WriteString(mainText)

	return b.String()
}
