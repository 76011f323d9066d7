// Package repository is the external Repository contract (§6) plus an
// in-memory reference implementation. Grounded on the teacher's
// internal/storage.Sink (atomic write-then-record pattern, mutex-guarded
// bookkeeping) but repurposed from markdown-file output to the spec's
// upsert-by-(projectId,url) page/score store.
package repository

import (
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/aeoinsight/crawler/internal/model"
	"github.com/aeoinsight/crawler/pkg/fileutil"
)

// key identifies one page or score record.
type key struct {
	projectID string
	url       string
}

// Repository is the persistence contract every pipeline stage is
// constructed against. Implementations must make upserts atomic and
// last-write-wins per (projectId, url).
type Repository interface {
	UpsertCrawledPage(projectID, url string, page model.CrawledPage) (model.CrawledPage, error)
	GetCrawledPage(projectID, url string) (model.CrawledPage, bool)
	UnprocessedPages(projectID string) []model.CrawledPage
	UpsertContentScore(projectID, url string, score model.ContentScore) error
	GetContentScore(projectID, url string) (model.ContentScore, bool)
	MarkProcessed(projectID, url string) error
}

// InMemoryRepository is a thread-safe reference implementation, useful
// for tests and for driving the pipeline without a real database.
type InMemoryRepository struct {
	mu     sync.Mutex
	pages  map[key]model.CrawledPage
	scores map[key]model.ContentScore
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		pages:  make(map[key]model.CrawledPage),
		scores: make(map[key]model.ContentScore),
	}
}

func (r *InMemoryRepository) UpsertCrawledPage(projectID, url string, page model.CrawledPage) (model.CrawledPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page.ProjectID = projectID
	page.URL = url
	if page.CrawledAt.IsZero() {
		page.CrawledAt = time.Now()
	}
	r.pages[key{projectID, url}] = page
	return page, nil
}

func (r *InMemoryRepository) GetCrawledPage(projectID, url string) (model.CrawledPage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	page, ok := r.pages[key{projectID, url}]
	return page, ok
}

func (r *InMemoryRepository) UnprocessedPages(projectID string) []model.CrawledPage {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []model.CrawledPage
	for k, page := range r.pages {
		if k.projectID == projectID && !page.IsProcessed {
			out = append(out, page)
		}
	}
	return out
}

func (r *InMemoryRepository) UpsertContentScore(projectID, url string, score model.ContentScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if score.AnalyzedAt.IsZero() {
		score.AnalyzedAt = time.Now()
	}
	r.scores[key{projectID, url}] = score
	return nil
}

func (r *InMemoryRepository) GetContentScore(projectID, url string) (model.ContentScore, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	score, ok := r.scores[key{projectID, url}]
	return score, ok
}

func (r *InMemoryRepository) MarkProcessed(projectID, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{projectID, url}
	page, ok := r.pages[k]
	if !ok {
		return nil
	}
	page.IsProcessed = true
	r.pages[k] = page
	return nil
}

// CrawlStats is a snapshot summary of a project's crawl progress,
// supplementing the spec's base Repository contract (not part of the
// invariant-bearing core, but a natural read surface the original
// implementation's dashboarding relied on).
type CrawlStats struct {
	TotalPages      int
	ProcessedPages  int
	ErroredPages    int
	AverageScore    float64
}

// Stats computes a CrawlStats snapshot for projectID from the in-memory
// store. A real backing store would compute this with one aggregate
// query; here it's a direct scan since the reference repository has no
// query planner to delegate to.
func (r *InMemoryRepository) Stats(projectID string) CrawlStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stats CrawlStats
	var scoreSum float64
	var scoreCount int

	for k, page := range r.pages {
		if k.projectID != projectID {
			continue
		}
		stats.TotalPages++
		if page.IsProcessed {
			stats.ProcessedPages++
		}
		if page.ErrorMessage != "" {
			stats.ErroredPages++
		}
	}
	for k, score := range r.scores {
		if k.projectID != projectID {
			continue
		}
		scoreSum += score.GlobalScore
		scoreCount++
	}
	if scoreCount > 0 {
		stats.AverageScore = scoreSum / float64(scoreCount)
	}
	return stats
}

// scoreRecord pairs a ContentScore with the (projectId, url) key it was
// stored under, since ContentScore itself carries neither.
type scoreRecord struct {
	ProjectID string             `json:"projectId"`
	URL       string             `json:"url"`
	Score     model.ContentScore `json:"score"`
}

// snapshot is the on-disk shape written by Snapshot and read by
// LoadSnapshot; CrawledPage already carries its own projectId/url fields.
type snapshot struct {
	Pages  []model.CrawledPage `json:"pages"`
	Scores []scoreRecord       `json:"scores"`
}

// Snapshot writes the repository's full contents to path as JSON, for
// the optional file-backed persistence a real deployment might use
// between process restarts. Not part of the Repository contract itself.
func (r *InMemoryRepository) Snapshot(path string) error {
	r.mu.Lock()
	snap := snapshot{
		Pages:  make([]model.CrawledPage, 0, len(r.pages)),
		Scores: make([]scoreRecord, 0, len(r.scores)),
	}
	for _, page := range r.pages {
		snap.Pages = append(snap.Pages, page)
	}
	for k, score := range r.scores {
		snap.Scores = append(snap.Scores, scoreRecord{ProjectID: k.projectID, URL: k.url, Score: score})
	}
	r.mu.Unlock()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return fileutil.WriteFile(path, data)
}

// LoadSnapshot replaces the repository's contents with what was written
// by a prior Snapshot call at path.
func (r *InMemoryRepository) LoadSnapshot(path string) error {
	data, err := fileutil.ReadFile(path)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pages = make(map[key]model.CrawledPage, len(snap.Pages))
	for _, page := range snap.Pages {
		r.pages[key{page.ProjectID, page.URL}] = page
	}
	r.scores = make(map[key]model.ContentScore, len(snap.Scores))
	for _, rec := range snap.Scores {
		r.scores[key{rec.ProjectID, rec.URL}] = rec.Score
	}
	return nil
}
