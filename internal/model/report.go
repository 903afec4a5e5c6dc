package model

import (
	"cmp"
	"maps"
	"slices"
	"time"
)

// KeywordReport is the result of a keyword crawl of one site.
type KeywordReport struct {
	// ID identifies a stored run. Empty until saved to the history database.
	ID string `json:"id,omitempty"`

	// Site is the seed URL the crawl started from.
	Site string `json:"site"`

	// PageLimit is the page budget of the run. 0 means no limit.
	PageLimit int `json:"page_limit"`

	// PagesVisited is the number of pages fetched and parsed.
	PagesVisited int `json:"pages_visited"`

	// StartedAt is when the crawl began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the crawl ended.
	FinishedAt time.Time `json:"finished_at"`

	// Pages maps a URL path to the keywords found on that page.
	// Pages without matches are absent.
	Pages map[string][]string `json:"pages"`

	// Error holds the failure message of an aborted run.
	Error string `json:"error,omitempty"`
}

// KeywordCount is how many pages mention a keyword.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Pages   int    `json:"pages"`
}

// NewKeywordReport creates an empty report for site, stamped with the current time.
func NewKeywordReport(site string, pageLimit int) *KeywordReport {
	return &KeywordReport{
		Site:      site,
		PageLimit: pageLimit,
		StartedAt: time.Now(),
		Pages:     make(map[string][]string),
	}
}

// Finish records the crawl outcome.
func (r *KeywordReport) Finish(pagesVisited int, pages map[string][]string, err error) {
	r.PagesVisited = pagesVisited
	r.FinishedAt = time.Now()
	if pages != nil {
		r.Pages = pages
	}
	if err != nil {
		r.Error = err.Error()
	}
}

// Failed reports whether the crawl was aborted by an error.
func (r *KeywordReport) Failed() bool {
	return r.Error != ""
}

// Duration returns how long the crawl took, or 0 if it has not finished.
func (r *KeywordReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Paths returns the matched page paths in sorted order.
func (r *KeywordReport) Paths() []string {
	return slices.Sorted(maps.Keys(r.Pages))
}

// TotalMatches returns the number of (page, keyword) pairs.
func (r *KeywordReport) TotalMatches() int {
	total := 0
	for _, words := range r.Pages {
		total += len(words)
	}
	return total
}

// KeywordCounts returns every matched keyword with the number of pages it
// appears on, most frequent first and alphabetical among ties.
func (r *KeywordReport) KeywordCounts() []KeywordCount {
	counts := make(map[string]int)
	for _, words := range r.Pages {
		for _, w := range words {
			counts[w]++
		}
	}

	out := make([]KeywordCount, 0, len(counts))
	for w, n := range counts {
		out = append(out, KeywordCount{Keyword: w, Pages: n})
	}
	slices.SortFunc(out, func(a, b KeywordCount) int {
		if c := cmp.Compare(b.Pages, a.Pages); c != 0 {
			return c
		}
		return cmp.Compare(a.Keyword, b.Keyword)
	})
	return out
}
