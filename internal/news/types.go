package news

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoKeywords     = errors.New("at least one keyword is required")
	ErrDaysOutOfRange = errors.New("days must be between 1 and 100")
)

const (
	MinDays = 1
	MaxDays = 100
)

// Candidate is one raw search hit. It lives only for the duration of a run.
type Candidate struct {
	Title      string // entity-decoded source title
	URL        string
	SourceDate string // as reported by the source, format varies
	Source     string // fetcher name
}

// Item is an accepted, enriched article.
type Item struct {
	Title string
	URL   string
	Media string
	Date  Stamp
}

// SearchRequest is one submission: keywords, window and recipient.
type SearchRequest struct {
	Keywords  []string
	Days      int
	Recipient string
}

func (r SearchRequest) Validate() error {
	if len(r.Keywords) == 0 {
		return ErrNoKeywords
	}
	if r.Days < MinDays || r.Days > MaxDays {
		return ErrDaysOutOfRange
	}
	return nil
}

// Report is the pipeline output handed to delivery.
type Report struct {
	Keywords    []string
	GeneratedAt time.Time // KST
	Days        int
	Items       []Item
}

// Fetcher is one search backend.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]Candidate, error)
}

// Enrichment is what a page visit tells us about an article.
type Enrichment struct {
	Media string
	// Published is zero when no date could be recovered from the page.
	Published Stamp
}

// Enricher resolves the publisher and true date for one article.
type Enricher interface {
	Enrich(ctx context.Context, url, title string) Enrichment
}
