package news

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
)

// Reject is why a candidate was dropped. Rejects are expected outcomes, not errors.
type Reject string

const (
	RejectNone       Reject = ""
	RejectNoURL      Reject = "no_url"
	RejectDuplicate  Reject = "duplicate"
	RejectIrrelevant Reject = "irrelevant"
	RejectJunk       Reject = "junk"
	RejectBadDate    Reject = "bad_date"
	RejectStale      Reject = "stale"
	RejectFailed     Reject = "failed"
)

// PipelineConfig holds the filtering rules.
type PipelineConfig struct {
	JunkTerms []string
	// FeedHost results are trusted to be relevant and skip the keyword check.
	FeedHost string
}

// Pipeline runs the fetch, filter, enrich and sort stages for one request.
// A Pipeline holds no per-run state and may be shared between runs.
type Pipeline struct {
	fetchers []Fetcher
	enricher Enricher
	cfg      PipelineConfig
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewPipeline(fetchers []Fetcher, enricher Enricher, cfg PipelineConfig, m *metrics.Metrics) *Pipeline {
	if m == nil {
		m = metrics.Global
	}
	return &Pipeline{
		fetchers: fetchers,
		enricher: enricher,
		cfg:      cfg,
		metrics:  m,
		now:      time.Now,
	}
}

// SetClock replaces the time source.
func (p *Pipeline) SetClock(now func() time.Time) {
	p.now = now
}

// run is the per-request state: the growing accepted set and the cutoff.
type run struct {
	keyword  string
	cutoff   time.Time
	accepted []Item
}

// Collect builds the report for req. It only fails on an invalid request;
// backend and parse failures shrink the result instead.
func (p *Pipeline) Collect(ctx context.Context, req SearchRequest) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	defer func() {
		p.metrics.RecordProcessingTime(time.Since(startTime))
	}()

	now := NowKST(p.now())
	r := &run{cutoff: Cutoff(now, req.Days)}

	logger.Info("collecting news", "keywords", strings.Join(req.Keywords, ","), "days", req.Days, "cutoff", r.cutoff.Format("2006-01-02"))

	for _, kw := range req.Keywords {
		if err := ctx.Err(); err != nil {
			logger.Warn("collect cancelled", "keyword", kw, "error", err)
			break
		}
		r.keyword = kw
		candidates := p.fetchAll(ctx, kw)

		for _, c := range candidates {
			reason := p.consider(ctx, r, c)
			if reason != RejectNone {
				p.metrics.IncrementRejected(string(reason))
				logger.Debug("candidate rejected", "reason", reason, "title", c.Title, "url", c.URL)
				continue
			}
			p.metrics.IncrementAccepted()
		}
	}

	SortItems(r.accepted)

	logger.Info("collection finished", "accepted", len(r.accepted))
	return &Report{
		Keywords:    req.Keywords,
		GeneratedAt: now,
		Days:        req.Days,
		Items:       r.accepted,
	}, nil
}

// fetchAll runs every fetcher for kw. A failing fetcher contributes nothing.
func (p *Pipeline) fetchAll(ctx context.Context, kw string) []Candidate {
	query := SearchQuery(kw)
	var all []Candidate
	for _, f := range p.fetchers {
		items, err := f.Fetch(ctx, query)
		if err != nil {
			p.metrics.IncrementFetchErrors()
			p.metrics.SetError(fmt.Sprintf("%s: %v", f.Name(), err))
			logger.Warn("fetch failed", "source", f.Name(), "keyword", kw, "error", err)
			continue
		}
		logger.Info("fetched candidates", "source", f.Name(), "keyword", kw, "count", len(items))
		p.metrics.AddCandidatesFetched(len(items))
		all = append(all, items...)
	}
	return all
}

// consider runs one candidate through every stage and appends it to the
// accepted set on success. A panic inside the stages drops only this candidate.
func (p *Pipeline) consider(ctx context.Context, r *run, c Candidate) (reason Reject) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("candidate processing panicked", "url", c.URL, "panic", rec)
			reason = RejectFailed
		}
	}()

	if strings.TrimSpace(c.URL) == "" {
		return RejectNoURL
	}

	clean := CleanTitle(c.Title)
	if isDuplicate(clean, c.URL, r.accepted) {
		return RejectDuplicate
	}

	if !LinkHostMatches(c.URL, p.cfg.FeedHost) &&
		!strings.Contains(strings.ToLower(c.Title), strings.ToLower(r.keyword)) {
		return RejectIrrelevant
	}

	if containsAny(c.Title, p.cfg.JunkTerms) {
		return RejectJunk
	}

	sourceDate, err := ParseSourceDate(c.SourceDate)
	if err != nil {
		logger.Debug("unusable source date", "raw", c.SourceDate, "display", DisplayDate(c.SourceDate), "error", err)
		return RejectBadDate
	}
	if sourceDate.Day().Before(r.cutoff) {
		return RejectStale
	}

	en := p.enricher.Enrich(ctx, c.URL, c.Title)
	p.metrics.IncrementPagesEnriched(!en.Published.IsZero())

	date := sourceDate
	if !en.Published.IsZero() {
		date = en.Published
	}

	r.accepted = append(r.accepted, Item{
		Title: clean,
		URL:   c.URL,
		Media: en.Media,
		Date:  date,
	})
	return RejectNone
}

// SortItems orders items newest first by their stamp. Ties keep fetch order.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date > items[j].Date
	})
}

// IsRequestError reports whether err came from request validation.
func IsRequestError(err error) bool {
	return errors.Is(err, ErrNoKeywords) || errors.Is(err, ErrDaysOutOfRange)
}
