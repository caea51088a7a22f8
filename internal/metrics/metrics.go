package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	ReportsRun         int64
	CandidatesFetched  int64
	FetchErrors        int64
	CandidatesAccepted int64
	Rejected           map[string]int64 // by reject reason
	PagesEnriched      int64
	TrueDatesRecovered int64
	TelegramMessages   int64
	TelegramFailures   int64
	LinksShortened     int64
	ShortenerCacheHits int64

	// Timings
	LastProcessingTime    time.Duration
	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true, Rejected: map[string]int64{}}
}

func (m *Metrics) IncrementReportsRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReportsRun++
}

func (m *Metrics) AddCandidatesFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesFetched += int64(n)
}

func (m *Metrics) IncrementFetchErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchErrors++
}

func (m *Metrics) IncrementAccepted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CandidatesAccepted++
}

func (m *Metrics) IncrementRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected[reason]++
}

func (m *Metrics) IncrementPagesEnriched(trueDate bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PagesEnriched++
	if trueDate {
		m.TrueDatesRecovered++
	}
}

func (m *Metrics) IncrementTelegramMessages(ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ok {
		m.TelegramMessages++
	} else {
		m.TelegramFailures++
	}
}

func (m *Metrics) IncrementLinksShortened(cacheHit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LinksShortened++
	if cacheHit {
		m.ShortenerCacheHits++
	}
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rejected := make(map[string]int64, len(m.Rejected))
	for k, v := range m.Rejected {
		rejected[k] = v
	}

	return map[string]interface{}{
		"reports_run":                m.ReportsRun,
		"candidates_fetched":         m.CandidatesFetched,
		"fetch_errors":               m.FetchErrors,
		"candidates_accepted":        m.CandidatesAccepted,
		"candidates_rejected":        rejected,
		"pages_enriched":             m.PagesEnriched,
		"true_dates_recovered":       m.TrueDatesRecovered,
		"telegram_messages_sent":     m.TelegramMessages,
		"telegram_failures":          m.TelegramFailures,
		"links_shortened":            m.LinksShortened,
		"shortener_cache_hits":       m.ShortenerCacheHits,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
