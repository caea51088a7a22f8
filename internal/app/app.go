package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/deusflow/newsmon/internal/cache"
	"github.com/deusflow/newsmon/internal/config"
	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
	"github.com/deusflow/newsmon/internal/naver"
	"github.com/deusflow/newsmon/internal/news"
	"github.com/deusflow/newsmon/internal/report"
	"github.com/deusflow/newsmon/internal/rss"
	"github.com/deusflow/newsmon/internal/scraper"
	"github.com/deusflow/newsmon/internal/shortener"
	"github.com/deusflow/newsmon/internal/telegram"
)

var ErrNoRecipient = errors.New("a recipient chat id is required")

// Service runs one search request end to end: collect, then deliver.
type Service struct {
	cfg       *config.Config
	pipeline  *news.Pipeline
	deliverer *report.Deliverer
	links     *cache.Cache
	metrics   *metrics.Metrics
}

// New wires the fetchers, enricher, shortener and Telegram client from cfg.
// The Naver adapter is only used when credentials are configured.
func New(cfg *config.Config, rules *config.Rules, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.Global
	}

	var fetchers []news.Fetcher
	if cfg.HasNaverCredentials() {
		fetchers = append(fetchers, naver.NewClient(cfg.NaverSearchURL, cfg.NaverClientID, cfg.NaverClientSecret, cfg.SearchTimeout))
	} else {
		logger.Warn("NAVER_ID/NAVER_SECRET not set, searching the news feed only")
	}
	fetchers = append(fetchers, rss.NewSearchClient(cfg.FeedSearchURL, cfg.FeedTimeout))

	enricher := scraper.NewEnricher(scraper.Options{
		Timeout:       cfg.PageTimeout,
		Domains:       rules.Domains,
		GenericLabels: rules.GenericLabels,
		UnknownMedia:  rules.UnknownMedia,
	})

	pipeline := news.NewPipeline(fetchers, enricher, news.PipelineConfig{
		JunkTerms: rules.JunkTerms,
		FeedHost:  rules.FeedHost,
	}, m)

	links := cache.New(time.Hour)
	short := shortener.New(shortener.Options{
		Endpoint:  cfg.ShortenerURL,
		Timeout:   cfg.ShortenerTimeout,
		Blocklist: rules.ShortenerBlocklist,
		TTL:       cfg.ShortLinkTTL,
		Cache:     links,
		Metrics:   m,
	})

	sender := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramToken, cfg.TelegramTimeout)

	return &Service{
		cfg:       cfg,
		pipeline:  pipeline,
		deliverer: report.NewDeliverer(sender, short, m),
		links:     links,
		metrics:   m,
	}
}

// SetClock replaces the pipeline time source.
func (s *Service) SetClock(now func() time.Time) {
	s.pipeline.SetClock(now)
}

// DefaultRecipient is the chat used when a request names none.
func (s *Service) DefaultRecipient() string {
	return s.cfg.TelegramChatID
}

// Run collects the report for req and sends it to req.Recipient (or the
// default chat). Only an invalid request is an error; an empty result is
// reported as Count 0.
func (s *Service) Run(ctx context.Context, req news.SearchRequest) (report.Summary, error) {
	req.Recipient = strings.TrimSpace(req.Recipient)
	if req.Recipient == "" {
		req.Recipient = s.DefaultRecipient()
	}
	if req.Recipient == "" {
		return report.Summary{}, ErrNoRecipient
	}

	rep, err := s.pipeline.Collect(ctx, req)
	if err != nil {
		return report.Summary{}, err
	}
	s.metrics.IncrementReportsRun()

	sum := s.deliverer.Deliver(ctx, rep, req.Recipient)
	s.metrics.SetLastRun()

	logger.Info("report finished", "keywords", sum.Keywords, "days", sum.Days, "count", sum.Count)
	return sum, nil
}

// Close releases background resources.
func (s *Service) Close() {
	s.links.Close()
}

// IsRequestError reports whether err is the caller's fault.
func IsRequestError(err error) bool {
	return news.IsRequestError(err) || errors.Is(err, ErrNoRecipient)
}
