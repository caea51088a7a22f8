package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/news"
)

const maxPageBytes = 4 << 20

// Page is one fetched article page.
type Page struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	// Raw is the whole decoded document, scripts and attributes included.
	Raw string
	Doc *goquery.Document
}

// Options configures the page enricher.
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	Domains       map[string]string
	GenericLabels []string
	UnknownMedia  string
}

// Enricher fetches an article page once and derives publisher and true date from it.
type Enricher struct {
	client   *http.Client
	opts     Options
	resolver *Resolver
}

func NewEnricher(opts Options) *Enricher {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}
	return &Enricher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		resolver: NewResolver(opts.Domains, opts.GenericLabels, opts.UnknownMedia),
	}
}

// Enrich never fails: a page that cannot be fetched yields only the
// publisher fallbacks that need no page, and no true date.
func (e *Enricher) Enrich(ctx context.Context, link, title string) news.Enrichment {
	page, err := e.FetchPage(ctx, link)
	if err != nil {
		logger.Debug("page fetch failed", "url", link, "error", err)
		page = nil
	}

	en := news.Enrichment{Media: e.resolver.Resolve(link, title, page)}
	if page != nil {
		if stamp, ok := ExtractDate(page.Raw); ok {
			en.Published = stamp
		}
	}
	return en
}

// FetchPage gets url and decodes it to UTF-8 using the declared or sniffed charset.
func (e *Enricher) FetchPage(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.opts.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("error detecting charset: %w", err)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("error reading page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	return &Page{
		FinalURL: resp.Request.URL.String(),
		Raw:      string(raw),
		Doc:      doc,
	}, nil
}

// metaContent returns the trimmed content of the first meta tag matching attr=value.
func metaContent(doc *goquery.Document, attr, value string) (string, bool) {
	var content string
	found := false
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && v == value {
			content, _ = s.Attr("content")
			found = true
			return false
		}
		return true
	})
	return strings.TrimSpace(content), found
}
