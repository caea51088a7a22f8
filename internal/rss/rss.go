package rss

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/newsmon/internal/news"
)

const DefaultSearchURL = "https://news.google.com/rss/search"

// SearchClient queries an RSS search endpoint (Google News by default).
type SearchClient struct {
	baseURL string
	parser  *gofeed.Parser
}

func NewSearchClient(baseURL string, timeout time.Duration) *SearchClient {
	if baseURL == "" {
		baseURL = DefaultSearchURL
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "Mozilla/5.0"
	return &SearchClient{baseURL: baseURL, parser: parser}
}

func (c *SearchClient) Name() string {
	return "google_news"
}

// SearchURL builds the feed URL for query.
func (c *SearchClient) SearchURL(query string) string {
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	return c.baseURL + sep + "q=" + url.QueryEscape(query)
}

// Fetch downloads and parses the search feed for query.
func (c *SearchClient) Fetch(ctx context.Context, query string) ([]news.Candidate, error) {
	feed, err := c.parser.ParseURLWithContext(c.SearchURL(query), ctx)
	if err != nil {
		return nil, fmt.Errorf("rss: parse feed: %w", err)
	}

	out := make([]news.Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		out = append(out, news.Candidate{
			Title:      strings.TrimSpace(item.Title),
			URL:        strings.TrimSpace(item.Link),
			SourceDate: item.Published,
			Source:     c.Name(),
		})
	}
	return out, nil
}
