// Package naver is the keyword search adapter over the Naver news search API.
package naver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/newsmon/internal/news"
)

const (
	DefaultEndpoint = "https://openapi.naver.com/v1/search/news.json"
	pageSize        = 100
	maxResponseBody = 4 << 20
)

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Title        string `json:"title"`
	OriginalLink string `json:"originallink"`
	Link         string `json:"link"`
	Description  string `json:"description"`
	PubDate      string `json:"pubDate"`
}

// Client calls the news search endpoint with client credentials.
type Client struct {
	endpoint string
	id       string
	secret   string
	http     *http.Client
}

func NewClient(endpoint, id, secret string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		id:       id,
		secret:   secret,
		http:     &http.Client{Timeout: timeout},
	}
}

func (c *Client) Name() string {
	return "naver"
}

// Fetch returns up to 100 newest results for query. Transport and decode
// failures are returned; the caller decides whether to carry on without them.
func (c *Client) Fetch(ctx context.Context, query string) ([]news.Candidate, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("display", fmt.Sprint(pageSize))
	params.Set("sort", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("naver: create request: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.id)
	req.Header.Set("X-Naver-Client-Secret", c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver: unexpected status %d", resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&payload); err != nil {
		return nil, fmt.Errorf("naver: decode response: %w", err)
	}

	out := make([]news.Candidate, 0, len(payload.Items))
	for _, it := range payload.Items {
		out = append(out, news.Candidate{
			Title:      PlainText(it.Title),
			URL:        it.Link,
			SourceDate: it.PubDate,
			Source:     c.Name(),
		})
	}
	return out, nil
}

// PlainText strips the <b> highlight markup and decodes HTML entities.
func PlainText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}
