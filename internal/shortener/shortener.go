// Package shortener wraps the is.gd link shortener. It never fails outward:
// any problem yields the original URL.
package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deusflow/newsmon/internal/cache"
	"github.com/deusflow/newsmon/internal/logger"
	"github.com/deusflow/newsmon/internal/metrics"
	"github.com/deusflow/newsmon/internal/news"
)

const (
	DefaultEndpoint = "https://is.gd/create.php"
	maxBody         = 2048
)

type Options struct {
	Endpoint  string
	Timeout   time.Duration
	Blocklist []string
	TTL       time.Duration
	Cache     *cache.Cache
	Metrics   *metrics.Metrics
}

type Client struct {
	endpoint  string
	blocklist []string
	ttl       time.Duration
	http      *http.Client
	cache     *cache.Cache
	metrics   *metrics.Metrics
}

func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Global
	}
	return &Client{
		endpoint:  opts.Endpoint,
		blocklist: opts.Blocklist,
		ttl:       opts.TTL,
		http:      &http.Client{Timeout: opts.Timeout},
		cache:     opts.Cache,
		metrics:   opts.Metrics,
	}
}

// Shorten returns a short alias for link, or link itself.
func (c *Client) Shorten(ctx context.Context, link string) string {
	if link == "" {
		return ""
	}
	if c.blocked(link) {
		return link
	}

	key := cache.GenerateKey("shorten", link)
	if c.cache != nil {
		if short, ok := c.cache.Get(key); ok {
			c.metrics.IncrementLinksShortened(true)
			return short
		}
	}

	short, err := c.request(ctx, link)
	if err != nil {
		logger.Debug("shorten failed, keeping original link", "url", link, "error", err)
		return link
	}

	c.metrics.IncrementLinksShortened(false)
	if c.cache != nil {
		c.cache.Set(key, short, c.ttl)
	}
	return short
}

func (c *Client) blocked(link string) bool {
	for _, d := range c.blocklist {
		if news.LinkHostMatches(link, d) {
			return true
		}
	}
	return false
}

var errEmptyBody = errors.New("shortener: empty response body")

func (c *Client) request(ctx context.Context, link string) (string, error) {
	endpoint := c.endpoint + "?format=simple&url=" + url.QueryEscape(link)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shortener: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", err
	}
	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", errEmptyBody
	}
	return short, nil
}
