package shortener

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deusflow/newsmon/internal/cache"
	"github.com/deusflow/newsmon/internal/metrics"
)

var blocklist = []string{"sjbnews.com", "jeonmin.co.kr", "mdtoday.co.kr", "hinews.kr", "livesnews.com"}

func newTestClient(endpoint string, c *cache.Cache) *Client {
	return New(Options{
		Endpoint:  endpoint,
		Timeout:   time.Second,
		Blocklist: blocklist,
		Cache:     c,
		Metrics:   metrics.New(),
	})
}

func TestShortenSuccess(t *testing.T) {
	var gotURL, gotFormat string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.Query().Get("url")
		gotFormat = r.URL.Query().Get("format")
		fmt.Fprint(w, "  https://is.gd/AbC123\n")
	}))
	defer srv.Close()

	link := "https://example.com/news?id=1&page=2"
	got := newTestClient(srv.URL, nil).Shorten(context.Background(), link)
	if got != "https://is.gd/AbC123" {
		t.Fatalf("Shorten = %q", got)
	}
	if gotURL != link || gotFormat != "simple" {
		t.Fatalf("request params url=%q format=%q", gotURL, gotFormat)
	}
}

func TestShortenPassThrough(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		switch r.URL.Query().Get("url") {
		case "https://example.com/empty":
			fmt.Fprint(w, "   ")
		default:
			http.Error(w, "Error: Please enter a valid URL to shorten", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, nil)
	tests := []struct {
		name string
		link string
	}{
		{"empty", ""},
		{"blocked host", "https://www.hinews.kr/news/articleView.html?idxno=7"},
		{"blocked bare host", "http://sjbnews.com/news/1"},
		{"non-200", "https://example.com/bad"},
		{"empty body", "https://example.com/empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Shorten(context.Background(), tt.link); got != tt.link {
				t.Fatalf("Shorten(%q) = %q, want unchanged", tt.link, got)
			}
		})
	}
	if hits != 2 {
		t.Fatalf("shortener called %d times, want 2 (empty and blocked skip the network)", hits)
	}
}

func TestShortenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	link := "https://example.com/a"
	if got := newTestClient(endpoint, nil).Shorten(context.Background(), link); got != link {
		t.Fatalf("Shorten = %q, want original", got)
	}
}

func TestShortenMemoizes(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, "https://is.gd/memo")
	}))
	defer srv.Close()

	store := cache.New(0)
	defer store.Close()
	c := newTestClient(srv.URL, store)

	for i := 0; i < 3; i++ {
		if got := c.Shorten(context.Background(), "https://example.com/a"); got != "https://is.gd/memo" {
			t.Fatalf("Shorten = %q", got)
		}
	}
	if hits != 1 {
		t.Fatalf("shortener called %d times, want 1", hits)
	}
	stats := c.metrics.GetStats()
	if stats["links_shortened"].(int64) != 3 || stats["shortener_cache_hits"].(int64) != 2 {
		t.Fatalf("unexpected metrics: %v", stats)
	}
}
