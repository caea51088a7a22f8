package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/korean"
)

var testDomains = map[string]string{
	"hinews.kr":  "하이뉴스",
	"127.0.0.1":  "로컬일보",
	"beopbo.com": "법보신문",
}

var testLabels = []string{"네이버 뉴스", "다음뉴스", "Google News", "Google", "네이버"}

func newTestResolver() *Resolver {
	return NewResolver(testDomains, testLabels, "")
}

func pageFrom(t *testing.T, finalURL, html string) *Page {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return &Page{FinalURL: finalURL, Raw: html, Doc: doc}
}

func TestResolveDomainTableWithoutPage(t *testing.T) {
	r := newTestResolver()
	got := r.Resolve("https://www.hinews.kr/news/articleView.html?idxno=1", "제목 - 다른언론", nil)
	if got != "하이뉴스" {
		t.Fatalf("got %q, want 하이뉴스", got)
	}
}

func TestResolveNaverAuthorMeta(t *testing.T) {
	r := newTestResolver()
	page := pageFrom(t, "https://n.news.naver.com/article/001/0000001",
		`<html><head><meta property="og:article:author" content="연합뉴스 | 네이버"><meta property="og:site_name" content="네이버 뉴스"></head></html>`)
	if got := r.Resolve("https://n.news.naver.com/article/001/0000001", "t", page); got != "연합뉴스" {
		t.Fatalf("got %q, want 연합뉴스", got)
	}

	page = pageFrom(t, "https://n.news.naver.com/article/2",
		`<html><head><meta name="twitter:creator" content="뉴시스"></head></html>`)
	if got := r.Resolve("https://n.news.naver.com/article/2", "t", page); got != "뉴시스" {
		t.Fatalf("twitter:creator fallback: got %q", got)
	}
}

func TestResolveDaumMediaName(t *testing.T) {
	r := newTestResolver()
	page := pageFrom(t, "https://v.daum.net/v/2025",
		`<html><head><meta property="article:media_name" content=" 머니투데이 "><meta property="og:site_name" content="다음뉴스"></head></html>`)
	if got := r.Resolve("https://v.daum.net/v/2025", "t", page); got != "머니투데이" {
		t.Fatalf("got %q, want 머니투데이", got)
	}
}

func TestResolveFinalURLAndSiteName(t *testing.T) {
	r := newTestResolver()

	redirected := pageFrom(t, "https://www.beopbo.com/news/1", `<html><head><meta property="og:site_name" content="Other"></head></html>`)
	if got := r.Resolve("https://news.google.com/rss/articles/x", "t", redirected); got != "법보신문" {
		t.Fatalf("final URL lookup: got %q", got)
	}

	generic := pageFrom(t, "https://news.google.com/rss/articles/x", `<html><head><meta property="og:site_name" content="Google News"></head></html>`)
	if got := r.Resolve("https://news.google.com/rss/articles/x", "기사 제목 - 조선비즈", generic); got != "조선비즈" {
		t.Fatalf("generic site name should fall through to title: got %q", got)
	}

	site := pageFrom(t, "https://example.com/a", `<html><head><meta property="og:site_name" content="Example Daily"></head></html>`)
	if got := r.Resolve("https://example.com/a", "t", site); got != "Example Daily" {
		t.Fatalf("site name: got %q", got)
	}
}

func TestResolveTitleFallbackAndSentinel(t *testing.T) {
	r := newTestResolver()
	if got := r.Resolve("https://example.com/a", "기사 - 중간 - 한겨레", nil); got != "한겨레" {
		t.Errorf("title suffix: got %q", got)
	}
	if got := r.Resolve("https://example.com/a", "기사 - Google News", nil); got != "네이버/daum/google" {
		t.Errorf("blocked suffix: got %q", got)
	}
	if got := r.Resolve("https://example.com/a", "no separator", nil); got != "네이버/daum/google" {
		t.Errorf("sentinel: got %q", got)
	}
}

func TestResolveReplacesDots(t *testing.T) {
	r := newTestResolver()
	got := r.Resolve("https://example.com/a", "기사 - news1.kr", nil)
	if strings.Contains(got, ".") || got != "news1․kr" {
		t.Fatalf("got %q, want dots replaced", got)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	r := newTestResolver()
	html := `<html><head><meta property="og:site_name" content="Some.Paper"></head></html>`
	first := r.Resolve("https://example.com/a", "t - x", pageFrom(t, "https://example.com/a", html))
	second := r.Resolve("https://example.com/a", "t - x", pageFrom(t, "https://example.com/a", html))
	if first != second {
		t.Fatalf("resolver not idempotent: %q vs %q", first, second)
	}
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"bare dotted", `<span class="date">2025.10.13</span> <span>14:05</span>`, "2025-10-13 | 14:05", true},
		{"slashes", `"datePublished":"2025/01/02 09:00"`, "2025-01-02 | 09:00", true},
		{"time too far", "2025-10-13" + strings.Repeat("x", 60) + "14:05", "", false},
		{"labelled", "입력 2025-10-13" + strings.Repeat(" ", 70) + "08:15", "2025-10-13 | 08:15", true},
		{"invalid calendar date", "0000-00-00 00:00", "", false},
		{"nothing", "<html></html>", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractDate(tt.raw)
			if ok != tt.ok || string(got) != tt.want {
				t.Fatalf("ExtractDate = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestEnrichFetchesPageOnce(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("User-Agent") != "Mozilla/5.0" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head><meta property="og:site_name" content="테스트신문"></head><body>등록 2025-10-13 11:20</body></html>`)
	}))
	defer srv.Close()

	e := NewEnricher(Options{Timeout: time.Second, GenericLabels: testLabels})
	en := e.Enrich(context.Background(), srv.URL+"/article/1", "제목 - 다른곳")
	if en.Media != "테스트신문" {
		t.Errorf("Media = %q", en.Media)
	}
	if en.Published != "2025-10-13 | 11:20" {
		t.Errorf("Published = %q", en.Published)
	}
	if hits != 1 {
		t.Errorf("page fetched %d times, want 1", hits)
	}
}

func TestEnrichDecodesLegacyCharset(t *testing.T) {
	html := `<html><head><meta property="og:site_name" content="전민일보"></head><body>2024-05-01 07:30</body></html>`
	encoded, err := korean.EUCKR.NewEncoder().String(html)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=euc-kr")
		fmt.Fprint(w, encoded)
	}))
	defer srv.Close()

	e := NewEnricher(Options{Timeout: time.Second})
	en := e.Enrich(context.Background(), srv.URL, "")
	if en.Media != "전민일보" {
		t.Fatalf("Media = %q, want decoded 전민일보", en.Media)
	}
}

func TestEnrichDomainTableSurvivesFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	link := srv.URL + "/gone"
	srv.Close()

	e := NewEnricher(Options{Timeout: time.Second, Domains: testDomains, GenericLabels: testLabels})
	en := e.Enrich(context.Background(), link, "제목 - 다른언론")
	if en.Media != "로컬일보" {
		t.Fatalf("Media = %q, want domain table name", en.Media)
	}
	if !en.Published.IsZero() {
		t.Fatalf("Published = %q, want empty", en.Published)
	}
}

func TestEnrichNonOKStatusFallsBackToTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	e := NewEnricher(Options{Timeout: time.Second, GenericLabels: testLabels})
	en := e.Enrich(context.Background(), srv.URL, "제목 - 매일경제")
	if en.Media != "매일경제" {
		t.Fatalf("Media = %q", en.Media)
	}
}
