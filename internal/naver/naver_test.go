package naver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchSendsCredentialsAndMapsItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Naver-Client-Id") != "id" || r.Header.Get("X-Naver-Client-Secret") != "secret" {
			t.Errorf("missing credentials: %v", r.Header)
		}
		q := r.URL.Query()
		if q.Get("query") != `"K-뷰티"` || q.Get("display") != "100" || q.Get("sort") != "date" {
			t.Errorf("unexpected query: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"title":"<b>K-뷰티</b> 수출 &quot;최대&quot; &amp; 성장","originallink":"https://orig.kr/1","link":"https://n.news.naver.com/1","pubDate":"Mon, 13 Oct 2025 14:30:00 +0900"},
			{"title":"두번째","link":"https://n.news.naver.com/2","pubDate":""}
		]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "id", "secret", time.Second)
	got, err := c.Fetch(context.Background(), `"K-뷰티"`)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Title != `K-뷰티 수출 "최대" & 성장` {
		t.Errorf("title not decoded: %q", got[0].Title)
	}
	if got[0].URL != "https://n.news.naver.com/1" || got[0].SourceDate != "Mon, 13 Oct 2025 14:30:00 +0900" {
		t.Errorf("unexpected mapping: %+v", got[0])
	}
	if got[1].Source != "naver" {
		t.Errorf("Source = %q", got[1].Source)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"errorMessage":"auth"}`, http.StatusUnauthorized)
		}, "status 401"},
		{"malformed", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"items":[`)
		}, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, "id", "secret", time.Second).Fetch(context.Background(), "q")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	if got := PlainText("&lt;속보&gt; <b>올타이트</b>"); got != "<속보> 올타이트" {
		t.Fatalf("PlainText = %q", got)
	}
}
