package scraper

import (
	"sort"
	"strings"

	"github.com/deusflow/newsmon/internal/news"
)

const (
	naverHost = "naver.com"
	daumHost  = "daum.net"

	// dotLeader replaces "." in publisher names so Telegram does not
	// auto-link them as domains.
	dotLeader = "․"
)

// Resolver turns an article URL (and its page, when available) into a
// publisher name. It holds only static lookup data.
type Resolver struct {
	domains       map[string]string
	domainKeys    []string // longest first, so subdomain entries win
	genericLabels map[string]struct{}
	unknown       string
}

func NewResolver(domains map[string]string, genericLabels []string, unknown string) *Resolver {
	labels := make(map[string]struct{}, len(genericLabels))
	for _, l := range genericLabels {
		labels[l] = struct{}{}
	}
	if unknown == "" {
		unknown = "네이버/daum/google"
	}
	keys := make([]string, 0, len(domains))
	for d := range domains {
		keys = append(keys, d)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &Resolver{domains: domains, domainKeys: keys, genericLabels: labels, unknown: unknown}
}

// Resolve returns a non-empty publisher name. page may be nil when the fetch failed.
func (r *Resolver) Resolve(link, title string, page *Page) string {
	return normalizeMedia(r.resolve(link, title, page))
}

func (r *Resolver) resolve(link, title string, page *Page) string {
	if name, ok := r.lookupDomain(link); ok {
		return name
	}

	if page != nil {
		if name := r.fromPage(link, page); name != "" {
			return name
		}
	}

	if name := r.fromTitle(title); name != "" {
		return name
	}
	return r.unknown
}

func (r *Resolver) fromPage(link string, page *Page) string {
	switch {
	case news.LinkHostMatches(link, naverHost):
		if v, ok := metaContent(page.Doc, "property", "og:article:author"); ok && v != "" {
			return firstField(v)
		}
		if v, ok := metaContent(page.Doc, "name", "twitter:creator"); ok && v != "" {
			return firstField(v)
		}
	case news.LinkHostMatches(link, daumHost):
		if v, ok := metaContent(page.Doc, "property", "article:media_name"); ok && v != "" {
			return v
		}
	}

	// redirects (e.g. aggregator links) may land on a known domain
	if name, ok := r.lookupDomain(page.FinalURL); ok {
		return name
	}

	if v, ok := metaContent(page.Doc, "property", "og:site_name"); ok && v != "" && !r.isGeneric(v) {
		return v
	}
	return ""
}

// fromTitle takes the " - Publisher" suffix aggregators append to titles.
func (r *Resolver) fromTitle(title string) string {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return ""
	}
	maybe := strings.TrimSpace(title[i+len(" - "):])
	if maybe == "" || r.isGeneric(maybe) {
		return ""
	}
	return maybe
}

func (r *Resolver) lookupDomain(link string) (string, bool) {
	for _, domain := range r.domainKeys {
		if news.LinkHostMatches(link, domain) {
			return r.domains[domain], true
		}
	}
	return "", false
}

func (r *Resolver) isGeneric(name string) bool {
	_, ok := r.genericLabels[name]
	return ok
}

func firstField(v string) string {
	return strings.TrimSpace(strings.SplitN(v, "|", 2)[0])
}

func normalizeMedia(name string) string {
	return strings.ReplaceAll(name, ".", dotLeader)
}
