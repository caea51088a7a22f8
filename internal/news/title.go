package news

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	publisherSep  = " - "
	dedupPrefixLn = 20
)

// CleanTitle drops a trailing " - Publisher" suffix and ellipsis markers.
func CleanTitle(title string) string {
	t := strings.TrimSpace(title)
	if i := strings.LastIndex(t, publisherSep); i >= 0 {
		if strings.TrimSpace(t[i+len(publisherSep):]) != "" {
			t = strings.TrimSpace(t[:i])
		}
	}
	t = strings.ReplaceAll(t, "...", "")
	t = strings.ReplaceAll(t, "…", "")
	return strings.TrimSpace(t)
}

// SearchQuery quotes the keyword unless every rune of it is a letter.
func SearchQuery(keyword string) string {
	if keyword == "" {
		return keyword
	}
	for _, r := range keyword {
		if !unicode.IsLetter(r) {
			return `"` + keyword + `"`
		}
	}
	return keyword
}

// titlePrefix returns the first n runes of s.
func titlePrefix(s string, n int) string {
	rs := []rune(s)
	if len(rs) > n {
		rs = rs[:n]
	}
	return string(rs)
}

// isDuplicate reports whether a candidate collides with an accepted item:
// same title prefix, or one URL containing the other.
func isDuplicate(cleanTitle, link string, accepted []Item) bool {
	prefix := titlePrefix(cleanTitle, dedupPrefixLn)
	for _, it := range accepted {
		if prefix == titlePrefix(it.Title, dedupPrefixLn) {
			return true
		}
		if strings.Contains(it.URL, link) || strings.Contains(link, it.URL) {
			return true
		}
	}
	return false
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if t != "" && strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// hostOf returns the lower-cased host of link, or "" when it does not parse.
func hostOf(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostMatches reports whether host is domain or a subdomain of it.
func HostMatches(host, domain string) bool {
	host = strings.ToLower(host)
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// LinkHostMatches is HostMatches on the host of link.
func LinkHostMatches(link, domain string) bool {
	return HostMatches(hostOf(link), domain)
}
