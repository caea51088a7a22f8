package scraper

import (
	"regexp"
	"strings"

	"github.com/deusflow/newsmon/internal/news"
)

// Tried in order against the raw page; the first match wins.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?s)(\d{4}[-./]\d{2}[-./]\d{2}).{0,50}?(\d{2}:\d{2})`),
	// labelled: approved / issued / registered / input / revised
	regexp.MustCompile(`(?s)(?:승인|발행|등록|입력|수정).*?(\d{4}[-./]\d{2}[-./]\d{2}).{0,100}?(\d{2}:\d{2})`),
}

var dateSeparators = strings.NewReplacer(".", "-", "/", "-")

// ExtractDate recovers the publication stamp embedded in a page. A match that
// does not form a valid date (e.g. "0000-00-00") counts as no match.
func ExtractDate(raw string) (news.Stamp, bool) {
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		stamp, err := news.ParseStamp(dateSeparators.Replace(m[1]) + " | " + m[2])
		if err != nil {
			return "", false
		}
		return stamp, true
	}
	return "", false
}
