package news

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// KST is a fixed UTC+9 zone; it does not depend on the host tz database.
var KST = time.FixedZone("KST", 9*60*60)

const stampLayout = "2006-01-02 | 15:04"

// Placeholders shown instead of a date. They are never valid Stamps.
const (
	NoDatePlaceholder  = "날짜 정보 없음"
	BadDatePlaceholder = "날짜 형식 오류"
)

var (
	ErrEmptyDate = errors.New("no date information")
	ErrBadDate   = errors.New("date format error")
)

// Stamp is a "YYYY-MM-DD | HH:MM" string. Lexical order equals chronological
// order, which the final sort depends on, so values only come from NewStamp
// or ParseStamp.
type Stamp string

func NewStamp(t time.Time) Stamp {
	return Stamp(t.Format(stampLayout))
}

// ParseStamp validates s as a zero-padded stamp.
func ParseStamp(s string) (Stamp, error) {
	t, err := time.Parse(stampLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	// time.Parse accepts some non-padded forms; require the canonical rendering.
	if t.Format(stampLayout) != s {
		return "", fmt.Errorf("%w: %q is not canonical", ErrBadDate, s)
	}
	return Stamp(s), nil
}

func (s Stamp) IsZero() bool { return s == "" }

func (s Stamp) String() string { return string(s) }

// Time returns the wall clock the stamp denotes, in KST.
func (s Stamp) Time() time.Time {
	t, err := time.ParseInLocation(stampLayout, string(s), KST)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Day returns the stamp truncated to its calendar day (KST midnight).
func (s Stamp) Day() time.Time {
	t := s.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, KST)
}

// NowKST converts an instant to the fixed KST offset.
func NowKST(now time.Time) time.Time {
	return now.In(KST)
}

// Cutoff is KST midnight of now, minus days.
func Cutoff(now time.Time, days int) time.Time {
	k := NowKST(now)
	midnight := time.Date(k.Year(), k.Month(), k.Day(), 0, 0, 0, 0, KST)
	return midnight.AddDate(0, 0, -days)
}

const rfc822Prefix = 25

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSourceDate normalizes a source reported date into a Stamp.
//
// RFC-822 style values (anything with a comma) keep only the first 25 bytes,
// i.e. the zone is ignored, and get a flat +9h. ISO values are read with their
// offset, normalized to UTC and then shifted +9h; values without an offset are
// taken as UTC.
func ParseSourceDate(raw string) (Stamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyDate
	}

	var t time.Time
	var err error
	if strings.Contains(raw, ",") {
		head := raw
		if len(head) > rfc822Prefix {
			head = head[:rfc822Prefix]
		}
		t, err = time.Parse("Mon, 2 Jan 2006 15:04:05", strings.TrimSpace(head))
	} else {
		t, err = parseISO(strings.Replace(raw, "Z", "+00:00", 1))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, raw)
	}

	return NewStamp(t.UTC().Add(9 * time.Hour)), nil
}

func parseISO(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// DisplayDate renders a source date for humans, with a placeholder on failure.
func DisplayDate(raw string) string {
	s, err := ParseSourceDate(raw)
	switch {
	case errors.Is(err, ErrEmptyDate):
		return NoDatePlaceholder
	case err != nil:
		return BadDatePlaceholder
	}
	return s.String()
}
