package format

import (
	"strings"
	"time"
)

const displayDateLayout = "02.01.2006"

// isoDateLayouts are tried against the date portion of the input.
var isoDateLayouts = []string{
	"2006-01-02",
	"20060102",
}

// ParseDate extracts the calendar date from an ISO-8601 string. Any time
// component and zone suffix ("Z", "+03:00") are ignored.
func ParseDate(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case *time.Time:
		if v == nil || v.IsZero() {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		// Keep only the date portion: "2024-03-05T10:00:00Z" or "2024-03-05 10:00".
		if i := strings.IndexAny(s, "Tt "); i >= 0 {
			s = s[:i]
		}
		for _, layout := range isoDateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

// Date renders an ISO-8601 date as DD.MM.YYYY, or "" when the input is
// missing or unparsable.
func Date(value interface{}) string {
	t, ok := ParseDate(value)
	if !ok {
		return ""
	}
	return t.Format(displayDateLayout)
}
