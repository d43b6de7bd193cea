package service

import (
	"strings"
	"time"
)

// DuePlaceholder is the literal the model sometimes echoes back when it
// does not know a date. It is ignored, never stored.
const DuePlaceholder = "YYYY-MM-DDTHH:mm"

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate accepts the handful of timestamp formats clients and the
// model produce. The second return is false for anything unparsable,
// empty, or the placeholder.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == DuePlaceholder {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
