package content

import (
	"strings"
	"time"

	ferrors "git.home.luguber.info/sqrtlabs/contentfeed/internal/foundation/errors"
)

// dateLayouts are tried in order. Values without a zone are taken as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseDate parses the date field of a blog post or project. An empty or
// unrecognized value yields a malformed_date error.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s != "" {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, ferrors.MalformedDateError(raw).Build()
}
