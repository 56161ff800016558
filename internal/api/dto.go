package api

import (
	"strings"
	"time"
)

// localized is the tri-language wire shape used by news titles/content and
// echoed (with blank en/cn) by single-locale resources.
type localized struct {
	ID string `json:"id"`
	EN string `json:"en"`
	CN string `json:"cn"`
}

// singleLocale is the id-only wire shape used by job listings.
type singleLocale struct {
	ID string `json:"id"`
}

// isoString renders a timestamp the way the frontend expects dates.
func isoString(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// publishDate picks published_at with created_at as fallback, or nil when
// neither is set.
func publishDate(published *time.Time, created time.Time) *string {
	source := published
	if source == nil {
		if created.IsZero() {
			return nil
		}
		source = &created
	}
	s := isoString(*source)
	return &s
}

// dateLayouts accepted on create/update. The first match wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses an optional client-supplied date. Empty input returns
// (nil, true); unparseable input returns (nil, false).
func parseDate(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	return nil, false
}

// blank reports whether a required string field is missing after trimming.
func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
