package metrics

import (
	"strings"
	"time"
)

// Layouts tried in order: ISO 8601 variants first, then RSS pubDate styles.
// Layouts without a zone are interpreted as UTC. First successful parse wins.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z, // "Mon, 02 Jan 2006 15:04:05 -0700"
	time.RFC1123,  // "Mon, 02 Jan 2006 15:04:05 GMT"
}

// Normalize parses a raw date string into a UTC instant. Empty or
// unparseable input yields nil; that is a data-quality signal, not an error.
func Normalize(raw string) *time.Time {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		u := t.UTC()
		return &u
	}

	return nil
}

// EffectiveTime resolves the authoritative instant for an item: the
// published date when parseable, otherwise the scrape time. ParsedAt is
// always stamped by the scrapers, so it acts as the "first seen" fallback.
func EffectiveTime(it Item) *time.Time {
	if ts := Normalize(it.PublishedAt); ts != nil {
		return ts
	}
	return Normalize(it.ParsedAt)
}
