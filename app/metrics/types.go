package metrics

import (
	"time"
)

// Item is a single scraped content record. Date fields are kept as the raw
// strings produced by the scrapers; normalization happens during aggregation.
type Item struct {
	Source      string `json:"source"`
	Title       string `json:"title,omitempty"`
	URL         string `json:"url,omitempty"`
	Summary     string `json:"summary,omitempty"`
	Author      string `json:"author,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	ParsedAt    string `json:"parsed_at,omitempty"`
	OriginFile  string `json:"origin_file,omitempty"`
}

type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

type TermDelta struct {
	Term  string `json:"term"`
	Delta int    `json:"delta"`
}

// ItemRef is the trimmed-down item stored in MostRecentItemBySource.
type ItemRef struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	ParsedAt    string `json:"parsed_at"`
}

// Cadence holds per-day item counts over the trailing 30-day window.
// Day keys are UTC calendar dates formatted as YYYY-MM-DD.
type Cadence struct {
	ItemsPerDayGlobal   map[string]int            `json:"items_per_day_global"`
	ItemsPerDayBySource map[string]map[string]int `json:"items_per_day_by_source"`
}

type Keywords struct {
	TopGlobal        []TermCount            `json:"top_global"`
	TopBySource      map[string][]TermCount `json:"top_by_source"`
	TrendingGlobal   []TermDelta            `json:"trending_last_7d_vs_prev_7d_global"`
	TrendingBySource map[string][]TermDelta `json:"trending_last_7d_vs_prev_7d_by_source"`
}

// Duplicates reports distinct repeated keys, not total occurrences.
type Duplicates struct {
	DuplicateURLs      int      `json:"duplicate_urls"`
	DuplicateTitles    int      `json:"duplicate_titles"`
	TopDuplicateURLs   []string `json:"top_duplicate_urls"`
	TopDuplicateTitles []string `json:"top_duplicate_titles"`
}

// Debug exposes data-quality counters: how many items carried a parseable
// published date, a parseable parse date, and any effective date at all.
type Debug struct {
	PublishedAtParsed int `json:"published_at_parsed"`
	ParsedAtParsed    int `json:"parsed_at_parsed"`
	EffectiveParsed   int `json:"effective_dt_parsed"`
}

// Snapshot is the aggregation result produced once per run. It is a pure
// function of the input items and the supplied clock value.
type Snapshot struct {
	GeneratedAt            time.Time          `json:"generated_at"`
	ItemsTotal             int                `json:"items_total"`
	ItemsBySource          map[string]int     `json:"items_by_source"`
	ItemsLast7dBySource    map[string]int     `json:"items_last_7d_by_source"`
	MostRecentItemBySource map[string]ItemRef `json:"most_recent_item_by_source"`
	CadenceLast30d         Cadence            `json:"cadence_last_30d"`
	Keywords               Keywords           `json:"keywords"`
	Duplicates             Duplicates         `json:"duplicates"`
	Debug                  Debug              `json:"debug"`
}
