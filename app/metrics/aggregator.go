package metrics

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

const (
	topGlobalTerms   = 20
	topSourceTerms   = 15
	topDuplicateKeys = 10
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// Aggregator computes a MetricsSnapshot from a flat item collection in a
// single pass. It holds no state between runs; every Run call builds fresh
// accumulators, so independent batches can be aggregated concurrently.
type Aggregator struct {
	tokenizer *Tokenizer
}

func NewAggregator(tokenizer *Tokenizer) *Aggregator {
	return &Aggregator{tokenizer: tokenizer}
}

type mostRecent struct {
	ref ItemRef
	at  *time.Time
}

// Run aggregates items against the supplied clock value. Malformed
// individual items never fail the run: missing fields and unparseable dates
// degrade to empty contributions and surface only in the debug counters.
func (a *Aggregator) Run(items []Item, now time.Time) *Snapshot {
	now = now.UTC()
	d7 := now.Add(-7 * 24 * time.Hour)
	d14 := now.Add(-14 * 24 * time.Hour)
	d30 := now.Add(-30 * 24 * time.Hour)

	itemsBySource := make(map[string]int)
	urlCounts := make(map[string]int)
	titleNormCounts := make(map[string]int)
	last7BySource := make(map[string]int)
	perDayGlobal := make(map[string]int)
	perDayBySource := make(map[string]map[string]int)
	recentBySource := make(map[string]mostRecent)
	kwGlobal := make(map[string]int)
	kwBySource := make(map[string]map[string]int)
	kwLast7Global := make(map[string]int)
	kwPrev7Global := make(map[string]int)
	kwLast7BySource := make(map[string]map[string]int)
	kwPrev7BySource := make(map[string]map[string]int)

	var debug Debug

	for _, it := range items {
		source := it.Source
		if source == "" {
			source = "unknown"
		}
		itemsBySource[source]++

		if url := strings.TrimSpace(it.URL); url != "" {
			urlCounts[url]++
		}

		title := strings.TrimSpace(it.Title)
		if title != "" {
			tnorm := whitespaceRe.ReplaceAllString(strings.ToLower(title), " ")
			titleNormCounts[tnorm]++
		}

		pubAt := Normalize(it.PublishedAt)
		if pubAt != nil {
			debug.PublishedAtParsed++
		}
		parsedAt := Normalize(it.ParsedAt)
		if parsedAt != nil {
			debug.ParsedAtParsed++
		}

		effective := pubAt
		if effective == nil {
			effective = parsedAt
		}
		if effective != nil {
			debug.EffectiveParsed++

			if !effective.Before(d7) {
				last7BySource[source]++
			}
			if !effective.Before(d30) {
				day := effective.Format("2006-01-02")
				perDayGlobal[day]++
				if perDayBySource[source] == nil {
					perDayBySource[source] = make(map[string]int)
				}
				perDayBySource[source][day]++
			}
		}

		// The first item seen for a source becomes its "most recent" record
		// even with no parseable date; afterwards only a dated candidate can
		// replace it, and only with a strictly greater instant.
		current, seen := recentBySource[source]
		if !seen || (effective != nil && (current.at == nil || effective.After(*current.at))) {
			recentBySource[source] = mostRecent{
				ref: ItemRef{
					Title:       it.Title,
					URL:         it.URL,
					PublishedAt: it.PublishedAt,
					ParsedAt:    it.ParsedAt,
				},
				at: effective,
			}
		}

		tokens := a.tokenizer.Run(title)
		if len(tokens) == 0 {
			continue
		}

		addTokens(kwGlobal, tokens)
		addTokensBySource(kwBySource, source, tokens)

		// Undated items contribute to historical counters only, never to a
		// trending window.
		if effective == nil {
			continue
		}
		if !effective.Before(d7) {
			addTokens(kwLast7Global, tokens)
			addTokensBySource(kwLast7BySource, source, tokens)
		} else if !effective.Before(d14) {
			addTokens(kwPrev7Global, tokens)
			addTokensBySource(kwPrev7BySource, source, tokens)
		}
	}

	itemsTotal := len(items)

	mostRecentOut := make(map[string]ItemRef, len(recentBySource))
	for source, mr := range recentBySource {
		mostRecentOut[source] = mr.ref
	}

	topBySource := make(map[string][]TermCount, len(kwBySource))
	for source, counts := range kwBySource {
		topBySource[source] = topTerms(counts, topSourceTerms)
	}

	trendingBySource := make(map[string][]TermDelta, len(itemsBySource))
	for source := range itemsBySource {
		delta := positiveDeltas(kwLast7BySource[source], kwPrev7BySource[source])
		trendingBySource[source] = topDeltas(delta, topSourceTerms)
	}

	return &Snapshot{
		GeneratedAt:            now,
		ItemsTotal:             itemsTotal,
		ItemsBySource:          itemsBySource,
		ItemsLast7dBySource:    last7BySource,
		MostRecentItemBySource: mostRecentOut,
		CadenceLast30d: Cadence{
			ItemsPerDayGlobal:   perDayGlobal,
			ItemsPerDayBySource: perDayBySource,
		},
		Keywords: Keywords{
			TopGlobal:        topTerms(kwGlobal, topGlobalTerms),
			TopBySource:      topBySource,
			TrendingGlobal:   topDeltas(positiveDeltas(kwLast7Global, kwPrev7Global), topGlobalTerms),
			TrendingBySource: trendingBySource,
		},
		Duplicates: duplicateSummary(urlCounts, titleNormCounts),
		Debug:      debug,
	}
}

func addTokens(counter map[string]int, tokens []string) {
	for _, tok := range tokens {
		counter[tok]++
	}
}

func addTokensBySource(counters map[string]map[string]int, source string, tokens []string) {
	if counters[source] == nil {
		counters[source] = make(map[string]int)
	}
	addTokens(counters[source], tokens)
}

// positiveDeltas keeps only terms whose last-7d count exceeds their
// previous-7d count. Zero and negative net changes are dropped entirely.
func positiveDeltas(last7, prev7 map[string]int) map[string]int {
	deltas := make(map[string]int, len(last7))
	for term, count := range last7 {
		if d := count - prev7[term]; d > 0 {
			deltas[term] = d
		}
	}
	return deltas
}

// topTerms ranks a counter descending by count and truncates to n. Ties are
// broken lexicographically to keep runs reproducible.
func topTerms(counts map[string]int, n int) []TermCount {
	ranked := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		ranked = append(ranked, TermCount{Term: term, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func topDeltas(deltas map[string]int, n int) []TermDelta {
	ranked := make([]TermDelta, 0, len(deltas))
	for term, delta := range deltas {
		ranked = append(ranked, TermDelta{Term: term, Delta: delta})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Delta != ranked[j].Delta {
			return ranked[i].Delta > ranked[j].Delta
		}
		return ranked[i].Term < ranked[j].Term
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// duplicateSummary counts distinct keys that occur at least twice and keeps
// up to 10 example keys each, ranked by occurrence count descending.
func duplicateSummary(urlCounts, titleNormCounts map[string]int) Duplicates {
	return Duplicates{
		DuplicateURLs:      countDuplicates(urlCounts),
		DuplicateTitles:    countDuplicates(titleNormCounts),
		TopDuplicateURLs:   topDuplicates(urlCounts),
		TopDuplicateTitles: topDuplicates(titleNormCounts),
	}
}

func countDuplicates(counts map[string]int) int {
	total := 0
	for _, c := range counts {
		if c > 1 {
			total++
		}
	}
	return total
}

func topDuplicates(counts map[string]int) []string {
	type keyCount struct {
		key   string
		count int
	}
	dups := make([]keyCount, 0)
	for key, count := range counts {
		if count > 1 {
			dups = append(dups, keyCount{key: key, count: count})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].count != dups[j].count {
			return dups[i].count > dups[j].count
		}
		return dups[i].key < dups[j].key
	})
	if len(dups) > topDuplicateKeys {
		dups = dups[:topDuplicateKeys]
	}
	keys := make([]string, 0, len(dups))
	for _, d := range dups {
		keys = append(keys, d.key)
	}
	return keys
}
