package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmoret/travelwire/app/metrics"
)

const (
	reportTopKeywords    = 15
	reportSourceKeywords = 12
	summaryTopKeywords   = 5
	summaryTrendingLimit = 5
)

// MarkdownGenerator renders the weekly report from a snapshot. The snapshot
// is read-only input; rendering never mutates it.
type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (g *MarkdownGenerator) Run(s *metrics.Snapshot) string {
	var buf bytes.Buffer

	dateSlug := s.GeneratedAt.Format("2006-01-02")

	fmt.Fprintf(&buf, "# Travelwire — Report (%s)\n\n", dateSlug)
	fmt.Fprintf(&buf, "Generated at: `%s`\n\n", s.GeneratedAt.Format(time.RFC3339))

	g.writeExecutiveSummary(&buf, s)
	g.writeVolumeTable(&buf, s)
	g.writeMostRecentTable(&buf, s)
	g.writeTopKeywords(&buf, s)
	g.writeTrendingKeywords(&buf, s)
	g.writeRecommendations(&buf, s)
	g.writeDataQuality(&buf, s)

	return buf.String()
}

func (g *MarkdownGenerator) writeExecutiveSummary(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Executive summary\n")

	fmt.Fprintf(buf, "- Collected **%d** items across %d sources.\n", s.ItemsTotal, len(s.ItemsBySource))

	topKw := s.Keywords.TopGlobal
	if len(topKw) > summaryTopKeywords {
		topKw = topKw[:summaryTopKeywords]
	}
	if len(topKw) > 0 {
		parts := make([]string, 0, len(topKw))
		for _, tc := range topKw {
			parts = append(parts, fmt.Sprintf("%s(%d)", tc.Term, tc.Count))
		}
		fmt.Fprintf(buf, "- Top title keywords: **%s**.\n", strings.Join(parts, ", "))
	} else {
		buf.WriteString("- Top title keywords: **n/a**.\n")
	}

	// Silent source rule: zero items in the last 7 days may mean a stalled
	// source or just missing dates.
	var silent []string
	for _, src := range sortedSources(s) {
		if s.ItemsLast7dBySource[src] == 0 {
			silent = append(silent, src)
		}
	}
	if len(silent) > 0 {
		fmt.Fprintf(buf, "- ⚠️ No recent items in last 7 days for: **%s** (or missing dates).\n", strings.Join(silent, ", "))
	}

	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeVolumeTable(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Volume by source\n")

	type row struct {
		source string
		count  int
	}
	rows := make([]row, 0, len(s.ItemsBySource))
	for src, count := range s.ItemsBySource {
		rows = append(rows, row{source: src, count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].source < rows[j].source
	})

	buf.WriteString("| Source | Items (total) | Items (last 7d) |\n")
	buf.WriteString("| --- | --- | --- |\n")
	for _, r := range rows {
		fmt.Fprintf(buf, "| %s | %d | %d |\n", r.source, r.count, s.ItemsLast7dBySource[r.source])
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeMostRecentTable(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Most recent item by source\n")
	buf.WriteString("| Source | Item | Published at |\n")
	buf.WriteString("| --- | --- | --- |\n")

	for _, src := range sortedSources(s) {
		mr := s.MostRecentItemBySource[src]
		title := strings.ReplaceAll(mr.Title, "|", "\\|")

		var itemMD string
		switch {
		case mr.URL != "" && title != "":
			itemMD = fmt.Sprintf("[%s](%s)", title, mr.URL)
		case title != "":
			itemMD = title
		default:
			itemMD = "n/a"
		}

		pub := mr.PublishedAt
		if pub == "" {
			pub = "n/a"
		}

		fmt.Fprintf(buf, "| %s | %s | %s |\n", src, itemMD, pub)
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeTopKeywords(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Top keywords (titles)\n")

	topGlobal := s.Keywords.TopGlobal
	if len(topGlobal) > reportTopKeywords {
		topGlobal = topGlobal[:reportTopKeywords]
	}
	if len(topGlobal) > 0 {
		parts := make([]string, 0, len(topGlobal))
		for _, tc := range topGlobal {
			parts = append(parts, fmt.Sprintf("`%s`(%d)", tc.Term, tc.Count))
		}
		fmt.Fprintf(buf, "**Global**: %s\n\n", strings.Join(parts, ", "))
	} else {
		buf.WriteString("**Global**: n/a\n\n")
	}

	buf.WriteString("**By source**\n")
	for _, src := range sortedSources(s) {
		topList := s.Keywords.TopBySource[src]
		if len(topList) > reportSourceKeywords {
			topList = topList[:reportSourceKeywords]
		}
		if len(topList) == 0 {
			fmt.Fprintf(buf, "- **%s**: n/a\n", src)
			continue
		}
		parts := make([]string, 0, len(topList))
		for _, tc := range topList {
			parts = append(parts, fmt.Sprintf("`%s`(%d)", tc.Term, tc.Count))
		}
		fmt.Fprintf(buf, "- **%s**: %s\n", src, strings.Join(parts, ", "))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeTrendingKeywords(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Trending keywords (last 7d vs previous 7d)\n")
	buf.WriteString("Signals: positive deltas in title keyword frequency.\n\n")

	trendingGlobal := s.Keywords.TrendingGlobal
	if len(trendingGlobal) > reportTopKeywords {
		trendingGlobal = trendingGlobal[:reportTopKeywords]
	}
	if len(trendingGlobal) > 0 {
		parts := make([]string, 0, len(trendingGlobal))
		for _, td := range trendingGlobal {
			parts = append(parts, fmt.Sprintf("`%s`(+%d)", td.Term, td.Delta))
		}
		fmt.Fprintf(buf, "**Global (top increases)**: %s\n\n", strings.Join(parts, ", "))
	} else {
		buf.WriteString("**Global (top increases)**: n/a (not enough historical spread yet)\n\n")
	}

	buf.WriteString("**By source**\n")
	for _, src := range sortedSources(s) {
		topList := s.Keywords.TrendingBySource[src]
		if len(topList) > reportSourceKeywords {
			topList = topList[:reportSourceKeywords]
		}
		if len(topList) == 0 {
			fmt.Fprintf(buf, "- **%s**: n/a\n", src)
			continue
		}
		parts := make([]string, 0, len(topList))
		for _, td := range topList {
			parts = append(parts, fmt.Sprintf("`%s`(+%d)", td.Term, td.Delta))
		}
		fmt.Fprintf(buf, "- **%s**: %s\n", src, strings.Join(parts, ", "))
	}
	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeRecommendations(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Recommendations / actions\n")
	buf.WriteString("**Content strategy**\n")

	trending := s.Keywords.TrendingGlobal
	if len(trending) > summaryTrendingLimit {
		trending = trending[:summaryTrendingLimit]
	}
	if len(trending) > 0 {
		terms := make([]string, 0, len(trending))
		for _, td := range trending {
			terms = append(terms, td.Term)
		}
		fmt.Fprintf(buf, "- Emerging keyword momentum detected: **%s**. Consider prioritizing these topics in upcoming content.\n", strings.Join(terms, ", "))
	} else {
		buf.WriteString("- No clear week-over-week keyword momentum detected yet. Trending signals will strengthen as historical data accumulates.\n")
	}

	buf.WriteString("\n**Data quality: duplicates and noise**\n")
	if s.Duplicates.DuplicateURLs > 0 {
		buf.WriteString("- Investigate duplicate URLs: possible pagination repeats or parsing duplicates.\n")
	} else {
		buf.WriteString("- No URL duplicates detected: parsing + caching look healthy.\n")
	}
	if s.Duplicates.DuplicateTitles > 0 {
		buf.WriteString("- Repeated titles found across items: check for syndicated or reposted content.\n")
	}

	buf.WriteString("\n")
}

func (g *MarkdownGenerator) writeDataQuality(buf *bytes.Buffer, s *metrics.Snapshot) {
	buf.WriteString("## Data quality\n")
	fmt.Fprintf(buf, "- Items with parseable `published_at`: %d/%d\n", s.Debug.PublishedAtParsed, s.ItemsTotal)
	fmt.Fprintf(buf, "- Items with parseable `parsed_at`: %d/%d\n", s.Debug.ParsedAtParsed, s.ItemsTotal)
	fmt.Fprintf(buf, "- Items with any effective date: %d/%d\n", s.Debug.EffectiveParsed, s.ItemsTotal)
}

func sortedSources(s *metrics.Snapshot) []string {
	sources := make([]string, 0, len(s.ItemsBySource))
	for src := range s.ItemsBySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)
	return sources
}
