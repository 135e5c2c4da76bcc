package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"

	"github.com/dmoret/travelwire/app/metrics"
)

// DashboardGenerator renders a self-contained HTML dashboard from a
// snapshot. No external assets; cadence is drawn with plain CSS bars.
type DashboardGenerator struct {
	tmpl *template.Template
}

func NewDashboardGenerator() (*DashboardGenerator, error) {
	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}
	return &DashboardGenerator{tmpl: tmpl}, nil
}

type dashboardData struct {
	DateSlug    string
	GeneratedAt string
	KPIs        []kpi
	Sources     []sourceCard
	Cadence     []cadenceDay
	TopGlobal   []metrics.TermCount
	Trending    []metrics.TermDelta
}

type kpi struct {
	Label string
	Value string
}

type sourceCard struct {
	Name       string
	Total      int
	Last7d     int
	MostRecent metrics.ItemRef
	Keywords   []metrics.TermCount
}

type cadenceDay struct {
	Day     string
	Count   int
	Percent int
}

func (g *DashboardGenerator) Run(s *metrics.Snapshot) (string, error) {
	data := dashboardData{
		DateSlug:    s.GeneratedAt.Format("2006-01-02"),
		GeneratedAt: s.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		KPIs:        buildKPIs(s),
		Sources:     buildSourceCards(s),
		Cadence:     buildCadence(s),
		TopGlobal:   s.Keywords.TopGlobal,
		Trending:    s.Keywords.TrendingGlobal,
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}
	return buf.String(), nil
}

func buildKPIs(s *metrics.Snapshot) []kpi {
	last7Total := 0
	for _, count := range s.ItemsLast7dBySource {
		last7Total += count
	}

	return []kpi{
		{Label: "Items collected", Value: fmt.Sprintf("%d", s.ItemsTotal)},
		{Label: "Sources", Value: fmt.Sprintf("%d", len(s.ItemsBySource))},
		{Label: "Items (last 7d)", Value: fmt.Sprintf("%d", last7Total)},
		{Label: "Duplicates (URLs / titles)", Value: fmt.Sprintf("%d / %d", s.Duplicates.DuplicateURLs, s.Duplicates.DuplicateTitles)},
	}
}

func buildSourceCards(s *metrics.Snapshot) []sourceCard {
	cards := make([]sourceCard, 0, len(s.ItemsBySource))
	for _, src := range sortedSources(s) {
		keywords := s.Keywords.TopBySource[src]
		if len(keywords) > 8 {
			keywords = keywords[:8]
		}
		cards = append(cards, sourceCard{
			Name:       src,
			Total:      s.ItemsBySource[src],
			Last7d:     s.ItemsLast7dBySource[src],
			MostRecent: s.MostRecentItemBySource[src],
			Keywords:   keywords,
		})
	}
	return cards
}

func buildCadence(s *metrics.Snapshot) []cadenceDay {
	perDay := s.CadenceLast30d.ItemsPerDayGlobal
	if len(perDay) == 0 {
		return nil
	}

	days := make([]string, 0, len(perDay))
	maxCount := 0
	for day, count := range perDay {
		days = append(days, day)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Strings(days)

	cadence := make([]cadenceDay, 0, len(days))
	for _, day := range days {
		count := perDay[day]
		cadence = append(cadence, cadenceDay{
			Day:     day,
			Count:   count,
			Percent: count * 100 / maxCount,
		})
	}
	return cadence
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Travelwire — Dashboard ({{.DateSlug}})</title>
<style>
  body { font-family: -apple-system, sans-serif; margin: 2rem; background: #f7f7f8; color: #1f2328; }
  h1 { font-size: 1.4rem; }
  h2 { font-size: 1.1rem; margin-top: 2rem; }
  .kpis { display: flex; gap: 1rem; flex-wrap: wrap; }
  .kpi { background: #fff; border: 1px solid #e1e4e8; border-radius: 8px; padding: 1rem 1.5rem; }
  .kpi .value { font-size: 1.6rem; font-weight: 600; }
  .kpi .label { font-size: 0.8rem; color: #656d76; }
  .cards { display: flex; gap: 1rem; flex-wrap: wrap; }
  .card { background: #fff; border: 1px solid #e1e4e8; border-radius: 8px; padding: 1rem; width: 20rem; }
  .card h3 { margin: 0 0 0.5rem; font-size: 1rem; }
  .cadence { display: flex; align-items: flex-end; gap: 2px; height: 120px; background: #fff; border: 1px solid #e1e4e8; border-radius: 8px; padding: 1rem; }
  .cadence .bar { flex: 1; background: #4c8bf5; min-height: 2px; }
  .terms span { display: inline-block; background: #eef1f5; border-radius: 4px; padding: 0.1rem 0.4rem; margin: 0.1rem; font-size: 0.85rem; }
  .muted { color: #656d76; font-size: 0.85rem; }
</style>
</head>
<body>
<h1>Travelwire — Dashboard ({{.DateSlug}})</h1>
<p class="muted">Generated at {{.GeneratedAt}}</p>

<div class="kpis">
{{range .KPIs}}  <div class="kpi"><div class="value">{{.Value}}</div><div class="label">{{.Label}}</div></div>
{{end}}</div>

<h2>Publishing cadence (last 30 days)</h2>
{{if .Cadence}}<div class="cadence">
{{range .Cadence}}  <div class="bar" style="height: {{.Percent}}%" title="{{.Day}}: {{.Count}}"></div>
{{end}}</div>
{{else}}<p class="muted">No cadence data available (dates missing).</p>
{{end}}

<h2>Top keywords</h2>
<div class="terms">
{{range .TopGlobal}}<span>{{.Term}} ({{.Count}})</span>
{{else}}<p class="muted">n/a</p>
{{end}}</div>

<h2>Trending keywords (last 7d vs previous 7d)</h2>
<div class="terms">
{{range .Trending}}<span>{{.Term}} (+{{.Delta}})</span>
{{else}}<p class="muted">n/a (not enough historical spread yet)</p>
{{end}}</div>

<h2>Sources</h2>
<div class="cards">
{{range .Sources}}  <div class="card">
    <h3>{{.Name}}</h3>
    <p>{{.Total}} items total, {{.Last7d}} in the last 7 days</p>
    {{if .MostRecent.Title}}<p>Most recent: {{if .MostRecent.URL}}<a href="{{.MostRecent.URL}}">{{.MostRecent.Title}}</a>{{else}}{{.MostRecent.Title}}{{end}}</p>{{end}}
    <div class="terms">{{range .Keywords}}<span>{{.Term}} ({{.Count}})</span>{{end}}</div>
  </div>
{{end}}</div>
</body>
</html>
`
