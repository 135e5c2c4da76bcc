package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/source"
)

var _ Scraper = (*HTMLScraper)(nil)

// HTMLScraper extracts article listings from HTML pages using the per-source
// CSS selectors. HTML listings rarely expose publish dates, so items usually
// carry only the ParsedAt fallback timestamp.
type HTMLScraper struct{}

func NewHTMLScraper() *HTMLScraper {
	return &HTMLScraper{}
}

func (s *HTMLScraper) Run(src *source.Config, data []byte, fetchedAt time.Time) ([]metrics.Item, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	baseURL, err := url.Parse(src.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid source URL: %w", err)
	}

	parsedAt := fetchedAt.UTC().Format(time.RFC3339)
	originFile := src.Name + ".html"

	var items []metrics.Item
	doc.Find(src.Scrape.ItemSelector).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		it := metrics.Item{
			Source:     src.Name,
			Title:      s.extractTitle(sel, src.Scrape.TitleSelector),
			URL:        s.extractLink(sel, src.Scrape.LinkSelector, baseURL),
			ParsedAt:   parsedAt,
			OriginFile: originFile,
		}

		if src.Scrape.SummarySelector != "" {
			it.Summary = strings.TrimSpace(sel.Find(src.Scrape.SummarySelector).First().Text())
		}

		// Entries with neither title nor link carry no signal at all.
		if it.Title == "" && it.URL == "" {
			return true
		}

		items = append(items, it)
		return src.Settings.MaxItems <= 0 || len(items) < src.Settings.MaxItems
	})

	return items, nil
}

func (s *HTMLScraper) extractTitle(sel *goquery.Selection, selector string) string {
	if selector == "" {
		return strings.TrimSpace(sel.Text())
	}
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

func (s *HTMLScraper) extractLink(sel *goquery.Selection, selector string, base *url.URL) string {
	var href string
	var ok bool

	if selector == "" {
		if goquery.NodeName(sel) == "a" {
			href, ok = sel.Attr("href")
		} else {
			href, ok = sel.Find("a").First().Attr("href")
		}
	} else {
		href, ok = sel.Find(selector).First().Attr("href")
	}

	if !ok || href == "" {
		return ""
	}

	resolved, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(resolved).String()
}
