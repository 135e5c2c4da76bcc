package scrape

import (
	"testing"
	"time"

	"github.com/dmoret/travelwire/app/source"
)

func htmlTestConfig() *source.Config {
	return &source.Config{
		Name: "cityhopper",
		URL:  "https://cityhopper.example/blog",
		Kind: source.KindHTML,
		Settings: source.ConfigSettings{
			Enabled:  true,
			MaxItems: 100,
		},
		Scrape: source.ConfigScrape{
			ItemSelector:    "article.post",
			TitleSelector:   "h2",
			LinkSelector:    "h2 a",
			SummarySelector: "p.excerpt",
		},
	}
}

func TestHTMLScraperRun(t *testing.T) {
	htmlData := `<html><body>
<article class="post">
  <h2><a href="/blog/weekend-in-lisbon">Weekend in Lisbon</a></h2>
  <p class="excerpt">Two days of tiles and pastry.</p>
</article>
<article class="post">
  <h2><a href="https://cityhopper.example/blog/porto">Porto on a budget</a></h2>
  <p class="excerpt">Cheap eats downtown.</p>
</article>
<article class="post">
  <h2></h2>
</article>
</body></html>`

	fetchedAt := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	scraper := NewHTMLScraper()
	items, err := scraper.Run(htmlTestConfig(), []byte(htmlData), fetchedAt)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	// The third article has no title and no link and is skipped.
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Title != "Weekend in Lisbon" {
		t.Errorf("Expected title 'Weekend in Lisbon', got: %s", item1.Title)
	}
	// Relative links resolve against the source URL.
	if item1.URL != "https://cityhopper.example/blog/weekend-in-lisbon" {
		t.Errorf("Expected resolved URL, got: %s", item1.URL)
	}
	if item1.Summary != "Two days of tiles and pastry." {
		t.Errorf("Expected summary text, got: %s", item1.Summary)
	}
	if item1.PublishedAt != "" {
		t.Errorf("Expected empty published_at for HTML listing, got: %s", item1.PublishedAt)
	}
	if item1.ParsedAt != "2026-02-11T12:00:00Z" {
		t.Errorf("Expected parsed_at '2026-02-11T12:00:00Z', got: %s", item1.ParsedAt)
	}
	if item1.OriginFile != "cityhopper.html" {
		t.Errorf("Expected origin file 'cityhopper.html', got: %s", item1.OriginFile)
	}

	if items[1].URL != "https://cityhopper.example/blog/porto" {
		t.Errorf("Expected absolute URL preserved, got: %s", items[1].URL)
	}
}

func TestHTMLScraperDefaultSelectors(t *testing.T) {
	htmlData := `<html><body>
<li class="entry"><a href="/one">First post</a></li>
<li class="entry"><a href="/two">Second post</a></li>
</body></html>`

	config := htmlTestConfig()
	config.Scrape = source.ConfigScrape{ItemSelector: "li.entry"}

	scraper := NewHTMLScraper()
	items, err := scraper.Run(config, []byte(htmlData), time.Now())

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}
	if items[0].Title != "First post" {
		t.Errorf("Expected entry text as title, got: %s", items[0].Title)
	}
	if items[0].URL != "https://cityhopper.example/one" {
		t.Errorf("Expected first anchor href resolved, got: %s", items[0].URL)
	}
}

func TestHTMLScraperMaxItems(t *testing.T) {
	htmlData := `<html><body>
<article class="post"><h2><a href="/1">One</a></h2></article>
<article class="post"><h2><a href="/2">Two</a></h2></article>
<article class="post"><h2><a href="/3">Three</a></h2></article>
</body></html>`

	config := htmlTestConfig()
	config.Settings.MaxItems = 2

	scraper := NewHTMLScraper()
	items, err := scraper.Run(config, []byte(htmlData), time.Now())

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected max_items to cap at 2, got: %d", len(items))
	}
}
