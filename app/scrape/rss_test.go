package scrape

import (
	"testing"
	"time"

	"github.com/dmoret/travelwire/app/source"
)

func rssTestConfig(maxItems int) *source.Config {
	return &source.Config{
		Name: "andesviajeros",
		URL:  "https://andesviajeros.example/feed",
		Kind: source.KindRSS,
		Settings: source.ConfigSettings{
			Enabled:  true,
			MaxItems: maxItems,
		},
	}
}

func TestRSSScraperRun(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Andes Viajeros</title>
    <link>https://andesviajeros.example</link>
    <description>Travel stories</description>
    <item>
      <title>Guía de Cusco</title>
      <link>https://andesviajeros.example/cusco</link>
      <description>Qué ver en Cusco</description>
      <pubDate>Mon, 09 Feb 2026 10:00:00 +0000</pubDate>
      <author>ana@andesviajeros.example (Ana Torres)</author>
    </item>
    <item>
      <title>Packing list</title>
      <link>https://andesviajeros.example/packing</link>
      <description>What to bring</description>
    </item>
  </channel>
</rss>`

	fetchedAt := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)
	scraper := NewRSSScraper()
	items, err := scraper.Run(rssTestConfig(0), []byte(rssData), fetchedAt)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got: %d", len(items))
	}

	item1 := items[0]
	if item1.Source != "andesviajeros" {
		t.Errorf("Expected source 'andesviajeros', got: %s", item1.Source)
	}
	if item1.Title != "Guía de Cusco" {
		t.Errorf("Expected title 'Guía de Cusco', got: %s", item1.Title)
	}
	if item1.URL != "https://andesviajeros.example/cusco" {
		t.Errorf("Expected link 'https://andesviajeros.example/cusco', got: %s", item1.URL)
	}
	if item1.Author != "Ana Torres" {
		t.Errorf("Expected author 'Ana Torres', got: %s", item1.Author)
	}
	// The raw date string must survive untouched for later normalization.
	if item1.PublishedAt != "Mon, 09 Feb 2026 10:00:00 +0000" {
		t.Errorf("Expected raw pubDate preserved, got: %s", item1.PublishedAt)
	}
	if item1.ParsedAt != "2026-02-11T12:00:00Z" {
		t.Errorf("Expected parsed_at '2026-02-11T12:00:00Z', got: %s", item1.ParsedAt)
	}
	if item1.OriginFile != "andesviajeros.xml" {
		t.Errorf("Expected origin file 'andesviajeros.xml', got: %s", item1.OriginFile)
	}

	// Items without a pubDate keep an empty published_at.
	if items[1].PublishedAt != "" {
		t.Errorf("Expected empty published_at, got: %s", items[1].PublishedAt)
	}
}

func TestRSSScraperMaxItems(t *testing.T) {
	rssData := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Feed</title>
    <item><title>One</title><link>https://e.example/1</link></item>
    <item><title>Two</title><link>https://e.example/2</link></item>
    <item><title>Three</title><link>https://e.example/3</link></item>
  </channel>
</rss>`

	scraper := NewRSSScraper()
	items, err := scraper.Run(rssTestConfig(2), []byte(rssData), time.Now())

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("Expected max_items to cap at 2, got: %d", len(items))
	}
}

func TestRSSScraperInvalidData(t *testing.T) {
	scraper := NewRSSScraper()
	_, err := scraper.Run(rssTestConfig(0), []byte("not a feed at all"), time.Now())

	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}
