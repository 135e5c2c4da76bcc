package scrape

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/source"
)

var _ Scraper = (*RSSScraper)(nil)

type RSSScraper struct {
	gofeedParser *gofeed.Parser
}

func NewRSSScraper() *RSSScraper {
	return &RSSScraper{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses an RSS/Atom document into items. The raw published date string
// is preserved as-is; normalization is the aggregator's job. ParsedAt is
// stamped with the fetch instant and acts as the first-seen fallback.
func (s *RSSScraper) Run(src *source.Config, data []byte, fetchedAt time.Time) ([]metrics.Item, error) {
	feed, err := s.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	parsedAt := fetchedAt.UTC().Format(time.RFC3339)
	originFile := src.Name + ".xml"

	items := make([]metrics.Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		it := metrics.Item{
			Source:      src.Name,
			Title:       item.Title,
			URL:         item.Link,
			Summary:     item.Description,
			PublishedAt: item.Published,
			ParsedAt:    parsedAt,
			OriginFile:  originFile,
		}
		it.Author = extractAuthor(item)
		items = append(items, it)

		if src.Settings.MaxItems > 0 && len(items) >= src.Settings.MaxItems {
			break
		}
	}

	return items, nil
}

func extractAuthor(item *gofeed.Item) string {
	if len(item.Authors) > 0 && item.Authors[0] != nil {
		if item.Authors[0].Name != "" {
			return item.Authors[0].Name
		}
		return item.Authors[0].Email
	}
	if item.Author != nil {
		if item.Author.Name != "" {
			return item.Author.Name
		}
		return item.Author.Email
	}
	return ""
}
