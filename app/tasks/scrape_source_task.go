package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/scrape"
	"github.com/dmoret/travelwire/app/source"
)

type ScrapeSourceTask struct {
	Task
	SourceConfig *source.Config
	fetcher      *scrape.Fetcher
	rssScraper   *scrape.RSSScraper
	htmlScraper  *scrape.HTMLScraper
	itemRepo     database.ItemRepository
}

func NewScrapeSourceTask(sourceName string, sourceConfig *source.Config, fetcher *scrape.Fetcher,
	rssScraper *scrape.RSSScraper, htmlScraper *scrape.HTMLScraper, itemRepo database.ItemRepository) *ScrapeSourceTask {
	return &ScrapeSourceTask{
		Task:         NewTask(TaskTypeScrapeSource, sourceName),
		SourceConfig: sourceConfig,
		fetcher:      fetcher,
		rssScraper:   rssScraper,
		htmlScraper:  htmlScraper,
		itemRepo:     itemRepo,
	}
}

func (t *ScrapeSourceTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", t.SourceName)
		return nil
	}

	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second
	data, err := t.fetcher.Run(ctx, t.SourceConfig.URL, timeout)
	if err != nil {
		return fmt.Errorf("failed to fetch source: %w", err)
	}

	fetchedAt := time.Now().UTC()

	var scraper scrape.Scraper
	switch t.SourceConfig.Kind {
	case source.KindHTML:
		scraper = t.htmlScraper
	default:
		scraper = t.rssScraper
	}

	items, err := scraper.Run(t.SourceConfig, data, fetchedAt)
	if err != nil {
		return fmt.Errorf("failed to scrape source: %w", err)
	}

	storedCount := 0
	for _, item := range items {
		if err := t.itemRepo.UpsertItem(item, scrape.ContentHash(item)); err != nil {
			return fmt.Errorf("failed to upsert item: %w", err)
		}
		storedCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"scraped", len(items),
		"stored", storedCount)

	return nil
}
