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

// ExtractSummariesTask backfills summaries for items whose source listing
// carried none, by fetching the article page and running readability over it.
type ExtractSummariesTask struct {
	Task
	SourceConfig     *source.Config
	fetcher          *scrape.Fetcher
	summaryExtractor *scrape.SummaryExtractor
	itemRepo         database.ItemRepository
}

func NewExtractSummariesTask(sourceName string, sourceConfig *source.Config, fetcher *scrape.Fetcher,
	summaryExtractor *scrape.SummaryExtractor, itemRepo database.ItemRepository) *ExtractSummariesTask {
	return &ExtractSummariesTask{
		Task:             NewTask(TaskTypeExtractSummaries, sourceName),
		SourceConfig:     sourceConfig,
		fetcher:          fetcher,
		summaryExtractor: summaryExtractor,
		itemRepo:         itemRepo,
	}
}

func (t *ExtractSummariesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.SourceConfig.Settings.ExtractSummaries {
		slog.Debug("Summary extraction disabled for source", "source", t.SourceName)
		return nil
	}

	items, err := t.itemRepo.GetItemsWithoutSummary(t.SourceName, t.SourceConfig.Settings.MaxItems)
	if err != nil {
		return fmt.Errorf("failed to get items for summary extraction: %w", err)
	}

	if len(items) == 0 {
		slog.Debug("No items need summary extraction", "source", t.SourceName)
		return nil
	}

	timeout := time.Duration(t.SourceConfig.Settings.Timeout) * time.Second

	successCount := 0
	errorCount := 0

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractSummaryForItem(ctx, item, timeout); err != nil {
			slog.Error("Failed to extract summary for item", "item_id", item.ID, "url", item.URL, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"source", t.SourceName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractSummariesTask) extractSummaryForItem(ctx context.Context, item database.ItemForSummary, timeout time.Duration) error {
	data, err := t.fetcher.Run(ctx, item.URL, timeout)
	if err != nil {
		return fmt.Errorf("failed to fetch article: %w", err)
	}

	summary, err := t.summaryExtractor.Run(data)
	if err != nil {
		return fmt.Errorf("failed to extract summary: %w", err)
	}

	if err := t.itemRepo.UpdateItemSummary(item.ID, summary); err != nil {
		return fmt.Errorf("failed to update item summary: %w", err)
	}

	return nil
}
