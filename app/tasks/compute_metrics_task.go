package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/report"
)

// ComputeMetricsTask runs the aggregation engine over the stored item
// collection, persists the snapshot and renders the report and dashboard
// files under the data directory.
type ComputeMetricsTask struct {
	Task
	aggregator   *metrics.Aggregator
	itemRepo     database.ItemRepository
	snapshotRepo database.SnapshotRepository
	markdownGen  *report.MarkdownGenerator
	dashboardGen *report.DashboardGenerator
	dataDir      string
}

func NewComputeMetricsTask(aggregator *metrics.Aggregator, itemRepo database.ItemRepository,
	snapshotRepo database.SnapshotRepository, markdownGen *report.MarkdownGenerator,
	dashboardGen *report.DashboardGenerator, dataDir string) *ComputeMetricsTask {
	return &ComputeMetricsTask{
		Task:         NewTask(TaskTypeComputeMetrics, ""),
		aggregator:   aggregator,
		itemRepo:     itemRepo,
		snapshotRepo: snapshotRepo,
		markdownGen:  markdownGen,
		dashboardGen: dashboardGen,
		dataDir:      dataDir,
	}
}

func (t *ComputeMetricsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	items, err := t.itemRepo.GetAllItems()
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	snapshot := t.aggregator.Run(items, time.Now().UTC())

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := t.snapshotRepo.SaveSnapshot(snapshot.GeneratedAt, data); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	if err := t.renderOutputs(snapshot); err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"duration", t.GetDuration(),
		"items", snapshot.ItemsTotal,
		"sources", len(snapshot.ItemsBySource),
		"effective_dates", snapshot.Debug.EffectiveParsed)

	return nil
}

func (t *ComputeMetricsTask) renderOutputs(snapshot *metrics.Snapshot) error {
	reportsDir := filepath.Join(t.dataDir, "reports")
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create reports directory: %w", err)
	}

	dateSlug := snapshot.GeneratedAt.Format("2006-01-02")

	reportPath := filepath.Join(reportsDir, fmt.Sprintf("report_%s.md", dateSlug))
	if err := os.WriteFile(reportPath, []byte(t.markdownGen.Run(snapshot)), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	dashboard, err := t.dashboardGen.Run(snapshot)
	if err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}

	dashboardPath := filepath.Join(reportsDir, fmt.Sprintf("dashboard_%s.html", dateSlug))
	if err := os.WriteFile(dashboardPath, []byte(dashboard), 0o644); err != nil {
		return fmt.Errorf("failed to write dashboard: %w", err)
	}

	return nil
}
