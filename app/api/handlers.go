package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/report"
	"github.com/dmoret/travelwire/app/source"
	"github.com/dmoret/travelwire/app/tasks"
)

func NewHandler(itemRepo database.ItemRepository, snapshotRepo database.SnapshotRepository,
	configCache *source.ConfigCache, markdownGen *report.MarkdownGenerator,
	dashboardGen *report.DashboardGenerator, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		itemRepo:     itemRepo,
		snapshotRepo: snapshotRepo,
		configCache:  configCache,
		markdownGen:  markdownGen,
		dashboardGen: dashboardGen,
		scheduler:    scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if itemCount, err := h.itemRepo.GetItemCount(); err == nil {
		health["items"] = itemCount
	}
	if snapshotCount, err := h.snapshotRepo.GetSnapshotCount(); err == nil {
		health["snapshots"] = snapshotCount
	}

	health["loaded_sources"] = h.configCache.GetConfigCount()

	c.JSON(http.StatusOK, health)
}

// GetMetrics serves the latest stored snapshot verbatim.
func (h *Handler) GetMetrics(c *gin.Context) {
	snapshot, ok := h.latestSnapshot(c)
	if !ok {
		return
	}

	c.Header("X-Generated-At", snapshot.GeneratedAt.Format(time.RFC3339))
	c.Data(http.StatusOK, "application/json; charset=utf-8", snapshot.Data)
}

func (h *Handler) GetReport(c *gin.Context) {
	snapshot, ok := h.decodedSnapshot(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/markdown; charset=utf-8")
	c.String(http.StatusOK, h.markdownGen.Run(snapshot))
}

func (h *Handler) GetDashboard(c *gin.Context) {
	snapshot, ok := h.decodedSnapshot(c)
	if !ok {
		return
	}

	html, err := h.dashboardGen.Run(snapshot)
	if err != nil {
		slog.Error("Dashboard rendering error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, html)
}

func (h *Handler) ListSources(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	counts, err := h.itemRepo.GetItemCountBySource()
	if err != nil {
		slog.Error("Database error", "operation", "count_by_source", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	sources := make([]gin.H, 0, len(configs))
	for name, config := range configs {
		sources = append(sources, gin.H{
			"name":             name,
			"url":              config.URL,
			"kind":             config.Kind,
			"enabled":          config.Settings.Enabled,
			"refresh_interval": config.Settings.RefreshInterval,
			"items":            counts[name],
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"total":   len(sources),
		"sources": sources,
	})
}

// TriggerRun enqueues a scrape of every enabled source plus a metrics
// computation. Processing happens in the background worker pool.
func (h *Handler) TriggerRun(c *gin.Context) {
	if err := h.scheduler.EnqueueFullRun(); err != nil {
		slog.Error("Failed to enqueue full run", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to enqueue run"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Run enqueued",
		"sources": h.configCache.GetConfigCount(),
	})
}

func (h *Handler) latestSnapshot(c *gin.Context) (*database.StoredSnapshot, bool) {
	snapshot, err := h.snapshotRepo.GetLatestSnapshot()
	if err != nil {
		slog.Error("Database error", "operation", "get_latest_snapshot", "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}
	if snapshot == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot computed yet"})
		return nil, false
	}
	return snapshot, true
}

func (h *Handler) decodedSnapshot(c *gin.Context) (*metrics.Snapshot, bool) {
	stored, ok := h.latestSnapshot(c)
	if !ok {
		return nil, false
	}

	var snapshot metrics.Snapshot
	if err := json.Unmarshal(stored.Data, &snapshot); err != nil {
		slog.Error("Snapshot decode error", "error", err)
		c.Status(http.StatusInternalServerError)
		return nil, false
	}
	return &snapshot, true
}
