package api

import (
	"github.com/dmoret/travelwire/app/database"
	"github.com/dmoret/travelwire/app/report"
	"github.com/dmoret/travelwire/app/source"
	"github.com/dmoret/travelwire/app/tasks"
)

type Handler struct {
	itemRepo     database.ItemRepository
	snapshotRepo database.SnapshotRepository
	configCache  *source.ConfigCache
	markdownGen  *report.MarkdownGenerator
	dashboardGen *report.DashboardGenerator
	scheduler    tasks.TaskSchedulerInterface
}
