package database

import (
	"time"

	"github.com/dmoret/travelwire/app/metrics"
)

type ItemRepository interface {
	UpsertItem(item metrics.Item, contentHash string) error
	GetAllItems() ([]metrics.Item, error)
	GetItemCount() (int, error)
	GetItemCountBySource() (map[string]int, error)

	GetItemsWithoutSummary(source string, limit int) ([]ItemForSummary, error)
	UpdateItemSummary(id int64, summary string) error
}

type ItemForSummary struct {
	ID  int64
	URL string
}

type SnapshotRepository interface {
	SaveSnapshot(generatedAt time.Time, data []byte) error
	GetLatestSnapshot() (*StoredSnapshot, error)
	GetSnapshotCount() (int, error)
}
