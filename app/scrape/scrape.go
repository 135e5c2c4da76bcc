package scrape

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/dmoret/travelwire/app/metrics"
	"github.com/dmoret/travelwire/app/source"
)

// Scraper turns a fetched page into flat items for aggregation. Each source
// kind has one implementation.
type Scraper interface {
	Run(src *source.Config, data []byte, fetchedAt time.Time) ([]metrics.Item, error)
}

// ContentHash identifies an item for storage-level deduplication. Only title
// and URL participate so a changed summary does not re-insert the item.
func ContentHash(it metrics.Item) string {
	content := fmt.Sprintf("%s|%s", it.Title, it.URL)

	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
