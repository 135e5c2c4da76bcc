package database

import (
	"time"
)

// StoredSnapshot is a persisted metrics snapshot. Data holds the snapshot
// serialized as JSON; the engine's output shape is authoritative.
type StoredSnapshot struct {
	ID          int64
	GeneratedAt time.Time
	Data        []byte
	CreatedAt   time.Time
}
