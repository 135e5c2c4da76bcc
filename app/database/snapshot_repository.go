package database

import (
	"database/sql"
	"fmt"
	"time"
)

var _ SnapshotRepository = (*SnapshotRepositoryImpl)(nil)

type SnapshotRepositoryImpl struct {
	db *DB
}

func NewSnapshotRepository(db *DB) *SnapshotRepositoryImpl {
	return &SnapshotRepositoryImpl{db: db}
}

func (r *SnapshotRepositoryImpl) SaveSnapshot(generatedAt time.Time, data []byte) error {
	_, err := r.db.Exec(`
		INSERT INTO snapshots (generated_at, data) VALUES (?, ?)
	`, generatedAt.UTC().Format(time.RFC3339), string(data))

	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotRepositoryImpl) GetLatestSnapshot() (*StoredSnapshot, error) {
	var snapshot StoredSnapshot
	var generatedAt, createdAt, data string

	err := r.db.QueryRow(`
		SELECT id, generated_at, data, created_at
		FROM snapshots
		ORDER BY generated_at DESC, id DESC
		LIMIT 1
	`).Scan(&snapshot.ID, &generatedAt, &data, &createdAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest snapshot: %w", err)
	}

	snapshot.Data = []byte(data)
	if ts, err := time.Parse(time.RFC3339, generatedAt); err == nil {
		snapshot.GeneratedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		snapshot.CreatedAt = ts
	}

	return &snapshot, nil
}

func (r *SnapshotRepositoryImpl) GetSnapshotCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}
