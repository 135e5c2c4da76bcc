package database

import (
	"fmt"

	"github.com/dmoret/travelwire/app/metrics"
)

var _ ItemRepository = (*ItemRepositoryImpl)(nil)

type ItemRepositoryImpl struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepositoryImpl {
	return &ItemRepositoryImpl{db: db}
}

// UpsertItem inserts a scraped item, keyed by content hash. On conflict the
// descriptive fields are refreshed but parsed_at keeps its first-seen value,
// so re-scraping does not move an item's fallback timestamp forward.
func (r *ItemRepositoryImpl) UpsertItem(item metrics.Item, contentHash string) error {
	_, err := r.db.Exec(`
		INSERT INTO items (
			source, title, url, summary, author,
			published_at, parsed_at, origin_file, content_hash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (content_hash) DO UPDATE SET
			title = excluded.title,
			summary = excluded.summary,
			author = excluded.author,
			published_at = excluded.published_at,
			origin_file = excluded.origin_file
	`, item.Source, item.Title, item.URL, item.Summary, item.Author,
		item.PublishedAt, item.ParsedAt, item.OriginFile, contentHash)

	if err != nil {
		return fmt.Errorf("failed to upsert item: %w", err)
	}

	return nil
}

func (r *ItemRepositoryImpl) GetAllItems() ([]metrics.Item, error) {
	rows, err := r.db.Query(`
		SELECT source, title, url, summary, author,
		       published_at, parsed_at, origin_file
		FROM items
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []metrics.Item
	for rows.Next() {
		var it metrics.Item
		err := rows.Scan(&it.Source, &it.Title, &it.URL, &it.Summary, &it.Author,
			&it.PublishedAt, &it.ParsedAt, &it.OriginFile)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *ItemRepositoryImpl) GetItemCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func (r *ItemRepositoryImpl) GetItemCountBySource() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT source, COUNT(*) FROM items GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to count items by source: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts[source] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate source counts: %w", err)
	}

	return counts, nil
}

func (r *ItemRepositoryImpl) GetItemsWithoutSummary(source string, limit int) ([]ItemForSummary, error) {
	rows, err := r.db.Query(`
		SELECT id, url FROM items
		WHERE source = ? AND summary = '' AND url != ''
		ORDER BY id DESC
		LIMIT ?
	`, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query items without summary: %w", err)
	}
	defer rows.Close()

	var items []ItemForSummary
	for rows.Next() {
		var it ItemForSummary
		if err := rows.Scan(&it.ID, &it.URL); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}

	return items, nil
}

func (r *ItemRepositoryImpl) UpdateItemSummary(id int64, summary string) error {
	_, err := r.db.Exec(`UPDATE items SET summary = ? WHERE id = ?`, summary, id)
	if err != nil {
		return fmt.Errorf("failed to update item summary: %w", err)
	}
	return nil
}
