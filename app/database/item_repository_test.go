package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dmoret/travelwire/app/metrics"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestItemRepositoryUpsertAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	item := metrics.Item{
		Source:      "medium_travel",
		Title:       "Cheap Flights To Rome",
		URL:         "https://example.com/rome",
		PublishedAt: "Wed, 11 Feb 2026 09:07:10 GMT",
		ParsedAt:    "2026-02-11T10:00:00Z",
		OriginFile:  "medium_travel.xml",
	}

	if err := repo.UpsertItem(item, "hash-1"); err != nil {
		t.Fatal(err)
	}

	items, err := repo.GetAllItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item, got %d", len(items))
	}
	if items[0].Title != "Cheap Flights To Rome" {
		t.Errorf("Expected title 'Cheap Flights To Rome', got '%s'", items[0].Title)
	}
	if items[0].PublishedAt != "Wed, 11 Feb 2026 09:07:10 GMT" {
		t.Errorf("Raw published_at string must survive storage, got '%s'", items[0].PublishedAt)
	}
}

func TestItemRepositoryUpsertKeepsFirstSeenParsedAt(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	item := metrics.Item{
		Source:   "medium_travel",
		Title:    "Kyoto temples",
		URL:      "https://example.com/kyoto",
		ParsedAt: "2026-02-01T10:00:00Z",
	}
	if err := repo.UpsertItem(item, "hash-1"); err != nil {
		t.Fatal(err)
	}

	// Re-scrape of the same item a week later.
	item.ParsedAt = "2026-02-08T10:00:00Z"
	item.Summary = "A walk through Kyoto's temple district"
	if err := repo.UpsertItem(item, "hash-1"); err != nil {
		t.Fatal(err)
	}

	items, err := repo.GetAllItems()
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("Expected 1 item after re-upsert, got %d", len(items))
	}
	if items[0].ParsedAt != "2026-02-01T10:00:00Z" {
		t.Errorf("parsed_at must keep first-seen value, got '%s'", items[0].ParsedAt)
	}
	if items[0].Summary == "" {
		t.Error("summary should be refreshed on upsert")
	}
}

func TestItemRepositoryCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	for i, source := range []string{"a", "a", "b"} {
		item := metrics.Item{Source: source, Title: "t", URL: "u"}
		if err := repo.UpsertItem(item, string(rune('0'+i))); err != nil {
			t.Fatal(err)
		}
	}

	count, err := repo.GetItemCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("Expected 3 items, got %d", count)
	}

	bySource, err := repo.GetItemCountBySource()
	if err != nil {
		t.Fatal(err)
	}
	if bySource["a"] != 2 || bySource["b"] != 1 {
		t.Errorf("Expected a:2 b:1, got %v", bySource)
	}
}

func TestItemRepositorySummaryBackfill(t *testing.T) {
	db := newTestDB(t)
	repo := NewItemRepository(db)

	withSummary := metrics.Item{Source: "a", Title: "x", URL: "https://a/1", Summary: "has one"}
	withoutSummary := metrics.Item{Source: "a", Title: "y", URL: "https://a/2"}
	if err := repo.UpsertItem(withSummary, "h1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.UpsertItem(withoutSummary, "h2"); err != nil {
		t.Fatal(err)
	}

	pending, err := repo.GetItemsWithoutSummary("a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("Expected 1 item without summary, got %d", len(pending))
	}

	if err := repo.UpdateItemSummary(pending[0].ID, "filled in"); err != nil {
		t.Fatal(err)
	}

	pending, err = repo.GetItemsWithoutSummary("a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("Expected no pending items after backfill, got %d", len(pending))
	}
}

func TestSnapshotRepositoryLatest(t *testing.T) {
	db := newTestDB(t)
	repo := NewSnapshotRepository(db)

	latest, err := repo.GetLatestSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Fatal("Expected nil snapshot on empty database")
	}

	older := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC)

	if err := repo.SaveSnapshot(older, []byte(`{"items_total":1}`)); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveSnapshot(newer, []byte(`{"items_total":2}`)); err != nil {
		t.Fatal(err)
	}

	latest, err = repo.GetLatestSnapshot()
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil {
		t.Fatal("Expected a snapshot")
	}
	if !latest.GeneratedAt.Equal(newer) {
		t.Errorf("Expected latest snapshot at %v, got %v", newer, latest.GeneratedAt)
	}
	if string(latest.Data) != `{"items_total":2}` {
		t.Errorf("Unexpected snapshot data: %s", latest.Data)
	}

	count, err := repo.GetSnapshotCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("Expected 2 snapshots, got %d", count)
	}
}
