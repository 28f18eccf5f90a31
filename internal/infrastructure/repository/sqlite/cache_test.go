package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/snipvault/snipvault/internal/core/domain"
)

func cachedFixture() []domain.ContentItem {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return []domain.ContentItem{
		{ID: "f1", OwnerID: "user-1", Kind: domain.KindFile, Title: "go worker pool", Language: "go", Tags: []string{"concurrency"}, Content: "func worker(jobs <-chan int) {}", CreatedAt: base, UpdatedAt: base},
		{ID: "f2", OwnerID: "user-1", Kind: domain.KindFile, Title: "sql migrations", Language: "sql", CreatedAt: base.Add(time.Minute), UpdatedAt: base.Add(time.Minute)},
		{ID: "f3", OwnerID: "user-1", Kind: domain.KindFile, Title: "old scratch", Archived: true, CreatedAt: base.Add(2 * time.Minute), UpdatedAt: base.Add(2 * time.Minute)},
	}
}

func TestReplaceLibraryRoundTrips(t *testing.T) {
	cache, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer cache.Close()
	ctx := context.Background()

	if err := cache.ReplaceLibrary(ctx, "user-1", cachedFixture()); err != nil {
		t.Fatalf("ReplaceLibrary() error = %v", err)
	}

	items, err := cache.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 active items, got %d", len(items))
	}
	if items[0].ID != "f1" || items[1].ID != "f2" {
		t.Fatalf("expected creation order f1, f2, got %s, %s", items[0].ID, items[1].ID)
	}
	if len(items[0].Tags) != 1 || items[0].Tags[0] != "concurrency" {
		t.Fatalf("expected tags to round trip, got %v", items[0].Tags)
	}

	syncedAt, err := cache.SyncedAt(ctx, "user-1")
	if err != nil {
		t.Fatalf("SyncedAt() error = %v", err)
	}
	if syncedAt.IsZero() {
		t.Fatal("expected a sync stamp")
	}
}

func TestReplaceLibraryDropsStaleRows(t *testing.T) {
	cache, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer cache.Close()
	ctx := context.Background()

	if err := cache.ReplaceLibrary(ctx, "user-1", cachedFixture()); err != nil {
		t.Fatalf("first ReplaceLibrary() error = %v", err)
	}
	if err := cache.ReplaceLibrary(ctx, "user-1", cachedFixture()[:1]); err != nil {
		t.Fatalf("second ReplaceLibrary() error = %v", err)
	}

	items, err := cache.ListByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "f1" {
		t.Fatalf("expected only f1 after resync, got %+v", items)
	}
}

func TestSearchByOwnerMatchesTitleAndContent(t *testing.T) {
	cache, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error = %v", err)
	}
	defer cache.Close()
	ctx := context.Background()

	if err := cache.ReplaceLibrary(ctx, "user-1", cachedFixture()); err != nil {
		t.Fatalf("ReplaceLibrary() error = %v", err)
	}

	byTitle, err := cache.SearchByOwner(ctx, "user-1", "migrations", 10)
	if err != nil {
		t.Fatalf("SearchByOwner() error = %v", err)
	}
	if len(byTitle) != 1 || byTitle[0].ID != "f2" {
		t.Fatalf("expected f2 by title, got %+v", byTitle)
	}

	byContent, err := cache.SearchByOwner(ctx, "user-1", "jobs", 10)
	if err != nil {
		t.Fatalf("SearchByOwner() error = %v", err)
	}
	if len(byContent) != 1 || byContent[0].ID != "f1" {
		t.Fatalf("expected f1 by content, got %+v", byContent)
	}

	none, err := cache.SearchByOwner(ctx, "user-2", "migrations", 10)
	if err != nil {
		t.Fatalf("SearchByOwner() error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no cross-owner hits, got %+v", none)
	}
}
