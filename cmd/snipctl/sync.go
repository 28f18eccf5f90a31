package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/infrastructure/repository/sqlite"
)

// syncCmd pulls the owner's library from the API into the local sqlite cache,
// so library and search keep working with --offline.
func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local library cache from the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}

			var resp struct {
				Items []domain.ContentItem `json:"items"`
			}
			path := "/v1/library?owner_id=" + url.QueryEscape(ownerID)
			if err := newAPIClient().getJSON(cmd.Context(), path, &resp); err != nil {
				return err
			}

			cache, err := openCache()
			if err != nil {
				return err
			}
			defer cache.Close()

			if err := cache.ReplaceLibrary(cmd.Context(), ownerID, resp.Items); err != nil {
				return fmt.Errorf("write cache: %w", err)
			}

			fmt.Printf("Synced %d items to %s\n", len(resp.Items), cachePath)
			return nil
		},
	}
}

func openCache() (*sqlite.LibraryCache, error) {
	cache, err := sqlite.Open(cachePath)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cache, nil
}

func cachedLibrary(ctx context.Context) ([]domain.ContentItem, time.Time, error) {
	cache, err := openCache()
	if err != nil {
		return nil, time.Time{}, err
	}
	defer cache.Close()

	syncedAt, err := cache.SyncedAt(ctx, ownerID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read cache: %w", err)
	}
	if syncedAt.IsZero() {
		return nil, time.Time{}, fmt.Errorf("cache is empty: run 'snipctl sync' first")
	}

	items, err := cache.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read cache: %w", err)
	}
	return items, syncedAt, nil
}

func cachedSearch(ctx context.Context, query string, limit int) ([]domain.ContentItem, error) {
	cache, err := openCache()
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	syncedAt, err := cache.SyncedAt(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if syncedAt.IsZero() {
		return nil, fmt.Errorf("cache is empty: run 'snipctl sync' first")
	}

	items, err := cache.SearchByOwner(ctx, ownerID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}
	return items, nil
}
