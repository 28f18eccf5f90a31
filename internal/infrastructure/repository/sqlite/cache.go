package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// LibraryCache is a local read-only copy of an owner's library, refreshed
// wholesale from the server. It backs offline search in the CLI and is never
// the system of record.
type LibraryCache struct {
	db *sql.DB
}

func Open(path string) (*LibraryCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}

	c := &LibraryCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

// OpenMemory opens an in-memory cache, useful for testing.
func OpenMemory() (*LibraryCache, error) {
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open in-memory cache: %w", err)
	}

	c := &LibraryCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

func (c *LibraryCache) Close() error {
	return c.db.Close()
}

func (c *LibraryCache) migrate() error {
	_, err := c.db.Exec(schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS content_items (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	parent_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT '',
	tags TEXT NOT NULL DEFAULT '[]',
	content TEXT NOT NULL DEFAULT '',
	position INTEGER NOT NULL DEFAULT 0,
	confidence REAL NOT NULL DEFAULT 0,
	snippet_count INTEGER NOT NULL DEFAULT 0,
	collection TEXT NOT NULL DEFAULT '',
	archived INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cache_owner ON content_items(owner_id, created_at);

CREATE TABLE IF NOT EXISTS sync_state (
	owner_id TEXT PRIMARY KEY,
	synced_at TIMESTAMP NOT NULL
);
`

// ReplaceLibrary swaps the cached copy of the owner's library for the given
// items and stamps the sync time.
func (c *LibraryCache) ReplaceLibrary(ctx context.Context, ownerID string, items []domain.ContentItem) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_items WHERE owner_id = ?`, ownerID); err != nil {
		return fmt.Errorf("clear cached items: %w", err)
	}

	for _, item := range items {
		tagsJSON, err := json.Marshal(item.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO content_items (
	id, owner_id, kind, parent_id, title, description, language, tags, content, position, confidence, snippet_count, collection, archived, created_at, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`,
			item.ID, item.OwnerID, string(item.Kind), item.ParentID, item.Title, item.Description,
			item.Language, tagsJSON, item.Content, item.Position, item.Confidence, item.SnippetCount,
			item.Collection, item.Archived, item.CreatedAt, item.UpdatedAt,
		); err != nil {
			return fmt.Errorf("insert cached item %s: %w", item.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO sync_state (owner_id, synced_at) VALUES (?, ?)
ON CONFLICT(owner_id) DO UPDATE SET synced_at = excluded.synced_at
`, ownerID, time.Now().UTC()); err != nil {
		return fmt.Errorf("stamp sync state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace tx: %w", err)
	}
	return nil
}

func (c *LibraryCache) ListByOwner(ctx context.Context, ownerID string) ([]domain.ContentItem, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT id, owner_id, kind, parent_id, title, description, language, tags, content, position, confidence, snippet_count, collection, archived, created_at, updated_at
FROM content_items
WHERE owner_id = ? AND archived = 0
ORDER BY created_at, id
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query cached items: %w", err)
	}
	defer rows.Close()

	return collectCachedItems(rows)
}

func (c *LibraryCache) SearchByOwner(ctx context.Context, ownerID, query string, limit int) ([]domain.ContentItem, error) {
	rows, err := c.db.QueryContext(ctx, `
SELECT id, owner_id, kind, parent_id, title, description, language, tags, content, position, confidence, snippet_count, collection, archived, created_at, updated_at
FROM content_items
WHERE owner_id = ? AND archived = 0
  AND (title LIKE '%'||?||'%' OR content LIKE '%'||?||'%' OR language LIKE ? OR tags LIKE '%'||?||'%')
ORDER BY created_at DESC
LIMIT ?
`, ownerID, query, query, query, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search cached items: %w", err)
	}
	defer rows.Close()

	return collectCachedItems(rows)
}

// SyncedAt reports when the owner's cache was last refreshed.
func (c *LibraryCache) SyncedAt(ctx context.Context, ownerID string) (time.Time, error) {
	var syncedAt time.Time
	err := c.db.QueryRowContext(ctx, `SELECT synced_at FROM sync_state WHERE owner_id = ?`, ownerID).Scan(&syncedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("query sync state: %w", err)
	}
	return syncedAt, nil
}

func collectCachedItems(rows *sql.Rows) ([]domain.ContentItem, error) {
	items := make([]domain.ContentItem, 0, 16)
	for rows.Next() {
		var item domain.ContentItem
		var kind string
		var tagsRaw []byte

		err := rows.Scan(
			&item.ID, &item.OwnerID, &kind, &item.ParentID, &item.Title, &item.Description,
			&item.Language, &tagsRaw, &item.Content, &item.Position, &item.Confidence, &item.SnippetCount,
			&item.Collection, &item.Archived, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cached item: %w", err)
		}
		if len(tagsRaw) > 0 {
			if err := json.Unmarshal(tagsRaw, &item.Tags); err != nil {
				return nil, fmt.Errorf("unmarshal tags: %w", err)
			}
		}
		item.Kind = domain.ItemKind(kind)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cached items: %w", err)
	}
	return items, nil
}
