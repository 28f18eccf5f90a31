package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/infrastructure/resilience"
)

const itemColumns = `id, owner_id, kind, parent_id, title, description, language, tags, content, position, confidence, snippet_count, collection, archived, created_at, updated_at`

// LibraryRepository persists the content library in Postgres. An optional
// executor guards the search path against a flapping database; a nil executor
// runs searches directly.
type LibraryRepository struct {
	db       *sql.DB
	executor *resilience.Executor
}

func NewLibraryRepository(db *sql.DB, executor *resilience.Executor) *LibraryRepository {
	return &LibraryRepository{db: db, executor: executor}
}

func (r *LibraryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026061002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS content_items (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	parent_id TEXT,
	title TEXT NOT NULL,
	description TEXT,
	language TEXT,
	tags JSONB NOT NULL DEFAULT '[]'::jsonb,
	content TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	snippet_count INTEGER NOT NULL DEFAULT 0,
	collection TEXT,
	archived BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_content_items_owner ON content_items(owner_id, created_at);
CREATE INDEX IF NOT EXISTS idx_content_items_parent ON content_items(parent_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *LibraryRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.ContentItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+itemColumns+`
FROM content_items
WHERE owner_id = $1 AND archived = FALSE
ORDER BY created_at, id
`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query owner items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func (r *LibraryRepository) GetItem(ctx context.Context, id string) (*domain.ContentItem, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+itemColumns+`
FROM content_items
WHERE id = $1
`, id)

	item, err := scanItem(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrItemNotFound, "get item", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

func (r *LibraryRepository) SearchByOwner(ctx context.Context, ownerID, query string, limit int) ([]domain.ContentItem, error) {
	var items []domain.ContentItem

	search := func(callCtx context.Context) error {
		rows, err := r.db.QueryContext(callCtx, `
SELECT `+itemColumns+`
FROM content_items
WHERE owner_id = $1 AND archived = FALSE
  AND (title ILIKE '%'||$2||'%' OR content ILIKE '%'||$2||'%' OR language ILIKE $2 OR tags::text ILIKE '%'||$2||'%')
ORDER BY created_at DESC
LIMIT $3
`, ownerID, query, limit)
		if err != nil {
			return fmt.Errorf("search owner items: %w", err)
		}
		defer rows.Close()

		items, err = collectItems(rows)
		return err
	}

	var err error
	if r.executor != nil {
		err = r.executor.Execute(ctx, "library.search", search, classifySearchError)
	} else {
		err = search(ctx)
	}
	if err != nil {
		return nil, wrapSearchTemporary("library search", err)
	}
	return items, nil
}

func (r *LibraryRepository) CreateFileWithSnippet(ctx context.Context, file, snippet *domain.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := insertItem(ctx, tx, file); err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	if err := insertItem(ctx, tx, snippet); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create tx: %w", err)
	}
	return nil
}

func (r *LibraryRepository) AppendSnippet(ctx context.Context, fileID string, snippet *domain.ContentItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET snippet_count = snippet_count + 1, updated_at = $2
WHERE id = $1 AND kind = 'file'
`, fileID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("bump snippet count: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("bump snippet count affected rows: %w", err)
	} else if affected == 0 {
		return domain.WrapError(domain.ErrItemNotFound, "append snippet", fmt.Errorf("file %s", fileID))
	}

	if err := insertItem(ctx, tx, snippet); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append tx: %w", err)
	}
	return nil
}

// ApplyMerge reparents every snippet of the source files onto the first id
// and archives the sources. The first id is the merge target.
func (r *LibraryRepository) ApplyMerge(ctx context.Context, itemIDs []string) (string, error) {
	if len(itemIDs) < 2 {
		return "", domain.WrapError(domain.ErrInvalidInput, "apply merge", fmt.Errorf("need at least 2 items, have %d", len(itemIDs)))
	}
	target := itemIDs[0]
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin merge tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	moved := int64(0)
	for _, sourceID := range itemIDs[1:] {
		res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET parent_id = $1, updated_at = $2
WHERE parent_id = $3 AND kind = 'snippet'
`, target, now, sourceID)
		if err != nil {
			return "", fmt.Errorf("reparent snippets of %s: %w", sourceID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("reparent affected rows: %w", err)
		}
		moved += n

		if err := archiveOne(ctx, tx, sourceID, now); err != nil {
			return "", err
		}
	}

	res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET snippet_count = snippet_count + $2, updated_at = $3
WHERE id = $1 AND kind = 'file'
`, target, moved, now)
	if err != nil {
		return "", fmt.Errorf("grow merge target: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return "", fmt.Errorf("grow merge target affected rows: %w", err)
	} else if affected == 0 {
		return "", domain.WrapError(domain.ErrItemNotFound, "apply merge", fmt.Errorf("target %s", target))
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit merge tx: %w", err)
	}
	return target, nil
}

func (r *LibraryRepository) ApplyGroup(ctx context.Context, name string, itemIDs []string) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin group tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, id := range itemIDs {
		res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET collection = $2, updated_at = $3
WHERE id = $1
`, id, name, now)
		if err != nil {
			return fmt.Errorf("set collection on %s: %w", id, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("set collection affected rows: %w", err)
		} else if affected == 0 {
			return domain.WrapError(domain.ErrItemNotFound, "apply group", fmt.Errorf("id %s", id))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit group tx: %w", err)
	}
	return nil
}

func (r *LibraryRepository) ApplyArchive(ctx context.Context, itemIDs []string) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, id := range itemIDs {
		if err := archiveOne(ctx, tx, id, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

func (r *LibraryRepository) ApplyReorder(ctx context.Context, fileID string, orderedSnippetIDs []string) error {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, id := range orderedSnippetIDs {
		res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET position = $2, updated_at = $3
WHERE id = $1 AND parent_id = $4 AND kind = 'snippet'
`, id, i, now, fileID)
		if err != nil {
			return fmt.Errorf("set position on %s: %w", id, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("set position affected rows: %w", err)
		} else if affected == 0 {
			return domain.WrapError(domain.ErrItemNotFound, "apply reorder", fmt.Errorf("snippet %s not in file %s", id, fileID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder tx: %w", err)
	}
	return nil
}

func (r *LibraryRepository) ApplyReclassify(ctx context.Context, itemID, language string, tags []string) error {
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE content_items
SET language = $2, tags = $3, updated_at = $4
WHERE id = $1
`, itemID, language, tagsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("reclassify item: %w", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("reclassify affected rows: %w", err)
	} else if affected == 0 {
		return domain.WrapError(domain.ErrItemNotFound, "apply reclassify", fmt.Errorf("id %s", itemID))
	}
	return nil
}

// ApplySplit moves the given snippets out of their file into a fresh one and
// returns the new file id.
func (r *LibraryRepository) ApplySplit(ctx context.Context, fileID string, snippetIDs []string, newTitle string) (string, error) {
	if len(snippetIDs) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "apply split", errors.New("no snippets to move"))
	}
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin split tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var ownerID, language, collection string
	err = tx.QueryRowContext(ctx, `
SELECT owner_id, language, collection
FROM content_items
WHERE id = $1 AND kind = 'file'
`, fileID).Scan(&ownerID, &language, &collection)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.WrapError(domain.ErrItemNotFound, "apply split", fmt.Errorf("file %s", fileID))
		}
		return "", fmt.Errorf("load split source: %w", err)
	}

	newFile := &domain.ContentItem{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Kind:         domain.KindFile,
		Title:        newTitle,
		Language:     language,
		SnippetCount: len(snippetIDs),
		Collection:   collection,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := insertItem(ctx, tx, newFile); err != nil {
		return "", fmt.Errorf("insert split file: %w", err)
	}

	for _, id := range snippetIDs {
		res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET parent_id = $2, updated_at = $3
WHERE id = $1 AND parent_id = $4 AND kind = 'snippet'
`, id, newFile.ID, now, fileID)
		if err != nil {
			return "", fmt.Errorf("move snippet %s: %w", id, err)
		}
		if affected, err := res.RowsAffected(); err != nil {
			return "", fmt.Errorf("move snippet affected rows: %w", err)
		} else if affected == 0 {
			return "", domain.WrapError(domain.ErrItemNotFound, "apply split", fmt.Errorf("snippet %s not in file %s", id, fileID))
		}
	}

	if _, err := tx.ExecContext(ctx, `
UPDATE content_items
SET snippet_count = GREATEST(snippet_count - $2, 0), updated_at = $3
WHERE id = $1
`, fileID, len(snippetIDs), now); err != nil {
		return "", fmt.Errorf("shrink split source: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit split tx: %w", err)
	}
	return newFile.ID, nil
}

func archiveOne(ctx context.Context, tx *sql.Tx, id string, now time.Time) error {
	res, err := tx.ExecContext(ctx, `
UPDATE content_items
SET archived = TRUE, updated_at = $2
WHERE id = $1
`, id, now)
	if err != nil {
		return fmt.Errorf("archive %s: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("archive affected rows: %w", err)
	} else if affected == 0 {
		return domain.WrapError(domain.ErrItemNotFound, "apply archive", fmt.Errorf("id %s", id))
	}
	return nil
}

func insertItem(ctx context.Context, tx *sql.Tx, item *domain.ContentItem) error {
	tagsJSON, err := json.Marshal(item.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO content_items (
	`+itemColumns+`
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`,
		item.ID, item.OwnerID, string(item.Kind), item.ParentID, item.Title, item.Description,
		item.Language, tagsJSON, item.Content, item.Position, item.Confidence, item.SnippetCount,
		item.Collection, item.Archived, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func collectItems(rows *sql.Rows) ([]domain.ContentItem, error) {
	items := make([]domain.ContentItem, 0, 16)
	for rows.Next() {
		item, err := scanItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}
	return items, nil
}

func scanItem(scan func(dest ...any) error) (domain.ContentItem, error) {
	var item domain.ContentItem
	var kind string
	var tagsRaw []byte

	err := scan(
		&item.ID, &item.OwnerID, &kind, &item.ParentID, &item.Title, &item.Description,
		&item.Language, &tagsRaw, &item.Content, &item.Position, &item.Confidence, &item.SnippetCount,
		&item.Collection, &item.Archived, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return domain.ContentItem{}, err
	}

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &item.Tags); err != nil {
			return domain.ContentItem{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	item.Kind = domain.ItemKind(kind)
	return item, nil
}
