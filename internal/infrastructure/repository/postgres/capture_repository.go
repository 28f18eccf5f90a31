package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/snipvault/snipvault/internal/core/domain"
)

type CaptureRepository struct {
	db *sql.DB
}

func NewCaptureRepository(db *sql.DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CaptureRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026061001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS captures (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	image_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	placement JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_captures_owner ON captures(owner_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_captures_status ON captures(status);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CaptureRepository) Create(ctx context.Context, capture *domain.Capture) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO captures (
	id, owner_id, filename, mime_type, image_path, status, error_message, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		capture.ID, capture.OwnerID, capture.Filename, capture.MimeType, capture.ImagePath,
		string(capture.Status), capture.Error, capture.CreatedAt, capture.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

func (r *CaptureRepository) GetByID(ctx context.Context, id string) (*domain.Capture, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, filename, mime_type, image_path, status, error_message, placement, created_at, updated_at
FROM captures
WHERE id = $1
`, id)

	var capture domain.Capture
	var status string
	var placementRaw []byte

	err := row.Scan(
		&capture.ID, &capture.OwnerID, &capture.Filename, &capture.MimeType, &capture.ImagePath,
		&status, &capture.Error, &placementRaw, &capture.CreatedAt, &capture.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCaptureNotFound, "get capture", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan capture: %w", err)
	}

	if len(placementRaw) > 0 {
		var placement domain.Placement
		if err := json.Unmarshal(placementRaw, &placement); err != nil {
			return nil, fmt.Errorf("unmarshal placement: %w", err)
		}
		capture.Placement = &placement
	}
	capture.Status = domain.CaptureStatus(status)
	return &capture, nil
}

func (r *CaptureRepository) UpdateStatus(ctx context.Context, id string, status domain.CaptureStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE captures
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update capture status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update capture status affected rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrCaptureNotFound, "update capture status", fmt.Errorf("id %s", id))
	}
	return nil
}

func (r *CaptureRepository) SavePlacement(ctx context.Context, id string, placement domain.Placement) error {
	placementJSON, err := json.Marshal(placement)
	if err != nil {
		return fmt.Errorf("marshal placement: %w", err)
	}
	res, err := r.db.ExecContext(ctx, `
UPDATE captures
SET placement = $2, updated_at = $3
WHERE id = $1
`, id, placementJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save placement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save placement affected rows: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrCaptureNotFound, "save placement", fmt.Errorf("id %s", id))
	}
	return nil
}
