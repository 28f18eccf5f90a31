package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/snipvault/snipvault/internal/core/domain"
)

func newCaptureRepoWithMock(t *testing.T) (*CaptureRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &CaptureRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestCaptureGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newCaptureRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, owner_id, filename").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrCaptureNotFound) {
		t.Fatalf("expected ErrCaptureNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCaptureGetByIDDecodesPlacement(t *testing.T) {
	repo, mock, done := newCaptureRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "filename", "mime_type", "image_path",
		"status", "error_message", "placement", "created_at", "updated_at",
	}).AddRow(
		"cap-1", "user-1", "shot.png", "image/png", "cap-1_shot.png",
		"ready", "", []byte(`{"decision":"appended","file_id":"f1","snippet_id":"s1","ocr_confidence":91.5}`), now, now,
	)
	mock.ExpectQuery("SELECT id, owner_id, filename").
		WithArgs("cap-1").
		WillReturnRows(rows)

	capture, err := repo.GetByID(context.Background(), "cap-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if capture.Status != domain.CaptureReady {
		t.Fatalf("expected ready status, got %q", capture.Status)
	}
	if capture.Placement == nil || capture.Placement.FileID != "f1" {
		t.Fatalf("expected decoded placement, got %+v", capture.Placement)
	}
	if capture.Placement.Decision != domain.PlacementAppended {
		t.Fatalf("expected appended decision, got %q", capture.Placement.Decision)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCaptureUpdateStatusReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newCaptureRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE captures").
		WithArgs("missing", string(domain.CaptureProcessing), "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.CaptureProcessing, "")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrCaptureNotFound) {
		t.Fatalf("expected ErrCaptureNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSavePlacementReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newCaptureRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE captures").
		WithArgs("missing", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SavePlacement(context.Background(), "missing", domain.Placement{
		Decision:  domain.PlacementCreated,
		FileID:    "f1",
		SnippetID: "s1",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrCaptureNotFound) {
		t.Fatalf("expected ErrCaptureNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
