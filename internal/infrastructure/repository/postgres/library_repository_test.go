package postgres

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/infrastructure/resilience"
)

func newLibraryRepoWithMock(t *testing.T) (*LibraryRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &LibraryRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestGetItemReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, owner_id, kind").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetItem(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAppendSnippetReturnsDomainNotFoundWhenFileMissing(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE content_items").
		WithArgs("missing-file", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.AppendSnippet(context.Background(), "missing-file", &domain.ContentItem{
		ID:       "s1",
		Kind:     domain.KindSnippet,
		ParentID: "missing-file",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestApplyMergeReparentsAndArchivesSources(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE content_items").
		WithArgs("j1", sqlmock.AnyArg(), "j2").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("UPDATE content_items").
		WithArgs("j2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE content_items").
		WithArgs("j1", int64(2), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	target, err := repo.ApplyMerge(context.Background(), []string{"j1", "j2"})
	if err != nil {
		t.Fatalf("ApplyMerge() error = %v", err)
	}
	if target != "j1" {
		t.Fatalf("expected merge target j1, got %q", target)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestApplyMergeRejectsSingleItem(t *testing.T) {
	repo, _, done := newLibraryRepoWithMock(t)
	defer done()

	_, err := repo.ApplyMerge(context.Background(), []string{"only"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func searchResultRows() *sqlmock.Rows {
	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "owner_id", "kind", "parent_id", "title", "description", "language", "tags",
		"content", "position", "confidence", "snippet_count", "collection", "archived",
		"created_at", "updated_at",
	}).AddRow(
		"f1", "user-1", "file", "", "go worker pool", "", "go", []byte(`["concurrency"]`),
		"", 0, 0.9, 2, "", false, now, now,
	)
}

func TestSearchByOwnerReturnsItems(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, owner_id, kind").
		WithArgs("user-1", "worker", 20).
		WillReturnRows(searchResultRows())

	items, err := repo.SearchByOwner(context.Background(), "user-1", "worker", 20)
	if err != nil {
		t.Fatalf("SearchByOwner() error = %v", err)
	}
	if len(items) != 1 || items[0].ID != "f1" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Kind != domain.KindFile {
		t.Fatalf("expected file kind, got %q", items[0].Kind)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByOwnerRetriesOnNetworkError(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()
	repo.executor = resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     1,
	})

	// driver.ErrBadConn would be retried inside database/sql before the
	// executor ever saw it, so the mock fails with a dial error instead.
	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	mock.ExpectQuery("SELECT id, owner_id, kind").
		WithArgs("user-1", "worker", 20).
		WillReturnError(dialErr)
	mock.ExpectQuery("SELECT id, owner_id, kind").
		WithArgs("user-1", "worker", 20).
		WillReturnRows(searchResultRows())

	items, err := repo.SearchByOwner(context.Background(), "user-1", "worker", 20)
	if err != nil {
		t.Fatalf("SearchByOwner() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item after retry, got %d", len(items))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSearchByOwnerWrapsNetworkErrorsAsTemporary(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	mock.ExpectQuery("SELECT id, owner_id, kind").
		WithArgs("user-1", "worker", 20).
		WillReturnError(dialErr)

	_, err := repo.SearchByOwner(context.Background(), "user-1", "worker", 20)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected ErrTemporary, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestApplyReclassifyReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newLibraryRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE content_items").
		WithArgs("missing", "go", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ApplyReclassify(context.Background(), "missing", "go", []string{"api"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
