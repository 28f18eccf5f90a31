package ports

import (
	"context"
	"io"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// LibraryStore persists content items and applies organization changes.
// The Apply methods are transactional: either the whole change lands or the
// library is untouched.
type LibraryStore interface {
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ContentItem, error)
	GetItem(ctx context.Context, id string) (*domain.ContentItem, error)
	SearchByOwner(ctx context.Context, ownerID, query string, limit int) ([]domain.ContentItem, error)
	CreateFileWithSnippet(ctx context.Context, file *domain.ContentItem, snippet *domain.ContentItem) error
	AppendSnippet(ctx context.Context, fileID string, snippet *domain.ContentItem) error

	ApplyMerge(ctx context.Context, itemIDs []string) (string, error)
	ApplyGroup(ctx context.Context, name string, itemIDs []string) error
	ApplyArchive(ctx context.Context, itemIDs []string) error
	ApplyReorder(ctx context.Context, fileID string, orderedSnippetIDs []string) error
	ApplyReclassify(ctx context.Context, itemID string, language string, tags []string) error
	ApplySplit(ctx context.Context, fileID string, snippetIDs []string, newTitle string) (string, error)
}

// CaptureRepository persists and reads capture state.
type CaptureRepository interface {
	Create(ctx context.Context, capture *domain.Capture) error
	GetByID(ctx context.Context, id string) (*domain.Capture, error)
	UpdateStatus(ctx context.Context, id string, status domain.CaptureStatus, errMessage string) error
	SavePlacement(ctx context.Context, id string, placement domain.Placement) error
}

// ObjectStorage stores uploaded screenshot images.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes capture events.
type MessageQueue interface {
	PublishCaptureCreated(ctx context.Context, captureID string) error
	SubscribeCaptureCreated(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor pulls code text out of a stored capture image.
type TextExtractor interface {
	Extract(ctx context.Context, capture *domain.Capture) (domain.Extraction, error)
}
