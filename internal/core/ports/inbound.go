package ports

import (
	"context"
	"io"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// CaptureIngestor is the inbound contract for screenshot upload orchestration.
type CaptureIngestor interface {
	Upload(ctx context.Context, ownerID, filename, mimeType string, body io.Reader) (*domain.Capture, error)
}

// CaptureReader is the inbound read model for capture metadata/state.
type CaptureReader interface {
	GetByID(ctx context.Context, id string) (*domain.Capture, error)
}

// CaptureProcessor is the inbound contract for asynchronous capture
// processing. ProcessByID reports where the extracted snippet landed.
type CaptureProcessor interface {
	ProcessByID(ctx context.Context, captureID string) (domain.Placement, error)
}

// ContentAnalyzer is the inbound contract for the synchronous analysis
// operations. Classification is pure and never fails; the name and
// similarity lookups treat the store as advisory and degrade instead of
// erroring when it is unavailable.
type ContentAnalyzer interface {
	Classify(text string) domain.ClassificationResult
	ProposeName(ctx context.Context, ownerID, text, language string) (string, []domain.NameCandidate)
	FindSimilar(ctx context.Context, ownerID, text string, threshold float64) []domain.SimilarFile
}

// LibraryOrganizer is the inbound contract for organization analysis and
// plan execution.
type LibraryOrganizer interface {
	AnalyzeOrganization(ctx context.Context, ownerID string) ([]domain.OrganizationPlan, error)
	AutoOrganize(ctx context.Context, ownerID string, strategy domain.SelectionStrategy) (*domain.OrganizationResult, error)
	ExecutePlan(ctx context.Context, ownerID string, plan domain.OrganizationPlan) (*domain.OrganizationResult, error)
}

// LibraryReader is the inbound read model for library browsing and search.
type LibraryReader interface {
	ListLibrary(ctx context.Context, ownerID string) ([]domain.ContentItem, domain.LibraryStructure, error)
	SearchLibrary(ctx context.Context, ownerID, query string, limit int) ([]domain.ContentItem, error)
}
