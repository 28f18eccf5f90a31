package usecase

import (
	"context"
	"log/slog"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/naming"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/core/similarity"
)

type AnalyzeContentUseCase struct {
	library    ports.LibraryStore
	classifier *classify.Classifier
	cfg        PlacementConfig
}

func NewAnalyzeContentUseCase(
	library ports.LibraryStore,
	classifier *classify.Classifier,
	cfg PlacementConfig,
) *AnalyzeContentUseCase {
	return &AnalyzeContentUseCase{
		library:    library,
		classifier: classifier,
		cfg:        cfg.normalize(),
	}
}

func (uc *AnalyzeContentUseCase) Classify(text string) domain.ClassificationResult {
	return uc.classifier.Classify(text)
}

// ProposeName scores name candidates against the owner's existing file
// titles. A store failure only costs the uniqueness signal, never the name.
func (uc *AnalyzeContentUseCase) ProposeName(ctx context.Context, ownerID, text, language string) (string, []domain.NameCandidate) {
	existing := uc.ownerTitles(ctx, ownerID)
	return naming.Propose(text, language, existing), naming.Candidates(text, language, existing)
}

// FindSimilar is advisory: when the store is unreachable it returns an
// empty list instead of failing the caller.
func (uc *AnalyzeContentUseCase) FindSimilar(ctx context.Context, ownerID, text string, threshold float64) []domain.SimilarFile {
	if threshold <= 0 {
		threshold = uc.cfg.SuggestThreshold
	}
	items, err := uc.library.ListByOwner(ctx, ownerID)
	if err != nil {
		slog.Warn("similar_lookup_degraded", "owner_id", ownerID, "error", err)
		return []domain.SimilarFile{}
	}
	return similarity.FindSimilar(text, filePool(items), threshold)
}

func (uc *AnalyzeContentUseCase) ownerTitles(ctx context.Context, ownerID string) []string {
	if ownerID == "" {
		return nil
	}
	items, err := uc.library.ListByOwner(ctx, ownerID)
	if err != nil {
		slog.Warn("library_list_degraded", "owner_id", ownerID, "error", err)
		return nil
	}
	return fileTitles(items)
}
