package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/organize"
	"github.com/snipvault/snipvault/internal/core/ports"
)

const defaultSearchLimit = 20

type LibraryReadUseCase struct {
	library    ports.LibraryStore
	classifier *classify.Classifier
}

func NewLibraryReadUseCase(library ports.LibraryStore, classifier *classify.Classifier) *LibraryReadUseCase {
	return &LibraryReadUseCase{library: library, classifier: classifier}
}

func (uc *LibraryReadUseCase) ListLibrary(ctx context.Context, ownerID string) ([]domain.ContentItem, domain.LibraryStructure, error) {
	if ownerID == "" {
		return nil, domain.LibraryStructure{}, domain.WrapError(domain.ErrInvalidInput, "list library", errors.New("empty owner id"))
	}
	items, err := uc.library.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, domain.LibraryStructure{}, fmt.Errorf("list owner library: %w", err)
	}
	return items, organize.BuildStructure(items, uc.classifier), nil
}

func (uc *LibraryReadUseCase) SearchLibrary(ctx context.Context, ownerID, query string, limit int) ([]domain.ContentItem, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search library", errors.New("empty owner id"))
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "search library", errors.New("empty query"))
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	items, err := uc.library.SearchByOwner(ctx, ownerID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search owner library: %w", err)
	}
	return rankSearchResults(items, query), nil
}
