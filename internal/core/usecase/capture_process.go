package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/naming"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/core/similarity"
)

// PlacementConfig carries the similarity thresholds the placement decision
// uses. Zero values fall back to the defaults below.
type PlacementConfig struct {
	// SuggestThreshold is the minimum similarity for recording a library
	// file as a suggestion on the capture.
	SuggestThreshold float64
	// AutoAppendThreshold is the similarity at which the snippet joins the
	// best matching file instead of opening a new one.
	AutoAppendThreshold float64
}

const (
	defaultSuggestThreshold    = 0.3
	defaultAutoAppendThreshold = 0.8
)

func (c PlacementConfig) normalize() PlacementConfig {
	if c.SuggestThreshold <= 0 {
		c.SuggestThreshold = defaultSuggestThreshold
	}
	if c.AutoAppendThreshold <= 0 {
		c.AutoAppendThreshold = defaultAutoAppendThreshold
	}
	return c
}

type ProcessCaptureUseCase struct {
	captures   ports.CaptureRepository
	library    ports.LibraryStore
	extractor  ports.TextExtractor
	classifier *classify.Classifier
	cfg        PlacementConfig
}

func NewProcessCaptureUseCase(
	captures ports.CaptureRepository,
	library ports.LibraryStore,
	extractor ports.TextExtractor,
	classifier *classify.Classifier,
	cfg PlacementConfig,
) *ProcessCaptureUseCase {
	return &ProcessCaptureUseCase{
		captures:   captures,
		library:    library,
		extractor:  extractor,
		classifier: classifier,
		cfg:        cfg.normalize(),
	}
}

func (uc *ProcessCaptureUseCase) ProcessByID(ctx context.Context, captureID string) (domain.Placement, error) {
	if err := uc.markStatus(ctx, captureID, domain.CaptureProcessing, ""); err != nil {
		return domain.Placement{}, fmt.Errorf("set status=processing: %w", err)
	}

	capture, placement, err := uc.processPipeline(ctx, captureID)
	if err != nil {
		if failErr := uc.markFailed(ctx, captureID, err); failErr != nil {
			return domain.Placement{}, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return domain.Placement{}, err
	}

	if err := uc.persistPlacement(ctx, capture.ID, placement); err != nil {
		if failErr := uc.markFailed(ctx, captureID, err); failErr != nil {
			return domain.Placement{}, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return domain.Placement{}, err
	}

	if err := uc.markStatus(ctx, captureID, domain.CaptureReady, ""); err != nil {
		return domain.Placement{}, fmt.Errorf("set status=ready: %w", err)
	}

	return placement, nil
}

func (uc *ProcessCaptureUseCase) processPipeline(ctx context.Context, captureID string) (*domain.Capture, domain.Placement, error) {
	capture, err := uc.loadCapture(ctx, captureID)
	if err != nil {
		return nil, domain.Placement{}, err
	}

	extraction, err := uc.extractText(ctx, capture)
	if err != nil {
		return nil, domain.Placement{}, err
	}

	classification := uc.classifier.Classify(extraction.Text)

	placement, err := uc.placeContent(ctx, capture, extraction, classification)
	if err != nil {
		return nil, domain.Placement{}, err
	}

	return capture, placement, nil
}

func (uc *ProcessCaptureUseCase) loadCapture(ctx context.Context, captureID string) (*domain.Capture, error) {
	capture, err := uc.captures.GetByID(ctx, captureID)
	if err != nil {
		return nil, fmt.Errorf("fetch capture by id: %w", err)
	}
	return capture, nil
}

func (uc *ProcessCaptureUseCase) extractText(ctx context.Context, capture *domain.Capture) (domain.Extraction, error) {
	extraction, err := uc.extractor.Extract(ctx, capture)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(extraction.Text) == "" {
		return domain.Extraction{}, domain.WrapError(domain.ErrExtraction, "extract text", errors.New("empty extracted text"))
	}
	return extraction, nil
}

// placeContent decides where the extracted snippet lives: appended to the
// closest existing file when the match is near-certain, otherwise in a new
// file under a proposed name. Weaker matches ride along as suggestions.
func (uc *ProcessCaptureUseCase) placeContent(
	ctx context.Context,
	capture *domain.Capture,
	extraction domain.Extraction,
	classification domain.ClassificationResult,
) (domain.Placement, error) {
	items, err := uc.library.ListByOwner(ctx, capture.OwnerID)
	if err != nil {
		return domain.Placement{}, fmt.Errorf("list owner library: %w", err)
	}

	matches := similarity.FindSimilar(extraction.Text, filePool(items), uc.cfg.SuggestThreshold)

	if len(matches) > 0 && matches[0].Similarity >= uc.cfg.AutoAppendThreshold {
		return uc.appendToFile(ctx, capture, extraction, classification, matches)
	}
	return uc.createFile(ctx, capture, extraction, classification, matches, items)
}

func (uc *ProcessCaptureUseCase) appendToFile(
	ctx context.Context,
	capture *domain.Capture,
	extraction domain.Extraction,
	classification domain.ClassificationResult,
	matches []domain.SimilarFile,
) (domain.Placement, error) {
	best := matches[0]
	snippet := uc.newSnippet(capture, extraction, classification)
	snippet.ParentID = best.ID

	if err := uc.library.AppendSnippet(ctx, best.ID, snippet); err != nil {
		return domain.Placement{}, fmt.Errorf("append snippet: %w", err)
	}

	return domain.Placement{
		Decision:      domain.PlacementAppended,
		FileID:        best.ID,
		FileTitle:     best.Title,
		SnippetID:     snippet.ID,
		Language:      classification.Language.Language,
		Tags:          classification.Topic.SuggestedTags,
		OCRConfidence: extraction.Confidence,
		Suggestions:   matches,
	}, nil
}

func (uc *ProcessCaptureUseCase) createFile(
	ctx context.Context,
	capture *domain.Capture,
	extraction domain.Extraction,
	classification domain.ClassificationResult,
	matches []domain.SimilarFile,
	items []domain.ContentItem,
) (domain.Placement, error) {
	now := time.Now().UTC()
	file := &domain.ContentItem{
		ID:           uuid.NewString(),
		OwnerID:      capture.OwnerID,
		Kind:         domain.KindFile,
		Title:        naming.Propose(extraction.Text, classification.Language.Language, fileTitles(items)),
		Language:     classification.Language.Language,
		Tags:         classification.Topic.SuggestedTags,
		Confidence:   classification.Language.Confidence,
		SnippetCount: 1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	snippet := uc.newSnippet(capture, extraction, classification)
	snippet.ParentID = file.ID

	if err := uc.library.CreateFileWithSnippet(ctx, file, snippet); err != nil {
		return domain.Placement{}, fmt.Errorf("create file with snippet: %w", err)
	}

	return domain.Placement{
		Decision:      domain.PlacementCreated,
		FileID:        file.ID,
		FileTitle:     file.Title,
		SnippetID:     snippet.ID,
		Language:      file.Language,
		Tags:          file.Tags,
		OCRConfidence: extraction.Confidence,
		Suggestions:   matches,
	}, nil
}

func (uc *ProcessCaptureUseCase) newSnippet(
	capture *domain.Capture,
	extraction domain.Extraction,
	classification domain.ClassificationResult,
) *domain.ContentItem {
	now := time.Now().UTC()
	return &domain.ContentItem{
		ID:         uuid.NewString(),
		OwnerID:    capture.OwnerID,
		Kind:       domain.KindSnippet,
		Title:      snippetTitle(capture.Filename),
		Language:   classification.Language.Language,
		Content:    extraction.Text,
		Confidence: classification.Language.Confidence,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (uc *ProcessCaptureUseCase) persistPlacement(ctx context.Context, captureID string, placement domain.Placement) error {
	if err := uc.captures.SavePlacement(ctx, captureID, placement); err != nil {
		return fmt.Errorf("save placement: %w", err)
	}
	return nil
}

func (uc *ProcessCaptureUseCase) markStatus(ctx context.Context, captureID string, status domain.CaptureStatus, errMessage string) error {
	return uc.captures.UpdateStatus(ctx, captureID, status, errMessage)
}

func (uc *ProcessCaptureUseCase) markFailed(ctx context.Context, captureID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, captureID, domain.CaptureFailed, processErr.Error())
}

func snippetTitle(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if stem == "" || stem == "." {
		return "captured snippet"
	}
	return stem
}

func filePool(items []domain.ContentItem) []similarity.Candidate {
	pool := make([]similarity.Candidate, 0, len(items))
	for _, it := range items {
		if !it.IsFile() || it.Archived {
			continue
		}
		pool = append(pool, similarity.Candidate{ID: it.ID, Title: it.Title, Text: it.SearchText()})
	}
	return pool
}

func fileTitles(items []domain.ContentItem) []string {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		if it.IsFile() && !it.Archived {
			titles = append(titles, it.Title)
		}
	}
	return titles
}
