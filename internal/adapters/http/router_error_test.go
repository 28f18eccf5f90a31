package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/snipvault/snipvault/internal/config"
	"github.com/snipvault/snipvault/internal/core/domain"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, ownerID, filename, mimeType string, body io.Reader) (*domain.Capture, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.Capture{
		ID:        "cap-1",
		OwnerID:   ownerID,
		Filename:  filename,
		MimeType:  mimeType,
		ImagePath: "cap-1_" + filename,
		Status:    domain.CaptureUploaded,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

type capturesFake struct {
	err error
}

func (f capturesFake) GetByID(context.Context, string) (*domain.Capture, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Capture{ID: "cap-1", OwnerID: "user-1", Filename: "shot.png", MimeType: "image/png", ImagePath: "cap-1_shot.png", Status: domain.CaptureReady}, nil
}

type analyzerFake struct {
	result     domain.ClassificationResult
	name       string
	candidates []domain.NameCandidate
	matches    []domain.SimilarFile
}

func (f analyzerFake) Classify(string) domain.ClassificationResult { return f.result }

func (f analyzerFake) ProposeName(context.Context, string, string, string) (string, []domain.NameCandidate) {
	return f.name, f.candidates
}

func (f analyzerFake) FindSimilar(context.Context, string, string, float64) []domain.SimilarFile {
	return f.matches
}

type organizerFake struct {
	plans  []domain.OrganizationPlan
	result *domain.OrganizationResult
	err    error
}

func (f organizerFake) AnalyzeOrganization(context.Context, string) ([]domain.OrganizationPlan, error) {
	return f.plans, f.err
}

func (f organizerFake) AutoOrganize(context.Context, string, domain.SelectionStrategy) (*domain.OrganizationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f organizerFake) ExecutePlan(context.Context, string, domain.OrganizationPlan) (*domain.OrganizationResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type libraryFake struct {
	items     []domain.ContentItem
	structure domain.LibraryStructure
	err       error
}

func (f libraryFake) ListLibrary(context.Context, string) ([]domain.ContentItem, domain.LibraryStructure, error) {
	if f.err != nil {
		return nil, domain.LibraryStructure{}, f.err
	}
	return f.items, f.structure, nil
}

func (f libraryFake) SearchLibrary(context.Context, string, string, int) ([]domain.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func TestGetCaptureByIDReturns404ForNotFound(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{err: domain.WrapError(domain.ErrCaptureNotFound, "get capture", errors.New("id=missing"))},
		analyzerFake{},
		organizerFake{},
		libraryFake{},
		nil,
	).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/captures/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestListLibraryMapsDomainInvalidInputTo400(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		organizerFake{},
		libraryFake{err: domain.WrapError(domain.ErrInvalidInput, "list library", errors.New("empty owner id"))},
		nil,
	).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/library?owner_id=user-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestExecutePlanMapsInvalidPlanTo422(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		organizerFake{err: domain.WrapError(domain.ErrInvalidPlan, "execute plan", errors.New("plan has no id"))},
		libraryFake{},
		nil,
	).Handler()

	payload, _ := json.Marshal(map[string]any{"plan": map[string]any{"id": "p1"}})
	req := httptest.NewRequest(http.MethodPost, "/v1/organization/execute?owner_id=user-1", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", res.Code)
	}
}

func TestAnalyzeOrganizationMapsTemporaryTo503(t *testing.T) {
	handler := NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		organizerFake{err: domain.WrapError(domain.ErrTemporary, "list owner library", errors.New("connection refused"))},
		libraryFake{},
		nil,
	).Handler()

	payload, _ := json.Marshal(map[string]string{"owner_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/organization/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatalf("expected error message in response body")
	}
}
