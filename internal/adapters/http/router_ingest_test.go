package httpadapter

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/snipvault/snipvault/internal/config"
)

func newRouterForIngestTests() http.Handler {
	return NewRouter(
		config.Config{},
		ingestFake{},
		capturesFake{},
		analyzerFake{},
		organizerFake{},
		libraryFake{},
		nil,
	).Handler()
}

func TestHealthzEndpoint(t *testing.T) {
	handler := newRouterForIngestTests()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestUploadCaptureSuccess(t *testing.T) {
	handler := newRouterForIngestTests()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("owner_id", "user-1"); err != nil {
		t.Fatalf("WriteField() error = %v", err)
	}
	part, err := writer.CreateFormFile("image", "shot.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/captures", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}

	var capResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&capResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if capResp["id"] != "cap-1" {
		t.Fatalf("unexpected response: %+v", capResp)
	}
	if capResp["owner_id"] != "user-1" {
		t.Fatalf("expected owner from multipart field, got %+v", capResp)
	}
	if capResp["status"] != "uploaded" {
		t.Fatalf("expected uploaded status, got %+v", capResp)
	}
}

func TestUploadCaptureHonorsOwnerHeader(t *testing.T) {
	handler := newRouterForIngestTests()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", "shot.png")
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/captures", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Owner-Id", "user-2")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}

	var capResp map[string]any
	if err := json.NewDecoder(res.Body).Decode(&capResp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if capResp["owner_id"] != "user-2" {
		t.Fatalf("expected owner from header, got %+v", capResp)
	}
}

func TestUploadCaptureMissingMultipartField(t *testing.T) {
	handler := newRouterForIngestTests()

	req := httptest.NewRequest(http.MethodPost, "/v1/captures", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadCaptureRejectsWrongMethod(t *testing.T) {
	handler := newRouterForIngestTests()

	req := httptest.NewRequest(http.MethodGet, "/v1/captures", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
