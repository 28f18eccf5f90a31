package ocr

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/ports"
	"github.com/snipvault/snipvault/internal/infrastructure/resilience"
)

// Client talks to the OCR sidecar over HTTP. It owns reading the capture
// image out of object storage; callers hand it the capture record only.
type Client struct {
	baseURL    string
	storage    ports.ObjectStorage
	httpClient *http.Client
	executor   *resilience.Executor
}

func New(baseURL string, storage ports.ObjectStorage, timeout time.Duration, executor *resilience.Executor) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		storage:    storage,
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

func (c *Client) Extract(ctx context.Context, capture *domain.Capture) (domain.Extraction, error) {
	rc, err := c.storage.Open(ctx, capture.ImagePath)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("open capture image: %w", err)
	}
	defer rc.Close()

	imageBytes, err := io.ReadAll(rc)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("read capture image: %w", err)
	}

	request := map[string]any{
		"image":     base64.StdEncoding.EncodeToString(imageBytes),
		"mime_type": capture.MimeType,
	}
	var response struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}

	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, "/v1/ocr", request, &response, "recognize")
	}

	if c.executor != nil {
		err = c.executor.Execute(ctx, "ocr.recognize", call, classifyOCRError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.Extraction{}, wrapTemporaryIfNeeded("ocr recognize", err)
	}

	return domain.Extraction{
		Text:       response.Text,
		Confidence: response.Confidence,
	}, nil
}
