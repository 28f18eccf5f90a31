package domain

import "time"

type CaptureStatus string

const (
	CaptureUploaded   CaptureStatus = "uploaded"
	CaptureProcessing CaptureStatus = "processing"
	CaptureReady      CaptureStatus = "ready"
	CaptureFailed     CaptureStatus = "failed"
)

type PlacementDecision string

const (
	PlacementAppended PlacementDecision = "appended"
	PlacementCreated  PlacementDecision = "created"
)

// Placement records where an extracted snippet ended up and what the
// pipeline knew when it decided.
type Placement struct {
	Decision      PlacementDecision `json:"decision"`
	FileID        string            `json:"file_id"`
	FileTitle     string            `json:"file_title,omitempty"`
	SnippetID     string            `json:"snippet_id"`
	Language      string            `json:"language,omitempty"`
	Tags          []string          `json:"tags,omitempty"`
	OCRConfidence float64           `json:"ocr_confidence"`
	Suggestions   []SimilarFile     `json:"suggestions,omitempty"`
}

type Capture struct {
	ID        string        `json:"id"`
	OwnerID   string        `json:"owner_id"`
	Filename  string        `json:"filename"`
	MimeType  string        `json:"mime_type"`
	ImagePath string        `json:"image_path"`
	Status    CaptureStatus `json:"status"`
	Error     string        `json:"error,omitempty"`
	Placement *Placement    `json:"placement,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
