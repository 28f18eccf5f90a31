package domain

import (
	"strings"
	"time"
)

type ItemKind string

const (
	KindFile    ItemKind = "file"
	KindSnippet ItemKind = "snippet"
)

// ContentItem is a unit of saved content. A file is a named, tagged container;
// a snippet is a block of extracted text that belongs to exactly one file.
type ContentItem struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Kind         ItemKind  `json:"kind"`
	ParentID     string    `json:"parent_id,omitempty"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Language     string    `json:"language,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Content      string    `json:"content,omitempty"`
	Position     int       `json:"position,omitempty"`
	Confidence   float64   `json:"confidence,omitempty"`
	SnippetCount int       `json:"snippet_count,omitempty"`
	Collection   string    `json:"collection,omitempty"`
	Archived     bool      `json:"archived,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (c ContentItem) IsFile() bool { return c.Kind == KindFile }

// SearchText is the text surface the classification and matching engines see.
func (c ContentItem) SearchText() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Title, c.Description, c.Content} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

type ContentGroup struct {
	Name    string   `json:"name"`
	Topic   string   `json:"topic,omitempty"`
	ItemIDs []string `json:"item_ids"`
}

type ProjectStructure struct {
	Name      string   `json:"name"`
	ItemIDs   []string `json:"item_ids"`
	Languages []string `json:"languages,omitempty"`
}

// LibraryStructure is recomputed from scratch after every organization pass.
// Group membership carries no identity from one pass to the next.
type LibraryStructure struct {
	Groups            []ContentGroup `json:"groups"`
	UngroupedItemIDs  []string       `json:"ungrouped_item_ids,omitempty"`
	TotalItems        int            `json:"total_items"`
	OrganizationScore float64        `json:"organization_score"`
}
