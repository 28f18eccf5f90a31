package organize

import (
	"sort"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// workspace is the executor's mutable view of the library while a plan runs.
// Handlers keep it in step with the store so the final structure can be
// recomputed without another round trip.
type workspace struct {
	items map[string]domain.ContentItem
}

func newWorkspace(items []domain.ContentItem) *workspace {
	ws := &workspace{items: make(map[string]domain.ContentItem, len(items))}
	for _, it := range items {
		ws.items[it.ID] = it
	}
	return ws
}

// resolve returns the items that still exist, preserving the requested order.
func (ws *workspace) resolve(ids []string) []domain.ContentItem {
	found := make([]domain.ContentItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := ws.items[id]; ok {
			found = append(found, it)
		}
	}
	return found
}

// absorb folds the remaining merge sources into the target and drops them.
func (ws *workspace) absorb(targetID string, sourceIDs []string) {
	target, ok := ws.items[targetID]
	if !ok {
		return
	}
	for _, id := range sourceIDs {
		if id == targetID {
			continue
		}
		src, ok := ws.items[id]
		if !ok {
			continue
		}
		target.SnippetCount += src.SnippetCount
		delete(ws.items, id)
	}
	ws.items[targetID] = target
}

// label assigns a collection name to each item.
func (ws *workspace) label(ids []string, collection string) {
	for _, id := range ids {
		if it, ok := ws.items[id]; ok {
			it.Collection = collection
			ws.items[id] = it
		}
	}
}

func (ws *workspace) archive(ids []string) {
	for _, id := range ids {
		if it, ok := ws.items[id]; ok {
			it.Archived = true
			ws.items[id] = it
		}
	}
}

// children returns the snippets of a file sorted by position, then creation
// time for stable ties.
func (ws *workspace) children(fileID string) []domain.ContentItem {
	var snippets []domain.ContentItem
	for _, it := range ws.items {
		if it.ParentID == fileID {
			snippets = append(snippets, it)
		}
	}
	sort.SliceStable(snippets, func(i, j int) bool {
		if snippets[i].Position != snippets[j].Position {
			return snippets[i].Position < snippets[j].Position
		}
		return snippets[i].CreatedAt.Before(snippets[j].CreatedAt)
	})
	return snippets
}

// reposition rewrites snippet positions to match the given order.
func (ws *workspace) reposition(orderedIDs []string) {
	for pos, id := range orderedIDs {
		if it, ok := ws.items[id]; ok {
			it.Position = pos
			ws.items[id] = it
		}
	}
}

func (ws *workspace) reclassify(id, language string, tags []string) {
	if it, ok := ws.items[id]; ok {
		it.Language = language
		it.Tags = tags
		ws.items[id] = it
	}
}

// split moves snippets out of their file into a freshly created one.
func (ws *workspace) split(sourceID string, snippetIDs []string, newFileID, title string) {
	source, ok := ws.items[sourceID]
	if !ok {
		return
	}
	moved := 0
	for _, id := range snippetIDs {
		if it, ok := ws.items[id]; ok && it.ParentID == sourceID {
			it.ParentID = newFileID
			ws.items[id] = it
			moved++
		}
	}
	source.SnippetCount -= moved
	if source.SnippetCount < 0 {
		source.SnippetCount = 0
	}
	ws.items[sourceID] = source
	ws.items[newFileID] = domain.ContentItem{
		ID:           newFileID,
		OwnerID:      source.OwnerID,
		Kind:         domain.KindFile,
		Title:        title,
		Language:     source.Language,
		SnippetCount: moved,
		CreatedAt:    source.CreatedAt,
		UpdatedAt:    source.UpdatedAt,
	}
}

// list returns the current items in capture order so recomputed structures
// come out the same for the same state.
func (ws *workspace) list() []domain.ContentItem {
	out := make([]domain.ContentItem, 0, len(ws.items))
	for _, it := range ws.items {
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
