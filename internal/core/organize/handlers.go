package organize

import (
	"context"
	"errors"
	"fmt"

	"github.com/snipvault/snipvault/internal/core/domain"
)

func (e *Executor) apply(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	switch a.Type {
	case domain.ActionMerge:
		return e.applyMerge(ctx, a, ws)
	case domain.ActionGroup:
		return e.applyGroup(ctx, a, ws)
	case domain.ActionReorder:
		return e.applyReorder(ctx, a, ws)
	case domain.ActionReclassify:
		return e.applyReclassify(ctx, a, ws)
	case domain.ActionArchive:
		return e.applyArchive(ctx, a, ws)
	case domain.ActionSplit:
		return e.applySplit(ctx, a, ws)
	default:
		return "", fmt.Errorf("unsupported action type %q", a.Type)
	}
}

func (e *Executor) applyMerge(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	items := ws.resolve(a.AffectedItemIDs)
	if len(items) < 2 {
		return "", fmt.Errorf("merge needs at least 2 resolvable items, have %d", len(items))
	}
	ids := itemIDs(items)
	targetID, err := e.store.ApplyMerge(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("merge items: %w", err)
	}
	ws.absorb(targetID, ids)
	return fmt.Sprintf("merged %d files into %s", len(ids), targetID), nil
}

func (e *Executor) applyGroup(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	if a.TargetName == "" {
		return "", errors.New("group action has no target name")
	}
	items := ws.resolve(a.AffectedItemIDs)
	if len(items) < 2 {
		return "", fmt.Errorf("group needs at least 2 resolvable items, have %d", len(items))
	}
	ids := itemIDs(items)
	if err := e.store.ApplyGroup(ctx, a.TargetName, ids); err != nil {
		return "", fmt.Errorf("group items: %w", err)
	}
	ws.label(ids, a.TargetName)
	return fmt.Sprintf("grouped %d files as %q", len(ids), a.TargetName), nil
}

func (e *Executor) applyArchive(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	items := ws.resolve(a.AffectedItemIDs)
	if len(items) == 0 {
		return "", errors.New("no resolvable items to archive")
	}
	ids := itemIDs(items)
	if err := e.store.ApplyArchive(ctx, ids); err != nil {
		return "", fmt.Errorf("archive items: %w", err)
	}
	ws.archive(ids)
	return fmt.Sprintf("archived %d items", len(ids)), nil
}

func (e *Executor) applyReorder(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	if len(a.AffectedItemIDs) == 0 {
		return "", errors.New("reorder action has no target file")
	}
	fileID := a.AffectedItemIDs[0]
	file, ok := ws.items[fileID]
	if !ok || !file.IsFile() {
		return "", fmt.Errorf("reorder target %s is not a known file", fileID)
	}
	children := ws.children(fileID)
	if len(children) == 0 {
		return "", fmt.Errorf("file %q has no snippets to reorder", file.Title)
	}
	ordered := itemIDs(children)
	if err := e.store.ApplyReorder(ctx, fileID, ordered); err != nil {
		return "", fmt.Errorf("reorder snippets: %w", err)
	}
	ws.reposition(ordered)
	return fmt.Sprintf("reordered %d snippets in %q", len(ordered), file.Title), nil
}

func (e *Executor) applyReclassify(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	if e.classifier == nil {
		return "", errors.New("no classifier configured")
	}
	items := ws.resolve(a.AffectedItemIDs)
	if len(items) == 0 {
		return "", errors.New("no resolvable items to reclassify")
	}
	for _, it := range items {
		res := e.classifier.Classify(it.SearchText())
		if err := e.store.ApplyReclassify(ctx, it.ID, res.Language.Language, res.Topic.SuggestedTags); err != nil {
			return "", fmt.Errorf("reclassify %s: %w", it.ID, err)
		}
		ws.reclassify(it.ID, res.Language.Language, res.Topic.SuggestedTags)
	}
	return fmt.Sprintf("reclassified %d items", len(items)), nil
}

func (e *Executor) applySplit(ctx context.Context, a domain.OrganizationAction, ws *workspace) (string, error) {
	if a.TargetName == "" {
		return "", errors.New("split action has no new file title")
	}
	if len(a.AffectedItemIDs) < 2 {
		return "", errors.New("split needs a source file and at least one snippet")
	}
	fileID := a.AffectedItemIDs[0]
	file, ok := ws.items[fileID]
	if !ok || !file.IsFile() {
		return "", fmt.Errorf("split source %s is not a known file", fileID)
	}
	snippetIDs := a.AffectedItemIDs[1:]
	newFileID, err := e.store.ApplySplit(ctx, fileID, snippetIDs, a.TargetName)
	if err != nil {
		return "", fmt.Errorf("split file: %w", err)
	}
	ws.split(fileID, snippetIDs, newFileID, a.TargetName)
	return fmt.Sprintf("split %d snippets out of %q into %q", len(snippetIDs), file.Title, a.TargetName), nil
}

func itemIDs(items []domain.ContentItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
