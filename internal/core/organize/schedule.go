package organize

import (
	"fmt"
	"sort"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// validateActionGraph rejects plans whose dependency references are missing
// or cyclic. It runs before any action so a malformed plan never partially
// executes.
func validateActionGraph(actions []domain.OrganizationAction) error {
	index := make(map[string]int, len(actions))
	for i, a := range actions {
		if a.ID == "" {
			return fmt.Errorf("action %d has no id", i)
		}
		if _, dup := index[a.ID]; dup {
			return fmt.Errorf("duplicate action id %q", a.ID)
		}
		index[a.ID] = i
	}
	for _, a := range actions {
		for _, dep := range a.DependsOn {
			if _, ok := index[dep]; !ok {
				return fmt.Errorf("action %q depends on unknown action %q", a.ID, dep)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(actions))
	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case visiting:
			return fmt.Errorf("dependency cycle through action %q", id)
		case visited:
			return nil
		}
		state[id] = visiting
		for _, dep := range actions[index[id]].DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[id] = visited
		return nil
	}
	for _, a := range actions {
		if err := visit(a.ID); err != nil {
			return err
		}
	}
	return nil
}

// executionOrder sorts actions by priority while keeping declaration order
// within the same priority.
func executionOrder(actions []domain.OrganizationAction) []domain.OrganizationAction {
	ordered := make([]domain.OrganizationAction, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority.Rank() < ordered[j].Priority.Rank()
	})
	return ordered
}
