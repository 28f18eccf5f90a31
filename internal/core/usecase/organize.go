package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/organize"
	"github.com/snipvault/snipvault/internal/core/ports"
)

type OrganizeLibraryUseCase struct {
	library  ports.LibraryStore
	planner  *organize.Planner
	executor *organize.Executor
}

func NewOrganizeLibraryUseCase(
	library ports.LibraryStore,
	planner *organize.Planner,
	executor *organize.Executor,
) *OrganizeLibraryUseCase {
	return &OrganizeLibraryUseCase{
		library:  library,
		planner:  planner,
		executor: executor,
	}
}

func (uc *OrganizeLibraryUseCase) AnalyzeOrganization(ctx context.Context, ownerID string) ([]domain.OrganizationPlan, error) {
	items, err := uc.loadLibrary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return uc.planner.Analyze(items), nil
}

// AutoOrganize picks one plan, strips it down to the actions safe to run
// unattended and executes it. With nothing worth doing it still runs an
// empty pass so the caller gets a fresh structure back.
func (uc *OrganizeLibraryUseCase) AutoOrganize(ctx context.Context, ownerID string, strategy domain.SelectionStrategy) (*domain.OrganizationResult, error) {
	items, err := uc.loadLibrary(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	plan, ok := organize.SelectPlan(uc.planner.Analyze(items), strategy)
	if ok {
		plan = autoExecutableSubset(plan)
	} else {
		plan = domain.OrganizationPlan{
			ID:         uuid.NewString(),
			Name:       "No changes needed",
			Strategy:   domain.StrategyNone,
			Confidence: 1,
		}
	}

	result, err := uc.executor.Execute(ctx, plan, items)
	if err != nil {
		return nil, fmt.Errorf("execute selected plan: %w", err)
	}
	return result, nil
}

func (uc *OrganizeLibraryUseCase) ExecutePlan(ctx context.Context, ownerID string, plan domain.OrganizationPlan) (*domain.OrganizationResult, error) {
	if plan.ID == "" {
		return nil, domain.WrapError(domain.ErrInvalidPlan, "execute plan", errors.New("plan has no id"))
	}
	items, err := uc.loadLibrary(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return uc.executor.Execute(ctx, plan, items)
}

func (uc *OrganizeLibraryUseCase) loadLibrary(ctx context.Context, ownerID string) ([]domain.ContentItem, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "load library", errors.New("empty owner id"))
	}
	items, err := uc.library.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owner library: %w", err)
	}
	return items, nil
}

// autoExecutableSubset keeps only actions marked safe to run unattended.
// An action is also dropped when any of its dependencies is dropped,
// transitively, so the remaining graph stays valid.
func autoExecutableSubset(plan domain.OrganizationPlan) domain.OrganizationPlan {
	kept := map[string]bool{}
	for _, a := range plan.Actions {
		if a.AutoExecutable {
			kept[a.ID] = true
		}
	}
	for changed := true; changed; {
		changed = false
		for _, a := range plan.Actions {
			if !kept[a.ID] {
				continue
			}
			for _, dep := range a.DependsOn {
				if !kept[dep] {
					delete(kept, a.ID)
					changed = true
					break
				}
			}
		}
	}

	actions := make([]domain.OrganizationAction, 0, len(kept))
	for _, a := range plan.Actions {
		if kept[a.ID] {
			actions = append(actions, a)
		}
	}
	plan.Actions = actions
	return plan
}
