package organize

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
)

// Applier is the slice of the library store the executor needs to carry out
// actions. The postgres store satisfies it.
type Applier interface {
	ApplyMerge(ctx context.Context, itemIDs []string) (string, error)
	ApplyGroup(ctx context.Context, name string, itemIDs []string) error
	ApplyArchive(ctx context.Context, itemIDs []string) error
	ApplyReorder(ctx context.Context, fileID string, orderedSnippetIDs []string) error
	ApplyReclassify(ctx context.Context, itemID string, language string, tags []string) error
	ApplySplit(ctx context.Context, fileID string, snippetIDs []string, newTitle string) (string, error)
}

// Executor runs organization plans action by action. One failing action
// never aborts the run; it is recorded and the rest of the plan continues.
type Executor struct {
	store      Applier
	classifier *classify.Classifier
}

func NewExecutor(store Applier, classifier *classify.Classifier) *Executor {
	return &Executor{store: store, classifier: classifier}
}

const opExecute = "organize.Execute"

// Execute validates the plan's dependency graph, runs its actions in
// priority order and recomputes the library structure from the resulting
// state. The returned result reports per-action outcomes; Success only turns
// false when the final recomputation itself fails.
func (e *Executor) Execute(ctx context.Context, plan domain.OrganizationPlan, items []domain.ContentItem) (*domain.OrganizationResult, error) {
	if err := validateActionGraph(plan.Actions); err != nil {
		return nil, domain.WrapError(domain.ErrInvalidPlan, opExecute, err)
	}

	started := time.Now()
	ws := newWorkspace(items)

	executed, err := e.runActions(ctx, plan.Actions, ws)
	if err != nil {
		return nil, err
	}

	result := &domain.OrganizationResult{
		PlanID:          plan.ID,
		Success:         true,
		ExecutedActions: executed,
		Metrics:         tallyMetrics(executed, time.Since(started)),
	}
	result.Recommendations = recommend(result.Metrics, executed)

	structure, err := e.recomputeStructure(ws)
	if err != nil {
		result.Success = false
		result.Recommendations = append(result.Recommendations, "Structure recomputation failed, rerun analysis before relying on the library layout")
		slog.Error("structure_recompute_failed", "plan_id", plan.ID, "error", err)
	} else {
		result.NewStructure = structure
	}
	return result, nil
}

// runActions walks the priority-ordered actions, deferring any whose
// dependencies have not resolved yet. Validation already guaranteed the
// dependency graph is acyclic, so every round makes progress.
func (e *Executor) runActions(ctx context.Context, actions []domain.OrganizationAction, ws *workspace) ([]domain.ExecutedAction, error) {
	executed := make([]domain.ExecutedAction, 0, len(actions))
	outcomes := make(map[string]domain.ActionOutcome, len(actions))

	pending := executionOrder(actions)
	for len(pending) > 0 {
		var deferred []domain.OrganizationAction
		for _, a := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			state, blockedBy := depState(a, outcomes)
			switch state {
			case depsWaiting:
				deferred = append(deferred, a)
				continue
			case depsBlocked:
				rec := domain.ExecutedAction{
					Action:  a,
					Outcome: domain.OutcomeSkipped,
					Details: fmt.Sprintf("dependency %s did not complete", blockedBy),
				}
				executed = append(executed, rec)
				outcomes[a.ID] = rec.Outcome
				continue
			}
			rec := e.runAction(ctx, a, ws)
			executed = append(executed, rec)
			outcomes[a.ID] = rec.Outcome
		}
		pending = deferred
	}
	return executed, nil
}

type depStatus int

const (
	depsReady depStatus = iota
	depsWaiting
	depsBlocked
)

func depState(a domain.OrganizationAction, outcomes map[string]domain.ActionOutcome) (depStatus, string) {
	for _, dep := range a.DependsOn {
		outcome, done := outcomes[dep]
		if !done {
			return depsWaiting, ""
		}
		if outcome != domain.OutcomeSuccess {
			return depsBlocked, dep
		}
	}
	return depsReady, ""
}

// runAction applies a single action and converts every failure mode,
// panics included, into a failed outcome.
func (e *Executor) runAction(ctx context.Context, a domain.OrganizationAction, ws *workspace) (rec domain.ExecutedAction) {
	rec = domain.ExecutedAction{Action: a}
	defer func() {
		if r := recover(); r != nil {
			rec.Outcome = domain.OutcomeFailed
			rec.Details = fmt.Sprintf("action panicked: %v", r)
			slog.Error("action_panic", "action_id", a.ID, "type", string(a.Type), "panic", r)
		}
	}()

	details, err := e.apply(ctx, a, ws)
	if err != nil {
		rec.Outcome = domain.OutcomeFailed
		rec.Details = err.Error()
		slog.Warn("action_failed", "action_id", a.ID, "type", string(a.Type), "error", err)
		return rec
	}
	rec.Outcome = domain.OutcomeSuccess
	rec.Details = details
	return rec
}

func (e *Executor) recomputeStructure(ws *workspace) (structure domain.LibraryStructure, err error) {
	defer func() {
		if r := recover(); r != nil {
			structure = domain.LibraryStructure{}
			err = fmt.Errorf("structure recomputation panicked: %v", r)
		}
	}()
	return BuildStructure(ws.list(), e.classifier), nil
}

func tallyMetrics(executed []domain.ExecutedAction, elapsed time.Duration) domain.ExecutionMetrics {
	m := domain.ExecutionMetrics{DurationMs: elapsed.Milliseconds()}
	for _, ea := range executed {
		switch ea.Outcome {
		case domain.OutcomeFailed:
			m.FailedActions++
			continue
		case domain.OutcomeSkipped:
			m.SkippedActions++
			continue
		}
		switch ea.Action.Type {
		case domain.ActionMerge:
			m.MergesPerformed++
		case domain.ActionGroup:
			m.GroupsCreated++
		case domain.ActionArchive:
			m.ItemsArchived += len(ea.Action.AffectedItemIDs)
		case domain.ActionReorder:
			m.ItemsReordered += len(ea.Action.AffectedItemIDs)
		case domain.ActionReclassify:
			m.ItemsReclassified += len(ea.Action.AffectedItemIDs)
		case domain.ActionSplit:
			m.SplitsPerformed++
		}
	}
	return m
}

func recommend(m domain.ExecutionMetrics, executed []domain.ExecutedAction) []string {
	var recs []string
	if m.MergesPerformed > 0 {
		consolidated := 0
		for _, ea := range executed {
			if ea.Action.Type == domain.ActionMerge && ea.Outcome == domain.OutcomeSuccess {
				consolidated += len(ea.Action.AffectedItemIDs)
			}
		}
		recs = append(recs, fmt.Sprintf("Consolidated %d duplicate items", consolidated))
	}
	if m.GroupsCreated > 0 {
		recs = append(recs, fmt.Sprintf("Created %d new groups", m.GroupsCreated))
	}
	if m.ItemsArchived > 0 {
		recs = append(recs, fmt.Sprintf("Archived %d stale items", m.ItemsArchived))
	}
	if m.FailedActions > 0 {
		recs = append(recs, fmt.Sprintf("%d actions failed and may need manual attention", m.FailedActions))
	}
	if m.SkippedActions > 0 {
		recs = append(recs, fmt.Sprintf("%d actions were skipped because a dependency did not complete", m.SkippedActions))
	}
	if len(recs) == 0 {
		recs = append(recs, "Library already well organized")
	}
	return recs
}
