package organize

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/snipvault/snipvault/internal/core/domain"
)

type fakeApplier struct {
	mergeCalls   [][]string
	groupNames   []string
	archiveCalls [][]string
	reorderCalls [][]string
	reclassIDs   []string
	splitTitles  []string

	failMerge   error
	failGroup   error
	failArchive error
}

func (f *fakeApplier) ApplyMerge(_ context.Context, itemIDs []string) (string, error) {
	f.mergeCalls = append(f.mergeCalls, itemIDs)
	if f.failMerge != nil {
		return "", f.failMerge
	}
	return itemIDs[0], nil
}

func (f *fakeApplier) ApplyGroup(_ context.Context, name string, _ []string) error {
	f.groupNames = append(f.groupNames, name)
	return f.failGroup
}

func (f *fakeApplier) ApplyArchive(_ context.Context, itemIDs []string) error {
	f.archiveCalls = append(f.archiveCalls, itemIDs)
	return f.failArchive
}

func (f *fakeApplier) ApplyReorder(_ context.Context, _ string, orderedSnippetIDs []string) error {
	f.reorderCalls = append(f.reorderCalls, orderedSnippetIDs)
	return nil
}

func (f *fakeApplier) ApplyReclassify(_ context.Context, itemID string, _ string, _ []string) error {
	f.reclassIDs = append(f.reclassIDs, itemID)
	return nil
}

func (f *fakeApplier) ApplySplit(_ context.Context, _ string, _ []string, newTitle string) (string, error) {
	f.splitTitles = append(f.splitTitles, newTitle)
	return "split-" + newTitle, nil
}

func (f *fakeApplier) calls() int {
	return len(f.mergeCalls) + len(f.groupNames) + len(f.archiveCalls) +
		len(f.reorderCalls) + len(f.reclassIDs) + len(f.splitTitles)
}

func executorItems() []domain.ContentItem {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	mk := func(id, title string, offset int) domain.ContentItem {
		return domain.ContentItem{
			ID: id, Kind: domain.KindFile, Title: title, Language: "go",
			SnippetCount: 1, CreatedAt: base.Add(time.Duration(offset) * time.Minute),
		}
	}
	return []domain.ContentItem{
		mk("a", "worker pool", 0),
		mk("b", "worker queue", 1),
		mk("c", "http router", 2),
		mk("d", "config loader", 3),
	}
}

func archiveAction(id string, priority domain.ActionPriority, itemID string) domain.OrganizationAction {
	return domain.OrganizationAction{
		ID: id, Type: domain.ActionArchive, Priority: priority, AffectedItemIDs: []string{itemID},
	}
}

func TestExecuteRunsActionsInPriorityOrder(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-1",
		Actions: []domain.OrganizationAction{
			archiveAction("archive-low", domain.PriorityLow, "a"),
			archiveAction("archive-high-1", domain.PriorityHigh, "b"),
			archiveAction("archive-medium", domain.PriorityMedium, "c"),
			archiveAction("archive-high-2", domain.PriorityHigh, "d"),
		},
	}

	res, err := NewExecutor(&fakeApplier{}, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, 0, len(res.ExecutedActions))
	for _, ea := range res.ExecutedActions {
		got = append(got, ea.Action.ID)
	}
	want := []string{"archive-high-1", "archive-high-2", "archive-medium", "archive-low"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected execution order %v, got %v", want, got)
	}
}

func TestExecuteIsolatesASingleFailure(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-2",
		Actions: []domain.OrganizationAction{
			archiveAction("archive-1", domain.PriorityHigh, "a"),
			{ID: "merge-2", Type: domain.ActionMerge, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"b", "c"}},
			archiveAction("archive-3", domain.PriorityHigh, "d"),
		},
	}
	fake := &fakeApplier{failMerge: errors.New("connection reset")}

	res, err := NewExecutor(fake, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.ExecutedActions) != 3 {
		t.Fatalf("expected all 3 actions recorded, got %d", len(res.ExecutedActions))
	}
	if res.ExecutedActions[0].Outcome != domain.OutcomeSuccess {
		t.Fatalf("first action should succeed, got %s", res.ExecutedActions[0].Outcome)
	}
	if res.ExecutedActions[1].Outcome != domain.OutcomeFailed {
		t.Fatalf("merge should fail, got %s", res.ExecutedActions[1].Outcome)
	}
	if res.ExecutedActions[2].Outcome != domain.OutcomeSuccess {
		t.Fatalf("third action should still run, got %s", res.ExecutedActions[2].Outcome)
	}
	if !res.Success {
		t.Fatal("a failed action must not fail the whole run")
	}
	if res.Metrics.FailedActions != 1 {
		t.Fatalf("expected 1 failed action in metrics, got %d", res.Metrics.FailedActions)
	}
	if res.Metrics.ItemsArchived != 2 {
		t.Fatalf("expected 2 archived items in metrics, got %d", res.Metrics.ItemsArchived)
	}
}

func TestExecuteRejectsMissingDependency(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-3",
		Actions: []domain.OrganizationAction{
			{ID: "group-1", Type: domain.ActionGroup, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "b"}, TargetName: "web", DependsOn: []string{"ghost"}},
		},
	}
	fake := &fakeApplier{}

	_, err := NewExecutor(fake, nil).Execute(context.Background(), plan, executorItems())
	if !domain.IsKind(err, domain.ErrInvalidPlan) {
		t.Fatalf("expected invalid plan error, got %v", err)
	}
	if fake.calls() != 0 {
		t.Fatalf("no action should run for an invalid plan, saw %d calls", fake.calls())
	}
}

func TestExecuteRejectsDependencyCycle(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-4",
		Actions: []domain.OrganizationAction{
			archiveAction("archive-1", domain.PriorityHigh, "a"),
			{ID: "group-2", Type: domain.ActionGroup, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "b"}, TargetName: "web", DependsOn: []string{"group-3"}},
			{ID: "group-3", Type: domain.ActionGroup, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"c", "d"}, TargetName: "infra", DependsOn: []string{"group-2"}},
		},
	}
	fake := &fakeApplier{}

	_, err := NewExecutor(fake, nil).Execute(context.Background(), plan, executorItems())
	if !domain.IsKind(err, domain.ErrInvalidPlan) {
		t.Fatalf("expected invalid plan error, got %v", err)
	}
	if fake.calls() != 0 {
		t.Fatalf("no action should run when the graph is cyclic, saw %d calls", fake.calls())
	}
}

func TestExecuteSkipsDependentsOfFailedActions(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-5",
		Actions: []domain.OrganizationAction{
			{ID: "merge-1", Type: domain.ActionMerge, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "b"}},
			{ID: "group-2", Type: domain.ActionGroup, Priority: domain.PriorityLow, AffectedItemIDs: []string{"a", "c"}, TargetName: "workers", DependsOn: []string{"merge-1"}},
		},
	}
	fake := &fakeApplier{failMerge: errors.New("deadlock detected")}

	res, err := NewExecutor(fake, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExecutedActions[1].Outcome != domain.OutcomeSkipped {
		t.Fatalf("dependent action should be skipped, got %s", res.ExecutedActions[1].Outcome)
	}
	if !strings.Contains(res.ExecutedActions[1].Details, "merge-1") {
		t.Fatalf("skip details should name the failed dependency, got %q", res.ExecutedActions[1].Details)
	}
	if len(fake.groupNames) != 0 {
		t.Fatal("skipped group must not reach the store")
	}
	if res.Metrics.SkippedActions != 1 {
		t.Fatalf("expected 1 skipped action in metrics, got %d", res.Metrics.SkippedActions)
	}
}

func TestExecuteDefersActionUntilDependencyRuns(t *testing.T) {
	// The group outranks its dependency, so it must wait a round.
	plan := domain.OrganizationPlan{
		ID: "plan-6",
		Actions: []domain.OrganizationAction{
			{ID: "group-1", Type: domain.ActionGroup, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "b"}, TargetName: "web", DependsOn: []string{"archive-2"}},
			archiveAction("archive-2", domain.PriorityLow, "c"),
		},
	}

	res, err := NewExecutor(&fakeApplier{}, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{res.ExecutedActions[0].Action.ID, res.ExecutedActions[1].Action.ID}
	if !reflect.DeepEqual(got, []string{"archive-2", "group-1"}) {
		t.Fatalf("expected the dependency to run first, got order %v", got)
	}
	for _, ea := range res.ExecutedActions {
		if ea.Outcome != domain.OutcomeSuccess {
			t.Fatalf("action %s should succeed, got %s", ea.Action.ID, ea.Outcome)
		}
	}
}

func TestExecuteFailsUnknownActionType(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-7",
		Actions: []domain.OrganizationAction{
			{ID: "odd-1", Type: domain.ActionType("teleport"), Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a"}},
		},
	}

	res, err := NewExecutor(&fakeApplier{}, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExecutedActions[0].Outcome != domain.OutcomeFailed {
		t.Fatalf("unknown action type should fail, got %s", res.ExecutedActions[0].Outcome)
	}
	if !strings.Contains(res.ExecutedActions[0].Details, "unsupported action type") {
		t.Fatalf("details should name the unsupported type, got %q", res.ExecutedActions[0].Details)
	}
	if !res.Success {
		t.Fatal("an unknown action must not fail the whole run")
	}
}

func TestExecuteFailsMergeWithUnresolvableItems(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-8",
		Actions: []domain.OrganizationAction{
			{ID: "merge-1", Type: domain.ActionMerge, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "ghost"}},
		},
	}
	fake := &fakeApplier{}

	res, err := NewExecutor(fake, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ExecutedActions[0].Outcome != domain.OutcomeFailed {
		t.Fatalf("merge of one resolvable item should fail, got %s", res.ExecutedActions[0].Outcome)
	}
	if len(fake.mergeCalls) != 0 {
		t.Fatal("an unresolvable merge must not reach the store")
	}
}

func TestExecuteGroupUpdatesRecomputedStructure(t *testing.T) {
	plan := domain.OrganizationPlan{
		ID: "plan-9",
		Actions: []domain.OrganizationAction{
			{ID: "group-1", Type: domain.ActionGroup, Priority: domain.PriorityHigh, AffectedItemIDs: []string{"a", "b"}, TargetName: "workers"},
		},
	}

	res, err := NewExecutor(&fakeApplier{}, nil).Execute(context.Background(), plan, executorItems())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.NewStructure.Groups) != 1 || res.NewStructure.Groups[0].Name != "workers" {
		t.Fatalf("expected a workers group in the recomputed structure, got %+v", res.NewStructure.Groups)
	}
	if !reflect.DeepEqual(res.NewStructure.Groups[0].ItemIDs, []string{"a", "b"}) {
		t.Fatalf("expected group members a and b, got %v", res.NewStructure.Groups[0].ItemIDs)
	}
	if !reflect.DeepEqual(res.NewStructure.UngroupedItemIDs, []string{"c", "d"}) {
		t.Fatalf("expected c and d ungrouped, got %v", res.NewStructure.UngroupedItemIDs)
	}
	if res.NewStructure.TotalItems != 4 {
		t.Fatalf("expected 4 items in the structure, got %d", res.NewStructure.TotalItems)
	}
}

func TestExecuteStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := domain.OrganizationPlan{
		ID:      "plan-10",
		Actions: []domain.OrganizationAction{archiveAction("archive-1", domain.PriorityHigh, "a")},
	}
	fake := &fakeApplier{}

	_, err := NewExecutor(fake, nil).Execute(ctx, plan, executorItems())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if fake.calls() != 0 {
		t.Fatal("no action should run after cancellation")
	}
}

func TestExecuteEndToEndAutoMergesDuplicates(t *testing.T) {
	base := time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)
	content := "const Button = ({ label, onPress }) => <TouchableOpacity onPress={onPress}><Text>{label}</Text></TouchableOpacity>;"
	items := []domain.ContentItem{
		{ID: "j1", Kind: domain.KindFile, Title: "javascript ui components", Language: "javascript", Content: content, SnippetCount: 1, CreatedAt: base},
		{ID: "j2", Kind: domain.KindFile, Title: "javascript ui components copy", Language: "javascript", Content: content, SnippetCount: 1, CreatedAt: base.Add(time.Minute)},
	}

	p := NewPlanner(testClassifier(t), PlannerConfig{})
	plan, ok := planFor(p.Analyze(items), domain.StrategySimilarityBased)
	if !ok {
		t.Fatal("expected a similarity plan for near-identical files")
	}
	if len(plan.Actions) != 1 {
		t.Fatalf("expected exactly one merge action, got %d", len(plan.Actions))
	}
	if !plan.Actions[0].AutoExecutable {
		t.Fatalf("a %.2f similarity merge should be auto-executable", plan.Actions[0].EstimatedImpact)
	}

	fake := &fakeApplier{}
	res, err := NewExecutor(fake, testClassifier(t)).Execute(context.Background(), plan, items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Success {
		t.Fatal("expected a successful run")
	}
	if res.Metrics.MergesPerformed != 1 {
		t.Fatalf("expected 1 merge performed, got %d", res.Metrics.MergesPerformed)
	}
	if len(fake.mergeCalls) != 1 || !reflect.DeepEqual(fake.mergeCalls[0], []string{"j1", "j2"}) {
		t.Fatalf("expected one store merge of j1 and j2, got %v", fake.mergeCalls)
	}
	if res.NewStructure.TotalItems != 1 {
		t.Fatalf("expected a single file after the merge, got %d", res.NewStructure.TotalItems)
	}

	foundConsolidated := false
	for _, rec := range res.Recommendations {
		if rec == "Consolidated 2 duplicate items" {
			foundConsolidated = true
		}
	}
	if !foundConsolidated {
		t.Fatalf("expected a consolidation recommendation, got %v", res.Recommendations)
	}
}
