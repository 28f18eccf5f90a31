package organize

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
)

// PlannerConfig carries the thresholds the strategies share. Zero values fall
// back to the defaults below.
type PlannerConfig struct {
	// MinConfidence discards plans at or below this confidence.
	MinConfidence float64
	// MergeFloor is the minimum similarity for proposing a merge.
	MergeFloor float64
	// AutoMergeFloor marks merges above this similarity safe to run
	// unattended.
	AutoMergeFloor float64
	// DuplicateFloor is the similarity treated as near-duplicate inside an
	// inferred project.
	DuplicateFloor float64
}

const (
	defaultMinConfidence  = 0.4
	defaultMergeFloor     = 0.6
	defaultAutoMergeFloor = 0.8
	defaultDuplicateFloor = 0.85

	// noSignalConfidence keeps empty plans below every sane MinConfidence.
	noSignalConfidence = 0.2
)

func (c PlannerConfig) normalize() PlannerConfig {
	if c.MinConfidence <= 0 {
		c.MinConfidence = defaultMinConfidence
	}
	if c.MergeFloor <= 0 {
		c.MergeFloor = defaultMergeFloor
	}
	if c.AutoMergeFloor <= 0 {
		c.AutoMergeFloor = defaultAutoMergeFloor
	}
	if c.DuplicateFloor <= 0 {
		c.DuplicateFloor = defaultDuplicateFloor
	}
	return c
}

// Planner generates organization plans from an immutable item snapshot.
// Every strategy sees the same snapshot; a failing strategy is dropped from
// the result, never the whole analysis.
type Planner struct {
	classifier *classify.Classifier
	cfg        PlannerConfig
}

func NewPlanner(classifier *classify.Classifier, cfg PlannerConfig) *Planner {
	return &Planner{classifier: classifier, cfg: cfg.normalize()}
}

func (p *Planner) Analyze(items []domain.ContentItem) []domain.OrganizationPlan {
	snap := newSnapshot(items, p.classifier)

	generators := []struct {
		strategy domain.PlanStrategy
		build    func(*snapshot) (*domain.OrganizationPlan, error)
	}{
		{domain.StrategyProjectBased, p.projectPlan},
		{domain.StrategyTopicBased, p.topicPlan},
		{domain.StrategyTimeBased, p.timePlan},
		{domain.StrategySimilarityBased, p.similarityPlan},
		{domain.StrategyHybrid, p.hybridPlan},
	}

	plans := make([]domain.OrganizationPlan, 0, len(generators))
	for _, g := range generators {
		plan, err := g.build(snap)
		if err != nil {
			slog.Warn("plan_generation_failed", "strategy", string(g.strategy), "error", err)
			continue
		}
		if plan == nil || plan.Confidence <= p.cfg.MinConfidence {
			continue
		}
		plans = append(plans, *plan)
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].Confidence > plans[j].Confidence
	})
	return plans
}

// snapshot is the planner's read-only view of the library. Only active files
// participate in strategies; snippets ride along through their parent.
type snapshot struct {
	files []domain.ContentItem
	byID  map[string]domain.ContentItem
	text  map[string]string
	// class is nil when no classifier is configured; topic-driven
	// strategies refuse to run in that case.
	class map[string]domain.ClassificationResult
}

func newSnapshot(items []domain.ContentItem, classifier *classify.Classifier) *snapshot {
	snap := &snapshot{
		byID: make(map[string]domain.ContentItem, len(items)),
		text: make(map[string]string),
	}
	if classifier != nil {
		snap.class = make(map[string]domain.ClassificationResult)
	}
	for _, it := range items {
		snap.byID[it.ID] = it
		if !it.IsFile() || it.Archived {
			continue
		}
		snap.files = append(snap.files, it)
		snap.text[it.ID] = it.SearchText()
		if classifier != nil {
			snap.class[it.ID] = classifier.Classify(it.SearchText())
		}
	}
	return snap
}

func (s *snapshot) fileIDs() []string {
	ids := make([]string, 0, len(s.files))
	for _, f := range s.files {
		ids = append(ids, f.ID)
	}
	return ids
}

// actionBuilder hands out per-plan sequential action IDs so dependency
// references stay readable.
type actionBuilder struct {
	n       int
	actions []domain.OrganizationAction
}

func (b *actionBuilder) add(a domain.OrganizationAction) string {
	b.n++
	a.ID = fmt.Sprintf("%s-%02d", a.Type, b.n)
	b.actions = append(b.actions, a)
	return a.ID
}

func (p *Planner) assemblePlan(strategy domain.PlanStrategy, name string, confidence float64, b *actionBuilder, snap *snapshot) *domain.OrganizationPlan {
	return &domain.OrganizationPlan{
		ID:              uuid.NewString(),
		Name:            name,
		Strategy:        strategy,
		Confidence:      clamp01(confidence),
		Actions:         b.actions,
		ExpectedOutcome: estimateOutcome(b.actions, snap),
		EstimatedTimeMs: estimateTimeMs(b.actions),
	}
}

func estimateOutcome(actions []domain.OrganizationAction, snap *snapshot) domain.ExpectedOutcome {
	var out domain.ExpectedOutcome
	affected := map[string]struct{}{}
	for _, a := range actions {
		for _, id := range a.AffectedItemIDs {
			affected[id] = struct{}{}
		}
		switch a.Type {
		case domain.ActionMerge:
			if n := len(a.AffectedItemIDs); n > 1 {
				out.FilesReduced += n - 1
				for _, id := range a.AffectedItemIDs[1:] {
					out.SnippetsConsolidated += snap.byID[id].SnippetCount
				}
			}
		case domain.ActionGroup:
			out.NewGroups++
		}
	}
	if len(snap.files) > 0 {
		coverage := float64(len(affected)) / float64(len(snap.files))
		out.ImprovedAccuracy = clamp01(0.1 + 0.6*coverage)
	}
	return out
}

var actionCostMs = map[domain.ActionType]int64{
	domain.ActionMerge:      800,
	domain.ActionGroup:      300,
	domain.ActionReorder:    250,
	domain.ActionReclassify: 400,
	domain.ActionArchive:    150,
	domain.ActionSplit:      900,
}

func estimateTimeMs(actions []domain.OrganizationAction) int64 {
	var total int64
	for _, a := range actions {
		if cost, ok := actionCostMs[a.Type]; ok {
			total += cost
		} else {
			total += 500
		}
	}
	return total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
