package domain

type ActionType string

const (
	ActionMerge      ActionType = "merge"
	ActionGroup      ActionType = "group"
	ActionReorder    ActionType = "reorder"
	ActionReclassify ActionType = "classify"
	ActionArchive    ActionType = "archive"
	ActionSplit      ActionType = "split"
)

type ActionPriority string

const (
	PriorityHigh   ActionPriority = "high"
	PriorityMedium ActionPriority = "medium"
	PriorityLow    ActionPriority = "low"
)

// Rank orders priorities for execution. Unknown priorities sort last.
func (p ActionPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

type OrganizationAction struct {
	ID              string         `json:"id"`
	Type            ActionType     `json:"type"`
	Priority        ActionPriority `json:"priority"`
	Description     string         `json:"description"`
	AffectedItemIDs []string       `json:"affected_item_ids"`
	EstimatedImpact float64        `json:"estimated_impact"`
	AutoExecutable  bool           `json:"auto_executable"`
	// TargetName carries the group name for group actions and the new file
	// title for split actions.
	TargetName string   `json:"target_name,omitempty"`
	DependsOn  []string `json:"depends_on,omitempty"`
}

// ExpectedOutcome is a deterministic estimate derived from the plan's
// actions, not a promise about execution.
type ExpectedOutcome struct {
	FilesReduced         int     `json:"files_reduced"`
	SnippetsConsolidated int     `json:"snippets_consolidated"`
	NewGroups            int     `json:"new_groups"`
	ImprovedAccuracy     float64 `json:"improved_accuracy"`
}

type PlanStrategy string

const (
	StrategyProjectBased    PlanStrategy = "project_based"
	StrategyTopicBased      PlanStrategy = "topic_based"
	StrategyTimeBased       PlanStrategy = "time_based"
	StrategySimilarityBased PlanStrategy = "similarity_based"
	StrategyHybrid          PlanStrategy = "hybrid"
	StrategyNone            PlanStrategy = "none"
)

// OrganizationPlan is immutable once generated. Executors work on item
// snapshots, never on the plan itself.
type OrganizationPlan struct {
	ID              string               `json:"id"`
	Name            string               `json:"name"`
	Strategy        PlanStrategy         `json:"strategy"`
	Confidence      float64              `json:"confidence"`
	Actions         []OrganizationAction `json:"actions"`
	ExpectedOutcome ExpectedOutcome      `json:"expected_outcome"`
	EstimatedTimeMs int64                `json:"estimated_time_ms"`
}

type SelectionStrategy string

const (
	SelectAggressive   SelectionStrategy = "aggressive"
	SelectConservative SelectionStrategy = "conservative"
	SelectBalanced     SelectionStrategy = "balanced"
)

type ActionOutcome string

const (
	OutcomeSuccess ActionOutcome = "success"
	OutcomeFailed  ActionOutcome = "failed"
	OutcomeSkipped ActionOutcome = "skipped"
)

type ExecutedAction struct {
	Action  OrganizationAction `json:"action"`
	Outcome ActionOutcome      `json:"outcome"`
	Details string             `json:"details,omitempty"`
}

type ExecutionMetrics struct {
	MergesPerformed   int   `json:"merges_performed"`
	GroupsCreated     int   `json:"groups_created"`
	ItemsArchived     int   `json:"items_archived"`
	ItemsReordered    int   `json:"items_reordered"`
	ItemsReclassified int   `json:"items_reclassified"`
	SplitsPerformed   int   `json:"splits_performed"`
	FailedActions     int   `json:"failed_actions"`
	SkippedActions    int   `json:"skipped_actions"`
	DurationMs        int64 `json:"duration_ms"`
}

type OrganizationResult struct {
	PlanID          string           `json:"plan_id"`
	Success         bool             `json:"success"`
	ExecutedActions []ExecutedAction `json:"executed_actions"`
	NewStructure    LibraryStructure `json:"new_structure"`
	Metrics         ExecutionMetrics `json:"metrics"`
	Recommendations []string         `json:"recommendations,omitempty"`
}
