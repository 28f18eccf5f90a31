package organize

import (
	"fmt"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// hybridPlan layers the other strategies into one plan: project grouping
// first, duplicate merges second, topic grouping last. Topic groups that
// contain a merge target declare a dependency on the merge so they run
// against the consolidated file.
func (p *Planner) hybridPlan(snap *snapshot) (*domain.OrganizationPlan, error) {
	b := &actionBuilder{}

	for _, proj := range inferProjects(snap) {
		b.add(domain.OrganizationAction{
			Type:            domain.ActionGroup,
			Priority:        domain.PriorityHigh,
			Description:     fmt.Sprintf("Group %d files under project %q", len(proj.ItemIDs), proj.Name),
			AffectedItemIDs: proj.ItemIDs,
			EstimatedImpact: 0.7,
			AutoExecutable:  true,
			TargetName:      proj.Name,
		})
	}

	// Merge action ID per first affected item, so later topic groups can
	// anchor a dependency on the merge that rewrites their member.
	mergeByFirstAffected := map[string]string{}
	for _, pair := range similarPairs(snap, snap.fileIDs(), p.cfg.MergeFloor) {
		id := b.add(domain.OrganizationAction{
			Type:            domain.ActionMerge,
			Priority:        domain.PriorityMedium,
			Description:     fmt.Sprintf("Merge %q into %q (%.2f similarity)", pair.bTitle, pair.aTitle, pair.sim),
			AffectedItemIDs: []string{pair.aID, pair.bID},
			EstimatedImpact: pair.sim,
			AutoExecutable:  pair.sim > p.cfg.AutoMergeFloor,
		})
		mergeByFirstAffected[pair.aID] = id
	}

	groups, err := topicGroups(snap)
	if err == nil {
		for _, g := range groups {
			var deps []string
			for _, itemID := range g.ItemIDs {
				if mergeID, ok := mergeByFirstAffected[itemID]; ok {
					deps = append(deps, mergeID)
				}
			}
			b.add(domain.OrganizationAction{
				Type:            domain.ActionGroup,
				Priority:        domain.PriorityLow,
				Description:     fmt.Sprintf("Group %d files about %s", len(g.ItemIDs), g.Topic),
				AffectedItemIDs: g.ItemIDs,
				EstimatedImpact: 0.5,
				AutoExecutable:  true,
				TargetName:      g.Topic,
				DependsOn:       deps,
			})
		}
	}

	confidence := noSignalConfidence
	if b.n > 0 {
		confidence = 0.4 + 0.08*float64(min(b.n, 6))
	}
	return p.assemblePlan(domain.StrategyHybrid, "Full reorganization", confidence, b, snap), nil
}
