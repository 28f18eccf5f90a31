package organize

import (
	"fmt"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// similarityPlan proposes a merge for every pair of files whose keyword
// similarity clears the merge floor. Only near-certain merges are marked
// safe to run unattended.
func (p *Planner) similarityPlan(snap *snapshot) (*domain.OrganizationPlan, error) {
	pairs := similarPairs(snap, snap.fileIDs(), p.cfg.MergeFloor)

	b := &actionBuilder{}
	simSum := 0.0
	for _, pair := range pairs {
		auto := pair.sim > p.cfg.AutoMergeFloor
		priority := domain.PriorityMedium
		if auto {
			priority = domain.PriorityHigh
		}
		b.add(domain.OrganizationAction{
			Type:            domain.ActionMerge,
			Priority:        priority,
			Description:     fmt.Sprintf("Merge %q into %q (%.2f similarity)", pair.bTitle, pair.aTitle, pair.sim),
			AffectedItemIDs: []string{pair.aID, pair.bID},
			EstimatedImpact: pair.sim,
			AutoExecutable:  auto,
		})
		simSum += pair.sim
	}

	confidence := noSignalConfidence
	if len(pairs) > 0 {
		confidence = 0.45 + 0.45*(simSum/float64(len(pairs)))
	}
	return p.assemblePlan(domain.StrategySimilarityBased, "Merge similar files", confidence, b, snap), nil
}
