package organize

import (
	"fmt"
	"sort"

	"github.com/snipvault/snipvault/internal/core/domain"
)

const monthBucketLayout = "2006-01"

// timePlan buckets files by capture month. Months with more than two files
// get a low-priority group action; thin months are left alone.
func (p *Planner) timePlan(snap *snapshot) (*domain.OrganizationPlan, error) {
	members := map[string][]string{}
	for _, f := range snap.files {
		bucket := f.CreatedAt.UTC().Format(monthBucketLayout)
		members[bucket] = append(members[bucket], f.ID)
	}
	buckets := make([]string, 0, len(members))
	for bucket, ids := range members {
		if len(ids) > 2 {
			buckets = append(buckets, bucket)
		}
	}
	sort.Strings(buckets)

	b := &actionBuilder{}
	for _, bucket := range buckets {
		b.add(domain.OrganizationAction{
			Type:            domain.ActionGroup,
			Priority:        domain.PriorityLow,
			Description:     fmt.Sprintf("Group %d files captured in %s", len(members[bucket]), bucket),
			AffectedItemIDs: members[bucket],
			EstimatedImpact: 0.3,
			AutoExecutable:  true,
			TargetName:      bucket,
		})
	}

	confidence := noSignalConfidence
	if len(buckets) > 0 {
		confidence = 0.42 + 0.03*float64(min(len(buckets), 4))
	}
	return p.assemblePlan(domain.StrategyTimeBased, "Group by capture month", confidence, b, snap), nil
}
