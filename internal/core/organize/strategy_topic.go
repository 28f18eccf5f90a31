package organize

import (
	"errors"
	"fmt"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
)

// topicPlan groups files that classify to the same primary topic. The
// catch-all topic is noise, so it never forms a group.
func (p *Planner) topicPlan(snap *snapshot) (*domain.OrganizationPlan, error) {
	groups, err := topicGroups(snap)
	if err != nil {
		return nil, err
	}

	b := &actionBuilder{}
	for _, g := range groups {
		b.add(domain.OrganizationAction{
			Type:            domain.ActionGroup,
			Priority:        domain.PriorityMedium,
			Description:     fmt.Sprintf("Group %d files about %s", len(g.ItemIDs), g.Topic),
			AffectedItemIDs: g.ItemIDs,
			EstimatedImpact: 0.5,
			AutoExecutable:  true,
			TargetName:      g.Topic,
		})
	}

	confidence := noSignalConfidence
	if len(groups) > 0 {
		confidence = 0.45 + 0.05*float64(min(len(groups), 5))
	}
	return p.assemblePlan(domain.StrategyTopicBased, "Group by topic", confidence, b, snap), nil
}

// topicGroups buckets files by primary topic in first-seen order and keeps
// buckets with more than one member.
func topicGroups(snap *snapshot) ([]domain.ContentGroup, error) {
	if snap.class == nil {
		return nil, errors.New("no classifier configured for topic grouping")
	}
	order := []string{}
	members := map[string][]string{}
	for _, f := range snap.files {
		topic := snap.class[f.ID].Topic.Primary
		if topic == "" || topic == classify.GeneralTopic {
			continue
		}
		if _, seen := members[topic]; !seen {
			order = append(order, topic)
		}
		members[topic] = append(members[topic], f.ID)
	}

	groups := make([]domain.ContentGroup, 0, len(order))
	for _, topic := range order {
		ids := members[topic]
		if len(ids) < 2 {
			continue
		}
		groups = append(groups, domain.ContentGroup{Name: topic, Topic: topic, ItemIDs: ids})
	}
	return groups, nil
}
