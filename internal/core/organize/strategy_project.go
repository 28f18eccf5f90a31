package organize

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/similarity"
)

// projectPlan clusters files that share a title stem into inferred projects.
// Each project gets one high-priority group action; near-duplicate files
// inside a project additionally get merge actions.
func (p *Planner) projectPlan(snap *snapshot) (*domain.OrganizationPlan, error) {
	projects := inferProjects(snap)

	b := &actionBuilder{}
	for _, proj := range projects {
		b.add(domain.OrganizationAction{
			Type:            domain.ActionGroup,
			Priority:        domain.PriorityHigh,
			Description:     fmt.Sprintf("Group %d files under project %q", len(proj.ItemIDs), proj.Name),
			AffectedItemIDs: proj.ItemIDs,
			EstimatedImpact: 0.7,
			AutoExecutable:  true,
			TargetName:      proj.Name,
		})
		for _, pair := range similarPairs(snap, proj.ItemIDs, p.cfg.DuplicateFloor) {
			b.add(domain.OrganizationAction{
				Type:            domain.ActionMerge,
				Priority:        domain.PriorityMedium,
				Description:     fmt.Sprintf("Merge %q into %q (%.2f similarity)", pair.bTitle, pair.aTitle, pair.sim),
				AffectedItemIDs: []string{pair.aID, pair.bID},
				EstimatedImpact: pair.sim,
				AutoExecutable:  pair.sim > p.cfg.AutoMergeFloor,
			})
		}
	}

	confidence := noSignalConfidence
	if len(projects) > 0 {
		confidence = 0.5 + 0.1*float64(min(len(projects), 4))
	}
	return p.assemblePlan(domain.StrategyProjectBased, "Organize by project", confidence, b, snap), nil
}

// inferProjects clusters files on the first two title tokens. Clusters keep
// first-seen order so repeated analyses produce identical plans.
func inferProjects(snap *snapshot) []domain.ProjectStructure {
	order := []string{}
	members := map[string][]string{}
	languages := map[string]map[string]struct{}{}

	for _, f := range snap.files {
		stem := titleStem(f.Title)
		if stem == "" {
			continue
		}
		if _, seen := members[stem]; !seen {
			order = append(order, stem)
			languages[stem] = map[string]struct{}{}
		}
		members[stem] = append(members[stem], f.ID)
		if f.Language != "" {
			languages[stem][f.Language] = struct{}{}
		}
	}

	projects := make([]domain.ProjectStructure, 0, len(order))
	for _, stem := range order {
		ids := members[stem]
		if len(ids) < 2 {
			continue
		}
		langs := make([]string, 0, len(languages[stem]))
		for l := range languages[stem] {
			langs = append(langs, l)
		}
		sort.Strings(langs)
		projects = append(projects, domain.ProjectStructure{Name: stem, ItemIDs: ids, Languages: langs})
	}
	return projects
}

// titleStem joins the first two title tokens, which is how related captures
// tend to be named ("javascript-ui-components", "javascript-ui-helpers").
func titleStem(title string) string {
	fields := strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	if len(fields) == 0 {
		return ""
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return fields[0] + "-" + fields[1]
}

type simPair struct {
	aID, bID       string
	aTitle, bTitle string
	sim            float64
}

// similarPairs scores every id pair and returns those strictly above the
// floor, strongest first. Greedy selection keeps each item in at most one
// pair so a plan never proposes conflicting merges.
func similarPairs(snap *snapshot, ids []string, floor float64) []simPair {
	pairs := []simPair{}
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			a, okA := snap.byID[ids[i]]
			b, okB := snap.byID[ids[j]]
			if !okA || !okB {
				continue
			}
			sim := similarity.Score(snap.text[a.ID], snap.text[b.ID])
			if sim > floor {
				pairs = append(pairs, simPair{aID: a.ID, bID: b.ID, aTitle: a.Title, bTitle: b.Title, sim: sim})
			}
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].sim > pairs[j].sim })

	used := map[string]struct{}{}
	selected := pairs[:0]
	for _, pr := range pairs {
		if _, ok := used[pr.aID]; ok {
			continue
		}
		if _, ok := used[pr.bID]; ok {
			continue
		}
		used[pr.aID] = struct{}{}
		used[pr.bID] = struct{}{}
		selected = append(selected, pr)
	}
	return selected
}
