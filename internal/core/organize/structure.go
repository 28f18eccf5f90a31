package organize

import (
	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/domain"
)

// BuildStructure derives the grouped view of a library from scratch. Files
// carrying an explicit collection keep it; the rest fall into topic groups
// when at least two of them share a classified topic. Archived items and
// snippets never appear, snippets are reachable through their parent file.
func BuildStructure(items []domain.ContentItem, classifier *classify.Classifier) domain.LibraryStructure {
	var files []domain.ContentItem
	for _, it := range items {
		if it.IsFile() && !it.Archived {
			files = append(files, it)
		}
	}

	structure := domain.LibraryStructure{TotalItems: len(files)}
	if len(files) == 0 {
		structure.OrganizationScore = 1
		return structure
	}

	var collOrder, topicOrder []string
	collMembers := map[string][]string{}
	topicMembers := map[string][]string{}
	for _, f := range files {
		if f.Collection != "" {
			if _, seen := collMembers[f.Collection]; !seen {
				collOrder = append(collOrder, f.Collection)
			}
			collMembers[f.Collection] = append(collMembers[f.Collection], f.ID)
			continue
		}
		if classifier == nil {
			continue
		}
		topic := classifier.Classify(f.SearchText()).Topic.Primary
		if topic == "" || topic == classify.GeneralTopic {
			continue
		}
		if _, seen := topicMembers[topic]; !seen {
			topicOrder = append(topicOrder, topic)
		}
		topicMembers[topic] = append(topicMembers[topic], f.ID)
	}

	grouped := map[string]struct{}{}
	for _, name := range collOrder {
		ids := collMembers[name]
		structure.Groups = append(structure.Groups, domain.ContentGroup{Name: name, ItemIDs: ids})
		for _, id := range ids {
			grouped[id] = struct{}{}
		}
	}
	for _, topic := range topicOrder {
		ids := topicMembers[topic]
		if len(ids) < 2 {
			continue
		}
		structure.Groups = append(structure.Groups, domain.ContentGroup{Name: topic, Topic: topic, ItemIDs: ids})
		for _, id := range ids {
			grouped[id] = struct{}{}
		}
	}
	for _, f := range files {
		if _, ok := grouped[f.ID]; !ok {
			structure.UngroupedItemIDs = append(structure.UngroupedItemIDs, f.ID)
		}
	}

	structure.OrganizationScore = organizationScore(files, len(grouped))
	return structure
}

// organizationScore blends grouping coverage, tagging coverage and language
// coverage into one 0..1 health number. Empty libraries count as fully
// organized.
func organizationScore(files []domain.ContentItem, groupedCount int) float64 {
	total := float64(len(files))
	if total == 0 {
		return 1
	}
	tagged, classified := 0, 0
	for _, f := range files {
		if len(f.Tags) > 0 {
			tagged++
		}
		if f.Language != "" && f.Language != classify.UnknownLanguage {
			classified++
		}
	}
	score := 0.5*float64(groupedCount)/total + 0.3*float64(tagged)/total + 0.2*float64(classified)/total
	return clamp01(score)
}
