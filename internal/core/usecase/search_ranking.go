package usecase

import (
	"sort"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/similarity"
)

const searchRRFK = 60

// rankSearchResults blends the store's result order with a keyword-overlap
// order using reciprocal rank fusion. The store favors recently touched items;
// the overlap ranking favors items whose text matches the query.
func rankSearchResults(items []domain.ContentItem, query string) []domain.ContentItem {
	if len(items) < 2 {
		return items
	}
	return fuseRankings(items, rankByKeywordOverlap(items, query), searchRRFK)
}

// fuseRankings merges two orderings of the same result set. Each list
// contributes 1/(k+rank+1) per item; ties break on item ID.
func fuseRankings(first, second []domain.ContentItem, k int) []domain.ContentItem {
	if k <= 0 {
		k = searchRRFK
	}

	scores := make(map[string]float64, len(first))
	byID := make(map[string]domain.ContentItem, len(first))
	order := make([]string, 0, len(first))

	addList := func(items []domain.ContentItem) {
		for rank, item := range items {
			if _, seen := byID[item.ID]; !seen {
				byID[item.ID] = item
				order = append(order, item.ID)
			}
			scores[item.ID] += 1.0 / float64(k+rank+1)
		}
	}
	addList(first)
	addList(second)

	out := make([]domain.ContentItem, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if scores[out[i].ID] != scores[out[j].ID] {
			return scores[out[i].ID] > scores[out[j].ID]
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// rankByKeywordOverlap orders a copy of items by keyword overlap with the
// query, most overlapping first. Ties keep the incoming order, so a query
// matching nothing leaves the order untouched.
func rankByKeywordOverlap(items []domain.ContentItem, query string) []domain.ContentItem {
	overlap := make(map[string]float64, len(items))
	for _, item := range items {
		overlap[item.ID] = similarity.Score(query, item.SearchText())
	}

	ranked := make([]domain.ContentItem, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return overlap[ranked[i].ID] > overlap[ranked[j].ID]
	})
	return ranked
}
