package similarity

import (
	"sort"

	"github.com/snipvault/snipvault/internal/core/domain"
)

// Candidate is one entry in the comparison pool, usually a file with its
// title, description and content joined.
type Candidate struct {
	ID    string
	Title string
	Text  string
}

// Score is the Jaccard index of the two keyword sets. It is symmetric,
// stays within [0,1] and returns exactly 1 for identical non-empty sets.
// Two texts without any keywords score 0, not 1.
func Score(a, b string) float64 {
	return jaccard(Keywords(a), Keywords(b))
}

// FindSimilar scores text against every candidate and returns those strictly
// above the threshold, most similar first. Ties keep pool order.
func FindSimilar(text string, pool []Candidate, threshold float64) []domain.SimilarFile {
	source := Keywords(text)
	matches := make([]domain.SimilarFile, 0)
	for _, c := range pool {
		s := jaccard(source, Keywords(c.Text))
		if s > threshold {
			matches = append(matches, domain.SimilarFile{ID: c.ID, Title: c.Title, Similarity: s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}

func jaccard(a, b map[string]struct{}) float64 {
	intersection := 0
	for t := range a {
		if _, ok := b[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
