package naming

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/snipvault/snipvault/internal/core/domain"
	"github.com/snipvault/snipvault/internal/core/similarity"
)

const (
	maxNameLength    = 50
	topKeywordCount  = 5
	nameKeywordCount = 3
	minNameLength    = 3

	fallbackPrefix = "code-snippet"
)

var (
	invalidRunes  = regexp.MustCompile(`[^a-zA-Z0-9\-_]+`)
	separatorRuns = regexp.MustCompile(`[-_]{2,}`)
	numericToken  = regexp.MustCompile(`^[0-9]+$`)
)

// Propose returns the best-ranked candidate name, or a timestamped fallback
// when the text yields nothing usable. Output always matches
// ^[a-zA-Z0-9\-_]+$ and never exceeds 50 characters.
func Propose(text, language string, existing []string) string {
	candidates := Candidates(text, language, existing)
	if len(candidates) == 0 {
		return fmt.Sprintf("%s-%d", fallbackPrefix, time.Now().Unix())
	}
	return candidates[0].Name
}

// Candidates builds name candidates from the most frequent keywords and ranks
// them by the mean of uniqueness against existing names and relevance to the
// source text. Shifted keyword windows give candidates different leading
// tokens, so a crowded topic in the existing library pushes ranking toward a
// fresher name.
func Candidates(text, language string, existing []string) []domain.NameCandidate {
	keywords := topKeywords(text, topKeywordCount)
	if len(keywords) == 0 {
		return nil
	}
	prefix := ""
	if language != "" && language != "unknown" {
		prefix = sanitize(strings.ToLower(language))
	}

	cores := make([][]string, 0, 4)
	if len(keywords) >= nameKeywordCount {
		cores = append(cores, keywords[:nameKeywordCount])
	}
	if len(keywords) >= nameKeywordCount+1 {
		cores = append(cores, keywords[1:nameKeywordCount+1])
	}
	if len(keywords) >= 2 {
		cores = append(cores, keywords[:2])
	}
	cores = append(cores, keywords[:1])

	seen := map[string]struct{}{}
	candidates := make([]domain.NameCandidate, 0, len(cores)*2)
	for _, core := range cores {
		for _, withPrefix := range []bool{true, false} {
			if withPrefix && prefix == "" {
				continue
			}
			parts := core
			if withPrefix {
				parts = append([]string{prefix}, core...)
			}
			name := sanitize(strings.Join(parts, "-"))
			if len(name) < minNameLength {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			uniq := uniqueness(core[0], existing)
			rel := relevance(core, keywords)
			candidates = append(candidates, domain.NameCandidate{
				Name:       name,
				Uniqueness: uniq,
				Relevance:  rel,
				Score:      (uniq + rel) / 2,
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// topKeywords ranks tokens by frequency; ties resolve to the token seen
// first. Purely numeric tokens are ignored.
func topKeywords(text string, limit int) []string {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, tok := range similarity.Tokens(text) {
		if numericToken.MatchString(tok) {
			continue
		}
		if _, ok := counts[tok]; !ok {
			firstSeen[tok] = i
		}
		counts[tok]++
	}
	unique := make([]string, 0, len(counts))
	for tok := range counts {
		unique = append(unique, tok)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})
	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}

// uniqueness is 1 minus the share of existing names built around the same
// leading topic token.
func uniqueness(coreToken string, existing []string) float64 {
	if len(existing) == 0 {
		return 1
	}
	shared := 0
	for _, name := range existing {
		for _, part := range strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
			return r == '-' || r == '_'
		}) {
			if part == coreToken {
				shared++
				break
			}
		}
	}
	return 1 - float64(shared)/float64(len(existing))
}

// relevance is the overlap fraction between the candidate's tokens and the
// text's top keywords. The language prefix does not count.
func relevance(coreTokens []string, topKeywords []string) float64 {
	if len(topKeywords) == 0 {
		return 0
	}
	top := make(map[string]struct{}, len(topKeywords))
	for _, k := range topKeywords {
		top[k] = struct{}{}
	}
	hits := 0
	for _, tok := range coreTokens {
		if _, ok := top[tok]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(topKeywords))
}

func sanitize(raw string) string {
	name := invalidRunes.ReplaceAllString(raw, "-")
	name = separatorRuns.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-_")
	if len(name) > maxNameLength {
		name = strings.Trim(name[:maxNameLength], "-_")
	}
	return name
}
