package classify

import (
	"fmt"
	"regexp"
)

// LanguageRule declares how one language is recognized. Patterns are regular
// expressions matched against the raw text; keywords are matched against the
// lowercased token set. Declaration order matters: on a score tie the earlier
// rule wins.
type LanguageRule struct {
	ID       string   `yaml:"id"`
	Patterns []string `yaml:"patterns"`
	Keywords []string `yaml:"keywords"`
}

// TopicRule is shaped like LanguageRule plus a weight multiplier applied to
// the raw score. A zero weight is treated as 1.
type TopicRule struct {
	ID       string   `yaml:"id"`
	Patterns []string `yaml:"patterns"`
	Keywords []string `yaml:"keywords"`
	Weight   float64  `yaml:"weight"`
}

type languageMatcher struct {
	id       string
	patterns []*regexp.Regexp
	keywords map[string]struct{}
}

type topicMatcher struct {
	id       string
	patterns []*regexp.Regexp
	keywords map[string]struct{}
	weight   float64
}

func compileLanguageRules(rules []LanguageRule) ([]languageMatcher, error) {
	matchers := make([]languageMatcher, 0, len(rules))
	seen := map[string]struct{}{}
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("language rule with empty id")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate language rule %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		patterns, err := compilePatterns(r.Patterns)
		if err != nil {
			return nil, fmt.Errorf("language rule %q: %w", r.ID, err)
		}
		matchers = append(matchers, languageMatcher{
			id:       r.ID,
			patterns: patterns,
			keywords: keywordSet(r.Keywords),
		})
	}
	return matchers, nil
}

func compileTopicRules(rules []TopicRule) ([]topicMatcher, error) {
	matchers := make([]topicMatcher, 0, len(rules))
	seen := map[string]struct{}{}
	for _, r := range rules {
		if r.ID == "" {
			return nil, fmt.Errorf("topic rule with empty id")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("duplicate topic rule %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		patterns, err := compilePatterns(r.Patterns)
		if err != nil {
			return nil, fmt.Errorf("topic rule %q: %w", r.ID, err)
		}
		weight := r.Weight
		if weight == 0 {
			weight = 1
		}
		if weight < 0 {
			return nil, fmt.Errorf("topic rule %q: negative weight", r.ID)
		}
		matchers = append(matchers, topicMatcher{
			id:       r.ID,
			patterns: patterns,
			keywords: keywordSet(r.Keywords),
			weight:   weight,
		})
	}
	return matchers, nil
}

func compilePatterns(sources []string) ([]*regexp.Regexp, error) {
	patterns := make([]*regexp.Regexp, 0, len(sources))
	for _, src := range sources {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", src, err)
		}
		patterns = append(patterns, re)
	}
	return patterns, nil
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		if k != "" {
			set[k] = struct{}{}
		}
	}
	return set
}
