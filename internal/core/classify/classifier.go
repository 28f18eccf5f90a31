package classify

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/snipvault/snipvault/internal/core/domain"
)

const (
	patternPoints = 3
	keywordPoints = 2

	// UnknownLanguage and GeneralTopic are the degraded results for text
	// no rule recognizes. Classification never fails outright.
	UnknownLanguage = "unknown"
	GeneralTopic    = "general"

	suggestedTagLimit = 3

	languageScoreCeiling = 20.0
	topicScoreCeiling    = 12.0
)

// Classifier scores text against its rule tables. It holds no mutable state,
// so one instance is safe for concurrent use.
type Classifier struct {
	languages []languageMatcher
	topics    []topicMatcher
}

func New(languages []LanguageRule, topics []TopicRule) (*Classifier, error) {
	langMatchers, err := compileLanguageRules(languages)
	if err != nil {
		return nil, err
	}
	topicMatchers, err := compileTopicRules(topics)
	if err != nil {
		return nil, err
	}
	return &Classifier{languages: langMatchers, topics: topicMatchers}, nil
}

// Default builds a classifier from the built-in rule tables.
func Default() *Classifier {
	c, err := New(DefaultLanguageRules(), DefaultTopicRules())
	if err != nil {
		panic("built-in classification rules do not compile: " + err.Error())
	}
	return c
}

func (c *Classifier) Classify(text string) domain.ClassificationResult {
	tokens := tokenSet(text)
	return domain.ClassificationResult{
		Language: c.classifyLanguage(text, tokens),
		Topic:    c.classifyTopic(text, tokens),
	}
}

func (c *Classifier) classifyLanguage(text string, tokens map[string]struct{}) domain.LanguageResult {
	scores := make(map[string]float64, len(c.languages))
	best := ""
	bestScore := 0
	for _, m := range c.languages {
		score := patternPoints*countPatternHits(m.patterns, text) + keywordPoints*countKeywordHits(m.keywords, tokens)
		scores[m.id] = float64(score)
		if score > bestScore {
			best = m.id
			bestScore = score
		}
	}
	if bestScore == 0 {
		return domain.LanguageResult{Language: UnknownLanguage, Confidence: 0, Scores: scores}
	}
	return domain.LanguageResult{
		Language:   best,
		Confidence: confidenceFrom(float64(bestScore), languageScoreCeiling),
		Scores:     scores,
	}
}

func (c *Classifier) classifyTopic(text string, tokens map[string]struct{}) domain.TopicResult {
	ranked := make([]domain.TopicScore, 0, len(c.topics))
	for _, m := range c.topics {
		raw := patternPoints*countPatternHits(m.patterns, text) + keywordPoints*countKeywordHits(m.keywords, tokens)
		if raw == 0 {
			continue
		}
		ranked = append(ranked, domain.TopicScore{Topic: m.id, Score: m.weight * float64(raw)})
	}
	if len(ranked) == 0 {
		return domain.TopicResult{Primary: GeneralTopic, Confidence: 0}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	tags := make([]string, 0, suggestedTagLimit)
	for _, ts := range ranked {
		if len(tags) == suggestedTagLimit {
			break
		}
		tags = append(tags, ts.Topic)
	}
	return domain.TopicResult{
		Primary:       ranked[0].Topic,
		Confidence:    confidenceFrom(ranked[0].Score, topicScoreCeiling),
		Topics:        ranked,
		SuggestedTags: tags,
	}
}

// countPatternHits counts matching patterns, not occurrences, so score stays
// bounded by the rule table.
func countPatternHits(patterns []*regexp.Regexp, text string) int {
	hits := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			hits++
		}
	}
	return hits
}

func countKeywordHits(keywords map[string]struct{}, tokens map[string]struct{}) int {
	hits := 0
	for k := range keywords {
		if _, ok := tokens[k]; ok {
			hits++
		}
	}
	return hits
}

func confidenceFrom(score, ceiling float64) float64 {
	c := score / ceiling
	if c > 1 {
		return 1
	}
	return c
}

// tokenSet lowercases the text and splits it on everything that is not a
// letter, digit or underscore.
func tokenSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
