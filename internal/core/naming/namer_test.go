package naming

import (
	"regexp"
	"strings"
	"testing"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

func TestProposeBuildsLanguagePrefixedName(t *testing.T) {
	text := "navigation stack screen navigation router screen transition"
	got := Propose(text, "javascript", nil)
	if got != "javascript-navigation-screen-stack" {
		t.Fatalf("unexpected proposal: %s", got)
	}
}

func TestProposeOmitsUnknownLanguagePrefix(t *testing.T) {
	got := Propose("parser tokenizer grammar parser", "unknown", nil)
	if strings.HasPrefix(got, "unknown-") {
		t.Fatalf("unknown language must not prefix the name, got %s", got)
	}
	if !strings.HasPrefix(got, "parser") {
		t.Fatalf("expected most frequent keyword first, got %s", got)
	}
}

func TestProposeFallsBackForEmptyText(t *testing.T) {
	got := Propose("", "javascript", nil)
	if !regexp.MustCompile(`^code-snippet-\d+$`).MatchString(got) {
		t.Fatalf("expected timestamped fallback, got %s", got)
	}
}

func TestProposeFallsBackForNumericOnlyText(t *testing.T) {
	got := Propose("12345 67890 42", "unknown", nil)
	if !strings.HasPrefix(got, "code-snippet-") {
		t.Fatalf("expected fallback for numeric-only text, got %s", got)
	}
}

func TestProposedNamesAreAlwaysValid(t *testing.T) {
	inputs := []struct {
		text     string
		language string
	}{
		{"weird $$ characters !! everywhere ## tokens", "javascript"},
		{strings.Repeat("verylongkeywordtoken ", 10), "typescript"},
		{"short", ""},
		{"tabs\tand\nnewlines everywhere tabs", "python"},
	}
	for _, in := range inputs {
		got := Propose(in.text, in.language, nil)
		if !validName.MatchString(got) {
			t.Fatalf("invalid name for %q: %q", in.text, got)
		}
		if len(got) > 50 {
			t.Fatalf("name exceeds 50 chars for %q: %q (%d)", in.text, got, len(got))
		}
	}
}

func TestCandidatesRankedByScore(t *testing.T) {
	text := "auth token login auth token session"
	got := Candidates(text, "swift", nil)
	if len(got) < 2 {
		t.Fatalf("expected multiple candidates, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Score < got[i].Score {
			t.Fatalf("candidates not sorted by score: %v", got)
		}
	}
	for _, c := range got {
		if c.Score < 0 || c.Score > 1 {
			t.Fatalf("score out of range: %+v", c)
		}
		if !validName.MatchString(c.Name) {
			t.Fatalf("invalid candidate name %q", c.Name)
		}
	}
}

func TestCrowdedTopicLowersUniqueness(t *testing.T) {
	text := "parser tokenizer grammar parser tokenizer parser lexer"
	existing := []string{"go-parser-basics", "parser-notes", "rust-parser-bench"}

	candidates := Candidates(text, "go", existing)
	var parserLed, tokenizerLed *float64
	for i := range candidates {
		first := strings.TrimPrefix(candidates[i].Name, "go-")
		switch {
		case strings.HasPrefix(first, "parser") && parserLed == nil:
			parserLed = &candidates[i].Uniqueness
		case strings.HasPrefix(first, "tokenizer") && tokenizerLed == nil:
			tokenizerLed = &candidates[i].Uniqueness
		}
	}
	if parserLed == nil || tokenizerLed == nil {
		t.Fatalf("expected both parser- and tokenizer-led candidates, got %v", candidates)
	}
	if *parserLed >= *tokenizerLed {
		t.Fatalf("expected crowded parser topic to score lower uniqueness: parser=%f tokenizer=%f", *parserLed, *tokenizerLed)
	}
}

func TestTopKeywordsFrequencyThenFirstSeen(t *testing.T) {
	got := topKeywords("beta alpha beta gamma alpha beta", 5)
	if len(got) != 3 || got[0] != "beta" || got[1] != "alpha" || got[2] != "gamma" {
		t.Fatalf("unexpected keyword ranking: %v", got)
	}
}
