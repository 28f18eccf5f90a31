package classify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ruleFile struct {
	Languages []LanguageRule `yaml:"languages"`
	Topics    []TopicRule    `yaml:"topics"`
}

// LoadRules reads a YAML rule file. Deployments use it to add languages or
// retune topics without a rebuild; tests use it to substitute fixtures.
func LoadRules(path string) ([]LanguageRule, []TopicRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read rule file: %w", err)
	}
	var f ruleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("parse rule file: %w", err)
	}
	if len(f.Languages) == 0 && len(f.Topics) == 0 {
		return nil, nil, fmt.Errorf("rule file %s declares no rules", path)
	}
	return f.Languages, f.Topics, nil
}

// FromFile builds a classifier from a YAML rule file, falling back to the
// built-in tables for whichever section the file omits.
func FromFile(path string) (*Classifier, error) {
	languages, topics, err := LoadRules(path)
	if err != nil {
		return nil, err
	}
	if len(languages) == 0 {
		languages = DefaultLanguageRules()
	}
	if len(topics) == 0 {
		topics = DefaultTopicRules()
	}
	return New(languages, topics)
}
