package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snipvault/snipvault/internal/core/classify"
	"github.com/snipvault/snipvault/internal/core/naming"
)

// localClassifier builds the same rule engine the server runs, so offline
// classification matches what an upload would produce.
func localClassifier(rulesPath string) (*classify.Classifier, error) {
	if rulesPath == "" {
		return classify.Default(), nil
	}
	return classify.FromFile(rulesPath)
}

func classifyCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "classify [file]",
		Short: "Detect the language and topic of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("input is empty")
			}

			classifier, err := localClassifier(rulesPath)
			if err != nil {
				return err
			}

			result := classifier.Classify(text)
			fmt.Printf("Language: %s (%.0f%%)\n", result.Language.Language, result.Language.Confidence*100)
			fmt.Printf("Topic:    %s (%.0f%%)\n", result.Topic.Primary, result.Topic.Confidence*100)
			if len(result.Topic.SuggestedTags) > 0 {
				fmt.Printf("Tags:     %s\n", strings.Join(result.Topic.SuggestedTags, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file overriding the built-in classification tables")
	return cmd
}

func nameCmd() *cobra.Command {
	var rulesPath string
	var language string

	cmd := &cobra.Command{
		Use:   "name [file]",
		Short: "Propose a file name for a snippet from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("input is empty")
			}

			if language == "" {
				classifier, err := localClassifier(rulesPath)
				if err != nil {
					return err
				}
				language = classifier.Classify(text).Language.Language
			}

			fmt.Println(naming.Propose(text, language, nil))

			candidates := naming.Candidates(text, language, nil)
			if len(candidates) > 1 {
				fmt.Println("\nAlternatives:")
				for _, c := range candidates[1:] {
					fmt.Printf("  %s (%.2f)\n", c.Name, c.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "YAML rule file overriding the built-in classification tables")
	cmd.Flags().StringVar(&language, "language", "", "language hint; detected from the text when absent")
	return cmd
}
