package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/snipvault/snipvault/internal/core/domain"
)

const defaultSearchLimit = 10

// handleSearchLibrary runs a substring search over the owner's library.
func (s *Server) handleSearchLibrary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner_id"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	items, err := s.library.SearchLibrary(ctx, ownerID, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No matching items. The library may be empty or the query too narrow."), nil
	}

	return mcp.NewToolResultText(formatItems(items)), nil
}

// handleClassifyText classifies a block of text locally, no store involved.
func (s *Server) handleClassifyText(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is empty"), nil
	}

	result := s.analyzer.Classify(text)
	return mcp.NewToolResultText(formatClassification(result)), nil
}

// handleProposeName ranks name candidates for a block of code.
func (s *Server) handleProposeName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is empty"), nil
	}

	ownerID := request.GetString("owner_id", "")
	language := request.GetString("language", "")

	name, candidates := s.analyzer.ProposeName(ctx, ownerID, text, language)
	return mcp.NewToolResultText(formatNameProposal(name, candidates)), nil
}

// handleOrganizationReport analyzes the owner's library and describes the
// generated plans. Nothing is executed.
func (s *Server) handleOrganizationReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ownerID, err := request.RequireString("owner_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: owner_id"), nil
	}

	plans, err := s.organizer.AnalyzeOrganization(ctx, ownerID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	if len(plans) == 0 {
		return mcp.NewToolResultText("No reorganization needed: the library is already well organized."), nil
	}

	return mcp.NewToolResultText(formatPlans(plans)), nil
}

// formatItems converts library items into a text format suitable for AI
// agent consumption.
func formatItems(items []domain.ContentItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d item(s):\n", len(items)))

	for i, item := range items {
		sb.WriteString(fmt.Sprintf("\n--- Item %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", item.ID))
		sb.WriteString(fmt.Sprintf("Kind: %s\n", item.Kind))
		sb.WriteString(fmt.Sprintf("Title: %s\n", item.Title))
		if item.Language != "" {
			sb.WriteString(fmt.Sprintf("Language: %s\n", item.Language))
		}
		if len(item.Tags) > 0 {
			sb.WriteString(fmt.Sprintf("Tags: %s\n", strings.Join(item.Tags, ", ")))
		}
		if item.IsFile() && item.SnippetCount > 0 {
			sb.WriteString(fmt.Sprintf("Snippets: %d\n", item.SnippetCount))
		}
		if item.Content != "" {
			sb.WriteString("\n")
			sb.WriteString(item.Content)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func formatClassification(result domain.ClassificationResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Language: %s (%.0f%% confidence)\n", result.Language.Language, result.Language.Confidence*100))
	sb.WriteString(fmt.Sprintf("Topic: %s (%.0f%% confidence)\n", result.Topic.Primary, result.Topic.Confidence*100))
	if len(result.Topic.SuggestedTags) > 0 {
		sb.WriteString(fmt.Sprintf("Suggested tags: %s\n", strings.Join(result.Topic.SuggestedTags, ", ")))
	}
	return sb.String()
}

func formatNameProposal(name string, candidates []domain.NameCandidate) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Proposed name: %s\n", name))

	if len(candidates) > 0 {
		sb.WriteString("\nRanked candidates:\n")
		for _, c := range candidates {
			sb.WriteString(fmt.Sprintf("- %s (score %.2f, uniqueness %.2f, relevance %.2f)\n", c.Name, c.Score, c.Uniqueness, c.Relevance))
		}
	}

	return sb.String()
}

func formatPlans(plans []domain.OrganizationPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d plan(s):\n", len(plans)))

	for i, plan := range plans {
		sb.WriteString(fmt.Sprintf("\n--- Plan %d: %s ---\n", i+1, plan.Name))
		sb.WriteString(fmt.Sprintf("ID: %s\n", plan.ID))
		sb.WriteString(fmt.Sprintf("Strategy: %s\n", plan.Strategy))
		sb.WriteString(fmt.Sprintf("Confidence: %.0f%%\n", plan.Confidence*100))

		outcome := plan.ExpectedOutcome
		if outcome.FilesReduced > 0 {
			sb.WriteString(fmt.Sprintf("Files reduced: %d\n", outcome.FilesReduced))
		}
		if outcome.SnippetsConsolidated > 0 {
			sb.WriteString(fmt.Sprintf("Snippets consolidated: %d\n", outcome.SnippetsConsolidated))
		}
		if outcome.NewGroups > 0 {
			sb.WriteString(fmt.Sprintf("New groups: %d\n", outcome.NewGroups))
		}

		for _, action := range plan.Actions {
			auto := ""
			if action.AutoExecutable {
				auto = ", auto-executable"
			}
			sb.WriteString(fmt.Sprintf("- [%s/%s%s] %s\n", action.Type, action.Priority, auto, action.Description))
		}
	}

	return sb.String()
}
