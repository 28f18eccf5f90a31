package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/snipvault/snipvault/internal/core/domain"
)

type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{
		base: strings.TrimRight(apiBase, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *apiClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return apiError(res)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *apiClient) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call api: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return apiError(res)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(res *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("api %s: %s", res.Status, payload.Error)
	}
	return fmt.Errorf("api %s", res.Status)
}

func similarCmd() *cobra.Command {
	var threshold float64

	cmd := &cobra.Command{
		Use:   "similar [file]",
		Short: "Find library files similar to a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}
			text, err := readInput(args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("input is empty")
			}

			var resp struct {
				Matches []domain.SimilarFile `json:"matches"`
			}
			err = newAPIClient().postJSON(cmd.Context(), "/v1/similar", map[string]any{
				"owner_id":  ownerID,
				"text":      text,
				"threshold": threshold,
			}, &resp)
			if err != nil {
				return err
			}

			if len(resp.Matches) == 0 {
				fmt.Println("No similar files found.")
				return nil
			}
			for _, m := range resp.Matches {
				fmt.Printf("%.2f  %s  %s\n", m.Similarity, m.ID, m.Title)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum similarity, 0 uses the server default")
	return cmd
}

func libraryCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "library",
		Short: "List the owner's library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}

			if offline {
				items, syncedAt, err := cachedLibrary(cmd.Context())
				if err != nil {
					return err
				}
				printItems(items)
				if !syncedAt.IsZero() {
					fmt.Fprintf(os.Stderr, "cache from %s\n", syncedAt.Format(time.RFC3339))
				}
				return nil
			}

			var resp struct {
				Items     []domain.ContentItem    `json:"items"`
				Structure domain.LibraryStructure `json:"structure"`
			}
			path := "/v1/library?owner_id=" + url.QueryEscape(ownerID)
			if err := newAPIClient().getJSON(cmd.Context(), path, &resp); err != nil {
				return err
			}

			printItems(resp.Items)
			fmt.Printf("\n%d items, organization score %.2f\n", resp.Structure.TotalItems, resp.Structure.OrganizationScore)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "read from the local cache instead of the API")
	return cmd
}

func searchCmd() *cobra.Command {
	var offline bool
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the owner's library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}
			query := args[0]

			if offline {
				items, err := cachedSearch(cmd.Context(), query, limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					fmt.Println("No matching items in the cache. Run 'snipctl sync' to refresh it.")
					return nil
				}
				printItems(items)
				return nil
			}

			var resp struct {
				Items []domain.ContentItem `json:"items"`
				Total int                  `json:"total"`
			}
			path := "/v1/library/search?owner_id=" + url.QueryEscape(ownerID) +
				"&q=" + url.QueryEscape(query) +
				"&limit=" + strconv.Itoa(limit)
			if err := newAPIClient().getJSON(cmd.Context(), path, &resp); err != nil {
				return err
			}

			if len(resp.Items) == 0 {
				fmt.Println("No matching items found.")
				return nil
			}
			printItems(resp.Items)
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "search the local cache instead of the API")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of results")
	return cmd
}

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Analyze and reorganize the owner's library",
	}
	cmd.AddCommand(organizeAnalyzeCmd())
	cmd.AddCommand(organizeRunCmd())
	return cmd
}

func organizeAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Report reorganization plans without executing them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}

			var resp struct {
				Plans []domain.OrganizationPlan `json:"plans"`
			}
			err := newAPIClient().postJSON(cmd.Context(), "/v1/organization/analyze", map[string]any{
				"owner_id": ownerID,
			}, &resp)
			if err != nil {
				return err
			}

			if len(resp.Plans) == 0 {
				fmt.Println("No reorganization needed.")
				return nil
			}
			for _, plan := range resp.Plans {
				fmt.Printf("%s  %s [%s] confidence %.2f\n", plan.ID, plan.Name, plan.Strategy, plan.Confidence)
				for _, action := range plan.Actions {
					fmt.Printf("  - [%s/%s] %s\n", action.Type, action.Priority, action.Description)
				}
			}
			return nil
		},
	}
}

func organizeRunCmd() *cobra.Command {
	var strategy string
	var planFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute an organization pass",
		Long: `Execute an organization pass. Without --plan the server picks a plan by
selection strategy and runs its safe subset; with --plan the given plan file
is executed action by action.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireOwner(); err != nil {
				return err
			}

			var result domain.OrganizationResult
			if planFile != "" {
				raw, err := os.ReadFile(planFile)
				if err != nil {
					return fmt.Errorf("read plan file: %w", err)
				}
				var plan domain.OrganizationPlan
				if err := json.Unmarshal(raw, &plan); err != nil {
					return fmt.Errorf("parse plan file: %w", err)
				}
				err = newAPIClient().postJSON(cmd.Context(), "/v1/organization/execute", map[string]any{
					"owner_id": ownerID,
					"plan":     plan,
				}, &result)
				if err != nil {
					return err
				}
			} else {
				payload := map[string]any{"owner_id": ownerID}
				if strategy != "" {
					payload["strategy"] = strategy
				}
				err := newAPIClient().postJSON(cmd.Context(), "/v1/organization/auto", payload, &result)
				if err != nil {
					return err
				}
			}

			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "selection strategy: aggressive, conservative, or balanced")
	cmd.Flags().StringVar(&planFile, "plan", "", "JSON plan file to execute instead of auto-selection")
	return cmd
}

func printItems(items []domain.ContentItem) {
	for _, item := range items {
		marker := " "
		if item.IsFile() {
			marker = "F"
		}
		line := fmt.Sprintf("%s %-36s %-10s %s", marker, item.ID, item.Language, truncate(item.Title, 50))
		if len(item.Tags) > 0 {
			line += "  [" + strings.Join(item.Tags, ", ") + "]"
		}
		fmt.Println(line)
	}
}

func printResult(result domain.OrganizationResult) {
	status := "failed"
	if result.Success {
		status = "succeeded"
	}
	fmt.Printf("Plan %s %s.\n", result.PlanID, status)

	for _, executed := range result.ExecutedActions {
		fmt.Printf("  [%s] %s: %s\n", executed.Outcome, executed.Action.Type, executed.Action.Description)
		if executed.Details != "" {
			fmt.Printf("        %s\n", executed.Details)
		}
	}

	m := result.Metrics
	fmt.Printf("\nmerges=%d groups=%d archived=%d reordered=%d reclassified=%d splits=%d failed=%d skipped=%d in %dms\n",
		m.MergesPerformed, m.GroupsCreated, m.ItemsArchived, m.ItemsReordered,
		m.ItemsReclassified, m.SplitsPerformed, m.FailedActions, m.SkippedActions, m.DurationMs)

	for _, rec := range result.Recommendations {
		fmt.Printf("hint: %s\n", rec)
	}
}
