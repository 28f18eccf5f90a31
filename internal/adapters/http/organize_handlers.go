package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/snipvault/snipvault/internal/core/domain"
)

func (rt *Router) analyzeOrganization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		OwnerID string `json:"owner_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	plans, err := rt.organizer.AnalyzeOrganization(r.Context(), resolveOwner(req.OwnerID, r))
	if err != nil {
		writeError(w, err)
		return
	}
	if rt.metrics != nil {
		for _, plan := range plans {
			rt.metrics.RecordPlanGenerated("api", string(plan.Strategy), plan.Confidence)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (rt *Router) autoOrganize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	// The strategy is optional; an absent one runs the balanced selection.
	var req struct {
		OwnerID  string `json:"owner_id"`
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	strategy := domain.SelectionStrategy(strings.TrimSpace(req.Strategy))
	if strategy == "" {
		strategy = domain.SelectBalanced
	}

	result, err := rt.organizer.AutoOrganize(r.Context(), resolveOwner(req.OwnerID, r), strategy)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.recordOrganizeResult(result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) executePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		OwnerID string                  `json:"owner_id"`
		Plan    domain.OrganizationPlan `json:"plan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	result, err := rt.organizer.ExecutePlan(r.Context(), resolveOwner(req.OwnerID, r), req.Plan)
	if err != nil {
		writeError(w, err)
		return
	}
	rt.recordOrganizeResult(result)
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) recordOrganizeResult(result *domain.OrganizationResult) {
	if rt.metrics == nil || result == nil {
		return
	}
	rt.metrics.RecordOrganizeRun("api", result.Success)
	for _, executed := range result.ExecutedActions {
		rt.metrics.RecordActionOutcome("api", string(executed.Action.Type), string(executed.Outcome))
	}
}
