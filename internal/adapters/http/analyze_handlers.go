package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
)

func (rt *Router) classifyText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	result := rt.analyzer.Classify(req.Text)
	if rt.metrics != nil {
		rt.metrics.RecordClassification("api", result.Language.Language)
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) proposeName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		OwnerID  string `json:"owner_id"`
		Text     string `json:"text"`
		Language string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	name, candidates := rt.analyzer.ProposeName(r.Context(), resolveOwner(req.OwnerID, r), req.Text, req.Language)
	writeJSON(w, http.StatusOK, map[string]any{
		"name":       name,
		"candidates": candidates,
	})
}

func (rt *Router) findSimilar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		OwnerID   string  `json:"owner_id"`
		Text      string  `json:"text"`
		Threshold float64 `json:"threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	matches := rt.analyzer.FindSimilar(r.Context(), resolveOwner(req.OwnerID, r), req.Text, req.Threshold)
	if rt.metrics != nil {
		rt.metrics.RecordSimilarityLookup("api", "similar", len(matches))
	}
	writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
