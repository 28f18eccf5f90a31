package httpadapter

import (
	"net/http"
	"strconv"
)

func (rt *Router) listLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	items, structure, err := rt.library.ListLibrary(r.Context(), ownerFromRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"structure": structure,
	})
}

func (rt *Router) searchLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	// A missing limit becomes zero and the use case applies its default.
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := rt.library.SearchLibrary(r.Context(), ownerFromRequest(r), r.URL.Query().Get("q"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}
