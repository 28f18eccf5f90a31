package httpadapter

import (
	"net/http"
	"strings"
)

func (rt *Router) uploadCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'image' is required"})
		return
	}
	defer file.Close()

	ownerID := ownerFromRequest(r)
	if ownerID == "" {
		ownerID = strings.TrimSpace(r.FormValue("owner_id"))
	}

	capture, err := rt.ingest.Upload(
		r.Context(),
		ownerID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, capture)
}

func (rt *Router) getCaptureByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/captures/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "capture id is required"})
		return
	}

	capture, err := rt.captures.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capture)
}
