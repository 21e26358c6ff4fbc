package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nikhilbhutani/swasthlog/internal/archive"
)

type HealthHandler struct {
	arc *archive.Archive
}

func NewHealthHandler(arc *archive.Archive) *HealthHandler {
	return &HealthHandler{arc: arc}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz checks that the archive directory is still writable.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	if _, err := h.arc.Count(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
