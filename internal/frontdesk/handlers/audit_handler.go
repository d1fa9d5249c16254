package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gearpool/internal/frontdesk/audit"
	"gearpool/pkg/logger"
)

const defaultAuditLimit = 50

type AuditHandler struct {
	trail *audit.Trail
	log   *logger.Logger
}

func NewAuditHandler(trail *audit.Trail, log *logger.Logger) *AuditHandler {
	return &AuditHandler{
		trail: trail,
		log:   log,
	}
}

type RecentActivityResponse struct {
	Events []audit.Entry `json:"events"`
	Total  int           `json:"total"`
}

// RecentActivity serves the newest booking events seen on the topic.
// With eventing disabled the trail is nil and the endpoint reports so.
func (h *AuditHandler) RecentActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if h.trail == nil {
		h.writeError(w, http.StatusServiceUnavailable, "event intake is disabled")
		return
	}

	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	events := h.trail.Recent(limit)
	if events == nil {
		events = []audit.Entry{}
	}

	h.writeJSON(w, http.StatusOK, RecentActivityResponse{
		Events: events,
		Total:  h.trail.Len(),
	})
}

func (h *AuditHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error("failed to encode response", "error", err)
	}
}

func (h *AuditHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]any{"success": false, "error": message})
}
