// Package api provides HTTP API handlers for the Etherial backend.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ayusman/etherial/internal/store"
)

// HistoryHandler serves the detection event log.
type HistoryHandler struct {
	events *store.EventRepository
}

// NewHistoryHandler creates a new HistoryHandler over the given repository.
func NewHistoryHandler(events *store.EventRepository) *HistoryHandler {
	return &HistoryHandler{events: events}
}

type eventResponse struct {
	ID         string  `json:"id"`
	SessionID  string  `json:"session_id"`
	Kind       string  `json:"kind"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	CreatedAt  string  `json:"created_at"`
}

type historyResponse struct {
	Events []eventResponse `json:"events"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP handles GET /api/history?limit=N.
func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.events.Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	response := historyResponse{Events: make([]eventResponse, len(events))}
	for i, e := range events {
		response.Events[i] = eventResponse{
			ID:         e.ID,
			SessionID:  e.SessionID,
			Kind:       string(e.Kind),
			Label:      e.Label,
			Confidence: e.Confidence,
			CreatedAt:  e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
