package handlers

import (
	"context"
	"net/http"

	"github.com/cyberhud/hud-docs-api/internal/rag"
)

// DroneChatter answers a query with optional conversation history.
type DroneChatter interface {
	Chat(ctx context.Context, query string, history []rag.Message) (string, []string)
}

type droneChatRequest struct {
	Query   string        `json:"query"`
	History []rag.Message `json:"history"`
}

// DroneChatHandler serves the support-drone chat. Failures inside the drone
// surface as diagnostic answers, so this handler only ever fails on bad
// input.
func DroneChatHandler(drone DroneChatter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req droneChatRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Query == "" {
			writeError(w, http.StatusBadRequest, "query is required")
			return
		}

		answer, sources := drone.Chat(r.Context(), req.Query, req.History)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"response": answer,
			"sources":  sources,
		})
	}
}
