// Package handlers implements the HTTP API. Every handler is a constructor
// taking its collaborators and returning an http.HandlerFunc.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cyberhud/hud-docs-api/internal/db/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON parses the request body into v, rejecting unknown fields so
// client typos surface as 400s instead of silently dropped settings.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// userResponse is the public shape of a user record. The password hash and
// raw provider IDs never leave the server.
func userResponse(user *models.User) map[string]interface{} {
	return map[string]interface{}{
		"id":             user.ID,
		"tenant_id":      user.TenantID,
		"email":          user.Email,
		"email_verified": user.EmailVerified,
		"name":           user.DisplayName,
		"providers":      linkedProviders(user),
		"created_at":     user.CreatedAt,
	}
}

func linkedProviders(user *models.User) []string {
	providers := []string{}
	if user.HashedPassword != "" {
		providers = append(providers, "credential")
	}
	if user.GitHubID != "" {
		providers = append(providers, "github")
	}
	if user.GoogleID != "" {
		providers = append(providers, "google")
	}
	return providers
}
