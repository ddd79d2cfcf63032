// Package middleware provides the HTTP middleware shared by the API routes.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/cyberhud/hud-docs-api/internal/auth/session"
	"github.com/cyberhud/hud-docs-api/internal/db/models"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

type contextKey string

const userKey contextKey = "currentUser"

// UserFrom returns the authenticated user stored by SessionAuth.
func UserFrom(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok
}

// SessionAuth validates the session token (cookie first, then bearer header)
// and loads the user record into the request context. Any failure yields an
// opaque 401.
func SessionAuth(codec *session.Codec, database *gorm.DB) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			credential := codec.ExtractCredential(r)
			if credential == "" {
				unauthorized(w)
				return
			}

			sess, ok := codec.Validate(credential)
			if !ok {
				unauthorized(w)
				return
			}

			var user models.User
			err := database.WithContext(r.Context()).
				Where("id = ?", sess.UserID).
				First(&user).Error
			if err != nil {
				// A deleted user with a live token gets the same answer as
				// a forged token.
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, &user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "not authenticated"})
}

// RequestID attaches a request ID to the context and response. An inbound
// X-Request-ID is honored so upstream proxies can correlate logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = logging.GenerateRequestID()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logging.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
