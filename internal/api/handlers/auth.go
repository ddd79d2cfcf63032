package handlers

import (
	"errors"
	"net/http"

	"github.com/cyberhud/hud-docs-api/internal/auth/broker"
	"github.com/cyberhud/hud-docs-api/internal/auth/session"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpHandler registers an email/password account and starts a session.
func SignUpHandler(brk *broker.Broker, sessions *session.Codec, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := brk.CreatePasswordIdentity(r.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, broker.ErrEmailTaken) {
				writeError(w, http.StatusBadRequest, broker.ErrEmailTaken.Error())
				return
			}
			log.Error("sign-up failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := sessions.Mint(user)
		if err != nil {
			log.Error("failed to mint session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		sessions.SetCookie(w, token)
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"user":  userResponse(user),
			"token": token,
		})
	}
}

// SignInHandler authenticates an email/password pair. Every failure mode
// returns the same 401 body.
func SignInHandler(brk *broker.Broker, sessions *session.Codec, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signInRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		user, err := brk.ResolvePassword(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, broker.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, broker.ErrInvalidCredentials.Error())
				return
			}
			log.Error("sign-in failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		token, err := sessions.Mint(user)
		if err != nil {
			log.Error("failed to mint session", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		sessions.SetCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":  userResponse(user),
			"token": token,
		})
	}
}

// SignOutHandler clears the session cookie. Tokens are stateless, so there
// is nothing to revoke server-side.
func SignOutHandler(sessions *session.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.ClearCookie(w)
		writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
	}
}
