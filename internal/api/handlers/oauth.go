package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cyberhud/hud-docs-api/internal/auth/broker"
	"github.com/cyberhud/hud-docs-api/internal/auth/provider"
	"github.com/cyberhud/hud-docs-api/internal/auth/session"
	"github.com/cyberhud/hud-docs-api/internal/auth/state"
	"github.com/cyberhud/hud-docs-api/internal/logging"
)

// OAuthProvider is the slice of provider.Provider the OAuth handlers need.
type OAuthProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Identity(ctx context.Context, code string) (provider.Profile, error)
}

// OAuthLoginHandler issues a CSRF state and redirects to the provider's
// consent page.
func OAuthLoginHandler(p OAuthProvider, states *state.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, p.AuthCodeURL(states.Issue()), http.StatusTemporaryRedirect)
	}
}

// OAuthCallbackHandler completes the login: verify the returned state,
// exchange the code, resolve the profile to a user, mint a session and
// redirect back to the frontend.
func OAuthCallbackHandler(p OAuthProvider, states *state.Codec, brk *broker.Broker,
	sessions *session.Codec, frontendURL string, log *logging.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if errCode := query.Get("error"); errCode != "" {
			// The user denied consent or the provider failed upstream.
			log.Warn("oauth callback carried an error", "provider", p.Name(), "code", errCode)
			http.Redirect(w, r, frontendURL+"/?auth_error=access_denied", http.StatusTemporaryRedirect)
			return
		}

		if !states.Verify(query.Get("state")) {
			writeError(w, http.StatusBadRequest, "invalid or expired state")
			return
		}
		code := query.Get("code")
		if code == "" {
			writeError(w, http.StatusBadRequest, "missing authorization code")
			return
		}

		profile, err := p.Identity(r.Context(), code)
		if err != nil {
			log.Error("oauth identity fetch failed", "provider", p.Name(), "error", err)
			writeError(w, http.StatusBadGateway, "provider exchange failed")
			return
		}
		if !profile.Verified || profile.Email == "" {
			writeError(w, http.StatusUnauthorized, broker.ErrMissingVerifiedEmail.Error())
			return
		}

		user, err := brk.ResolveOAuth(r.Context(), p.Name(), profile.ID, profile.Email, profile.Name)
		if err != nil {
			if errors.Is(err, broker.ErrMissingVerifiedEmail) {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			log.Error("identity resolution failed", "provider", p.Name(), "error", err)
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
		http.Redirect(w, r, frontendURL, http.StatusTemporaryRedirect)
	}
}
