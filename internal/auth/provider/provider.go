// Package provider wraps the OAuth providers behind a uniform interface:
// redirect URL construction, code-for-token exchange and profile fetch,
// reduced to an {id, email, verified, name} shape.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Profile is the provider-agnostic identity a login resolves to.
type Profile struct {
	ID       string
	Email    string
	Verified bool
	Name     string
}

// fetchFunc retrieves the profile using an authorized HTTP client.
type fetchFunc func(ctx context.Context, client *http.Client, apiBase string) (Profile, error)

// Provider is a configured OAuth provider.
type Provider struct {
	name    string
	config  *oauth2.Config
	apiBase string
	fetch   fetchFunc
	timeout time.Duration
}

// Name returns the provider's identifier ("github" or "google").
func (p *Provider) Name() string {
	return p.name
}

// AuthCodeURL builds the consent page redirect carrying the CSRF state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Identity exchanges the authorization code and fetches the user profile.
// Both upstream calls run under a bounded timeout derived from ctx.
func (p *Provider) Identity(ctx context.Context, code string) (Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("%s token exchange: %w", p.name, err)
	}

	client := p.config.Client(ctx, token)
	profile, err := p.fetch(ctx, client, p.apiBase)
	if err != nil {
		return Profile{}, fmt.Errorf("%s profile fetch: %w", p.name, err)
	}
	return profile, nil
}
