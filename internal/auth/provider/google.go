package provider

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	googleOAuth "golang.org/x/oauth2/google"
)

const googleAPIBase = "https://www.googleapis.com"

// Google builds the Google OAuth provider.
func Google(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: "google",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: googleOAuth.Endpoint,
		},
		apiBase: googleAPIBase,
		fetch:   fetchGoogleProfile,
		timeout: 15 * time.Second,
	}
}

func fetchGoogleProfile(ctx context.Context, client *http.Client, apiBase string) (Profile, error) {
	var userInfo struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := getJSON(ctx, client, apiBase+"/oauth2/v2/userinfo", &userInfo); err != nil {
		return Profile{}, err
	}
	return Profile{
		ID:       userInfo.ID,
		Email:    userInfo.Email,
		Verified: userInfo.VerifiedEmail,
		Name:     userInfo.Name,
	}, nil
}
