package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	githubOAuth "golang.org/x/oauth2/github"
)

const githubAPIBase = "https://api.github.com"

// GitHub builds the GitHub OAuth provider.
func GitHub(clientID, clientSecret, redirectURL string) *Provider {
	return &Provider{
		name: "github",
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     githubOAuth.Endpoint,
		},
		apiBase: githubAPIBase,
		fetch:   fetchGitHubProfile,
		timeout: 15 * time.Second,
	}
}

func fetchGitHubProfile(ctx context.Context, client *http.Client, apiBase string) (Profile, error) {
	var user struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := getJSON(ctx, client, apiBase+"/user", &user); err != nil {
		return Profile{}, err
	}

	profile := Profile{
		ID:    strconv.FormatInt(user.ID, 10),
		Email: user.Email,
		Name:  user.Name,
	}
	if profile.Name == "" {
		profile.Name = user.Login
	}

	// The public profile email is often empty; the emails endpoint carries
	// the verified flag either way.
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, apiBase+"/user/emails", &emails); err != nil {
		return Profile{}, err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			profile.Email = e.Email
			profile.Verified = true
			break
		}
	}
	if !profile.Verified {
		for _, e := range emails {
			if e.Verified {
				profile.Email = e.Email
				profile.Verified = true
				break
			}
		}
	}
	return profile, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
