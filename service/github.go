package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v60/github"
	"golang.org/x/oauth2"
)

// GitHubValidator checks a personal access token by fetching the
// authenticated user and reading the granted scopes off the response headers.
type GitHubValidator struct{}

func (v *GitHubValidator) Validate(ctx context.Context, serviceURL, apiToken, _ string) (*Profile, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiToken})
	api := gh.NewClient(oauth2.NewClient(ctx, ts))

	if serviceURL != "" && serviceURL != "https://api.github.com" {
		u, err := url.Parse(strings.TrimRight(serviceURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub service URL %s: %w", serviceURL, err)
		}
		api.BaseURL = u
	}

	user, resp, err := api.Users.Get(ctx, "")
	if err != nil {
		var ghErr *gh.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("invalid GitHub token")
		}
		return nil, fmt.Errorf("GitHub validation failed: %w", err)
	}

	var scopes []string
	for _, s := range strings.Split(resp.Header.Get("X-OAuth-Scopes"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}

	return &Profile{
		Username:    user.GetLogin(),
		Email:       user.GetEmail(),
		DisplayName: user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Scopes:      scopes,
		ServiceInfo: map[string]any{
			"user_id":      user.GetID(),
			"company":      user.GetCompany(),
			"public_repos": user.GetPublicRepos(),
			"followers":    user.GetFollowers(),
		},
	}, nil
}
