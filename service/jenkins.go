package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// JenkinsValidator checks a username + API token pair by fetching the user's
// own record. The Jenkins version comes back on the X-Jenkins header.
type JenkinsValidator struct{}

type jenkinsUser struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Property []struct {
		Address string `json:"address"`
	} `json:"property"`
}

func (v *JenkinsValidator) Validate(ctx context.Context, serviceURL, apiToken, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required for Jenkins validation")
	}

	endpoint := fmt.Sprintf("%s/user/%s/api/json", strings.TrimRight(serviceURL, "/"), username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(username + ":" + apiToken))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Jenkins API connection error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("invalid Jenkins credentials")
	case http.StatusForbidden:
		return nil, fmt.Errorf("Jenkins access denied, check permissions")
	case http.StatusNotFound:
		return nil, fmt.Errorf("Jenkins user %s not found", username)
	default:
		return nil, fmt.Errorf("Jenkins API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var user jenkinsUser
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	var email string
	for _, prop := range user.Property {
		if prop.Address != "" {
			email = prop.Address
			break
		}
	}

	return &Profile{
		Username:    user.ID,
		Email:       email,
		DisplayName: user.FullName,
		ServiceInfo: map[string]any{
			"version": resp.Header.Get("X-Jenkins"),
		},
	}, nil
}
