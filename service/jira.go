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

// JiraValidator checks an email + API token pair against the Jira Cloud REST
// API. The username argument carries the account email for Basic Auth.
type JiraValidator struct{}

type jiraMyself struct {
	AccountID    string `json:"accountId"`
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
	AvatarURLs   struct {
		Large string `json:"48x48"`
	} `json:"avatarUrls"`
	TimeZone string `json:"timeZone"`
}

func (v *JiraValidator) Validate(ctx context.Context, serviceURL, apiToken, username string) (*Profile, error) {
	if username == "" {
		return nil, fmt.Errorf("email is required for Jira validation")
	}

	endpoint := strings.TrimRight(serviceURL, "/") + "/rest/api/3/myself"
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
		return nil, fmt.Errorf("Jira API connection error: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, fmt.Errorf("invalid Jira credentials")
	default:
		return nil, fmt.Errorf("Jira API returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var me jiraMyself
	if err := json.Unmarshal(body, &me); err != nil {
		return nil, fmt.Errorf("decode myself response: %w", err)
	}

	return &Profile{
		Username:    username,
		Email:       me.EmailAddress,
		DisplayName: me.DisplayName,
		AvatarURL:   me.AvatarURLs.Large,
		ServiceInfo: map[string]any{
			"account_id": me.AccountID,
			"timezone":   me.TimeZone,
		},
	}, nil
}
