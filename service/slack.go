package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// SlackValidator checks a bot token via auth.test. The serviceURL is normally
// empty (Slack has a single API host); tests point it at a mock server.
type SlackValidator struct{}

func (v *SlackValidator) Validate(ctx context.Context, serviceURL, apiToken, _ string) (*Profile, error) {
	var opts []slack.Option
	if serviceURL != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(serviceURL, "/")+"/"))
	}
	api := slack.New(apiToken, opts...)

	resp, err := api.AuthTestContext(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "invalid_auth") {
			return nil, fmt.Errorf("invalid Slack token")
		}
		return nil, fmt.Errorf("Slack validation failed: %w", err)
	}

	return &Profile{
		Username: resp.User,
		ServiceInfo: map[string]any{
			"user_id":   resp.UserID,
			"team_id":   resp.TeamID,
			"team_name": resp.Team,
			"url":       resp.URL,
			"bot_id":    resp.BotID,
		},
	}, nil
}
