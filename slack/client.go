package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// Client wraps the Slack Web API for message delivery. Targets arrive as
// human names (a username or a channel name), so sending always starts with
// a resolution step against the workspace directory.
type Client struct {
	api *slack.Client
}

// NewClient creates a Slack client for the given bot token. Extra options are
// passed through to the underlying API client (tests use slack.OptionAPIURL).
func NewClient(botToken string, opts ...slack.Option) *Client {
	return &Client{api: slack.New(botToken, opts...)}
}

// SendResult is the outcome of a successful message post.
type SendResult struct {
	Channel   string
	Timestamp string
}

// SendToUser resolves the named user to a direct-message conversation and
// posts the text there. Matching is against username, display name, and real
// name; on a collision the first workspace member wins.
func (c *Client) SendToUser(ctx context.Context, user, text string) (*SendResult, error) {
	members, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, normalizeError("could not list users", err)
	}

	var userID string
	for _, m := range members {
		if m.Name == user || m.Profile.DisplayName == user || m.RealName == user {
			userID = m.ID
			break
		}
	}
	if userID == "" {
		return nil, fmt.Errorf("user '%s' not found in the workspace", user)
	}

	dm, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users:    []string{userID},
		ReturnIM: true,
	})
	if err != nil {
		return nil, normalizeError("could not open DM", err)
	}

	return c.post(ctx, dm.ID, text)
}

// SendToChannel resolves the named channel (leading '#' optional) to an ID
// and posts the text there. Public channels are tried first, then private
// ones; a value that already looks like a channel ID is used as-is.
func (c *Client) SendToChannel(ctx context.Context, channel, text string) (*SendResult, error) {
	name := strings.TrimPrefix(channel, "#")

	channelID, err := c.resolveChannelID(ctx, name, "public_channel")
	if err != nil {
		return nil, err
	}
	if channelID == "" {
		channelID, err = c.resolveChannelID(ctx, name, "private_channel")
		if err != nil {
			return nil, err
		}
	}
	if channelID == "" {
		// Slack channel IDs start with C; accept one passed directly.
		if strings.HasPrefix(name, "C") && len(name) >= 9 {
			channelID = name
		} else {
			return nil, fmt.Errorf("channel '%s' not found", name)
		}
	}

	return c.post(ctx, channelID, text)
}

func (c *Client) resolveChannelID(ctx context.Context, name, channelType string) (string, error) {
	channels, _, err := c.api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:           []string{channelType},
		ExcludeArchived: true,
		Limit:           1000,
	})
	if err != nil {
		return "", normalizeError("could not list channels", err)
	}
	for _, ch := range channels {
		if ch.Name == name {
			return ch.ID, nil
		}
	}
	return "", nil
}

func (c *Client) post(ctx context.Context, channelID, text string) (*SendResult, error) {
	channel, ts, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return nil, normalizeError("could not send message", err)
	}
	return &SendResult{Channel: channel, Timestamp: ts}, nil
}

// normalizeError rewrites the Slack API's terse error codes into the
// descriptive strings surfaced to the user.
func normalizeError(op string, err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid_auth"):
		return fmt.Errorf("invalid Slack token")
	case strings.Contains(msg, "not_in_channel"):
		return fmt.Errorf("bot is not a member of the channel")
	case strings.Contains(msg, "channel_not_found"):
		return fmt.Errorf("channel not found or bot not added to channel")
	}
	return fmt.Errorf("%s: %w", op, err)
}
