package service

import (
	"context"
	"fmt"
)

// Type identifies a supported third-party service.
type Type string

const (
	TypeGitHub  Type = "github"
	TypeSlack   Type = "slack"
	TypeJira    Type = "jira"
	TypeJenkins Type = "jenkins"
)

// ParseType validates a raw service-type string.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeGitHub, TypeSlack, TypeJira, TypeJenkins:
		return Type(s), nil
	}
	return "", fmt.Errorf("unsupported service type: %q", s)
}

// Profile is the account information returned by a successful validation.
type Profile struct {
	Username    string
	Email       string
	DisplayName string
	AvatarURL   string
	Scopes      []string
	ServiceInfo map[string]any
}

// Validator checks a credential against its service and returns the account
// profile it belongs to. One implementation exists per service Type.
type Validator interface {
	Validate(ctx context.Context, serviceURL, apiToken, username string) (*Profile, error)
}

// ValidatorFor selects the validator variant for the given service type.
func ValidatorFor(t Type) (Validator, error) {
	switch t {
	case TypeGitHub:
		return &GitHubValidator{}, nil
	case TypeSlack:
		return &SlackValidator{}, nil
	case TypeJira:
		return &JiraValidator{}, nil
	case TypeJenkins:
		return &JenkinsValidator{}, nil
	}
	return nil, fmt.Errorf("unsupported service type: %q", t)
}
