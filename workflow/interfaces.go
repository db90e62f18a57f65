package workflow

import (
	"context"

	gh "github.com/google/go-github/v60/github"

	dcslack "github.com/devcascade/devcascade/slack"
)

// GitHubClient is the slice of the GitHub API the handlers dispatch against.
type GitHubClient interface {
	ListIssues(ctx context.Context, owner, repo string) ([]*gh.Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error)
	CreateIssue(ctx context.Context, owner, repo, title, body string) (*gh.Issue, error)
	CommentOnIssue(ctx context.Context, owner, repo string, number int, body string) (*gh.IssueComment, error)
	ListBranches(ctx context.Context, owner, repo string) ([]*gh.Branch, error)
	GetBranch(ctx context.Context, owner, repo, branch string) (*gh.Branch, error)
	ResolveRefSHA(ctx context.Context, owner, repo, branch string) (string, error)
	CreateRef(ctx context.Context, owner, repo, branch, sha string) (*gh.Reference, error)
}

// SlackClient delivers a message to a named user or channel.
type SlackClient interface {
	SendToUser(ctx context.Context, user, text string) (*dcslack.SendResult, error)
	SendToChannel(ctx context.Context, channel, text string) (*dcslack.SendResult, error)
}
