package github

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

// Client wraps the GitHub REST API for the issue and branch operations the
// workflow handlers dispatch.
type Client struct {
	api *gh.Client
}

func NewClient(token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	return &Client{api: gh.NewClient(httpClient)}
}

// NewClientWithBaseURL points the client at an alternate API root. Used by
// tests to target a mock server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %s: %w", baseURL, err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	api := gh.NewClient(httpClient)
	api.BaseURL = u
	return &Client{api: api}, nil
}

func (c *Client) ListIssues(ctx context.Context, owner, repo string) ([]*gh.Issue, error) {
	issues, _, err := c.api.Issues.ListByRepo(ctx, owner, repo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for %s/%s: %w", owner, repo, err)
	}
	return issues, nil
}

func (c *Client) GetIssue(ctx context.Context, owner, repo string, number int) (*gh.Issue, error) {
	issue, _, err := c.api.Issues.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get issue #%d in %s/%s: %w", number, owner, repo, err)
	}
	return issue, nil
}

func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*gh.Issue, error) {
	req := &gh.IssueRequest{
		Title: gh.String(title),
		Body:  gh.String(body),
	}
	issue, _, err := c.api.Issues.Create(ctx, owner, repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue in %s/%s: %w", owner, repo, err)
	}
	return issue, nil
}

func (c *Client) CommentOnIssue(ctx context.Context, owner, repo string, number int, body string) (*gh.IssueComment, error) {
	comment, _, err := c.api.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{
		Body: gh.String(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to comment on issue #%d in %s/%s: %w", number, owner, repo, err)
	}
	return comment, nil
}

func (c *Client) ListBranches(ctx context.Context, owner, repo string) ([]*gh.Branch, error) {
	branches, _, err := c.api.Repositories.ListBranches(ctx, owner, repo, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list branches for %s/%s: %w", owner, repo, err)
	}
	return branches, nil
}

func (c *Client) GetBranch(ctx context.Context, owner, repo, branch string) (*gh.Branch, error) {
	b, _, err := c.api.Repositories.GetBranch(ctx, owner, repo, branch, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch %s in %s/%s: %w", branch, owner, repo, err)
	}
	return b, nil
}

// ResolveRefSHA returns the head commit SHA of the given branch. This is the
// first phase of a branch create; the second phase (CreateRef) is what
// actually creates anything, so a failure here leaves nothing behind.
func (c *Client) ResolveRefSHA(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, _, err := c.api.Git.GetRef(ctx, owner, repo, "refs/heads/"+branch)
	if err != nil {
		return "", fmt.Errorf("failed to get ref for %s: %w", branch, err)
	}
	return ref.Object.GetSHA(), nil
}

// CreateRef creates refs/heads/<branch> pointing at the given commit SHA.
func (c *Client) CreateRef(ctx context.Context, owner, repo, branch, sha string) (*gh.Reference, error) {
	newRef := &gh.Reference{
		Ref:    gh.String("refs/heads/" + branch),
		Object: &gh.GitObject{SHA: gh.String(sha)},
	}
	ref, _, err := c.api.Git.CreateRef(ctx, owner, repo, newRef)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch %s: %w", branch, err)
	}
	return ref, nil
}

// StatusOf extracts the HTTP status code from a GitHub API error, or 0 when
// the error was not an API response (timeout, connection failure).
func StatusOf(err error) int {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}
