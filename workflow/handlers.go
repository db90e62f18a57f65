package workflow

import (
	"context"
	"fmt"

	"github.com/devcascade/devcascade/github"
	"github.com/devcascade/devcascade/prompts"
	dcslack "github.com/devcascade/devcascade/slack"
)

// paramMissing records a missing-parameter condition: a short error for the
// formatter prefix plus a structured payload naming the missing field. The
// network is never touched on this path.
func paramMissing(st *State, short, detail string) {
	st.ErrorMessage = short
	st.APIResponse = &UpstreamError{Message: detail}
}

// githubUpstreamError converts a GitHub client error into the uniform
// {error, details} shape the formatter branches on.
func githubUpstreamError(err error) *UpstreamError {
	if status := github.StatusOf(err); status != 0 {
		return &UpstreamError{
			Message: fmt.Sprintf("GitHub API Error: %d", status),
			Details: err.Error(),
		}
	}
	return &UpstreamError{Message: "GitHub connection error", Details: err.Error()}
}

func (p *Processor) handleCreateIssue(ctx context.Context, st *State) {
	if st.RepoName == "" {
		paramMissing(st, "Repo name missing", "Repository name not extracted for creating issue.")
		return
	}

	title := st.IssueTitle
	if title == "" {
		title = "Issue from query: " + truncate(st.UserQuery, 50)
	}
	body := st.IssueBody
	if body == "" {
		body = "Details based on user query: " + st.UserQuery
	}

	issue, err := p.github.CreateIssue(ctx, p.owner, st.RepoName, title, body)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = issue
}

func (p *Processor) handleListIssues(ctx context.Context, st *State) {
	if st.RepoName == "" {
		paramMissing(st, "Repo name missing", "Repository name not extracted for listing issues.")
		return
	}

	issues, err := p.github.ListIssues(ctx, p.owner, st.RepoName)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = issues
}

func (p *Processor) handleGetIssue(ctx context.Context, st *State) {
	if st.RepoName == "" || st.IssueNumber <= 0 {
		paramMissing(st, "Repo/Issue num missing", "Repo name or issue number not extracted.")
		return
	}

	issue, err := p.github.GetIssue(ctx, p.owner, st.RepoName, st.IssueNumber)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = issue
}

func (p *Processor) handleCommentIssue(ctx context.Context, st *State) {
	if st.RepoName == "" || st.IssueNumber <= 0 || st.CommentBody == "" {
		paramMissing(st, "Params missing for comment", "Repo, issue num, or comment not extracted.")
		return
	}

	comment, err := p.github.CommentOnIssue(ctx, p.owner, st.RepoName, st.IssueNumber, st.CommentBody)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = comment
}

func (p *Processor) handleListBranches(ctx context.Context, st *State) {
	if st.RepoName == "" {
		paramMissing(st, "Repo name missing", "Repository name not extracted for listing branches.")
		return
	}

	branches, err := p.github.ListBranches(ctx, p.owner, st.RepoName)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = branches
}

func (p *Processor) handleGetBranch(ctx context.Context, st *State) {
	if st.RepoName == "" || st.BranchName == "" {
		paramMissing(st, "Repo/Branch name missing", "Repository name or branch name not extracted.")
		return
	}

	branch, err := p.github.GetBranch(ctx, p.owner, st.RepoName, st.BranchName)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = branch
}

// handleCreateBranch is the one two-phase operation: resolve the source
// branch's head SHA, then create the ref. A failure in the first phase must
// leave the create-ref call unissued.
func (p *Processor) handleCreateBranch(ctx context.Context, st *State) {
	if st.RepoName == "" || st.BranchName == "" {
		paramMissing(st, "Repo/Branch name missing", "Repository name or branch name not extracted.")
		return
	}
	if st.SourceBranch == "" {
		st.SourceBranch = "main"
	}

	sha, err := p.github.ResolveRefSHA(ctx, p.owner, st.RepoName, st.SourceBranch)
	if err != nil {
		st.APIResponse = &UpstreamError{
			Message: fmt.Sprintf("Could not find source branch '%s'", st.SourceBranch),
			Details: err.Error(),
		}
		return
	}

	ref, err := p.github.CreateRef(ctx, p.owner, st.RepoName, st.BranchName, sha)
	if err != nil {
		st.APIResponse = githubUpstreamError(err)
		return
	}
	st.APIResponse = ref
}

func (p *Processor) handleSlackMessage(ctx context.Context, st *State) {
	target := ExtractSlackTarget(st.UserQuery)
	st.SlackUser = target.User
	st.SlackChannel = target.Channel
	if st.SlackMessage == "" {
		st.SlackMessage = target.Message
	}

	// Never fabricate message text: an empty body is a usage error, not an
	// empty post.
	if st.SlackMessage == "" {
		paramMissing(st, "Message text missing", "No message text could be extracted from the request.")
		return
	}

	var (
		result *dcslack.SendResult
		err    error
	)
	if st.SlackUser != "" {
		result, err = p.slack.SendToUser(ctx, st.SlackUser, st.SlackMessage)
	} else {
		channel := st.SlackChannel
		if channel == "" {
			channel = "general"
		}
		result, err = p.slack.SendToChannel(ctx, channel, st.SlackMessage)
	}
	if err != nil {
		st.APIResponse = &UpstreamError{Message: err.Error()}
		return
	}
	st.APIResponse = result
}

func (p *Processor) handleGeneralResponse(ctx context.Context, st *State) {
	prompt := fmt.Sprintf(prompts.MustGet("general"), st.UserQuery)

	reply, err := p.model.Complete(ctx, prompt)
	if err != nil {
		// Conversation still gets a response even with the model down.
		st.APIResponse = &Advisory{
			Message: "Hello! I'm DevCascade, your DevOps automation assistant. How can I help you today?",
			Type:    "general_conversation",
		}
		return
	}
	st.APIResponse = &Advisory{Message: reply, Type: "general_conversation"}
}

func (p *Processor) handleNeedsClarification(_ context.Context, st *State) {
	repo := st.RepoName
	if repo == "" {
		repo = "the repository"
	}
	st.APIResponse = &Advisory{
		Message: fmt.Sprintf("I understand you want to create an issue in %s. What specific problem or feature would you like to report?", repo),
		Type:    "clarification_request",
	}
}

func (p *Processor) handleUnhandled(_ context.Context, st *State) {
	st.APIResponse = &Advisory{
		Message: "I didn't understand your request. Here are some things you can try:",
		Suggestions: []string{
			"Try: 'create an issue in repo my-project'",
			"Try: 'list issues in repository backend'",
			"Try: 'show issue #123 in repo frontend'",
			"Try: 'send a message to the team'",
		},
		Request: st.UserQuery,
	}
}

// truncate shortens s to at most n runes, never splitting a multibyte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
