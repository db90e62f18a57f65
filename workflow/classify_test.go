package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubModel struct {
	reply string
	err   error
	calls int
}

func (m *stubModel) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func TestParseStructuredReply(t *testing.T) {
	reply := `ACTION: github_get_issue
REPO: my-app
ISSUE_NUMBER: 7
ISSUE_TITLE: null
ISSUE_BODY: NULL
COMMENT: null
BRANCH_NAME: null
SOURCE_BRANCH: null
MESSAGE: null
SOME_FUTURE_KEY: ignored
not a key value line`

	parsed := parseStructuredReply(reply)
	require.Equal(t, ActionGetIssue, parsed.Action)
	require.Equal(t, "my-app", parsed.RepoName)
	require.Equal(t, 7, parsed.IssueNumber)
	require.Empty(t, parsed.IssueTitle)
	require.Empty(t, parsed.IssueBody)
}

func TestParseStructuredReplyDropsBadIssueNumber(t *testing.T) {
	parsed := parseStructuredReply("ACTION: github_get_issue\nISSUE_NUMBER: forty-two")
	require.Equal(t, ActionGetIssue, parsed.Action)
	require.Zero(t, parsed.IssueNumber)
}

func TestParseStructuredReplyUnknownAction(t *testing.T) {
	parsed := parseStructuredReply("ACTION: do_magic\nREPO: x")
	require.Equal(t, ActionUnhandled, parsed.Action)
}

func TestClassifyUsesModelReply(t *testing.T) {
	model := &stubModel{reply: "ACTION: github_list_issues\nREPO: backend"}
	c := NewClassifier(model)

	cls := c.Classify(context.Background(), "anything")
	require.Equal(t, ActionListIssues, cls.Action)
	require.Equal(t, "backend", cls.RepoName)
	require.Equal(t, 1, model.calls)
}

func TestClassifyFallsBackOnModelError(t *testing.T) {
	model := &stubModel{err: errors.New("model unavailable")}
	c := NewClassifier(model)

	cls := c.Classify(context.Background(), "list issues in repo x")
	require.Equal(t, ActionListIssues, cls.Action)
	require.Equal(t, "x", cls.RepoName)
}

func TestClassifyFallsBackOnUnhandledReply(t *testing.T) {
	model := &stubModel{reply: "ACTION: do_magic"}
	c := NewClassifier(model)

	cls := c.Classify(context.Background(), "list issues in repo x")
	require.Equal(t, ActionListIssues, cls.Action)
	require.Equal(t, "x", cls.RepoName)
}

func TestFallbackPriorities(t *testing.T) {
	c := NewClassifier(&stubModel{err: errors.New("down")})
	ctx := context.Background()

	tests := []struct {
		query string
		want  Action
	}{
		{"hello there", ActionGeneralResponse},
		{"what can you do", ActionGeneralResponse},
		{"raise an issue in repo billing", ActionNeedsClarification},
		{"create an issue about login bug in repo gc-adi", ActionCreateIssue},
		{"list issues in repository backend", ActionListIssues},
		{"get details for bug #42 in repo frontend", ActionGetIssue},
		{"comment on issue #42 saying looks good", ActionCommentIssue},
		{"send a message 'release done' to @alice", ActionSlackSendMessage},
		{"Create branch hotfix-1 from main in repo svc", ActionCreateBranch},
		{"what branches exist in repo svc", ActionListBranches},
		{"the quick brown fox", ActionGeneralResponse},
	}
	for _, tt := range tests {
		cls := c.Classify(ctx, tt.query)
		require.Equal(t, tt.want, cls.Action, "query: %s", tt.query)
	}
}

func TestFallbackCreateBranchParameters(t *testing.T) {
	c := NewClassifier(&stubModel{err: errors.New("down")})

	cls := c.Classify(context.Background(), "Create branch hotfix-1 from main in repo svc")
	require.Equal(t, ActionCreateBranch, cls.Action)
	require.Equal(t, "hotfix-1", cls.BranchName)
	require.Equal(t, "main", cls.SourceBranch)
	require.Equal(t, "svc", cls.RepoName)
}

// Create-issue keywords outrank the messaging keywords: a query matching both
// resolves by the fixed priority order, not by scoring.
func TestFallbackTieBreakOrder(t *testing.T) {
	c := NewClassifier(&stubModel{err: errors.New("down")})

	cls := c.Classify(context.Background(), "create an issue and notify the team")
	require.NotEqual(t, ActionSlackSendMessage, cls.Action)
}
