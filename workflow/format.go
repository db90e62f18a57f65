package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v60/github"

	dcslack "github.com/devcascade/devcascade/slack"
)

// Format renders the terminal state into the single user-facing string. It is
// a pure function of the state: formatting the same state twice yields
// byte-identical output.
func Format(st *State) string {
	// Pre-API-call errors win over everything else.
	if st.ErrorMessage != "" {
		return "Error processing your request: " + st.ErrorMessage
	}

	if st.APIResponse == nil {
		return "No API response was received."
	}

	if ue, ok := st.APIResponse.(*UpstreamError); ok {
		details := ue.Details
		if details == "" {
			details = "N/A"
		}
		return fmt.Sprintf("API Error (%s): %s. Details: %s", st.Action, ue.Message, details)
	}

	switch st.Action {
	case ActionCreateIssue:
		if issue, ok := st.APIResponse.(*gh.Issue); ok && issue.GetHTMLURL() != "" {
			return "✅ Successfully created GitHub issue: " + issue.GetHTMLURL()
		}
		return "❌ GitHub issue creation seems to have failed or returned an unexpected response."

	case ActionListIssues:
		issues, ok := st.APIResponse.([]*gh.Issue)
		if !ok {
			return "❌ Could not retrieve or parse the list of GitHub issues."
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "📋 Found %d issues in repo '%s':\n", len(issues), st.RepoName)
		for i, issue := range issues {
			if i == 3 {
				break
			}
			fmt.Fprintf(&sb, "#%d - %s\n", issue.GetNumber(), issue.GetTitle())
		}
		if len(issues) > 3 {
			fmt.Fprintf(&sb, "... and %d more.", len(issues)-3)
		}
		return strings.TrimRight(sb.String(), "\n")

	case ActionGetIssue:
		if issue, ok := st.APIResponse.(*gh.Issue); ok && issue.GetHTMLURL() != "" && issue.GetTitle() != "" {
			return fmt.Sprintf("🔍 Details for issue #%d in repo '%s':\nTitle: %s\nURL: %s",
				issue.GetNumber(), st.RepoName, issue.GetTitle(), issue.GetHTMLURL())
		}
		return "❌ Could not retrieve details for the GitHub issue."

	case ActionCommentIssue:
		if comment, ok := st.APIResponse.(*gh.IssueComment); ok && comment.GetHTMLURL() != "" {
			return "💬 Successfully commented on GitHub issue: " + comment.GetHTMLURL()
		}
		return "❌ GitHub issue comment seems to have failed or returned an unexpected response."

	case ActionListBranches:
		branches, ok := st.APIResponse.([]*gh.Branch)
		if !ok {
			return "❌ Could not retrieve or parse the list of GitHub branches."
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "🌿 Found %d branches in repo '%s':\n", len(branches), st.RepoName)
		for i, branch := range branches {
			if i == 10 {
				break
			}
			fmt.Fprintf(&sb, "• %s", branch.GetName())
			if branch.GetProtected() {
				sb.WriteString(" (protected)")
			}
			sb.WriteString("\n")
		}
		if len(branches) > 10 {
			fmt.Fprintf(&sb, "... and %d more.", len(branches)-10)
		}
		return strings.TrimRight(sb.String(), "\n")

	case ActionGetBranch:
		if branch, ok := st.APIResponse.(*gh.Branch); ok && branch.GetName() != "" {
			sha := branch.GetCommit().GetSHA()
			if len(sha) > 8 {
				sha = sha[:8]
			}
			if sha == "" {
				sha = "Unknown"
			}
			return fmt.Sprintf("🌿 Details for branch '%s' in repo '%s':\nLatest commit: %s\nProtected: %t",
				branch.GetName(), st.RepoName, sha, branch.GetProtected())
		}
		return "❌ Could not retrieve details for the GitHub branch."

	case ActionCreateBranch:
		if ref, ok := st.APIResponse.(*gh.Reference); ok && ref.GetRef() != "" {
			branch := strings.TrimPrefix(ref.GetRef(), "refs/heads/")
			return fmt.Sprintf("✅ Successfully created branch '%s' in repo '%s' from '%s'",
				branch, st.RepoName, st.SourceBranch)
		}
		return "❌ GitHub branch creation seems to have failed or returned an unexpected response."

	case ActionSlackSendMessage:
		if result, ok := st.APIResponse.(*dcslack.SendResult); ok {
			return fmt.Sprintf("💬 Successfully sent Slack message to channel %s (Timestamp: %s).",
				result.Channel, result.Timestamp)
		}
		return "❌ Failed to send Slack message."

	case ActionGeneralResponse:
		if adv, ok := st.APIResponse.(*Advisory); ok && adv.Message != "" {
			return adv.Message
		}
		return "Hello! How can I help you today?"

	case ActionNeedsClarification:
		if adv, ok := st.APIResponse.(*Advisory); ok && adv.Message != "" {
			return adv.Message
		}
		return "Could you tell me more about what you'd like to do?"

	case ActionUnhandled:
		if adv, ok := st.APIResponse.(*Advisory); ok && len(adv.Suggestions) > 0 {
			var sb strings.Builder
			fmt.Fprintf(&sb, "🤔 %s\n\n", adv.Message)
			for _, s := range adv.Suggestions {
				fmt.Fprintf(&sb, "• %s\n", s)
			}
			fmt.Fprintf(&sb, "\nYour request was: '%s'", adv.Request)
			return sb.String()
		}
		return "🤔 I couldn't understand or handle your request. Please try being more specific."
	}

	// The only place a non-curated message reaches the user.
	raw, err := json.MarshalIndent(st.APIResponse, "", "  ")
	if err != nil {
		raw = []byte(fmt.Sprintf("%v", st.APIResponse))
	}
	return fmt.Sprintf("Action '%s' completed. Raw response: %s", st.Action, raw)
}
