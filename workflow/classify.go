package workflow

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/devcascade/devcascade/prompts"
)

// ModelClient is the single "generate content from prompt" capability the
// classifier needs from a language model.
type ModelClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classification is the partial state update produced for one query: the
// intent plus whatever parameters could be determined.
type Classification struct {
	Action       Action
	RepoName     string
	IssueNumber  int
	CommentBody  string
	IssueTitle   string
	IssueBody    string
	BranchName   string
	SourceBranch string
	SlackMessage string
}

// Classifier turns raw text into a Classification, preferring the model and
// falling back to keyword heuristics when the model is unavailable or
// inconclusive.
type Classifier struct {
	model ModelClient
}

func NewClassifier(model ModelClient) *Classifier {
	return &Classifier{model: model}
}

func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	prompt := fmt.Sprintf(prompts.MustGet("classify"), query)

	reply, err := c.model.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[classify] model call failed, using heuristic fallback: %v", err)
		return c.fallback(query)
	}

	parsed := parseStructuredReply(reply)
	if parsed.Action == ActionUnhandled {
		return c.fallback(query)
	}
	return parsed
}

// parseStructuredReply reads the model's line-oriented KEY: value grammar.
// The output is untrusted text: unknown keys are ignored, the literal "null"
// (any case) means absent, and a non-numeric ISSUE_NUMBER is silently
// dropped.
func parseStructuredReply(reply string) Classification {
	parsed := Classification{Action: ActionUnhandled}

	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if strings.EqualFold(value, "null") {
			continue
		}

		switch key {
		case "ACTION":
			parsed.Action = ParseAction(value)
		case "REPO":
			parsed.RepoName = value
		case "ISSUE_NUMBER":
			if n, err := strconv.Atoi(value); err == nil {
				parsed.IssueNumber = n
			}
		case "ISSUE_TITLE":
			parsed.IssueTitle = value
		case "ISSUE_BODY":
			parsed.IssueBody = value
		case "COMMENT":
			parsed.CommentBody = value
		case "BRANCH_NAME":
			parsed.BranchName = value
		case "SOURCE_BRANCH":
			parsed.SourceBranch = value
		case "MESSAGE":
			parsed.SlackMessage = value
		}
	}

	return parsed
}

// Keyword lists for the heuristic fallback. They are checked in a fixed
// priority order; the first matching branch wins.
var (
	greetingWords = []string{"hello", "hi", "hey", "howdy", "greetings", "good morning", "good afternoon", "good evening"}
	questionWords = []string{"how are you", "what can you do", "help", "what is", "tell me about", "explain"}

	createWords       = []string{"create", "raise", "open", "make", "new", "add"}
	issueWords        = []string{"issue", "bug", "ticket", "problem", "feature"}
	listWords         = []string{"list", "show", "see", "view", "display", "get all", "what are"}
	slackWords        = []string{"send", "message", "notify", "tell", "slack", "inform"}
	branchWords       = []string{"branch", "branches"}
	listBranchWords   = []string{"list", "show", "see", "view", "display", "get all", "what"}
	createBranchWords = []string{"create", "make", "new", "add"}
)

func containsAny(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

func (c *Classifier) fallback(query string) Classification {
	lower := strings.ToLower(strings.TrimSpace(query))

	if containsAny(lower, greetingWords) || containsAny(lower, questionWords) {
		return Classification{Action: ActionGeneralResponse}
	}

	repoName := ExtractRepoName(query)
	issueNumber := ExtractIssueNumber(query)

	switch {
	case containsAny(lower, createWords) && containsAny(lower, issueWords):
		content := ExtractIssueContent(query)
		if content == nil {
			// A bare "raise an issue in X" with nothing to report.
			return Classification{Action: ActionNeedsClarification, RepoName: repoName}
		}
		return Classification{
			Action:     ActionCreateIssue,
			RepoName:   repoName,
			IssueTitle: content.Title,
			IssueBody:  content.Body,
		}

	case containsAny(lower, listWords) && containsAny(lower, issueWords):
		return Classification{Action: ActionListIssues, RepoName: repoName}

	case issueNumber > 0 && containsAny(lower, []string{"show", "get", "details"}):
		return Classification{Action: ActionGetIssue, RepoName: repoName, IssueNumber: issueNumber}

	case issueNumber > 0 && containsAny(lower, []string{"comment", "reply"}):
		return Classification{
			Action:      ActionCommentIssue,
			RepoName:    repoName,
			IssueNumber: issueNumber,
			CommentBody: query,
		}

	case containsAny(lower, slackWords):
		return Classification{Action: ActionSlackSendMessage}

	case containsAny(lower, branchWords):
		branchName := ExtractBranchName(query)

		switch {
		case containsAny(lower, createBranchWords):
			sourceBranch := ExtractSourceBranch(query)
			if sourceBranch == "" {
				sourceBranch = "main"
			}
			return Classification{
				Action:       ActionCreateBranch,
				RepoName:     repoName,
				BranchName:   branchName,
				SourceBranch: sourceBranch,
			}
		case containsAny(lower, listBranchWords):
			return Classification{Action: ActionListBranches, RepoName: repoName}
		case branchName != "":
			return Classification{Action: ActionGetBranch, RepoName: repoName, BranchName: branchName}
		}
	}

	// Nothing matched; treat it as conversation with whatever context could
	// still be mined from the text.
	return Classification{Action: ActionGeneralResponse, RepoName: repoName, IssueNumber: issueNumber}
}
