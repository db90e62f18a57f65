package workflow

import (
	"regexp"
	"strconv"
	"strings"
)

// The extractors below are the heuristic safety net used when the model-based
// classifier is unavailable or returns unparseable output. Patterns are
// ordered by specificity and the first match wins.

var repoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:repo|repository|project)\s+([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`(?i)(?:in|to|for)\s+(?:the\s+)?([a-zA-Z0-9_-]+)(?:\s+repo|\s+repository|\s+project)?`),
	regexp.MustCompile(`(?i)([a-zA-Z0-9_-]+)(?:\s+repo|\s+repository|\s+project)`),
}

// ExtractRepoName pulls a repository name out of free text, e.g.
// "create an issue in repo my-app" -> "my-app". Returns "" when no pattern
// matches.
func ExtractRepoName(query string) string {
	for _, p := range repoPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return m[1]
		}
	}
	return ""
}

var issueNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:issue|bug|ticket)\s+#?(\d+)`),
	regexp.MustCompile(`#(\d+)`),
	regexp.MustCompile(`(?i)(?:number|num)\s+(\d+)`),
}

// ExtractIssueNumber returns the issue number referenced in the text, or 0
// when none is present.
func ExtractIssueNumber(query string) int {
	for _, p := range issueNumberPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return n
		}
	}
	return 0
}

var branchNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)branch\s+([a-zA-Z0-9_/-]+)`),
	regexp.MustCompile(`(?i)on\s+([a-zA-Z0-9_/-]+)\s+branch`),
	regexp.MustCompile(`(?i)switch\s+to\s+([a-zA-Z0-9_/-]+)`),
	regexp.MustCompile(`(?i)checkout\s+([a-zA-Z0-9_/-]+)`),
}

// ExtractBranchName returns the branch name referenced in the text, or "".
func ExtractBranchName(query string) string {
	for _, p := range branchNamePatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return m[1]
		}
	}
	return ""
}

var sourceBranchPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)from\s+([a-zA-Z0-9_/-]+)`),
	regexp.MustCompile(`(?i)based\s+on\s+([a-zA-Z0-9_/-]+)`),
	regexp.MustCompile(`(?i)off\s+([a-zA-Z0-9_/-]+)`),
}

// ExtractSourceBranch returns the branch a new branch should be cut from,
// e.g. "create branch hotfix-1 from main" -> "main". Returns "" when the
// query names no source.
func ExtractSourceBranch(query string) string {
	for _, p := range sourceBranchPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			return m[1]
		}
	}
	return ""
}

// IssueContent is the descriptive clause of a create-issue request.
type IssueContent struct {
	Title string
	Body  string
}

var issueContentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)about\s+(.+?)(?:\s+in\s+|\s*$)`),
	regexp.MustCompile(`(?i):\s*(.+?)(?:\s+in\s+|\s*$)`),
	regexp.MustCompile(`(?i)that\s+(.+?)(?:\s+in\s+|\s*$)`),
	regexp.MustCompile(`(?i)with\s+(.+?)(?:\s+in\s+|\s*$)`),
}

// ExtractIssueContent mines the actual problem description out of a
// create-issue request ("raise an issue about login bug in repo x"). A nil
// result means the query was a bare command with nothing to report, which is
// the trigger for the clarification intent.
func ExtractIssueContent(query string) *IssueContent {
	for _, p := range issueContentPatterns {
		m := p.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		content := strings.TrimSpace(m[1])
		if content == "" {
			continue
		}
		title := content
		if r := []rune(title); len(r) > 50 {
			title = string(r[:50]) + "..."
		}
		return &IssueContent{
			Title: title,
			Body:  "Issue details: " + content + "\n\nReported via DevCascade automation.",
		}
	}
	return nil
}

// SlackTarget is the destination and text mined from a send-message request.
// All fields are independently optional; an empty Message must be treated by
// the handler as a usage error, never sent as-is.
type SlackTarget struct {
	User    string
	Channel string
	Message string
}

var (
	slackUserPattern = regexp.MustCompile(`(?:to|@)\s*@?([a-zA-Z0-9._-]+)`)

	slackChannelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:channel|in|to)\s+#([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`#([a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)(?:channel|in|to)\s+([a-zA-Z0-9_-]+)`),
	}

	slackMessagePatterns = []*regexp.Regexp{
		regexp.MustCompile(`["']([^"']+)["']`),
		regexp.MustCompile(`(?is)(?:send|message|notify|tell|inform)\s+(?:slack\s+)?(?:message\s*)?:?\s*(.+?)(?:\s+(?:to|in|@|#)|\s*$)`),
		regexp.MustCompile(`(?is)(?:send|message|notify|tell|inform).*?:\s*(.+)`),
	}

	slackTrailingTargetPattern = regexp.MustCompile(`(?i)\s+(?:to|@|in|channel)\s+.+$`)
	slackInlineTargetPattern   = regexp.MustCompile(`(?:to|@|#)\s*[a-zA-Z0-9._-]+`)
)

// ExtractSlackTarget pulls the user mention, channel, and message body out of
// a send-message request. Quoted text wins over text after a colon, which
// wins over the query with command verbs and target clauses stripped.
func ExtractSlackTarget(query string) SlackTarget {
	var target SlackTarget

	if m := slackUserPattern.FindStringSubmatch(query); m != nil {
		target.User = m[1]
	}

	for _, p := range slackChannelPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			target.Channel = m[1]
			break
		}
	}

	for _, p := range slackMessagePatterns {
		m := p.FindStringSubmatch(query)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		candidate = slackTrailingTargetPattern.ReplaceAllString(candidate, "")
		if len(candidate) > 2 {
			target.Message = candidate
			break
		}
	}

	if target.Message != "" {
		target.Message = strings.Trim(target.Message, " .,!?")
		target.Message = strings.TrimSpace(slackInlineTargetPattern.ReplaceAllString(target.Message, ""))
	}

	return target
}
