package workflow

// Action is the closed vocabulary of dispatchable intents. Adding an intent
// requires a new constant here, a handler registration in NewProcessor, and a
// template case in Format.
type Action string

const (
	ActionCreateIssue        Action = "github_create_issue"
	ActionListIssues         Action = "github_list_issues"
	ActionGetIssue           Action = "github_get_issue"
	ActionCommentIssue       Action = "github_comment_issue"
	ActionListBranches       Action = "github_list_branches"
	ActionGetBranch          Action = "github_get_branch"
	ActionCreateBranch       Action = "github_create_branch"
	ActionSlackSendMessage   Action = "slack_send_message"
	ActionGeneralResponse    Action = "general_response"
	ActionNeedsClarification Action = "needs_clarification"
	ActionUnhandled          Action = "unhandled"
)

// knownActions guards the classifier: anything the model emits outside this
// set is treated as unhandled.
var knownActions = map[Action]bool{
	ActionCreateIssue:        true,
	ActionListIssues:         true,
	ActionGetIssue:           true,
	ActionCommentIssue:       true,
	ActionListBranches:       true,
	ActionGetBranch:          true,
	ActionCreateBranch:       true,
	ActionSlackSendMessage:   true,
	ActionGeneralResponse:    true,
	ActionNeedsClarification: true,
	ActionUnhandled:          true,
}

// ParseAction maps a raw string to a known Action, falling back to unhandled.
func ParseAction(s string) Action {
	a := Action(s)
	if knownActions[a] {
		return a
	}
	return ActionUnhandled
}

// State is the single mutable record threaded through one query. It is
// created fresh per ProcessQuery call and never shared across queries.
type State struct {
	UserQuery string
	Action    Action

	RepoName     string
	IssueNumber  int
	CommentBody  string
	IssueTitle   string
	IssueBody    string
	BranchName   string
	SourceBranch string

	SlackMessage string
	SlackChannel string
	SlackUser    string

	// APIResponse holds the handler's result payload. Exactly one of
	// APIResponse and ErrorMessage is meaningfully set after a handler runs,
	// except the clarification and general-response nodes, which set an
	// advisory APIResponse.
	APIResponse any
	// ErrorMessage short-circuits formatting when set (missing parameters or
	// unexpected failures caught inside a handler).
	ErrorMessage string
}

// UpstreamError is the uniform shape a handler stores when a third-party API
// call fails. It is data on the state, never a raised error.
type UpstreamError struct {
	Message string
	Details string
}

// Advisory is the non-error payload of the clarification, general-response
// and unhandled terminal nodes.
type Advisory struct {
	Message     string
	Type        string
	Suggestions []string
	Request     string
}
