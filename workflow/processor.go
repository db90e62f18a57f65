package workflow

import (
	"context"
	"errors"
	"log"
)

// Processor is the intent-classification-and-dispatch engine. It holds the
// static credentials context (clients and owner) and no per-query state, so a
// single instance may serve concurrent queries.
type Processor struct {
	classifier *Classifier
	model      ModelClient
	github     GitHubClient
	slack      SlackClient
	owner      string

	handlers map[Action]handlerFunc
}

// handlerFunc is one terminal node: it reads the parameter subset it needs
// from the state and sets APIResponse or ErrorMessage, never both network
// results and errors.
type handlerFunc func(ctx context.Context, st *State)

// NewProcessor wires the engine. The model client is mandatory; the service
// clients may be nil only in tests that never dispatch to them.
func NewProcessor(model ModelClient, githubClient GitHubClient, slackClient SlackClient, owner string) (*Processor, error) {
	if model == nil {
		return nil, errors.New("model client is required")
	}

	p := &Processor{
		classifier: NewClassifier(model),
		model:      model,
		github:     githubClient,
		slack:      slackClient,
		owner:      owner,
	}

	// The dispatch table: one terminal handler per intent, no cycles, no
	// multi-step pipelines. Every classified query visits exactly one entry.
	p.handlers = map[Action]handlerFunc{
		ActionCreateIssue:        p.handleCreateIssue,
		ActionListIssues:         p.handleListIssues,
		ActionGetIssue:           p.handleGetIssue,
		ActionCommentIssue:       p.handleCommentIssue,
		ActionListBranches:       p.handleListBranches,
		ActionGetBranch:          p.handleGetBranch,
		ActionCreateBranch:       p.handleCreateBranch,
		ActionSlackSendMessage:   p.handleSlackMessage,
		ActionGeneralResponse:    p.handleGeneralResponse,
		ActionNeedsClarification: p.handleNeedsClarification,
		ActionUnhandled:          p.handleUnhandled,
	}

	return p, nil
}

// Result is the outcome of one processed query: the user-facing summary plus
// the intent it was dispatched under.
type Result struct {
	Response string
	Action   Action
}

// ProcessQuery runs one query through classify -> dispatch -> format. Errors
// never escape as Go errors; they are converted to state data and rendered.
func (p *Processor) ProcessQuery(ctx context.Context, query string) Result {
	st := &State{UserQuery: query}

	cls := p.classifier.Classify(ctx, query)
	st.Action = cls.Action
	st.RepoName = cls.RepoName
	st.IssueNumber = cls.IssueNumber
	st.CommentBody = cls.CommentBody
	st.IssueTitle = cls.IssueTitle
	st.IssueBody = cls.IssueBody
	st.BranchName = cls.BranchName
	st.SourceBranch = cls.SourceBranch
	st.SlackMessage = cls.SlackMessage

	handler, ok := p.handlers[st.Action]
	if !ok {
		st.Action = ActionUnhandled
		handler = p.handleUnhandled
	}

	log.Printf("[workflow] action=%s repo=%q query=%q", st.Action, st.RepoName, query)
	handler(ctx, st)

	return Result{Response: Format(st), Action: st.Action}
}
