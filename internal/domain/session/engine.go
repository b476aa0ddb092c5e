package session

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// Answer is one reply from the admissions assistant.
type Answer struct {
	Text       string
	SourceDocs []valueobject.SourceDocument
}

// Assistant answers a question given the flattened question/answer context.
type Assistant interface {
	Ask(ctx context.Context, question string, history []valueobject.QAPair) (Answer, error)
}

// VisitorService persists visitor contact details and conversation snapshots.
type VisitorService interface {
	// Register stores the contact with the given snapshot, or returns the
	// previously stored snapshot when the email is already known.
	Register(ctx context.Context, contact valueobject.Contact, conversation valueobject.Conversation) (stored valueobject.Conversation, created bool, err error)

	// SyncConversation overwrites the stored snapshot for the email.
	SyncConversation(ctx context.Context, email string, conversation valueobject.Conversation) error
}

// State is an explicit snapshot of everything the chat surface renders:
// the transcript, the pending-answer flag, the inline error line, the
// captured contact details and whether the lead prompt is still shown.
type State struct {
	Conversation valueobject.Conversation
	Contact      valueobject.Contact
	PromptShown  bool
	Loading      bool
	Error        string
}

// Engine drives one chat session. Transitions mutate a single State value
// under a lock, so overlapping submissions from one client serialize
// instead of racing on shared transcript slices.
type Engine struct {
	mu        sync.Mutex
	state     State
	assistant Assistant
	visitors  VisitorService
	logger    *zap.Logger
}

// GenericFailure is the user-visible message for any transport or parse
// failure on the answer path.
const GenericFailure = "An error occurred while fetching the data. Please try again."

// NewEngine creates a session engine seeded with the greeting message and
// the lead prompt visible.
func NewEngine(greeting string, assistant Assistant, visitors VisitorService, logger *zap.Logger) *Engine {
	return &Engine{
		state: State{
			Conversation: valueobject.NewConversation(greeting),
			PromptShown:  true,
		},
		assistant: assistant,
		visitors:  visitors,
		logger:    logger,
	}
}

// NewEngineWithState creates an engine resuming from a previously stored
// state, e.g. a widget reconnecting to its session.
func NewEngineWithState(state State, assistant Assistant, visitors VisitorService, logger *zap.Logger) *Engine {
	return &Engine{
		state:     state,
		assistant: assistant,
		visitors:  visitors,
		logger:    logger,
	}
}

// State returns a copy of the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SubmitQuestion runs one question/answer exchange. An empty or
// whitespace-only question is rejected before anything is appended or
// sent. The user message is appended optimistically; on success exactly
// one assistant message is appended and the history extended, on failure
// the inline error is set instead. Never both, never neither.
func (e *Engine) SubmitQuestion(ctx context.Context, query string) (State, error) {
	question := strings.TrimSpace(query)
	if question == "" {
		return e.State(), entity.ErrEmptyQuestion
	}

	e.mu.Lock()
	e.state.Error = ""
	e.state.Loading = true
	e.state.Conversation = e.state.Conversation.WithQuestion(question)
	history := e.state.Conversation.History
	e.mu.Unlock()

	answer, err := e.assistant.Ask(ctx, question, history)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Loading = false
	if err != nil {
		e.logger.Warn("Assistant call failed",
			zap.String("question", question),
			zap.Error(err),
		)
		e.state.Error = GenericFailure
		return e.state, nil
	}

	e.state.Conversation = e.state.Conversation.WithAnswer(question, answer.Text, answer.SourceDocs)
	return e.state, nil
}

// CaptureLead submits the one-shot contact form. The prompt is hidden
// before the network call, matching the surface behavior. When the email
// was already registered, the stored transcript replaces the in-memory
// one (the previous session wins).
func (e *Engine) CaptureLead(ctx context.Context, contact valueobject.Contact) (State, error) {
	e.mu.Lock()
	e.state.PromptShown = false
	e.state.Contact = contact
	snapshot := e.state.Conversation
	e.mu.Unlock()

	stored, created, err := e.visitors.Register(ctx, contact, snapshot)
	if err != nil {
		e.logger.Warn("Lead capture failed", zap.String("email", contact.Email()), zap.Error(err))
		return e.State(), err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !created {
		e.state.Conversation = stored
	}
	return e.state, nil
}

// Sync pushes the current snapshot to the visitor store. It is a no-op
// until a lead with an email has been captured.
func (e *Engine) Sync(ctx context.Context) error {
	e.mu.Lock()
	contact := e.state.Contact
	snapshot := e.state.Conversation
	e.mu.Unlock()

	if !contact.HasEmail() {
		return nil
	}
	return e.visitors.SyncConversation(ctx, contact.Email(), snapshot)
}
