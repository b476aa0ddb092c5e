package session_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// MockAssistant 模拟问答后端
type MockAssistant struct {
	answer session.Answer
	err    error
	calls  int
}

func (m *MockAssistant) Ask(ctx context.Context, question string, history []valueobject.QAPair) (session.Answer, error) {
	m.calls++
	return m.answer, m.err
}

// MockVisitorService 模拟访客服务
type MockVisitorService struct {
	stored        valueobject.Conversation
	created       bool
	registerErr   error
	syncErr       error
	registerCalls int
	syncCalls     int
	syncedEmail   string
}

func (m *MockVisitorService) Register(ctx context.Context, contact valueobject.Contact, conversation valueobject.Conversation) (valueobject.Conversation, bool, error) {
	m.registerCalls++
	return m.stored, m.created, m.registerErr
}

func (m *MockVisitorService) SyncConversation(ctx context.Context, email string, conversation valueobject.Conversation) error {
	m.syncCalls++
	m.syncedEmail = email
	return m.syncErr
}

func newEngine(assistant *MockAssistant, visitors *MockVisitorService) *session.Engine {
	return session.NewEngine("Welcome!", assistant, visitors, zap.NewNop())
}

func TestSubmitQuestion_Success(t *testing.T) {
	assistant := &MockAssistant{answer: session.Answer{Text: "The fee is ₹X"}}
	engine := newEngine(assistant, &MockVisitorService{})

	state, err := engine.SubmitQuestion(context.Background(), "What is the admission fee?")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// greeting + user message + api message, exactly
	if state.Conversation.Len() != 3 {
		t.Fatalf("Expected 3 messages, got %d", state.Conversation.Len())
	}
	last, _ := state.Conversation.LastMessage()
	if last.Type != valueobject.MessageTypeAPI || last.Message != "The fee is ₹X" {
		t.Errorf("Unexpected last message: %+v", last)
	}
	if len(state.Conversation.History) != 1 {
		t.Fatalf("Expected 1 history pair, got %d", len(state.Conversation.History))
	}
	if state.Conversation.History[0] != (valueobject.QAPair{Question: "What is the admission fee?", Answer: "The fee is ₹X"}) {
		t.Errorf("Unexpected history: %+v", state.Conversation.History[0])
	}
	if state.Loading {
		t.Error("Loading flag not cleared")
	}
	if state.Error != "" {
		t.Errorf("Unexpected error: %s", state.Error)
	}
}

func TestSubmitQuestion_AssistantFailure(t *testing.T) {
	assistant := &MockAssistant{err: errors.New("connection refused")}
	engine := newEngine(assistant, &MockVisitorService{})

	state, err := engine.SubmitQuestion(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Expected no error from transition, got %v", err)
	}

	// the optimistic user message stays, no api message, inline error set
	if state.Conversation.Len() != 2 {
		t.Fatalf("Expected 2 messages, got %d", state.Conversation.Len())
	}
	if state.Error != session.GenericFailure {
		t.Errorf("Expected generic failure message, got %q", state.Error)
	}
	if len(state.Conversation.History) != 0 {
		t.Error("History must not grow on failure")
	}
	if state.Loading {
		t.Error("Loading flag not cleared on failure")
	}
}

func TestSubmitQuestion_EmptyInput(t *testing.T) {
	for _, query := range []string{"", "   ", "\n\t "} {
		assistant := &MockAssistant{}
		engine := newEngine(assistant, &MockVisitorService{})

		_, err := engine.SubmitQuestion(context.Background(), query)
		if !errors.Is(err, entity.ErrEmptyQuestion) {
			t.Errorf("query %q: expected ErrEmptyQuestion, got %v", query, err)
		}
		if assistant.calls != 0 {
			t.Errorf("query %q: assistant must not be called", query)
		}
		if engine.State().Conversation.Len() != 1 {
			t.Errorf("query %q: no message may be appended", query)
		}
	}
}

func TestSubmitQuestion_TrimsBeforeSending(t *testing.T) {
	assistant := &MockAssistant{answer: session.Answer{Text: "a"}}
	engine := newEngine(assistant, &MockVisitorService{})

	state, err := engine.SubmitQuestion(context.Background(), "  spaced out  ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.Conversation.Messages[1].Message != "spaced out" {
		t.Errorf("Question not trimmed: %q", state.Conversation.Messages[1].Message)
	}
}

func TestCaptureLead_NewEmail_KeepsLocalTranscript(t *testing.T) {
	visitors := &MockVisitorService{created: true}
	engine := newEngine(&MockAssistant{answer: session.Answer{Text: "a"}}, visitors)
	engine.SubmitQuestion(context.Background(), "q")

	state, err := engine.CaptureLead(context.Background(), valueobject.NewContact("A", "a@example.com", "123"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if state.PromptShown {
		t.Error("Prompt must be hidden after submission")
	}
	if state.Conversation.Len() != 3 {
		t.Errorf("Local transcript must be kept for a new email, got %d messages", state.Conversation.Len())
	}
	if visitors.registerCalls != 1 {
		t.Errorf("Expected 1 register call, got %d", visitors.registerCalls)
	}
}

func TestCaptureLead_ExistingEmail_RestoresStoredTranscript(t *testing.T) {
	stored := valueobject.NewConversation("Welcome back!").
		WithQuestion("old question").
		WithAnswer("old question", "old answer", nil)
	visitors := &MockVisitorService{stored: stored, created: false}
	engine := newEngine(&MockAssistant{}, visitors)

	state, err := engine.CaptureLead(context.Background(), valueobject.NewContact("A", "a@example.com", "123"))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !state.Conversation.Equals(stored) {
		t.Error("Stored transcript must replace the local one when the email exists")
	}
	if len(state.Conversation.History) != 1 {
		t.Errorf("Stored history must be restored, got %d pairs", len(state.Conversation.History))
	}
}

func TestSync_NoEmailIsNoop(t *testing.T) {
	visitors := &MockVisitorService{}
	engine := newEngine(&MockAssistant{}, visitors)

	if err := engine.Sync(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if visitors.syncCalls != 0 {
		t.Error("Sync must be a no-op before lead capture")
	}
}

func TestSync_AfterLeadCapture(t *testing.T) {
	visitors := &MockVisitorService{created: true}
	engine := newEngine(&MockAssistant{}, visitors)
	engine.CaptureLead(context.Background(), valueobject.NewContact("A", "A@Example.com ", "123"))

	if err := engine.Sync(context.Background()); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if visitors.syncCalls != 1 {
		t.Fatalf("Expected 1 sync call, got %d", visitors.syncCalls)
	}
	if visitors.syncedEmail != "a@example.com" {
		t.Errorf("Expected normalized email, got %q", visitors.syncedEmail)
	}
}
