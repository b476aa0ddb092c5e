package valueobject_test

import (
	"encoding/json"
	"testing"

	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

func TestConversation_WithQuestion_AppendsExactlyOne(t *testing.T) {
	conv := valueobject.NewConversation("Welcome!")

	next := conv.WithQuestion("What is the admission fee?")

	if next.Len() != 2 {
		t.Fatalf("Expected 2 messages, got %d", next.Len())
	}
	last, _ := next.LastMessage()
	if last.Type != valueobject.MessageTypeUser {
		t.Errorf("Expected userMessage, got %s", last.Type)
	}
	if last.Message != "What is the admission fee?" {
		t.Errorf("Unexpected message text: %s", last.Message)
	}
	// history is not extended until the answer arrives
	if len(next.History) != 0 {
		t.Errorf("Expected empty history, got %d entries", len(next.History))
	}
}

func TestConversation_WithAnswer_ExtendsHistory(t *testing.T) {
	conv := valueobject.NewConversation("Welcome!").
		WithQuestion("What is the admission fee?").
		WithAnswer("What is the admission fee?", "The fee is ₹X", nil)

	if conv.Len() != 3 {
		t.Fatalf("Expected 3 messages, got %d", conv.Len())
	}
	if len(conv.History) != 1 {
		t.Fatalf("Expected 1 history pair, got %d", len(conv.History))
	}
	pair := conv.History[0]
	if pair.Question != "What is the admission fee?" || pair.Answer != "The fee is ₹X" {
		t.Errorf("Unexpected history pair: %+v", pair)
	}
}

func TestConversation_TransitionsDoNotMutateOriginal(t *testing.T) {
	base := valueobject.NewConversation("Welcome!")

	_ = base.WithQuestion("q1")
	_ = base.WithAnswer("q1", "a1", nil)

	if base.Len() != 1 {
		t.Errorf("Original conversation mutated: %d messages", base.Len())
	}
	if len(base.History) != 0 {
		t.Errorf("Original history mutated: %d pairs", len(base.History))
	}
}

func TestQAPair_JSONWireFormat(t *testing.T) {
	pair := valueobject.QAPair{Question: "q", Answer: "a"}

	raw, err := json.Marshal(pair)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(raw) != `["q","a"]` {
		t.Errorf("Expected [\"q\",\"a\"], got %s", raw)
	}

	var decoded valueobject.QAPair
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != pair {
		t.Errorf("Round trip mismatch: %+v", decoded)
	}
}

func TestQAPair_RejectsWrongArity(t *testing.T) {
	var pair valueobject.QAPair
	if err := json.Unmarshal([]byte(`["only one"]`), &pair); err == nil {
		t.Error("Expected error for 1-element pair")
	}
}

func TestConversation_MetaDataShape(t *testing.T) {
	conv := valueobject.NewConversation("Hi!").
		WithQuestion("q").
		WithAnswer("q", "a", []valueobject.SourceDocument{
			{PageContent: "doc", Metadata: map[string]string{"source": "handbook.pdf"}},
		})

	raw, err := json.Marshal(conv)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := decoded["messages"]; !ok {
		t.Error("Expected metaData to contain messages")
	}
	if _, ok := decoded["history"]; !ok {
		t.Error("Expected metaData to contain history")
	}

	var roundTrip valueobject.Conversation
	if err := json.Unmarshal(raw, &roundTrip); err != nil {
		t.Fatalf("Round trip unmarshal failed: %v", err)
	}
	if !roundTrip.Equals(conv) {
		t.Error("Round trip conversation differs")
	}
}
