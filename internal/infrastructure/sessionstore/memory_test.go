package sessionstore

import (
	"context"
	"errors"
	"testing"

	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	rec := &Record{
		ID:           "sess-1",
		Conversation: valueobject.NewConversation("Hi!"),
	}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if rec.Version != 1 {
		t.Errorf("Expected version 1 after create, got %d", rec.Version)
	}

	got, err := store.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got nil")
	}
	if !got.Conversation.Equals(rec.Conversation) {
		t.Error("Stored conversation differs from written one")
	}
}

func TestMemoryStore_GetUnknownReturnsNil(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil for unknown session, got %+v", got)
	}
}

func TestMemoryStore_GetReturnsDetachedCopy(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	rec := &Record{ID: "sess-1", Conversation: valueobject.NewConversation("Hi!")}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	first, _ := store.Get(ctx, "sess-1")
	first.Email = "scribble@example.com"
	first.Conversation = first.Conversation.WithQuestion("scribble")

	second, _ := store.Get(ctx, "sess-1")
	if second.Email != "" || second.Conversation.Len() != 1 {
		t.Error("Mutating a returned record leaked into the store")
	}
}

func TestMemoryStore_UpdateIncrementsVersion(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	rec := &Record{ID: "sess-1", Conversation: valueobject.NewConversation("Hi!")}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rec.Conversation = rec.Conversation.WithAnswer("fees?", "See the fees page.", nil)
	if err := store.Update(ctx, rec); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if rec.Version != 2 {
		t.Errorf("Expected version 2 after update, got %d", rec.Version)
	}

	got, _ := store.Get(ctx, "sess-1")
	if len(got.Conversation.History) != 1 {
		t.Errorf("Expected 1 history pair after update, got %d", len(got.Conversation.History))
	}
}

func TestMemoryStore_UpdateVersionConflict(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	rec := &Record{ID: "sess-1", Conversation: valueobject.NewConversation("Hi!")}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// two tabs read the same version
	tabA, _ := store.Get(ctx, "sess-1")
	tabB, _ := store.Get(ctx, "sess-1")

	tabA.Conversation = tabA.Conversation.WithQuestion("from tab A")
	if err := store.Update(ctx, tabA); err != nil {
		t.Fatalf("First writer should win: %v", err)
	}

	tabB.Conversation = tabB.Conversation.WithQuestion("from tab B")
	if err := store.Update(ctx, tabB); !errors.Is(err, ErrVersionConflict) {
		t.Errorf("Expected ErrVersionConflict for stale writer, got %v", err)
	}

	// the losing write must not land
	got, _ := store.Get(ctx, "sess-1")
	last, _ := got.Conversation.LastMessage()
	if last.Message != "from tab A" {
		t.Errorf("Expected tab A's write to survive, got %q", last.Message)
	}
}

func TestMemoryStore_UpdateUnknownSession(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	rec := &Record{ID: "missing", Version: 1, Conversation: valueobject.NewConversation("Hi!")}
	if err := store.Update(context.Background(), rec); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	rec := &Record{ID: "sess-1", Conversation: valueobject.NewConversation("Hi!")}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, _ := store.Get(ctx, "sess-1")
	if got != nil {
		t.Error("Expected session gone after delete")
	}
}
