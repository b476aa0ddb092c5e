package usecase_test

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/application/usecase"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	"github.com/admitchat/admitchat/internal/infrastructure/persistence"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

func TestRegisterVisitor_FreshEmailCreates(t *testing.T) {
	repo := persistence.NewMemoryVisitorRepository()
	uc := usecase.NewRegisterVisitorUseCase(repo, zap.NewNop())

	conv := valueobject.NewConversation("Hi!").WithQuestion("q")
	result, err := uc.Execute(context.Background(), valueobject.NewContact("Asha", "asha@example.com", "999"), conv)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !result.Created {
		t.Error("Fresh email must report created=true")
	}
	if result.Visitor.Email() != "asha@example.com" {
		t.Errorf("Unexpected email: %s", result.Visitor.Email())
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("Expected 1 stored visitor, got %d", count)
	}
}

func TestRegisterVisitor_ExistingEmailIsNotMutated(t *testing.T) {
	repo := persistence.NewMemoryVisitorRepository()
	uc := usecase.NewRegisterVisitorUseCase(repo, zap.NewNop())
	contact := valueobject.NewContact("Asha", "asha@example.com", "999")

	first := valueobject.NewConversation("Hi!").WithAnswer("q1", "a1", nil)
	if _, err := uc.Execute(context.Background(), contact, first); err != nil {
		t.Fatalf("Seed register failed: %v", err)
	}

	second := valueobject.NewConversation("Hi!").WithAnswer("q2", "a2", nil)
	result, err := uc.Execute(context.Background(), contact, second)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Created {
		t.Error("Existing email must report created=false")
	}
	if !result.Visitor.Conversation().Equals(first) {
		t.Error("Stored conversation must be returned unchanged, not overwritten")
	}

	count, _ := repo.Count(context.Background())
	if count != 1 {
		t.Errorf("Expected 1 stored visitor, got %d", count)
	}
}

func TestRegisterVisitor_EmailNormalized(t *testing.T) {
	repo := persistence.NewMemoryVisitorRepository()
	uc := usecase.NewRegisterVisitorUseCase(repo, zap.NewNop())
	conv := valueobject.NewConversation("Hi!")

	r1, _ := uc.Execute(context.Background(), valueobject.NewContact("A", "Asha@Example.com", ""), conv)
	r2, _ := uc.Execute(context.Background(), valueobject.NewContact("A", " asha@example.com ", ""), conv)

	if !r1.Created || r2.Created {
		t.Error("Case/space variants of one email must hit the same row")
	}
}

func TestRegisterVisitor_MissingEmail(t *testing.T) {
	repo := persistence.NewMemoryVisitorRepository()
	uc := usecase.NewRegisterVisitorUseCase(repo, zap.NewNop())

	_, err := uc.Execute(context.Background(), valueobject.NewContact("A", "  ", "123"), valueobject.NewConversation("Hi!"))
	if !domainErrors.IsInvalidInput(err) {
		t.Errorf("Expected invalid input error, got %v", err)
	}

	count, _ := repo.Count(context.Background())
	if count != 0 {
		t.Error("No row may be created without an email")
	}
}
