package application

import (
	"context"

	"github.com/admitchat/admitchat/internal/application/usecase"
	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// visitorService adapts the register/sync use-cases to the narrow
// interface the session engine depends on.
type visitorService struct {
	register *usecase.RegisterVisitorUseCase
	sync     *usecase.SyncConversationUseCase
}

// NewVisitorService bundles the visitor use-cases behind session.VisitorService.
func NewVisitorService(register *usecase.RegisterVisitorUseCase, sync *usecase.SyncConversationUseCase) session.VisitorService {
	return &visitorService{
		register: register,
		sync:     sync,
	}
}

func (s *visitorService) Register(ctx context.Context, contact valueobject.Contact, conversation valueobject.Conversation) (valueobject.Conversation, bool, error) {
	result, err := s.register.Execute(ctx, contact, conversation)
	if err != nil {
		return valueobject.Conversation{}, false, err
	}
	return result.Visitor.Conversation(), result.Created, nil
}

func (s *visitorService) SyncConversation(ctx context.Context, email string, conversation valueobject.Conversation) error {
	return s.sync.Execute(ctx, email, conversation)
}
