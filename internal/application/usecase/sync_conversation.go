package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// SyncConversationUseCase overwrites a visitor's stored conversation
// snapshot. The overwrite is total, not a merge: the stored metaData
// always equals the last payload written (last write wins, by contract).
type SyncConversationUseCase struct {
	visitorRepo repository.VisitorRepository
	logger      *zap.Logger
}

// NewSyncConversationUseCase creates the sync use-case.
func NewSyncConversationUseCase(visitorRepo repository.VisitorRepository, logger *zap.Logger) *SyncConversationUseCase {
	return &SyncConversationUseCase{
		visitorRepo: visitorRepo,
		logger:      logger,
	}
}

// Execute replaces the snapshot for the email. Unknown emails are a domain
// error; no row is ever created on this path.
func (uc *SyncConversationUseCase) Execute(ctx context.Context, email string, conversation valueobject.Conversation) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domainErrors.NewInvalidInputError("email is required")
	}

	if err := uc.visitorRepo.UpdateConversation(ctx, email, conversation); err != nil {
		if domainErrors.IsNotFound(err) {
			return err
		}
		uc.logger.Error("Failed to sync conversation", zap.String("email", email), zap.Error(err))
		return err
	}

	uc.logger.Debug("Conversation synced",
		zap.String("email", email),
		zap.Int("messages", conversation.Len()),
		zap.Int("history", len(conversation.History)),
	)
	return nil
}
