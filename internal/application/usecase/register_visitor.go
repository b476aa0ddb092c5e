package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// RegisterVisitorUseCase handles the create-or-fetch flow behind the lead
// capture form. Registering an email twice is not an error: the second
// call leaves the stored row untouched and hands back its snapshot so the
// caller can restore the earlier transcript.
type RegisterVisitorUseCase struct {
	visitorRepo repository.VisitorRepository
	logger      *zap.Logger
}

// RegisterResult reports which branch the upsert took. Both branches carry
// the stored visitor, so callers never have to branch on field presence.
type RegisterResult struct {
	Visitor *entity.Visitor
	Created bool
}

// NewRegisterVisitorUseCase creates the register use-case.
func NewRegisterVisitorUseCase(visitorRepo repository.VisitorRepository, logger *zap.Logger) *RegisterVisitorUseCase {
	return &RegisterVisitorUseCase{
		visitorRepo: visitorRepo,
		logger:      logger,
	}
}

// Execute inserts the visitor if the email is new, otherwise returns the
// stored record unchanged.
func (uc *RegisterVisitorUseCase) Execute(ctx context.Context, contact valueobject.Contact, conversation valueobject.Conversation) (RegisterResult, error) {
	if !contact.HasEmail() {
		return RegisterResult{}, domainErrors.NewInvalidInputError("email is required")
	}

	visitor, err := entity.NewVisitor(contact, conversation)
	if err != nil {
		return RegisterResult{}, domainErrors.NewInvalidInputError(err.Error())
	}

	stored, created, err := uc.visitorRepo.Upsert(ctx, visitor)
	if err != nil {
		uc.logger.Error("Failed to upsert visitor", zap.String("email", contact.Email()), zap.Error(err))
		return RegisterResult{}, err
	}

	uc.logger.Info("Visitor registered",
		zap.String("email", contact.Email()),
		zap.Bool("created", created),
	)

	return RegisterResult{Visitor: stored, Created: created}, nil
}
