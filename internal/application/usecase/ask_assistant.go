package usecase

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// AskAssistantUseCase relays one question with its conversational context
// to the Q&A backend. Input is validated here so an empty question never
// reaches the upstream.
type AskAssistantUseCase struct {
	assistant session.Assistant
	logger    *zap.Logger
}

// NewAskAssistantUseCase creates the ask use-case.
func NewAskAssistantUseCase(assistant session.Assistant, logger *zap.Logger) *AskAssistantUseCase {
	return &AskAssistantUseCase{
		assistant: assistant,
		logger:    logger,
	}
}

// Execute trims and guards the question, then forwards it with the history.
func (uc *AskAssistantUseCase) Execute(ctx context.Context, question string, history []valueobject.QAPair) (session.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return session.Answer{}, domainErrors.NewInvalidInputError("question is required")
	}

	answer, err := uc.assistant.Ask(ctx, question, history)
	if err != nil {
		uc.logger.Error("Assistant request failed", zap.Error(err))
		return session.Answer{}, domainErrors.NewUnavailableError("assistant unavailable", err)
	}
	return answer, nil
}
