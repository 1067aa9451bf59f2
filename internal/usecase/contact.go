package usecase

import (
	"context"
	"strings"

	"github.com/V4T54L/leatherstore/internal/domain"
	"github.com/V4T54L/leatherstore/internal/pkg/logger"
)

// ContactUseCase stores contact form submissions.
type ContactUseCase struct {
	messages domain.MessageRepository
	actions  *logger.ActionLogger
}

func NewContactUseCase(messages domain.MessageRepository, actions *logger.ActionLogger) *ContactUseCase {
	return &ContactUseCase{messages: messages, actions: actions}
}

func (uc *ContactUseCase) Submit(ctx context.Context, msg domain.ContactMessage) (*domain.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Phone = strings.TrimSpace(msg.Phone)
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, invalid("please fill in all required fields")
	}
	if !emailPattern.MatchString(msg.Email) {
		return nil, invalid("invalid email address")
	}

	err := uc.actions.Perform(ctx, logger.Action{Name: ActionContactSubmit, Extra: map[string]any{"email": msg.Email}},
		func(ctx context.Context, o *logger.Outcome) error {
			if err := uc.messages.Create(ctx, &msg); err != nil {
				return err
			}
			o.SetEntity(EntityMessage, msg.ID)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
