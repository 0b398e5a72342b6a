package chat

import (
	"context"
	"fmt"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/pkg/id"
)

type Service interface {
	Save(ctx context.Context, senderID, receiverID, body string) (*domain.ChatMessage, error)
	History(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error)
}

type messageStore interface {
	Insert(ctx context.Context, m *domain.ChatMessage) (*domain.ChatMessage, error)
	HistoryBetween(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error)
}

type service struct {
	messageRepo messageStore
}

func NewService(messageRepo messageStore) Service {
	return &service{messageRepo: messageRepo}
}

// Save persists a direct message and returns the stored record with its
// server-assigned id and timestamp.
func (s *service) Save(ctx context.Context, senderID, receiverID, body string) (*domain.ChatMessage, error) {
	if senderID == "" || receiverID == "" || body == "" {
		return nil, fmt.Errorf("sender, receiver and body required: %w", domain.ErrBadRequest)
	}
	return s.messageRepo.Insert(ctx, &domain.ChatMessage{
		MessageID:  id.New(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
	})
}

// History returns the full conversation between the pair, oldest first.
func (s *service) History(ctx context.Context, userA, userB string) ([]domain.ChatMessage, error) {
	return s.messageRepo.HistoryBetween(ctx, userA, userB)
}
