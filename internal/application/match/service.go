package match

import (
	"context"
	"fmt"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/pkg/id"
)

// suggestionLimit caps the suggestion read; the route has no pagination contract.
const suggestionLimit = 100

type Service interface {
	Suggestions(ctx context.Context, userID, gender string) ([]domain.User, error)
	Approach(ctx context.Context, fromUserID, toUserID, requestLine string) (*domain.Approach, error)
	Received(ctx context.Context, userID string) ([]domain.Approach, error)
}

type userStore interface {
	ListSuggestions(ctx context.Context, userID, gender string, limit int) ([]domain.User, error)
}

type approachStore interface {
	Create(ctx context.Context, a *domain.Approach, cost int) (*domain.Approach, error)
	ListReceived(ctx context.Context, userID string) ([]domain.Approach, error)
}

type service struct {
	userRepo     userStore
	approachRepo approachStore
	cost         int
}

func NewService(userRepo userStore, approachRepo approachStore, cost int) Service {
	return &service{userRepo: userRepo, approachRepo: approachRepo, cost: cost}
}

func (s *service) Suggestions(ctx context.Context, userID, gender string) ([]domain.User, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId required: %w", domain.ErrBadRequest)
	}
	return s.userRepo.ListSuggestions(ctx, userID, gender, suggestionLimit)
}

// Approach spends coins to introduce fromUserID to toUserID. The debit and
// the approach row commit together or not at all.
func (s *service) Approach(ctx context.Context, fromUserID, toUserID, requestLine string) (*domain.Approach, error) {
	if fromUserID == "" || toUserID == "" {
		return nil, fmt.Errorf("fromUserId and toUserId required: %w", domain.ErrBadRequest)
	}
	if fromUserID == toUserID {
		return nil, fmt.Errorf("cannot approach yourself: %w", domain.ErrBadRequest)
	}
	a := &domain.Approach{
		ApproachID:  id.New(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		RequestLine: requestLine,
	}
	return s.approachRepo.Create(ctx, a, s.cost)
}

func (s *service) Received(ctx context.Context, userID string) ([]domain.Approach, error) {
	return s.approachRepo.ListReceived(ctx, userID)
}
