package user

import (
	"context"
	"fmt"

	"github.com/campusmatch/api/internal/domain"
	s3infra "github.com/campusmatch/api/internal/infrastructure/s3"
	"github.com/campusmatch/api/internal/pkg/id"
	"github.com/campusmatch/api/internal/pkg/validate"
)

type Service interface {
	CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UploadAvatar(ctx context.Context, userID, filename, b64Data string) (string, error)
}

type userStore interface {
	Upsert(ctx context.Context, u *domain.User) (*domain.User, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID, url string) error
}

type avatarStore interface {
	UploadBase64(ctx context.Context, key, b64Data string) (string, error)
}

type service struct {
	userRepo      userStore
	avatars       avatarStore
	startingCoins int
}

func NewService(userRepo userStore, avatars avatarStore, startingCoins int) Service {
	return &service{userRepo: userRepo, avatars: avatars, startingCoins: startingCoins}
}

// CreateProfile stores the profile for a verified email. A first submission
// receives the starting coin grant; re-submitting the same email updates the
// profile fields and leaves the balance alone.
func (s *service) CreateProfile(ctx context.Context, req domain.CreateProfileRequest) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrBadRequest)
	}
	u := &domain.User{
		UserID:      id.New(),
		Email:       req.Email,
		Name:        req.Name,
		Gender:      req.Gender,
		PitchLine:   req.PitchLine,
		Personality: emptyIfNil(req.Personality),
		ToxicTraits: emptyIfNil(req.ToxicTraits),
		Interests:   emptyIfNil(req.Interests),
		Avatar:      req.Avatar,
		Coins:       s.startingCoins,
	}
	return s.userRepo.Upsert(ctx, u)
}

func (s *service) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.Get(ctx, userID)
}

// UploadAvatar stores the image in the object store and records its URL on
// the user row.
func (s *service) UploadAvatar(ctx context.Context, userID, filename, b64Data string) (string, error) {
	if _, err := s.userRepo.Get(ctx, userID); err != nil {
		return "", err
	}
	key := fmt.Sprintf("avatars/%s-%s", id.New(), filename)
	url, err := s.avatars.UploadBase64(ctx, key, b64Data)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdateAvatar(ctx, userID, url); err != nil {
		return "", err
	}
	return url, nil
}

func emptyIfNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

var _ avatarStore = (*s3infra.Store)(nil)
