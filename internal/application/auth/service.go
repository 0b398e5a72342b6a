package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/campusmatch/api/internal/domain"
	"github.com/campusmatch/api/internal/infrastructure/smtp"
)

type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// IssueResult is the outcome of issuing a login code. Delivery reports the
// asynchronous mail send exactly once; the request path never waits on it,
// but callers (and tests) may.
type IssueResult struct {
	IsNewUser bool
	Code      string
	Delivery  <-chan error
}

type VerifyResult struct {
	IsNewUser bool
	User      *domain.User
}

type Service interface {
	IssueCode(ctx context.Context, email string) (*IssueResult, error)
	VerifyCode(ctx context.Context, email, submitted string) (*VerifyResult, error)
}

type otpStore interface {
	Replace(ctx context.Context, c *domain.OneTimeCode) error
	Latest(ctx context.Context, email string) (*domain.OneTimeCode, error)
	Consume(ctx context.Context, email string) error
}

type userStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type service struct {
	otpRepo       otpStore
	userRepo      userStore
	mailer        smtp.Mailer
	ttl           time.Duration
	allowedDomain string // empty = any domain accepted
	log           *slog.Logger
}

func NewService(otpRepo otpStore, userRepo userStore, mailer smtp.Mailer, ttl time.Duration, allowedDomain string, log *slog.Logger) Service {
	return &service{
		otpRepo:       otpRepo,
		userRepo:      userRepo,
		mailer:        mailer,
		ttl:           ttl,
		allowedDomain: allowedDomain,
		log:           log,
	}
}

func (s *service) IssueCode(ctx context.Context, email string) (*IssueResult, error) {
	if email == "" {
		return nil, fmt.Errorf("email required: %w", domain.ErrBadRequest)
	}
	if s.allowedDomain != "" && !strings.HasSuffix(strings.ToLower(email), "@"+s.allowedDomain) {
		return nil, fmt.Errorf("email must belong to %s: %w", s.allowedDomain, domain.ErrBadRequest)
	}

	isNew := false
	if _, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		isNew = true
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.OneTimeCode{
		Email:     email,
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	// Replace is transactional: all prior codes for the email are gone once
	// the new row lands, keeping at most one live code per identity.
	if err := s.otpRepo.Replace(ctx, c); err != nil {
		return nil, err
	}

	// Mail delivery never blocks or fails the request; the stored code stays
	// valid either way. The outcome is observable on the channel and logged.
	delivery := make(chan error, 1)
	go func() {
		err := s.mailer.SendEmail(email, "Your login code", fmt.Sprintf("Your login code is %s. It expires in %d minutes.", code, int(s.ttl.Minutes())))
		if err != nil {
			s.log.Error("otp delivery failed", "email", email, "err", err)
		}
		delivery <- err
	}()

	return &IssueResult{IsNewUser: isNew, Code: code, Delivery: delivery}, nil
}

func (s *service) VerifyCode(ctx context.Context, email, submitted string) (*VerifyResult, error) {
	c, err := s.otpRepo.Latest(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("no code issued for %s: %w", email, err)
	}
	if time.Now().UTC().After(c.ExpiresAt) {
		return nil, fmt.Errorf("code for %s: %w", email, domain.ErrCodeExpired)
	}
	// Exact string equality. No trimming, no normalization.
	if submitted != c.Code {
		return nil, fmt.Errorf("code for %s: %w", email, domain.ErrCodeMismatch)
	}

	// Single use: a second verification with the same code finds nothing.
	if err := s.otpRepo.Consume(ctx, email); err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &VerifyResult{IsNewUser: true}, nil
		}
		return nil, err
	}
	return &VerifyResult{IsNewUser: false, User: u}, nil
}

// generateCode draws a 6-digit code uniformly from [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
