package http

import (
	"log/slog"

	"github.com/campusmatch/api/internal/infrastructure/postgres"
	s3infra "github.com/campusmatch/api/internal/infrastructure/s3"
	"github.com/campusmatch/api/internal/infrastructure/smtp"
	"github.com/campusmatch/api/internal/realtime"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *postgres.UserRepo
	OTPRepo      *postgres.OTPRepo
	MessageRepo  *postgres.MessageRepo
	ApproachRepo *postgres.ApproachRepo
	AvatarStore  *s3infra.Store
	Mailer       smtp.Mailer
	Hub          *realtime.Hub
	Logger       *slog.Logger
}
