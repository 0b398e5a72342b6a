package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/campusmatch/api/internal/application/auth"
	"github.com/campusmatch/api/internal/application/chat"
	"github.com/campusmatch/api/internal/application/match"
	"github.com/campusmatch/api/internal/application/user"
	"github.com/campusmatch/api/internal/config"
	"github.com/campusmatch/api/internal/transport/http/handler"
	appmiddleware "github.com/campusmatch/api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10 — keeps the OTP endpoints from being
	// used to spray mail.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(deps.OTPRepo, deps.UserRepo, deps.Mailer, cfg.OTPTTL, cfg.AllowedEmailDomain, deps.Logger)
	userSvc := user.NewService(deps.UserRepo, deps.AvatarStore, cfg.StartingCoins)
	matchSvc := match.NewService(deps.UserRepo, deps.ApproachRepo, cfg.ApproachCost)
	chatSvc := chat.NewService(deps.MessageRepo)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg.ExposeOTPInResponse, deps.Logger)
	userH := handler.NewUserHandler(userSvc, deps.Logger)
	matchH := handler.NewMatchHandler(matchSvc, deps.Logger)
	chatH := handler.NewChatHandler(chatSvc, deps.Logger)

	r.Get("/healthz", healthH.Ping)

	r.Route("/auth", func(r chi.Router) {
		r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
		r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/create-profile", userH.CreateProfile)
		r.Get("/{id}", userH.Get)
		r.Post("/{id}/avatar", userH.UploadAvatar)
	})

	r.Route("/match", func(r chi.Router) {
		r.Get("/suggestions", matchH.Suggestions)
		r.Post("/approach", matchH.Approach)
		r.Get("/received", matchH.Received)
	})

	r.Get("/chat/history/{userId}/{otherUserId}", chatH.History)

	r.Get("/ws", deps.Hub.ServeWS)

	return r
}
