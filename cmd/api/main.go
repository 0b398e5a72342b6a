package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campusmatch/api/internal/application/chat"
	"github.com/campusmatch/api/internal/config"
	"github.com/campusmatch/api/internal/infrastructure/postgres"
	s3infra "github.com/campusmatch/api/internal/infrastructure/s3"
	"github.com/campusmatch/api/internal/infrastructure/smtp"
	"github.com/campusmatch/api/internal/logging"
	"github.com/campusmatch/api/internal/migrate"
	"github.com/campusmatch/api/internal/realtime"
	transporthttp "github.com/campusmatch/api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	dsn := cfg.StoreDSN()

	// Apply schema migrations before taking traffic.
	if err := migrate.Up(ctx, dsn); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	db, err := postgres.New(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to store: %v", err)
	}
	defer db.Close()

	// S3 avatar store (optional — profile creation works without it).
	var avatarStore *s3infra.Store
	if client, err := s3infra.NewClient(cfg); err == nil {
		avatarStore = s3infra.NewStore(client, cfg.S3BucketName)
	} else {
		logger.Warn("avatar store not available", "err", err)
	}

	mailer := smtp.NewMailer(cfg)

	messageRepo := postgres.NewMessageRepo(db)
	hub := realtime.NewHub(chat.NewService(messageRepo), logger)

	deps := &transporthttp.Deps{
		UserRepo:     postgres.NewUserRepo(db),
		OTPRepo:      postgres.NewOTPRepo(db),
		MessageRepo:  messageRepo,
		ApproachRepo: postgres.NewApproachRepo(db),
		AvatarStore:  avatarStore,
		Mailer:       mailer,
		Hub:          hub,
		Logger:       logger,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	logger.Info("server stopped")
}
