package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	_ "conferencecentral/docs"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/email"
	deliveryhttp "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

const bcryptCost = 10

// @title Conference Central API
// @version 1.0
// @description Conference management backend: conferences, seat registration, profiles, and queries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// Repositories
	txManager := postgres.NewTxManager(db)
	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	loginCodeRepo := postgres.NewLoginCodeRepository(db)

	// Adapters
	tokenCodec := auth.NewJWTCodec(cfg.JWTSecret)
	codeHasher := auth.NewBcryptCodeHasher(bcryptCost)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mailer.Provider,
		FromAddress: cfg.Mailer.FromAddress,
		FromName:    cfg.Mailer.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mailer.SES.Region,
			AccessKeyID:        cfg.Mailer.SES.AccessKeyID,
			SecretAccessKey:    cfg.Mailer.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.Mailer.SES.InsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	authService := services.NewAuthService(loginCodeRepo, codeHasher, tokenCodec, cfg.TokenExpiry, emailService)
	profileService := services.NewProfileService(profileRepo)
	conferenceService := services.NewConferenceService(txManager, conferenceRepo, profileRepo, emailService)
	registrationService := services.NewRegistrationService(txManager, conferenceRepo, profileRepo)
	queryService := services.NewQueryService(conferenceRepo, profileRepo)
	announcementService := services.NewAnnouncementService(conferenceRepo)

	// HTTP delivery
	mux := deliveryhttp.NewRouter(
		logger,
		tokenCodec,
		controllers.NewAuthController(logger, authService),
		controllers.NewProfileController(logger, profileService),
		controllers.NewConferenceController(logger, conferenceService, queryService, announcementService),
		controllers.NewRegistrationController(logger, registrationService),
	)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
}
