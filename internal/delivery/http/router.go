package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	conferenceController *controllers.ConferenceController,
	registrationController *controllers.RegistrationController,
) *http.ServeMux {
	mux := http.NewServeMux()
	requireAuth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/login-code", authController.RequestLoginCode)
	mux.HandleFunc("POST /auth/login", authController.Login)

	// Profile
	mux.HandleFunc("GET /profile", requireAuth(profileController.Get))
	mux.HandleFunc("POST /profile", requireAuth(profileController.Save))

	// Conferences
	mux.HandleFunc("POST /conference", requireAuth(conferenceController.Create))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}", conferenceController.Get)
	mux.HandleFunc("POST /getConferencesCreated", requireAuth(conferenceController.Created))
	mux.HandleFunc("POST /queryConferences", conferenceController.Query)
	mux.HandleFunc("POST /getConferencesFiltered", conferenceController.Filtered)
	mux.HandleFunc("GET /announcement", conferenceController.Announcement)

	// Registration
	mux.HandleFunc("POST /conference/{websafeConferenceKey}/registration", requireAuth(registrationController.Register))
	mux.HandleFunc("DELETE /conference/{websafeConferenceKey}/registration", requireAuth(registrationController.Unregister))
	mux.HandleFunc("GET /getConferencesToAttend", requireAuth(registrationController.ToAttend))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
