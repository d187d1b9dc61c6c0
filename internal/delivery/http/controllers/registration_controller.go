package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// RegistrationResponse is the response body for registration endpoints.
type RegistrationResponse struct {
	Registered bool `json:"registered"`
}

// RegistrationSuccessResponse is the success response envelope for registration endpoints.
type RegistrationSuccessResponse struct {
	Data  RegistrationResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// RegistrationController handles seat registration endpoints.
type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

// NewRegistrationController creates a RegistrationController with the given logger and service.
func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register for a conference
// @Description Books one seat in the conference for the caller and records it in the caller's attend-list. Seat decrement and attend-list update happen atomically.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data.registered is true"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed key)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or no seats available)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/registration [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	websafeKey := r.PathValue("websafeConferenceKey")
	if err := c.Service.Register(r.Context(), identity, websafeKey); err != nil {
		c.writeRegistrationError(w, r, websafeKey, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationResponse{Registered: true})
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Releases the caller's seat and removes the conference from the attend-list. Seat increment and attend-list update happen atomically.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data.registered is false"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed key)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not registered)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/registration [delete]
func (c *RegistrationController) Unregister(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	websafeKey := r.PathValue("websafeConferenceKey")
	if err := c.Service.Unregister(r.Context(), identity, websafeKey); err != nil {
		c.writeRegistrationError(w, r, websafeKey, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, RegistrationResponse{Registered: false})
}

// ToAttend godoc
// @Summary List conferences the caller will attend
// @Description Returns the caller's registered conferences in registration order.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse "data contains the conferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no profile)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /getConferencesToAttend [get]
func (c *RegistrationController) ToAttend(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conferences, err := c.Service.ConferencesToAttend(r.Context(), identity)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "profile doesn't exist")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// writeRegistrationError maps registration errors to HTTP responses. An
// unexpected transaction failure surfaces as a generic 403 rather than
// leaking storage details to the caller.
func (c *RegistrationController) writeRegistrationError(w http.ResponseWriter, r *http.Request, websafeKey string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidKey):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conference key")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no conference found with key: "+websafeKey)
	case errors.Is(err, domain.ErrAlreadyRegistered):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already registered")
	case errors.Is(err, domain.ErrNoSeatsAvailable):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "no seats available")
	case errors.Is(err, domain.ErrNotRegistered):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not registered for this conference")
	default:
		c.Logger.ErrorContext(r.Context(), "registration failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "registration could not be completed")
	}
}
