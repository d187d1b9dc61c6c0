package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// SaveProfileRequest is the request body for POST /profile. Both fields are optional;
// an absent field leaves the stored value unchanged.
type SaveProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	TeeShirtSize *string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (s SaveProfileRequest) Validate() []string {
	var errs []string
	if s.DisplayName != nil && strings.TrimSpace(*s.DisplayName) == "" {
		errs = append(errs, "display_name cannot be empty")
	}
	if s.TeeShirtSize != nil && !domain.TeeShirtSize(*s.TeeShirtSize).Valid() {
		errs = append(errs, "unknown tee_shirt_size")
	}
	return errs
}

// ProfileSuccessResponse is the success response envelope for profile endpoints.
type ProfileSuccessResponse struct {
	Data  *domain.Profile   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ProfileController handles profile endpoints.
type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

// NewProfileController creates a ProfileController with the given logger and service.
func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// Get godoc
// @Summary Get the caller's profile
// @Description Returns the authenticated caller's profile, or null when the profile was never initialized.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the profile or null"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	profile, err := c.Service.GetProfile(r.Context(), identity)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// Save godoc
// @Summary Create or update the caller's profile
// @Description Upserts the authenticated caller's profile. Absent fields keep their stored values; a first save creates the profile with defaults for absent fields.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SaveProfileRequest true "Fields to update (display_name and/or tee_shirt_size, both optional)"
// @Success 200 {object} controllers.ProfileSuccessResponse "data contains the saved profile"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [post]
func (c *ProfileController) Save(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req SaveProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	form := domain.ProfileForm{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		form.DisplayName = &name
	}
	if req.TeeShirtSize != nil {
		size := domain.TeeShirtSize(*req.TeeShirtSize)
		form.TeeShirtSize = &size
	}
	profile, err := c.Service.SaveProfile(r.Context(), identity, form)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
