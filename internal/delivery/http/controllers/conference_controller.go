package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// CreateConferenceRequest is the request body for POST /conference
type CreateConferenceRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	City         string     `json:"city"`
	Topics       []string   `json:"topics"`
	Month        int        `json:"month"`
	MaxAttendees int        `json:"max_attendees"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// Validate implements Validator.
func (c CreateConferenceRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if c.Month < 0 || c.Month > 12 {
		errs = append(errs, "month must be between 1 and 12")
	}
	if c.MaxAttendees < 0 {
		errs = append(errs, "max_attendees cannot be negative")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		errs = append(errs, "end_date cannot be before start_date")
	}
	return errs
}

func (c CreateConferenceRequest) toForm() domain.ConferenceForm {
	return domain.ConferenceForm{
		Name:         strings.TrimSpace(c.Name),
		Description:  c.Description,
		City:         c.City,
		Topics:       c.Topics,
		Month:        c.Month,
		MaxAttendees: c.MaxAttendees,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
	}
}

// QueryConferencesRequest is the request body for POST /queryConferences
type QueryConferencesRequest struct {
	Filters    []domain.QueryFilter `json:"filters"`
	SortOrders []domain.QuerySort   `json:"sort_orders"`
}

// AnnouncementResponse is the response body for GET /announcement
type AnnouncementResponse struct {
	Announcement string `json:"announcement"`
}

// ConferenceSuccessResponse is the success response envelope for single-conference endpoints.
type ConferenceSuccessResponse struct {
	Data  *domain.Conference `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ConferenceListSuccessResponse is the success response envelope for conference list endpoints.
type ConferenceListSuccessResponse struct {
	Data  []*domain.Conference `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// AnnouncementSuccessResponse is the success response envelope for GET /announcement.
type AnnouncementSuccessResponse struct {
	Data  AnnouncementResponse `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// ConferenceController handles conference creation, lookup, and query endpoints.
type ConferenceController struct {
	Logger        *slog.Logger
	Service       domain.ConferenceService
	Queries       domain.QueryService
	Announcements domain.AnnouncementService
}

// NewConferenceController creates a ConferenceController with the given logger and services.
func NewConferenceController(
	logger *slog.Logger,
	svc domain.ConferenceService,
	queries domain.QueryService,
	announcements domain.AnnouncementService,
) *ConferenceController {
	return &ConferenceController{
		Logger:        logger,
		Service:       svc,
		Queries:       queries,
		Announcements: announcements,
	}
}

// Create godoc
// @Summary Create a conference
// @Description Create a conference owned by the caller. Seats available starts at max_attendees. The caller's profile is created with defaults if it does not exist yet.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse "data contains the created conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference [post]
func (c *ConferenceController) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conference, err := c.Service.CreateConference(r.Context(), identity, req.toForm())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conference)
}

// Get godoc
// @Summary Get a conference
// @Description Resolve a websafe conference key to the conference.
// @Tags conferences
// @Produce json
// @Param websafeConferenceKey path string true "Websafe conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse "data contains the conference"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed key)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey} [get]
func (c *ConferenceController) Get(w http.ResponseWriter, r *http.Request) {
	websafeKey := r.PathValue("websafeConferenceKey")
	conference, err := c.Service.GetConference(r.Context(), websafeKey)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidKey) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid conference key")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "no conference found with key: "+websafeKey)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conference)
}

// Created godoc
// @Summary List conferences created by the caller
// @Description Returns conferences organized by the authenticated caller, ordered by name.
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse "data contains the conferences"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /getConferencesCreated [post]
func (c *ConferenceController) Created(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conferences, err := c.Service.ConferencesCreated(r.Context(), identity)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Query godoc
// @Summary Query conferences
// @Description Run a filtered and sorted conference query. Filter fields: CITY, TOPIC, MONTH, MAX_ATTENDEES, SEATS_AVAILABLE. Operators: EQ, NE, GT, GTEQ, LT, LTEQ (TOPIC supports EQ only). Results include organizer display names. Supports page and page_size query parameters.
// @Tags conferences
// @Accept json
// @Produce json
// @Param body body QueryConferencesRequest true "Query filters and sort orders"
// @Success 200 {object} controllers.ConferenceListSuccessResponse "data contains the conferences"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /queryConferences [post]
func (c *ConferenceController) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryConferencesRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	q := domain.ConferenceQuery{Filters: req.Filters, SortOrders: req.SortOrders}
	page := helpers.ParsePagination(r)
	conferences, err := c.Queries.QueryConferences(r.Context(), q, page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Filtered godoc
// @Summary List conferences matching the showcase filter set
// @Description Returns conferences with more than 10 attendees, in London, about Web Technologies, in January, ordered by capacity then name.
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.ConferenceListSuccessResponse "data contains the conferences"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /getConferencesFiltered [post]
func (c *ConferenceController) Filtered(w http.ResponseWriter, r *http.Request) {
	conferences, err := c.Queries.ConferencesFiltered(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conferences)
}

// Announcement godoc
// @Summary Get the current announcement
// @Description Returns the cached "nearly sold out" announcement, or an empty string when no conference is nearly sold out.
// @Tags conferences
// @Produce json
// @Success 200 {object} controllers.AnnouncementSuccessResponse "data contains the announcement text"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /announcement [get]
func (c *ConferenceController) Announcement(w http.ResponseWriter, r *http.Request) {
	announcement, err := c.Announcements.Announcement(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, AnnouncementResponse{Announcement: announcement})
}
