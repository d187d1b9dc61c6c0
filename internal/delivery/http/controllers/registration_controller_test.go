package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testIdentity = domain.Identity{UserID: "u1", Email: "u1@example.com"}

// fakeRegistrationService implements domain.RegistrationService for handler tests.
type fakeRegistrationService struct {
	registerErr   error
	unregisterErr error
	toAttendErr   error
	toAttend      []*domain.Conference
	lastKey       string
}

func (f *fakeRegistrationService) Register(ctx context.Context, identity domain.Identity, websafeKey string) error {
	f.lastKey = websafeKey
	return f.registerErr
}

func (f *fakeRegistrationService) Unregister(ctx context.Context, identity domain.Identity, websafeKey string) error {
	f.lastKey = websafeKey
	return f.unregisterErr
}

func (f *fakeRegistrationService) ConferencesToAttend(ctx context.Context, identity domain.Identity) ([]*domain.Conference, error) {
	if f.toAttendErr != nil {
		return nil, f.toAttendErr
	}
	return f.toAttend, nil
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	return envelope
}

func TestRegistrationController_Register(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"invalid key", domain.ErrInvalidKey, http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
		{"already registered", domain.ErrAlreadyRegistered, http.StatusConflict, helpers.ErrCodeConflict},
		{"sold out", domain.ErrNoSeatsAvailable, http.StatusConflict, helpers.ErrCodeConflict},
		{"storage failure surfaces as forbidden", errors.New("tx deadlock"), http.StatusForbidden, helpers.ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRegistrationService{registerErr: tt.serviceErr}
			ctrl := NewRegistrationController(testLogger, svc)

			req := httptest.NewRequest(http.MethodPost, "http://test/conference/abc/registration", nil)
			req.SetPathValue("websafeConferenceKey", "abc")
			req = req.WithContext(middleware.SetIdentity(req.Context(), testIdentity))
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "abc", svc.lastKey)
			envelope := decodeEnvelope(t, rr)
			if tt.wantCode == "" {
				require.Nil(t, envelope.Error)
				data := envelope.Data.(map[string]any)
				assert.Equal(t, true, data["registered"])
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestRegistrationController_Register_NoIdentity(t *testing.T) {
	ctrl := NewRegistrationController(testLogger, &fakeRegistrationService{})

	req := httptest.NewRequest(http.MethodPost, "http://test/conference/abc/registration", nil)
	req.SetPathValue("websafeConferenceKey", "abc")
	rr := httptest.NewRecorder()

	ctrl.Register(rr, req)

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRegistrationController_Unregister(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"not registered", domain.ErrNotRegistered, http.StatusForbidden, helpers.ErrCodeForbidden},
		{"not found", domain.ErrNotFound, http.StatusNotFound, helpers.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeRegistrationService{unregisterErr: tt.serviceErr}
			ctrl := NewRegistrationController(testLogger, svc)

			req := httptest.NewRequest(http.MethodDelete, "http://test/conference/abc/registration", nil)
			req.SetPathValue("websafeConferenceKey", "abc")
			req = req.WithContext(middleware.SetIdentity(req.Context(), testIdentity))
			rr := httptest.NewRecorder()

			ctrl.Unregister(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			envelope := decodeEnvelope(t, rr)
			if tt.wantCode == "" {
				require.Nil(t, envelope.Error)
				data := envelope.Data.(map[string]any)
				assert.Equal(t, false, data["registered"])
				return
			}
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
		})
	}
}

func TestRegistrationController_ToAttend(t *testing.T) {
	t.Run("returns conferences", func(t *testing.T) {
		svc := &fakeRegistrationService{toAttend: []*domain.Conference{
			{WebsafeKey: "k1", Name: "First"},
			{WebsafeKey: "k2", Name: "Second"},
		}}
		ctrl := NewRegistrationController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "http://test/getConferencesToAttend", nil)
		req = req.WithContext(middleware.SetIdentity(req.Context(), testIdentity))
		rr := httptest.NewRecorder()

		ctrl.ToAttend(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		envelope := decodeEnvelope(t, rr)
		require.Nil(t, envelope.Error)
		data := envelope.Data.([]any)
		require.Len(t, data, 2)
	})

	t.Run("no profile", func(t *testing.T) {
		svc := &fakeRegistrationService{toAttendErr: domain.ErrProfileNotFound}
		ctrl := NewRegistrationController(testLogger, svc)

		req := httptest.NewRequest(http.MethodGet, "http://test/getConferencesToAttend", nil)
		req = req.WithContext(middleware.SetIdentity(req.Context(), testIdentity))
		rr := httptest.NewRecorder()

		ctrl.ToAttend(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}
