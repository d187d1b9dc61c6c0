package services

import (
	"context"
	"errors"
	"testing"

	"conferencecentral/internal/domain"
)

func TestRegistrationService_Register(t *testing.T) {
	identity := domain.Identity{UserID: "u1", Email: "lemoncake@example.com"}

	tests := []struct {
		name      string
		setup     func(cr *mockConferenceRepository, pr *mockProfileRepository) string
		wantErr   error
		wantSeats int
	}{
		{
			name: "books a seat and records the key",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
				seedProfile(pr, "u1", identity.Email)
				return key
			},
			wantSeats: 9,
		},
		{
			name: "last seat can be taken",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 1)
				seedProfile(pr, "u1", identity.Email)
				return key
			},
			wantSeats: 0,
		},
		{
			name: "creates the profile lazily when missing",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				return seedConference(cr, "org1", 1, "GopherCon", 100, 10)
			},
			wantSeats: 9,
		},
		{
			name: "already registered",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
				seedProfile(pr, "u1", identity.Email, key)
				return key
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "sold out",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 0)
				seedProfile(pr, "u1", identity.Email)
				return key
			},
			wantErr: domain.ErrNoSeatsAvailable,
		},
		{
			name: "conference not found",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				seedProfile(pr, "u1", identity.Email)
				return domain.ConferenceKey{OrganizerUserID: "org1", ID: 99}.Encode()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := &mockConferenceRepository{}
			pr := &mockProfileRepository{}
			tx := &mockTransactor{}
			key := tt.setup(cr, pr)
			svc := NewRegistrationService(tx, cr, pr)

			err := svc.Register(context.Background(), identity, key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if len(pr.saved) != 0 {
					t.Fatalf("profile must not be saved on failure")
				}
				if len(cr.seatUpdates) != 0 {
					t.Fatalf("seats must not be updated on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tx.calls != 1 {
				t.Fatalf("expected 1 transaction, got %d", tx.calls)
			}
			if got := cr.seatUpdates[key]; got != tt.wantSeats {
				t.Fatalf("expected %d seats, got %d", tt.wantSeats, got)
			}
			profile := pr.profiles["u1"]
			if profile == nil || !profile.Attending(key) {
				t.Fatalf("expected key in attend-list")
			}
		})
	}
}

func TestRegistrationService_Register_InvalidKey(t *testing.T) {
	svc := NewRegistrationService(&mockTransactor{}, &mockConferenceRepository{}, &mockProfileRepository{})

	err := svc.Register(context.Background(), domain.Identity{UserID: "u1"}, "not!!a//key")
	if !errors.Is(err, domain.ErrInvalidKey) {
		t.Fatalf("expected ErrInvalidKey, got %v", err)
	}
}

func TestRegistrationService_Register_LazyProfileDefaults(t *testing.T) {
	cr := &mockConferenceRepository{}
	pr := &mockProfileRepository{}
	key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
	svc := NewRegistrationService(&mockTransactor{}, cr, pr)

	identity := domain.Identity{UserID: "u1", Email: "lemoncake@example.com"}
	if err := svc.Register(context.Background(), identity, key); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	profile := pr.profiles["u1"]
	if profile == nil {
		t.Fatalf("expected profile to be created")
	}
	if profile.DisplayName != "lemoncake" {
		t.Fatalf("expected display name from email local-part, got %q", profile.DisplayName)
	}
	if profile.TeeShirtSize != domain.SizeNotSpecified {
		t.Fatalf("expected default tee shirt size, got %q", profile.TeeShirtSize)
	}
}

func TestRegistrationService_Unregister(t *testing.T) {
	identity := domain.Identity{UserID: "u1", Email: "lemoncake@example.com"}

	tests := []struct {
		name      string
		setup     func(cr *mockConferenceRepository, pr *mockProfileRepository) string
		wantErr   error
		wantSeats int
	}{
		{
			name: "releases the seat and removes the key",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
				seedProfile(pr, "u1", identity.Email, key)
				return key
			},
			wantSeats: 11,
		},
		{
			name: "seat release clamps at capacity",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 100)
				seedProfile(pr, "u1", identity.Email, key)
				return key
			},
			wantSeats: 100,
		},
		{
			name: "not registered",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
				seedProfile(pr, "u1", identity.Email)
				return key
			},
			wantErr: domain.ErrNotRegistered,
		},
		{
			name: "conference not found",
			setup: func(cr *mockConferenceRepository, pr *mockProfileRepository) string {
				seedProfile(pr, "u1", identity.Email)
				return domain.ConferenceKey{OrganizerUserID: "org1", ID: 99}.Encode()
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cr := &mockConferenceRepository{}
			pr := &mockProfileRepository{}
			key := tt.setup(cr, pr)
			svc := NewRegistrationService(&mockTransactor{}, cr, pr)

			err := svc.Unregister(context.Background(), identity, key)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := cr.seatUpdates[key]; got != tt.wantSeats {
				t.Fatalf("expected %d seats, got %d", tt.wantSeats, got)
			}
			profile := pr.profiles["u1"]
			if profile.Attending(key) {
				t.Fatalf("expected key removed from attend-list")
			}
		})
	}
}

func TestRegistrationService_RegisterThenUnregisterRoundTrip(t *testing.T) {
	cr := &mockConferenceRepository{}
	pr := &mockProfileRepository{}
	key := seedConference(cr, "org1", 1, "GopherCon", 100, 10)
	seedProfile(pr, "u1", "u1@example.com")
	svc := NewRegistrationService(&mockTransactor{}, cr, pr)
	identity := domain.Identity{UserID: "u1", Email: "u1@example.com"}

	if err := svc.Register(context.Background(), identity, key); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Unregister(context.Background(), identity, key); err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if got := cr.conferences[key].SeatsAvailable; got != 10 {
		t.Fatalf("expected seats restored to 10, got %d", got)
	}
	if pr.profiles["u1"].Attending(key) {
		t.Fatalf("expected attend-list restored")
	}
}

func TestRegistrationService_ConferencesToAttend(t *testing.T) {
	cr := &mockConferenceRepository{}
	pr := &mockProfileRepository{}
	key1 := seedConference(cr, "org1", 1, "First", 100, 10)
	key2 := seedConference(cr, "org2", 2, "Second", 50, 5)
	key3 := seedConference(cr, "org1", 3, "Third", 20, 0)
	seedProfile(pr, "u1", "u1@example.com", key1, key2, key3)
	svc := NewRegistrationService(&mockTransactor{}, cr, pr)

	got, err := svc.ConferencesToAttend(context.Background(), domain.Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 conferences, got %d", len(got))
	}
	// Registration order is preserved even if storage returns another order.
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Name != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, got[i].Name)
		}
	}
}

func TestRegistrationService_ConferencesToAttend_SkipsMissing(t *testing.T) {
	cr := &mockConferenceRepository{}
	pr := &mockProfileRepository{}
	key1 := seedConference(cr, "org1", 1, "First", 100, 10)
	gone := domain.ConferenceKey{OrganizerUserID: "org9", ID: 9}.Encode()
	seedProfile(pr, "u1", "u1@example.com", key1, gone, "garbage-key")
	svc := NewRegistrationService(&mockTransactor{}, cr, pr)

	got, err := svc.ConferencesToAttend(context.Background(), domain.Identity{UserID: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "First" {
		t.Fatalf("expected only the surviving conference, got %d results", len(got))
	}
}

func TestRegistrationService_ConferencesToAttend_NoProfile(t *testing.T) {
	svc := NewRegistrationService(&mockTransactor{}, &mockConferenceRepository{}, &mockProfileRepository{})

	_, err := svc.ConferencesToAttend(context.Background(), domain.Identity{UserID: "nobody"})
	if !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}
