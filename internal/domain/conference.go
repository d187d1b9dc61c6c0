package domain

import (
	"context"
	"time"
)

// Conference is a persisted listing with capacity tracking, owned by its
// creator's profile.
// swagger:model Conference
type Conference struct {
	ID               int64     `json:"-"`
	WebsafeKey       string    `json:"websafe_key"`
	OrganizerUserID  string    `json:"organizer_user_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	City             string    `json:"city"`
	Topics           []string  `json:"topics"`
	Month            int       `json:"month"`
	MaxAttendees     int       `json:"max_attendees"`
	SeatsAvailable   int       `json:"seats_available"`
	StartDate        *time.Time `json:"start_date"`
	EndDate          *time.Time `json:"end_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// OrganizerDisplayName is filled by query operations that pre-fetch
	// organizer profiles for display. Not persisted on the conference row.
	OrganizerDisplayName string `json:"organizer_display_name,omitempty"`
}

// Key returns the structured key for the conference.
func (c *Conference) Key() ConferenceKey {
	return ConferenceKey{OrganizerUserID: c.OrganizerUserID, ID: c.ID}
}

// BookSeat decrements SeatsAvailable by one. The caller must have checked
// availability; SeatsAvailable never goes below zero.
func (c *Conference) BookSeat() {
	if c.SeatsAvailable > 0 {
		c.SeatsAvailable--
	}
}

// ReleaseSeat increments SeatsAvailable by one, clamped at MaxAttendees so
// a release can never push availability past capacity.
func (c *Conference) ReleaseSeat() {
	if c.SeatsAvailable < c.MaxAttendees {
		c.SeatsAvailable++
	}
}

// ConferenceForm carries caller input for creating a conference.
type ConferenceForm struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	City         string     `json:"city"`
	Topics       []string   `json:"topics"`
	Month        int        `json:"month"`
	MaxAttendees int        `json:"max_attendees"`
	StartDate    *time.Time `json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	// Create inserts the conference and sets its store-generated ID.
	Create(ctx context.Context, c *Conference) error
	GetByKey(ctx context.Context, key ConferenceKey) (*Conference, error)
	// GetByKeyForUpdate loads the conference with a row lock. Only valid
	// inside a transaction started by a Transactor.
	GetByKeyForUpdate(ctx context.Context, key ConferenceKey) (*Conference, error)
	// UpdateSeatsAvailable persists a new seat count for the conference.
	UpdateSeatsAvailable(ctx context.Context, key ConferenceKey, seatsAvailable int) error
	// ListByKeys returns the conferences for the given keys in one query.
	// Keys with no matching row are absent from the result.
	ListByKeys(ctx context.Context, keys []ConferenceKey) ([]*Conference, error)
	// ListByOrganizer returns conferences created by the user, ordered by name.
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	// Query executes a filtered and sorted conference query.
	Query(ctx context.Context, q ConferenceQuery, page PaginationParams) ([]*Conference, error)
}

// Transactor bounds a function to a single storage transaction. The context
// passed to fn carries the transaction; repository calls made with it
// observe a consistent snapshot and commit or roll back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ConferenceService defines conference creation and lookup operations.
type ConferenceService interface {
	// CreateConference builds and persists a conference owned by the
	// caller's profile, creating the profile with defaults if needed.
	CreateConference(ctx context.Context, identity Identity, form ConferenceForm) (*Conference, error)
	// GetConference resolves a websafe key to its conference.
	GetConference(ctx context.Context, websafeKey string) (*Conference, error)
	// ConferencesCreated returns conferences organized by the caller.
	ConferencesCreated(ctx context.Context, identity Identity) ([]*Conference, error)
}

// RegistrationService performs the transactional seat booking operations.
type RegistrationService interface {
	// Register books one seat in the conference for the caller and records
	// the key in the caller's attend-list, atomically.
	Register(ctx context.Context, identity Identity, websafeKey string) error
	// Unregister releases the caller's seat and removes the key from the
	// attend-list, atomically.
	Unregister(ctx context.Context, identity Identity, websafeKey string) error
	// ConferencesToAttend returns the caller's conferences in attend-list
	// order.
	ConferencesToAttend(ctx context.Context, identity Identity) ([]*Conference, error)
}
