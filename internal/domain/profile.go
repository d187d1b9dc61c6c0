package domain

import (
	"context"
	"strings"
	"time"
)

// TeeShirtSize is the fixed set of tee shirt sizes a profile may carry.
type TeeShirtSize string

const (
	SizeNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	SizeXS           TeeShirtSize = "XS"
	SizeS            TeeShirtSize = "S"
	SizeM            TeeShirtSize = "M"
	SizeL            TeeShirtSize = "L"
	SizeXL           TeeShirtSize = "XL"
	SizeXXL          TeeShirtSize = "XXL"
	SizeXXXL         TeeShirtSize = "XXXL"
)

// Valid reports whether s is one of the known sizes.
func (s TeeShirtSize) Valid() bool {
	switch s {
	case SizeNotSpecified, SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, SizeXXXL:
		return true
	}
	return false
}

// Profile is the per-user record of identity, display preferences, and the
// conferences the user will attend.
// swagger:model Profile
type Profile struct {
	UserID                 string       `json:"user_id"`
	DisplayName            string       `json:"display_name"`
	MainEmail              string       `json:"main_email"`
	TeeShirtSize           TeeShirtSize `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string     `json:"conference_keys_to_attend"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// NewProfile returns a Profile with default values for the given identity.
// The display name falls back to the email local-part.
func NewProfile(userID, email string, createdAt time.Time) *Profile {
	return &Profile{
		UserID:                 userID,
		DisplayName:            DisplayNameFromEmail(email),
		MainEmail:              email,
		TeeShirtSize:           SizeNotSpecified,
		ConferenceKeysToAttend: []string{},
		CreatedAt:              createdAt,
		UpdatedAt:              createdAt,
	}
}

// DisplayNameFromEmail derives the default display name from the email
// local-part ("lemoncake@example.com" becomes "lemoncake").
func DisplayNameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}

// Attending reports whether websafeKey is present in the attend-list.
func (p *Profile) Attending(websafeKey string) bool {
	for _, k := range p.ConferenceKeysToAttend {
		if k == websafeKey {
			return true
		}
	}
	return false
}

// AddConferenceKey appends websafeKey to the attend-list. The caller must
// have checked Attending first; duplicates are not added.
func (p *Profile) AddConferenceKey(websafeKey string) {
	if p.Attending(websafeKey) {
		return
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, websafeKey)
}

// RemoveConferenceKey removes websafeKey from the attend-list, preserving
// the order of the remaining keys. Returns false if the key was not present.
func (p *Profile) RemoveConferenceKey(websafeKey string) bool {
	for i, k := range p.ConferenceKeysToAttend {
		if k == websafeKey {
			p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend[:i], p.ConferenceKeysToAttend[i+1:]...)
			return true
		}
	}
	return false
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetByUserIDForUpdate loads the profile with a row lock. Only valid
	// inside a transaction started by a Transactor.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*Profile, error)
	// Save upserts the profile keyed by UserID.
	Save(ctx context.Context, p *Profile) error
	// ListByUserIDs returns the profiles for the given user IDs in one
	// query. Missing IDs are simply absent from the result.
	ListByUserIDs(ctx context.Context, userIDs []string) ([]*Profile, error)
}

// ProfileService defines profile lookup and upsert operations.
type ProfileService interface {
	// GetProfile returns the caller's profile, or nil if never initialized.
	GetProfile(ctx context.Context, identity Identity) (*Profile, error)
	// SaveProfile creates or updates the caller's profile. Nil fields in
	// the form leave the stored value unchanged.
	SaveProfile(ctx context.Context, identity Identity, form ProfileForm) (*Profile, error)
}

// ProfileForm carries the caller-editable profile fields. Nil means "not
// supplied".
type ProfileForm struct {
	DisplayName  *string
	TeeShirtSize *TeeShirtSize
}
