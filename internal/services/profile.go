package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo domain.ProfileRepository
}

// NewProfileService creates a ProfileService with the given repository.
func NewProfileService(profileRepo domain.ProfileRepository) domain.ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) GetProfile(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Never initialized; not an error for profile lookup.
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) SaveProfile(ctx context.Context, identity domain.Identity, form domain.ProfileForm) (*domain.Profile, error) {
	if form.TeeShirtSize != nil && !form.TeeShirtSize.Valid() {
		return nil, fmt.Errorf("%w: unknown tee shirt size %q", domain.ErrInvalidInput, *form.TeeShirtSize)
	}

	now := time.Now()
	profile, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get profile: %w", err)
		}
		profile = domain.NewProfile(identity.UserID, identity.Email, now)
	}

	// Fields absent from the form leave the stored values unchanged, so an
	// explicitly chosen display name is never reverted to the email-derived
	// default by a later save that omits it.
	if form.DisplayName != nil {
		if name := strings.TrimSpace(*form.DisplayName); name != "" {
			profile.DisplayName = name
		}
	}
	if form.TeeShirtSize != nil {
		profile.TeeShirtSize = *form.TeeShirtSize
	}
	profile.UpdatedAt = now

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
