package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type registrationService struct {
	tx             domain.Transactor
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
}

// NewRegistrationService creates a RegistrationService with the given
// transactor and repositories.
func NewRegistrationService(
	tx domain.Transactor,
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
) domain.RegistrationService {
	return &registrationService{
		tx:             tx,
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
	}
}

// Register books one seat for the caller. Both the conference row and the
// profile row are locked and updated inside a single transaction, so
// concurrent attempts at the last seat serialize and exactly one wins.
func (s *registrationService) Register(ctx context.Context, identity domain.Identity, websafeKey string) error {
	key, err := domain.DecodeConferenceKey(websafeKey)
	if err != nil {
		return err
	}
	canonical := key.Encode()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conference, err := s.conferenceRepo.GetByKeyForUpdate(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get conference: %w", err)
		}

		profile, err := s.profileForUpdate(ctx, identity)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		// Checks run inside the transaction so they observe a consistent
		// snapshot of both records.
		if profile.Attending(canonical) {
			return domain.ErrAlreadyRegistered
		}
		if conference.SeatsAvailable <= 0 {
			return domain.ErrNoSeatsAvailable
		}

		profile.AddConferenceKey(canonical)
		conference.BookSeat()
		profile.UpdatedAt = time.Now()

		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if err := s.conferenceRepo.UpdateSeatsAvailable(ctx, key, conference.SeatsAvailable); err != nil {
			return fmt.Errorf("update seats: %w", err)
		}
		return nil
	})
}

// Unregister releases the caller's seat, the exact inverse of Register.
func (s *registrationService) Unregister(ctx context.Context, identity domain.Identity, websafeKey string) error {
	key, err := domain.DecodeConferenceKey(websafeKey)
	if err != nil {
		return err
	}
	canonical := key.Encode()

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		conference, err := s.conferenceRepo.GetByKeyForUpdate(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get conference: %w", err)
		}

		profile, err := s.profileForUpdate(ctx, identity)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}

		if !profile.RemoveConferenceKey(canonical) {
			return domain.ErrNotRegistered
		}
		conference.ReleaseSeat()
		profile.UpdatedAt = time.Now()

		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		if err := s.conferenceRepo.UpdateSeatsAvailable(ctx, key, conference.SeatsAvailable); err != nil {
			return fmt.Errorf("update seats: %w", err)
		}
		return nil
	})
}

func (s *registrationService) ConferencesToAttend(ctx context.Context, identity domain.Identity) ([]*domain.Conference, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	keys := make([]domain.ConferenceKey, 0, len(profile.ConferenceKeysToAttend))
	for _, websafe := range profile.ConferenceKeysToAttend {
		key, err := domain.DecodeConferenceKey(websafe)
		if err != nil {
			// Undecodable entry in a stored attend-list; skip defensively.
			continue
		}
		keys = append(keys, key)
	}

	conferences, err := s.conferenceRepo.ListByKeys(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("list conferences: %w", err)
	}
	byKey := make(map[string]*domain.Conference, len(conferences))
	for _, c := range conferences {
		byKey[c.WebsafeKey] = c
	}

	// Return conferences in attend-list order. Keys whose conference no
	// longer exists are skipped.
	ordered := make([]*domain.Conference, 0, len(keys))
	for _, key := range keys {
		if c, ok := byKey[key.Encode()]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

// profileForUpdate loads the caller's profile with a row lock, or returns a
// new in-memory profile with defaults when none exists yet.
func (s *registrationService) profileForUpdate(ctx context.Context, identity domain.Identity) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByUserIDForUpdate(ctx, identity.UserID)
	if err == nil {
		return profile, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewProfile(identity.UserID, identity.Email, time.Now()), nil
	}
	return nil, err
}
